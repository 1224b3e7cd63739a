package saveslot

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/saveslot/saveslot/pkg/fsx"
)

// Engine orchestrates the cache, digest, cipher and archive layers into
// named save/load operations and owns the observer registry.
//
// An Engine holds process-visible mutable state with no internal locking;
// callers must serialize access (typically by confining all calls to one
// goroutine). Construct one with [New] and release it with
// [Engine.Teardown].
type Engine struct {
	settings Settings
	store    *Store
	arch     *archiver
	events   *notifier
	codec    Codec
	log      zerolog.Logger
	closed   bool
}

// Option configures an [Engine] at construction time.
type Option func(*engineOptions)

type engineOptions struct {
	fsys   fsx.FS
	codec  Codec
	logger *zerolog.Logger
}

// WithFS replaces the filesystem implementation. Used by tests to inject
// failures; production code uses the default [fsx.Real].
func WithFS(fsys fsx.FS) Option {
	return func(o *engineOptions) {
		o.fsys = fsys
	}
}

// WithCodec replaces the typed-value codec used by the Put/Fetch helpers.
// The default is [JSONCodec].
func WithCodec(codec Codec) Option {
	return func(o *engineOptions) {
		o.codec = codec
	}
}

// WithLogger replaces the logger built from [Settings].
func WithLogger(log zerolog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = &log
	}
}

// New creates an Engine rooted at the given storage directory. The host
// supplies root as an absolute path; the engine creates
// <root>/<RootFolder>/ and its Archive subdirectory.
func New(root string, settings Settings, opts ...Option) (*Engine, error) {
	if root == "" {
		return nil, errors.New("saveslot: storage root is empty")
	}

	settings = settings.normalize()

	if err := validateName(settings.RootFolder); err != nil {
		return nil, fmt.Errorf("root folder: %w", err)
	}

	if err := validateName(settings.DefaultFileName); err != nil {
		return nil, fmt.Errorf("default file name: %w", err)
	}

	var cfg engineOptions
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.fsys == nil {
		cfg.fsys = fsx.NewReal()
	}

	if cfg.codec == nil {
		cfg.codec = JSONCodec{}
	}

	baseDir := filepath.Join(root, settings.RootFolder)

	log := newLogger(settings, baseDir)
	if cfg.logger != nil {
		log = *cfg.logger
	}

	arch := newArchiver(cfg.fsys, baseDir)

	if err := cfg.fsys.MkdirAll(arch.archiveDir, saveDirPerms); err != nil {
		return nil, fmt.Errorf("saveslot: create storage dirs: %w", err)
	}

	log.Debug().Str("base_dir", baseDir).Msg("engine initialized")

	return &Engine{
		settings: settings,
		store:    NewStore(),
		arch:     arch,
		events:   newNotifier(),
		codec:    cfg.codec,
		log:      log,
	}, nil
}

// Store returns the engine's in-memory cache.
func (e *Engine) Store() *Store {
	return e.store
}

// Settings returns a copy of the engine's configuration.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Subscribe registers an observer for all engine notifications and
// returns a func that unsubscribes it. Dispatch is synchronous, on the
// calling goroutine, in subscription order.
func (e *Engine) Subscribe(fn Observer) func() {
	return e.events.subscribe(fn)
}

// ListSlotNames enumerates the slot subdirectories of the storage root on
// disk, excluding the reserved archive directory.
func (e *Engine) ListSlotNames() ([]string, error) {
	if e.closed {
		return nil, ErrClosed
	}

	return e.arch.ListSlotDirs()
}

// ListSlotFiles enumerates the save artifacts of a slot directory on
// disk, without their extension.
func (e *Engine) ListSlotFiles(slot string) ([]string, error) {
	if e.closed {
		return nil, ErrClosed
	}

	if err := validateName(slot); err != nil {
		return nil, err
	}

	return e.arch.ListSlotFiles(slot)
}

// Teardown marks the engine closed and releases its in-memory state. Disk
// contents persist. Unsaved changes are lost: callers must save before
// tearing down.
func (e *Engine) Teardown() {
	if e.closed {
		return
	}

	e.closed = true
	e.store.ClearAll()
	e.store.setActive("")
	e.log.Debug().Msg("engine torn down")
}

// Closed reports whether [Engine.Teardown] has been called.
func (e *Engine) Closed() bool {
	return e.closed
}

// --- Per-operation options ---

// OpOption configures a single save/load call.
type OpOption func(*opConfig)

type opConfig struct {
	silent bool
}

// Silent suppresses the completion notification of the call it is passed
// to. Aggregate operations use it internally so that exactly one
// notification fires per aggregate.
func Silent() OpOption {
	return func(c *opConfig) {
		c.silent = true
	}
}

func applyOpOptions(opts []OpOption) opConfig {
	var cfg opConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// --- Outcome reporting ---

// finish converts an internal error into the public bool outcome: it logs
// the result and broadcasts the success or failure event unless
// suppressed. No error crosses the save/load surface.
func (e *Engine) finish(op string, success, failure Event, err error, opts []OpOption) bool {
	cfg := applyOpOptions(opts)

	if err != nil {
		e.log.Error().Err(err).Str("op", op).Msg("operation failed")

		if !cfg.silent {
			e.events.publish(Notification{Event: failure})
		}

		return false
	}

	e.log.Debug().Str("op", op).Msg("operation complete")

	if !cfg.silent {
		e.events.publish(Notification{Event: success})
	}

	return true
}

// finishBool is finish for aggregates whose sub-operations already logged
// their individual errors.
func (e *Engine) finishBool(op string, success, failure Event, ok bool, opts []OpOption) bool {
	cfg := applyOpOptions(opts)

	if !ok {
		e.log.Error().Str("op", op).Msg("one or more sub-operations failed")

		if !cfg.silent {
			e.events.publish(Notification{Event: failure})
		}

		return false
	}

	e.log.Debug().Str("op", op).Msg("operation complete")

	if !cfg.silent {
		e.events.publish(Notification{Event: success})
	}

	return true
}

// --- Payload pipeline ---

// encodePayload serializes a bucket for disk: JSON body, optional digest
// line, optional encryption.
func (e *Engine) encodePayload(bucket map[string]string) ([]byte, error) {
	body, err := json.Marshal(bucket)
	if err != nil {
		return nil, fmt.Errorf("marshal bucket: %w", err)
	}

	payload := body
	if e.settings.HashEnabled {
		payload = attachDigest(body)
	}

	if e.settings.EncryptionEnabled {
		payload, err = encrypt(payload, e.settings.Password)
		if err != nil {
			return nil, err
		}
	}

	return payload, nil
}

// decodePayload reverses [Engine.encodePayload]. Verification happens
// before any bucket mutation: the caller only receives a map once the
// digest checks out.
func (e *Engine) decodePayload(data []byte) (map[string]string, error) {
	var err error

	if e.settings.EncryptionEnabled {
		data, err = decrypt(data, e.settings.Password)
		if err != nil {
			return nil, err
		}
	}

	if e.settings.HashEnabled {
		digest, body, err := splitDigest(data)
		if err != nil {
			return nil, err
		}

		if !digestVerify(body, digest) {
			return nil, ErrDigestMismatch
		}

		data = body
	}

	bucket := make(map[string]string)
	if err := json.Unmarshal(data, &bucket); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	return bucket, nil
}

// --- Relative artifact names ---

func (e *Engine) relDefault() string {
	return e.settings.DefaultFileName
}

func relSlotFile(slot, file string) string {
	return slot + "/" + file
}

// validateName rejects names that would escape the storage layout: empty
// strings, path separators, dot traversal, and the reserved archive
// directory name.
func validateName(name string) error {
	switch {
	case name == "",
		name == "." || name == "..",
		strings.ContainsAny(name, `/\`),
		name == ArchiveDirName:
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return nil
}
