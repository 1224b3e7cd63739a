package saveslot

import "errors"

// Sentinel errors returned by saveslot internals.
//
// The engine's public save/load surface reports outcomes as booleans plus
// notifications (see [Engine]); these sentinels surface through the
// error-returning helpers ([Engine.ListSlotNames], the typed codec helpers)
// and through logs. Callers should use [errors.Is] to check error types.
var (
	// ErrNotFound indicates that neither the save file nor its archive
	// copy exists on disk.
	ErrNotFound = errors.New("saveslot: save file not found")

	// ErrDigestMismatch indicates the integrity checksum of a save file
	// does not match its body. The file was tampered with or corrupted.
	//
	// The in-memory bucket is never touched when this is returned.
	ErrDigestMismatch = errors.New("saveslot: digest mismatch")

	// ErrDecrypt indicates ciphertext could not be decrypted: wrong
	// password, truncated payload, or garbage bytes.
	ErrDecrypt = errors.New("saveslot: decrypt failed")

	// ErrCorrupt indicates a save file's text payload is malformed
	// (missing digest line or invalid JSON body).
	ErrCorrupt = errors.New("saveslot: corrupt save file")

	// ErrNoSaveFiles indicates a slot directory exists on disk but
	// contains no save files to load.
	ErrNoSaveFiles = errors.New("saveslot: slot has no save files")

	// ErrNoActiveSlot indicates an active-slot operation was invoked
	// while no active slot is set.
	ErrNoActiveSlot = errors.New("saveslot: no active slot set")

	// ErrInvalidName indicates a slot or file name is empty, contains a
	// path separator, or collides with the reserved archive directory.
	ErrInvalidName = errors.New("saveslot: invalid name")

	// ErrKeyNotFound indicates a cache key is absent from the requested
	// bucket.
	ErrKeyNotFound = errors.New("saveslot: key not found")

	// ErrClosed indicates the engine has been torn down.
	//
	// This is a programming error: tear down only after the last use.
	ErrClosed = errors.New("saveslot: engine closed")
)
