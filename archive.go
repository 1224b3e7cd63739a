package saveslot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/saveslot/saveslot/pkg/fsx"
)

// On-disk layout constants.
const (
	// SaveExt is the extension of primary save artifacts.
	SaveExt = ".save"

	// ArchiveExt is the extension of archived prior generations.
	ArchiveExt = ".bkp"

	// ArchiveDirName is the reserved directory holding archived files.
	// It is never enumerated as a data slot.
	ArchiveDirName = "Archive"
)

const (
	saveDirPerms  = 0o750
	saveFilePerms = 0o600
)

// archiver implements the crash-safe write/read protocol: before a file is
// rewritten its previous version is swapped into a parallel archive
// location, and a missing primary file can be recovered from there. At
// most one archive generation is retained.
//
// Paths are addressed by a relative name like "default" or "slotA/world";
// the archiver maps it to <base>/<rel>.save and <base>/Archive/<rel>.bkp.
type archiver struct {
	fsys       fsx.FS
	baseDir    string
	archiveDir string
}

func newArchiver(fsys fsx.FS, baseDir string) *archiver {
	return &archiver{
		fsys:       fsys,
		baseDir:    baseDir,
		archiveDir: filepath.Join(baseDir, ArchiveDirName),
	}
}

func (a *archiver) savePath(rel string) string {
	return filepath.Join(a.baseDir, filepath.FromSlash(rel)+SaveExt)
}

func (a *archiver) archivePath(rel string) string {
	return filepath.Join(a.archiveDir, filepath.FromSlash(rel)+ArchiveExt)
}

// Write stores data at the relative path using the swap protocol:
//
//  1. If the primary file exists, move it to the archive path, replacing
//     any stale archive entry.
//  2. Write the new content to a fresh primary file (atomic temp+rename).
//  3. If the write fails and an archived copy exists, move it back as a
//     best-effort restoration of the prior state.
func (a *archiver) Write(rel string, data []byte) error {
	primary := a.savePath(rel)
	archive := a.archivePath(rel)

	if err := a.fsys.MkdirAll(filepath.Dir(primary), saveDirPerms); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}

	exists, err := a.fsys.Exists(primary)
	if err != nil {
		return fmt.Errorf("stat %q: %w", primary, err)
	}

	archived := false

	if exists {
		if err := a.fsys.MkdirAll(filepath.Dir(archive), saveDirPerms); err != nil {
			return fmt.Errorf("create archive dir: %w", err)
		}

		// Rename replaces a stale archive entry in one step.
		if err := a.fsys.Rename(primary, archive); err != nil {
			return fmt.Errorf("archive %q: %w", primary, err)
		}

		archived = true
	}

	if err := a.fsys.WriteFileAtomic(primary, data, saveFilePerms); err != nil {
		if archived {
			// Best effort: put the previous generation back so a
			// failed save does not lose the old state.
			_ = a.fsys.Rename(archive, primary)
		}

		return fmt.Errorf("write %q: %w", primary, err)
	}

	return nil
}

// Read returns the bytes of the relative path's primary file, recovering
// it from the archive when the primary is missing.
//
// Returns [ErrNotFound] if neither the primary nor the archive exists.
func (a *archiver) Read(rel string) ([]byte, error) {
	primary := a.savePath(rel)
	archive := a.archivePath(rel)

	exists, err := a.fsys.Exists(primary)
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", primary, err)
	}

	if !exists {
		archiveExists, err := a.fsys.Exists(archive)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", archive, err)
		}

		if !archiveExists {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, primary)
		}

		if err := a.fsys.Rename(archive, primary); err != nil {
			return nil, fmt.Errorf("recover %q from archive: %w", primary, err)
		}
	}

	data, err := a.fsys.ReadFile(primary)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", primary, err)
	}

	return data, nil
}

// Remove deletes the primary and archive artifacts of the relative path.
// Missing files are not errors.
func (a *archiver) Remove(rel string) error {
	for _, path := range []string{a.savePath(rel), a.archivePath(rel)} {
		if err := a.fsys.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %q: %w", path, err)
		}
	}

	return nil
}

// RemoveSlotDir deletes a slot's directory and its archive counterpart,
// including every save file inside.
func (a *archiver) RemoveSlotDir(slot string) error {
	for _, path := range []string{
		filepath.Join(a.baseDir, slot),
		filepath.Join(a.archiveDir, slot),
	} {
		if err := a.fsys.RemoveAll(path); err != nil {
			return fmt.Errorf("remove %q: %w", path, err)
		}
	}

	return nil
}

// ListSlotDirs enumerates the slot subdirectories of the base directory,
// excluding the reserved archive directory, in sorted order.
func (a *archiver) ListSlotDirs() ([]string, error) {
	entries, err := a.fsys.ReadDir(a.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("list slots: %w", err)
	}

	var names []string

	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == ArchiveDirName {
			continue
		}

		names = append(names, entry.Name())
	}

	return names, nil
}

// ListSlotFiles enumerates the save file names (without extension) inside
// a slot directory, in sorted order. A missing directory yields no names.
func (a *archiver) ListSlotFiles(slot string) ([]string, error) {
	entries, err := a.fsys.ReadDir(filepath.Join(a.baseDir, slot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("list slot files: %w", err)
	}

	var names []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if filepath.Ext(name) != SaveExt {
			continue
		}

		names = append(names, name[:len(name)-len(SaveExt)])
	}

	return names, nil
}
