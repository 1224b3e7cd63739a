package saveslot

// Remove operations delete save artifacts (primary and archive) from
// disk. The in-memory cache is never touched; clear it explicitly through
// [Store] if needed. Removals are logged but broadcast no notifications.

// RemoveDefault deletes the default bucket's artifacts from disk.
func (e *Engine) RemoveDefault() bool {
	if e.closed {
		return e.removeFailed("remove default", ErrClosed)
	}

	if err := e.arch.Remove(e.relDefault()); err != nil {
		return e.removeFailed("remove default", err)
	}

	e.log.Debug().Str("op", "remove default").Msg("operation complete")

	return true
}

// RemoveSlotFile deletes one slot file's artifacts from disk.
func (e *Engine) RemoveSlotFile(slot, file string) bool {
	op := "remove " + slot + "/" + file

	if e.closed {
		return e.removeFailed(op, ErrClosed)
	}

	if err := validateName(slot); err != nil {
		return e.removeFailed(op, err)
	}

	if err := validateName(file); err != nil {
		return e.removeFailed(op, err)
	}

	if err := e.arch.Remove(relSlotFile(slot, file)); err != nil {
		return e.removeFailed(op, err)
	}

	e.log.Debug().Str("op", op).Msg("operation complete")

	return true
}

// RemoveSlot deletes a slot's directory and its archive counterpart from
// disk, including every save file inside.
func (e *Engine) RemoveSlot(slot string) bool {
	op := "remove slot " + slot

	if e.closed {
		return e.removeFailed(op, ErrClosed)
	}

	if err := validateName(slot); err != nil {
		return e.removeFailed(op, err)
	}

	if err := e.arch.RemoveSlotDir(slot); err != nil {
		return e.removeFailed(op, err)
	}

	e.log.Debug().Str("op", op).Msg("operation complete")

	return true
}

// RemoveAllSlots deletes every slot directory found on disk. Each slot is
// attempted even if an earlier one fails.
func (e *Engine) RemoveAllSlots() bool {
	if e.closed {
		return e.removeFailed("remove all slots", ErrClosed)
	}

	slots, err := e.arch.ListSlotDirs()
	if err != nil {
		return e.removeFailed("remove all slots", err)
	}

	ok := true

	for _, slot := range slots {
		if !e.RemoveSlot(slot) {
			ok = false
		}
	}

	return ok
}

// RemoveAll deletes the default artifacts and every slot directory.
func (e *Engine) RemoveAll() bool {
	ok := e.RemoveDefault()

	if !e.RemoveAllSlots() {
		ok = false
	}

	return ok
}

func (e *Engine) removeFailed(op string, err error) bool {
	e.log.Error().Err(err).Str("op", op).Msg("operation failed")

	return false
}
