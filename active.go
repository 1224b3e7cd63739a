package saveslot

// SetActiveSlot updates the active-slot pointer and broadcasts
// [EventActiveSlotChanged] with the new name (unless suppressed). The
// pointer is pure indirection: the slot is neither created nor checked
// for existence. An empty name unsets the pointer.
func (e *Engine) SetActiveSlot(slot string, opts ...OpOption) {
	cfg := applyOpOptions(opts)

	e.store.setActive(slot)
	e.log.Debug().Str("slot", slot).Msg("active slot changed")

	if !cfg.silent {
		e.events.publish(Notification{Event: EventActiveSlotChanged, Slot: slot})
	}
}

// ActiveSlot returns the current active-slot name, or "" if none is set.
func (e *Engine) ActiveSlot() string {
	return e.store.ActiveSlot()
}

// SaveActiveSlot persists every file bucket of the active slot. Fails if
// no active slot is set.
func (e *Engine) SaveActiveSlot(opts ...OpOption) bool {
	slot := e.store.ActiveSlot()
	if slot == "" {
		return e.finish("save active slot", EventSaved, EventSaveFailed, ErrNoActiveSlot, opts)
	}

	return e.SaveSlot(slot, opts...)
}

// SaveActiveSlotFile persists one file bucket of the active slot.
func (e *Engine) SaveActiveSlotFile(file string, opts ...OpOption) bool {
	slot := e.store.ActiveSlot()
	if slot == "" {
		return e.finish("save active slot file", EventSaved, EventSaveFailed, ErrNoActiveSlot, opts)
	}

	return e.SaveSlotFile(slot, file, opts...)
}

// LoadActiveSlot loads every save file of the active slot.
func (e *Engine) LoadActiveSlot(opts ...OpOption) bool {
	slot := e.store.ActiveSlot()
	if slot == "" {
		return e.finish("load active slot", EventLoaded, EventLoadFailed, ErrNoActiveSlot, opts)
	}

	return e.LoadSlot(slot, opts...)
}

// LoadActiveSlotFile loads one file bucket of the active slot.
func (e *Engine) LoadActiveSlotFile(file string, opts ...OpOption) bool {
	slot := e.store.ActiveSlot()
	if slot == "" {
		return e.finish("load active slot file", EventLoaded, EventLoadFailed, ErrNoActiveSlot, opts)
	}

	return e.LoadSlotFile(slot, file, opts...)
}

// RemoveActiveSlot deletes the active slot's artifacts from disk.
func (e *Engine) RemoveActiveSlot() bool {
	slot := e.store.ActiveSlot()
	if slot == "" {
		return e.removeFailed("remove active slot", ErrNoActiveSlot)
	}

	return e.RemoveSlot(slot)
}
