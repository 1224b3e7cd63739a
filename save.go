package saveslot

// SaveDefault persists the default bucket to disk. Returns true on
// success; failures are logged and broadcast as [EventSaveFailed].
func (e *Engine) SaveDefault(opts ...OpOption) bool {
	return e.finish("save default", EventSaved, EventSaveFailed, e.saveDefault(), opts)
}

func (e *Engine) saveDefault() error {
	if e.closed {
		return ErrClosed
	}

	payload, err := e.encodePayload(e.store.snapshotDefault())
	if err != nil {
		return err
	}

	return e.arch.Write(e.relDefault(), payload)
}

// SaveSlotFile persists one file bucket of a slot. A bucket that was
// never written saves as an empty object.
func (e *Engine) SaveSlotFile(slot, file string, opts ...OpOption) bool {
	return e.finish("save "+slot+"/"+file, EventSaved, EventSaveFailed, e.saveSlotFile(slot, file), opts)
}

func (e *Engine) saveSlotFile(slot, file string) error {
	if e.closed {
		return ErrClosed
	}

	if err := validateName(slot); err != nil {
		return err
	}

	if err := validateName(file); err != nil {
		return err
	}

	payload, err := e.encodePayload(e.store.snapshotSlotFile(slot, file))
	if err != nil {
		return err
	}

	return e.arch.Write(relSlotFile(slot, file), payload)
}

// SaveSlot persists every file bucket of a slot. Each file is attempted
// even if an earlier one fails; the result is the conjunction of all file
// outcomes. A slot with no in-memory files saves nothing and succeeds.
func (e *Engine) SaveSlot(slot string, opts ...OpOption) bool {
	ok := true

	if e.closed || validateName(slot) != nil {
		ok = false
	} else {
		for _, file := range e.store.FileNames(slot) {
			if !e.SaveSlotFile(slot, file, Silent()) {
				ok = false
			}
		}
	}

	return e.finishBool("save slot "+slot, EventSaved, EventSaveFailed, ok, opts)
}

// SaveAllSlots persists every in-memory slot. Sub-operations never
// short-circuit: a failing slot does not prevent the others from being
// attempted. Exactly one notification fires, reflecting the conjunction
// of all slot outcomes.
func (e *Engine) SaveAllSlots(opts ...OpOption) bool {
	ok := true

	if e.closed {
		ok = false
	} else {
		for _, slot := range e.store.SlotNames() {
			if !e.SaveSlot(slot, Silent()) {
				ok = false
			}
		}
	}

	return e.finishBool("save all slots", EventSaved, EventSaveFailed, ok, opts)
}

// SaveAll persists the default bucket and every slot.
func (e *Engine) SaveAll(opts ...OpOption) bool {
	ok := e.SaveDefault(Silent())

	if !e.SaveAllSlots(Silent()) {
		ok = false
	}

	return e.finishBool("save all", EventSaved, EventSaveFailed, ok, opts)
}
