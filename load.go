package saveslot

// LoadDefault reads the default bucket's artifact from disk (recovering
// from the archive if the primary file is missing) and replaces the
// in-memory default bucket wholesale. On any failure the bucket is left
// untouched.
func (e *Engine) LoadDefault(opts ...OpOption) bool {
	return e.finish("load default", EventLoaded, EventLoadFailed, e.loadDefault(), opts)
}

func (e *Engine) loadDefault() error {
	if e.closed {
		return ErrClosed
	}

	bucket, err := e.readBucket(e.relDefault())
	if err != nil {
		return err
	}

	e.store.replaceDefault(bucket)

	return nil
}

// LoadSlotFile reads one file bucket of a slot from disk and replaces its
// in-memory contents wholesale. On any failure (missing file, decryption
// failure, digest mismatch, malformed body) the bucket is left untouched.
func (e *Engine) LoadSlotFile(slot, file string, opts ...OpOption) bool {
	return e.finish("load "+slot+"/"+file, EventLoaded, EventLoadFailed, e.loadSlotFile(slot, file), opts)
}

func (e *Engine) loadSlotFile(slot, file string) error {
	if e.closed {
		return ErrClosed
	}

	if err := validateName(slot); err != nil {
		return err
	}

	if err := validateName(file); err != nil {
		return err
	}

	bucket, err := e.readBucket(relSlotFile(slot, file))
	if err != nil {
		return err
	}

	e.store.replaceSlotFile(slot, file, bucket)

	return nil
}

// LoadSlot loads every save file found in a slot's directory. A slot
// directory with zero save files is a load failure for that slot. Each
// file is attempted even if an earlier one fails.
func (e *Engine) LoadSlot(slot string, opts ...OpOption) bool {
	return e.finishBool("load slot "+slot, EventLoaded, EventLoadFailed, e.loadSlot(slot), opts)
}

func (e *Engine) loadSlot(slot string) bool {
	if e.closed || validateName(slot) != nil {
		return false
	}

	files, err := e.arch.ListSlotFiles(slot)
	if err != nil {
		e.log.Error().Err(err).Str("slot", slot).Msg("listing slot files failed")

		return false
	}

	if len(files) == 0 {
		e.log.Error().Err(ErrNoSaveFiles).Str("slot", slot).Msg("nothing to load")

		return false
	}

	ok := true

	for _, file := range files {
		if !e.LoadSlotFile(slot, file, Silent()) {
			ok = false
		}
	}

	return ok
}

// LoadAllSlots discovers slot directories under the storage root
// (excluding the archive directory), materializes an empty bucket for
// each, then loads it. A failing slot does not stop the traversal; the
// single notification reflects the conjunction of all slot outcomes.
func (e *Engine) LoadAllSlots(opts ...OpOption) bool {
	ok := true

	if e.closed {
		ok = false
	} else {
		slots, err := e.arch.ListSlotDirs()
		if err != nil {
			e.log.Error().Err(err).Msg("slot discovery failed")

			ok = false
		} else {
			for _, slot := range slots {
				e.store.ensureSlot(slot)

				if !e.loadSlot(slot) {
					ok = false
				}
			}
		}
	}

	return e.finishBool("load all slots", EventLoaded, EventLoadFailed, ok, opts)
}

// LoadAll loads the default bucket and every discovered slot.
func (e *Engine) LoadAll(opts ...OpOption) bool {
	ok := e.LoadDefault(Silent())

	if !e.LoadAllSlots(Silent()) {
		ok = false
	}

	return e.finishBool("load all", EventLoaded, EventLoadFailed, ok, opts)
}

// readBucket runs the full load pipeline for one artifact: archive-aware
// read, decrypt, digest verification, JSON decode. The returned map is
// only handed out once every verification step has passed.
func (e *Engine) readBucket(rel string) (map[string]string, error) {
	data, err := e.arch.Read(rel)
	if err != nil {
		return nil, err
	}

	return e.decodePayload(data)
}
