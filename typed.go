package saveslot

import "fmt"

// Typed helpers run values through the engine's [Codec] before touching
// the cache, preserving the two-layer boundary: the cache (and the saved
// JSON body) only ever sees opaque strings.

// PutDefault serializes v and stores it under key in the default bucket.
func (e *Engine) PutDefault(key string, v any) error {
	if e.closed {
		return ErrClosed
	}

	s, err := e.codec.Serialize(v)
	if err != nil {
		return fmt.Errorf("serialize %q: %w", key, err)
	}

	e.store.SetDefault(key, s)

	return nil
}

// FetchDefault deserializes the default-bucket value under key into v.
func (e *Engine) FetchDefault(key string, v any) error {
	if e.closed {
		return ErrClosed
	}

	s, ok := e.store.GetDefault(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}

	if err := e.codec.Deserialize(s, v); err != nil {
		return fmt.Errorf("deserialize %q: %w", key, err)
	}

	return nil
}

// PutSlot serializes v and stores it under key in the given slot file,
// creating the slot and file buckets on demand.
func (e *Engine) PutSlot(slot, file, key string, v any) error {
	if e.closed {
		return ErrClosed
	}

	if err := validateName(slot); err != nil {
		return err
	}

	if err := validateName(file); err != nil {
		return err
	}

	s, err := e.codec.Serialize(v)
	if err != nil {
		return fmt.Errorf("serialize %q: %w", key, err)
	}

	e.store.SetSlot(slot, file, key, s)

	return nil
}

// FetchSlot deserializes the slot-file value under key into v.
func (e *Engine) FetchSlot(slot, file, key string, v any) error {
	if e.closed {
		return ErrClosed
	}

	s, ok := e.store.GetSlot(slot, file, key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}

	if err := e.codec.Deserialize(s, v); err != nil {
		return fmt.Errorf("deserialize %q: %w", key, err)
	}

	return nil
}

// PutActive is [Engine.PutSlot] against the active slot.
func (e *Engine) PutActive(file, key string, v any) error {
	slot := e.store.ActiveSlot()
	if slot == "" {
		return ErrNoActiveSlot
	}

	return e.PutSlot(slot, file, key, v)
}

// FetchActive is [Engine.FetchSlot] against the active slot.
func (e *Engine) FetchActive(file, key string, v any) error {
	slot := e.store.ActiveSlot()
	if slot == "" {
		return ErrNoActiveSlot
	}

	return e.FetchSlot(slot, file, key, v)
}
