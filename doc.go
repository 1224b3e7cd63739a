// Package saveslot is a persistence engine for game and application
// state: a layered in-memory cache (one default bucket plus named slots,
// each subdivided into named files of string-keyed values) that can be
// flushed to and restored from disk, optionally integrity-hashed and
// encrypted, with crash-safe atomic replacement of prior versions.
//
// # Basic Usage
//
//	engine, err := saveslot.New("/path/to/storage", saveslot.DefaultSettings())
//	if err != nil {
//	    return err
//	}
//	defer engine.Teardown()
//
//	engine.Store().SetDefault("volume", "0.8")
//	engine.Store().SetSlot("profileA", "world", "position", `{"x":1,"y":2}`)
//
//	engine.SaveAll()  // -> <root>/SaveData/default.save,
//	                  //    <root>/SaveData/profileA/world.save
//	engine.LoadAll()
//
// # Outcomes
//
// Save, load, and remove operations report outcomes as booleans plus
// broadcast notifications rather than errors; that is the engine's
// contract with host callers.
// Failures are handled at file granularity: one file's digest mismatch or
// I/O error does not abort sibling files in an aggregate call.
//
//	unsubscribe := engine.Subscribe(func(n saveslot.Notification) {
//	    if n.Event == saveslot.EventSaveFailed {
//	        // surface to the user
//	    }
//	})
//	defer unsubscribe()
//
// # Durability
//
// Before a save file is rewritten, its previous version is moved into a
// parallel Archive directory; the fresh content is then written with an
// atomic temp+rename. If the primary file goes missing (crash between
// swap and write), the next load transparently recovers it from the
// archive. At most one prior generation is retained.
//
// # Concurrency
//
// The engine holds mutable state with no internal locking. All operations
// are synchronous and blocking. Concurrent invocation from multiple
// goroutines is not supported: confine all calls to one goroutine.
package saveslot
