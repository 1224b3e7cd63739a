package saveslot

// Event identifies a notification broadcast by the engine.
type Event int

// Events broadcast after save/load operations and active-slot changes.
const (
	// EventSaved fires after a save operation (or aggregate) succeeds.
	EventSaved Event = iota

	// EventSaveFailed fires after a save operation (or aggregate) fails.
	EventSaveFailed

	// EventLoaded fires after a load operation (or aggregate) succeeds.
	EventLoaded

	// EventLoadFailed fires after a load operation (or aggregate) fails.
	EventLoadFailed

	// EventActiveSlotChanged fires when the active-slot pointer changes.
	// [Notification.Slot] carries the new name.
	EventActiveSlotChanged
)

// String returns the event name for logs.
func (e Event) String() string {
	switch e {
	case EventSaved:
		return "saved"
	case EventSaveFailed:
		return "save_failed"
	case EventLoaded:
		return "loaded"
	case EventLoadFailed:
		return "load_failed"
	case EventActiveSlotChanged:
		return "active_slot_changed"
	default:
		return "unknown"
	}
}

// Notification is delivered to every registered observer.
type Notification struct {
	Event Event

	// Slot is the new active-slot name for [EventActiveSlotChanged] and
	// empty otherwise.
	Slot string
}

// Observer receives notifications. Observers run synchronously on the
// calling goroutine, in subscription order; a slow observer blocks the
// operation that triggered it.
type Observer func(Notification)

// notifier is the engine-owned observer registry. Dispatch order is
// deterministic: subscription order, on the caller's goroutine.
type notifier struct {
	nextID    int
	observers []observerEntry
}

type observerEntry struct {
	id int
	fn Observer
}

func newNotifier() *notifier {
	return &notifier{}
}

// subscribe registers fn and returns a func that removes it again.
func (n *notifier) subscribe(fn Observer) func() {
	id := n.nextID
	n.nextID++

	n.observers = append(n.observers, observerEntry{id: id, fn: fn})

	return func() {
		for i, entry := range n.observers {
			if entry.id == id {
				n.observers = append(n.observers[:i], n.observers[i+1:]...)

				return
			}
		}
	}
}

// publish delivers the notification to every observer in order.
//
// The slice is copied first so an observer that unsubscribes (itself or a
// peer) mid-dispatch cannot skip entries of the current broadcast.
func (n *notifier) publish(note Notification) {
	entries := make([]observerEntry, len(n.observers))
	copy(entries, n.observers)

	for _, entry := range entries {
		entry.fn(note)
	}
}
