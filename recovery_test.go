package saveslot_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveslot/saveslot"
	"github.com/saveslot/saveslot/pkg/fsx"
)

func Test_Engine_Recovers_From_Archive_When_Primary_Deleted(t *testing.T) {
	t.Parallel()

	engine, root := newTestEngine(t, saveslot.Settings{HashEnabled: true})

	engine.Store().SetDefault("progress", "42")
	require.True(t, engine.SaveDefault(), "first save")
	require.True(t, engine.SaveDefault(), "second save populates the archive")

	primary := filepath.Join(root, "SaveData", "default.save")
	require.NoError(t, os.Remove(primary), "simulate lost primary")

	engine.Store().ClearDefault()

	require.True(t, engine.LoadDefault(), "load should recover from archive")

	got, ok := engine.Store().GetDefault("progress")
	require.True(t, ok)
	assert.Equal(t, "42", got)

	// Recovery restores the primary file in place.
	_, err := os.Stat(primary)
	assert.NoError(t, err, "primary should be restored after recovery")
}

func Test_Engine_Load_Fails_Without_Mutating_Bucket_When_File_Tampered(t *testing.T) {
	t.Parallel()

	engine, root := newTestEngine(t, saveslot.Settings{HashEnabled: true})

	engine.Store().SetDefault("gold", "999")
	require.True(t, engine.SaveDefault())

	// Flip one byte of the body (past the digest line).
	path := filepath.Join(root, "SaveData", "default.save")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	data[len(data)-2] ^= 0x01
	require.NoError(t, os.WriteFile(path, data, 0o600))

	engine.Store().SetDefault("gold", "in-memory")

	require.False(t, engine.LoadDefault(), "tampered file must fail verification")

	// Verification failure must not touch the bucket.
	got, ok := engine.Store().GetDefault("gold")
	require.True(t, ok)
	assert.Equal(t, "in-memory", got, "bucket mutated despite digest mismatch")
}

func Test_Engine_SaveAllSlots_Continues_When_One_Slot_Fails(t *testing.T) {
	t.Parallel()

	flaky := fsx.NewFlaky(fsx.NewReal())

	engine, root := newTestEngine(t, saveslot.Settings{}, saveslot.WithFS(flaky))

	for _, slot := range []string{"alpha", "beta", "gamma"} {
		engine.Store().SetSlot(slot, "data", "k", slot)
	}

	flaky.FailWrites(filepath.Join("beta", "data.save"), errors.New("locked"))

	var events []saveslot.Event

	unsubscribe := engine.Subscribe(func(n saveslot.Notification) {
		events = append(events, n.Event)
	})
	defer unsubscribe()

	require.False(t, engine.SaveAllSlots(), "aggregate must report the failure")

	// The healthy slots were still written.
	for _, slot := range []string{"alpha", "gamma"} {
		_, err := os.Stat(filepath.Join(root, "SaveData", slot, "data.save"))
		assert.NoError(t, err, "slot %s should have been saved", slot)
	}

	_, err := os.Stat(filepath.Join(root, "SaveData", "beta", "data.save"))
	assert.True(t, os.IsNotExist(err), "failing slot must not produce a file")

	// Exactly one notification for the whole aggregate.
	assert.Equal(t, []saveslot.Event{saveslot.EventSaveFailed}, events)
}

func Test_Engine_LoadAllSlots_Fails_For_Empty_Slot_Dir_But_Loads_Rest(t *testing.T) {
	t.Parallel()

	engine, root := newTestEngine(t, saveslot.Settings{})

	engine.Store().SetSlot("filled", "data", "k", "v")
	require.True(t, engine.SaveAllSlots())

	// A slot directory with zero save files: discovered, but its load
	// fails.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "SaveData", "empty"), 0o750))

	reopened := reopenTestEngine(t, root, saveslot.Settings{})

	require.False(t, reopened.LoadAllSlots(), "aggregate must reflect the empty slot")

	got, ok := reopened.Store().GetSlot("filled", "data", "k")
	require.True(t, ok, "healthy slot should still load")
	assert.Equal(t, "v", got)
}

func Test_Engine_Load_Fails_When_Payload_Not_Decryptable(t *testing.T) {
	t.Parallel()

	settings := saveslot.Settings{EncryptionEnabled: true, Password: "right"}
	engine, root := newTestEngine(t, settings)

	engine.Store().SetDefault("k", "v")
	require.True(t, engine.SaveDefault())

	wrong := reopenTestEngine(t, root, saveslot.Settings{EncryptionEnabled: true, Password: "wrong"})
	assert.False(t, wrong.LoadDefault(), "wrong password must fail the load")

	// Garbage on disk fails as well.
	path := filepath.Join(root, "SaveData", "default.save")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	fresh := reopenTestEngine(t, root, settings)
	assert.False(t, fresh.LoadDefault(), "garbage ciphertext must fail the load")
}

func Test_Engine_Remove_Deletes_Artifacts_But_Not_Cache_When_Invoked(t *testing.T) {
	t.Parallel()

	engine, root := newTestEngine(t, saveslot.Settings{})

	engine.Store().SetDefault("d", "1")
	engine.Store().SetSlot("profileA", "world", "k", "v")
	engine.Store().SetSlot("profileB", "world", "k", "v")
	require.True(t, engine.SaveAll())

	require.True(t, engine.RemoveSlot("profileA"))

	_, err := os.Stat(filepath.Join(root, "SaveData", "profileA"))
	assert.True(t, os.IsNotExist(err), "slot dir should be gone")

	// The in-memory cache is untouched by removals.
	_, ok := engine.Store().GetSlot("profileA", "world", "k")
	assert.True(t, ok, "cache must survive RemoveSlot")

	require.True(t, engine.RemoveAll())

	entries, err := os.ReadDir(filepath.Join(root, "SaveData"))
	require.NoError(t, err)

	for _, entry := range entries {
		assert.Equal(t, saveslot.ArchiveDirName, entry.Name(),
			"only the archive dir may remain, found %s", entry.Name())
	}
}

func Test_Engine_Notifications_Dispatch_In_Subscription_Order_When_Fired(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, saveslot.Settings{})

	var order []string

	first := engine.Subscribe(func(n saveslot.Notification) {
		order = append(order, "first:"+n.Event.String())
	})
	defer first()

	second := engine.Subscribe(func(n saveslot.Notification) {
		order = append(order, "second:"+n.Event.String())
	})
	defer second()

	engine.SetActiveSlot("profileA")

	want := []string{"first:active_slot_changed", "second:active_slot_changed"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("dispatch order mismatch (-want +got):\n%s", diff)
	}
}

func Test_Engine_Notifications_Stop_When_Unsubscribed(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, saveslot.Settings{})

	count := 0

	unsubscribe := engine.Subscribe(func(saveslot.Notification) {
		count++
	})

	require.True(t, engine.SaveDefault())
	require.Equal(t, 1, count)

	unsubscribe()

	require.True(t, engine.SaveDefault())
	assert.Equal(t, 1, count, "unsubscribed observer must not fire")

	// Unsubscribing twice is harmless.
	unsubscribe()
}

func Test_Engine_Notification_Carries_Slot_Name_When_Active_Changes(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, saveslot.Settings{})

	var got saveslot.Notification

	defer engine.Subscribe(func(n saveslot.Notification) {
		got = n
	})()

	engine.SetActiveSlot("profileB")

	assert.Equal(t, saveslot.EventActiveSlotChanged, got.Event)
	assert.Equal(t, "profileB", got.Slot)
	assert.Equal(t, "profileB", engine.ActiveSlot())

	// Suppressed changes still move the pointer.
	engine.SetActiveSlot("profileC", saveslot.Silent())
	assert.Equal(t, "profileB", got.Slot, "suppressed change must not notify")
	assert.Equal(t, "profileC", engine.ActiveSlot())
}

func Test_Engine_Aggregate_Emits_Single_Notification_When_All_Succeed(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, saveslot.Settings{})

	engine.Store().SetDefault("d", "1")
	engine.Store().SetSlot("a", "f", "k", "1")
	engine.Store().SetSlot("b", "f", "k", "2")

	var events []saveslot.Event

	defer engine.Subscribe(func(n saveslot.Notification) {
		events = append(events, n.Event)
	})()

	require.True(t, engine.SaveAll())
	assert.Equal(t, []saveslot.Event{saveslot.EventSaved}, events, "SaveAll must notify exactly once")

	events = nil

	require.True(t, engine.LoadAll())
	assert.Equal(t, []saveslot.Event{saveslot.EventLoaded}, events, "LoadAll must notify exactly once")
}
