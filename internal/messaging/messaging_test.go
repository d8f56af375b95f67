package messaging

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/zulandar/wardroom/internal/models"
	"github.com/zulandar/wardroom/internal/schedule"
	"github.com/zulandar/wardroom/internal/store"
)

var epoch = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

type harness struct {
	engine *Engine
	clock  *schedule.Manual
	mem    *store.Memory
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := schedule.NewManual(epoch)
	mem := store.NewMemory()
	e := New(Options{
		Slot:      store.NewSlot(mem, SlotName, nil),
		Scheduler: clock,
		Clock:     clock,
		Rand:      rand.New(rand.NewPCG(1, 2)),
	})
	return &harness{engine: e, clock: clock, mem: mem}
}

func (h *harness) reopen() *Engine {
	return New(Options{
		Slot:      store.NewSlot(h.mem, SlotName, nil),
		Scheduler: h.clock,
		Clock:     h.clock,
		Rand:      rand.New(rand.NewPCG(1, 2)),
	})
}

func checkLastMessage(t *testing.T, e *Engine) {
	t.Helper()
	for _, room := range e.Rooms() {
		msgs := e.Messages(room.ID)
		if len(msgs) == 0 {
			if room.LastMessage != nil {
				t.Errorf("room %s: LastMessage = %+v, want nil for empty history", room.ID, room.LastMessage)
			}
			continue
		}
		if room.LastMessage == nil || !reflect.DeepEqual(*room.LastMessage, msgs[len(msgs)-1]) {
			t.Errorf("room %s: LastMessage = %+v, want %+v", room.ID, room.LastMessage, msgs[len(msgs)-1])
		}
	}
}

func unread(t *testing.T, e *Engine, id string) int {
	t.Helper()
	room, ok := e.Room(id)
	if !ok {
		t.Fatalf("room %s not found", id)
	}
	return room.UnreadCount
}

func TestRooms_CatalogOrder(t *testing.T) {
	h := newHarness(t)
	var ids []string
	for _, r := range h.engine.Rooms() {
		ids = append(ids, r.ID)
	}
	want := []string{"support-dashboard", "day-shift-team", "night-shift-team", "emergency-alerts", "general-team"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("room order = %v, want %v", ids, want)
	}
	checkLastMessage(t, h.engine)
}

func TestSeed_UnreadAndTotals(t *testing.T) {
	h := newHarness(t)
	if got := h.engine.TotalUnread(); got != 6 {
		t.Errorf("TotalUnread() = %d, want 6", got)
	}
	if msgs := h.engine.Messages("emergency-alerts"); len(msgs) != 0 {
		t.Errorf("emergency-alerts seeded with %d messages, want 0", len(msgs))
	}
}

func TestPost_CounterpartIncrementsUnread(t *testing.T) {
	h := newHarness(t)
	before := unread(t, h.engine, "night-shift-team")

	msg, ok := h.engine.Post("night-shift-team", "Bed 4 needs a check", false, "", "James")
	if !ok {
		t.Fatal("Post returned ok=false for a catalog room")
	}
	if msg.ID != 11 {
		t.Errorf("msg.ID = %d, want 11 (after seeded 1..10)", msg.ID)
	}
	if !msg.CreatedAt.Equal(epoch) {
		t.Errorf("CreatedAt = %v, want %v", msg.CreatedAt, epoch)
	}
	if got := unread(t, h.engine, "night-shift-team"); got != before+1 {
		t.Errorf("UnreadCount = %d, want %d", got, before+1)
	}
	checkLastMessage(t, h.engine)
}

func TestPost_FromUserLeavesUnread(t *testing.T) {
	h := newHarness(t)
	before := unread(t, h.engine, "support-dashboard")

	h.engine.Post("support-dashboard", "On my way", true, "", "")
	if got := unread(t, h.engine, "support-dashboard"); got != before {
		t.Errorf("UnreadCount = %d, want %d", got, before)
	}
	checkLastMessage(t, h.engine)
}

func TestPost_UnknownRoomIsNoop(t *testing.T) {
	h := newHarness(t)
	if _, ok := h.engine.Post("pharmacy-lounge", "hello", true, "", ""); ok {
		t.Error("Post to unknown room returned ok=true")
	}
	if h.clock.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0 (no reply for unknown room)", h.clock.Pending())
	}
	if len(h.engine.Messages("pharmacy-lounge")) != 0 {
		t.Error("unknown room gained messages")
	}
}

func TestPost_IDsAreMonotonic(t *testing.T) {
	h := newHarness(t)
	var last uint64
	for i, room := range []string{"general-team", "day-shift-team", "general-team"} {
		msg, _ := h.engine.Post(room, "x", false, "", "Tom")
		if msg.ID <= last {
			t.Fatalf("post %d: ID %d not greater than %d", i, msg.ID, last)
		}
		last = msg.ID
	}
}

func TestUnreadTracksCounterpartMessagesSinceRead(t *testing.T) {
	h := newHarness(t)
	e := h.engine
	rnd := rand.New(rand.NewPCG(7, 7))
	rooms := e.Rooms()
	sinceRead := map[string]int{}
	for _, r := range rooms {
		sinceRead[r.ID] = r.UnreadCount
	}

	for i := 0; i < 200; i++ {
		id := rooms[rnd.IntN(len(rooms))].ID
		switch rnd.IntN(3) {
		case 0:
			e.Post(id, "from me", true, "", "")
		case 1:
			e.Post(id, "from them", false, "", "Someone")
			sinceRead[id]++
		case 2:
			e.MarkRead(id)
			sinceRead[id] = 0
		}
		// Drain replies so their unread bumps are accounted for.
		before := map[string]int{}
		for _, r := range e.Rooms() {
			before[r.ID] = len(e.Messages(r.ID))
		}
		h.clock.Advance(3 * time.Second)
		for _, r := range e.Rooms() {
			sinceRead[r.ID] += len(e.Messages(r.ID)) - before[r.ID]
		}

		checkLastMessage(t, e)
		for _, r := range e.Rooms() {
			if r.UnreadCount != sinceRead[r.ID] {
				t.Fatalf("step %d room %s: UnreadCount = %d, want %d", i, r.ID, r.UnreadCount, sinceRead[r.ID])
			}
		}
	}
}

func TestMarkRead(t *testing.T) {
	h := newHarness(t)
	h.engine.MarkRead("general-team")
	if got := unread(t, h.engine, "general-team"); got != 0 {
		t.Errorf("UnreadCount after MarkRead = %d, want 0", got)
	}
	h.engine.MarkRead("general-team")
	if got := unread(t, h.engine, "general-team"); got != 0 {
		t.Errorf("UnreadCount after second MarkRead = %d, want 0", got)
	}
	h.engine.MarkRead("no-such-room")
}

func TestSelectRoom(t *testing.T) {
	h := newHarness(t)
	e := h.engine

	if _, ok := e.CurrentRoom(); ok {
		t.Error("CurrentRoom() set before any selection")
	}
	if msgs := e.CurrentMessages(); msgs == nil || len(msgs) != 0 {
		t.Errorf("CurrentMessages() = %v, want empty non-nil slice", msgs)
	}

	e.SelectRoom("day-shift-team")
	room, ok := e.CurrentRoom()
	if !ok || room.ID != "day-shift-team" {
		t.Fatalf("CurrentRoom() = %q, %v; want day-shift-team", room.ID, ok)
	}
	if got := len(e.CurrentMessages()); got != 2 {
		t.Errorf("len(CurrentMessages()) = %d, want 2", got)
	}

	e.SelectRoom("unknown")
	if room, _ := e.CurrentRoom(); room.ID != "day-shift-team" {
		t.Errorf("unknown SelectRoom changed current room to %q", room.ID)
	}

	e.ClearRoom()
	if _, ok := e.CurrentRoom(); ok {
		t.Error("CurrentRoom() still set after ClearRoom")
	}
}

func TestRooms_ReturnsCopies(t *testing.T) {
	h := newHarness(t)
	rooms := h.engine.Rooms()
	rooms[0].Participants[0] = "Mallory"
	rooms[0].UnreadCount = 99
	again, _ := h.engine.Room(rooms[0].ID)
	if again.Participants[0] == "Mallory" || again.UnreadCount == 99 {
		t.Error("mutating Rooms() result changed engine state")
	}
}

func TestReply_Support(t *testing.T) {
	h := newHarness(t)
	e := h.engine
	before := unread(t, e, "support-dashboard")
	e.Post("support-dashboard", "Need a hand with intake", true, "", "")

	h.clock.Advance(999 * time.Millisecond)
	if got := len(e.Messages("support-dashboard")); got != 4 {
		t.Fatalf("messages before 1s = %d, want 4 (no reply yet)", got)
	}

	h.clock.Advance(2001 * time.Millisecond)
	msgs := e.Messages("support-dashboard")
	if len(msgs) != 5 {
		t.Fatalf("messages after 3s = %d, want 5", len(msgs))
	}
	reply := msgs[4]
	if reply.FromUser {
		t.Error("reply marked as from user")
	}
	if reply.Text != "Got it! Thanks for the update 👍" || reply.SenderName != "Admin" || reply.Reaction != "👍" {
		t.Errorf("reply = %+v", reply)
	}
	if got := unread(t, e, "support-dashboard"); got != before+1 {
		t.Errorf("UnreadCount = %d, want %d", got, before+1)
	}
	checkLastMessage(t, e)
}

func TestReply_DelayWithinWindow(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		clock := schedule.NewManual(epoch)
		e := New(Options{Scheduler: clock, Clock: clock, Rand: rand.New(rand.NewPCG(seed, seed))})
		e.Post("support-dashboard", "ping", true, "", "")

		clock.Advance(time.Second - time.Nanosecond)
		if clock.Pending() != 1 {
			t.Fatalf("seed %d: reply fired before 1s", seed)
		}
		clock.Advance(2*time.Second + time.Nanosecond)
		if clock.Pending() != 0 {
			t.Fatalf("seed %d: reply still pending after 3s", seed)
		}
		msgs := e.Messages("support-dashboard")
		delay := msgs[len(msgs)-1].CreatedAt.Sub(epoch)
		if delay < time.Second || delay > 3*time.Second {
			t.Errorf("seed %d: reply delay = %v, want within [1s, 3s]", seed, delay)
		}
	}
}

func TestReply_TeamAndShift(t *testing.T) {
	phrases := map[string]string{}
	for _, r := range teamReplies {
		phrases[r.text] = r.reaction
	}

	tests := []struct {
		room    string
		senders []string
	}{
		{"day-shift-team", []string{"Sarah", "Mike", "Lisa", "Tom", "Emma"}},
		{"night-shift-team", []string{"Alex", "Maria", "James"}},
		{"general-team", []string{"Everyone"}},
	}
	for _, tt := range tests {
		t.Run(tt.room, func(t *testing.T) {
			h := newHarness(t)
			for i := 0; i < 10; i++ {
				h.engine.Post(tt.room, "status update", true, "", "")
				h.clock.Advance(3 * time.Second)
				msgs := h.engine.Messages(tt.room)
				reply := msgs[len(msgs)-1]

				reaction, known := phrases[reply.Text]
				if !known {
					t.Fatalf("reply text %q is not a canned phrase", reply.Text)
				}
				if reply.Reaction != reaction {
					t.Errorf("reaction = %q, want %q", reply.Reaction, reaction)
				}
				allowed := false
				for _, s := range tt.senders {
					if reply.SenderName == s {
						allowed = true
					}
				}
				if !allowed {
					t.Errorf("sender = %q, want one of %v", reply.SenderName, tt.senders)
				}
			}
		})
	}
}

func TestReply_Emergency(t *testing.T) {
	h := newHarness(t)
	h.engine.Post("emergency-alerts", "Fire door jammed on ward 2", true, "", "")
	h.clock.Advance(3 * time.Second)

	msgs := h.engine.Messages("emergency-alerts")
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if msgs[1].Text != "Message received and logged. 🚨" || msgs[1].SenderName != "Emergency System" {
		t.Errorf("reply = %+v", msgs[1])
	}
}

func TestReply_CounterpartMessageDoesNotTriggerReply(t *testing.T) {
	h := newHarness(t)
	h.engine.Post("support-dashboard", "Shift swap approved", false, "", "Admin")
	if h.clock.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", h.clock.Pending())
	}
}

func TestReply_NilSchedulerDisablesSimulation(t *testing.T) {
	e := New(Options{Rand: rand.New(rand.NewPCG(1, 1))})
	if _, ok := e.Post("support-dashboard", "hello", true, "", ""); !ok {
		t.Fatal("Post failed")
	}
	if got := len(e.Messages("support-dashboard")); got != 4 {
		t.Errorf("messages = %d, want 4", got)
	}
}

func TestReply_RoomRemovedBeforeFiring(t *testing.T) {
	clock := schedule.NewManual(epoch)
	e := New(Options{Scheduler: clock, Clock: clock, Rand: rand.New(rand.NewPCG(3, 3))})
	e.Post("support-dashboard", "hello", true, "", "")

	// Simulate a catalog change between posting and the reply firing.
	e.mu.Lock()
	e.rooms = e.rooms[1:]
	e.mu.Unlock()

	clock.Advance(3 * time.Second)
	if got := len(e.Messages("support-dashboard")); got != 4 {
		t.Errorf("messages = %d, want 4 (reply suppressed)", got)
	}
}

func TestPersistence_RoundTrip(t *testing.T) {
	h := newHarness(t)
	e := h.engine
	e.Post("day-shift-team", "Covering room 7", true, "👍", "")
	h.clock.Advance(3 * time.Second)
	e.Post("general-team", "Potluck Friday", false, "", "Lisa")
	e.MarkRead("support-dashboard")
	e.SelectRoom("general-team")

	restored := h.reopen()
	if !reflect.DeepEqual(restored.Rooms(), e.Rooms()) {
		t.Errorf("rooms differ after restore:\n got %+v\nwant %+v", restored.Rooms(), e.Rooms())
	}
	for _, r := range e.Rooms() {
		if !reflect.DeepEqual(restored.Messages(r.ID), e.Messages(r.ID)) {
			t.Errorf("room %s history differs after restore", r.ID)
		}
	}
	if room, ok := restored.CurrentRoom(); !ok || room.ID != "general-team" {
		t.Errorf("CurrentRoom() after restore = %q, %v", room.ID, ok)
	}

	next, _ := restored.Post("general-team", "after restart", false, "", "Tom")
	orig := e.Messages("general-team")
	if next.ID <= orig[len(orig)-1].ID {
		t.Errorf("ID after restore = %d, want > %d", next.ID, orig[len(orig)-1].ID)
	}
}

func TestPersistence_CorruptSnapshotFallsBackToSeed(t *testing.T) {
	mem := store.NewMemory()
	mem.Write(SlotName, []byte(`{"rooms": 12`))
	e := New(Options{Slot: store.NewSlot(mem, SlotName, nil)})

	if got := len(e.Rooms()); got != 5 {
		t.Errorf("len(Rooms()) = %d, want 5 seeded rooms", got)
	}
}

func TestPersistence_WriteFailureKeepsMutation(t *testing.T) {
	h := newHarness(t)
	h.mem.FailWrites = errors.New("storage unavailable")

	h.engine.MarkRead("general-team")
	if got := unread(t, h.engine, "general-team"); got != 0 {
		t.Errorf("UnreadCount = %d, want 0 despite failed write", got)
	}
	err := h.engine.LastPersistError()
	if err == nil || !strings.Contains(err.Error(), "storage unavailable") {
		t.Fatalf("LastPersistError() = %v, want storage unavailable", err)
	}

	h.mem.FailWrites = nil
	h.engine.Checkpoint()
	if err := h.engine.LastPersistError(); err != nil {
		t.Errorf("LastPersistError() after checkpoint = %v, want nil", err)
	}
	if got := unread(t, h.reopen(), "general-team"); got != 0 {
		t.Errorf("restored UnreadCount = %d, want 0 after checkpoint", got)
	}
}

func TestCustomSeed(t *testing.T) {
	rooms := []models.ChatRoom{{ID: "pod-a", Name: "Pod A", Category: models.RoomTeam, Participants: []string{"Ana", models.LocalUser}}}
	e := New(Options{Rooms: rooms, Messages: map[string][]models.Message{
		"pod-a": {{ID: 41, Text: "hi", CreatedAt: epoch, SenderName: "Ana"}},
	}})
	if got := len(e.Rooms()); got != 1 {
		t.Fatalf("len(Rooms()) = %d, want 1", got)
	}
	msg, _ := e.Post("pod-a", "hey", true, "", "")
	if msg.ID != 42 {
		t.Errorf("msg.ID = %d, want 42", msg.ID)
	}
	checkLastMessage(t, e)
}

func TestCustomSeed_DoesNotWriteCallerRooms(t *testing.T) {
	rooms := []models.ChatRoom{{ID: "pod-a", Name: "Pod A", Category: models.RoomTeam, Participants: []string{"Ana", models.LocalUser}}}
	e := New(Options{Rooms: rooms})
	e.Post("pod-a", "bed 4 is free", false, "", "Ana")

	if rooms[0].UnreadCount != 0 || rooms[0].LastMessage != nil {
		t.Errorf("caller's rooms modified: %+v", rooms[0])
	}
	if got := unread(t, e, "pod-a"); got != 1 {
		t.Errorf("UnreadCount = %d, want 1", got)
	}
}

func TestRestart_RearmsPendingReply(t *testing.T) {
	h := newHarness(t)
	h.engine.Post("support-dashboard", "Printer jammed", true, "", "")

	clock := schedule.NewManual(epoch.Add(500 * time.Millisecond))
	restored := New(Options{
		Slot:      store.NewSlot(h.mem, SlotName, nil),
		Scheduler: clock,
		Clock:     clock,
		Rand:      rand.New(rand.NewPCG(1, 2)),
	})
	if clock.Pending() != 1 {
		t.Fatalf("Pending() after restore = %d, want 1", clock.Pending())
	}

	clock.Advance(3 * time.Second)
	msgs := restored.Messages("support-dashboard")
	last := msgs[len(msgs)-1]
	if last.FromUser || last.SenderName != "Admin" {
		t.Fatalf("last message = %+v, want Admin reply", last)
	}
	if !last.CreatedAt.Before(epoch.Add(3*time.Second + time.Nanosecond)) {
		t.Errorf("reply at %v, want within 3s of the post", last.CreatedAt)
	}

	// Once posted, the reply is no longer outstanding.
	again := schedule.NewManual(epoch.Add(time.Minute))
	New(Options{Slot: store.NewSlot(h.mem, SlotName, nil), Scheduler: again, Clock: again})
	if again.Pending() != 0 {
		t.Errorf("Pending() after second restore = %d, want 0", again.Pending())
	}
}

func TestRestart_OverdueReplyFiresImmediately(t *testing.T) {
	h := newHarness(t)
	h.engine.Post("emergency-alerts", "Fire door propped open", true, "", "")

	clock := schedule.NewManual(epoch.Add(time.Hour))
	restored := New(Options{Slot: store.NewSlot(h.mem, SlotName, nil), Scheduler: clock, Clock: clock})
	clock.Advance(0)

	msgs := restored.Messages("emergency-alerts")
	if len(msgs) != 2 || msgs[1].SenderName != "Emergency System" {
		t.Errorf("messages = %+v, want post and emergency reply", msgs)
	}
}
