// Package messaging owns chat rooms and their histories, and simulates the
// replies of the people on the other side of each room.
package messaging

import (
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/zulandar/wardroom/internal/metrics"
	"github.com/zulandar/wardroom/internal/models"
	"github.com/zulandar/wardroom/internal/schedule"
	"github.com/zulandar/wardroom/internal/store"
)

// SlotName is the persistence slot holding the messaging snapshot.
const SlotName = "messages-storage"

// Options configures an Engine.
type Options struct {
	Slot      *store.Slot        // nil keeps state in memory only
	Scheduler schedule.Scheduler // nil disables reply simulation
	Clock     schedule.Clock     // nil uses the system clock
	Rand      *rand.Rand         // nil seeds from the clock
	Metrics   *metrics.Recorder

	// ReplyMin and ReplyMax bound the uniform reply delay. Zero values
	// mean 1s and 3s.
	ReplyMin time.Duration
	ReplyMax time.Duration

	// Rooms and Messages replace the built-in seed data when no snapshot
	// exists. Rooms nil uses DefaultRooms.
	Rooms    []models.ChatRoom
	Messages map[string][]models.Message
}

// snapshot is the persisted form of the engine.
type snapshot struct {
	Rooms         []models.ChatRoom           `json:"rooms"`
	Messages      map[string][]models.Message `json:"messages"`
	CurrentRoomID string                      `json:"current_room_id,omitempty"`
	NextID        uint64                      `json:"next_id"`
	Replies       []pendingReply              `json:"pending_replies,omitempty"`
}

// pendingReply is a counterpart reply that has been scheduled but not yet
// posted. The reply text is chosen when it fires.
type pendingReply struct {
	RoomID string    `json:"room_id"`
	At     time.Time `json:"at"`
}

// Engine is the messaging state container. It is safe for concurrent use;
// scheduled replies go through the same locked operations as callers.
type Engine struct {
	slot      *store.Slot
	scheduler schedule.Scheduler
	clock     schedule.Clock
	metrics   *metrics.Recorder
	replyMin  time.Duration
	replyMax  time.Duration

	mu       sync.Mutex
	rnd      *rand.Rand
	rooms    []models.ChatRoom
	messages map[string][]models.Message
	// currentRoomID is a convenience for single-screen callers; Messages
	// takes an explicit room and does not depend on it.
	currentRoomID string
	nextID        uint64
	replies       []pendingReply
}

// New builds an Engine, restoring the slot's snapshot if one can be read and
// falling back to seed data otherwise.
func New(opts Options) *Engine {
	e := &Engine{
		slot:      opts.Slot,
		scheduler: opts.Scheduler,
		clock:     opts.Clock,
		metrics:   opts.Metrics,
		replyMin:  opts.ReplyMin,
		replyMax:  opts.ReplyMax,
		rnd:       opts.Rand,
	}
	if e.clock == nil {
		e.clock = schedule.SystemClock{}
	}
	if e.slot == nil {
		e.slot = store.NewSlot(store.NewMemory(), SlotName, nil)
	}
	if e.replyMin == 0 && e.replyMax == 0 {
		e.replyMin, e.replyMax = time.Second, 3*time.Second
	}
	if e.rnd == nil {
		seed := uint64(time.Now().UnixNano())
		e.rnd = rand.New(rand.NewPCG(seed, seed>>1))
	}

	var snap snapshot
	ok, err := e.slot.Load(&snap)
	if err != nil {
		log.Printf("messaging: restore failed, using seed data: %v", err)
	}
	if ok && err == nil {
		e.restore(snap)
	} else {
		e.seed(opts.Rooms, opts.Messages)
	}
	return e
}

// rearm hands replies restored from a snapshot back to the scheduler.
// Without one they are kept for a later process.
func (e *Engine) rearm(replies []pendingReply) {
	if e.scheduler == nil {
		e.replies = replies
		return
	}
	for _, r := range replies {
		e.armLocked(r)
	}
}

func (e *Engine) seed(rooms []models.ChatRoom, msgs map[string][]models.Message) {
	if rooms == nil {
		rooms = DefaultRooms()
		if msgs == nil {
			msgs = DefaultMessages(e.clock.Now())
		}
	}
	e.rooms = make([]models.ChatRoom, len(rooms))
	for i, r := range rooms {
		e.rooms[i] = copyRoom(r)
	}
	e.messages = make(map[string][]models.Message, len(msgs))
	for id, list := range msgs {
		e.messages[id] = append([]models.Message(nil), list...)
	}
	e.nextID = 1
	for _, list := range e.messages {
		for _, m := range list {
			if m.ID >= e.nextID {
				e.nextID = m.ID + 1
			}
		}
	}
	e.relinkLastMessages()
}

func (e *Engine) restore(snap snapshot) {
	e.rooms = snap.Rooms
	e.messages = snap.Messages
	if e.messages == nil {
		e.messages = make(map[string][]models.Message)
	}
	e.currentRoomID = snap.CurrentRoomID
	e.nextID = snap.NextID
	if e.nextID == 0 {
		e.nextID = 1
	}
	e.relinkLastMessages()
	e.rearm(snap.Replies)
}

// relinkLastMessages points every room at the tail of its own history.
func (e *Engine) relinkLastMessages() {
	for i := range e.rooms {
		list := e.messages[e.rooms[i].ID]
		if len(list) == 0 {
			e.rooms[i].LastMessage = nil
			continue
		}
		last := list[len(list)-1]
		e.rooms[i].LastMessage = &last
	}
}

func (e *Engine) snapshotLocked() snapshot {
	return snapshot{
		Rooms:         e.rooms,
		Messages:      e.messages,
		CurrentRoomID: e.currentRoomID,
		NextID:        e.nextID,
		Replies:       e.replies,
	}
}

func (e *Engine) commitLocked() {
	e.slot.Commit(e.snapshotLocked())
}

func (e *Engine) roomIndex(id string) int {
	for i := range e.rooms {
		if e.rooms[i].ID == id {
			return i
		}
	}
	return -1
}

// Rooms returns every room in catalog order.
func (e *Engine) Rooms() []models.ChatRoom {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.ChatRoom, len(e.rooms))
	for i, r := range e.rooms {
		out[i] = copyRoom(r)
	}
	return out
}

// Room returns the room with id.
func (e *Engine) Room(id string) (models.ChatRoom, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.roomIndex(id)
	if i < 0 {
		return models.ChatRoom{}, false
	}
	return copyRoom(e.rooms[i]), true
}

// SelectRoom makes id the current room. Unknown ids are ignored.
func (e *Engine) SelectRoom(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.roomIndex(id) < 0 {
		return
	}
	e.currentRoomID = id
	e.commitLocked()
}

// ClearRoom returns to having no room open.
func (e *Engine) ClearRoom() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.currentRoomID == "" {
		return
	}
	e.currentRoomID = ""
	e.commitLocked()
}

// CurrentRoom returns the selected room, if any.
func (e *Engine) CurrentRoom() (models.ChatRoom, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.roomIndex(e.currentRoomID)
	if i < 0 {
		return models.ChatRoom{}, false
	}
	return copyRoom(e.rooms[i]), true
}

// CurrentMessages returns the selected room's history, or nothing when no
// room is selected.
func (e *Engine) CurrentMessages() []models.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.currentRoomID == "" {
		return []models.Message{}
	}
	return append([]models.Message{}, e.messages[e.currentRoomID]...)
}

// Messages returns the history of room id in posting order.
func (e *Engine) Messages(id string) []models.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Message{}, e.messages[id]...)
}

// Post appends a message to room id. Messages not from the local user bump
// the room's unread count. A message from the local user schedules a
// counterpart reply. ok is false, and nothing happens, for an unknown room.
func (e *Engine) Post(id, text string, fromUser bool, reaction, sender string) (msg models.Message, ok bool) {
	e.mu.Lock()
	i := e.roomIndex(id)
	if i < 0 {
		e.mu.Unlock()
		return models.Message{}, false
	}

	msg = models.Message{
		ID:         e.nextID,
		Text:       text,
		CreatedAt:  e.clock.Now(),
		FromUser:   fromUser,
		Reaction:   reaction,
		SenderName: sender,
	}
	e.nextID++
	e.messages[id] = append(e.messages[id], msg)

	room := &e.rooms[i]
	last := msg
	room.LastMessage = &last
	if !fromUser {
		room.UnreadCount++
	}
	if fromUser && e.scheduler != nil {
		e.armLocked(pendingReply{RoomID: id, At: msg.CreatedAt.Add(e.replyDelayLocked())})
	}
	e.commitLocked()
	e.mu.Unlock()

	e.metrics.MessagePosted(id, fromUser)
	return msg, true
}

// armLocked records r and schedules it. Overdue replies fire as soon as the
// scheduler runs.
func (e *Engine) armLocked(r pendingReply) {
	e.replies = append(e.replies, r)
	e.scheduler.Schedule(max(r.At.Sub(e.clock.Now()), 0), func() { e.simulateReply(r) })
}

func (e *Engine) dropReplyLocked(r pendingReply) {
	for i, cur := range e.replies {
		if cur.RoomID == r.RoomID && cur.At.Equal(r.At) {
			e.replies = append(e.replies[:i], e.replies[i+1:]...)
			return
		}
	}
}

// replyDelayLocked draws a delay uniformly from [replyMin, replyMax].
func (e *Engine) replyDelayLocked() time.Duration {
	span := e.replyMax - e.replyMin
	if span <= 0 {
		return e.replyMin
	}
	return e.replyMin + time.Duration(e.rnd.Float64()*float64(span))
}

// simulateReply posts the counterpart response scheduled as p. It does
// nothing if the room has since disappeared or never replies.
func (e *Engine) simulateReply(p pendingReply) {
	id := p.RoomID
	e.mu.Lock()
	e.dropReplyLocked(p)
	i := e.roomIndex(id)
	if i < 0 {
		e.commitLocked()
		e.mu.Unlock()
		log.Printf("messaging: reply skipped, room %s no longer exists", id)
		return
	}
	room := e.rooms[i]
	r, sender, ok := pickReply(room, e.rnd)
	if !ok {
		e.commitLocked()
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	if _, posted := e.Post(id, r.text, false, r.reaction, sender); posted {
		e.metrics.ReplySimulated(string(room.Category))
	}
}

// MarkRead clears room id's unread count. Unknown ids are ignored.
func (e *Engine) MarkRead(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.roomIndex(id)
	if i < 0 || e.rooms[i].UnreadCount == 0 {
		return
	}
	e.rooms[i].UnreadCount = 0
	e.commitLocked()
}

// TotalUnread sums the unread counts of every room.
func (e *Engine) TotalUnread() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := 0
	for _, r := range e.rooms {
		total += r.UnreadCount
	}
	return total
}

// Checkpoint rewrites the snapshot from the current state.
func (e *Engine) Checkpoint() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commitLocked()
}

// LastPersistError returns the most recent snapshot write failure, or nil
// once a later write has succeeded.
func (e *Engine) LastPersistError() error {
	return e.slot.LastError()
}

func copyRoom(r models.ChatRoom) models.ChatRoom {
	r.Participants = append([]string(nil), r.Participants...)
	if r.LastMessage != nil {
		last := *r.LastMessage
		r.LastMessage = &last
	}
	return r
}
