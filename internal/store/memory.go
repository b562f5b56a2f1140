package store

import (
	"sync"

	"github.com/google/uuid"
)

// MaxRoomHistory is the number of chats a room retains. Once exceeded, the
// oldest chat is evicted (FIFO).
const MaxRoomHistory = 100

// InMemoryStore keeps all room state in process memory. Rooms live for the
// lifetime of the server process; there is no persistence and no eviction
// beyond the per-room history cap.
//
// All methods are safe for concurrent use: the server runs one read pump per
// connection, so mutations from different connections interleave only at the
// operation boundary enforced by the mutex.
type InMemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewInMemoryStore creates an empty store with no rooms.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		rooms: make(map[string]*Room),
	}
}

// InitRoom creates an empty room keyed by roomID, overwriting any existing
// room with the same id. Re-initializing a live room discards its history;
// callers own that decision.
func (s *InMemoryStore) InitRoom(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms[roomID] = &Room{ID: roomID, Chats: []Chat{}}
}

// GetChats returns a copy of the room's chat window: skip offset entries,
// then at most limit entries, oldest-first. Out-of-range windows and unknown
// rooms yield an empty slice.
func (s *InMemoryStore) GetChats(roomID string, limit, offset int) []Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	if !ok || limit <= 0 || offset < 0 || offset >= len(room.Chats) {
		return []Chat{}
	}

	end := offset + limit
	if end > len(room.Chats) {
		end = len(room.Chats)
	}

	chats := make([]Chat, end-offset)
	copy(chats, room.Chats[offset:end])
	return chats
}

// AddChat appends a new chat to the room. Unknown room: silent no-op. When
// the history exceeds MaxRoomHistory the oldest entry is dropped.
func (s *InMemoryStore) AddChat(roomID, message, senderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return
	}

	room.Chats = append(room.Chats, Chat{
		ID:      uuid.NewString(),
		Sender:  senderID,
		Message: message,
		UpVotes: []string{},
	})

	if len(room.Chats) > MaxRoomHistory {
		room.Chats = room.Chats[1:]
	}
}

// UpVote appends userID to the upvote sequence of the chat with chatID.
// Linear search; the history cap keeps it short. Repeated upvotes by the
// same user are recorded repeatedly. Unknown room or chat: silent no-op.
func (s *InMemoryStore) UpVote(roomID, chatID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return
	}

	for i := range room.Chats {
		if room.Chats[i].ID == chatID {
			room.Chats[i].UpVotes = append(room.Chats[i].UpVotes, userID)
			return
		}
	}
}

// HasRoom reports whether roomID has been initialized.
func (s *InMemoryStore) HasRoom(roomID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.rooms[roomID]
	return ok
}
