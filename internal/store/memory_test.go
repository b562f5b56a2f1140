package store_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamhive/livechat-server/internal/store"
)

func TestInMemoryStore_AddAndGet(t *testing.T) {
	s := store.NewInMemoryStore()
	s.InitRoom("r1")

	s.AddChat("r1", "hello", "u1")
	s.AddChat("r1", "world", "u2")

	chats := s.GetChats("r1", 10, 0)
	require.Len(t, chats, 2)

	assert.Equal(t, "hello", chats[0].Message)
	assert.Equal(t, "u1", chats[0].Sender)
	assert.Equal(t, "world", chats[1].Message)
	assert.Equal(t, "u2", chats[1].Sender)
	assert.NotEmpty(t, chats[0].ID)
	assert.NotEqual(t, chats[0].ID, chats[1].ID)
	assert.Empty(t, chats[0].UpVotes)
}

func TestInMemoryStore_BoundedHistory(t *testing.T) {
	s := store.NewInMemoryStore()
	s.InitRoom("r1")

	for i := 1; i <= 105; i++ {
		s.AddChat("r1", fmt.Sprintf("m%d", i), "u1")
	}

	chats := s.GetChats("r1", store.MaxRoomHistory, 0)
	require.Len(t, chats, store.MaxRoomHistory)

	// FIFO eviction: m1..m5 are gone, the window is [m6..m105] in order.
	assert.Equal(t, "m6", chats[0].Message)
	assert.Equal(t, "m105", chats[len(chats)-1].Message)
	for i, chat := range chats {
		assert.Equal(t, fmt.Sprintf("m%d", i+6), chat.Message)
	}

	// The evicted entries are unrecoverable even with a larger window.
	all := s.GetChats("r1", 1000, 0)
	assert.Len(t, all, store.MaxRoomHistory)
	assert.Equal(t, "m6", all[0].Message)
}

func TestInMemoryStore_UnknownRoom(t *testing.T) {
	s := store.NewInMemoryStore()

	assert.NotPanics(t, func() {
		s.AddChat("nonexistent", "hi", "u1")
		s.UpVote("nonexistent", "c1", "u1")
	})

	chats := s.GetChats("nonexistent", 10, 0)
	assert.NotNil(t, chats)
	assert.Empty(t, chats)
}

func TestInMemoryStore_Pagination(t *testing.T) {
	s := store.NewInMemoryStore()
	s.InitRoom("r1")

	for i := 0; i < 10; i++ {
		s.AddChat("r1", fmt.Sprintf("m%d", i), "u1")
	}

	tests := []struct {
		name     string
		limit    int
		offset   int
		expected []string
	}{
		{name: "window in the middle", limit: 3, offset: 2, expected: []string{"m2", "m3", "m4"}},
		{name: "window at the start", limit: 2, offset: 0, expected: []string{"m0", "m1"}},
		{name: "window past the end", limit: 5, offset: 8, expected: []string{"m8", "m9"}},
		{name: "offset beyond history", limit: 3, offset: 50, expected: []string{}},
		{name: "zero limit", limit: 0, offset: 0, expected: []string{}},
		{name: "negative offset", limit: 3, offset: -1, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chats := s.GetChats("r1", tt.limit, tt.offset)
			require.Len(t, chats, len(tt.expected))
			for i, msg := range tt.expected {
				assert.Equal(t, msg, chats[i].Message)
			}
		})
	}
}

func TestInMemoryStore_UpVote(t *testing.T) {
	s := store.NewInMemoryStore()
	s.InitRoom("r1")
	s.AddChat("r1", "hello", "u1")

	chatID := s.GetChats("r1", 1, 0)[0].ID

	s.UpVote("r1", chatID, "u2")
	s.UpVote("r1", chatID, "u3")

	chats := s.GetChats("r1", 1, 0)
	assert.Equal(t, []string{"u2", "u3"}, chats[0].UpVotes)
}

func TestInMemoryStore_UpVoteNoDedup(t *testing.T) {
	s := store.NewInMemoryStore()
	s.InitRoom("r1")
	s.AddChat("r1", "hello", "u1")

	chatID := s.GetChats("r1", 1, 0)[0].ID

	// Repeated upvotes by the same user are recorded repeatedly.
	s.UpVote("r1", chatID, "u2")
	s.UpVote("r1", chatID, "u2")

	chats := s.GetChats("r1", 1, 0)
	assert.Equal(t, []string{"u2", "u2"}, chats[0].UpVotes)
}

func TestInMemoryStore_UpVoteUnknownChat(t *testing.T) {
	s := store.NewInMemoryStore()
	s.InitRoom("r1")
	s.AddChat("r1", "hello", "u1")

	assert.NotPanics(t, func() {
		s.UpVote("r1", "no-such-chat", "u2")
	})

	chats := s.GetChats("r1", 1, 0)
	assert.Empty(t, chats[0].UpVotes)
}

func TestInMemoryStore_UpVoteEvictedChat(t *testing.T) {
	s := store.NewInMemoryStore()
	s.InitRoom("r1")
	s.AddChat("r1", "first", "u1")

	evictedID := s.GetChats("r1", 1, 0)[0].ID

	for i := 0; i < store.MaxRoomHistory; i++ {
		s.AddChat("r1", fmt.Sprintf("m%d", i), "u1")
	}

	// The first chat has been evicted; upvoting it is a silent no-op.
	assert.NotPanics(t, func() {
		s.UpVote("r1", evictedID, "u2")
	})

	for _, chat := range s.GetChats("r1", store.MaxRoomHistory, 0) {
		assert.NotEqual(t, evictedID, chat.ID)
		assert.Empty(t, chat.UpVotes)
	}
}

func TestInMemoryStore_ReInitResetsHistory(t *testing.T) {
	s := store.NewInMemoryStore()

	s.InitRoom("r1")
	s.AddChat("r1", "hello", "u1")
	require.Len(t, s.GetChats("r1", 10, 0), 1)

	// Re-initializing is destructive: the history is wiped.
	s.InitRoom("r1")
	assert.Empty(t, s.GetChats("r1", 10, 0))
}

func TestInMemoryStore_HasRoom(t *testing.T) {
	s := store.NewInMemoryStore()

	assert.False(t, s.HasRoom("r1"))
	s.InitRoom("r1")
	assert.True(t, s.HasRoom("r1"))
}

func TestInMemoryStore_ConcurrentAccess(t *testing.T) {
	s := store.NewInMemoryStore()
	s.InitRoom("r1")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.AddChat("r1", fmt.Sprintf("w%d-%d", id, j), fmt.Sprintf("u%d", id))
				s.GetChats("r1", store.MaxRoomHistory, 0)
			}
		}(i)
	}
	wg.Wait()

	chats := s.GetChats("r1", store.MaxRoomHistory, 0)
	assert.Len(t, chats, store.MaxRoomHistory)
}
