// Package store owns all live-chat room state: bounded chat history and
// upvotes, keyed by opaque room identifiers. It is the single source of truth
// for the chat engine; nothing in it touches the network.
package store

// Chat is one user-authored message within a room.
//
// UpVotes is conceptually a set of user ids but is stored as an ordered
// sequence with no dedup enforcement: the same user upvoting twice appears
// twice. Sender is fixed at creation and never mutated.
type Chat struct {
	ID      string   `json:"id"`
	Sender  string   `json:"sender"`
	Message string   `json:"message"`
	UpVotes []string `json:"upVotes"`
}

// Room is a named chat channel holding a bounded, oldest-first history.
type Room struct {
	ID    string `json:"id"`
	Chats []Chat `json:"chats"`
}

// Store is the capability interface for chat-room state. A room has two
// states, uninitialized and initialized; only InitRoom performs that
// transition. Every other operation is defined as a silent no-op against an
// uninitialized room rather than an error, so a misbehaving client cannot
// take the chat overlay down.
type Store interface {
	// InitRoom creates an empty room keyed by roomID. Calling it again for
	// the same id resets the room's history. It never fails.
	InitRoom(roomID string)

	// GetChats returns at most limit chats starting at offset, oldest-first.
	// An unknown room yields an empty slice, not an error.
	GetChats(roomID string, limit, offset int) []Chat

	// AddChat appends a new chat with a freshly generated id and an empty
	// upvote set. Unknown room: no-op. Histories are capped; the oldest
	// entry is evicted once the cap is exceeded.
	AddChat(roomID, message, senderID string)

	// UpVote records userID against the chat with chatID in the given room.
	// Unknown room or chat (including already-evicted chats): no-op.
	UpVote(roomID, chatID, userID string)
}
