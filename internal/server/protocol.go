// Package server defines the inbound live-chat wire protocol: a JSON envelope
// dispatching to typed payloads per message kind.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message kinds accepted over a live-chat connection.
const (
	TypeAddChat = "addChat"
	TypeUpVote  = "upVote"
)

var (
	// ErrUnknownType is returned for an envelope whose type has no payload schema.
	ErrUnknownType = errors.New("unknown message type")
	// ErrInvalidPayload is returned when a payload fails its per-type schema.
	ErrInvalidPayload = errors.New("invalid message payload")
)

// Envelope is the top-level shape of every inbound frame. The payload stays
// raw until the type is known.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// AddChatPayload carries a new chat message for a room.
type AddChatPayload struct {
	RoomID string `json:"roomId"`
	Msg    string `json:"msg"`
}

// UpVotePayload records an upvote for an existing chat in a room.
type UpVotePayload struct {
	RoomID string `json:"roomId"`
	ChatID string `json:"chatId"`
}

// Command is a validated inbound frame, exactly one payload field set
// according to Type.
type Command struct {
	Type    string
	AddChat *AddChatPayload
	UpVote  *UpVotePayload
}

// RoomID returns the room the command targets.
func (c *Command) RoomID() string {
	switch c.Type {
	case TypeAddChat:
		return c.AddChat.RoomID
	case TypeUpVote:
		return c.UpVote.RoomID
	}
	return ""
}

// ParseCommand parses and validates one inbound text frame. Any failure —
// malformed JSON, a missing envelope field, an unknown type, or a payload
// missing a required field — yields an error; the caller drops the frame
// without signaling the client.
func ParseCommand(raw []byte) (*Command, error) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: envelope missing data", ErrInvalidPayload)
	}

	switch envelope.Type {
	case TypeAddChat:
		payload, err := parseAddChat(envelope.Data)
		if err != nil {
			return nil, err
		}
		return &Command{Type: TypeAddChat, AddChat: payload}, nil

	case TypeUpVote:
		payload, err := parseUpVote(envelope.Data)
		if err != nil {
			return nil, err
		}
		return &Command{Type: TypeUpVote, UpVote: payload}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, envelope.Type)
	}
}

// parseAddChat validates the addChat payload. Pointer fields distinguish a
// missing key from an empty string; both roomId and msg must be present.
func parseAddChat(data json.RawMessage) (*AddChatPayload, error) {
	var fields struct {
		RoomID *string `json:"roomId"`
		Msg    *string `json:"msg"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if fields.RoomID == nil || fields.Msg == nil {
		return nil, fmt.Errorf("%w: addChat requires roomId and msg", ErrInvalidPayload)
	}
	return &AddChatPayload{RoomID: *fields.RoomID, Msg: *fields.Msg}, nil
}

func parseUpVote(data json.RawMessage) (*UpVotePayload, error) {
	var fields struct {
		RoomID *string `json:"roomId"`
		ChatID *string `json:"chatId"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if fields.RoomID == nil || fields.ChatID == nil {
		return nil, fmt.Errorf("%w: upVote requires roomId and chatId", ErrInvalidPayload)
	}
	return &UpVotePayload{RoomID: *fields.RoomID, ChatID: *fields.ChatID}, nil
}
