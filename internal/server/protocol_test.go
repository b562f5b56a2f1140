package server_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamhive/livechat-server/internal/server"
)

func TestParseCommand_AddChat(t *testing.T) {
	cmd, err := server.ParseCommand([]byte(`{"type":"addChat","data":{"roomId":"1","msg":"hello"}}`))
	require.NoError(t, err)

	assert.Equal(t, server.TypeAddChat, cmd.Type)
	require.NotNil(t, cmd.AddChat)
	assert.Equal(t, "1", cmd.AddChat.RoomID)
	assert.Equal(t, "hello", cmd.AddChat.Msg)
	assert.Equal(t, "1", cmd.RoomID())
}

func TestParseCommand_UpVote(t *testing.T) {
	cmd, err := server.ParseCommand([]byte(`{"type":"upVote","data":{"roomId":"1","chatId":"abc"}}`))
	require.NoError(t, err)

	assert.Equal(t, server.TypeUpVote, cmd.Type)
	require.NotNil(t, cmd.UpVote)
	assert.Equal(t, "1", cmd.UpVote.RoomID)
	assert.Equal(t, "abc", cmd.UpVote.ChatID)
	assert.Equal(t, "1", cmd.RoomID())
}

func TestParseCommand_EmptyMessageAllowed(t *testing.T) {
	// Present-but-empty is valid: the protocol requires the key, not content.
	cmd, err := server.ParseCommand([]byte(`{"type":"addChat","data":{"roomId":"1","msg":""}}`))
	require.NoError(t, err)
	assert.Equal(t, "", cmd.AddChat.Msg)
}

func TestParseCommand_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{name: "malformed JSON", raw: `{"type":"addChat",`},
		{name: "not an object", raw: `"addChat"`},
		{name: "missing data", raw: `{"type":"addChat"}`, wantErr: server.ErrInvalidPayload},
		{name: "unknown type", raw: `{"type":"deleteChat","data":{}}`, wantErr: server.ErrUnknownType},
		{name: "empty type", raw: `{"type":"","data":{}}`, wantErr: server.ErrUnknownType},
		{name: "addChat missing msg", raw: `{"type":"addChat","data":{"roomId":"1"}}`, wantErr: server.ErrInvalidPayload},
		{name: "addChat missing roomId", raw: `{"type":"addChat","data":{"msg":"hi"}}`, wantErr: server.ErrInvalidPayload},
		{name: "addChat non-string msg", raw: `{"type":"addChat","data":{"roomId":"1","msg":5}}`, wantErr: server.ErrInvalidPayload},
		{name: "addChat data not an object", raw: `{"type":"addChat","data":"hello"}`, wantErr: server.ErrInvalidPayload},
		{name: "upVote missing chatId", raw: `{"type":"upVote","data":{"roomId":"1"}}`, wantErr: server.ErrInvalidPayload},
		{name: "upVote missing roomId", raw: `{"type":"upVote","data":{"chatId":"abc"}}`, wantErr: server.ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := server.ParseCommand([]byte(tt.raw))
			require.Error(t, err)
			assert.Nil(t, cmd)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
