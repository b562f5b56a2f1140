// Package server defines shared message types and utility helpers that are
// reused across client and hub logic.
package server

import "strings"

// BroadcastMessage asks the hub to fan out the current chat history of a room
// to every open connection.
type BroadcastMessage struct {
	RoomID string
}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
