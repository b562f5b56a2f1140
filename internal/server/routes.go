// Package server wires HTTP handlers into a ServeMux for the live-chat
// application via routing helpers.
package server

import "net/http"

// SetupRoutes configures and returns an HTTP ServeMux with all application
// routes: health check, the authenticated WebSocket endpoint, explicit room
// initialization, and the test page.
func SetupRoutes(hub *Hub, verifier Verifier, cfg *Config) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", HealthHandler)
	mux.HandleFunc("/ws", NewWebSocketHandler(hub, verifier, cfg))
	mux.HandleFunc("/rooms", NewRoomsHandler(hub))
	mux.HandleFunc("/test", TestPageHandler)
	return mux
}
