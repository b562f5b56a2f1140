// Package server implements the live-chat WebSocket engine: authenticated
// connection handling, the {type, data} message protocol, and server-wide
// fan-out of room state after each accepted command.
//
// The implementation is organized into specialized files for configuration,
// authentication, protocol parsing, hub management, clients, routing, and
// HTTP handlers to keep the codebase maintainable and testable as the
// project grows. Room state itself lives in the store package; this package
// only ever mutates it through the Store interface.
package server
