// Package server exposes HTTP handlers, including the authenticated WebSocket
// upgrade, room creation, health checks, and the built-in test page.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// NewWebSocketHandler returns the handler for live-chat connections. The
// request is verified before the upgrade: a client that fails authentication
// never gets a socket. On success the resolved user identity is bound to the
// connection and the client is handed to the hub, which launches its pumps.
func NewWebSocketHandler(hub *Hub, verifier Verifier, cfg *Config) http.HandlerFunc {
	checker := newOriginChecker(cfg.AllowedOrigins)
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checker.check,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
			return
		}

		userID, err := verifier.Verify(r)
		if err != nil {
			log.Warn("rejecting unauthenticated connection", "addr", r.RemoteAddr, "err", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("WebSocket upgrade failed", "addr", r.RemoteAddr, "err", err)
			return
		}

		client := NewClient(conn, hub, r.RemoteAddr, userID, cfg)

		// Register the client with the hub; the hub will launch the pump goroutines.
		hub.register <- client
	}
}

// NewRoomsHandler returns the handler for explicit room initialization.
// POST {"roomId": "..."} creates (or destructively resets) the room.
func NewRoomsHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var body struct {
			RoomID string `json:"roomId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RoomID == "" {
			http.Error(w, "Request body must be JSON with a non-empty roomId", http.StatusBadRequest)
			return
		}

		hub.Store().InitRoom(body.RoomID)
		log.Info("room initialized", "room", body.RoomID)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(map[string]string{"roomId": body.RoomID}); err != nil {
			log.Error("error writing room response", "err", err)
		}
	}
}

// HealthHandler provides a simple health check endpoint that returns server status.
// It responds with a plain text message indicating the server is running.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "Live chat server is running!")
}

// TestPageHandler serves an HTML page for exercising the live-chat protocol
// from a browser: connect, send addChat frames, and watch the broadcast chat
// list update.
func TestPageHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	html := `<!DOCTYPE html>
<html>
<head>
    <title>Live Chat Test</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        #chats { border: 1px solid #ccc; height: 300px; padding: 10px; overflow-y: scroll; margin: 10px 0; background-color: #f9f9f9; }
        input[type="text"] { width: 250px; padding: 5px; margin-right: 10px; }
        button { padding: 5px 15px; }
        .chat { margin: 4px 0; }
        .sender { font-weight: bold; }
        .votes { color: #777; font-size: 0.85em; }
    </style>
</head>
<body>
    <h1>Live Chat Test</h1>
    <div>
        <input type="text" id="token" placeholder="Access token">
        <input type="text" id="room" value="1" size="4">
        <button id="connectButton" onclick="connect()">Connect</button>
    </div>
    <div id="chats"></div>
    <div>
        <input type="text" id="messageInput" placeholder="Type a message..." disabled>
        <button id="sendButton" onclick="sendChat()" disabled>Send</button>
    </div>

    <script>
        let ws = null;
        const chatsDiv = document.getElementById('chats');
        const messageInput = document.getElementById('messageInput');
        const sendButton = document.getElementById('sendButton');

        function connect() {
            document.cookie = 'accessToken=' + document.getElementById('token').value;
            ws = new WebSocket('ws://' + location.host + '/ws');
            ws.onopen = function() {
                messageInput.disabled = false;
                sendButton.disabled = false;
            };
            ws.onmessage = function(event) {
                renderChats(JSON.parse(event.data));
            };
            ws.onclose = function() {
                messageInput.disabled = true;
                sendButton.disabled = true;
            };
        }

        function renderChats(chats) {
            chatsDiv.innerHTML = '';
            chats.forEach(function(chat) {
                const div = document.createElement('div');
                div.className = 'chat';
                div.innerHTML = '<span class="sender">' + chat.sender + ':</span> ' +
                    chat.message + ' <span class="votes">(' + chat.upVotes.length + ' upvotes)</span>' +
                    ' <button onclick="upVote(\'' + chat.id + '\')">&#9650;</button>';
                chatsDiv.appendChild(div);
            });
            chatsDiv.scrollTop = chatsDiv.scrollHeight;
        }

        function sendChat() {
            const msg = messageInput.value.trim();
            if (msg && ws && ws.readyState === WebSocket.OPEN) {
                ws.send(JSON.stringify({type: 'addChat', data: {roomId: document.getElementById('room').value, msg: msg}}));
                messageInput.value = '';
            }
        }

        function upVote(chatId) {
            if (ws && ws.readyState === WebSocket.OPEN) {
                ws.send(JSON.stringify({type: 'upVote', data: {roomId: document.getElementById('room').value, chatId: chatId}}));
            }
        }

        messageInput.addEventListener('keypress', function(e) {
            if (e.key === 'Enter') { sendChat(); }
        });
    </script>
</body>
</html>`
	if _, err := fmt.Fprint(w, html); err != nil {
		log.Error("error writing HTML response", "err", err)
	}
}
