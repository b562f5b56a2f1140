package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/streamhive/livechat-server/internal/server"
	"github.com/streamhive/livechat-server/internal/store"
)

func main() {
	config := loadConfig()
	config.Sanitize()

	// The room store is the single source of truth for chat state; rooms
	// must be initialized explicitly before they accept messages.
	roomStore := store.NewInMemoryStore()
	for _, roomID := range config.Chat.Rooms {
		roomStore.InitRoom(roomID)
		log.Info("room initialized", "room", roomID)
	}

	hub := server.NewHub(roomStore, config.Chat.BroadcastPageSize)
	go hub.Run()

	verifier := server.NewJWTVerifier(config.Auth.Secret)
	mux := server.SetupRoutes(hub, verifier, config)
	httpServer := server.CreateServer(config.Port, mux)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.StartServer(httpServer)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "err", err)
		}
	case sig := <-stop:
		log.Info("received shutdown signal", "signal", sig)
		if err := server.ShutdownServer(httpServer, 10*time.Second); err != nil {
			log.Error("HTTP shutdown did not complete cleanly", "err", err)
		}
		if err := hub.Shutdown(5 * time.Second); err != nil {
			log.Error("hub shutdown did not complete cleanly", "err", err)
		}
	}
}

// loadConfig resolves configuration in layers: defaults, then the TOML file
// named by CONFIG_FILE (if any), then environment variable overrides.
func loadConfig() *server.Config {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		config, err := server.LoadConfigFile(path)
		if err != nil {
			log.Fatal("failed to load config file", "path", path, "err", err)
		}
		config.ApplyEnv()
		return config
	}
	return server.NewConfigFromEnv()
}
