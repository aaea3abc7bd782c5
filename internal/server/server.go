package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/manty98/lakdi/internal/config"
	"github.com/manty98/lakdi/internal/game/room"
	"github.com/manty98/lakdi/internal/protocol"
	"github.com/manty98/lakdi/internal/server/handler"
	"github.com/manty98/lakdi/internal/server/storage"
	"github.com/manty98/lakdi/internal/types"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // tighten for production deployments
	},
}

// Server is the WebSocket front door: it owns the connection registry
// and hands decoded messages to the handler.
type Server struct {
	config      *config.Config
	store       *storage.RedisStore
	roomManager *room.Manager
	handler     *handler.Handler

	clients   map[string]*Client
	clientsMu sync.RWMutex

	httpServer *http.Server
}

// NewServer wires the server. A missing Redis is downgraded to a
// warning: the game is authoritative in memory, the mirror is optional.
func NewServer(cfg *config.Config) *Server {
	store, err := storage.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("⚠️ Redis unavailable, running without mirror: %v", err)
		store = nil
	}

	s := &Server{
		config:  cfg,
		store:   store,
		clients: make(map[string]*Client),
	}
	s.roomManager = room.NewManager(cfg, store)
	s.handler = handler.New(handler.Deps{
		Server: s,
		Rooms:  s.roomManager,
		Store:  store,
	})
	return s
}

// Start blocks serving /ws and /health until Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/rooms", s.handleRoomMirror)

	go s.monitorStats()

	log.Printf("🚀 Server listening on ws://%s/ws (CPUs: %d)", addr, runtime.NumCPU())
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the listener, the rooms and the mirror.
func (s *Server) Shutdown(ctx context.Context) {
	if s.httpServer != nil {
		_ = s.httpServer.Shutdown(ctx)
	}
	s.roomManager.Shutdown()
	if s.store != nil {
		_ = s.store.Close()
	}
	log.Println("👋 Server stopped")
}

// handleWebSocket upgrades the connection and starts the client pumps.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(s, conn)
	s.registerClient(client)

	client.SendMessage(protocol.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PlayerID: client.ID,
	}))
	log.Printf("✅ Client %s connected", client.ID)

	go client.ReadPump()
	go client.WritePump()
}

// handleHealth reports liveness plus a couple of counters.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"online": s.GetOnlineCount(),
		"rooms":  s.roomManager.RoomCount(),
	})
}

// handleRoomMirror serves the persisted mirror of a room by code, for
// inspecting rooms that no longer live in memory.
func (s *Server) handleRoomMirror(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "mirror disabled", http.StatusServiceUnavailable)
		return
	}
	code := strings.ToUpper(r.URL.Query().Get("code"))
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	state, err := s.store.LoadRoom(r.Context(), code)
	if err != nil {
		http.Error(w, "mirror read failed", http.StatusInternalServerError)
		return
	}
	if state == nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(state)
}

// monitorStats logs server load periodically.
func (s *Server) monitorStats() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		log.Printf("📊 [stats] online: %d | rooms: %d | goroutines: %d | mem: %.2f MB",
			s.GetOnlineCount(), s.roomManager.RoomCount(), runtime.NumGoroutine(),
			float64(m.Alloc)/1024/1024)
	}
}

func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		log.Printf("❌ Client %s disconnected", client.ID)
	}
}

// Interface implementations for types.ServerInterface

func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

func (s *Server) GetClientByID(id string) types.ClientInterface {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	if c, ok := s.clients[id]; ok {
		return c
	}
	return nil
}

func (s *Server) RegisterClient(id string, client types.ClientInterface) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if c, ok := client.(*Client); ok {
		s.clients[id] = c
	}
}

func (s *Server) UnregisterClient(id string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, id)
}
