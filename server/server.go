package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/playhaven-ai/mind-go-sdk/core"
	"github.com/playhaven-ai/mind-go-sdk/genai"
	"github.com/playhaven-ai/mind-go-sdk/memory"
	"github.com/playhaven-ai/mind-go-sdk/mind"
)

// Server hosts minds and serves their operations over WebSocket.
type Server struct {
	cfg      mind.ServerConfig
	client   genai.Client
	embedder memory.Embedder

	registry  *mind.Registry
	snapshots *mind.SnapshotStore

	upgrader websocket.Upgrader
}

// New builds a server. snapshots may be nil to disable persistence.
func New(cfg mind.ServerConfig, client genai.Client, embedder memory.Embedder, snapshots *mind.SnapshotStore) *Server {
	return &Server{
		cfg:       cfg,
		client:    client,
		embedder:  embedder,
		registry:  mind.NewRegistry(),
		snapshots: snapshots,
		upgrader: websocket.Upgrader{
			// The simulation connects from a local process, not a
			// browser; origin checks do not apply.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Registry exposes the mind registry, mainly for tests.
func (s *Server) Registry() *mind.Registry { return s.registry }

// ServeHTTP upgrades the connection and serves request frames until
// the peer disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SERVER] upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	log.Printf("[SERVER] connection from %s", conn.RemoteAddr())

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[SERVER] read failed: %v", err)
			}
			return
		}

		resp := s.handle(r.Context(), req)
		if err := conn.WriteJSON(resp); err != nil {
			log.Printf("[SERVER] write failed: %v", err)
			return
		}
	}
}

// ListenAndServe blocks serving the configured address.
func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)
	log.Printf("[SERVER] listening on %s", s.cfg.Addr)
	return http.ListenAndServe(s.cfg.Addr, mux)
}

func (s *Server) handle(ctx context.Context, req Request) Response {
	switch req.Op {
	case OpCreateMind:
		return s.createMind(ctx, req)
	case OpDecideAction:
		return s.decideAction(ctx, req)
	case OpConsolidateMemories:
		return s.consolidateMemories(ctx, req)
	case OpGetState:
		return s.getState(req)
	case OpRemoveMind:
		return s.removeMind(ctx, req)
	default:
		return Response{
			RequestID: req.RequestID,
			Status:    "error",
			MindID:    req.MindID,
			Error:     &ErrorInfo{Kind: KindInvalidInput, Message: fmt.Sprintf("unknown op %q", req.Op), Field: "op"},
		}
	}
}

func (s *Server) createMind(ctx context.Context, req Request) Response {
	if req.MindID == "" {
		return errorResponse(req, &core.ValidationError{Field: "mind_id", Message: "must not be empty"})
	}
	if req.Config == nil {
		return errorResponse(req, &core.ValidationError{Field: "config", Message: "required for create_mind"})
	}

	var opts []mind.Option
	if s.cfg.MemoryPath != "" {
		opts = append(opts, mind.WithMemoryPath(s.cfg.MemoryPath))
	}
	opts = append(opts, mind.WithMaxRetries(s.cfg.MaxRetries))

	m, err := mind.New(ctx, req.MindID, *req.Config, s.client, s.embedder, opts...)
	if err != nil {
		return errorResponse(req, err)
	}

	if s.snapshots != nil {
		if snap, err := s.snapshots.Load(ctx, req.MindID); err != nil {
			log.Printf("[SERVER] snapshot load for %s failed: %v", req.MindID, err)
		} else if snap != nil {
			m.Restore(*snap)
			log.Printf("[SERVER] restored %s from snapshot", req.MindID)
		}
	}

	if err := s.registry.Add(m); err != nil {
		return errorResponse(req, err)
	}
	return Response{RequestID: req.RequestID, Status: "success", MindID: req.MindID}
}

func (s *Server) decideAction(ctx context.Context, req Request) Response {
	m, ok := s.registry.Get(req.MindID)
	if !ok {
		return s.notFound(req)
	}
	if req.Observation == nil {
		return errorResponse(req, &core.ValidationError{Field: "observation", Message: "required for decide_action"})
	}

	action, err := m.DecideAction(ctx, req.Observation, req.Events)
	if err != nil {
		return errorResponse(req, err)
	}
	s.persist(ctx, m)

	env := core.NewEnvelope(action)
	return Response{RequestID: req.RequestID, Status: "success", MindID: req.MindID, Action: &env}
}

func (s *Server) consolidateMemories(ctx context.Context, req Request) Response {
	m, ok := s.registry.Get(req.MindID)
	if !ok {
		return s.notFound(req)
	}

	count, err := m.ConsolidateMemories(ctx)
	if err != nil {
		return errorResponse(req, err)
	}
	s.persist(ctx, m)

	return Response{RequestID: req.RequestID, Status: "success", MindID: req.MindID, ConsolidatedCount: &count}
}

func (s *Server) getState(req Request) Response {
	m, ok := s.registry.Get(req.MindID)
	if !ok {
		return s.notFound(req)
	}
	state := m.State()
	return Response{RequestID: req.RequestID, Status: "success", MindID: req.MindID, State: &state}
}

func (s *Server) removeMind(ctx context.Context, req Request) Response {
	if !s.registry.Remove(req.MindID) {
		return s.notFound(req)
	}
	if s.snapshots != nil {
		if err := s.snapshots.Delete(ctx, req.MindID); err != nil {
			log.Printf("[SERVER] snapshot delete for %s failed: %v", req.MindID, err)
		}
	}
	return Response{RequestID: req.RequestID, Status: "success", MindID: req.MindID}
}

func (s *Server) notFound(req Request) Response {
	return Response{
		RequestID: req.RequestID,
		Status:    "error",
		MindID:    req.MindID,
		Error:     &ErrorInfo{Kind: KindNotFound, Message: fmt.Sprintf("mind %s not found", req.MindID), Field: "mind_id"},
	}
}

func (s *Server) persist(ctx context.Context, m *mind.Mind) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, m.Snapshot()); err != nil {
		log.Printf("[SERVER] snapshot save for %s failed: %v", m.ID(), err)
	}
}
