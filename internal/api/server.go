package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/gorilla/mux"

	"bridgy/internal/expert"
	"bridgy/internal/llm"
	"bridgy/internal/store"
)

// Server is the REST API server
type Server struct {
	router    *expert.Router
	store     store.Store
	llmRouter *llm.Router // nil when LLM is not configured (e.g. heuristic-only mode)
	port      int
	log       logr.Logger
}

// NewServer creates a new API server
func NewServer(router *expert.Router, st store.Store, port int, log logr.Logger) *Server {
	return &Server{
		router: router,
		store:  st,
		port:   port,
		log:    log,
	}
}

// WithLLMRouter attaches an LLM router to the server, enabling the
// /api/v1/llm/ping endpoint and LLM-generated follow-up questions.
func (s *Server) WithLLMRouter(r *llm.Router) *Server {
	s.llmRouter = r
	return s
}

// Handler builds the route table. Exposed separately from Start so tests can
// drive it through httptest.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(loggingMiddleware(s.log))

	// API Routes
	v1 := r.PathPrefix("/api/v1").Subrouter()

	// Threads
	v1.HandleFunc("/threads", s.listThreads).Methods("GET")
	v1.HandleFunc("/threads", s.createThread).Methods("POST")
	v1.HandleFunc("/threads/{threadId}", s.getThread).Methods("GET")
	v1.HandleFunc("/threads/{threadId}", s.deleteThread).Methods("DELETE")
	v1.HandleFunc("/threads/{threadId}/messages", s.listMessages).Methods("GET")
	v1.HandleFunc("/threads/{threadId}/messages", s.sendMessage).Methods("POST")

	// Expert availability
	v1.HandleFunc("/experts", s.listExperts).Methods("GET")

	// LLM connectivity test
	v1.HandleFunc("/llm/ping", s.pingLLM).Methods("POST")

	// Health check
	r.HandleFunc("/healthz", s.healthz)

	return r
}

// Start starts the API server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.log.Info("listening", "address", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// --- Handlers ---

func (s *Server) listThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := s.store.ListThreads(r.Context(), 100)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": threads,
		"total": len(threads),
	})
}

func (s *Server) createThread(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ThreadName string `json:"threadName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ThreadName == "" {
		req.ThreadName = fmt.Sprintf("Conversation %s", time.Now().Format("2006-01-02 15:04"))
	}

	thread, err := s.store.CreateThread(r.Context(), req.ThreadName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, thread)
}

func (s *Server) getThread(w http.ResponseWriter, r *http.Request) {
	threadID := mux.Vars(r)["threadId"]
	thread, err := s.store.GetThread(r.Context(), threadID)
	if err != nil {
		if errors.Is(err, store.ErrThreadNotFound) {
			http.Error(w, "thread not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	respondJSON(w, http.StatusOK, thread)
}

func (s *Server) deleteThread(w http.ResponseWriter, r *http.Request) {
	threadID := mux.Vars(r)["threadId"]
	if err := s.store.DeleteThread(r.Context(), threadID); err != nil {
		if errors.Is(err, store.ErrThreadNotFound) {
			http.Error(w, "thread not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	threadID := mux.Vars(r)["threadId"]
	if _, err := s.store.GetThread(r.Context(), threadID); err != nil {
		if errors.Is(err, store.ErrThreadNotFound) {
			http.Error(w, "thread not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	messages, err := s.store.ListMessages(r.Context(), threadID, 100)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": messages,
		"total": len(messages),
	})
}

// sendMessage is the main question endpoint: route through the expert router,
// persist the exchange, and return the formatted answer with follow-up
// suggestions. Routing never fails, so a 5xx here can only come from the
// store.
func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	threadID := mux.Vars(r)["threadId"]

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		http.Error(w, "invalid request body: non-empty \"message\" required", http.StatusBadRequest)
		return
	}

	if _, err := s.store.GetThread(r.Context(), threadID); err != nil {
		if errors.Is(err, store.ErrThreadNotFound) {
			http.Error(w, "thread not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	ans := s.router.Route(r.Context(), req.Message)

	msg, err := s.store.AppendMessage(r.Context(), store.Message{
		ThreadID:         threadID,
		UserMessage:      req.Message,
		AssistantMessage: ans.Text,
		Expert:           ans.Label,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"messageId":         msg.MessageID,
		"threadId":          threadID,
		"response":          FormatAnswer(ans.Text, ans.Label),
		"expert":            ans.Label,
		"degraded":          ans.Degraded,
		"followUpQuestions": s.followUps(r.Context(), req.Message, ans.Text),
		"timestamp":         msg.Timestamp,
	})
}

// listExperts reports which experts were constructed at startup.
func (s *Server) listExperts(w http.ResponseWriter, r *http.Request) {
	type expertStatus struct {
		Name      string `json:"name"`
		Label     string `json:"label"`
		Available bool   `json:"available"`
	}
	items := make([]expertStatus, 0, len(expert.Kinds()))
	for _, k := range expert.Kinds() {
		items = append(items, expertStatus{
			Name:      k.String(),
			Label:     k.Label(),
			Available: s.router.Available(k),
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// pingLLM tests connectivity to the configured LLM provider.
//
// POST /api/v1/llm/ping
//
// Response:
//
//	{"provider":"openai","status":"ok","latency_ms":342}
//	{"provider":"openai","status":"error","error":"401 Unauthorized"}
func (s *Server) pingLLM(w http.ResponseWriter, r *http.Request) {
	if s.llmRouter == nil {
		http.Error(w, "LLM provider not configured", http.StatusServiceUnavailable)
		return
	}

	// Fixed timeout to avoid hanging the health check indefinitely.
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	start := time.Now()
	_, err := s.llmRouter.Generate(ctx, "Reply with 'pong' only.")
	latencyMs := time.Since(start).Milliseconds()

	type pingResponse struct {
		Provider  string `json:"provider"`
		Status    string `json:"status"`
		LatencyMs int64  `json:"latency_ms"`
		Error     string `json:"error,omitempty"`
	}

	resp := pingResponse{
		Provider:  s.llmRouter.DefaultProvider(),
		LatencyMs: latencyMs,
	}

	if err != nil {
		resp.Status = "error"
		resp.Error = err.Error()
		respondJSON(w, http.StatusOK, resp) // return 200 with error body, not 5xx
		return
	}

	resp.Status = "ok"
	respondJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(err.Error()))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func loggingMiddleware(log logr.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info("request",
				"method", r.Method,
				"uri", r.RequestURI,
				"duration", time.Since(start),
			)
		})
	}
}
