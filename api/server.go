// Package api exposes the rep-counting core over HTTP: session lifecycle,
// per-frame landmark submission, live event streaming (SSE) and Prometheus
// metrics. Annotations stay JSON draw-op data; rendering is the client's
// problem.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/formsense/repcoach/internal/exercise"
	"github.com/formsense/repcoach/internal/monitoring"
	"github.com/formsense/repcoach/internal/overlay"
	"github.com/formsense/repcoach/internal/pose"
	"github.com/formsense/repcoach/internal/rep"
)

// Server is the HTTP session registry.
type Server struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	metrics  *Metrics
}

// NewServer returns an empty session server.
func NewServer() *Server {
	return &Server{
		sessions: make(map[string]*Session),
		metrics:  NewMetrics(),
	}
}

// ServeMux routes the API.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/profiles", s.listProfiles)
	mux.HandleFunc("POST /api/sessions", s.createSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.getSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.deleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/frames", s.submitFrame)
	mux.HandleFunc("POST /api/sessions/{id}/reset", s.resetSession)
	mux.HandleFunc("GET /api/sessions/{id}/events", s.streamEvents)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("/", s.homeHandler)
	return mux
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("repcoach session server"))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		monitoring.Logf("api: failed to encode response: %v", err)
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[r.PathValue("id")]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil
	}
	return sess
}

func (s *Server) listProfiles(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, exercise.All())
}

// CreateSessionRequest selects the profile for a new session, with optional
// threshold overrides applied on top of the canonical values.
type CreateSessionRequest struct {
	Exercise  exercise.Exercise   `json:"exercise"`
	Level     exercise.Level      `json:"level"`
	Overrides *exercise.Overrides `json:"overrides,omitempty"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	profile, err := exercise.Lookup(req.Exercise, req.Level)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Overrides != nil {
		profile, err = req.Overrides.Apply(profile)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	proc, err := rep.NewProcessor(profile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess := newSession(proc)
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.metrics.ActiveSessions.Inc()

	monitoring.Logf("api: session %s created (%s/%s)", sess.ID, profile.Exercise, profile.Level)
	s.writeJSON(w, http.StatusCreated, sess.snapshot())
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.snapshot())
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sess, ok := s.sessions[r.PathValue("id")]
	if ok {
		delete(s.sessions, sess.ID)
	}
	s.mu.Unlock()
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	sess.closeSubscribers()
	s.metrics.ActiveSessions.Dec()
	monitoring.Logf("api: session %s deleted", sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

// FrameResponse carries the per-frame output: draw operations plus at most
// one discrete event.
type FrameResponse struct {
	Annotations overlay.Annotations `json:"annotations"`
	Event       *rep.Event          `json:"event,omitempty"`
}

func (s *Server) submitFrame(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}

	var frame pose.Frame
	if err := json.NewDecoder(r.Body).Decode(&frame); err != nil {
		http.Error(w, fmt.Sprintf("invalid frame body: %v", err), http.StatusBadRequest)
		return
	}
	if frame.Width <= 0 || frame.Height <= 0 {
		http.Error(w, "frame dimensions must be positive", http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	ann, ev := sess.proc.Process(frame)
	sess.mu.Unlock()

	s.metrics.FramesProcessed.Inc()
	if ev != nil {
		switch ev.Kind {
		case rep.EventCorrect:
			s.metrics.CorrectReps.Inc()
		case rep.EventIncorrect:
			s.metrics.IncorrectReps.Inc()
		case rep.EventHardReset:
			s.metrics.HardResets.Inc()
			monitoring.Logf("api: session %s hard reset (inactivity)", sess.ID)
		}
		sess.broadcast(ev)
	}

	s.writeJSON(w, http.StatusOK, FrameResponse{Annotations: ann, Event: ev})
}

func (s *Server) resetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	sess.mu.Lock()
	sess.proc.Reset()
	sess.mu.Unlock()
	monitoring.Logf("api: session %s reset on demand", sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable buffering for nginx

	id, ch := sess.Subscribe()
	defer sess.Unsubscribe(id)

	// Initial ping to establish the stream.
	w.Write([]byte(": ping\n\n"))
	flusher.Flush()

	for {
		select {
		case payload, ok := <-ch:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
