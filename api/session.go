package api

import (
	crand "crypto/rand"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/formsense/repcoach/internal/exercise"
	"github.com/formsense/repcoach/internal/rep"
)

// Session wraps one processor behind the HTTP layer. The core carries no
// synchronisation of its own, so the session mutex serialises frame
// submissions, resets and snapshots.
type Session struct {
	ID      string
	Profile exercise.Profile
	Created time.Time

	mu   sync.Mutex // guards proc across frame/reset/snapshot calls
	proc *rep.Processor

	subMu       sync.Mutex
	subscribers map[string]chan []byte
}

func newSession(proc *rep.Processor) *Session {
	return &Session{
		ID:          uuid.NewString(),
		Profile:     proc.Profile,
		Created:     time.Now(),
		proc:        proc,
		subscribers: make(map[string]chan []byte),
	}
}

// randomID generates a random subscriber ID (8 byte random hex encoded value).
func randomID() string {
	b := make([]byte, 8)
	crand.Read(b)
	return hex.EncodeToString(b)
}

// Subscribe creates a channel receiving the session's discrete events as
// JSON payloads. Slow subscribers drop events rather than stall the frame
// path.
func (s *Session) Subscribe() (string, chan []byte) {
	id := randomID()
	ch := make(chan []byte, 8)
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (s *Session) Unsubscribe(id string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if ch, ok := s.subscribers[id]; ok {
		close(ch)
		delete(s.subscribers, id)
	}
}

func (s *Session) broadcast(ev *rep.Event) {
	if ev == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- payload:
		default:
		}
	}
}

func (s *Session) closeSubscribers() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
}

// Snapshot is the display-facing view of a session.
type Snapshot struct {
	ID             string            `json:"id"`
	Exercise       exercise.Exercise `json:"exercise"`
	Level          exercise.Level    `json:"level"`
	CorrectCount   int               `json:"correct_count"`
	IncorrectCount int               `json:"incorrect_count"`
	CurrentState   rep.State         `json:"current_state"`
	ActiveBanners  []rep.Cue         `json:"active_banners"`
	Summary        rep.Summary       `json:"summary"`
}

func (s *Session) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.proc.State
	return Snapshot{
		ID:             s.ID,
		Exercise:       s.Profile.Exercise,
		Level:          s.Profile.Level,
		CorrectCount:   st.CorrectCount,
		IncorrectCount: st.IncorrectCount,
		CurrentState:   st.CurrState,
		ActiveBanners:  st.ActiveCues(),
		Summary:        rep.Summarize(st.Reps),
	}
}
