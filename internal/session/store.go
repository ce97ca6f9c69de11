// Package session keeps per-session transcripts of pipeline runs in memory.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/llm"
)

// Record is one answered question as stored in a transcript.
type Record struct {
	Question           string    `json:"question"`
	Answer             string    `json:"answer"`
	SQLQuery           string    `json:"sql_query"`
	Status             string    `json:"status"`
	TokenUsage         llm.Usage `json:"token_usage"`
	LatencyMS          int64     `json:"latency_ms"`
	TableInfo          []string  `json:"table_info"`
	ValidationAttempts int       `json:"validation_attempts"`
	Timestamp          time.Time `json:"timestamp"`
}

type Summary struct {
	SessionID string    `json:"session_id"`
	Records   int       `json:"records"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type transcript struct {
	createdAt time.Time
	updatedAt time.Time
	records   []Record
}

// Store is safe for concurrent use. Appends for the same session from
// concurrent runs may interleave.
type Store struct {
	mu       sync.RWMutex
	clock    clockwork.Clock
	sessions map[string]*transcript
}

func NewStore(clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{clock: clock, sessions: make(map[string]*transcript)}
}

// Ensure creates an empty transcript for sessionID unless one exists, and
// reports whether it was created.
func (s *Store) Ensure(sessionID string) bool {
	now := s.clock.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; ok {
		return false
	}
	s.sessions[sessionID] = &transcript{createdAt: now, updatedAt: now}
	return true
}

// Append adds record to the session's transcript, creating the session on
// first use. A zero Timestamp is set to the store clock.
func (s *Store) Append(sessionID string, record Record) Record {
	now := s.clock.Now().UTC()
	if record.Timestamp.IsZero() {
		record.Timestamp = now
	}
	record.TableInfo = append([]string(nil), record.TableInfo...)

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.sessions[sessionID]
	if !ok {
		t = &transcript{createdAt: now}
		s.sessions[sessionID] = t
	}
	t.records = append(t.records, record)
	t.updatedAt = now
	return record
}

// History returns a copy of the transcript, or an empty slice.
func (s *Store) History(sessionID string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.sessions[sessionID]
	if !ok {
		return []Record{}
	}
	out := make([]Record, len(t.records))
	for i, record := range t.records {
		out[i] = record
		out[i].TableInfo = append([]string(nil), record.TableInfo...)
	}
	return out
}

// Clear removes the transcript and reports whether one existed.
func (s *Store) Clear(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return false
	}
	delete(s.sessions, sessionID)
	return true
}

// Sessions lists known sessions, most recently updated first.
func (s *Store) Sessions() []Summary {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.sessions))
	for id, t := range s.sessions {
		out = append(out, Summary{SessionID: id, Records: len(t.records), CreatedAt: t.createdAt, UpdatedAt: t.updatedAt})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].SessionID < out[j].SessionID
	})
	return out
}
