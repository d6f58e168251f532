// Package session keeps bounded per-session conversation history in memory.
// History lives for the process lifetime only; distinct session ids are
// capped by LRU eviction so anonymous traffic cannot grow the map without
// bound.
package session

import (
	"container/list"
	"sync"

	"infomate/internal/domain"
)

const (
	// DefaultID is shared by all callers that do not supply a session id.
	DefaultID = "default"

	// DefaultMaxTurns retains the 10 most recent exchanges.
	DefaultMaxTurns = 20

	DefaultMaxSessions = 1000
)

// Store is a process-wide map from session id to conversation turns.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*list.Element
	order       *list.List // front = most recently used
	maxTurns    int
	maxSessions int
}

type entry struct {
	id    string
	turns []domain.Turn
}

func NewStore(maxTurns, maxSessions int) *Store {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Store{
		sessions:    make(map[string]*list.Element),
		order:       list.New(),
		maxTurns:    maxTurns,
		maxSessions: maxSessions,
	}
}

// History returns a copy of the turns recorded for the session, oldest first.
// An unknown id yields an empty history; sessions are created lazily on
// first append.
func (s *Store) History(id string) []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.sessions[id]
	if !ok {
		return nil
	}
	s.order.MoveToFront(el)
	turns := el.Value.(*entry).turns
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out
}

// AppendExchange records one completed query: the user question followed by
// the assistant answer, truncated to the most recent maxTurns turns.
func (s *Store) AppendExchange(id, question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.sessions[id]
	if !ok {
		el = s.order.PushFront(&entry{id: id})
		s.sessions[id] = el
		s.evictLocked()
	} else {
		s.order.MoveToFront(el)
	}
	e := el.Value.(*entry)
	e.turns = append(e.turns,
		domain.Turn{Role: domain.RoleUser, Content: question},
		domain.Turn{Role: domain.RoleAssistant, Content: answer},
	)
	if n := len(e.turns); n > s.maxTurns {
		e.turns = append([]domain.Turn(nil), e.turns[n-s.maxTurns:]...)
	}
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) evictLocked() {
	for len(s.sessions) > s.maxSessions {
		oldest := s.order.Back()
		if oldest == nil {
			return
		}
		s.order.Remove(oldest)
		delete(s.sessions, oldest.Value.(*entry).id)
	}
}
