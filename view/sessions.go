package view

import (
	"sync"
	"time"

	"github.com/pivolan/case_dashboard/domain/models"
)

type session struct {
	pagers   map[string]*Pager
	lastSeen time.Time
}

// Sessions keeps one Pager per (session, dataset slot).
type Sessions struct {
	pageSize int

	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

func NewSessions(pageSize int) *Sessions {
	return &Sessions{
		pageSize: pageSize,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// With runs fn on the pager of session id for ds. The pager is created on first use
// and synced to ds otherwise. fn runs under the store lock.
func (s *Sessions) With(id string, ds *models.Dataset, fn func(p *Pager) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{pagers: make(map[string]*Pager)}
		s.sessions[id] = sess
	}
	sess.lastSeen = s.now()

	p, ok := sess.pagers[ds.ID]
	if !ok {
		p = NewPager(ds, s.pageSize)
		sess.pagers[ds.ID] = p
	} else {
		p.Sync(ds)
	}
	return fn(p)
}

// Replaced resets every pager showing the slot of ds. Pagers already synced to
// this load are left alone. It is meant to be subscribed to dataset registry events.
func (s *Sessions) Replaced(ds *models.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		p, ok := sess.pagers[ds.ID]
		if !ok {
			continue
		}
		if cur := p.Dataset(); cur != nil && cur.Locator == ds.Locator && cur.Generation == ds.Generation {
			continue
		}
		p.Replace(ds)
	}
}

// Prune drops sessions idle for longer than ttl and returns how many were removed.
func (s *Sessions) Prune(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
