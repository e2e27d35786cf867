// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package feed

import (
	"sync"
	"time"

	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

// Field names one independently published part of the snapshot.
type Field string

const (
	FieldOverall  Field = "overall"
	FieldRefresh  Field = "refresh"
	FieldWatching Field = "watching"
	FieldSports   Field = "sports"
	FieldLatest   Field = "latest"
	FieldHero     Field = "hero"
	FieldBackdrop Field = "backdrop"
)

// Snapshot is the published feed. Each field is replaced wholesale on
// publish, so slices held by a reader never change underneath it.
type Snapshot struct {
	Overall  LoadState          `json:"overall"`
	Refresh  LoadState          `json:"refresh"`
	Watching []Row              `json:"watching"`
	Sports   []Row              `json:"sports"`
	Latest   []Row              `json:"latest"`
	Hero     []models.MediaItem `json:"hero"`
	Backdrop *models.MediaItem  `json:"backdrop,omitempty"`

	// Session is the load session that last wrote the snapshot.
	Session   uint64    `json:"session"`
	Seq       uint64    `json:"seq"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Update is delivered to subscribers after each field publish.
type Update struct {
	Field    Field    `json:"field"`
	Snapshot Snapshot `json:"snapshot"`
}

// Store holds the current snapshot. The orchestrator is its only writer;
// every write names the session it belongs to and is dropped when that
// session is no longer current.
type Store struct {
	mu      sync.RWMutex
	snap    Snapshot
	current uint64
	now     func() time.Time

	subs   map[int]*subscriber
	nextID int
}

type subscriber struct {
	ch     chan Update
	fields map[Field]struct{}
}

// NewStore returns a store whose feed is Pending.
func NewStore() *Store {
	return &Store{
		snap: Snapshot{
			Overall:  LoadState{Status: StatusPending},
			Refresh:  LoadState{Status: StatusPending},
			Watching: []Row{},
			Sports:   []Row{},
			Latest:   []Row{},
			Hero:     []models.MediaItem{},
		},
		now:  time.Now,
		subs: make(map[int]*subscriber),
	}
}

// Snapshot returns the current feed.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe registers for field updates. With no fields every update is
// delivered. Sends never block: when the buffer is full the update is
// dropped, and the subscriber can always read Snapshot for the latest state.
// The returned func unsubscribes and closes the channel.
func (s *Store) Subscribe(buffer int, fields ...Field) (<-chan Update, func()) {
	if buffer < 1 {
		buffer = 1
	}
	sub := &subscriber{ch: make(chan Update, buffer)}
	if len(fields) > 0 {
		sub.fields = make(map[Field]struct{}, len(fields))
		for _, f := range fields {
			sub.fields[f] = struct{}{}
		}
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	s.mu.Unlock()
	metrics.FeedSubscribers.Inc()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(sub.ch)
			s.mu.Unlock()
			metrics.FeedSubscribers.Dec()
		})
	}
}

// begin starts a new session and reports whether it is a cold start.
// A cold start marks the feed Loading and clears the backdrop.
func (s *Store) begin() (session uint64, cold bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current++
	session = s.current
	cold = s.snap.Overall.Status != StatusSuccess

	s.snap.Session = session
	if cold {
		s.snap.Overall = LoadState{Status: StatusLoading}
		s.snap.Backdrop = nil
		s.changed(FieldOverall, FieldBackdrop)
	}
	s.snap.Refresh = LoadState{Status: StatusLoading}
	s.changed(FieldRefresh)
	return session, cold
}

// idle records that session had no user to load for.
func (s *Store) idle(session uint64, cold bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accept(session, FieldRefresh) {
		return false
	}
	if cold {
		s.snap.Overall = LoadState{Status: StatusPending}
		s.changed(FieldOverall)
	}
	s.snap.Refresh = LoadState{Status: StatusPending}
	s.changed(FieldRefresh)
	return true
}

// fail records a session-fatal error. A warm session keeps the previous
// content and only reports the failure through the refresh state.
func (s *Store) fail(session uint64, cold bool, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accept(session, FieldOverall) {
		return false
	}
	state := LoadState{Status: StatusError, Message: err.Error()}
	if cold {
		s.snap.Overall = state
		s.changed(FieldOverall)
	}
	s.snap.Refresh = state
	s.changed(FieldRefresh)
	return true
}

// publishPhase1 writes the watching rows and the phase-two placeholders,
// then marks the feed usable. Watching is always notified first.
func (s *Store) publishPhase1(session uint64, cold bool, watching, sports, latest []Row) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accept(session, FieldWatching) {
		return false
	}

	s.snap.Watching = watching
	s.changed(FieldWatching)
	s.snap.Sports = sports
	s.changed(FieldSports)
	s.snap.Latest = latest
	s.changed(FieldLatest)
	if cold {
		s.snap.Hero = []models.MediaItem{}
		s.changed(FieldHero)
	}
	s.snap.Overall = LoadState{Status: StatusSuccess}
	s.changed(FieldOverall)
	s.snap.Refresh = LoadState{Status: StatusSuccess}
	s.changed(FieldRefresh)
	return true
}

func (s *Store) publishHero(session uint64, items []models.MediaItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accept(session, FieldHero) {
		return false
	}
	s.snap.Hero = items
	s.changed(FieldHero)
	return true
}

func (s *Store) publishSports(session uint64, rows []Row) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accept(session, FieldSports) {
		return false
	}
	s.snap.Sports = rows
	s.changed(FieldSports)
	return true
}

// publishLatestRow replaces one latest row. A row already resolved in this
// session is left alone.
func (s *Store) publishLatestRow(session uint64, index int, row Row) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accept(session, FieldLatest) {
		return false
	}
	if index < 0 || index >= len(s.snap.Latest) || s.snap.Latest[index].Status.Resolved() {
		return false
	}

	rows := make([]Row, len(s.snap.Latest))
	copy(rows, s.snap.Latest)
	rows[index] = row
	s.snap.Latest = rows
	s.changed(FieldLatest)
	return true
}

// setBackdrop is not tied to a session.
func (s *Store) setBackdrop(item *models.MediaItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item != nil {
		cp := *item
		item = &cp
	}
	s.snap.Backdrop = item
	s.changed(FieldBackdrop)
}

// currentSession returns the id of the newest session.
func (s *Store) currentSession() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// accept reports whether session may still write. Caller holds s.mu.
func (s *Store) accept(session uint64, field Field) bool {
	if session != s.current {
		metrics.RecordStalePublish(string(field))
		return false
	}
	return true
}

// changed bumps the sequence and notifies subscribers. Caller holds s.mu.
func (s *Store) changed(fields ...Field) {
	for _, f := range fields {
		s.snap.Seq++
		s.snap.UpdatedAt = s.now()
		u := Update{Field: f, Snapshot: s.snap}
		for _, sub := range s.subs {
			if sub.fields != nil {
				if _, ok := sub.fields[f]; !ok {
					continue
				}
			}
			select {
			case sub.ch <- u:
			default:
				metrics.FeedSubscriberDrops.Inc()
			}
		}
	}
}
