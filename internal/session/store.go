package session

import (
	"sync"
	"time"

	"fantamatto_bot/internal/model"
)

type Kind int

const (
	Idle Kind = iota
	AwaitingPassword
	AwaitingPhoto
	AwaitingGalleryMode
	AwaitingAdminAction
	AwaitingCatalogUpload
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case AwaitingPassword:
		return "awaiting_password"
	case AwaitingPhoto:
		return "awaiting_photo"
	case AwaitingGalleryMode:
		return "awaiting_gallery_mode"
	case AwaitingAdminAction:
		return "awaiting_admin_action"
	case AwaitingCatalogUpload:
		return "awaiting_catalog_upload"
	default:
		return "unknown"
	}
}

type SubjectKind int

const (
	SubjectUser SubjectKind = iota + 1
	SubjectMatto
)

// Subject is whose gallery the chat picked.
type Subject struct {
	Kind SubjectKind
	ID   int64
}

// State is the single pending interaction of a chat. Only the payload field
// matching Kind is meaningful.
type State struct {
	Kind        Kind
	Report      *model.PendingReport
	Subject     Subject
	ManagedUser int64

	setAt time.Time
}

func Password() State {
	return State{Kind: AwaitingPassword}
}

func Photo(report model.PendingReport) State {
	return State{Kind: AwaitingPhoto, Report: &report}
}

func GalleryMode(subject Subject) State {
	return State{Kind: AwaitingGalleryMode, Subject: subject}
}

func AdminAction(userChatID int64) State {
	return State{Kind: AwaitingAdminAction, ManagedUser: userChatID}
}

func CatalogUpload() State {
	return State{Kind: AwaitingCatalogUpload}
}

// Store keeps conversation state in memory, one slot per chat. Setting a new
// state replaces whatever the chat was doing before.
type Store struct {
	mu     sync.Mutex
	states map[int64]State
	ttl    time.Duration
	now    func() time.Time
}

// NewStore creates a store. A zero ttl keeps states until they are consumed.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		states: make(map[int64]State),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *Store) expired(st State) bool {
	return s.ttl > 0 && s.now().Sub(st.setAt) > s.ttl
}

// Get returns the chat's state, or an Idle state if there is none.
func (s *Store) Get(chatID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[chatID]
	if !ok || s.expired(st) {
		return State{Kind: Idle}
	}
	return st
}

func (s *Store) Set(chatID int64, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st.Kind == Idle {
		delete(s.states, chatID)
		return
	}
	st.setAt = s.now()
	s.states[chatID] = st
}

func (s *Store) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, chatID)
}

// Take removes and returns the chat's state if it is of the given kind.
// A state of another kind is left in place.
func (s *Store) Take(chatID int64, kind Kind) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[chatID]
	if !ok || st.Kind != kind {
		return State{Kind: Idle}, false
	}
	delete(s.states, chatID)
	if s.expired(st) {
		return State{Kind: Idle}, false
	}
	return st, true
}

// Sweep drops expired states and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl <= 0 {
		return 0
	}

	removed := 0
	for chatID, st := range s.states {
		if s.expired(st) {
			delete(s.states, chatID)
			removed++
		}
	}
	return removed
}

// Reset wipes every state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states = make(map[int64]State)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.states)
}
