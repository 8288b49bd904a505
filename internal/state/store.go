package state

import (
	"sync"
)

// DefaultMessage is the prompt shown before any search has been made.
const DefaultMessage = "Search for the movie title!"

// Field names a SearchState field for subscriptions.
type Field int

const (
	FieldInputText Field = iota
	FieldSearchText
	FieldMessage
)

func (f Field) String() string {
	switch f {
	case FieldInputText:
		return "inputText"
	case FieldSearchText:
		return "searchText"
	case FieldMessage:
		return "message"
	default:
		return "unknown"
	}
}

// SearchState is the text the user is typing, the text they committed, and the
// status line shown when there is nothing else to render.
type SearchState struct {
	InputText  string
	SearchText string
	Message    string
}

// InitialState returns the start-of-session state for the given prompt.
func InitialState(message string) SearchState {
	if message == "" {
		message = DefaultMessage
	}
	return SearchState{Message: message}
}

// Listener receives the state as it was right after the subscribed field changed.
type Listener func(SearchState)

type subscription struct {
	id    uint64
	field Field
	fn    Listener
}

// Store coordinates concurrent reads and updates of the search state.
type Store struct {
	mu      sync.RWMutex
	initial SearchState
	current SearchState

	subMu  sync.Mutex
	nextID uint64
	subs   []subscription
}

// New returns a Store seeded with InitialState(message).
func New(message string) *Store {
	initial := InitialState(message)
	return &Store{initial: initial, current: initial}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() SearchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Initial returns the state ResetMovies restores.
func (s *Store) Initial() SearchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initial
}

// SetInputText replaces the text being typed.
func (s *Store) SetInputText(text string) {
	s.apply(func(st *SearchState) { st.InputText = text })
}

// SetSearchText commits text as the query the search observes.
func (s *Store) SetSearchText(text string) {
	s.apply(func(st *SearchState) { st.SearchText = text })
}

// SetMessage replaces the status message.
func (s *Store) SetMessage(text string) {
	s.apply(func(st *SearchState) { st.Message = text })
}

// ResetMovies restores every field to its initial value in a single update.
func (s *Store) ResetMovies() {
	s.mu.RLock()
	initial := s.initial
	s.mu.RUnlock()
	s.apply(func(st *SearchState) { *st = initial })
}

// Subscribe registers fn for changes to field and returns a func that removes it.
// Listeners run on the mutating goroutine after the store lock is released.
func (s *Store) Subscribe(field Field, fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, field: field, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Store) remove(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

func (s *Store) apply(mutate func(*SearchState)) {
	s.mu.Lock()
	before := s.current
	mutate(&s.current)
	after := s.current
	s.mu.Unlock()

	s.notify(changedFields(before, after), after)
}

func (s *Store) notify(changed []Field, st SearchState) {
	if len(changed) == 0 {
		return
	}
	s.subMu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, field := range changed {
		for _, sub := range subs {
			if sub.field == field {
				sub.fn(st)
			}
		}
	}
}

func changedFields(before, after SearchState) []Field {
	var out []Field
	if before.InputText != after.InputText {
		out = append(out, FieldInputText)
	}
	if before.SearchText != after.SearchText {
		out = append(out, FieldSearchText)
	}
	if before.Message != after.Message {
		out = append(out, FieldMessage)
	}
	return out
}
