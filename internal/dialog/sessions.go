package dialog

import (
	"sync"

	"github.com/mmeshcher/sizbot-system/internal/model"
)

// sessionStore хранит активные сессии в памяти. Каждая сессия несёт
// собственный мьютекс: ходы одной сессии строго последовательны,
// разные сессии обрабатываются независимо.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionSlot
}

type sessionSlot struct {
	mu      sync.Mutex
	session model.Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*sessionSlot)}
}

// acquire возвращает слот сессии, создавая его при первом обращении.
func (s *sessionStore) acquire(id string) *sessionSlot {
	s.mu.RLock()
	slot, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return slot
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if slot, ok := s.sessions[id]; ok {
		return slot
	}
	slot = &sessionSlot{
		session: model.Session{ID: id, State: model.StateAwaitingTabel},
	}
	s.sessions[id] = slot
	return slot
}

// snapshot возвращает копию сессии для чтения, если она существует.
func (s *sessionStore) snapshot(id string) (model.Session, bool) {
	s.mu.RLock()
	slot, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return model.Session{}, false
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.session, true
}
