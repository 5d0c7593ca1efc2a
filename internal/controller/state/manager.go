package state

import (
	"sync"

	"github.com/Freeeeeet/wellness_client/internal/service"
)

// Manager управляет состояниями пользователей
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session // telegramID -> Session
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
	}
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if s, exists := sm.sessions[telegramID]; exists {
		return s.State
	}
	return StateNone
}

// SetState устанавливает состояние пользователя, StateNone удаляет сессию
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		delete(sm.sessions, telegramID)
		return
	}
	sm.session(telegramID).State = state
}

// StartForm начинает диалог создания плана с чистой формой
func (sm *Manager) StartForm(telegramID int64, state UserState, form *service.PlanForm) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s := sm.session(telegramID)
	s.State = state
	s.Form = form
}

// UpdateForm применяет fn к форме пользователя под блокировкой.
// Возвращает false, если формы нет.
func (sm *Manager) UpdateForm(telegramID int64, fn func(form *service.PlanForm)) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, exists := sm.sessions[telegramID]
	if !exists || s.Form == nil {
		return false
	}
	fn(s.Form)
	return true
}

// Form возвращает копию текущей формы
func (sm *Manager) Form(telegramID int64) (service.PlanForm, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	s, exists := sm.sessions[telegramID]
	if !exists || s.Form == nil {
		return service.PlanForm{}, false
	}
	return *s.Form, true
}

func (sm *Manager) GetValue(telegramID int64, key string) (string, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if s, exists := sm.sessions[telegramID]; exists {
		value, ok := s.Values[key]
		return value, ok
	}
	return "", false
}

func (sm *Manager) SetValue(telegramID int64, key, value string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.session(telegramID).Values[key] = value
}

// ClearState очищает состояние и данные пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, telegramID)
}

// session вызывается под mu
func (sm *Manager) session(telegramID int64) *Session {
	s, exists := sm.sessions[telegramID]
	if !exists {
		s = &Session{Values: make(map[string]string)}
		sm.sessions[telegramID] = s
	}
	return s
}
