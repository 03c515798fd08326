package state

import "sync"

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	chatMu   map[int64]*sync.Mutex
}

// NewMemoryManager constructs an in-memory Manager. Sessions live for
// the process lifetime and are never persisted; entries accumulate,
// which is acceptable for a single-operator tool.
func NewMemoryManager() Manager {
	return &memoryManager{
		sessions: make(map[int64]*Session),
		chatMu:   make(map[int64]*sync.Mutex),
	}
}

func (m *memoryManager) session(chatID int64) *Session {
	sess, ok := m.sessions[chatID]
	if !ok {
		sess = &Session{Step: StepIdle, Scratch: make(map[string]any)}
		m.sessions[chatID] = sess
	}
	return sess
}

// Get returns the session for a chat, creating it on first contact.
func (m *memoryManager) Get(chatID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session(chatID)
}

func (m *memoryManager) SetLoggedIn(chatID int64, v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(chatID).LoggedIn = v
}

func (m *memoryManager) IsLoggedIn(chatID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[chatID]
	return ok && sess.LoggedIn
}

// Reset returns the chat to logged-out, idle, empty scratch.
func (m *memoryManager) Reset(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[chatID] = &Session{Step: StepIdle, Scratch: make(map[string]any)}
}

func (m *memoryManager) SetScratch(chatID int64, key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(chatID).Scratch[key] = value
}

func (m *memoryManager) Scratch(chatID int64, key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[chatID]
	if !ok {
		return nil, false
	}
	val, ok := sess.Scratch[key]
	return val, ok
}

func (m *memoryManager) ScratchInt64(chatID int64, key string) (int64, bool) {
	val, found := m.Scratch(chatID, key)
	if !found {
		return 0, false
	}
	v, ok := val.(int64)
	if !ok {
		return 0, false
	}
	return v, true
}

func (m *memoryManager) ClearScratch(chatID int64, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[chatID]; ok {
		delete(sess.Scratch, key)
	}
}

// DropScratch discards the whole scratch bag, keeping login state.
func (m *memoryManager) DropScratch(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[chatID]; ok {
		sess.Scratch = make(map[string]any)
	}
}

// SetStep registers the pending step, superseding any previous one.
func (m *memoryManager) SetStep(chatID int64, st Step) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(chatID).Step = st
}

func (m *memoryManager) Step(chatID int64) Step {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[chatID]; ok {
		return sess.Step
	}
	return StepIdle
}

func (m *memoryManager) ClearStep(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[chatID]; ok {
		sess.Step = StepIdle
	}
}

func (m *memoryManager) InProgress(chatID int64) bool {
	return m.Step(chatID) != StepIdle
}

// Lock serializes step dispatch for one chat.
func (m *memoryManager) Lock(chatID int64) {
	m.mu.Lock()
	mu, ok := m.chatMu[chatID]
	if !ok {
		mu = &sync.Mutex{}
		m.chatMu[chatID] = mu
	}
	m.mu.Unlock()
	mu.Lock()
}

func (m *memoryManager) Unlock(chatID int64) {
	m.mu.RLock()
	mu, ok := m.chatMu[chatID]
	m.mu.RUnlock()
	if ok {
		mu.Unlock()
	}
}
