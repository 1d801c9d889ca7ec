package bot

import "sync"

// Stage names the point of the dialog a user is currently at.
type Stage int

const (
	StageMainMenu Stage = iota
	StageChoosingCrypto
	StageChoosingCurrency
	StageTypingSearch
)

func (s Stage) String() string {
	switch s {
	case StageMainMenu:
		return "main_menu"
	case StageChoosingCrypto:
		return "choosing_crypto"
	case StageChoosingCurrency:
		return "choosing_currency"
	case StageTypingSearch:
		return "typing_search"
	}
	return "unknown"
}

// Session is the per-user dialog state: the current stage plus the coin
// picked on the way to a currency choice. It never outlives the process.
type Session struct {
	Stage  Stage
	CoinID string
}

// Sessions owns all live dialog sessions keyed by Telegram user id.
// Updates for distinct users may arrive concurrently, so the map is
// guarded; a single user's updates are handled serially by the poller.
type Sessions struct {
	mu sync.Mutex
	m  map[int64]*Session
}

// NewSessions creates an empty session store.
func NewSessions() *Sessions {
	return &Sessions{m: make(map[int64]*Session)}
}

// Get returns the session for the user, creating a fresh one at the
// main menu when the user is seen for the first time.
func (s *Sessions) Get(userID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[userID]
	if !ok {
		sess = &Session{Stage: StageMainMenu}
		s.m[userID] = sess
	}
	return sess
}

// Reset drops any stored coin and puts the user back at the main menu.
func (s *Sessions) Reset(userID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &Session{Stage: StageMainMenu}
	s.m[userID] = sess
	return sess
}

// Stage reports the current stage without creating a session.
func (s *Sessions) Stage(userID int64) Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.m[userID]; ok {
		return sess.Stage
	}
	return StageMainMenu
}

// Len counts live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
