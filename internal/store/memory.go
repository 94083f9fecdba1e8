package store

import (
	"context"
	"sync"
	"time"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
)

// MemoryStore keeps every collection in process memory. Records are copied in
// and out so callers never share state with the store.
type MemoryStore struct {
	mu         sync.RWMutex
	interviews map[string]model.Interview
	questions  map[string]model.Question
	users      map[string]model.User
	accounts   map[string]model.Account
	sessions   map[string]model.Session
	profiles   map[string]model.Profile

	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		interviews: make(map[string]model.Interview),
		questions:  make(map[string]model.Question),
		users:      make(map[string]model.User),
		accounts:   make(map[string]model.Account),
		sessions:   make(map[string]model.Session),
		profiles:   make(map[string]model.Profile),
		now:        time.Now,
	}
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) CreateInterview(_ context.Context, iv *model.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.interviews[iv.ID]; ok {
		return ErrDuplicate
	}
	m.interviews[iv.ID] = *iv
	return nil
}

func (m *MemoryStore) GetInterview(_ context.Context, id string) (*model.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	iv, ok := m.interviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &iv, nil
}

func (m *MemoryStore) ListInterviews(_ context.Context, filter InterviewFilter) ([]model.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]model.Interview, 0)
	for _, iv := range m.interviews {
		if filter.Match(&iv) {
			result = append(result, iv)
		}
	}
	sortInterviews(result)
	return result, nil
}

func (m *MemoryStore) UpdateInterview(_ context.Context, id string, patch model.InterviewPatch) (*model.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	iv, ok := m.interviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&iv, m.now().UTC())
	m.interviews[id] = iv
	return &iv, nil
}

func (m *MemoryStore) DeleteInterview(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.interviews, id)
	return nil
}

func (m *MemoryStore) CreateQuestion(_ context.Context, q *model.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.questions[q.ID]; ok {
		return ErrDuplicate
	}
	m.questions[q.ID] = *q
	return nil
}

func (m *MemoryStore) GetQuestion(_ context.Context, id string) (*model.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q, ok := m.questions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &q, nil
}

func (m *MemoryStore) ListQuestions(_ context.Context, filter QuestionFilter) ([]model.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]model.Question, 0)
	for _, q := range m.questions {
		if filter.Match(&q) {
			result = append(result, q)
		}
	}
	sortQuestions(result)
	return result, nil
}

func (m *MemoryStore) UpdateQuestion(_ context.Context, id string, patch model.QuestionPatch) (*model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.questions[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&q, m.now().UTC())
	m.questions[id] = q
	return &q, nil
}

func (m *MemoryStore) DeleteQuestion(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.questions, id)
	return nil
}

func (m *MemoryStore) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.ID]; ok {
		return ErrDuplicate
	}
	m.users[u.ID] = *u
	return nil
}

func (m *MemoryStore) GetUser(_ context.Context, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryStore) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, id)
	return nil
}

func (m *MemoryStore) GetUserByAccount(_ context.Context, provider, providerAccountID string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.accounts[accountKey(provider, providerAccountID)]
	if !ok {
		return nil, ErrNotFound
	}
	u, ok := m.users[a.UserID]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryStore) LinkAccount(_ context.Context, a *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := accountKey(a.Provider, a.ProviderAccountID)
	if _, ok := m.accounts[key]; ok {
		return ErrDuplicate
	}
	m.accounts[key] = *a
	return nil
}

func (m *MemoryStore) CreateSession(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.Token] = *s
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, token string) (*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) DeleteSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)
	return nil
}

func (m *MemoryStore) GetProfile(_ context.Context, userID string) (*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStore) PutProfile(_ context.Context, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profiles[p.UserID] = *p
	return nil
}

func (m *MemoryStore) UpdateProfile(_ context.Context, userID string, patch model.ProfilePatch) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&p, m.now().UTC())
	m.profiles[userID] = p
	return &p, nil
}

func (m *MemoryStore) IncrementStats(_ context.Context, userID string, interviews, questions int64) (*model.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	p.Stats.Add(interviews, questions)
	m.profiles[userID] = p
	stats := p.Stats
	return &stats, nil
}
