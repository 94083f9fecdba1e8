package store

import (
	"context"
	"errors"
	"sort"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// InterviewFilter selects interviews by equality. Zero fields match anything.
type InterviewFilter struct {
	UserID string
	Public *bool
}

func (f InterviewFilter) Match(iv *model.Interview) bool {
	if f.UserID != "" && iv.UserID != f.UserID {
		return false
	}
	if f.Public != nil && iv.Public != *f.Public {
		return false
	}
	return true
}

// QuestionFilter selects questions by equality. VisibleTo matches questions
// owned by that user or global ones.
type QuestionFilter struct {
	UserID      string
	VisibleTo   string
	InterviewID string
	Global      *bool
	Type        model.Category
}

func (f QuestionFilter) Match(q *model.Question) bool {
	if f.UserID != "" && q.UserID != f.UserID {
		return false
	}
	if f.VisibleTo != "" && !q.VisibleTo(f.VisibleTo) {
		return false
	}
	if f.InterviewID != "" && q.InterviewID != f.InterviewID {
		return false
	}
	if f.Global != nil && q.Global != *f.Global {
		return false
	}
	if f.Type != "" && q.Type != f.Type {
		return false
	}
	return true
}

type InterviewStore interface {
	CreateInterview(ctx context.Context, iv *model.Interview) error
	GetInterview(ctx context.Context, id string) (*model.Interview, error)
	ListInterviews(ctx context.Context, filter InterviewFilter) ([]model.Interview, error)
	UpdateInterview(ctx context.Context, id string, patch model.InterviewPatch) (*model.Interview, error)
	DeleteInterview(ctx context.Context, id string) error
}

type QuestionStore interface {
	CreateQuestion(ctx context.Context, q *model.Question) error
	GetQuestion(ctx context.Context, id string) (*model.Question, error)
	ListQuestions(ctx context.Context, filter QuestionFilter) ([]model.Question, error)
	UpdateQuestion(ctx context.Context, id string, patch model.QuestionPatch) (*model.Question, error)
	DeleteQuestion(ctx context.Context, id string) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByAccount(ctx context.Context, provider, providerAccountID string) (*model.User, error)
	LinkAccount(ctx context.Context, a *model.Account) error
	DeleteUser(ctx context.Context, id string) error
}

type SessionStore interface {
	CreateSession(ctx context.Context, s *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	PutProfile(ctx context.Context, p *model.Profile) error
	UpdateProfile(ctx context.Context, userID string, patch model.ProfilePatch) (*model.Profile, error)
	IncrementStats(ctx context.Context, userID string, interviews, questions int64) (*model.Stats, error)
}

// Store bundles every record collection behind one backend.
type Store interface {
	InterviewStore
	QuestionStore
	UserStore
	SessionStore
	ProfileStore
	Close() error
}

func sortInterviews(ivs []model.Interview) {
	sort.SliceStable(ivs, func(i, j int) bool {
		return ivs[i].CreatedAt.After(ivs[j].CreatedAt)
	})
}

func sortQuestions(qs []model.Question) {
	sort.SliceStable(qs, func(i, j int) bool {
		return qs[i].CreatedAt.After(qs[j].CreatedAt)
	})
}

func accountKey(provider, providerAccountID string) string {
	return provider + "#" + providerAccountID
}
