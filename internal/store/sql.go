package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
)

// Collections of the document table.
const (
	collInterviews = "interviews"
	collQuestions  = "questions"
	collUsers      = "users"
	collAccounts   = "accounts"
	collSessions   = "sessions"
	collProfiles   = "profiles"
)

// dialect captures what differs between the SQL drivers.
type dialect struct {
	name        string
	numbered    bool // $1, $2 placeholders instead of ?
	isDuplicate func(error) bool
}

// SQLStore emulates the document table on a SQL database: each record is a
// JSON document keyed by (collection, id). Queries scan a collection and
// filter in Go, the same way the DynamoDB backend does.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

var _ Store = (*SQLStore)(nil)

func newSQLStore(db *sql.DB, d dialect) (*SQLStore, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (collection, id)
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create records table: %w", err)
	}

	return &SQLStore{db: db, dialect: d, now: time.Now}, nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rebind rewrites ? placeholders for drivers that use numbered ones.
func rebind(numbered bool, query string) string {
	if !numbered {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLStore) insert(ctx context.Context, collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", collection, err)
	}

	_, err = s.db.ExecContext(ctx,
		rebind(s.dialect.numbered, "INSERT INTO records (collection, id, data) VALUES (?, ?, ?)"),
		collection, id, string(data),
	)
	if err != nil {
		if s.dialect.isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert %s record: %w", collection, err)
	}
	return nil
}

func (s *SQLStore) upsert(ctx context.Context, q querier, collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", collection, err)
	}

	_, err = q.ExecContext(ctx,
		rebind(s.dialect.numbered, `
			INSERT INTO records (collection, id, data) VALUES (?, ?, ?)
			ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data
		`),
		collection, id, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to write %s record: %w", collection, err)
	}
	return nil
}

func getDoc[T any](ctx context.Context, s *SQLStore, q querier, collection, id string) (*T, error) {
	row := q.QueryRowContext(ctx,
		rebind(s.dialect.numbered, "SELECT data FROM records WHERE collection = ? AND id = ?"),
		collection, id,
	)

	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s record: %w", collection, err)
	}

	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s record: %w", collection, err)
	}
	return &v, nil
}

func scanDocs[T any](ctx context.Context, s *SQLStore, collection string, match func(*T) bool) ([]T, error) {
	rows, err := s.db.QueryContext(ctx,
		rebind(s.dialect.numbered, "SELECT data FROM records WHERE collection = ?"),
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", collection, err)
	}
	defer rows.Close()

	result := make([]T, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		var v T
		if err := json.Unmarshal([]byte(data), &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s record: %w", collection, err)
		}
		if match(&v) {
			result = append(result, v)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

// modify reads a document, lets fn change it and writes it back in one
// transaction.
func modify[T any](ctx context.Context, s *SQLStore, collection, id string, fn func(*T)) (*T, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	v, err := getDoc[T](ctx, s, tx, collection, id)
	if err != nil {
		return nil, err
	}
	fn(v)
	if err := s.upsert(ctx, tx, collection, id, v); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit %s update: %w", collection, err)
	}
	return v, nil
}

func (s *SQLStore) remove(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		rebind(s.dialect.numbered, "DELETE FROM records WHERE collection = ? AND id = ?"),
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete %s record: %w", collection, err)
	}
	return nil
}

func (s *SQLStore) CreateInterview(ctx context.Context, iv *model.Interview) error {
	return s.insert(ctx, collInterviews, iv.ID, iv)
}

func (s *SQLStore) GetInterview(ctx context.Context, id string) (*model.Interview, error) {
	return getDoc[model.Interview](ctx, s, s.db, collInterviews, id)
}

func (s *SQLStore) ListInterviews(ctx context.Context, filter InterviewFilter) ([]model.Interview, error) {
	ivs, err := scanDocs(ctx, s, collInterviews, filter.Match)
	if err != nil {
		return nil, err
	}
	sortInterviews(ivs)
	return ivs, nil
}

func (s *SQLStore) UpdateInterview(ctx context.Context, id string, patch model.InterviewPatch) (*model.Interview, error) {
	now := s.now().UTC()
	return modify(ctx, s, collInterviews, id, func(iv *model.Interview) {
		patch.Apply(iv, now)
	})
}

func (s *SQLStore) DeleteInterview(ctx context.Context, id string) error {
	return s.remove(ctx, collInterviews, id)
}

func (s *SQLStore) CreateQuestion(ctx context.Context, q *model.Question) error {
	return s.insert(ctx, collQuestions, q.ID, q)
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (*model.Question, error) {
	return getDoc[model.Question](ctx, s, s.db, collQuestions, id)
}

func (s *SQLStore) ListQuestions(ctx context.Context, filter QuestionFilter) ([]model.Question, error) {
	qs, err := scanDocs(ctx, s, collQuestions, filter.Match)
	if err != nil {
		return nil, err
	}
	sortQuestions(qs)
	return qs, nil
}

func (s *SQLStore) UpdateQuestion(ctx context.Context, id string, patch model.QuestionPatch) (*model.Question, error) {
	now := s.now().UTC()
	return modify(ctx, s, collQuestions, id, func(q *model.Question) {
		patch.Apply(q, now)
	})
}

func (s *SQLStore) DeleteQuestion(ctx context.Context, id string) error {
	return s.remove(ctx, collQuestions, id)
}

func (s *SQLStore) CreateUser(ctx context.Context, u *model.User) error {
	return s.insert(ctx, collUsers, u.ID, u)
}

func (s *SQLStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	return getDoc[model.User](ctx, s, s.db, collUsers, id)
}

func (s *SQLStore) DeleteUser(ctx context.Context, id string) error {
	return s.remove(ctx, collUsers, id)
}

func (s *SQLStore) GetUserByAccount(ctx context.Context, provider, providerAccountID string) (*model.User, error) {
	a, err := getDoc[model.Account](ctx, s, s.db, collAccounts, accountKey(provider, providerAccountID))
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, a.UserID)
}

func (s *SQLStore) LinkAccount(ctx context.Context, a *model.Account) error {
	return s.insert(ctx, collAccounts, accountKey(a.Provider, a.ProviderAccountID), a)
}

func (s *SQLStore) CreateSession(ctx context.Context, sess *model.Session) error {
	return s.upsert(ctx, s.db, collSessions, sess.Token, sess)
}

func (s *SQLStore) GetSession(ctx context.Context, token string) (*model.Session, error) {
	return getDoc[model.Session](ctx, s, s.db, collSessions, token)
}

func (s *SQLStore) DeleteSession(ctx context.Context, token string) error {
	return s.remove(ctx, collSessions, token)
}

func (s *SQLStore) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	return getDoc[model.Profile](ctx, s, s.db, collProfiles, userID)
}

func (s *SQLStore) PutProfile(ctx context.Context, p *model.Profile) error {
	return s.upsert(ctx, s.db, collProfiles, p.UserID, p)
}

func (s *SQLStore) UpdateProfile(ctx context.Context, userID string, patch model.ProfilePatch) (*model.Profile, error) {
	now := s.now().UTC()
	return modify(ctx, s, collProfiles, userID, func(p *model.Profile) {
		patch.Apply(p, now)
	})
}

func (s *SQLStore) IncrementStats(ctx context.Context, userID string, interviews, questions int64) (*model.Stats, error) {
	p, err := modify(ctx, s, collProfiles, userID, func(p *model.Profile) {
		p.Stats.Add(interviews, questions)
	})
	if err != nil {
		return nil, err
	}
	return &p.Stats, nil
}
