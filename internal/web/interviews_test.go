package web

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
	"github.com/JFernando12/app-interviews-sub000/internal/store"
)

func TestCreateInterview(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/interviews", "u1", map[string]any{
		"company": "Acme",
		"type":    "technical",
		"public":  true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Acme", body["company"])
	assert.Equal(t, "not_started", body["state"])
	assert.Equal(t, "u1", body["user_id"])
	assert.NotEmpty(t, body["id"])
	assert.NotEmpty(t, body["created_at"])
	assert.Equal(t, body["created_at"], body["updated_at"])

	stored, err := e.store.GetInterview(context.Background(), body["id"].(string))
	require.NoError(t, err)
	assert.Equal(t, model.StateNotStarted, stored.State)

	p, err := e.store.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Stats.Interviews)
}

func TestCreateInterviewValidation(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		name string
		body any
		want string
	}{
		{"missing company", map[string]any{"type": "technical"}, "company is required"},
		{"unknown category", map[string]any{"company": "Acme", "type": "vibes"}, "type must be one of"},
		{"unknown language", map[string]any{"company": "Acme", "programming_language": "cobol"}, "programming_language must be one of"},
		{"not json", "{", "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/api/interviews", "u1", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeBody[apiErrorResponse](t, rec).Message, tt.want)
		})
	}
}

func TestInterviewOwnership(t *testing.T) {
	e := newTestEnv(t)
	iv := e.createInterview(t, "u1", map[string]any{"company": "Secret Corp"})

	for _, tc := range []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/interviews/" + iv.ID, nil},
		{http.MethodPut, "/api/interviews/" + iv.ID, map[string]any{"company": "Mine now"}},
		{http.MethodPut, "/api/interviews/" + iv.ID, map[string]any{}},
		{http.MethodPut, "/api/interviews/" + iv.ID, map[string]any{"state": "bogus"}},
		{http.MethodPut, "/api/interviews/" + iv.ID, "{"},
		{http.MethodDelete, "/api/interviews/" + iv.ID, nil},
		{http.MethodGet, "/api/interviews/" + iv.ID + "/questions", nil},
	} {
		rec := e.do(t, tc.method, tc.path, "u2", tc.body)
		assert.Equal(t, http.StatusForbidden, rec.Code, tc.method+" "+tc.path)
		assert.NotContains(t, rec.Body.String(), "Secret Corp")
	}

	stored, err := e.store.GetInterview(context.Background(), iv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Secret Corp", stored.Company)

	rec := e.do(t, http.MethodGet, "/api/interviews/missing", "u1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAndUpdateInterview(t *testing.T) {
	e := newTestEnv(t)
	iv := e.createInterview(t, "u1", map[string]any{"company": "Acme"})
	e.createInterview(t, "u2", map[string]any{"company": "Globex"})

	rec := e.do(t, http.MethodGet, "/api/interviews", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[struct {
		Interviews []model.Interview `json:"interviews"`
	}](t, rec)
	require.Len(t, list.Interviews, 1)
	assert.Equal(t, iv.ID, list.Interviews[0].ID)

	rec = e.do(t, http.MethodPut, "/api/interviews/"+iv.ID, "u1", map[string]any{"state": "pending", "public": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[model.Interview](t, rec)
	assert.Equal(t, model.StatePending, updated.State)
	assert.True(t, updated.Public)
	assert.Equal(t, "Acme", updated.Company)
	assert.False(t, updated.UpdatedAt.Before(iv.UpdatedAt))

	rec = e.do(t, http.MethodPut, "/api/interviews/"+iv.ID, "u1", map[string]any{"state": "done"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPut, "/api/interviews/"+iv.ID, "u1", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteInterviewCascades(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	iv := e.createInterview(t, "u1", map[string]any{"company": "Acme"})
	for _, text := range []string{"one", "two", "three"} {
		e.createQuestion(t, "u1", map[string]any{"question": text, "type": "technical", "interview_id": iv.ID})
	}
	other := e.createQuestion(t, "u1", map[string]any{"question": "standalone", "type": "other"})

	_, err := e.store.UpdateInterview(ctx, iv.ID, model.InterviewPatch{VideoPath: model.Ptr("videos/u1/" + iv.ID + "/1_a.mp4")})
	require.NoError(t, err)

	rec := e.do(t, http.MethodDelete, "/api/interviews/"+iv.ID, "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 3, body["questions_deleted"])

	_, err = e.store.GetInterview(ctx, iv.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	remaining, err := e.store.ListQuestions(ctx, store.QuestionFilter{InterviewID: iv.ID})
	require.NoError(t, err)
	assert.Empty(t, remaining)
	_, err = e.store.GetQuestion(ctx, other.ID)
	assert.NoError(t, err)

	assert.Equal(t, []string{"videos/u1/" + iv.ID + "/"}, e.gateway.deleted)

	p, err := e.store.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Stats.Interviews)
	assert.Equal(t, int64(1), p.Stats.Questions)
}

// flakyDeletes fails DeleteQuestion for one id.
type flakyDeletes struct {
	*store.MemoryStore
	failID string
}

func (f *flakyDeletes) DeleteQuestion(ctx context.Context, id string) error {
	if id == f.failID {
		return errors.New("throttled")
	}
	return f.MemoryStore.DeleteQuestion(ctx, id)
}

func TestDeleteInterviewPartialFailure(t *testing.T) {
	mem := store.NewMemoryStore()
	flaky := &flakyDeletes{MemoryStore: mem}
	e := newTestEnvWithStore(t, flaky, mem)
	ctx := context.Background()

	iv := e.createInterview(t, "u1", map[string]any{"company": "Acme"})
	ok := e.createQuestion(t, "u1", map[string]any{"question": "ok", "type": "technical", "interview_id": iv.ID})
	bad := e.createQuestion(t, "u1", map[string]any{"question": "stuck", "type": "technical", "interview_id": iv.ID})
	flaky.failID = bad.ID

	rec := e.do(t, http.MethodDelete, "/api/interviews/"+iv.ID, "u1", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, decodeBody[map[string]any](t, rec)["success"])

	_, err := e.store.GetInterview(ctx, iv.ID)
	assert.ErrorIs(t, err, store.ErrNotFound, "interview delete still attempted")
	_, err = e.store.GetQuestion(ctx, ok.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = e.store.GetQuestion(ctx, bad.ID)
	assert.NoError(t, err, "failed question survives")

	p, err := e.store.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Stats.Interviews)
	assert.Equal(t, int64(1), p.Stats.Questions)
}

func TestDeleteInterviewWithoutQuestions(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	iv := e.createInterview(t, "u1", map[string]any{"company": "Acme"})

	rec := e.do(t, http.MethodDelete, "/api/interviews/"+iv.ID, "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 0, body["questions_deleted"])

	_, err := e.store.GetInterview(ctx, iv.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	qs, err := e.store.ListQuestions(ctx, store.QuestionFilter{InterviewID: iv.ID})
	require.NoError(t, err)
	assert.Empty(t, qs)
	assert.Empty(t, e.gateway.deleted, "no video to remove")
}
