package web

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportQuestions(t *testing.T) {
	e := newTestEnv(t)
	iv := e.createInterview(t, "u1", map[string]any{"company": "Acme"})
	e.createQuestion(t, "u1", map[string]any{"question": "First?", "type": "technical", "interview_id": iv.ID})
	e.createQuestion(t, "u1", map[string]any{"question": "Second?", "type": "coding", "interview_id": iv.ID})
	e.createQuestion(t, "u1", map[string]any{"question": "Elsewhere", "type": "other"})

	rec := e.do(t, http.MethodPost, "/api/questions/export", "u1", map[string]any{
		"format":       "xlsx",
		"filename":     "Acme prep",
		"interview_id": iv.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.Equal(t, `attachment; filename=Acme_prep.xlsx`, rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Questions")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rec = e.do(t, http.MethodPost, "/api/questions/export", "u1", map[string]any{"format": "pdf"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "questions.pdf")
}

func TestExportRejects(t *testing.T) {
	e := newTestEnv(t)
	foreign := e.createInterview(t, "u2", map[string]any{"company": "Globex"})
	theirs := e.createQuestion(t, "u2", map[string]any{"question": "Mine", "type": "other"})

	rec := e.do(t, http.MethodPost, "/api/questions/export", "u1", map[string]any{"format": "csv"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/questions/export", "u1", map[string]any{"format": "docx", "interview_id": foreign.ID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/questions/export", "u1", map[string]any{"format": "docx", "question_ids": []string{theirs.ID}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
