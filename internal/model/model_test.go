package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
)

func TestInterviewPatchApply(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := created.Add(time.Hour)
	iv := model.Interview{
		ID:        "iv-1",
		Company:   "Acme",
		State:     model.StateNotStarted,
		UserID:    "u1",
		CreatedAt: created,
		UpdatedAt: created,
	}

	model.InterviewPatch{
		VideoPath: model.Ptr("videos/u1/iv-1/1_a.mp4"),
		Public:    model.Ptr(true),
	}.Apply(&iv, now)

	assert.Equal(t, "Acme", iv.Company)
	assert.Equal(t, "videos/u1/iv-1/1_a.mp4", iv.VideoPath)
	assert.True(t, iv.Public)
	assert.Equal(t, model.StateNotStarted, iv.State)
	assert.Equal(t, created, iv.CreatedAt)
	assert.Equal(t, now, iv.UpdatedAt)
}

func TestPatchFields(t *testing.T) {
	tests := []struct {
		name string
		got  map[string]any
		want map[string]any
	}{
		{
			name: "empty interview patch",
			got:  model.InterviewPatch{}.Fields(),
			want: map[string]any{},
		},
		{
			name: "interview patch",
			got: model.InterviewPatch{
				Company: model.Ptr("Initech"),
				State:   model.Ptr(model.StatePending),
			}.Fields(),
			want: map[string]any{"company": "Initech", "state": "pending"},
		},
		{
			name: "question patch",
			got: model.QuestionPatch{
				Answer: model.Ptr("use a heap"),
				Type:   model.Ptr(model.CategoryCoding),
			}.Fields(),
			want: map[string]any{"answer": "use a heap", "type": "coding"},
		},
		{
			name: "profile patch uses nested paths",
			got: model.ProfilePatch{
				Theme:       model.Ptr("dark"),
				DisplayName: model.Ptr("Ada"),
			}.Fields(),
			want: map[string]any{"settings.theme": "dark", "display_name": "Ada"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.True(t, model.InterviewPatch{}.Empty())
	assert.False(t, model.QuestionPatch{Context: model.Ptr("")}.Empty())
}

func TestQuestionAccess(t *testing.T) {
	global := model.Question{ID: "g", Global: true}
	owned := model.Question{ID: "q", UserID: "u1"}

	assert.True(t, global.VisibleTo("u2"))
	assert.False(t, global.EditableBy("u2"))
	assert.True(t, owned.VisibleTo("u1"))
	assert.True(t, owned.EditableBy("u1"))
	assert.False(t, owned.VisibleTo("u2"))
	assert.False(t, owned.EditableBy(""))
}

func TestEnums(t *testing.T) {
	assert.True(t, model.StatePending.Valid())
	assert.False(t, model.State("processing").Valid())
	assert.True(t, model.CategorySystemDesign.Valid())
	assert.False(t, model.Category("system").Valid())
	assert.True(t, model.Language("").Valid())
	assert.True(t, model.Language("go").Valid())
	assert.False(t, model.Language("cobol").Valid())
	assert.True(t, model.PlanPro.Valid())
	assert.False(t, model.Plan("enterprise").Valid())
}

func TestStatsAdd(t *testing.T) {
	var s model.Stats
	s.Add(1, 3)
	s.Add(0, -1)

	assert.Equal(t, int64(1), s.Interviews)
	assert.Equal(t, int64(2), s.Questions)
	assert.Equal(t, int64(2), s.Version)
}

func TestInterviewJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(model.Interview{ID: "i", Company: "Acme", UserID: "u"})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	for _, key := range []string{"id", "company", "state", "user_id", "public", "anonymous", "created_at", "updated_at"} {
		assert.Contains(t, m, key)
	}
	assert.NotContains(t, m, "video_path")
}

func TestUploadDescriptorJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(model.UploadDescriptor{
		InterviewID: "iv",
		VideoPath:   "videos/u/iv/1_a.mp4",
		UserID:      "u",
		Timestamp:   time.Unix(0, 0).UTC(),
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"interview_id":"iv","video_path":"videos/u/iv/1_a.mp4","user_id":"u","timestamp":"1970-01-01T00:00:00Z"}`,
		string(data))
}

func TestQuestionDynamoDBAttributeNames(t *testing.T) {
	av, err := attributevalue.MarshalMap(model.Question{
		ID:          "q1",
		Question:    "Why Go?",
		Type:        model.CategoryTechnical,
		InterviewID: "iv",
		UserID:      "u",
	})
	require.NoError(t, err)

	for _, key := range []string{
		"id", "question", "context", "answer", "type", "programming_language",
		"interview_id", "user_id", "global", "created_at", "updated_at",
	} {
		assert.Contains(t, av, key)
	}
}
