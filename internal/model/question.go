package model

import "time"

// Question is a prompt/answer/context triple. Global questions have no owner
// and no interview.
type Question struct {
	ID                  string    `json:"id" dynamodbav:"id"`
	Question            string    `json:"question" dynamodbav:"question"`
	Context             string    `json:"context" dynamodbav:"context"`
	Answer              string    `json:"answer" dynamodbav:"answer"`
	Type                Category  `json:"type" dynamodbav:"type"`
	ProgrammingLanguage Language  `json:"programming_language" dynamodbav:"programming_language"`
	InterviewID         string    `json:"interview_id,omitempty" dynamodbav:"interview_id,omitempty"`
	UserID              string    `json:"user_id,omitempty" dynamodbav:"user_id,omitempty"`
	Global              bool      `json:"global" dynamodbav:"global"`
	CreatedAt           time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// VisibleTo reports whether userID may read the question.
func (q *Question) VisibleTo(userID string) bool {
	return q.Global || (userID != "" && q.UserID == userID)
}

// EditableBy reports whether userID may change or delete the question.
// Global questions are managed through the admin tool only.
func (q *Question) EditableBy(userID string) bool {
	return !q.Global && userID != "" && q.UserID == userID
}

type QuestionPatch struct {
	Question            *string
	Context             *string
	Answer              *string
	Type                *Category
	ProgrammingLanguage *Language
	InterviewID         *string
}

func (p QuestionPatch) Empty() bool {
	return len(p.Fields()) == 0
}

// Fields returns the set fields keyed by their stored attribute name.
func (p QuestionPatch) Fields() map[string]any {
	f := make(map[string]any)
	if p.Question != nil {
		f["question"] = *p.Question
	}
	if p.Context != nil {
		f["context"] = *p.Context
	}
	if p.Answer != nil {
		f["answer"] = *p.Answer
	}
	if p.Type != nil {
		f["type"] = string(*p.Type)
	}
	if p.ProgrammingLanguage != nil {
		f["programming_language"] = string(*p.ProgrammingLanguage)
	}
	if p.InterviewID != nil {
		f["interview_id"] = *p.InterviewID
	}
	return f
}

func (p QuestionPatch) Apply(q *Question, now time.Time) {
	if p.Question != nil {
		q.Question = *p.Question
	}
	if p.Context != nil {
		q.Context = *p.Context
	}
	if p.Answer != nil {
		q.Answer = *p.Answer
	}
	if p.Type != nil {
		q.Type = *p.Type
	}
	if p.ProgrammingLanguage != nil {
		q.ProgrammingLanguage = *p.ProgrammingLanguage
	}
	if p.InterviewID != nil {
		q.InterviewID = *p.InterviewID
	}
	q.UpdatedAt = now
}
