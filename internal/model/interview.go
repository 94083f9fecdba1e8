package model

import "time"

// Interview is one interview session owned by a single user.
type Interview struct {
	ID                  string    `json:"id" dynamodbav:"id"`
	Company             string    `json:"company" dynamodbav:"company"`
	Type                Category  `json:"type,omitempty" dynamodbav:"type,omitempty"`
	ProgrammingLanguage Language  `json:"programming_language,omitempty" dynamodbav:"programming_language,omitempty"`
	State               State     `json:"state" dynamodbav:"state"`
	UserID              string    `json:"user_id" dynamodbav:"user_id"`
	VideoPath           string    `json:"video_path,omitempty" dynamodbav:"video_path,omitempty"`
	Public              bool      `json:"public" dynamodbav:"public"`
	Anonymous           bool      `json:"anonymous" dynamodbav:"anonymous"`
	CreatedAt           time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// OwnedBy reports whether userID owns the interview.
func (iv *Interview) OwnedBy(userID string) bool {
	return userID != "" && iv.UserID == userID
}

// InterviewPatch is a partial update. Nil fields are left untouched.
type InterviewPatch struct {
	Company             *string
	Type                *Category
	ProgrammingLanguage *Language
	State               *State
	VideoPath           *string
	Public              *bool
	Anonymous           *bool
}

func (p InterviewPatch) Empty() bool {
	return len(p.Fields()) == 0
}

// Fields returns the set fields keyed by their stored attribute name.
func (p InterviewPatch) Fields() map[string]any {
	f := make(map[string]any)
	if p.Company != nil {
		f["company"] = *p.Company
	}
	if p.Type != nil {
		f["type"] = string(*p.Type)
	}
	if p.ProgrammingLanguage != nil {
		f["programming_language"] = string(*p.ProgrammingLanguage)
	}
	if p.State != nil {
		f["state"] = string(*p.State)
	}
	if p.VideoPath != nil {
		f["video_path"] = *p.VideoPath
	}
	if p.Public != nil {
		f["public"] = *p.Public
	}
	if p.Anonymous != nil {
		f["anonymous"] = *p.Anonymous
	}
	return f
}

// Apply writes the set fields onto iv and stamps UpdatedAt.
func (p InterviewPatch) Apply(iv *Interview, now time.Time) {
	if p.Company != nil {
		iv.Company = *p.Company
	}
	if p.Type != nil {
		iv.Type = *p.Type
	}
	if p.ProgrammingLanguage != nil {
		iv.ProgrammingLanguage = *p.ProgrammingLanguage
	}
	if p.State != nil {
		iv.State = *p.State
	}
	if p.VideoPath != nil {
		iv.VideoPath = *p.VideoPath
	}
	if p.Public != nil {
		iv.Public = *p.Public
	}
	if p.Anonymous != nil {
		iv.Anonymous = *p.Anonymous
	}
	iv.UpdatedAt = now
}
