package model

import "time"

type Settings struct {
	Theme              string   `json:"theme" dynamodbav:"theme"`
	EmailNotifications bool     `json:"email_notifications" dynamodbav:"email_notifications"`
	DefaultLanguage    Language `json:"default_language,omitempty" dynamodbav:"default_language,omitempty"`
}

type Subscription struct {
	Plan     Plan       `json:"plan" dynamodbav:"plan"`
	Status   string     `json:"status" dynamodbav:"status"`
	RenewsAt *time.Time `json:"renews_at,omitempty" dynamodbav:"renews_at,omitempty"`
}

// Stats counts a user's records. Version increases on every change; it is
// informational only.
type Stats struct {
	Interviews int64 `json:"interviews" dynamodbav:"interviews"`
	Questions  int64 `json:"questions" dynamodbav:"questions"`
	Version    int64 `json:"version" dynamodbav:"version"`
}

type Profile struct {
	UserID       string       `json:"user_id" dynamodbav:"user_id"`
	DisplayName  string       `json:"display_name" dynamodbav:"display_name"`
	Bio          string       `json:"bio,omitempty" dynamodbav:"bio,omitempty"`
	Settings     Settings     `json:"settings" dynamodbav:"settings"`
	Subscription Subscription `json:"subscription" dynamodbav:"subscription"`
	Stats        Stats        `json:"stats" dynamodbav:"stats"`
	UpdatedAt    time.Time    `json:"updated_at" dynamodbav:"updated_at"`
}

// NewProfile returns the default profile for a freshly registered user.
func NewProfile(userID, displayName string, now time.Time) *Profile {
	return &Profile{
		UserID:      userID,
		DisplayName: displayName,
		Settings: Settings{
			Theme:              "system",
			EmailNotifications: true,
		},
		Subscription: Subscription{Plan: PlanFree, Status: "active"},
		UpdatedAt:    now,
	}
}

type ProfilePatch struct {
	DisplayName        *string
	Bio                *string
	Theme              *string
	EmailNotifications *bool
	DefaultLanguage    *Language
	Plan               *Plan
	SubscriptionStatus *string
}

func (p ProfilePatch) Empty() bool {
	return len(p.Fields()) == 0
}

// Fields returns the set fields keyed by attribute path. Nested attributes
// use dotted paths.
func (p ProfilePatch) Fields() map[string]any {
	f := make(map[string]any)
	if p.DisplayName != nil {
		f["display_name"] = *p.DisplayName
	}
	if p.Bio != nil {
		f["bio"] = *p.Bio
	}
	if p.Theme != nil {
		f["settings.theme"] = *p.Theme
	}
	if p.EmailNotifications != nil {
		f["settings.email_notifications"] = *p.EmailNotifications
	}
	if p.DefaultLanguage != nil {
		f["settings.default_language"] = string(*p.DefaultLanguage)
	}
	if p.Plan != nil {
		f["subscription.plan"] = string(*p.Plan)
	}
	if p.SubscriptionStatus != nil {
		f["subscription.status"] = *p.SubscriptionStatus
	}
	return f
}

func (p ProfilePatch) Apply(pr *Profile, now time.Time) {
	if p.DisplayName != nil {
		pr.DisplayName = *p.DisplayName
	}
	if p.Bio != nil {
		pr.Bio = *p.Bio
	}
	if p.Theme != nil {
		pr.Settings.Theme = *p.Theme
	}
	if p.EmailNotifications != nil {
		pr.Settings.EmailNotifications = *p.EmailNotifications
	}
	if p.DefaultLanguage != nil {
		pr.Settings.DefaultLanguage = *p.DefaultLanguage
	}
	if p.Plan != nil {
		pr.Subscription.Plan = *p.Plan
	}
	if p.SubscriptionStatus != nil {
		pr.Subscription.Status = *p.SubscriptionStatus
	}
	pr.UpdatedAt = now
}

// Add applies the deltas and bumps the version.
func (s *Stats) Add(interviews, questions int64) {
	s.Interviews += interviews
	s.Questions += questions
	s.Version++
}
