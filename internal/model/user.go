package model

import "time"

type User struct {
	ID        string    `json:"id" dynamodbav:"id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Email     string    `json:"email" dynamodbav:"email"`
	Image     string    `json:"image,omitempty" dynamodbav:"image,omitempty"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

// Account links an OAuth provider identity to a user.
type Account struct {
	Provider          string    `json:"provider" dynamodbav:"provider"`
	ProviderAccountID string    `json:"provider_account_id" dynamodbav:"provider_account_id"`
	UserID            string    `json:"user_id" dynamodbav:"user_id"`
	CreatedAt         time.Time `json:"created_at" dynamodbav:"created_at"`
}

type Session struct {
	Token     string    `json:"token" dynamodbav:"token"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	ExpiresAt time.Time `json:"expires_at" dynamodbav:"expires_at"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
