package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
)

// Auth table key layout.
const (
	userPrefix    = "USER#"
	accountPrefix = "ACCOUNT#"
	sessionPrefix = "SESSION#"
	profileSK     = "PROFILE"
)

type userItem struct {
	PK string `dynamodbav:"pk"`
	SK string `dynamodbav:"sk"`
	model.User
}

type accountItem struct {
	PK string `dynamodbav:"pk"`
	SK string `dynamodbav:"sk"`
	model.Account
}

type sessionItem struct {
	PK string `dynamodbav:"pk"`
	SK string `dynamodbav:"sk"`
	// TTL lets DynamoDB expire stale sessions on its own.
	TTL int64 `dynamodbav:"ttl"`
	model.Session
}

type profileItem struct {
	PK string `dynamodbav:"pk"`
	SK string `dynamodbav:"sk"`
	model.Profile
}

func authKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: pk},
		"sk": &types.AttributeValueMemberS{Value: sk},
	}
}

func pkExists() expression.ConditionBuilder {
	return expression.AttributeExists(expression.Name("pk"))
}

func pkNotExists() *expression.ConditionBuilder {
	cond := expression.AttributeNotExists(expression.Name("pk"))
	return &cond
}

func (s *DynamoDBStore) CreateUser(ctx context.Context, u *model.User) error {
	key := userPrefix + u.ID
	return s.put(ctx, s.authTable, userItem{PK: key, SK: key, User: *u}, pkNotExists())
}

func (s *DynamoDBStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	key := userPrefix + id
	item, err := getItem[userItem](ctx, s, s.authTable, authKey(key, key))
	if err != nil {
		return nil, err
	}
	return &item.User, nil
}

func (s *DynamoDBStore) DeleteUser(ctx context.Context, id string) error {
	key := userPrefix + id
	return s.deleteItem(ctx, s.authTable, authKey(key, key))
}

func (s *DynamoDBStore) GetUserByAccount(ctx context.Context, provider, providerAccountID string) (*model.User, error) {
	key := accountPrefix + accountKey(provider, providerAccountID)
	item, err := getItem[accountItem](ctx, s, s.authTable, authKey(key, key))
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, item.UserID)
}

func (s *DynamoDBStore) LinkAccount(ctx context.Context, a *model.Account) error {
	key := accountPrefix + accountKey(a.Provider, a.ProviderAccountID)
	return s.put(ctx, s.authTable, accountItem{PK: key, SK: key, Account: *a}, pkNotExists())
}

func (s *DynamoDBStore) CreateSession(ctx context.Context, sess *model.Session) error {
	key := sessionPrefix + sess.Token
	item := sessionItem{PK: key, SK: key, TTL: sess.ExpiresAt.Unix(), Session: *sess}
	return s.put(ctx, s.authTable, item, nil)
}

func (s *DynamoDBStore) GetSession(ctx context.Context, token string) (*model.Session, error) {
	key := sessionPrefix + token
	item, err := getItem[sessionItem](ctx, s, s.authTable, authKey(key, key))
	if err != nil {
		return nil, err
	}
	return &item.Session, nil
}

func (s *DynamoDBStore) DeleteSession(ctx context.Context, token string) error {
	key := sessionPrefix + token
	return s.deleteItem(ctx, s.authTable, authKey(key, key))
}

func (s *DynamoDBStore) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	item, err := getItem[profileItem](ctx, s, s.authTable, authKey(userPrefix+userID, profileSK))
	if err != nil {
		return nil, err
	}
	return &item.Profile, nil
}

func (s *DynamoDBStore) PutProfile(ctx context.Context, p *model.Profile) error {
	return s.put(ctx, s.authTable, profileItem{PK: userPrefix + p.UserID, SK: profileSK, Profile: *p}, nil)
}

func (s *DynamoDBStore) UpdateProfile(ctx context.Context, userID string, patch model.ProfilePatch) (*model.Profile, error) {
	update := patchUpdate(patch.Fields(), s.now().UTC())
	item, err := updateItem[profileItem](ctx, s, s.authTable, authKey(userPrefix+userID, profileSK), update, pkExists())
	if err != nil {
		return nil, err
	}
	return &item.Profile, nil
}

// IncrementStats adds the deltas atomically on the server and bumps the
// version counter. The version is never compared.
func (s *DynamoDBStore) IncrementStats(ctx context.Context, userID string, interviews, questions int64) (*model.Stats, error) {
	update := expression.Add(expression.Name("stats.interviews"), expression.Value(interviews)).
		Add(expression.Name("stats.questions"), expression.Value(questions)).
		Add(expression.Name("stats.version"), expression.Value(1))

	item, err := updateItem[profileItem](ctx, s, s.authTable, authKey(userPrefix+userID, profileSK), update, pkExists())
	if err != nil {
		return nil, err
	}
	return &item.Profile.Stats, nil
}
