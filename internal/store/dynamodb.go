package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

const (
	entityInterview = "interview"
	entityQuestion  = "question"
)

// DynamoDBStore keeps interviews and questions in the content table (hash key
// "id", "entity" discriminator) and users, accounts, sessions and profiles in
// the auth table (hash key "pk", range key "sk").
type DynamoDBStore struct {
	client       DynamoDBAPI
	contentTable string
	authTable    string
	now          func() time.Time
}

var _ Store = (*DynamoDBStore)(nil)

// interviewItem represents the DynamoDB item structure of an interview
type interviewItem struct {
	Entity string `dynamodbav:"entity"`
	model.Interview
}

type questionItem struct {
	Entity string `dynamodbav:"entity"`
	model.Question
}

// NewDynamoDBStore creates a store over the two tables. Table names cannot be
// empty.
func NewDynamoDBStore(client DynamoDBAPI, contentTable, authTable string) (*DynamoDBStore, error) {
	if contentTable == "" || authTable == "" {
		return nil, fmt.Errorf("DynamoDB table names cannot be empty")
	}

	return &DynamoDBStore{
		client:       client,
		contentTable: contentTable,
		authTable:    authTable,
		now:          time.Now,
	}, nil
}

// NewDynamoDBStoreFromConfig builds the client from a loaded AWS config.
func NewDynamoDBStoreFromConfig(cfg aws.Config, contentTable, authTable string) (*DynamoDBStore, error) {
	return NewDynamoDBStore(dynamodb.NewFromConfig(cfg), contentTable, authTable)
}

func (s *DynamoDBStore) Close() error { return nil }

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// patchUpdate translates patch fields into a SET update that always stamps
// updated_at. Fields are sorted so the expression is deterministic.
func patchUpdate(fields map[string]any, now time.Time) expression.UpdateBuilder {
	update := expression.Set(expression.Name("updated_at"), expression.Value(now))

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		update = update.Set(expression.Name(name), expression.Value(fields[name]))
	}
	return update
}

func interviewFilterCondition(f InterviewFilter) expression.ConditionBuilder {
	cond := expression.Name("entity").Equal(expression.Value(entityInterview))
	if f.UserID != "" {
		cond = cond.And(expression.Name("user_id").Equal(expression.Value(f.UserID)))
	}
	if f.Public != nil {
		cond = cond.And(expression.Name("public").Equal(expression.Value(*f.Public)))
	}
	return cond
}

func questionFilterCondition(f QuestionFilter) expression.ConditionBuilder {
	cond := expression.Name("entity").Equal(expression.Value(entityQuestion))
	if f.UserID != "" {
		cond = cond.And(expression.Name("user_id").Equal(expression.Value(f.UserID)))
	}
	if f.VisibleTo != "" {
		cond = cond.And(expression.Or(
			expression.Name("user_id").Equal(expression.Value(f.VisibleTo)),
			expression.Name("global").Equal(expression.Value(true)),
		))
	}
	if f.InterviewID != "" {
		cond = cond.And(expression.Name("interview_id").Equal(expression.Value(f.InterviewID)))
	}
	if f.Global != nil {
		cond = cond.And(expression.Name("global").Equal(expression.Value(*f.Global)))
	}
	if f.Type != "" {
		cond = cond.And(expression.Name("type").Equal(expression.Value(string(f.Type))))
	}
	return cond
}

func (s *DynamoDBStore) put(ctx context.Context, table string, item any, cond *expression.ConditionBuilder) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	}
	if cond != nil {
		expr, err := expression.NewBuilder().WithCondition(*cond).Build()
		if err != nil {
			return fmt.Errorf("failed to build condition: %w", err)
		}
		input.ConditionExpression = expr.Condition()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

func getItem[T any](ctx context.Context, s *DynamoDBStore, table string, key map[string]types.AttributeValue) (*T, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	if result.Item == nil {
		return nil, ErrNotFound
	}

	var item T
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return &item, nil
}

// scanItems walks every page of a full table scan with a server-side filter.
func scanItems[T any](ctx context.Context, s *DynamoDBStore, table string, filter expression.ConditionBuilder) ([]T, error) {
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build filter: %w", err)
	}

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:                 aws.String(table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	result := make([]T, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}

		var items []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items: %w", err)
		}
		result = append(result, items...)
	}
	return result, nil
}

func updateItem[T any](ctx context.Context, s *DynamoDBStore, table string, key map[string]types.AttributeValue, update expression.UpdateBuilder, cond expression.ConditionBuilder) (*T, error) {
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build update: %w", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	var item T
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return &item, nil
}

func (s *DynamoDBStore) deleteItem(ctx context.Context, table string, key map[string]types.AttributeValue) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func entityExists(entity string) expression.ConditionBuilder {
	return expression.AttributeExists(expression.Name("id")).
		And(expression.Name("entity").Equal(expression.Value(entity)))
}

func (s *DynamoDBStore) CreateInterview(ctx context.Context, iv *model.Interview) error {
	cond := expression.AttributeNotExists(expression.Name("id"))
	return s.put(ctx, s.contentTable, interviewItem{Entity: entityInterview, Interview: *iv}, &cond)
}

func (s *DynamoDBStore) GetInterview(ctx context.Context, id string) (*model.Interview, error) {
	item, err := getItem[interviewItem](ctx, s, s.contentTable, idKey(id))
	if err != nil {
		return nil, err
	}
	if item.Entity != entityInterview {
		return nil, ErrNotFound
	}
	return &item.Interview, nil
}

func (s *DynamoDBStore) ListInterviews(ctx context.Context, filter InterviewFilter) ([]model.Interview, error) {
	items, err := scanItems[interviewItem](ctx, s, s.contentTable, interviewFilterCondition(filter))
	if err != nil {
		return nil, err
	}

	ivs := make([]model.Interview, 0, len(items))
	for _, item := range items {
		ivs = append(ivs, item.Interview)
	}
	sortInterviews(ivs)
	return ivs, nil
}

func (s *DynamoDBStore) UpdateInterview(ctx context.Context, id string, patch model.InterviewPatch) (*model.Interview, error) {
	update := patchUpdate(patch.Fields(), s.now().UTC())
	item, err := updateItem[interviewItem](ctx, s, s.contentTable, idKey(id), update, entityExists(entityInterview))
	if err != nil {
		return nil, err
	}
	return &item.Interview, nil
}

func (s *DynamoDBStore) DeleteInterview(ctx context.Context, id string) error {
	return s.deleteItem(ctx, s.contentTable, idKey(id))
}

func (s *DynamoDBStore) CreateQuestion(ctx context.Context, q *model.Question) error {
	cond := expression.AttributeNotExists(expression.Name("id"))
	return s.put(ctx, s.contentTable, questionItem{Entity: entityQuestion, Question: *q}, &cond)
}

func (s *DynamoDBStore) GetQuestion(ctx context.Context, id string) (*model.Question, error) {
	item, err := getItem[questionItem](ctx, s, s.contentTable, idKey(id))
	if err != nil {
		return nil, err
	}
	if item.Entity != entityQuestion {
		return nil, ErrNotFound
	}
	return &item.Question, nil
}

func (s *DynamoDBStore) ListQuestions(ctx context.Context, filter QuestionFilter) ([]model.Question, error) {
	items, err := scanItems[questionItem](ctx, s, s.contentTable, questionFilterCondition(filter))
	if err != nil {
		return nil, err
	}

	qs := make([]model.Question, 0, len(items))
	for _, item := range items {
		qs = append(qs, item.Question)
	}
	sortQuestions(qs)
	return qs, nil
}

func (s *DynamoDBStore) UpdateQuestion(ctx context.Context, id string, patch model.QuestionPatch) (*model.Question, error) {
	update := patchUpdate(patch.Fields(), s.now().UTC())
	item, err := updateItem[questionItem](ctx, s, s.contentTable, idKey(id), update, entityExists(entityQuestion))
	if err != nil {
		return nil, err
	}
	return &item.Question, nil
}

func (s *DynamoDBStore) DeleteQuestion(ctx context.Context, id string) error {
	return s.deleteItem(ctx, s.contentTable, idKey(id))
}
