package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Vikasyadav0123/Poll-Choice/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PollRepo provides typed DynamoDB operations for the polls table.
type PollRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPollRepo(client *dynamodb.Client, tableName string) *PollRepo {
	return &PollRepo{client: client, tableName: tableName}
}

func (r *PollRepo) Put(ctx context.Context, p *domain.Poll) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal poll: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PollRepo) Get(ctx context.Context, pollID string) (*domain.Poll, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldPollID, pollID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("poll %s: %w", pollID, domain.ErrNotFound)
	}
	var p domain.Poll
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// RecordVote is the sole mutating vote path. A single conditional UpdateItem
// appends the voter token to the registry and increments every selected
// option counter; the condition expression rejects the write when the poll is
// gone, expired, or the token already voted. This keeps the membership check
// and the mutation in one atomic unit, so two concurrent votes from the same
// token can never both land.
//
// indexes must already be deduplicated and within range; the service layer
// owns that filtering.
func (r *PollRepo) RecordVote(ctx context.Context, pollID, voterToken string, indexes []int) (*domain.Poll, error) {
	sets := make([]string, 0, len(indexes))
	for _, i := range indexes {
		path := fmt.Sprintf("#o[%d].#v", i)
		sets = append(sets, fmt.Sprintf("%s = %s + :one", path, path))
	}
	expr := "ADD #vb :tok"
	names := map[string]string{
		"#pk":  fieldPollID,
		"#vb":  fieldVotedBy,
		"#exp": fieldExpiresAt,
	}
	now := time.Now().UTC()
	values := map[string]types.AttributeValue{
		":now":    numVal(strconv.FormatInt(now.Unix(), 10)),
		":tok":    &types.AttributeValueMemberSS{Value: []string{voterToken}},
		":tokstr": &types.AttributeValueMemberS{Value: voterToken},
	}
	// DynamoDB rejects unused expression names/values, so the counter pieces
	// only go in when at least one index survived filtering.
	if len(sets) > 0 {
		expr += " SET " + strings.Join(sets, ", ")
		names["#o"] = fieldOptions
		names["#v"] = fieldVotes
		values[":one"] = numVal("1")
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey(fieldPollID, pollID),
		UpdateExpression: aws.String(expr),
		ConditionExpression: aws.String(
			"attribute_exists(#pk) AND #exp > :now AND (attribute_not_exists(#vb) OR NOT contains(#vb, :tokstr))",
		),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, r.classifyRejection(ctx, pollID, voterToken, now)
		}
		return nil, err
	}

	var p domain.Poll
	if err := attributevalue.UnmarshalMap(out.Attributes, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// classifyRejection re-reads the poll after a conditional-check failure and
// maps the rejection onto the domain taxonomy.
func (r *PollRepo) classifyRejection(ctx context.Context, pollID, voterToken string, now time.Time) error {
	p, err := r.Get(ctx, pollID)
	if err != nil {
		return err
	}
	if p.HasVoted(voterToken) {
		return fmt.Errorf("poll %s: %w", pollID, domain.ErrAlreadyVoted)
	}
	if p.Expired(now) {
		return fmt.Errorf("poll %s: %w", pollID, domain.ErrExpired)
	}
	return fmt.Errorf("vote rejected for poll %s: %w", pollID, domain.ErrStorage)
}

// HardDelete permanently removes a poll. Deleting an absent poll reports
// ErrNotFound rather than failing silently, so callers can distinguish.
func (r *PollRepo) HardDelete(ctx context.Context, pollID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldPollID, pollID),
		ConditionExpression: aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{
			"#pk": fieldPollID,
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("poll %s: %w", pollID, domain.ErrNotFound)
		}
		return err
	}
	return nil
}

// ListByCreatorSecrets returns every poll whose creator secret is in the
// given set, newest first. One GSI query per secret; secrets are independent
// capabilities so there is nothing to join.
func (r *PollRepo) ListByCreatorSecrets(ctx context.Context, secrets []string) ([]domain.Poll, error) {
	var polls []domain.Poll
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(creatorSecretIndex),
			KeyConditionExpression: aws.String("#cs = :cs"),
			ExpressionAttributeNames: map[string]string{
				"#cs": fieldCreatorSecret,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":cs": &types.AttributeValueMemberS{Value: secret},
			},
		})
		if err != nil {
			return nil, err
		}
		for _, item := range out.Items {
			var p domain.Poll
			if err := attributevalue.UnmarshalMap(item, &p); err != nil {
				return nil, err
			}
			polls = append(polls, p)
		}
	}
	sort.Slice(polls, func(i, j int) bool {
		if !polls[i].CreatedAt.Equal(polls[j].CreatedAt) {
			return polls[i].CreatedAt.After(polls[j].CreatedAt)
		}
		return polls[i].PollID > polls[j].PollID
	})
	return polls, nil
}
