package http

import (
	"context"

	"github.com/Vikasyadav0123/Poll-Choice/internal/domain"
)

// PollRepository is the minimal interface the router requires from a poll
// store. Both the DynamoDB and the in-memory backends satisfy it.
type PollRepository interface {
	Put(ctx context.Context, p *domain.Poll) error
	Get(ctx context.Context, pollID string) (*domain.Poll, error)
	// RecordVote must be atomic per poll: the registry-membership check and
	// the registry-append + counter increments happen as one unit.
	RecordVote(ctx context.Context, pollID, voterToken string, indexes []int) (*domain.Poll, error)
	HardDelete(ctx context.Context, pollID string) error
	ListByCreatorSecrets(ctx context.Context, secrets []string) ([]domain.Poll, error)
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	PollRepo PollRepository
}
