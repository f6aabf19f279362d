package vote

import (
	"context"
	"fmt"
	"time"

	"github.com/Vikasyadav0123/Poll-Choice/internal/domain"
)

// Service is the vote-acceptance path. Preconditions are checked in a fixed
// order (existence, selection, expiry, prior vote) and the store's RecordVote
// is the atomic backstop for the check-then-act race between concurrent
// requests carrying the same voter token.
type Service interface {
	Submit(ctx context.Context, pollID, voterToken string, selectedIndexes []int) (*domain.Poll, error)
}

type pollStore interface {
	Get(ctx context.Context, pollID string) (*domain.Poll, error)
	RecordVote(ctx context.Context, pollID, voterToken string, indexes []int) (*domain.Poll, error)
}

type service struct {
	repo pollStore
}

func NewService(repo pollStore) Service {
	return &service{repo: repo}
}

func (s *service) Submit(ctx context.Context, pollID, voterToken string, selectedIndexes []int) (*domain.Poll, error) {
	p, err := s.repo.Get(ctx, pollID)
	if err != nil {
		return nil, err
	}

	if voterToken == "" {
		return nil, fmt.Errorf("missing voter token: %w", domain.ErrBadRequest)
	}
	if len(selectedIndexes) == 0 {
		return nil, fmt.Errorf("no options selected: %w", domain.ErrBadRequest)
	}

	// Out-of-range indexes are dropped, not rejected; a vote may legitimately
	// end up incrementing nothing while still registering the voter.
	seen := make(map[int]bool, len(selectedIndexes))
	valid := make([]int, 0, len(selectedIndexes))
	for _, i := range selectedIndexes {
		if i < 0 || i >= len(p.Options) || seen[i] {
			continue
		}
		seen[i] = true
		valid = append(valid, i)
	}

	if p.Expired(time.Now().UTC()) {
		return nil, fmt.Errorf("poll %s: %w", pollID, domain.ErrExpired)
	}
	if p.HasVoted(voterToken) {
		return nil, fmt.Errorf("poll %s: %w", pollID, domain.ErrAlreadyVoted)
	}

	return s.repo.RecordVote(ctx, pollID, voterToken, valid)
}
