// Package memory is an in-process poll store with the same semantics as the
// DynamoDB repo. Used for local development and tests; state is lost on
// restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Vikasyadav0123/Poll-Choice/internal/domain"
)

type PollRepo struct {
	mu    sync.RWMutex
	polls map[string]*domain.Poll
}

func NewPollRepo() *PollRepo {
	return &PollRepo{polls: make(map[string]*domain.Poll)}
}

func (r *PollRepo) Put(ctx context.Context, p *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.polls[p.PollID] = clone(p)
	return nil
}

func (r *PollRepo) Get(ctx context.Context, pollID string) (*domain.Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.polls[pollID]
	if !ok {
		return nil, fmt.Errorf("poll %s: %w", pollID, domain.ErrNotFound)
	}
	return clone(p), nil
}

// RecordVote holds the lock across the membership check and the mutation, the
// in-process equivalent of the DynamoDB conditional write.
func (r *PollRepo) RecordVote(ctx context.Context, pollID, voterToken string, indexes []int) (*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.polls[pollID]
	if !ok {
		return nil, fmt.Errorf("poll %s: %w", pollID, domain.ErrNotFound)
	}
	if p.HasVoted(voterToken) {
		return nil, fmt.Errorf("poll %s: %w", pollID, domain.ErrAlreadyVoted)
	}
	if p.Expired(time.Now().UTC()) {
		return nil, fmt.Errorf("poll %s: %w", pollID, domain.ErrExpired)
	}

	for _, i := range indexes {
		p.Options[i].Votes++
	}
	p.VotedBy = append(p.VotedBy, voterToken)
	return clone(p), nil
}

func (r *PollRepo) HardDelete(ctx context.Context, pollID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[pollID]; !ok {
		return fmt.Errorf("poll %s: %w", pollID, domain.ErrNotFound)
	}
	delete(r.polls, pollID)
	return nil
}

func (r *PollRepo) ListByCreatorSecrets(ctx context.Context, secrets []string) ([]domain.Poll, error) {
	wanted := make(map[string]bool, len(secrets))
	for _, s := range secrets {
		if s != "" {
			wanted[s] = true
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var polls []domain.Poll
	for _, p := range r.polls {
		if wanted[p.CreatorSecret] {
			polls = append(polls, *clone(p))
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

// clone deep-copies a poll so callers never share slices with the store.
func clone(p *domain.Poll) *domain.Poll {
	cp := *p
	cp.Options = append([]domain.Option(nil), p.Options...)
	cp.VotedBy = append([]string(nil), p.VotedBy...)
	return &cp
}
