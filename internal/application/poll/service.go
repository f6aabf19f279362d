package poll

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Vikasyadav0123/Poll-Choice/internal/domain"
	"github.com/Vikasyadav0123/Poll-Choice/internal/pkg/id"
	"github.com/Vikasyadav0123/Poll-Choice/internal/pkg/token"
	"github.com/Vikasyadav0123/Poll-Choice/internal/pkg/validate"
)

// Service owns the poll lifecycle: validated creation, reads, creator-only
// deletion and history, and the result-visibility rule. Expiry is never a
// stored transition — every read recomputes it from the wall clock.
type Service interface {
	// Create validates and persists a new poll. The returned secret is
	// revealed exactly once; it is never readable through any other call.
	Create(ctx context.Context, req domain.CreatePollRequest) (*domain.Poll, string, error)
	Get(ctx context.Context, pollID string) (*domain.Poll, error)
	Delete(ctx context.Context, pollID, secret string) error
	History(ctx context.Context, secrets []string) ([]domain.PollSummary, error)
	CanSeeResults(p *domain.Poll, voterToken, secret string) bool
}

type pollStore interface {
	Put(ctx context.Context, p *domain.Poll) error
	Get(ctx context.Context, pollID string) (*domain.Poll, error)
	HardDelete(ctx context.Context, pollID string) error
	ListByCreatorSecrets(ctx context.Context, secrets []string) ([]domain.Poll, error)
}

type service struct {
	repo            pollStore
	defaultDuration time.Duration
}

func NewService(repo pollStore, defaultDurationMinutes int) Service {
	return &service{
		repo:            repo,
		defaultDuration: time.Duration(defaultDurationMinutes) * time.Minute,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreatePollRequest) (*domain.Poll, string, error) {
	if err := validate.Struct(req); err != nil {
		return nil, "", fmt.Errorf("%v: %w", err, domain.ErrInvalidPoll)
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, "", fmt.Errorf("question is empty: %w", domain.ErrInvalidPoll)
	}

	options := make([]domain.Option, 0, len(req.Options))
	for _, raw := range req.Options {
		text := strings.TrimSpace(raw)
		if text == "" {
			return nil, "", fmt.Errorf("option text is empty: %w", domain.ErrInvalidPoll)
		}
		options = append(options, domain.Option{Text: text})
	}
	if len(options) < 2 {
		return nil, "", fmt.Errorf("need at least 2 options: %w", domain.ErrInvalidPoll)
	}

	secret, err := token.NewSecret()
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	p := &domain.Poll{
		PollID:        id.New(),
		Question:      question,
		Options:       options,
		CreatorSecret: secret,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.duration(req.DurationMinutes)),
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, "", err
	}
	return p, secret, nil
}

// duration coerces the requested duration the way the browser client does:
// anything that is not a positive number falls back to the default.
func (s *service) duration(requested any) time.Duration {
	var minutes float64
	switch v := requested.(type) {
	case float64:
		minutes = v
	case string:
		minutes, _ = strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	if minutes <= 0 {
		return s.defaultDuration
	}
	return time.Duration(minutes * float64(time.Minute))
}

func (s *service) Get(ctx context.Context, pollID string) (*domain.Poll, error) {
	return s.repo.Get(ctx, pollID)
}

func (s *service) Delete(ctx context.Context, pollID, secret string) error {
	p, err := s.repo.Get(ctx, pollID)
	if err != nil {
		return err
	}
	if secret == "" || secret != p.CreatorSecret {
		return fmt.Errorf("creator secret mismatch: %w", domain.ErrForbidden)
	}
	return s.repo.HardDelete(ctx, pollID)
}

func (s *service) History(ctx context.Context, secrets []string) ([]domain.PollSummary, error) {
	polls, err := s.repo.ListByCreatorSecrets(ctx, secrets)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.PollSummary, 0, len(polls))
	for i := range polls {
		summaries = append(summaries, polls[i].Summary())
	}
	return summaries, nil
}

// CanSeeResults applies the visibility rule: results are shown to the
// creator, to anyone once the poll has expired, and to voters who already
// cast their vote. Everyone else only gets the voting form.
func (s *service) CanSeeResults(p *domain.Poll, voterToken, secret string) bool {
	if secret != "" && secret == p.CreatorSecret {
		return true
	}
	if p.Expired(time.Now().UTC()) {
		return true
	}
	return voterToken != "" && p.HasVoted(voterToken)
}
