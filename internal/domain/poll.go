package domain

import "time"

// Option is a single poll choice. Options are ordered and referenced by index
// when voting; the order never changes after creation.
type Option struct {
	Text  string `json:"text" dynamodbav:"text"`
	Votes int    `json:"votes" dynamodbav:"votes"`
}

type Poll struct {
	PollID   string   `json:"id" dynamodbav:"poll_id"`
	Question string   `json:"question" dynamodbav:"question"`
	Options  []Option `json:"options" dynamodbav:"options"`
	// VotedBy is the registry of voter tokens that already voted. Stored as a
	// string set; absent while empty. Never serialized to clients.
	VotedBy       []string  `json:"-" dynamodbav:"voted_by,stringset,omitempty"`
	CreatorSecret string    `json:"-" dynamodbav:"creator_secret"`
	CreatedAt     time.Time `json:"createdAt" dynamodbav:"created_at,unixtime"`
	ExpiresAt     time.Time `json:"expiresAt" dynamodbav:"expires_at,unixtime"`
}

// Expired reports whether voting is closed at the given instant.
func (p *Poll) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// HasVoted reports whether the token is already in the voter registry.
func (p *Poll) HasVoted(token string) bool {
	for _, t := range p.VotedBy {
		if t == token {
			return true
		}
	}
	return false
}

// TotalVotes sums all option counters. With multi-select votes this can
// exceed the registry size.
func (p *Poll) TotalVotes() int {
	total := 0
	for _, o := range p.Options {
		total += o.Votes
	}
	return total
}

// Summary strips a poll down to what the creator history listing exposes.
func (p *Poll) Summary() PollSummary {
	return PollSummary{
		PollID:     p.PollID,
		Question:   p.Question,
		TotalVotes: p.TotalVotes(),
		CreatedAt:  p.CreatedAt,
		ExpiresAt:  p.ExpiresAt,
	}
}

type PollSummary struct {
	PollID     string    `json:"id"`
	Question   string    `json:"question"`
	TotalVotes int       `json:"totalVotes"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type CreatePollRequest struct {
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options" validate:"required,min=2,dive,required"`
	// DurationMinutes is coerced permissively: JSON number, numeric string,
	// anything else falls back to the configured default.
	DurationMinutes any `json:"durationMinutes"`
}

type VoteRequest struct {
	VoterToken      string `json:"voterToken" validate:"required"`
	SelectedIndexes []int  `json:"selectedIndexes" validate:"required,min=1"`
}
