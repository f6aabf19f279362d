// Package results aggregates a poll's counters into the displayed tally.
// Computation is pure and runs on every display; nothing here is cached or
// written back.
package results

import (
	"math"
	"time"

	"github.com/Vikasyadav0123/Poll-Choice/internal/domain"
)

type OptionResult struct {
	Text    string `json:"text"`
	Votes   int    `json:"votes"`
	Percent int    `json:"percent"`
	Winner  bool   `json:"winner"`
}

type Results struct {
	PollID     string         `json:"id"`
	Question   string         `json:"question"`
	TotalVotes int            `json:"totalVotes"`
	Expired    bool           `json:"expired"`
	Options    []OptionResult `json:"options"`
}

// Compute tallies a poll at the given instant. Percentages are rounded half
// away from zero; an option is a winner when it holds the maximum count and
// that maximum is positive, so a zero-vote poll has no winner. Ties produce
// multiple winners.
func Compute(p *domain.Poll, now time.Time) Results {
	total := p.TotalVotes()

	maxVotes := 0
	for _, o := range p.Options {
		if o.Votes > maxVotes {
			maxVotes = o.Votes
		}
	}

	options := make([]OptionResult, 0, len(p.Options))
	for _, o := range p.Options {
		percent := 0
		if total > 0 {
			percent = int(math.Round(float64(o.Votes) / float64(total) * 100))
		}
		options = append(options, OptionResult{
			Text:    o.Text,
			Votes:   o.Votes,
			Percent: percent,
			Winner:  maxVotes > 0 && o.Votes == maxVotes,
		})
	}

	return Results{
		PollID:     p.PollID,
		Question:   p.Question,
		TotalVotes: total,
		Expired:    p.Expired(now),
		Options:    options,
	}
}
