package store

import (
	"context"
	"fmt"

	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/models"
)

type CandidateResult struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Slogan     string  `json:"slogan"`
	ImageURL   string  `json:"imageUrl"`
	Votes      int     `json:"votes"`
	Percentage float64 `json:"percentage"`
}

type Results struct {
	Candidates []CandidateResult `json:"candidates"`
	TotalVotes int64             `json:"totalVotes"`
}

type ClassStats struct {
	Class         string  `json:"class"`
	Total         int64   `json:"total"`
	Voted         int64   `json:"voted"`
	Participation float64 `json:"participation"`
}

type Stats struct {
	TotalVoters   int64        `json:"totalVoters"`
	Voted         int64        `json:"voted"`
	NotVoted      int64        `json:"notVoted"`
	Participation float64      `json:"participation"`
	TotalVotes    int64        `json:"totalVotes"`
	Candidates    int64        `json:"candidates"`
	Classes       []ClassStats `json:"classes"`
}

// Results returns every candidate with its counter and share of the total,
// highest first.
func (s *Store) Results(ctx context.Context) (Results, error) {
	var candidates []models.Candidate
	if err := s.db.WithContext(ctx).Order("votes desc").Order("name asc").Find(&candidates).Error; err != nil {
		return Results{}, fmt.Errorf("list results: %w", err)
	}

	var out Results
	for _, c := range candidates {
		out.TotalVotes += int64(c.Votes)
	}
	out.Candidates = make([]CandidateResult, 0, len(candidates))
	for _, c := range candidates {
		out.Candidates = append(out.Candidates, CandidateResult{
			ID:         c.ID,
			Name:       c.Name,
			Slogan:     c.Slogan,
			ImageURL:   c.ImageURL,
			Votes:      c.Votes,
			Percentage: percentage(int64(c.Votes), out.TotalVotes),
		})
	}
	return out, nil
}

// Stats summarizes turnout overall and per class.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	db := s.db.WithContext(ctx)

	var classes []ClassStats
	err := db.Model(&models.Voter{}).
		Select("class, count(*) AS total, sum(case when has_voted then 1 else 0 end) AS voted").
		Group("class").
		Order("class asc").
		Scan(&classes).Error
	if err != nil {
		return Stats{}, fmt.Errorf("class stats: %w", err)
	}

	var st Stats
	for i := range classes {
		classes[i].Participation = percentage(classes[i].Voted, classes[i].Total)
		st.TotalVoters += classes[i].Total
		st.Voted += classes[i].Voted
	}
	if classes == nil {
		classes = []ClassStats{}
	}
	st.Classes = classes
	st.NotVoted = st.TotalVoters - st.Voted
	st.Participation = percentage(st.Voted, st.TotalVoters)

	var total struct{ Sum int64 }
	if err := db.Model(&models.Candidate{}).Select("coalesce(sum(votes), 0) AS sum").Scan(&total).Error; err != nil {
		return Stats{}, fmt.Errorf("sum votes: %w", err)
	}
	st.TotalVotes = total.Sum
	if err := db.Model(&models.Candidate{}).Count(&st.Candidates).Error; err != nil {
		return Stats{}, fmt.Errorf("count candidates: %w", err)
	}
	return st, nil
}
