package service

import (
	"context"
	"fmt"
	"sort"
)

// RatingMatcher ranks the worker pool by rating. It is the default
// matcher when no external candidate-matching service is wired in;
// production deployments replace it with a client for that service.
type RatingMatcher struct{}

func NewRatingMatcher() *RatingMatcher {
	return &RatingMatcher{}
}

func (m *RatingMatcher) Match(ctx context.Context, job *Job, pool []*Worker) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(pool))
	for _, w := range pool {
		candidates = append(candidates, Candidate{
			WorkerID:  w.ID,
			Score:     w.Rating,
			Reasoning: fmt.Sprintf("rating %.1f", w.Rating),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates, nil
}
