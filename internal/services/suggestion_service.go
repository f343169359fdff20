package services

import (
	"context"
	"strings"

	"intercity/internal/domain"
	"intercity/internal/domain/models"
	"intercity/internal/ranking"
	"intercity/internal/utils"
)

// Reasons the candidate source fell back to the built-in list.
const (
	ReasonDatabaseUnavailable = "database_unavailable"
	ReasonNoDestinations      = "no_destinations"
)

type CandidateSource interface {
	ListCandidates(ctx context.Context) ([]models.DestinationCandidate, error)
}

// SuggestionService feeds the ranker and never fails: a broken database falls
// back to the seed destinations, a broken embedding provider falls back to
// substring matching.
type SuggestionService struct {
	Candidates    CandidateSource
	Ranker        *ranking.Ranker
	TopK          int
	MinSimilarity *float64
	RequestID     string
}

func (s SuggestionService) Suggest(ctx context.Context, query string, semantic bool) domain.Result[[]models.Suggestion] {
	candidates, sourceReason := s.loadCandidates(ctx)

	ranker := s.Ranker
	if ranker == nil {
		ranker = ranking.NewRanker(nil)
	}
	res := ranker.Suggest(ctx, query, candidates, ranking.Options{
		TopK:          s.TopK,
		MinSimilarity: s.MinSimilarity,
		Semantic:      semantic,
	})

	if sourceReason != "" {
		res = domain.Degraded(res.Data, joinReasons(sourceReason, res.Reason))
	}
	if res.IsDegraded() {
		utils.LogEvent(s.RequestID, "suggest", "degraded", "reason="+res.Reason)
	}
	return res
}

func (s SuggestionService) loadCandidates(ctx context.Context) ([]models.DestinationCandidate, string) {
	if s.Candidates == nil {
		return ranking.DefaultCandidates(), ReasonDatabaseUnavailable
	}
	candidates, err := s.Candidates.ListCandidates(ctx)
	if err != nil {
		utils.LogEvent(s.RequestID, "suggest", "candidates_error", err.Error())
		return ranking.DefaultCandidates(), ReasonDatabaseUnavailable
	}
	if len(candidates) == 0 {
		return ranking.DefaultCandidates(), ReasonNoDestinations
	}
	return candidates, ""
}

func joinReasons(reasons ...string) string {
	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if r != "" {
			out = append(out, r)
		}
	}
	return strings.Join(out, ",")
}
