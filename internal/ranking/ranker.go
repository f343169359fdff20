// Package ranking orders destination suggestions for the search box.
package ranking

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"intercity/internal/domain"
	"intercity/internal/domain/models"
	"intercity/internal/semantic"
	"intercity/internal/utils"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultTopK          = 10
	DefaultMinSimilarity = 0.3

	// Semantic matching only runs when substring matching found fewer than this.
	exactTarget = 5
	// Queries shorter than this (in runes) never trigger semantic matching.
	minSemanticQueryLen = 3
	popularityThreshold = 5
	popularityBoost     = 0.1
	scoringParallelism  = 8
)

// Degradation reasons reported on the result.
const (
	ReasonEmbeddingUnavailable = "embedding_unavailable"
	ReasonEmbeddingPartial     = "embedding_partial"
	ReasonSemanticDisabled     = "semantic_disabled"
)

// Similarity is the part of the semantic engine the ranker needs.
type Similarity interface {
	Available() bool
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Options tune a single Suggest call.
type Options struct {
	TopK int
	// MinSimilarity is the raw-similarity cutoff. Nil or negative selects
	// DefaultMinSimilarity; zero keeps every positive match.
	MinSimilarity *float64
	// Semantic enables the embedding fallback; false forces substring-only.
	Semantic bool
}

func (o Options) normalized() Options {
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	return o
}

func (o Options) minSimilarity() float64 {
	if o.MinSimilarity == nil || *o.MinSimilarity < 0 {
		return DefaultMinSimilarity
	}
	return *o.MinSimilarity
}

// Threshold is a convenience for setting Options.MinSimilarity.
func Threshold(v float64) *float64 { return &v }

// Ranker blends exact substring matches with semantically similar destinations.
type Ranker struct {
	similarity Similarity
}

func NewRanker(similarity Similarity) *Ranker {
	return &Ranker{similarity: similarity}
}

// Suggest ranks candidates for query. It never returns an error: when the
// semantic engine cannot be used the result carries exact matches only and a
// degraded status with the reason.
func (r *Ranker) Suggest(ctx context.Context, query string, candidates []models.DestinationCandidate, opts Options) domain.Result[[]models.Suggestion] {
	opts = opts.normalized()
	query = utils.NormalizeSpace(query)

	if query == "" {
		return domain.OK(popular(candidates, opts.TopK))
	}

	exact := exactMatches(query, candidates)
	if len(exact) >= exactTarget || utf8.RuneCountInString(query) < minSemanticQueryLen {
		return domain.OK(truncate(exact, opts.TopK))
	}
	if !opts.Semantic {
		return domain.Degraded(truncate(exact, opts.TopK), ReasonSemanticDisabled)
	}
	if r.similarity == nil || !r.similarity.Available() {
		return domain.Degraded(truncate(exact, opts.TopK), ReasonEmbeddingUnavailable)
	}

	phase := r.semanticMatches(ctx, query, candidates, exact, opts.minSimilarity())
	if phase.Status == domain.StatusUnavailable {
		return domain.Degraded(truncate(exact, opts.TopK), phase.Reason)
	}

	merged := make([]models.Suggestion, 0, len(exact)+len(phase.Data))
	merged = append(merged, exact...)
	merged = append(merged, phase.Data...)
	out := truncate(dedupe(merged), opts.TopK)
	if phase.IsDegraded() {
		return domain.Degraded(out, phase.Reason)
	}
	return domain.OK(out)
}

// popular returns the most searched destinations, one entry per destination.
func popular(candidates []models.DestinationCandidate, topK int) []models.Suggestion {
	out := make([]models.Suggestion, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, exactSuggestion(c))
	}
	sortBySearchCount(out)
	return truncate(dedupe(out), topK)
}

func exactMatches(query string, candidates []models.DestinationCandidate) []models.Suggestion {
	q := strings.ToLower(query)
	out := []models.Suggestion{}
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Destination), q) {
			out = append(out, exactSuggestion(c))
		}
	}
	sortBySearchCount(out)
	return dedupe(out)
}

func exactSuggestion(c models.DestinationCandidate) models.Suggestion {
	return models.Suggestion{
		Name:           c.Destination,
		From:           c.Origin,
		SearchCount:    c.SearchCount,
		CheapestPrice:  c.CheapestPrice,
		RelevanceScore: 1,
		MatchType:      domain.MatchExact,
	}.WithScore(1)
}

// semanticMatches scores every candidate outside the exact set. The threshold
// applies to the raw similarity; the popularity boost is added afterwards and
// only affects ordering. The phase is unavailable when the query or every
// candidate could not be embedded, and degraded when only some could.
func (r *Ranker) semanticMatches(ctx context.Context, query string, candidates []models.DestinationCandidate, exact []models.Suggestion, minSimilarity float64) domain.Result[[]models.Suggestion] {
	queryVec, err := r.similarity.Embed(ctx, query)
	if err != nil {
		return domain.Unavailable[[]models.Suggestion](ReasonEmbeddingUnavailable)
	}

	taken := make(map[string]bool, len(exact))
	for _, s := range exact {
		taken[destinationKey(s.Name)] = true
	}

	pending := make([]models.DestinationCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !taken[destinationKey(c.Destination)] {
			pending = append(pending, c)
		}
	}

	scores := make([]float64, len(pending))
	ok := make([]bool, len(pending))

	var g errgroup.Group
	g.SetLimit(scoringParallelism)
	for i, c := range pending {
		g.Go(func() error {
			vec, err := r.similarity.Embed(ctx, contextString(c))
			if err != nil {
				// counted as a failure below; the rest still rank
				return nil
			}
			scores[i] = semantic.CosineSimilarity(queryVec, vec)
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	out := []models.Suggestion{}
	for i, c := range pending {
		if !ok[i] {
			failed++
			continue
		}
		if scores[i] <= minSimilarity {
			continue
		}
		final := scores[i]
		if c.SearchCount > popularityThreshold {
			final += popularityBoost
		}
		out = append(out, models.Suggestion{
			Name:           c.Destination,
			From:           c.Origin,
			SearchCount:    c.SearchCount,
			CheapestPrice:  c.CheapestPrice,
			RelevanceScore: utils.RoundTo(scores[i], 2),
			MatchType:      domain.MatchSemantic,
		}.WithScore(final))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})

	switch {
	case failed > 0 && failed == len(pending):
		return domain.Unavailable[[]models.Suggestion](ReasonEmbeddingUnavailable)
	case failed > 0:
		return domain.Degraded(out, ReasonEmbeddingPartial)
	}
	return domain.OK(out)
}

// contextString is the text embedded for a candidate.
func contextString(c models.DestinationCandidate) string {
	if strings.TrimSpace(c.Origin) == "" {
		return c.Destination
	}
	return c.Destination + " from " + c.Origin
}

func sortBySearchCount(s []models.Suggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].SearchCount > s[j].SearchCount
	})
}

// dedupe keeps the first entry per destination, so callers order by priority first.
func dedupe(in []models.Suggestion) []models.Suggestion {
	seen := make(map[string]bool, len(in))
	out := make([]models.Suggestion, 0, len(in))
	for _, s := range in {
		key := destinationKey(s.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func destinationKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func truncate(s []models.Suggestion, n int) []models.Suggestion {
	if len(s) > n {
		return s[:n]
	}
	return s
}
