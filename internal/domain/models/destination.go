package models

// DestinationCandidate is ranking input aggregated from routes, searches and fares.
type DestinationCandidate struct {
	Destination   string
	Origin        string
	SearchCount   int
	CheapestPrice *float64
}

// Suggestion is one ranked destination returned to the search box.
type Suggestion struct {
	Name           string   `json:"name"`
	From           string   `json:"from"`
	SearchCount    int      `json:"searchCount"`
	CheapestPrice  *float64 `json:"cheapestPrice"`
	RelevanceScore float64  `json:"relevanceScore"`
	MatchType      string   `json:"matchType"`

	score float64
}

// Score is the boosted ranking score used for ordering.
func (s Suggestion) Score() float64 { return s.score }

// WithScore returns a copy carrying the ranking score.
func (s Suggestion) WithScore(score float64) Suggestion {
	s.score = score
	return s
}
