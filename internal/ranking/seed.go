package ranking

import "intercity/internal/domain/models"

func price(v float64) *float64 { return &v }

// DefaultCandidates is the built-in destination list used when the route data
// source fails or is empty, so the search box is never blank.
func DefaultCandidates() []models.DestinationCandidate {
	return []models.DestinationCandidate{
		{Destination: "Kitwe", Origin: "Lusaka", SearchCount: 342, CheapestPrice: price(150)},
		{Destination: "Ndola", Origin: "Lusaka", SearchCount: 289, CheapestPrice: price(180)},
		{Destination: "Livingstone", Origin: "Lusaka", SearchCount: 240, CheapestPrice: price(350)},
		{Destination: "Solwezi", Origin: "Kitwe", SearchCount: 156, CheapestPrice: price(200)},
		{Destination: "Chipata", Origin: "Lusaka", SearchCount: 120, CheapestPrice: price(300)},
		{Destination: "Mongu", Origin: "Lusaka", SearchCount: 80, CheapestPrice: price(400)},
		{Destination: "Kabwe", Origin: "Lusaka", SearchCount: 64, CheapestPrice: price(120)},
		{Destination: "Johannesburg", Origin: "Lusaka", SearchCount: 52, CheapestPrice: price(1200)},
	}
}
