package models

// Bus is an offered trip on a route by an operator.
type Bus struct {
	ID             int64   `json:"id"`
	OperatorID     int64   `json:"operatorId"`
	RouteID        int64   `json:"routeId"`
	DepartureTime  string  `json:"departureTime"`
	ArrivalTime    string  `json:"arrivalTime"`
	Price          float64 `json:"price"`
	Type           string  `json:"type"`
	TotalSeats     int     `json:"totalSeats"`
	AvailableSeats int     `json:"availableSeats"`
	IsActive       bool    `json:"isActive"`
}

// BusListing is a bus joined with its operator and route, as shown in search results.
type BusListing struct {
	ID             int64    `json:"id"`
	Operator       string   `json:"operator"`
	Color          string   `json:"color"`
	Rating         float64  `json:"rating"`
	From           string   `json:"from"`
	To             string   `json:"to"`
	DepartureTime  string   `json:"time"`
	ArrivalTime    string   `json:"arrivalTime"`
	Price          float64  `json:"price"`
	Type           string   `json:"type"`
	Seats          int      `json:"seats"`
	AvailableSeats int      `json:"availableSeats"`
	Features       []string `json:"features"`
}

// BusFilter narrows a bus listing.
type BusFilter struct {
	Destination string
	Type        string
}

// TrendingRoute is a route ranked by recent search volume.
type TrendingRoute struct {
	From          string   `json:"from"`
	To            string   `json:"to"`
	Route         string   `json:"route"`
	SearchCount   int      `json:"searchCount"`
	CheapestPrice *float64 `json:"cheapestPrice"`
	OperatorCount int      `json:"operatorCount"`
}
