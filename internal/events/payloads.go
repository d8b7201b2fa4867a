package events

// PointsPayload records a score change for one cook.
type PointsPayload struct {
	PlayerID string `json:"player_id"`
	Points   int    `json:"points"`
	Score    int    `json:"score"`
	Reason   string `json:"reason"`
}

// SeatPayload describes a customer at a seat.
type SeatPayload struct {
	SeatID     string   `json:"seat_id"`
	Order      []string `json:"order"`
	Progress   float64  `json:"progress"`
	Multiplier float64  `json:"multiplier,omitempty"`
}

// PickupPayload describes a reward pickup.
type PickupPayload struct {
	PickupID string  `json:"pickup_id"`
	Reward   string  `json:"reward"`
	PlayerID string  `json:"player_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// MatchEndPayload is the final result of a match.
type MatchEndPayload struct {
	Scores  map[string]int `json:"scores"`
	Winners []string       `json:"winners"`
}
