package httpapi

import "github.com/freeeve/openingstats/internal/stats"

// PositionResponse is the JSON shape of a position lookup.
type PositionResponse struct {
	Position string `json:"position"` // Canonical position ID (EPD)
	Count    uint64 `json:"count"`
	White    uint64 `json:"white"`
	Draw     uint64 `json:"draw"`
	Black    uint64 `json:"black"`
}

func toPositionResponse(id string, o stats.Outcome) PositionResponse {
	return PositionResponse{
		Position: id,
		Count:    o.Count(),
		White:    o.White,
		Draw:     o.Draws,
		Black:    o.Black,
	}
}
