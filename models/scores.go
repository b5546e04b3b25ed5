// models/scores.go
package models

// TeamScore is one leaderboard row. Rank is positional: tied scores get
// distinct consecutive ranks, never a shared one.
type TeamScore struct {
	Rank  int    `json:"rank"`
	Team  string `json:"team"`
	Score int    `json:"score"`
}

// ScoreBoard is the aggregation engine output handed to rendering.
type ScoreBoard struct {
	Overall    []TeamScore            `json:"overall"`
	ByCategory map[string][]TeamScore `json:"byCategory"`
}
