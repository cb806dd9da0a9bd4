package replay

import "shelterverse/internal/domain/colony"

type Request struct {
	ColonyID string
	Limit    int
	// FromTick and ToTick bound the window inclusively; zero leaves a side open.
	FromTick int64
	ToTick   int64
	Type     string
}

type Response struct {
	Events []colony.DomainEvent `json:"events"`
	Counts map[string]int       `json:"counts"`
}
