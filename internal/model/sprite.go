package model

// Sprite is one cached entry fetched from the upstream sprite API.
// The ID is assigned locally at fetch time; the upstream pokedex
// number is not kept.
type Sprite struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Sprite string `json:"sprite"`
}
