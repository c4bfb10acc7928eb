package models

import (
	id "stableford/pkg/domain"
)

// Gender selects which tee rating variant applies to a player.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Player is the slice of the user aggregate the scoring core needs. The full
// user record is owned elsewhere.
type Player struct {
	ID     id.PlayerID `json:"id"`
	Name   string      `json:"name"`
	Gender Gender      `json:"gender"`
}
