package models

import (
	"github.com/shopspring/decimal"
)

// Bet is a user's prediction for one Grand Prix: the driver finishing P10 and the
// first driver to retire. Points are filled in by the server once the race is scored.
type Bet struct {
	ID        int              `json:"id" validate:"required"`
	PointsP10 *decimal.Decimal `json:"points_p10,omitempty"`
	PointsDNF *decimal.Decimal `json:"points_dnf,omitempty"`
	GP        GP               `json:"gp"`
	PiloteP10 Pilote           `json:"pilote_p10"`
	PiloteDNF Pilote           `json:"pilote_dnf"`
	User      *User            `json:"user,omitempty"`
}

// RaceID returns the id of the Grand Prix the bet is placed on
func (b *Bet) RaceID() string {
	return b.GP.ID
}

// IsScored checks if the server has attributed points to the bet
func (b *Bet) IsScored() bool {
	return b.PointsP10 != nil || b.PointsDNF != nil
}

// TotalPoints returns the sum of P10 and DNF points, zero while unscored
func (b *Bet) TotalPoints() decimal.Decimal {
	total := decimal.Zero
	if b.PointsP10 != nil {
		total = total.Add(*b.PointsP10)
	}
	if b.PointsDNF != nil {
		total = total.Add(*b.PointsDNF)
	}
	return total
}

// BetSelection is the pair of drivers picked for a Grand Prix
type BetSelection struct {
	RaceID string `validate:"required"`
	P10ID  int    `validate:"required,gt=0"`
	DNFID  int    `validate:"required,gt=0"`
}
