package betting

import "errors"

var (
	// ErrIncompleteSelection is returned when a bet is submitted without both drivers
	ErrIncompleteSelection = errors.New("select both a P10 driver and a DNF driver")
	// ErrBettingClosed is returned for races that have already started
	ErrBettingClosed = errors.New("betting is closed for this race")
	// ErrNoExistingBet is returned when deleting a bet that does not exist
	ErrNoExistingBet = errors.New("no bet placed on this race")
	// ErrNotLoaded is returned when the editor is used before Load
	ErrNotLoaded = errors.New("bet editor not loaded")
)
