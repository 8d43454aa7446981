package service

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors surfaced to the bot layer, which maps them to
// user-facing messages.
var (
	// ErrChannelNotAllowed means the guild restricts gambling commands to
	// specific channels and this is not one of them
	ErrChannelNotAllowed = errors.New("gambling is not allowed in this channel")

	// ErrAccountNotFound means the target account does not exist
	ErrAccountNotFound = errors.New("account not found")

	// ErrNoActiveSession means the player has no live blackjack round here
	ErrNoActiveSession = errors.New("no active blackjack session")

	// ErrSessionInProgress means the player already has a live blackjack
	// round in this channel
	ErrSessionInProgress = errors.New("blackjack session already in progress")

	// ErrSelfTransfer means a transfer named the sender as recipient
	ErrSelfTransfer = errors.New("cannot transfer to yourself")
)

// DailyCooldownError is returned when the daily reward was already claimed
// within the last 24 hours.
type DailyCooldownError struct {
	Remaining time.Duration
}

func (e *DailyCooldownError) Error() string {
	return fmt.Sprintf("daily reward already claimed, try again in %s", e.Remaining.Round(time.Second))
}
