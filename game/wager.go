package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Stake expression errors. InsufficientFundsError carries the shortfall so
// callers can report it.
var (
	ErrInvalidStakeFormat = errors.New("invalid stake: use a number, 'all', or 'half'")
	ErrNonPositiveStake   = errors.New("stake must be a positive amount")
)

// InsufficientFundsError is returned when a stake exceeds the live balance.
type InsufficientFundsError struct {
	Balance int64
	Stake   int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: have %d, need %d", e.Balance, e.Stake)
}

// Shortfall returns how much the stake exceeds the balance by.
func (e *InsufficientFundsError) Shortfall() int64 {
	return e.Stake - e.Balance
}

// ParseStake normalizes a stake expression against a live balance.
// "all" resolves to the full balance, "half" to its integer floor half,
// anything else must be an integer literal. The resolved stake must be
// positive and covered by the balance.
func ParseStake(expr string, balance int64) (int64, error) {
	var stake int64

	switch strings.ToLower(strings.TrimSpace(expr)) {
	case "all":
		stake = balance
	case "half":
		stake = balance / 2
	default:
		parsed, err := strconv.ParseInt(strings.TrimSpace(expr), 10, 64)
		if err != nil {
			return 0, ErrInvalidStakeFormat
		}
		stake = parsed
	}

	if stake <= 0 {
		return 0, ErrNonPositiveStake
	}
	if stake > balance {
		return 0, &InsufficientFundsError{Balance: balance, Stake: stake}
	}

	return stake, nil
}
