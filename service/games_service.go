package service

import (
	"context"
	"fmt"
	"sync"

	"croupier/events"
	"croupier/game"
	"croupier/models"
)

// userLocks serializes resolved games per player. Two commands from the
// same player settle one after the other; different players never contend.
type userLocks struct {
	locks sync.Map // int64 -> *sync.Mutex
}

func (l *userLocks) lock(discordID int64) *sync.Mutex {
	mu, _ := l.locks.LoadOrStore(discordID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m
}

// gamesService implements the GamesService interface
type gamesService struct {
	uowFactory UnitOfWorkFactory
	rng        game.Source
	locks      userLocks
}

// NewGamesService creates a new games service
func NewGamesService(uowFactory UnitOfWorkFactory, rng game.Source) GamesService {
	return &gamesService{
		uowFactory: uowFactory,
		rng:        rng,
	}
}

// settleGameRound applies a resolved round to the ledger: one balance
// delta, one win or loss counter bump unless the round pushed, the durable
// round record, and the matching history entry.
func settleGameRound(ctx context.Context, uow UnitOfWork, account *models.Account, round *models.GameRound) (*models.Account, error) {
	updated := account
	if round.NetDelta != 0 {
		var err error
		updated, err = uow.AccountRepository().ApplyDelta(ctx, round.DiscordID, round.NetDelta)
		if err != nil {
			return nil, fmt.Errorf("failed to settle game round: %w", err)
		}
	}

	if !round.Push {
		if err := uow.AccountRepository().RecordGameResult(ctx, round.DiscordID, round.Won); err != nil {
			return nil, fmt.Errorf("failed to record game result: %w", err)
		}
	}

	if err := uow.GameRoundRepository().Create(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to record game round: %w", err)
	}

	if round.NetDelta != 0 {
		transactionType := models.TransactionTypeGameLoss
		if round.NetDelta > 0 {
			transactionType = models.TransactionTypeGameWin
		}
		history := &models.BalanceHistory{
			DiscordID:       round.DiscordID,
			BalanceBefore:   account.Balance,
			BalanceAfter:    updated.Balance,
			ChangeAmount:    round.NetDelta,
			TransactionType: transactionType,
			TransactionMetadata: map[string]any{
				"game":     string(round.Game),
				"round_id": round.ID,
				"stake":    round.Stake,
			},
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, err
		}
	}

	uow.EventBus().Publish(events.GameResolvedEvent{
		UserID:   round.DiscordID,
		Game:     round.Game,
		Stake:    round.Stake,
		Won:      round.Won,
		Push:     round.Push,
		NetDelta: round.NetDelta,
	})

	return updated, nil
}

// PlayCoinFlip wagers stakeExpr on a coin flip. An empty call bets on heads.
func (s *gamesService) PlayCoinFlip(ctx context.Context, discordID int64, username, stakeExpr, call string) (*models.CoinFlipResult, error) {
	normalized := game.Heads
	if call != "" {
		var ok bool
		normalized, ok = game.NormalizeCall(call)
		if !ok {
			return nil, fmt.Errorf("call must be heads or tails, got %q", call)
		}
	}

	mu := s.locks.lock(discordID)
	defer mu.Unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, discordID, username)
	if err != nil {
		return nil, err
	}

	stake, err := game.ParseStake(stakeExpr, account.Balance)
	if err != nil {
		return nil, err
	}

	landed := game.FlipCoin(s.rng)
	won := landed == normalized
	netDelta := -stake
	if won {
		netDelta = stake
	}

	round := &models.GameRound{
		DiscordID: discordID,
		Game:      models.GameCoinFlip,
		Stake:     stake,
		Won:       won,
		NetDelta:  netDelta,
		Details: map[string]any{
			"call":   normalized,
			"landed": landed,
		},
	}

	updated, err := settleGameRound(ctx, uow, account, round)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.CoinFlipResult{
		Won:        won,
		Call:       normalized,
		Landed:     landed,
		Stake:      stake,
		NetDelta:   netDelta,
		NewBalance: updated.Balance,
	}, nil
}

// PlayTargetRoll wagers stakeExpr on rolling at or above target
func (s *gamesService) PlayTargetRoll(ctx context.Context, discordID int64, username, stakeExpr string, target int) (*models.TargetRollResult, error) {
	mu := s.locks.lock(discordID)
	defer mu.Unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, discordID, username)
	if err != nil {
		return nil, err
	}

	stake, err := game.ParseStake(stakeExpr, account.Balance)
	if err != nil {
		return nil, err
	}

	roll := game.Roll(s.rng)
	won, winnings, netDelta, err := game.ResolveRoll(target, roll, stake)
	if err != nil {
		return nil, err
	}

	round := &models.GameRound{
		DiscordID: discordID,
		Game:      models.GameTargetRoll,
		Stake:     stake,
		Won:       won,
		NetDelta:  netDelta,
		Details: map[string]any{
			"target": target,
			"roll":   roll,
		},
	}

	updated, err := settleGameRound(ctx, uow, account, round)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TargetRollResult{
		Won:        won,
		Target:     target,
		Roll:       roll,
		Multiplier: game.RollMultiplier(target),
		WinChance:  game.RollWinChance(target),
		Stake:      stake,
		Winnings:   winnings,
		NetDelta:   netDelta,
		NewBalance: updated.Balance,
	}, nil
}

// PlaySlots wagers stakeExpr on one slot machine spin
func (s *gamesService) PlaySlots(ctx context.Context, discordID int64, username, stakeExpr string) (*models.SlotsResult, error) {
	mu := s.locks.lock(discordID)
	defer mu.Unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, discordID, username)
	if err != nil {
		return nil, err
	}

	stake, err := game.ParseStake(stakeExpr, account.Balance)
	if err != nil {
		return nil, err
	}

	grid := game.SpinGrid(s.rng)
	payline := game.Payline(grid)
	multiplier, netDelta, won := game.ScorePayline(payline, stake)

	var winnings int64
	if won {
		winnings = stake * multiplier
	}

	round := &models.GameRound{
		DiscordID: discordID,
		Game:      models.GameSlots,
		Stake:     stake,
		Won:       won,
		NetDelta:  netDelta,
		Details: map[string]any{
			"payline":    payline[:],
			"multiplier": multiplier,
		},
	}

	updated, err := settleGameRound(ctx, uow, account, round)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.SlotsResult{
		Won:        won,
		Grid:       grid,
		Payline:    payline,
		Multiplier: multiplier,
		Stake:      stake,
		Winnings:   winnings,
		NetDelta:   netDelta,
		NewBalance: updated.Balance,
	}, nil
}
