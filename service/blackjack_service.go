package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"croupier/game"
	"croupier/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// sessionKey identifies one live blackjack round. A player holds at most
// one round per channel.
type sessionKey struct {
	discordID int64
	channelID int64
}

type blackjackSession struct {
	id        string
	discordID int64
	channelID int64
	username  string
	stake     int64
	table     *game.Table
	timer     *time.Timer
}

// ExpiryHandler is notified when a live session times out. Expiry has no
// ledger effect; the handler exists so the bot can update its message.
type ExpiryHandler func(view *models.BlackjackView)

// blackjackService implements the BlackjackService interface. Sessions are
// held in memory only; a restart forfeits nothing because the stake is
// settled exclusively at resolution.
type blackjackService struct {
	uowFactory UnitOfWorkFactory
	rng        game.Source
	timeout    time.Duration
	locks      userLocks

	mu       sync.Mutex
	sessions map[sessionKey]*blackjackSession
	onExpire ExpiryHandler
}

// NewBlackjackService creates a new blackjack service. Sessions that see no
// action for the given timeout are abandoned without touching the ledger.
func NewBlackjackService(uowFactory UnitOfWorkFactory, rng game.Source, timeout time.Duration) BlackjackService {
	return &blackjackService{
		uowFactory: uowFactory,
		rng:        rng,
		timeout:    timeout,
		sessions:   make(map[sessionKey]*blackjackSession),
	}
}

// SetExpiryHandler registers the callback invoked when a session times out
func (s *blackjackService) SetExpiryHandler(handler ExpiryHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = handler
}

// StartRound deals a new round. A natural twenty one resolves immediately;
// otherwise the round stays live until Hit, Stand or the timeout.
func (s *blackjackService) StartRound(ctx context.Context, discordID int64, username, stakeExpr string, channelID int64) (*models.BlackjackView, error) {
	mu := s.locks.lock(discordID)
	defer mu.Unlock()

	key := sessionKey{discordID: discordID, channelID: channelID}
	s.mu.Lock()
	_, exists := s.sessions[key]
	s.mu.Unlock()
	if exists {
		return nil, ErrSessionInProgress
	}

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

	session := &blackjackSession{
		id:        uuid.New().String(),
		discordID: discordID,
		channelID: channelID,
		username:  username,
		stake:     stake,
		table:     game.NewTable(s.rng),
	}

	// Natural twenty one ends the round before the player ever acts
	if session.table.Terminal() {
		view, err := s.settle(ctx, uow, account, session)
		if err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return view, nil
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.mu.Lock()
	s.sessions[key] = session
	session.timer = time.AfterFunc(s.timeout, func() {
		s.expire(key, session.id)
	})
	s.mu.Unlock()

	return liveView(session), nil
}

// Hit draws a card for the player's live session
func (s *blackjackService) Hit(ctx context.Context, discordID, channelID int64) (*models.BlackjackView, error) {
	return s.act(ctx, discordID, channelID, game.ActionHit)
}

// Stand ends the player's turn and plays out the dealer
func (s *blackjackService) Stand(ctx context.Context, discordID, channelID int64) (*models.BlackjackView, error) {
	return s.act(ctx, discordID, channelID, game.ActionStand)
}

func (s *blackjackService) act(ctx context.Context, discordID, channelID int64, action game.Action) (*models.BlackjackView, error) {
	mu := s.locks.lock(discordID)
	defer mu.Unlock()

	key := sessionKey{discordID: discordID, channelID: channelID}
	s.mu.Lock()
	session, exists := s.sessions[key]
	s.mu.Unlock()
	if !exists {
		return nil, ErrNoActiveSession
	}

	if err := session.table.Apply(action); err != nil {
		return nil, err
	}

	if !session.table.Terminal() {
		// Each action restarts the inactivity clock
		session.timer.Reset(s.timeout)
		return liveView(session), nil
	}

	session.timer.Stop()
	s.mu.Lock()
	delete(s.sessions, key)
	s.mu.Unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	view, err := s.settle(ctx, uow, account, session)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return view, nil
}

// settle records the terminal round against the ledger and builds the
// final view. A push leaves the balance and the win counters untouched.
func (s *blackjackService) settle(ctx context.Context, uow UnitOfWork, account *models.Account, session *blackjackSession) (*models.BlackjackView, error) {
	result, err := session.table.Result()
	if err != nil {
		return nil, err
	}
	netDelta, err := session.table.NetDelta(session.stake)
	if err != nil {
		return nil, err
	}

	won := result == game.ResultPlayerWin || result == game.ResultPlayerBlackjack
	push := result == game.ResultPush

	round := &models.GameRound{
		ID:        session.id,
		DiscordID: session.discordID,
		Game:      models.GameBlackjack,
		Stake:     session.stake,
		Won:       won,
		Push:      push,
		NetDelta:  netDelta,
		Details: map[string]any{
			"result":       string(result),
			"player_hand":  game.FormatHand(session.table.PlayerHand()),
			"dealer_hand":  game.FormatHand(session.table.DealerHand()),
			"player_value": session.table.PlayerValue(),
			"dealer_value": session.table.DealerValue(),
		},
	}

	updated, err := settleGameRound(ctx, uow, account, round)
	if err != nil {
		return nil, err
	}

	view := finalView(session, string(result), netDelta)
	view.NewBalance = updated.Balance
	return view, nil
}

// expire abandons a timed out session. The stake was never held against
// the balance, so expiry writes nothing to the ledger. It takes the same
// per-user lock as act, in the same order ahead of s.mu, so a timer
// firing mid-action waits and then finds the session gone.
func (s *blackjackService) expire(key sessionKey, sessionID string) {
	mu := s.locks.lock(key.discordID)
	defer mu.Unlock()

	s.mu.Lock()
	session, exists := s.sessions[key]
	if !exists || session.id != sessionID {
		// The round resolved, or a newer round took the slot
		s.mu.Unlock()
		return
	}
	delete(s.sessions, key)
	handler := s.onExpire
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"discordID": key.discordID,
		"channelID": key.channelID,
		"sessionID": sessionID,
	}).Info("Blackjack session expired")

	if handler != nil {
		handler(finalView(session, models.BlackjackExpired, 0))
	}
}

func handStrings(hand []game.Card) []string {
	out := make([]string, len(hand))
	for i, c := range hand {
		out[i] = c.String()
	}
	return out
}

// liveView exposes only the dealer's up card while the player still acts
func liveView(session *blackjackSession) *models.BlackjackView {
	return &models.BlackjackView{
		SessionID:   session.id,
		DiscordID:   session.discordID,
		ChannelID:   session.channelID,
		Stake:       session.stake,
		PlayerHand:  handStrings(session.table.PlayerHand()),
		DealerHand:  handStrings([]game.Card{session.table.DealerUpCard()}),
		PlayerValue: session.table.PlayerValue(),
	}
}

func finalView(session *blackjackSession, outcome string, netDelta int64) *models.BlackjackView {
	return &models.BlackjackView{
		SessionID:   session.id,
		DiscordID:   session.discordID,
		ChannelID:   session.channelID,
		Stake:       session.stake,
		PlayerHand:  handStrings(session.table.PlayerHand()),
		DealerHand:  handStrings(session.table.DealerHand()),
		PlayerValue: session.table.PlayerValue(),
		DealerValue: session.table.DealerValue(),
		Done:        true,
		Outcome:     outcome,
		NetDelta:    netDelta,
	}
}
