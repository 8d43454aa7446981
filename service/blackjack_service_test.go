package service

import (
	"context"
	"testing"
	"time"

	"croupier/game"
	"croupier/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// With a no-op shuffle the deck stays in factory order: A,2,3,4,5,... of
// spades. Two cards go to the player and then two to the dealer, so the
// player holds A+2 (soft 13) and the dealer holds 3+4 (7) with the 3
// showing. The next draws come off 5,6,7,8,...
func newBlackjackFixture(timeout time.Duration) (BlackjackService, *fakeLedger, *fakeRoundRepo) {
	return newBlackjackFixtureWithSource(timeout, &scriptSource{vals: []int{0}})
}

func newBlackjackFixtureWithSource(timeout time.Duration, src game.Source) (BlackjackService, *fakeLedger, *fakeRoundRepo) {
	ledger := &fakeLedger{balance: 1000}
	rounds := &fakeRoundRepo{}
	uow := &fakeUnitOfWork{
		accounts: ledger,
		history:  &fakeHistoryRepo{},
		rounds:   rounds,
	}
	svc := NewBlackjackService(&fakeUowFactory{uow: uow}, src, timeout)
	return svc, ledger, rounds
}

// stackedSource shuffles the chosen factory deck positions onto the top
// of the deck, in order. Positions must be distinct and no smaller than
// the number of cards stacked.
type stackedSource struct{ cards []int }

func (s *stackedSource) Intn(n int) int { return 0 }

func (s *stackedSource) Shuffle(n int, swap func(i, j int)) {
	for pos, src := range s.cards {
		swap(pos, src)
	}
}

// deckIndex locates a rank within one suit in factory deck order.
func deckIndex(suit game.Suit, rank game.Rank) int {
	return int(suit)*13 + int(rank) - 1
}

func TestBlackjackService_StartRound_DealsLiveRound(t *testing.T) {
	ctx := context.Background()
	svc, ledger, rounds := newBlackjackFixture(time.Minute)

	view, err := svc.StartRound(ctx, 123456, "player", "100", 777)

	require.NoError(t, err)
	assert.False(t, view.Done)
	assert.Equal(t, 13, view.PlayerValue)
	assert.Len(t, view.PlayerHand, 2)
	assert.Len(t, view.DealerHand, 1, "only the dealer's up card shows while live")
	assert.NotEmpty(t, view.SessionID)

	// Dealing holds nothing against the ledger
	assert.Equal(t, int64(1000), ledger.balance)
	assert.Empty(t, rounds.rounds)
}

func TestBlackjackService_StartRound_OneSessionPerChannel(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newBlackjackFixture(time.Minute)

	_, err := svc.StartRound(ctx, 123456, "player", "100", 777)
	require.NoError(t, err)

	_, err = svc.StartRound(ctx, 123456, "player", "100", 777)
	assert.ErrorIs(t, err, ErrSessionInProgress)

	// A different channel is a different session slot
	_, err = svc.StartRound(ctx, 123456, "player", "100", 778)
	assert.NoError(t, err)
}

func TestBlackjackService_StandLosesToDealer(t *testing.T) {
	ctx := context.Background()
	svc, ledger, rounds := newBlackjackFixture(time.Minute)

	_, err := svc.StartRound(ctx, 123456, "player", "100", 777)
	require.NoError(t, err)

	// Dealer draws 5 and 6 to reach 18 and beats the player's 13
	view, err := svc.Stand(ctx, 123456, 777)

	require.NoError(t, err)
	assert.True(t, view.Done)
	assert.Equal(t, models.BlackjackDealerWin, view.Outcome)
	assert.Equal(t, 18, view.DealerValue)
	assert.Equal(t, int64(-100), view.NetDelta)
	assert.Equal(t, int64(900), view.NewBalance)
	assert.Equal(t, int64(900), ledger.balance)
	assert.Equal(t, int64(1), ledger.losses)

	require.Len(t, rounds.rounds, 1)
	assert.Equal(t, models.GameBlackjack, rounds.rounds[0].Game)

	// The session is gone once the round resolves
	_, err = svc.Hit(ctx, 123456, 777)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestBlackjackService_HitTwiceWinsWhenDealerBusts(t *testing.T) {
	ctx := context.Background()
	svc, ledger, rounds := newBlackjackFixture(time.Minute)

	_, err := svc.StartRound(ctx, 123456, "player", "100", 777)
	require.NoError(t, err)

	// Soft 13 + 5 = 18
	view, err := svc.Hit(ctx, 123456, 777)
	require.NoError(t, err)
	assert.False(t, view.Done)
	assert.Equal(t, 18, view.PlayerValue)

	// Drawing the 6 drops the ace to 1 for a hard 14
	view, err = svc.Hit(ctx, 123456, 777)
	require.NoError(t, err)
	assert.False(t, view.Done)
	assert.Equal(t, 14, view.PlayerValue)

	// Dealer draws 7 and 8 and busts at 22
	view, err = svc.Stand(ctx, 123456, 777)
	require.NoError(t, err)
	assert.True(t, view.Done)
	assert.Equal(t, models.BlackjackPlayerWin, view.Outcome)
	assert.Equal(t, 22, view.DealerValue)
	assert.Equal(t, int64(100), view.NetDelta)
	assert.Equal(t, int64(1100), view.NewBalance)
	assert.Equal(t, int64(1100), ledger.balance)
	assert.Equal(t, int64(1), ledger.wins)

	require.Len(t, rounds.rounds, 1)
	assert.True(t, rounds.rounds[0].Won)
}

func TestBlackjackService_StandOnEighteenPushes(t *testing.T) {
	ctx := context.Background()

	// Player 10+8 (18), dealer 10+8 (18); the dealer stands pat
	src := &stackedSource{cards: []int{
		deckIndex(game.Spades, game.Ten),
		deckIndex(game.Spades, game.Eight),
		deckIndex(game.Hearts, game.Ten),
		deckIndex(game.Hearts, game.Eight),
	}}
	svc, ledger, rounds := newBlackjackFixtureWithSource(time.Minute, src)

	view, err := svc.StartRound(ctx, 123456, "player", "100", 777)
	require.NoError(t, err)
	assert.False(t, view.Done)
	assert.Equal(t, 18, view.PlayerValue)

	view, err = svc.Stand(ctx, 123456, 777)
	require.NoError(t, err)
	assert.True(t, view.Done)
	assert.Equal(t, models.BlackjackPush, view.Outcome)
	assert.Equal(t, 18, view.DealerValue)
	assert.Equal(t, int64(0), view.NetDelta)
	assert.Equal(t, int64(1000), view.NewBalance)

	// A push moves no money and counts as neither win nor loss
	assert.Equal(t, int64(1000), ledger.balance)
	assert.Zero(t, ledger.wins)
	assert.Zero(t, ledger.losses)

	require.Len(t, rounds.rounds, 1)
	assert.True(t, rounds.rounds[0].Push)
}

func TestBlackjackService_HitToBust(t *testing.T) {
	ctx := context.Background()

	// Player 10+9 (19) against a pat 17; the next card is a ten
	src := &stackedSource{cards: []int{
		deckIndex(game.Spades, game.Ten),
		deckIndex(game.Spades, game.Nine),
		deckIndex(game.Hearts, game.Ten),
		deckIndex(game.Hearts, game.Seven),
		deckIndex(game.Diamonds, game.Ten),
	}}
	svc, ledger, _ := newBlackjackFixtureWithSource(time.Minute, src)

	_, err := svc.StartRound(ctx, 123456, "player", "100", 777)
	require.NoError(t, err)

	view, err := svc.Hit(ctx, 123456, 777)
	require.NoError(t, err)
	assert.True(t, view.Done)
	assert.Equal(t, models.BlackjackDealerWin, view.Outcome)
	assert.Equal(t, 29, view.PlayerValue)
	assert.Equal(t, int64(-100), view.NetDelta)
	assert.Equal(t, int64(900), ledger.balance)
	assert.Equal(t, int64(1), ledger.losses)
}

func TestBlackjackService_ActionsWithoutSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newBlackjackFixture(time.Minute)

	_, err := svc.Hit(ctx, 123456, 777)
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = svc.Stand(ctx, 123456, 777)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestBlackjackService_TimeoutAbandonsWithoutLedgerEffect(t *testing.T) {
	ctx := context.Background()
	svc, ledger, rounds := newBlackjackFixture(30 * time.Millisecond)

	expired := make(chan *models.BlackjackView, 1)
	svc.SetExpiryHandler(func(view *models.BlackjackView) {
		expired <- view
	})

	_, err := svc.StartRound(ctx, 123456, "player", "100", 777)
	require.NoError(t, err)

	select {
	case view := <-expired:
		assert.True(t, view.Done)
		assert.Equal(t, models.BlackjackExpired, view.Outcome)
		assert.Equal(t, int64(0), view.NetDelta)
	case <-time.After(2 * time.Second):
		t.Fatal("session never expired")
	}

	// Expiry touches nothing durable
	assert.Equal(t, int64(1000), ledger.balance)
	assert.Zero(t, ledger.wins)
	assert.Zero(t, ledger.losses)
	assert.Empty(t, rounds.rounds)

	_, err = svc.Hit(ctx, 123456, 777)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

// A round must settle exactly once: either an action resolves it or the
// timeout abandons it, never both, however the timer lands.
func TestBlackjackService_ExpiryAndStandSettleExactlyOnce(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		svc, ledger, rounds := newBlackjackFixture(time.Millisecond)

		expired := make(chan *models.BlackjackView, 1)
		svc.SetExpiryHandler(func(view *models.BlackjackView) {
			expired <- view
		})

		_, err := svc.StartRound(ctx, 123456, "player", "100", 777)
		require.NoError(t, err)

		time.Sleep(time.Millisecond)
		view, err := svc.Stand(ctx, 123456, 777)

		if err != nil {
			// The timeout won the race; the round expires cleanly with no
			// ledger effect
			require.ErrorIs(t, err, ErrNoActiveSession)
			select {
			case v := <-expired:
				assert.Equal(t, models.BlackjackExpired, v.Outcome)
			case <-time.After(2 * time.Second):
				t.Fatal("session neither settled nor expired")
			}
			assert.Equal(t, int64(1000), ledger.balance)
			assert.Empty(t, rounds.rounds)
			continue
		}

		// The stand won; the round settled and may not also expire
		assert.True(t, view.Done)
		require.Len(t, rounds.rounds, 1)
		select {
		case <-expired:
			t.Fatal("settled round also expired")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestBlackjackService_ActionResetsTimeout(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newBlackjackFixture(80 * time.Millisecond)

	_, err := svc.StartRound(ctx, 123456, "player", "100", 777)
	require.NoError(t, err)

	// Keep acting inside the window; the session must stay alive past the
	// original deadline
	time.Sleep(50 * time.Millisecond)
	_, err = svc.Hit(ctx, 123456, 777)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	_, err = svc.Stand(ctx, 123456, 777)
	require.NoError(t, err)
}
