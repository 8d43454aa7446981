package game

// Slot machine symbols. Weights sum to 100 and are used directly as a
// discrete distribution per reel position, drawn with replacement.
const (
	SymbolCherry  = "🍒"
	SymbolLemon   = "🍋"
	SymbolOrange  = "🍊"
	SymbolGrape   = "🍇"
	SymbolBell    = "🔔"
	SymbolSeven   = "7️⃣"
	SymbolDiamond = "💎"
)

type slotSymbol struct {
	symbol string
	weight int
}

// Ordered most to least common; keep the listing order stable so odds
// reports read naturally.
var reelSymbols = []slotSymbol{
	{SymbolCherry, 35},
	{SymbolLemon, 25},
	{SymbolOrange, 20},
	{SymbolGrape, 12},
	{SymbolBell, 5},
	{SymbolSeven, 2},
	{SymbolDiamond, 1},
}

const reelTotalWeight = 100

// Triple-match payout multipliers per symbol.
var tripleMultipliers = map[string]int64{
	SymbolDiamond: 500,
	SymbolSeven:   100,
	SymbolBell:    50,
	SymbolGrape:   25,
	SymbolOrange:  15,
	SymbolLemon:   10,
	SymbolCherry:  8,
}

// PairMultiplier is the payout for exactly two matching payline symbols.
const PairMultiplier = 2

// SpinReel draws one symbol weighted by the reel distribution.
func SpinReel(r Source) string {
	roll := r.Intn(reelTotalWeight)
	for _, s := range reelSymbols {
		if roll < s.weight {
			return s.symbol
		}
		roll -= s.weight
	}
	// Unreachable: weights sum to reelTotalWeight.
	return reelSymbols[0].symbol
}

// SpinGrid generates a full 3x3 grid. Only the middle row is ever scored;
// the other rows are cosmetic.
func SpinGrid(r Source) [3][3]string {
	var grid [3][3]string
	for row := range grid {
		for col := range grid[row] {
			grid[row][col] = SpinReel(r)
		}
	}
	return grid
}

// Payline extracts the scored middle row of a grid.
func Payline(grid [3][3]string) [3]string {
	return grid[1]
}

// ScorePayline evaluates a payline at the given stake and returns the
// multiplier and the net balance delta. Triple match pays the symbol's
// multiplier, exactly two matching symbols pay 2x, otherwise the stake is
// lost.
func ScorePayline(payline [3]string, stake int64) (multiplier int64, netDelta int64, won bool) {
	a, b, c := payline[0], payline[1], payline[2]

	switch {
	case a == b && b == c:
		multiplier = tripleMultipliers[a]
	case a == b || b == c || a == c:
		multiplier = PairMultiplier
	default:
		return 0, -stake, false
	}

	winnings := stake * multiplier
	return multiplier, winnings - stake, true
}

// SlotOdd describes one symbol's appearance probability and triple payout.
type SlotOdd struct {
	Symbol           string
	Weight           int
	ReelChance       float64 // per-reel probability
	TripleChance     float64 // probability of a triple on the payline
	TripleMultiplier int64
}

// SlotOdds returns the odds table, ordered most to least common.
func SlotOdds() []SlotOdd {
	odds := make([]SlotOdd, 0, len(reelSymbols))
	for _, s := range reelSymbols {
		p := float64(s.weight) / float64(reelTotalWeight)
		odds = append(odds, SlotOdd{
			Symbol:           s.symbol,
			Weight:           s.weight,
			ReelChance:       p,
			TripleChance:     p * p * p,
			TripleMultiplier: tripleMultipliers[s.symbol],
		})
	}
	return odds
}

// PairChance returns the probability of exactly two matching symbols on
// the payline.
func PairChance() float64 {
	total := 0.0
	for _, s := range reelSymbols {
		p := float64(s.weight) / float64(reelTotalWeight)
		total += 3 * p * p * (1 - p)
	}
	return total
}
