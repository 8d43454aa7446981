package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatChips formats a chip amount with thousand separators
func FormatChips(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%d", amount)

	// Add commas for thousands
	n := len(str)
	var result strings.Builder
	if negative {
		result.WriteRune('-')
	}
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatSignedChips formats a net change with an explicit sign
func FormatSignedChips(amount int64) string {
	if amount >= 0 {
		return "+" + FormatChips(amount)
	}
	return FormatChips(amount)
}

// FormatGameResult formats the outcome of a resolved wager
func FormatGameResult(won bool, netDelta, newBalance int64) string {
	if won {
		return fmt.Sprintf("🎉 **You won %s chips!** New balance: **%s chips**",
			FormatChips(netDelta), FormatChips(newBalance))
	}
	return fmt.Sprintf("😔 **You lost %s chips.** New balance: **%s chips**",
		FormatChips(-netDelta), FormatChips(newBalance))
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
