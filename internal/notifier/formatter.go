package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/pipeline"
)

const timeLayout = "2006-01-02 15:04 MST"

func typeIcon(t model.SignalType) string {
	switch t {
	case model.SignalBuy:
		return "🟢"
	case model.SignalSell:
		return "🔴"
	}
	return "⚪"
}

// FormatSignalReport formats a ranked signal list into a Telegram message.
func FormatSignalReport(signals []model.Signal, status pipeline.ProviderStatus, at time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📡 <b>SignalSentinel</b> | %s\n", at.Format(timeLayout)))
	switch {
	case !status.RateLimitedUntil.IsZero():
		b.WriteString(fmt.Sprintf("⏳ rate limited until %s, some assets used the simple rule\n", status.RateLimitedUntil.Format("15:04:05")))
	case !status.Available:
		b.WriteString(fmt.Sprintf("⚠️ market data unavailable (%s), signals are fallbacks\n", html.EscapeString(status.Reason)))
	}
	b.WriteString("\n")

	if len(signals) == 0 {
		b.WriteString("No signals this run.\n")
		return b.String()
	}

	for i, s := range signals {
		b.WriteString(fmt.Sprintf("%d. %s <b>%s</b> %s · %d%%\n",
			i+1, typeIcon(s.Type), html.EscapeString(s.Pair), s.Type, s.Confidence))
		b.WriteString(fmt.Sprintf("   entry %s → target %s | stop %s\n",
			model.FormatPrice(s.EntryPrice), model.FormatPrice(s.TargetPrice), model.FormatPrice(s.StopLoss)))
		b.WriteString(fmt.Sprintf("   gain %s%% · R/R %s · 24h %s%%\n",
			model.FormatPercent(s.PotentialGainPct), s.RiskReward, model.FormatPercent(s.PriceChange24hPct)))
		b.WriteString(fmt.Sprintf("   RSI %d · MACD %s · trend %s", s.Indicators.RSI, s.Indicators.MACD, s.Indicators.TrendStrength))
		if s.Indicators.PatternDetected != "" && s.Indicators.PatternDetected != string(model.PatternNone) {
			b.WriteString(" · " + s.Indicators.PatternDetected)
		}
		b.WriteString(fmt.Sprintf(" · <i>%s</i>\n", s.Source))
	}
	b.WriteString("\n<i>Heuristic signals, not financial advice.</i>")
	return b.String()
}

// FormatSignalDetail formats one signal including its support and resistance ladder.
func FormatSignalDetail(s model.Signal) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>%s</b> (%s) %s · %d%%\n\n",
		typeIcon(s.Type), html.EscapeString(s.Pair), html.EscapeString(s.Name), s.Type, s.Confidence))
	b.WriteString(fmt.Sprintf("Entry: %s\nTarget: %s\nStop: %s\n",
		model.FormatPrice(s.EntryPrice), model.FormatPrice(s.TargetPrice), model.FormatPrice(s.StopLoss)))
	b.WriteString("Resistance: " + joinPrices(s.Resistance) + "\n")
	b.WriteString("Support: " + joinPrices(s.Support) + "\n")
	return b.String()
}

func joinPrices(levels [3]float64) string {
	parts := make([]string, len(levels))
	for i, v := range levels {
		parts[i] = model.FormatPrice(v)
	}
	return strings.Join(parts, " / ")
}

// FormatStatus formats the last run's state for the /status command.
func FormatStatus(lastRun time.Time, signals int, status pipeline.ProviderStatus, lastErr error) string {
	var b strings.Builder
	b.WriteString("📦 <b>SignalSentinel status</b>\n\n")
	if lastRun.IsZero() {
		b.WriteString("Last run: never\n")
	} else {
		b.WriteString(fmt.Sprintf("Last run: %s\n", lastRun.Format(timeLayout)))
	}
	b.WriteString(fmt.Sprintf("Signals: %d\n", signals))
	switch {
	case !status.RateLimitedUntil.IsZero():
		b.WriteString(fmt.Sprintf("Provider: rate limited until %s\n", status.RateLimitedUntil.Format(timeLayout)))
	case !status.Available:
		b.WriteString(fmt.Sprintf("Provider: unavailable (%s)\n", html.EscapeString(status.Reason)))
	default:
		b.WriteString("Provider: available\n")
	}
	if lastErr != nil {
		b.WriteString(fmt.Sprintf("Last error: %s\n", html.EscapeString(lastErr.Error())))
	}
	return b.String()
}
