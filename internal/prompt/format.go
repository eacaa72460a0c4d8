package prompt

import (
	"fmt"
	"math"
	"strings"

	"github.com/dyike/SageDesk/models"
)

const na = "N/A"

func number(v *float64) string {
	if v == nil {
		return na
	}
	return fmt.Sprintf("%.2f", *v)
}

func price(v *float64) string {
	if v == nil {
		return na
	}
	return fmt.Sprintf("$%.2f", *v)
}

func percent(v *float64) string {
	if v == nil {
		return na
	}
	return fmt.Sprintf("%.2f%%", *v)
}

func signedPercent(v *float64) string {
	if v == nil {
		return na
	}
	return fmt.Sprintf("%+.2f%%", *v)
}

func volume(v *float64) string {
	if v == nil {
		return na
	}
	return fmt.Sprintf("%.0f", math.Round(*v))
}

// volatility renders the annualized fraction as a percentage.
func volatility(v *float64) string {
	if v == nil {
		return na
	}
	if *v == 0 {
		return "0.00% (no volatility)"
	}
	return fmt.Sprintf("%.2f%%", *v*100)
}

func marketCap(v *float64) string {
	if v == nil {
		return na
	}
	return "$" + scaled(*v)
}

func count(v *float64) string {
	if v == nil {
		return na
	}
	return scaled(*v)
}

// scaled abbreviates large amounts with T/B/M suffixes.
func scaled(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// FormatRatio renders one fundamentals entry the way the prompts show it.
func FormatRatio(key string, v *float64) string {
	switch {
	case models.MoneyRatios[key]:
		return marketCap(v)
	case key == models.RatioSharesOutstanding:
		return count(v)
	case key == models.RatioEPS:
		return price(v)
	case models.PercentRatios[key]:
		return percent(v)
	default:
		return number(v)
	}
}

// FormatIndicator renders the named indicator of set.
func FormatIndicator(name string, set models.IndicatorSet) string {
	switch name {
	case "Last Close":
		return price(set.LastClose)
	case "Daily Change":
		return signedPercent(set.DailyChangePct)
	case "RSI (14)":
		return number(set.RSI)
	case "MACD":
		return number(set.MACD)
	case "MACD Signal":
		return number(set.MACDSignal)
	case "MACD Histogram":
		return number(set.MACDHistogram)
	case "SMA 50":
		return price(set.SMA50)
	case "SMA 200":
		return price(set.SMA200)
	case "Volatility (30d, annualized)":
		return volatility(set.Volatility)
	case "Avg Volume (30d)":
		return volume(set.AvgVolume)
	}
	return na
}

// IndicatorNames is the display order of FormatIndicator names.
var IndicatorNames = []string{
	"Last Close",
	"Daily Change",
	"RSI (14)",
	"MACD",
	"MACD Signal",
	"MACD Histogram",
	"SMA 50",
	"SMA 200",
	"Volatility (30d, annualized)",
	"Avg Volume (30d)",
}

func fundamentalsBlock(f models.Fundamentals) string {
	var b strings.Builder
	for _, key := range models.FundamentalKeys {
		fmt.Fprintf(&b, "- %s: %s\n", key, FormatRatio(key, f.Ratios[key]))
	}
	return strings.TrimRight(b.String(), "\n")
}

func technicalsBlock(set models.IndicatorSet) string {
	var b strings.Builder
	for _, name := range IndicatorNames {
		fmt.Fprintf(&b, "- %s: %s\n", name, FormatIndicator(name, set))
	}
	fmt.Fprintf(&b, "- Trend: %s", trend(set))
	return b.String()
}

// trend compares the last close with both moving averages.
func trend(set models.IndicatorSet) string {
	if set.LastClose == nil || set.SMA50 == nil || set.SMA200 == nil {
		return na
	}
	c, s50, s200 := *set.LastClose, *set.SMA50, *set.SMA200
	switch {
	case c > s50 && s50 > s200:
		return "price above SMA 50 above SMA 200 (uptrend)"
	case c < s50 && s50 < s200:
		return "price below SMA 50 below SMA 200 (downtrend)"
	case c == s50 && s50 == s200:
		return "price flat at both moving averages"
	default:
		return "mixed"
	}
}

func newsBlock(d models.NewsDigest) string {
	if d.Empty() {
		return "No recent news."
	}
	var b strings.Builder
	for i, h := range d.Headlines {
		fmt.Fprintf(&b, "%d. %s", i+1, h.Title)
		if h.Source != "" {
			fmt.Fprintf(&b, " (%s)", h.Source)
		}
		if s := strings.TrimSpace(h.Summary); s != "" && s != h.Title {
			fmt.Fprintf(&b, ": %s", s)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
