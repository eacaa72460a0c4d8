package indicators

import "math"

// TradingDaysPerYear annualizes daily volatility.
const TradingDaysPerYear = 252

// Volatility is the sample standard deviation of the last window daily
// percentage returns, annualized by sqrt(252) and expressed as a fraction.
// It needs window+1 closes.
func Volatility(closes []float64, window int) *float64 {
	if window < 2 || len(closes) < window+1 {
		return nil
	}

	tail := closes[len(closes)-window-1:]
	returns := make([]float64, 0, window)
	for i := 1; i < len(tail); i++ {
		if tail[i-1] == 0 {
			return nil
		}
		returns = append(returns, (tail[i]-tail[i-1])/tail[i-1])
	}

	avg := mean(returns)
	variance := 0.0
	for _, r := range returns {
		variance += (r - avg) * (r - avg)
	}
	variance /= float64(len(returns) - 1)

	vol := math.Sqrt(variance) * math.Sqrt(TradingDaysPerYear)
	return &vol
}

// AvgVolume is the mean traded volume over the last window bars.
func AvgVolume(volumes []float64, window int) *float64 {
	return SMA(volumes, window)
}

// DailyChangePct is the percentage move of the last close against the one
// before it.
func DailyChangePct(closes []float64) *float64 {
	if len(closes) < 2 {
		return nil
	}
	prev := closes[len(closes)-2]
	if prev == 0 {
		return nil
	}
	change := (closes[len(closes)-1] - prev) / prev * 100
	return &change
}
