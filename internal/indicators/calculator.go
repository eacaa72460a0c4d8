// Package indicators derives technical indicators from a daily price history.
package indicators

import "github.com/dyike/SageDesk/models"

const (
	RSIPeriod        = 14
	ShortSMAPeriod   = 50
	LongSMAPeriod    = 200
	VolatilityWindow = 30
	VolumeWindow     = 30
)

// Compute runs every indicator over series. Indicators the history is too
// short for are left nil.
func Compute(series models.PriceSeries) models.IndicatorSet {
	closes := series.Closes()
	volumes := series.Volumes()

	set := models.IndicatorSet{
		DailyChangePct: DailyChangePct(closes),
		RSI:            RSI(closes, RSIPeriod),
		SMA50:          SMA(closes, ShortSMAPeriod),
		SMA200:         SMA(closes, LongSMAPeriod),
		Volatility:     Volatility(closes, VolatilityWindow),
		AvgVolume:      AvgVolume(volumes, VolumeWindow),
		Points:         len(closes),
	}
	if len(closes) > 0 {
		set.LastClose = models.Float(closes[len(closes)-1])
	}
	if macd := MACD(closes); macd != nil {
		set.MACD = models.Float(macd.MACD)
		set.MACDSignal = macd.Signal
		set.MACDHistogram = macd.Histogram
	}
	return set
}

// Missing lists the indicators Compute could not produce.
func Missing(set models.IndicatorSet) []string {
	var missing []string
	check := func(name string, v *float64) {
		if v == nil {
			missing = append(missing, name)
		}
	}
	check("RSI", set.RSI)
	check("MACD", set.MACD)
	check("SMA50", set.SMA50)
	check("SMA200", set.SMA200)
	check("Volatility", set.Volatility)
	check("AvgVolume", set.AvgVolume)
	return missing
}
