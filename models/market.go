package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one daily bar of a price history.
type PricePoint struct {
	Date   time.Time       `json:"date"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// PriceSeries is a chronological daily history for one symbol.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

func (s PriceSeries) Len() int { return len(s.Points) }

// Closes returns the closing prices as floats, oldest first.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close.InexactFloat64()
	}
	return out
}

// Volumes returns the traded volumes as floats, oldest first.
func (s PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = float64(p.Volume)
	}
	return out
}

// IndicatorSet holds the technical indicators derived from a PriceSeries.
// A nil field means the history was too short to compute it.
type IndicatorSet struct {
	LastClose      *float64 `json:"last_close"`
	DailyChangePct *float64 `json:"daily_change_pct"`
	RSI            *float64 `json:"rsi_14"`
	MACD           *float64 `json:"macd"`
	MACDSignal     *float64 `json:"macd_signal"`
	MACDHistogram  *float64 `json:"macd_histogram"`
	SMA50          *float64 `json:"sma_50"`
	SMA200         *float64 `json:"sma_200"`
	// Volatility is the annualized standard deviation of daily returns, as a fraction.
	Volatility *float64 `json:"volatility"`
	AvgVolume  *float64 `json:"avg_volume"`
	Points     int      `json:"points"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
