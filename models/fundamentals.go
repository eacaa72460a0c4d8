package models

import "time"

// Ratio names used in Fundamentals.Ratios.
const (
	// Valuation
	RatioMarketCap       = "Market Cap"
	RatioEnterpriseValue = "Enterprise Value"
	RatioTrailingPE      = "Trailing P/E"
	RatioForwardPE       = "Forward P/E"
	RatioPEG             = "PEG Ratio"
	RatioPriceToBook     = "Price/Book"

	// Profitability
	RatioTotalRevenue    = "Total Revenue"
	RatioGrossProfit     = "Gross Profit"
	RatioGrossMargin     = "Gross Margin"
	RatioOperatingIncome = "Operating Income"
	RatioOperatingMargin = "Operating Margin"
	RatioNetIncome       = "Net Income"
	RatioNetMargin       = "Net Margin"
	RatioEPS             = "EPS (TTM)"

	// Liquidity and debt
	RatioCurrentRatio = "Current Ratio"
	RatioQuickRatio   = "Quick Ratio"
	RatioTotalDebt    = "Total Debt"
	RatioDebtToEquity = "Debt/Equity"
	RatioTotalCash    = "Cash & Equivalents"

	// Returns
	RatioROA = "Return on Assets"
	RatioROE = "Return on Equity"
	RatioROI = "Return on Investment"

	// Shares and dividends
	RatioSharesOutstanding = "Shares Outstanding"
	RatioDividendYield     = "Dividend Yield"
)

// FundamentalKeys is the display order of the ratios.
var FundamentalKeys = []string{
	RatioMarketCap,
	RatioEnterpriseValue,
	RatioTrailingPE,
	RatioForwardPE,
	RatioPEG,
	RatioPriceToBook,

	RatioTotalRevenue,
	RatioGrossProfit,
	RatioGrossMargin,
	RatioOperatingIncome,
	RatioOperatingMargin,
	RatioNetIncome,
	RatioNetMargin,
	RatioEPS,

	RatioCurrentRatio,
	RatioQuickRatio,
	RatioTotalDebt,
	RatioDebtToEquity,
	RatioTotalCash,

	RatioROA,
	RatioROE,
	RatioROI,

	RatioSharesOutstanding,
	RatioDividendYield,
}

// PercentRatios are stored in percent (12.5 means 12.5%).
var PercentRatios = map[string]bool{
	RatioGrossMargin:     true,
	RatioOperatingMargin: true,
	RatioNetMargin:       true,
	RatioROA:             true,
	RatioROE:             true,
	RatioROI:             true,
	RatioDividendYield:   true,
}

// MoneyRatios are absolute dollar amounts.
var MoneyRatios = map[string]bool{
	RatioMarketCap:       true,
	RatioEnterpriseValue: true,
	RatioTotalRevenue:    true,
	RatioGrossProfit:     true,
	RatioOperatingIncome: true,
	RatioNetIncome:       true,
	RatioTotalDebt:       true,
	RatioTotalCash:       true,
}

// Fundamentals is a point-in-time snapshot of valuation and profitability
// ratios. Every ratio is nullable.
type Fundamentals struct {
	Symbol    string              `json:"symbol"`
	FetchedAt time.Time           `json:"fetched_at"`
	Ratios    map[string]*float64 `json:"ratios"`
	Errors    []string            `json:"errors,omitempty"`
}

func NewFundamentals(symbol string) Fundamentals {
	return Fundamentals{
		Symbol: symbol,
		Ratios: make(map[string]*float64, len(FundamentalKeys)),
	}
}

// Get returns the ratio value and whether it is available.
func (f Fundamentals) Get(key string) (float64, bool) {
	v, ok := f.Ratios[key]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

// SetIfMissing stores v under key unless the key already holds a value.
func (f *Fundamentals) SetIfMissing(key string, v *float64) {
	if v == nil {
		return
	}
	if f.Ratios == nil {
		f.Ratios = make(map[string]*float64)
	}
	if cur, ok := f.Ratios[key]; ok && cur != nil {
		return
	}
	f.Ratios[key] = v
}

// Available counts the ratios that hold a value.
func (f Fundamentals) Available() int {
	n := 0
	for _, v := range f.Ratios {
		if v != nil {
			n++
		}
	}
	return n
}
