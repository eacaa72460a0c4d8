package indicators

const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
)

// MACDResult is the latest MACD reading. Signal and Histogram are nil when
// the history covers the MACD line but not its signal EMA.
type MACDResult struct {
	MACD      float64
	Signal    *float64
	Histogram *float64
}

// MACD computes EMA(12) - EMA(26) of closes at the latest point, plus the
// EMA(9) signal line of the MACD series when enough history exists.
func MACD(closes []float64) *MACDResult {
	line := macdLine(closes)
	if len(line) == 0 {
		return nil
	}

	res := &MACDResult{MACD: line[len(line)-1]}
	if signal := EMA(line, macdSignal); signal != nil {
		hist := res.MACD - *signal
		res.Signal = signal
		res.Histogram = &hist
	}
	return res
}

// macdLine returns the MACD series aligned to closes[macdSlow-1:].
func macdLine(closes []float64) []float64 {
	slow := EMASeries(closes, macdSlow)
	if len(slow) == 0 {
		return nil
	}
	fast := EMASeries(closes, macdFast)
	// fast starts at closes[11], slow at closes[25]
	offset := macdSlow - macdFast

	line := make([]float64, len(slow))
	for i := range slow {
		line[i] = fast[i+offset] - slow[i]
	}
	return line
}
