package indicators

// SMA returns the arithmetic mean of the last period values, or nil when
// fewer than period values exist.
func SMA(values []float64, period int) *float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	avg := mean(values[len(values)-period:])
	return &avg
}

// EMASeries returns the exponential moving average aligned so that the
// first element corresponds to values[period-1]. The average is seeded with
// the simple mean of the first period values and smoothed with
// alpha = 2/(period+1).
func EMASeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	multiplier := 2.0 / (float64(period) + 1.0)
	out := make([]float64, 0, len(values)-period+1)

	ema := mean(values[:period])
	out = append(out, ema)
	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
		out = append(out, ema)
	}
	return out
}

// EMA returns the latest exponential moving average value.
func EMA(values []float64, period int) *float64 {
	series := EMASeries(values, period)
	if len(series) == 0 {
		return nil
	}
	v := series[len(series)-1]
	return &v
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
