package dataflows

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dyike/SageDesk/models"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-^=]+$`)

// ValidateSymbol checks that symbol looks like a ticker.
func ValidateSymbol(symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if len(symbol) == 0 {
		return fmt.Errorf("%w: symbol cannot be empty", models.ErrInvalidSymbol)
	}
	if len(symbol) > 10 {
		return fmt.Errorf("%w: symbol too long: %s", models.ErrInvalidSymbol, symbol)
	}
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("%w: unexpected characters in %q", models.ErrInvalidSymbol, symbol)
	}
	return nil
}

// NormalizeSymbol converts symbol to standard format
func NormalizeSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}

// callWithContext runs a blocking call that takes no context and returns
// early when ctx ends. The call itself keeps running in the background.
func callWithContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-ch:
		return r.val, r.err
	}
}
