package cli

import (
	"github.com/AlecAivazis/survey/v2"

	"github.com/dyike/SageDesk/internal/dataflows"
)

// PromptForTicker asks for a ticker symbol on the terminal.
func PromptForTicker() (string, error) {
	var ticker string
	prompt := &survey.Input{
		Message: "Enter the stock ticker symbol (e.g., AAPL, MSFT, GOOGL):",
		Help:    "Letters, digits, dots and hyphens; at most 10 characters",
	}

	err := survey.AskOne(prompt, &ticker, survey.WithValidator(func(val interface{}) error {
		str, _ := val.(string)
		return dataflows.ValidateSymbol(str)
	}))
	if err != nil {
		return "", err
	}

	return dataflows.NormalizeSymbol(ticker), nil
}
