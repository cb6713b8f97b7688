package application

import (
	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/shopspring/decimal"
)

type AddAccountCommand struct {
	ID    domain.AccountID
	Label string
	Token string
}

type UpdateAccountCommand struct {
	ID    domain.AccountID
	Label *string
	Token *string
}

type AcquireCommand struct {
	CountryID     domain.CountryID
	ApplicationID domain.ApplicationID
	MaxPrice      decimal.NullDecimal
	Currency      domain.Currency
	MultipleSMS   bool
}

func (c AcquireCommand) request() domain.NumberRequest {
	currency := c.Currency
	if currency == "" {
		currency = domain.CurrencyUSD
	}

	return domain.NumberRequest{
		CountryID:     c.CountryID,
		ApplicationID: c.ApplicationID,
		MaxPrice:      c.MaxPrice,
		Currency:      currency,
		MultipleSMS:   c.MultipleSMS,
	}
}
