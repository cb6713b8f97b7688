package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

type Balance struct {
	Balance        decimal.Decimal
	Hold           decimal.Decimal
	Channels       int
	ActiveChannels int
	Rating         string
}

type PriceShape string

const (
	PriceShapeEmpty         PriceShape = "empty"
	PriceShapeByApplication PriceShape = "by_application"
	PriceShapeNested        PriceShape = "nested"
)

type PriceRow struct {
	CountryID       CountryID
	ApplicationID   ApplicationID
	CountryName     string
	ApplicationName string
	Cost            decimal.Decimal
	Count           int
}

type PriceTable struct {
	Shape PriceShape
	Rows  []PriceRow
}

type LimitRow struct {
	CountryID       CountryID
	ApplicationID   ApplicationID
	CountryName     string
	ApplicationName string
	Numbers         int
}

// SortLimitsByAvailability orders rows by available numbers, most first.
func SortLimitsByAvailability(rows []LimitRow) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Numbers > rows[j].Numbers })
}

func SortPrices(rows []PriceRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CountryID != rows[j].CountryID {
			return rows[i].CountryID < rows[j].CountryID
		}
		return rows[i].ApplicationID < rows[j].ApplicationID
	})
}

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyRUB Currency = "RUB"
)

func (c Currency) Valid() bool {
	return c == CurrencyUSD || c == CurrencyEUR || c == CurrencyRUB
}

type NumberRequest struct {
	CountryID     CountryID
	ApplicationID ApplicationID
	MaxPrice      decimal.NullDecimal
	Currency      Currency
	MultipleSMS   bool
}

type AcquiredNumber struct {
	RequestID     RequestID
	Number        string
	CountryID     CountryID
	ApplicationID ApplicationID
}
