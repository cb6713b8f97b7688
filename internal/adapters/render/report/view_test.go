package report

import (
	"strings"
	"testing"
	"time"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestRenderAccounts(t *testing.T) {
	output, err := Render(AccountsReport{
		Accounts: []domain.Account{
			{ID: "acc-1", Label: "Primary", Token: "tok", CreatedAt: testNow.Add(-2 * time.Hour)},
			{ID: "acc-2", Label: "Backup", CreatedAt: testNow.Add(-3 * 24 * time.Hour)},
		},
		ActiveID: "acc-1",
	}, Options{Now: testNow})

	require.NoError(t, err)
	assert.Contains(t, output, "accounts: 2")
	assert.Contains(t, output, "Primary")
	assert.Contains(t, output, "Backup")
	assert.Contains(t, output, "*")
	assert.Contains(t, output, "missing")
	assert.Contains(t, output, "2h ago")
	assert.Contains(t, output, "3d ago")
}

func TestRenderAccountsEmpty(t *testing.T) {
	output, err := Render(AccountsReport{}, Options{})

	require.NoError(t, err)
	assert.Contains(t, output, "accounts: 0")
	assert.Contains(t, output, "smsman account add")
}

func TestRenderBalance(t *testing.T) {
	output, err := Render(BalanceReport{
		Account: domain.Account{ID: "acc-1", Label: "Primary"},
		Balance: domain.Balance{
			Balance:        decimal.RequireFromString("12.5"),
			Hold:           decimal.Zero,
			Channels:       4,
			ActiveChannels: 1,
			Rating:         "9.8",
		},
	}, Options{})

	require.NoError(t, err)
	assert.Contains(t, output, "Primary (acc-1)")
	assert.Contains(t, output, "12.50")
	assert.Contains(t, output, "0.00")
	assert.Contains(t, output, "channels: 1/4 active")
	assert.Contains(t, output, "rating: 9.8")
}

func TestRenderCatalogs(t *testing.T) {
	countries, err := Render(CountriesReport{Countries: []domain.Country{
		{ID: 1, Title: "Russia", Code: "ru"},
		{ID: 187, Title: "United States", Code: "us"},
	}}, Options{})
	require.NoError(t, err)
	assert.Contains(t, countries, "Countries")
	assert.Contains(t, countries, "entries: 2")
	assert.Contains(t, countries, "United States")
	assert.Contains(t, countries, "187")

	apps, err := Render(ApplicationsReport{}, Options{})
	require.NoError(t, err)
	assert.Contains(t, apps, "Services")
	assert.Contains(t, apps, "Nothing available.")
}

func TestRenderPrices(t *testing.T) {
	output, err := Render(PricesReport{Table: domain.PriceTable{
		Shape: domain.PriceShapeByApplication,
		Rows: []domain.PriceRow{
			{CountryID: 1, ApplicationID: 3, CountryName: "Russia", ApplicationName: "Telegram", Cost: decimal.RequireFromString("0.15"), Count: 420},
		},
	}}, Options{})

	require.NoError(t, err)
	assert.Contains(t, output, "rows: 1")
	assert.Contains(t, output, "Telegram")
	assert.Contains(t, output, "0.15")
	assert.Contains(t, output, "420")

	empty, err := Render(PricesReport{Table: domain.PriceTable{Shape: domain.PriceShapeEmpty}}, Options{})
	require.NoError(t, err)
	assert.Contains(t, empty, "No prices available.")
}

func TestRenderLimitsScalesBarsToLargestRow(t *testing.T) {
	output, err := Render(LimitsReport{Rows: []domain.LimitRow{
		{CountryName: "Russia", ApplicationName: "Telegram", Numbers: 100},
		{CountryName: "Russia", ApplicationName: "WhatsApp", Numbers: 0},
	}}, Options{})

	require.NoError(t, err)
	assert.Contains(t, output, "Availability")
	assert.Contains(t, output, "["+strings.Repeat("=", 16)+"]")
	assert.Contains(t, output, "["+strings.Repeat("-", 16)+"]")
}

func TestRenderRentals(t *testing.T) {
	output, err := Render(RentalsReport{Rentals: []domain.Rental{
		{
			RequestID:   123,
			Number:      "447911123456",
			CountryName: "United Kingdom",
			ServiceName: "Telegram",
			Status:      domain.RentalStatusPending,
			CreatedAt:   testNow.Add(-5 * time.Minute),
		},
		{
			RequestID:   124,
			Number:      "447911123457",
			CountryName: "United Kingdom",
			ServiceName: "Telegram",
			SMSCode:     "5678",
			Status:      domain.RentalStatusReceived,
			CreatedAt:   testNow.Add(-30 * time.Second),
		},
	}}, Options{Now: testNow})

	require.NoError(t, err)
	assert.Contains(t, output, "rentals: 2")
	assert.Contains(t, output, "+44")
	assert.Contains(t, output, "pending")
	assert.Contains(t, output, "received")
	assert.Contains(t, output, "5678")
	assert.Contains(t, output, "5m ago")
	assert.Contains(t, output, "just now")
}

func TestRenderHistory(t *testing.T) {
	record := domain.NewHistoryRecord(domain.Rental{
		RequestID:   9,
		Number:      "not-a-number",
		CountryName: "Russia",
		ServiceName: "Telegram",
		Status:      domain.RentalStatusClose,
	}, testNow)

	output, err := Render(HistoryReport{Records: []domain.HistoryRecord{record}, Scope: "Primary"}, Options{})

	require.NoError(t, err)
	assert.Contains(t, output, "records: 1 (Primary)")
	assert.Contains(t, output, "not-a-number")
	assert.Contains(t, output, "close")
	assert.Contains(t, output, "2026-03-14 09:30")
}

func TestFormatAge(t *testing.T) {
	assert.Equal(t, "unknown", FormatAge(time.Time{}, testNow))
	assert.Equal(t, "2026-03-14 09:30", FormatAge(testNow, time.Time{}))
	assert.Equal(t, "just now", FormatAge(testNow.Add(-10*time.Second), testNow))
	assert.Equal(t, "59m ago", FormatAge(testNow.Add(-59*time.Minute), testNow))
	assert.Equal(t, "1d ago", FormatAge(testNow.Add(-25*time.Hour), testNow))
}

func TestStatusColorFallsBackForUnknownStatus(t *testing.T) {
	assert.Equal(t, StatusColor("whatever"), StatusColor(""))
	assert.NotEqual(t, StatusColor("pending"), StatusColor("reject"))
}
