package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRentalStatusClassification(t *testing.T) {
	tests := []struct {
		status   RentalStatus
		pollable bool
		terminal bool
		retires  bool
	}{
		{status: RentalStatusPending, pollable: true},
		{status: RentalStatusReady, pollable: true},
		{status: RentalStatusReceived, terminal: true},
		{status: RentalStatusClose, terminal: true, retires: true},
		{status: RentalStatusReject, terminal: true, retires: true},
		{status: RentalStatusUsed, terminal: true},
		{status: RentalStatusError},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.pollable, tt.status.IsPollable())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.Equal(t, tt.retires, tt.status.Retires())
		})
	}
}

func TestRentalStatusTransitions(t *testing.T) {
	assert.True(t, RentalStatusPending.CanTransitionTo(RentalStatusReceived))
	assert.True(t, RentalStatusReady.CanTransitionTo(RentalStatusReceived))
	assert.True(t, RentalStatusReceived.CanTransitionTo(RentalStatusClose))
	assert.True(t, RentalStatusError.CanTransitionTo(RentalStatusReject))
	assert.False(t, RentalStatusReady.CanTransitionTo(RentalStatusPending))
	assert.False(t, RentalStatusClose.CanTransitionTo(RentalStatusReady))
	assert.False(t, RentalStatusReceived.CanTransitionTo(RentalStatusReady))
}

func TestParseRemoteStatus(t *testing.T) {
	status, err := ParseRemoteStatus("close")
	require.NoError(t, err)
	assert.Equal(t, RentalStatusClose, status)

	_, err = ParseRemoteStatus("received")
	require.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ParseRentalStatus("bogus")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCatalogFallsBackToNumericID(t *testing.T) {
	catalog := Catalog{
		Countries:    map[CountryID]Country{1: {ID: 1, Title: "Russia", Code: "RU"}},
		Applications: map[ApplicationID]Application{3: {ID: 3, Title: ""}},
	}

	assert.Equal(t, "Russia", catalog.CountryName(1))
	assert.Equal(t, "42", catalog.CountryName(42))
	assert.Equal(t, "3", catalog.ApplicationName(3))
	assert.Equal(t, "7", Catalog{}.ApplicationName(7))
	assert.True(t, Catalog{}.IsEmpty())
}

func TestPrependHistoryCapsAtLimit(t *testing.T) {
	var records []HistoryRecord
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < HistoryLimit+1; i++ {
		records = PrependHistory(records, NewHistoryRecord(Rental{RequestID: RequestID(i)}, base.Add(time.Duration(i)*time.Second)))
	}

	require.Len(t, records, HistoryLimit)
	assert.Equal(t, RequestID(HistoryLimit), records[0].RequestID)
	assert.Equal(t, RequestID(1), records[len(records)-1].RequestID)
}

func TestPrependHistoryDoesNotAliasInput(t *testing.T) {
	original := []HistoryRecord{{Rental: Rental{RequestID: 1}}}
	next := PrependHistory(original, HistoryRecord{Rental: Rental{RequestID: 2}})
	next[1].SMSCode = "mutated"

	assert.Empty(t, original[0].SMSCode)
}

func TestPhoneFormatting(t *testing.T) {
	assert.Equal(t, "+447911123456", E164("447911123456"))
	assert.Equal(t, "GB", NumberRegion("447911123456"))
	assert.Contains(t, FormatNumber("447911123456"), "+44")

	assert.Equal(t, "not-a-number", FormatNumber("not-a-number"))
	assert.Empty(t, NumberRegion(""))
}

func TestAccountValidate(t *testing.T) {
	require.NoError(t, Account{ID: "a", Label: "Main"}.Validate())
	require.Error(t, Account{Label: "Main"}.Validate())
	require.Error(t, Account{ID: "a", Label: "  "}.Validate())
	assert.Equal(t, "smsman/accounts/a/token", TokenRefFor("a"))
}

func TestRemoteErrorUnwrapping(t *testing.T) {
	var err error = &RemoteError{Op: "acquire number", Code: "no_numbers", Message: "No numbers"}
	remote, ok := AsRemoteError(err)
	require.True(t, ok)
	assert.Equal(t, "no_numbers", remote.Code)
	assert.EqualError(t, err, "acquire number: No numbers")

	transport := &TransportError{Op: "fetch balance", StatusCode: 502}
	assert.True(t, IsTransportError(transport))
	assert.EqualError(t, transport, "fetch balance: HTTP 502")
}
