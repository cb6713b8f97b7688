package application

import (
	"testing"
	"time"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/bnema/smsman-cli/internal/ports/mocks"
	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type staticCatalogs map[domain.AccountID]domain.Catalog

func (s staticCatalogs) Catalog(accountID domain.AccountID) domain.Catalog {
	return s[accountID]
}

func mockAnyContext() interface{} {
	return mock.Anything
}

// newTestStore returns a store whose repository accepts every save.
func newTestStore(t *testing.T, initial domain.State) *Store {
	t.Helper()

	repo := mocks.NewMockStateRepository(t)
	repo.EXPECT().Save(mockAnyContext(), mock.Anything).Return(nil).Maybe()
	return NewStore(initial, repo)
}

func testAccount(id domain.AccountID) domain.Account {
	return domain.Account{
		ID:        id,
		Label:     "label-" + string(id),
		Token:     "tok-" + string(id),
		TokenRef:  domain.TokenRefFor(id),
		CreatedAt: testNow,
	}
}

func pendingRental(id domain.RequestID, accountID domain.AccountID) domain.Rental {
	return domain.Rental{
		RequestID:     id,
		Number:        "+1234567890",
		CountryID:     1,
		ApplicationID: 3,
		CountryName:   "Russia",
		ServiceName:   "Telegram",
		Status:        domain.RentalStatusPending,
		CreatedAt:     testNow,
		AccountID:     accountID,
	}
}

func stateWith(accounts []domain.Account, rentals ...domain.Rental) domain.State {
	state := domain.State{}
	for _, account := range accounts {
		state, _ = state.WithAccount(account)
	}
	for _, rental := range rentals {
		state = state.WithRental(rental)
	}
	return state
}
