package ports

import (
	"context"

	"github.com/bnema/smsman-cli/internal/domain"
)

// Gateway is the stateless translation layer to the SMS-man control API.
// Every call issues one fresh request with the given token.
type Gateway interface {
	GetBalance(ctx context.Context, token string) (domain.Balance, error)
	GetCountries(ctx context.Context, token string) (map[domain.CountryID]domain.Country, error)
	GetApplications(ctx context.Context, token string) (map[domain.ApplicationID]domain.Application, error)
	GetPrices(ctx context.Context, token string, countryID domain.CountryID) (domain.PriceTable, error)
	GetLimits(ctx context.Context, token string, countryID domain.CountryID, applicationID domain.ApplicationID) ([]domain.LimitRow, error)
	AcquireNumber(ctx context.Context, token string, req domain.NumberRequest) (domain.AcquiredNumber, error)
	GetSMS(ctx context.Context, token string, requestID domain.RequestID) (string, error)
	SetStatus(ctx context.Context, token string, requestID domain.RequestID, status domain.RentalStatus) error
}
