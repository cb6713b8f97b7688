package metrics

import (
	"context"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/bnema/smsman-cli/internal/ports"
)

type instrumentedGateway struct {
	next    ports.Gateway
	metrics *Metrics
}

var _ ports.Gateway = (*instrumentedGateway)(nil)

// InstrumentGateway counts and times every call made through next.
func InstrumentGateway(next ports.Gateway, m *Metrics) ports.Gateway {
	if m == nil {
		return next
	}
	return &instrumentedGateway{next: next, metrics: m}
}

func (g *instrumentedGateway) observe(op string, err error) {
	g.metrics.ObserveGateway(op, err)
}

func (g *instrumentedGateway) GetBalance(ctx context.Context, token string) (domain.Balance, error) {
	timer := g.metrics.timer("get-balance")
	defer timer.ObserveDuration()

	balance, err := g.next.GetBalance(ctx, token)
	g.observe("get-balance", err)
	return balance, err
}

func (g *instrumentedGateway) GetCountries(ctx context.Context, token string) (map[domain.CountryID]domain.Country, error) {
	timer := g.metrics.timer("countries")
	defer timer.ObserveDuration()

	countries, err := g.next.GetCountries(ctx, token)
	g.observe("countries", err)
	return countries, err
}

func (g *instrumentedGateway) GetApplications(ctx context.Context, token string) (map[domain.ApplicationID]domain.Application, error) {
	timer := g.metrics.timer("applications")
	defer timer.ObserveDuration()

	apps, err := g.next.GetApplications(ctx, token)
	g.observe("applications", err)
	return apps, err
}

func (g *instrumentedGateway) GetPrices(ctx context.Context, token string, countryID domain.CountryID) (domain.PriceTable, error) {
	timer := g.metrics.timer("get-prices")
	defer timer.ObserveDuration()

	table, err := g.next.GetPrices(ctx, token, countryID)
	g.observe("get-prices", err)
	return table, err
}

func (g *instrumentedGateway) GetLimits(ctx context.Context, token string, countryID domain.CountryID, applicationID domain.ApplicationID) ([]domain.LimitRow, error) {
	timer := g.metrics.timer("limits")
	defer timer.ObserveDuration()

	rows, err := g.next.GetLimits(ctx, token, countryID, applicationID)
	g.observe("limits", err)
	return rows, err
}

func (g *instrumentedGateway) AcquireNumber(ctx context.Context, token string, req domain.NumberRequest) (domain.AcquiredNumber, error) {
	timer := g.metrics.timer("get-number")
	defer timer.ObserveDuration()

	acquired, err := g.next.AcquireNumber(ctx, token, req)
	g.observe("get-number", err)
	return acquired, err
}

func (g *instrumentedGateway) GetSMS(ctx context.Context, token string, requestID domain.RequestID) (string, error) {
	timer := g.metrics.timer("get-sms")
	defer timer.ObserveDuration()

	code, err := g.next.GetSMS(ctx, token, requestID)
	g.observe("get-sms", err)
	return code, err
}

func (g *instrumentedGateway) SetStatus(ctx context.Context, token string, requestID domain.RequestID, status domain.RentalStatus) error {
	timer := g.metrics.timer("set-status")
	defer timer.ObserveDuration()

	err := g.next.SetStatus(ctx, token, requestID, status)
	g.observe("set-status", err)
	return err
}
