package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/bnema/smsman-cli/internal/ports"
	"go.uber.org/zap"
)

// Explorer answers read-only market queries with the active account's token
// and keeps the last fetched catalog per account for name resolution.
type Explorer struct {
	store   *Store
	gateway ports.Gateway
	logger  *zap.Logger

	mu       sync.RWMutex
	catalogs map[domain.AccountID]domain.Catalog
}

func NewExplorer(store *Store, gateway ports.Gateway, logger *zap.Logger) *Explorer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Explorer{
		store:    store,
		gateway:  gateway,
		logger:   logger,
		catalogs: map[domain.AccountID]domain.Catalog{},
	}
}

func (x *Explorer) Catalog(accountID domain.AccountID) domain.Catalog {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return x.catalogs[accountID]
}

func (x *Explorer) activeAccount() (domain.Account, error) {
	account, ok := x.store.Snapshot().ActiveAccount()
	if !ok {
		return domain.Account{}, domain.ErrNoActiveAccount
	}
	if !account.HasToken() {
		return domain.Account{}, fmt.Errorf("account %s: %w", account.ID, domain.ErrMissingToken)
	}
	return account, nil
}

func (x *Explorer) Balance(ctx context.Context) (domain.Balance, error) {
	account, err := x.activeAccount()
	if err != nil {
		return domain.Balance{}, fmt.Errorf("fetch balance: %w", err)
	}

	balance, err := x.gateway.GetBalance(ctx, account.Token)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("fetch balance: %w", err)
	}
	return balance, nil
}

// LoadCatalog fetches countries and applications for the active account and caches them.
func (x *Explorer) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	account, err := x.activeAccount()
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}

	countries, err := x.gateway.GetCountries(ctx, account.Token)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	applications, err := x.gateway.GetApplications(ctx, account.Token)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}

	catalog := domain.Catalog{Countries: countries, Applications: applications}

	x.mu.Lock()
	x.catalogs[account.ID] = catalog
	x.mu.Unlock()

	x.logger.Debug("catalog loaded",
		zap.String("account_id", string(account.ID)),
		zap.Int("countries", len(countries)),
		zap.Int("applications", len(applications)),
	)
	return catalog, nil
}

func (x *Explorer) Countries(ctx context.Context) ([]domain.Country, error) {
	catalog, err := x.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch countries: %w", err)
	}
	return domain.SortedCountries(catalog.Countries), nil
}

func (x *Explorer) Applications(ctx context.Context) ([]domain.Application, error) {
	catalog, err := x.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch applications: %w", err)
	}
	return domain.SortedApplications(catalog.Applications), nil
}

// Prices returns the price table. Rows without a name get one from the cached catalog.
// countryID 0 asks for every country.
func (x *Explorer) Prices(ctx context.Context, countryID domain.CountryID) (domain.PriceTable, error) {
	account, err := x.activeAccount()
	if err != nil {
		return domain.PriceTable{}, fmt.Errorf("fetch prices: %w", err)
	}

	table, err := x.gateway.GetPrices(ctx, account.Token, countryID)
	if err != nil {
		return domain.PriceTable{}, fmt.Errorf("fetch prices: %w", err)
	}

	catalog := x.Catalog(account.ID)
	rows := make([]domain.PriceRow, len(table.Rows))
	for i, row := range table.Rows {
		if row.CountryName == "" {
			row.CountryName = catalog.CountryName(row.CountryID)
		}
		if row.ApplicationName == "" {
			row.ApplicationName = catalog.ApplicationName(row.ApplicationID)
		}
		rows[i] = row
	}
	domain.SortPrices(rows)
	table.Rows = rows

	return table, nil
}

// Limits returns availability rows, most available first.
func (x *Explorer) Limits(ctx context.Context, countryID domain.CountryID, applicationID domain.ApplicationID) ([]domain.LimitRow, error) {
	account, err := x.activeAccount()
	if err != nil {
		return nil, fmt.Errorf("fetch limits: %w", err)
	}

	rows, err := x.gateway.GetLimits(ctx, account.Token, countryID, applicationID)
	if err != nil {
		return nil, fmt.Errorf("fetch limits: %w", err)
	}

	catalog := x.Catalog(account.ID)
	named := make([]domain.LimitRow, len(rows))
	for i, row := range rows {
		if row.CountryName == "" {
			row.CountryName = catalog.CountryName(row.CountryID)
		}
		if row.ApplicationName == "" {
			row.ApplicationName = catalog.ApplicationName(row.ApplicationID)
		}
		named[i] = row
	}
	domain.SortLimitsByAvailability(named)

	return named, nil
}

// SetRemoteStatus changes the status of a rental this process does not track,
// typically one acquired by another session.
func (x *Explorer) SetRemoteStatus(ctx context.Context, id domain.RequestID, status domain.RentalStatus) error {
	if !status.IsRemoteSettable() {
		return fmt.Errorf("set status: %w: %q", domain.ErrInvalidStatus, status)
	}

	account, err := x.activeAccount()
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}

	if err := x.gateway.SetStatus(ctx, account.Token, id, status); err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return nil
}
