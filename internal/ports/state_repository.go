package ports

import (
	"context"

	"github.com/bnema/smsman-cli/internal/domain"
)

// StateRepository loads and saves the persisted subset of the client state.
type StateRepository interface {
	Load(ctx context.Context) (domain.PersistedState, error)
	Save(ctx context.Context, state domain.PersistedState) error
}
