package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/bnema/smsman-cli/internal/ports/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestRegistry(t *testing.T, initial domain.State) (*Registry, *Store, *mocks.MockSecretStore) {
	t.Helper()

	store := newTestStore(t, initial)
	secrets := mocks.NewMockSecretStore(t)
	return NewRegistry(store, secrets, fixedClock{now: testNow}, zaptest.NewLogger(t)), store, secrets
}

func TestRegistryAddFirstAccountBecomesActive(t *testing.T) {
	registry, store, secrets := newTestRegistry(t, domain.State{})

	secrets.EXPECT().Put(mockAnyContext(), "smsman/accounts/acc-1/token", "tok-1").Return(nil)
	secrets.EXPECT().Put(mockAnyContext(), "smsman/accounts/acc-2/token", "tok-2").Return(nil)

	first, err := registry.Add(context.Background(), AddAccountCommand{ID: "acc-1", Label: " main ", Token: "tok-1"})
	require.NoError(t, err)
	_, err = registry.Add(context.Background(), AddAccountCommand{ID: "acc-2", Label: "spare", Token: "tok-2"})
	require.NoError(t, err)

	assert.Equal(t, "main", first.Label)
	assert.Equal(t, testNow, first.CreatedAt)
	assert.Equal(t, "smsman/accounts/acc-1/token", first.TokenRef)

	state := store.Snapshot()
	require.Len(t, state.Accounts, 2)
	assert.Equal(t, domain.AccountID("acc-1"), state.ActiveAccountID)
}

func TestRegistryAddGeneratesUUID(t *testing.T) {
	registry, _, secrets := newTestRegistry(t, domain.State{})
	secrets.EXPECT().Put(mockAnyContext(), mock.Anything, "tok").Return(nil)

	account, err := registry.Add(context.Background(), AddAccountCommand{Label: "main", Token: "tok"})
	require.NoError(t, err)

	_, err = uuid.Parse(string(account.ID))
	assert.NoError(t, err)
	assert.Equal(t, domain.TokenRefFor(account.ID), account.TokenRef)
}

func TestRegistryAddValidation(t *testing.T) {
	registry, _, _ := newTestRegistry(t, stateWith([]domain.Account{testAccount("acc-1")}))

	_, err := registry.Add(context.Background(), AddAccountCommand{ID: "acc-2", Label: "  ", Token: "tok"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account label is required")

	_, err = registry.Add(context.Background(), AddAccountCommand{ID: "acc-2", Label: "spare"})
	assert.ErrorIs(t, err, domain.ErrMissingToken)

	_, err = registry.Add(context.Background(), AddAccountCommand{ID: "acc-1", Label: "again", Token: "tok"})
	assert.ErrorIs(t, err, domain.ErrDuplicateAccount)
}

func TestRegistryAddRollsBackTokenWhenSaveFails(t *testing.T) {
	repo := mocks.NewMockStateRepository(t)
	secrets := mocks.NewMockSecretStore(t)
	store := NewStore(domain.State{}, repo)
	registry := NewRegistry(store, secrets, fixedClock{now: testNow}, nil)

	secrets.EXPECT().Put(mockAnyContext(), "smsman/accounts/acc-1/token", "tok").Return(nil)
	repo.EXPECT().Save(mockAnyContext(), mock.Anything).Return(errors.New("read-only file system"))
	secrets.EXPECT().Delete(mockAnyContext(), "smsman/accounts/acc-1/token").Return(nil)

	_, err := registry.Add(context.Background(), AddAccountCommand{ID: "acc-1", Label: "main", Token: "tok"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only file system")
	assert.Empty(t, store.Snapshot().Accounts)
}

func TestRegistryAddReportsFailedRollback(t *testing.T) {
	repo := mocks.NewMockStateRepository(t)
	secrets := mocks.NewMockSecretStore(t)
	registry := NewRegistry(NewStore(domain.State{}, repo), secrets, fixedClock{now: testNow}, nil)

	secrets.EXPECT().Put(mockAnyContext(), mock.Anything, "tok").Return(nil)
	repo.EXPECT().Save(mockAnyContext(), mock.Anything).Return(errors.New("save failed"))
	secrets.EXPECT().Delete(mockAnyContext(), mock.Anything).Return(errors.New("delete failed"))

	_, err := registry.Add(context.Background(), AddAccountCommand{ID: "acc-1", Label: "main", Token: "tok"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save failed")
	assert.Contains(t, err.Error(), "delete failed")
}

func TestRegistryUpdateUnknownIDIsNoop(t *testing.T) {
	registry, store, _ := newTestRegistry(t, stateWith([]domain.Account{testAccount("acc-1")}))
	before := store.Snapshot()

	label := "renamed"
	err := registry.Update(context.Background(), UpdateAccountCommand{ID: "missing", Label: &label})
	require.NoError(t, err)
	assert.Equal(t, before, store.Snapshot())
}

func TestRegistryUpdateMergesLabelAndToken(t *testing.T) {
	registry, store, secrets := newTestRegistry(t, stateWith([]domain.Account{testAccount("acc-1")}))
	secrets.EXPECT().Put(mockAnyContext(), "smsman/accounts/acc-1/token", "tok-rotated").Return(nil)

	label := "renamed"
	token := "tok-rotated"
	require.NoError(t, registry.Update(context.Background(), UpdateAccountCommand{ID: "acc-1", Label: &label, Token: &token}))

	account, ok := store.Snapshot().Account("acc-1")
	require.True(t, ok)
	assert.Equal(t, "renamed", account.Label)
	assert.Equal(t, "tok-rotated", account.Token)
	assert.Equal(t, testNow, account.CreatedAt)
}

func TestRegistryUpdateLabelOnlyKeepsToken(t *testing.T) {
	registry, store, _ := newTestRegistry(t, stateWith([]domain.Account{testAccount("acc-1")}))

	label := "renamed"
	require.NoError(t, registry.Update(context.Background(), UpdateAccountCommand{ID: "acc-1", Label: &label}))

	account, _ := store.Snapshot().Account("acc-1")
	assert.Equal(t, "tok-acc-1", account.Token)
}

func TestRegistryRemoveCascadesToOwnedRecords(t *testing.T) {
	state := stateWith(
		[]domain.Account{testAccount("acc-a"), testAccount("acc-b")},
		pendingRental(1, "acc-a"),
		pendingRental(2, "acc-a"),
		pendingRental(3, "acc-b"),
	)
	state = state.WithHistory(domain.NewHistoryRecord(pendingRental(10, "acc-a"), testNow))
	state = state.WithHistory(domain.NewHistoryRecord(pendingRental(11, "acc-b"), testNow))
	state = state.WithHistory(domain.NewHistoryRecord(pendingRental(12, "acc-b"), testNow))

	registry, store, secrets := newTestRegistry(t, state)
	secrets.EXPECT().Delete(mockAnyContext(), "smsman/accounts/acc-a/token").Return(nil)

	require.NoError(t, registry.Remove(context.Background(), "acc-a"))

	next := store.Snapshot()
	assert.Len(t, next.Accounts, 1)
	assert.Empty(t, next.RentalsFor("acc-a"))
	assert.Empty(t, next.HistoryFor("acc-a"))
	assert.Len(t, next.RentalsFor("acc-b"), 1)
	assert.Len(t, next.HistoryFor("acc-b"), 2)
	assert.Equal(t, domain.AccountID("acc-b"), next.ActiveAccountID)
}

func TestRegistryRemoveRefusesLastAccount(t *testing.T) {
	registry, store, _ := newTestRegistry(t, stateWith([]domain.Account{testAccount("acc-1")}, pendingRental(1, "acc-1")))

	err := registry.Remove(context.Background(), "acc-1")
	assert.ErrorIs(t, err, domain.ErrLastAccount)
	assert.Len(t, store.Snapshot().Accounts, 1)
	assert.Len(t, store.Snapshot().Rentals, 1)
}

func TestRegistryRemoveUnknownAccount(t *testing.T) {
	registry, _, _ := newTestRegistry(t, stateWith([]domain.Account{testAccount("acc-1"), testAccount("acc-2")}))

	err := registry.Remove(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestRegistryActivePointerNeverDangles(t *testing.T) {
	registry, store, secrets := newTestRegistry(t, domain.State{})
	secrets.EXPECT().Put(mockAnyContext(), mock.Anything, mock.Anything).Return(nil)
	secrets.EXPECT().Delete(mockAnyContext(), mock.Anything).Return(nil)

	assertValid := func() {
		t.Helper()
		state := store.Snapshot()
		if state.ActiveAccountID == "" {
			assert.Empty(t, state.Accounts)
			return
		}
		_, ok := state.Account(state.ActiveAccountID)
		assert.True(t, ok, "active account %s must exist", state.ActiveAccountID)
	}

	steps := []struct {
		add    domain.AccountID
		remove domain.AccountID
		active domain.AccountID
	}{
		{add: "a"},
		{add: "b"},
		{add: "c"},
		{active: "b"},
		{remove: "b"},
		{remove: "a"},
		{add: "d"},
		{remove: "c"},
	}
	for _, step := range steps {
		switch {
		case step.add != "":
			_, err := registry.Add(context.Background(), AddAccountCommand{ID: step.add, Label: string(step.add), Token: "tok"})
			require.NoError(t, err)
		case step.remove != "":
			require.NoError(t, registry.Remove(context.Background(), step.remove))
		case step.active != "":
			require.NoError(t, registry.SetActive(context.Background(), step.active))
		}
		assertValid()
	}

	assert.Equal(t, domain.AccountID("d"), store.Snapshot().ActiveAccountID)
}

func TestRegistrySetActiveUnknownAccount(t *testing.T) {
	registry, store, _ := newTestRegistry(t, stateWith([]domain.Account{testAccount("acc-1")}))

	err := registry.SetActive(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.Equal(t, domain.AccountID("acc-1"), store.Snapshot().ActiveAccountID)
}

func TestRegistryResolve(t *testing.T) {
	first := testAccount("3f2a9c1e-0000-4000-8000-000000000001")
	first.Label = "Main"
	second := testAccount("3f2a9d77-0000-4000-8000-000000000002")
	second.Label = "spare"
	registry, _, _ := newTestRegistry(t, stateWith([]domain.Account{first, second}))

	got, err := registry.Resolve("main")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	got, err = registry.Resolve(string(second.ID))
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	got, err = registry.Resolve("3f2a9d")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	_, err = registry.Resolve("3f2a")
	assert.ErrorIs(t, err, ErrAmbiguousAccount)

	_, err = registry.Resolve("3f2")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = registry.Resolve(" ")
	assert.Error(t, err)
}
