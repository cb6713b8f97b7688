package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRejectsInvalidKeys(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	testCases := []struct {
		name    string
		key     string
		wantErr string
	}{
		{name: "empty", key: "", wantErr: "secret key is empty"},
		{name: "whitespace", key: "   ", wantErr: "secret key is empty"},
		{name: "newline", key: "smsman/a\nb", wantErr: "invalid secret key"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.Put(context.Background(), tc.key, "value")
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestStorePutGetRoundTripAndPermissions(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "secrets")
	store := NewStore(root)

	require.NoError(t, store.Put(context.Background(), "smsman/accounts/acc-1/token", "top-secret"))
	require.NoError(t, store.Put(context.Background(), "smsman/accounts/acc-2/token", "other"))

	got, err := store.Get(context.Background(), "smsman/accounts/acc-1/token")
	require.NoError(t, err)
	assert.Equal(t, "top-secret", got)

	info, err := os.Stat(filepath.Join(root, "tokens.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(secretFileMode), info.Mode().Perm())

	reopened := NewStore(root)
	got, err = reopened.Get(context.Background(), "smsman/accounts/acc-2/token")
	require.NoError(t, err)
	assert.Equal(t, "other", got)
}

func TestStoreGetMissingSecret(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	_, err := store.Get(context.Background(), "smsman/accounts/acc-1/token")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreDeleteIsIdempotentWhenSecretMissing(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	key := "smsman/accounts/acc-1/token"

	require.NoError(t, store.Put(context.Background(), key, "value"))
	require.NoError(t, store.Delete(context.Background(), key))
	require.NoError(t, store.Delete(context.Background(), key))

	_, err := store.Get(context.Background(), key)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreMalformedFileReturnsError(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "tokens.toml"), []byte("tokens = ["), 0o600))

	_, err := NewStore(root).Get(context.Background(), "smsman/accounts/acc-1/token")
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode secrets file")
}

func TestStoreCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewStore(t.TempDir()).Put(ctx, "smsman/accounts/acc-1/token", "value")
	require.ErrorIs(t, err, context.Canceled)
}
