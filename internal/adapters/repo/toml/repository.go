package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/bnema/smsman-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	StatePathKey    = "state.path"
	stateFileMode   = 0o600
	stateDirMode    = 0o700
	stateConfigDir  = ".smsman"
	stateConfigFile = "state.toml"
	tempFilePattern = ".state-*.toml.tmp"
)

// Repository stores accounts, the active account pointer and history in one
// TOML file. Tokens are never written; accounts carry only a token reference.
type Repository struct {
	statePath string
	mu        *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.StateRepository = (*Repository)(nil)

func DefaultStatePath(homeDir string) string {
	return filepath.Join(homeDir, stateConfigDir, stateConfigFile)
}

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.SetDefault(StatePathKey, DefaultStatePath(homeDir))

	statePath := cfg.GetString(StatePathKey)
	if statePath == "" {
		return nil, errors.New("state path is empty")
	}
	statePath, err = normalizeStatePath(statePath)
	if err != nil {
		return nil, err
	}

	return &Repository{statePath: statePath, mu: lockForPath(statePath)}, nil
}

func (r *Repository) Path() string {
	return r.statePath
}

func (r *Repository) Load(ctx context.Context) (domain.PersistedState, error) {
	if err := ctx.Err(); err != nil {
		return domain.PersistedState{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.PersistedState{}, err
	}

	return fromSchema(file)
}

func (r *Repository) Save(ctx context.Context, state domain.PersistedState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(toSchema(state))
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.statePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read state file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode state file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeStatePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve state path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}

	return writeFileAtomic(r.statePath, data)
}

// writeFileAtomic replaces path through a temp file in the same directory.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, stateDirMode); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}

	if err := tempFile.Chmod(stateFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp state file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(path, stateFileMode); err != nil {
		return fmt.Errorf("chmod state file: %w", err)
	}

	return nil
}

func toSchema(state domain.PersistedState) fileSchema {
	file := fileSchema{
		Version:         currentSchemaVersion,
		ActiveAccountID: string(state.ActiveAccountID),
		Accounts:        make([]accountSchema, 0, len(state.Accounts)),
		History:         make([]historySchema, 0, len(state.History)),
	}

	for _, account := range state.Accounts {
		file.Accounts = append(file.Accounts, accountSchema{
			ID:        string(account.ID),
			Label:     account.Label,
			TokenRef:  account.TokenRef,
			CreatedAt: formatTime(account.CreatedAt),
		})
	}

	for _, record := range state.History {
		file.History = append(file.History, historySchema{
			RequestID:     int64(record.RequestID),
			Number:        record.Number,
			CountryID:     int(record.CountryID),
			ApplicationID: int(record.ApplicationID),
			CountryName:   record.CountryName,
			ServiceName:   record.ServiceName,
			SMSCode:       record.SMSCode,
			Status:        string(record.Status),
			CreatedAt:     formatTime(record.CreatedAt),
			AccountID:     string(record.AccountID),
			ResolvedAt:    formatTime(record.ResolvedAt),
		})
	}

	return file
}

func fromSchema(file fileSchema) (domain.PersistedState, error) {
	state := domain.PersistedState{
		Accounts: make([]domain.Account, 0, len(file.Accounts)),
	}

	for _, entry := range file.Accounts {
		id := domain.AccountID(entry.ID)
		tokenRef := entry.TokenRef
		if tokenRef == "" {
			tokenRef = domain.TokenRefFor(id)
		}
		state.Accounts = append(state.Accounts, domain.Account{
			ID:        id,
			Label:     entry.Label,
			TokenRef:  tokenRef,
			CreatedAt: parseTime(entry.CreatedAt),
		})
	}

	history := file.History
	if len(history) > domain.HistoryLimit {
		history = history[:domain.HistoryLimit]
	}
	if len(history) > 0 {
		state.History = make([]domain.HistoryRecord, 0, len(history))
	}
	for i, entry := range history {
		status, err := domain.ParseRentalStatus(entry.Status)
		if err != nil {
			return domain.PersistedState{}, fmt.Errorf("decode history record %d: %w", i, err)
		}
		state.History = append(state.History, domain.HistoryRecord{
			Rental: domain.Rental{
				RequestID:     domain.RequestID(entry.RequestID),
				Number:        entry.Number,
				CountryID:     domain.CountryID(entry.CountryID),
				ApplicationID: domain.ApplicationID(entry.ApplicationID),
				CountryName:   entry.CountryName,
				ServiceName:   entry.ServiceName,
				SMSCode:       entry.SMSCode,
				Status:        status,
				CreatedAt:     parseTime(entry.CreatedAt),
				AccountID:     domain.AccountID(entry.AccountID),
			},
			ResolvedAt: parseTime(entry.ResolvedAt),
		})
	}

	// A hand-edited file may point at an account that is gone.
	active := domain.AccountID(file.ActiveAccountID)
	if !hasAccount(state.Accounts, active) {
		active = ""
		if len(state.Accounts) > 0 {
			active = state.Accounts[0].ID
		}
	}
	state.ActiveAccountID = active

	return state, nil
}

func hasAccount(accounts []domain.Account, id domain.AccountID) bool {
	for _, account := range accounts {
		if account.ID == id {
			return true
		}
	}
	return false
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}
