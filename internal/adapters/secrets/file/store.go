package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/bnema/smsman-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	storeDirMode    = 0o700
	secretFileMode  = 0o600
	tokensFileName  = "tokens.toml"
	tempFilePattern = ".tokens-*.toml.tmp"
)

type tokensFile struct {
	Tokens map[string]string `toml:"tokens"`
}

// Store keeps secrets in a single owner-only TOML file under root.
type Store struct {
	path string
	mu   sync.RWMutex
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{path: filepath.Join(filepath.Clean(root), tokensFileName)}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := normalizeKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return err
	}
	file.Tokens[key] = value

	return s.write(file)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key, err := normalizeKey(key)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.read()
	if err != nil {
		return "", err
	}

	value, ok := file.Tokens[key]
	if !ok {
		return "", fmt.Errorf("file secret %q: %w", key, domain.ErrSecretNotFound)
	}
	return value, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := normalizeKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := file.Tokens[key]; !ok {
		return nil
	}
	delete(file.Tokens, key)

	return s.write(file)
}

func (s *Store) read() (tokensFile, error) {
	file := tokensFile{Tokens: map[string]string{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return file, nil
		}
		return tokensFile{}, fmt.Errorf("read secrets file: %w", err)
	}

	if err := toml.Unmarshal(data, &file); err != nil {
		return tokensFile{}, fmt.Errorf("decode secrets file: %w", err)
	}
	if file.Tokens == nil {
		file.Tokens = map[string]string{}
	}

	return file, nil
}

func (s *Store) write(file tokensFile) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, storeDirMode); err != nil {
		return fmt.Errorf("create secrets directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode secrets file: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp secrets file: %w", err)
	}
	tempName := tempFile.Name()
	defer func() { _ = os.Remove(tempName) }()

	if err := tempFile.Chmod(secretFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp secrets file: %w", err)
	}
	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp secrets file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp secrets file: %w", err)
	}
	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace secrets file: %w", err)
	}

	return nil
}

func normalizeKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("secret key is empty")
	}
	if strings.ContainsAny(trimmed, "\n\r") {
		return "", fmt.Errorf("invalid secret key %q", key)
	}
	return trimmed, nil
}
