package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path"
	"strings"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/bnema/smsman-cli/internal/ports"
)

const defaultBinary = "pass"

var ErrUnavailable = errors.New("pass command unavailable")

type runFunc func(ctx context.Context, input string, args ...string) (stdout string, stderr string, err error)

type Options struct {
	// Binary is looked up in PATH; defaults to "pass".
	Binary string
	// Prefix is prepended to every key, e.g. "work" stores under work/smsman/...
	Prefix string
}

type Store struct {
	run    runFunc
	prefix string
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(opts Options) *Store {
	binary := opts.Binary
	if binary == "" {
		binary = defaultBinary
	}

	return &Store{
		run:    commandRunner(binary),
		prefix: strings.Trim(opts.Prefix, "/"),
	}
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := s.entry(key)
	_, stderr, err := s.run(ctx, value+"\n", "insert", "-m", "-f", name)
	if err != nil {
		return formatError("put", name, err, stderr)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := s.entry(key)
	stdout, stderr, err := s.run(ctx, "", "show", name)
	if err != nil {
		if isNotFound(stderr) {
			return "", fmt.Errorf("pass get %q: %w", name, domain.ErrSecretNotFound)
		}
		return "", formatError("get", name, err, stderr)
	}

	stdout = strings.TrimSuffix(stdout, "\n")
	stdout = strings.TrimSuffix(stdout, "\r")

	return stdout, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := s.entry(key)
	_, stderr, err := s.run(ctx, "", "rm", "-f", name)
	if err != nil {
		if isNotFound(stderr) {
			return nil
		}
		return formatError("delete", name, err, stderr)
	}

	return nil
}

func (s *Store) entry(key string) string {
	key = strings.Trim(strings.TrimSpace(key), "/")
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

func isNotFound(stderr string) bool {
	return strings.Contains(stderr, "is not in the password store")
}

func commandRunner(binary string) runFunc {
	return func(ctx context.Context, input string, args ...string) (string, string, error) {
		resolved, err := exec.LookPath(binary)
		if err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				return "", "", ErrUnavailable
			}
			return "", "", fmt.Errorf("locate %s command: %w", binary, err)
		}

		cmd := exec.CommandContext(ctx, resolved, args...)
		if input != "" {
			cmd.Stdin = strings.NewReader(input)
		}

		var stdout bytes.Buffer
		var stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err = cmd.Run()
		return stdout.String(), strings.TrimSpace(stderr.String()), err
	}
}

func formatError(op string, key string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("pass %s %q: %w", op, key, err)
	}

	return fmt.Errorf("pass %s %q: %w: %s", op, key, err, stderr)
}
