package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version         int             `toml:"version"`
	ActiveAccountID string          `toml:"active_account_id"`
	Accounts        []accountSchema `toml:"accounts"`
	History         []historySchema `toml:"history"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported state schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type accountSchema struct {
	ID        string `toml:"id"`
	Label     string `toml:"label"`
	TokenRef  string `toml:"token_ref"`
	CreatedAt string `toml:"created_at"`
}

type historySchema struct {
	RequestID     int64  `toml:"request_id"`
	Number        string `toml:"number"`
	CountryID     int    `toml:"country_id"`
	ApplicationID int    `toml:"application_id"`
	CountryName   string `toml:"country_name"`
	ServiceName   string `toml:"service_name"`
	SMSCode       string `toml:"sms_code,omitempty"`
	Status        string `toml:"status"`
	CreatedAt     string `toml:"created_at"`
	AccountID     string `toml:"account_id"`
	ResolvedAt    string `toml:"resolved_at"`
}
