package domain

import (
	"fmt"
	"strings"
	"time"
)

type AccountID string

type Account struct {
	ID        AccountID
	Label     string
	Token     string
	TokenRef  string
	CreatedAt time.Time
}

type AccountPatch struct {
	Label    *string
	Token    *string
	TokenRef *string
}

func (a Account) Validate() error {
	if strings.TrimSpace(string(a.ID)) == "" {
		return fmt.Errorf("account id is required")
	}
	if strings.TrimSpace(a.Label) == "" {
		return fmt.Errorf("account label is required")
	}

	return nil
}

// HasToken reports whether the account carries a usable API token.
func (a Account) HasToken() bool {
	return strings.TrimSpace(a.Token) != ""
}

func (a Account) apply(patch AccountPatch) Account {
	if patch.Label != nil {
		a.Label = *patch.Label
	}
	if patch.Token != nil {
		a.Token = *patch.Token
	}
	if patch.TokenRef != nil {
		a.TokenRef = *patch.TokenRef
	}
	return a
}

// TokenRefFor returns the secret-store key holding an account token.
func TokenRefFor(id AccountID) string {
	return fmt.Sprintf("smsman/accounts/%s/token", id)
}
