package providers

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gookit/validate"

	"mulesync/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %w", v.Errors)
	}
	if cv.conf.Reload.AutoInterval < 0 {
		return fmt.Errorf("invalid config: reload.autoInterval must not be negative")
	}
	return cv.validateAccounts()
}

func (cv *CnfValidator) validateAccounts() error {
	emails := make(map[string]int, len(cv.conf.Accounts))
	for i, acc := range cv.conf.Accounts {
		if strings.TrimSpace(acc.Email) == "" {
			return fmt.Errorf("invalid config: accounts[%d]: email is required", i)
		}
		if acc.Password == "" {
			return fmt.Errorf("invalid config: accounts[%d]: password is required", i)
		}
		if acc.ID != "" {
			if _, err := uuid.Parse(acc.ID); err != nil {
				return fmt.Errorf("invalid config: accounts[%d]: id: %w", i, err)
			}
		}
		key := strings.ToLower(strings.TrimSpace(acc.Email))
		if prev, dup := emails[key]; dup {
			return fmt.Errorf("invalid config: accounts[%d]: email duplicates accounts[%d]", i, prev)
		}
		emails[key] = i
	}
	return nil
}
