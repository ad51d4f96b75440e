package models

import (
	"strings"

	"github.com/google/uuid"
)

type Credential struct {
	ID       uuid.UUID `json:"id" yaml:"id"`
	Email    string    `json:"email" yaml:"email"`
	Password string    `json:"-" yaml:"password"`
}

// IsSecretBased reports whether the identifier is a platform guid ("steamworks:...")
// rather than an email. An identifier with both ':' and '@' is treated as an email.
func (c Credential) IsSecretBased() bool {
	return strings.Contains(c.Email, ":") && !strings.Contains(c.Email, "@")
}
