package repository

import (
	"context"

	"github.com/sangkips/shopfront-pos/internal/domain/entity"
)

// CredentialRepository loads and persists the vendor token set.
type CredentialRepository interface {
	Load(ctx context.Context) (*entity.Credentials, error)
	// Save persists rotated tokens. Implementations must leave unrelated
	// settings in the backing store untouched.
	Save(ctx context.Context, creds *entity.Credentials) error
}
