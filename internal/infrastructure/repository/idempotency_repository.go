package repository

import (
	"context"
	"sync"
	"time"

	"github.com/sangkips/shopfront-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/shopfront-pos/internal/domain/repository"
)

type idempotencyRepository struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
	now  func() time.Time
}

// NewIdempotencyRepository creates an in-process key store. Keys only need to
// outlive a double tap or a client retry, so they are not persisted.
func NewIdempotencyRepository() domainRepo.IdempotencyRepository {
	return &idempotencyRepository{keys: make(map[string]*entity.IdempotencyKey), now: time.Now}
}

func idempotencyID(key, operator string) string {
	return operator + "\x00" + key
}

func (r *idempotencyRepository) GetByKey(_ context.Context, key, operator string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ikey, ok := r.keys[idempotencyID(key, operator)]
	if !ok {
		return nil, nil
	}
	if ikey.IsExpired(r.now()) {
		delete(r.keys, idempotencyID(key, operator))
		return nil, nil
	}
	cp := *ikey
	return &cp, nil
}

func (r *idempotencyRepository) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ikey
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = r.now()
	}
	r.keys[idempotencyID(ikey.Key, ikey.Operator)] = &cp
	return nil
}

func (r *idempotencyRepository) DeleteExpired(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for id, ikey := range r.keys {
		if ikey.IsExpired(now) {
			delete(r.keys, id)
		}
	}
	return nil
}
