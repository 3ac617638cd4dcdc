package auth_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"infoprod-ai-api/internal/domain/entity"
)

type memoryProfileRepo struct {
	byID map[string]*entity.UserProfile
}

func newMemoryProfileRepo() *memoryProfileRepo {
	return &memoryProfileRepo{byID: make(map[string]*entity.UserProfile)}
}

func (r *memoryProfileRepo) Create(_ context.Context, p *entity.UserProfile) error {
	p.ID = uuid.NewString()
	r.byID[p.ID] = p
	return nil
}

func (r *memoryProfileRepo) GetByID(_ context.Context, id string) (*entity.UserProfile, error) {
	return r.byID[id], nil
}

func (r *memoryProfileRepo) GetByEmail(_ context.Context, email string) (*entity.UserProfile, error) {
	for _, p := range r.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memoryProfileRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	p, err := r.GetByEmail(ctx, email)
	return p != nil, err
}

type mockDenylist struct {
	revoked     map[string]time.Duration
	isRevokedFn func(ctx context.Context, jti string) (bool, error)
}

func newMockDenylist() *mockDenylist {
	return &mockDenylist{revoked: make(map[string]time.Duration)}
}

func (d *mockDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	d.revoked[jti] = ttl
	return nil
}

func (d *mockDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if d.isRevokedFn != nil {
		return d.isRevokedFn(ctx, jti)
	}
	_, ok := d.revoked[jti]
	return ok, nil
}
