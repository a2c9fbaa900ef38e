package memory

import (
	"context"
	"sort"
	"sync"

	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
	"github.com/yuzvak/storefront-service/internal/domain/user"
)

type UserRepository struct {
	mu       sync.RWMutex
	profiles map[string]user.Profile
}

func NewUserRepository() *UserRepository {
	return &UserRepository{profiles: make(map[string]user.Profile)}
}

func (r *UserRepository) GetProfile(_ context.Context, uid string) (*user.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[uid]
	if !ok {
		return nil, domainErrors.ErrUserNotFound
	}
	return &p, nil
}

// SaveProfile keeps the stored admin flag; only SetAdmin changes it.
func (r *UserRepository) SaveProfile(_ context.Context, p *user.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *p
	stored.IsAdmin = r.profiles[p.UID].IsAdmin
	r.profiles[p.UID] = stored
	return nil
}

func (r *UserRepository) SetAdmin(_ context.Context, uid string, admin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[uid]
	if !ok {
		return domainErrors.ErrUserNotFound
	}
	p.IsAdmin = admin
	r.profiles[uid] = p
	return nil
}

func (r *UserRepository) ListProfiles(_ context.Context) ([]*user.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*user.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}
