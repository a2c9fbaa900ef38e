package ports

import (
	"context"

	"github.com/yuzvak/storefront-service/internal/domain/user"
)

type UserRepository interface {
	GetProfile(ctx context.Context, uid string) (*user.Profile, error)
	SaveProfile(ctx context.Context, p *user.Profile) error
	ListProfiles(ctx context.Context) ([]*user.Profile, error)

	// SetAdmin is the only write path for the admin flag.
	SetAdmin(ctx context.Context, uid string, admin bool) error
}
