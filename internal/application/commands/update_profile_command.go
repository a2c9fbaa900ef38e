package commands

import (
	"context"
	"errors"

	"github.com/yuzvak/storefront-service/internal/application/ports"
	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
	"github.com/yuzvak/storefront-service/internal/domain/user"
	"github.com/yuzvak/storefront-service/internal/pkg/clock"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

type UpdateProfileCommand struct {
	Identity ports.Identity
	Update   user.ProfileUpdate
}

type UpdateProfileHandler struct {
	users ports.UserRepository
	clock clock.Clock
	log   *logger.Logger
}

func NewUpdateProfileHandler(users ports.UserRepository, clk clock.Clock, log *logger.Logger) *UpdateProfileHandler {
	return &UpdateProfileHandler{users: users, clock: clk, log: log}
}

func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*user.Profile, error) {
	if err := cmd.Update.Validate(); err != nil {
		return nil, err
	}

	p, err := h.users.GetProfile(ctx, cmd.Identity.UID)
	if errors.Is(err, domainErrors.ErrUserNotFound) {
		p = user.NewProfile(cmd.Identity.UID, cmd.Identity.Email)
	} else if err != nil {
		return nil, err
	}

	if err := p.Apply(cmd.Update, h.clock.Now()); err != nil {
		return nil, err
	}

	if err := h.users.SaveProfile(ctx, p); err != nil {
		h.log.Error("Failed to save profile", "error", err, "uid", p.UID)
		return nil, err
	}
	return p, nil
}
