package handlers

import (
	"net/http"

	"github.com/yuzvak/storefront-service/internal/application/commands"
	"github.com/yuzvak/storefront-service/internal/application/use_cases"
	"github.com/yuzvak/storefront-service/internal/domain/user"
	"github.com/yuzvak/storefront-service/internal/infrastructure/http/response"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

type ProfileHandler struct {
	queries *use_cases.AccountQueries
	update  *commands.UpdateProfileHandler
	log     *logger.Logger
}

func NewProfileHandler(queries *use_cases.AccountQueries, update *commands.UpdateProfileHandler, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{queries: queries, update: update, log: log}
}

func (h *ProfileHandler) HandleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := identity(w, r)
		if !ok {
			return
		}

		p, err := h.queries.Profile(r.Context(), caller)
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}
		response.WriteSuccess(w, p)
	}
}

func (h *ProfileHandler) HandleUpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := identity(w, r)
		if !ok {
			return
		}

		var req user.ProfileUpdate
		if !decodeBody(w, r, &req) {
			return
		}

		p, err := h.update.Handle(r.Context(), commands.UpdateProfileCommand{Identity: caller, Update: req})
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}
		response.WriteSuccess(w, p, "Profile updated")
	}
}
