package handler

import (
	"net"
	"net/http"

	"github.com/mendbayar/taskdesk/internal/domain"
	"github.com/mendbayar/taskdesk/internal/handler/dto"
	"github.com/mendbayar/taskdesk/internal/middleware"
	"github.com/mendbayar/taskdesk/internal/service"
)

// handleLogin authenticates a user.
// @Summary Log in
// @Description Verifies credentials and returns a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	token, user, err := h.authService.Login(r.Context(), req.Username, req.Password, clientIP(r), r.UserAgent())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  dto.FromUser(user),
	})
}

// handleRegister creates a user account.
// @Summary Register a user
// @Description Creates a user account. Requires the register capability.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterUserRequest true "Account details"
// @Success 201 {object} dto.UserResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/register [post]
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	var req dto.RegisterUserRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), actor, service.RegisterUserInput{
		Username:  req.Username,
		Password:  req.Password,
		GivenName: req.GivenName,
		Surname:   req.Surname,
		Rank:      req.Rank,
		Position:  req.Position,
		Role:      domain.Role(req.Role),
		BranchID:  req.BranchID,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.FromUser(user))
}

// handleMe returns the authenticated user.
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	respondJSON(w, http.StatusOK, dto.FromUser(actor))
}

// clientIP returns the request origin, preferring the forwarded address set
// by the reverse proxy.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
