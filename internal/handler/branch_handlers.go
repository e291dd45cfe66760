package handler

import (
	"net/http"

	"github.com/mendbayar/taskdesk/internal/access"
	"github.com/mendbayar/taskdesk/internal/domain"
	"github.com/mendbayar/taskdesk/internal/handler/dto"
	"github.com/mendbayar/taskdesk/internal/middleware"
)

// handleListBranches lists all organizational branches.
// @Summary List branches
// @Tags branches
// @Produce json
// @Success 200 {array} dto.BranchResponse
// @Security BearerAuth
// @Router /branches [get]
func (h *Handler) handleListBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.branchRepo.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	out := make([]dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, dto.FromBranch(b))
	}

	respondJSON(w, http.StatusOK, out)
}

// handleCreateBranch adds an organizational branch.
// @Summary Create a branch
// @Description Adds a branch under the given parent, or a new root when no parent is supplied.
// @Tags branches
// @Accept json
// @Produce json
// @Param request body dto.CreateBranchRequest true "Branch details"
// @Success 201 {object} dto.BranchResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /branches [post]
func (h *Handler) handleCreateBranch(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	if !access.CanAccess(actor.Role, access.ActionCreateBranch) {
		respondDomainError(w, domain.ErrPermissionDenied)
		return
	}

	var req dto.CreateBranchRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	branch, err := h.branchRepo.Create(r.Context(), &domain.Branch{
		Name:      req.Name,
		ParentID:  req.ParentID,
		CreatedBy: actor.ID,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.FromBranch(branch))
}
