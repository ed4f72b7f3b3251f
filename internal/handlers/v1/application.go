package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/auth"
	"github.com/hiredeck/hiredeck/internal/service"
	"github.com/hiredeck/hiredeck/internal/store/model"
)

type ApplyRequest struct {
	Name   string `json:"name" validate:"omitempty,min=2"`
	About  string `json:"about" validate:"omitempty,min=10"`
	Resume string `json:"resume" validate:"resume_url"`
}

type EvaluateRequest struct {
	Outcome  string  `json:"outcome" validate:"required,round_outcome"`
	Feedback *string `json:"feedback"`
}

func idParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errors.New("id must be a valid uuid")
	}
	return id, nil
}

// (POST /api/v1/jobs/{id}/applications)
func (h *ServiceHandler) Apply(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	jobPostID, err := idParam(r)
	if err != nil {
		replyValidationError(w, r, err)
		return
	}

	var req ApplyRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		replyValidationError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		replyValidationError(w, r, err)
		return
	}

	application, err := h.applicationSrv.Apply(r.Context(), user, jobPostID, service.ApplyInput{
		Name:   req.Name,
		About:  req.About,
		Resume: req.Resume,
	})
	if err != nil {
		replyError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, applicationToApi(*application))
}

// (GET /api/v1/applications)
func (h *ServiceHandler) ListSeekerApplications(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	views, err := h.projectionSrv.ListForSeeker(r.Context(), user)
	if err != nil {
		replyError(w, r, err)
		return
	}
	render.JSON(w, r, views)
}

// (GET /api/v1/dashboard/applications)
func (h *ServiceHandler) ListCompanyApplications(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	views, err := h.projectionSrv.ListForCompany(r.Context(), user)
	if err != nil {
		replyError(w, r, err)
		return
	}
	render.JSON(w, r, views)
}

// (POST /api/v1/applications/{id}/shortlist)
func (h *ServiceHandler) Shortlist(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.applicationSrv.Shortlist)
}

// (POST /api/v1/applications/{id}/advance)
func (h *ServiceHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.applicationSrv.Advance)
}

// (POST /api/v1/applications/{id}/select)
func (h *ServiceHandler) Select(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.applicationSrv.Select)
}

// (POST /api/v1/applications/{id}/reject)
func (h *ServiceHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.applicationSrv.Reject)
}

// transition runs one company-side lifecycle operation. A lost race is
// retried once before the conflict is surfaced to the caller.
func (h *ServiceHandler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, user auth.User, id uuid.UUID) (*model.Application, error)) {
	user := auth.MustHaveUser(r.Context())

	id, err := idParam(r)
	if err != nil {
		replyValidationError(w, r, err)
		return
	}

	application, err := op(r.Context(), user, id)
	if err != nil {
		var conflict *service.ErrConflict
		if errors.As(err, &conflict) {
			application, err = op(r.Context(), user, id)
		}
		if err != nil {
			replyError(w, r, err)
			return
		}
	}

	render.JSON(w, r, applicationToApi(*application))
}

// (POST /api/v1/rounds/{id}/evaluate)
func (h *ServiceHandler) EvaluateRound(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	roundID, err := idParam(r)
	if err != nil {
		replyValidationError(w, r, err)
		return
	}

	var req EvaluateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		replyValidationError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		replyValidationError(w, r, err)
		return
	}

	round, err := h.applicationSrv.EvaluateRound(r.Context(), user, roundID, req.Outcome, req.Feedback)
	if err != nil {
		replyError(w, r, err)
		return
	}

	render.JSON(w, r, roundToApi(*round))
}

// (DELETE /api/v1/applications/{id})
func (h *ServiceHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	id, err := idParam(r)
	if err != nil {
		replyValidationError(w, r, err)
		return
	}

	if err := h.applicationSrv.Withdraw(r.Context(), user, id); err != nil {
		replyError(w, r, err)
		return
	}

	render.NoContent(w, r)
}
