package v1

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/hiredeck/hiredeck/internal/auth"
	"github.com/hiredeck/hiredeck/internal/service"
)

type JobPostRequest struct {
	JobTitle        string `json:"job_title" validate:"required,min=2"`
	EmploymentType  string `json:"employment_type" validate:"employment_type"`
	Location        string `json:"location"`
	SalaryFrom      int    `json:"salary_from" validate:"gte=0"`
	SalaryTo        int    `json:"salary_to" validate:"gte=0"`
	JobDescription  string `json:"job_description" validate:"omitempty,min=10"`
	Benefits        string `json:"benefits"`
	ListingDuration int    `json:"listing_duration" validate:"gte=0"`
}

func (req JobPostRequest) toInput() service.JobPostInput {
	return service.JobPostInput{
		JobTitle:        req.JobTitle,
		EmploymentType:  req.EmploymentType,
		Location:        req.Location,
		SalaryFrom:      req.SalaryFrom,
		SalaryTo:        req.SalaryTo,
		JobDescription:  req.JobDescription,
		Benefits:        req.Benefits,
		ListingDuration: req.ListingDuration,
	}
}

// (GET /api/v1/jobs)
func (h *ServiceHandler) ListJobPosts(w http.ResponseWriter, r *http.Request) {
	jobPosts, err := h.jobPostSrv.ListJobPosts(r.Context())
	if err != nil {
		replyError(w, r, err)
		return
	}
	render.JSON(w, r, jobPostListToApi(jobPosts))
}

// (GET /api/v1/dashboard/jobs)
func (h *ServiceHandler) ListCompanyJobPosts(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	jobPosts, err := h.jobPostSrv.ListCompanyJobPosts(r.Context(), user)
	if err != nil {
		replyError(w, r, err)
		return
	}
	render.JSON(w, r, jobPostListToApi(jobPosts))
}

// (GET /api/v1/jobs/{id})
func (h *ServiceHandler) GetJobPost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		replyValidationError(w, r, err)
		return
	}

	jobPost, err := h.jobPostSrv.GetJobPost(r.Context(), id)
	if err != nil {
		replyError(w, r, err)
		return
	}
	render.JSON(w, r, jobPostToApi(*jobPost))
}

// (POST /api/v1/jobs)
func (h *ServiceHandler) CreateJobPost(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	var req JobPostRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		replyValidationError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		replyValidationError(w, r, err)
		return
	}

	jobPost, err := h.jobPostSrv.CreateJobPost(r.Context(), user, req.toInput())
	if err != nil {
		replyError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, jobPostToApi(*jobPost))
}

// (PUT /api/v1/jobs/{id})
func (h *ServiceHandler) UpdateJobPost(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	id, err := idParam(r)
	if err != nil {
		replyValidationError(w, r, err)
		return
	}

	var req JobPostRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		replyValidationError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		replyValidationError(w, r, err)
		return
	}

	jobPost, err := h.jobPostSrv.UpdateJobPost(r.Context(), user, id, req.toInput())
	if err != nil {
		replyError(w, r, err)
		return
	}
	render.JSON(w, r, jobPostToApi(*jobPost))
}

// (DELETE /api/v1/jobs/{id})
func (h *ServiceHandler) DeleteJobPost(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	id, err := idParam(r)
	if err != nil {
		replyValidationError(w, r, err)
		return
	}

	if err := h.jobPostSrv.DeleteJobPost(r.Context(), user, id); err != nil {
		replyError(w, r, err)
		return
	}

	render.NoContent(w, r)
}
