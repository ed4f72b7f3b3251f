package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/hiredeck/hiredeck/internal/handlers/validator"
	"github.com/hiredeck/hiredeck/internal/service"
	"github.com/hiredeck/hiredeck/pkg/requestid"
	"go.uber.org/zap"
)

type ServiceHandler struct {
	applicationSrv  *service.ApplicationService
	projectionSrv   *service.ProjectionService
	notificationSrv *service.NotificationService
	jobPostSrv      *service.JobPostService
	validator       *validator.Validator
}

func NewServiceHandler(
	applicationSrv *service.ApplicationService,
	projectionSrv *service.ProjectionService,
	notificationSrv *service.NotificationService,
	jobPostSrv *service.JobPostService,
) *ServiceHandler {
	v := validator.NewValidator()
	v.Register(validator.NewApplicationValidationRules()...)
	v.Register(validator.NewEvaluationValidationRules()...)
	v.Register(validator.NewJobPostValidationRules()...)

	return &ServiceHandler{
		applicationSrv:  applicationSrv,
		projectionSrv:   projectionSrv,
		notificationSrv: notificationSrv,
		jobPostSrv:      jobPostSrv,
		validator:       v,
	}
}

func (h *ServiceHandler) Routes(router chi.Router) {
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/jobs", h.ListJobPosts)
		r.Post("/jobs", h.CreateJobPost)
		r.Get("/jobs/{id}", h.GetJobPost)
		r.Put("/jobs/{id}", h.UpdateJobPost)
		r.Delete("/jobs/{id}", h.DeleteJobPost)
		r.Post("/jobs/{id}/applications", h.Apply)

		r.Get("/applications", h.ListSeekerApplications)
		r.Post("/applications/{id}/shortlist", h.Shortlist)
		r.Post("/applications/{id}/advance", h.Advance)
		r.Post("/applications/{id}/select", h.Select)
		r.Post("/applications/{id}/reject", h.Reject)
		r.Delete("/applications/{id}", h.Withdraw)

		r.Post("/rounds/{id}/evaluate", h.EvaluateRound)

		r.Get("/dashboard/applications", h.ListCompanyApplications)
		r.Get("/dashboard/jobs", h.ListCompanyJobPosts)

		r.Get("/notifications", h.ListNotifications)
		r.Post("/notifications/{id}/read", h.MarkNotificationRead)
		r.Post("/notifications/read-all", h.MarkAllNotificationsRead)
	})
}

type ErrorReply struct {
	Message   string  `json:"message"`
	RequestId *string `json:"request_id,omitempty"`
}

// replyError translates the service error taxonomy into HTTP statuses.
func replyError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch err.(type) {
	case *service.ErrAccessDenied:
		status = http.StatusForbidden
	case *service.ErrResourceNotFound:
		status = http.StatusNotFound
	case *service.ErrInvalidStateTransition, *service.ErrPreconditionFailed,
		*service.ErrConflict, *service.ErrAlreadyExists:
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		zap.S().Named("handler").Errorw("request failed", "error", err, "path", r.URL.Path)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorReply{Message: err.Error(), RequestId: requestid.FromContextPtr(r.Context())})
}

func replyValidationError(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorReply{Message: err.Error(), RequestId: requestid.FromContextPtr(r.Context())})
}
