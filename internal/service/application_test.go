package service_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/auth"
	"github.com/hiredeck/hiredeck/internal/config"
	"github.com/hiredeck/hiredeck/internal/events"
	"github.com/hiredeck/hiredeck/internal/service"
	"github.com/hiredeck/hiredeck/internal/store"
	"github.com/hiredeck/hiredeck/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

const (
	insertUserStm        = "INSERT INTO users (id, created_at, email, name, role) VALUES ('%s', CURRENT_TIMESTAMP, '%s', 'user', '%s');"
	insertCompanyStm     = "INSERT INTO companies (id, created_at, user_id, name) VALUES ('%s', CURRENT_TIMESTAMP, '%s', '%s');"
	insertSeekerStm      = "INSERT INTO job_seekers (id, created_at, user_id, name, about, resume) VALUES ('%s', CURRENT_TIMESTAMP, '%s', '%s', '%s', '%s');"
	insertJobPostStm     = "INSERT INTO job_posts (id, created_at, company_id, job_title, status) VALUES ('%s', CURRENT_TIMESTAMP, '%s', '%s', '%s');"
	insertApplicationStm = "INSERT INTO applications (id, created_at, job_post_id, job_seeker_id, status, current_round, name) VALUES ('%s', CURRENT_TIMESTAMP, '%s', '%s', '%s', %d, 'applicant');"
	insertRoundStm       = "INSERT INTO interview_rounds (id, created_at, application_id, round_number, status) VALUES ('%s', CURRENT_TIMESTAMP, '%s', %d, '%s');"
)

var _ = Describe("application lifecycle", Ordered, func() {
	var (
		s        store.Store
		gormdb   *gorm.DB
		producer *events.EventProducer
		appSrv   *service.ApplicationService

		companyUser auth.User
		seekerUser  auth.User
		companyID   uuid.UUID
		seekerID    uuid.UUID
		jobPostID   uuid.UUID
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())

		producer = events.NewEventProducer(&events.StdoutWriter{})
		authzSrv := service.NewAuthzService(s)
		notificationSrv := service.NewNotificationService(s, producer)
		appSrv = service.NewApplicationService(s, authzSrv, notificationSrv, producer)
	})

	AfterAll(func() {
		producer.Close()
		s.Close()
	})

	BeforeEach(func() {
		companyUserID := uuid.New()
		seekerUserID := uuid.New()
		companyID = uuid.New()
		seekerID = uuid.New()
		jobPostID = uuid.New()

		Expect(gormdb.Exec(fmt.Sprintf(insertUserStm, companyUserID, "hiring@acme.io", "COMPANY")).Error).To(BeNil())
		Expect(gormdb.Exec(fmt.Sprintf(insertUserStm, seekerUserID, "dev@mail.io", "JOB_SEEKER")).Error).To(BeNil())
		Expect(gormdb.Exec(fmt.Sprintf(insertCompanyStm, companyID, companyUserID, "Acme")).Error).To(BeNil())
		Expect(gormdb.Exec(fmt.Sprintf(insertSeekerStm, seekerID, seekerUserID, "Dev One", "ten years of Go", "https://cv.example.com/dev1.pdf")).Error).To(BeNil())
		Expect(gormdb.Exec(fmt.Sprintf(insertJobPostStm, jobPostID, companyID, "Backend Engineer", "ACTIVE")).Error).To(BeNil())

		companyUser = auth.User{ID: companyUserID, Username: "hiring@acme.io", Role: auth.RoleCompany}
		seekerUser = auth.User{ID: seekerUserID, Username: "dev@mail.io", Role: auth.RoleJobSeeker}
	})

	AfterEach(func() {
		for _, table := range []string{"notifications", "interview_rounds", "applications", "job_posts", "job_seekers", "companies", "users"} {
			Expect(gormdb.Exec("DELETE FROM " + table).Error).To(BeNil())
		}
	})

	seekerNotifications := func() model.NotificationList {
		notifications, err := s.Notification().List(context.TODO(), store.NewNotificationQueryFilter().ByUserID(seekerUser.ID))
		Expect(err).To(BeNil())
		return notifications
	}

	Context("apply", func() {
		It("creates a pending application with the submitted snapshot", func() {
			application, err := appSrv.Apply(context.TODO(), seekerUser, jobPostID, service.ApplyInput{
				Name:   "Dev One",
				About:  "ten years of Go and distributed systems",
				Resume: "https://cv.example.com/custom.pdf",
			})
			Expect(err).To(BeNil())
			Expect(application.Status).To(Equal(model.ApplicationStatusPending))
			Expect(application.CurrentRound).To(Equal(0))
			Expect(application.Resume).To(Equal("https://cv.example.com/custom.pdf"))
		})

		It("falls back to the stored seeker profile", func() {
			application, err := appSrv.Apply(context.TODO(), seekerUser, jobPostID, service.ApplyInput{})
			Expect(err).To(BeNil())
			Expect(application.Name).To(Equal("Dev One"))
			Expect(application.About).To(Equal("ten years of Go"))
			Expect(application.Resume).To(Equal("https://cv.example.com/dev1.pdf"))
		})

		It("rejects a duplicate application", func() {
			_, err := appSrv.Apply(context.TODO(), seekerUser, jobPostID, service.ApplyInput{})
			Expect(err).To(BeNil())

			_, err = appSrv.Apply(context.TODO(), seekerUser, jobPostID, service.ApplyInput{})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrAlreadyExists{}))
		})

		It("denies a company acting as an applicant", func() {
			_, err := appSrv.Apply(context.TODO(), companyUser, jobPostID, service.ApplyInput{})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrAccessDenied{}))
		})

		It("refuses an expired job post", func() {
			expiredID := uuid.New()
			Expect(gormdb.Exec(fmt.Sprintf(insertJobPostStm, expiredID, companyID, "Old Posting", "EXPIRED")).Error).To(BeNil())

			_, err := appSrv.Apply(context.TODO(), seekerUser, expiredID, service.ApplyInput{})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrPreconditionFailed{}))
		})
	})

	Context("shortlist", func() {
		var applicationID uuid.UUID

		BeforeEach(func() {
			applicationID = uuid.New()
			Expect(gormdb.Exec(fmt.Sprintf(insertApplicationStm, applicationID, jobPostID, seekerID, "PENDING", 0)).Error).To(BeNil())
		})

		It("opens round 1 and notifies the seeker", func() {
			application, err := appSrv.Shortlist(context.TODO(), companyUser, applicationID)
			Expect(err).To(BeNil())
			Expect(application.Status).To(Equal(model.ApplicationStatusShortlisted))
			Expect(application.CurrentRound).To(Equal(1))
			Expect(application.InterviewRounds).To(HaveLen(1))
			Expect(application.InterviewRounds[0].RoundNumber).To(Equal(1))
			Expect(application.InterviewRounds[0].Status).To(Equal(model.RoundStatusPending))

			notifications := seekerNotifications()
			Expect(notifications).To(HaveLen(1))
			Expect(notifications[0].Kind).To(Equal(model.NotificationKindShortlisted))
			Expect(notifications[0].ApplicationID).To(HaveValue(Equal(applicationID)))
		})

		It("rejects a second shortlist", func() {
			_, err := appSrv.Shortlist(context.TODO(), companyUser, applicationID)
			Expect(err).To(BeNil())

			_, err = appSrv.Shortlist(context.TODO(), companyUser, applicationID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidStateTransition{}))
		})

		It("denies a company that does not own the job post", func() {
			otherCompanyUserID := uuid.New()
			Expect(gormdb.Exec(fmt.Sprintf(insertUserStm, otherCompanyUserID, "other@corp.io", "COMPANY")).Error).To(BeNil())
			Expect(gormdb.Exec(fmt.Sprintf(insertCompanyStm, uuid.New(), otherCompanyUserID, "Other Corp")).Error).To(BeNil())

			otherCompanyUser := auth.User{ID: otherCompanyUserID, Role: auth.RoleCompany}
			_, err := appSrv.Shortlist(context.TODO(), otherCompanyUser, applicationID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrAccessDenied{}))
		})

		It("denies the seeker", func() {
			_, err := appSrv.Shortlist(context.TODO(), seekerUser, applicationID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrAccessDenied{}))
		})
	})

	Context("evaluate round", func() {
		var (
			applicationID uuid.UUID
			roundID       uuid.UUID
		)

		BeforeEach(func() {
			applicationID = uuid.New()
			roundID = uuid.New()
			Expect(gormdb.Exec(fmt.Sprintf(insertApplicationStm, applicationID, jobPostID, seekerID, "SHORTLISTED", 1)).Error).To(BeNil())
			Expect(gormdb.Exec(fmt.Sprintf(insertRoundStm, roundID, applicationID, 1, "PENDING")).Error).To(BeNil())
		})

		It("qualifying moves the application to in progress", func() {
			feedback := "strong coding round"
			round, err := appSrv.EvaluateRound(context.TODO(), companyUser, roundID, model.RoundStatusQualified, &feedback)
			Expect(err).To(BeNil())
			Expect(round.Status).To(Equal(model.RoundStatusQualified))
			Expect(round.Feedback).To(HaveValue(Equal(feedback)))

			application, err := s.Application().Get(context.TODO(), applicationID)
			Expect(err).To(BeNil())
			Expect(application.Status).To(Equal(model.ApplicationStatusInProgress))

			notifications := seekerNotifications()
			Expect(notifications).To(HaveLen(1))
			Expect(notifications[0].Kind).To(Equal(model.NotificationKindRoundResult))
		})

		It("not qualifying rejects the application", func() {
			_, err := appSrv.EvaluateRound(context.TODO(), companyUser, roundID, model.RoundStatusNotQualified, nil)
			Expect(err).To(BeNil())

			application, err := s.Application().Get(context.TODO(), applicationID)
			Expect(err).To(BeNil())
			Expect(application.Status).To(Equal(model.ApplicationStatusRejected))
		})

		It("refuses to evaluate the same round twice", func() {
			_, err := appSrv.EvaluateRound(context.TODO(), companyUser, roundID, model.RoundStatusQualified, nil)
			Expect(err).To(BeNil())

			_, err = appSrv.EvaluateRound(context.TODO(), companyUser, roundID, model.RoundStatusNotQualified, nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrPreconditionFailed{}))
		})

		It("refuses a terminal application", func() {
			moved, err := s.Application().UpdateStatus(context.TODO(), applicationID, model.ApplicationStatusShortlisted, model.ApplicationStatusRejected)
			Expect(err).To(BeNil())
			Expect(moved).To(BeTrue())

			_, err = appSrv.EvaluateRound(context.TODO(), companyUser, roundID, model.RoundStatusQualified, nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidStateTransition{}))
		})

		It("rejects an unknown outcome", func() {
			_, err := appSrv.EvaluateRound(context.TODO(), companyUser, roundID, "MAYBE", nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrPreconditionFailed{}))
		})
	})

	Context("advance", func() {
		var applicationID uuid.UUID

		BeforeEach(func() {
			applicationID = uuid.New()
			Expect(gormdb.Exec(fmt.Sprintf(insertApplicationStm, applicationID, jobPostID, seekerID, "IN_PROGRESS", 1)).Error).To(BeNil())
			Expect(gormdb.Exec(fmt.Sprintf(insertRoundStm, uuid.New(), applicationID, 1, "QUALIFIED")).Error).To(BeNil())
		})

		It("opens the next round", func() {
			application, err := appSrv.Advance(context.TODO(), companyUser, applicationID)
			Expect(err).To(BeNil())
			Expect(application.Status).To(Equal(model.ApplicationStatusInProgress))
			Expect(application.CurrentRound).To(Equal(2))
			Expect(application.InterviewRounds).To(HaveLen(2))
			Expect(application.InterviewRounds[1].RoundNumber).To(Equal(2))
			Expect(application.InterviewRounds[1].Status).To(Equal(model.RoundStatusPending))

			notifications := seekerNotifications()
			Expect(notifications).To(HaveLen(1))
			Expect(notifications[0].Kind).To(Equal(model.NotificationKindNextRound))
		})

		It("requires a qualified latest round", func() {
			_, err := appSrv.Advance(context.TODO(), companyUser, applicationID)
			Expect(err).To(BeNil())

			// round 2 is still pending
			_, err = appSrv.Advance(context.TODO(), companyUser, applicationID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrPreconditionFailed{}))
		})

		It("lets exactly one of two concurrent advances win", func() {
			var wg sync.WaitGroup
			errs := make([]error, 2)
			for i := 0; i < 2; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					defer GinkgoRecover()
					_, errs[i] = appSrv.Advance(context.TODO(), companyUser, applicationID)
				}(i)
			}
			wg.Wait()

			succeeded := 0
			for _, err := range errs {
				if err == nil {
					succeeded++
				}
			}
			Expect(succeeded).To(Equal(1))

			application, err := s.Application().Get(context.TODO(), applicationID)
			Expect(err).To(BeNil())
			Expect(application.CurrentRound).To(Equal(2))
			Expect(application.InterviewRounds).To(HaveLen(2))
		})
	})

	Context("select and reject", func() {
		var applicationID uuid.UUID

		BeforeEach(func() {
			applicationID = uuid.New()
			Expect(gormdb.Exec(fmt.Sprintf(insertApplicationStm, applicationID, jobPostID, seekerID, "SHORTLISTED", 1)).Error).To(BeNil())
			Expect(gormdb.Exec(fmt.Sprintf(insertRoundStm, uuid.New(), applicationID, 1, "PENDING")).Error).To(BeNil())
		})

		It("selects a shortlisted application that was never evaluated", func() {
			application, err := appSrv.Select(context.TODO(), companyUser, applicationID)
			Expect(err).To(BeNil())
			Expect(application.Status).To(Equal(model.ApplicationStatusSelected))

			notifications := seekerNotifications()
			Expect(notifications).To(HaveLen(1))
			Expect(notifications[0].Kind).To(Equal(model.NotificationKindSelected))
		})

		It("blocks any transition after selection", func() {
			_, err := appSrv.Select(context.TODO(), companyUser, applicationID)
			Expect(err).To(BeNil())

			_, err = appSrv.Reject(context.TODO(), companyUser, applicationID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidStateTransition{}))

			_, err = appSrv.Advance(context.TODO(), companyUser, applicationID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidStateTransition{}))

			_, err = appSrv.Select(context.TODO(), companyUser, applicationID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidStateTransition{}))
		})

		It("rejects an in-flight application", func() {
			application, err := appSrv.Reject(context.TODO(), companyUser, applicationID)
			Expect(err).To(BeNil())
			Expect(application.Status).To(Equal(model.ApplicationStatusRejected))

			notifications := seekerNotifications()
			Expect(notifications).To(HaveLen(1))
			Expect(notifications[0].Kind).To(Equal(model.NotificationKindRejected))
		})

		It("does not reject a pending application", func() {
			pendingID := uuid.New()
			otherJobPostID := uuid.New()
			Expect(gormdb.Exec(fmt.Sprintf(insertJobPostStm, otherJobPostID, companyID, "Platform Engineer", "ACTIVE")).Error).To(BeNil())
			Expect(gormdb.Exec(fmt.Sprintf(insertApplicationStm, pendingID, otherJobPostID, seekerID, "PENDING", 0)).Error).To(BeNil())

			_, err := appSrv.Reject(context.TODO(), companyUser, pendingID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidStateTransition{}))
		})
	})

	Context("withdraw", func() {
		var applicationID uuid.UUID

		BeforeEach(func() {
			applicationID = uuid.New()
			Expect(gormdb.Exec(fmt.Sprintf(insertApplicationStm, applicationID, jobPostID, seekerID, "SHORTLISTED", 1)).Error).To(BeNil())
			Expect(gormdb.Exec(fmt.Sprintf(insertRoundStm, uuid.New(), applicationID, 1, "PENDING")).Error).To(BeNil())
		})

		It("removes the application, its rounds and the seeker's notifications", func() {
			// a notification referencing the application
			notificationSrv := service.NewNotificationService(s, producer)
			_, err := notificationSrv.Emit(context.TODO(), seekerUser.ID, "Application shortlisted", "round 1", model.NotificationKindShortlisted, &applicationID)
			Expect(err).To(BeNil())

			Expect(appSrv.Withdraw(context.TODO(), seekerUser, applicationID)).To(Succeed())

			_, err = s.Application().Get(context.TODO(), applicationID)
			Expect(err).To(MatchError(store.ErrRecordNotFound))

			rounds, err := s.InterviewRound().List(context.TODO(), applicationID)
			Expect(err).To(BeNil())
			Expect(rounds).To(BeEmpty())

			Expect(seekerNotifications()).To(BeEmpty())

			// the company hears about the withdrawal
			companyNotifications, err := s.Notification().List(context.TODO(), store.NewNotificationQueryFilter().ByUserID(companyUser.ID))
			Expect(err).To(BeNil())
			Expect(companyNotifications).To(HaveLen(1))
			Expect(companyNotifications[0].Kind).To(Equal(model.NotificationKindWithdrawn))
			Expect(companyNotifications[0].ApplicationID).To(BeNil())
		})

		It("refuses to withdraw a selected application", func() {
			moved, err := s.Application().UpdateStatus(context.TODO(), applicationID, model.ApplicationStatusShortlisted, model.ApplicationStatusSelected)
			Expect(err).To(BeNil())
			Expect(moved).To(BeTrue())

			err = appSrv.Withdraw(context.TODO(), seekerUser, applicationID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidStateTransition{}))
		})

		It("denies another seeker", func() {
			otherSeekerUserID := uuid.New()
			Expect(gormdb.Exec(fmt.Sprintf(insertUserStm, otherSeekerUserID, "other@mail.io", "JOB_SEEKER")).Error).To(BeNil())
			Expect(gormdb.Exec(fmt.Sprintf(insertSeekerStm, uuid.New(), otherSeekerUserID, "Dev Two", "", "")).Error).To(BeNil())

			otherSeekerUser := auth.User{ID: otherSeekerUserID, Role: auth.RoleJobSeeker}
			err := appSrv.Withdraw(context.TODO(), otherSeekerUser, applicationID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrAccessDenied{}))
		})

		It("denies the company", func() {
			err := appSrv.Withdraw(context.TODO(), companyUser, applicationID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrAccessDenied{}))
		})
	})

	Context("full pipeline", func() {
		It("walks an application from apply to selection", func() {
			application, err := appSrv.Apply(context.TODO(), seekerUser, jobPostID, service.ApplyInput{})
			Expect(err).To(BeNil())

			application, err = appSrv.Shortlist(context.TODO(), companyUser, application.ID)
			Expect(err).To(BeNil())

			_, err = appSrv.EvaluateRound(context.TODO(), companyUser, application.InterviewRounds[0].ID, model.RoundStatusQualified, nil)
			Expect(err).To(BeNil())

			application, err = appSrv.Advance(context.TODO(), companyUser, application.ID)
			Expect(err).To(BeNil())
			Expect(application.CurrentRound).To(Equal(2))

			_, err = appSrv.EvaluateRound(context.TODO(), companyUser, application.InterviewRounds[1].ID, model.RoundStatusQualified, nil)
			Expect(err).To(BeNil())

			application, err = appSrv.Select(context.TODO(), companyUser, application.ID)
			Expect(err).To(BeNil())
			Expect(application.Status).To(Equal(model.ApplicationStatusSelected))

			// one notification per seeker-facing transition
			Expect(seekerNotifications()).To(HaveLen(4))
		})
	})
})
