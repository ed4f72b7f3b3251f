package service_test

import (
	"context"
	"fmt"

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

var _ = Describe("notification service", Ordered, func() {
	var (
		s        store.Store
		gormdb   *gorm.DB
		producer *events.EventProducer
		srv      *service.NotificationService

		user auth.User
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())

		producer = events.NewEventProducer(&events.StdoutWriter{})
		srv = service.NewNotificationService(s, producer)
	})

	AfterAll(func() {
		producer.Close()
		s.Close()
	})

	BeforeEach(func() {
		userID := uuid.New()
		Expect(gormdb.Exec(fmt.Sprintf(insertUserStm, userID, "dev@mail.io", "JOB_SEEKER")).Error).To(BeNil())
		user = auth.User{ID: userID, Role: auth.RoleJobSeeker}
	})

	AfterEach(func() {
		Expect(gormdb.Exec("DELETE FROM notifications").Error).To(BeNil())
		Expect(gormdb.Exec("DELETE FROM users").Error).To(BeNil())
	})

	It("emits and lists unread first", func() {
		_, err := srv.Emit(context.TODO(), user.ID, "Application shortlisted", "round 1", model.NotificationKindShortlisted, nil)
		Expect(err).To(BeNil())

		notifications, err := srv.ListNotifications(context.TODO(), user, true)
		Expect(err).To(BeNil())
		Expect(notifications).To(HaveLen(1))
		Expect(notifications[0].Read).To(BeFalse())
	})

	It("marks a notification read for its owner", func() {
		notification, err := srv.Emit(context.TODO(), user.ID, "Application update", "", model.NotificationKindRejected, nil)
		Expect(err).To(BeNil())

		Expect(srv.MarkRead(context.TODO(), user, notification.ID)).To(Succeed())

		unread, err := srv.ListNotifications(context.TODO(), user, true)
		Expect(err).To(BeNil())
		Expect(unread).To(BeEmpty())
	})

	It("denies marking someone else's notification", func() {
		notification, err := srv.Emit(context.TODO(), user.ID, "Application update", "", model.NotificationKindRejected, nil)
		Expect(err).To(BeNil())

		otherUserID := uuid.New()
		Expect(gormdb.Exec(fmt.Sprintf(insertUserStm, otherUserID, "other@mail.io", "JOB_SEEKER")).Error).To(BeNil())

		err = srv.MarkRead(context.TODO(), auth.User{ID: otherUserID, Role: auth.RoleJobSeeker}, notification.ID)
		Expect(err).To(BeAssignableToTypeOf(&service.ErrAccessDenied{}))
	})

	It("returns not found for a missing notification", func() {
		err := srv.MarkRead(context.TODO(), user, uuid.New())
		Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
	})

	It("marks all read", func() {
		_, err := srv.Emit(context.TODO(), user.ID, "n1", "", model.NotificationKindShortlisted, nil)
		Expect(err).To(BeNil())
		_, err = srv.Emit(context.TODO(), user.ID, "n2", "", model.NotificationKindNextRound, nil)
		Expect(err).To(BeNil())

		Expect(srv.MarkAllRead(context.TODO(), user)).To(Succeed())

		unread, err := srv.ListNotifications(context.TODO(), user, true)
		Expect(err).To(BeNil())
		Expect(unread).To(BeEmpty())
	})
})
