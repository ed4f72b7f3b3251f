package store_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/config"
	"github.com/hiredeck/hiredeck/internal/store"
	"github.com/hiredeck/hiredeck/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

const insertBareNotificationStm = "INSERT INTO notifications (id, created_at, user_id, title, kind, read) VALUES ('%s', CURRENT_TIMESTAMP, '%s', '%s', '%s', %s);"

var _ = Describe("notification store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB

		userID uuid.UUID
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db

		Expect(s.InitialMigration()).To(Succeed())
	})

	AfterAll(func() {
		s.Close()
	})

	BeforeEach(func() {
		userID = uuid.New()
		Expect(gormdb.Exec(fmt.Sprintf(insertUserStm, userID, "dev@mail.io", "JOB_SEEKER")).Error).To(BeNil())
	})

	AfterEach(func() {
		Expect(gormdb.Exec("DELETE FROM notifications").Error).To(BeNil())
		Expect(gormdb.Exec("DELETE FROM users").Error).To(BeNil())
	})

	Context("list", func() {
		It("returns only the user's notifications", func() {
			otherUserID := uuid.New()
			Expect(gormdb.Exec(fmt.Sprintf(insertUserStm, otherUserID, "other@mail.io", "JOB_SEEKER")).Error).To(BeNil())

			Expect(gormdb.Exec(fmt.Sprintf(insertBareNotificationStm, uuid.New(), userID, "n1", "SHORTLISTED", "FALSE")).Error).To(BeNil())
			Expect(gormdb.Exec(fmt.Sprintf(insertBareNotificationStm, uuid.New(), otherUserID, "n2", "SELECTED", "FALSE")).Error).To(BeNil())

			notifications, err := s.Notification().List(context.TODO(), store.NewNotificationQueryFilter().ByUserID(userID))
			Expect(err).To(BeNil())
			Expect(notifications).To(HaveLen(1))
			Expect(notifications[0].Title).To(Equal("n1"))
		})

		It("filters unread ones", func() {
			Expect(gormdb.Exec(fmt.Sprintf(insertBareNotificationStm, uuid.New(), userID, "read", "SHORTLISTED", "TRUE")).Error).To(BeNil())
			Expect(gormdb.Exec(fmt.Sprintf(insertBareNotificationStm, uuid.New(), userID, "unread", "REJECTED", "FALSE")).Error).To(BeNil())

			notifications, err := s.Notification().List(context.TODO(), store.NewNotificationQueryFilter().ByUserID(userID).ByUnread())
			Expect(err).To(BeNil())
			Expect(notifications).To(HaveLen(1))
			Expect(notifications[0].Title).To(Equal("unread"))
		})
	})

	Context("mark read", func() {
		It("flips the read flag", func() {
			notificationID := uuid.New()
			Expect(gormdb.Exec(fmt.Sprintf(insertBareNotificationStm, notificationID, userID, "n1", "SHORTLISTED", "FALSE")).Error).To(BeNil())

			Expect(s.Notification().MarkRead(context.TODO(), notificationID)).To(Succeed())

			notification, err := s.Notification().Get(context.TODO(), notificationID)
			Expect(err).To(BeNil())
			Expect(notification.Read).To(BeTrue())
		})

		It("returns ErrRecordNotFound for a missing id", func() {
			err := s.Notification().MarkRead(context.TODO(), uuid.New())
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})

		It("marks everything read for one user only", func() {
			otherUserID := uuid.New()
			Expect(gormdb.Exec(fmt.Sprintf(insertUserStm, otherUserID, "other@mail.io", "JOB_SEEKER")).Error).To(BeNil())

			Expect(gormdb.Exec(fmt.Sprintf(insertBareNotificationStm, uuid.New(), userID, "n1", "SHORTLISTED", "FALSE")).Error).To(BeNil())
			Expect(gormdb.Exec(fmt.Sprintf(insertBareNotificationStm, uuid.New(), userID, "n2", "NEXT_ROUND", "FALSE")).Error).To(BeNil())
			Expect(gormdb.Exec(fmt.Sprintf(insertBareNotificationStm, uuid.New(), otherUserID, "n3", "REJECTED", "FALSE")).Error).To(BeNil())

			Expect(s.Notification().MarkAllRead(context.TODO(), userID)).To(Succeed())

			var unread int64
			Expect(gormdb.Model(&model.Notification{}).Where("user_id = ? AND read = ?", userID, false).Count(&unread).Error).To(BeNil())
			Expect(unread).To(BeZero())

			Expect(gormdb.Model(&model.Notification{}).Where("user_id = ? AND read = ?", otherUserID, false).Count(&unread).Error).To(BeNil())
			Expect(unread).To(Equal(int64(1)))
		})
	})
})
