package database

import (
	"context"
	"time"

	"qrhub-admin/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Session{},
		&models.BatchNotification{},
	)
}

// PurgeExpiredSessions deletes sessions that expired or were revoked before
// now, together with their notifications.
func PurgeExpiredSessions(db *gorm.DB, now time.Time) (int64, error) {
	var purged int64
	err := db.Transaction(func(tx *gorm.DB) error {
		stale := tx.Model(&models.Session{}).
			Select("id").
			Where("expires_at < ? OR revoked_at IS NOT NULL", now)

		if err := tx.Where("session_id IN (?)", stale).Delete(&models.BatchNotification{}).Error; err != nil {
			return err
		}

		res := tx.Where("expires_at < ? OR revoked_at IS NOT NULL", now).Delete(&models.Session{})
		if res.Error != nil {
			return res.Error
		}
		purged = res.RowsAffected
		return nil
	})
	return purged, err
}

// RunJanitor purges stale sessions every interval until ctx is done.
func RunJanitor(ctx context.Context, db *gorm.DB, interval time.Duration, log *logrus.Entry) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := PurgeExpiredSessions(db, now)
			if err != nil {
				log.WithError(err).Warn("Failed to purge expired sessions")
				continue
			}
			if n > 0 {
				log.WithField("sessions", n).Info("Purged expired sessions")
			}
		}
	}
}

// RecordNotification stores a terminal job outcome for the session.
func RecordNotification(db *gorm.DB, n *models.BatchNotification) error {
	return db.Create(n).Error
}
