package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "quantumpartners/internal/errors"
	"quantumpartners/internal/logger"
	"quantumpartners/internal/models"
	"quantumpartners/internal/pagination"
)

// notificationService handles the per-user activity feed.
type notificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB) NotificationServicer {
	return &notificationService{db: db}
}

// Append records a feed entry. Errors are logged but never propagate, so a
// failed append cannot fail the ledger write it annotates.
func (s *notificationService) Append(userID string, notificationType models.NotificationType, message string) {
	entry := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Message: message,
		Date:    time.Now(),
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to append notification",
			"error", err,
			"user_id", userID,
			"type", notificationType,
		)
	}
}

// ListForUser returns the user's feed, newest first. The whole feed is
// loaded and paginated in memory; the feed is unbounded and has no
// storage-level pagination.
func (s *notificationService) ListForUser(userID string, typeFilter *models.NotificationType, page pagination.PageRequest) (*pagination.PageResponse[models.Notification], error) {
	page.Defaults()

	var notifications []models.Notification
	if err := s.db.Where("user_id = ?", userID).Find(&notifications).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if typeFilter != nil {
		filtered := notifications[:0]
		for _, n := range notifications {
			if n.Type == *typeFilter {
				filtered = append(filtered, n)
			}
		}
		notifications = filtered
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].Date.After(notifications[j].Date)
	})

	total := int64(len(notifications))
	start := page.Offset()
	if start > len(notifications) {
		start = len(notifications)
	}
	end := start + page.PageSize
	if end > len(notifications) {
		end = len(notifications)
	}

	result := pagination.NewPageResponse(notifications[start:end], page.Page, page.PageSize, total)
	return &result, nil
}

// MarkAllRead marks every entry in the user's feed as read.
func (s *notificationService) MarkAllRead(userID string) error {
	if err := s.db.Model(&models.Notification{}).Where("user_id = ?", userID).Update("read", true).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Delete removes a single entry from the user's feed.
func (s *notificationService) Delete(userID, notificationID string) error {
	res := s.db.Where("id = ? AND user_id = ?", notificationID, userID).Delete(&models.Notification{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotificationMissing
	}
	return nil
}

// Clear removes every entry from the user's feed.
func (s *notificationService) Clear(userID string) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&models.Notification{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
