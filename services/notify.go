package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"startuphub/models"
)

const (
	KindApplicationStatus = "application_status"
	KindSponsorshipStatus = "sponsorship_status"
	KindReviewSubmitted   = "review_submitted"
	KindCallClosed        = "call_closed"
)

func Notify(ctx context.Context, userID uint, kind, message string) error {
	return models.Run(ctx, func(db *gorm.DB) error {
		return db.Create(&models.Notification{UserID: userID, Kind: kind, Message: message}).Error
	})
}

// NotifyRole sends the same message to every user holding role.
func NotifyRole(ctx context.Context, role models.Role, kind, message string) (int, error) {
	var ids []uint
	err := models.Run(ctx, func(db *gorm.DB) error {
		ids = nil
		return db.Model(&models.User{}).Where("role = ?", role).Pluck("id", &ids).Error
	})
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	notes := make([]models.Notification, 0, len(ids))
	for _, id := range ids {
		notes = append(notes, models.Notification{UserID: id, Kind: kind, Message: message})
	}
	err = models.Run(ctx, func(db *gorm.DB) error {
		return db.Create(&notes).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to notify %s users: %w", role, err)
	}
	return len(notes), nil
}
