package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"startuphub/api/errs"
	"startuphub/api/types"
	"startuphub/models"
	"startuphub/tasks"
)

func applyReviewRequest(review *models.Review, r *types.ReviewRequest) {
	review.InnovationScore = r.InnovationScore
	review.MarketScore = r.MarketScore
	review.TeamScore = r.TeamScore
	review.ExecutionScore = r.ExecutionScore
	review.Feedback = r.Feedback
	if r.Status != "" {
		review.Status = r.Status
	}
	review.Score()
}

func ReviewCreate(c *gin.Context) {
	var request types.ReviewRequest
	if !bind(c, &request) {
		return
	}
	var app models.Application
	if !loadApplication(c, &app) {
		return
	}

	review := models.Review{
		ApplicationID: app.ID,
		ReviewerID:    currentUser(c).ID,
		Status:        models.ReviewCompleted,
	}
	applyReviewRequest(&review, &request)

	if !run(c, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			return createReview(tx, &review)
		})
	}) {
		return
	}

	if review.Status == models.ReviewCompleted {
		tasks.Dispatch(tasks.TypeReviewSubmitted, review.ID)
	}
	created(c, review)
}

func createReview(db *gorm.DB, review *models.Review) error {
	var count int64
	if err := db.Model(&models.Review{}).
		Where("application_id = ? AND reviewer_id = ?", review.ApplicationID, review.ReviewerID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errs.ErrReviewConflict
	}
	if err := db.Omit("Reviewer").Create(review).Error; err != nil {
		return err
	}
	// the first review moves a fresh application into review
	return db.Model(&models.Application{}).
		Where("id = ? AND status = ?", review.ApplicationID, models.ApplicationSubmitted).
		Update("status", models.ApplicationUnderReview).Error
}

func ReviewList(c *gin.Context) {
	var app models.Application
	if !loadApplication(c, &app) {
		return
	}
	user := currentUser(c)

	list[models.Review](c, func(db *gorm.DB) *gorm.DB {
		db = db.Where("application_id = ?", app.ID)
		if user.Role == models.RoleReviewer {
			db = db.Where("reviewer_id = ?", user.ID)
		}
		return db
	}, "id asc", "Reviewer")
}

func ReviewUpdate(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var request types.ReviewRequest
	if !bind(c, &request) {
		return
	}

	var review models.Review
	if !find(c, &review, id, errs.ErrReviewNotFound) {
		return
	}
	user := currentUser(c)
	if user.Role != models.RoleAdmin && review.ReviewerID != user.ID {
		c.Error(errs.ErrForbidden)
		return
	}
	wasCompleted := review.Status == models.ReviewCompleted
	applyReviewRequest(&review, &request)

	if !run(c, func(db *gorm.DB) error { return db.Omit("Reviewer").Save(&review).Error }) {
		return
	}
	if !wasCompleted && review.Status == models.ReviewCompleted {
		tasks.Dispatch(tasks.TypeReviewSubmitted, review.ID)
	}
	ok(c, "updated", review)
}
