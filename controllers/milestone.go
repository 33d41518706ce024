package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"startuphub/api/errs"
	"startuphub/api/types"
	"startuphub/models"
)

func MilestoneCreate(c *gin.Context) {
	var request types.MilestoneRequest
	if !bind(c, &request) {
		return
	}
	var startup models.Startup
	if !loadStartup(c, "id", true, &startup) {
		return
	}

	milestone := models.Milestone{StartupID: startup.ID, Status: models.MilestonePending}
	applyMilestoneRequest(&milestone, &request)
	if !run(c, func(db *gorm.DB) error { return db.Create(&milestone).Error }) {
		return
	}
	created(c, milestone)
}

func applyMilestoneRequest(m *models.Milestone, r *types.MilestoneRequest) {
	m.Title = r.Title
	m.Description = r.Description
	m.DueDate = r.DueDate
	if r.Status != "" {
		m.Status = r.Status
	}
}

func MilestoneList(c *gin.Context) {
	var startup models.Startup
	if !loadStartup(c, "id", false, &startup) {
		return
	}
	status := c.Query("status")
	list[models.Milestone](c, func(db *gorm.DB) *gorm.DB {
		db = db.Where("startup_id = ?", startup.ID)
		if status != "" {
			db = db.Where("status = ?", status)
		}
		return db
	}, "due_date asc")
}

func loadMilestone(c *gin.Context, milestone *models.Milestone) bool {
	id, valid := paramID(c, "id")
	if !valid {
		return false
	}
	if !find(c, milestone, id, errs.ErrMilestoneNotFound) {
		return false
	}
	var startup models.Startup
	return startupAccess(c, milestone.StartupID, true, &startup)
}

func MilestoneUpdate(c *gin.Context) {
	var request types.MilestoneRequest
	if !bind(c, &request) {
		return
	}
	var milestone models.Milestone
	if !loadMilestone(c, &milestone) {
		return
	}
	applyMilestoneRequest(&milestone, &request)
	if !run(c, func(db *gorm.DB) error { return db.Save(&milestone).Error }) {
		return
	}
	ok(c, "updated", milestone)
}

func MilestoneDelete(c *gin.Context) {
	var milestone models.Milestone
	if !loadMilestone(c, &milestone) {
		return
	}
	if !run(c, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Task{}).
				Where("milestone_id = ?", milestone.ID).
				Update("milestone_id", nil).Error; err != nil {
				return err
			}
			return tx.Delete(&milestone).Error
		})
	}) {
		return
	}
	deleted(c)
}
