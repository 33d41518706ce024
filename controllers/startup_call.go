package controllers

import (
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"startuphub/api/errs"
	"startuphub/api/types"
	"startuphub/models"
)

var callStatuses = []string{models.CallDraft, models.CallPublished, models.CallClosed, models.CallArchived}

func StartupCallCreate(c *gin.Context) {
	var request types.StartupCallRequest
	if !bind(c, &request) {
		return
	}
	if pastDeadline(request.ApplicationDeadline) {
		c.Error(errs.ErrDeadlinePassed)
		return
	}

	call := models.StartupCall{CreatedByID: currentUser(c).ID}
	applyCallRequest(&call, &request)
	if call.Status == "" {
		call.Status = models.CallDraft
	}

	if !run(c, func(db *gorm.DB) error { return db.Create(&call).Error }) {
		return
	}
	created(c, call)
}

func applyCallRequest(call *models.StartupCall, r *types.StartupCallRequest) {
	call.Title = r.Title
	call.Description = r.Description
	call.Industry = r.Industry
	call.Location = r.Location
	call.ApplicationDeadline = r.ApplicationDeadline
	call.FundingAmount = r.FundingAmount
	call.EligibilityCriteria = r.EligibilityCriteria
	call.RequiredDocuments = r.RequiredDocuments
	if r.Status != "" {
		call.Status = r.Status
	}
}

// StartupCallList shows every call to admins and only published or closed calls to others.
func StartupCallList(c *gin.Context) {
	status := c.Query("status")
	industry := c.Query("industry")
	q := strings.TrimSpace(c.Query("q"))
	admin := isAdmin(c)

	list[models.StartupCall](c, func(db *gorm.DB) *gorm.DB {
		if !admin {
			db = db.Where("status IN ?", []string{models.CallPublished, models.CallClosed})
		}
		if status != "" {
			db = db.Where("status = ?", status)
		}
		if industry != "" {
			db = db.Where("industry = ?", industry)
		}
		if q != "" {
			like := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
		return db
	}, "application_deadline asc")
}

func StartupCallGet(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var call models.StartupCall
	if !find(c, &call, id, errs.ErrCallNotFound) {
		return
	}
	if !isAdmin(c) && call.Status != models.CallPublished && call.Status != models.CallClosed {
		c.Error(errs.ErrCallNotFound)
		return
	}
	ok(c, "", call)
}

func StartupCallUpdate(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var request types.StartupCallRequest
	if !bind(c, &request) {
		return
	}

	var call models.StartupCall
	if !find(c, &call, id, errs.ErrCallNotFound) {
		return
	}
	if !request.ApplicationDeadline.Equal(call.ApplicationDeadline) && pastDeadline(request.ApplicationDeadline) {
		c.Error(errs.ErrDeadlinePassed)
		return
	}
	applyCallRequest(&call, &request)

	if !run(c, func(db *gorm.DB) error { return db.Save(&call).Error }) {
		return
	}
	ok(c, "updated", call)
}

func StartupCallUpdateStatus(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var request types.StatusRequest
	if !bind(c, &request) {
		return
	}
	if !slices.Contains(callStatuses, request.Status) {
		c.Error(errs.ErrInvalidStatus)
		return
	}

	var call models.StartupCall
	if !find(c, &call, id, errs.ErrCallNotFound) {
		return
	}
	if request.Status == models.CallPublished && !call.ApplicationDeadline.After(time.Now()) {
		c.Error(errs.ErrDeadlinePassed)
		return
	}
	if !run(c, func(db *gorm.DB) error {
		return db.Model(&call).Update("status", request.Status).Error
	}) {
		return
	}
	ok(c, "updated", call)
}

func StartupCallDelete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var call models.StartupCall
	if !find(c, &call, id, errs.ErrCallNotFound) {
		return
	}

	if !run(c, func(db *gorm.DB) error {
		var count int64
		if err := db.Model(&models.Application{}).Where("startup_call_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.ErrCallHasApplications
		}
		return db.Delete(&call).Error
	}) {
		return
	}
	deleted(c)
}
