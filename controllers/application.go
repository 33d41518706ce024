package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"startuphub/api/errs"
	"startuphub/api/types"
	"startuphub/models"
	"startuphub/tasks"
)

func ApplicationCreate(c *gin.Context) {
	callID, valid := paramID(c, "id")
	if !valid {
		return
	}
	var request types.ApplicationRequest
	if !bind(c, &request) {
		return
	}

	var call models.StartupCall
	if !find(c, &call, callID, errs.ErrCallNotFound) {
		return
	}
	if !call.Open(time.Now()) {
		c.Error(errs.ErrCallNotOpen)
		return
	}

	app := models.Application{
		StartupCallID:    call.ID,
		ApplicantID:      currentUser(c).ID,
		StartupName:      request.StartupName,
		Website:          request.Website,
		TeamSize:         request.TeamSize,
		Pitch:            request.Pitch,
		FundingRequested: request.FundingRequested,
		Status:           models.ApplicationSubmitted,
		SubmittedAt:      time.Now(),
	}
	if !run(c, func(db *gorm.DB) error {
		var count int64
		if err := db.Model(&models.Application{}).
			Where("startup_call_id = ? AND applicant_id = ?", app.StartupCallID, app.ApplicantID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.ErrApplicationConflict
		}
		return duplicate(db.Omit("StartupCall", "Applicant").Create(&app).Error, errs.ErrApplicationConflict)
	}) {
		return
	}

	tasks.Dispatch(tasks.TypeApplicationStatus, app.ID)
	created(c, app)
}

// ApplicationList shows entrepreneurs their own applications; admins and reviewers see all.
func ApplicationList(c *gin.Context) {
	user := currentUser(c)
	callID, hasCall, valid := queryID(c, "call_id")
	if !valid {
		return
	}
	status := c.Query("status")

	list[models.Application](c, func(db *gorm.DB) *gorm.DB {
		if user.Role == models.RoleEntrepreneur {
			db = db.Where("applicant_id = ?", user.ID)
		}
		if hasCall {
			db = db.Where("startup_call_id = ?", callID)
		}
		if status != "" {
			db = db.Where("status = ?", status)
		}
		return db
	}, "submitted_at desc", "StartupCall", "Applicant")
}

// loadApplication fetches an application the current user is allowed to see.
func loadApplication(c *gin.Context, app *models.Application, preload ...string) bool {
	id, valid := paramID(c, "id")
	if !valid {
		return false
	}
	if !find(c, app, id, errs.ErrApplicationNotFound, preload...) {
		return false
	}
	user := currentUser(c)
	if user.Role == models.RoleEntrepreneur && app.ApplicantID != user.ID {
		c.Error(errs.ErrApplicationNotFound)
		return false
	}
	if user.Role == models.RoleSponsor {
		c.Error(errs.ErrForbidden)
		return false
	}
	return true
}

func ApplicationGet(c *gin.Context) {
	var app models.Application
	if !loadApplication(c, &app, "StartupCall", "Applicant") {
		return
	}
	ok(c, "", app)
}

func ApplicationUpdateStatus(c *gin.Context) {
	var request types.StatusRequest
	if !bind(c, &request) {
		return
	}
	var app models.Application
	if !loadApplication(c, &app) {
		return
	}
	if err := transitionApplication(c, &app, request.Status); err != nil {
		c.Error(err)
		return
	}
	ok(c, "updated", app)
}

func ApplicationWithdraw(c *gin.Context) {
	var app models.Application
	if !loadApplication(c, &app) {
		return
	}
	if app.ApplicantID != currentUser(c).ID {
		c.Error(errs.ErrForbidden)
		return
	}
	if err := transitionApplication(c, &app, models.ApplicationWithdrawn); err != nil {
		c.Error(err)
		return
	}
	ok(c, "withdrawn", app)
}

func transitionApplication(c *gin.Context, app *models.Application, status string) error {
	if !models.CanTransition(app.Status, status) {
		return errs.ErrInvalidTransition
	}
	from := app.Status
	err := models.Run(c.Request.Context(), func(db *gorm.DB) error {
		res := db.Model(&models.Application{}).
			Where("id = ? AND status = ?", app.ID, from).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return err
	}
	app.Status = status
	tasks.Dispatch(tasks.TypeApplicationStatus, app.ID)
	return nil
}
