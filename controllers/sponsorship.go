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

func OpportunityCreate(c *gin.Context) {
	var request types.OpportunityRequest
	if !bind(c, &request) {
		return
	}
	if request.Deadline != nil && pastDeadline(*request.Deadline) {
		c.Error(errs.ErrDeadlinePassed)
		return
	}
	if !checkCallRef(c, request.StartupCallID) {
		return
	}

	opp := models.SponsorshipOpportunity{
		Currency:    "USD",
		Status:      models.OpportunityOpen,
		CreatedByID: currentUser(c).ID,
	}
	applyOpportunityRequest(&opp, &request)
	if !run(c, func(db *gorm.DB) error { return db.Create(&opp).Error }) {
		return
	}
	created(c, opp)
}

func applyOpportunityRequest(o *models.SponsorshipOpportunity, r *types.OpportunityRequest) {
	o.Title = r.Title
	o.Description = r.Description
	o.Benefits = r.Benefits
	o.MinAmount = r.MinAmount
	o.MaxAmount = r.MaxAmount
	o.Deadline = r.Deadline
	o.StartupCallID = r.StartupCallID
	if r.Currency != "" {
		o.Currency = r.Currency
	}
	if r.Status != "" {
		o.Status = r.Status
	}
}

func checkCallRef(c *gin.Context, id *uint) bool {
	if id == nil {
		return true
	}
	var call models.StartupCall
	return find(c, &call, *id, errs.ErrCallNotFound)
}

// OpportunityList shows only open opportunities to everyone but admins.
func OpportunityList(c *gin.Context) {
	admin := isAdmin(c)
	status := c.Query("status")

	list[models.SponsorshipOpportunity](c, func(db *gorm.DB) *gorm.DB {
		if !admin {
			db = db.Where("status = ?", models.OpportunityOpen)
		}
		if status != "" {
			db = db.Where("status = ?", status)
		}
		return db
	}, "id desc")
}

func loadOpportunity(c *gin.Context, opp *models.SponsorshipOpportunity) bool {
	id, valid := paramID(c, "id")
	if !valid {
		return false
	}
	if !find(c, opp, id, errs.ErrOpportunityNotFound) {
		return false
	}
	if opp.Status != models.OpportunityOpen && !isAdmin(c) {
		c.Error(errs.ErrOpportunityNotFound)
		return false
	}
	return true
}

func OpportunityGet(c *gin.Context) {
	var opp models.SponsorshipOpportunity
	if !loadOpportunity(c, &opp) {
		return
	}
	ok(c, "", opp)
}

func OpportunityUpdate(c *gin.Context) {
	var request types.OpportunityRequest
	if !bind(c, &request) {
		return
	}
	var opp models.SponsorshipOpportunity
	if !loadOpportunity(c, &opp) {
		return
	}
	changed := request.Deadline != nil && (opp.Deadline == nil || !request.Deadline.Equal(*opp.Deadline))
	if changed && pastDeadline(*request.Deadline) {
		c.Error(errs.ErrDeadlinePassed)
		return
	}
	if !checkCallRef(c, request.StartupCallID) {
		return
	}
	applyOpportunityRequest(&opp, &request)
	if !run(c, func(db *gorm.DB) error { return db.Save(&opp).Error }) {
		return
	}
	ok(c, "updated", opp)
}

func OpportunityDelete(c *gin.Context) {
	var opp models.SponsorshipOpportunity
	if !loadOpportunity(c, &opp) {
		return
	}
	if !run(c, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("opportunity_id = ?", opp.ID).Delete(&models.SponsorshipApplication{}).Error; err != nil {
				return err
			}
			return tx.Delete(&opp).Error
		})
	}) {
		return
	}
	deleted(c)
}

func SponsorshipApply(c *gin.Context) {
	var request types.SponsorshipRequest
	if !bind(c, &request) {
		return
	}
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var opp models.SponsorshipOpportunity
	if !find(c, &opp, id, errs.ErrOpportunityNotFound) {
		return
	}
	if opp.Status != models.OpportunityOpen || (opp.Deadline != nil && opp.Deadline.Before(time.Now())) {
		c.Error(errs.ErrOpportunityClosed)
		return
	}
	if !opp.Accepts(request.Amount) {
		c.Error(errs.ErrAmountOutOfRange)
		return
	}

	app := models.SponsorshipApplication{
		OpportunityID: opp.ID,
		SponsorID:     currentUser(c).ID,
		SponsorName:   request.SponsorName,
		Amount:        request.Amount,
		Message:       request.Message,
		Status:        models.SponsorshipPending,
	}
	if !run(c, func(db *gorm.DB) error { return db.Omit("Opportunity").Create(&app).Error }) {
		return
	}

	tasks.Dispatch(tasks.TypeSponsorshipStatus, app.ID)
	app.Opportunity = opp
	created(c, app)
}

// SponsorshipList shows sponsors their own applications; admins see all.
func SponsorshipList(c *gin.Context) {
	user := currentUser(c)
	oppID, hasOpp, valid := queryID(c, "opportunity_id")
	if !valid {
		return
	}
	status := c.Query("status")

	list[models.SponsorshipApplication](c, func(db *gorm.DB) *gorm.DB {
		if user.Role == models.RoleSponsor {
			db = db.Where("sponsor_id = ?", user.ID)
		}
		if hasOpp {
			db = db.Where("opportunity_id = ?", oppID)
		}
		if status != "" {
			db = db.Where("status = ?", status)
		}
		return db
	}, "id desc", "Opportunity")
}

// SponsorshipUpdateStatus lets admins approve or reject pending applications and lets
// the sponsor withdraw one that is still pending.
func SponsorshipUpdateStatus(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var request types.StatusRequest
	if !bind(c, &request) {
		return
	}
	var app models.SponsorshipApplication
	if !find(c, &app, id, errs.ErrSponsorshipNotFound) {
		return
	}

	user := currentUser(c)
	switch request.Status {
	case models.SponsorshipApproved, models.SponsorshipRejected:
		if user.Role != models.RoleAdmin {
			c.Error(errs.ErrForbidden)
			return
		}
	case models.SponsorshipWithdrawn:
		if app.SponsorID != user.ID {
			c.Error(errs.ErrForbidden)
			return
		}
	default:
		c.Error(errs.ErrInvalidStatus)
		return
	}
	if app.Status != models.SponsorshipPending {
		c.Error(errs.ErrInvalidTransition)
		return
	}

	if !run(c, func(db *gorm.DB) error {
		res := db.Model(&models.SponsorshipApplication{}).
			Where("id = ? AND status = ?", app.ID, models.SponsorshipPending).
			Update("status", request.Status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.ErrInvalidTransition
		}
		return nil
	}) {
		return
	}
	app.Status = request.Status

	tasks.Dispatch(tasks.TypeSponsorshipStatus, app.ID)
	ok(c, "updated", app)
}
