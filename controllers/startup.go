package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"startuphub/api/errs"
	"startuphub/api/types"
	"startuphub/models"
)

func StartupCreate(c *gin.Context) {
	var request types.StartupRequest
	if !bind(c, &request) {
		return
	}
	if !checkCallRef(c, request.StartupCallID) {
		return
	}

	startup := models.Startup{FounderID: currentUser(c).ID}
	applyStartupRequest(&startup, &request)
	if !run(c, func(db *gorm.DB) error { return db.Create(&startup).Error }) {
		return
	}
	created(c, startup)
}

func applyStartupRequest(s *models.Startup, r *types.StartupRequest) {
	s.Name = r.Name
	s.Description = r.Description
	s.Industry = r.Industry
	s.Stage = r.Stage
	s.StartupCallID = r.StartupCallID
}

func StartupList(c *gin.Context) {
	user := currentUser(c)
	industry := c.Query("industry")
	q := strings.TrimSpace(c.Query("q"))

	list[models.Startup](c, func(db *gorm.DB) *gorm.DB {
		if user.Role == models.RoleEntrepreneur {
			db = db.Where("founder_id = ?", user.ID)
		}
		if industry != "" {
			db = db.Where("industry = ?", industry)
		}
		if q != "" {
			db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
		return db
	}, "id asc")
}

// loadStartup fetches the startup named by param. With write set only the founder or an
// admin gets it; entrepreneurs never see other founders' startups.
func loadStartup(c *gin.Context, param string, write bool, startup *models.Startup) bool {
	id, valid := paramID(c, param)
	if !valid {
		return false
	}
	return startupAccess(c, id, write, startup)
}

func startupAccess(c *gin.Context, id uint, write bool, startup *models.Startup) bool {
	if !find(c, startup, id, errs.ErrStartupNotFound) {
		return false
	}
	user := currentUser(c)
	owner := startup.FounderID == user.ID
	switch {
	case owner || user.Role == models.RoleAdmin:
		return true
	case user.Role == models.RoleEntrepreneur:
		c.Error(errs.ErrStartupNotFound)
		return false
	case write:
		c.Error(errs.ErrForbidden)
		return false
	}
	return true
}

func StartupGet(c *gin.Context) {
	var startup models.Startup
	if !loadStartup(c, "id", false, &startup) {
		return
	}
	if !run(c, func(db *gorm.DB) error {
		return db.Where("startup_id = ?", startup.ID).Order("due_date asc").Find(&startup.Milestones).Error
	}) {
		return
	}
	ok(c, "", startup)
}

func StartupUpdate(c *gin.Context) {
	var request types.StartupRequest
	if !bind(c, &request) {
		return
	}
	var startup models.Startup
	if !loadStartup(c, "id", true, &startup) {
		return
	}
	if !checkCallRef(c, request.StartupCallID) {
		return
	}
	applyStartupRequest(&startup, &request)
	if !run(c, func(db *gorm.DB) error { return db.Omit("Milestones").Save(&startup).Error }) {
		return
	}
	ok(c, "updated", startup)
}

func StartupDelete(c *gin.Context) {
	var startup models.Startup
	if !loadStartup(c, "id", true, &startup) {
		return
	}
	if !run(c, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("startup_id = ?", startup.ID).Delete(&models.Task{}).Error; err != nil {
				return err
			}
			if err := tx.Where("startup_id = ?", startup.ID).Delete(&models.Milestone{}).Error; err != nil {
				return err
			}
			return tx.Delete(&startup).Error
		})
	}) {
		return
	}
	deleted(c)
}
