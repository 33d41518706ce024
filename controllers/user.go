package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"startuphub/api/errs"
	"startuphub/api/types"
	"startuphub/models"
	"startuphub/services"
)

func UserList(c *gin.Context) {
	role := models.Role(c.Query("role"))
	if role != "" && !role.Valid() {
		c.Error(errs.ErrInvalidRole)
		return
	}
	list[models.User](c, func(db *gorm.DB) *gorm.DB {
		if role != "" {
			db = db.Where("role = ?", role)
		}
		return db
	}, "id asc")
}

func UserGet(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var user models.User
	if !find(c, &user, id, errs.ErrUserNotFound) {
		return
	}
	ok(c, "", user)
}

func UserUpdateRole(users *services.UserCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := paramID(c, "id")
		if !valid {
			return
		}
		var request types.RoleRequest
		if !bind(c, &request) {
			return
		}

		var user models.User
		if !find(c, &user, id, errs.ErrUserNotFound) {
			return
		}
		if !run(c, func(db *gorm.DB) error {
			return db.Model(&user).Update("role", models.Role(request.Role)).Error
		}) {
			return
		}
		users.Invalidate(c.Request.Context(), user.ID)
		ok(c, "updated", user)
	}
}

func UserDelete(users *services.UserCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := paramID(c, "id")
		if !valid {
			return
		}
		if me := currentUser(c); me != nil && me.ID == id {
			c.Error(errs.ErrForbidden)
			return
		}
		var user models.User
		if !find(c, &user, id, errs.ErrUserNotFound) {
			return
		}
		if !run(c, func(db *gorm.DB) error { return db.Delete(&user).Error }) {
			return
		}
		users.Invalidate(c.Request.Context(), user.ID)
		deleted(c)
	}
}
