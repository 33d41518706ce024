package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"startuphub/api/errs"
	"startuphub/models"
)

func NotificationList(c *gin.Context) {
	user := currentUser(c)
	unread := c.Query("unread") == "true"

	list[models.Notification](c, func(db *gorm.DB) *gorm.DB {
		db = db.Where("user_id = ?", user.ID)
		if unread {
			db = db.Where("is_read = ?", false)
		}
		return db
	}, "created_at desc, id desc")
}

func NotificationRead(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var note models.Notification
	if !find(c, &note, id, errs.ErrNotificationNotFound) {
		return
	}
	if note.UserID != currentUser(c).ID {
		c.Error(errs.ErrNotificationNotFound)
		return
	}
	if !note.Read {
		if !run(c, func(db *gorm.DB) error {
			return db.Model(&note).Update("is_read", true).Error
		}) {
			return
		}
		note.Read = true
	}
	ok(c, "updated", note)
}
