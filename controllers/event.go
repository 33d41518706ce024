package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"startuphub/api/errs"
	"startuphub/api/types"
	"startuphub/models"
)

func EventCreate(c *gin.Context) {
	var request types.EventRequest
	if !bind(c, &request) {
		return
	}
	if !checkCallRef(c, request.StartupCallID) {
		return
	}
	event := models.Event{Type: models.EventOther}
	applyEventRequest(&event, &request)
	if !run(c, func(db *gorm.DB) error { return db.Create(&event).Error }) {
		return
	}
	created(c, event)
}

func applyEventRequest(e *models.Event, r *types.EventRequest) {
	e.Title = r.Title
	e.Description = r.Description
	e.StartDate = r.StartDate
	e.EndDate = r.EndDate
	e.Location = r.Location
	e.VirtualLink = r.VirtualLink
	e.IsVirtual = r.IsVirtual
	e.Capacity = r.Capacity
	e.StartupCallID = r.StartupCallID
	if r.Type != "" {
		e.Type = r.Type
	}
}

func EventList(c *gin.Context) {
	eventType := c.Query("type")
	upcoming := c.Query("upcoming") == "true"
	callID, hasCall, valid := queryID(c, "call_id")
	if !valid {
		return
	}
	now := time.Now()

	list[models.Event](c, func(db *gorm.DB) *gorm.DB {
		if eventType != "" {
			db = db.Where("type = ?", eventType)
		}
		if upcoming {
			db = db.Where("start_date >= ?", now)
		}
		if hasCall {
			db = db.Where("startup_call_id = ?", callID)
		}
		return db
	}, "start_date asc")
}

func loadEvent(c *gin.Context, event *models.Event) bool {
	id, valid := paramID(c, "id")
	if !valid {
		return false
	}
	return find(c, event, id, errs.ErrEventNotFound)
}

func EventGet(c *gin.Context) {
	var event models.Event
	if !loadEvent(c, &event) {
		return
	}
	ok(c, "", event)
}

func EventUpdate(c *gin.Context) {
	var request types.EventRequest
	if !bind(c, &request) {
		return
	}
	var event models.Event
	if !loadEvent(c, &event) {
		return
	}
	if !checkCallRef(c, request.StartupCallID) {
		return
	}
	applyEventRequest(&event, &request)
	if !run(c, func(db *gorm.DB) error { return db.Save(&event).Error }) {
		return
	}
	ok(c, "updated", event)
}

func EventDelete(c *gin.Context) {
	var event models.Event
	if !loadEvent(c, &event) {
		return
	}
	if !run(c, func(db *gorm.DB) error { return db.Delete(&event).Error }) {
		return
	}
	deleted(c)
}
