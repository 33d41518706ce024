package controllers

import (
	"slices"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"startuphub/api/errs"
	"startuphub/api/types"
	"startuphub/models"
)

var taskStatuses = []string{models.TaskTodo, models.TaskInProgress, models.TaskDone}

func TaskCreate(c *gin.Context) {
	var request types.TaskRequest
	if !bind(c, &request) {
		return
	}
	var startup models.Startup
	if !loadStartup(c, "id", true, &startup) {
		return
	}

	task := models.Task{
		StartupID: startup.ID,
		Priority:  models.PriorityMedium,
		Status:    models.TaskTodo,
	}
	applyTaskRequest(&task, &request)
	if !checkTaskMilestone(c, &task) {
		return
	}
	if !run(c, func(db *gorm.DB) error { return db.Create(&task).Error }) {
		return
	}
	created(c, task)
}

func applyTaskRequest(t *models.Task, r *types.TaskRequest) {
	t.Title = r.Title
	t.Description = r.Description
	t.MilestoneID = r.MilestoneID
	t.AssigneeID = r.AssigneeID
	t.DueDate = r.DueDate
	if r.Priority != "" {
		t.Priority = r.Priority
	}
	if r.Status != "" {
		t.Status = r.Status
	}
}

func checkTaskMilestone(c *gin.Context, t *models.Task) bool {
	if t.MilestoneID == nil {
		return true
	}
	var milestone models.Milestone
	if !find(c, &milestone, *t.MilestoneID, errs.ErrMilestoneNotFound) {
		return false
	}
	if milestone.StartupID != t.StartupID {
		c.Error(errs.ErrMilestoneMismatch)
		return false
	}
	return true
}

func TaskList(c *gin.Context) {
	var startup models.Startup
	if !loadStartup(c, "id", false, &startup) {
		return
	}
	milestoneID, hasMilestone, valid := queryID(c, "milestone_id")
	if !valid {
		return
	}
	status := c.Query("status")

	list[models.Task](c, func(db *gorm.DB) *gorm.DB {
		db = db.Where("startup_id = ?", startup.ID)
		if hasMilestone {
			db = db.Where("milestone_id = ?", milestoneID)
		}
		if status != "" {
			db = db.Where("status = ?", status)
		}
		return db
	}, "id asc")
}

func loadTask(c *gin.Context, task *models.Task) bool {
	id, valid := paramID(c, "id")
	if !valid {
		return false
	}
	if !find(c, task, id, errs.ErrTaskNotFound) {
		return false
	}
	var startup models.Startup
	return startupAccess(c, task.StartupID, true, &startup)
}

func TaskUpdate(c *gin.Context) {
	var request types.TaskRequest
	if !bind(c, &request) {
		return
	}
	var task models.Task
	if !loadTask(c, &task) {
		return
	}
	applyTaskRequest(&task, &request)
	if !checkTaskMilestone(c, &task) {
		return
	}
	if !run(c, func(db *gorm.DB) error { return db.Save(&task).Error }) {
		return
	}
	ok(c, "updated", task)
}

func TaskUpdateStatus(c *gin.Context) {
	var request types.StatusRequest
	if !bind(c, &request) {
		return
	}
	if !slices.Contains(taskStatuses, request.Status) {
		c.Error(errs.ErrInvalidStatus)
		return
	}
	var task models.Task
	if !loadTask(c, &task) {
		return
	}
	if !run(c, func(db *gorm.DB) error {
		return db.Model(&task).Update("status", request.Status).Error
	}) {
		return
	}
	ok(c, "updated", task)
}

func TaskDelete(c *gin.Context) {
	var task models.Task
	if !loadTask(c, &task) {
		return
	}
	if !run(c, func(db *gorm.DB) error { return db.Delete(&task).Error }) {
		return
	}
	deleted(c)
}
