package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"startuphub/api/errs"
	"startuphub/api/middleware"
	"startuphub/api/types"
	"startuphub/models"
	"startuphub/services"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	dateLayout = "2006-01-02"
)

type page struct {
	number int
	size   int
}

func pageFrom(c *gin.Context) page {
	n, _ := strconv.Atoi(c.Query("page"))
	if n <= 0 {
		n = 1
	}
	size, _ := strconv.Atoi(c.Query("pageSize"))
	switch {
	case size > MaxPageSize:
		size = MaxPageSize
	case size <= 0:
		size = DefaultPageSize
	}
	return page{number: n, size: size}
}

// scope applies offset and limit for the page.
func (p page) scope(db *gorm.DB) *gorm.DB {
	return db.Offset((p.number - 1) * p.size).Limit(p.size)
}

func (p page) meta(total int64) *types.Meta {
	pages := 0
	if total > 0 {
		pages = int(math.Ceil(float64(total) / float64(p.size)))
	}
	return &types.Meta{
		TotalRows:   total,
		TotalPages:  pages,
		CurrentPage: p.number,
		PageSize:    p.size,
	}
}

// list writes one page of T matching filter along with the total row count.
func list[T any](c *gin.Context, filter func(db *gorm.DB) *gorm.DB, order string, preload ...string) {
	p := pageFrom(c)
	var rows []T
	var total int64

	err := models.Run(c.Request.Context(), func(db *gorm.DB) error {
		q := filter(db.Model(new(T)))
		if err := q.Count(&total).Error; err != nil {
			return err
		}
		q = filter(db.Model(new(T)))
		for _, rel := range preload {
			q = q.Preload(rel)
		}
		rows = nil
		return q.Order(order).Scopes(p.scope).Find(&rows).Error
	})
	if err != nil {
		c.Error(err)
		return
	}
	if rows == nil {
		rows = make([]T, 0)
	}

	c.JSON(http.StatusOK, types.Response{
		Status: "success",
		Data:   rows,
		Meta:   p.meta(total),
	})
}

func noFilter(db *gorm.DB) *gorm.DB { return db }

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.Error(errs.ErrInvalidID)
		return 0, false
	}
	return uint(id), true
}

func queryID(c *gin.Context, name string) (uint, bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.Error(errs.ErrInvalidQuery)
		return 0, false, false
	}
	return uint(id), true, true
}

func queryTime(c *gin.Context, name string) (time.Time, bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, false, true
	}
	for _, layout := range []string{time.RFC3339, dateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true, true
		}
	}
	c.Error(errs.ErrInvalidQuery)
	return time.Time{}, false, false
}

// dateOnly reports whether the query value is a bare calendar date.
func dateOnly(c *gin.Context, name string) bool {
	_, err := time.Parse(dateLayout, c.Query(name))
	return err == nil
}

func bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.Error(err).SetType(gin.ErrorTypeBind)
		return false
	}
	return true
}

// find loads a record by id, mapping a missing row to notFound.
func find(c *gin.Context, dest any, id uint, notFound error, preload ...string) bool {
	err := models.Run(c.Request.Context(), func(db *gorm.DB) error {
		for _, rel := range preload {
			db = db.Preload(rel)
		}
		return db.First(dest, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.Error(notFound)
		return false
	}
	if err != nil {
		c.Error(err)
		return false
	}
	return true
}

func run(c *gin.Context, fn func(db *gorm.DB) error) bool {
	if err := models.Run(c.Request.Context(), fn); err != nil {
		c.Error(err)
		return false
	}
	return true
}

// duplicate turns a unique index violation into the given conflict error.
func duplicate(err, conflict error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict
	}
	return err
}

func currentUser(c *gin.Context) *services.CachedUser {
	return middleware.CurrentUser(c)
}

func isAdmin(c *gin.Context) bool {
	u := currentUser(c)
	return u != nil && u.Role == models.RoleAdmin
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, types.Response{
		Status:  "success",
		Message: "created",
		Data:    data,
	})
}

func ok(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, types.Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func deleted(c *gin.Context) {
	c.JSON(http.StatusOK, types.Response{
		Status:  "success",
		Message: "deleted",
	})
}

// pastDeadline reports whether t is set and already behind the current time.
func pastDeadline(t time.Time) bool {
	return !t.IsZero() && t.Before(time.Now())
}
