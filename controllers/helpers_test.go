package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func testContext(target string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestPageFrom(t *testing.T) {
	tests := []struct {
		query string
		want  page
	}{
		{"", page{number: 1, size: DefaultPageSize}},
		{"?page=3&pageSize=10", page{number: 3, size: 10}},
		{"?page=-1&pageSize=1000", page{number: 1, size: MaxPageSize}},
		{"?page=x&pageSize=y", page{number: 1, size: DefaultPageSize}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pageFrom(testContext("/"+tt.query)), tt.query)
	}
}

func TestPageMeta(t *testing.T) {
	m := page{number: 2, size: 20}.meta(41)
	assert.Equal(t, 3, m.TotalPages)
	assert.Equal(t, int64(41), m.TotalRows)
	assert.Zero(t, page{number: 1, size: 20}.meta(0).TotalPages)
}

func TestQueryHelpers(t *testing.T) {
	c := testContext("/?category_id=4&from=2026-01-02&to=2026-01-03T10:00:00Z")

	id, has, valid := queryID(c, "category_id")
	assert.Equal(t, uint(4), id)
	assert.True(t, has)
	assert.True(t, valid)

	_, has, valid = queryID(c, "missing")
	assert.False(t, has)
	assert.True(t, valid)

	from, _, valid := queryTime(c, "from")
	assert.True(t, valid)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), from)

	to, _, valid := queryTime(c, "to")
	assert.True(t, valid)
	assert.Equal(t, 10, to.Hour())
	assert.Empty(t, c.Errors)

	bad := testContext("/?category_id=0&from=soon")
	_, _, valid = queryID(bad, "category_id")
	assert.False(t, valid)
	_, _, valid = queryTime(bad, "from")
	assert.False(t, valid)
	assert.Len(t, bad.Errors, 2)
}

func TestDateOnly(t *testing.T) {
	c := testContext("/?to=2026-03-31&at=2026-03-31T14:00:00Z")
	assert.True(t, dateOnly(c, "to"))
	assert.False(t, dateOnly(c, "at"))
	assert.False(t, dateOnly(c, "missing"))
}

func TestDuplicate(t *testing.T) {
	conflict := errors.New("taken")
	other := errors.New("disk full")

	assert.ErrorIs(t, duplicate(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), conflict), conflict)
	assert.Equal(t, other, duplicate(other, conflict))
	assert.NoError(t, duplicate(nil, conflict))
}

func TestPastDeadline(t *testing.T) {
	assert.False(t, pastDeadline(time.Time{}))
	assert.True(t, pastDeadline(time.Now().Add(-time.Minute)))
	assert.False(t, pastDeadline(time.Now().Add(time.Minute)))
}
