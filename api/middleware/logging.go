package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"startuphub/api/errs"
	"startuphub/api/types"
	"startuphub/metrics"
)

const RequestIDHeader = "X-Request-ID"

// ZLogMiddleware logs every request and turns errors attached with c.Error into the JSON
// error envelope when the handler did not write a body.
func ZLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Header(RequestIDHeader, reqID)

		metrics.InFlight(1)
		c.Next()
		metrics.InFlight(-1)

		if len(c.Errors) != 0 {
			last := c.Errors.Last()
			if !c.Writer.Written() {
				writeError(c, last)
			}
			log.Error().
				Err(last.Err).
				Str("request_id", reqID).
				Str("path", c.Request.URL.Path).
				Msg("")
		}

		latency := time.Since(startTime)
		status := c.Writer.Status()
		metrics.ObserveRequest(c.Request.Method, c.FullPath(), status, latency)
		log.Debug().
			Int("status", status).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("request_id", reqID).
			Msg("")
	}
}

func writeError(c *gin.Context, e *gin.Error) {
	if e.IsType(gin.ErrorTypeBind) {
		c.AbortWithStatusJSON(http.StatusBadRequest, types.Response{
			Status:  "error",
			Message: "invalid request",
			Data:    validationDetails(e.Err),
		})
		return
	}

	statusCode, known := errs.Status(e.Err)
	c.AbortWithStatusJSON(statusCode, types.Response{
		Status:  "error",
		Message: known.Error(),
	})
}

func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			details = append(details, fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			details = append(details, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
		}
	}
	return details
}
