package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"startuphub/api/types"
	"startuphub/models"
)

func Health(c *gin.Context) {
	if err := models.Ping(c.Request.Context()); err != nil {
		log.Error().
			Err(err).
			Msg("database health check failed")
		c.JSON(http.StatusServiceUnavailable, types.Response{
			Status:  "error",
			Message: "database unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, types.Response{Status: "success", Message: "ok"})
}
