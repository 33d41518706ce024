package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"startuphub/api/errs"
	"startuphub/api/middleware"
	"startuphub/api/types"
	"startuphub/models"
	"startuphub/services"
)

type tokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expires_at"`
	User      models.User `json:"user"`
}

func Register(c *gin.Context) {
	var request types.RegisterRequest
	if !bind(c, &request) {
		return
	}

	hash, err := services.HashPassword(request.Password)
	if err != nil {
		c.Error(err)
		return
	}
	user := models.User{
		Name:         request.Name,
		Email:        strings.ToLower(strings.TrimSpace(request.Email)),
		PasswordHash: hash,
		Role:         models.Role(request.Role),
	}

	if !run(c, func(db *gorm.DB) error {
		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.ErrEmailTaken
		}
		return duplicate(db.Create(&user).Error, errs.ErrEmailTaken)
	}) {
		return
	}
	created(c, user)
}

// Login checks credentials and returns a session token, also set as an HTTP-only cookie.
func Login(tokens *services.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request types.LoginRequest
		if !bind(c, &request) {
			return
		}

		var user models.User
		email := strings.ToLower(strings.TrimSpace(request.Email))
		err := models.Run(c.Request.Context(), func(db *gorm.DB) error {
			return db.Where("email = ?", email).First(&user).Error
		})
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !services.CheckPassword(user.PasswordHash, request.Password)) {
			c.Error(errs.ErrInvalidCredentials)
			return
		}
		if err != nil {
			c.Error(err)
			return
		}

		token, expires, err := tokens.Issue(&user)
		if err != nil {
			c.Error(err)
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.CookieName, token, int(time.Until(expires).Seconds()), "/", "", false, true)

		ok(c, "logged in", tokenResponse{Token: token, ExpiresAt: expires.Unix(), User: user})
	}
}

func Logout(c *gin.Context) {
	c.SetCookie(middleware.CookieName, "", -1, "/", "", false, true)
	ok(c, "logged out", nil)
}

func Me(c *gin.Context) {
	ok(c, "", currentUser(c))
}
