package user

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"bitwise74/goals-api/internal"
	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/service"
	"bitwise74/goals-api/internal/store"
	"bitwise74/goals-api/pkg/middleware"
	"bitwise74/goals-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type signUpBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp creates a user, seeds their dashboard and returns an access token.
// Admin rights are never taken from the body, only from the configured
// admin emails.
func SignUp(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet(middleware.RequestIDKey).(string)

	var data signUpBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	data.Name = strings.TrimSpace(data.Name)
	if data.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Name field can't be empty",
			"requestID": requestID,
		})
		return
	}

	email := validators.NormalizeEmail(data.Email)
	if err := validators.EmailValidator(email); err != nil {
		zap.L().Debug("Invalid email", zap.Error(err), zap.String("requestID", requestID))

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		zap.L().Debug("Invalid password", zap.Error(err), zap.String("requestID", requestID))

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	hash, err := d.Argon.Hash(data.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	now := time.Now().UTC()

	user := model.NewUser(data.Name, email, hash, now)
	if slices.Contains(d.AdminEmails, email) {
		user.Admin = 1
	}

	err = d.Store.Users().Create(c.Request.Context(), user)
	if store.IsConflict(err) {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Email duplicated",
			"requestID": requestID,
		})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	token, err := d.Tokens.CreateToken(user.Identity())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate access token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// The account exists at this point, a partially seeded dashboard is
	// not worth failing the request over.
	if err := service.SeedDefaults(c.Request.Context(), d.Store, user.ID, now); err != nil {
		zap.L().Warn("Dashboard seeding incomplete", zap.Error(err), zap.String("userID", user.ID), zap.String("requestID", requestID))
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
	})
}
