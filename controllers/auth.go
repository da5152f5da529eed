package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/PranayChowdhury00/event-management-task-ph-Backend/middleware"
	"github.com/PranayChowdhury00/event-management-task-ph-Backend/models"
	"github.com/PranayChowdhury00/event-management-task-ph-Backend/store"
	"github.com/PranayChowdhury00/event-management-task-ph-Backend/utils"
)

// UserStore is the part of the user store the auth handlers need.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (string, error)
	List(ctx context.Context) ([]models.User, error)
}

// RegisterInput request body for registration
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	PhotoURL string `json:"photoURL"`
}

// LoginInput request body for login
type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthController serves registration, login and session-state routes.
type AuthController struct {
	Users    UserStore
	Sessions *middleware.Sessions
	Logger   zerolog.Logger
}

func NewAuthController(users UserStore, sessions *middleware.Sessions, logger zerolog.Logger) *AuthController {
	return &AuthController{Users: users, Sessions: sessions, Logger: logger}
}

// Register handler: creates a new user.
//
// The duplicate-email check is a lookup immediately before the insert, not a
// store-level constraint; concurrent registrations can race. That matches the
// original service.
func (a *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	_, err := a.Users.FindByEmail(c.Request.Context(), input.Email)
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email already exists"})
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		a.Logger.Error().Err(err).Msg("register: email lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	user := models.User{
		Name:      input.Name,
		Email:     input.Email,
		Password:  hash,
		PhotoURL:  input.PhotoURL,
		CreatedAt: time.Now().UTC(),
	}
	id, err := a.Users.Insert(c.Request.Context(), &user)
	if err != nil {
		a.Logger.Error().Err(err).Msg("register: insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"acknowledged": true, "insertedId": id})
}

// ListUsers returns every user. Debug route, not for production use.
func (a *AuthController) ListUsers(c *gin.Context) {
	users, err := a.Users.List(c.Request.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("list users failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// Login authenticates by email and password and creates a session holding the
// reduced user projection.
func (a *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := a.Users.FindByEmail(c.Request.Context(), input.Email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "No account found. Please register first."})
		return
	}
	if err != nil {
		a.Logger.Error().Err(err).Msg("login: lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	if err := utils.CheckPassword(user.Password, input.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Incorrect password."})
		return
	}

	projection := user.SessionProjection()
	if err := a.Sessions.Issue(c, projection); err != nil {
		a.Logger.Error().Err(err).Msg("login: session create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": projection})
}

// Logout destroys the session and clears the cookie.
func (a *AuthController) Logout(c *gin.Context) {
	if err := a.Sessions.Destroy(c); err != nil {
		a.Logger.Error().Err(err).Msg("logout: session destroy failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// CheckAuth reflects the current session state. No side effects.
func (a *AuthController) CheckAuth(c *gin.Context) {
	if user, ok := middleware.CurrentUser(c); ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": user})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}

// Protected is a demo route gated behind RequireAuth.
func (a *AuthController) Protected(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"message": "This is protected data", "user": user})
}
