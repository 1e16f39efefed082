package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nelliei/albumsearcher-db/internal/metrics"
	"github.com/nelliei/albumsearcher-db/internal/middleware"
	"github.com/nelliei/albumsearcher-db/internal/models"
	"github.com/nelliei/albumsearcher-db/internal/repository"
)

type AuthHandler struct {
	userRepo repository.UserRepository
	sessions *middleware.Sessions
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewAuthHandler(userRepo repository.UserRepository, sessions *middleware.Sessions, m *metrics.Metrics, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		sessions: sessions,
		metrics:  m,
		logger:   log,
	}
}

// ConnectPage shows the login form. Visiting it ends the current session.
func (h *AuthHandler) ConnectPage(c *gin.Context) {
	h.sessions.Clear(c)
	render(c, http.StatusOK, "connect.html", gin.H{
		"Title":       "Log in",
		"User":        nil,
		"LoginFailed": flag(c, "login_failed", false),
	})
}

func (h *AuthHandler) Connect(c *gin.Context) {
	h.sessions.Clear(c)

	var req models.LoginForm
	if err := c.ShouldBind(&req); err != nil {
		h.loginFailed(c, "invalid form")
		return
	}

	user, err := h.userRepo.GetUserByUsername(req.Username)
	if err != nil {
		h.logger.Error("Login lookup failed", zap.String("username", req.Username), zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Failed to log in")
		return
	}
	if user == nil {
		h.loginFailed(c, "unknown user")
		return
	}
	if err := h.userRepo.VerifyPassword(user.Password, req.Password); err != nil {
		h.loginFailed(c, "wrong password")
		return
	}

	if err := h.sessions.Start(c, user.UserID); err != nil {
		h.logger.Error("Failed to start session", zap.Uint("user_id", user.UserID), zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	h.metrics.Logins.WithLabelValues("ok").Inc()
	h.logger.Info("User logged in", zap.Uint("user_id", user.UserID))
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) loginFailed(c *gin.Context, reason string) {
	h.metrics.Logins.WithLabelValues("failed").Inc()
	h.logger.Debug("Login failed", zap.String("reason", reason))
	c.Redirect(http.StatusFound, "/connect-page?login_failed=true")
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{
		"Title":     "Register",
		"UserExist": flag(c, "user_exist", false),
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.UserForm
	if err := c.ShouldBind(&req); err != nil {
		renderError(c, http.StatusBadRequest, "Invalid registration form")
		return
	}

	existingUser, err := h.userRepo.GetUserByUsername(req.Username)
	if err != nil {
		h.logger.Error("Register lookup failed", zap.String("username", req.Username), zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Failed to register")
		return
	}
	if existingUser != nil {
		c.Redirect(http.StatusFound, "/register-page?user_exist=true")
		return
	}

	user, err := h.userRepo.AddUser(req.Username, req.Password, req.Age, req.Country)
	if err != nil {
		h.logger.Error("Failed to create user", zap.String("username", req.Username), zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Failed to register")
		return
	}

	h.logger.Info("User registered", zap.Uint("user_id", user.UserID))
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

func (h *AuthHandler) UpdatePage(c *gin.Context) {
	render(c, http.StatusOK, "update.html", gin.H{
		"Title":     "Profile",
		"UserExist": flag(c, "user_exist", false),
	})
}

// Update overwrites the profile. The new username may only collide with the
// current user's own.
func (h *AuthHandler) Update(c *gin.Context) {
	current := middleware.CurrentUser(c)

	var req models.UserForm
	if err := c.ShouldBind(&req); err != nil {
		renderError(c, http.StatusBadRequest, "Invalid profile form")
		return
	}

	if req.Username != current.Username {
		other, err := h.userRepo.GetUserByUsername(req.Username)
		if err != nil {
			h.logger.Error("Update lookup failed", zap.String("username", req.Username), zap.Error(err))
			renderError(c, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		if other != nil && other.UserID != current.UserID {
			c.Redirect(http.StatusFound, "/update?user_exist=true")
			return
		}
	}

	if _, err := h.userRepo.UpdateUser(current.UserID, req.Username, req.Password, req.Age, req.Country); err != nil {
		h.logger.Error("Failed to update user", zap.Uint("user_id", current.UserID), zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	h.logger.Info("Profile updated", zap.Uint("user_id", current.UserID))
	c.Redirect(http.StatusFound, "/")
}
