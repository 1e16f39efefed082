package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/nelliei/albumsearcher-db/internal/models"
	"github.com/nelliei/albumsearcher-db/internal/repository"
)

const (
	SessionCookie = "session"
	LoginPath     = "/connect-page"

	userKey = "user"
)

var errInvalidSession = errors.New("invalid session")

// Sessions issues and verifies the signed session cookie that carries the user id.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewSessions(secret string, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl, secure: secure}
}

// Start logs userID in by setting the session cookie.
func (s *Sessions) Start(c *gin.Context, userID uint) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(s.ttl).Unix(),
		"iat":     now.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, signed, int(s.ttl.Seconds()), "/", "", s.secure, true)
	return nil
}

// Clear logs the current visitor out.
func (s *Sessions) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", s.secure, true)
}

// UserID returns the user id carried by a session token.
func (s *Sessions) UserID(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errInvalidSession
	}
	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return 0, errInvalidSession
	}
	return uint(userID), nil
}

// LoadUser resolves the session cookie to a user on every request. Visitors
// without a valid session are anonymous; a stale cookie is cleared.
func LoadUser(sessions *Sessions, userRepo repository.UserRepository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookie)
		if err != nil || cookie == "" {
			c.Next()
			return
		}

		userID, err := sessions.UserID(cookie)
		if err != nil {
			log.Debug("Rejected session cookie", zap.Error(err))
			sessions.Clear(c)
			c.Next()
			return
		}

		user, err := userRepo.GetUserByID(userID)
		if err != nil {
			log.Error("Session user lookup failed", zap.Uint("user_id", userID), zap.Error(err))
			c.Next()
			return
		}
		if user == nil {
			sessions.Clear(c)
			c.Next()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireUser redirects anonymous visitors to the login page.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser is the logged-in user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
