package middleware

import (
	"net/http"
	"strings"

	"invoice-generator/internal/models"
	"invoice-generator/internal/service"
	"invoice-generator/internal/util"

	"github.com/gin-gonic/gin"
)

// CookieName is the cookie that carries the session token.
const CookieName = "auth"

const currentUserKey = "currentUser"

// tokenFromRequest looks for a token in, in order: the Authorization header
// (with or without the Bearer scheme), the ?token= query parameter when
// allowQuery is set, and the auth cookie.
func tokenFromRequest(c *gin.Context, allowQuery bool) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		if len(parts) == 1 {
			return parts[0]
		}
	}
	if allowQuery {
		if t := c.Query("token"); t != "" {
			return t
		}
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie
	}
	return ""
}

// resolve returns the user behind the request token, or nil when there is
// no usable token. A store failure is returned as an error.
func resolve(c *gin.Context, jwtSecret string, users *service.UserService, allowQuery bool) (*models.User, error) {
	tokenStr := tokenFromRequest(c, allowQuery)
	if tokenStr == "" {
		return nil, nil
	}
	claims, err := util.ParseToken(jwtSecret, tokenStr)
	if err != nil {
		return nil, nil
	}
	user, err := users.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		if service.KindOf(err) == service.KindNotFound {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Auth rejects requests without a valid token for an existing user and puts
// that user into the context.
func Auth(jwtSecret string, users *service.UserService) gin.HandlerFunc {
	return authenticate(jwtSecret, users, false)
}

// AuthWithQueryToken is Auth that also accepts ?token=, for links opened
// outside the client (print page, backup download) where no header can be
// set.
func AuthWithQueryToken(jwtSecret string, users *service.UserService) gin.HandlerFunc {
	return authenticate(jwtSecret, users, true)
}

func authenticate(jwtSecret string, users *service.UserService, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolve(c, jwtSecret, users, allowQuery)
		if err != nil {
			util.Abort(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
			return
		}
		if user == nil {
			util.Abort(c, http.StatusUnauthorized, util.CodeAuth, "Unauthorized")
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// OptionalAuth is Auth without the rejection: anonymous requests pass with
// no current user.
func OptionalAuth(jwtSecret string, users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := resolve(c, jwtSecret, users, false); err == nil && user != nil {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			util.Abort(c, http.StatusUnauthorized, util.CodeAuth, "Unauthorized")
			return
		}
		if !user.IsAdmin() {
			util.Abort(c, http.StatusForbidden, util.CodeForbidden, "Forbidden")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user of this request, if any.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
