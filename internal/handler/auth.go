package handler

import (
	"net/http"
	"time"

	"invoice-generator/internal/middleware"
	"invoice-generator/internal/service"
	"invoice-generator/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves registration, login and the first-run setup check.
type AuthHandler struct {
	Users     *service.UserService
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
	// SecureCookie marks the auth cookie Secure (release mode behind TLS).
	SecureCookie bool
}

func NewAuthHandler(users *service.UserService, jwtSecret, issuer string, ttlHours int, secureCookie bool) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		Users:        users,
		JWTSecret:    jwtSecret,
		Issuer:       issuer,
		TokenTTL:     time.Duration(ttlHours) * time.Hour,
		SecureCookie: secureCookie,
	}
}

// ---------- register ----------

type registerReq struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=admin user"`
}

// Register is open while the system has no admin (first-run setup). After
// that only an authenticated admin may register accounts.
func (h *AuthHandler) Register(c *gin.Context) {
	hasAdmin, err := h.Users.HasAdmin(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if hasAdmin {
		current := middleware.CurrentUser(c)
		if current == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Unauthorized")
			return
		}
		if !current.IsAdmin() {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "Forbidden")
			return
		}
	}

	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.Users.Create(c.Request.Context(), service.UserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusCreated, "Registration successful", user)
}

// ---------- login ----------

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.Users.Authenticate(c.Request.Context(), req.Username, req.Password, c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, user.ID, user.Username, user.Role, h.TokenTTL)
	if err != nil {
		fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, token, int(h.TokenTTL.Seconds()), "/", "", h.SecureCookie, true)
	util.Success(c, http.StatusOK, "Login successful", gin.H{
		"user":  user,
		"token": token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, "", -1, "/", "", h.SecureCookie, true)
	util.Success(c, http.StatusOK, "Logout successful", nil)
}

// SetupCheck tells the client whether the first admin still has to be created.
func (h *AuthHandler) SetupCheck(c *gin.Context) {
	hasAdmin, err := h.Users.HasAdmin(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"setupRequired": !hasAdmin})
}
