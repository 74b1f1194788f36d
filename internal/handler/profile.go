package handler

import (
	"net/http"

	"invoice-generator/internal/middleware"
	"invoice-generator/internal/service"
	"invoice-generator/internal/util"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the current user's profile and, for admins, user
// management.
type UserHandler struct {
	Users    *service.UserService
	PageSize int
}

func NewUserHandler(users *service.UserService, pageSize int) *UserHandler {
	return &UserHandler{Users: users, PageSize: pageSize}
}

// ---------- own profile ----------

type updateProfileUserReq struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

type changePasswordReq struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// UpdateProfile changes the caller's own username or email. Role and
// password go through their own endpoints.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	updated, err := h.Users.Update(c.Request.Context(), user.ID, service.UserPatch{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, "Profile updated", updated)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	if err := h.Users.ChangePassword(c.Request.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, "Password changed", nil)
}

// ---------- user management (admin) ----------

type createUserReq struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=admin user"`
}

type updateUserReq struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin user"`
}

func (h *UserHandler) List(c *gin.Context) {
	page, err := h.Users.List(c.Request.Context(), service.UserFilter{
		ListParams: listParams(c, h.PageSize),
		Role:       c.Query("role"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	util.List(c, page.Data, page.Meta)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Users.Create(c.Request.Context(), service.UserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusCreated, "User created", u)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Users.Update(c.Request.Context(), c.Param("id"), service.UserPatch{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, "User updated", u)
}

func (h *UserHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if err := h.Users.Delete(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, "User deleted", nil)
}
