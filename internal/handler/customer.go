package handler

import (
	"net/http"

	"invoice-generator/internal/service"
	"invoice-generator/internal/util"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	Customers *service.CustomerService
	PageSize  int
}

func NewCustomerHandler(customers *service.CustomerService, pageSize int) *CustomerHandler {
	return &CustomerHandler{Customers: customers, PageSize: pageSize}
}

type createCustomerReq struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"omitempty,max=32"`
	Address string `json:"address" binding:"required,min=5"`
}

type updateCustomerReq struct {
	Name    *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=32"`
	Address *string `json:"address" binding:"omitempty,min=5"`
}

func (h *CustomerHandler) List(c *gin.Context) {
	page, err := h.Customers.List(c.Request.Context(), listParams(c, h.PageSize))
	if err != nil {
		fail(c, err)
		return
	}
	util.List(c, page.Data, page.Meta)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	d, err := h.Customers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req createCustomerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cust, err := h.Customers.Create(c.Request.Context(), service.CustomerInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusCreated, "Customer created", cust)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	var req updateCustomerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cust, err := h.Customers.Update(c.Request.Context(), c.Param("id"), service.CustomerPatch{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, "Customer updated", cust)
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.Customers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, "Customer deleted", nil)
}
