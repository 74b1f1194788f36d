package handler

import (
	"net/http"

	"invoice-generator/internal/service"
	"invoice-generator/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	Products *service.ProductService
	PageSize int
}

func NewProductHandler(products *service.ProductService, pageSize int) *ProductHandler {
	return &ProductHandler{Products: products, PageSize: pageSize}
}

type createProductReq struct {
	Name        string          `json:"name" binding:"required,min=2,max=100"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit" binding:"required,max=32"`
}

type updateProductReq struct {
	Name        *string          `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Unit        *string          `json:"unit" binding:"omitempty,min=1,max=32"`
}

func (h *ProductHandler) List(c *gin.Context) {
	page, err := h.Products.List(c.Request.Context(), listParams(c, h.PageSize))
	if err != nil {
		fail(c, err)
		return
	}
	util.List(c, page.Data, page.Meta)
}

func (h *ProductHandler) Get(c *gin.Context) {
	d, err := h.Products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Products.Create(c.Request.Context(), service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
	})
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusCreated, "Product created", p)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req updateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Products.Update(c.Request.Context(), c.Param("id"), service.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
	})
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, "Product updated", p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.Products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, "Product deleted", nil)
}
