package handler

import (
	"net/http"
	"time"

	"invoice-generator/internal/service"
	"invoice-generator/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type InvoiceHandler struct {
	Invoices *service.InvoiceService
	Profile  *service.BusinessProfileService
	PageSize int
}

func NewInvoiceHandler(invoices *service.InvoiceService, profile *service.BusinessProfileService, pageSize int) *InvoiceHandler {
	return &InvoiceHandler{Invoices: invoices, Profile: profile, PageSize: pageSize}
}

type invoiceItemReq struct {
	ProductID string          `json:"productId" binding:"required,uuid"`
	Quantity  int             `json:"quantity" binding:"required,gt=0"`
	Price     decimal.Decimal `json:"price"`
}

type createInvoiceReq struct {
	CustomerID string           `json:"customerId" binding:"required,uuid"`
	IssueDate  string           `json:"issueDate" binding:"required"`
	DueDate    string           `json:"dueDate" binding:"required"`
	Items      []invoiceItemReq `json:"items" binding:"required,min=1,dive"`
	Notes      string           `json:"notes"`
}

// Totals and number are not bindable: they are always computed.
type updateInvoiceReq struct {
	CustomerID *string          `json:"customerId" binding:"omitempty,uuid"`
	IssueDate  *string          `json:"issueDate"`
	DueDate    *string          `json:"dueDate"`
	Items      []invoiceItemReq `json:"items" binding:"omitempty,min=1,dive"`
	Notes      *string          `json:"notes"`
	Status     *string          `json:"status" binding:"omitempty,oneof=draft sent paid cancelled"`
}

type statusReq struct {
	Status string `json:"status" binding:"required,oneof=draft sent paid cancelled"`
}

func itemInputs(items []invoiceItemReq) []service.ItemInput {
	if items == nil {
		return nil
	}
	out := make([]service.ItemInput, len(items))
	for i, it := range items {
		out[i] = service.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price}
	}
	return out
}

func parseOptionalDate(s *string, field string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := util.ParseDate(*s)
	if err != nil {
		return nil, &service.Error{Kind: service.KindValidation, Message: field + ": " + err.Error()}
	}
	return &t, nil
}

// invoiceFilter reads the list/export query parameters. An end date given
// as YYYY-MM-DD includes that whole day.
func (h *InvoiceHandler) invoiceFilter(c *gin.Context) (service.InvoiceFilter, error) {
	f := service.InvoiceFilter{
		ListParams: listParams(c, h.PageSize),
		Status:     c.Query("status"),
		CustomerID: c.Query("customerId"),
	}
	startStr, endStr := c.Query("startDate"), c.Query("endDate")
	if startStr == "" || endStr == "" {
		return f, nil
	}
	start, err := util.ParseDate(startStr)
	if err != nil {
		return f, &service.Error{Kind: service.KindValidation, Message: "startDate: " + err.Error()}
	}
	end, err := util.ParseRangeEnd(endStr)
	if err != nil {
		return f, &service.Error{Kind: service.KindValidation, Message: "endDate: " + err.Error()}
	}
	f.StartDate, f.EndDate = &start, &end
	return f, nil
}

func (h *InvoiceHandler) List(c *gin.Context) {
	f, err := h.invoiceFilter(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, err := h.Invoices.List(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	util.List(c, page.Data, page.Meta)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	inv, err := h.Invoices.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	var req createInvoiceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	issue, err := parseOptionalDate(&req.IssueDate, "issueDate")
	if err != nil {
		fail(c, err)
		return
	}
	due, err := parseOptionalDate(&req.DueDate, "dueDate")
	if err != nil {
		fail(c, err)
		return
	}

	inv, err := h.Invoices.Create(c.Request.Context(), service.InvoiceInput{
		CustomerID: req.CustomerID,
		IssueDate:  *issue,
		DueDate:    *due,
		Items:      itemInputs(req.Items),
		Notes:      req.Notes,
	})
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusCreated, "Invoice created", inv)
}

func (h *InvoiceHandler) Update(c *gin.Context) {
	var req updateInvoiceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	issue, err := parseOptionalDate(req.IssueDate, "issueDate")
	if err != nil {
		fail(c, err)
		return
	}
	due, err := parseOptionalDate(req.DueDate, "dueDate")
	if err != nil {
		fail(c, err)
		return
	}

	inv, err := h.Invoices.Update(c.Request.Context(), c.Param("id"), service.InvoicePatch{
		CustomerID: req.CustomerID,
		IssueDate:  issue,
		DueDate:    due,
		Items:      itemInputs(req.Items),
		Notes:      req.Notes,
		Status:     req.Status,
	})
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, "Invoice updated", inv)
}

func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid invoice status")
		return
	}
	inv, err := h.Invoices.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, "Invoice status updated", inv)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.Invoices.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, "Invoice deleted", nil)
}

// MonthlyStats: GET /invoices/stats/monthly?month=YYYY-MM, default current month.
func (h *InvoiceHandler) MonthlyStats(c *gin.Context) {
	month := time.Now().UTC()
	if s := c.Query("month"); s != "" {
		m, err := util.ParseMonth(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		month = m
	}
	stats, err := h.Invoices.MonthlyStats(c.Request.Context(), month)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
