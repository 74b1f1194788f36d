package handler

import (
	"net/http"
	"strings"

	"invoice-generator/internal/service"
	"invoice-generator/internal/util"

	"github.com/gin-gonic/gin"
)

type LogHandler struct {
	Audit    *service.AuditService
	PageSize int
}

func NewLogHandler(audit *service.AuditService, pageSize int) *LogHandler {
	return &LogHandler{Audit: audit, PageSize: pageSize}
}

// ListLogs: GET /audit-logs?page&limit&start=YYYY-MM-DD&end=YYYY-MM-DD&q=
func (h *LogHandler) ListLogs(c *gin.Context) {
	f := service.AuditFilter{ListParams: listParams(c, h.PageSize)}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		f.Search = q
	}

	if s := c.Query("start"); s != "" {
		t, err := util.ParseDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid start date")
			return
		}
		f.Start = &t
	}
	if s := c.Query("end"); s != "" {
		t, err := util.ParseRangeEnd(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid end date")
			return
		}
		f.End = &t
	}

	page, err := h.Audit.List(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	util.List(c, page.Data, page.Meta)
}
