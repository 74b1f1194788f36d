package handler

import (
	"net/http"
	"os"
	"strconv"

	"invoice-generator/internal/middleware"
	"invoice-generator/internal/service"
	"invoice-generator/internal/util"

	"github.com/gin-gonic/gin"
)

type BackupHandler struct {
	Backups  *service.BackupService
	PageSize int
}

func NewBackupHandler(backups *service.BackupService, pageSize int) *BackupHandler {
	return &BackupHandler{Backups: backups, PageSize: pageSize}
}

func backupID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid backup id")
		return 0, false
	}
	return uint(id), true
}

func (h *BackupHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	b, err := h.Backups.Create(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusCreated, "Backup created", b)
}

func (h *BackupHandler) List(c *gin.Context) {
	page, err := h.Backups.List(c.Request.Context(), listParams(c, h.PageSize))
	if err != nil {
		fail(c, err)
		return
	}
	util.List(c, page.Data, page.Meta)
}

// Download sends the encrypted file as stored.
func (h *BackupHandler) Download(c *gin.Context) {
	id, ok := backupID(c)
	if !ok {
		return
	}
	b, err := h.Backups.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if _, err := os.Stat(b.FilePath); err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "backup file not found")
		return
	}
	c.FileAttachment(b.FilePath, b.FileName)
}

func (h *BackupHandler) Delete(c *gin.Context) {
	id, ok := backupID(c)
	if !ok {
		return
	}
	if err := h.Backups.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, "Backup deleted", nil)
}
