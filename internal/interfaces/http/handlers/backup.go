// internal/interfaces/http/handlers/backup.go
package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/backup"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/spreadsheet"
)

// BackupHandler serves full data exports
type BackupHandler struct {
	backupService *backup.Service
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(svc *backup.Service) *BackupHandler {
	return &BackupHandler{backupService: svc}
}

// Export handles GET /backup/export?type=&format=
func (h *BackupHandler) Export(c *gin.Context) {
	var req backup.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := req.Normalize(); err != nil {
		respondError(c, err)
		return
	}

	filename := req.Filename(time.Now().Format("2006-01-02"))

	if req.Format == backup.FormatXLSX {
		var buf bytes.Buffer
		if err := h.backupService.WriteXLSX(&buf, req.Type); err != nil {
			respondError(c, err)
			return
		}
		attachment(c, spreadsheet.ContentType, filename)
		c.Data(http.StatusOK, spreadsheet.ContentType, buf.Bytes())
		return
	}

	data, err := h.backupService.Export(req.Type)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.JSON(http.StatusOK, gin.H{
		"type":        req.Type,
		"exported_at": time.Now().UTC(),
		"data":        data,
	})
}
