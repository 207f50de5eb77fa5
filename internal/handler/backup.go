package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/idea-board/internal/apperror"
	"github.com/sakif/idea-board/internal/model"
	"github.com/sakif/idea-board/internal/service"
)

// BackupHandler serves the export and restore endpoints.
type BackupHandler struct {
	backups *service.BackupService
	logger  *slog.Logger
}

func NewBackupHandler(backups *service.BackupService, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{backups: backups, logger: logger}
}

// HandleExport returns the caller's backup document as a download.
//
// HTTP: GET /api/backup
//
// Content-Disposition makes a browser save the response as
// ideas-backup-YYYY-MM-DD.json instead of rendering it.
func (h *BackupHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	doc, err := h.backups.Export(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	filename := fmt.Sprintf("ideas-backup-%s.json", doc.Timestamp.Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeJSON(w, http.StatusOK, doc)
}

// HandleRestore replaces all of the caller's ideas and tasks with the
// contents of the posted backup document.
//
// HTTP: POST /api/restore
// RESPONSE: {"message": "Backup restored successfully", "ideasRestored": N, "tasksRestored": M}
//
// A body that is not a backup document is rejected before anything is
// deleted.
func (h *BackupHandler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	var doc model.Backup
	if err := decodeJSON(w, r, &doc); err != nil {
		h.logger.Warn("invalid backup JSON", slog.String("error", err.Error()))
		writeError(w, r, h.logger, apperror.InvalidFormat("Invalid backup data format"))
		return
	}

	result, err := h.backups.Restore(r.Context(), userID(r), &doc)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
