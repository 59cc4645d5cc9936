package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mhasan/pinpoint/internal/apperror"
	"github.com/mhasan/pinpoint/internal/auth"
	"github.com/mhasan/pinpoint/internal/importer"
)

// maxImportSize caps the uploaded CSV at 32MB. A full Takeout saved-places
// export is well under 1MB.
const maxImportSize = 32 << 20

// ImportHandler accepts a Takeout saved-places CSV upload and runs it
// through the import pipeline.
type ImportHandler struct {
	importer *importer.Importer
	logger   *slog.Logger
}

func NewImportHandler(imp *importer.Importer, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{importer: imp, logger: logger}
}

// HandleTakeout imports a CSV sent as the "file" field of a multipart form.
// The response is the import report; a report with row errors is still a
// 200, since the rows that parsed were committed.
//
// HTTP: POST /api/import/takeout
func (h *ImportHandler) HandleTakeout(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperror.ValidationFailed("file", "a CSV file upload named \"file\" is required"))
		return
	}
	defer file.Close()

	report, err := h.importer.Import(r.Context(), userID, importer.NewTakeoutSource(file))
	if err != nil {
		h.logger.Error("import aborted",
			slog.String("userID", userID),
			slog.Int("imported", report.Imported),
			slog.String("error", err.Error()),
		)
		switch {
		case errors.Is(err, apperror.ErrUnavailable):
			writeError(w, err)
		default:
			// Stream decode failures and cancellations: the rows already
			// committed stay; tell the client where it stopped.
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   "import_aborted",
				"message": err.Error(),
				"report":  report,
			})
		}
		return
	}

	h.logger.Info("import finished",
		slog.String("userID", userID),
		slog.Int("imported", report.Imported),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", len(report.Errors)),
	)
	writeJSON(w, http.StatusOK, report)
}
