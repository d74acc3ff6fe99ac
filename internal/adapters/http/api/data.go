package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"
)

// DataHandler handles export and clear requests.
type DataHandler struct {
	deps DataService
	now  func() time.Time
}

// NewDataHandler creates a new data handler.
func NewDataHandler(deps DataService) *DataHandler {
	return &DataHandler{deps: deps, now: time.Now}
}

// HandleExport handles GET /export?format= requests. JSON is the default.
func (h *DataHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	var buf bytes.Buffer
	f, err := h.deps.Export(r.Context(), &buf, format)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.FileName(h.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// HandleClear handles DELETE /data?key= requests. Without keys every
// clearable key is removed.
func (h *DataHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.ClearData(r.Context(), r.URL.Query()["key"]...); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
