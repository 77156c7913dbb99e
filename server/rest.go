package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedimport/pkg/domain"
	"github.com/umputun/feedimport/pkg/importer"
)

const (
	defaultPageLimit  = 10
	maxPageLimit      = 100
	defaultFailedList = 20
)

type importRequest struct {
	FeedURL  string `json:"feedUrl"`
	Category string `json:"category"`
}

type importResponse struct {
	ImportID string `json:"importId"`
	Error    string `json:"error,omitempty"`
}

type historyResponse struct {
	*domain.HistoryPage
	Stats domain.ImportStats `json:"stats"`
}

type queueResponse struct {
	Stats  domain.QueueStats `json:"stats"`
	Failed []domain.Task     `json:"failed"`
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// importHandler queues an import of a single feed
func (s *Server) importHandler(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, errors.New("invalid request body"), http.StatusBadRequest)
		return
	}

	importID, err := s.importer.Enqueue(r.Context(), req.FeedURL, req.Category)
	switch {
	case errors.Is(err, importer.ErrEmptyURL):
		renderError(w, r, errors.New("feedUrl is required"), http.StatusBadRequest)
		return
	case err != nil && importID != "":
		// the import log exists but the task didn't make it to the queue
		lgr.Printf("[ERROR] failed to queue import %s: %v", importID, err)
		renderJSON(w, r, http.StatusInternalServerError, importResponse{ImportID: importID, Error: err.Error()})
		return
	case err != nil:
		lgr.Printf("[ERROR] failed to start import of %s: %v", req.FeedURL, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, importResponse{ImportID: importID})
}

// importAllHandler queues imports of all configured feeds, per-feed failures are reported in the result list
func (s *Server) importAllHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.importer.EnqueueAll(r.Context())
	if err != nil {
		lgr.Printf("[WARN] import of all feeds had failures: %v", err)
	}
	if res == nil {
		res = []domain.EnqueueResult{}
	}
	renderJSON(w, r, http.StatusOK, res)
}

// historyHandler returns a page of import logs with overall statistics
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := min(queryInt(r, "limit", defaultPageLimit), maxPageLimit)

	logs, err := s.history.ListImportLogs(r.Context(), page, limit)
	if err != nil {
		lgr.Printf("[ERROR] failed to list import logs: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	stats, err := s.history.ImportStats(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to get import stats: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, historyResponse{HistoryPage: logs, Stats: stats})
}

// importLogHandler returns a single import log
func (s *Server) importLogHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	log, err := s.history.GetImportLog(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		renderError(w, r, errors.New("import not found"), http.StatusNotFound)
		return
	}
	if err != nil {
		lgr.Printf("[ERROR] failed to get import log %s: %v", id, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, log)
}

// queueHandler returns broker counters and the most recent buried tasks
func (s *Server) queueHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.queue.Stats(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to get queue stats: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	failed, err := s.queue.Failed(r.Context(), min(queryInt(r, "limit", defaultFailedList), maxPageLimit))
	if err != nil {
		lgr.Printf("[ERROR] failed to list failed tasks: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if failed == nil {
		failed = []domain.Task{}
	}
	renderJSON(w, r, http.StatusOK, queueResponse{Stats: stats, Failed: failed})
}

// queryInt returns a positive integer query parameter or the default
func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return def
	}
	return v
}
