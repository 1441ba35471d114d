package handlers

import (
	"context"
	"net/http"

	"github.com/dom/riot-collector/internal/scheduler"
	"github.com/dom/riot-collector/internal/scraper"
	"github.com/dom/riot-collector/internal/service"
	"go.uber.org/zap"
)

type JobsHandler struct {
	scheduler *scheduler.Scheduler
	release   *service.ReleaseService
	logger    *zap.Logger
}

func NewJobsHandler(sched *scheduler.Scheduler, release *service.ReleaseService, logger *zap.Logger) *JobsHandler {
	return &JobsHandler{scheduler: sched, release: release, logger: logger}
}

type JobsResponse struct {
	Jobs         []scheduler.JobInfo  `json:"jobs"`
	ReleaseState service.ReleaseState `json:"release_state"`
}

func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, JobsResponse{
		Jobs:         h.scheduler.Jobs(),
		ReleaseState: h.release.State(),
	})
}

// Release runs a release now and answers with its report. The version
// query parameter selects a release; without it the latest is used. The
// release outlives a disconnecting client.
func (h *JobsHandler) Release(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())

	var (
		report *service.ReleaseReport
		err    error
	)
	if raw := r.URL.Query().Get("version"); raw != "" {
		v, perr := scraper.ParseVersion(raw)
		if perr != nil {
			http.Error(w, perr.Error(), http.StatusBadRequest)
			return
		}
		report, err = h.release.ReleaseVersion(ctx, v)
	} else {
		report, err = h.release.Release(ctx)
	}
	if err != nil {
		writeError(w, h.logger, "jobs.Release", err, "Release failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}
