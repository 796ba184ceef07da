package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clipfile/clipper/internal/jobs"
	"github.com/clipfile/clipper/pkg/log"
)

// maxUploadMemory bounds how much of a multipart upload is buffered in
// memory before spilling to disk.
const maxUploadMemory = 32 << 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "mode": "async"})
}

// handleUpload persists the payload under a fresh job id, enqueues the
// pipeline and returns immediately. The requester never waits on (or
// hears about) pipeline completion; progress is a separate poll.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart upload with a file field")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	jobID := jobs.NewID()
	inputPath, err := s.layout.SaveUpload(jobID, file)
	if err != nil {
		log.Error("Failed to persist upload for job %s: %v", jobID, err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	job := s.queue.Enqueue(jobID, inputPath)
	log.Info("Job %s accepted: %s", job.ID, inputPath)
	writeJSON(w, http.StatusOK, map[string]string{"job_id": job.ID})
}

// handleProgress reports the percent for a job id. Unknown ids read as 0;
// a failed job reads as the -1 sentinel.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeJSON(w, http.StatusOK, map[string]int{"percent": s.queue.Progress(id)})
}

// handleDownload serves the rendered clip, or a not-ready error for jobs
// that are unknown, still running, or failed.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, ok := s.queue.Get(id)
	if !ok || job.Status != jobs.StatusSuccess || !s.layout.OutputExists(id) {
		writeError(w, http.StatusNotFound, "clip not ready")
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.mp4"`)
	http.ServeFile(w, r, job.OutputPath)
}

func (s *Server) handleJobs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.queue.List())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
