package api

import (
	"fmt"
	"net/http"

	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r, 1) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	_, fh, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	filename, data, err := s.readUpload(fh)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	job := pipeline.NewJob(filename, data)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusAccepted, jobAccepted(job))
}

func (s *Server) handleSubmitBatch(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r, 10) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	var (
		jobs    []*pipeline.Job
		results []map[string]any
	)
	for _, fh := range files {
		filename, data, err := s.readUpload(fh)
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}
		jobs = append(jobs, pipeline.NewJob(filename, data))
	}

	var batchID string
	if len(jobs) > 0 {
		id, err := s.orchestrator.SubmitBatch(jobs)
		if err != nil {
			s.log.Warn("batch partially rejected", "batch_id", id, "error", err)
		}
		batchID = id
	}
	for _, job := range jobs {
		snap := job.Snapshot()
		if snap.Status == pipeline.StatusFailed {
			results = append(results, map[string]any{
				"filename": snap.Filename,
				"job_id":   snap.ID,
				"error":    "job queue is full",
			})
			continue
		}
		results = append(results, jobAccepted(job))
	}

	resp := map[string]any{"jobs": results}
	if batchID != "" {
		resp["batch_id"] = batchID
		resp["poll_url"] = fmt.Sprintf("/api/batches/%s", batchID)
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func jobAccepted(job *pipeline.Job) map[string]any {
	snap := job.Snapshot()
	return map[string]any{
		"filename": snap.Filename,
		"job_id":   snap.ID,
		"doc_id":   snap.DocID,
		"status":   snap.Status,
		"poll_url": fmt.Sprintf("/api/jobs/%s", snap.ID),
	}
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleBatchStatus(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	jobs := s.orchestrator.GetBatch(batchID)
	if len(jobs) == 0 {
		jsonError(w, "batch not found", http.StatusNotFound)
		return
	}
	snaps := make([]pipeline.JobSnapshot, 0, len(jobs))
	done := 0
	for _, j := range jobs {
		snap := j.Snapshot()
		if snap.Status.Done() {
			done++
		}
		snaps = append(snaps, snap)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"batch_id": batchID,
		"total":    len(snaps),
		"done":     done,
		"jobs":     snaps,
	})
}
