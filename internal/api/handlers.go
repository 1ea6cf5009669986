package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/screenrank/screenrank/internal/intake"
	"github.com/screenrank/screenrank/internal/llmjson"
	"github.com/screenrank/screenrank/internal/scoring"
	"github.com/screenrank/screenrank/internal/screening"
	"github.com/screenrank/screenrank/internal/source"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type jobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Experience  string `json:"experience"`
	Location    string `json:"location"`
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	job, err := screening.NewJobRequirement(req.Title, req.Description, req.Experience, req.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.pool.SetJob(job)
	if s.relay != nil {
		s.relay.SetJobText(job.Description)
	}
	s.logger.Info("job submitted",
		zap.String("title", job.Title),
		zap.Strings("skills", job.Skills),
	)

	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleGetJob(w http.ResponseWriter, _ *http.Request) {
	job := s.pool.Job()
	if job == nil {
		writeError(w, http.StatusNotFound, "no job submitted")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("resume")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'resume' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, intake.MaxFileSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload failed")
		return
	}

	candidate, err := intake.Intake(header.Filename, int64(len(data)), data)
	if err != nil {
		switch {
		case errors.Is(err, intake.ErrFileTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, intake.ErrUnsupportedFileType):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if err := s.pool.AddCandidate(candidate); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	s.logger.Info("candidate uploaded",
		zap.String("candidate_id", candidate.ID),
		zap.String("file_name", candidate.FileName),
		zap.Int64("file_size", candidate.FileSize),
	)

	writeJSON(w, http.StatusCreated, candidate)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.pool.Candidates())
}

func (s *Server) handleRemoveCandidate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.pool.RemoveCandidate(id) {
		writeError(w, http.StatusNotFound, "candidate not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type analyzeRequest struct {
	ReanalyzeAll bool `json:"reanalyzeAll"`
}

type analyzeResponse struct {
	Analyzed int `json:"analyzed"`
	Failed   int `json:"failed"`
	Total    int `json:"total"`
}

// handleAnalyze runs an analysis pass synchronously and reports the
// outcome. One failing candidate never aborts the run.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if r.Body != nil {
		// Body is optional; a bare POST means a partial run.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	updates, err := s.runner.Run(r.Context(), req.ReanalyzeAll)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	resp := analyzeResponse{}
	for u := range updates {
		switch u.Status {
		case screening.StatusAnalyzed:
			resp.Analyzed++
		case screening.StatusError:
			resp.Failed++
		}
	}
	resp.Total = s.pool.Len()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRanking(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.pool.Ranking())
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.pool.Reset()
	s.logger.Info("pool reset")
	w.WriteHeader(http.StatusNoContent)
}

type extractRequest struct {
	JobText    string `json:"jobText"`
	ResumeText string `json:"resumeText"`
}

type extractResponse struct {
	JobSkills    []string `json:"jobSkills"`
	ResumeSkills []string `json:"resumeSkills"`
	MatchScore   int      `json:"matchScore"`
}

// handleExtract is the stateless relay: job and resume text in, the
// model's two skill lists plus a containment-based score out.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if s.relay == nil {
		writeError(w, http.StatusServiceUnavailable, "no external skill service configured")
		return
	}

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.JobText == "" || req.ResumeText == "" {
		writeError(w, http.StatusBadRequest, "jobText and resumeText are required")
		return
	}

	pair, err := s.relay.ExtractPair(r.Context(), req.JobText, req.ResumeText)
	if err != nil {
		writeError(w, statusForSourceError(err), err.Error())
		return
	}

	result := scoring.Score(pair.ResumeSkills, pair.JobSkills)

	writeJSON(w, http.StatusOK, extractResponse{
		JobSkills:    pair.JobSkills,
		ResumeSkills: pair.ResumeSkills,
		MatchScore:   result.Percent,
	})
}

func statusForSourceError(err error) int {
	switch {
	case errors.Is(err, source.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, source.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, source.ErrServiceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, llmjson.ErrMalformedResponse),
		errors.Is(err, llmjson.ErrParse),
		errors.Is(err, llmjson.ErrSchema):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
