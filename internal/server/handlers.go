package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lawndlwd/doc-drift/internal/alerts"
	"github.com/lawndlwd/doc-drift/internal/skeleton"
	"github.com/lawndlwd/doc-drift/internal/types"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type FilesRequest struct {
	Files []types.FileChange `json:"files" binding:"required,dive"`
	Owner string             `json:"owner" binding:"required"`
	Repo  string             `json:"repo"`
}

type BatchRequest struct {
	Files            []types.FileChange    `json:"files" binding:"required,dive"`
	Owner            string                `json:"owner" binding:"required"`
	Repo             string                `json:"repo"`
	ExistingComments []types.ReviewComment `json:"existingComments"`
}

type InstallationRequest struct {
	Files   []types.CodeFile `json:"files" binding:"required,dive"`
	Owner   string           `json:"owner" binding:"required"`
	Repo    string           `json:"repo" binding:"required"`
	Branch  string           `json:"branch"`
	Summary string           `json:"summary"`
}

type UpdateRequest struct {
	FilePairs []skeleton.FilePair `json:"filePairs" binding:"required,dive"`
	MDToCode  bool                `json:"mdToCode"`
	NewFiles  []types.CodeFile    `json:"newFiles" binding:"omitempty,dive"`
	Owner     string              `json:"owner" binding:"required"`
	Repo      string              `json:"repo" binding:"required"`
	Branch    string              `json:"branch"`
	Summary   string              `json:"summary"`
}

type AlertsResponse struct {
	Alerts []types.Alert `json:"alerts"`
}

type NewLinksResponse struct {
	Alerts          []types.Alert `json:"alerts"`
	NewLinksMessage *string       `json:"newLinksMessage"`
}

type BatchResponse struct {
	Alerts    []types.Alert `json:"alerts"`
	NewAlerts []types.Alert `json:"newAlerts"`
}

type FilesResponse struct {
	Files []types.CodeFile `json:"files"`
}

func (s *Server) bind(c *gin.Context, handler string, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		s.log(c, handler).Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return false
	}
	return true
}

// handleAlerts handles POST /v01/links/alerts.
func (s *Server) handleAlerts(c *gin.Context) {
	var req FilesRequest
	if !s.bind(c, "alerts", &req) {
		return
	}

	found := s.alerts.Alerts(c.Request.Context(), req.Files)
	alertsTotal.Add(float64(len(found)))
	s.log(c, "alerts").Info("alerts computed", "owner", req.Owner, "repo", req.Repo, "files", len(req.Files), "alerts", len(found))

	c.JSON(http.StatusOK, AlertsResponse{Alerts: found})
}

// handleNewLinks handles POST /v01/links/new. Alerts is always empty; the
// route only reports links the diff added.
func (s *Server) handleNewLinks(c *gin.Context) {
	var req FilesRequest
	if !s.bind(c, "newLinks", &req) {
		return
	}

	resp := NewLinksResponse{Alerts: []types.Alert{}}
	if msg, ok := s.alerts.NewLinksMessage(c.Request.Context(), req.Files); ok {
		resp.NewLinksMessage = &msg
		newLinksTotal.Inc()
	}
	c.JSON(http.StatusOK, resp)
}

// handleAlertsBatch handles POST /v01/links/alerts/batch and drops alerts
// already posted as review comments.
func (s *Server) handleAlertsBatch(c *gin.Context) {
	var req BatchRequest
	if !s.bind(c, "alertsBatch", &req) {
		return
	}

	found := s.alerts.Alerts(c.Request.Context(), req.Files)
	fresh := alerts.NewAlerts(found, req.ExistingComments)
	alertsTotal.Add(float64(len(fresh)))
	s.log(c, "alertsBatch").Info("alerts computed", "owner", req.Owner, "repo", req.Repo, "files", len(req.Files), "alerts", len(found), "new", len(fresh))

	c.JSON(http.StatusOK, BatchResponse{Alerts: found, NewAlerts: fresh})
}

// handleInstallation handles POST /v01/gitbook/installation.
func (s *Server) handleInstallation(c *gin.Context) {
	var req InstallationRequest
	if !s.bind(c, "installation", &req) {
		return
	}

	repo := skeleton.RepoRef{Owner: req.Owner, Repo: req.Repo, Branch: req.Branch}
	files := s.syncer.Install(c.Request.Context(), req.Files, repo, req.Summary)
	pagesTotal.WithLabelValues("install").Add(float64(len(files)))

	c.JSON(http.StatusOK, FilesResponse{Files: files})
}

// handleUpdate handles POST /v01/gitbook/update.
func (s *Server) handleUpdate(c *gin.Context) {
	var req UpdateRequest
	if !s.bind(c, "update", &req) {
		return
	}

	repo := skeleton.RepoRef{Owner: req.Owner, Repo: req.Repo, Branch: req.Branch}
	files := s.syncer.Update(c.Request.Context(), req.FilePairs, req.MDToCode, req.NewFiles, repo, req.Summary)
	pagesTotal.WithLabelValues("update").Add(float64(len(files)))

	c.JSON(http.StatusOK, FilesResponse{Files: files})
}
