package resumes

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/extract"
	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/server/middleware"
	"recruit-backend/internal/shared/server/respond"
	"recruit-backend/internal/shared/util"
	"recruit-backend/internal/users"
)

// Uploaded resume files are parsed in memory and discarded.
const maxImportSize = 10 << 20

// Handler wires HTTP handlers to the resume service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes. The access middleware must already
// protect the group; role guards are applied per route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	applicantOnly := middleware.RequireRoles(users.RoleApplicant)
	recruiterOnly := middleware.RequireRoles(users.RoleRecruiter)

	rg.POST("/resumes", applicantOnly, h.create)
	rg.POST("/resumes/import", applicantOnly, h.importFile)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:resumeId", h.get)
	rg.PATCH("/resumes/:resumeId", h.update)
	rg.DELETE("/resumes/:resumeId", h.remove)
	rg.PATCH("/resumes/:resumeId/status", recruiterOnly, h.transition)
	rg.GET("/resumes/:resumeId/logs", recruiterOnly, h.listLogs)
}

type createRequest struct {
	Title             string `json:"title"`
	PersonalStatement string `json:"personalStatement"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	account := middleware.CurrentAccount(c)
	resume, err := h.Svc.Create(c.Request.Context(), account.ID, req.Title, req.PersonalStatement)
	if err != nil {
		respond.AppError(c, err)
		return
	}
	metrics.IncResumeCreated()
	respond.Created(c, gin.H{"data": toResumeResponse(resume)})
}

func (h *Handler) importFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > maxImportSize {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds the 10MB limit", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.AppError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		respond.AppError(c, err)
		return
	}

	statement, err := extract.Text(data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not extract text from file", nil)
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		name, err := util.SanitizeFileName(fileHeader.Filename)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
			return
		}
		title = strings.TrimSuffix(name, filepath.Ext(name))
	}

	account := middleware.CurrentAccount(c)
	resume, err := h.Svc.Create(c.Request.Context(), account.ID, title, statement)
	if err != nil {
		respond.AppError(c, err)
		return
	}
	metrics.IncResumeCreated()
	respond.Created(c, gin.H{"data": toResumeResponse(resume)})
}

func (h *Handler) list(c *gin.Context) {
	account := middleware.CurrentAccount(c)
	items, err := h.Svc.List(c.Request.Context(), account.ID, account.Role, c.Query("status"), c.Query("sort"))
	if err != nil {
		respond.AppError(c, err)
		return
	}
	respond.OK(c, gin.H{"data": toResumeResponses(items)})
}

func (h *Handler) get(c *gin.Context) {
	account := middleware.CurrentAccount(c)
	resume, err := h.Svc.Get(c.Request.Context(), account.ID, account.Role, c.Param("resumeId"))
	if err != nil {
		respond.AppError(c, err)
		return
	}
	respond.OK(c, gin.H{"data": toResumeResponse(resume)})
}

type updateRequest struct {
	Title             *string `json:"title"`
	PersonalStatement *string `json:"personalStatement"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	account := middleware.CurrentAccount(c)
	resume, err := h.Svc.Update(c.Request.Context(), account.ID, c.Param("resumeId"), UpdateInput{
		Title:             req.Title,
		PersonalStatement: req.PersonalStatement,
	})
	if err != nil {
		respond.AppError(c, err)
		return
	}
	respond.OK(c, gin.H{"data": toResumeResponse(resume)})
}

func (h *Handler) remove(c *gin.Context) {
	account := middleware.CurrentAccount(c)
	deletedID, err := h.Svc.Delete(c.Request.Context(), account.ID, c.Param("resumeId"))
	if err != nil {
		respond.AppError(c, err)
		return
	}
	respond.OK(c, gin.H{"data": gin.H{"id": deletedID}})
}

type transitionRequest struct {
	ApplicationStatus string `json:"applicationStatus"`
	Reason            string `json:"reason"`
}

func (h *Handler) transition(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	account := middleware.CurrentAccount(c)
	log, err := h.Svc.Transition(c.Request.Context(), account.ID, c.Param("resumeId"), req.ApplicationStatus, req.Reason)
	if err != nil {
		respond.AppError(c, err)
		return
	}
	metrics.IncStatusTransition()
	respond.Created(c, gin.H{"data": toStatusLogResponse(log, account.Name)})
}

func (h *Handler) listLogs(c *gin.Context) {
	logs, err := h.Svc.ListLogs(c.Request.Context(), c.Param("resumeId"))
	if err != nil {
		respond.AppError(c, err)
		return
	}
	respond.OK(c, gin.H{"data": toStatusLogResponses(logs)})
}
