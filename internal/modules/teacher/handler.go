package teacher

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"retreatbooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterAdminRoutes mounts read endpoints.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/teachers", h.ListTeachers)
	rg.GET("/teachers/assignments", h.ListAssignments)
}

// RegisterEditorRoutes mounts endpoints restricted to ADMIN and MANAGER.
func (h *Handler) RegisterEditorRoutes(rg *gin.RouterGroup) {
	rg.POST("/teachers", h.CreateTeacher)
	rg.PATCH("/teachers", h.UpdateTeacher)
	rg.DELETE("/teachers", h.DeleteTeacher)
	rg.DELETE("/teachers/:id", h.DeleteTeacher)
	rg.POST("/teachers/assign", h.AssignTeacher)
}

func (h *Handler) ListTeachers(c *gin.Context) {
	teachers, err := h.service.ListTeachers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, teachers)
}

func (h *Handler) CreateTeacher(c *gin.Context) {
	var req CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	t, err := h.service.CreateTeacher(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

func (h *Handler) UpdateTeacher(c *gin.Context) {
	var req UpdateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	t, err := h.service.UpdateTeacher(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

// DeleteTeacher accepts the id as a path segment or as ?id=.
func (h *Handler) DeleteTeacher(c *gin.Context) {
	raw := c.Param("id")
	if raw == "" {
		raw = c.Query("id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid teacher id")
		return
	}
	if err := h.service.DeleteTeacher(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) AssignTeacher(c *gin.Context) {
	var req AssignTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	a, err := h.service.AssignTeacher(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

func (h *Handler) ListAssignments(c *gin.Context) {
	assignments, err := h.service.ListAssignments(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, assignments)
}
