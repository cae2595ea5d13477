package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-planner-api/internal/dto"
	"project-planner-api/internal/response"
	"project-planner-api/internal/service"
)

// SprintHandler handles sprint HTTP requests
type SprintHandler struct {
	sprintService service.SprintService
	logger        *zap.Logger
}

// NewSprintHandler creates a new SprintHandler
func NewSprintHandler(sprintService service.SprintService, logger *zap.Logger) *SprintHandler {
	return &SprintHandler{
		sprintService: sprintService,
		logger:        logger,
	}
}

// ListSprints godoc
// @Summary      Sprint 목록 조회
// @Tags         sprints
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Success      200 {object} response.SuccessResponse{data=[]domain.Sprint} "목록 조회 성공"
// @Failure      404 {object} response.ErrorResponse "Project를 찾을 수 없음"
// @Router       /projects/{projectId}/sprints [get]
func (h *SprintHandler) ListSprints(c *gin.Context) {
	sprints, err := h.sprintService.ListSprints(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, sprints)
}

// CreateSprint godoc
// @Summary      Sprint 생성
// @Tags         sprints
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Param        request body dto.CreateSprintRequest true "Sprint 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=domain.Sprint} "Sprint 생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "Project를 찾을 수 없음"
// @Router       /projects/{projectId}/sprints [post]
func (h *SprintHandler) CreateSprint(c *gin.Context) {
	var req dto.CreateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sprint, err := h.sprintService.CreateSprint(c.Request.Context(), c.Param("projectId"), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, sprint)
}

// UpdateSprint godoc
// @Summary      Sprint 수정
// @Tags         sprints
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Param        sprintId path string true "Sprint ID"
// @Param        request body dto.UpdateSprintRequest true "Sprint 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=domain.Sprint} "Sprint 수정 성공"
// @Failure      404 {object} response.ErrorResponse "Sprint를 찾을 수 없음"
// @Router       /projects/{projectId}/sprints/{sprintId} [patch]
func (h *SprintHandler) UpdateSprint(c *gin.Context) {
	var req dto.UpdateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sprint, err := h.sprintService.UpdateSprint(c.Request.Context(), c.Param("projectId"), c.Param("sprintId"), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, sprint)
}

// DeleteSprint godoc
// @Summary      Sprint 삭제
// @Description  Sprint에 배정된 Issue는 배정이 해제됩니다
// @Tags         sprints
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Param        sprintId path string true "Sprint ID"
// @Success      200 {object} response.SuccessResponse{data=map[string]string} "Sprint 삭제 성공"
// @Failure      404 {object} response.ErrorResponse "Sprint를 찾을 수 없음"
// @Router       /projects/{projectId}/sprints/{sprintId} [delete]
func (h *SprintHandler) DeleteSprint(c *gin.Context) {
	if err := h.sprintService.DeleteSprint(c.Request.Context(), c.Param("projectId"), c.Param("sprintId")); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, map[string]string{"message": "Sprint deleted successfully"})
}
