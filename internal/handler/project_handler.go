package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-planner-api/internal/dto"
	"project-planner-api/internal/response"
	"project-planner-api/internal/service"
)

const (
	// SyncConfirmHeader must carry SyncConfirmValue for a full collection replace
	SyncConfirmHeader = "X-Confirm-Sync"
	SyncConfirmValue  = "replace-all"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	projectService service.ProjectService
	logger         *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// ListProjects godoc
// @Summary      Project 목록 조회
// @Description  삭제되지 않은 Project 요약을 최근 수정 순으로 반환합니다
// @Tags         projects
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]domain.ProjectSummary} "목록 조회 성공"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, projects)
}

// CreateProject godoc
// @Summary      Project 생성
// @Description  새 Project를 생성합니다. id를 생략하면 서버가 생성합니다
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateProjectRequest true "Project 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=domain.Project} "Project 생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      409 {object} response.ErrorResponse "이미 존재하는 id"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, project)
}

// GetProject godoc
// @Summary      Project 조회
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Success      200 {object} response.SuccessResponse{data=domain.Project} "Project 조회 성공"
// @Failure      404 {object} response.ErrorResponse "Project를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "저장된 데이터 손상"
// @Router       /projects/{projectId} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.GetProject(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, project)
}

// UpdateProject godoc
// @Summary      Project 수정
// @Description  전달된 필드만 수정합니다
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Param        request body dto.UpdateProjectRequest true "Project 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=domain.Project} "Project 수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "Project를 찾을 수 없음"
// @Router       /projects/{projectId} [patch]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), c.Param("projectId"), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, project)
}

// DeleteProject godoc
// @Summary      Project 삭제
// @Description  기본은 soft delete이며 hard=true 이면 즉시 제거합니다
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Param        hard query bool false "즉시 삭제"
// @Success      200 {object} response.SuccessResponse{data=map[string]string} "Project 삭제 성공"
// @Failure      404 {object} response.ErrorResponse "Project를 찾을 수 없음"
// @Router       /projects/{projectId} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	hard := c.Query("hard") == "true"

	if err := h.projectService.DeleteProject(c.Request.Context(), c.Param("projectId"), hard); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, map[string]string{"message": "Project deleted successfully"})
}

// SyncProjects godoc
// @Summary      Project 전체 교체
// @Description  저장된 모든 Project를 요청 본문으로 교체합니다. X-Confirm-Sync: replace-all 헤더가 필요합니다
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        X-Confirm-Sync header string true "replace-all"
// @Param        request body dto.SyncProjectsRequest true "교체할 Project 목록"
// @Success      200 {object} response.SuccessResponse{data=dto.SyncProjectsResponse} "교체 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      428 {object} response.ErrorResponse "확인 헤더 누락"
// @Router       /projects/sync [put]
func (h *ProjectHandler) SyncProjects(c *gin.Context) {
	if c.GetHeader(SyncConfirmHeader) != SyncConfirmValue {
		response.SendError(c, http.StatusPreconditionRequired, response.ErrCodeConfirmationRequired,
			"Replacing every project requires the "+SyncConfirmHeader+": "+SyncConfirmValue+" header")
		return
	}

	var req dto.SyncProjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.projectService.SyncProjects(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// GetBoardSummary godoc
// @Summary      보드 요약
// @Description  상태, 타입별 이슈 수와 스토리 포인트, 활성 스프린트를 반환합니다
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Success      200 {object} response.SuccessResponse{data=dto.BoardSummaryResponse} "요약 조회 성공"
// @Failure      404 {object} response.ErrorResponse "Project를 찾을 수 없음"
// @Router       /projects/{projectId}/summary [get]
func (h *ProjectHandler) GetBoardSummary(c *gin.Context) {
	summary, err := h.projectService.GetBoardSummary(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, summary)
}
