package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-planner-api/internal/dto"
	"project-planner-api/internal/response"
	"project-planner-api/internal/service"
)

// IssueHandler handles issue HTTP requests
type IssueHandler struct {
	issueService service.IssueService
	logger       *zap.Logger
}

// NewIssueHandler creates a new IssueHandler
func NewIssueHandler(issueService service.IssueService, logger *zap.Logger) *IssueHandler {
	return &IssueHandler{
		issueService: issueService,
		logger:       logger,
	}
}

// ListIssues godoc
// @Summary      Issue 목록 조회
// @Description  보드 순서대로 반환하며 쿼리로 필터링할 수 있습니다
// @Tags         issues
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Param        status query string false "상태 (별칭 허용)"
// @Param        type query string false "epic, story, task, bug"
// @Param        epicId query string false "Epic ID"
// @Param        sprintId query string false "Sprint ID"
// @Param        assignee query string false "담당자"
// @Success      200 {object} response.SuccessResponse{data=[]domain.Issue} "목록 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 필터"
// @Failure      404 {object} response.ErrorResponse "Project를 찾을 수 없음"
// @Router       /projects/{projectId}/issues [get]
func (h *IssueHandler) ListIssues(c *gin.Context) {
	var query dto.IssueListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	issues, err := h.issueService.ListIssues(c.Request.Context(), c.Param("projectId"), &query)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, issues)
}

// CreateIssue godoc
// @Summary      Issue 생성
// @Description  Project 이름의 이니셜과 카운터로 키(예: MA-3)를 발급합니다
// @Tags         issues
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Param        request body dto.CreateIssueRequest true "Issue 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=domain.Issue} "Issue 생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "Project를 찾을 수 없음"
// @Router       /projects/{projectId}/issues [post]
func (h *IssueHandler) CreateIssue(c *gin.Context) {
	var req dto.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	issue, err := h.issueService.CreateIssue(c.Request.Context(), c.Param("projectId"), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, issue)
}

// GetIssue godoc
// @Summary      Issue 조회
// @Tags         issues
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Param        issueRef path string true "Issue ID 또는 키"
// @Success      200 {object} response.SuccessResponse{data=domain.Issue} "Issue 조회 성공"
// @Failure      404 {object} response.ErrorResponse "Issue를 찾을 수 없음"
// @Router       /projects/{projectId}/issues/{issueRef} [get]
func (h *IssueHandler) GetIssue(c *gin.Context) {
	issue, err := h.issueService.GetIssue(c.Request.Context(), c.Param("projectId"), c.Param("issueRef"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, issue)
}

// UpdateIssue godoc
// @Summary      Issue 수정
// @Description  전달된 필드만 수정합니다. epicId, sprintId, assignee, storyPoints 는 null 로 해제할 수 있습니다
// @Tags         issues
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Param        issueRef path string true "Issue ID 또는 키"
// @Param        request body dto.UpdateIssueRequest true "Issue 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=domain.Issue} "Issue 수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "Issue를 찾을 수 없음"
// @Router       /projects/{projectId}/issues/{issueRef} [patch]
func (h *IssueHandler) UpdateIssue(c *gin.Context) {
	var req dto.UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	issue, err := h.issueService.UpdateIssue(c.Request.Context(), c.Param("projectId"), c.Param("issueRef"), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, issue)
}

// DeleteIssue godoc
// @Summary      Issue 삭제
// @Tags         issues
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Param        issueRef path string true "Issue ID 또는 키"
// @Success      200 {object} response.SuccessResponse{data=map[string]string} "Issue 삭제 성공"
// @Failure      404 {object} response.ErrorResponse "Issue를 찾을 수 없음"
// @Router       /projects/{projectId}/issues/{issueRef} [delete]
func (h *IssueHandler) DeleteIssue(c *gin.Context) {
	if err := h.issueService.DeleteIssue(c.Request.Context(), c.Param("projectId"), c.Param("issueRef")); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, map[string]string{"message": "Issue deleted successfully"})
}
