package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-planner-api/internal/dto"
	"project-planner-api/internal/response"
	"project-planner-api/internal/service"
)

// PageHandler handles wiki page HTTP requests
type PageHandler struct {
	pageService service.PageService
	logger      *zap.Logger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(pageService service.PageService, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		pageService: pageService,
		logger:      logger,
	}
}

// ListPages godoc
// @Summary      Page 목록 조회
// @Tags         pages
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Success      200 {object} response.SuccessResponse{data=[]domain.Page} "목록 조회 성공"
// @Failure      404 {object} response.ErrorResponse "Project를 찾을 수 없음"
// @Router       /projects/{projectId}/pages [get]
func (h *PageHandler) ListPages(c *gin.Context) {
	pages, err := h.pageService.ListPages(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, pages)
}

// CreatePage godoc
// @Summary      Page 생성
// @Tags         pages
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Param        request body dto.CreatePageRequest true "Page 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=domain.Page} "Page 생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "Project를 찾을 수 없음"
// @Router       /projects/{projectId}/pages [post]
func (h *PageHandler) CreatePage(c *gin.Context) {
	var req dto.CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	page, err := h.pageService.CreatePage(c.Request.Context(), c.Param("projectId"), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, page)
}

// UpdatePage godoc
// @Summary      Page 수정
// @Description  parentId 를 null 로 보내면 최상위로 이동합니다
// @Tags         pages
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Param        pageId path string true "Page ID"
// @Param        request body dto.UpdatePageRequest true "Page 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=domain.Page} "Page 수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "Page를 찾을 수 없음"
// @Router       /projects/{projectId}/pages/{pageId} [patch]
func (h *PageHandler) UpdatePage(c *gin.Context) {
	var req dto.UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	page, err := h.pageService.UpdatePage(c.Request.Context(), c.Param("projectId"), c.Param("pageId"), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, page)
}

// DeletePage godoc
// @Summary      Page 삭제
// @Description  하위 Page는 삭제된 Page의 상위로 이동합니다
// @Tags         pages
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Param        pageId path string true "Page ID"
// @Success      200 {object} response.SuccessResponse{data=map[string]string} "Page 삭제 성공"
// @Failure      404 {object} response.ErrorResponse "Page를 찾을 수 없음"
// @Router       /projects/{projectId}/pages/{pageId} [delete]
func (h *PageHandler) DeletePage(c *gin.Context) {
	if err := h.pageService.DeletePage(c.Request.Context(), c.Param("projectId"), c.Param("pageId")); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, map[string]string{"message": "Page deleted successfully"})
}
