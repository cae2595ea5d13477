package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"project-planner-api/internal/response"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"리소스 없음", response.NewNotFoundError("Project not found", ""), http.StatusNotFound, response.ErrCodeNotFound},
		{"검증 실패", response.NewValidationError("bad", ""), http.StatusBadRequest, response.ErrCodeValidation},
		{"이미 존재", response.NewAppError(response.ErrCodeAlreadyExists, "dup", ""), http.StatusConflict, response.ErrCodeAlreadyExists},
		{"데이터 손상", response.NewAppError(response.ErrCodeDataCorrupted, "corrupt", "x"), http.StatusInternalServerError, response.ErrCodeDataCorrupted},
		{"저장 실패", response.NewAppError(response.ErrCodePersistence, "flush", ""), http.StatusInternalServerError, response.ErrCodePersistence},
		{"확인 필요", response.NewAppError(response.ErrCodeConfirmationRequired, "confirm", ""), http.StatusPreconditionRequired, response.ErrCodeConfirmationRequired},
		{"인증 실패", response.NewAppError(response.ErrCodeUnauthorized, "auth", ""), http.StatusUnauthorized, response.ErrCodeUnauthorized},
		{"일반 에러", errors.New("boom"), http.StatusInternalServerError, response.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) {
				handleServiceError(c, zap.NewNop(), tt.err)
			})

			w := performRequest(r, http.MethodGet, "/x", nil, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCode, decodeError(t, w).Error.Code)
		})
	}
}
