package response

import "github.com/gin-gonic/gin"

// SuccessResponse wraps every successful payload
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse wraps every failure
type ErrorResponse struct {
	Error interface{} `json:"error"`
}

// ErrorDetail is the body of ErrorResponse.Error
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SendSuccess writes data inside the success envelope
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{Data: data})
}

// SendError writes code and message inside the error envelope
func SendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
