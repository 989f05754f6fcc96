// Package handlers implements the HTTP API endpoints.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholarmap/scholarmap/pkg/errors"
)

// successBody wraps every successful response so clients can branch on code
// before touching data.
type successBody struct {
	Code string `json:"code"`
	Data any    `json:"data,omitempty"`
}

// errorBody is the error response envelope.  Code is a stable contract value;
// Detail carries supplementary context such as the offending id.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, successBody{Code: errors.CodeOK.String(), Data: data})
}

func respondOK(c *gin.Context, data any) {
	respond(c, http.StatusOK, data)
}

// respondError maps the error chain to an HTTP status via its error code.
// Non-application errors surface as opaque 500s.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *errors.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, errorBody{
			Code:    errors.CodeInternal.String(),
			Message: "internal server error",
		})
		return
	}
	c.JSON(appErr.Code.HTTPStatus(), errorBody{
		Code:    appErr.Code.String(),
		Message: appErr.Message,
		Detail:  appErr.Detail,
	})
}

func respondInvalidParam(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorBody{
		Code:    errors.CodeInvalidParam.String(),
		Message: message,
	})
}
