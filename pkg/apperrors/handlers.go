package apperrors

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mati-gonz/control-obras-dasco-api/internal/logger"
)

type errorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// HandleError writes an AppError as a JSON response. Only the code and the
// message reach the client; the wrapped cause is logged server-side.
func HandleError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error("request failed",
			"code", string(appErr.Code),
			"domain", appErr.Domain,
			"path", c.Request.URL.Path,
			"error", appErr.Error(),
		)
	} else {
		logger.Debug("request rejected",
			"code", string(appErr.Code),
			"path", c.Request.URL.Path,
			"message", appErr.Message,
		)
	}

	c.AbortWithStatusJSON(appErr.HTTPStatus, errorResponse{
		Error: errorBody{Code: appErr.Code, Message: appErr.Message},
	})
}
