package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookmate/pkg/logger"
)

// RespondJSON writes the standard envelope. Every 5xx answer is also
// logged here, so handlers never have to remember to.
func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	if code >= http.StatusInternalServerError {
		logger.GetDefault().LogHTTPError(c, code, message)
	}
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}
