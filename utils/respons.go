package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrInternal is what clients see in place of any 5xx cause.
var ErrInternal = errors.New("something went wrong, please try again")

// JSONResponse is the envelope every API response is wrapped in.
type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
	})
}

// RespondMappedError answers with the status statusFor picks for err. Server
// errors are logged against the route and replaced with ErrInternal.
func RespondMappedError(c *gin.Context, err error, statusFor func(error) int) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		ErrorLogger.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		err = ErrInternal
	}
	RespondError(c, code, err)
}
