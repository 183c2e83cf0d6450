package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the error envelope. Successful calls return the resource itself.
type Response struct {
	Status int    `json:"-"`               // HTTP status code
	Error  string `json:"error,omitempty"` // Error message
}

// Success responses
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error responses abort the chain so later middleware and handlers do not run.
func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, &Response{
		Status: status,
		Error:  message,
	})
}

func BadRequest(c *gin.Context, message string) {
	abortWithError(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	abortWithError(c, http.StatusNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	abortWithError(c, http.StatusInternalServerError, message)
}

func TooManyRequests(c *gin.Context, message string) {
	abortWithError(c, http.StatusTooManyRequests, message)
}

func RequestTooLarge(c *gin.Context, message string) {
	abortWithError(c, http.StatusRequestEntityTooLarge, message)
}

func ServiceUnavailable(c *gin.Context, message string) {
	abortWithError(c, http.StatusServiceUnavailable, message)
}
