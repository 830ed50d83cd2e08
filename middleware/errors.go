package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sunserve/sunserve-api/apperror"
	"go.uber.org/zap"
)

// ErrorResponse is the failure envelope written for every error
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// ErrorHandler turns the last error pushed with c.Error into the failure
// envelope. Internal errors are logged with their cause and answered with
// a generic message.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := apperror.Normalize(c.Errors.Last().Err)
		if appErr.Kind == apperror.KindInternal {
			log.Error("Request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(c.Errors.Last().Err),
			)
		}

		c.JSON(appErr.Status(), ErrorResponse{
			Success: false,
			Error:   appErr.Message,
			Code:    appErr.Code(),
		})
	}
}

// Recovery converts a panic into the internal error envelope
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("%v", r)
				}
				if errors.Is(err, http.ErrAbortHandler) {
					panic(r)
				}

				log.Error("Recovered from panic",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
					zap.Stack("stack"),
				)

				appErr := apperror.Internal(err)
				c.AbortWithStatusJSON(appErr.Status(), ErrorResponse{
					Success: false,
					Error:   appErr.Message,
					Code:    appErr.Code(),
				})
			}
		}()
		c.Next()
	}
}

// NotFound answers unmatched routes
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Success: false,
			Error:   fmt.Sprintf("Route %s not found", c.Request.URL.Path),
			Code:    apperror.NotFound("Route").Code(),
		})
	}
}
