package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the success envelope for single-record and action endpoints
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ListResponse is the success envelope for list endpoints.
// Count is the total number of matching rows, PageSize the rows returned.
type ListResponse struct {
	Success  bool  `json:"success"`
	Count    int64 `json:"count"`
	Page     int   `json:"page,omitempty"`
	PageSize int   `json:"pageSize"`
	Data     any   `json:"data"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func respondList(c *gin.Context, count int64, p page, size int, data any) {
	c.JSON(http.StatusOK, ListResponse{
		Success:  true,
		Count:    count,
		Page:     p.number,
		PageSize: size,
		Data:     data,
	})
}
