package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/taskboard/pkg/response"
)

func Health(c *gin.Context) {
	response.Message(c, http.StatusOK, "API is running")
}
