package router

import "github.com/gin-gonic/gin"

// Module registers a feature's routes on an API group. Registry calls it once
// per mounted prefix.
type Module interface {
	Register(rg *gin.RouterGroup)
}
