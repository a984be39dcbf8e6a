package http

import "github.com/gin-gonic/gin"

// Register attaches profile routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

// RegisterWizard attaches the profile wizard routes.
func (h *Handler) RegisterWizard(rg *gin.RouterGroup) {
	rg.POST("", h.openWizard)
	rg.GET("", h.listWizards)
	rg.GET("/:session", h.getWizard)
	rg.POST("/:session/steps", h.submitStep)
	rg.POST("/:session/previous", h.previousStep)
	rg.POST("/:session/goto/:step", h.gotoStep)
	rg.DELETE("/:session", h.closeWizard)
}
