package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rcliao/studynotes/internal/store"
)

type onboardingRequest struct {
	Complete *bool `json:"complete" binding:"required"`
}

func RegisterMiscRoutes(router *gin.Engine, h *Handler) {
	router.GET("/api/onboarding", h.getOnboarding)
	router.POST("/api/onboarding", h.setOnboarding)
	router.GET("/api/stats", h.getStats)
}

func (h *Handler) getOnboarding(c *gin.Context) {
	v, _, err := h.Store.GetSetting(c.Request.Context(), store.SettingOnboardingComplete)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complete": v == "true"})
}

func (h *Handler) setOnboarding(c *gin.Context) {
	var req onboardingRequest
	if !bindJSON(c, &req) {
		return
	}
	v := "false"
	if *req.Complete {
		v = "true"
	}
	if err := h.Store.SetSetting(c.Request.Context(), store.SettingOnboardingComplete, v); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complete": *req.Complete})
}

func (h *Handler) getStats(c *gin.Context) {
	ctx := c.Request.Context()
	lib, err := h.Store.Stats(ctx)
	if err != nil {
		respondErr(c, err)
		return
	}
	quizzes, err := h.Quiz.Stats(ctx, "")
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"library": lib, "quizzes": quizzes})
}
