package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rcliao/studynotes/internal/store"
)

type submitRequest struct {
	Answers []string `json:"answers" binding:"required"`
}

func RegisterQuizRoutes(router *gin.Engine, h *Handler) {
	group := router.Group("/api/quizzes")
	{
		group.GET("", h.listQuizzes)
		group.GET("/:id", h.getQuiz)
		group.DELETE("/:id", h.deleteQuiz)
		group.POST("/:id/submit", h.submitQuiz)
	}
}

func (h *Handler) listQuizzes(c *gin.Context) {
	list, err := h.Quiz.List(c.Request.Context(), store.ListQuizzesParams{
		NoteID: c.Query("note_id"),
		Status: store.QuizStatus(c.Query("status")),
		Limit:  queryLimit(c),
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getQuiz(c *gin.Context) {
	q, err := h.Quiz.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) deleteQuiz(c *gin.Context) {
	if err := h.Quiz.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) submitQuiz(c *gin.Context) {
	var req submitRequest
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.Quiz.Grade(c.Request.Context(), c.Param("id"), req.Answers)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}
