package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rcliao/studynotes/internal/model"
	"github.com/rcliao/studynotes/internal/store"
)

type noteRequest struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	CourseID    *string `json:"course_id"`
	ContentType *string `json:"content_type"`
	FileURI     *string `json:"file_uri"`
}

type askRequest struct {
	Question string `json:"question"`
}

type quizRequest struct {
	Topic string `json:"topic"`
}

func RegisterNoteRoutes(router *gin.Engine, h *Handler) {
	group := router.Group("/api/notes")
	{
		group.GET("", h.listNotes)
		group.POST("", h.createNote)
		group.GET("/:id", h.getNote)
		group.PATCH("/:id", h.updateNote)
		group.DELETE("/:id", h.deleteNote)

		group.POST("/:id/analyze", h.analyzeNote)
		group.GET("/:id/chat", h.getChat)
		group.POST("/:id/chat", h.askChat)
		group.POST("/:id/quizzes", h.generateQuiz)
	}
}

// listNotes lists notes, or searches them when q is given.
func (h *Handler) listNotes(c *gin.Context) {
	ctx := c.Request.Context()
	courseID := c.Query("course_id")
	limit := queryLimit(c)

	var list []model.Note
	var err error
	if q, ok := c.GetQuery("q"); ok {
		list, err = h.Notes.Search(ctx, q, courseID, limit)
	} else {
		list, err = h.Notes.List(ctx, courseID, limit)
	}
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) createNote(c *gin.Context) {
	var req noteRequest
	if !bindJSON(c, &req) {
		return
	}
	p := store.NewNote{}
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Content != nil {
		p.Content = *req.Content
	}
	if req.CourseID != nil {
		p.CourseID = *req.CourseID
	}
	if req.ContentType != nil {
		p.ContentType = model.ContentType(*req.ContentType)
	}
	if req.FileURI != nil {
		p.FileURI = *req.FileURI
	}

	n, err := h.Notes.Create(c.Request.Context(), p)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *Handler) getNote(c *gin.Context) {
	n, err := h.Notes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) updateNote(c *gin.Context) {
	var req noteRequest
	if !bindJSON(c, &req) {
		return
	}
	u := store.NoteUpdate{
		Title:    req.Title,
		Content:  req.Content,
		CourseID: req.CourseID,
		FileURI:  req.FileURI,
	}
	if req.ContentType != nil {
		ct := model.ContentType(*req.ContentType)
		u.ContentType = &ct
	}

	n, err := h.Notes.Update(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) deleteNote(c *gin.Context) {
	if err := h.Notes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) analyzeNote(c *gin.Context) {
	n, err := h.Notes.Analyze(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) getChat(c *gin.Context) {
	conv, err := h.Chat.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (h *Handler) askChat(c *gin.Context) {
	var req askRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	conv, err := h.Chat.Load(ctx, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	reply, err := h.Chat.Ask(ctx, conv, req.Question)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply, "messages": conv.Turns})
}

func (h *Handler) generateQuiz(c *gin.Context) {
	var req quizRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	sess, err := h.Quiz.Generate(c.Request.Context(), c.Param("id"), req.Topic)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess.Quiz())
}
