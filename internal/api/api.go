// Package api serves the study-notes managers over a local JSON HTTP API.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rcliao/studynotes/internal/apperr"
	"github.com/rcliao/studynotes/internal/chat"
	"github.com/rcliao/studynotes/internal/courses"
	"github.com/rcliao/studynotes/internal/logger"
	"github.com/rcliao/studynotes/internal/notes"
	"github.com/rcliao/studynotes/internal/quiz"
	"github.com/rcliao/studynotes/internal/store"
)

// Handler holds the managers the routes call into.
type Handler struct {
	Store   store.Store
	Notes   *notes.Manager
	Courses *courses.Manager
	Chat    *chat.Manager
	Quiz    *quiz.Manager
	Log     *logger.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(h *Handler) *gin.Engine {
	if h.Log == nil {
		h.Log = logger.Nop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.Log))

	RegisterCourseRoutes(router, h)
	RegisterNoteRoutes(router, h)
	RegisterQuizRoutes(router, h)
	RegisterMiscRoutes(router, h)
	return router
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// respondErr writes the user-facing message with the status for its kind.
func respondErr(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
}

func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for routes whose body may be omitted.
func bindOptionalJSON(c *gin.Context, v interface{}) bool {
	if c.Request.Body == nil {
		return true
	}
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

// Serve runs the router on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, router http.Handler, log *logger.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info("api listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("api shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
