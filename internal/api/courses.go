package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rcliao/studynotes/internal/store"
)

type courseRequest struct {
	Name  *string `json:"name"`
	Code  *string `json:"code"`
	Color *string `json:"color"`
}

func RegisterCourseRoutes(router *gin.Engine, h *Handler) {
	group := router.Group("/api/courses")
	{
		group.GET("", h.listCourses)
		group.POST("", h.createCourse)
		group.GET("/:id", h.getCourse)
		group.PATCH("/:id", h.updateCourse)
		group.DELETE("/:id", h.deleteCourse)
	}
}

func (h *Handler) listCourses(c *gin.Context) {
	list, err := h.Courses.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) createCourse(c *gin.Context) {
	var req courseRequest
	if !bindJSON(c, &req) {
		return
	}
	p := store.NewCourse{}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Code != nil {
		p.Code = *req.Code
	}
	if req.Color != nil {
		p.Color = *req.Color
	}

	course, err := h.Courses.Create(c.Request.Context(), p)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *Handler) getCourse(c *gin.Context) {
	course, err := h.Courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *Handler) updateCourse(c *gin.Context) {
	var req courseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.Courses.Update(c.Request.Context(), c.Param("id"), store.CourseUpdate{
		Name:  req.Name,
		Code:  req.Code,
		Color: req.Color,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *Handler) deleteCourse(c *gin.Context) {
	if err := h.Courses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
