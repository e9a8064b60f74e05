package training

import (
	"errors"
	"net/http"

	"makerslot/internal/auth"
	"makerslot/internal/certification"
	"makerslot/internal/people"
	"makerslot/internal/resource"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB) *Handler {
	gate := certification.NewGate(certification.NewRepository(db), resource.NewRepository(db))
	return &Handler{
		service: NewService(NewRepository(db), people.NewRepository(db), gate),
	}
}

func NewHandlerWithService(service Service) *Handler {
	return &Handler{service: service}
}

// CreateCourse godoc
// @Summary      Add training course
// @Tags         training
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateCourseRequest  true  "Course"
// @Success      201   {object}  TrainingCourse
// @Failure      400   {object}  gin.H
// @Failure      409   {object}  gin.H
// @Router       /admin/training/courses [post]
func (h *Handler) CreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.service.CreateCourse(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrDuplicateCourse) {
			c.JSON(http.StatusConflict, gin.H{"error": "Course already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create course"})
		return
	}

	c.JSON(http.StatusCreated, course)
}

// ListCourses godoc
// @Summary      List training courses
// @Tags         training
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  TrainingCourse
// @Router       /training/courses [get]
func (h *Handler) ListCourses(c *gin.Context) {
	courses, err := h.service.ListCourses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list courses"})
		return
	}

	c.JSON(http.StatusOK, courses)
}

// RecordTraining godoc
// @Summary      Record completed training
// @Tags         training
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      RecordTrainingRequest  true  "Record"
// @Success      201   {object}  TrainingRecord
// @Failure      400   {object}  gin.H
// @Failure      404   {object}  gin.H
// @Router       /admin/training/records [post]
func (h *Handler) RecordTraining(c *gin.Context) {
	var req RecordTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.RecordTraining(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCourseRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Provide either course_name or course_id"})
		case errors.Is(err, ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Training course not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record training"})
		}
		return
	}

	c.JSON(http.StatusCreated, record)
}

// MySummary godoc
// @Summary      Training and certification summary
// @Tags         training
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Summary
// @Failure      404  {object}  gin.H
// @Router       /me/training [get]
func (h *Handler) MySummary(c *gin.Context) {
	requester, ok := auth.GetRequester(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Requester not authenticated"})
		return
	}

	summary, err := h.service.SummaryFor(c.Request.Context(), requester)
	if err != nil {
		if errors.Is(err, people.ErrPersonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Person not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
