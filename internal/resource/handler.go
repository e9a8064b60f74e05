package resource

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{service: NewService(NewRepository(db))}
}

func NewHandlerWithService(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterResource godoc
// @Summary      Register resource
// @Description  Adds a machine, space, or trainer to the catalog.
// @Tags         resources
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        resource  body      RegisterResourceRequest  true  "Resource descriptor"
// @Success      201       {object}  Resource
// @Failure      400       {object}  gin.H
// @Failure      409       {object}  gin.H
// @Router       /admin/resources [post]
func (h *Handler) RegisterResource(c *gin.Context) {
	var req RegisterResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateResource):
			c.JSON(http.StatusConflict, gin.H{"error": "Resource with this id already exists"})
		case errors.Is(err, ErrInvalidCapacity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Capacity must be at least 1"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register resource"})
		}
		return
	}

	c.JSON(http.StatusCreated, res)
}

// GetResource godoc
// @Summary      Get resource
// @Tags         resources
// @Security     BearerAuth
// @Produce      json
// @Param        resourceID  path      string  true  "Resource ID"
// @Success      200         {object}  Resource
// @Failure      404         {object}  gin.H
// @Router       /resources/{resourceID} [get]
func (h *Handler) GetResource(c *gin.Context) {
	res, err := h.service.Get(c.Request.Context(), c.Param("resourceID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	c.JSON(http.StatusOK, res)
}

// ListResources godoc
// @Summary      List resources
// @Tags         resources
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Resource
// @Router       /resources [get]
func (h *Handler) ListResources(c *gin.Context) {
	resources, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list resources"})
		return
	}

	c.JSON(http.StatusOK, resources)
}

// UpdateCapacity godoc
// @Summary      Update resource capacity
// @Description  Changes capacity without touching existing reservations.
// @Tags         resources
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        resourceID  path      string                 true  "Resource ID"
// @Param        body        body      UpdateCapacityRequest  true  "New capacity"
// @Success      200         {object}  Resource
// @Failure      400         {object}  gin.H
// @Failure      404         {object}  gin.H
// @Router       /admin/resources/{resourceID}/capacity [put]
func (h *Handler) UpdateCapacity(c *gin.Context) {
	var req UpdateCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.UpdateCapacity(c.Request.Context(), c.Param("resourceID"), req.Capacity)
	if err != nil {
		switch {
		case errors.Is(err, ErrResourceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		case errors.Is(err, ErrInvalidCapacity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Capacity must be at least 1"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update capacity"})
		}
		return
	}

	c.JSON(http.StatusOK, res)
}

// SetCertificationRequired godoc
// @Summary      Toggle certification requirement
// @Tags         resources
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        resourceID  path      string                           true  "Resource ID"
// @Param        body        body      SetCertificationRequiredRequest  true  "Flag"
// @Success      200         {object}  Resource
// @Failure      400         {object}  gin.H
// @Failure      404         {object}  gin.H
// @Router       /admin/resources/{resourceID}/certification [put]
func (h *Handler) SetCertificationRequired(c *gin.Context) {
	var req SetCertificationRequiredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.SetCertificationRequired(c.Request.Context(), c.Param("resourceID"), *req.CertificationRequired)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update resource"})
		return
	}

	c.JSON(http.StatusOK, res)
}
