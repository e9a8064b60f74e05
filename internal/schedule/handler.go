package schedule

import (
	"errors"
	"net/http"
	"time"

	"makerslot/internal/api"
	"makerslot/internal/auth"
	"makerslot/internal/certification"
	"makerslot/internal/resource"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB, notifier Notifier) *Handler {
	resourceRepo := resource.NewRepository(db)
	gate := certification.NewGate(certification.NewRepository(db), resourceRepo)
	index := NewAvailabilityIndex()

	return &Handler{
		service: NewService(NewRepository(db), resourceRepo, gate, index, notifier),
	}
}

func NewHandlerWithService(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Service() Service {
	return h.service
}

func parseSlot(req SlotRequest) (TimeSlot, error) {
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		return TimeSlot{}, err
	}

	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		return TimeSlot{}, err
	}

	return TimeSlot{Start: start, End: end}, nil
}

func rejectionStatus(reason RejectReason) int {
	switch reason {
	case ReasonNotFound:
		return http.StatusNotFound
	case ReasonInvalidSlot:
		return http.StatusBadRequest
	case ReasonNotCertified:
		return http.StatusForbidden
	case ReasonCapacityExceeded:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

// Book godoc
// @Summary      Book a resource
// @Description  Requests a reservation for the slot. A policy rejection is a normal answer with a reason, not a server error.
// @Tags         reservations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        resourceID  path      string       true  "Resource ID"
// @Param        slot        body      SlotRequest  true  "Requested slot (RFC3339)"
// @Success      201         {object}  BookResponse
// @Failure      400         {object}  gin.H
// @Failure      403         {object}  api.RejectionResponse
// @Failure      404         {object}  api.RejectionResponse
// @Failure      409         {object}  api.RejectionResponse
// @Router       /resources/{resourceID}/book [post]
func (h *Handler) Book(c *gin.Context) {
	requester, ok := auth.GetRequester(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Requester not authenticated"})
		return
	}

	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := parseSlot(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Times must be RFC3339"})
		return
	}

	reservation, decision, err := h.service.Book(c.Request.Context(), c.Param("resourceID"), requester, slot)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate booking"})
		return
	}

	if !decision.Admitted {
		c.JSON(rejectionStatus(decision.Reason), api.RejectionResponse{
			Rejected: true,
			Reason:   string(decision.Reason),
		})
		return
	}

	c.JSON(http.StatusCreated, BookResponse{Reservation: reservation, Decision: decision})
}

// Cancel godoc
// @Summary      Cancel reservation
// @Description  Idempotent; cancelling twice succeeds both times.
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        reservationID  path      string  true  "Reservation ID"
// @Success      200            {object}  gin.H
// @Failure      403            {object}  gin.H
// @Failure      404            {object}  gin.H
// @Router       /reservations/{reservationID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	requester, ok := auth.GetRequester(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Requester not authenticated"})
		return
	}

	err := h.service.Cancel(c.Request.Context(), requester, c.Param("reservationID"))
	if err != nil {
		switch {
		case errors.Is(err, ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Can only cancel own reservations"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel reservation"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reservation cancelled"})
}

// CancelAny is the staff variant of Cancel without the ownership check.
func (h *Handler) CancelAny(c *gin.Context) {
	err := h.service.Cancel(c.Request.Context(), "", c.Param("reservationID"))
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel reservation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reservation cancelled"})
}

// Reschedule godoc
// @Summary      Reschedule reservation
// @Description  Evaluates the new slot with the old reservation excluded; on success the old one is cancelled and a new one confirmed.
// @Tags         reservations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reservationID  path      string       true  "Reservation ID"
// @Param        slot           body      SlotRequest  true  "New slot (RFC3339)"
// @Success      200            {object}  BookResponse
// @Failure      400            {object}  gin.H
// @Failure      403            {object}  gin.H
// @Failure      404            {object}  api.RejectionResponse
// @Failure      409            {object}  api.RejectionResponse
// @Router       /reservations/{reservationID}/reschedule [post]
func (h *Handler) Reschedule(c *gin.Context) {
	requester, ok := auth.GetRequester(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Requester not authenticated"})
		return
	}

	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := parseSlot(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Times must be RFC3339"})
		return
	}

	reservation, decision, err := h.service.Reschedule(c.Request.Context(), requester, c.Param("reservationID"), slot)
	if err != nil {
		switch {
		case errors.Is(err, ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Can only reschedule own reservations"})
		case errors.Is(err, ErrNotConfirmed):
			c.JSON(http.StatusConflict, gin.H{"error": "Only confirmed reservations can be rescheduled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reschedule reservation"})
		}
		return
	}

	if !decision.Admitted {
		c.JSON(rejectionStatus(decision.Reason), api.RejectionResponse{
			Rejected: true,
			Reason:   string(decision.Reason),
		})
		return
	}

	c.JSON(http.StatusOK, BookResponse{Reservation: reservation, Decision: decision})
}

// Availability godoc
// @Summary      Check availability
// @Description  Best-effort snapshot; only booking gives a binding answer.
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        resourceID  path      string  true  "Resource ID"
// @Param        start       query     string  true  "Window start (RFC3339)"
// @Param        end         query     string  true  "Window end (RFC3339)"
// @Success      200         {object}  AvailabilityResult
// @Failure      400         {object}  gin.H
// @Failure      404         {object}  gin.H
// @Router       /resources/{resourceID}/availability [get]
func (h *Handler) Availability(c *gin.Context) {
	slot, err := parseSlot(SlotRequest{Start: c.Query("start"), End: c.Query("end")})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end query params must be RFC3339"})
		return
	}

	result, err := h.service.Availability(c.Request.Context(), c.Param("resourceID"), slot)
	if err != nil {
		switch {
		case errors.Is(err, resource.ErrResourceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		case errors.Is(err, ErrInvalidSlot):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Window start must be before end"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check availability"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListMine godoc
// @Summary      List my reservations
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Reservation
// @Router       /reservations [get]
func (h *Handler) ListMine(c *gin.Context) {
	requester, ok := auth.GetRequester(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Requester not authenticated"})
		return
	}

	reservations, err := h.service.ListMine(c.Request.Context(), requester)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reservations"})
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// ListForResource godoc
// @Summary      List confirmed reservations on a resource in a window
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        resourceID  path      string  true  "Resource ID"
// @Param        start       query     string  true  "Window start (RFC3339)"
// @Param        end         query     string  true  "Window end (RFC3339)"
// @Success      200         {array}   Reservation
// @Failure      400         {object}  gin.H
// @Failure      404         {object}  gin.H
// @Router       /admin/resources/{resourceID}/reservations [get]
func (h *Handler) ListForResource(c *gin.Context) {
	slot, err := parseSlot(SlotRequest{Start: c.Query("start"), End: c.Query("end")})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end query params must be RFC3339"})
		return
	}

	reservations, err := h.service.ListForResource(c.Request.Context(), c.Param("resourceID"), slot)
	if err != nil {
		if errors.Is(err, resource.ErrResourceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reservations"})
		return
	}

	c.JSON(http.StatusOK, reservations)
}
