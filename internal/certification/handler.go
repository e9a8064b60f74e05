package certification

import (
	"errors"
	"net/http"

	"makerslot/internal/auth"
	"makerslot/internal/metrics"
	"makerslot/internal/resource"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	gate Gate
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{gate: NewGate(NewRepository(db), resource.NewRepository(db))}
}

func NewHandlerWithGate(gate Gate) *Handler {
	return &Handler{gate: gate}
}

// Grant godoc
// @Summary      Grant certification
// @Description  Authorizes a requester to book a certification-required machine. Idempotent.
// @Tags         certifications
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      GrantRequest  true  "Requester and machine"
// @Success      201   {object}  Certification
// @Failure      400   {object}  gin.H
// @Failure      404   {object}  gin.H
// @Router       /admin/certifications [post]
func (h *Handler) Grant(c *gin.Context) {
	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cert, err := h.gate.Grant(c.Request.Context(), req.Requester, req.MachineID, req.ExpiresAt)
	if err != nil {
		switch {
		case errors.Is(err, resource.ErrResourceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Machine not found"})
		case errors.Is(err, ErrNotMachine):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Certifications only apply to machines"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to grant certification"})
		}
		return
	}

	metrics.RecordCertificationGrant()
	c.JSON(http.StatusCreated, cert)
}

// Revoke godoc
// @Summary      Revoke certification
// @Description  Removes the pair. Reservations already confirmed stay confirmed.
// @Tags         certifications
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      GrantRequest  true  "Requester and machine"
// @Success      200   {object}  gin.H
// @Failure      400   {object}  gin.H
// @Router       /admin/certifications/revoke [post]
func (h *Handler) Revoke(c *gin.Context) {
	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.gate.Revoke(c.Request.Context(), req.Requester, req.MachineID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke certification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Certification revoked"})
}

// ListMine godoc
// @Summary      List my certifications
// @Tags         certifications
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Certification
// @Router       /certifications [get]
func (h *Handler) ListMine(c *gin.Context) {
	requester, ok := auth.GetRequester(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Requester not authenticated"})
		return
	}

	certs, err := h.gate.ListForRequester(c.Request.Context(), requester)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list certifications"})
		return
	}

	c.JSON(http.StatusOK, certs)
}
