// Client HTTP handlers.
//
// This file exposes REST endpoints for client resources:
//   - POST /clients        (create)
//   - GET  /clients/{id}   (fetch)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/drclean/go-booking-backend/internal/services"
)

// CreateClientRequest is the JSON payload for registering a client.
type CreateClientRequest struct {
	// Name is the client's display name (required).
	Name string `json:"name" binding:"required,min=1,max=255" example:"Jana Nováková"`
	// Email is the optional contact address.
	Email string `json:"email" example:"jana@example.com"`
	// ReferredByID optionally links the new client to an existing referrer.
	ReferredByID *string `json:"referred_by_id,omitempty" format:"uuid"`
}

// CreateClient godoc
// @ID          createClient
// @Summary     Register a new client
// @Description Creates a client record, optionally linked to the referring client.
// @Tags        Clients
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateClientRequest  true  "Create client payload"
//
// @Success     201  {object}  domain.Client
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Referrer not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /clients [post]
func (h *Handlers) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required (1–255 chars)")
		return
	}
	if req.ReferredByID != nil {
		if _, err := uuid.Parse(*req.ReferredByID); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "referred_by_id must be a UUID")
			return
		}
	}

	client, err := h.clientSvc.Create(c.Request.Context(), req.Name, req.Email, req.ReferredByID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidClientName):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required (1–255 chars)")
		case errors.Is(err, services.ErrClientNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "referrer not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, client)
}

// GetClient godoc
// @ID          getClient
// @Summary     Fetch a client
// @Description Returns a single client record.
// @Tags        Clients
// @Produce     json
//
// @Param       id  path  string  true  "Client ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Client
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Client not found"
// @Router      /clients/{id} [get]
func (h *Handlers) GetClient(c *gin.Context) {
	clientID := c.Param("id")
	if _, err := uuid.Parse(clientID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "client id must be a UUID")
		return
	}

	client, err := h.clientSvc.Get(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "client not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, client)
}
