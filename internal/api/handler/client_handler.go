package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clientreg/internal/api/dto"
	"github.com/martijn/clientreg/internal/core/domain"
	"github.com/martijn/clientreg/internal/core/query"
	"github.com/martijn/clientreg/internal/core/repository"
	"github.com/martijn/clientreg/internal/core/service"
)

const (
	msgInvalidID        = "invalid id"
	msgClientNotFound   = "client not found"
	msgValidationFailed = "validation failed"
)

type ClientHandler struct {
	clientService *service.ClientService
}

func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
	}
}

// ListClients handles GET / and GET /clientes
func (h *ClientHandler) ListClients(c *gin.Context) {
	q, err := query.Parse(c.Query("query"), c.Query("order"), repository.ClientFields)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	clients, err := h.clientService.ListClients(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response := make([]dto.ClientResponse, len(clients))
	for i, client := range clients {
		response[i] = toClientResponse(client)
	}
	c.JSON(http.StatusOK, response)
}

// GetClient handles GET /clientes/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toClientResponse(client))
}

// CreateClient handles POST /clientes
func (h *ClientHandler) CreateClient(c *gin.Context) {
	raw, err := readClientBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), raw)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toClientResponse(client))
}

// UpdateClient handles PUT /clientes/:id. All fields are required; there is
// no partial update.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	raw, err := readClientBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), id, raw)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toClientResponse(client))
}

// DeleteClient handles DELETE /clientes/:id
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteResponse{Success: true, ID: id})
}

// writeError maps rejections to 400 and missing clients to 404. Anything else
// is handed to the error middleware, which logs it and answers 500.
func (h *ClientHandler) writeError(c *gin.Context, err error) {
	if rej, ok := service.AsRejection(err); ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   msgValidationFailed,
			Details: rej.Details(),
		})
		return
	}

	if service.IsNotFound(err) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: msgClientNotFound})
		return
	}

	_ = c.Error(err)
}

// parseID reads the :id path parameter, answering 400 itself when it is not
// an integer.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidID})
		return 0, false
	}
	return id, true
}

func toClientResponse(client *domain.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Age:       client.Age,
		StateCode: client.StateCode,
	}
}
