package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tmsousa/invoicebridge/internal/invoicing"
	"github.com/tmsousa/invoicebridge/internal/orders"
)

// InvoiceGenerator runs one document-generation run per order
type InvoiceGenerator interface {
	Generate(ctx context.Context, orderID int64, force bool) (*invoicing.GenerateResult, error)
}

// DocumentResolver decides where a document request redirects to
type DocumentResolver interface {
	Resolve(ctx context.Context, documentID int64) (*invoicing.Redirect, error)
}

// OrderLister lists orders awaiting a document
type OrderLister interface {
	ListPending(ctx context.Context, limit, offset int) ([]*orders.Order, error)
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	generator InvoiceGenerator
	documents DocumentResolver
	orders    OrderLister
	logger    Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(generator InvoiceGenerator, documents DocumentResolver, orders OrderLister, logger Logger) *Handlers {
	return &Handlers{
		generator: generator,
		documents: documents,
		orders:    orders,
		logger:    logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// GenerateResponse represents the document generation result
type GenerateResponse struct {
	OrderID    int64  `json:"order_id"`
	DocumentID int64  `json:"document_id"`
	Closed     bool   `json:"closed"`
	Warning    string `json:"warning,omitempty"`
}

// OrderResponse represents a pending order in API responses
type OrderResponse struct {
	ID        int64   `json:"id"`
	Number    string  `json:"number"`
	Status    string  `json:"status"`
	Total     float64 `json:"total"`
	Lines     int     `json:"lines"`
	CreatedAt string  `json:"created_at"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// ListPendingOrders handles GET /api/orders
func (h *Handlers) ListPendingOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	pending, err := h.orders.ListPending(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list pending orders", "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to list orders"})
		return
	}

	result := make([]OrderResponse, 0, len(pending))
	for _, order := range pending {
		result = append(result, OrderResponse{
			ID:        order.ID,
			Number:    order.Number,
			Status:    order.Status,
			Total:     order.Total,
			Lines:     len(order.Lines),
			CreatedAt: order.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// GenerateInvoice handles POST /api/orders/:id/invoice
func (h *Handlers) GenerateInvoice(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid order id"})
		return
	}

	force := c.Query("force") == "true"

	result, err := h.generator.Generate(c.Request.Context(), orderID, force)
	if err != nil {
		h.logger.Error("Document generation failed",
			"order_id", orderID,
			"force", force,
			"error", err)
		c.JSON(statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	response := GenerateResponse{
		OrderID:    orderID,
		DocumentID: result.DocumentID,
		Closed:     result.Closed,
	}
	if result.FinalizeErr != nil {
		// Document exists but could not be closed; success with warning.
		response.Warning = result.FinalizeErr.Error()
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: response})
}

// ShowDocument handles GET /api/documents/:id
func (h *Handlers) ShowDocument(c *gin.Context) {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid document id"})
		return
	}

	redirect, err := h.documents.Resolve(c.Request.Context(), documentID)
	if err != nil {
		var notFound *invoicing.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
			return
		}
		h.logger.Error("Document resolution failed", "document_id", documentID, "error", err)
		c.JSON(http.StatusBadGateway, Response{Success: false, Error: "failed to resolve document"})
		return
	}

	c.Redirect(http.StatusFound, redirect.URL)
}

// statusForError maps pipeline error kinds onto HTTP statuses
func statusForError(err error) int {
	var (
		duplicate     *invoicing.DuplicateDocumentError
		configuration *invoicing.ConfigurationError
		notFound      *invoicing.NotFoundError
		remoteWrite   *invoicing.RemoteWriteError
	)

	switch {
	case errors.As(err, &duplicate):
		return http.StatusConflict
	case errors.As(err, &configuration):
		return http.StatusUnprocessableEntity
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &remoteWrite):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
