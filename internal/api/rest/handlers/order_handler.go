package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/CameronXie/order-gateway/internal/api/rest/response"
	"github.com/CameronXie/order-gateway/internal/domain"
	"github.com/CameronXie/order-gateway/internal/statestore"
)

const (
	invalidRequestBodyMessage = "invalid request body"
	missingOrderDataMessage   = "request body must contain a data object"
)

// StateStore reads and writes order state. statestore.Client satisfies it.
type StateStore interface {
	Get(ctx context.Context, key string) (*statestore.State, error)
	Save(ctx context.Context, entries []domain.StateEntry) error
}

// NewOrderRequest is the body accepted by POST /neworder.
type NewOrderRequest struct {
	Data domain.Order `json:"data"`
}

// OrderHandler forwards order reads and writes to the state store, one outbound call per request.
type OrderHandler struct {
	store  StateStore
	logger *slog.Logger
}

// GetOrder handles GET /order by relaying the stored order as received from the state store.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "querying order")

	state, err := h.store.Get(r.Context(), domain.OrderStateKey)
	if err != nil {
		h.writeStateError(r.Context(), w, "could not get state", err)
		return
	}

	h.logger.InfoContext(r.Context(), "got response for order", "content_type", state.ContentType)
	response.RawResponse(w, http.StatusOK, state.ContentType, state.Body)
}

// SubmitOrder handles POST /neworder by saving the order under the fixed order key.
// The orderId is only logged; an order without one is still saved.
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	req := new(NewOrderRequest)
	if err := decodeBody(r.Body, req); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode order request", "error", err)
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidRequestBodyMessage)
		return
	}

	if req.Data.IsNull() {
		response.JSONErrorResponse(w, http.StatusBadRequest, missingOrderDataMessage)
		return
	}

	orderID := req.Data.ID()
	h.logger.InfoContext(r.Context(), "got a new order", "order_id", orderID)

	if err := h.store.Save(r.Context(), domain.NewOrderState(req.Data)); err != nil {
		h.writeStateError(r.Context(), w, "failed to persist state", err, "order_id", orderID)
		return
	}

	h.logger.InfoContext(r.Context(), "successfully persisted state", "order_id", orderID)
	w.WriteHeader(http.StatusOK)
}

// decodeBody reads a single JSON value into v. Data after the value is rejected.
func decodeBody(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON value")
	}

	return nil
}

// writeStateError logs err and answers 500 with its description. Rejections and
// transport failures share the same response.
func (h *OrderHandler) writeStateError(ctx context.Context, w http.ResponseWriter, msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err)

	var statusErr *statestore.StatusError
	if errors.As(err, &statusErr) {
		attrs = append(attrs, "upstream_status", statusErr.StatusCode)
	}

	h.logger.ErrorContext(ctx, msg, attrs...)
	response.JSONErrorResponse(w, http.StatusInternalServerError, err.Error())
}

// NewOrderHandler creates a new OrderHandler backed by store.
func NewOrderHandler(store StateStore, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		store:  store,
		logger: logger,
	}
}
