package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/justmahmoud31/Ryo-Server/internal/kafka"
	"github.com/justmahmoud31/Ryo-Server/internal/orders"
	"github.com/justmahmoud31/Ryo-Server/internal/redisx"
	"github.com/justmahmoud31/Ryo-Server/internal/users"
)

type OrdersHandler struct {
	Svc            *orders.Service
	Producer       *kafkax.Producer // order.created
	StatusProducer *kafkax.Producer // order.status.changed
	Redis          *redis.Client
	Service        string
}

type createOrderReq struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	ColorID   string `json:"color_id"`
	SizeID    string `json:"size_id"`
}

func (h *OrdersHandler) Register(r *chi.Mux, authn, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authn)
		r.Post("/", h.create)
		r.Get("/me", h.listMine)
		r.Get("/{id}/status", h.getStatus)
		r.Delete("/{id}", h.delete)
		r.With(adminOnly).Get("/", h.list)
		r.With(adminOnly).Put("/{id}", h.updateStatus)
	})
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.Place(ctx, orders.PlaceOrderInput{
		UserID:    claims.UserID,
		ProductID: req.ProductID,
		Qty:       req.Qty,
		Address:   req.Address,
		Phone:     req.Phone,
		ColorID:   req.ColorID,
		SizeID:    req.SizeID,
	})
	if err != nil {
		writeErr(w, err)
		return
	}

	h.cacheStatus(ctx, o.ID, o.Status)
	h.publish(h.Producer, r, orders.EventOrderCreated, o.ID, orders.OrderCreatedPayload{
		OrderID:    o.ID,
		UserID:     o.UserID,
		ProductID:  o.ProductID,
		Qty:        o.Qty,
		TotalCents: o.TotalCents,
	})

	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := orders.ListFilter{
		UserID:    q.Get("userId"),
		ProductID: q.Get("productId"),
		Status:    orders.Status(q.Get("status")),
		Page:      atoiDefault(q.Get("page"), 1),
		Limit:     atoiDefault(q.Get("limit"), 10),
	}
	out, err := h.Svc.List(r.Context(), f)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) listMine(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	q := r.URL.Query()
	f := orders.ListFilter{
		UserID: claims.UserID,
		Status: orders.Status(q.Get("status")),
		Page:   atoiDefault(q.Get("page"), 1),
		Limit:  atoiDefault(q.Get("limit"), 10),
	}
	out, err := h.Svc.List(r.Context(), f)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// getStatus serves from the Redis cache when it can and backfills on miss.
func (h *OrdersHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(s))
		return
	}

	o, err := h.Svc.Get(ctx, orderID)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.cacheStatus(ctx, o.ID, o.Status)
	writeJSON(w, http.StatusOK, map[string]any{"status": o.Status})
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status orders.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	o, err := h.Svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.cacheStatus(r.Context(), o.ID, o.Status)
	h.publish(h.StatusProducer, r, orders.EventOrderStatusChanged, o.ID, orders.OrderStatusChangedPayload{
		OrderID: o.ID,
		Status:  o.Status,
	})
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) delete(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	err := h.Svc.Delete(r.Context(), chi.URLParam(r, "id"), claims.UserID,
		claims.Role == users.RoleAdmin)
	if err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) cacheStatus(ctx context.Context, orderID string, status orders.Status) {
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	body, _ := json.Marshal(map[string]any{"status": status})
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
}

func (h *OrdersHandler) publish(p *kafkax.Producer, r *http.Request, eventType, orderID string, payload any) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
