package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"storefront-backend/model"
	"storefront-backend/service"
)

// Handler is the HTTP layer that talks to service.ServiceInterface.
type Handler struct {
	svc  service.ServiceInterface
	auth Authenticator
}

func NewHandler(svc service.ServiceInterface, auth Authenticator) *Handler {
	return &Handler{svc: svc, auth: auth}
}

// RegisterRoutes registers all routes on the provided router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()

	// Products: reads are public, writes are admin-only.
	api.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products", h.requireAdmin(h.CreateProduct)).Methods(http.MethodPost)
	api.HandleFunc("/products/{id}", h.GetProduct).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", h.requireAdmin(h.UpdateProduct)).Methods(http.MethodPatch)
	api.HandleFunc("/products/{id}", h.requireAdmin(h.DeleteProduct)).Methods(http.MethodDelete)
	api.HandleFunc("/products/{id}/stock", h.GetStock).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}/stock", h.requireAdmin(h.UpdateStock)).Methods(http.MethodPatch)

	// Categories.
	api.HandleFunc("/categories", h.ListCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.requireAdmin(h.CreateCategory)).Methods(http.MethodPost)
	api.HandleFunc("/categories/{id}", h.GetCategory).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id}", h.requireAdmin(h.UpdateCategory)).Methods(http.MethodPatch)
	api.HandleFunc("/categories/{id}", h.requireAdmin(h.DeleteCategory)).Methods(http.MethodDelete)

	// Orders.
	api.HandleFunc("/orders/my-orders", h.MyOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders", h.CreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}", h.GetOrder).Methods(http.MethodGet)

	// Payments. The webhook carries no user identity.
	api.HandleFunc("/payments/create-checkout-session", h.CreateCheckoutSession).Methods(http.MethodPost)
	api.HandleFunc("/payments/webhook", h.PaymentWebhook).Methods(http.MethodPost)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeDomainErr maps the error taxonomy onto status codes. Anything not
// user-facing is logged and reported as a generic 500.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case model.IsValidation(err):
		writeErr(w, http.StatusBadRequest, err.Error())
	case model.IsNotFound(err):
		writeErr(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeErr(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.auth.UserID(r); err != nil {
			writeErr(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !h.auth.IsAdmin(r) {
			writeErr(w, http.StatusForbidden, "forbidden")
			return
		}
		next(w, r)
	}
}

// --- products ---

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p model.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	created, err := h.svc.CreateProduct(r.Context(), p)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p model.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	p.ID = mux.Vars(r)["id"]
	updated, err := h.svc.UpdateProduct(r.Context(), p)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.ListProducts(r.Context(), r.URL.Query().Get("categoryId"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	stock, err := h.svc.GetStock(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"product_id": id, "stock": stock})
}

func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Stock int `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.svc.UpdateStock(r.Context(), mux.Vars(r)["id"], req.Stock); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- categories ---

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var c model.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	created, err := h.svc.CreateCategory(r.Context(), c)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var c model.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	c.ID = mux.Vars(r)["id"]
	updated, err := h.svc.UpdateCategory(r.Context(), c)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCategory(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCategory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

// --- orders ---

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	order, err := h.svc.PlaceOrder(r.Context(), userID, req)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	orders, err := h.svc.ListMyOrders(r.Context(), userID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// --- payments ---

func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	_, url, err := h.svc.CreateCheckoutSession(r.Context(), userID, req)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// PaymentWebhook consumes provider notifications. A malformed notification
// gets 400; an unknown order or any internal failure gets 500 so the
// provider's delivery retry redelivers; everything else is acknowledged
// with 200, including event types we ignore.
func (h *Handler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	var event model.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.svc.HandlePaymentNotification(r.Context(), event)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case model.IsValidation(err):
		log.Printf("malformed payment notification: %v", err)
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("payment notification failed: %v", err)
		writeErr(w, http.StatusInternalServerError, "internal server error")
	}
}
