package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"bistro-backend/order-svc/internal/domain"
	"bistro-backend/order-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Carts      service.CartServiceInterface
	Orders     service.OrderServiceInterface
	Bookings   service.BookingServiceInterface
	Menu       service.MenuServiceInterface
	Categories service.CategoryServiceInterface
	UploadDir  string

	// Auth is optional; without it the /api/auth routes are not served.
	Auth          service.AuthServiceInterface
	SecureCookies bool
}

func NewHandler(
	cartSvc service.CartServiceInterface,
	orderSvc service.OrderServiceInterface,
	bookingSvc service.BookingServiceInterface,
	menuSvc service.MenuServiceInterface,
	categorySvc service.CategoryServiceInterface,
) *Handler {
	return &Handler{
		Carts:      cartSvc,
		Orders:     orderSvc,
		Bookings:   bookingSvc,
		Menu:       menuSvc,
		Categories: categorySvc,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	if h.Auth != nil {
		h.registerAuthRoutes(r)
	}

	r.HandleFunc("/api/cart/add", requireUser(h.addToCart)).Methods("POST")
	r.HandleFunc("/api/cart/get", requireUser(h.getCart)).Methods("GET")
	r.HandleFunc("/api/cart/remove/{menuId:[0-9]+}", requireUser(h.removeFromCart)).Methods("DELETE")

	r.HandleFunc("/api/orders/place", requireUser(h.placeOrder)).Methods("POST")
	r.HandleFunc("/api/orders/my-orders", requireUser(h.getMyOrders)).Methods("GET")
	r.HandleFunc("/api/orders/all", requireAdmin(h.getAllOrders)).Methods("GET")
	r.HandleFunc("/api/orders/update-status/{orderId:[0-9]+}", requireAdmin(h.updateOrderStatus)).Methods("PUT")
	r.HandleFunc("/api/orders/{id:[0-9]+}", requireUser(h.getOrder)).Methods("GET")
	r.HandleFunc("/api/orders/{id:[0-9]+}/qrcode", requireUser(h.getOrderQRCode)).Methods("GET")

	r.HandleFunc("/api/bookings/create", requireUser(h.createBooking)).Methods("POST")
	r.HandleFunc("/api/bookings/my-bookings", requireUser(h.getMyBookings)).Methods("GET")
	r.HandleFunc("/api/bookings/bookings", requireAdmin(h.getAllBookings)).Methods("GET")
	r.HandleFunc("/api/bookings/update-status/{id:[0-9]+}", requireAdmin(h.updateBookingStatus)).Methods("PUT")

	r.HandleFunc("/api/menu/all", h.getMenuItems).Methods("GET")
	r.HandleFunc("/api/menu/add", requireAdmin(h.addMenuItem)).Methods("POST")
	r.HandleFunc("/api/menu/update/{id:[0-9]+}", requireAdmin(h.updateMenuItem)).Methods("PUT")
	r.HandleFunc("/api/menu/delete/{id:[0-9]+}", requireAdmin(h.deleteMenuItem)).Methods("DELETE")

	r.HandleFunc("/api/category/all", h.getCategories).Methods("GET")
	r.HandleFunc("/api/category/add", requireAdmin(h.addCategory)).Methods("POST")
	r.HandleFunc("/api/category/update/{id:[0-9]+}", requireAdmin(h.updateCategory)).Methods("PUT")
	r.HandleFunc("/api/category/delete/{id:[0-9]+}", requireAdmin(h.deleteCategory)).Methods("DELETE")

	if h.UploadDir != "" {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.UploadDir)))).Methods("GET")
	}
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func pathID(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MenuID   int64 `json:"menuId"`
		Quantity int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	cart, err := h.Carts.AddItem(r.Context(), callerFrom(r).UserID, req.MenuID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Item added to cart", "cart", cart)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Carts.GetCart(r.Context(), callerFrom(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Cart fetched", "cart", cart)
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	menuID, ok := pathID(r, "menuId")
	if !ok {
		badRequest(w, r, "invalid menu item id")
		return
	}

	cart, err := h.Carts.RemoveItem(r.Context(), callerFrom(r).UserID, menuID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Item removed from cart", "cart", cart)
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address       string `json:"address"`
		PaymentMethod string `json:"paymentMethod"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	order, err := h.Orders.PlaceOrder(r.Context(), callerFrom(r).UserID, req.Address, req.PaymentMethod)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Order placed successfully", "order", order)
}

func (h *Handler) getMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListForUser(r.Context(), callerFrom(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Orders fetched", "orders", orders)
}

func (h *Handler) getAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Orders fetched", "orders", orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, r, "invalid order id")
		return
	}

	order, err := h.Orders.GetOrder(r.Context(), callerFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Order fetched", "order", order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, r, "invalid order id")
		return
	}

	qr, err := h.Orders.ReceiptQR(r.Context(), callerFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(qr)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "orderId")
	if !ok {
		badRequest(w, r, "invalid order id")
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	order, err := h.Orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Order status updated", "order", order)
}

func (h *Handler) createBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	booking, err := h.Bookings.CreateBooking(r.Context(), callerFrom(r).UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Booking created successfully", "booking", booking)
}

func (h *Handler) getMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Bookings.ListForUser(r.Context(), callerFrom(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Bookings fetched", "bookings", bookings)
}

func (h *Handler) getAllBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Bookings.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Bookings fetched", "bookings", bookings)
}

func (h *Handler) updateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, r, "invalid booking id")
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	booking, err := h.Bookings.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Booking status updated", "booking", booking)
}
