package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"bistro-backend/config"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Load()
	cfg.StorageDriver = config.StorageDriverMemory
	cfg.UploadDir = t.TempDir()
	cfg.PublicBaseURL = "http://bistro.test"
	cfg.JWTSecret = "test-secret"
	cfg.AdminEmail = "chef@bistro.test"
	cfg.AdminPassword = "letmein"
	return buildRouter(cfg, mustInitDependencies(cfg))
}

func do(t *testing.T, h http.Handler, req *http.Request, userID string, admin bool) (int, map[string]interface{}) {
	t.Helper()
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if admin {
		req.Header.Set("X-User-Admin", "true")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var body map[string]interface{}
	if rr.Header().Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return rr.Code, body
}

func jsonRequest(method, path, payload string) *http.Request {
	return httptest.NewRequest(method, path, bytes.NewBufferString(payload))
}

func formRequest(t *testing.T, path string, fields map[string]string) *http.Request {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		w.WriteField(k, v)
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
	header.Set("Content-Type", "image/png")
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write([]byte("\x89PNG\r\n\x1a\n"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, path, buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func idOf(t *testing.T, body map[string]interface{}, key string) string {
	t.Helper()
	obj, ok := body[key].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no %q object: %v", key, body)
	}
	id, _ := json.Marshal(obj["id"])
	return string(id)
}

func TestHealthCheck(t *testing.T) {
	h := newTestServer(t)

	code, body := do(t, h, httptest.NewRequest(http.MethodGet, "/health", nil), "", false)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["service"] != "order-svc" {
		t.Fatalf("unexpected service field: %v", body["service"])
	}
}

func TestCheckoutFlow(t *testing.T) {
	h := newTestServer(t)

	code, body := do(t, h, formRequest(t, "/api/category/add", map[string]string{"name": "Soups"}), "admin", true)
	if code != http.StatusCreated {
		t.Fatalf("create category: expected 201, got %d (%v)", code, body)
	}
	categoryID := idOf(t, body, "category")

	code, body = do(t, h, formRequest(t, "/api/menu/add", map[string]string{
		"name": "Tomato soup", "description": "With basil", "price": "6.50", "category": categoryID,
	}), "admin", true)
	if code != http.StatusCreated {
		t.Fatalf("create menu item: expected 201, got %d (%v)", code, body)
	}
	itemID := idOf(t, body, "item")
	image := body["item"].(map[string]interface{})["image"].(string)

	code, _ = do(t, h, httptest.NewRequest(http.MethodGet, image, nil), "", false)
	if code != http.StatusOK {
		t.Fatalf("uploaded image not served: got %d", code)
	}

	for i := 0; i < 2; i++ {
		code, body = do(t, h, jsonRequest(http.MethodPost, "/api/cart/add", `{"menuId":`+itemID+`,"quantity":2}`), "u1", false)
		if code != http.StatusOK {
			t.Fatalf("add to cart: expected 200, got %d (%v)", code, body)
		}
	}
	cart := body["cart"].(map[string]interface{})
	if cart["subtotal"] != "26" {
		t.Fatalf("unexpected subtotal: %v", cart["subtotal"])
	}

	code, body = do(t, h, jsonRequest(http.MethodPost, "/api/orders/place", `{"address":"1 Main St"}`), "u1", false)
	if code != http.StatusCreated {
		t.Fatalf("place order: expected 201, got %d (%v)", code, body)
	}
	order := body["order"].(map[string]interface{})
	if order["status"] != "Pending" || order["total_amount"] != "26" || order["payment_method"] != "Cash on Delivery" {
		t.Fatalf("unexpected order: %v", order)
	}
	orderID := idOf(t, body, "order")

	code, body = do(t, h, httptest.NewRequest(http.MethodGet, "/api/cart/get", nil), "u1", false)
	if code != http.StatusOK || len(body["cart"].(map[string]interface{})["items"].([]interface{})) != 0 {
		t.Fatalf("cart should be empty after placement: %d %v", code, body)
	}

	code, _ = do(t, h, jsonRequest(http.MethodPost, "/api/orders/place", `{"address":"1 Main St"}`), "u1", false)
	if code != http.StatusBadRequest {
		t.Fatalf("second placement: expected 400, got %d", code)
	}

	code, _ = do(t, h, httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID, nil), "u2", false)
	if code != http.StatusNotFound {
		t.Fatalf("foreign order: expected 404, got %d", code)
	}

	for _, step := range []struct {
		status string
		want   int
	}{
		{"Delivered", http.StatusBadRequest},
		{"Preparing", http.StatusOK},
		{"Delivered", http.StatusOK},
		{"Pending", http.StatusBadRequest},
	} {
		code, body = do(t, h, jsonRequest(http.MethodPut, "/api/orders/update-status/"+orderID, `{"status":"`+step.status+`"}`), "admin", true)
		if code != step.want {
			t.Fatalf("status %s: expected %d, got %d (%v)", step.status, step.want, code, body)
		}
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID+"/qrcode", nil)
	req.Header.Set("X-User-ID", "u1")
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("qrcode: got %d %s", rr.Code, rr.Header().Get("Content-Type"))
	}
}

func TestCartRejectsOversizedLine(t *testing.T) {
	h := newTestServer(t)

	code, body := do(t, h, formRequest(t, "/api/category/add", map[string]string{"name": "Sides"}), "admin", true)
	if code != http.StatusCreated {
		t.Fatalf("create category: expected 201, got %d (%v)", code, body)
	}
	code, body = do(t, h, formRequest(t, "/api/menu/add", map[string]string{
		"name": "Bread", "description": "Sourdough", "price": "2.00", "category": idOf(t, body, "category"),
	}), "admin", true)
	if code != http.StatusCreated {
		t.Fatalf("create menu item: expected 201, got %d (%v)", code, body)
	}
	itemID := idOf(t, body, "item")

	code, _ = do(t, h, jsonRequest(http.MethodPost, "/api/cart/add", `{"menuId":`+itemID+`,"quantity":9223372036854775807}`), "u1", false)
	if code != http.StatusBadRequest {
		t.Fatalf("huge quantity: expected 400, got %d", code)
	}
	code, _ = do(t, h, jsonRequest(http.MethodPost, "/api/cart/add", `{"menuId":`+itemID+`,"quantity":1000}`), "u1", false)
	if code != http.StatusOK {
		t.Fatalf("max quantity: expected 200, got %d", code)
	}
	code, _ = do(t, h, jsonRequest(http.MethodPost, "/api/cart/add", `{"menuId":`+itemID+`,"quantity":1}`), "u1", false)
	if code != http.StatusBadRequest {
		t.Fatalf("line past the cap: expected 400, got %d", code)
	}
}

func TestAuthFlow(t *testing.T) {
	h := newTestServer(t)
	account := `{"name":"Ada","email":"Ada@Example.com","password":"s3cret"}`

	code, body := do(t, h, jsonRequest(http.MethodPost, "/api/auth/register", account), "", false)
	if code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%v)", code, body)
	}
	if _, leaked := body["user"].(map[string]interface{})["passwordHash"]; leaked {
		t.Fatalf("password hash must not be serialised: %v", body)
	}

	code, _ = do(t, h, jsonRequest(http.MethodPost, "/api/auth/register", account), "", false)
	if code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", code)
	}

	code, _ = do(t, h, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"wrong"}`), "", false)
	if code != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", code)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"s3cret"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "token" || cookies[0].Value == "" || !cookies[0].HttpOnly {
		t.Fatalf("login should set an HTTP-only token cookie: %v", cookies)
	}

	code, body = do(t, h, jsonRequest(http.MethodPost, "/api/auth/admin/login", `{"email":"chef@bistro.test","password":"nope"}`), "", false)
	if code != http.StatusUnauthorized {
		t.Fatalf("admin login with wrong password: expected 401, got %d (%v)", code, body)
	}
	code, body = do(t, h, jsonRequest(http.MethodPost, "/api/auth/admin/login", `{"email":"chef@bistro.test","password":"letmein"}`), "", false)
	if code != http.StatusOK || body["role"] != "admin" {
		t.Fatalf("admin login: expected 200 as admin, got %d (%v)", code, body)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/auth/logout", ""))
	cookies = rr.Result().Cookies()
	if rr.Code != http.StatusOK || len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("logout should expire the cookie: %d %v", rr.Code, cookies)
	}
}

func TestBookingFlow(t *testing.T) {
	h := newTestServer(t)
	payload := `{"name":"Ada","phone":"555","numberOfPeople":2,"date":"2024-06-01","time":"19:30"}`

	code, body := do(t, h, jsonRequest(http.MethodPost, "/api/bookings/create", payload), "u1", false)
	if code != http.StatusCreated {
		t.Fatalf("create booking: expected 201, got %d (%v)", code, body)
	}
	bookingID := idOf(t, body, "booking")

	code, _ = do(t, h, jsonRequest(http.MethodPost, "/api/bookings/create", payload), "u2", false)
	if code != http.StatusConflict {
		t.Fatalf("double booking: expected 409, got %d", code)
	}

	code, _ = do(t, h, jsonRequest(http.MethodPut, "/api/bookings/update-status/"+bookingID, `{"status":"Cancelled"}`), "admin", true)
	if code != http.StatusOK {
		t.Fatalf("cancel booking: expected 200, got %d", code)
	}

	code, _ = do(t, h, jsonRequest(http.MethodPost, "/api/bookings/create", payload), "u2", false)
	if code != http.StatusCreated {
		t.Fatalf("rebooking a cancelled slot: expected 201, got %d", code)
	}

	code, body = do(t, h, httptest.NewRequest(http.MethodGet, "/api/bookings/bookings", nil), "admin", true)
	if code != http.StatusOK || len(body["bookings"].([]interface{})) != 2 {
		t.Fatalf("list bookings: %d %v", code, body)
	}
}
