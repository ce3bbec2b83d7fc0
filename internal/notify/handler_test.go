package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func setupRouter(h *Handler, userID string, isAdmin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// 测试里直接注入身份，跳过 JWT 中间件
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("isAdmin", isAdmin)
	})
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.POST("/notify-order-placed", h.NotifyOrderPlaced)
	r.POST("/notify-order-delivered", h.NotifyOrderDelivered)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoints(t *testing.T) {
	h := NewHandler(NewService(new(MockOrderRepository), new(MockUserRepository), new(MockMailer), ""))
	r := setupRouter(h, "u1", false)

	for _, path := range []string{"/", "/health"} {
		w := doJSON(r, http.MethodGet, path, "")

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["ok"])
	}
}

func TestNotifyOrderPlacedHandler(t *testing.T) {
	t.Run("Missing orderId rejected with 400", func(t *testing.T) {
		h := NewHandler(NewService(new(MockOrderRepository), new(MockUserRepository), new(MockMailer), ""))
		r := setupRouter(h, "u1", false)

		w := doJSON(r, http.MethodPost, "/notify-order-placed", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown order returns 404", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("GetByID", "missing").Return(nil, gorm.ErrRecordNotFound)
		h := NewHandler(NewService(orders, new(MockUserRepository), new(MockMailer), ""))
		r := setupRouter(h, "u1", false)

		w := doJSON(r, http.MethodPost, "/notify-order-placed", `{"orderId":"missing"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Wrong owner returns 403", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("GetByID", "o1").Return(placedOrder("o1", "u1"), nil)
		mailSender := new(MockMailer)
		h := NewHandler(NewService(orders, new(MockUserRepository), mailSender, ""))
		r := setupRouter(h, "someone-else", false)

		w := doJSON(r, http.MethodPost, "/notify-order-placed", `{"orderId":"o1"}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mailSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success reports both result flags", func(t *testing.T) {
		orders := new(MockOrderRepository)
		users := new(MockUserRepository)
		mailSender := new(MockMailer)
		orders.On("GetByID", "o1").Return(placedOrder("o1", "u1"), nil)
		users.On("GetByID", "u1").Return(owner("u1", "customer@example.com"), nil)
		mailSender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		h := NewHandler(NewService(orders, users, mailSender, "ops@example.com"))
		r := setupRouter(h, "u1", false)

		w := doJSON(r, http.MethodPost, "/notify-order-placed", `{"orderId":"o1"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			OK      bool `json:"ok"`
			Results struct {
				EmailSent      bool `json:"emailSent"`
				AdminEmailSent bool `json:"adminEmailSent"`
			} `json:"results"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.OK)
		assert.True(t, body.Results.EmailSent)
		assert.True(t, body.Results.AdminEmailSent)
	})
}

func TestNotifyOrderDeliveredHandler(t *testing.T) {
	t.Run("Non-admin rejected with 403", func(t *testing.T) {
		mailSender := new(MockMailer)
		h := NewHandler(NewService(new(MockOrderRepository), new(MockUserRepository), mailSender, ""))
		r := setupRouter(h, "u1", false)

		w := doJSON(r, http.MethodPost, "/notify-order-delivered", `{"orderId":"o1"}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mailSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Order not yet delivered rejected with 400", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("GetByID", "o1").Return(placedOrder("o1", "u1"), nil)
		mailSender := new(MockMailer)
		h := NewHandler(NewService(orders, new(MockUserRepository), mailSender, ""))
		r := setupRouter(h, "admin-1", true)

		w := doJSON(r, http.MethodPost, "/notify-order-delivered", `{"orderId":"o1"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mailSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success reports emailSent", func(t *testing.T) {
		orders := new(MockOrderRepository)
		users := new(MockUserRepository)
		mailSender := new(MockMailer)
		orders.On("GetByID", "o1").Return(deliveredOrder("o1", "u1"), nil)
		users.On("GetByID", "u1").Return(owner("u1", "customer@example.com"), nil)
		mailSender.On("Send", mock.Anything, "customer@example.com", mock.Anything, mock.Anything).Return(nil)
		h := NewHandler(NewService(orders, users, mailSender, ""))
		r := setupRouter(h, "admin-1", true)

		w := doJSON(r, http.MethodPost, "/notify-order-delivered", `{"orderId":"o1"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			OK      bool `json:"ok"`
			Results struct {
				EmailSent bool `json:"emailSent"`
			} `json:"results"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.OK)
		assert.True(t, body.Results.EmailSent)
	})
}
