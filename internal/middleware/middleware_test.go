package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"kitchen_display/internal/services"

	"github.com/MonkyMars/gecho"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTokenParser struct {
	mock.Mock
}

func (m *MockTokenParser) ParseToken(token string) (*services.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Claims), args.Error(1)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(parser TokenParser, roles ...string) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logger(gecho.NewDefaultLogger()))
	r.GET("/me", Auth(parser, roles...), func(c *gin.Context) {
		id, ok := UserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok})
	})
	return r
}

func TestAuth_MissingHeader(t *testing.T) {
	parser := new(MockTokenParser)
	w := httptest.NewRecorder()
	newRouter(parser).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	parser.AssertNotCalled(t, "ParseToken", mock.Anything)
}

func TestAuth_InvalidToken(t *testing.T) {
	parser := new(MockTokenParser)
	parser.On("ParseToken", "bad").Return(nil, errors.New("nope"))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w := httptest.NewRecorder()
	newRouter(parser).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid token"}`, w.Body.String())
}

func TestAuth_SetsUser(t *testing.T) {
	parser := new(MockTokenParser)
	parser.On("ParseToken", "good").Return(&services.Claims{UserID: 42, Role: "manager"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	newRouter(parser, "manager", "super_admin").ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42,"ok":true}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestAuth_RoleForbidden(t *testing.T) {
	parser := new(MockTokenParser)
	parser.On("ParseToken", "staff").Return(&services.Claims{UserID: 5, Role: "staff"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer staff")
	w := httptest.NewRecorder()
	newRouter(parser, "manager").ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestID_Propagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://board.local"}))
	r.PATCH("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://board.local")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://board.local", w.Header().Get("Access-Control-Allow-Origin"))
}
