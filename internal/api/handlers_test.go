package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sirosfoundation/go-demo-backend/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Token: config.TokenConfig{
			Secret:      "test-secret",
			ExpiryHours: 1,
			Issuer:      "demo-backend",
		},
	}
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandlers(testConfig(), zap.NewNop())

	r := gin.New()
	r.GET("/health", h.Status)
	r.GET("/status", h.Status)
	r.POST("/v1/echo", h.Echo)
	r.GET("/v1/id", h.RandomID)
	r.POST("/v1/crypto/encrypt", h.Encrypt)
	r.POST("/v1/crypto/decrypt", h.Decrypt)
	r.POST("/v1/validate", h.Validate)
	r.POST("/v1/array/unique", h.ArrayUnique)
	r.POST("/v1/array/chunk", h.ArrayChunk)
	r.POST("/v1/array/pick", h.ArrayPick)
	r.POST("/v1/token/issue", h.IssueToken)
	r.POST("/v1/token/verify", h.VerifyToken)
	r.GET("/v1/ws/echo", h.EchoWS)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)

	resp := map[string]json.RawMessage{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not a JSON object: %v\n%s", err, w.Body.String())
		}
	}
	return w, resp
}

func TestStatus(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{"/health", "/status"} {
		w, _ := doJSON(t, r, http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d", path, w.Code)
		}

		var body StatusResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body.Status != "ok" || body.Service != "demo-backend" {
			t.Errorf("GET %s body = %+v", path, body)
		}
	}
}

func TestEcho(t *testing.T) {
	r := newTestRouter()

	w, resp := doJSON(t, r, http.MethodPost, "/v1/echo", `{"hello":"world","n":[1,2,3]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var echoed map[string]json.RawMessage
	if err := json.Unmarshal(resp["echo"], &echoed); err != nil {
		t.Fatalf("echo field: %v", err)
	}
	if string(echoed["hello"]) != `"world"` {
		t.Errorf("echo.hello = %s", echoed["hello"])
	}
}

func TestEcho_RejectsInvalidJSON(t *testing.T) {
	r := newTestRouter()

	w, _ := doJSON(t, r, http.MethodPost, "/v1/echo", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodPost, "/v1/echo", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty body status = %d, want 400", w.Code)
	}
}

func TestRandomID(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantCount int
	}{
		{name: "default single id", query: "", wantCode: 200, wantCount: 1},
		{name: "multiple ids", query: "?count=5", wantCode: 200, wantCount: 5},
		{name: "maximum", query: "?count=100", wantCode: 200, wantCount: 100},
		{name: "above maximum", query: "?count=101", wantCode: 400},
		{name: "zero", query: "?count=0", wantCode: 400},
		{name: "not a number", query: "?count=abc", wantCode: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := doJSON(t, r, http.MethodGet, "/v1/id"+tt.query, "")
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantCode != 200 {
				return
			}

			var ids []string
			if err := json.Unmarshal(resp["ids"], &ids); err != nil {
				t.Fatal(err)
			}
			if len(ids) != tt.wantCount {
				t.Errorf("len(ids) = %d, want %d", len(ids), tt.wantCount)
			}
			seen := map[string]bool{}
			for _, id := range ids {
				if len(id) != 36 {
					t.Errorf("id %q is not a UUID", id)
				}
				if seen[id] {
					t.Errorf("duplicate id %q", id)
				}
				seen[id] = true
			}
		})
	}
}
