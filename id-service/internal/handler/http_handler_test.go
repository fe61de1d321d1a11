package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/weiawesome/prefixid/id-service/internal/domain"
	"github.com/weiawesome/prefixid/id-service/internal/generator"
	"github.com/weiawesome/prefixid/id-service/internal/repository"
	"github.com/weiawesome/prefixid/id-service/internal/service"
	"github.com/weiawesome/prefixid/pkg/database"
	"github.com/weiawesome/prefixid/pkg/jwt"
	"github.com/weiawesome/prefixid/pkg/log"
	"github.com/weiawesome/prefixid/pkg/middleware"
	"github.com/weiawesome/prefixid/pkg/payload"
	"github.com/weiawesome/prefixid/pkg/pubsub"
	"github.com/weiawesome/prefixid/pkg/typeid"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newRouterWithAuth(t, nil)
}

func newRouterWithAuth(t *testing.T, auth *middleware.AuthMiddleware) *gin.Engine {
	t.Helper()
	return newRouterWithEpoch(t, auth, 1704067200000)
}

func newRouterWithEpoch(t *testing.T, auth *middleware.AuthMiddleware, epoch int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.New(&database.Config{Driver: "sqlite", FilePath: "file::memory:", LogLevel: "silent", MaxOpenConns: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := database.AutoMigrate(db, &domain.IssuedIDModel{}); err != nil {
		t.Fatal(err)
	}

	sf, err := payload.NewSnowflake(1, epoch)
	if err != nil {
		t.Fatal(err)
	}
	set, err := generator.NewSet(typeid.NewRegistry(), generator.NewSources(sf), []generator.Kind{
		{Prefix: "user", Width: 16},
		{Prefix: "event", Width: 8, Source: "snowflake"},
	})
	if err != nil {
		t.Fatal(err)
	}
	svc, err := service.NewIDService(set, repository.NewGormLedgerRepository(db), pubsub.NoopPublisher{}, 1000)
	if err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.Use(log.GinMiddleware(zerolog.Nop()))
	NewHandler(svc, auth).RegisterRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	return doWithToken(t, r, method, path, "", body)
}

func doWithToken(t *testing.T, r http.Handler, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: body is not an envelope: %s", method, path, w.Body.String())
	}
	return w.Code, env
}

func TestListKinds(t *testing.T) {
	r := newRouter(t)
	status, env := do(t, r, http.MethodGet, "/api/v1/kinds", nil)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("status %d, %+v", status, env)
	}
	var kinds []domain.KindResponse
	if err := json.Unmarshal(env.Data, &kinds); err != nil {
		t.Fatal(err)
	}
	if len(kinds) != 2 || kinds[0].Prefix != "event" || kinds[1].EncodedLength != 31 {
		t.Errorf("kinds = %+v", kinds)
	}
}

func TestGenerateAndInspect(t *testing.T) {
	r := newRouter(t)

	status, env := do(t, r, http.MethodPost, "/api/v1/kinds/user/ids?count=3", nil)
	if status != http.StatusCreated {
		t.Fatalf("generate status = %d: %+v", status, env.Error)
	}
	var gen domain.GenerateResponse
	if err := json.Unmarshal(env.Data, &gen); err != nil {
		t.Fatal(err)
	}
	if len(gen.IDs) != 3 || !strings.HasPrefix(gen.BatchID, "batch_") {
		t.Fatalf("generate = %+v", gen)
	}

	status, env = do(t, r, http.MethodGet, "/api/v1/ids/"+gen.IDs[0], nil)
	if status != http.StatusOK {
		t.Fatalf("inspect status = %d: %+v", status, env.Error)
	}
	var ins domain.InspectResponse
	if err := json.Unmarshal(env.Data, &ins); err != nil {
		t.Fatal(err)
	}
	if ins.ID != gen.IDs[0] || ins.Width != 16 || ins.Issued == nil || !*ins.Issued || ins.BatchID != gen.BatchID {
		t.Errorf("inspect = %+v", ins)
	}
}

func TestGenerateDefaultsToOne(t *testing.T) {
	r := newRouter(t)
	status, env := do(t, r, http.MethodPost, "/api/v1/kinds/event/ids", nil)
	if status != http.StatusCreated {
		t.Fatalf("status = %d", status)
	}
	var gen domain.GenerateResponse
	if err := json.Unmarshal(env.Data, &gen); err != nil {
		t.Fatal(err)
	}
	if len(gen.IDs) != 1 || gen.Source != "snowflake" {
		t.Errorf("generate = %+v", gen)
	}
}

func TestGenerateErrors(t *testing.T) {
	r := newRouter(t)
	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/api/v1/kinds/user/ids?count=0", http.StatusBadRequest, "BAD_REQUEST"},
		{"/api/v1/kinds/user/ids?count=1001", http.StatusBadRequest, "BAD_REQUEST"},
		{"/api/v1/kinds/user/ids?count=many", http.StatusBadRequest, "BAD_REQUEST"},
		{"/api/v1/kinds/invoice/ids", http.StatusNotFound, domain.CodeUnknownPrefix},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, env := do(t, r, http.MethodPost, tt.path, nil)
			if status != tt.status || env.Error == nil || env.Error.Code != tt.code {
				t.Errorf("got %d %+v, want %d %s", status, env.Error, tt.status, tt.code)
			}
		})
	}
}

func TestInspectErrors(t *testing.T) {
	r := newRouter(t)
	zeros := strings.Repeat("0", 26)
	tests := []struct {
		id     string
		status int
		code   string
	}{
		{"user" + zeros, http.StatusBadRequest, domain.CodeSeparatorMissing},
		{"plane_" + zeros, http.StatusNotFound, domain.CodeUnknownPrefix},
		{"user_" + zeros[:20], http.StatusBadRequest, domain.CodePayloadWrongLength},
		{"user_" + zeros[:25] + "u", http.StatusBadRequest, domain.CodePayloadInvalidCharacter},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, env := do(t, r, http.MethodGet, "/api/v1/ids/"+tt.id, nil)
			if status != tt.status || env.Error == nil || env.Error.Code != tt.code {
				t.Errorf("got %d %+v, want %d %s", status, env.Error, tt.status, tt.code)
			}
		})
	}

	// Well formed but never issued.
	status, env := do(t, r, http.MethodGet, "/api/v1/ids/user_"+zeros, nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var ins domain.InspectResponse
	if err := json.Unmarshal(env.Data, &ins); err != nil {
		t.Fatal(err)
	}
	if ins.Issued == nil || *ins.Issued {
		t.Errorf("inspect = %+v", ins)
	}
}

func TestValidate(t *testing.T) {
	r := newRouter(t)
	zeros := strings.Repeat("0", 26)

	tests := []struct {
		name  string
		req   domain.ValidateRequest
		valid bool
		code  string
	}{
		{"valid", domain.ValidateRequest{ID: "user_" + zeros}, true, ""},
		{"mismatch", domain.ValidateRequest{ID: "user_" + zeros, Prefix: "event"}, false, domain.CodePrefixMismatch},
		{"overflow", domain.ValidateRequest{ID: "user_z" + zeros[1:]}, false, domain.CodePayloadOverflow},
		{"prefix", domain.ValidateRequest{ID: "USER_" + zeros}, false, domain.CodePrefixInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, r, http.MethodPost, "/api/v1/ids/validate", tt.req)
			if status != http.StatusOK {
				t.Fatalf("status = %d", status)
			}
			var got domain.ValidateResponse
			if err := json.Unmarshal(env.Data, &got); err != nil {
				t.Fatal(err)
			}
			if got.Valid != tt.valid || got.Code != tt.code {
				t.Errorf("validate = %+v, want valid=%v code=%s", got, tt.valid, tt.code)
			}
		})
	}

	status, env := do(t, r, http.MethodPost, "/api/v1/ids/validate", map[string]string{"prefix": "user"})
	if status != http.StatusBadRequest || env.Error == nil {
		t.Errorf("missing id: %d %+v", status, env)
	}
}

func TestGenerateRequiresToken(t *testing.T) {
	manager, err := jwt.NewManager("0123456789abcdef0123456789abcdef", "id-service", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	r := newRouterWithAuth(t, middleware.NewAuthMiddleware(manager))
	token, _, err := manager.GenerateToken("billing", []string{"event"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"no token", "/api/v1/kinds/event/ids", "", http.StatusUnauthorized},
		{"other kind", "/api/v1/kinds/user/ids", token, http.StatusForbidden},
		{"granted", "/api/v1/kinds/event/ids", token, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doWithToken(t, r, http.MethodPost, tt.path, tt.token, nil)
			if status != tt.status {
				t.Errorf("status = %d, want %d (%+v)", status, tt.status, env.Error)
			}
		})
	}

	// Reads stay open.
	if status, _ := do(t, r, http.MethodGet, "/api/v1/kinds", nil); status != http.StatusOK {
		t.Errorf("list kinds with auth enabled: %d", status)
	}
}

func TestGenerateClockBeforeEpoch(t *testing.T) {
	r := newRouterWithEpoch(t, nil, time.Now().Add(24*time.Hour).UnixMilli())

	status, env := do(t, r, http.MethodPost, "/api/v1/kinds/event/ids", nil)
	if status != http.StatusServiceUnavailable || env.Error == nil || env.Error.Code != "SOURCE_UNAVAILABLE" {
		t.Errorf("status %d, %+v", status, env.Error)
	}
}
