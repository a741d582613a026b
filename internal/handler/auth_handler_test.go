package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/celianh/marketplace-backend/internal/auth"
	"github.com/celianh/marketplace-backend/internal/model"
	"github.com/celianh/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// stubUserService returns canned users keyed by email; Register echoes the
// input back as a persisted user.
type stubUserService struct {
	users  map[string]*model.User
	nextID uint64
}

func newStubUserService() *stubUserService {
	return &stubUserService{users: make(map[string]*model.User)}
}

func (s *stubUserService) Register(_ context.Context, in service.RegisterInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, ok := s.users[email]; ok {
		return nil, service.ErrEmailTaken
	}
	s.nextID++
	u := &model.User{ID: s.nextID, Email: email, FullName: in.FullName, Role: in.Role, IsActive: true, HashedPassword: in.Password}
	s.users[email] = u
	return u, nil
}

func (s *stubUserService) Authenticate(_ context.Context, email, password string) (*model.User, error) {
	u, ok := s.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok || u.HashedPassword != password {
		return nil, service.ErrInvalidCredentials
	}
	return u, nil
}

func (s *stubUserService) Get(_ context.Context, id uint64) (*model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, service.ErrNotFound
}

func (s *stubUserService) UpdateProfile(_ context.Context, id uint64, _ service.UpdateProfileInput) (*model.User, error) {
	return s.Get(context.Background(), id)
}

func newAuthFixture(t *testing.T) (*stubUserService, *auth.Manager, *AuthHandler, *echo.Echo) {
	t.Helper()
	users := newStubUserService()
	tokens := auth.NewManager("test-secret", time.Hour)
	return users, tokens, NewAuthHandler(users, tokens), echo.New()
}

func doJSON(e *echo.Echo, h echo.HandlerFunc, method, target, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))
	return rec
}

func TestRegisterBuyerIsPublic(t *testing.T) {
	_, _, h, e := newAuthFixture(t)

	rec := doJSON(e, h.Register, http.MethodPost, "/api/v1/auth/register",
		`{"email":"alice@example.com","password":"password123","fullName":"Alice"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	var resp UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Role != "buyer" {
		t.Fatalf("role=%q want buyer default", resp.Role)
	}
	if !resp.IsActive {
		t.Fatal("new account must be active")
	}
}

func TestRegisterAdminRequiresAdminToken(t *testing.T) {
	users, tokens, h, e := newAuthFixture(t)

	body := `{"email":"new-admin@example.com","password":"password123","role":"admin"}`

	rec := doJSON(e, h.Register, http.MethodPost, "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("anonymous admin creation: status=%d want 403", rec.Code)
	}

	seller, _ := users.Register(context.Background(), service.RegisterInput{
		Email: "seller@example.com", Password: "password123", Role: model.RoleSeller,
	})
	sellerToken, _ := tokens.Issue(seller.ID, string(seller.Role))
	rec = doJSON(e, h.Register, http.MethodPost, "/api/v1/auth/register", body, sellerToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("seller admin creation: status=%d want 403", rec.Code)
	}

	admin, _ := users.Register(context.Background(), service.RegisterInput{
		Email: "root@example.com", Password: "password123", Role: model.RoleAdmin,
	})
	adminToken, _ := tokens.Issue(admin.ID, string(admin.Role))
	rec = doJSON(e, h.Register, http.MethodPost, "/api/v1/auth/register", body, adminToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin admin creation: status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRegisterDuplicateEmailEnvelope(t *testing.T) {
	_, _, h, e := newAuthFixture(t)

	body := `{"email":"bob@example.com","password":"password123"}`
	doJSON(e, h.Register, http.MethodPost, "/api/v1/auth/register", body, "")
	rec := doJSON(e, h.Register, http.MethodPost, "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want 400", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Code != "bad_request" {
		t.Fatalf("code=%q", resp.Error.Code)
	}
	if !strings.Contains(resp.Error.Message, "already exists") {
		t.Fatalf("message=%q", resp.Error.Message)
	}
}

func TestLoginIssuesBearerToken(t *testing.T) {
	users, tokens, h, e := newAuthFixture(t)
	user, _ := users.Register(context.Background(), service.RegisterInput{
		Email: "carol@example.com", Password: "password123", Role: model.RoleBuyer,
	})

	rec := doJSON(e, h.Login, http.MethodPost, "/api/v1/auth/login",
		`{"username":"carol@example.com","password":"password123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	var resp TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("token_type=%q", resp.TokenType)
	}
	claims, err := tokens.Parse(resp.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != "buyer" {
		t.Fatalf("claims=%+v", claims)
	}
}

func TestLoginAcceptsFormEncoding(t *testing.T) {
	users, _, h, e := newAuthFixture(t)
	users.Register(context.Background(), service.RegisterInput{
		Email: "dan@example.com", Password: "password123", Role: model.RoleBuyer,
	})

	form := "username=dan%40example.com&password=password123"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(form))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	_ = h.Login(e.NewContext(req, rec))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLoginBadCredentials(t *testing.T) {
	_, _, h, e := newAuthFixture(t)

	rec := doJSON(e, h.Login, http.MethodPost, "/api/v1/auth/login",
		`{"username":"nobody@example.com","password":"whatever"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want 400", rec.Code)
	}
}
