package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/thanhngvn/foodcourt-backend/internal/products"
	"github.com/thanhngvn/foodcourt-backend/internal/tables"
	"github.com/thanhngvn/foodcourt-backend/internal/users"
	pkgAuth "github.com/thanhngvn/foodcourt-backend/pkg/auth"
	"github.com/thanhngvn/foodcourt-backend/pkg/auth/session"
	"github.com/thanhngvn/foodcourt-backend/pkg/config"
	"github.com/thanhngvn/foodcourt-backend/pkg/enums"
	"github.com/thanhngvn/foodcourt-backend/pkg/logger"
	"github.com/thanhngvn/foodcourt-backend/pkg/pagination"
	"github.com/thanhngvn/foodcourt-backend/pkg/redis"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubUserService struct{}

func (stubUserService) GetProfile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

func (stubUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input users.ProfileUpdateInput) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUserService) List(ctx context.Context, params pagination.Params, filters users.ListFilters) (*users.ListResult, error) {
	return &users.ListResult{}, nil
}

func (stubUserService) ChangeRole(ctx context.Context, actorID, targetID uuid.UUID, role enums.MemberRole) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUserService) SetActive(ctx context.Context, actorID, targetID uuid.UUID, active bool) (*users.UserDTO, error) {
	panic("unimplemented")
}

type stubTableService struct{}

func (stubTableService) List(ctx context.Context) ([]tables.TableDTO, error) {
	return []tables.TableDTO{}, nil
}

func (stubTableService) Get(ctx context.Context, id uuid.UUID) (*tables.TableDTO, error) {
	panic("unimplemented")
}

func (stubTableService) Create(ctx context.Context, input tables.Input) (*tables.TableDTO, error) {
	panic("unimplemented")
}

func (stubTableService) Update(ctx context.Context, id uuid.UUID, input tables.Input) (*tables.TableDTO, error) {
	panic("unimplemented")
}

func (stubTableService) SetStatus(ctx context.Context, id uuid.UUID, status enums.TableStatus) (*tables.TableDTO, error) {
	panic("unimplemented")
}

func (stubTableService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubProductService struct{}

func (stubProductService) CreateProduct(ctx context.Context, input products.CreateProductInput) (*products.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) UpdateProduct(ctx context.Context, productID uuid.UUID, input products.UpdateProductInput) (*products.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	panic("unimplemented")
}

func (stubProductService) GetProduct(ctx context.Context, productID uuid.UUID) (*products.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) GetProductBySlug(ctx context.Context, slug string) (*products.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) ListProducts(ctx context.Context, params pagination.Params, filters products.ListFilters) (*products.ProductListResult, error) {
	return &products.ProductListResult{}, nil
}

func (stubProductService) ResolveSelection(ctx context.Context, productID uuid.UUID, selections products.Selections) (*products.ResolveResultDTO, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		nil,
		(*redis.Client)(nil),
		stubSessionChecker{},
		nil,
		nil,
		Services{
			Users:    stubUserService{},
			Products: stubProductService{},
			Tables:   stubTableService{},
		},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.MemberRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsOpen(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public product list got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for profile got %d", resp.Code)
	}
}

func TestAdminGroupRequiresBackOfficeRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/tables", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	staff := httptest.NewRequest(http.MethodGet, "/api/admin/v1/tables", nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleStaff))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff got %d", resp.Code)
	}
}

func TestUserAdministrationRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	staff := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users", nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff on user admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin on user admin got %d", resp.Code)
	}
}
