package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gartstein/companyemployees/internal/company/auth"
	dbm "github.com/gartstein/companyemployees/internal/company/db/models"
	"github.com/gartstein/companyemployees/internal/company/models"
	"github.com/gartstein/companyemployees/internal/company/outputcache"
	"github.com/gartstein/companyemployees/internal/company/patch"
	"github.com/gartstein/companyemployees/internal/company/ratelimit"
	"github.com/gartstein/companyemployees/internal/company/shaping"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockCompanyController is a func-field implementation of CompanyController.
type mockCompanyController struct {
	getAllCompaniesFunc         func(ctx context.Context, params shaping.CompanyParameters) ([]shaping.ShapedEntity, shaping.MetaData, error)
	getCompaniesFunc            func(ctx context.Context) ([]models.CompanyDto, error)
	getCompanyFunc              func(ctx context.Context, id uuid.UUID) (*models.CompanyDto, error)
	getByIDsFunc                func(ctx context.Context, ids []uuid.UUID) ([]models.CompanyDto, error)
	createCompanyFunc           func(ctx context.Context, dto *models.CompanyForCreationDto) (*models.CompanyDto, error)
	createCompanyCollectionFunc func(ctx context.Context, dtos []models.CompanyForCreationDto) ([]models.CompanyDto, string, error)
	updateCompanyFunc           func(ctx context.Context, id uuid.UUID, dto *models.CompanyForUpdateDto) error
	deleteCompanyFunc           func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCompanyController) GetAllCompanies(ctx context.Context, params shaping.CompanyParameters) ([]shaping.ShapedEntity, shaping.MetaData, error) {
	return m.getAllCompaniesFunc(ctx, params)
}

func (m *mockCompanyController) GetCompanies(ctx context.Context) ([]models.CompanyDto, error) {
	return m.getCompaniesFunc(ctx)
}

func (m *mockCompanyController) GetCompany(ctx context.Context, id uuid.UUID) (*models.CompanyDto, error) {
	return m.getCompanyFunc(ctx, id)
}

func (m *mockCompanyController) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CompanyDto, error) {
	return m.getByIDsFunc(ctx, ids)
}

func (m *mockCompanyController) CreateCompany(ctx context.Context, dto *models.CompanyForCreationDto) (*models.CompanyDto, error) {
	return m.createCompanyFunc(ctx, dto)
}

func (m *mockCompanyController) CreateCompanyCollection(ctx context.Context, dtos []models.CompanyForCreationDto) ([]models.CompanyDto, string, error) {
	return m.createCompanyCollectionFunc(ctx, dtos)
}

func (m *mockCompanyController) UpdateCompany(ctx context.Context, id uuid.UUID, dto *models.CompanyForUpdateDto) error {
	return m.updateCompanyFunc(ctx, id, dto)
}

func (m *mockCompanyController) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return m.deleteCompanyFunc(ctx, id)
}

// mockEmployeeController is a func-field implementation of EmployeeController.
type mockEmployeeController struct {
	getEmployeesFunc func(ctx context.Context, companyID uuid.UUID, params shaping.EmployeeParameters) ([]shaping.ShapedEntity, shaping.MetaData, error)
	getEmployeeFunc  func(ctx context.Context, companyID, id uuid.UUID) (*models.EmployeeDto, error)
	createFunc       func(ctx context.Context, companyID uuid.UUID, dto *models.EmployeeForCreationDto) (*models.EmployeeDto, error)
	updateFunc       func(ctx context.Context, companyID, id uuid.UUID, dto *models.EmployeeForUpdateDto) error
	patchFunc        func(ctx context.Context, companyID, id uuid.UUID, doc patch.Document) (*models.EmployeeDto, error)
	deleteFunc       func(ctx context.Context, companyID, id uuid.UUID) error
}

func (m *mockEmployeeController) GetEmployees(ctx context.Context, companyID uuid.UUID, params shaping.EmployeeParameters) ([]shaping.ShapedEntity, shaping.MetaData, error) {
	return m.getEmployeesFunc(ctx, companyID, params)
}

func (m *mockEmployeeController) GetEmployee(ctx context.Context, companyID, id uuid.UUID) (*models.EmployeeDto, error) {
	return m.getEmployeeFunc(ctx, companyID, id)
}

func (m *mockEmployeeController) CreateEmployeeForCompany(ctx context.Context, companyID uuid.UUID, dto *models.EmployeeForCreationDto) (*models.EmployeeDto, error) {
	return m.createFunc(ctx, companyID, dto)
}

func (m *mockEmployeeController) UpdateEmployeeForCompany(ctx context.Context, companyID, id uuid.UUID, dto *models.EmployeeForUpdateDto) error {
	return m.updateFunc(ctx, companyID, id, dto)
}

func (m *mockEmployeeController) PatchEmployeeForCompany(ctx context.Context, companyID, id uuid.UUID, doc patch.Document) (*models.EmployeeDto, error) {
	return m.patchFunc(ctx, companyID, id, doc)
}

func (m *mockEmployeeController) DeleteEmployeeForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return m.deleteFunc(ctx, companyID, id)
}

// mockAuthenticationController is a func-field implementation of
// AuthenticationController.
type mockAuthenticationController struct {
	registerUserFunc func(ctx context.Context, dto *models.UserForRegistrationDto) error
	validateUserFunc func(ctx context.Context, dto *models.UserForAuthenticationDto) (*dbm.User, error)
	createTokenFunc  func(ctx context.Context, user *dbm.User, extendExpiry bool) (*models.TokenDto, error)
	refreshTokenFunc func(ctx context.Context, dto *models.TokenDto) (*models.TokenDto, error)
}

func (m *mockAuthenticationController) RegisterUser(ctx context.Context, dto *models.UserForRegistrationDto) error {
	return m.registerUserFunc(ctx, dto)
}

func (m *mockAuthenticationController) ValidateUser(ctx context.Context, dto *models.UserForAuthenticationDto) (*dbm.User, error) {
	return m.validateUserFunc(ctx, dto)
}

func (m *mockAuthenticationController) CreateToken(ctx context.Context, user *dbm.User, extendExpiry bool) (*models.TokenDto, error) {
	return m.createTokenFunc(ctx, user, extendExpiry)
}

func (m *mockAuthenticationController) RefreshToken(ctx context.Context, dto *models.TokenDto) (*models.TokenDto, error) {
	return m.refreshTokenFunc(ctx, dto)
}

type testAPI struct {
	router    *gin.Engine
	companies *mockCompanyController
	employees *mockEmployeeController
	accounts  *mockAuthenticationController
	tokens    *auth.TokenManager
	logs      *observer.ObservedLogs
}

func generousPolicy(name string) ratelimit.Policy {
	return ratelimit.FixedWindowPolicy(name, ratelimit.Global, ratelimit.FixedWindowOptions{
		PermitLimit: 1000,
		Window:      time.Minute,
	})
}

// newTestAPI builds the full router over mock controllers. Limits are high
// unless an option lowers them.
func newTestAPI(t *testing.T, opts ...func(*RouterConfig)) *testAPI {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	tokens, err := auth.NewTokenManager(auth.Config{
		Secret:   "handlers-test-secret-0123456789abcdef",
		Issuer:   "CompanyEmployeesAPI",
		Audience: "https://localhost:5001",
		Expires:  time.Hour,
	})
	require.NoError(t, err)

	ta := &testAPI{
		companies: &mockCompanyController{},
		employees: &mockEmployeeController{},
		accounts:  &mockAuthenticationController{},
		tokens:    tokens,
		logs:      logs,
	}
	cfg := RouterConfig{
		Companies:       ta.companies,
		Employees:       ta.employees,
		Authentication:  ta.accounts,
		Tokens:          tokens,
		Cache:           outputcache.New(outputcache.NewMemoryStore(0), logger),
		GlobalPolicy:    generousPolicy("GlobalLimiter"),
		CompaniesPolicy: generousPolicy("SpecificPolicy"),
		LoginPolicy:     generousPolicy("LoginPolicy"),
		Logger:          logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	ta.router = NewRouter(cfg)
	return ta
}

func (ta *testAPI) bearer(t *testing.T, roles ...string) string {
	t.Helper()
	token, err := ta.tokens.GenerateToken(uuid.New(), "jdoe", roles)
	require.NoError(t, err)
	return "Bearer " + token
}

// do sends a request with an optional body; header values are set as given.
func (ta *testAPI) do(method, target, body string, header http.Header) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, values := range header {
		req.Header[http.CanonicalHeaderKey(name)] = values
	}
	rec := httptest.NewRecorder()
	ta.router.ServeHTTP(rec, req)
	return rec
}
