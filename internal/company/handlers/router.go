package handlers

import (
	"context"
	"net/http"
	"time"

	_ "github.com/gartstein/companyemployees/api/docs" // swagger document
	"github.com/gartstein/companyemployees/internal/company/auth"
	dbm "github.com/gartstein/companyemployees/internal/company/db/models"
	"github.com/gartstein/companyemployees/internal/company/links"
	"github.com/gartstein/companyemployees/internal/company/models"
	"github.com/gartstein/companyemployees/internal/company/outputcache"
	"github.com/gartstein/companyemployees/internal/company/patch"
	"github.com/gartstein/companyemployees/internal/company/ratelimit"
	"github.com/gartstein/companyemployees/internal/company/shaping"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// CompanyController is the business logic the company routes invoke.
type CompanyController interface {
	GetAllCompanies(ctx context.Context, params shaping.CompanyParameters) ([]shaping.ShapedEntity, shaping.MetaData, error)
	GetCompanies(ctx context.Context) ([]models.CompanyDto, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.CompanyDto, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CompanyDto, error)
	CreateCompany(ctx context.Context, dto *models.CompanyForCreationDto) (*models.CompanyDto, error)
	CreateCompanyCollection(ctx context.Context, dtos []models.CompanyForCreationDto) ([]models.CompanyDto, string, error)
	UpdateCompany(ctx context.Context, id uuid.UUID, dto *models.CompanyForUpdateDto) error
	DeleteCompany(ctx context.Context, id uuid.UUID) error
}

// EmployeeController is the business logic the employee routes invoke.
type EmployeeController interface {
	GetEmployees(ctx context.Context, companyID uuid.UUID, params shaping.EmployeeParameters) ([]shaping.ShapedEntity, shaping.MetaData, error)
	GetEmployee(ctx context.Context, companyID, id uuid.UUID) (*models.EmployeeDto, error)
	CreateEmployeeForCompany(ctx context.Context, companyID uuid.UUID, dto *models.EmployeeForCreationDto) (*models.EmployeeDto, error)
	UpdateEmployeeForCompany(ctx context.Context, companyID, id uuid.UUID, dto *models.EmployeeForUpdateDto) error
	PatchEmployeeForCompany(ctx context.Context, companyID, id uuid.UUID, doc patch.Document) (*models.EmployeeDto, error)
	DeleteEmployeeForCompany(ctx context.Context, companyID, id uuid.UUID) error
}

// AuthenticationController is the business logic the account routes invoke.
type AuthenticationController interface {
	RegisterUser(ctx context.Context, dto *models.UserForRegistrationDto) error
	ValidateUser(ctx context.Context, dto *models.UserForAuthenticationDto) (*dbm.User, error)
	CreateToken(ctx context.Context, user *dbm.User, extendExpiry bool) (*models.TokenDto, error)
	RefreshToken(ctx context.Context, dto *models.TokenDto) (*models.TokenDto, error)
}

// RouterConfig carries everything the router wires together.
type RouterConfig struct {
	Companies      CompanyController
	Employees      EmployeeController
	Authentication AuthenticationController
	Tokens         *auth.TokenManager
	Cache          *outputcache.Cache

	GlobalPolicy    ratelimit.Policy
	CompaniesPolicy ratelimit.Policy
	LoginPolicy     ratelimit.Policy

	AllowedOrigins []string
	// TrustedProxies may set the client IP through X-Forwarded-For. Empty
	// trusts none, so the socket address is used.
	TrustedProxies []string
	Logger         *zap.Logger
}

// base is shared by every handler.
type base struct {
	logger *zap.Logger
	links  *links.Generator
}

// DefaultPolicies returns the global, companies and login rate limit
// policies.
func DefaultPolicies() (global, companies, login ratelimit.Policy) {
	global = ratelimit.FixedWindowPolicy("GlobalLimiter", ratelimit.Global, ratelimit.FixedWindowOptions{
		PermitLimit: 5,
		Window:      time.Minute,
		QueueLimit:  2,
		QueueOrder:  ratelimit.OldestFirst,
	})
	companies = ratelimit.FixedWindowPolicy("SpecificPolicy", ratelimit.Global, ratelimit.FixedWindowOptions{
		PermitLimit: 3,
		Window:      10 * time.Second,
	})
	login = ratelimit.TokenBucketPolicy("LoginPolicy", ratelimit.ClientIP, 5, time.Minute, 5)
	return global, companies, login
}

// NewRouter builds the gin engine serving the API and its Swagger UI.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger.Named("http")
	h := base{logger: logger, links: links.NewGenerator(links.DefaultRoutes())}
	companies := &CompanyHandler{base: h, service: cfg.Companies}
	employees := &EmployeeHandler{base: h, service: cfg.Employees}
	accounts := &AuthenticationHandler{base: h, service: cfg.Authentication}
	root := &RootHandler{base: h}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Error("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(RequestLogger(logger), h.Recovery(), cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))

	api := r.Group("/api",
		Negotiate(),
		h.APIVersion("GET /api/companies"),
		ratelimit.Middleware(cfg.GlobalPolicy, logger, ratelimit.Except("GET /api/companies/:companyId")),
	)
	api.GET("", root.GetRoot)

	c := api.Group("/companies", cfg.Cache.EvictOnWrite(outputcache.TagCompanies))
	c.OPTIONS("", companies.GetCompaniesOptions)
	c.GET("",
		auth.Authenticate(cfg.Tokens),
		auth.RequireRoles(dbm.RoleManager, dbm.RoleAdministrator),
		ratelimit.Middleware(cfg.CompaniesPolicy, logger, nil),
		cfg.Cache.Handler(outputcache.Companies120),
		companies.GetCompanies,
	)
	c.GET("/:companyId", cfg.Cache.Handler(outputcache.Company60), companies.GetCompany)
	c.GET("/collection/:ids", cfg.Cache.Handler(outputcache.Companies120), companies.GetCompanyCollection)
	c.POST("", companies.CreateCompany)
	c.POST("/collection", companies.CreateCompanyCollection)
	c.PUT("/:companyId", companies.UpdateCompany)
	c.DELETE("/:companyId", companies.DeleteCompany)

	e := c.Group("/:companyId/employees")
	e.GET("", employees.GetEmployeesForCompany)
	e.POST("", employees.CreateEmployeeForCompany)
	e.GET("/:id", employees.GetEmployeeForCompany)
	e.PUT("/:id", employees.UpdateEmployeeForCompany)
	e.PATCH("/:id", employees.PartiallyUpdateEmployeeForCompany)
	e.DELETE("/:id", employees.DeleteEmployeeForCompany)

	api.POST("/authentication", accounts.RegisterUser)
	api.POST("/authentication/login", ratelimit.Middleware(cfg.LoginPolicy, logger, nil), accounts.Authenticate)
	api.POST("/token/refresh", accounts.Refresh)

	r.NoRoute(func(c *gin.Context) {
		h.respond(c, http.StatusNotFound, ErrorDetails{StatusCode: http.StatusNotFound, Message: "Resource not found."})
	})
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", apiVersionHeader},
		ExposeHeaders: []string{"X-Pagination", "Location", "ETag", "Retry-After", "api-supported-versions", "api-deprecated-versions"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
