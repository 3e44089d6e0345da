package httpserver

import (
	"context"
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"orderworks/internal/domain"
	catalogrepo "orderworks/internal/repository/catalogitem"
	orderrepo "orderworks/internal/repository/order"
	"orderworks/internal/service/catalog"
	customersvc "orderworks/internal/service/customer"
	"orderworks/internal/service/processing"
	"orderworks/internal/service/template"
)

// SignupInput is the customer service's signup payload; the alias keeps the
// handler layer and the service layer on one type.
type SignupInput = customersvc.SignupInput

// CustomerService is the slice of the customer service the router needs.
type CustomerService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*domain.Customer, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
	AccessTTLSeconds() int
}

// Deps collects the collaborators the router hands to its handlers.
type Deps struct {
	CustomerSvc CustomerService
	Catalog     *catalog.Factory
	Items       catalogrepo.Repository
	Orders      orderrepo.Repository
	Templates   *template.Registry
	Families    *processing.FamilyFactory
}

func (d Deps) validate() error {
	if d.CustomerSvc == nil {
		return errors.New("customer service required")
	}
	if d.Catalog == nil {
		return errors.New("catalog factory required")
	}
	if d.Items == nil {
		return errors.New("catalog item repository required")
	}
	if d.Orders == nil {
		return errors.New("order repository required")
	}
	if d.Templates == nil {
		return errors.New("template registry required")
	}
	if d.Families == nil {
		return errors.New("service family factory required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/signup", signupHandler(deps.CustomerSvc))
	router.POST("/login", loginHandler(deps.CustomerSvc))

	router.GET("/catalog/categories", categoriesHandler(deps.Catalog))
	router.GET("/catalog/items", listItemsHandler(deps.Items))
	router.GET("/catalog/items/:slug", getItemHandler(deps.Items))
	router.POST("/catalog/items", createItemHandler(deps.Catalog, deps.Items, logger))
	router.POST("/catalog/items/:slug/variations", createVariationHandler(deps.Catalog, deps.Items, logger))

	authed := router.Group("/", authMiddleware(deps.CustomerSvc))
	authed.POST("/orders", createOrderHandler(deps, logger))
	authed.GET("/orders", listOrdersHandler(deps.Orders))
	authed.GET("/orders/:refCode", getOrderHandler(deps.Orders))

	authed.GET("/templates", listTemplatesHandler(deps.Templates))
	authed.POST("/templates", registerTemplateHandler(deps.Templates))
	authed.DELETE("/templates/:name", removeTemplateHandler(deps.Templates))
	authed.POST("/templates/:name/orders", templateOrderHandler(deps, logger))
	authed.POST("/templates/from-order/:refCode", templateFromOrderHandler(deps.Orders, deps.Templates))

	return router, nil
}
