package httpserver

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/gin-gonic/gin"

	"orderworks/internal/domain"
	catalogrepo "orderworks/internal/repository/catalogitem"
	"orderworks/internal/service/catalog"
	"orderworks/internal/service/payment"
	"orderworks/internal/service/processing"
	"orderworks/internal/service/template"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubCustomerSvc struct {
	customer *domain.Customer
	loginErr error
	signErr  error
	meErr    error
}

func (s *stubCustomerSvc) Signup(_ context.Context, _ SignupInput) (*domain.Customer, error) {
	return s.customer, s.signErr
}

func (s *stubCustomerSvc) Login(_ context.Context, _, _ string) (*domain.Customer, string, string, error) {
	return s.customer, "access", "refresh", s.loginErr
}

func (s *stubCustomerSvc) LookupByToken(_ context.Context, _ string) (*domain.Customer, error) {
	return s.customer, s.meErr
}

func (s *stubCustomerSvc) AccessTTLSeconds() int {
	return 3600
}

// memoryItems is an in-memory catalog item repository keyed by slug.
type memoryItems struct {
	bySlug map[string]catalogrepo.Record
}

func newMemoryItems() *memoryItems {
	return &memoryItems{bySlug: make(map[string]catalogrepo.Record)}
}

func (m *memoryItems) Upsert(_ context.Context, rec catalogrepo.Record) (*catalogrepo.Record, error) {
	m.bySlug[rec.Slug] = rec
	clone := rec
	return &clone, nil
}

func (m *memoryItems) GetBySlug(_ context.Context, slug string) (*catalogrepo.Record, error) {
	rec, ok := m.bySlug[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := rec
	return &clone, nil
}

func (m *memoryItems) List(_ context.Context) ([]catalogrepo.Record, error) {
	out := make([]catalogrepo.Record, 0, len(m.bySlug))
	for _, rec := range m.bySlug {
		out = append(out, rec)
	}
	return out, nil
}

// memoryOrders is an in-memory order repository keyed by reference code.
type memoryOrders struct {
	byRef map[string]domain.OrderDraft
}

func newMemoryOrders() *memoryOrders {
	return &memoryOrders{byRef: make(map[string]domain.OrderDraft)}
}

func (m *memoryOrders) Save(_ context.Context, draft domain.OrderDraft) (string, error) {
	if _, exists := m.byRef[draft.RefCode]; exists {
		return "", domain.ErrAlreadyExists
	}
	m.byRef[draft.RefCode] = draft
	return draft.RefCode, nil
}

func (m *memoryOrders) GetByRefCode(_ context.Context, refCode string) (*domain.OrderDraft, error) {
	draft, ok := m.byRef[refCode]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := draft
	return &clone, nil
}

func (m *memoryOrders) ListByCustomer(_ context.Context, email string) ([]domain.OrderDraft, error) {
	var out []domain.OrderDraft
	for _, draft := range m.byRef {
		if draft.Customer != nil && draft.Customer.Email == email {
			out = append(out, draft)
		}
	}
	return out, nil
}

type stubGateway struct {
	chargeErr error
	charges   int
}

func (g *stubGateway) Charge(_ context.Context, _ int64, _, _ string) (string, error) {
	g.charges++
	if g.chargeErr != nil {
		return "", g.chargeErr
	}
	return "ch_test", nil
}

func (g *stubGateway) Refund(_ context.Context, _ string, _ *int64) (string, error) {
	return "re_test", nil
}

type stubTransport struct {
	sent int
	err  error
}

func (t *stubTransport) Send(_ context.Context, _, _, _, _ string) error {
	t.sent++
	return t.err
}

type envSettings struct{}

func (envSettings) GatewaySecretKey() string { return "sk_test" }
func (envSettings) GatewayPublicKey() string { return "pk_test" }
func (envSettings) CurrencyCode() string     { return "USD" }

type routerFixture struct {
	items     *memoryItems
	orders    *memoryOrders
	templates *template.Registry
	gateway   *stubGateway
	transport *stubTransport
	customer  *domain.Customer
}

func buildTestRouter(t *testing.T, fx *routerFixture) (*gin.Engine, *routerFixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if fx == nil {
		fx = &routerFixture{}
	}
	if fx.items == nil {
		fx.items = newMemoryItems()
	}
	if fx.orders == nil {
		fx.orders = newMemoryOrders()
	}
	if fx.templates == nil {
		fx.templates = template.NewRegistry()
	}
	if fx.gateway == nil {
		fx.gateway = &stubGateway{}
	}
	if fx.transport == nil {
		fx.transport = &stubTransport{}
	}
	if fx.customer == nil {
		fx.customer = &domain.Customer{ID: "cust-1", Email: "buyer@example.com"}
	}

	payment.ResetForTest()
	cfg, err := payment.Load(envSettings{})
	if err != nil {
		t.Fatalf("load payment config: %v", err)
	}
	families := processing.NewFamilyFactory(cfg, fx.gateway, fx.transport, "orders@orderworks.local")

	router, err := buildRouter(logDiscard(), nil, Deps{
		CustomerSvc: &stubCustomerSvc{customer: fx.customer},
		Catalog:     catalog.NewFactory(),
		Items:       fx.items,
		Orders:      fx.orders,
		Templates:   fx.templates,
		Families:    families,
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router, fx
}
