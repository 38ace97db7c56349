package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bobaandbao/storefront/internal/models"
	"github.com/bobaandbao/storefront/internal/payments"
	"github.com/bobaandbao/storefront/internal/pricing"
	"github.com/bobaandbao/storefront/internal/repo"
	"github.com/bobaandbao/storefront/internal/service"
)

type fakeGateway struct {
	created   []payments.SessionRequest
	sessions  map[string]*payments.Session
	events    map[string]*payments.WebhookEvent
	verifyErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		sessions: map[string]*payments.Session{},
		events:   map[string]*payments.WebhookEvent{},
	}
}

func (g *fakeGateway) CreateSession(_ context.Context, req payments.SessionRequest) (*payments.Session, error) {
	g.created = append(g.created, req)
	sess := &payments.Session{ID: "cs_test_1", PaymentStatus: "unpaid", Metadata: req.Metadata}
	g.sessions[sess.ID] = sess
	return sess, nil
}

func (g *fakeGateway) RetrieveSession(_ context.Context, sessionID string) (*payments.Session, error) {
	sess, ok := g.sessions[sessionID]
	if !ok {
		return nil, payments.ErrTransport
	}
	return sess, nil
}

// VerifyWebhook treats the signature header as a key into pre-registered
// events so tests can drive the handler without real signing.
func (g *fakeGateway) VerifyWebhook(_ []byte, signatureHeader string) (*payments.WebhookEvent, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	ev, ok := g.events[signatureHeader]
	if !ok {
		return nil, payments.ErrSignatureInvalid
	}
	return ev, nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (n *fakeNotifier) SendOrderConfirmation(order *models.Order, _ []models.OrderItem) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, order.OrderID)
	return nil
}

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Repo     *repo.GormRepo
	Gateway  *fakeGateway
	Notifier *fakeNotifier

	Cart     *CartHandler
	Checkout *CheckoutHandler
	Webhook  *WebhookHandler
	Admin    *AdminHandler
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
		return nil
	}
	if err := db.AutoMigrate(
		&models.Product{}, &models.ProductVariant{}, &models.CartItem{},
		&models.CheckoutSession{}, &models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	store := repo.New(db)
	gateway := newFakeGateway()
	notifier := &fakeNotifier{}

	checkoutSvc := &service.CheckoutService{
		Repo:     store,
		Gateway:  gateway,
		Notifier: notifier,
		Calc:     pricing.Calculator{ShippingFee: 350, FreeShippingThreshold: 4000},
		BaseURL:  "http://localhost:8080",
	}

	return &testEnv{
		T:        t,
		E:        echo.New(),
		DB:       db,
		Repo:     store,
		Gateway:  gateway,
		Notifier: notifier,
		Cart:     &CartHandler{Svc: &service.CartService{Repo: store}},
		Checkout: &CheckoutHandler{Svc: checkoutSvc},
		Webhook:  &WebhookHandler{Svc: checkoutSvc, Gateway: gateway},
		Admin:    &AdminHandler{Repo: store, Notifier: notifier},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func cartCookie(token string) *http.Cookie {
	return &http.Cookie{Name: sessionCookieName, Value: token, Path: "/"}
}
