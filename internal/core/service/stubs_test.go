package service

import (
	"context"
	"io"
	"time"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

// stubRepo implements ports.RegistrantRepository with per-call overrides.
type stubRepo struct {
	insertFn      func(ctx context.Context, r *domain.Registrant) (*domain.Registrant, error)
	listFn        func(ctx context.Context, membersOnly bool) ([]domain.Registrant, error)
	findPaidFn    func(ctx context.Context, email string) (*domain.Registrant, error)
	setPasswordFn func(ctx context.Context, id, hash string) error
	upsertFn      func(ctx context.Context, r *domain.Registrant) (*domain.Registrant, error)
}

func (s *stubRepo) Insert(ctx context.Context, r *domain.Registrant) (*domain.Registrant, error) {
	return s.insertFn(ctx, r)
}

func (s *stubRepo) List(ctx context.Context, membersOnly bool) ([]domain.Registrant, error) {
	return s.listFn(ctx, membersOnly)
}

func (s *stubRepo) FindPaidByEmail(ctx context.Context, email string) (*domain.Registrant, error) {
	return s.findPaidFn(ctx, email)
}

func (s *stubRepo) SetPasswordHash(ctx context.Context, id, hash string) error {
	return s.setPasswordFn(ctx, id, hash)
}

func (s *stubRepo) UpsertPaidByReference(ctx context.Context, r *domain.Registrant) (*domain.Registrant, error) {
	return s.upsertFn(ctx, r)
}

// syncRunner runs submitted tasks inline so tests observe their effects
// without goroutine coordination.
type syncRunner struct {
	names []string
}

func (r *syncRunner) Submit(name string, fn func(ctx context.Context) error) {
	r.names = append(r.names, name)
	_ = fn(context.Background())
}

type stubGateway struct {
	checkoutFn func(ctx context.Context, p ports.CheckoutSessionParams) (string, error)
	intentFn   func(ctx context.Context, p ports.PaymentIntentParams) (string, error)
	verifyFn   func(payload []byte, signature string) (*ports.PaymentEvent, error)
}

func (g *stubGateway) CreateCheckoutSession(ctx context.Context, p ports.CheckoutSessionParams) (string, error) {
	return g.checkoutFn(ctx, p)
}

func (g *stubGateway) CreatePaymentIntent(ctx context.Context, p ports.PaymentIntentParams) (string, error) {
	return g.intentFn(ctx, p)
}

func (g *stubGateway) VerifyEvent(payload []byte, signature string) (*ports.PaymentEvent, error) {
	return g.verifyFn(payload, signature)
}

type stubStore struct {
	putFn      func(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	hasArchive bool
	archiveFn  func(ctx context.Context, key, contentType string, body []byte) error
}

func (s *stubStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	return s.putFn(ctx, key, contentType, body, size)
}

func (s *stubStore) HasArchive() bool { return s.hasArchive }

func (s *stubStore) Archive(ctx context.Context, key, contentType string, body []byte) error {
	if s.archiveFn == nil {
		return nil
	}
	return s.archiveFn(ctx, key, contentType, body)
}

type stubLimiter struct {
	allowFn func(ctx context.Context, ip, endpoint string) (ports.RateLimitDecision, error)
}

func (l *stubLimiter) Allow(ctx context.Context, ip, endpoint string) (ports.RateLimitDecision, error) {
	return l.allowFn(ctx, ip, endpoint)
}

type stubCache struct {
	latestFn func(ctx context.Context) (*ports.CachedNews, error)
	storeFn  func(ctx context.Context, items []domain.NewsItem, fetchedAt time.Time) error
}

func (c *stubCache) Latest(ctx context.Context) (*ports.CachedNews, error) {
	if c.latestFn == nil {
		return nil, nil
	}
	return c.latestFn(ctx)
}

func (c *stubCache) Store(ctx context.Context, items []domain.NewsItem, fetchedAt time.Time) error {
	if c.storeFn == nil {
		return nil
	}
	return c.storeFn(ctx, items, fetchedAt)
}

type stubFetcher struct {
	fetchFn func(ctx context.Context) (string, error)
}

func (f *stubFetcher) FetchLatest(ctx context.Context) (string, error) {
	return f.fetchFn(ctx)
}
