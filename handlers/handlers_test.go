package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sumeet-singh-parmar/aws-commander/app"
	"github.com/sumeet-singh-parmar/aws-commander/config"
	"github.com/sumeet-singh-parmar/aws-commander/middleware"
	"github.com/sumeet-singh-parmar/aws-commander/models"
	"github.com/sumeet-singh-parmar/aws-commander/repositories"
	"github.com/sumeet-singh-parmar/aws-commander/services/action"
	"github.com/sumeet-singh-parmar/aws-commander/services/consent"
	"github.com/sumeet-singh-parmar/aws-commander/services/credential"
	"github.com/sumeet-singh-parmar/aws-commander/services/notify"
	"github.com/sumeet-singh-parmar/aws-commander/services/preference"
	"github.com/sumeet-singh-parmar/aws-commander/services/providers"
	"go.uber.org/zap"
)

// In-memory fixtures exercising handlers over the real service stack.

type memStore struct {
	mu     sync.Mutex
	creds  map[string]*models.Credential
	grants map[string]*models.ConsentGrant
	prefs  map[string]*models.NotificationPreference
	legacy map[string]*models.LegacyPreference
}

func newMemStore() *memStore {
	return &memStore{
		creds:  make(map[string]*models.Credential),
		grants: make(map[string]*models.ConsentGrant),
		prefs:  make(map[string]*models.NotificationPreference),
		legacy: make(map[string]*models.LegacyPreference),
	}
}

type memCredRepo struct{ s *memStore }

func (r memCredRepo) GetByUserID(ctx context.Context, userID string) (*models.Credential, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.creds[userID]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (r memCredRepo) Save(ctx context.Context, cred *models.Credential) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	copied := *cred
	r.s.creds[cred.UserID] = &copied
	return nil
}

func (r memCredRepo) Delete(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.creds, userID)
	return nil
}

func (r memCredRepo) WithTx(tx repositories.Transaction) repositories.CredentialRepository {
	return r
}

type memConsentRepo struct{ s *memStore }

func grantKey(userID string, categoryID models.CategoryID) string {
	return userID + "|" + string(categoryID)
}

func (r memConsentRepo) Get(ctx context.Context, userID string, categoryID models.CategoryID) (*models.ConsentGrant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if g, ok := r.s.grants[grantKey(userID, categoryID)]; ok {
		copied := *g
		return &copied, nil
	}
	return nil, nil
}

func (r memConsentRepo) ListByUserID(ctx context.Context, userID string) ([]*models.ConsentGrant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.ConsentGrant
	for _, g := range r.s.grants {
		if g.UserID == userID {
			copied := *g
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r memConsentRepo) Upsert(ctx context.Context, grant *models.ConsentGrant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	copied := *grant
	r.s.grants[grantKey(grant.UserID, grant.CategoryID)] = &copied
	return nil
}

func (r memConsentRepo) Revoke(ctx context.Context, userID string, categoryID models.CategoryID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if g, ok := r.s.grants[grantKey(userID, categoryID)]; ok {
		g.Granted = false
	}
	return nil
}

func (r memConsentRepo) RevokeAll(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, g := range r.s.grants {
		if g.UserID == userID {
			g.Granted = false
		}
	}
	return nil
}

func (r memConsentRepo) WithTx(tx repositories.Transaction) repositories.ConsentRepository {
	return r
}

type memPrefRepo struct{ s *memStore }

func prefKey(userID string, t models.NotificationType) string {
	return userID + "|" + string(t)
}

func (r memPrefRepo) GetPreference(ctx context.Context, userID string, notificationType models.NotificationType) (*models.NotificationPreference, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.prefs[prefKey(userID, notificationType)]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (r memPrefRepo) ListPreferences(ctx context.Context, userID string) ([]*models.NotificationPreference, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.NotificationPreference
	for _, p := range r.s.prefs {
		if p.UserID == userID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r memPrefRepo) SavePreference(ctx context.Context, pref *models.NotificationPreference) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	copied := *pref
	r.s.prefs[prefKey(pref.UserID, pref.NotificationType)] = &copied
	return nil
}

func (r memPrefRepo) GetLegacy(ctx context.Context, userID string) (*models.LegacyPreference, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.legacy[userID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (r memPrefRepo) SaveLegacy(ctx context.Context, pref *models.LegacyPreference) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	copied := *pref
	r.s.legacy[pref.UserID] = &copied
	return nil
}

func (r memPrefRepo) WithTx(tx repositories.Transaction) repositories.PreferenceRepository {
	return r
}

// memTxManager runs the function inline; the in-memory repos have no
// transactional semantics to exercise here.
type memTxManager struct{}

func (memTxManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	return nil, nil
}

func (memTxManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	return fn(ctx, nil)
}

type stubProvider struct {
	err   error
	calls int
}

func (p *stubProvider) Name() string { return "aws" }

func (p *stubProvider) Execute(ctx context.Context, creds *models.Credential, req providers.OperationRequest) (*providers.OperationResult, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &providers.OperationResult{Action: req.Action}, nil
}

type stubNotifier struct{}

func (stubNotifier) Post(ctx context.Context, channel string, n notify.Notification) error {
	return nil
}

type testEnv struct {
	deps     *app.Dependencies
	store    *memStore
	provider *stubProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	store := newMemStore()

	credRepo := memCredRepo{s: store}
	consentRepo := memConsentRepo{s: store}
	prefRepo := memPrefRepo{s: store}

	provider := &stubProvider{}
	registry := providers.NewRegistry(logger)
	registry.Register(provider)

	router := notify.NewRouter(prefRepo, logger)
	dispatcher := notify.NewDispatcher(router, stubNotifier{}, time.Second, logger)

	credService := credential.NewService(credRepo, memTxManager{}, "us-east-1", logger)
	consentService := consent.NewService(consentRepo, logger)
	prefService := preference.NewService(prefRepo, logger)

	deps := &app.Dependencies{
		Config:            &config.Config{Environment: "test"},
		Logger:            logger,
		Credentials:       credRepo,
		Consents:          consentRepo,
		Preferences:       prefRepo,
		TxManager:         memTxManager{},
		CredentialService: credService,
		ConsentService:    consentService,
		PreferenceService: prefService,
		Router:            router,
		Dispatcher:        dispatcher,
		ActionService:     action.NewService(credService, consentService, registry, dispatcher, logger),
		ProviderRegistry:  registry,
	}

	return &testEnv{deps: deps, store: store, provider: provider}
}

// authedRequest builds a request carrying the given user identity, as the
// auth middleware would after validating a caller token.
func authedRequest(method, target, userID string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

// withURLParam attaches a routing parameter the way the router would
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
