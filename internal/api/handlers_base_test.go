// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/carbonoffset/internal/audit"
	"github.com/tomtom215/carbonoffset/internal/auth"
	"github.com/tomtom215/carbonoffset/internal/authz"
	"github.com/tomtom215/carbonoffset/internal/catalog"
	"github.com/tomtom215/carbonoffset/internal/config"
	"github.com/tomtom215/carbonoffset/internal/content"
	"github.com/tomtom215/carbonoffset/internal/database"
	"github.com/tomtom215/carbonoffset/internal/models"
	"github.com/tomtom215/carbonoffset/internal/payment"
	"github.com/tomtom215/carbonoffset/internal/receipt"
	syncpkg "github.com/tomtom215/carbonoffset/internal/sync"
)

const (
	testJWTSecret      = "test_secret_with_at_least_32_characters_for_testing"
	testAdminPassword  = "admin-password-123"
	testEditorPassword = "editor-password-123"
)

// fakeLookup serves a fixed year -> make -> model table.
type fakeLookup struct {
	vehicles []catalog.Vehicle
	err      error
}

func (f *fakeLookup) ListYears(ctx context.Context) ([]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := map[int]bool{}
	years := []int{}
	for _, v := range f.vehicles {
		if !seen[v.Year] {
			seen[v.Year] = true
			years = append(years, v.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

func (f *fakeLookup) ListMakes(ctx context.Context, year int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := map[string]bool{}
	makes := []string{}
	for _, v := range f.vehicles {
		if v.Year == year && !seen[v.Make] {
			seen[v.Make] = true
			makes = append(makes, v.Make)
		}
	}
	sort.Strings(makes)
	return makes, nil
}

func (f *fakeLookup) ListModels(ctx context.Context, year int, vehicleMake string) ([]catalog.Vehicle, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []catalog.Vehicle{}
	for _, v := range f.vehicles {
		if v.Year == year && v.Make == vehicleMake {
			out = append(out, v)
		}
	}
	catalog.SortByModel(out)
	return out, nil
}

func testLookup() *fakeLookup {
	return &fakeLookup{vehicles: []catalog.Vehicle{
		{Year: 2024, Make: "Toyota", Model: "Corolla", MPGCombined: 35},
		{Year: 2024, Make: "Toyota", Model: "Camry", MPGCombined: 32},
		{Year: 2024, Make: "Honda", Model: "Civic", MPGCombined: 36},
		{Year: 2023, Make: "Ford", Model: "F150 Pickup 2WD", MPGCombined: 20},
	}}
}

// memoryContentStore is an in-memory content.Store.
type memoryContentStore struct {
	mu      sync.Mutex
	entries map[string]content.Entry
	err     error
}

func newMemoryContentStore() *memoryContentStore {
	return &memoryContentStore{entries: map[string]content.Entry{}}
}

func (m *memoryContentStore) All(ctx context.Context) ([]content.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]content.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memoryContentStore) Get(ctx context.Context, key string) (*content.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.entries[key]
	if !ok {
		return nil, content.ErrNotFound
	}
	return &e, nil
}

func (m *memoryContentStore) Upsert(ctx context.Context, e content.Entry) (*content.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.entries[e.Key] = e
	return &e, nil
}

// fakeCheckout records the last request and returns a canned session.
type fakeCheckout struct {
	mu      sync.Mutex
	session *payment.Session
	err     error
	last    payment.Request
	calls   int
}

func (f *fakeCheckout) CreateSession(ctx context.Context, req payment.Request) (*payment.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

// fakeSender collects sent receipts.
type fakeSender struct {
	mu   sync.Mutex
	sent []*receipt.Message
	err  error
}

func (f *fakeSender) Name() string { return "fake" }

func (f *fakeSender) Send(ctx context.Context, msg *receipt.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

// fakeSyncer returns a canned result and keeps uploaded bytes.
type fakeSyncer struct {
	mu       sync.Mutex
	result   syncpkg.Result
	err      error
	runs     int
	imported []byte
	last     *syncpkg.Result
	delay    time.Duration
}

func (f *fakeSyncer) Run(ctx context.Context) (syncpkg.Result, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return syncpkg.Result{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	if f.err != nil {
		return syncpkg.Result{}, f.err
	}
	r := f.result
	f.last = &r
	return f.result, nil
}

func (f *fakeSyncer) Import(ctx context.Context, r io.Reader) (syncpkg.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return syncpkg.Result{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imported = data
	if f.err != nil {
		return syncpkg.Result{}, f.err
	}
	return f.result, nil
}

func (f *fakeSyncer) Running() bool { return false }

func (f *fakeSyncer) LastResult() *syncpkg.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// fakeAdmin is an in-memory VehicleAdmin keyed by hex ids.
type fakeAdmin struct {
	mu       sync.Mutex
	vehicles map[string]database.StoredVehicle
	listOpts database.ListOptions
	err      error
}

func newFakeAdmin() *fakeAdmin {
	return &fakeAdmin{vehicles: map[string]database.StoredVehicle{}}
}

func (f *fakeAdmin) List(ctx context.Context, opts database.ListOptions) (*database.ListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	if opts.Sort != "" && opts.Sort != "year" && opts.Sort != "make" && opts.Sort != "model" {
		return nil, database.ErrInvalidSort
	}
	out := make([]database.StoredVehicle, 0, len(f.vehicles))
	for _, v := range f.vehicles {
		out = append(out, v)
	}
	return &database.ListResult{Vehicles: out, Total: int64(len(out)), Page: opts.Page, Limit: opts.Limit, TotalPages: 1}, nil
}

func (f *fakeAdmin) Get(ctx context.Context, id string) (*database.StoredVehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vehicles[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &v, nil
}

func (f *fakeAdmin) Create(ctx context.Context, v *catalog.Vehicle) (*database.StoredVehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.vehicles {
		if existing.Key() == v.Key() {
			return nil, database.ErrDuplicate
		}
	}
	sv := database.StoredVehicle{Vehicle: *v}
	sv.ID[11] = byte(len(f.vehicles) + 1)
	f.vehicles[sv.ID.Hex()] = sv
	return &sv, nil
}

func (f *fakeAdmin) Update(ctx context.Context, id string, v *catalog.Vehicle) (*database.StoredVehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sv, ok := f.vehicles[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	sv.Vehicle = *v
	f.vehicles[id] = sv
	return &sv, nil
}

func (f *fakeAdmin) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(id) != 24 {
		return database.ErrInvalidID
	}
	if _, ok := f.vehicles[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.vehicles, id)
	return nil
}

// fakeEvents counts vehicle change notifications.
type fakeEvents struct {
	mu      sync.Mutex
	sources []string
}

func (f *fakeEvents) NotifyVehiclesChanged(_ context.Context, source string, _ int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, source)
}

func (f *fakeEvents) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sources)
}

// testServer bundles a fully wired router with its fakes.
type testServer struct {
	handler  http.Handler
	store    *memoryContentStore
	checkout *fakeCheckout
	sender   *fakeSender
	syncer   *fakeSyncer
	admin    *fakeAdmin
	events   *fakeEvents
	audit    *audit.Logger
	jwt      *auth.JWTManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	jwtManager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: testJWTSecret, SessionTimeout: time.Hour})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	accounts, err := auth.NewCredentialStore(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewCredentialStore: %v", err)
	}
	if err := accounts.Add("admin", testAdminPassword, auth.RoleAdmin); err != nil {
		t.Fatalf("add admin: %v", err)
	}
	if err := accounts.Add("editor", testEditorPassword, auth.RoleEditor); err != nil {
		t.Fatalf("add editor: %v", err)
	}

	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	t.Cleanup(enforcer.Close)

	store := newMemoryContentStore()
	contentSvc := content.NewService(store, 0)
	t.Cleanup(contentSvc.Close)

	auditLogger := audit.NewLogger(audit.NewMemoryStore(0), audit.DefaultConfig())
	t.Cleanup(func() { _ = auditLogger.Close() })

	ts := &testServer{
		store:    store,
		checkout: &fakeCheckout{session: &payment.Session{ID: "cs_test_123", URL: "https://checkout.stripe.com/c/pay/cs_test_123"}},
		sender:   &fakeSender{},
		syncer:   &fakeSyncer{result: syncpkg.Result{Total: 2, Rows: 4, Dropped: 2}},
		admin:    newFakeAdmin(),
		events:   &fakeEvents{},
		audit:    auditLogger,
		jwt:      jwtManager,
	}

	handler := NewHandler(Dependencies{
		Vehicles: testLookup(),
		Content:  contentSvc,
		Checkout: ts.checkout,
		Receipts: receipt.NewService(ts.sender, "", 0),
		Syncer:   ts.syncer,
		Admin:    ts.admin,
		Events:   ts.events,
		Accounts: accounts,
		JWT:      jwtManager,
		Audit:    auditLogger,
		Version:  "test",
	})

	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = []string{"http://localhost:5173"}
	mwCfg.RateLimitDisabled = true

	router := NewRouter(handler, NewChiMiddleware(mwCfg), auth.NewMiddleware(jwtManager), authz.NewMiddleware(enforcer))
	ts.handler = router.SetupChi()
	return ts
}

func (ts *testServer) token(t *testing.T, username, role string) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateToken(username, role)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

// do sends a request with an optional JSON body and bearer token.
func (ts *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *models.APIError {
	t.Helper()
	var resp models.APIResponse
	decodeBody(t, rec, &resp)
	if resp.Status != models.StatusError || resp.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	return resp.Error
}
