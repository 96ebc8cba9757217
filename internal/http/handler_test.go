package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gigflow.com/gigflow/internal/exceptions"
	middleware "gigflow.com/gigflow/internal/http/middlewares"
	"gigflow.com/gigflow/internal/notifications"
	repository "gigflow.com/gigflow/internal/repositories"
	"gigflow.com/gigflow/internal/services"
	"gigflow.com/gigflow/internal/testutil"
)

type testServer struct {
	echo     *echo.Echo
	registry *notifications.Registry
	handler  *Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := zap.NewNop()
	store := repository.NewStore(testutil.NewTestDB(t))
	registry := notifications.NewRegistry(4, log)
	svcs := services.NewServices(store, publisherFunc(func(ctx context.Context, ev notifications.HireEvent) {
		_ = registry.Deliver(ctx, ev)
	}), 2*time.Second, log)

	e := echo.New()
	h := NewHandler(svcs, registry, store, log)
	Register(e, h, 1000)

	return &testServer{echo: e, registry: registry, handler: h}
}

type publisherFunc func(ctx context.Context, ev notifications.HireEvent)

func (f publisherFunc) Publish(ctx context.Context, ev notifications.HireEvent) { f(ctx, ev) }

func (s *testServer) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload string
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = string(raw)
	}

	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != "" {
		req.Header.Set(middleware.HeaderUserID, userID)
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (s *testServer) createGig(t *testing.T, ownerID string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/gigs", ownerID, map[string]any{
		"title": "Logo design", "description": "A new logo", "budget": 200,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)["gig"].(map[string]any)["id"].(string)
}

func (s *testServer) createBid(t *testing.T, gigID, workerID string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/bids", workerID, map[string]any{
		"gigId": gigID, "message": "I can do this", "price": 150,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)["bid"].(map[string]any)["id"].(string)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdentityIsRequired(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/gigs", "", map[string]any{"title": "t"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/gigs", "not-a-uuid", map[string]any{"title": "t"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Listing open gigs is public.
	rec = s.do(t, http.MethodGet, "/api/gigs", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateGigValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/gigs", uuid.NewString(), map[string]any{
		"title": "Logo", "description": "d", "budget": 0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec)["message"], "budget")
}

func TestHireFlow(t *testing.T) {
	s := newTestServer(t)
	owner, w1, w2 := uuid.NewString(), uuid.NewString(), uuid.NewString()

	gigID := s.createGig(t, owner)
	b1 := s.createBid(t, gigID, w1)
	b2 := s.createBid(t, gigID, w2)

	rec := s.do(t, http.MethodGet, "/api/bids/"+gigID, w1, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/bids/"+gigID, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decode(t, rec)["count"])

	rec = s.do(t, http.MethodPatch, "/api/bids/"+b1+"/hire", w2, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/bids/"+b1+"/hire", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "hired", body["bid"].(map[string]any)["status"])
	assert.Equal(t, "assigned", body["gig"].(map[string]any)["status"])

	rec = s.do(t, http.MethodPatch, "/api/gigs/"+gigID+"/bids/"+b2+"/hire", owner, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_state", decode(t, rec)["kind"])

	rec = s.do(t, http.MethodGet, "/api/bids/mine", w2, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	bids := decode(t, rec)["bids"].([]any)
	require.Len(t, bids, 1)
	assert.Equal(t, "rejected", bids[0].(map[string]any)["status"])

	rec = s.do(t, http.MethodGet, "/api/gigs/mine", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["count"])

	rec = s.do(t, http.MethodGet, "/api/gigs?search=logo", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode(t, rec)["count"])
}

func TestGetGig(t *testing.T) {
	s := newTestServer(t)
	owner := uuid.NewString()
	gigID := s.createGig(t, owner)

	rec := s.do(t, http.MethodGet, "/api/gigs/"+gigID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	gig := decode(t, rec)["gig"].(map[string]any)
	assert.Equal(t, gigID, gig["id"])
	assert.Equal(t, owner, gig["owner_id"])

	rec = s.do(t, http.MethodGet, "/api/gigs/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode(t, rec)["kind"])

	// The static route still wins over the id route.
	rec = s.do(t, http.MethodGet, "/api/gigs/mine", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["count"])
}

func TestErrorResponseRetryable(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name      string
		err       error
		code      int
		retryable bool
	}{
		{"timeout", exceptions.ErrTransactionTimeout.Wrap(context.DeadlineExceeded), http.StatusServiceUnavailable, true},
		{"optimistic conflict", exceptions.ErrOptimisticLock, http.StatusConflict, true},
		{"duplicate bid", exceptions.ErrDuplicateBid, http.StatusConflict, false},
		{"invalid state", exceptions.ErrGigAlreadyAssigned, http.StatusBadRequest, false},
		{"internal", errors.New("driver exploded"), http.StatusInternalServerError, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

			var httpErr *echo.HTTPError
			require.ErrorAs(t, s.handler.errorResponse(c, tc.err), &httpErr)
			assert.Equal(t, tc.code, httpErr.Code)

			body, ok := httpErr.Message.(echo.Map)
			require.True(t, ok)
			assert.Equal(t, tc.retryable, body["retryable"])
		})
	}
}

func TestSubmitBidErrors(t *testing.T) {
	s := newTestServer(t)
	owner, worker := uuid.NewString(), uuid.NewString()
	gigID := s.createGig(t, owner)

	rec := s.do(t, http.MethodPost, "/api/bids", owner, map[string]any{
		"gigId": gigID, "message": "mine", "price": 10,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	s.createBid(t, gigID, worker)
	rec = s.do(t, http.MethodPost, "/api/bids", worker, map[string]any{
		"gigId": gigID, "message": "again", "price": 10,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, false, decode(t, rec)["retryable"])

	rec = s.do(t, http.MethodPost, "/api/bids", worker, map[string]any{
		"gigId": uuid.NewString(), "message": "ghost", "price": 10,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/bids", worker, map[string]any{
		"gigId": "nope", "message": "", "price": -1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRateLimit(t *testing.T) {
	log := zap.NewNop()
	store := repository.NewStore(testutil.NewTestDB(t))
	registry := notifications.NewRegistry(1, log)
	svcs := services.NewServices(store, nil, time.Second, log)

	e := echo.New()
	Register(e, NewHandler(svcs, registry, store, log), 2)

	user := uuid.NewString()
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set(middleware.HeaderUserID, user)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// A new identity from the same address does not get a fresh window.
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(middleware.HeaderUserID, uuid.NewString())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Another address has its own window.
	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.RemoteAddr = "198.51.100.7:5000"
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNotificationStream(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.echo)
	defer srv.Close()

	owner, worker, other := uuid.NewString(), uuid.NewString(), uuid.NewString()
	gigID := s.createGig(t, owner)
	bidID := s.createBid(t, gigID, worker)
	s.createBid(t, gigID, other)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/notifications/stream", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.HeaderUserID, worker)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get(echo.HeaderContentType))

	require.Eventually(t, func() bool { return s.registry.Count(worker) == 1 }, time.Second, 5*time.Millisecond)

	rec := s.do(t, http.MethodPatch, "/api/bids/"+bidID+"/hire", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	lines := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	var eventName, data string
	timeout := time.After(2 * time.Second)
	for data == "" {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream closed early")
			if strings.HasPrefix(line, "event: ") {
				eventName = strings.TrimPrefix(line, "event: ")
			}
			if strings.HasPrefix(line, "data: ") {
				data = strings.TrimPrefix(line, "data: ")
			}
		case <-timeout:
			t.Fatal("no event received")
		}
	}

	assert.Equal(t, notifications.EventBidHired, eventName)

	var event notifications.HireEvent
	require.NoError(t, json.Unmarshal([]byte(data), &event))
	assert.Equal(t, worker, event.WorkerID)
	assert.Equal(t, bidID, event.BidID)
	assert.Equal(t, "You have been hired for Logo design!", event.Message)

	cancel()
	require.Eventually(t, func() bool { return s.registry.Count(worker) == 0 }, 2*time.Second, 10*time.Millisecond)
}
