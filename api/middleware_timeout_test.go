package api_test

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/linesmerrill/court-management-api/api"
)

func TestTimeoutMiddleware_FastHandlerPassesThrough(t *testing.T) {
	handler := api.TimeoutMiddleware(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest("GET", "/api/cases", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestTimeoutMiddleware_SlowHandlerTimesOut(t *testing.T) {
	handler := api.TimeoutMiddleware(10*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	req := httptest.NewRequest("GET", "/api/reports", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusRequestTimeout, rr.Code)
	assert.Contains(t, rr.Body.String(), "too long")
}

func TestTimeoutMiddleware_HandlerGoroutineExitsAfterTimeout(t *testing.T) {
	var wg sync.WaitGroup
	handler := api.TimeoutMiddleware(5*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer wg.Done()
		<-r.Context().Done()
		time.Sleep(10 * time.Millisecond)
	}))

	before := runtime.NumGoroutine()

	const requests = 25
	for i := 0; i < requests; i++ {
		wg.Add(1)
		req := httptest.NewRequest("GET", "/api/hearings", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusRequestTimeout, rr.Code)
	}

	wg.Wait()
	time.Sleep(20 * time.Millisecond)
	runtime.GC()

	// handler goroutines must not pile up once their responses time out
	after := runtime.NumGoroutine()
	assert.Less(t, after, before+requests)
}
