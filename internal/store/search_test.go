package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
)

const testDebounce = 20 * time.Millisecond

func TestSearchStore_DebouncesRapidKeystrokes(t *testing.T) {
	var (
		mu      sync.Mutex
		queries []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.Query().Get("q"))
		mu.Unlock()
		writeData(w, http.StatusOK, map[string]any{
			"products": []domain.Product{{ID: "prod-1", Title: "Wool Socks"}},
		})
	}))
	defer srv.Close()

	search := NewSearchStore(newAPIClient(t, srv), testDebounce)
	defer search.Close()

	ctx := context.Background()
	search.SetQuery(ctx, "w")
	search.SetQuery(ctx, "wo")
	search.SetQuery(ctx, "wool")

	require.Eventually(t, func() bool {
		return len(search.Results()) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, queries, 1)
	assert.Equal(t, "wool", queries[0])
	assert.False(t, search.Loading())
}

func TestSearchStore_EmptyQueryClearsWithoutNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeData(w, http.StatusOK, map[string]any{
			"products": []domain.Product{{ID: "prod-1"}},
		})
	}))
	defer srv.Close()

	search := NewSearchStore(newAPIClient(t, srv), testDebounce)
	defer search.Close()

	ctx := context.Background()
	search.SetQuery(ctx, "wool")
	require.Eventually(t, func() bool {
		return len(search.Results()) == 1
	}, time.Second, 5*time.Millisecond)

	search.SetQuery(ctx, "")

	assert.Empty(t, search.Results())
	assert.False(t, search.Loading())
	assert.Equal(t, 1, calls)
}

func TestSearchStore_StaleResponseDoesNotOverwrite(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "slow" {
			<-release
		}
		writeData(w, http.StatusOK, map[string]any{
			"products": []domain.Product{{ID: "prod-" + q, Title: q}},
		})
	}))
	defer srv.Close()

	search := NewSearchStore(newAPIClient(t, srv), testDebounce)
	defer search.Close()

	ctx := context.Background()
	search.SetQuery(ctx, "slow")
	time.Sleep(2 * testDebounce)

	search.SetQuery(ctx, "fast")
	require.Eventually(t, func() bool {
		res := search.Results()
		return len(res) == 1 && res[0].ID == "prod-fast"
	}, time.Second, 5*time.Millisecond)

	close(release)
	time.Sleep(2 * testDebounce)

	res := search.Results()
	require.Len(t, res, 1)
	assert.Equal(t, "prod-fast", res[0].ID)
}

func TestSearchStore_ErrorSurfacedAndClearedOnNextSuccess(t *testing.T) {
	fail := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "commerce platform unreachable")
			return
		}
		writeData(w, http.StatusOK, map[string]any{
			"products": []domain.Product{{ID: "prod-1"}},
		})
	}))
	defer srv.Close()

	search := NewSearchStore(newAPIClient(t, srv), testDebounce)
	defer search.Close()

	ctx := context.Background()
	search.SetQuery(ctx, "wool")
	require.Eventually(t, func() bool {
		return search.Err() != nil
	}, time.Second, 5*time.Millisecond)

	fail = false
	search.SetQuery(ctx, "wool socks")
	require.Eventually(t, func() bool {
		return len(search.Results()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.NoError(t, search.Err())
}

func TestSearchStore_CloseCancelsPendingRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeData(w, http.StatusOK, map[string]any{"products": []domain.Product{}})
	}))
	defer srv.Close()

	search := NewSearchStore(newAPIClient(t, srv), testDebounce)

	search.SetQuery(context.Background(), "wool")
	search.Close()

	time.Sleep(3 * testDebounce)
	assert.Zero(t, calls)
}
