package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model_gateway/internal/models"
	"model_gateway/internal/storage"
)

func TestCacheKey_NormalizesHeaders(t *testing.T) {
	a := CacheKey("https://api.example.com/models", map[string]string{"Authorization": "Bearer k", "X-Api-Key": "z"})
	b := CacheKey("https://api.example.com/models", map[string]string{"x-api-key": "z", "authorization": "Bearer k"})
	c := CacheKey("https://api.example.com/models", map[string]string{"authorization": "Bearer other"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "https://api.example.com/models", CacheKey("https://api.example.com/models", nil))
}

func TestClient_InFlightDedup(t *testing.T) {
	var hits atomic.Int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"gpt-5"}]}`))
	}))
	defer server.Close()

	client := NewClient(storage.NewLRUCache(10, time.Minute), nil)
	ctx := context.Background()
	req := Request{URL: server.URL + "/models", Headers: map[string]string{"Authorization": "Bearer k"}}

	var wg sync.WaitGroup
	results := make([][]byte, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = client.GetJSON(ctx, req)
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = client.GetJSON(ctx, req)
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0], results[1])
	assert.Equal(t, int32(1), hits.Load(), "concurrent identical requests must share one network call")

	// Served from the TTL cache afterwards.
	_, err := client.GetJSON(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_FailuresAreNotCached(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(storage.NewLRUCache(10, time.Minute), nil)
	ctx := context.Background()
	req := Request{URL: server.URL}

	_, err := client.GetJSON(ctx, req)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrorKindFetch))
	var typed *models.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, http.StatusBadGateway, typed.StatusCode)

	body, err := client.GetJSON(ctx, req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_HeadersSeparateCacheEntries(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"key":"` + r.Header.Get("Authorization") + `"}`))
	}))
	defer server.Close()

	client := NewClient(storage.NewLRUCache(10, time.Minute), nil)
	ctx := context.Background()

	a, err := client.GetJSON(ctx, Request{URL: server.URL, Headers: map[string]string{"Authorization": "Bearer a"}})
	require.NoError(t, err)
	b, err := client.GetJSON(ctx, Request{URL: server.URL, Headers: map[string]string{"authorization": "Bearer b"}})
	require.NoError(t, err)

	assert.NotEqual(t, string(a), string(b))
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_NoCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(storage.NewLRUCache(10, time.Minute), nil)
	for i := 0; i < 3; i++ {
		_, err := client.GetJSON(context.Background(), Request{URL: server.URL, NoCache: true})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestClient_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := NewClient(nil, nil)
	_, err := client.GetJSON(context.Background(), Request{URL: server.URL})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrorKindParse))
}

func TestClient_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.GetJSON(ctx, Request{URL: server.URL})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrorKindFetch))
}

func TestClient_SharedFetchSurvivesLeaderCancel(t *testing.T) {
	started := make(chan struct{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case started <- struct{}{}:
		default:
		}
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := NewClient(storage.NewLRUCache(10, time.Minute), nil)
	req := Request{URL: server.URL + "/models"}

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := client.GetJSON(leaderCtx, req)
		leaderErr <- err
	}()
	<-started

	followerBody := make(chan []byte, 1)
	followerErr := make(chan error, 1)
	go func() {
		body, err := client.GetJSON(context.Background(), req)
		followerBody <- body
		followerErr <- err
	}()
	time.Sleep(50 * time.Millisecond)
	cancelLeader()

	err := <-leaderErr
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrorKindFetch))

	require.NoError(t, <-followerErr)
	assert.JSONEq(t, `{"data":[]}`, string(<-followerBody))
}

type recordingCache struct {
	mu   sync.Mutex
	keys []string
}

func (c *recordingCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = append(c.keys, key)
	return nil, false
}

func (c *recordingCache) Set(_ context.Context, key string, _ []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = append(c.keys, key)
}

func TestClient_CacheKeysAreHashed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	cache := &recordingCache{}
	client := NewClient(cache, nil)
	_, err := client.GetJSON(context.Background(), Request{
		URL:     server.URL,
		Headers: map[string]string{"Authorization": "Bearer sk-secret"},
	})
	require.NoError(t, err)

	require.Len(t, cache.keys, 2)
	for _, key := range cache.keys {
		assert.Len(t, key, 64)
		assert.NotContains(t, key, "sk-secret")
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(nil, nil)
	_, err := client.GetJSON(context.Background(), Request{URL: url})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrorKindFetch))
}
