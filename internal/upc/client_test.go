package upc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"simplyskin/platform/logger"
	"simplyskin/platform/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	url string
	key string
}

func (c testConfig) GetUPCLookupURL() string      { return c.url }
func (c testConfig) GetUPCAPIKey() string         { return c.key }
func (c testConfig) GetUPCTimeout() time.Duration { return time.Second }

func testPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func TestLookupReturnsFirstItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "012345678905", r.URL.Query().Get("upc"))
		assert.Equal(t, "secret", r.Header.Get("user_key"))
		assert.Equal(t, "3scale", r.Header.Get("key_type"))
		_, _ = w.Write([]byte(`{"code":"OK","total":1,"items":[{"title":" Hydrating Cleanser ","brand":"CeraVe","images":["","https://img/1.jpg"]}]}`))
	}))
	defer srv.Close()

	client := New(testConfig{url: srv.URL, key: "secret"}, testPolicy(), logger.Discard())
	product, err := client.Lookup(context.Background(), "012345678905")
	require.NoError(t, err)
	assert.Equal(t, &Product{Title: "Hydrating Cleanser", Brand: "CeraVe", Image: "https://img/1.jpg"}, product)
}

func TestLookupWithoutKeyOmitsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("user_key"))
		_, _ = w.Write([]byte(`{"items":[{"title":"x"}]}`))
	}))
	defer srv.Close()

	_, err := New(testConfig{url: srv.URL}, testPolicy(), logger.Discard()).Lookup(context.Background(), "12345678")
	require.NoError(t, err)
}

func TestLookupZeroItemsIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"OK","total":0,"items":[]}`))
	}))
	defer srv.Close()

	_, err := New(testConfig{url: srv.URL}, testPolicy(), logger.Discard()).Lookup(context.Background(), "12345678")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLookupRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"items":[{"title":"Serum"}]}`))
	}))
	defer srv.Close()

	product, err := New(testConfig{url: srv.URL}, testPolicy(), logger.Discard()).Lookup(context.Background(), "12345678")
	require.NoError(t, err)
	assert.Equal(t, "Serum", product.Title)
	assert.Equal(t, int32(3), calls.Load())
}

func TestLookupInvalidCodeIsNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"INVALID_UPC","message":"Not a valid UPC code."}`))
	}))
	defer srv.Close()

	_, err := New(testConfig{url: srv.URL}, testPolicy(), logger.Discard()).Lookup(context.Background(), "12345670")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, int32(1), calls.Load())
}

func TestLookupDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New(testConfig{url: srv.URL}, testPolicy(), logger.Discard()).Lookup(context.Background(), "12345678")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}
