package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/require"
)

// newTestRDAP serves the given statuses in order, repeating the last one.
func newTestRDAP(t *testing.T, statuses ...int) (*RDAPChecker, *atomic.Int32, *atomic.Value) {
	t.Helper()
	var calls atomic.Int32
	var lastPath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		lastPath.Store(r.URL.Path)
		w.WriteHeader(statuses[min(n, len(statuses)-1)])
	}))
	t.Cleanup(srv.Close)

	c := NewRDAPChecker(RDAPConfig{BaseURL: srv.URL + "/domain", Client: srv.Client()})
	c.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return c, &calls, &lastPath
}

func TestRDAPChecker_Available(t *testing.T) {
	c, calls, path := newTestRDAP(t, http.StatusNotFound)

	status, err := c.Check(context.Background(), "Brand Name")
	require.NoError(t, err)
	require.Equal(t, "/domain/brand-name.com", path.Load())
	require.Equal(t, int32(1), calls.Load())

	require.Equal(t, "brand-name.com", status.Domain)
	require.NotNil(t, status.Available)
	require.True(t, *status.Available)
	require.Equal(t, http.StatusNotFound, *status.StatusCode)
	require.True(t, status.Authoritative)
	require.Equal(t, models.DomainSourceRDAPVerisign, status.Source)
}

func TestRDAPChecker_Registered(t *testing.T) {
	c, _, _ := newTestRDAP(t, http.StatusOK)

	status, err := c.Check(context.Background(), "google")
	require.NoError(t, err)
	require.NotNil(t, status.Available)
	require.False(t, *status.Available)
}

func TestRDAPChecker_RetriesOnce(t *testing.T) {
	t.Run("recovers after one transient status", func(t *testing.T) {
		c, calls, _ := newTestRDAP(t, http.StatusServiceUnavailable, http.StatusNotFound)

		status, err := c.Check(context.Background(), "BrandName")
		require.NoError(t, err)
		require.True(t, *status.Available)
		require.Equal(t, int32(2), calls.Load())
	})

	t.Run("gives up after the retry", func(t *testing.T) {
		c, calls, _ := newTestRDAP(t, http.StatusTooManyRequests)

		_, err := c.Check(context.Background(), "BrandName")
		require.ErrorIs(t, err, ErrTransient)
		require.Equal(t, int32(2), calls.Load())

		var se *StatusError
		require.ErrorAs(t, err, &se)
		require.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	})

	t.Run("other statuses are not retried", func(t *testing.T) {
		c, calls, _ := newTestRDAP(t, http.StatusBadRequest)

		status, err := c.Check(context.Background(), "BrandName")
		require.NoError(t, err)
		require.Nil(t, status.Available)
		require.Equal(t, "unexpected status", status.Note)
		require.Equal(t, int32(1), calls.Load())
	})
}

func TestRDAPChecker_InvalidLabel(t *testing.T) {
	c, calls, _ := newTestRDAP(t, http.StatusNotFound)

	_, err := c.Check(context.Background(), "!!!")
	require.ErrorIs(t, err, ErrInvalidLabel)
	require.Zero(t, calls.Load())
}

func TestRDAPChecker_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewRDAPChecker(RDAPConfig{BaseURL: srv.URL})
	c.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }

	_, err := c.Check(context.Background(), "BrandName")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrTransient)
}
