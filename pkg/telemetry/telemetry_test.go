package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func Test_NewMeterProvider_ExposesInstruments(t *testing.T) {
	// given
	metrics, err := NewMeterProvider("storefront-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = metrics.Provider.Shutdown(context.Background()) })
	counter, err := otel.Meter("test").Int64Counter("orders_placed")
	require.NoError(t, err)

	// when
	counter.Add(context.Background(), 3)
	rr := httptest.NewRecorder()
	metrics.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// then
	body, _ := io.ReadAll(rr.Body)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(body), "orders_placed_total")
	assert.Contains(t, string(body), "go_goroutines")
}
