package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	stackmock "github.com/linecard/samlstack/pkg/mock/stack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadinessUrl(t *testing.T) {
	g := stackmock.Graph(stackmock.Config(nil))

	assert.Equal(t,
		"https://abc123.execute-api.us-west-2.amazonaws.com/opensaml5-webprofile-demo/actuator/health",
		ReadinessUrl("https://abc123.execute-api.us-west-2.amazonaws.com", g.Function))

	assert.Equal(t,
		"https://xyz.lambda-url.us-west-2.on.aws/opensaml5-webprofile-demo/actuator/health",
		ReadinessUrl("https://xyz.lambda-url.us-west-2.on.aws/", g.Function))
}

func TestReady(t *testing.T) {
	ctx := context.Background()
	cfg := stackmock.Config(nil)

	tests := []struct {
		name    string
		answers []int
		check   func(t *testing.T, result Result, err error, calls int32)
	}{
		{
			name:    "healthy at once",
			answers: []int{http.StatusOK},
			check: func(t *testing.T, result Result, err error, calls int32) {
				require.NoError(t, err)
				assert.Equal(t, 1, result.Attempts)
				assert.Equal(t, http.StatusOK, result.Status)
			},
		},
		{
			name:    "cold start then healthy",
			answers: []int{http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusOK},
			check: func(t *testing.T, result Result, err error, calls int32) {
				require.NoError(t, err)
				assert.Equal(t, 3, result.Attempts)
				assert.Equal(t, int32(3), calls)
			},
		},
		{
			name:    "not found is not retried",
			answers: []int{http.StatusNotFound, http.StatusOK},
			check: func(t *testing.T, result Result, err error, calls int32) {
				assert.ErrorContains(t, err, "404")
				assert.Equal(t, int32(1), calls)
			},
		},
		{
			name:    "gives up after the deadline",
			answers: []int{http.StatusInternalServerError},
			check: func(t *testing.T, result Result, err error, calls int32) {
				assert.Error(t, err)
				assert.Equal(t, http.StatusInternalServerError, result.Status)
				assert.GreaterOrEqual(t, calls, int32(1))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1)
				i := int(n) - 1
				if i >= len(tc.answers) {
					i = len(tc.answers) - 1
				}
				w.WriteHeader(tc.answers[i])
			}))
			defer server.Close()

			probe := FromServices(cfg, server.Client())
			probe.Interval = 5 * time.Millisecond

			result, err := probe.Ready(ctx, server.URL+"/health", 200*time.Millisecond)
			tc.check(t, result, err, atomic.LoadInt32(&calls))
		})
	}
}
