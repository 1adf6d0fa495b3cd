package probe

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/linecard/samlstack/pkg/convention/config"
	"github.com/linecard/samlstack/pkg/convention/stack"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultInterval = 500 * time.Millisecond

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Service struct {
	Http HttpClient
}

type Convention struct {
	Config   config.Config
	Service  Service
	Interval time.Duration
}

type Result struct {
	Url      string `json:"url" yaml:"url"`
	Status   int    `json:"status" yaml:"status"`
	Attempts int    `json:"attempts" yaml:"attempts"`
}

func FromServices(c config.Config, h HttpClient) Convention {
	return Convention{
		Config: c,
		Service: Service{
			Http: h,
		},
		Interval: DefaultInterval,
	}
}

// ReadinessUrl joins a public endpoint with the compute unit's readiness path.
func ReadinessUrl(endpoint string, fn stack.ComputeUnitSpec) string {
	path := fn.Environment[stack.EnvReadinessCheckPath]
	if path == "" {
		path = stack.DefaultReadinessCheckPath
	}

	return strings.TrimSuffix(endpoint, "/") + "/" + strings.TrimPrefix(path, "/")
}

// Ready polls url until it answers 2xx. Server errors and transport failures are retried
// until within elapses; any other status stops the poll.
func (c Convention) Ready(ctx context.Context, url string, within time.Duration) (Result, error) {
	ctx, span := otel.Tracer("").Start(ctx, "probe.Ready")
	defer span.End()

	span.SetAttributes(attribute.String("url", url))

	result := Result{Url: url}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.Interval
	policy.MaxElapsedTime = within

	check := func() error {
		result.Attempts++

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		res, err := c.Service.Http.Do(req)
		if err != nil {
			log.Debug().Err(err).Int("attempt", result.Attempts).Msg("probe failed")
			return err
		}
		defer res.Body.Close()

		result.Status = res.StatusCode

		switch {
		case res.StatusCode >= 200 && res.StatusCode < 300:
			return nil
		case res.StatusCode >= 500:
			log.Debug().Int("status", res.StatusCode).Int("attempt", result.Attempts).Msg("not ready")
			return fmt.Errorf("%s answered %d", url, res.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("%s answered %d", url, res.StatusCode))
		}
	}

	err := backoff.Retry(check, backoff.WithContext(policy, ctx))

	span.SetAttributes(
		attribute.Int("status", result.Status),
		attribute.Int("attempts", result.Attempts),
	)

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	return result, nil
}
