package runtime

import (
	"context"

	"github.com/linecard/samlstack/pkg/convention/config"
	"github.com/linecard/samlstack/pkg/convention/stack"
	"github.com/linecard/samlstack/pkg/service/docker"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type RuntimeService interface {
	Run(ctx context.Context, in docker.RunInput) error
}

type Services struct {
	Runtime RuntimeService
}

type Convention struct {
	Config  config.Config
	Service Services
}

func FromServices(c config.Config, r RuntimeService) Convention {
	return Convention{
		Config: c,
		Service: Services{
			Runtime: r,
		},
	}
}

// Run starts the compute unit's image locally with the configuration map it gets in lambda.
// The web adapter is inert outside lambda, so the app answers directly on PORT.
func (c Convention) Run(ctx context.Context, fn stack.ComputeUnitSpec, hostPort string) error {
	ctx, span := otel.Tracer("").Start(ctx, "runtime.Run")
	defer span.End()

	containerPort := fn.Environment[stack.EnvPort]
	if containerPort == "" {
		containerPort = stack.DefaultPort
	}

	if hostPort == "" {
		hostPort = containerPort
	}

	span.SetAttributes(
		attribute.String("image-uri", fn.Image.Uri()),
		attribute.String("host-port", hostPort),
	)

	log.Info().Msgf("serving %s on http://localhost:%s, readiness at %s", fn.Image.Uri(), hostPort, fn.Environment[stack.EnvReadinessCheckPath])

	err := c.Service.Runtime.Run(ctx, docker.RunInput{
		ImageUri:      fn.Image.Uri(),
		Platform:      fn.Image.Platform.String(),
		HostPort:      hostPort,
		ContainerPort: containerPort,
		Environment:   fn.Environment.Clone(),
	})

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
