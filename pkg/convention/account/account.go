package account

import (
	"context"

	"github.com/linecard/samlstack/pkg/convention/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type RegistryService interface {
	Token(ctx context.Context, registryId string) (string, error)
}

type BuildService interface {
	Login(ctx context.Context, registryUrl, username, password string) error
}

type Services struct {
	Registry RegistryService
	Build    BuildService
}

type Convention struct {
	Config  config.Config
	Service Services
}

func FromServices(c config.Config, b BuildService, r RegistryService) Convention {
	return Convention{
		Config: c,
		Service: Services{
			Registry: r,
			Build:    b,
		},
	}
}

// LoginToEcr hands docker a short-lived registry password.
func (c Convention) LoginToEcr(ctx context.Context) error {
	ctx, span := otel.Tracer("").Start(ctx, "account.LoginToEcr")
	defer span.End()

	span.SetAttributes(
		attribute.String("registry-url", c.Config.Registry.Url),
		attribute.String("registry-id", c.Config.Registry.Id),
	)

	token, err := c.Service.Registry.Token(ctx, c.Config.Registry.Id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := c.Service.Build.Login(ctx, c.Config.Registry.Url, "AWS", token); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
