package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/linecard/samlstack/internal/util"
	"github.com/linecard/samlstack/pkg/convention/config"
	"github.com/linecard/samlstack/pkg/convention/stack"
	"github.com/linecard/samlstack/pkg/sdk"
	"github.com/rs/zerolog/log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var cfg config.Config
var api sdk.API

// Listen for events from the AWS Lambda runtime.
func Listen(tp *sdktrace.TracerProvider) {
	instrumented := otellambda.InstrumentHandler(Handler,
		otellambda.WithTracerProvider(tp),
		otellambda.WithFlusher(tp),
	)

	lambda.Start(instrumented)
}

// Handler re-applies the stack when an image lands in its assets repository.
func Handler(ctx context.Context, event events.ECRImageActionEvent) error {
	BeforeEach(ctx, event)

	ctx, span := otel.Tracer("").Start(ctx, "handler")
	defer span.End()

	span.SetAttributes(
		attribute.String("samlstack.repository", event.Detail.RepositoryName),
		attribute.String("samlstack.action", event.Detail.ActionType),
		attribute.String("samlstack.tag", event.Detail.ImageTag),
		attribute.String("samlstack.digest", event.Detail.ImageDigest),
	)

	if !cfg.OwnsRepository(event.Detail.RepositoryName) {
		log.Warn().
			Str("repository", event.Detail.RepositoryName).
			Str("stack", cfg.Params.StackName).
			Msg("skipping, repository belongs to another stack")
		return nil
	}

	if event.Detail.Result != "" && event.Detail.Result != "SUCCESS" {
		log.Warn().Str("result", event.Detail.Result).Msg("skipping unsuccessful image action")
		return nil
	}

	deployed, ok, err := api.Deployment.Find(ctx, cfg.ResourceName(stack.FunctionId))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to find deployment: %v", err)
	}

	switch event.Detail.ActionType {
	case "PUSH":
		if !util.DigestLike(event.Detail.ImageDigest) {
			err := fmt.Errorf("push event carries malformed digest %q", event.Detail.ImageDigest)
			span.SetStatus(codes.Error, err.Error())
			return err
		}

		if !ok {
			log.Info().Str("stack", cfg.Params.StackName).Msg("stack is not deployed, nothing to redeploy")
			return nil
		}

		published, err := api.Release.Inspect(ctx, event.Detail.ImageTag, event.Detail.ImageDigest)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to inspect image: %v", err)
		}

		if AppliedByCli(published) {
			log.Info().
				Str("tag", event.Detail.ImageTag).
				Str("digest", event.Detail.ImageDigest).
				Msg("skipping, image was built and applied by the cli")
			return nil
		}

		_, hasUrl, err := api.Deployment.FindPublicEndpoint(ctx, deployed.Name)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to find function url: %v", err)
		}

		params := Inherit(cfg.Params, deployed, hasUrl)

		log.Info().
			Str("stack", params.StackName).
			Str("tag", event.Detail.ImageTag).
			Str("digest", event.Detail.ImageDigest).
			Str("revision", published.Revision).
			Msg("redeploying")

		g, err := stack.Build(ctx, params, stack.FixedResolver{Reference: published.Reference})
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to build resource graph: %v", err)
		}

		result, err := api.Provision.Apply(ctx, g)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to apply resource graph: %v", err)
		}

		notifier := api.Bus
		notifier.Config.Git.Sha = published.Revision

		if err := notifier.Notify(ctx, g, result.Outputs); err != nil {
			log.Warn().Err(err).Msg("failed to notify bus")
		}

	case "DELETE":
		if ok && strings.HasSuffix(deployed.ImageUri, "@"+event.Detail.ImageDigest) {
			log.Warn().
				Str("function", deployed.Name).
				Str("digest", event.Detail.ImageDigest).
				Msg("the deployed image was deleted from the repository")
		}

	default:
		err := fmt.Errorf("action type %s not supported", event.Detail.ActionType)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
