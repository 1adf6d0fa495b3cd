package handler

import (
	"context"

	"github.com/linecard/samlstack/internal/umwelt"
	"github.com/linecard/samlstack/pkg/convention/config"
	"github.com/linecard/samlstack/pkg/sdk"

	"github.com/aws/aws-lambda-go/events"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/rs/zerolog/log"
)

// BeforeEach rebuilds configuration per event. Parameters come from the handler's own environment.
func BeforeEach(ctx context.Context, event events.ECRImageActionEvent) {
	awsConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load AWS configuration")
	}

	here, err := umwelt.FromEvent(ctx, event, awsConfig, ecr.NewFromConfig(awsConfig), sts.NewFromConfig(awsConfig))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to perceive caller from event")
	}

	params, err := config.ResolveParams(nil, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve parameters")
	}

	cfg = config.FromHere(here, params)

	if api, err = sdk.Init(ctx, awsConfig, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize SDK")
	}
}
