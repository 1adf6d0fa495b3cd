package cli

import (
	"context"
	"os"

	"github.com/linecard/samlstack/cmd/cli/router"
	"github.com/linecard/samlstack/internal/gitlib"
	"github.com/linecard/samlstack/internal/umwelt"
	"github.com/linecard/samlstack/internal/util"
	"github.com/linecard/samlstack/pkg/convention/config"
	"github.com/linecard/samlstack/pkg/sdk"
	"go.opentelemetry.io/otel"

	"github.com/alexflint/go-arg"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Invoke(ctx context.Context) {
	ctx, span := otel.Tracer("").Start(ctx, "cli")
	defer span.End()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()

	var root router.Root
	arg.MustParse(&root)

	configEnv(root)

	retryLogger := util.RetryLogger{
		Log: &log.Logger,
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithLogger(&retryLogger),
		awsconfig.WithClientLogMode(aws.LogRetries))

	if err != nil {
		log.Fatal().Err(err).Msg("failed to load AWS configuration")
	}

	intent, err := config.ParseContext(root.Context)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse context")
	}

	params, err := config.ResolveParams(intent, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve parameters")
	}

	// outside a worktree images simply go unlabelled with a commit
	git, err := gitlib.FromCwd()
	if err != nil {
		log.Debug().Err(err).Msg("no git repository found")
	}

	here, err := umwelt.FromCwd(ctx, git, awsConfig, ecr.NewFromConfig(awsConfig), sts.NewFromConfig(awsConfig))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to perceive caller")
	}

	cfg := config.FromHere(here, params)

	api, err := sdk.Init(ctx, awsConfig, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize SDK")
	}

	root.Route(ctx, api)
}

// Take options given to the CLI and export them to their respective environment variables.
func configEnv(root router.Root) {
	if root.GlobalOpts.EcrId != "" {
		os.Setenv(umwelt.EnvEcrId, root.GlobalOpts.EcrId)
	}

	if root.GlobalOpts.EcrRegion != "" {
		os.Setenv(umwelt.EnvEcrRegion, root.GlobalOpts.EcrRegion)
	}

	if root.GlobalOpts.BusName != "" {
		os.Setenv(umwelt.EnvBusName, root.GlobalOpts.BusName)
	}
}
