package sdk

import (
	"context"
	"net/http"
	"time"

	// config
	"github.com/linecard/samlstack/internal/util"
	"github.com/linecard/samlstack/pkg/convention/config"

	// services
	"github.com/linecard/samlstack/pkg/service/docker"
	"github.com/linecard/samlstack/pkg/service/event"
	"github.com/linecard/samlstack/pkg/service/function"
	"github.com/linecard/samlstack/pkg/service/gateway"
	"github.com/linecard/samlstack/pkg/service/registry"

	// conventions
	"github.com/linecard/samlstack/pkg/convention/account"
	"github.com/linecard/samlstack/pkg/convention/bus"
	"github.com/linecard/samlstack/pkg/convention/deployment"
	"github.com/linecard/samlstack/pkg/convention/httproxy"
	"github.com/linecard/samlstack/pkg/convention/probe"
	"github.com/linecard/samlstack/pkg/convention/provision"
	"github.com/linecard/samlstack/pkg/convention/release"
	"github.com/linecard/samlstack/pkg/convention/runtime"

	// clients
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Clients struct {
	StsClient          *sts.Client
	EcrClient          *ecr.Client
	LambdaClient       *lambda.Client
	IamClient          *iam.Client
	EventBridgeClient  *eventbridge.Client
	ApiGatewayV2Client *apigatewayv2.Client
	HttpClient         *http.Client
}

type Services struct {
	Docker   docker.Service
	Registry registry.Service
	Function function.Service
	Event    event.Service
	Gateway  gateway.Service
	Http     *http.Client
}

type Conventions struct {
	Account    account.Convention
	Runtime    runtime.Convention
	Release    release.Convention
	Deployment deployment.Convention
	Httproxy   httproxy.Convention
	Provision  provision.Convention
	Bus        bus.Convention
	Probe      probe.Convention
}

type API struct {
	Conventions
	Config config.Config
}

func Init(ctx context.Context, awsConfig aws.Config, config config.Config) (API, error) {
	clients, err := InitClients(ctx, awsConfig)
	if err != nil {
		return API{}, err
	}

	services, err := InitServices(ctx, clients)
	if err != nil {
		return API{}, err
	}

	conventions, err := InitConventions(ctx, config, services)
	if err != nil {
		return API{}, err
	}

	return API{
		Conventions: conventions,
		Config:      config,
	}, nil
}

func InitConventions(ctx context.Context, config config.Config, services Services) (Conventions, error) {
	deployments := deployment.FromServices(config, services.Function)
	httproxies := httproxy.FromServices(config, services.Gateway)

	return Conventions{
		Account:    account.FromServices(config, services.Docker, services.Registry),
		Runtime:    runtime.FromServices(config, services.Docker),
		Release:    release.FromServices(config, services.Registry, services.Docker),
		Deployment: deployments,
		Httproxy:   httproxies,
		Provision:  provision.FromConventions(config, deployments, httproxies),
		Bus:        bus.FromServices(config, services.Event),
		Probe:      probe.FromServices(config, services.Http),
	}, nil
}

func InitServices(ctx context.Context, clients Clients) (Services, error) {
	// the deploy handler only ever pins published images, there is no docker in lambda
	dockerService, err := docker.FromPath(ctx)
	if err != nil {
		if !util.InLambda() {
			return Services{}, err
		}
		log.Debug().Msg("docker not available inside lambda")
	}

	return Services{
		Docker:   dockerService,
		Registry: registry.FromClients(clients.EcrClient),
		Function: function.FromClients(clients.LambdaClient, clients.IamClient),
		Event:    event.FromClients(clients.EventBridgeClient, clients.LambdaClient),
		Gateway:  gateway.FromClients(clients.ApiGatewayV2Client, clients.LambdaClient),
		Http:     clients.HttpClient,
	}, nil
}

func InitClients(ctx context.Context, awsConfig aws.Config) (Clients, error) {
	return Clients{
		StsClient:          sts.NewFromConfig(awsConfig),
		EcrClient:          ecr.NewFromConfig(awsConfig),
		LambdaClient:       lambda.NewFromConfig(awsConfig),
		IamClient:          iam.NewFromConfig(awsConfig),
		EventBridgeClient:  eventbridge.NewFromConfig(awsConfig),
		ApiGatewayV2Client: apigatewayv2.NewFromConfig(awsConfig),
		HttpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}, nil
}
