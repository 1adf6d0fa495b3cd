package httproxy

import (
	"context"
	"fmt"

	"github.com/linecard/samlstack/pkg/convention/config"
	"github.com/linecard/samlstack/pkg/convention/stack"
	"github.com/linecard/samlstack/pkg/service/gateway"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type GatewayService interface {
	FindApi(ctx context.Context, name, ownerKey, ownerValue string) (*types.Api, error)
	PutApi(ctx context.Context, in gateway.ApiInput) (*apigatewayv2.GetApiOutput, error)
	DeleteApi(ctx context.Context, apiId string) error
	PutStage(ctx context.Context, apiId, name string, autoDeploy bool, tags map[string]string) (*apigatewayv2.GetStageOutput, error)
	PutIntegration(ctx context.Context, apiId, lambdaArn, payloadFormatVersion string) (*apigatewayv2.GetIntegrationOutput, error)
	PutRoute(ctx context.Context, apiId, integrationId, routeKey string) (*apigatewayv2.GetRouteOutput, error)
	PutLambdaPermission(ctx context.Context, apiId, lambdaArn, statementId string) error
	DeleteLambdaPermission(ctx context.Context, lambdaArn, statementId string) error
	GetRoutes(ctx context.Context, apiId string) ([]types.Route, error)
	GetIntegrations(ctx context.Context, apiId string) ([]types.Integration, error)
	StageExists(ctx context.Context, apiId, name string) (bool, error)
	DeleteRoute(ctx context.Context, apiId string, route types.Route) error
}

type Api struct {
	Id       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

type Services struct {
	Gateway GatewayService
}

// Convention materializes the routing layer: api, stage, integrations, routes and invoke grants.
type Convention struct {
	Config  config.Config
	Service Services
}

func FromServices(c config.Config, g GatewayService) Convention {
	return Convention{
		Config: c,
		Service: Services{
			Gateway: g,
		},
	}
}

func (c Convention) PutApi(ctx context.Context, spec stack.RoutingLayerSpec) (Api, error) {
	ctx, span := otel.Tracer("").Start(ctx, "httproxy.PutApi")
	defer span.End()

	out, err := c.Service.Gateway.PutApi(ctx, gateway.ApiInput{
		Name:        spec.Name,
		Description: spec.Description,
		Cors: types.Cors{
			AllowOrigins: spec.Cors.AllowOrigins,
			AllowMethods: spec.Cors.AllowMethods,
			AllowHeaders: spec.Cors.AllowHeaders,
		},
		Tags:     c.Config.Tags(spec.LogicalId),
		OwnerKey: c.Config.Label.Stack,
	})

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Api{}, err
	}

	api := Api{
		Id:       aws.ToString(out.ApiId),
		Name:     aws.ToString(out.Name),
		Endpoint: aws.ToString(out.ApiEndpoint),
	}

	span.SetAttributes(attribute.String("api-id", api.Id))

	return api, nil
}

func (c Convention) PutStage(ctx context.Context, apiId string, stage stack.Stage) (string, error) {
	ctx, span := otel.Tracer("").Start(ctx, "httproxy.PutStage")
	defer span.End()

	out, err := c.Service.Gateway.PutStage(ctx, apiId, stage.Name, stage.AutoDeploy, c.Config.Tags(stage.LogicalId))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return aws.ToString(out.StageName), nil
}

// PutIntegration returns the integration id proxying to functionArn.
func (c Convention) PutIntegration(ctx context.Context, apiId string, binding stack.IntegrationBinding, functionArn string) (string, error) {
	ctx, span := otel.Tracer("").Start(ctx, "httproxy.PutIntegration")
	defer span.End()

	span.SetAttributes(attribute.String("function-arn", functionArn))

	out, err := c.Service.Gateway.PutIntegration(ctx, apiId, functionArn, binding.PayloadFormatVersion)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return aws.ToString(out.IntegrationId), nil
}

// PutRoute returns one route id per route key of the binding.
func (c Convention) PutRoute(ctx context.Context, apiId string, route stack.RouteBinding, integrationId string) ([]string, error) {
	ctx, span := otel.Tracer("").Start(ctx, "httproxy.PutRoute")
	defer span.End()

	var routeIds []string
	for _, routeKey := range route.RouteKeys() {
		out, err := c.Service.Gateway.PutRoute(ctx, apiId, integrationId, routeKey)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		routeIds = append(routeIds, aws.ToString(out.RouteId))
	}

	return routeIds, nil
}

// PutPermission lets the api invoke the function behind binding. The statement id is the permission's logical id.
func (c Convention) PutPermission(ctx context.Context, apiId string, binding stack.IntegrationBinding, functionArn string) (string, error) {
	ctx, span := otel.Tracer("").Start(ctx, "httproxy.PutPermission")
	defer span.End()

	statementId := binding.PermissionId()

	if err := c.Service.Gateway.PutLambdaPermission(ctx, apiId, functionArn, statementId); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return statementId, nil
}

// Prune deletes routes on the api that the spec does not declare.
func (c Convention) Prune(ctx context.Context, apiId string, spec stack.RoutingLayerSpec) ([]string, error) {
	ctx, span := otel.Tracer("").Start(ctx, "httproxy.Prune")
	defer span.End()

	declared := map[string]bool{}
	for _, route := range spec.Routes {
		for _, routeKey := range route.RouteKeys() {
			declared[routeKey] = true
		}
	}

	routes, err := c.Service.Gateway.GetRoutes(ctx, apiId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var pruned []string
	for _, route := range routes {
		routeKey := aws.ToString(route.RouteKey)
		if declared[routeKey] {
			continue
		}

		log.Info().Msgf("removing undeclared route %s from api %s", routeKey, apiId)

		if err := c.Service.Gateway.DeleteRoute(ctx, apiId, route); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return pruned, err
		}

		pruned = append(pruned, routeKey)
	}

	return pruned, nil
}

// Find reports ok == false when no api owned by this stack exists.
func (c Convention) Find(ctx context.Context, spec stack.RoutingLayerSpec) (Api, bool, error) {
	ctx, span := otel.Tracer("").Start(ctx, "httproxy.Find")
	defer span.End()

	found, err := c.Service.Gateway.FindApi(ctx, spec.Name, c.Config.Label.Stack, c.Config.Params.StackName)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Api{}, false, err
	}

	if found == nil {
		return Api{}, false, nil
	}

	return Api{
		Id:       aws.ToString(found.ApiId),
		Name:     aws.ToString(found.Name),
		Endpoint: aws.ToString(found.ApiEndpoint),
	}, true, nil
}

// Observed is which parts of the routing layer already exist under an api, by logical id.
type Observed struct {
	Stage        bool
	Integrations map[string]bool
	Routes       map[string]bool
}

// Observe reads the routing layer back without changing it. An integration counts only when
// it already proxies to functionArn; a route counts only when all of its route keys exist.
func (c Convention) Observe(ctx context.Context, apiId string, spec stack.RoutingLayerSpec, functionArn string) (Observed, error) {
	ctx, span := otel.Tracer("").Start(ctx, "httproxy.Observe")
	defer span.End()

	span.SetAttributes(attribute.String("api-id", apiId))

	observed := Observed{
		Integrations: map[string]bool{},
		Routes:       map[string]bool{},
	}

	stage, err := c.Service.Gateway.StageExists(ctx, apiId, spec.Stage.Name)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return observed, err
	}
	observed.Stage = stage

	integrations, err := c.Service.Gateway.GetIntegrations(ctx, apiId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return observed, err
	}

	for _, binding := range spec.Integrations {
		for _, integration := range integrations {
			if functionArn != "" && aws.ToString(integration.IntegrationUri) == functionArn {
				observed.Integrations[binding.LogicalId] = true
			}
		}
	}

	routes, err := c.Service.Gateway.GetRoutes(ctx, apiId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return observed, err
	}

	live := map[string]bool{}
	for _, route := range routes {
		live[aws.ToString(route.RouteKey)] = true
	}

	for _, route := range spec.Routes {
		present := true
		for _, routeKey := range route.RouteKeys() {
			present = present && live[routeKey]
		}
		observed.Routes[route.LogicalId] = present
	}

	return observed, nil
}

// Destroy revokes invoke grants held by the api and deletes it. A missing api is not an error.
func (c Convention) Destroy(ctx context.Context, spec stack.RoutingLayerSpec, functionArn string) error {
	ctx, span := otel.Tracer("").Start(ctx, "httproxy.Destroy")
	defer span.End()

	if functionArn != "" {
		for _, binding := range spec.Integrations {
			if err := c.Service.Gateway.DeleteLambdaPermission(ctx, functionArn, binding.PermissionId()); err != nil {
				span.SetStatus(codes.Error, err.Error())
				return fmt.Errorf("revoke %s: %w", binding.PermissionId(), err)
			}
		}
	}

	api, ok, err := c.Find(ctx, spec)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if !ok {
		log.Info().Msgf("api %s already absent", spec.Name)
		return nil
	}

	if err := c.Service.Gateway.DeleteApi(ctx, api.Id); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
