package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/linecard/samlstack/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/smithy-go"
)

// PutIntegration reuses any integration already pointing at lambdaArn, so one function never has two.
func (s Service) PutIntegration(ctx context.Context, apiId, lambdaArn, payloadFormatVersion string) (*apigatewayv2.GetIntegrationOutput, error) {
	integrations, err := s.GetIntegrations(ctx, apiId)
	if err != nil {
		return nil, err
	}

	for _, integration := range integrations {
		if aws.ToString(integration.IntegrationUri) == lambdaArn {
			updated, err := s.Client.Gw.UpdateIntegration(ctx, &apigatewayv2.UpdateIntegrationInput{
				ApiId:                aws.String(apiId),
				IntegrationId:        integration.IntegrationId,
				IntegrationUri:       aws.String(lambdaArn),
				PayloadFormatVersion: aws.String(payloadFormatVersion),
			})

			if err != nil {
				return nil, err
			}

			return s.Client.Gw.GetIntegration(ctx, &apigatewayv2.GetIntegrationInput{
				ApiId:         aws.String(apiId),
				IntegrationId: updated.IntegrationId,
			})
		}
	}

	created, err := s.Client.Gw.CreateIntegration(ctx, &apigatewayv2.CreateIntegrationInput{
		ApiId:                aws.String(apiId),
		IntegrationType:      types.IntegrationTypeAwsProxy,
		IntegrationUri:       aws.String(lambdaArn),
		PayloadFormatVersion: aws.String(payloadFormatVersion),
	})

	if err != nil {
		return nil, err
	}

	return s.Client.Gw.GetIntegration(ctx, &apigatewayv2.GetIntegrationInput{
		ApiId:         aws.String(apiId),
		IntegrationId: created.IntegrationId,
	})
}

func (s Service) PutRoute(ctx context.Context, apiId, integrationId, routeKey string) (*apigatewayv2.GetRouteOutput, error) {
	route, err := s.GetRouteByRouteKey(ctx, apiId, routeKey)
	if err != nil {
		return nil, err
	}

	if route.RouteId != nil {
		updated, err := s.Client.Gw.UpdateRoute(ctx, &apigatewayv2.UpdateRouteInput{
			ApiId:             aws.String(apiId),
			RouteId:           route.RouteId,
			RouteKey:          aws.String(routeKey),
			Target:            aws.String(fmt.Sprintf("integrations/%s", integrationId)),
			AuthorizationType: types.AuthorizationTypeNone,
		})

		if err != nil {
			return nil, err
		}

		return s.Client.Gw.GetRoute(ctx, &apigatewayv2.GetRouteInput{
			ApiId:   aws.String(apiId),
			RouteId: updated.RouteId,
		})
	}

	created, err := s.Client.Gw.CreateRoute(ctx, &apigatewayv2.CreateRouteInput{
		ApiId:             aws.String(apiId),
		RouteKey:          aws.String(routeKey),
		Target:            aws.String(fmt.Sprintf("integrations/%s", integrationId)),
		AuthorizationType: types.AuthorizationTypeNone,
	})

	if err != nil {
		return nil, err
	}

	return s.Client.Gw.GetRoute(ctx, &apigatewayv2.GetRouteInput{
		ApiId:   aws.String(apiId),
		RouteId: created.RouteId,
	})
}

// PutLambdaPermission lets any stage and route of the api invoke the function.
func (s Service) PutLambdaPermission(ctx context.Context, apiId, lambdaArn, statementId string) error {
	var apiErr smithy.APIError

	region, accountId, err := util.ArnParts(lambdaArn)
	if err != nil {
		return err
	}

	_, err = s.Client.Lambda.AddPermission(ctx, &lambda.AddPermissionInput{
		Action:       aws.String("lambda:InvokeFunction"),
		FunctionName: aws.String(lambdaArn),
		Principal:    aws.String("apigateway.amazonaws.com"),
		SourceArn:    aws.String("arn:aws:execute-api:" + region + ":" + accountId + ":" + apiId + "/*/*"),
		StatementId:  aws.String(statementId),
	})

	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceConflictException" {
		return nil
	}

	return err
}

func (s Service) DeleteLambdaPermission(ctx context.Context, lambdaArn, statementId string) error {
	var apiErr smithy.APIError

	_, err := s.Client.Lambda.RemovePermission(ctx, &lambda.RemovePermissionInput{
		FunctionName: aws.String(lambdaArn),
		StatementId:  aws.String(statementId),
	})

	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException" {
		return nil
	}

	return err
}

func (s Service) DeleteRoute(ctx context.Context, apiId string, route types.Route) error {
	var apiErr smithy.APIError

	_, err := s.Client.Gw.DeleteRoute(ctx, &apigatewayv2.DeleteRouteInput{
		ApiId:   aws.String(apiId),
		RouteId: route.RouteId,
	})

	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFoundException" {
		return fmt.Errorf("route %s not found under api %s", aws.ToString(route.RouteKey), apiId)
	}

	return err
}

func (s Service) GetIntegrations(ctx context.Context, apiId string) ([]types.Integration, error) {
	var integrations []types.Integration
	var nextToken *string

	for {
		page, err := s.Client.Gw.GetIntegrations(ctx, &apigatewayv2.GetIntegrationsInput{
			ApiId:     aws.String(apiId),
			NextToken: nextToken,
		})

		if err != nil {
			return nil, err
		}

		integrations = append(integrations, page.Items...)

		if page.NextToken == nil {
			break
		}

		nextToken = page.NextToken
	}

	return integrations, nil
}

func (s Service) GetRoutes(ctx context.Context, apiId string) ([]types.Route, error) {
	var routes []types.Route
	var nextToken *string

	for {
		page, err := s.Client.Gw.GetRoutes(ctx, &apigatewayv2.GetRoutesInput{
			ApiId:     aws.String(apiId),
			NextToken: nextToken,
		})

		if err != nil {
			return nil, err
		}

		routes = append(routes, page.Items...)

		if page.NextToken == nil {
			break
		}

		nextToken = page.NextToken
	}

	return routes, nil
}

// GetRouteByRouteKey returns a zero route when nothing matches.
func (s Service) GetRouteByRouteKey(ctx context.Context, apiId, routeKey string) (types.Route, error) {
	var matches []types.Route

	routes, err := s.GetRoutes(ctx, apiId)
	if err != nil {
		return types.Route{}, err
	}

	for _, route := range routes {
		if aws.ToString(route.RouteKey) == routeKey {
			matches = append(matches, route)
		}
	}

	if len(matches) == 0 {
		return types.Route{}, nil
	}

	if len(matches) > 1 {
		return types.Route{}, fmt.Errorf("multiple routes found under api %s with route key %s", apiId, routeKey)
	}

	return matches[0], nil
}
