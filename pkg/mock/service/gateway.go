package mock

import (
	"context"

	"github.com/linecard/samlstack/pkg/service/gateway"

	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/stretchr/testify/mock"
)

type MockGatewayService struct {
	mock.Mock
}

func (m *MockGatewayService) FindApi(ctx context.Context, name, ownerKey, ownerValue string) (*types.Api, error) {
	args := m.Called(ctx, name, ownerKey, ownerValue)
	return args.Get(0).(*types.Api), args.Error(1)
}

func (m *MockGatewayService) PutApi(ctx context.Context, in gateway.ApiInput) (*apigatewayv2.GetApiOutput, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(*apigatewayv2.GetApiOutput), args.Error(1)
}

func (m *MockGatewayService) DeleteApi(ctx context.Context, apiId string) error {
	args := m.Called(ctx, apiId)
	return args.Error(0)
}

func (m *MockGatewayService) PutStage(ctx context.Context, apiId, name string, autoDeploy bool, tags map[string]string) (*apigatewayv2.GetStageOutput, error) {
	args := m.Called(ctx, apiId, name, autoDeploy, tags)
	return args.Get(0).(*apigatewayv2.GetStageOutput), args.Error(1)
}

func (m *MockGatewayService) PutIntegration(ctx context.Context, apiId, lambdaArn, payloadFormatVersion string) (*apigatewayv2.GetIntegrationOutput, error) {
	args := m.Called(ctx, apiId, lambdaArn, payloadFormatVersion)
	return args.Get(0).(*apigatewayv2.GetIntegrationOutput), args.Error(1)
}

func (m *MockGatewayService) PutRoute(ctx context.Context, apiId, integrationId, routeKey string) (*apigatewayv2.GetRouteOutput, error) {
	args := m.Called(ctx, apiId, integrationId, routeKey)
	return args.Get(0).(*apigatewayv2.GetRouteOutput), args.Error(1)
}

func (m *MockGatewayService) PutLambdaPermission(ctx context.Context, apiId, lambdaArn, statementId string) error {
	args := m.Called(ctx, apiId, lambdaArn, statementId)
	return args.Error(0)
}

func (m *MockGatewayService) DeleteLambdaPermission(ctx context.Context, lambdaArn, statementId string) error {
	args := m.Called(ctx, lambdaArn, statementId)
	return args.Error(0)
}

func (m *MockGatewayService) GetRoutes(ctx context.Context, apiId string) ([]types.Route, error) {
	args := m.Called(ctx, apiId)
	return args.Get(0).([]types.Route), args.Error(1)
}

func (m *MockGatewayService) GetIntegrations(ctx context.Context, apiId string) ([]types.Integration, error) {
	args := m.Called(ctx, apiId)
	return args.Get(0).([]types.Integration), args.Error(1)
}

func (m *MockGatewayService) StageExists(ctx context.Context, apiId, name string) (bool, error) {
	args := m.Called(ctx, apiId, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockGatewayService) DeleteRoute(ctx context.Context, apiId string, route types.Route) error {
	args := m.Called(ctx, apiId, route)
	return args.Error(0)
}
