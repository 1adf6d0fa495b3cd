package mock

import (
	"context"

	"github.com/linecard/samlstack/pkg/convention/deployment"
	"github.com/linecard/samlstack/pkg/convention/httproxy"
	"github.com/linecard/samlstack/pkg/convention/stack"

	"github.com/stretchr/testify/mock"
)

type MockDeployer struct {
	mock.Mock
}

func (m *MockDeployer) PutRole(ctx context.Context, identity stack.RuntimeIdentity) (deployment.Role, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).(deployment.Role), args.Error(1)
}

func (m *MockDeployer) Deploy(ctx context.Context, fn stack.ComputeUnitSpec, roleArn string) (deployment.Deployment, error) {
	args := m.Called(ctx, fn, roleArn)
	return args.Get(0).(deployment.Deployment), args.Error(1)
}

func (m *MockDeployer) PutPublicEndpoint(ctx context.Context, fn stack.ComputeUnitSpec) (string, error) {
	args := m.Called(ctx, fn)
	return args.String(0), args.Error(1)
}

func (m *MockDeployer) RemovePublicEndpoint(ctx context.Context, functionName string) error {
	args := m.Called(ctx, functionName)
	return args.Error(0)
}

func (m *MockDeployer) Find(ctx context.Context, name string) (deployment.Deployment, bool, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(deployment.Deployment), args.Bool(1), args.Error(2)
}

func (m *MockDeployer) FindRole(ctx context.Context, name string) (deployment.Role, bool, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(deployment.Role), args.Bool(1), args.Error(2)
}

func (m *MockDeployer) FindPublicEndpoint(ctx context.Context, functionName string) (string, bool, error) {
	args := m.Called(ctx, functionName)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockDeployer) Destroy(ctx context.Context, fn stack.ComputeUnitSpec) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

type MockRouter struct {
	mock.Mock
}

func (m *MockRouter) PutApi(ctx context.Context, spec stack.RoutingLayerSpec) (httproxy.Api, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).(httproxy.Api), args.Error(1)
}

func (m *MockRouter) PutStage(ctx context.Context, apiId string, stage stack.Stage) (string, error) {
	args := m.Called(ctx, apiId, stage)
	return args.String(0), args.Error(1)
}

func (m *MockRouter) PutIntegration(ctx context.Context, apiId string, binding stack.IntegrationBinding, functionArn string) (string, error) {
	args := m.Called(ctx, apiId, binding, functionArn)
	return args.String(0), args.Error(1)
}

func (m *MockRouter) PutRoute(ctx context.Context, apiId string, route stack.RouteBinding, integrationId string) ([]string, error) {
	args := m.Called(ctx, apiId, route, integrationId)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRouter) PutPermission(ctx context.Context, apiId string, binding stack.IntegrationBinding, functionArn string) (string, error) {
	args := m.Called(ctx, apiId, binding, functionArn)
	return args.String(0), args.Error(1)
}

func (m *MockRouter) Prune(ctx context.Context, apiId string, spec stack.RoutingLayerSpec) ([]string, error) {
	args := m.Called(ctx, apiId, spec)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRouter) Observe(ctx context.Context, apiId string, spec stack.RoutingLayerSpec, functionArn string) (httproxy.Observed, error) {
	args := m.Called(ctx, apiId, spec, functionArn)
	return args.Get(0).(httproxy.Observed), args.Error(1)
}

func (m *MockRouter) Find(ctx context.Context, spec stack.RoutingLayerSpec) (httproxy.Api, bool, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).(httproxy.Api), args.Bool(1), args.Error(2)
}

func (m *MockRouter) Destroy(ctx context.Context, spec stack.RoutingLayerSpec, functionArn string) error {
	args := m.Called(ctx, spec, functionArn)
	return args.Error(0)
}
