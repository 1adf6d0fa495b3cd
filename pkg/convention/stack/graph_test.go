package stack

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/linecard/samlstack/pkg/convention/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverFunc func(ctx context.Context, contextPath string, platform Platform) (ImageReference, error)

func (f resolverFunc) Resolve(ctx context.Context, contextPath string, platform Platform) (ImageReference, error) {
	return f(ctx, contextPath, platform)
}

func fixedImage() ImageReference {
	return ImageReference{
		Repository: "repo",
		Name:       "repo",
		Tag:        "abc123",
		Platform:   LinuxAmd64,
	}
}

func params(overrides map[string]string) config.Params {
	p, err := config.ResolveParams(overrides, func(string) (string, bool) { return "", false })
	if err != nil {
		panic(err)
	}
	return p
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	resolver := FixedResolver{Reference: fixedImage()}

	tests := []struct {
		name string
		test func(*testing.T)
	}{
		{
			name: "scenario: repo:abc123 with default parameters",
			test: func(t *testing.T) {
				g, err := Build(ctx, params(map[string]string{config.CtxBaseUrl: ""}), resolver)
				require.NoError(t, err)

				assert.Equal(t, "repo:abc123", g.Function.Image.Uri())
				assert.Equal(t, Environment{
					"PORT":                 "8080",
					"READINESS_CHECK_PATH": "/opensaml5-webprofile-demo/actuator/health",
					"ASYNC_INIT":           "true",
					"JAVA_OPTS":            "-XX:+UseContainerSupport -XX:MaxRAMPercentage=75.0",
					"BASE_URL":             "",
					"IDP_ENTITY_ID":        "TestIDP",
					"SP_ENTITY_ID":         "TestSP",
				}, g.Function.Environment)

				assert.Len(t, g.Api.Integrations, 1)
				assert.Len(t, g.Api.Routes, 2)
				for _, route := range g.Api.Routes {
					assert.Equal(t, IntegrationId, route.Integration)
				}
			},
		},
		{
			name: "compute unit carries the fixed budget and identity",
			test: func(t *testing.T) {
				g, err := Build(ctx, params(nil), resolver)
				require.NoError(t, err)

				assert.Equal(t, "SamlStack-SamlSpringBootFunction", g.Function.Name)
				assert.Equal(t, int32(1024), g.Function.MemoryMB)
				assert.Equal(t, int32(30), g.Function.TimeoutSeconds)
				assert.Equal(t, "x86_64", g.Function.Architecture)
				assert.Equal(t, "SAML Spring Boot application with Lambda Web Adapter", g.Function.Description)
				assert.Equal(t, "SamlStack-SamlSpringBootFunctionServiceRole", g.Function.Role.Name)
				assert.Contains(t, g.Function.Role.AssumeRolePolicy, "lambda.amazonaws.com")
			},
		},
		{
			name: "baseUrl changes only BASE_URL",
			test: func(t *testing.T) {
				without, err := Build(ctx, params(nil), resolver)
				require.NoError(t, err)

				with, err := Build(ctx, params(map[string]string{config.CtxBaseUrl: "https://api.example.com"}), resolver)
				require.NoError(t, err)

				assert.Equal(t, "https://api.example.com", with.Function.Environment[EnvBaseUrl])

				expected := without.Function.Environment.Clone()
				expected[EnvBaseUrl] = "https://api.example.com"
				assert.Equal(t, expected, with.Function.Environment)

				assert.Equal(t, without.Api, with.Api)
				assert.Equal(t, without.Outputs, with.Outputs)
				assert.Equal(t, without.Function.Name, with.Function.Name)
			},
		},
		{
			name: "construction is deterministic",
			test: func(t *testing.T) {
				p := params(map[string]string{config.CtxBaseUrl: "https://api.example.com"})

				first, err := Build(ctx, p, resolver)
				require.NoError(t, err)
				second, err := Build(ctx, p, resolver)
				require.NoError(t, err)

				assert.Equal(t, first, second)

				firstNodes, err := first.Nodes()
				require.NoError(t, err)
				secondNodes, err := second.Nodes()
				require.NoError(t, err)
				assert.Equal(t, firstNodes, secondNodes)
			},
		},
		{
			name: "exactly two ANY routes, proxy then root",
			test: func(t *testing.T) {
				g, err := Build(ctx, params(nil), resolver)
				require.NoError(t, err)

				require.Len(t, g.Api.Routes, 2)
				assert.Equal(t, []string{"ANY /{proxy+}"}, g.Api.Routes[0].RouteKeys())
				assert.Equal(t, []string{"ANY /"}, g.Api.Routes[1].RouteKeys())
				assert.Equal(t, "SamlHttpApiProxyRoute", g.Api.Routes[0].LogicalId)
				assert.Equal(t, "SamlHttpApiRootRoute", g.Api.Routes[1].LogicalId)
			},
		},
		{
			name: "routing layer preflight is permissive",
			test: func(t *testing.T) {
				g, err := Build(ctx, params(nil), resolver)
				require.NoError(t, err)

				assert.Equal(t, "saml-spring-boot-api", g.Api.Name)
				assert.Equal(t, "HTTP API for SAML Spring Boot application", g.Api.Description)
				assert.Equal(t, PermissiveCors(), g.Api.Cors)
				assert.Equal(t, "$default", g.Api.Stage.Name)
				assert.True(t, g.Api.Stage.AutoDeploy)
			},
		},
		{
			name: "public endpoint present: open auth, permissive cors, FunctionUrl output",
			test: func(t *testing.T) {
				g, err := Build(ctx, params(map[string]string{config.CtxFunctionUrl: "true"}), resolver)
				require.NoError(t, err)

				require.NotNil(t, g.Function.PublicEndpoint)
				assert.Equal(t, "NONE", g.Function.PublicEndpoint.AuthType)
				assert.Equal(t, []string{"*"}, g.Function.PublicEndpoint.Cors.AllowOrigins)
				assert.Equal(t, []string{"*"}, g.Function.PublicEndpoint.Cors.AllowMethods)
				assert.Equal(t, []string{"*"}, g.Function.PublicEndpoint.Cors.AllowHeaders)

				assert.Equal(t, []string{"ApiEndpoint", "LambdaFunctionName", "LambdaFunctionArn", "FunctionUrl"}, g.Outputs.Names())
			},
		},
		{
			name: "public endpoint absent: no entity, no output",
			test: func(t *testing.T) {
				g, err := Build(ctx, params(map[string]string{config.CtxFunctionUrl: "false"}), resolver)
				require.NoError(t, err)

				assert.Nil(t, g.Function.PublicEndpoint)
				assert.Equal(t, []string{"ApiEndpoint", "LambdaFunctionName", "LambdaFunctionArn"}, g.Outputs.Names())

				nodes, err := g.Nodes()
				require.NoError(t, err)
				for _, node := range nodes {
					assert.NotEqual(t, KindFunctionUrl, node.Kind)
				}
			},
		},
		{
			name: "resolution failure aborts construction",
			test: func(t *testing.T) {
				failing := resolverFunc(func(ctx context.Context, contextPath string, platform Platform) (ImageReference, error) {
					return ImageReference{}, fmt.Errorf("docker build exited 1")
				})

				g, err := Build(ctx, params(nil), failing)

				var resolution *ResolutionError
				assert.True(t, errors.As(err, &resolution))
				assert.Equal(t, "backend", resolution.Context)
				assert.Equal(t, Graph{}, g)
			},
		},
		{
			name: "resolver receives the build context and linux/amd64",
			test: func(t *testing.T) {
				var gotPath string
				var gotPlatform Platform

				spy := resolverFunc(func(ctx context.Context, contextPath string, platform Platform) (ImageReference, error) {
					gotPath, gotPlatform = contextPath, platform
					return fixedImage(), nil
				})

				_, err := Build(ctx, params(map[string]string{config.CtxBuildContext: "services/backend"}), spy)
				require.NoError(t, err)
				assert.Equal(t, "services/backend", gotPath)
				assert.Equal(t, "linux/amd64", gotPlatform.String())
			},
		},
		{
			name: "image built for another architecture is rejected",
			test: func(t *testing.T) {
				arm := fixedImage()
				arm.Platform = Platform{OS: "linux", Architecture: "arm64"}

				g, err := Build(ctx, params(nil), FixedResolver{Reference: arm})

				var configuration *ConfigurationError
				assert.True(t, errors.As(err, &configuration))
				assert.Equal(t, FunctionId, configuration.Entity)
				assert.Equal(t, Graph{}, g)
			},
		},
		{
			name: "out of range budget is rejected",
			test: func(t *testing.T) {
				_, err := Build(ctx, params(map[string]string{config.CtxTimeout: "901"}), resolver)

				var configuration *ConfigurationError
				assert.True(t, errors.As(err, &configuration))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.test)
	}
}

func TestNodes(t *testing.T) {
	ctx := context.Background()
	resolver := FixedResolver{Reference: fixedImage()}

	t.Run("with public endpoint", func(t *testing.T) {
		g, err := Build(ctx, params(nil), resolver)
		require.NoError(t, err)

		nodes, err := g.Nodes()
		require.NoError(t, err)

		var order []string
		for _, n := range nodes {
			order = append(order, n.LogicalId)
		}

		assert.Equal(t, []string{
			"SamlSpringBootImage",
			"SamlSpringBootFunctionServiceRole",
			"SamlHttpApi",
			"SamlSpringBootFunction",
			"SamlHttpApiDefaultStage",
			"SamlSpringBootFunctionUrl",
			"SamlLambdaIntegration",
			"SamlHttpApiProxyRoute",
			"SamlHttpApiRootRoute",
			"SamlLambdaIntegrationPermission",
			"ApiEndpoint",
			"LambdaFunctionName",
			"LambdaFunctionArn",
			"FunctionUrl",
		}, order)
	})

	t.Run("every dependency precedes its dependent", func(t *testing.T) {
		g, err := Build(ctx, params(map[string]string{config.CtxFunctionUrl: "false"}), resolver)
		require.NoError(t, err)

		nodes, err := g.Nodes()
		require.NoError(t, err)

		position := map[string]int{}
		for i, n := range nodes {
			position[n.LogicalId] = i
		}

		for _, n := range nodes {
			for _, dep := range n.DependsOn {
				assert.Less(t, position[dep], position[n.LogicalId], "%s before %s", dep, n.LogicalId)
			}
		}
	})
}

func TestTeardown(t *testing.T) {
	g, err := Build(context.Background(), params(nil), FixedResolver{Reference: fixedImage()})
	require.NoError(t, err)

	nodes, err := g.Teardown()
	require.NoError(t, err)

	position := map[string]int{}
	for i, n := range nodes {
		position[n.LogicalId] = i
	}

	for _, n := range nodes {
		for _, dep := range n.DependsOn {
			assert.Greater(t, position[dep], position[n.LogicalId], "%s after %s", dep, n.LogicalId)
		}
	}

	assert.Less(t, position["SamlLambdaIntegration"], position["SamlSpringBootFunction"])
	assert.Less(t, position["SamlSpringBootFunction"], position["SamlSpringBootFunctionServiceRole"])
	assert.Equal(t, "SamlSpringBootImage", nodes[len(nodes)-1].LogicalId)
}
