// Package provision materializes a stack.Graph node by node, in dependency order.
package provision

import (
	"context"
	"fmt"
	"strings"

	"github.com/linecard/samlstack/pkg/convention/config"
	"github.com/linecard/samlstack/pkg/convention/deployment"
	"github.com/linecard/samlstack/pkg/convention/httproxy"
	"github.com/linecard/samlstack/pkg/convention/stack"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Deployer interface {
	PutRole(ctx context.Context, identity stack.RuntimeIdentity) (deployment.Role, error)
	Deploy(ctx context.Context, fn stack.ComputeUnitSpec, roleArn string) (deployment.Deployment, error)
	PutPublicEndpoint(ctx context.Context, fn stack.ComputeUnitSpec) (string, error)
	RemovePublicEndpoint(ctx context.Context, functionName string) error
	Find(ctx context.Context, name string) (deployment.Deployment, bool, error)
	FindRole(ctx context.Context, name string) (deployment.Role, bool, error)
	FindPublicEndpoint(ctx context.Context, functionName string) (string, bool, error)
	Destroy(ctx context.Context, fn stack.ComputeUnitSpec) error
}

type Router interface {
	PutApi(ctx context.Context, spec stack.RoutingLayerSpec) (httproxy.Api, error)
	PutStage(ctx context.Context, apiId string, stage stack.Stage) (string, error)
	PutIntegration(ctx context.Context, apiId string, binding stack.IntegrationBinding, functionArn string) (string, error)
	PutRoute(ctx context.Context, apiId string, route stack.RouteBinding, integrationId string) ([]string, error)
	PutPermission(ctx context.Context, apiId string, binding stack.IntegrationBinding, functionArn string) (string, error)
	Prune(ctx context.Context, apiId string, spec stack.RoutingLayerSpec) ([]string, error)
	Observe(ctx context.Context, apiId string, spec stack.RoutingLayerSpec, functionArn string) (httproxy.Observed, error)
	Find(ctx context.Context, spec stack.RoutingLayerSpec) (httproxy.Api, bool, error)
	Destroy(ctx context.Context, spec stack.RoutingLayerSpec, functionArn string) error
}

// Result is a materialized graph.
type Result struct {
	Attributes stack.Attributes    `json:"attributes" yaml:"attributes"`
	Outputs    []stack.OutputValue `json:"outputs" yaml:"outputs"`
}

// Output returns the named output value, or "" when the graph does not declare it.
func (r Result) Output(name string) string {
	for _, o := range r.Outputs {
		if o.Name == name {
			return o.Value
		}
	}
	return ""
}

type Conventions struct {
	Deployment Deployer
	HttpProxy  Router
}

type Convention struct {
	Config     config.Config
	Convention Conventions
}

func FromConventions(c config.Config, d Deployer, r Router) Convention {
	return Convention{
		Config: c,
		Convention: Conventions{
			Deployment: d,
			HttpProxy:  r,
		},
	}
}

// Apply puts every node of g and resolves its outputs.
// A public endpoint left over from an earlier apply is removed when g no longer declares one.
func (c Convention) Apply(ctx context.Context, g stack.Graph) (Result, error) {
	ctx, span := otel.Tracer("").Start(ctx, "provision.Apply")
	defer span.End()

	span.SetAttributes(attribute.String("stack", g.Stack))

	nodes, err := g.Nodes()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	attrs := stack.Attributes{}

	for _, node := range nodes {
		log.Info().Msgf("materializing %s %s", node.Kind, node.LogicalId)

		if err := c.materialize(ctx, g, node, attrs); err != nil {
			err = fmt.Errorf("materialize %s: %w", node.LogicalId, err)
			span.SetStatus(codes.Error, err.Error())
			return Result{Attributes: attrs}, err
		}
	}

	fn := g.Function
	if fn.PublicEndpoint == nil {
		if err := c.Convention.Deployment.RemovePublicEndpoint(ctx, fn.Name); err != nil {
			err = fmt.Errorf("remove public endpoint of %s: %w", fn.LogicalId, err)
			span.SetStatus(codes.Error, err.Error())
			return Result{Attributes: attrs}, err
		}
	}

	apiId, _ := attrs.Get(stack.Ref{Entity: g.Api.LogicalId, Attribute: stack.AttrApiId})
	if _, err := c.Convention.HttpProxy.Prune(ctx, apiId, g.Api); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{Attributes: attrs}, err
	}

	outputs, err := g.Outputs.Resolve(attrs)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{Attributes: attrs}, err
	}

	return Result{Attributes: attrs, Outputs: outputs}, nil
}

func (c Convention) materialize(ctx context.Context, g stack.Graph, node stack.Node, attrs stack.Attributes) error {
	fn := g.Function

	switch node.Kind {
	case stack.KindImage:
		attrs.Set(node.LogicalId, stack.AttrImageUri, g.Image.Uri())

	case stack.KindRole:
		role, err := c.Convention.Deployment.PutRole(ctx, fn.Role)
		if err != nil {
			return err
		}
		attrs.Set(node.LogicalId, stack.AttrRoleArn, role.Arn)

	case stack.KindFunction:
		roleArn, err := requireAttr(attrs, fn.Role.LogicalId, stack.AttrRoleArn)
		if err != nil {
			return err
		}

		d, err := c.Convention.Deployment.Deploy(ctx, fn, roleArn)
		if err != nil {
			return err
		}
		attrs.Set(node.LogicalId, stack.AttrFunctionName, d.Name)
		attrs.Set(node.LogicalId, stack.AttrFunctionArn, d.Arn)

	case stack.KindFunctionUrl:
		url, err := c.Convention.Deployment.PutPublicEndpoint(ctx, fn)
		if err != nil {
			return err
		}
		attrs.Set(node.LogicalId, stack.AttrFunctionUrl, url)

	case stack.KindApi:
		api, err := c.Convention.HttpProxy.PutApi(ctx, g.Api)
		if err != nil {
			return err
		}
		attrs.Set(node.LogicalId, stack.AttrApiId, api.Id)
		attrs.Set(node.LogicalId, stack.AttrApiEndpoint, api.Endpoint)

	case stack.KindStage:
		apiId, err := requireAttr(attrs, g.Api.LogicalId, stack.AttrApiId)
		if err != nil {
			return err
		}

		stage, err := c.Convention.HttpProxy.PutStage(ctx, apiId, g.Api.Stage)
		if err != nil {
			return err
		}
		attrs.Set(node.LogicalId, stack.AttrStageName, stage)

	case stack.KindIntegration:
		binding, ok := g.Integration(node.LogicalId)
		if !ok {
			return fmt.Errorf("no integration declared as %s", node.LogicalId)
		}

		apiId, functionArn, err := requireApiAndTarget(attrs, g.Api.LogicalId, binding.Target)
		if err != nil {
			return err
		}

		integrationId, err := c.Convention.HttpProxy.PutIntegration(ctx, apiId, binding, functionArn)
		if err != nil {
			return err
		}
		attrs.Set(node.LogicalId, stack.AttrIntegrationId, integrationId)

	case stack.KindRoute:
		route, ok := g.Route(node.LogicalId)
		if !ok {
			return fmt.Errorf("no route declared as %s", node.LogicalId)
		}

		apiId, err := requireAttr(attrs, g.Api.LogicalId, stack.AttrApiId)
		if err != nil {
			return err
		}

		integrationId, err := requireAttr(attrs, route.Integration, stack.AttrIntegrationId)
		if err != nil {
			return err
		}

		routeIds, err := c.Convention.HttpProxy.PutRoute(ctx, apiId, route, integrationId)
		if err != nil {
			return err
		}
		attrs.Set(node.LogicalId, stack.AttrRouteId, strings.Join(routeIds, ","))

	case stack.KindPermission:
		binding, ok := g.BindingForPermission(node.LogicalId)
		if !ok {
			return fmt.Errorf("no integration guarded by %s", node.LogicalId)
		}

		apiId, functionArn, err := requireApiAndTarget(attrs, g.Api.LogicalId, binding.Target)
		if err != nil {
			return err
		}

		statementId, err := c.Convention.HttpProxy.PutPermission(ctx, apiId, binding, functionArn)
		if err != nil {
			return err
		}
		attrs.Set(node.LogicalId, stack.AttrStatementId, statementId)

	case stack.KindOutput:
		// resolved together once every node is in place

	default:
		return fmt.Errorf("no materializer for %s", node.Kind)
	}

	return nil
}

func requireAttr(attrs stack.Attributes, entity, attribute string) (string, error) {
	ref := stack.Ref{Entity: entity, Attribute: attribute}

	value, ok := attrs.Get(ref)
	if !ok {
		return "", fmt.Errorf("%s is not materialized", ref)
	}

	return value, nil
}

func requireApiAndTarget(attrs stack.Attributes, apiLogicalId, target string) (apiId, functionArn string, err error) {
	if apiId, err = requireAttr(attrs, apiLogicalId, stack.AttrApiId); err != nil {
		return
	}

	functionArn, err = requireAttr(attrs, target, stack.AttrFunctionArn)
	return
}
