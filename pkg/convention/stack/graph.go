// Package stack declares the deployment resource graph: one image, one Lambda compute unit with
// an optional Function URL, one HTTP API routing to it and the outputs read back after apply.
// Nothing in this package talks to AWS except the ImageResolver it is handed.
package stack

import (
	"context"

	"github.com/linecard/samlstack/internal/dag"
	"github.com/linecard/samlstack/pkg/convention/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Logical ids. Together with the stack name they fix every physical name.
const (
	ImageId       = "SamlSpringBootImage"
	FunctionId    = "SamlSpringBootFunction"
	ApiId         = "SamlHttpApi"
	IntegrationId = "SamlLambdaIntegration"
)

type Kind string

const (
	KindImage       Kind = "Image"
	KindRole        Kind = "Role"
	KindFunction    Kind = "Function"
	KindFunctionUrl Kind = "FunctionUrl"
	KindApi         Kind = "Api"
	KindStage       Kind = "Stage"
	KindIntegration Kind = "Integration"
	KindRoute       Kind = "Route"
	KindPermission  Kind = "Permission"
	KindOutput      Kind = "Output"
)

type Node struct {
	LogicalId string   `json:"logicalId" yaml:"logicalId"`
	Kind      Kind     `json:"kind" yaml:"kind"`
	DependsOn []string `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}

type Graph struct {
	Stack    string           `json:"stack" yaml:"stack"`
	Params   config.Params    `json:"params" yaml:"params"`
	Image    ImageReference   `json:"image" yaml:"image"`
	Function ComputeUnitSpec  `json:"function" yaml:"function"`
	Api      RoutingLayerSpec `json:"api" yaml:"api"`
	Outputs  OutputSet        `json:"outputs" yaml:"outputs"`
}

// Build is the single construction pass. It either returns a complete graph or an error and no graph.
func Build(ctx context.Context, p config.Params, resolver ImageResolver) (Graph, error) {
	ctx, span := otel.Tracer("").Start(ctx, "stack.Build")
	defer span.End()

	span.SetAttributes(
		attribute.String("stack", p.StackName),
		attribute.String("build-context", p.BuildContext),
		attribute.Bool("function-url", p.FunctionUrl),
	)

	image, err := resolver.Resolve(ctx, p.BuildContext, LinuxAmd64)
	if err != nil {
		err = &ResolutionError{Context: p.BuildContext, Err: err}
		span.SetStatus(codes.Error, err.Error())
		return Graph{}, err
	}

	fn := NewComputeUnit(p, image)
	if p.FunctionUrl {
		fn = fn.WithPublicEndpoint()
	}

	if err := fn.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Graph{}, err
	}

	api := NewRoutingLayer()
	binding := api.Integrate(IntegrationId, fn)

	for _, path := range []string{ProxyPath, RootPath} {
		if _, err := api.AddRoute(path, []string{AnyMethod}, binding); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return Graph{}, err
		}
	}

	g := Graph{
		Stack:    p.StackName,
		Params:   p,
		Image:    image,
		Function: fn,
		Api:      api,
		Outputs:  NewOutputSet(fn, api),
	}

	if _, err := g.Nodes(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Graph{}, err
	}

	span.SetAttributes(attribute.String("image-uri", image.Uri()))

	return g, nil
}

// Nodes lists every declared entity in materialization order.
func (g Graph) Nodes() ([]Node, error) {
	return g.walk((*dag.Graph).Sort)
}

// Teardown lists every declared entity with dependents ahead of their dependencies.
func (g Graph) Teardown() ([]Node, error) {
	return g.walk((*dag.Graph).Reverse)
}

func (g Graph) walk(order func(*dag.Graph) ([]string, error)) ([]Node, error) {
	declared := g.declare()

	deps := dag.New()
	byId := make(map[string]Node, len(declared))
	for _, node := range declared {
		byId[node.LogicalId] = node
		deps.AddNode(node.LogicalId)
	}

	for _, node := range declared {
		for _, dep := range node.DependsOn {
			if _, ok := byId[dep]; !ok {
				return nil, &ConfigurationError{Entity: node.LogicalId, Reason: "depends on undeclared " + dep}
			}
			deps.AddEdge(dep, node.LogicalId)
		}
	}

	sorted, err := order(deps)
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(sorted))
	for _, id := range sorted {
		nodes = append(nodes, byId[id])
	}

	return nodes, nil
}

func (g Graph) declare() []Node {
	fn := g.Function

	nodes := []Node{
		{LogicalId: ImageId, Kind: KindImage},
		{LogicalId: fn.Role.LogicalId, Kind: KindRole},
		{LogicalId: fn.LogicalId, Kind: KindFunction, DependsOn: []string{ImageId, fn.Role.LogicalId}},
	}

	if fn.PublicEndpoint != nil {
		nodes = append(nodes, Node{LogicalId: fn.PublicEndpoint.LogicalId, Kind: KindFunctionUrl, DependsOn: []string{fn.LogicalId}})
	}

	nodes = append(nodes,
		Node{LogicalId: g.Api.LogicalId, Kind: KindApi},
		Node{LogicalId: g.Api.Stage.LogicalId, Kind: KindStage, DependsOn: []string{g.Api.LogicalId}},
	)

	for _, b := range g.Api.Integrations {
		nodes = append(nodes, Node{LogicalId: b.LogicalId, Kind: KindIntegration, DependsOn: []string{g.Api.LogicalId, b.Target}})
	}

	for _, r := range g.Api.Routes {
		nodes = append(nodes, Node{LogicalId: r.LogicalId, Kind: KindRoute, DependsOn: []string{r.Integration}})
	}

	for _, b := range g.Api.Integrations {
		nodes = append(nodes, Node{LogicalId: b.PermissionId(), Kind: KindPermission, DependsOn: []string{b.LogicalId, b.Target}})
	}

	// outputs are read once the externally reachable surface is complete
	var surface []string
	for _, r := range g.Api.Routes {
		surface = append(surface, r.LogicalId)
	}
	for _, b := range g.Api.Integrations {
		surface = append(surface, b.PermissionId())
	}

	for _, o := range g.Outputs {
		deps := append([]string{o.Value.Entity}, surface...)
		nodes = append(nodes, Node{LogicalId: o.Name, Kind: KindOutput, DependsOn: deps})
	}

	return nodes
}

func (g Graph) Integration(logicalId string) (IntegrationBinding, bool) {
	return g.Api.integration(logicalId)
}

func (g Graph) Route(logicalId string) (RouteBinding, bool) {
	for _, r := range g.Api.Routes {
		if r.LogicalId == logicalId {
			return r, true
		}
	}
	return RouteBinding{}, false
}

// BindingForPermission maps a permission node back to the integration it guards.
func (g Graph) BindingForPermission(logicalId string) (IntegrationBinding, bool) {
	for _, b := range g.Api.Integrations {
		if b.PermissionId() == logicalId {
			return b, true
		}
	}
	return IntegrationBinding{}, false
}
