package provision

import (
	"context"
	"fmt"

	"github.com/linecard/samlstack/pkg/convention/httproxy"
	"github.com/linecard/samlstack/pkg/convention/stack"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionRead   Action = "read"
)

type Change struct {
	LogicalId string     `json:"logicalId" yaml:"logicalId"`
	Kind      stack.Kind `json:"kind" yaml:"kind"`
	Action    Action     `json:"action" yaml:"action"`
}

type presence struct {
	role     bool
	function bool
	url      bool
	api      bool
	routing  httproxy.Observed
}

func (c Convention) observe(ctx context.Context, g stack.Graph) (presence, observed, error) {
	var l presence
	var d observed

	fn := g.Function

	role, ok, err := c.Convention.Deployment.FindRole(ctx, fn.Role.Name)
	if err != nil {
		return l, d, err
	}
	l.role = ok
	d.roleArn = role.Arn

	found, ok, err := c.Convention.Deployment.Find(ctx, fn.Name)
	if err != nil {
		return l, d, err
	}
	l.function = ok
	d.functionName = found.Name
	d.functionArn = found.Arn

	if l.function {
		url, ok, err := c.Convention.Deployment.FindPublicEndpoint(ctx, fn.Name)
		if err != nil {
			return l, d, err
		}
		l.url = ok
		d.functionUrl = url
	}

	api, ok, err := c.Convention.HttpProxy.Find(ctx, g.Api)
	if err != nil {
		return l, d, err
	}
	l.api = ok
	d.apiId = api.Id
	d.apiEndpoint = api.Endpoint

	return l, d, nil
}

// observeRouting fills in the routing layer once the api is known to exist.
func (c Convention) observeRouting(ctx context.Context, g stack.Graph, l *presence, d observed) error {
	if !l.api {
		return nil
	}

	routing, err := c.Convention.HttpProxy.Observe(ctx, d.apiId, g.Api, d.functionArn)
	if err != nil {
		return err
	}

	l.routing = routing
	return nil
}

// observed is what observe could read back from live resources.
type observed struct {
	roleArn      string
	functionName string
	functionArn  string
	functionUrl  string
	apiId        string
	apiEndpoint  string
}

// Plan diffs g against live resources without changing anything.
func (c Convention) Plan(ctx context.Context, g stack.Graph) ([]Change, error) {
	ctx, span := otel.Tracer("").Start(ctx, "provision.Plan")
	defer span.End()

	nodes, err := g.Nodes()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	l, d, err := c.observe(ctx, g)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := c.observeRouting(ctx, g, &l, d); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	action := func(exists bool) Action {
		if exists {
			return ActionUpdate
		}
		return ActionCreate
	}

	var changes []Change
	for _, node := range nodes {
		change := Change{LogicalId: node.LogicalId, Kind: node.Kind}

		switch node.Kind {
		case stack.KindImage, stack.KindOutput:
			change.Action = ActionRead
		case stack.KindRole:
			change.Action = action(l.role)
		case stack.KindFunction:
			change.Action = action(l.function)
		case stack.KindFunctionUrl:
			change.Action = action(l.url)
		case stack.KindApi:
			change.Action = action(l.api)
		case stack.KindStage:
			change.Action = action(l.routing.Stage)
		case stack.KindIntegration:
			change.Action = action(l.routing.Integrations[node.LogicalId])
		case stack.KindRoute:
			change.Action = action(l.routing.Routes[node.LogicalId])
		case stack.KindPermission:
			binding, _ := g.BindingForPermission(node.LogicalId)
			change.Action = action(l.function && l.routing.Integrations[binding.LogicalId])
		default:
			change.Action = action(false)
		}

		changes = append(changes, change)
	}

	if g.Function.PublicEndpoint == nil && l.url {
		changes = append(changes, Change{
			LogicalId: g.Function.LogicalId + "Url",
			Kind:      stack.KindFunctionUrl,
			Action:    ActionDelete,
		})
	}

	return changes, nil
}

// Outputs reads the declared outputs back from live resources.
func (c Convention) Outputs(ctx context.Context, g stack.Graph) ([]stack.OutputValue, error) {
	ctx, span := otel.Tracer("").Start(ctx, "provision.Outputs")
	defer span.End()

	l, d, err := c.observe(ctx, g)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if !l.function || !l.api {
		err = fmt.Errorf("stack %s is not deployed", g.Stack)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	fn := g.Function
	attrs := stack.Attributes{}
	attrs.Set(fn.LogicalId, stack.AttrFunctionName, d.functionName)
	attrs.Set(fn.LogicalId, stack.AttrFunctionArn, d.functionArn)
	attrs.Set(g.Api.LogicalId, stack.AttrApiId, d.apiId)
	attrs.Set(g.Api.LogicalId, stack.AttrApiEndpoint, d.apiEndpoint)

	if fn.PublicEndpoint != nil && l.url {
		attrs.Set(fn.PublicEndpoint.LogicalId, stack.AttrFunctionUrl, d.functionUrl)
	}

	outputs, err := g.Outputs.Resolve(attrs)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return outputs, nil
}

// Destroy walks g in teardown order, so the routing layer goes before the compute unit it routes to.
// Published images are left to gc.
func (c Convention) Destroy(ctx context.Context, g stack.Graph) error {
	ctx, span := otel.Tracer("").Start(ctx, "provision.Destroy")
	defer span.End()

	nodes, err := g.Teardown()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	found, _, err := c.Convention.Deployment.Find(ctx, g.Function.Name)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	routed := false
	for _, node := range nodes {
		switch node.Kind {
		case stack.KindApi, stack.KindStage, stack.KindIntegration, stack.KindRoute, stack.KindPermission:
			if routed {
				continue
			}
			routed = true

			log.Info().Msgf("destroying %s %s", stack.KindApi, g.Api.LogicalId)

			if err := c.Convention.HttpProxy.Destroy(ctx, g.Api, found.Arn); err != nil {
				err = fmt.Errorf("destroy %s: %w", g.Api.LogicalId, err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}

		case stack.KindFunction:
			log.Info().Msgf("destroying %s %s", node.Kind, node.LogicalId)

			if err := c.Convention.Deployment.Destroy(ctx, g.Function); err != nil {
				err = fmt.Errorf("destroy %s: %w", g.Function.LogicalId, err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
		}
	}

	return nil
}
