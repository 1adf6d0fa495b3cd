package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/linecard/samlstack/pkg/convention/config"
	"github.com/linecard/samlstack/pkg/convention/stack"

	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	Source          = "samlstack"
	AppliedDetail   = "samlstack.applied"
	DefaultBus      = "default"
	imagePushSuffix = "-image-push"
)

type EventService interface {
	Emit(ctx context.Context, busName, source, detailType, detail string) error
	Rule(ctx context.Context, busName, ruleName string) (*eventbridge.DescribeRuleOutput, error)
	Put(ctx context.Context, busName, ruleName, eventPattern, description, functionName, functionArn string) error
	Delete(ctx context.Context, busName, ruleName, functionName string) error
}

// Applied is the detail of the event sent after a successful apply.
type Applied struct {
	Stack    string            `json:"stack"`
	ImageUri string            `json:"imageUri"`
	GitSha   string            `json:"gitSha,omitempty"`
	Outputs  map[string]string `json:"outputs"`
}

type Subscription struct {
	Bus          string `json:"bus" yaml:"bus"`
	Rule         string `json:"rule" yaml:"rule"`
	EventPattern string `json:"eventPattern" yaml:"eventPattern"`
	Handler      string `json:"handler" yaml:"handler"`
}

type Services struct {
	Event EventService
}

type Convention struct {
	Config  config.Config
	Service Services
}

func FromServices(c config.Config, e EventService) Convention {
	return Convention{
		Config: c,
		Service: Services{
			Event: e,
		},
	}
}

// Notify announces an apply on the configured bus. Without a bus it does nothing.
func (c Convention) Notify(ctx context.Context, g stack.Graph, outputs []stack.OutputValue) error {
	ctx, span := otel.Tracer("").Start(ctx, "bus.Notify")
	defer span.End()

	if c.Config.Bus.Name == "" {
		log.Debug().Msg("no bus configured, skipping apply notification")
		return nil
	}

	span.SetAttributes(attribute.String("bus", c.Config.Bus.Name))

	detail := Applied{
		Stack:    g.Stack,
		ImageUri: g.Image.Uri(),
		GitSha:   c.Config.Git.Sha,
		Outputs:  map[string]string{},
	}

	for _, o := range outputs {
		detail.Outputs[o.Name] = o.Value
	}

	encoded, err := json.Marshal(detail)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := c.Service.Event.Emit(ctx, c.Config.Bus.Name, Source, AppliedDetail, string(encoded)); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (c Convention) RuleName() string {
	return c.Config.Params.StackName + imagePushSuffix
}

// ImagePushPattern matches pushes to the stack's assets repository.
func (c Convention) ImagePushPattern() (string, error) {
	pattern := map[string]any{
		"source":      []string{"aws.ecr"},
		"detail-type": []string{"ECR Image Action"},
		"detail": map[string]any{
			"action-type":     []string{"PUSH"},
			"result":          []string{"SUCCESS"},
			"repository-name": []string{c.Config.RepositoryName()},
		},
	}

	encoded, err := json.Marshal(pattern)
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// Subscribe routes image pushes on the default bus to the handler function.
func (c Convention) Subscribe(ctx context.Context, handlerName, handlerArn string) (Subscription, error) {
	ctx, span := otel.Tracer("").Start(ctx, "bus.Subscribe")
	defer span.End()

	pattern, err := c.ImagePushPattern()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Subscription{}, err
	}

	sub := Subscription{
		Bus:          DefaultBus,
		Rule:         c.RuleName(),
		EventPattern: pattern,
		Handler:      handlerName,
	}

	span.SetAttributes(attribute.String("rule", sub.Rule), attribute.String("handler", handlerName))

	description := fmt.Sprintf("Redeploy %s when %s receives an image", c.Config.Params.StackName, c.Config.RepositoryName())

	if err := c.Service.Event.Put(ctx, sub.Bus, sub.Rule, pattern, description, handlerName, handlerArn); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Subscription{}, err
	}

	return sub, nil
}

// Subscribed reports whether the image push rule exists.
func (c Convention) Subscribed(ctx context.Context) (bool, error) {
	rule, err := c.Service.Event.Rule(ctx, DefaultBus, c.RuleName())
	if err != nil {
		return false, err
	}

	return rule != nil, nil
}

func (c Convention) Unsubscribe(ctx context.Context, handlerName string) error {
	ctx, span := otel.Tracer("").Start(ctx, "bus.Unsubscribe")
	defer span.End()

	if err := c.Service.Event.Delete(ctx, DefaultBus, c.RuleName(), handlerName); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
