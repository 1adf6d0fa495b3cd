package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/smithy-go"
)

type EventBridgeClient interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
	DescribeRule(ctx context.Context, params *eventbridge.DescribeRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.DescribeRuleOutput, error)
	PutRule(ctx context.Context, params *eventbridge.PutRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutRuleOutput, error)
	PutTargets(ctx context.Context, params *eventbridge.PutTargetsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutTargetsOutput, error)
	RemoveTargets(ctx context.Context, params *eventbridge.RemoveTargetsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.RemoveTargetsOutput, error)
	DeleteRule(ctx context.Context, params *eventbridge.DeleteRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.DeleteRuleOutput, error)
}

type LambdaClient interface {
	AddPermission(ctx context.Context, params *lambda.AddPermissionInput, optFns ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error)
	RemovePermission(ctx context.Context, params *lambda.RemovePermissionInput, optFns ...func(*lambda.Options)) (*lambda.RemovePermissionOutput, error)
}

type Client struct {
	EventBridge EventBridgeClient
	Lambda      LambdaClient
}

type Service struct {
	Client Client
}

func FromClients(eventBridge EventBridgeClient, lambdaClient LambdaClient) Service {
	return Service{
		Client: Client{
			EventBridge: eventBridge,
			Lambda:      lambdaClient,
		},
	}
}

// Emit puts a single event and surfaces a per-entry failure as an error.
func (s Service) Emit(ctx context.Context, busName, source, detailType, detail string) error {
	output, err := s.Client.EventBridge.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(busName),
				Source:       aws.String(source),
				DetailType:   aws.String(detailType),
				Detail:       aws.String(detail),
			},
		},
	})

	if err != nil {
		return err
	}

	if output.FailedEntryCount > 0 && len(output.Entries) > 0 {
		entry := output.Entries[0]
		return fmt.Errorf("put %s event on %s: %s %s", detailType, busName, aws.ToString(entry.ErrorCode), aws.ToString(entry.ErrorMessage))
	}

	return nil
}

// Rule returns the named rule, or nil when it does not exist.
func (s Service) Rule(ctx context.Context, busName, ruleName string) (*eventbridge.DescribeRuleOutput, error) {
	var apiErr smithy.APIError

	rule, err := s.Client.EventBridge.DescribeRule(ctx, &eventbridge.DescribeRuleInput{
		EventBusName: aws.String(busName),
		Name:         aws.String(ruleName),
	})

	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException" {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return rule, nil
}

func (s Service) Put(ctx context.Context, busName, ruleName, eventPattern, description, functionName, functionArn string) error {
	var apiErr smithy.APIError

	putRuleInput := eventbridge.PutRuleInput{
		EventBusName: aws.String(busName),
		Name:         aws.String(ruleName),
		State:        types.RuleStateEnabled,
		Description:  aws.String(description),
		EventPattern: aws.String(eventPattern),
	}

	putTargetsInput := eventbridge.PutTargetsInput{
		EventBusName: aws.String(busName),
		Rule:         aws.String(ruleName),
		Targets: []types.Target{
			{
				Id:  aws.String(functionName),
				Arn: aws.String(functionArn),
			},
		},
	}

	putRuleOutput, err := s.Client.EventBridge.PutRule(ctx, &putRuleInput)
	if err != nil {
		return err
	}

	_, err = s.Client.EventBridge.PutTargets(ctx, &putTargetsInput)
	if err != nil {
		return err
	}

	addPermissionsInput := lambda.AddPermissionInput{
		FunctionName: aws.String(functionName),
		StatementId:  aws.String(ruleName),
		Action:       aws.String("lambda:InvokeFunction"),
		Principal:    aws.String("events.amazonaws.com"),
		SourceArn:    putRuleOutput.RuleArn,
	}

	if _, err := s.Client.Lambda.AddPermission(ctx, &addPermissionsInput); err != nil {
		if !(errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceConflictException") {
			return err
		}
	}

	return nil
}

func (s Service) Delete(ctx context.Context, busName, ruleName, functionName string) error {
	var apiErr smithy.APIError

	removeTargetsInput := eventbridge.RemoveTargetsInput{
		EventBusName: aws.String(busName),
		Rule:         aws.String(ruleName),
		Ids:          []string{functionName},
	}

	deleteRuleInput := eventbridge.DeleteRuleInput{
		EventBusName: aws.String(busName),
		Name:         aws.String(ruleName),
	}

	removePermissionInput := lambda.RemovePermissionInput{
		FunctionName: aws.String(functionName),
		StatementId:  aws.String(ruleName),
	}

	if _, err := s.Client.EventBridge.RemoveTargets(ctx, &removeTargetsInput); err != nil {
		if !(errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException") {
			return err
		}
	}

	if _, err := s.Client.EventBridge.DeleteRule(ctx, &deleteRuleInput); err != nil {
		if !(errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException") {
			return err
		}
	}

	if _, err := s.Client.Lambda.RemovePermission(ctx, &removePermissionInput); err != nil {
		if !(errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException") {
			return err
		}
	}

	return nil
}
