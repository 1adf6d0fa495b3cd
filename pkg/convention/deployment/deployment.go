package deployment

import (
	"context"
	"errors"
	"fmt"

	"github.com/linecard/samlstack/pkg/convention/config"
	"github.com/linecard/samlstack/pkg/convention/stack"
	"github.com/linecard/samlstack/pkg/service/function"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog/log"
)

type FunctionService interface {
	Inspect(ctx context.Context, name string) (*lambda.GetFunctionOutput, error)
	Exists(ctx context.Context, name string) (bool, error)
	PutFunction(ctx context.Context, in function.FunctionInput) (*lambda.GetFunctionOutput, error)
	DeleteFunction(ctx context.Context, name string) (*lambda.DeleteFunctionOutput, error)
	GetRole(ctx context.Context, name string) (*iam.GetRoleOutput, error)
	PutRole(ctx context.Context, name string, document string, tags map[string]string) (*iam.GetRoleOutput, error)
	AttachPolicies(ctx context.Context, roleName string, policyArns []string) error
	DetachPolicies(ctx context.Context, roleName string) error
	DeleteRole(ctx context.Context, name string) (*iam.DeleteRoleOutput, error)
	GetFunctionUrl(ctx context.Context, name string) (*lambda.GetFunctionUrlConfigOutput, error)
	PutFunctionUrl(ctx context.Context, name string, cors types.Cors) (*lambda.GetFunctionUrlConfigOutput, error)
	PutPublicUrlPermission(ctx context.Context, name string) error
	DeleteFunctionUrl(ctx context.Context, name string) error
}

type Role struct {
	Name string `json:"name" yaml:"name"`
	Arn  string `json:"arn" yaml:"arn"`
}

type Deployment struct {
	Name        string            `json:"name" yaml:"name"`
	Arn         string            `json:"arn" yaml:"arn"`
	ImageUri    string            `json:"imageUri" yaml:"imageUri"`
	MemorySize  int32             `json:"memorySize,omitempty" yaml:"memorySize,omitempty"`
	Timeout     int32             `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Environment map[string]string `json:"environment,omitempty" yaml:"environment,omitempty"`
}

type Services struct {
	Function FunctionService
}

// Convention materializes the compute unit: its runtime identity, the function and the optional Function URL.
type Convention struct {
	Config  config.Config
	Service Services
}

func FromServices(c config.Config, f FunctionService) Convention {
	return Convention{
		Config: c,
		Service: Services{
			Function: f,
		},
	}
}

func (c Convention) PutRole(ctx context.Context, identity stack.RuntimeIdentity) (Role, error) {
	ctx, span := otel.Tracer("").Start(ctx, "deployment.PutRole")
	defer span.End()

	span.SetAttributes(attribute.String("role", identity.Name))

	role, err := c.Service.Function.PutRole(ctx, identity.Name, identity.AssumeRolePolicy, c.Config.Tags(identity.LogicalId))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Role{}, err
	}

	if err := c.Service.Function.AttachPolicies(ctx, identity.Name, identity.ManagedPolicyArns); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Role{}, err
	}

	return Role{
		Name: aws.ToString(role.Role.RoleName),
		Arn:  aws.ToString(role.Role.Arn),
	}, nil
}

func (c Convention) Deploy(ctx context.Context, fn stack.ComputeUnitSpec, roleArn string) (Deployment, error) {
	ctx, span := otel.Tracer("").Start(ctx, "deployment.Deploy")
	defer span.End()

	span.SetAttributes(
		attribute.String("function", fn.Name),
		attribute.String("image-uri", fn.Image.Uri()),
		attribute.String("role-arn", roleArn),
	)

	out, err := c.Service.Function.PutFunction(ctx, function.FunctionInput{
		Name:         fn.Name,
		Description:  fn.Description,
		RoleArn:      roleArn,
		ImageUri:     fn.Image.Uri(),
		Architecture: types.Architecture(fn.Architecture),
		MemorySize:   fn.MemoryMB,
		Timeout:      fn.TimeoutSeconds,
		Environment:  fn.Environment.Clone(),
		Tags:         c.Config.Tags(fn.LogicalId),
	})

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Deployment{}, err
	}

	if out.Configuration == nil {
		err = fmt.Errorf("function %s returned no configuration", fn.Name)
		span.SetStatus(codes.Error, err.Error())
		return Deployment{}, err
	}

	return Deployment{
		Name:     aws.ToString(out.Configuration.FunctionName),
		Arn:      aws.ToString(out.Configuration.FunctionArn),
		ImageUri: fn.Image.Uri(),
	}, nil
}

// PutPublicEndpoint returns the function URL. The endpoint is open by construction.
func (c Convention) PutPublicEndpoint(ctx context.Context, fn stack.ComputeUnitSpec) (string, error) {
	ctx, span := otel.Tracer("").Start(ctx, "deployment.PutPublicEndpoint")
	defer span.End()

	if fn.PublicEndpoint == nil {
		err := fmt.Errorf("function %s declares no public endpoint", fn.LogicalId)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	cors := types.Cors{
		AllowOrigins: fn.PublicEndpoint.Cors.AllowOrigins,
		AllowMethods: fn.PublicEndpoint.Cors.AllowMethods,
		AllowHeaders: fn.PublicEndpoint.Cors.AllowHeaders,
	}

	url, err := c.Service.Function.PutFunctionUrl(ctx, fn.Name, cors)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	if err := c.Service.Function.PutPublicUrlPermission(ctx, fn.Name); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetAttributes(attribute.String("function-url", aws.ToString(url.FunctionUrl)))

	return aws.ToString(url.FunctionUrl), nil
}

// RemovePublicEndpoint withdraws a Function URL left over from an earlier apply.
func (c Convention) RemovePublicEndpoint(ctx context.Context, functionName string) error {
	ctx, span := otel.Tracer("").Start(ctx, "deployment.RemovePublicEndpoint")
	defer span.End()

	if err := c.Service.Function.DeleteFunctionUrl(ctx, functionName); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// Find reads a deployed function. A missing function is reported as ok == false.
func (c Convention) Find(ctx context.Context, name string) (d Deployment, ok bool, err error) {
	ctx, span := otel.Tracer("").Start(ctx, "deployment.Find")
	defer span.End()

	exists, err := c.Service.Function.Exists(ctx, name)
	if err != nil || !exists {
		return Deployment{}, false, err
	}

	out, err := c.Service.Function.Inspect(ctx, name)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Deployment{}, false, err
	}

	d = Deployment{
		Name:       aws.ToString(out.Configuration.FunctionName),
		Arn:        aws.ToString(out.Configuration.FunctionArn),
		MemorySize: aws.ToInt32(out.Configuration.MemorySize),
		Timeout:    aws.ToInt32(out.Configuration.Timeout),
	}

	if out.Configuration.Environment != nil {
		d.Environment = out.Configuration.Environment.Variables
	}

	if out.Code != nil {
		d.ImageUri = aws.ToString(out.Code.ImageUri)
	}

	return d, true, nil
}

// FindRole reports ok == false for a role that does not exist.
func (c Convention) FindRole(ctx context.Context, name string) (Role, bool, error) {
	var apiErr smithy.APIError

	out, err := c.Service.Function.GetRole(ctx, name)
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchEntity" {
		return Role{}, false, nil
	}

	if err != nil {
		return Role{}, false, err
	}

	return Role{Name: aws.ToString(out.Role.RoleName), Arn: aws.ToString(out.Role.Arn)}, true, nil
}

// FindPublicEndpoint reports ok == false when the function has no URL.
func (c Convention) FindPublicEndpoint(ctx context.Context, functionName string) (string, bool, error) {
	var apiErr smithy.APIError

	out, err := c.Service.Function.GetFunctionUrl(ctx, functionName)
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException" {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return aws.ToString(out.FunctionUrl), true, nil
}

// Destroy removes the function URL, the function and its role. Anything already gone is skipped.
func (c Convention) Destroy(ctx context.Context, fn stack.ComputeUnitSpec) error {
	var apiErr smithy.APIError

	ctx, span := otel.Tracer("").Start(ctx, "deployment.Destroy")
	defer span.End()

	span.SetAttributes(attribute.String("function", fn.Name))

	if err := c.Service.Function.DeleteFunctionUrl(ctx, fn.Name); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	_, err := c.Service.Function.DeleteFunction(ctx, fn.Name)
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException" {
		log.Info().Msgf("function %s already absent", fn.Name)
	} else if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	err = c.Service.Function.DetachPolicies(ctx, fn.Role.Name)
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchEntity" {
		log.Info().Msgf("role %s already absent", fn.Role.Name)
		return nil
	}

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	_, err = c.Service.Function.DeleteRole(ctx, fn.Role.Name)
	if err != nil && !(errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchEntity") {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
