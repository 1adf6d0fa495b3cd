package function

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	types "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"
)

type FunctionInput struct {
	Name         string
	Description  string
	RoleArn      string
	ImageUri     string
	Architecture types.Architecture
	MemorySize   int32
	Timeout      int32
	Environment  map[string]string
	Tags         map[string]string
}

func (s Service) PutFunction(ctx context.Context, in FunctionInput) (*lambda.GetFunctionOutput, error) {
	var apiErr smithy.APIError

	getFunctionInput := &lambda.GetFunctionInput{
		FunctionName: aws.String(in.Name),
	}

	environment := &types.Environment{
		Variables: in.Environment,
	}

	createFunctionInput := &lambda.CreateFunctionInput{
		FunctionName:  aws.String(in.Name),
		Description:   aws.String(in.Description),
		Role:          aws.String(in.RoleArn),
		Architectures: []types.Architecture{in.Architecture},
		Code: &types.FunctionCode{
			ImageUri: aws.String(in.ImageUri),
		},
		PackageType: types.PackageTypeImage,
		MemorySize:  aws.Int32(in.MemorySize),
		Timeout:     aws.Int32(in.Timeout),
		Environment: environment,
		Tags:        in.Tags,
	}

	getFunctionOutput, err := s.Client.Lambda.GetFunction(ctx, getFunctionInput)
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ResourceNotFoundException":
			// a freshly created role takes a few seconds to become assumable by lambda
			_, err := s.Client.Lambda.CreateFunction(ctx, createFunctionInput, func(options *lambda.Options) {
				options.Retryer = retry.AddWithErrorCodes(options.Retryer, (*types.InvalidParameterValueException)(nil).ErrorCode())
				options.Retryer = retry.AddWithMaxAttempts(options.Retryer, 10)
			})

			if err != nil {
				return &lambda.GetFunctionOutput{}, err
			}

			return s.Client.Lambda.GetFunction(ctx, getFunctionInput)
		default:
			return &lambda.GetFunctionOutput{}, err
		}
	}

	if err != nil {
		return &lambda.GetFunctionOutput{}, err
	}

	updateLambdaConfigurationInput := lambda.UpdateFunctionConfigurationInput{
		FunctionName: aws.String(in.Name),
		Description:  createFunctionInput.Description,
		Role:         aws.String(in.RoleArn),
		MemorySize:   createFunctionInput.MemorySize,
		Timeout:      createFunctionInput.Timeout,
		Environment:  environment,
	}

	updateFunctionCodeInput := lambda.UpdateFunctionCodeInput{
		FunctionName:  aws.String(in.Name),
		ImageUri:      aws.String(in.ImageUri),
		Architectures: createFunctionInput.Architectures,
		Publish:       true,
	}

	_, err = s.Client.Lambda.UpdateFunctionConfiguration(ctx, &updateLambdaConfigurationInput, func(options *lambda.Options) {
		options.Retryer = retry.AddWithErrorCodes(options.Retryer, (*types.ResourceConflictException)(nil).ErrorCode())
		options.Retryer = retry.AddWithMaxAttempts(options.Retryer, 10)
	})

	if err != nil {
		return &lambda.GetFunctionOutput{}, err
	}

	_, err = s.Client.Lambda.UpdateFunctionCode(ctx, &updateFunctionCodeInput, func(options *lambda.Options) {
		options.Retryer = retry.AddWithErrorCodes(options.Retryer, (*types.ResourceConflictException)(nil).ErrorCode())
		options.Retryer = retry.AddWithMaxAttempts(options.Retryer, 10)
	})

	if err != nil {
		return &lambda.GetFunctionOutput{}, err
	}

	if len(in.Tags) > 0 {
		tagResourceInput := lambda.TagResourceInput{
			Resource: getFunctionOutput.Configuration.FunctionArn,
			Tags:     in.Tags,
		}

		if _, err = s.Client.Lambda.TagResource(ctx, &tagResourceInput); err != nil {
			return &lambda.GetFunctionOutput{}, err
		}
	}

	return s.Client.Lambda.GetFunction(ctx, getFunctionInput)
}

func (s Service) DeleteFunction(ctx context.Context, name string) (*lambda.DeleteFunctionOutput, error) {
	deleteInput := lambda.DeleteFunctionInput{
		FunctionName: aws.String(name),
	}

	return s.Client.Lambda.DeleteFunction(ctx, &deleteInput)
}
