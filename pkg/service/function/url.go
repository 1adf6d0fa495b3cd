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

// Statement id lambda itself uses when a URL is created from the console.
const PublicUrlStatementId = "FunctionURLAllowPublicAccess"

func (s Service) GetFunctionUrl(ctx context.Context, name string) (*lambda.GetFunctionUrlConfigOutput, error) {
	return s.Client.Lambda.GetFunctionUrlConfig(ctx, &lambda.GetFunctionUrlConfigInput{
		FunctionName: aws.String(name),
	})
}

// PutFunctionUrl converges the function's URL config to unauthenticated access with the given cors.
func (s Service) PutFunctionUrl(ctx context.Context, name string, cors types.Cors) (*lambda.GetFunctionUrlConfigOutput, error) {
	var apiErr smithy.APIError

	_, err := s.GetFunctionUrl(ctx, name)
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ResourceNotFoundException":
			_, err := s.Client.Lambda.CreateFunctionUrlConfig(ctx, &lambda.CreateFunctionUrlConfigInput{
				FunctionName: aws.String(name),
				AuthType:     types.FunctionUrlAuthTypeNone,
				Cors:         &cors,
			}, func(options *lambda.Options) {
				options.Retryer = retry.AddWithErrorCodes(options.Retryer, (*types.ResourceConflictException)(nil).ErrorCode())
				options.Retryer = retry.AddWithMaxAttempts(options.Retryer, 10)
			})

			if err != nil {
				return &lambda.GetFunctionUrlConfigOutput{}, err
			}

			return s.GetFunctionUrl(ctx, name)
		default:
			return &lambda.GetFunctionUrlConfigOutput{}, err
		}
	}

	if err != nil {
		return &lambda.GetFunctionUrlConfigOutput{}, err
	}

	_, err = s.Client.Lambda.UpdateFunctionUrlConfig(ctx, &lambda.UpdateFunctionUrlConfigInput{
		FunctionName: aws.String(name),
		AuthType:     types.FunctionUrlAuthTypeNone,
		Cors:         &cors,
	})

	if err != nil {
		return &lambda.GetFunctionUrlConfigOutput{}, err
	}

	return s.GetFunctionUrl(ctx, name)
}

// PutPublicUrlPermission grants anyone invoke through the URL. An existing grant is left alone.
func (s Service) PutPublicUrlPermission(ctx context.Context, name string) error {
	var apiErr smithy.APIError

	_, err := s.Client.Lambda.AddPermission(ctx, &lambda.AddPermissionInput{
		FunctionName:        aws.String(name),
		StatementId:         aws.String(PublicUrlStatementId),
		Action:              aws.String("lambda:InvokeFunctionUrl"),
		Principal:           aws.String("*"),
		FunctionUrlAuthType: types.FunctionUrlAuthTypeNone,
	})

	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceConflictException" {
		return nil
	}

	return err
}

// DeleteFunctionUrl removes the URL and its grant. Absence of either is not an error.
func (s Service) DeleteFunctionUrl(ctx context.Context, name string) error {
	var apiErr smithy.APIError

	_, err := s.Client.Lambda.RemovePermission(ctx, &lambda.RemovePermissionInput{
		FunctionName: aws.String(name),
		StatementId:  aws.String(PublicUrlStatementId),
	})

	if err != nil && !(errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException") {
		return err
	}

	_, err = s.Client.Lambda.DeleteFunctionUrlConfig(ctx, &lambda.DeleteFunctionUrlConfigInput{
		FunctionName: aws.String(name),
	})

	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException" {
		return nil
	}

	return err
}
