package function

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/smithy-go"
)

func (s Service) Inspect(ctx context.Context, name string) (*lambda.GetFunctionOutput, error) {
	getFunctionInput := &lambda.GetFunctionInput{
		FunctionName: aws.String(name),
	}

	return s.Client.Lambda.GetFunction(ctx, getFunctionInput)
}

// Exists distinguishes "not there" from a failed lookup.
func (s Service) Exists(ctx context.Context, name string) (bool, error) {
	var apiErr smithy.APIError

	_, err := s.Inspect(ctx, name)
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException" {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}
