package mock

import (
	"context"
	"time"

	"github.com/linecard/samlstack/pkg/convention/config"
	"github.com/linecard/samlstack/pkg/service/function"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/stretchr/testify/mock"
)

// MockFunctionService is a mock of the deployment FunctionService interface
type MockFunctionService struct {
	mock.Mock
}

func (m *MockFunctionService) Inspect(ctx context.Context, name string) (*lambda.GetFunctionOutput, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(*lambda.GetFunctionOutput), args.Error(1)
}

func (m *MockFunctionService) Exists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockFunctionService) PutFunction(ctx context.Context, in function.FunctionInput) (*lambda.GetFunctionOutput, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(*lambda.GetFunctionOutput), args.Error(1)
}

func (m *MockFunctionService) DeleteFunction(ctx context.Context, name string) (*lambda.DeleteFunctionOutput, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(*lambda.DeleteFunctionOutput), args.Error(1)
}

func (m *MockFunctionService) GetRole(ctx context.Context, name string) (*iam.GetRoleOutput, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(*iam.GetRoleOutput), args.Error(1)
}

func (m *MockFunctionService) PutRole(ctx context.Context, name string, document string, tags map[string]string) (*iam.GetRoleOutput, error) {
	args := m.Called(ctx, name, document, tags)
	return args.Get(0).(*iam.GetRoleOutput), args.Error(1)
}

func (m *MockFunctionService) AttachPolicies(ctx context.Context, roleName string, policyArns []string) error {
	args := m.Called(ctx, roleName, policyArns)
	return args.Error(0)
}

func (m *MockFunctionService) DetachPolicies(ctx context.Context, roleName string) error {
	args := m.Called(ctx, roleName)
	return args.Error(0)
}

func (m *MockFunctionService) DeleteRole(ctx context.Context, name string) (*iam.DeleteRoleOutput, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(*iam.DeleteRoleOutput), args.Error(1)
}

func (m *MockFunctionService) GetFunctionUrl(ctx context.Context, name string) (*lambda.GetFunctionUrlConfigOutput, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(*lambda.GetFunctionUrlConfigOutput), args.Error(1)
}

func (m *MockFunctionService) PutFunctionUrl(ctx context.Context, name string, cors types.Cors) (*lambda.GetFunctionUrlConfigOutput, error) {
	args := m.Called(ctx, name, cors)
	return args.Get(0).(*lambda.GetFunctionUrlConfigOutput), args.Error(1)
}

func (m *MockFunctionService) PutPublicUrlPermission(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockFunctionService) DeleteFunctionUrl(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// Mock Responses

func MockGetFunctionOutput(c config.Config, logicalId, imageUri string) *lambda.GetFunctionOutput {
	name := c.ResourceName(logicalId)

	return &lambda.GetFunctionOutput{
		Code: &types.FunctionCodeLocation{
			ImageUri: aws.String(imageUri),
		},
		Configuration: &types.FunctionConfiguration{
			Architectures: []types.Architecture{
				types.ArchitectureX8664,
			},
			Role:        aws.String("arn:aws:iam::" + c.Account.Id + ":role/" + name + "ServiceRole"),
			Description: aws.String("Mocked GetFunctionOutput for testing purposes"),
			Timeout:     aws.Int32(c.Params.Timeout),
			MemorySize:  aws.Int32(c.Params.MemorySize),
			Environment: &types.EnvironmentResponse{
				Variables: map[string]string{
					"BASE_URL":      c.Params.BaseUrl,
					"IDP_ENTITY_ID": c.Params.IdpEntityId,
					"SP_ENTITY_ID":  c.Params.SpEntityId,
				},
			},
			FunctionArn:  aws.String("arn:aws:lambda:" + c.Account.Region + ":" + c.Account.Id + ":function:" + name),
			FunctionName: aws.String(name),
			LastModified: aws.String("2024-07-01T00:00:00Z"),
		},
		Tags: c.Tags(logicalId),
	}
}

func MockGetRoleOutput(c config.Config, logicalId string) *iam.GetRoleOutput {
	name := c.ResourceName(logicalId)

	return &iam.GetRoleOutput{
		Role: &iamtypes.Role{
			Arn:        aws.String("arn:aws:iam::" + c.Account.Id + ":role/" + name),
			RoleName:   aws.String(name),
			RoleId:     aws.String("AIDAJQABLZS4A3QDU576Q"),
			CreateDate: aws.Time(time.Now()),
			Path:       aws.String("/"),
		},
	}
}

func MockGetFunctionUrlConfigOutput(url string) *lambda.GetFunctionUrlConfigOutput {
	return &lambda.GetFunctionUrlConfigOutput{
		AuthType:    types.FunctionUrlAuthTypeNone,
		FunctionUrl: aws.String(url),
		Cors: &types.Cors{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"*"},
			AllowHeaders: []string{"*"},
		},
	}
}
