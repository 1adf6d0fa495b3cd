package mock

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/stretchr/testify/mock"
)

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Emit(ctx context.Context, busName, source, detailType, detail string) error {
	args := m.Called(ctx, busName, source, detailType, detail)
	return args.Error(0)
}

func (m *MockEventService) Rule(ctx context.Context, busName, ruleName string) (*eventbridge.DescribeRuleOutput, error) {
	args := m.Called(ctx, busName, ruleName)
	return args.Get(0).(*eventbridge.DescribeRuleOutput), args.Error(1)
}

func (m *MockEventService) Put(ctx context.Context, busName, ruleName, eventPattern, description, functionName, functionArn string) error {
	args := m.Called(ctx, busName, ruleName, eventPattern, description, functionName, functionArn)
	return args.Error(0)
}

func (m *MockEventService) Delete(ctx context.Context, busName, ruleName, functionName string) error {
	args := m.Called(ctx, busName, ruleName, functionName)
	return args.Error(0)
}
