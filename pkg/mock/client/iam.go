package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/stretchr/testify/mock"
)

type MockIAMClient struct {
	mock.Mock
}

func (m *MockIAMClient) CreateRole(ctx context.Context, params *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*iam.CreateRoleOutput), args.Error(1)
}

func (m *MockIAMClient) GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*iam.GetRoleOutput), args.Error(1)
}

func (m *MockIAMClient) DeleteRole(ctx context.Context, params *iam.DeleteRoleInput, optFns ...func(*iam.Options)) (*iam.DeleteRoleOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*iam.DeleteRoleOutput), args.Error(1)
}

func (m *MockIAMClient) ListRoleTags(ctx context.Context, params *iam.ListRoleTagsInput, optFns ...func(*iam.Options)) (*iam.ListRoleTagsOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*iam.ListRoleTagsOutput), args.Error(1)
}

func (m *MockIAMClient) UpdateAssumeRolePolicy(ctx context.Context, params *iam.UpdateAssumeRolePolicyInput, optFns ...func(*iam.Options)) (*iam.UpdateAssumeRolePolicyOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*iam.UpdateAssumeRolePolicyOutput), args.Error(1)
}

func (m *MockIAMClient) TagRole(ctx context.Context, params *iam.TagRoleInput, optFns ...func(*iam.Options)) (*iam.TagRoleOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*iam.TagRoleOutput), args.Error(1)
}

func (m *MockIAMClient) UntagRole(ctx context.Context, params *iam.UntagRoleInput, optFns ...func(*iam.Options)) (*iam.UntagRoleOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*iam.UntagRoleOutput), args.Error(1)
}

func (m *MockIAMClient) ListAttachedRolePolicies(ctx context.Context, params *iam.ListAttachedRolePoliciesInput, optFns ...func(*iam.Options)) (*iam.ListAttachedRolePoliciesOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*iam.ListAttachedRolePoliciesOutput), args.Error(1)
}

func (m *MockIAMClient) AttachRolePolicy(ctx context.Context, params *iam.AttachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*iam.AttachRolePolicyOutput), args.Error(1)
}

func (m *MockIAMClient) DetachRolePolicy(ctx context.Context, params *iam.DetachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.DetachRolePolicyOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*iam.DetachRolePolicyOutput), args.Error(1)
}
