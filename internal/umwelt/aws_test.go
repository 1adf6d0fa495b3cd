package umwelt

import (
	"context"
	"os"
	"testing"

	clientmock "github.com/linecard/samlstack/pkg/mock/client"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/stretchr/testify/assert"
)

func TestAWSPerception(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		setup    func(*clientmock.MockECRClient)
		teardown func(*clientmock.MockECRClient)
		test     func(*testing.T, *clientmock.MockECRClient)
	}{
		{
			name: "ECR discovery: from account",
			setup: func(mecr *clientmock.MockECRClient) {
				os.Unsetenv("AWS_REGISTRY_ID")

				mecr.On("DescribeRegistry", ctx, &ecr.DescribeRegistryInput{}).Return(&ecr.DescribeRegistryOutput{
					RegistryId: aws.String("fetched_default_registry_id_from_account"),
				}, nil)
			},
			test: func(t *testing.T, mecr *clientmock.MockECRClient) {
				registryID, err := GetRegistryId(ctx, "AWS_REGISTRY_ID", mecr)
				assert.NoError(t, err)
				assert.Equal(t, "fetched_default_registry_id_from_account", registryID)
			},
		},
		{
			name: "ECR discovery: from env",
			setup: func(mecr *clientmock.MockECRClient) {
				os.Setenv("AWS_REGISTRY_ID", "env_registry_id")
			},
			test: func(t *testing.T, mecr *clientmock.MockECRClient) {
				registryID, err := GetRegistryId(ctx, "AWS_REGISTRY_ID", mecr)
				assert.NoError(t, err)
				assert.Equal(t, "env_registry_id", registryID)
			},
			teardown: func(mecr *clientmock.MockECRClient) {
				os.Unsetenv("AWS_REGISTRY_ID")
			},
		},
		{
			name: "ECR region: env wins over config",
			setup: func(mecr *clientmock.MockECRClient) {
				os.Setenv("AWS_REGISTRY_REGION", "env_registry_region")
			},
			test: func(t *testing.T, mecr *clientmock.MockECRClient) {
				assert.Equal(t, "env_registry_region", GetRegistryRegion("AWS_REGISTRY_REGION", aws.Config{Region: "us-west-2"}))
			},
			teardown: func(mecr *clientmock.MockECRClient) {
				os.Unsetenv("AWS_REGISTRY_REGION")
			},
		},
		{
			name: "ECR region: config fallback",
			test: func(t *testing.T, mecr *clientmock.MockECRClient) {
				assert.Equal(t, "us-west-2", GetRegistryRegion("AWS_REGISTRY_REGION", aws.Config{Region: "us-west-2"}))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mecr := &clientmock.MockECRClient{}

			if tc.setup != nil {
				tc.setup(mecr)
			}

			tc.test(t, mecr)

			if tc.teardown != nil {
				tc.teardown(mecr)
			}
		})
	}
}
