package registry

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	clientmock "github.com/linecard/samlstack/pkg/mock/client"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestImageDigest(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		setup    func(*clientmock.MockECRClient)
		expected string
		wantErr  bool
	}{
		{
			name: "tag present",
			setup: func(mecr *clientmock.MockECRClient) {
				mecr.On("BatchGetImage", ctx, mock.Anything).Return(&ecr.BatchGetImageOutput{
					Images: []types.Image{
						{ImageId: &types.ImageIdentifier{ImageTag: aws.String("abc123"), ImageDigest: aws.String("sha256:feed")}},
					},
				}, nil)
			},
			expected: "sha256:feed",
		},
		{
			name: "tag absent",
			setup: func(mecr *clientmock.MockECRClient) {
				mecr.On("BatchGetImage", ctx, mock.Anything).Return(&ecr.BatchGetImageOutput{
					Failures: []types.ImageFailure{{FailureCode: types.ImageFailureCodeImageNotFound}},
				}, nil)
			},
			expected: "",
		},
		{
			name: "repository absent",
			setup: func(mecr *clientmock.MockECRClient) {
				mecr.On("BatchGetImage", ctx, mock.Anything).Return((*ecr.BatchGetImageOutput)(nil), &smithy.GenericAPIError{Code: "RepositoryNotFoundException"})
			},
			expected: "",
		},
		{
			name: "access denied",
			setup: func(mecr *clientmock.MockECRClient) {
				mecr.On("BatchGetImage", ctx, mock.Anything).Return((*ecr.BatchGetImageOutput)(nil), &smithy.GenericAPIError{Code: "AccessDeniedException"})
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mecr := &clientmock.MockECRClient{}
			tc.setup(mecr)

			got, err := FromClients(mecr).ImageDigest(ctx, "123456789012", "saml-stack/container-assets", "abc123")
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestPutRepository(t *testing.T) {
	ctx := context.Background()

	mecr := &clientmock.MockECRClient{}
	mecr.On("DescribeRepositories", ctx, mock.Anything).Return((*ecr.DescribeRepositoriesOutput)(nil), &smithy.GenericAPIError{Code: "RepositoryNotFoundException"})
	mecr.On("CreateRepository", ctx, mock.MatchedBy(func(i *ecr.CreateRepositoryInput) bool {
		return aws.ToString(i.RepositoryName) == "saml-stack/container-assets" && len(i.Tags) == 1
	})).Return(&ecr.CreateRepositoryOutput{}, nil)

	err := FromClients(mecr).PutRepository(ctx, "saml-stack/container-assets", map[string]string{"samlstack:stack": "SamlStack"})
	assert.NoError(t, err)
	mecr.AssertExpectations(t)
}

func TestToken(t *testing.T) {
	ctx := context.Background()

	mecr := &clientmock.MockECRClient{}
	mecr.On("GetAuthorizationToken", ctx, mock.Anything).Return(&ecr.GetAuthorizationTokenOutput{
		AuthorizationData: []types.AuthorizationData{
			{AuthorizationToken: aws.String(base64.StdEncoding.EncodeToString([]byte("AWS:secret:with:colons")))},
		},
	}, nil)

	token, err := FromClients(mecr).Token(ctx, "123456789012")
	assert.NoError(t, err)
	assert.Equal(t, "secret:with:colons", token)
}

func TestList(t *testing.T) {
	ctx := context.Background()

	mecr := &clientmock.MockECRClient{}
	mecr.On("DescribeImages", ctx, mock.MatchedBy(func(i *ecr.DescribeImagesInput) bool { return i.NextToken == nil })).Return(&ecr.DescribeImagesOutput{
		ImageDetails: []types.ImageDetail{{ImageDigest: aws.String("sha256:one")}},
		NextToken:    aws.String("next"),
	}, nil)
	mecr.On("DescribeImages", ctx, mock.MatchedBy(func(i *ecr.DescribeImagesInput) bool { return aws.ToString(i.NextToken) == "next" })).Return(&ecr.DescribeImagesOutput{
		ImageDetails: []types.ImageDetail{{ImageDigest: aws.String("sha256:two")}},
	}, nil)

	images, err := FromClients(mecr).List(ctx, "123456789012", "saml-stack/container-assets")
	assert.NoError(t, err)
	assert.Len(t, images, 2)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	digests := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("sha256:%064d", i)
		}
		return out
	}

	tests := []struct {
		name  string
		count int
		setup func(*clientmock.MockECRClient, *[]int)
		check func(t *testing.T, sizes []int, err error)
	}{
		{
			name:  "batches are capped at the ECR limit",
			count: 250,
			setup: func(mecr *clientmock.MockECRClient, sizes *[]int) {
				mecr.On("BatchDeleteImage", ctx, mock.Anything).Run(func(args mock.Arguments) {
					*sizes = append(*sizes, len(args.Get(1).(*ecr.BatchDeleteImageInput).ImageIds))
				}).Return(&ecr.BatchDeleteImageOutput{}, nil)
			},
			check: func(t *testing.T, sizes []int, err error) {
				assert.NoError(t, err)
				assert.Equal(t, []int{100, 100, 50}, sizes)
			},
		},
		{
			name:  "nothing to delete makes no call",
			count: 0,
			setup: func(mecr *clientmock.MockECRClient, sizes *[]int) {},
			check: func(t *testing.T, sizes []int, err error) {
				assert.NoError(t, err)
				assert.Empty(t, sizes)
			},
		},
		{
			name:  "already gone images are not failures",
			count: 2,
			setup: func(mecr *clientmock.MockECRClient, sizes *[]int) {
				mecr.On("BatchDeleteImage", ctx, mock.Anything).Return(&ecr.BatchDeleteImageOutput{
					Failures: []types.ImageFailure{
						{ImageId: &types.ImageIdentifier{ImageDigest: aws.String("sha256:gone")}, FailureCode: types.ImageFailureCodeImageNotFound},
					},
				}, nil)
			},
			check: func(t *testing.T, sizes []int, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "other per-image failures are reported",
			count: 2,
			setup: func(mecr *clientmock.MockECRClient, sizes *[]int) {
				mecr.On("BatchDeleteImage", ctx, mock.Anything).Return(&ecr.BatchDeleteImageOutput{
					Failures: []types.ImageFailure{
						{ImageId: &types.ImageIdentifier{ImageDigest: aws.String("sha256:held")}, FailureReason: aws.String("denied")},
					},
				}, nil)
			},
			check: func(t *testing.T, sizes []int, err error) {
				assert.ErrorContains(t, err, "sha256:held")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var sizes []int
			mecr := &clientmock.MockECRClient{}
			tc.setup(mecr, &sizes)

			err := FromClients(mecr).Delete(ctx, "123456789012", "saml-stack/container-assets", digests(tc.count))
			tc.check(t, sizes, err)
		})
	}
}

func TestInspectByDigest(t *testing.T) {
	ctx := context.Background()

	manifest := `{"schemaVersion":2,"mediaType":"application/vnd.docker.distribution.manifest.v2+json","config":{"mediaType":"application/vnd.docker.container.image.v1+json","size":100,"digest":"sha256:c0ffee"},"layers":[]}`

	tests := []struct {
		name   string
		layer  func(w http.ResponseWriter, r *http.Request)
		images []types.Image
		check  func(t *testing.T, arch, os, hash string, err error)
	}{
		{
			name: "config blob is decoded",
			layer: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"architecture":"amd64","os":"linux","config":{"Labels":{"samlstack:content-hash":"abc123"}}}`))
			},
			images: []types.Image{{ImageManifest: aws.String(manifest)}},
			check: func(t *testing.T, arch, os, hash string, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "amd64", arch)
				assert.Equal(t, "linux", os)
				assert.Equal(t, "abc123", hash)
			},
		},
		{
			name: "expired download url",
			layer: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
			images: []types.Image{{ImageManifest: aws.String(manifest)}},
			check: func(t *testing.T, arch, os, hash string, err error) {
				assert.ErrorContains(t, err, "403")
			},
		},
		{
			name:   "unknown digest",
			layer:  func(w http.ResponseWriter, r *http.Request) {},
			images: []types.Image{},
			check: func(t *testing.T, arch, os, hash string, err error) {
				assert.ErrorContains(t, err, "sha256:feed")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tc.layer))
			defer server.Close()

			mecr := &clientmock.MockECRClient{}
			mecr.On("BatchGetImage", ctx, mock.Anything).Return(&ecr.BatchGetImageOutput{Images: tc.images}, nil)
			mecr.On("GetDownloadUrlForLayer", ctx, mock.MatchedBy(func(in *ecr.GetDownloadUrlForLayerInput) bool {
				return aws.ToString(in.LayerDigest) == "sha256:c0ffee"
			})).Return(&ecr.GetDownloadUrlForLayerOutput{DownloadUrl: aws.String(server.URL)}, nil)

			inspect, err := FromClients(mecr).InspectByDigest(ctx, "123456789012", "saml-stack/container-assets", "sha256:feed")

			var hash string
			if inspect.Config != nil {
				hash = inspect.Config.Labels["samlstack:content-hash"]
			}

			tc.check(t, inspect.Architecture, inspect.Os, hash, err)
		})
	}
}
