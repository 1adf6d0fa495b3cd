package mock

import (
	"context"
	"time"

	"github.com/linecard/samlstack/pkg/convention/config"
	"github.com/linecard/samlstack/pkg/service/docker"

	"github.com/aws/aws-sdk-go-v2/aws"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
	dockertypes "github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/mock"
)

type MockRegistryService struct {
	mock.Mock
}

func (m *MockRegistryService) ImageDigest(ctx context.Context, registryId, repositoryName, tag string) (string, error) {
	args := m.Called(ctx, registryId, repositoryName, tag)
	return args.String(0), args.Error(1)
}

func (m *MockRegistryService) InspectByDigest(ctx context.Context, registryId, repositoryName, digest string) (dockertypes.ImageInspect, error) {
	args := m.Called(ctx, registryId, repositoryName, digest)
	return args.Get(0).(dockertypes.ImageInspect), args.Error(1)
}

func (m *MockRegistryService) List(ctx context.Context, registryId, repositoryName string) ([]ecrtypes.ImageDetail, error) {
	args := m.Called(ctx, registryId, repositoryName)
	return args.Get(0).([]ecrtypes.ImageDetail), args.Error(1)
}

func (m *MockRegistryService) Delete(ctx context.Context, registryId, repositoryName string, imageDigests []string) error {
	args := m.Called(ctx, registryId, repositoryName, imageDigests)
	return args.Error(0)
}

func (m *MockRegistryService) PutRepository(ctx context.Context, repositoryName string, tags map[string]string) error {
	args := m.Called(ctx, repositoryName, tags)
	return args.Error(0)
}

func (m *MockRegistryService) Token(ctx context.Context, registryId string) (string, error) {
	args := m.Called(ctx, registryId)
	return args.String(0), args.Error(1)
}

// MockBuildService stands in for the docker cli.
type MockBuildService struct {
	mock.Mock
}

func (m *MockBuildService) Build(ctx context.Context, in docker.BuildInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *MockBuildService) Push(ctx context.Context, tag string) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockBuildService) Login(ctx context.Context, registryUrl, username, password string) error {
	args := m.Called(ctx, registryUrl, username, password)
	return args.Error(0)
}

func (m *MockBuildService) Run(ctx context.Context, in docker.RunInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func MockImageInspect(c config.Config, digest, contentHash, arch string) dockertypes.ImageInspect {
	return dockertypes.ImageInspect{
		ID: digest,
		RepoTags: []string{
			c.RepositoryUrl() + ":" + contentHash,
		},
		RepoDigests: []string{
			c.RepositoryUrl() + "@" + digest,
		},
		Comment:       "Mocked release for testing purposes",
		Created:       time.Now().Format(time.RFC3339),
		DockerVersion: "26.1.0",
		Config: &container.Config{
			Labels: c.ImageLabels(contentHash),
		},
		Architecture: arch,
		Os:           "linux",
	}
}

func MockImageDetail(digest string, pushedAt time.Time, tags ...string) ecrtypes.ImageDetail {
	return ecrtypes.ImageDetail{
		ImageDigest:      aws.String(digest),
		ImageTags:        tags,
		ImageSizeInBytes: aws.Int64(0),
		ImagePushedAt:    aws.Time(pushedAt),
	}
}
