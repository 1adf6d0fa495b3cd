package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/linecard/samlstack/pkg/convention/config"
	"github.com/linecard/samlstack/pkg/convention/stack"
	repomock "github.com/linecard/samlstack/pkg/mock/repo"
	servicemock "github.com/linecard/samlstack/pkg/mock/service"
	stackmock "github.com/linecard/samlstack/pkg/mock/stack"
	"github.com/linecard/samlstack/pkg/service/docker"

	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/aws/smithy-go"
	dockertypes "github.com/docker/docker/api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestContentHash(t *testing.T) {
	root, cleanup := repomock.MockBuildContext(map[string]string{
		"pom.xml":                        "<project/>",
		"src/main/resources/app.yml":     "server.port: 8080",
		"src/main/java/demo/App.java":    "class App {}",
		".git/HEAD":                      "ref: refs/heads/main",
		"src/main/resources/static/a.js": "",
	})
	defer cleanup()

	first, err := ContentHash(root, stack.LinuxAmd64)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	t.Run("stable across calls", func(t *testing.T) {
		again, err := ContentHash(root, stack.LinuxAmd64)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	})

	t.Run("platform is part of the hash", func(t *testing.T) {
		arm, err := ContentHash(root, stack.Platform{OS: "linux", Architecture: "arm64"})
		require.NoError(t, err)
		assert.NotEqual(t, first, arm)
	})

	t.Run("git metadata is ignored", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "HEAD"), []byte("ref: refs/heads/other"), 0644))
		again, err := ContentHash(root, stack.LinuxAmd64)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	})

	t.Run("any source change moves the hash", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "pom.xml"), []byte("<project></project>"), 0644))
		changed, err := ContentHash(root, stack.LinuxAmd64)
		require.NoError(t, err)
		assert.NotEqual(t, first, changed)
	})

	t.Run("missing context is an error", func(t *testing.T) {
		_, err := ContentHash(filepath.Join(root, "absent"), stack.LinuxAmd64)
		assert.Error(t, err)
	})

	t.Run("context without a Dockerfile is an error", func(t *testing.T) {
		_, err := ContentHash(t.TempDir(), stack.LinuxAmd64)
		assert.ErrorContains(t, err, "Dockerfile")
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	cfg := stackmock.Config(nil)

	root, cleanup := repomock.MockBuildContext(map[string]string{"pom.xml": "<project/>"})
	defer cleanup()

	tag, err := ContentHash(root, stack.LinuxAmd64)
	require.NoError(t, err)

	repositoryName := cfg.RepositoryName()
	image := cfg.RepositoryUrl() + ":" + tag
	digest := stackmock.MockDigest

	tests := []struct {
		name  string
		setup func(*servicemock.MockRegistryService, *servicemock.MockBuildService)
		test  func(*testing.T, stack.ImageReference, error, *servicemock.MockBuildService)
	}{
		{
			name: "published tag is reused without building",
			setup: func(mrs *servicemock.MockRegistryService, mbs *servicemock.MockBuildService) {
				mrs.On("PutRepository", mock.Anything, repositoryName, cfg.Tags(stack.ImageId)).Return(nil)
				mrs.On("ImageDigest", mock.Anything, cfg.Registry.Id, repositoryName, tag).Return(digest, nil)
				mrs.On("InspectByDigest", mock.Anything, cfg.Registry.Id, repositoryName, digest).Return(servicemock.MockImageInspect(cfg, digest, tag, "amd64"), nil)
			},
			test: func(t *testing.T, ref stack.ImageReference, err error, mbs *servicemock.MockBuildService) {
				require.NoError(t, err)
				assert.Equal(t, stack.ImageReference{
					Repository: cfg.RepositoryUrl(),
					Name:       repositoryName,
					Tag:        tag,
					Digest:     digest,
					Platform:   stack.LinuxAmd64,
				}, ref)
				mbs.AssertNotCalled(t, "Build", mock.Anything, mock.Anything)
			},
		},
		{
			name: "unpublished tag is built, pushed and pinned",
			setup: func(mrs *servicemock.MockRegistryService, mbs *servicemock.MockBuildService) {
				mrs.On("PutRepository", mock.Anything, repositoryName, mock.Anything).Return(nil)
				mrs.On("ImageDigest", mock.Anything, cfg.Registry.Id, repositoryName, tag).Return("", nil).Once()
				mbs.On("Build", mock.Anything, docker.BuildInput{
					Path:     root,
					Platform: "linux/amd64",
					Labels:   cfg.ImageLabels(tag),
					Tags:     []string{image},
				}).Return(nil)
				mbs.On("Push", mock.Anything, image).Return(nil)
				mrs.On("ImageDigest", mock.Anything, cfg.Registry.Id, repositoryName, tag).Return(digest, nil).Once()
				mrs.On("InspectByDigest", mock.Anything, cfg.Registry.Id, repositoryName, digest).Return(servicemock.MockImageInspect(cfg, digest, tag, "amd64"), nil)
			},
			test: func(t *testing.T, ref stack.ImageReference, err error, mbs *servicemock.MockBuildService) {
				require.NoError(t, err)
				assert.Equal(t, cfg.RepositoryUrl()+"@"+digest, ref.Uri())
			},
		},
		{
			name: "build failure stops before push",
			setup: func(mrs *servicemock.MockRegistryService, mbs *servicemock.MockBuildService) {
				mrs.On("PutRepository", mock.Anything, repositoryName, mock.Anything).Return(nil)
				mrs.On("ImageDigest", mock.Anything, cfg.Registry.Id, repositoryName, tag).Return("", nil)
				mbs.On("Build", mock.Anything, mock.Anything).Return(fmt.Errorf("exit status 1"))
			},
			test: func(t *testing.T, ref stack.ImageReference, err error, mbs *servicemock.MockBuildService) {
				assert.ErrorContains(t, err, "build "+image)
				assert.Equal(t, stack.ImageReference{}, ref)
				mbs.AssertNotCalled(t, "Push", mock.Anything, mock.Anything)
			},
		},
		{
			name: "image labelled with another hash is rejected",
			setup: func(mrs *servicemock.MockRegistryService, mbs *servicemock.MockBuildService) {
				mrs.On("PutRepository", mock.Anything, repositoryName, mock.Anything).Return(nil)
				mrs.On("ImageDigest", mock.Anything, cfg.Registry.Id, repositoryName, tag).Return(digest, nil)
				mrs.On("InspectByDigest", mock.Anything, cfg.Registry.Id, repositoryName, digest).Return(servicemock.MockImageInspect(cfg, digest, "stale", "amd64"), nil)
			},
			test: func(t *testing.T, ref stack.ImageReference, err error, mbs *servicemock.MockBuildService) {
				assert.ErrorContains(t, err, "stale")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mrs := &servicemock.MockRegistryService{}
			mbs := &servicemock.MockBuildService{}

			tc.setup(mrs, mbs)

			ref, err := FromServices(cfg, mrs, mbs).Resolve(ctx, root, stack.LinuxAmd64)
			tc.test(t, ref, err, mbs)

			mrs.AssertExpectations(t)
			mbs.AssertExpectations(t)
		})
	}
}

func TestInspect(t *testing.T) {
	ctx := context.Background()
	cfg := stackmock.Config(nil)
	digest := stackmock.MockDigest

	labelled := servicemock.MockImageInspect(cfg, digest, "deadbeef", "arm64")
	foreign := servicemock.MockImageInspect(cfg, digest, "v1.2.3", "amd64")
	foreign.Config.Labels = map[string]string{config.LabelRevision: "feedface"}

	tests := []struct {
		name        string
		tag         string
		inspect     dockertypes.ImageInspect
		contentHash string
		revision    string
		platform    stack.Platform
	}{
		{
			name:        "built here",
			tag:         "deadbeef",
			inspect:     labelled,
			contentHash: "deadbeef",
			revision:    cfg.Git.Sha,
			platform:    stack.Platform{OS: "linux", Architecture: "arm64"},
		},
		{
			name:     "pushed by other tooling",
			tag:      "v1.2.3",
			inspect:  foreign,
			revision: "feedface",
			platform: stack.LinuxAmd64,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mrs := &servicemock.MockRegistryService{}
			mrs.On("InspectByDigest", mock.Anything, cfg.Registry.Id, cfg.RepositoryName(), digest).Return(tc.inspect, nil)

			published, err := FromServices(cfg, mrs, &servicemock.MockBuildService{}).Inspect(ctx, tc.tag, digest)
			require.NoError(t, err)

			assert.Equal(t, tc.contentHash, published.ContentHash)
			assert.Equal(t, tc.revision, published.Revision)
			assert.Equal(t, tc.platform, published.Reference.Platform)
			assert.Equal(t, cfg.RepositoryUrl()+"@"+digest, published.Reference.Uri())
			mrs.AssertExpectations(t)
		})
	}
}

func TestOffline(t *testing.T) {
	cfg := stackmock.Config(nil)

	root, cleanup := repomock.MockBuildContext(nil)
	defer cleanup()

	ref, err := Offline{Config: cfg}.Resolve(context.Background(), root, stack.LinuxAmd64)
	require.NoError(t, err)

	assert.Empty(t, ref.Digest)
	assert.Equal(t, cfg.RepositoryUrl()+":"+ref.Tag, ref.Uri())
	assert.Equal(t, stack.LinuxAmd64, ref.Platform)
}

func TestPlaceholder(t *testing.T) {
	ctx := context.Background()

	cfg := stackmock.Config(map[string]string{config.CtxBuildContext: filepath.Join(t.TempDir(), "gone")})

	t.Run("offline needs the build context", func(t *testing.T) {
		_, err := stack.Build(ctx, cfg.Params, Offline{Config: cfg})

		var resolution *stack.ResolutionError
		assert.True(t, errors.As(err, &resolution))
	})

	t.Run("placeholder builds without it", func(t *testing.T) {
		g, err := stack.Build(ctx, cfg.Params, Placeholder{Config: cfg})
		require.NoError(t, err)

		assert.Equal(t, cfg.ResourceName(stack.FunctionId), g.Function.Name)
		assert.Equal(t, Unresolved, g.Image.Tag)
		assert.Equal(t, cfg.RepositoryUrl()+":"+Unresolved, g.Image.Uri())
	})
}

func TestGc(t *testing.T) {
	ctx := context.Background()
	cfg := stackmock.Config(nil)
	now := time.Now()

	images := []ecrtypes.ImageDetail{
		servicemock.MockImageDetail("sha256:current", now.AddDate(0, -3, 0), "current"),
		servicemock.MockImageDetail("sha256:recent", now.AddDate(0, 0, -3), "recent"),
		servicemock.MockImageDetail("sha256:old", now.AddDate(0, -2, 0), "old"),
		servicemock.MockImageDetail("sha256:untagged", now),
	}

	t.Run("plan keeps pinned and recent images", func(t *testing.T) {
		mrs := &servicemock.MockRegistryService{}
		mrs.On("List", mock.Anything, cfg.Registry.Id, cfg.RepositoryName()).Return(images, nil)

		save, remove, err := FromServices(cfg, mrs, nil).GcPlan(ctx, []string{"sha256:current"}, 4)
		require.NoError(t, err)

		var saved []string
		for _, s := range save {
			saved = append(saved, s.ImageDigest)
		}

		assert.Equal(t, []string{"sha256:current", "sha256:recent"}, saved)
		assert.Equal(t, []string{"sha256:old", "sha256:untagged"}, remove)
	})

	t.Run("missing repository has nothing to collect", func(t *testing.T) {
		mrs := &servicemock.MockRegistryService{}
		mrs.On("List", mock.Anything, cfg.Registry.Id, cfg.RepositoryName()).Return([]ecrtypes.ImageDetail(nil), &smithy.GenericAPIError{Code: "RepositoryNotFoundException"})

		save, remove, err := FromServices(cfg, mrs, nil).GcPlan(ctx, nil, 4)
		require.NoError(t, err)
		assert.Empty(t, save)
		assert.Empty(t, remove)
	})

	t.Run("apply with nothing to delete makes no call", func(t *testing.T) {
		mrs := &servicemock.MockRegistryService{}
		assert.NoError(t, FromServices(cfg, mrs, nil).GcApply(ctx, nil))
		mrs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
