package release

import (
	"context"
	"fmt"

	"github.com/linecard/samlstack/pkg/convention/config"
	"github.com/linecard/samlstack/pkg/convention/stack"
	"github.com/linecard/samlstack/pkg/service/docker"

	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
	dockertypes "github.com/docker/docker/api/types"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type RegistryService interface {
	ImageDigest(ctx context.Context, registryId, repositoryName, tag string) (string, error)
	InspectByDigest(ctx context.Context, registryId, repositoryName, digest string) (dockertypes.ImageInspect, error)
	List(ctx context.Context, registryId, repositoryName string) ([]types.ImageDetail, error)
	Delete(ctx context.Context, registryId, repositoryName string, imageDigests []string) error
	PutRepository(ctx context.Context, repositoryName string, tags map[string]string) error
}

type BuildService interface {
	Build(ctx context.Context, in docker.BuildInput) error
	Push(ctx context.Context, tag string) error
}

type Service struct {
	Registry RegistryService
	Build    BuildService
}

// Convention resolves build contexts to content-addressed images in the stack's assets repository.
type Convention struct {
	Config  config.Config
	Service Service
}

var _ stack.ImageResolver = Convention{}

func FromServices(c config.Config, r RegistryService, b BuildService) Convention {
	return Convention{
		Config: c,
		Service: Service{
			Registry: r,
			Build:    b,
		},
	}
}

// Resolve hashes the build context and returns the image already published under that hash.
// Only a miss builds and pushes.
func (c Convention) Resolve(ctx context.Context, contextPath string, platform stack.Platform) (stack.ImageReference, error) {
	ctx, span := otel.Tracer("").Start(ctx, "release.Resolve")
	defer span.End()

	repositoryName := c.Config.RepositoryName()
	repositoryUrl := c.Config.RepositoryUrl()

	tag, err := ContentHash(contextPath, platform)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return stack.ImageReference{}, err
	}

	span.SetAttributes(
		attribute.String("build-context", contextPath),
		attribute.String("platform", platform.String()),
		attribute.String("repository-url", repositoryUrl),
		attribute.String("tag", tag),
	)

	if err := c.Service.Registry.PutRepository(ctx, repositoryName, c.Config.Tags(stack.ImageId)); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return stack.ImageReference{}, err
	}

	digest, err := c.Service.Registry.ImageDigest(ctx, c.Config.Registry.Id, repositoryName, tag)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return stack.ImageReference{}, err
	}

	if digest != "" {
		log.Info().Msgf("%s:%s already published", repositoryUrl, tag)
		span.SetAttributes(attribute.Bool("cache-hit", true))
		return c.Reference(ctx, tag, digest)
	}

	span.SetAttributes(attribute.Bool("cache-hit", false))

	image := repositoryUrl + ":" + tag

	log.Info().Msgf("building %s for %s", image, platform)

	err = c.Service.Build.Build(ctx, docker.BuildInput{
		Path:     contextPath,
		Platform: platform.String(),
		Labels:   c.Config.ImageLabels(tag),
		Tags:     []string{image},
	})

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return stack.ImageReference{}, fmt.Errorf("build %s: %w", image, err)
	}

	if err := c.Service.Build.Push(ctx, image); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return stack.ImageReference{}, fmt.Errorf("push %s: %w", image, err)
	}

	digest, err = c.Service.Registry.ImageDigest(ctx, c.Config.Registry.Id, repositoryName, tag)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return stack.ImageReference{}, err
	}

	if digest == "" {
		err = fmt.Errorf("pushed %s but the registry has no digest for it", image)
		span.SetStatus(codes.Error, err.Error())
		return stack.ImageReference{}, err
	}

	return c.Reference(ctx, tag, digest)
}

// Published is an image in the assets repository as the registry describes it.
// ContentHash is empty for images that were not built by Resolve.
type Published struct {
	Reference   stack.ImageReference
	ContentHash string
	Revision    string
}

// Inspect reads a published image by digest: its platform and the labels Resolve stamps on it.
func (c Convention) Inspect(ctx context.Context, tag, digest string) (Published, error) {
	ctx, span := otel.Tracer("").Start(ctx, "release.Inspect")
	defer span.End()

	span.SetAttributes(
		attribute.String("tag", tag),
		attribute.String("digest", digest),
	)

	inspect, err := c.Service.Registry.InspectByDigest(ctx, c.Config.Registry.Id, c.Config.RepositoryName(), digest)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Published{}, err
	}

	published := Published{
		Reference: stack.ImageReference{
			Repository: c.Config.RepositoryUrl(),
			Name:       c.Config.RepositoryName(),
			Tag:        tag,
			Digest:     digest,
			Platform: stack.Platform{
				OS:           inspect.Os,
				Architecture: inspect.Architecture,
			},
		},
	}

	if inspect.Config != nil {
		published.ContentHash = inspect.Config.Labels[c.Config.Label.ContentHash]
		published.Revision = inspect.Config.Labels[config.LabelRevision]
	}

	return published, nil
}

// Reference pins a published image by digest. An image labelled with a content hash other
// than tag is rejected; images pushed by other tooling carry no hash label and are taken as is.
func (c Convention) Reference(ctx context.Context, tag, digest string) (stack.ImageReference, error) {
	published, err := c.Inspect(ctx, tag, digest)
	if err != nil {
		return stack.ImageReference{}, err
	}

	if published.ContentHash != "" && published.ContentHash != tag {
		return stack.ImageReference{}, fmt.Errorf("image %s is labelled with content hash %s, not %s", digest, published.ContentHash, tag)
	}

	return published.Reference, nil
}

// Offline resolves to the content-addressed tag without touching the registry or docker.
type Offline struct {
	Config config.Config
}

var _ stack.ImageResolver = Offline{}

func (o Offline) Resolve(ctx context.Context, contextPath string, platform stack.Platform) (stack.ImageReference, error) {
	tag, err := ContentHash(contextPath, platform)
	if err != nil {
		return stack.ImageReference{}, err
	}

	return stack.ImageReference{
		Repository: o.Config.RepositoryUrl(),
		Name:       o.Config.RepositoryName(),
		Tag:        tag,
		Platform:   platform,
	}, nil
}

// Unresolved tags a Placeholder reference.
const Unresolved = "unresolved"

// Placeholder names the repository without reading the build context. Teardown and
// read-back only need physical names, never the image.
type Placeholder struct {
	Config config.Config
}

var _ stack.ImageResolver = Placeholder{}

func (p Placeholder) Resolve(ctx context.Context, contextPath string, platform stack.Platform) (stack.ImageReference, error) {
	return stack.ImageReference{
		Repository: p.Config.RepositoryUrl(),
		Name:       p.Config.RepositoryName(),
		Tag:        Unresolved,
		Platform:   platform,
	}, nil
}
