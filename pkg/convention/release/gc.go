package release

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/smithy-go"
	"github.com/golang-module/carbon/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type ReleaseSummary struct {
	ImageDigest string   `json:"imageDigest" yaml:"imageDigest"`
	Tags        []string `json:"tags" yaml:"tags"`
	Released    string   `json:"released" yaml:"released"`
}

func (c Convention) List(ctx context.Context) ([]ReleaseSummary, error) {
	var releases []ReleaseSummary
	var apiErr smithy.APIError

	list, err := c.Service.Registry.List(ctx, c.Config.Registry.Id, c.Config.RepositoryName())
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "RepositoryNotFoundException":
			return []ReleaseSummary{}, nil
		default:
			return []ReleaseSummary{}, err
		}
	}

	if err != nil {
		return []ReleaseSummary{}, err
	}

	for _, image := range list {
		summary := ReleaseSummary{
			ImageDigest: aws.ToString(image.ImageDigest),
			Tags:        image.ImageTags,
		}

		if image.ImagePushedAt != nil {
			summary.Released = image.ImagePushedAt.Format(time.RFC3339)
		}

		releases = append(releases, summary)
	}

	return releases, nil
}

// GcPlan keeps the digests in keep and anything pushed within retention. Untagged images always go.
func (c Convention) GcPlan(ctx context.Context, keep []string, retentionWeeks int) ([]ReleaseSummary, []string, error) {
	ctx, span := otel.Tracer("").Start(ctx, "release.GcPlan")
	defer span.End()

	releases, err := c.List(ctx)
	if err != nil {
		return []ReleaseSummary{}, []string{}, err
	}

	pinned := map[string]bool{}
	for _, digest := range keep {
		pinned[digest] = true
	}

	var saveDigests []ReleaseSummary
	var deleteDigests []string

	cutoff := carbon.CreateFromStdTime(time.Now()).SubWeeks(retentionWeeks)

	for _, release := range releases {
		released := carbon.Parse(release.Released)

		switch {
		case pinned[release.ImageDigest]:
			saveDigests = append(saveDigests, release)
		case len(release.Tags) == 0:
			deleteDigests = append(deleteDigests, release.ImageDigest)
		case released.Lt(cutoff):
			deleteDigests = append(deleteDigests, release.ImageDigest)
		default:
			saveDigests = append(saveDigests, release)
		}
	}

	span.SetAttributes(
		attribute.Int("save", len(saveDigests)),
		attribute.Int("delete", len(deleteDigests)),
	)

	return saveDigests, deleteDigests, nil
}

func (c Convention) GcApply(ctx context.Context, digests []string) error {
	if len(digests) == 0 {
		return nil
	}

	return c.Service.Registry.Delete(ctx, c.Config.Registry.Id, c.Config.RepositoryName(), digests)
}
