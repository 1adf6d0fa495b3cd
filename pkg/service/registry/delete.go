package registry

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
)

// MaxBatchDelete is the most image ids ECR takes in one BatchDeleteImage call.
const MaxBatchDelete = 100

// Delete removes images by digest, MaxBatchDelete at a time. Per-image failures are reported together.
func (s Service) Delete(ctx context.Context, registryId, repository string, imageDigests []string) error {
	var failed []string

	for start := 0; start < len(imageDigests); start += MaxBatchDelete {
		end := min(start+MaxBatchDelete, len(imageDigests))

		input := &ecr.BatchDeleteImageInput{
			RegistryId:     aws.String(registryId),
			RepositoryName: aws.String(repository),
			ImageIds:       make([]types.ImageIdentifier, 0, end-start),
		}

		for _, digest := range imageDigests[start:end] {
			input.ImageIds = append(input.ImageIds, types.ImageIdentifier{
				ImageDigest: aws.String(digest),
			})
		}

		output, err := s.Client.Ecr.BatchDeleteImage(ctx, input)
		if err != nil {
			return err
		}

		for _, failure := range output.Failures {
			if failure.FailureCode == types.ImageFailureCodeImageNotFound {
				continue
			}
			failed = append(failed, fmt.Sprintf("%s: %s", aws.ToString(failure.ImageId.ImageDigest), aws.ToString(failure.FailureReason)))
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to delete %d images: %v", len(failed), failed)
	}

	return nil
}
