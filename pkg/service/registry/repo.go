package registry

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/aws/smithy-go"
)

// PutRepository creates the repository on first use, tagged with its owner.
func (s Service) PutRepository(ctx context.Context, repositoryName string, tags map[string]string) error {
	var apiErr smithy.APIError

	_, err := s.Client.Ecr.DescribeRepositories(ctx, &ecr.DescribeRepositoriesInput{
		RepositoryNames: []string{repositoryName},
	})

	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "RepositoryNotFoundException":
			var ecrTags []types.Tag
			for key, value := range tags {
				ecrTags = append(ecrTags, types.Tag{Key: aws.String(key), Value: aws.String(value)})
			}

			_, err = s.Client.Ecr.CreateRepository(ctx, &ecr.CreateRepositoryInput{
				RepositoryName: aws.String(repositoryName),
				ImageScanningConfiguration: &types.ImageScanningConfiguration{
					ScanOnPush: true,
				},
				Tags: ecrTags,
			})

			if err != nil {
				return err
			}

		case "RepositoryAlreadyExistsException":
			return nil

		default:
			return err
		}
	}

	return err
}
