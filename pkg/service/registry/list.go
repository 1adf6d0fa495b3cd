package registry

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
)

// List pages through every image in the repository.
func (s Service) List(ctx context.Context, registryId, repository string) ([]types.ImageDetail, error) {
	var images []types.ImageDetail

	paginator := ecr.NewDescribeImagesPaginator(s.Client.Ecr, &ecr.DescribeImagesInput{
		RegistryId:     aws.String(registryId),
		RepositoryName: aws.String(repository),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}

		images = append(images, page.ImageDetails...)
	}

	return images, nil
}
