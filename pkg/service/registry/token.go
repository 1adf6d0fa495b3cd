package registry

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
)

func (s Service) Token(ctx context.Context, registryId string) (string, error) {
	input := &ecr.GetAuthorizationTokenInput{
		RegistryIds: []string{registryId},
	}

	output, err := s.Client.Ecr.GetAuthorizationToken(ctx, input)
	if err != nil {
		return "", err
	}

	if len(output.AuthorizationData) == 0 {
		return "", fmt.Errorf("no authorization data returned for registry %s", registryId)
	}

	encodedToken := aws.ToString(output.AuthorizationData[0].AuthorizationToken)

	data, err := base64.StdEncoding.DecodeString(encodedToken)
	if err != nil {
		return "", err
	}

	_, token, found := strings.Cut(string(data), ":")
	if !found {
		return "", fmt.Errorf("malformed authorization token for registry %s", registryId)
	}

	return token, nil
}
