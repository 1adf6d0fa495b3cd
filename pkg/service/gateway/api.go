package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/aws/smithy-go"
)

type ApiInput struct {
	Name        string
	Description string
	Cors        types.Cors
	Tags        map[string]string
	// OwnerKey names the tag whose value in Tags identifies this api among same-named ones.
	OwnerKey string
}

func (s Service) GetApi(ctx context.Context, apiId string) (*apigatewayv2.GetApiOutput, error) {
	return s.Client.Gw.GetApi(ctx, &apigatewayv2.GetApiInput{
		ApiId: aws.String(apiId),
	})
}

// FindApi returns the http api carrying name and the owner tag, or nil when there is none.
func (s Service) FindApi(ctx context.Context, name, ownerKey, ownerValue string) (*types.Api, error) {
	var matches []types.Api
	var nextToken *string

	for {
		apis, err := s.Client.Gw.GetApis(ctx, &apigatewayv2.GetApisInput{
			NextToken: nextToken,
		})

		if err != nil {
			return nil, err
		}

		for _, api := range apis.Items {
			if aws.ToString(api.Name) == name && api.Tags[ownerKey] == ownerValue && api.ProtocolType == types.ProtocolTypeHttp {
				matches = append(matches, api)
			}
		}

		if apis.NextToken == nil {
			break
		}

		nextToken = apis.NextToken
	}

	if len(matches) > 1 {
		return nil, fmt.Errorf("multiple apis named %s owned by %s", name, ownerValue)
	}

	if len(matches) == 0 {
		return nil, nil
	}

	return &matches[0], nil
}

func (s Service) PutApi(ctx context.Context, in ApiInput) (*apigatewayv2.GetApiOutput, error) {
	existing, err := s.FindApi(ctx, in.Name, in.OwnerKey, in.Tags[in.OwnerKey])
	if err != nil {
		return nil, err
	}

	if existing == nil {
		created, err := s.Client.Gw.CreateApi(ctx, &apigatewayv2.CreateApiInput{
			Name:              aws.String(in.Name),
			Description:       aws.String(in.Description),
			ProtocolType:      types.ProtocolTypeHttp,
			CorsConfiguration: &in.Cors,
			Tags:              in.Tags,
		})

		if err != nil {
			return nil, err
		}

		return s.GetApi(ctx, aws.ToString(created.ApiId))
	}

	updated, err := s.Client.Gw.UpdateApi(ctx, &apigatewayv2.UpdateApiInput{
		ApiId:             existing.ApiId,
		Name:              aws.String(in.Name),
		Description:       aws.String(in.Description),
		CorsConfiguration: &in.Cors,
	})

	if err != nil {
		return nil, err
	}

	return s.GetApi(ctx, aws.ToString(updated.ApiId))
}

// DeleteApi removes the api and everything under it. A missing api is not an error.
func (s Service) DeleteApi(ctx context.Context, apiId string) error {
	var apiErr smithy.APIError

	_, err := s.Client.Gw.DeleteApi(ctx, &apigatewayv2.DeleteApiInput{
		ApiId: aws.String(apiId),
	})

	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFoundException" {
		return nil
	}

	return err
}

// StageExists reports whether the api has a stage called name.
func (s Service) StageExists(ctx context.Context, apiId, name string) (bool, error) {
	var apiErr smithy.APIError

	_, err := s.Client.Gw.GetStage(ctx, &apigatewayv2.GetStageInput{
		ApiId:     aws.String(apiId),
		StageName: aws.String(name),
	})

	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFoundException" {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

func (s Service) PutStage(ctx context.Context, apiId, name string, autoDeploy bool, tags map[string]string) (*apigatewayv2.GetStageOutput, error) {
	var apiErr smithy.APIError

	getStageInput := &apigatewayv2.GetStageInput{
		ApiId:     aws.String(apiId),
		StageName: aws.String(name),
	}

	_, err := s.Client.Gw.GetStage(ctx, getStageInput)
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFoundException":
			_, err := s.Client.Gw.CreateStage(ctx, &apigatewayv2.CreateStageInput{
				ApiId:      aws.String(apiId),
				StageName:  aws.String(name),
				AutoDeploy: aws.Bool(autoDeploy),
				Tags:       tags,
			})

			if err != nil {
				return nil, err
			}

			return s.Client.Gw.GetStage(ctx, getStageInput)
		default:
			return nil, err
		}
	}

	if err != nil {
		return nil, err
	}

	_, err = s.Client.Gw.UpdateStage(ctx, &apigatewayv2.UpdateStageInput{
		ApiId:      aws.String(apiId),
		StageName:  aws.String(name),
		AutoDeploy: aws.Bool(autoDeploy),
	})

	if err != nil {
		return nil, err
	}

	return s.Client.Gw.GetStage(ctx, getStageInput)
}
