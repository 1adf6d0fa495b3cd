package umwelt

import (
	"context"
	"fmt"
	"strings"

	"github.com/linecard/samlstack/internal/gitlib"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// https://en.wikipedia.org/wiki/Umwelt
//
// Here is what the process can perceive about where it runs: who is calling, which registry
// to publish to, and which commit the build context belongs to.

type STSClient interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type ECRClient interface {
	DescribeRegistry(ctx context.Context, params *ecr.DescribeRegistryInput, optFns ...func(*ecr.Options)) (*ecr.DescribeRegistryOutput, error)
}

const (
	EnvEcrId     = "AWS_ECR_REGISTRY_ID"
	EnvEcrRegion = "AWS_ECR_REGION"
	EnvBusName   = "SAMLSTACK_BUS_NAME"
)

type ThisCaller struct {
	Id      string
	Arn     string
	Account string
	Region  string
}

type ThisRegistry struct {
	Id     string
	Region string
}

type ThisBus struct {
	Name string
}

type Here struct {
	Caller   ThisCaller
	Git      gitlib.DotGit
	Registry ThisRegistry
	Bus      ThisBus
}

func FromCwd(ctx context.Context, git gitlib.DotGit, awsConfig aws.Config, ecrc ECRClient, stsc STSClient) (here Here, err error) {
	if here, err = perceive(ctx, awsConfig, ecrc, stsc); err != nil {
		return here, err
	}

	here.Git = git

	return here, nil
}

// FromEvent perceives from inside the deploy handler, where there is no worktree.
// The commit, when known, comes from the pushed image's revision label.
func FromEvent(ctx context.Context, event events.ECRImageActionEvent, awsConfig aws.Config, ecrc ECRClient, stsc STSClient) (here Here, err error) {
	if event.Detail.RepositoryName == "" {
		return here, fmt.Errorf("event %s carries no repository name", event.ID)
	}

	if here, err = perceive(ctx, awsConfig, ecrc, stsc); err != nil {
		return here, err
	}

	return here, nil
}

func perceive(ctx context.Context, awsConfig aws.Config, ecrc ECRClient, stsc STSClient) (here Here, err error) {
	caller, err := stsc.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return here, err
	}

	here.Caller.Id = aws.ToString(caller.UserId)
	here.Caller.Arn = aws.ToString(caller.Arn)
	here.Caller.Account = aws.ToString(caller.Account)
	here.Caller.Region = awsConfig.Region

	here.Registry.Region = GetRegistryRegion(EnvEcrRegion, awsConfig)
	if here.Registry.Id, err = GetRegistryId(ctx, EnvEcrId, ecrc); err != nil {
		return here, err
	}

	here.Bus.Name = strings.TrimSpace(GetBusName(EnvBusName))

	return here, nil
}
