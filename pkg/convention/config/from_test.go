package config

import (
	"net/url"
	"testing"

	"github.com/linecard/samlstack/internal/gitlib"
	"github.com/linecard/samlstack/internal/umwelt"

	"github.com/stretchr/testify/assert"
)

func mockHere() umwelt.Here {
	origin, _ := url.Parse("https://github.com/linecard/samlstack.git")

	return umwelt.Here{
		Caller: umwelt.ThisCaller{
			Id:      "AIDAEXAMPLE",
			Arn:     "arn:aws:iam::123456789012:user/mock",
			Account: "123456789012",
			Region:  "us-west-2",
		},
		Git: gitlib.DotGit{
			Branch: "main",
			Sha:    "0123456789abcdef0123456789abcdef01234567",
			Root:   "/src/samlstack",
			Origin: origin,
		},
		Registry: umwelt.ThisRegistry{
			Id:     "123456789013",
			Region: "us-west-2",
		},
		Bus: umwelt.ThisBus{Name: "default"},
	}
}

func TestFromHere(t *testing.T) {
	got := FromHere(mockHere(), DefaultParams())

	expected := Config{
		Caller:   Caller{Id: "AIDAEXAMPLE", Arn: "arn:aws:iam::123456789012:user/mock"},
		Account:  Account{Id: "123456789012", Region: "us-west-2"},
		Git:      Git{Origin: "https://github.com/linecard/samlstack.git", Branch: "main", Sha: "0123456789abcdef0123456789abcdef01234567", Root: "/src/samlstack"},
		Registry: Registry{Id: "123456789013", Region: "us-west-2", Url: "123456789013.dkr.ecr.us-west-2.amazonaws.com"},
		Bus:      Bus{Name: "default"},
		Label:    Label{Stack: "samlstack:stack", LogicalId: "samlstack:logical-id", Sha: "samlstack:git-sha", ContentHash: "samlstack:content-hash"},
		Params:   DefaultParams(),
	}

	assert.EqualValuesf(t, expected, got, "%v failed", "Produces correct config from given here")

	assert.Equal(t, "SamlStack-SamlSpringBootFunction", got.ResourceName("SamlSpringBootFunction"))
	assert.Equal(t, "saml-stack/container-assets", got.RepositoryName())
	assert.Equal(t, "123456789013.dkr.ecr.us-west-2.amazonaws.com/saml-stack/container-assets", got.RepositoryUrl())
	assert.True(t, got.OwnsRepository("saml-stack/container-assets"))
	assert.False(t, got.OwnsRepository("other-stack/container-assets"))
}

func TestTags(t *testing.T) {
	c := FromHere(mockHere(), DefaultParams())

	assert.Equal(t, map[string]string{
		"samlstack:stack":      "SamlStack",
		"samlstack:logical-id": "SamlHttpApi",
		"samlstack:git-sha":    "0123456789abcdef0123456789abcdef01234567",
	}, c.Tags("SamlHttpApi"))

	c.Git.Sha = ""
	assert.NotContains(t, c.Tags("SamlHttpApi"), "samlstack:git-sha")
}

func TestImageLabels(t *testing.T) {
	c := FromHere(mockHere(), DefaultParams())

	labels := c.ImageLabels("deadbeef")
	assert.Equal(t, "SamlStack", labels["samlstack:stack"])
	assert.Equal(t, "deadbeef", labels["samlstack:content-hash"])
	assert.Equal(t, "0123456789abcdef0123456789abcdef01234567", labels["org.opencontainers.image.revision"])
	assert.Equal(t, "https://github.com/linecard/samlstack.git", labels["org.opencontainers.image.source"])

	c.Git = Git{}
	labels = c.ImageLabels("deadbeef")
	assert.NotContains(t, labels, LabelRevision)
	assert.NotContains(t, labels, LabelSource)
	assert.Len(t, labels, 2)
}
