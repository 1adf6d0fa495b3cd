package config

import (
	"encoding/json"
	"strings"

	"github.com/linecard/samlstack/internal/util"
)

type Caller struct {
	Id  string
	Arn string
}

type Account struct {
	Id     string
	Region string
}

type Git struct {
	Origin string
	Branch string
	Sha    string
	Root   string
	Dirty  bool
}

type Registry struct {
	Id     string
	Region string
	Url    string
}

type Bus struct {
	Name string
}

type Label struct {
	Stack       string
	LogicalId   string
	Sha         string
	ContentHash string
}

// Config is everything discovered about the caller plus the resolved Params.
// It is built once and passed by value.
type Config struct {
	Caller   Caller
	Account  Account
	Git      Git
	Registry Registry
	Bus      Bus
	Label    Label
	Params   Params
}

func (c Config) ResourceName(logicalId string) string {
	return c.Params.ResourceName(logicalId)
}

func (c Config) RepositoryName() string {
	return util.Kebab(c.Params.StackName) + "/container-assets"
}

func (c Config) RepositoryUrl() string {
	return c.Registry.Url + "/" + c.RepositoryName()
}

// OwnsRepository reports whether a registry repository name belongs to this stack.
func (c Config) OwnsRepository(repositoryName string) bool {
	return strings.TrimSpace(repositoryName) == c.RepositoryName()
}

// Tags are stamped on every materialized resource.
func (c Config) Tags(logicalId string) map[string]string {
	tags := map[string]string{
		c.Label.Stack:     c.Params.StackName,
		c.Label.LogicalId: logicalId,
	}

	if c.Git.Sha != "" {
		tags[c.Label.Sha] = c.Git.Sha
	}

	return tags
}

// OCI annotation keys set on built images.
const (
	LabelRevision = "org.opencontainers.image.revision"
	LabelSource   = "org.opencontainers.image.source"
)

// ImageLabels are baked into every image built for the stack.
func (c Config) ImageLabels(contentHash string) map[string]string {
	labels := map[string]string{
		c.Label.Stack:       c.Params.StackName,
		c.Label.ContentHash: contentHash,
	}

	if c.Git.Sha != "" {
		labels[LabelRevision] = c.Git.Sha
	}

	if c.Git.Origin != "" {
		labels[LabelSource] = c.Git.Origin
	}

	return labels
}

func (c Config) Json() (string, error) {
	cJson, err := json.Marshal(c)
	if err != nil {
		return "", err
	}

	return string(cJson), nil
}
