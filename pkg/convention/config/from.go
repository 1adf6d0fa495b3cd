package config

import (
	"github.com/linecard/samlstack/internal/umwelt"
)

func FromHere(here umwelt.Here, p Params) (c Config) {
	c.Caller.Id = here.Caller.Id
	c.Caller.Arn = here.Caller.Arn

	c.Account.Id = here.Caller.Account
	c.Account.Region = here.Caller.Region

	c.Registry.Id = here.Registry.Id
	c.Registry.Region = here.Registry.Region
	c.Registry.Url = c.Registry.Id + ".dkr.ecr." + c.Registry.Region + ".amazonaws.com"

	if here.Git.Origin != nil {
		c.Git.Origin = here.Git.Origin.String()
	}
	c.Git.Branch = here.Git.Branch
	c.Git.Sha = here.Git.Sha
	c.Git.Root = here.Git.Root
	c.Git.Dirty = here.Git.Dirty

	c.Bus.Name = here.Bus.Name

	c.Label.Stack = "samlstack:stack"
	c.Label.LogicalId = "samlstack:logical-id"
	c.Label.Sha = "samlstack:git-sha"
	c.Label.ContentHash = "samlstack:content-hash"

	c.Params = p

	return
}
