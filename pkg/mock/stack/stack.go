package mock

import (
	"context"

	"github.com/linecard/samlstack/internal/gitlib"
	"github.com/linecard/samlstack/pkg/convention/config"
	"github.com/linecard/samlstack/pkg/convention/stack"
	umweltmock "github.com/linecard/samlstack/pkg/mock/umwelt"

	"github.com/rs/zerolog/log"
)

const (
	MockTag    = "4f1c2e7d9a0b"
	MockDigest = "sha256:9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"
)

// Config resolves params from overrides alone, ignoring the process environment.
func Config(overrides map[string]string) config.Config {
	p, err := config.ResolveParams(overrides, func(string) (string, bool) { return "", false })
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve mock params")
	}

	git := gitlib.DotGit{
		Branch: "main",
		Sha:    "0123456789abcdef0123456789abcdef01234567",
		Root:   "/src/samlstack",
	}

	return config.FromHere(umweltmock.Here(git), p)
}

func Image(c config.Config) stack.ImageReference {
	return stack.ImageReference{
		Repository: c.RepositoryUrl(),
		Name:       c.RepositoryName(),
		Tag:        MockTag,
		Digest:     MockDigest,
		Platform:   stack.LinuxAmd64,
	}
}

func Graph(c config.Config) stack.Graph {
	g, err := stack.Build(context.Background(), c.Params, stack.FixedResolver{Reference: Image(c)})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build mock graph")
	}

	return g
}
