package handler

import (
	"github.com/linecard/samlstack/pkg/convention/config"
	"github.com/linecard/samlstack/pkg/convention/deployment"
	"github.com/linecard/samlstack/pkg/convention/release"
	"github.com/linecard/samlstack/pkg/convention/stack"
)

// Inherit carries the deployed function's intent into p, so a push redeploys
// what was last applied rather than the handler's own environment.
func Inherit(p config.Params, deployed deployment.Deployment, hasUrl bool) config.Params {
	pick := func(key, fallback string) string {
		if v, ok := deployed.Environment[key]; ok {
			return v
		}
		return fallback
	}

	p.BaseUrl = pick(stack.EnvBaseUrl, p.BaseUrl)
	p.IdpEntityId = pick(stack.EnvIdpEntityId, p.IdpEntityId)
	p.SpEntityId = pick(stack.EnvSpEntityId, p.SpEntityId)

	if deployed.MemorySize > 0 {
		p.MemorySize = deployed.MemorySize
	}

	if deployed.Timeout > 0 {
		p.Timeout = deployed.Timeout
	}

	p.FunctionUrl = hasUrl

	return p
}

// AppliedByCli reports whether the image was built by samlstack itself. The CLI applies
// those images with the operator's parameters, so the handler leaves them alone.
func AppliedByCli(published release.Published) bool {
	return published.ContentHash != ""
}
