package method

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/linecard/samlstack/cmd/cli/param"
	"github.com/linecard/samlstack/cmd/cli/view"
	"github.com/linecard/samlstack/pkg/convention/probe"
	"github.com/linecard/samlstack/pkg/convention/release"
	"github.com/linecard/samlstack/pkg/convention/stack"
	"github.com/linecard/samlstack/pkg/sdk"

	"github.com/rs/zerolog/log"
)

// offline builds the graph without publishing anything.
func offline(ctx context.Context, api sdk.API) stack.Graph {
	g, err := stack.Build(ctx, api.Config.Params, release.Offline{Config: api.Config})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build resource graph")
	}
	return g
}

// named builds the graph for commands that only address live resources by name.
func named(ctx context.Context, api sdk.API) stack.Graph {
	g, err := stack.Build(ctx, api.Config.Params, release.Placeholder{Config: api.Config})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build resource graph")
	}
	return g
}

// published builds the graph against the assets repository, building and pushing on a miss.
func published(ctx context.Context, api sdk.API, login bool) stack.Graph {
	if login {
		if err := api.Account.LoginToEcr(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to login to ECR")
		}
	}

	g, err := stack.Build(ctx, api.Config.Params, api.Release)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build resource graph")
	}
	return g
}

// ready polls every public endpoint among outputs.
func ready(ctx context.Context, api sdk.API, g stack.Graph, outputs []stack.OutputValue, within time.Duration) []probe.Result {
	var results []probe.Result

	for _, o := range outputs {
		if o.Name != "ApiEndpoint" && o.Name != "FunctionUrl" {
			continue
		}

		result, err := api.Probe.Ready(ctx, probe.ReadinessUrl(o.Value, g.Function), within)
		if err != nil {
			log.Fatal().Err(err).Str("url", result.Url).Int("attempts", result.Attempts).Msg("endpoint never became ready")
		}

		results = append(results, result)
	}

	return results
}

func emit(v any, asJson bool) {
	out, err := view.Encode(v, asJson)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode")
	}
	fmt.Println(out)
}

func Synth(ctx context.Context, api sdk.API, p *param.Synth) {
	emit(offline(ctx, api), p.Json)
}

func Plan(ctx context.Context, api sdk.API, p *param.Plan) {
	changes, err := api.Provision.Plan(ctx, offline(ctx, api))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to plan")
	}

	if p.Json {
		emit(changes, true)
		return
	}

	fmt.Println(view.Changes(changes))
}

func Deploy(ctx context.Context, api sdk.API, p *param.Deploy) {
	subscribed, err := api.Bus.Subscribed(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to check for a deploy handler")
	}

	if subscribed {
		log.Info().Msg("deploy handler is subscribed, it skips images built here and leaves this apply alone")
	}

	g := published(ctx, api, p.Login)

	result, err := api.Provision.Apply(ctx, g)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to apply resource graph")
	}

	if err := api.Bus.Notify(ctx, g, result.Outputs); err != nil {
		log.Warn().Err(err).Msg("deployed, but failed to notify bus")
	}

	if p.OutputsFile != "" {
		if err := view.WriteOutputs(p.OutputsFile, result.Outputs); err != nil {
			log.Fatal().Err(err).Msg("failed to write outputs file")
		}
	}

	if p.Json {
		emit(result.Outputs, true)
	} else {
		fmt.Println(view.Outputs(result.Outputs))
	}

	if p.Wait > 0 {
		for _, r := range ready(ctx, api, g, result.Outputs, p.Wait) {
			log.Info().Str("url", r.Url).Int("status", r.Status).Int("attempts", r.Attempts).Msg("ready")
		}
	}

	if g.Params.BaseUrl == "" {
		fmt.Println(view.Hint("BASE_URL is empty, redeploy with -c baseUrl=%s", result.Output("ApiEndpoint")))
	}
}

func Outputs(ctx context.Context, api sdk.API, p *param.Outputs) {
	outputs, err := api.Provision.Outputs(ctx, named(ctx, api))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read outputs")
	}

	if p.Json {
		emit(outputs, true)
		return
	}

	fmt.Println(view.Outputs(outputs))
}

func Probe(ctx context.Context, api sdk.API, p *param.Probe) {
	g := named(ctx, api)

	outputs, err := api.Provision.Outputs(ctx, g)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read outputs")
	}

	emit(ready(ctx, api, g, outputs, p.Within), p.Json)
}

func Destroy(ctx context.Context, api sdk.API, p *param.Destroy) {
	if !p.Yes {
		log.Fatal().Str("stack", api.Config.Params.StackName).Msg("refusing to destroy without --yes")
	}

	if err := api.Provision.Destroy(ctx, named(ctx, api)); err != nil {
		log.Fatal().Err(err).Msg("failed to destroy stack")
	}

	log.Info().Str("stack", api.Config.Params.StackName).Msg("destroyed")
}

func Run(ctx context.Context, api sdk.API, p *param.Run) {
	g := published(ctx, api, p.Login)

	if err := api.Runtime.Run(ctx, g.Function, p.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to run image")
	}
}

func Gc(ctx context.Context, api sdk.API, p *param.Gc) {
	var keep []string

	deployed, ok, err := api.Deployment.Find(ctx, api.Config.ResourceName(stack.FunctionId))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to find deployment")
	}

	if ok {
		if _, digest, found := strings.Cut(deployed.ImageUri, "@"); found {
			keep = append(keep, digest)
		}
	}

	save, remove, err := api.Release.GcPlan(ctx, keep, p.RetentionWeeks)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to plan garbage collection")
	}

	if p.Json {
		emit(map[string]any{"keep": save, "remove": remove}, true)
	} else {
		fmt.Println(view.Releases(save, remove))
	}

	if p.DryRun {
		return
	}

	if err := api.Release.GcApply(ctx, remove); err != nil {
		log.Fatal().Err(err).Msg("failed to delete images")
	}
}

func PrintConfig(ctx context.Context, api sdk.API, p *param.Config) {
	out, err := api.Config.Json()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode configuration")
	}

	fmt.Println(out)
}

func Subscribe(ctx context.Context, api sdk.API, p *param.Subscribe) {
	handler, ok, err := api.Deployment.Find(ctx, p.Handler)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to find handler function")
	}

	if !ok {
		log.Fatal().Str("handler", p.Handler).Msg("handler function does not exist")
	}

	sub, err := api.Bus.Subscribe(ctx, handler.Name, handler.Arn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe")
	}

	emit(sub, false)
}

func Unsubscribe(ctx context.Context, api sdk.API, p *param.Unsubscribe) {
	if err := api.Bus.Unsubscribe(ctx, p.Handler); err != nil {
		log.Fatal().Err(err).Msg("failed to unsubscribe")
	}
}
