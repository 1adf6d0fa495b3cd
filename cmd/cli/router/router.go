package router

import (
	"context"
	"os"

	"github.com/linecard/samlstack/cmd/cli/method"
	"github.com/linecard/samlstack/cmd/cli/param"
	"github.com/linecard/samlstack/pkg/sdk"

	"github.com/alexflint/go-arg"
)

type Root struct {
	param.GlobalOpts
	Synth       *param.Synth       `arg:"subcommand:synth" help:"Print the resource graph without touching AWS"`
	Plan        *param.Plan        `arg:"subcommand:plan" help:"Compare the graph with what is deployed"`
	Deploy      *param.Deploy      `arg:"subcommand:deploy" help:"Publish the image and apply the graph"`
	Outputs     *param.Outputs     `arg:"subcommand:outputs" help:"Print the outputs of the deployed stack"`
	Probe       *param.Probe       `arg:"subcommand:probe" help:"Poll the deployed endpoints until the app is ready"`
	Destroy     *param.Destroy     `arg:"subcommand:destroy" help:"Tear down the deployed stack"`
	Run         *param.Run         `arg:"subcommand:run" help:"Run the image locally with the stack's configuration map"`
	Gc          *param.Gc          `arg:"subcommand:gc" help:"Delete stale images from the assets repository"`
	Config      *param.Config      `arg:"subcommand:config" help:"Print configuration"`
	Subscribe   *param.Subscribe   `arg:"subcommand:subscribe" help:"Redeploy on image push through a handler function"`
	Unsubscribe *param.Unsubscribe `arg:"subcommand:unsubscribe" help:"Remove the image push subscription"`
}

func (c Root) Route(ctx context.Context, api sdk.API) {
	switch {
	case c.Synth != nil:
		method.Synth(ctx, api, c.Synth)

	case c.Plan != nil:
		method.Plan(ctx, api, c.Plan)

	case c.Deploy != nil:
		method.Deploy(ctx, api, c.Deploy)

	case c.Outputs != nil:
		method.Outputs(ctx, api, c.Outputs)

	case c.Probe != nil:
		method.Probe(ctx, api, c.Probe)

	case c.Destroy != nil:
		method.Destroy(ctx, api, c.Destroy)

	case c.Run != nil:
		method.Run(ctx, api, c.Run)

	case c.Gc != nil:
		method.Gc(ctx, api, c.Gc)

	case c.Config != nil:
		method.PrintConfig(ctx, api, c.Config)

	case c.Subscribe != nil:
		method.Subscribe(ctx, api, c.Subscribe)

	case c.Unsubscribe != nil:
		method.Unsubscribe(ctx, api, c.Unsubscribe)

	default:
		arg.MustParse(&c).WriteHelp(os.Stdout)
	}
}
