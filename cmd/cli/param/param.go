package param

import "time"

type GlobalOpts struct {
	Context   []string `arg:"-c,--context,separate" help:"intent parameter as key=value, repeatable"`
	EcrId     string   `arg:"--ecr-id,env:AWS_ECR_REGISTRY_ID" help:"registry account id, defaults to the caller's"`
	EcrRegion string   `arg:"--ecr-region,env:AWS_ECR_REGION" help:"registry region, defaults to the caller's"`
	BusName   string   `arg:"--bus,env:SAMLSTACK_BUS_NAME" help:"event bus to notify after deploy"`
}

type Format struct {
	Json bool `arg:"-j,--json" help:"print json instead of yaml"`
}

type Synth struct {
	Format
}

type Plan struct {
	Format
}

type Deploy struct {
	Login       bool          `arg:"-l,--ecr-login" help:"login to ECR before publishing"`
	OutputsFile string        `arg:"-o,--outputs-file" help:"also write outputs to this .json or .yaml file"`
	Wait        time.Duration `arg:"-w,--wait" help:"after apply, poll the readiness path for up to this long"`
	Format
}

type Outputs struct {
	Format
}

type Probe struct {
	Within time.Duration `arg:"-w,--within" default:"2m" help:"give up after this long"`
	Format
}

type Destroy struct {
	Yes bool `arg:"-y,--yes" help:"required to actually destroy"`
}

type Run struct {
	Port  string `arg:"-p,--port" help:"host port, defaults to the container port"`
	Login bool   `arg:"-l,--ecr-login" help:"login to ECR before publishing"`
}

type Gc struct {
	DryRun         bool `arg:"-n,--dry-run" help:"only print what would be deleted"`
	RetentionWeeks int  `arg:"-w,--retention-weeks" default:"4" help:"keep images pushed within this many weeks"`
	Format
}

type Config struct{}

type Subscribe struct {
	Handler string `arg:"positional,required" help:"name of the function receiving image pushes"`
}

type Unsubscribe struct {
	Handler string `arg:"positional,required" help:"name of the subscribed function"`
}
