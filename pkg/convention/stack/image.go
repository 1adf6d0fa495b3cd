package stack

import (
	"context"
	"fmt"
)

type Platform struct {
	OS           string `json:"os" yaml:"os"`
	Architecture string `json:"architecture" yaml:"architecture"`
}

var LinuxAmd64 = Platform{OS: "linux", Architecture: "amd64"}

func (p Platform) String() string {
	return p.OS + "/" + p.Architecture
}

// LambdaArchitecture maps an OCI architecture onto the Lambda architecture enum.
func (p Platform) LambdaArchitecture() (string, error) {
	switch p.Architecture {
	case "amd64", "x86_64":
		return "x86_64", nil
	case "arm64", "aarch64":
		return "arm64", nil
	default:
		return "", fmt.Errorf("unsupported architecture %s", p.Architecture)
	}
}

type ImageReference struct {
	Repository string   `json:"repository" yaml:"repository"`
	Name       string   `json:"name" yaml:"name"`
	Tag        string   `json:"tag" yaml:"tag"`
	Digest     string   `json:"digest,omitempty" yaml:"digest,omitempty"`
	Platform   Platform `json:"platform" yaml:"platform"`
}

// Uri pins by digest once one is known.
func (i ImageReference) Uri() string {
	if i.Digest != "" {
		return i.Repository + "@" + i.Digest
	}
	return i.Repository + ":" + i.Tag
}

type ImageResolver interface {
	Resolve(ctx context.Context, contextPath string, platform Platform) (ImageReference, error)
}

// FixedResolver hands back a reference that was resolved elsewhere, e.g. from a registry push event.
type FixedResolver struct {
	Reference ImageReference
}

func (f FixedResolver) Resolve(ctx context.Context, contextPath string, platform Platform) (ImageReference, error) {
	if f.Reference.Tag == "" && f.Reference.Digest == "" {
		return ImageReference{}, fmt.Errorf("fixed reference for %s has neither tag nor digest", f.Reference.Repository)
	}

	if f.Reference.Platform == (Platform{}) {
		ref := f.Reference
		ref.Platform = platform
		return ref, nil
	}

	return f.Reference, nil
}
