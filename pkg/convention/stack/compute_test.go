package stack

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	base := NewComputeUnit(params(nil), fixedImage())

	for _, key := range RequiredKeys() {
		t.Run("missing "+key, func(t *testing.T) {
			unit := base
			unit.Environment = base.Environment.Clone()
			delete(unit.Environment, key)

			err := unit.Validate()

			var configuration *ConfigurationError
			assert.True(t, errors.As(err, &configuration))
			assert.Contains(t, configuration.Reason, key)
		})
	}

	t.Run("empty BASE_URL is valid", func(t *testing.T) {
		unit := base
		unit.Environment = base.Environment.Clone()
		unit.Environment[EnvBaseUrl] = ""
		assert.NoError(t, unit.Validate())
	})

	t.Run("zero memory is invalid", func(t *testing.T) {
		unit := base
		unit.MemoryMB = 0
		assert.Error(t, unit.Validate())
	})

	t.Run("public endpoint must be open", func(t *testing.T) {
		unit := base.WithPublicEndpoint()
		unit.PublicEndpoint.AuthType = "AWS_IAM"
		assert.Error(t, unit.Validate())
	})

	t.Run("WithPublicEndpoint leaves the receiver untouched", func(t *testing.T) {
		with := base.WithPublicEndpoint()
		assert.Nil(t, base.PublicEndpoint)
		assert.Equal(t, "SamlSpringBootFunctionUrl", with.PublicEndpoint.LogicalId)
	})
}

func TestImageReference(t *testing.T) {
	ref := fixedImage()
	assert.Equal(t, "repo:abc123", ref.Uri())

	ref.Digest = "sha256:feed"
	assert.Equal(t, "repo@sha256:feed", ref.Uri())

	arch, err := LinuxAmd64.LambdaArchitecture()
	assert.NoError(t, err)
	assert.Equal(t, "x86_64", arch)

	_, err = Platform{OS: "linux", Architecture: "s390x"}.LambdaArchitecture()
	assert.Error(t, err)
}

func TestFixedResolver(t *testing.T) {
	ctx := context.Background()

	ref := fixedImage()
	ref.Platform = Platform{}

	got, err := FixedResolver{Reference: ref}.Resolve(ctx, "ignored", LinuxAmd64)
	assert.NoError(t, err)
	assert.Equal(t, LinuxAmd64, got.Platform)

	_, err = FixedResolver{Reference: ImageReference{Repository: "repo"}}.Resolve(ctx, "ignored", LinuxAmd64)
	assert.Error(t, err)
}
