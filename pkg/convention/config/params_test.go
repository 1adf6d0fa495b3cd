package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func env(values map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestResolveParams(t *testing.T) {
	tests := []struct {
		name     string
		context  map[string]string
		env      map[string]string
		expected Params
		wantErr  bool
	}{
		{
			name:     "defaults",
			expected: DefaultParams(),
		},
		{
			name: "environment over default",
			env:  map[string]string{EnvBaseUrl: "https://env.example.com", EnvFunctionUrl: "false"},
			expected: func() Params {
				p := DefaultParams()
				p.BaseUrl = "https://env.example.com"
				p.FunctionUrl = false
				return p
			}(),
		},
		{
			name:    "context over environment",
			context: map[string]string{CtxBaseUrl: "https://ctx.example.com", CtxIdpEntityId: "CorpIDP"},
			env:     map[string]string{EnvBaseUrl: "https://env.example.com", EnvIdpEntityId: "EnvIDP"},
			expected: func() Params {
				p := DefaultParams()
				p.BaseUrl = "https://ctx.example.com"
				p.IdpEntityId = "CorpIDP"
				return p
			}(),
		},
		{
			name:     "explicit empty context value wins",
			context:  map[string]string{CtxBaseUrl: ""},
			env:      map[string]string{EnvBaseUrl: "https://env.example.com"},
			expected: DefaultParams(),
		},
		{
			name:    "numeric overrides",
			context: map[string]string{CtxMemorySize: "2048", CtxTimeout: "60"},
			expected: func() Params {
				p := DefaultParams()
				p.MemorySize = 2048
				p.Timeout = 60
				return p
			}(),
		},
		{
			name:    "empty stack name",
			context: map[string]string{CtxStackName: ""},
			wantErr: true,
		},
		{
			name:    "bad bool",
			context: map[string]string{CtxFunctionUrl: "sometimes"},
			wantErr: true,
		},
		{
			name:    "bad int",
			env:     map[string]string{EnvMemorySize: "lots"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveParams(tc.context, env(tc.env))
			if tc.wantErr {
				assert.Error(t, err)
				assert.Equal(t, Params{}, got)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseContext(t *testing.T) {
	got, err := ParseContext([]string{"baseUrl=https://a.example.com/x=y", "stackName=Other", "stackName=Last"})
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{
		CtxBaseUrl:   "https://a.example.com/x=y",
		CtxStackName: "Last",
	}, got)

	_, err = ParseContext([]string{"nope"})
	assert.Error(t, err)

	_, err = ParseContext([]string{"colour=blue"})
	assert.ErrorContains(t, err, "valid keys")
}
