package handler

import (
	"testing"

	"github.com/linecard/samlstack/pkg/convention/config"
	"github.com/linecard/samlstack/pkg/convention/deployment"
	"github.com/linecard/samlstack/pkg/convention/release"

	"github.com/stretchr/testify/assert"
)

func TestInherit(t *testing.T) {
	base := config.DefaultParams()

	tests := []struct {
		name     string
		given    func() config.Params
		deployed deployment.Deployment
		hasUrl   bool
		check    func(t *testing.T, p config.Params)
	}{
		{
			name:  "live configuration wins",
			given: config.DefaultParams,
			deployed: deployment.Deployment{
				MemorySize: 2048,
				Timeout:    60,
				Environment: map[string]string{
					"BASE_URL":      "https://abc123.execute-api.us-west-2.amazonaws.com",
					"IDP_ENTITY_ID": "https://idp.example.com",
					"SP_ENTITY_ID":  "urn:sp",
				},
			},
			hasUrl: true,
			check: func(t *testing.T, p config.Params) {
				assert.Equal(t, "https://abc123.execute-api.us-west-2.amazonaws.com", p.BaseUrl)
				assert.Equal(t, "https://idp.example.com", p.IdpEntityId)
				assert.Equal(t, "urn:sp", p.SpEntityId)
				assert.Equal(t, int32(2048), p.MemorySize)
				assert.Equal(t, int32(60), p.Timeout)
				assert.True(t, p.FunctionUrl)
			},
		},
		{
			name:     "absent keys keep the defaults",
			given:    config.DefaultParams,
			deployed: deployment.Deployment{},
			hasUrl:   false,
			check: func(t *testing.T, p config.Params) {
				assert.Equal(t, base.IdpEntityId, p.IdpEntityId)
				assert.Equal(t, base.MemorySize, p.MemorySize)
				assert.Equal(t, base.Timeout, p.Timeout)
				assert.False(t, p.FunctionUrl)
			},
		},
		{
			name: "empty BASE_URL is carried over as empty",
			given: func() config.Params {
				p := config.DefaultParams()
				p.BaseUrl = "https://stale.example.com"
				return p
			},
			deployed: deployment.Deployment{
				Environment: map[string]string{"BASE_URL": ""},
			},
			check: func(t *testing.T, p config.Params) {
				assert.Equal(t, "", p.BaseUrl)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, Inherit(tc.given(), tc.deployed, tc.hasUrl))
		})
	}
}

func TestAppliedByCli(t *testing.T) {
	tests := []struct {
		name      string
		published release.Published
		expected  bool
	}{
		{
			name:      "content hash label marks a cli build",
			published: release.Published{ContentHash: "deadbeef", Revision: "0123456789abcdef0123456789abcdef01234567"},
			expected:  true,
		},
		{
			name:      "revision alone is another pipeline",
			published: release.Published{Revision: "0123456789abcdef0123456789abcdef01234567"},
			expected:  false,
		},
		{
			name:      "unlabelled image",
			published: release.Published{},
			expected:  false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, AppliedByCli(tc.published))
		})
	}
}
