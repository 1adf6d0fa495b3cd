package stack

import (
	"fmt"

	"github.com/linecard/samlstack/pkg/convention/config"
)

// Configuration keys consumed by the web adapter and the SAML application.
const (
	EnvPort               = "PORT"
	EnvReadinessCheckPath = "READINESS_CHECK_PATH"
	EnvAsyncInit          = "ASYNC_INIT"
	EnvJavaOpts           = "JAVA_OPTS"
	EnvBaseUrl            = "BASE_URL"
	EnvIdpEntityId        = "IDP_ENTITY_ID"
	EnvSpEntityId         = "SP_ENTITY_ID"
)

const (
	DefaultPort               = "8080"
	DefaultReadinessCheckPath = "/opensaml5-webprofile-demo/actuator/health"
	DefaultAsyncInit          = "true"
	DefaultJavaOpts           = "-XX:+UseContainerSupport -XX:MaxRAMPercentage=75.0"
)

const MaxTimeoutSeconds = 900

const (
	lambdaAssumeRolePolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"Service":"lambda.amazonaws.com"},"Action":"sts:AssumeRole"}]}`
	basicExecutionPolicy   = "arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole"
)

// RequiredKeys lists every key the configuration map must carry, even when its value is empty.
func RequiredKeys() []string {
	return []string{
		EnvPort,
		EnvReadinessCheckPath,
		EnvAsyncInit,
		EnvJavaOpts,
		EnvBaseUrl,
		EnvIdpEntityId,
		EnvSpEntityId,
	}
}

type Environment map[string]string

func (e Environment) Clone() Environment {
	clone := make(Environment, len(e))
	for k, v := range e {
		clone[k] = v
	}
	return clone
}

// NewEnvironment assembles the configuration map from resolved parameters.
func NewEnvironment(p config.Params) Environment {
	return Environment{
		EnvPort:               DefaultPort,
		EnvReadinessCheckPath: DefaultReadinessCheckPath,
		EnvAsyncInit:          DefaultAsyncInit,
		EnvJavaOpts:           DefaultJavaOpts,
		EnvBaseUrl:            p.BaseUrl,
		EnvIdpEntityId:        p.IdpEntityId,
		EnvSpEntityId:         p.SpEntityId,
	}
}

type RuntimeIdentity struct {
	LogicalId         string   `json:"logicalId" yaml:"logicalId"`
	Name              string   `json:"name" yaml:"name"`
	AssumeRolePolicy  string   `json:"assumeRolePolicy" yaml:"assumeRolePolicy"`
	ManagedPolicyArns []string `json:"managedPolicyArns" yaml:"managedPolicyArns"`
}

type Cors struct {
	AllowOrigins []string `json:"allowOrigins" yaml:"allowOrigins"`
	AllowMethods []string `json:"allowMethods" yaml:"allowMethods"`
	AllowHeaders []string `json:"allowHeaders" yaml:"allowHeaders"`
}

// PermissiveCors allows any origin, method and header.
func PermissiveCors() Cors {
	return Cors{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"*"},
		AllowHeaders: []string{"*"},
	}
}

const AuthTypeNone = "NONE"

type PublicEndpointSpec struct {
	LogicalId string `json:"logicalId" yaml:"logicalId"`
	AuthType  string `json:"authType" yaml:"authType"`
	Cors      Cors   `json:"cors" yaml:"cors"`
}

type ComputeUnitSpec struct {
	LogicalId      string              `json:"logicalId" yaml:"logicalId"`
	Name           string              `json:"name" yaml:"name"`
	Description    string              `json:"description" yaml:"description"`
	Image          ImageReference      `json:"image" yaml:"image"`
	MemoryMB       int32               `json:"memoryMB" yaml:"memoryMB"`
	TimeoutSeconds int32               `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	Architecture   string              `json:"architecture" yaml:"architecture"`
	Role           RuntimeIdentity     `json:"role" yaml:"role"`
	Environment    Environment         `json:"environment" yaml:"environment"`
	PublicEndpoint *PublicEndpointSpec `json:"publicEndpoint,omitempty" yaml:"publicEndpoint,omitempty"`
}

// NewComputeUnit declares the function that serves the SAML application.
func NewComputeUnit(p config.Params, image ImageReference) ComputeUnitSpec {
	roleId := FunctionId + "ServiceRole"

	return ComputeUnitSpec{
		LogicalId:      FunctionId,
		Name:           p.ResourceName(FunctionId),
		Description:    "SAML Spring Boot application with Lambda Web Adapter",
		Image:          image,
		MemoryMB:       p.MemorySize,
		TimeoutSeconds: p.Timeout,
		Architecture:   "x86_64",
		Role: RuntimeIdentity{
			LogicalId:         roleId,
			Name:              p.ResourceName(roleId),
			AssumeRolePolicy:  lambdaAssumeRolePolicy,
			ManagedPolicyArns: []string{basicExecutionPolicy},
		},
		Environment: NewEnvironment(p),
	}
}

// WithPublicEndpoint returns a copy of the unit carrying an open Function URL.
func (c ComputeUnitSpec) WithPublicEndpoint() ComputeUnitSpec {
	c.PublicEndpoint = &PublicEndpointSpec{
		LogicalId: c.LogicalId + "Url",
		AuthType:  AuthTypeNone,
		Cors:      PermissiveCors(),
	}
	return c
}

func (c ComputeUnitSpec) Validate() error {
	for _, key := range RequiredKeys() {
		if _, ok := c.Environment[key]; !ok {
			return &ConfigurationError{Entity: c.LogicalId, Reason: fmt.Sprintf("configuration key %s is missing", key)}
		}
	}

	if c.MemoryMB <= 0 {
		return &ConfigurationError{Entity: c.LogicalId, Reason: fmt.Sprintf("memory must be positive, got %d", c.MemoryMB)}
	}

	if c.TimeoutSeconds <= 0 || c.TimeoutSeconds > MaxTimeoutSeconds {
		return &ConfigurationError{Entity: c.LogicalId, Reason: fmt.Sprintf("timeout must be within 1..%d seconds, got %d", MaxTimeoutSeconds, c.TimeoutSeconds)}
	}

	imageArch, err := c.Image.Platform.LambdaArchitecture()
	if err != nil {
		return &ConfigurationError{Entity: c.LogicalId, Reason: err.Error()}
	}

	if imageArch != c.Architecture {
		return &ConfigurationError{Entity: c.LogicalId, Reason: fmt.Sprintf("image platform %s does not run on %s", c.Image.Platform, c.Architecture)}
	}

	if c.PublicEndpoint != nil && c.PublicEndpoint.AuthType != AuthTypeNone {
		return &ConfigurationError{Entity: c.PublicEndpoint.LogicalId, Reason: "public endpoint auth must be NONE"}
	}

	return nil
}
