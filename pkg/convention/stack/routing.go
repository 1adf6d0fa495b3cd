package stack

import (
	"fmt"
)

const (
	ProxyPath = "/{proxy+}"
	RootPath  = "/"
	AnyMethod = "ANY"
)

type IntegrationBinding struct {
	LogicalId            string `json:"logicalId" yaml:"logicalId"`
	Target               string `json:"target" yaml:"target"`
	PayloadFormatVersion string `json:"payloadFormatVersion" yaml:"payloadFormatVersion"`
}

type RouteBinding struct {
	LogicalId   string   `json:"logicalId" yaml:"logicalId"`
	Path        string   `json:"path" yaml:"path"`
	Methods     []string `json:"methods" yaml:"methods"`
	Integration string   `json:"integration" yaml:"integration"`
}

// RouteKeys expands the binding into API Gateway route keys, one per method.
func (r RouteBinding) RouteKeys() []string {
	keys := make([]string, 0, len(r.Methods))
	for _, method := range r.Methods {
		keys = append(keys, method+" "+r.Path)
	}
	return keys
}

type Stage struct {
	LogicalId  string `json:"logicalId" yaml:"logicalId"`
	Name       string `json:"name" yaml:"name"`
	AutoDeploy bool   `json:"autoDeploy" yaml:"autoDeploy"`
}

type RoutingLayerSpec struct {
	LogicalId    string               `json:"logicalId" yaml:"logicalId"`
	Name         string               `json:"name" yaml:"name"`
	Description  string               `json:"description" yaml:"description"`
	Cors         Cors                 `json:"cors" yaml:"cors"`
	Stage        Stage                `json:"stage" yaml:"stage"`
	Integrations []IntegrationBinding `json:"integrations" yaml:"integrations"`
	Routes       []RouteBinding       `json:"routes" yaml:"routes"`
}

func NewRoutingLayer() RoutingLayerSpec {
	return RoutingLayerSpec{
		LogicalId:   ApiId,
		Name:        "saml-spring-boot-api",
		Description: "HTTP API for SAML Spring Boot application",
		Cors:        PermissiveCors(),
		Stage: Stage{
			LogicalId:  ApiId + "DefaultStage",
			Name:       "$default",
			AutoDeploy: true,
		},
	}
}

// Integrate returns the binding for unit, declaring it under logicalId on first use.
// Later calls for the same unit ignore logicalId and reuse the first binding.
func (r *RoutingLayerSpec) Integrate(logicalId string, unit ComputeUnitSpec) IntegrationBinding {
	for _, existing := range r.Integrations {
		if existing.Target == unit.LogicalId {
			return existing
		}
	}

	binding := IntegrationBinding{
		LogicalId:            logicalId,
		Target:               unit.LogicalId,
		PayloadFormatVersion: "2.0",
	}

	r.Integrations = append(r.Integrations, binding)

	return binding
}

// AddRoute binds path to an integration already declared on this layer.
func (r *RoutingLayerSpec) AddRoute(path string, methods []string, binding IntegrationBinding) (RouteBinding, error) {
	var suffix string

	switch path {
	case ProxyPath:
		suffix = "ProxyRoute"
	case RootPath:
		suffix = "RootRoute"
	default:
		return RouteBinding{}, fmt.Errorf("%w: %s", ErrUnsupportedRoute, path)
	}

	if len(methods) == 0 {
		return RouteBinding{}, &ConfigurationError{Entity: r.LogicalId + suffix, Reason: "route needs at least one method"}
	}

	if _, ok := r.integration(binding.LogicalId); !ok {
		return RouteBinding{}, &ConfigurationError{Entity: r.LogicalId + suffix, Reason: fmt.Sprintf("integration %s is not declared", binding.LogicalId)}
	}

	for _, existing := range r.Routes {
		if existing.Path == path {
			return RouteBinding{}, &ConfigurationError{Entity: existing.LogicalId, Reason: fmt.Sprintf("path %s is already routed", path)}
		}
	}

	route := RouteBinding{
		LogicalId:   r.LogicalId + suffix,
		Path:        path,
		Methods:     append([]string(nil), methods...),
		Integration: binding.LogicalId,
	}

	r.Routes = append(r.Routes, route)

	return route, nil
}

func (r RoutingLayerSpec) integration(logicalId string) (IntegrationBinding, bool) {
	for _, b := range r.Integrations {
		if b.LogicalId == logicalId {
			return b, true
		}
	}
	return IntegrationBinding{}, false
}

// PermissionId names the invoke grant for the unit behind an integration.
func (b IntegrationBinding) PermissionId() string {
	return b.LogicalId + "Permission"
}
