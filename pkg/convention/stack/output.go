package stack

import (
	"fmt"
)

// Attributes assigned by the cloud at materialization time.
const (
	AttrImageUri      = "ImageUri"
	AttrRoleArn       = "RoleArn"
	AttrFunctionName  = "FunctionName"
	AttrFunctionArn   = "FunctionArn"
	AttrFunctionUrl   = "FunctionUrl"
	AttrApiId         = "ApiId"
	AttrApiEndpoint   = "ApiEndpoint"
	AttrStageName     = "StageName"
	AttrIntegrationId = "IntegrationId"
	AttrRouteId       = "RouteId"
	AttrStatementId   = "StatementId"
)

// Ref points at an attribute of a materialized entity.
type Ref struct {
	Entity    string `json:"entity" yaml:"entity"`
	Attribute string `json:"attribute" yaml:"attribute"`
}

func (r Ref) String() string {
	return r.Entity + "." + r.Attribute
}

type Output struct {
	Name        string `json:"name" yaml:"name"`
	Value       Ref    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

type OutputSet []Output

type OutputValue struct {
	Name        string `json:"name" yaml:"name"`
	Value       string `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// Attributes is keyed by entity logical id, then attribute name.
type Attributes map[string]map[string]string

func (a Attributes) Set(entity, attribute, value string) {
	if a[entity] == nil {
		a[entity] = map[string]string{}
	}
	a[entity][attribute] = value
}

func (a Attributes) Get(ref Ref) (string, bool) {
	values, ok := a[ref.Entity]
	if !ok {
		return "", false
	}
	value, ok := values[ref.Attribute]
	return value, ok
}

// Resolve reads every output from materialized attributes, in declaration order.
func (o OutputSet) Resolve(attrs Attributes) ([]OutputValue, error) {
	values := make([]OutputValue, 0, len(o))

	for _, output := range o {
		value, ok := attrs.Get(output.Value)
		if !ok {
			return nil, fmt.Errorf("output %s references unmaterialized %s", output.Name, output.Value)
		}

		values = append(values, OutputValue{
			Name:        output.Name,
			Value:       value,
			Description: output.Description,
		})
	}

	return values, nil
}

func (o OutputSet) Names() []string {
	names := make([]string, 0, len(o))
	for _, output := range o {
		names = append(names, output.Name)
	}
	return names
}

// NewOutputSet declares the stack outputs. FunctionUrl is only present with a public endpoint.
func NewOutputSet(fn ComputeUnitSpec, api RoutingLayerSpec) OutputSet {
	outputs := OutputSet{
		{
			Name:        "ApiEndpoint",
			Value:       Ref{Entity: api.LogicalId, Attribute: AttrApiEndpoint},
			Description: "HTTP API endpoint URL",
		},
		{
			Name:        "LambdaFunctionName",
			Value:       Ref{Entity: fn.LogicalId, Attribute: AttrFunctionName},
			Description: "Lambda function name",
		},
		{
			Name:        "LambdaFunctionArn",
			Value:       Ref{Entity: fn.LogicalId, Attribute: AttrFunctionArn},
			Description: "Lambda function ARN",
		},
	}

	if fn.PublicEndpoint != nil {
		outputs = append(outputs, Output{
			Name:        "FunctionUrl",
			Value:       Ref{Entity: fn.PublicEndpoint.LogicalId, Attribute: AttrFunctionUrl},
			Description: "Lambda Function URL",
		})
	}

	return outputs
}
