package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Context keys accepted through -c key=value.
const (
	CtxStackName    = "stackName"
	CtxBaseUrl      = "baseUrl"
	CtxIdpEntityId  = "idpEntityId"
	CtxSpEntityId   = "spEntityId"
	CtxFunctionUrl  = "functionUrl"
	CtxBuildContext = "buildContext"
	CtxMemorySize   = "memorySize"
	CtxTimeout      = "timeout"
)

// Environment fallbacks for the context keys above.
const (
	EnvStackName    = "STACK_NAME"
	EnvBaseUrl      = "BASE_URL"
	EnvIdpEntityId  = "IDP_ENTITY_ID"
	EnvSpEntityId   = "SP_ENTITY_ID"
	EnvFunctionUrl  = "FUNCTION_URL"
	EnvBuildContext = "BUILD_CONTEXT"
	EnvMemorySize   = "MEMORY_SIZE"
	EnvTimeout      = "TIMEOUT"
)

// Params is the resolved, immutable set of intent parameters for one deployment action.
type Params struct {
	StackName    string `json:"stackName" yaml:"stackName"`
	BaseUrl      string `json:"baseUrl" yaml:"baseUrl"`
	IdpEntityId  string `json:"idpEntityId" yaml:"idpEntityId"`
	SpEntityId   string `json:"spEntityId" yaml:"spEntityId"`
	FunctionUrl  bool   `json:"functionUrl" yaml:"functionUrl"`
	BuildContext string `json:"buildContext" yaml:"buildContext"`
	MemorySize   int32  `json:"memorySize" yaml:"memorySize"`
	Timeout      int32  `json:"timeout" yaml:"timeout"`
}

type Lookup func(key string) (string, bool)

func DefaultParams() Params {
	return Params{
		StackName:    "SamlStack",
		BaseUrl:      "",
		IdpEntityId:  "TestIDP",
		SpEntityId:   "TestSP",
		FunctionUrl:  true,
		BuildContext: "backend",
		MemorySize:   1024,
		Timeout:      30,
	}
}

// ResourceName is the stable physical name of a declared entity.
func (p Params) ResourceName(logicalId string) string {
	return p.StackName + "-" + logicalId
}

// ResolveParams applies context > environment > default, once.
func ResolveParams(context map[string]string, lookup Lookup) (Params, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	p := DefaultParams()

	pick := func(ctxKey, envKey, fallback string) string {
		if v, ok := context[ctxKey]; ok {
			return v
		}
		if v, ok := lookup(envKey); ok {
			return v
		}
		return fallback
	}

	p.StackName = pick(CtxStackName, EnvStackName, p.StackName)
	p.BaseUrl = pick(CtxBaseUrl, EnvBaseUrl, p.BaseUrl)
	p.IdpEntityId = pick(CtxIdpEntityId, EnvIdpEntityId, p.IdpEntityId)
	p.SpEntityId = pick(CtxSpEntityId, EnvSpEntityId, p.SpEntityId)
	p.BuildContext = pick(CtxBuildContext, EnvBuildContext, p.BuildContext)

	if p.StackName == "" {
		return Params{}, fmt.Errorf("%s must not be empty", CtxStackName)
	}

	functionUrl, err := strconv.ParseBool(pick(CtxFunctionUrl, EnvFunctionUrl, strconv.FormatBool(p.FunctionUrl)))
	if err != nil {
		return Params{}, fmt.Errorf("parse %s: %w", CtxFunctionUrl, err)
	}
	p.FunctionUrl = functionUrl

	memorySize, err := strconv.ParseInt(pick(CtxMemorySize, EnvMemorySize, strconv.Itoa(int(p.MemorySize))), 10, 32)
	if err != nil {
		return Params{}, fmt.Errorf("parse %s: %w", CtxMemorySize, err)
	}
	p.MemorySize = int32(memorySize)

	timeout, err := strconv.ParseInt(pick(CtxTimeout, EnvTimeout, strconv.Itoa(int(p.Timeout))), 10, 32)
	if err != nil {
		return Params{}, fmt.Errorf("parse %s: %w", CtxTimeout, err)
	}
	p.Timeout = int32(timeout)

	return p, nil
}

// ParseContext turns repeated key=value flags into a map. Later duplicates win.
func ParseContext(pairs []string) (map[string]string, error) {
	context := map[string]string{}

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("context value %q is not key=value", pair)
		}

		if !knownContextKey(key) {
			return nil, fmt.Errorf("unknown context key %q, valid keys: %s", key, strings.Join(ContextKeys(), ", "))
		}

		context[key] = value
	}

	return context, nil
}

func ContextKeys() []string {
	keys := []string{
		CtxStackName,
		CtxBaseUrl,
		CtxIdpEntityId,
		CtxSpEntityId,
		CtxFunctionUrl,
		CtxBuildContext,
		CtxMemorySize,
		CtxTimeout,
	}
	sort.Strings(keys)
	return keys
}

func knownContextKey(key string) bool {
	for _, k := range ContextKeys() {
		if k == key {
			return true
		}
	}
	return false
}
