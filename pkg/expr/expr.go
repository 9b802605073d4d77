package expr

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/interpreter"

	"github.com/go-spatial/tilestyle/pkg/feature"
)

// Names of the non-attribute variables.
const (
	VarAttrs      = "attrs"
	VarGeom       = "geom"
	VarResolution = "resolution"

	// VarFeatureType holds the "type" attribute. "type" is a CEL builtin and
	// cannot be declared as a variable; attrs["type"] also works.
	VarFeatureType = "feature_type"
)

// AttributeVars lists the feature attributes exposed as top-level variables
// under their own names.
var AttributeVars = []string{
	feature.AttrLayer,
	feature.AttrClass,
	feature.AttrScalerank,
	feature.AttrLabelrank,
	feature.AttrAdminLevel,
	feature.AttrMaritime,
	feature.AttrDisputed,
	feature.AttrMaki,
	feature.AttrNameEN,
}

// Protect CEL environment creation and compilation from concurrent access.
var celMutex sync.Mutex

// Environment provides a thread-safe wrapper around a [*cel.Env] declaring
// the feature variables.
type Environment struct {
	env *cel.Env
}

// NewEnvironment creates a new [Environment].
func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	env, err := createEnvironment(opts...)
	if err != nil {
		return nil, err
	}

	return &Environment{env: env}, nil
}

// MustNewEnvironment creates a new [Environment] and panics on error.
func MustNewEnvironment(opts ...cel.EnvOption) *Environment {
	env, err := NewEnvironment(opts...)
	if err != nil {
		panic(err)
	}

	return env
}

func createEnvironment(opts ...cel.EnvOption) (*cel.Env, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	vars := make([]cel.EnvOption, 0, len(AttributeVars)+4)
	for _, name := range AttributeVars {
		vars = append(vars, cel.Variable(name, cel.DynType))
	}

	vars = append(vars,
		cel.Variable(VarAttrs, cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable(VarGeom, cel.StringType),
		cel.Variable(VarResolution, cel.DoubleType),
		cel.Variable(VarFeatureType, cel.DynType),
	)

	opts = append(vars, opts...)
	opts = append(opts, cel.Lib(&lib{}))

	celEnv, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return celEnv, nil
}

// Compile compiles a CEL expression that must evaluate to a bool.
//
//nolint:ireturn // Following CEL's function signature.
func (e *Environment) Compile(expression string) (cel.Program, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	if !ast.OutputType().IsEquivalentType(cel.BoolType) && !ast.OutputType().IsEquivalentType(cel.DynType) {
		return nil, fmt.Errorf("compile expression: result type %s, want bool", ast.OutputType())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return program, nil
}

// Activation resolves CEL variables against a feature and resolution.
type Activation struct {
	Feature    *feature.Feature
	Resolution float64
}

var _ interpreter.Activation = (*Activation)(nil)

// ResolveName implements [interpreter.Activation]. Attributes missing from
// the feature are not found.
func (a *Activation) ResolveName(name string) (any, bool) {
	if name == VarResolution {
		return a.Resolution, true
	}
	if a.Feature == nil {
		return nil, false
	}

	switch name {
	case VarGeom:
		return a.Feature.Geometry.String(), true

	case VarAttrs:
		if a.Feature.Attrs == nil {
			return map[string]any{}, true
		}

		return ConvertToCELValue(a.Feature.Attrs), true

	case VarFeatureType:
		name = feature.AttrType
	}

	v, ok := a.Feature.Get(name)
	if !ok {
		return nil, false
	}

	return ConvertToCELValue(v), true
}

// Parent implements [interpreter.Activation].
//
//nolint:ireturn // Following CEL's function signature.
func (a *Activation) Parent() interpreter.Activation {
	return nil
}

// Match evaluates program against the activation. Evaluation errors and
// non-bool results are reported as a non-match along with the error.
func Match(program cel.Program, act *Activation) (bool, error) {
	result, _, err := program.Eval(act)
	if err != nil {
		return false, fmt.Errorf("evaluate: %w", err)
	}

	b, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("evaluate: result %v is not a bool", result.Value())
	}

	return b, nil
}
