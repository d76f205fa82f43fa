package status

import (
	"context"
	"fmt"
	"time"

	"github.com/google/cel-go/cel"
	celtypes "github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

// Env encapsulates a CEL environment for use in status checks.
type Env struct {
	cel *cel.Env
}

func NewEnv() (*Env, error) {
	ce, err := cel.NewEnv(cel.Variable("self", cel.DynType))
	if err != nil {
		return nil, err
	}
	return &Env{cel: ce}, nil
}

// Check is a compiled CEL expression evaluated against a resource.
// Checks are immutable and safe to share between goroutines.
type Check struct {
	Name    string
	program cel.Program
}

// ParseCheck compiles expr in the context of env.
func ParseCheck(env *Env, name, expr string) (*Check, error) {
	ast, iss := env.cel.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, iss.Err()
	}
	prgm, err := env.cel.Program(ast, cel.InterruptCheckFrequency(10))
	if err != nil {
		return nil, err
	}
	return &Check{Name: name, program: prgm}, nil
}

// Result describes a matched check.
type Result struct {
	Time    metav1.Time
	Reason  string
	Message string

	// Precise is true when the time came from a condition's lastTransitionTime.
	Precise bool
}

// Eval executes the check against a resource.
//
// Expressions that evaluate to true match. Expressions that evaluate to a list match
// when the list contains a condition with status "True", in which case the condition's
// reason, message, and transition time are returned.
// Evaluation errors (missing fields, etc.) are treated as a miss.
func (c *Check) Eval(ctx context.Context, resource *unstructured.Unstructured) (*Result, bool) {
	if resource == nil {
		return nil, false
	}
	val, _, err := c.program.ContextEval(ctx, map[string]any{"self": resource.Object})
	if err != nil {
		return nil, false
	}

	if list, ok := val.Value().([]ref.Val); ok {
		for _, item := range list {
			mp, ok := item.Value().(map[string]any)
			if !ok || mp["status"] != "True" || mp["type"] == nil {
				continue
			}
			res := &Result{Time: metav1.Now()}
			res.Reason, _ = mp["reason"].(string)
			res.Message, _ = mp["message"].(string)
			if str, ok := mp["lastTransitionTime"].(string); ok {
				if parsed, err := time.Parse(time.RFC3339, str); err == nil {
					res.Time.Time = parsed
					res.Precise = true
				}
			}
			return res, true
		}
		return nil, false
	}

	if val == celtypes.True {
		return &Result{Time: metav1.Now()}, true
	}
	return nil, false
}

// EvalObject converts a typed object to its unstructured form before evaluating the check.
func (c *Check) EvalObject(ctx context.Context, obj runtime.Object) (*Result, bool, error) {
	if u, ok := obj.(*unstructured.Unstructured); ok {
		res, ok := c.Eval(ctx, u)
		return res, ok, nil
	}
	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, false, fmt.Errorf("converting %T to unstructured: %w", obj, err)
	}
	res, ok := c.Eval(ctx, &unstructured.Unstructured{Object: content})
	return res, ok, nil
}
