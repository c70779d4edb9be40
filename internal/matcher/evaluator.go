package matcher

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ChrisTrenkamp/goxpath"
	"github.com/ChrisTrenkamp/goxpath/tree"
)

// SyntaxError reports a selector that failed to compile. The underlying XPath
// parser does not include the offending expression in its own message, so the
// selector text is carried here.
type SyntaxError struct {
	Selector string
	Err      error
}

// Error implements the error interface for SyntaxError.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid selector %q: %v", e.Selector, e.Err)
}

// Unwrap returns the underlying parser error.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Evaluator runs XPath selectors against document nodes with the extension
// functions replace, match, if and normalize available. The function table is
// owned by the evaluator instance, never registered globally, so evaluators
// with different function sets can coexist. Evaluation is purely functional
// over its inputs; compiled selectors are not cached at this layer.
type Evaluator struct {
	funcs map[xml.Name]tree.Wrap
}

// NewEvaluator creates an Evaluator with the standard extension functions.
func NewEvaluator() *Evaluator {
	return &Evaluator{funcs: extensionTable()}
}

// String evaluates the selector in string mode against the context node.
func (e *Evaluator) String(selector string, node tree.Node) (string, error) {
	res, err := e.eval(selector, node)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

// Number evaluates the selector in number mode against the context node.
// Non-numeric results yield NaN, matching XPath number() coercion.
func (e *Evaluator) Number(selector string, node tree.Node) (float64, error) {
	res, err := e.eval(selector, node)
	if err != nil {
		return 0, err
	}
	return numberValue(res), nil
}

// Boolean evaluates the selector in boolean mode against the context node.
func (e *Evaluator) Boolean(selector string, node tree.Node) (bool, error) {
	res, err := e.eval(selector, node)
	if err != nil {
		return false, err
	}
	return booleanValue(res), nil
}

// Nodes evaluates the selector and returns the matched node set.
func (e *Evaluator) Nodes(selector string, node tree.Node) (tree.NodeSet, error) {
	res, err := e.eval(selector, node)
	if err != nil {
		return nil, err
	}
	ns, ok := res.(tree.NodeSet)
	if !ok {
		return nil, fmt.Errorf("selector %q does not select nodes", selector)
	}
	return ns, nil
}

func (e *Evaluator) eval(selector string, node tree.Node) (tree.Result, error) {
	xp, err := goxpath.Parse(selector)
	if err != nil {
		return nil, &SyntaxError{Selector: selector, Err: err}
	}
	res, err := xp.Exec(node, e.opts)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", selector, err)
	}
	return res, nil
}

// opts installs the evaluator's function table into an execution context.
func (e *Evaluator) opts(o *goxpath.Opts) {
	for name, fn := range e.funcs {
		o.Funcs[name] = fn
	}
}

// booleanValue coerces an XPath result per the boolean() rules: a node set is
// true when non-empty, numbers when non-zero, strings when non-empty.
func booleanValue(res tree.Result) bool {
	switch v := res.(type) {
	case tree.NodeSet:
		return len(v) > 0
	case tree.IsBool:
		return bool(v.Bool())
	default:
		return res.String() != ""
	}
}

// numberValue coerces an XPath result per the number() rules, returning NaN
// for values that do not parse as a number.
func numberValue(res tree.Result) float64 {
	if _, ok := res.(tree.NodeSet); !ok {
		if n, ok := res.(tree.IsNum); ok {
			return float64(n.Num())
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(res.String()), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
