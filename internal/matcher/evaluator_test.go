package matcher

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ChrisTrenkamp/goxpath/tree"
	"github.com/ChrisTrenkamp/goxpath/tree/xmltree"
)

func parseDoc(t *testing.T, raw string) tree.Node {
	t.Helper()
	doc, err := xmltree.ParseXML(bytes.NewBufferString(raw))
	if err != nil {
		t.Fatalf("parse test document: %v", err)
	}
	return doc
}

func TestEvaluatorString(t *testing.T) {
	doc := parseDoc(t, `<testsuite><testcase name="divides"><failure message="Division by zero."/></testcase></testsuite>`)
	e := NewEvaluator()

	got, err := e.String("//testcase/failure/@message", doc)
	if err != nil {
		t.Fatalf("String() error = %v", err)
	}
	if got != "Division by zero." {
		t.Fatalf("String() = %q, want %q", got, "Division by zero.")
	}
}

func TestEvaluatorBoolean(t *testing.T) {
	doc := parseDoc(t, `<testcase name="a" flaky="true"><failure type="Warning"/></testcase>`)
	e := NewEvaluator()

	testCases := []struct {
		name     string
		selector string
		want     bool
	}{
		{name: "NodeSetPresent", selector: "//failure", want: true},
		{name: "NodeSetAbsent", selector: "//skipped", want: false},
		{name: "Comparison", selector: `//failure/@type = 'Warning'`, want: true},
		{name: "ComparisonFalse", selector: `//failure/@type = 'Error'`, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.Boolean(tc.selector, doc)
			if err != nil {
				t.Fatalf("Boolean(%q) error = %v", tc.selector, err)
			}
			if got != tc.want {
				t.Fatalf("Boolean(%q) = %v, want %v", tc.selector, got, tc.want)
			}
		})
	}
}

func TestEvaluatorNumber(t *testing.T) {
	doc := parseDoc(t, `<testcase line="12" col="abc"/>`)
	e := NewEvaluator()

	got, err := e.Number("//testcase/@line", doc)
	if err != nil {
		t.Fatalf("Number() error = %v", err)
	}
	if got != 12 {
		t.Fatalf("Number() = %v, want 12", got)
	}

	nan, err := e.Number("//testcase/@col", doc)
	if err != nil {
		t.Fatalf("Number() error = %v", err)
	}
	if nan == nan { // NaN is the only value that is not equal to itself
		t.Fatalf("Number() on non-numeric content = %v, want NaN", nan)
	}
}

func TestEvaluatorSyntaxErrorCarriesSelector(t *testing.T) {
	e := NewEvaluator()
	doc := parseDoc(t, `<root/>`)

	_, err := e.String("//unclosed[", doc)
	if err == nil {
		t.Fatal("expected a syntax error for a malformed selector")
	}

	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("error %T is not a *SyntaxError", err)
	}
	if syntaxErr.Selector != "//unclosed[" {
		t.Fatalf("SyntaxError.Selector = %q, want the original selector", syntaxErr.Selector)
	}
	if !strings.Contains(err.Error(), "//unclosed[") {
		t.Fatalf("error message %q does not name the selector", err.Error())
	}
}

func TestExtensionReplace(t *testing.T) {
	doc := parseDoc(t, `<testcase file="/work/src/app.js"/>`)
	e := NewEvaluator()

	got, err := e.String(`replace(//testcase/@file, '^/work/', '')`, doc)
	if err != nil {
		t.Fatalf("replace error = %v", err)
	}
	if got != "src/app.js" {
		t.Fatalf("replace = %q, want %q", got, "src/app.js")
	}
}

func TestExtensionMatch(t *testing.T) {
	doc := parseDoc(t, `<failure>Error at line 42 of app.js</failure>`)
	e := NewEvaluator()

	got, err := e.String(`match(//failure, 'line (\d+)')`, doc)
	if err != nil {
		t.Fatalf("match error = %v", err)
	}
	if got != "42" {
		t.Fatalf("match = %q, want %q", got, "42")
	}

	empty, err := e.String(`match(//failure, 'column (\d+)')`, doc)
	if err != nil {
		t.Fatalf("match error = %v", err)
	}
	if empty != "" {
		t.Fatalf("match without a hit = %q, want empty", empty)
	}
}

func TestExtensionIf(t *testing.T) {
	doc := parseDoc(t, `<testcase><failure message="boom"/><error message="bang"/></testcase>`)
	e := NewEvaluator()

	got, err := e.String(`if(//failure, //failure/@message, //error/@message)`, doc)
	if err != nil {
		t.Fatalf("if error = %v", err)
	}
	if got != "boom" {
		t.Fatalf("if = %q, want %q", got, "boom")
	}

	other, err := e.String(`if(//skipped, //failure/@message, //error/@message)`, doc)
	if err != nil {
		t.Fatalf("if error = %v", err)
	}
	if other != "bang" {
		t.Fatalf("if with false condition = %q, want %q", other, "bang")
	}
}

func TestExtensionNormalize(t *testing.T) {
	doc := parseDoc(t, "<failure>  first line  \n\t second line\t\n</failure>")
	e := NewEvaluator()

	got, err := e.String(`normalize(//failure)`, doc)
	if err != nil {
		t.Fatalf("normalize error = %v", err)
	}
	want := "first line\nsecond line\n"
	if got != want {
		t.Fatalf("normalize = %q, want %q", got, want)
	}
}

func TestExtensionInvalidPattern(t *testing.T) {
	doc := parseDoc(t, `<failure>boom</failure>`)
	e := NewEvaluator()

	if _, err := e.String(`match(//failure, '([')`, doc); err == nil {
		t.Fatal("expected an error for an invalid regex pattern")
	}
}
