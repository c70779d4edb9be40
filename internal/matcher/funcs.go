package matcher

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"github.com/ChrisTrenkamp/goxpath/tree"
)

// extensionTable builds the selector extension functions:
//
//	replace(input, search, replacement)  regex substitution over the input
//	match(input, pattern)                first capture group or ""
//	if(condition, then, else)            node-level conditional selection
//	normalize(input)                     per-line whitespace trim
func extensionTable() map[xml.Name]tree.Wrap {
	return map[xml.Name]tree.Wrap{
		{Local: "replace"}:   {Fn: fnReplace, NArgs: 3},
		{Local: "match"}:     {Fn: fnMatch, NArgs: 2},
		{Local: "if"}:        {Fn: fnIf, NArgs: 3},
		{Local: "normalize"}: {Fn: fnNormalize, NArgs: 1},
	}
}

func fnReplace(c tree.Ctx, args ...tree.Result) (tree.Result, error) {
	re, err := regexp.Compile(args[1].String())
	if err != nil {
		return nil, fmt.Errorf("replace: invalid pattern %q: %w", args[1].String(), err)
	}
	return tree.String(re.ReplaceAllString(args[0].String(), args[2].String())), nil
}

func fnMatch(c tree.Ctx, args ...tree.Result) (tree.Result, error) {
	re, err := regexp.Compile(args[1].String())
	if err != nil {
		return nil, fmt.Errorf("match: invalid pattern %q: %w", args[1].String(), err)
	}
	m := re.FindStringSubmatch(args[0].String())
	if len(m) > 1 {
		return tree.String(m[1]), nil
	}
	return tree.String(""), nil
}

func fnIf(c tree.Ctx, args ...tree.Result) (tree.Result, error) {
	if booleanValue(args[0]) {
		return args[1], nil
	}
	return args[2], nil
}

func fnNormalize(c tree.Ctx, args ...tree.Result) (tree.Result, error) {
	s := strings.ReplaceAll(args[0].String(), "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return tree.String(strings.Join(lines, "\n")), nil
}
