package template

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ohler55/ojg/jp"

	"github.com/hugo-setiawan/action-lark-bot/pkg/variables"
)

// Engine processes a template against one variable mapping. Render
// builds a fresh Engine per call, so no state is shared between
// renders and concurrent use is safe.
type Engine struct {
	vars variables.Variables
}

// New creates a template engine bound to the given variable mapping.
// A nil mapping behaves like an empty one.
func New(vars variables.Variables) *Engine {
	return &Engine{vars: vars}
}

// Render evaluates a template with a fresh engine.
func Render(template string, vars variables.Variables) (string, error) {
	return New(vars).Process(template)
}

// templateRegex matches {{expression}} patterns with optional whitespace.
var templateRegex = regexp.MustCompile(`\{\{\s*([^}]+?)\s*\}\}`)

// funcCallPattern matches helper calls with parenthesized arguments:
// json(value), jstr(value).
var funcCallPattern = regexp.MustCompile(`^(\w+)\((.+)\)$`)

// Process evaluates a template string against the engine's variables.
// It finds all {{expression}} patterns and replaces them with evaluated
// results. Helpers support both parenthesized syntax: {{json(user)}}
// and space-separated syntax: {{json user}}.
func (e *Engine) Process(template string) (string, error) {
	result := templateRegex.ReplaceAllStringFunc(template, func(match string) string {
		inner := templateRegex.FindStringSubmatch(match)
		if len(inner) < 2 {
			return match
		}
		expr := strings.TrimSpace(inner[1])
		return e.evaluate(expr)
	})

	return result, nil
}

// evaluate processes a single template expression and returns its value.
// Returns empty string for unknown expressions to allow graceful degradation.
func (e *Engine) evaluate(expr string) string {
	expr = strings.TrimSpace(expr)

	// Variables win over everything else, so user-supplied names can
	// shadow the built-ins below.
	if val, ok := e.lookup(expr); ok {
		return formatValue(val)
	}

	switch expr {
	case "now":
		return time.Now().Format(time.RFC3339)
	case "timestamp":
		return strconv.FormatInt(time.Now().Unix(), 10)
	case "uuid":
		return uuid.New().String()
	}

	// Parenthesized helper calls: json(user), jstr(user.name)
	if result, handled := e.evaluateParenthesized(expr); handled {
		return result
	}

	// Space-separated helper calls: json user, jstr user.name
	if result, handled := e.evaluateSpaceSeparated(expr); handled {
		return result
	}

	// Unknown expression - return empty string
	return ""
}

// evaluateParenthesized handles helper-call syntax: helper(arg)
func (e *Engine) evaluateParenthesized(expr string) (string, bool) {
	matches := funcCallPattern.FindStringSubmatch(expr)
	if matches == nil {
		return "", false
	}

	switch matches[1] {
	case "json":
		return e.funcJSON(strings.TrimSpace(matches[2])), true
	case "jstr":
		return e.funcJSTR(strings.TrimSpace(matches[2])), true
	}

	return "", false
}

// evaluateSpaceSeparated handles helper-call syntax: helper arg
func (e *Engine) evaluateSpaceSeparated(expr string) (string, bool) {
	parts := strings.Fields(expr)
	if len(parts) < 2 {
		return "", false
	}

	switch parts[0] {
	case "json":
		return e.funcJSON(strings.Join(parts[1:], " ")), true
	case "jstr":
		return e.funcJSTR(strings.Join(parts[1:], " ")), true
	}

	return "", false
}

// resolveArg resolves a helper argument. Quoted strings are literals;
// anything else is looked up in the variable mapping.
func (e *Engine) resolveArg(ref string) (any, bool) {
	ref = strings.TrimSpace(ref)

	if len(ref) >= 2 {
		if (ref[0] == '"' && ref[len(ref)-1] == '"') || (ref[0] == '\'' && ref[len(ref)-1] == '\'') {
			return ref[1 : len(ref)-1], true
		}
	}

	return e.lookup(ref)
}

// lookup resolves a variable reference against the mapping. A direct
// key match wins, so top-level keys containing dots stay addressable.
// Everything else is evaluated as a JSONPath-style path (user.name,
// items[0].id).
func (e *Engine) lookup(ref string) (any, bool) {
	if len(e.vars) == 0 {
		return nil, false
	}

	if val, ok := e.vars[ref]; ok {
		return val, true
	}

	// Path syntax never contains spaces or parens; helper calls fall
	// through to the call evaluators instead.
	if strings.ContainsAny(ref, " \t(") {
		return nil, false
	}

	if !strings.ContainsAny(ref, ".[$") {
		return nil, false
	}

	path := ref
	if !strings.HasPrefix(path, "$") {
		path = "$." + path
	}
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, false
	}

	results := expr.Get(map[string]any(e.vars))
	if len(results) == 0 {
		return nil, false
	}
	return results[0], true
}
