// Package filter translates AIP-160 filter expressions over collection fields
// into SQL conditions on JSON documents.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/rust-in/site/internal/services/site/collections"
	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// SQLCondition is a SQL WHERE clause fragment with positional parameters.
type SQLCondition struct {
	// Clause is the SQL fragment, e.g. "json_extract(data, ?) < ?".
	Clause string
	// Params are the positional parameters for the clause.
	Params []any
}

// Empty reports whether the condition matches everything.
func (c SQLCondition) Empty() bool {
	return strings.TrimSpace(c.Clause) == ""
}

// And joins two conditions; an empty side is ignored.
func (c SQLCondition) And(other SQLCondition) SQLCondition {
	switch {
	case c.Empty():
		return other
	case other.Empty():
		return c
	}
	return SQLCondition{
		Clause: fmt.Sprintf("(%s AND %s)", c.Clause, other.Clause),
		Params: append(append([]any{}, c.Params...), other.Params...),
	}
}

// Equals matches documents whose field equals value.
func Equals(field string, value any) SQLCondition {
	return SQLCondition{Clause: "json_extract(data, ?) = ?", Params: []any{JSONPath(field), value}}
}

// JSONPath returns the json_extract path of a top-level field.
func JSONPath(field string) string {
	return "$." + field
}

type column struct {
	sql       string
	jsonPath  string
	timestamp bool
}

// Declarations returns the filter declarations of schema: every scalar field
// plus id, createdAt and updatedAt.
func Declarations(schema collections.Schema) (*filtering.Declarations, error) {
	opts := []filtering.DeclarationOption{
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("true", filtering.TypeBool),
		filtering.DeclareIdent("false", filtering.TypeBool),
		filtering.DeclareIdent(collections.FieldID, filtering.TypeString),
		filtering.DeclareIdent(collections.FieldCreatedAt, filtering.TypeTimestamp),
		filtering.DeclareIdent(collections.FieldUpdatedAt, filtering.TypeTimestamp),
	}
	opts = append(opts, mixedNumberOverloads()...)
	for _, field := range schema.Fields {
		switch field.Type {
		case collections.Number:
			opts = append(opts, filtering.DeclareIdent(field.Name, filtering.TypeFloat))
		case collections.Checkbox:
			opts = append(opts, filtering.DeclareIdent(field.Name, filtering.TypeBool))
		case collections.Group, collections.RichText:
		default:
			opts = append(opts, filtering.DeclareIdent(field.Name, filtering.TypeString))
		}
	}
	return filtering.NewDeclarations(opts...)
}

// mixedNumberOverloads lets "price < 500" compare a float field with an
// integer literal.
func mixedNumberOverloads() []filtering.DeclarationOption {
	var opts []filtering.DeclarationOption
	for _, fn := range []string{
		filtering.FunctionEquals,
		filtering.FunctionNotEquals,
		filtering.FunctionLessThan,
		filtering.FunctionLessEquals,
		filtering.FunctionGreaterThan,
		filtering.FunctionGreaterEquals,
	} {
		opts = append(opts, filtering.DeclareFunction(fn,
			filtering.NewFunctionOverload(fn+"_float_int", filtering.TypeBool, filtering.TypeFloat, filtering.TypeInt),
		))
	}
	return opts
}

// Parse parses an AIP-160 expression against schema. An empty expression
// yields an empty condition.
func Parse(schema collections.Schema, filterStr string) (SQLCondition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return SQLCondition{}, nil
	}
	decls, err := Declarations(schema)
	if err != nil {
		return SQLCondition{}, fmt.Errorf("create declarations: %w", err)
	}
	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return SQLCondition{}, fmt.Errorf("parse filter: %w", err)
	}
	t := translator{columns: columns(schema)}
	return t.expr(parsed.CheckedExpr.Expr)
}

func columns(schema collections.Schema) map[string]column {
	out := map[string]column{
		collections.FieldID:        {sql: "id"},
		collections.FieldCreatedAt: {sql: "created_at", timestamp: true},
		collections.FieldUpdatedAt: {sql: "updated_at", timestamp: true},
	}
	for _, field := range schema.Fields {
		if field.Type == collections.Group || field.Type == collections.RichText {
			continue
		}
		out[field.Name] = column{jsonPath: JSONPath(field.Name)}
	}
	return out
}

type translator struct {
	columns map[string]column
}

func (t translator) expr(e *expr.Expr) (SQLCondition, error) {
	if e == nil {
		return SQLCondition{}, nil
	}
	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return t.call(kind.CallExpr)
	case *expr.Expr_IdentExpr:
		// A bare boolean field, e.g. "isElectric".
		return t.comparison([]*expr.Expr{e, boolLiteral(true)}, "=")
	default:
		return SQLCondition{}, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func (t translator) call(call *expr.Expr_Call) (SQLCondition, error) {
	switch call.Function {
	case "_&&_", filtering.FunctionAnd:
		return t.logical(call.Args, "AND")
	case "_||_", filtering.FunctionOr:
		return t.logical(call.Args, "OR")
	case filtering.FunctionNot, "-":
		if len(call.Args) != 1 {
			return SQLCondition{}, fmt.Errorf("NOT requires 1 argument")
		}
		inner, err := t.expr(call.Args[0])
		if err != nil {
			return SQLCondition{}, err
		}
		return SQLCondition{Clause: fmt.Sprintf("(NOT %s)", inner.Clause), Params: inner.Params}, nil
	case "_==_", filtering.FunctionEquals:
		return t.comparison(call.Args, "=")
	case "_!=_", filtering.FunctionNotEquals:
		return t.comparison(call.Args, "!=")
	case "_<_", filtering.FunctionLessThan:
		return t.comparison(call.Args, "<")
	case "_<=_", filtering.FunctionLessEquals:
		return t.comparison(call.Args, "<=")
	case "_>_", filtering.FunctionGreaterThan:
		return t.comparison(call.Args, ">")
	case "_>=_", filtering.FunctionGreaterEquals:
		return t.comparison(call.Args, ">=")
	default:
		return SQLCondition{}, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func (t translator) logical(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) < 2 {
		return SQLCondition{}, fmt.Errorf("%s requires 2 arguments", op)
	}
	clauses := make([]string, 0, len(args))
	var params []any
	for _, arg := range args {
		cond, err := t.expr(arg)
		if err != nil {
			return SQLCondition{}, err
		}
		clauses = append(clauses, cond.Clause)
		params = append(params, cond.Params...)
	}
	return SQLCondition{
		Clause: "(" + strings.Join(clauses, " "+op+" ") + ")",
		Params: params,
	}, nil
}

func (t translator) comparison(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("comparison requires 2 arguments")
	}
	name, err := identName(args[0])
	if err != nil {
		return SQLCondition{}, err
	}
	col, ok := t.columns[name]
	if !ok {
		return SQLCondition{}, fmt.Errorf("unknown field: %s", name)
	}
	value, err := literal(args[1])
	if err != nil {
		return SQLCondition{}, err
	}
	if col.timestamp {
		ts, err := toMillis(value)
		if err != nil {
			return SQLCondition{}, err
		}
		value = ts
	}
	if flag, ok := value.(bool); ok {
		// json_extract returns JSON booleans as 1 and 0.
		value = 0
		if flag {
			value = 1
		}
	}
	if col.jsonPath != "" {
		return SQLCondition{
			Clause: fmt.Sprintf("json_extract(data, ?) %s ?", op),
			Params: []any{col.jsonPath, value},
		}, nil
	}
	return SQLCondition{
		Clause: fmt.Sprintf("%s %s ?", col.sql, op),
		Params: []any{value},
	}, nil
}

func identName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}
	switch kind := e.ExprKind.(type) {
	case *expr.Expr_IdentExpr:
		return kind.IdentExpr.Name, nil
	default:
		return "", fmt.Errorf("expected identifier, got %T", kind)
	}
}

func literal(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}
	switch kind := e.ExprKind.(type) {
	case *expr.Expr_ConstExpr:
		return constant(kind.ConstExpr)
	case *expr.Expr_IdentExpr:
		switch kind.IdentExpr.Name {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("expected literal, got identifier %s", kind.IdentExpr.Name)
	case *expr.Expr_CallExpr:
		if kind.CallExpr.Function == filtering.FunctionTimestamp && len(kind.CallExpr.Args) == 1 {
			return literal(kind.CallExpr.Args[0])
		}
		return nil, fmt.Errorf("unsupported function in value position: %s", kind.CallExpr.Function)
	default:
		return nil, fmt.Errorf("expected literal, got %T", kind)
	}
}

func constant(c *expr.Constant) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("nil constant")
	}
	switch kind := c.ConstantKind.(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return float64(kind.Int64Value), nil
	case *expr.Constant_Uint64Value:
		return float64(kind.Uint64Value), nil
	case *expr.Constant_DoubleValue:
		return kind.DoubleValue, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

func toMillis(value any) (int64, error) {
	text, ok := value.(string)
	if !ok {
		return 0, fmt.Errorf("timestamp must be an RFC 3339 string")
	}
	parsed, err := time.Parse(time.RFC3339, text)
	if err != nil {
		return 0, fmt.Errorf("parse timestamp: %w", err)
	}
	return parsed.UTC().UnixMilli(), nil
}

func boolLiteral(value bool) *expr.Expr {
	return &expr.Expr{ExprKind: &expr.Expr_ConstExpr{ConstExpr: &expr.Constant{
		ConstantKind: &expr.Constant_BoolValue{BoolValue: value},
	}}}
}
