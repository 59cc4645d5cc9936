// Package query builds SQL WHERE clauses from a small expression tree.
//
// WHY AN EXPRESSION TREE?
// Filtered search combines optional predicates (text match, tag membership,
// collection scope) that the caller mixes and matches per request. Building
// that WHERE clause by concatenating strings is how SQL injection happens.
// Instead, handlers compose typed nodes (Eq, In, Contains, ...) and the tree
// compiles to a clause whose user-supplied values are ALL bound parameters.
// Column names and subqueries are code-owned constants, never caller input.
//
// The tree is deliberately tiny: AND/OR over a handful of leaf comparisons is
// everything the search surface needs.
package query

import (
	"strings"
)

// Expr is one node of a WHERE-clause expression tree.
type Expr interface {
	// build appends the node's SQL to sb and its bound values to args.
	build(sb *strings.Builder, args *[]any)
}

// Where compiles an expression tree into a "WHERE ..." fragment plus the bound
// arguments, in placeholder order. A nil expression compiles to an empty
// string (no filtering).
func Where(e Expr) (string, []any) {
	if e == nil {
		return "", nil
	}
	var sb strings.Builder
	args := make([]any, 0, 4)
	sb.WriteString("WHERE ")
	e.build(&sb, &args)
	return sb.String(), args
}

type andExpr struct{ children []Expr }

type orExpr struct{ children []Expr }

// And combines expressions with AND. Nil children are skipped, so optional
// predicates can be passed unconditionally:
//
//	query.And(query.Eq("user_id", uid), textExpr, tagExpr)
//
// where textExpr/tagExpr may be nil when that filter wasn't requested.
// And() with zero non-nil children compiles to the neutral "1=1".
func And(children ...Expr) Expr {
	return andExpr{children: compact(children)}
}

// Or combines expressions with OR, parenthesized as a unit.
func Or(children ...Expr) Expr {
	return orExpr{children: compact(children)}
}

func compact(children []Expr) []Expr {
	out := children[:0]
	for _, c := range children {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (e andExpr) build(sb *strings.Builder, args *[]any) {
	buildJoined(sb, args, e.children, " AND ")
}

func (e orExpr) build(sb *strings.Builder, args *[]any) {
	buildJoined(sb, args, e.children, " OR ")
}

func buildJoined(sb *strings.Builder, args *[]any, children []Expr, sep string) {
	if len(children) == 0 {
		sb.WriteString("1=1")
		return
	}
	if len(children) == 1 {
		children[0].build(sb, args)
		return
	}
	sb.WriteString("(")
	for i, c := range children {
		if i > 0 {
			sb.WriteString(sep)
		}
		c.build(sb, args)
	}
	sb.WriteString(")")
}

type eqExpr struct {
	col string
	val any
}

// Eq compares a column to a bound value.
func Eq(col string, val any) Expr {
	return eqExpr{col: col, val: val}
}

func (e eqExpr) build(sb *strings.Builder, args *[]any) {
	sb.WriteString(e.col)
	sb.WriteString(" = ?")
	*args = append(*args, e.val)
}

type inExpr struct {
	col  string
	vals []any
}

// In matches a column against a bound value set. An empty set compiles to
// "1=0" — nothing matches, which is the honest reading of "IN ()".
func In(col string, vals ...any) Expr {
	return inExpr{col: col, vals: vals}
}

// InStrings is In for the common []string case.
func InStrings(col string, vals []string) Expr {
	anys := make([]any, len(vals))
	for i, v := range vals {
		anys[i] = v
	}
	return In(col, anys...)
}

func (e inExpr) build(sb *strings.Builder, args *[]any) {
	if len(e.vals) == 0 {
		sb.WriteString("1=0")
		return
	}
	sb.WriteString(e.col)
	sb.WriteString(" IN (")
	for i, v := range e.vals {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("?")
		*args = append(*args, v)
	}
	sb.WriteString(")")
}

type containsExpr struct {
	col    string
	needle string
}

// Contains matches when the column contains the needle as a case-insensitive
// substring. Implemented with instr() over lower() rather than LIKE, so the
// needle needs no wildcard escaping — "100%" searches for a literal percent.
func Contains(col, needle string) Expr {
	return containsExpr{col: col, needle: needle}
}

func (e containsExpr) build(sb *strings.Builder, args *[]any) {
	sb.WriteString("instr(lower(")
	sb.WriteString(e.col)
	sb.WriteString("), ?) > 0")
	*args = append(*args, strings.ToLower(e.needle))
}

type isNullExpr struct{ col string }

// IsNull matches rows where the column is NULL.
func IsNull(col string) Expr {
	return isNullExpr{col: col}
}

func (e isNullExpr) build(sb *strings.Builder, args *[]any) {
	sb.WriteString(e.col)
	sb.WriteString(" IS NULL")
}

type inSubqueryExpr struct {
	col  string
	sub  string
	args []any
}

// InSubquery matches a column against a code-owned subquery with its own
// bound arguments. The subquery string MUST be a compile-time constant from
// the storage layer — it is spliced into the SQL verbatim.
func InSubquery(col, sub string, args ...any) Expr {
	return inSubqueryExpr{col: col, sub: sub, args: args}
}

func (e inSubqueryExpr) build(sb *strings.Builder, args *[]any) {
	sb.WriteString(e.col)
	sb.WriteString(" IN (")
	sb.WriteString(e.sub)
	sb.WriteString(")")
	*args = append(*args, e.args...)
}
