// Package cql implements a small query language for selecting entities by
// their component and tag sets. An expression combines CONTAINS, EXACT,
// TAGGED, and ALL terms with !, &, and |, for example:
//
//	CONTAINS(Position, Velocity) & TAGGED(enemy) & !TAGGED(frozen)
//
// Parse compiles an expression into a filter.Filter.
package cql

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/rotisserie/eris"

	"github.com/cey0225/kon/filter"
)

// Resolver validates a component name from a query and returns its canonical
// registered name. It fails for unknown components.
type Resolver func(name string) (string, error)

type cqlOperator int

const (
	opAnd cqlOperator = iota
	opOr
)

var operatorMap = map[string]cqlOperator{"&": opAnd, "|": opOr}

// Capture basically tells the parser library how to transform a string token that's parsed into the operator type.
func (o *cqlOperator) Capture(s []string) error {
	if len(s) == 0 {
		return eris.New("invalid operator")
	}
	operator, ok := operatorMap[s[0]]
	if !ok {
		return eris.New("invalid operator")
	}
	*o = operator
	return nil
}

type cqlName struct {
	Name string `@Ident`
}

type cqlAll struct{}

func (a *cqlAll) Capture(values []string) error {
	if values[0] == "ALL" && values[1] == "(" && values[2] == ")" {
		*a = cqlAll{}
	}
	return nil
}

type cqlNot struct {
	SubExpression *cqlValue `"!" @@`
}

type cqlExact struct {
	Components []*cqlName `"EXACT" "(" (@@ ",")* @@ ")"`
}

type cqlContains struct {
	Components []*cqlName `"CONTAINS" "(" (@@ ",")* @@ ")"`
}

type cqlTagged struct {
	Tags []*cqlName `"TAGGED" "(" (@@ ",")* @@ ")"`
}

type cqlValue struct {
	All           *cqlAll      `@("ALL" "(" ")")`
	Exact         *cqlExact    `| @@`
	Contains      *cqlContains `| @@`
	Tagged        *cqlTagged   `| @@`
	Not           *cqlNot      `| @@`
	Subexpression *cqlTerm     `| "(" @@ ")"`
}

type cqlFactor struct {
	Base *cqlValue `@@`
}

type cqlOpFactor struct {
	Operator cqlOperator `@("&" | "|")`
	Factor   *cqlFactor  `@@`
}

type cqlTerm struct {
	Left  *cqlFactor     `@@`
	Right []*cqlOpFactor `@@*`
}

// Display

func (o cqlOperator) String() string {
	switch o {
	case opAnd:
		return "&"
	case opOr:
		return "|"
	}
	panic("unsupported operator")
}

func (a *cqlAll) String() string {
	return "ALL()"
}

func nameList(names []*cqlName) string {
	parameters := make([]string, 0, len(names))
	for _, n := range names {
		parameters = append(parameters, n.Name)
	}
	return strings.Join(parameters, ", ")
}

func (e *cqlExact) String() string {
	return "EXACT(" + nameList(e.Components) + ")"
}

func (e *cqlContains) String() string {
	return "CONTAINS(" + nameList(e.Components) + ")"
}

func (e *cqlTagged) String() string {
	return "TAGGED(" + nameList(e.Tags) + ")"
}

func (v *cqlValue) String() string {
	switch {
	case v.Exact != nil:
		return v.Exact.String()
	case v.Contains != nil:
		return v.Contains.String()
	case v.Tagged != nil:
		return v.Tagged.String()
	case v.All != nil:
		return v.All.String()
	case v.Not != nil:
		return "!(" + v.Not.SubExpression.String() + ")"
	case v.Subexpression != nil:
		return "(" + v.Subexpression.String() + ")"
	default:
		panic("logic error displaying CQL ast. Check the code in cql.go")
	}
}

func (f *cqlFactor) String() string {
	return f.Base.String()
}

func (o *cqlOpFactor) String() string {
	return fmt.Sprintf("%s %s", o.Operator, o.Factor)
}

func (t *cqlTerm) String() string {
	out := []string{t.Left.String()}
	for _, r := range t.Right {
		out = append(out, r.String())
	}
	return strings.Join(out, " ")
}

var internalCQLParser = participle.MustBuild[cqlTerm]()

// resolveNames runs every component name in a term through the resolver.
func resolveNames(names []*cqlName, resolve Resolver) ([]string, error) {
	resolved := make([]string, 0, len(names))
	for _, n := range names {
		canonical, err := resolve(n.Name)
		if err != nil {
			return nil, eris.Wrapf(err, "unknown component %q", n.Name)
		}
		resolved = append(resolved, canonical)
	}
	return resolved, nil
}

func valueToFilter(value *cqlValue, resolve Resolver) (filter.Filter, error) {
	switch {
	case value.Not != nil:
		resultFilter, err := valueToFilter(value.Not.SubExpression, resolve)
		if err != nil {
			return nil, err
		}
		return filter.Not(resultFilter), nil
	case value.Exact != nil:
		if len(value.Exact.Components) == 0 {
			return nil, eris.New("EXACT cannot have zero parameters")
		}
		components, err := resolveNames(value.Exact.Components, resolve)
		if err != nil {
			return nil, err
		}
		return filter.Exact(components...), nil
	case value.Contains != nil:
		if len(value.Contains.Components) == 0 {
			return nil, eris.New("CONTAINS cannot have zero parameters")
		}
		components, err := resolveNames(value.Contains.Components, resolve)
		if err != nil {
			return nil, err
		}
		return filter.Contains(components...), nil
	case value.Tagged != nil:
		if len(value.Tagged.Tags) == 0 {
			return nil, eris.New("TAGGED cannot have zero parameters")
		}
		// Tag names are registered lazily by the world, so they are not
		// resolved here.
		tags := make([]string, 0, len(value.Tagged.Tags))
		for _, t := range value.Tagged.Tags {
			tags = append(tags, t.Name)
		}
		return filter.Tagged(tags...), nil
	case value.All != nil:
		return filter.All(), nil
	case value.Subexpression != nil:
		return termToFilter(value.Subexpression, resolve)
	default:
		return nil, eris.New("unknown error during conversion from CQL AST to filter")
	}
}

func factorToFilter(factor *cqlFactor, resolve Resolver) (filter.Filter, error) {
	return valueToFilter(factor.Base, resolve)
}

func termToFilter(term *cqlTerm, resolve Resolver) (filter.Filter, error) {
	if term.Left == nil {
		return nil, eris.New("not enough values in expression")
	}
	acc, err := factorToFilter(term.Left, resolve)
	if err != nil {
		return nil, err
	}
	for _, opFactor := range term.Right {
		resultFilter, err := factorToFilter(opFactor.Factor, resolve)
		if err != nil {
			return nil, err
		}
		switch opFactor.Operator {
		case opAnd:
			acc = filter.And(acc, resultFilter)
		case opOr:
			acc = filter.Or(acc, resultFilter)
		default:
			return nil, eris.New("invalid operator")
		}
	}
	return acc, nil
}

// Parse compiles a query expression into a filter. Component names are
// validated through the resolver.
func Parse(cqlText string, resolve Resolver) (filter.Filter, error) {
	term, err := internalCQLParser.ParseString("", cqlText)
	if err != nil {
		return nil, eris.Wrap(err, "failed to parse query")
	}
	return termToFilter(term, resolve)
}
