// Package filter evaluates boolean predicate trees over facet and geo
// indexes into document sets.
package filter

import (
	"fmt"
	"strings"

	"github.com/gcbaptista/go-ranking-engine/model"
)

// Op is a comparison operator of a Condition.
type Op string

const (
	OpEq      Op = "="
	OpNe      Op = "!="
	OpGt      Op = ">"
	OpGte     Op = ">="
	OpLt      Op = "<"
	OpLte     Op = "<="
	OpBetween Op = "BETWEEN" // inclusive on both ends
	OpIn      Op = "IN"
	OpExists  Op = "EXISTS"
)

// Node is a predicate tree node: And, Or, Not, Condition, GeoBox or GeoRadius.
type Node interface {
	fmt.Stringer
	node()
}

// And matches documents matching every child.
type And struct{ Children []Node }

// Or matches documents matching any child.
type Or struct{ Children []Node }

// Not matches the documents of the universe its child does not match.
type Not struct{ X Node }

// Condition compares a facet field. Value is a string, number or bool;
// Value2 is the upper bound of BETWEEN; Values lists the operands of IN.
type Condition struct {
	Field  string
	Op     Op
	Value  interface{}
	Value2 interface{}
	Values []interface{}
}

// GeoBox matches documents whose point lies in Box.
type GeoBox struct{ Box model.BoundingBox }

// GeoRadius matches documents within Meters of Center.
type GeoRadius struct {
	Center model.GeoPoint
	Meters float64
}

func (And) node() {}
func (Or) node() {}
func (Not) node() {}
func (Condition) node() {}
func (GeoBox) node() {}
func (GeoRadius) node() {}

func (n And) String() string { return join(n.Children, " AND ") }
func (n Or) String() string { return join(n.Children, " OR ") }
func (n Not) String() string { return fmt.Sprintf("NOT %v", n.X) }

func (n Condition) String() string {
	switch n.Op {
	case OpExists:
		return fmt.Sprintf("%s EXISTS", n.Field)
	case OpBetween:
		return fmt.Sprintf("%s %v TO %v", n.Field, n.Value, n.Value2)
	case OpIn:
		return fmt.Sprintf("%s IN %v", n.Field, n.Values)
	}
	return fmt.Sprintf("%s %s %v", n.Field, n.Op, n.Value)
}

func (n GeoBox) String() string {
	return fmt.Sprintf("_geoBoundingBox([%g, %g], [%g, %g])", n.Box.TopLeft.Lat, n.Box.TopLeft.Lng, n.Box.BottomRight.Lat, n.Box.BottomRight.Lng)
}

func (n GeoRadius) String() string {
	return fmt.Sprintf("_geoRadius(%g, %g, %g)", n.Center.Lat, n.Center.Lng, n.Meters)
}

func join(children []Node, sep string) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = fmt.Sprint(c)
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// Eq is shorthand for an equality condition.
func Eq(field string, value interface{}) Condition {
	return Condition{Field: field, Op: OpEq, Value: value}
}

// Compare is shorthand for a binary comparison.
func Compare(field string, op Op, value interface{}) Condition {
	return Condition{Field: field, Op: op, Value: value}
}

// Between is shorthand for an inclusive numeric range.
func Between(field string, lower, upper interface{}) Condition {
	return Condition{Field: field, Op: OpBetween, Value: lower, Value2: upper}
}

// In is shorthand for a set membership condition.
func In(field string, values ...interface{}) Condition {
	return Condition{Field: field, Op: OpIn, Values: values}
}

// Exists is shorthand for a field presence condition.
func Exists(field string) Condition {
	return Condition{Field: field, Op: OpExists}
}

// AllOf combines nodes with AND.
func AllOf(children ...Node) And { return And{Children: children} }

// AnyOf combines nodes with OR.
func AnyOf(children ...Node) Or { return Or{Children: children} }
