package filter

import (
	"fmt"
	"strings"

	"github.com/gcbaptista/go-ranking-engine/internal/errors"
	"github.com/gcbaptista/go-ranking-engine/model"
)

// Clause is a single JSON filter condition.
type Clause struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

// Expression is the JSON form of a filter: clauses and nested groups joined
// by Operator ("AND", "OR" or "NOT"). NOT negates the conjunction of its
// operands.
type Expression struct {
	Operator string       `json:"operator"`
	Filters  []Clause     `json:"filters"`
	Groups   []Expression `json:"groups"`
}

var clauseOperators = map[string]Op{
	"":         OpEq,
	"=":        OpEq,
	"_exact":   OpEq,
	"!=":       OpNe,
	"_ne":      OpNe,
	">":        OpGt,
	"_gt":      OpGt,
	">=":       OpGte,
	"_gte":     OpGte,
	"<":        OpLt,
	"_lt":      OpLt,
	"<=":       OpLte,
	"_lte":     OpLte,
	"between":  OpBetween,
	"_between": OpBetween,
	"in":       OpIn,
	"_in":      OpIn,
	"exists":   OpExists,
	"_exists":  OpExists,
}

// FromExpression converts a JSON expression into a tree. A nil or empty
// expression yields a nil node, meaning no filter.
func FromExpression(expr *Expression) (Node, error) {
	if expr == nil || (len(expr.Filters) == 0 && len(expr.Groups) == 0) {
		return nil, nil
	}

	operands := make([]Node, 0, len(expr.Filters)+len(expr.Groups))
	for _, c := range expr.Filters {
		n, err := fromClause(c)
		if err != nil {
			return nil, err
		}
		operands = append(operands, n)
	}
	for i := range expr.Groups {
		n, err := FromExpression(&expr.Groups[i])
		if err != nil {
			return nil, err
		}
		if n != nil {
			operands = append(operands, n)
		}
	}
	if len(operands) == 0 {
		return nil, nil
	}

	switch strings.ToUpper(expr.Operator) {
	case "", "AND":
		if len(operands) == 1 {
			return operands[0], nil
		}
		return And{Children: operands}, nil
	case "OR":
		if len(operands) == 1 {
			return operands[0], nil
		}
		return Or{Children: operands}, nil
	case "NOT":
		if len(operands) == 1 {
			return Not{X: operands[0]}, nil
		}
		return Not{X: And{Children: operands}}, nil
	}
	return nil, errors.NewInvalidFilterError("", fmt.Sprintf("unknown group operator '%s' (must be AND, OR or NOT)", expr.Operator))
}

func fromClause(c Clause) (Node, error) {
	switch c.Operator {
	case "_geoBoundingBox":
		box, err := parseBox(c.Value)
		if err != nil {
			return nil, errors.NewInvalidFilterError(model.GeoField, err.Error())
		}
		return GeoBox{Box: box}, nil
	case "_geoRadius":
		center, meters, err := parseRadius(c.Value)
		if err != nil {
			return nil, errors.NewInvalidFilterError(model.GeoField, err.Error())
		}
		return GeoRadius{Center: center, Meters: meters}, nil
	}

	op, ok := clauseOperators[strings.ToLower(c.Operator)]
	if !ok {
		return nil, errors.NewInvalidFilterError(c.Field, fmt.Sprintf("unknown operator '%s'", c.Operator))
	}
	cond := Condition{Field: c.Field, Op: op}
	switch op {
	case OpBetween:
		pair, ok := c.Value.([]interface{})
		if !ok || len(pair) != 2 {
			return nil, errors.NewInvalidFilterError(c.Field, "BETWEEN expects a [lower, upper] array")
		}
		cond.Value, cond.Value2 = pair[0], pair[1]
	case OpIn:
		values, ok := c.Value.([]interface{})
		if !ok {
			return nil, errors.NewInvalidFilterError(c.Field, "IN expects an array of values")
		}
		cond.Values = values
	case OpExists:
	default:
		cond.Value = c.Value
	}
	return cond, nil
}

func parseBox(v interface{}) (model.BoundingBox, error) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return model.BoundingBox{}, fmt.Errorf("_geoBoundingBox expects {\"top_left\": {...}, \"bottom_right\": {...}}")
	}
	tl, err := parsePoint(obj["top_left"])
	if err != nil {
		return model.BoundingBox{}, fmt.Errorf("top_left: %w", err)
	}
	br, err := parsePoint(obj["bottom_right"])
	if err != nil {
		return model.BoundingBox{}, fmt.Errorf("bottom_right: %w", err)
	}
	return model.BoundingBox{TopLeft: tl, BottomRight: br}, nil
}

func parseRadius(v interface{}) (model.GeoPoint, float64, error) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return model.GeoPoint{}, 0, fmt.Errorf("_geoRadius expects {\"lat\": .., \"lng\": .., \"distance\": ..}")
	}
	center, err := parsePoint(obj)
	if err != nil {
		return model.GeoPoint{}, 0, err
	}
	meters, ok := number(obj["distance"])
	if !ok {
		return model.GeoPoint{}, 0, fmt.Errorf("distance must be a number of meters")
	}
	return center, meters, nil
}

func parsePoint(v interface{}) (model.GeoPoint, error) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return model.GeoPoint{}, fmt.Errorf("expected a {\"lat\": .., \"lng\": ..} object")
	}
	lat, okLat := number(obj["lat"])
	lng, okLng := number(obj["lng"])
	if !okLat || !okLng {
		return model.GeoPoint{}, fmt.Errorf("lat and lng must be numbers")
	}
	return model.GeoPoint{Lat: lat, Lng: lng}, nil
}
