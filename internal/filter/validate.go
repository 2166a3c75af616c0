package filter

import (
	"fmt"

	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/internal/errors"
	"github.com/gcbaptista/go-ranking-engine/model"
)

// Validate checks a tree against the index settings without touching any
// index structure. Every problem is an *errors.InvalidFilterError.
func Validate(n Node, settings *config.IndexSettings) error {
	switch n := n.(type) {
	case nil:
		return errors.NewInvalidFilterError("", "empty filter node")
	case And:
		return validateChildren("AND", n.Children, settings)
	case Or:
		return validateChildren("OR", n.Children, settings)
	case Not:
		return Validate(n.X, settings)
	case Condition:
		return validateCondition(n, settings)
	case GeoBox:
		if !settings.IsFilterable(model.GeoField) {
			return errors.NewUnknownAttributeError(model.GeoField, settings.FilterableFields)
		}
		if err := n.Box.Validate(); err != nil {
			return errors.NewInvalidFilterError(model.GeoField, err.Error())
		}
		return nil
	case GeoRadius:
		if !settings.IsFilterable(model.GeoField) {
			return errors.NewUnknownAttributeError(model.GeoField, settings.FilterableFields)
		}
		if err := n.Center.Validate(); err != nil {
			return errors.NewInvalidFilterError(model.GeoField, err.Error())
		}
		if n.Meters < 0 {
			return errors.NewInvalidFilterError(model.GeoField, fmt.Sprintf("radius must be positive, got %g", n.Meters))
		}
		return nil
	}
	return errors.NewInvalidFilterError("", fmt.Sprintf("unsupported filter node %T", n))
}

func validateChildren(op string, children []Node, settings *config.IndexSettings) error {
	if len(children) == 0 {
		return errors.NewInvalidFilterError("", op+" requires at least one operand")
	}
	for _, c := range children {
		if err := Validate(c, settings); err != nil {
			return err
		}
	}
	return nil
}

func validateCondition(c Condition, settings *config.IndexSettings) error {
	if c.Field == model.GeoField {
		return errors.NewInvalidFilterError(c.Field, "use _geoBoundingBox or _geoRadius to filter on `_geo`")
	}
	if !settings.IsFilterable(c.Field) {
		return errors.NewUnknownAttributeError(c.Field, settings.FilterableFields)
	}

	switch c.Op {
	case OpEq, OpNe:
		if _, ok := model.FacetValueOf(c.Value); !ok {
			return errors.NewInvalidFilterError(c.Field, fmt.Sprintf("cannot compare with value %v (%T)", c.Value, c.Value))
		}
	case OpGt, OpGte, OpLt, OpLte:
		if _, ok := number(c.Value); !ok {
			return errors.NewInvalidFilterError(c.Field, fmt.Sprintf("operator %s expects a number, got %v", c.Op, c.Value))
		}
	case OpBetween:
		_, okLo := number(c.Value)
		_, okHi := number(c.Value2)
		if !okLo || !okHi {
			return errors.NewInvalidFilterError(c.Field, fmt.Sprintf("BETWEEN expects two numbers, got %v and %v", c.Value, c.Value2))
		}
	case OpIn:
		if len(c.Values) == 0 {
			return errors.NewInvalidFilterError(c.Field, "IN requires at least one value")
		}
		for _, v := range c.Values {
			if _, ok := model.FacetValueOf(v); !ok {
				return errors.NewInvalidFilterError(c.Field, fmt.Sprintf("cannot compare with value %v (%T)", v, v))
			}
		}
	case OpExists:
	default:
		return errors.NewInvalidFilterError(c.Field, fmt.Sprintf("unknown operator '%s'", c.Op))
	}
	return nil
}

func number(v interface{}) (float64, bool) {
	fv, ok := model.FacetValueOf(v)
	if !ok || fv.Kind != model.FacetNumber {
		return 0, false
	}
	return fv.Num, true
}
