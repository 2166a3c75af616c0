package model

import (
	"fmt"
	"strconv"
)

// Document is a flexible map representing a JSON document as handed to the
// reference store. Field values may be strings, numbers, booleans, arrays of
// those, or a geo object under the "_geo" key.
// Example: doc["title"], doc["price"], doc["_geo"]
type Document map[string]interface{}

// GeoField is the reserved document key holding a {"lat": .., "lng": ..} object.
const GeoField = "_geo"

// GetDocumentID returns the external documentID if it's stored under the "documentID" key.
func (d Document) GetDocumentID() (string, bool) {
	if id, ok := d["documentID"]; ok {
		if str, sok := id.(string); sok {
			if str != "" {
				return str, true
			}
		}
	}
	return "", false
}

// GetGeoPoint extracts the "_geo" field. Latitude and longitude may be numbers
// or numeric strings.
func (d Document) GetGeoPoint() (GeoPoint, bool) {
	raw, ok := d[GeoField]
	if !ok {
		return GeoPoint{}, false
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return GeoPoint{}, false
	}
	lat, latOK := toFloat(obj["lat"])
	lng, lngOK := toFloat(obj["lng"])
	if !latOK || !lngOK {
		return GeoPoint{}, false
	}
	p := GeoPoint{Lat: lat, Lng: lng}
	if p.Validate() != nil {
		return GeoPoint{}, false
	}
	return p, true
}

// FacetValues converts the value stored under field into facet values.
// Arrays are flattened one level; unsupported values are skipped.
func (d Document) FacetValues(field string) []FacetValue {
	raw, ok := d[field]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case []interface{}:
		out := make([]FacetValue, 0, len(v))
		for _, item := range v {
			if fv, ok := FacetValueOf(item); ok {
				out = append(out, fv)
			}
		}
		return out
	case []string:
		out := make([]FacetValue, 0, len(v))
		for _, item := range v {
			out = append(out, StringValue(item))
		}
		return out
	default:
		if fv, ok := FacetValueOf(v); ok {
			return []FacetValue{fv}
		}
		return nil
	}
}

// TextValues returns the string content of field, one entry per array element.
func (d Document) TextValues(field string) []string {
	raw, ok := d[field]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := stringify(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := stringify(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}
	return 0, false
}
