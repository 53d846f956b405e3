package repository

import (
	"encoding/json"
	"fmt"
)

// scalarValue flattens a record value for stores without nested types.
// Maps and slices become JSON text; nil pointers become nil.
func scalarValue(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case nil, string, bool, int, int64, float64:
		return x, nil
	case *string:
		if x == nil {
			return nil, nil
		}
		return *x, nil
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(x)
		if err != nil {
			return nil, fmt.Errorf("encode value: %w", err)
		}
		return string(b), nil
	default:
		return fmt.Sprint(x), nil
	}
}
