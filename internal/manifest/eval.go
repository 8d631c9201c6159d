package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// evalString evaluates an expression and coerces the result to a string.
// The second return is false when the expression evaluates to null.
func evalString(expr hcl.Expression) (string, bool, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", false, fmt.Errorf("evaluating expression: %w", diags)
	}
	if val.IsNull() {
		return "", false, nil
	}
	converted, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", false, fmt.Errorf("converting %s to string: %w", val.Type().FriendlyName(), err)
	}
	return converted.AsString(), true, nil
}

// evalStringList evaluates an expression expected to be a list or tuple and
// coerces every element to a string, preserving declaration order.
func evalStringList(expr hcl.Expression) ([]string, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluating expression: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.CanIterateElements() {
		return nil, fmt.Errorf("expected a list, got %s", val.Type().FriendlyName())
	}

	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.IsNull() {
			return nil, fmt.Errorf("list contains a null element")
		}
		converted, err := convert.Convert(elem, cty.String)
		if err != nil {
			return nil, fmt.Errorf("converting element %s to string: %w", elem.Type().FriendlyName(), err)
		}
		out = append(out, converted.AsString())
	}
	return out, nil
}
