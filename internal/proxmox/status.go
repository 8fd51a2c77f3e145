package proxmox

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ExtractField returns the value at the dot-separated path (for example
// "data.status") in a JSON payload, rendered as a string. A leading dot is
// accepted. It returns a ParseError when the payload is not valid JSON or
// the path is absent.
func ExtractField(payload, path string) (string, error) {
	var doc any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return "", &ParseError{Path: path, Err: err}
	}

	current := doc
	for _, segment := range strings.Split(strings.TrimPrefix(path, "."), ".") {
		object, ok := current.(map[string]any)
		if !ok {
			return "", &ParseError{Path: path, Err: fmt.Errorf("segment %q is not an object", segment)}
		}
		current, ok = object[segment]
		if !ok {
			return "", &ParseError{Path: path, Err: fmt.Errorf("field %q is absent", segment)}
		}
	}

	switch value := current.(type) {
	case string:
		return value, nil
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(value), nil
	case nil:
		return "", nil
	default:
		return "", &ParseError{Path: path, Err: fmt.Errorf("field is not a scalar")}
	}
}
