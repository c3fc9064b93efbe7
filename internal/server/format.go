package server

import (
	"bytes"
	"encoding/json"
	"fmt"
)

func formatResult(r resource, a action, args toolArgs, data []byte) (string, error) {
	if a == actionDelete {
		return fmt.Sprintf("%s with ID %s deleted successfully", r.display, args.ID), nil
	}
	out, err := prettyJSON(data)
	if err != nil {
		return "", err
	}
	switch a {
	case actionCreate:
		return r.display + " created successfully: " + out, nil
	case actionUpdate:
		return r.display + " updated successfully: " + out, nil
	default:
		return out, nil
	}
}

// prettyJSON re-indents a JSON document with two spaces, keeping the key order
// of the response.
func prettyJSON(data []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(data), "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}
