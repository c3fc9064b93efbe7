package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/url"

	"github.com/spf13/cast"

	"rogerroger-mcp/internal/rogerroger"
)

var errMissingID = errors.New("Missing required parameter: id")

// toolArgs is the typed form of an invocation's arguments. Which fields are set
// depends on the action: list fills Query, get/delete fill ID, create fills Body,
// update fills ID and Body.
type toolArgs struct {
	ID    string
	Query url.Values
	Body  map[string]interface{}
}

// decodeArgs validates raw against def and fills the record for action a.
func decodeArgs(def ToolDefinition, r resource, a action, raw map[string]interface{}) (toolArgs, error) {
	var args toolArgs
	if def.requiresID() {
		id, err := identifier(raw)
		if err != nil {
			return args, err
		}
		args.ID = id
	}
	switch a {
	case actionList:
		args.Query = listQuery(r.query, raw)
	case actionCreate, actionUpdate:
		args.Body = make(map[string]interface{}, len(raw))
		for k, v := range raw {
			if a == actionUpdate && k == "id" {
				continue
			}
			args.Body[k] = v
		}
	}
	return args, nil
}

// identifier returns the id argument as a path segment. Null, empty and
// non-scalar values count as missing so they never address the collection.
func identifier(raw map[string]interface{}) (string, error) {
	v, ok := raw["id"]
	if !ok || v == nil {
		return "", errMissingID
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return "", errMissingID
	}
	id, err := cast.ToStringE(v)
	if err != nil || id == "" {
		return "", errMissingID
	}
	return id, nil
}

// listQuery forwards the declared filters that are present and truthy.
func listQuery(params []Param, raw map[string]interface{}) url.Values {
	q := url.Values{}
	for _, p := range params {
		if v, ok := raw[p.Name]; ok && truthy(v) {
			q.Set(p.Name, cast.ToString(v))
		}
	}
	return q
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	case int:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

func buildRequest(r resource, a action, args toolArgs) rogerroger.Request {
	item := r.path + "/" + url.PathEscape(args.ID)
	switch a {
	case actionList:
		return rogerroger.Request{Method: http.MethodGet, Path: r.path, Query: args.Query}
	case actionGet:
		return rogerroger.Request{Method: http.MethodGet, Path: item}
	case actionCreate:
		return rogerroger.Request{Method: http.MethodPost, Path: r.path, Body: args.Body}
	case actionUpdate:
		return rogerroger.Request{Method: r.updateMethod, Path: item, Body: args.Body}
	default:
		return rogerroger.Request{Method: http.MethodDelete, Path: item}
	}
}
