package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"rogerroger-mcp/internal/rogerroger"
)

// Doer executes a single CRM API request. *rogerroger.Client implements it.
type Doer interface {
	Do(ctx context.Context, r rogerroger.Request) ([]byte, error)
}

type handlerFunc func(ctx context.Context, args map[string]interface{}) (string, error)

// Dispatcher routes tool invocations to their handlers and normalizes the outcome.
type Dispatcher struct {
	client   Doer
	logger   *log.Logger
	handlers map[string]handlerFunc
}

// NewDispatcher builds a Dispatcher backed by client. A nil logger means log.Default().
func NewDispatcher(client Doer, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	d := &Dispatcher{client: client, logger: logger}
	d.registerToolHandlers()
	return d
}

func (d *Dispatcher) registerToolHandlers() {
	defs := make(map[string]ToolDefinition)
	for _, def := range Catalog() {
		defs[def.Name] = def
	}
	d.handlers = make(map[string]handlerFunc, len(resources)*5)
	for _, r := range resources {
		for _, a := range []action{actionList, actionGet, actionCreate, actionUpdate, actionDelete} {
			name := r.toolName(a)
			d.handlers[name] = d.handle(defs[name], r, a)
		}
	}
}

// Invoke runs the named tool. It never panics and never returns an error: every
// failure is rendered as an envelope whose text starts with "Error: ".
func (d *Dispatcher) Invoke(ctx context.Context, name string, args map[string]interface{}) (env ResultEnvelope) {
	id := uuid.NewString()
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			env = errorResult(fmt.Errorf("%v", rec))
		}
		status := "ok"
		if isError(env) {
			status = "error"
		}
		d.logger.Printf("tool=%s invocation=%s status=%s duration=%s", name, id, status, time.Since(start).Round(time.Millisecond))
	}()

	h, ok := d.handlers[name]
	if !ok {
		return errorResult(fmt.Errorf("Unknown tool: %s", name))
	}
	text, err := h(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	return textResult(text)
}

func (d *Dispatcher) handle(def ToolDefinition, r resource, a action) handlerFunc {
	return func(ctx context.Context, raw map[string]interface{}) (string, error) {
		args, err := decodeArgs(def, r, a, raw)
		if err != nil {
			return "", err
		}
		data, err := d.client.Do(ctx, buildRequest(r, a, args))
		if err != nil {
			return "", err
		}
		return formatResult(r, a, args, data)
	}
}

func isError(env ResultEnvelope) bool {
	return len(env.Content) > 0 && strings.HasPrefix(env.Content[0].Text, "Error: ")
}
