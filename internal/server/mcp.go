package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Name is the server name announced to MCP hosts.
const Name = "rogerroger-mcp"

// NewMCPServer registers every catalog tool on a new MCP server.
func NewMCPServer(d *Dispatcher, version string) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(Name, version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	for _, def := range Catalog() {
		s.AddTool(mcpTool(def), d.callTool)
	}
	return s
}

func mcpTool(def ToolDefinition) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}
	for _, p := range def.Params {
		popts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			popts = append(popts, mcp.Required())
		}
		if p.Type == TypeNumber {
			opts = append(opts, mcp.WithNumber(p.Name, popts...))
		} else {
			opts = append(opts, mcp.WithString(p.Name, popts...))
		}
	}
	return mcp.NewTool(def.Name, opts...)
}

// callTool adapts Invoke to the MCP handler signature. Errors are reported as
// text content, never through the protocol error channel.
func (d *Dispatcher) callTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toCallToolResult(d.Invoke(ctx, req.Params.Name, req.GetArguments())), nil
}

func toCallToolResult(env ResultEnvelope) *mcp.CallToolResult {
	res := &mcp.CallToolResult{}
	for _, c := range env.Content {
		res.Content = append(res.Content, mcp.NewTextContent(c.Text))
	}
	return res
}

// MCPHandler answers JSON-RPC messages for the MCP server. A tools/call for a
// name the server does not know is answered by the Dispatcher, so the host
// still receives a result envelope.
type MCPHandler struct {
	srv *mcpserver.MCPServer
	d   *Dispatcher
}

// NewMCPHandler builds the MCP server for d and wraps it.
func NewMCPHandler(d *Dispatcher, version string) *MCPHandler {
	return &MCPHandler{srv: NewMCPServer(d, version), d: d}
}

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	} `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result"`
}

// HandleMessage returns the response for one message, or nil for notifications.
func (h *MCPHandler) HandleMessage(ctx context.Context, msg json.RawMessage) interface{} {
	var req rpcRequest
	if err := json.Unmarshal(msg, &req); err == nil && req.Method == "tools/call" && len(req.ID) > 0 {
		if _, ok := h.d.handlers[req.Params.Name]; !ok {
			env := h.d.Invoke(ctx, req.Params.Name, req.Params.Arguments)
			return rpcResponse{JSONRPC: mcp.JSONRPC_VERSION, ID: req.ID, Result: toCallToolResult(env)}
		}
	}
	return h.srv.HandleMessage(ctx, msg)
}

// ServeStdio reads newline-delimited messages from in and writes responses to
// out until ctx is cancelled or in is exhausted. Messages are handled
// concurrently; writes are serialized.
func (h *MCPHandler) ServeStdio(ctx context.Context, in io.Reader, out io.Writer, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		r := bufio.NewReader(in)
		for {
			line, err := r.ReadBytes('\n')
			if len(bytes.TrimSpace(line)) > 0 {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		case line := <-lines:
			wg.Add(1)
			go func() {
				defer wg.Done()
				res := h.HandleMessage(ctx, json.RawMessage(line))
				if res == nil {
					return
				}
				b, err := json.Marshal(res)
				if err != nil {
					logger.Printf("encode response: %v", err)
					return
				}
				mu.Lock()
				defer mu.Unlock()
				if _, err := out.Write(append(b, '\n')); err != nil {
					logger.Printf("write response: %v", err)
				}
			}()
		}
	}
}
