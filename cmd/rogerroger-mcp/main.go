// Command rogerroger-mcp serves the RogerRoger CRM tools to MCP hosts.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"rogerroger-mcp/internal/rogerroger"
	"rogerroger-mcp/internal/server"
)

var version = "dev"

type cli struct {
	Version kong.VersionFlag `name:"version" help:"Print version and exit."`

	APIKey  string        `name:"api-key" env:"ROGERROGER_API_KEY" help:"RogerRoger API key."`
	BaseURL string        `name:"base-url" env:"ROGERROGER_BASE_URL" default:"https://api.rogerroger.io" help:"RogerRoger API base URL."`
	Timeout time.Duration `name:"timeout" env:"ROGERROGER_TIMEOUT" default:"30s" help:"Timeout for each API request."`

	Transport string `name:"transport" env:"MCP_TRANSPORT" enum:"stdio,http" default:"stdio" help:"Transport to serve on (stdio or http)."`
	Port      string `name:"port" env:"PORT" default:"3000" help:"HTTP transport port."`
	Token     string `name:"token" env:"MCP_TOKEN" help:"Bearer token required by the HTTP transport."`
	TLSCert   string `name:"tls-cert" env:"TLS_CERT_FILE" type:"path" help:"TLS certificate for the HTTP transport."`
	TLSKey    string `name:"tls-key" env:"TLS_KEY_FILE" type:"path" help:"TLS key for the HTTP transport."`
}

func main() {
	// stdout carries the MCP stream; keep logs on stderr.
	log.SetOutput(os.Stderr)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("WARN: could not load .env: %v", err)
	}

	var c cli
	kong.Parse(&c,
		kong.Name(server.Name),
		kong.Description("MCP server exposing RogerRoger CRM people, organizations, lists, tags and tasks."),
		kong.Vars{"version": version},
	)

	if c.APIKey == "" {
		log.Println("WARN: ROGERROGER_API_KEY not set; every tool call will fail until configured.")
	}

	client := rogerroger.New(rogerroger.Config{APIKey: c.APIKey, BaseURL: c.BaseURL, Timeout: c.Timeout, Version: version}, nil)
	d := server.NewDispatcher(client, log.Default())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch c.Transport {
	case "http":
		err = serveHTTP(ctx, c, d)
	default:
		log.Printf("Starting %s %s on stdio", server.Name, version)
		err = server.NewMCPHandler(d, version).ServeStdio(ctx, os.Stdin, os.Stdout, log.Default())
	}
	if err != nil {
		log.Fatalf("server error: %v", err)
	}
	log.Println("shutdown complete")
}

func serveHTTP(ctx context.Context, c cli, d *server.Dispatcher) error {
	cfg := server.Config{Port: c.Port, Token: c.Token}
	if cfg.Token == "" {
		log.Println("WARN: MCP_TOKEN not set; endpoints will be open. Set MCP_TOKEN to secure.")
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(cfg, d).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP HTTP server on :%s\n", cfg.Port)
		if c.TLSCert != "" && c.TLSKey != "" {
			log.Println("TLS enabled: using provided certificate and key")
			errc <- srv.ListenAndServeTLS(c.TLSCert, c.TLSKey)
			return
		}
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
