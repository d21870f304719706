package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/louisbranch/voidsheet/internal/platform/logging"
	"github.com/louisbranch/voidsheet/internal/services/mcp/domain"
)

const (
	// serverName identifies the MCP server implementation.
	serverName = "voidsheet"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over streamable HTTP for remote clients.
	TransportHTTP TransportKind = "http"
)

// Config selects the transport.
type Config struct {
	Transport TransportKind
	// HTTPAddr defaults to localhost:8081 for HTTP transport.
	HTTPAddr string
	// AllowedHosts restricts the Host header for HTTP transport. Loopback
	// hosts are always allowed.
	AllowedHosts []string
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	logger    *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logging.OrNop(logger)
	}
}

// New registers the sheet tools and, when store is non-nil, the projection
// resources.
func New(svc domain.SheetService, store domain.ProjectionReader, opts ...Option) (*Server, error) {
	server := &Server{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(server)
	}
	server.mcpServer = mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	for _, module := range newMCPRegistrationModules(svc, store) {
		if err := module.register(mcpServerRegistrationAdapter{server: server.mcpServer}); err != nil {
			return nil, fmt.Errorf("register MCP module %q: %w", module.name, err)
		}
		server.logger.Debug("mcp module registered", zap.String("module", module.name))
	}
	return server, nil
}

// Run serves MCP on the configured transport and blocks until context
// cancellation.
func (s *Server) Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}
	switch cfg.Transport {
	case TransportStdio:
		return s.serveWithTransport(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return s.serveHTTP(ctx, cfg)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("mcp server starting", zap.String("transport", fmt.Sprintf("%T", transport)))
	err := s.mcpServer.Run(ctx, transport)
	if err == nil || errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return nil
	}
	return err
}
