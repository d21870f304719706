package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/louisbranch/voidsheet/internal/platform/timeouts"
)

const defaultHTTPAddr = "localhost:8081"

var listenTCP = net.Listen

// HTTPHandler returns the streamable HTTP handler guarded by the host
// allowlist.
func (s *Server) HTTPHandler(allowedHosts []string) http.Handler {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
	return hostGuard(allowedHosts, handler)
}

func (s *Server) serveHTTP(ctx context.Context, cfg Config) error {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		addr = defaultHTTPAddr
	}
	listener, err := listenTCP("tcp", addr)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Handler:           s.HTTPHandler(cfg.AllowedHosts),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()
	s.logger.Info("mcp http server listening", zap.String("addr", listener.Addr().String()))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-serveErr
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// hostGuard rejects requests whose Host is neither loopback nor allowlisted,
// which blocks DNS rebinding against a local server.
func hostGuard(allowedHosts []string, next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedHosts))
	for _, host := range allowedHosts {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			allowed[host] = struct{}{}
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !hostAllowed(r.Host, allowed) {
			http.Error(w, "host not allowed", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func hostAllowed(hostport string, allowed map[string]struct{}) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	host = strings.ToLower(strings.Trim(host, "[]"))
	switch host {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	_, ok := allowed[host]
	return ok
}
