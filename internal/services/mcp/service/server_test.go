package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap/zaptest"

	"github.com/louisbranch/voidsheet/internal/services/mcp/domain"
	"github.com/louisbranch/voidsheet/internal/services/sheet/app"
	"github.com/louisbranch/voidsheet/internal/services/sheet/storage/sqlite"
)

func decodeStructuredContent[T any](t *testing.T, value any) T {
	t.Helper()

	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var output T
	if err := json.Unmarshal(data, &output); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return output
}

func connectClient(t *testing.T, server *Server) *mcp.ClientSession {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.serveWithTransport(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	connectCtx, connectCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer connectCancel()
	session, err := client.Connect(connectCtx, clientTransport, nil)
	if err != nil {
		cancel()
		t.Fatalf("connect client: %v", err)
	}
	t.Cleanup(func() {
		session.Close()
		cancel()
		select {
		case err := <-serveErr:
			if err != nil {
				t.Errorf("serve returned error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("serve did not stop after cancel")
		}
	})
	return session
}

func TestServerDeriveAndReadProjection(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "sheet.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	logger := zaptest.NewLogger(t)
	svc := app.New(app.WithStore(store), app.WithLogger(logger))
	server, err := New(svc, store, WithLogger(logger))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	session := connectClient(t, server)

	doc, err := os.ReadFile("../../sheet/fixture/testdata/acolyte.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "sheet_bindings",
		Arguments: map[string]any{"document": string(doc)},
	})
	if err != nil {
		t.Fatalf("call sheet_bindings: %v", err)
	}
	if result == nil || result.IsError {
		t.Fatalf("sheet_bindings failed: %+v", result)
	}
	output := decodeStructuredContent[domain.SheetBindingsResult](t, result.StructuredContent)
	if output.ActorID != "acolyte-vey" {
		t.Errorf("expected actor id %q, got %q", "acolyte-vey", output.ActorID)
	}
	if output.Bindings["T"] != 40 {
		t.Errorf("expected T 40, got %v", output.Bindings["T"])
	}

	resource, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "sheet://acolyte-vey"})
	if err != nil {
		t.Fatalf("read projection: %v", err)
	}
	var payload domain.ProjectionPayload
	if err := json.Unmarshal([]byte(resource.Contents[0].Text), &payload); err != nil {
		t.Fatalf("decode projection: %v", err)
	}
	if payload.Name != "Sister Vey" {
		t.Errorf("expected stored name %q, got %q", "Sister Vey", payload.Name)
	}
}

func TestServerListsSheetTools(t *testing.T) {
	server, err := New(app.New(), nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	session := connectClient(t, server)

	tools, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"sheet_derive", "sheet_bindings", "sheet_explain", "sheet_rules_version"} {
		if !names[want] {
			t.Errorf("expected tool %q to be registered", want)
		}
	}
}

func TestAddMCPToolRejectsUnknownHandler(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "1.0"}, nil)
	err := addMCPTool(server, &mcp.Tool{Name: "bogus"}, func() {})
	if err == nil {
		t.Fatal("expected error for unsupported handler")
	}
}

func TestRunUnsupportedTransport(t *testing.T) {
	server, err := New(app.New(), nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	err = server.Run(context.Background(), Config{Transport: "websocket"})
	if err == nil {
		t.Fatal("expected error for unsupported transport")
	}
	if !strings.Contains(err.Error(), "not supported") {
		t.Errorf("expected 'not supported' in error, got: %v", err)
	}
}

func TestHostGuard(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := hostGuard([]string{"Sheets.Example.com"}, next)

	tests := []struct {
		host string
		want int
	}{
		{host: "localhost:8081", want: http.StatusNoContent},
		{host: "127.0.0.1", want: http.StatusNoContent},
		{host: "[::1]:8081", want: http.StatusNoContent},
		{host: "sheets.example.com", want: http.StatusNoContent},
		{host: "evil.example.com", want: http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Host = tt.host
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("host %q: expected status %d, got %d", tt.host, tt.want, rec.Code)
		}
	}
}

func TestServeHTTPStopsOnCancel(t *testing.T) {
	server, err := New(app.New(), nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, Config{Transport: TransportHTTP, HTTPAddr: "127.0.0.1:0"})
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("http server did not stop")
	}
}
