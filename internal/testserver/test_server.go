// Package testserver runs a board behind the HTTP surfaces for functional tests.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/gepes/criagil/internal/app"
	"github.com/gepes/criagil/internal/domain/demand"
	"github.com/gepes/criagil/internal/mcp"
	"github.com/gepes/criagil/internal/sqlite"
	"github.com/gepes/criagil/internal/transport"
)

// Clock is the creation time stamped on every demand made through a TestServer.
var Clock = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type TestServer struct {
	Server *httptest.Server
	App    *app.App
}

// Options tweaks the server under test.
type Options struct {
	// Seed installs the embedded demo board.
	Seed bool
}

// New starts an in-memory board served over /rpc (JSON-RPC) and /mcp (streamable MCP).
// Demands created through it get sequential IDs new-1, new-2, ...
func New(t *testing.T, opts Options) *TestServer {
	t.Helper()

	n := 0
	board := demand.NewBoard(
		demand.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("new-%d", n)
		}),
		demand.WithClock(func() time.Time { return Clock }),
	)

	a, err := app.Open(context.Background(), app.Options{
		DBPath: sqlite.MemoryDSN,
		Seed:   opts.Seed,
		Board:  board,
	})
	require.NoError(t, err)

	services := a.Services()
	mcpServer := mcp.NewServer(mcp.Config{
		Services:      services,
		TransportMode: "http",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: true},
	)

	server := httptest.NewServer(transport.NewServer(services.Handler(), transport.Options{MCP: mcpHandler}))

	t.Cleanup(func() {
		server.Close()
		_ = a.Close()
	})

	return &TestServer{Server: server, App: a}
}
