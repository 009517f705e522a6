package mcp

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, b board) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := NewServer(Config{
		Services: Services{
			Projects: b.projects,
			Users:    b.handler.users,
			Demands:  b.demands,
			Activity: b.handler.activity,
		},
		TransportMode: "stdio",
	})
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestServer_ListsCatalogTools(t *testing.T) {
	session := connect(t, newBoard(t))

	res, err := session.ListTools(context.Background(), &sdkmcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	for _, def := range buildToolCatalog() {
		assert.Contains(t, names, def.Name)
	}
}

func TestServer_CallToolRoundTrip(t *testing.T) {
	b := newBoard(t)
	session := connect(t, b)
	ctx := context.Background()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "create_project",
		Arguments: map[string]any{"name": "Portal"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)

	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	var created ProjectResponse
	require.NoError(t, json.Unmarshal([]byte(text.Text), &created))
	assert.Equal(t, "Portal", created.Project.Name)

	projects, err := b.projects.List(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestServer_CallToolReportsDomainErrors(t *testing.T) {
	session := connect(t, newBoard(t))

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "get_demand",
		Arguments: map[string]any{"id": "missing"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	var apiErr APIError
	require.NoError(t, json.Unmarshal([]byte(text.Text), &apiErr))
	assert.Equal(t, CodeDemandNotFound, apiErr.Code)
	assert.NotEmpty(t, apiErr.RecoveryHint)
}

func TestServer_ReadsDocResources(t *testing.T) {
	session := connect(t, newBoard(t))

	res, err := session.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "criagil://docs/board"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Contains(t, res.Contents[0].Text, "Geladeira")
}
