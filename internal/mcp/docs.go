package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `criagil is a kanban board for team demands: Projects group Demands, Demands move through six columns.

Columns, in board order:
- backlog (Backlog), todo (A Fazer), progress (Em Andamento), frozen (Geladeira), validate (A Validar), done (Feito)

Rules:
- A new demand lands at the end of the backlog unless an initial status is given.
- move_demand appends to the end of the target column; any column can move to any other.
- update_demand keeps the card in place unless its status changes, in which case it moves like move_demand.
- Deleting a project keeps its demands; they render with the placeholder project "Projeto não encontrado".

Default workflow:
1) Orient: board_view (no filters) and board_metrics.
2) Look up IDs with list_projects and list_users before creating or assigning.
3) Mutate with create_demand, update_demand or move_demand.
4) Check get_recent_activity to see what changed.

Docs:
- criagil://docs/index
- criagil://docs/board
- criagil://docs/filters
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "criagil://docs/index",
		Name:        "docs_index",
		Title:       "criagil docs index",
		Description: "Entry point: available tools and what to read next.",
		Content: `# criagil: Agent Docs Index

## Tools

- ` + "`board_view`" + `, ` + "`board_metrics`" + `: read the board.
- ` + "`get_demand`" + `: one demand with its resolved project.
- ` + "`create_demand`" + `, ` + "`update_demand`" + `, ` + "`move_demand`" + `: change demands.
- ` + "`list_projects`" + `, ` + "`create_project`" + `, ` + "`update_project`" + `, ` + "`delete_project`" + `: manage projects.
- ` + "`list_users`" + `: people demands can be assigned to.
- ` + "`get_recent_activity`" + `: newest-first change log.

## Docs

- ` + "`criagil://docs/board`" + `: columns, ordering and the placeholder project.
- ` + "`criagil://docs/filters`" + `: how board_view narrows the board.

## Errors

Failed calls return a JSON body with ` + "`code`" + `, ` + "`message`" + ` and ` + "`recovery_hint`" + `.
Codes: DEMAND_NOT_FOUND, PROJECT_NOT_FOUND, USER_NOT_FOUND, INVALID_INPUT, INVALID_STATUS, INVALID_PARAMS, METHOD_NOT_FOUND.
`,
	},
	{
		URI:         "criagil://docs/board",
		Name:        "docs_board",
		Title:       "Board model",
		Description: "Columns, card ordering, required fields and dangling project references.",
		Content: `# Board model

## Columns

| status | title |
|---|---|
| backlog | Backlog |
| todo | A Fazer |
| progress | Em Andamento |
| frozen | Geladeira |
| validate | A Validar |
| done | Feito |

Every demand is in exactly one column. Cards keep the order they arrived in.

## Ordering

- Intake and moves append to the end of the target column.
- Dropping a card on its own column does nothing (` + "`moved: false`" + `).
- Editing without a status change keeps the card where it is.
- Cards are never reordered inside a column.

## Required fields

title, description, stakeholder, project_id, type (feature, bug, support, improvement) and
priority (baixa, média, alta, crítica). estimated_hours must be positive when set.

## Deleted projects

Deleting a project leaves its demands on the board. They render with project
` + "`{id: unknown, name: Projeto não encontrado, color: #6B7280}`" + ` and stay editable.
Pointing a demand at another project requires that project to exist.
`,
	},
	{
		URI:         "criagil://docs/filters",
		Name:        "docs_filters",
		Title:       "Board filters",
		Description: "Search term and facet semantics for board_view.",
		Content: `# Board filters

All filters combine with AND. An omitted filter or the value ` + "`all`" + ` matches everything.

- search_term: case-insensitive substring of title, description or stakeholder.
- project_id: exact project ID.
- assignee_id: the demand has this user among its assignees.
- type, priority: exact value.

The response always has all six columns, empty ones included, plus ` + "`total_results`" + `.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
