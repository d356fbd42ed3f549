package mcpadapter

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"svw.info/indices/internal/usecase"
)

const serverName = "indices"

// NewServer registers every puzzle tool on a fresh MCP server.
func NewServer(uc *usecase.Service, version, defaultVariant string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "start_puzzle",
		Description: "Start a polynomial root puzzle and return its equation",
	}, StartHandler(uc, defaultVariant))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "submit_command",
		Description: "Apply 'press <label>...' or 'submit <n>[/<d>]...'; stops at the first strike or solve",
	}, CommandHandler(uc))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resume_puzzle",
		Description: "Continue after a strike (new equation) or a cleared stage (next stage)",
	}, ResumeHandler(uc))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "puzzle_state",
		Description: "Return the current equation, buttons and confirmed roots",
	}, StateHandler(uc))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "puzzle_hint",
		Description: "Propose the smallest root not yet confirmed",
	}, HintHandler(uc))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_variants",
		Description: "List the puzzle presets start_puzzle accepts",
	}, VariantsHandler(uc))
	return server
}
