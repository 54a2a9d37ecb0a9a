// ts-run is an MCP stdio server exposing the check-and-run pipeline as a
// single tool, so agent frontends can execute TypeScript snippets safely.
package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/mmkal/workert/internal/config"
	"github.com/mmkal/workert/internal/frontend"
	"github.com/mmkal/workert/internal/playground"
	"github.com/mmkal/workert/internal/sandbox"
)

func main() {
	s := server.NewMCPServer("workert-ts-run", "0.1.0")

	s.AddTool(mcp.Tool{
		Name: "ts_run",
		Description: "Type-check a TypeScript snippet and run it in a network-isolated sandbox. " +
			"The snippet must define an exported async main() function; its return value is the result.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"code": map[string]any{
					"type":        "string",
					"description": "TypeScript source text defining an exported async main() function",
				},
			},
			Required: []string{"code"},
		},
	}, handleTSRun)

	if err := server.ServeStdio(s); err != nil {
		fmt.Printf("server error: %v\n", err)
	}
}

func handleTSRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)
	if args == nil {
		return errResult("error: invalid arguments"), nil
	}

	code, _ := args["code"].(string)
	if code == "" {
		return errResult("error: 'code' is required"), nil
	}

	cfg, err := config.Load()
	if err != nil {
		return errResult(fmt.Sprintf("error: loading config: %v", err)), nil
	}

	timeout, err := cfg.SandboxTimeout()
	if err != nil {
		return errResult(fmt.Sprintf("error: %v", err)), nil
	}

	policy, err := sandbox.Settings{
		Image:       cfg.Sandbox.Image,
		MaxMemory:   cfg.Sandbox.MaxMemory,
		Timeout:     timeout,
		ProfilesDir: cfg.Sandbox.ProfilesDir,
		Profile:     cfg.Sandbox.Profile,
	}.Policy()
	if err != nil {
		return errResult(fmt.Sprintf("error: %v", err)), nil
	}

	log := zap.NewNop()
	adapter := frontend.NewAdapter(frontend.NewNodeEngine(cfg.Frontend.Node, cfg.Frontend.Dir))
	dispatcher := sandbox.NewDispatcher(sandbox.NewDockerLoader(policy), log)
	play := playground.New(adapter, dispatcher, log)

	status, body := play.Run(ctx, code)

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(body)}},
		IsError: status != http.StatusOK,
	}, nil
}

func errResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: text}},
		IsError: true,
	}
}
