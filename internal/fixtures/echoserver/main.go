// Command echoserver is a tiny real MCP server, built on
// github.com/mark3labs/mcp-go, used only by runner/runner_test.go to
// exercise the full spawn->handshake->test->shutdown loop against a
// genuine MCP implementation instead of a hand-rolled stdio double. It
// is deliberately not imported by any production package: the core
// runner stays protocol-naive and never links mcp-go.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	s := server.NewMCPServer(
		"echoserver",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
	)

	reg := newRegistry()

	if err := reg.register("read_file", mcp.NewTool("read_file",
		mcp.WithDescription("Echoes back the requested path as file content"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to read")),
	), handleReadFile); err != nil {
		fmt.Fprintf(os.Stderr, "echoserver: %v\n", err)
		os.Exit(1)
	}

	if err := reg.register("add", mcp.NewTool("add",
		mcp.WithDescription("Adds two numbers together"),
		mcp.WithNumber("a", mcp.Required(), mcp.Description("First addend")),
		mcp.WithNumber("b", mcp.Required(), mcp.Description("Second addend")),
	), handleAdd); err != nil {
		fmt.Fprintf(os.Stderr, "echoserver: %v\n", err)
		os.Exit(1)
	}

	reg.addAll(s)

	fmt.Fprintln(os.Stderr, "echoserver ready")

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "echoserver: %v\n", err)
		os.Exit(1)
	}
}

func handleReadFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, _ := request.GetArguments()["path"].(string)
	if path == "" {
		return mcp.NewToolResultError("missing required argument \"path\""), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Hello world from %s", path)), nil
}

func handleAdd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	a, aOK := args["a"].(float64)
	b, bOK := args["b"].(float64)
	if !aOK || !bOK {
		return mcp.NewToolResultError("both \"a\" and \"b\" must be numbers"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%g", a+b)), nil
}
