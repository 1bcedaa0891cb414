// registry is a small mutex-guarded map of tool name to its mcp-go
// definition and handler, so main can register tools independently of
// the order they're added to the server.
package main

import (
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type registeredTool struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

// registry collects the tools this fixture exposes before they are
// added to the mcp-go server, so additional tools can be registered
// without editing main's setup sequence.
type registry struct {
	mu    sync.Mutex
	tools map[string]registeredTool
}

func newRegistry() *registry {
	return &registry{tools: make(map[string]registeredTool)}
}

func (r *registry) register(name string, tool mcp.Tool, handler server.ToolHandlerFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.tools[name] = registeredTool{tool: tool, handler: handler}
	return nil
}

func (r *registry) addAll(s *server.MCPServer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rt := range r.tools {
		s.AddTool(rt.tool, rt.handler)
	}
}
