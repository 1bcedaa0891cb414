package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const scaffoldConfig = `{
  "name": "my-server",
  "command": "node",
  "args": ["./server.js"],
  "startupTimeout": 5000,
  "readyPattern": "listening"
}
`

const scaffoldSuite = `{
  "description": "my-server basics",
  "tests": [
    {
      "description": "lists available tools",
      "request": {
        "jsonrpc": "2.0",
        "id": "list-1",
        "method": "tools/list"
      },
      "expect": {
        "response": {
          "jsonrpc": "2.0",
          "id": "list-1",
          "result": {
            "tools": "match:not:arrayLength:0"
          }
        }
      }
    }
  ]
}
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a starter mcp-aegis.config.json and example test suite",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := writeIfAbsent("mcp-aegis.config.json", scaffoldConfig); err != nil {
		return err
	}
	if err := writeIfAbsent("basics.test.json", scaffoldSuite); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "wrote mcp-aegis.config.json and basics.test.json")
	return nil
}

func writeIfAbsent(path, contents string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("init: %s already exists, refusing to overwrite", path)
	}
	return os.WriteFile(path, []byte(contents), 0o644)
}
