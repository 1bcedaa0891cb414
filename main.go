package main

import "github.com/taurgis/mcp-aegis/cmd"

var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
