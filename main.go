// ABOUTME: Entry point for the CiviCRM MCP server, HTTP API and CLI
// ABOUTME: Delegates to the cobra command tree in cli
package main

import (
	"os"

	"github.com/harperreed/civibridge/cli"
)

var version = "0.1.0"

func main() {
	os.Exit(cli.Execute(version))
}
