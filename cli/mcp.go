// ABOUTME: MCP server subcommand
// ABOUTME: Serves the CiviCRM tools, resources and prompts over stdio for desktop assistants
package cli

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/harperreed/civibridge/handlers"
	"github.com/harperreed/civibridge/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func newMCPCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			var opts handlers.MCPOptions
			if email := a.cfg.MCP.UserEmail; email != "" {
				id := session.Static(email)
				opts.Identity = &id
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a.log.Info("starting MCP server",
				slog.String("version", version),
				slog.Int("tools", len(a.reg.List())),
				slog.Bool("identity", opts.Identity != nil),
			)
			server := handlers.NewMCPServer(a.reg, version, opts)
			if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
}
