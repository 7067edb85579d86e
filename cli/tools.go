// ABOUTME: Tool subcommands for listing and invoking CRM tools from a shell
// ABOUTME: Calls print the same JSON envelope the MCP and HTTP bindings use
package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/civibridge/session"
	"github.com/spf13/cobra"
)

func newToolsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List or call CRM tools",
	}
	cmd.AddCommand(newToolsListCommand(), newToolsCallCommand())
	return cmd
}

func newToolsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, render(out, headerStyle, "NAME")+"\t"+render(out, headerStyle, "DESCRIPTION"))
			for _, t := range a.reg.List() {
				fmt.Fprintf(w, "%s\t%s\n", render(out, nameStyle, t.Name), t.Description)
			}
			return w.Flush()
		},
	}
}

func newToolsCallCommand() *cobra.Command {
	var (
		args  string
		as    string
		token string
	)

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Call a tool with JSON arguments",
		Example: `  civibridge tools call search_contacts --args '{"query":"Jane"}'
  civibridge tools call get_my_cases_as_coordinator --as worker@example.org
  civibridge tools call get_my_cases_as_coordinator --token "$SESSION_TOKEN"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			name := positional[0]
			if _, ok := a.reg.Lookup(name); !ok {
				return fmt.Errorf("unknown tool: %s", name)
			}

			ctx := cmd.Context()
			switch {
			case token != "":
				id, err := session.ParseToken(a.cfg.Auth.JWTSecret, token)
				if err != nil {
					return err
				}
				ctx = session.WithIdentity(ctx, id)
			case as != "":
				ctx = session.WithIdentity(ctx, session.Static(as))
			case a.cfg.MCP.UserEmail != "":
				ctx = session.WithIdentity(ctx, session.Static(a.cfg.MCP.UserEmail))
			}

			res := a.reg.Call(ctx, name, json.RawMessage(args))
			body, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, string(body))

			if !res.Success {
				return fmt.Errorf("%s", render(cmd.ErrOrStderr(), errorStyle, name+" failed"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&args, "args", "{}", "Tool arguments as a JSON object")
	cmd.Flags().StringVar(&as, "as", "", "Act as the user with this email (default: mcp.user_email)")
	cmd.Flags().StringVar(&token, "token", "", "Act as the holder of this HS256 session token, verified with auth.jwt_secret")
	cmd.MarkFlagsMutuallyExclusive("as", "token")
	return cmd
}
