package main

import (
	"github.com/dgallion1/docoutline/internal/mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func mcpCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the outline tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := g.newLogger()
			ex, err := g.newExtractor(log)
			if err != nil {
				return err
			}
			log.Info("serving mcp on stdio", "version", mcpserver.Version)
			return mcpserver.New(ex).Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
