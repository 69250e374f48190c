// Command sgi-mcp serves the query engine over MCP stdio, for editor and
// agent integrations that want structured tool calls rather than a CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sgi-dev/sgi/internal/logx"
	"github.com/sgi-dev/sgi/internal/mcpserver"
	"github.com/sgi-dev/sgi/internal/sgi"
)

func main() {
	root := "."
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	// Stdout is the JSON-RPC channel; logx writes to stderr, and it goes
	// quiet before the transport starts so the server runs silent.
	logx.SetQuiet(true)

	ix, err := sgi.Open(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sgi-mcp: open %s: %v\n", root, err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server := mcpserver.New(ix)
	if err := server.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "sgi-mcp: %v\n", err)
		os.Exit(1)
	}
}
