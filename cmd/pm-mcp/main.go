package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/app"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/common"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/config"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/mcp"
)

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for desktop MCP clients)")
	configFile := flag.String("config", "pm-portal.toml", "Path to config file")
	port := flag.Int("port", 4243, "Streamable HTTP port")
	apiURL := flag.String("api-url", "", "Project-manager backend URL (overrides config)")
	flag.Parse()

	var files []string
	if _, err := os.Stat(*configFile); err == nil {
		files = append(files, *configFile)
	}
	cfg, err := config.LoadFromFiles(files...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	config.ApplyFlagOverrides(cfg, 0, "", *apiURL)

	// Stdout carries the protocol in stdio mode, so logs go to stderr.
	var logger *common.Logger
	if *stdio {
		logger = common.NewLoggerWithOutput(cfg.Logging.Level, os.Stderr)
	} else {
		logger = common.NewLoggerFromConfig(cfg.Logging)
	}

	cat, err := app.LoadCatalog(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load tool catalog")
		os.Exit(1)
	}

	proxy := mcp.NewProxy(cfg.API.URL, cfg.API.GetTimeout(), logger, nil)
	mcpServer := mcp.NewServer(cfg.MCP.Name, cat, proxy, logger)

	if *stdio {
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	addr := fmt.Sprintf(":%d", *port)
	logger.Info().Str("address", addr).Msg("starting MCP streamable HTTP")

	if err := httpServer.Start(addr); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}
