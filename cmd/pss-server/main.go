// pss-server runs the MCP server exposing Pod Security Standards analysis
// to AI agents over HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phng25/k8s-ai-sec-remediator/internal/analyzer"
	"github.com/phng25/k8s-ai-sec-remediator/internal/catalog"
	"github.com/phng25/k8s-ai-sec-remediator/internal/mcp"
)

func main() {
	var port int
	flag.IntVar(&port, "port", 8090, "The port the MCP server listens on.")
	flag.Parse()

	// Setup logger
	logConfig := zap.NewProductionConfig()
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := logConfig.Build()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting pss-server",
		zap.String("version", "dev"),
		zap.String("catalog_version", catalog.Version),
		zap.Int("port", port),
	)

	a := analyzer.New(analyzer.Options{Logger: logger})

	server := mcp.NewServer(a, mcp.ServerOptions{
		Port:   port,
		Logger: logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("MCP server failed", zap.Error(err))
	}
}
