package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"notionpost/internal/config"
	"notionpost/internal/proxy"
)

var (
	serveAddr   string
	serveStatic string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the CORS proxy and serve the web front end",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		static := cfg.Server.StaticDir
		if serveStatic != "" {
			static = serveStatic
		}

		srv := proxy.New(proxy.Options{
			NotionBaseURL: cfg.Notion.BaseURL,
			NotionVersion: cfg.Notion.Version,
			StaticDir:     static,
			Logger:        logger.Named("proxy"),
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("🌐 Proxy listening on %s\n", addr)
		if err := srv.Run(ctx, addr); err != nil {
			return err
		}
		fmt.Println("👋 Server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (defaults to server.addr)")
	serveCmd.Flags().StringVar(&serveStatic, "static", "", "Directory served at / (defaults to server.static_dir)")
}
