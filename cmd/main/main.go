package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"oda/mcp/internal/config"
	"oda/mcp/internal/container"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var dataDir string

func main() {
	rootCmd := &cobra.Command{
		Use:           "oda-mcp",
		Short:         "MCP server for the Oda online grocery store",
		Long:          "Provides an interface to the online grocery store Oda. Run without arguments to serve MCP over stdio.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for session data (default $HOME/.mcp-oda)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve MCP over stdio (the default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "login",
			Short: "Log in with the configured credentials and persist the session",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLogin(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "clean",
			Short: "Remove the data directory and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runClean()
			},
		},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}

func setup() (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}
	if dataDir != "" {
		cfg.Session.DataDir = dataDir
	}
	return container.New(cfg)
}

func runServe(ctx context.Context) error {
	app, err := setup()
	if err != nil {
		return err
	}
	defer app.Close()

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "oda",
		Version: "1.0.0",
	}, nil)
	app.Service.RegisterMCP(srv)

	// stdout belongs to the MCP transport; logrus already writes to stderr.
	log.Info("serving MCP over stdio")
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func runLogin(ctx context.Context) error {
	app, err := setup()
	if err != nil {
		return err
	}
	defer app.Close()

	email := app.Config.Oda.Email
	password := app.Config.Oda.Password
	if email == "" || password == "" {
		return fmt.Errorf("set oda.email and oda.password (or ODA_EMAIL / ODA_PASSWORD) before logging in")
	}

	if err := app.Client.Login(ctx, email, password); err != nil {
		return err
	}

	name, err := app.Client.CheckUser(ctx)
	if err != nil {
		log.Warnf("login verification failed: %v", err)
	} else if name != "" {
		log.Infof("session verified for %s", name)
	}
	return nil
}

func runClean() error {
	app, err := setup()
	if err != nil {
		return err
	}
	defer app.Close()

	if _, err := os.Stat(app.DataDir); os.IsNotExist(err) {
		log.Infof("data directory does not exist: %s", app.DataDir)
		return nil
	}
	if err := os.RemoveAll(app.DataDir); err != nil {
		return fmt.Errorf("failed to remove data directory: %w", err)
	}
	log.Infof("removed data directory: %s", app.DataDir)
	return nil
}
