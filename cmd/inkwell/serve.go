package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/docs"
	"inkwell/internal/httpserver"
	"inkwell/internal/users"
)

var serveFlags struct {
	addr    string
	root    string
	state   string
	users   string
	cfgPath string
	open    bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "listen address (default :4567)")
	serveCmd.Flags().StringVar(&serveFlags.root, "root", "", "document root (required if --config is not set)")
	serveCmd.Flags().StringVar(&serveFlags.state, "state", "", "state dir for thumbnails (default: <root>/.inkwell)")
	serveCmd.Flags().StringVar(&serveFlags.users, "users", "", "credential ledger file (default: users.yml next to the root)")
	serveCmd.Flags().StringVar(&serveFlags.cfgPath, "config", "", "path to config yaml (optional)")
	serveCmd.Flags().BoolVar(&serveFlags.open, "open-reading", false, "allow anonymous reading (mutations still need a session)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveFlags.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serveFlags.addr != "" {
		cfg.Addr = serveFlags.addr
	}
	if serveFlags.root != "" {
		cfg.DataRoot = serveFlags.root
	}
	if serveFlags.state != "" {
		cfg.StateDir = serveFlags.state
	}
	if serveFlags.users != "" {
		cfg.UsersFile = serveFlags.users
	}
	if serveFlags.open {
		cfg.RequireSignin = false
	}
	cfg, err = cfg.Normalize()
	if err != nil {
		return err
	}

	store, err := docs.NewStore(cfg.DataRoot)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	ledger, err := users.Open(cfg.UsersFile, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	watcher, err := docs.NewWatcher(store)
	if err != nil {
		return fmt.Errorf("watch store: %w", err)
	}

	srv, err := httpserver.New(httpserver.Options{
		Config:   cfg,
		Store:    store,
		Ledger:   ledger,
		Sessions: auth.NewSessions(time.Duration(cfg.SessionTTL)),
		Watcher:  watcher,
	})
	if err != nil {
		return fmt.Errorf("server init: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go watcher.Run(ctx)

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	slog.Info("inkwell listening", "addr", cfg.Addr, "root", cfg.DataRoot, "require_signin", cfg.RequireSignin)
	slog.Info("webdav endpoint ready", "path", "/dav/")

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	slog.Info("inkwell stopped")
	return nil
}
