package main

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/crabmix/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the crabmix SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own workshop grid and crab.
Feedings are stored per-server (all users share the same scoreboard).

Defaults come from the ssh section of the config file; flags override it.

Host key handling:
  - Absolute --host-key paths are used as given
  - Relative paths are resolved under ~/.crabmix and generated if missing

Examples:
  crabmix serve                           # Listen on the configured address
  crabmix serve --ssh :2222               # Listen on port 2222
  crabmix serve --host-key ./my_host_key  # Use specific host key
  crabmix serve --db ./feedings.db        # Use specific database

Users can connect with:
  ssh localhost -p 2323`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	logger, err := newLogger("crabmix-ssh")
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	srvCfg := tui.SSHServerConfigFrom(cfg, flagDBPath)
	srvCfg.Catalog = catalog()
	if flagSSHAddr != "" {
		srvCfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		srvCfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		srvCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}

	server, err := tui.NewSSHServer(srvCfg, logger)
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	port := strconv.Itoa(cfg.SSH.Port)
	if _, p, splitErr := net.SplitHostPort(srvCfg.Address); splitErr == nil {
		port = p
	}
	fmt.Printf("Starting crabmix SSH server on %s\n", srvCfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", port)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
