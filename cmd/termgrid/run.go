package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"github.com/danielgatis/go-termgrid"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newRunCmd() *cobra.Command {
	var configPath string
	var shell string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Spawn a shell under a PTY and drive a grid from its output",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(configPath, shell)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a termgrid YAML config (defaults if unset)")
	cmd.Flags().StringVar(&shell, "shell", os.Getenv("SHELL"), "shell to spawn under the PTY")

	return cmd
}

func runShell(configPath, shell string) error {
	cfg := termgrid.DefaultConfig()
	if configPath != "" {
		loaded, err := termgrid.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if shell == "" {
		shell = "/bin/sh"
	}

	sessionID := uuid.NewString()
	log.Printf("termgrid run: session %s, shell %s, %dx%d", sessionID, shell, cfg.Columns, cfg.Rows)

	g := cfg.NewGrid()
	defer termgrid.Destroy(g)

	c := exec.Command(shell)
	ptmx, err := pty.StartWithSize(c, &pty.Winsize{
		Rows: uint16(cfg.Rows),
		Cols: uint16(cfg.Columns),
	})
	if err != nil {
		return fmt.Errorf("termgrid: start pty: %w", err)
	}
	defer ptmx.Close()

	stdinFd := int(os.Stdin.Fd())
	if term.IsTerminal(stdinFd) {
		oldState, err := term.MakeRaw(stdinFd)
		if err != nil {
			return fmt.Errorf("termgrid: enter raw mode: %w", err)
		}
		defer term.Restore(stdinFd, oldState)
	}

	go io.Copy(ptmx, os.Stdin)

	d := newDriver(g)
	tee := io.MultiWriter(d, os.Stdout)
	if _, err := io.Copy(tee, ptmx); err != nil && err != io.EOF {
		log.Printf("termgrid run: session %s pty read error: %v", sessionID, err)
	}

	return c.Wait()
}
