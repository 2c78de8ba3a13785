package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/danielgatis/go-termgrid"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var configPath string
	var addr string
	var shell string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Spawn a shell under a PTY and stream its grid over WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveGrid(cmd.Context(), configPath, addr, shell)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a termgrid YAML config, watched for hot-reload")
	cmd.Flags().StringVar(&addr, "addr", ":7681", "address to listen on")
	cmd.Flags().StringVar(&shell, "shell", os.Getenv("SHELL"), "shell to spawn under the PTY")

	return cmd
}

// gridServer owns one PTY-backed session and streams its rendered
// screen to every subscribed WebSocket viewer on an interval.
type gridServer struct {
	mu   sync.RWMutex
	g    *termgrid.Grid
	id   string
	subs map[*websocket.Conn]chan []byte
}

func newGridServer(g *termgrid.Grid) *gridServer {
	return &gridServer{
		g:    g,
		id:   uuid.NewString(),
		subs: make(map[*websocket.Conn]chan []byte),
	}
}

func (s *gridServer) snapshot() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b strings.Builder
	var last termgrid.LastCell
	last.Fg, last.Bg = termgrid.DefaultColor, termgrid.DefaultColor
	for y := 0; y < s.g.SY(); y++ {
		b.WriteString(termgrid.StringCells(s.g, 0, y, s.g.SX(), &last, termgrid.StringCellsOptions{
			WithCodes: true, Trim: true,
		}))
		b.WriteString("\r\n")
	}
	return []byte(b.String())
}

func (s *gridServer) broadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame := s.snapshot()
			s.mu.RLock()
			for _, ch := range s.subs {
				select {
				case ch <- frame:
				default:
				}
			}
			s.mu.RUnlock()
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *gridServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("termgrid serve: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ch := make(chan []byte, 8)
	s.mu.Lock()
	s.subs[conn] = ch
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.subs, conn)
		s.mu.Unlock()
	}()

	for frame := range ch {
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
}

func serveGrid(ctx context.Context, configPath, addr, shell string) error {
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

	srv := newGridServer(g)
	log.Printf("termgrid serve: session %s listening on %s", srv.id, addr)

	go io.Copy(newDriver(g), ptmx)

	if configPath != "" {
		go watchConfig(ctx, configPath, g)
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go srv.broadcastLoop(serveCtx)

	router := mux.NewRouter()
	router.HandleFunc("/ws", srv.handleWS)

	httpSrv := &http.Server{Addr: addr, Handler: router}
	go func() {
		<-ctx.Done()
		httpSrv.Close()
	}()

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// watchConfig hot-reloads the history limit whenever the config file on
// disk changes (SPEC_FULL.md §11: fsnotify watches the YAML config; the
// only field that can change safely on a live grid is hlimit, via
// Grid.SetHistoryLimit).
func watchConfig(ctx context.Context, path string, g *termgrid.Grid) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("termgrid serve: config watch disabled: %v", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		log.Printf("termgrid serve: watch %q: %v", path, err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := termgrid.LoadConfig(path)
			if err != nil {
				log.Printf("termgrid serve: reload %q: %v", path, err)
				continue
			}
			g.SetHistoryLimit(cfg.HistoryLimit)
			log.Printf("termgrid serve: reloaded history_limit=%d from %s", cfg.HistoryLimit, path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("termgrid serve: watch error: %v", err)
		}
	}
}
