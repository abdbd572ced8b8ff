// Command zms collects and serves typed per-zone memory statistics
// from zonememstat(8).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bahamat/zonememstat"
	"github.com/bahamat/zonememstat/internal/collector"
	"github.com/bahamat/zonememstat/internal/config"
	zmsmcp "github.com/bahamat/zonememstat/internal/mcp"
	"github.com/bahamat/zonememstat/internal/report"
	"github.com/bahamat/zonememstat/internal/tui"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("zms: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "collect":
		err = collectMain(args)
	case "top":
		err = topMain(args)
	case "mcp":
		err = mcpMain(args)
	case "version":
		fmt.Println(zonememstat.Version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "zms: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: zms <command> [flags]

Commands:
  collect     Take one snapshot of per-zone memory statistics
  top         Interactive viewer with periodic refresh
  mcp         Start the MCP server
  version     Print the version
  help        Show this help

Use "zms <command> -h" for command-specific flags.`)
}

// loadConfig loads the configuration and applies flag overrides.
func loadConfig(path string, timeout time.Duration) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if timeout > 0 {
		cfg.RawTimeout = timeout.String()
	}
	return cfg, nil
}

// newStore builds the snapshot store from the config: a plain cache
// over temp-dir JSON, or over a bolt database when history is set.
func newStore(cfg *config.Config) (report.Store, func(), error) {
	if cfg.History == "" {
		return report.NewCacheStore(cfg.CacheSize(), report.NewDiskStore()), func() {}, nil
	}
	bs, err := report.OpenBoltStore(cfg.History)
	if err != nil {
		return nil, nil, err
	}
	return report.NewCacheStore(cfg.CacheSize(), bs), func() { _ = bs.Close() }, nil
}

// --- collect ---

func collectMain(args []string) error {
	fs := flag.NewFlagSet("collect", flag.ExitOnError)
	jsonFlag := fs.Bool("json", false, "output the snapshot as JSON")
	configFlag := fs.String("config", "", "path to config file")
	timeoutFlag := fs.Duration("timeout", 0, "override configured timeout (e.g. 30s)")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(*configFlag, *timeoutFlag)
	if err != nil {
		return err
	}

	snap, err := collector.New(cfg).Collect(ctx)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	fmt.Print(formatSnapshotCLI(snap))
	return nil
}

func formatSnapshotCLI(snap *report.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-38s %-14s %10s %10s %6s %10s %9s\n",
		"ZONE", "ALIAS", "RSS(MB)", "CAP(MB)", "NOVER", "POUT(MB)", "SWAP%")
	for i := range snap.Zones {
		z := &snap.Zones[i]

		alias := "-"
		if z.Alias.Valid {
			alias = z.Alias.Name
		}
		capCol := "unlimited"
		if z.Cap != 0 {
			capCol = fmt.Sprintf("%d", z.Cap)
		}
		swap := "-"
		if z.Swap.Valid {
			swap = fmt.Sprintf("%.5f", z.Swap.Percent)
		}

		fmt.Fprintf(&b, "%-38s %-14s %10d %10s %6d %10d %9s\n",
			z.Zonename, alias, z.RSS, capCol, z.NOver, z.POut, swap)
	}

	for _, sk := range snap.Skipped {
		fmt.Fprintf(&b, "skipped: %s (%s)\n", sk.Line, sk.Reason)
	}
	if snap.ExitCode != 0 {
		fmt.Fprintf(&b, "zonememstat exited with status %d\n", snap.ExitCode)
	}

	return b.String()
}

// --- top ---

func topMain(args []string) error {
	fs := flag.NewFlagSet("top", flag.ExitOnError)
	configFlag := fs.String("config", "", "path to config file")
	intervalFlag := fs.Duration("interval", 2*time.Second, "refresh interval")
	_ = fs.Parse(args)

	cfg, err := loadConfig(*configFlag, 0)
	if err != nil {
		return err
	}

	model := tui.NewModel(collector.New(cfg), *intervalFlag)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("top: %w", err)
	}
	return nil
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	configFlag := fs.String("config", "", "path to config file")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(zmsmcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(*configFlag, 0)
	if err != nil {
		return err
	}

	store, closeStore, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	server := zmsmcp.NewServer(collector.New(cfg), store)

	if *httpAddr != "" {
		return serveHTTP(ctx, server, *httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
