package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/pgedit/pgedit/internal/app"
	"github.com/pgedit/pgedit/internal/config"
	"github.com/pgedit/pgedit/internal/db/connection"
	"github.com/pgedit/pgedit/internal/models"
)

func main() {
	host := flag.String("host", "localhost", "database host")
	port := flag.Int("port", 5432, "database port")
	database := flag.String("db", "postgres", "database name")
	user := flag.String("user", "postgres", "database user")
	sslMode := flag.String("sslmode", "prefer", "SSL mode")
	name := flag.String("name", "", "connection name (defaults to host/db)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load config: %v (using defaults)\n", err)
		cfg = config.GetDefaults()
	}

	connName := *name
	if connName == "" {
		connName = fmt.Sprintf("%s/%s", *host, *database)
	}

	connCfg := models.ConnectionConfig{
		Name:     connName,
		Host:     *host,
		Port:     *port,
		Database: *database,
		User:     *user,
		Password: resolvePassword(*host, *port, *database, *user),
		SSLMode:  *sslMode,
	}

	a := app.New(cfg)
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := a.ConnectionManager().Connect(ctx, connCfg); err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "Failed to connect to %s: %v\n", connName, err)
		os.Exit(1)
	}
	cancel()

	zone.NewGlobal()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(a, opts...)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// resolvePassword checks PGPASSWORD first, then the OS keychain. An empty
// result is fine for trust/peer setups.
func resolvePassword(host string, port int, database, user string) string {
	if pw := os.Getenv("PGPASSWORD"); pw != "" {
		return pw
	}
	dir, err := config.GetConfigPath()
	if err != nil {
		return ""
	}
	store, err := connection.NewPasswordStore(dir)
	if err != nil {
		return ""
	}
	pw, err := store.Get(host, port, database, user)
	if err != nil {
		return ""
	}
	return pw
}
