// Command migrate applies, inspects and rolls back the marketplace schema.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/database"

	"gorm.io/gorm"
)

type target struct {
	cfg  *config.Config
	db   *gorm.DB
	args []string
}

type command struct {
	help string
	// sqlOnly commands act on the embedded Postgres migrations.
	sqlOnly bool
	run     func(ctx context.Context, t target) error
}

var commands = map[string]command{
	"up":     {help: "apply pending SQL migrations", sqlOnly: true, run: up},
	"auto":   {help: "auto-migrate the users and listings tables", run: auto},
	"status": {help: "show the schema policy and pending migrations", run: status},
	"down":   {help: "roll back one SQL migration: down <version>", sqlOnly: true, run: down},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("usage: go run ./cmd/migrate [-timeout 1m] <command> [args]\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-7s %s\n", name, commands[name].help)
	}
	return errors.New(strings.TrimRight(b.String(), "\n"))
}

func run() error {
	timeout := flag.Duration("timeout", time.Minute, "Abort the schema operation after this long")
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	name := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	cmd, ok := commands[name]
	if !ok {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.sqlOnly && cfg.DBDriver == config.DriverSQLite {
		return fmt.Errorf("%s: SQL migrations target postgres; use \"auto\" for sqlite", name)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	return cmd.run(ctx, target{cfg: cfg, db: db, args: flag.Args()[1:]})
}

func up(ctx context.Context, t target) error {
	if err := database.RunMigrations(ctx, t.db); err != nil {
		return fmt.Errorf("sql migrations failed: %w", err)
	}
	log.Printf("sql migrations applied (%d registered)", len(database.GetMigrations()))
	return nil
}

func auto(ctx context.Context, t target) error {
	t.cfg.DBSchemaMode = database.SchemaModeAuto
	if err := database.ApplySchema(ctx, t.db, t.cfg); err != nil {
		return fmt.Errorf("auto schema apply failed: %w", err)
	}
	log.Println("users and listings tables auto-migrated")
	return nil
}

func status(ctx context.Context, t target) error {
	st, err := database.GetSchemaStatus(ctx, t.db, t.cfg)
	if err != nil {
		return fmt.Errorf("schema status failed: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "driver\t%s\n", t.cfg.DBDriver)
	fmt.Fprintf(w, "mode\t%s\n", st.Mode)
	fmt.Fprintf(w, "env\t%s\n", st.Environment)
	fmt.Fprintf(w, "sql migrations\t%t\n", st.WillRunSQL)
	fmt.Fprintf(w, "auto-migrate\t%t\n", st.WillRunAutoMigrate)
	fmt.Fprintf(w, "applied\t%d\n", len(st.AppliedVersions))
	for _, m := range st.PendingMigrations {
		fmt.Fprintf(w, "pending\t%s\n", m.String())
	}
	return w.Flush()
}

func down(ctx context.Context, t target) error {
	if len(t.args) < 1 {
		return errors.New("usage: go run ./cmd/migrate down <version>")
	}
	version, err := strconv.Atoi(t.args[0])
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", t.args[0], err)
	}
	if database.GetMigrationByVersion(version) == nil {
		return fmt.Errorf("unknown migration version %d", version)
	}
	if err := database.RollbackMigration(ctx, t.db, version); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	log.Printf("rolled back migration %d", version)
	return nil
}
