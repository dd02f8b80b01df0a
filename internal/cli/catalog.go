package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microlens-data/ulens/internal/catalog"
	"github.com/microlens-data/ulens/internal/config"
	"github.com/microlens-data/ulens/internal/monitoring"
)

func init() {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and manage the event catalog",
	}
	catalogCmd.PersistentFlags().String("db", "", "Catalog database path (ULENS_DB or ulens.db if omitted)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored events",
		Run:   runCatalogList,
	}

	showCmd := &cobra.Command{
		Use:   "show <event>",
		Short: "Show one event and its recorded conversions",
		Args:  cobra.ExactArgs(1),
		Run:   runCatalogShow,
	}

	saveCmd := &cobra.Command{
		Use:   "save <event>",
		Short: "Register or update an event from a payload file",
		Args:  cobra.ExactArgs(1),
		Run:   runCatalogSave,
	}
	saveCmd.Flags().String("input", "", "Path to the event payload (JSON or YAML by extension)")
	saveCmd.Flags().String("ra", "", "Event right ascension")
	saveCmd.Flags().String("dec", "", "Event declination")
	saveCmd.MarkFlagRequired("input")

	migrateCmd := &cobra.Command{
		Use:   "migrate up|down|version",
		Short: "Run catalog schema migrations",
		Args:  cobra.ExactArgs(1),
		Run:   runCatalogMigrate,
	}

	catalogCmd.AddCommand(listCmd, showCmd, saveCmd, migrateCmd)
	RootCmd.AddCommand(catalogCmd)
}

// openCatalog opens the catalog named by the --db flag, falling back to the
// environment configuration.
func openCatalog(cmd *cobra.Command) *catalog.Catalog {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		cfg, err := config.FromEnv()
		if err != nil {
			exitErr("load configuration", err)
		}
		dbPath = cfg.DBPath
	}

	cat, err := catalog.Open(dbPath)
	if err != nil {
		exitErr("open catalog", err)
	}
	return cat
}

func runCatalogList(cmd *cobra.Command, args []string) {
	cat := openCatalog(cmd)
	defer cat.Close()

	events, err := cat.ListEvents()
	if err != nil {
		exitErr("list events", err)
	}
	if events == nil {
		events = []catalog.Event{}
	}
	if err := writePayload(cmd, "", events); err != nil {
		exitErr("write result", err)
	}
}

func runCatalogShow(cmd *cobra.Command, args []string) {
	cat := openCatalog(cmd)
	defer cat.Close()

	ev, err := cat.Event(args[0])
	if err != nil {
		exitErr("load event", err)
	}
	recs, err := cat.Conversions(args[0])
	if err != nil {
		exitErr("load conversions", err)
	}
	if recs == nil {
		recs = []catalog.Conversion{}
	}

	result := map[string]any{
		"event":       ev,
		"conversions": recs,
	}
	if err := writePayload(cmd, "", result); err != nil {
		exitErr("write result", err)
	}
}

func runCatalogSave(cmd *cobra.Command, args []string) {
	input, _ := cmd.Flags().GetString("input")
	ra, _ := cmd.Flags().GetString("ra")
	dec, _ := cmd.Flags().GetString("dec")

	payload, err := loadPayload(input)
	if err != nil {
		exitErr("load input", err)
	}

	cat := openCatalog(cmd)
	defer cat.Close()

	ev := catalog.Event{Name: args[0], RA: ra, Dec: dec, Payload: payload}
	if err := cat.SaveEvent(ev); err != nil {
		exitErr("save event", err)
	}
	monitoring.Logf("saved event %s", args[0])
}

func runCatalogMigrate(cmd *cobra.Command, args []string) {
	cat := openCatalog(cmd)
	defer cat.Close()

	switch args[0] {
	case "up":
		if err := cat.MigrateUp(); err != nil {
			exitErr("migrate up", err)
		}
		monitoring.Logf("catalog migrated up")
	case "down":
		if err := cat.MigrateDown(); err != nil {
			exitErr("migrate down", err)
		}
		monitoring.Logf("catalog migrated down")
	case "version":
		v, dirty, err := cat.MigrateVersion()
		if err != nil {
			exitErr("migration version", err)
		}
		result := map[string]any{
			"version": v,
			"dirty":   dirty,
		}
		if err := writePayload(cmd, "", result); err != nil {
			exitErr("write result", err)
		}
	default:
		exitErr("migrate", fmt.Errorf("unknown direction %q (expected up, down or version)", args[0]))
	}
}
