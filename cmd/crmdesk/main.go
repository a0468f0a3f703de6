package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"crmdesk/internal/api"
	"crmdesk/internal/config"
	"crmdesk/internal/crm"
	"crmdesk/internal/devserver"
	"crmdesk/internal/export"
	"crmdesk/internal/logging"
	"crmdesk/internal/session"
	"crmdesk/internal/ui"
)

var (
	verbose bool
	logger  *zap.Logger
)

func main() {
	root := &cobra.Command{
		Use:   "crmdesk",
		Short: "A terminal front end for the CRM backend",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = logging.Open(verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runTUI,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(serveCmd(), exportCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	sessions, err := session.Open()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	client := api.New(cfg.Config.BaseURL, sessions, api.WithLogger(logger))
	return ui.NewProgram(client, cfg, sessions, logger).Start()
}

func serveCmd() *cobra.Command {
	var (
		addr string
		db   string
		seed bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bundled development backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := devserver.OpenStore(ctx, db)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			if seed {
				if err := devserver.Seed(ctx, store); err != nil {
					return fmt.Errorf("seed data: %w", err)
				}
				logger.Info("seeded sample data")
			}
			logger.Info("development backend listening", zap.String("addr", addr))
			fmt.Println("listening on", addr)
			return devserver.Listen(ctx, addr, store, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&db, "db", "crmdesk.db", "sqlite database path, :memory: for ephemeral")
	cmd.Flags().BoolVar(&seed, "seed", false, "populate sample records on startup")
	return cmd
}

func exportCmd() *cobra.Command {
	var (
		entity string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a collection to an xlsx workbook without opening the UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			sessions, err := session.Open()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			if sessions.Current() == nil {
				return fmt.Errorf("not signed in, run crmdesk and log in first")
			}
			client := api.New(cfg.Config.BaseURL, sessions, api.WithLogger(logger))

			dir := outDir
			if dir == "" {
				dir = cfg.Config.ExportDir
			}
			now := time.Now().In(cfg.Location())
			ctx := cmd.Context()

			path, err := exportEntity(ctx, client, entity, dir, now)
			if err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&entity, "entity", "leads", "leads, opportunities, customers, employees or tickets")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (defaults to the configured export dir)")
	return cmd
}

func exportEntity(ctx context.Context, client *api.Client, entity, dir string, now time.Time) (string, error) {
	switch entity {
	case "leads":
		items, err := client.ListLeads(ctx)
		if err != nil {
			return "", err
		}
		return export.Save(dir, "Leads", items, crm.LeadColumns(), now)
	case "opportunities":
		items, err := client.ListOpportunities(ctx)
		if err != nil {
			return "", err
		}
		return export.Save(dir, "Opportunities", items, crm.OpportunityColumns(), now)
	case "customers":
		items, err := client.ListCustomers(ctx)
		if err != nil {
			return "", err
		}
		return export.Save(dir, "Customers", items, crm.CustomerColumns(), now)
	case "employees":
		items, err := client.ListEmployees(ctx)
		if err != nil {
			return "", err
		}
		return export.Save(dir, "Employees", items, crm.EmployeeColumns(), now)
	case "tickets":
		items, err := client.ListResolvedTickets(ctx)
		if err != nil {
			return "", err
		}
		return export.Save(dir, "Tickets", items, crm.TicketColumns(), now)
	default:
		return "", fmt.Errorf("unknown entity %q", entity)
	}
}
