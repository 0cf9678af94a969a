package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"cloud.google.com/go/civil"
	"github.com/ignatij/vineyard/internal/config"
	internal_http "github.com/ignatij/vineyard/internal/http"
	"github.com/ignatij/vineyard/internal/log"
	internal_storage "github.com/ignatij/vineyard/internal/storage"
	"github.com/ignatij/vineyard/pkg/models"
	"github.com/ignatij/vineyard/pkg/planner"
	"github.com/ignatij/vineyard/pkg/service"
	"github.com/spf13/cobra"
)

// SetupCLI registers the vineyard commands and the persistent --db flag on rootCmd.
func SetupCLI(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().String("db", "", "Database connection string (defaults to DATABASE_URL or DB_* env vars)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log.SetLevel(cfg.LogLevel)
			port, _ := cmd.Flags().GetString("port")
			if port == "" {
				port = cfg.Port
			}
			every, _ := cmd.Flags().GetDuration("remind-every")
			if every == 0 {
				every = cfg.ReminderEvery
			}

			store, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			svc := service.NewFarmService(store, log.GetLogger(), service.WithConfig(cfg.Service()))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if every > 0 {
				log.GetLogger().Infof("Running reminder sweep every %s", every)
				go svc.RunReminders(ctx, every)
			}
			return internal_http.StartServer(ctx, port, svc)
		},
	}
	serveCmd.Flags().String("port", "", "Port to listen on (defaults to PORT)")
	serveCmd.Flags().Duration("remind-every", 0, "Run the reminder sweep at this interval, 0 disables it")

	remindCmd := &cobra.Command{
		Use:   "remind",
		Short: "Create reminders for pending tasks due soon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log.SetLevel(cfg.LogLevel)
			store, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			svc := service.NewFarmService(store, log.GetLogger(), service.WithConfig(cfg.Service()))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			created, err := svc.CheckUpcomingTasks(ctx)
			if err != nil {
				log.GetLogger().Errorf("Reminder sweep failed: %v", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d reminders\n", created)
			return nil
		},
	}

	rootCmd.AddCommand(serveCmd, remindCmd, timelineCmd(), layoutCmd(), seasonalCmd())
}

func timelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Print the three-year task timeline for a planting",
		RunE: func(cmd *cobra.Command, args []string) error {
			variety, _ := cmd.Flags().GetString("variety")
			raw, _ := cmd.Flags().GetString("planting-date")
			asJSON, _ := cmd.Flags().GetBool("json")
			tasks, err := planner.GenerateTimelineFromString(variety, raw)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), tasks)
			}
			printTasks(cmd.OutOrStdout(), tasks)
			return nil
		},
	}
	cmd.Flags().String("variety", "", "Grape variety")
	cmd.Flags().String("planting-date", "", "Planting date (YYYY-MM-DD)")
	cmd.Flags().Bool("json", false, "Print JSON")
	_ = cmd.MarkFlagRequired("variety")
	_ = cmd.MarkFlagRequired("planting-date")
	return cmd
}

func layoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute how many vines fit on a rectangular plot",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req service.LayoutRequest
			req.FarmLength, _ = cmd.Flags().GetFloat64("length")
			req.FarmWidth, _ = cmd.Flags().GetFloat64("width")
			req.PlantLengthSpacing, _ = cmd.Flags().GetFloat64("length-spacing")
			req.PlantWidthSpacing, _ = cmd.Flags().GetFloat64("width-spacing")
			req = req.WithDefaults()
			if err := service.Validate(req); err != nil {
				return err
			}
			layout := planner.CalculateLayout(req.FarmLength, req.FarmWidth, req.PlantLengthSpacing, req.PlantWidthSpacing)
			printLayout(cmd.OutOrStdout(), layout)
			return nil
		},
	}
	cmd.Flags().Float64("length", 0, "Farm length in meters")
	cmd.Flags().Float64("width", 0, "Farm width in meters")
	cmd.Flags().Float64("length-spacing", 0, "Spacing between vines along the length, default 2.4")
	cmd.Flags().Float64("width-spacing", 0, "Spacing between vines along the width, default 1.8")
	return cmd
}

func seasonalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seasonal",
		Short: "Show the vineyard activities for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := civil.DateOf(time.Now())
			if raw, _ := cmd.Flags().GetString("date"); raw != "" {
				parsed, err := planner.ParseDate(raw)
				if err != nil {
					return err
				}
				day = parsed
			}
			printSeasonal(cmd.OutOrStdout(), planner.SeasonalActivities(day))
			return nil
		},
	}
	cmd.Flags().String("date", "", "Date (YYYY-MM-DD), defaults to today")
	return cmd
}

func openStore(cmd *cobra.Command, cfg config.Config) (*internal_storage.PostgresStore, error) {
	dbConnStr, _ := cmd.Flags().GetString("db")
	if dbConnStr == "" {
		dbConnStr = cfg.ConnString()
	}
	if dbConnStr == "" {
		return nil, fmt.Errorf("--db flag, DATABASE_URL or complete DB_* env vars (DB_USERNAME, DB_PASSWORD, DB_HOST, DB_PORT, DB_NAME) required")
	}
	store, err := internal_storage.InitStore(dbConnStr)
	if err != nil {
		log.GetLogger().Errorf("Failed to initialize store: %v", err)
		return nil, err
	}
	return store, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTasks(w io.Writer, tasks []models.Task) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTART\tDUE\tCATEGORY\tTITLE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.StartDate, t.DueDate, t.Category, t.Title)
	}
	tw.Flush()
}

func printLayout(w io.Writer, l models.LayoutResult) {
	fmt.Fprintf(w, "Vines across width:  %d\n", l.MaxPlantsWidth)
	fmt.Fprintf(w, "Vines along length:  %d\n", l.MaxPlantsLength)
	fmt.Fprintf(w, "Capacity:            %d\n", l.MaxCapacity)
	fmt.Fprintf(w, "Used area:           %.2f of %.2f m² (%.2f%%)\n", l.UsedArea, l.TotalArea, l.Utilization)
}

func printSeasonal(w io.Writer, a models.SeasonalActivity) {
	fmt.Fprintf(w, "%s\n\nCurrent:\n", a.Phase)
	for _, line := range a.Current {
		fmt.Fprintf(w, "  - %s\n", line)
	}
	fmt.Fprintf(w, "\nUpcoming:\n")
	for _, line := range a.Upcoming {
		fmt.Fprintf(w, "  - %s\n", line)
	}
}
