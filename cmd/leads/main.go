package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"quotebot/internal/config"
	"quotebot/internal/db"
	"quotebot/internal/observability"
	"quotebot/internal/repository"
)

func main() {
	cfg := config.Load()
	log := observability.NewLogger(cfg.LogLevel, "console")

	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	conn, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer conn.Close()

	report := &repository.LeadReport{DB: conn}
	leads, err := report.Recent(context.Background(), cfg.LeadsLimit)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load leads")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tOUTCOME\tSERVICE\tLANG\tLOCATION\tHOURS\tSTART\tESTIMATE")
	for _, l := range leads {
		estimate := "-"
		if l.Estimate != nil {
			estimate = fmt.Sprintf("$%.2f", *l.Estimate)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.CreatedAt.Local().Format("2006-01-02 15:04"),
			l.Outcome, l.ServiceType, l.Language, l.Location, l.Hours, l.StartTime, estimate)
	}
	w.Flush()

	log.Info().Int("count", len(leads)).Msg("leads listed")
}
