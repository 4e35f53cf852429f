package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"quotebot/internal/model"
)

const leadsSchema = `
CREATE TABLE IF NOT EXISTS quote_leads (
	id           UUID PRIMARY KEY,
	location     TEXT NOT NULL,
	hours        TEXT NOT NULL,
	start_time   TEXT NOT NULL DEFAULT '',
	service_type TEXT NOT NULL,
	language     TEXT NOT NULL,
	outcome      TEXT NOT NULL,
	estimate     DOUBLE PRECISION,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS quote_leads_created_at_idx ON quote_leads (created_at DESC);
`

// LeadRepository grava cada tentativa de orçamento concluída.
type LeadRepository struct {
	DB *pgxpool.Pool
}

func (r *LeadRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.Exec(ctx, leadsSchema); err != nil {
		return fmt.Errorf("failed to create quote_leads: %w", err)
	}
	return nil
}

func (r *LeadRepository) Record(ctx context.Context, lead model.Lead) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO quote_leads
		(id, location, hours, start_time, service_type, language, outcome, estimate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, lead.ID, lead.Location, lead.Hours, lead.StartTime, string(lead.ServiceType),
		string(lead.Language), string(lead.Outcome), lead.Estimate, lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert lead %s: %w", lead.ID, err)
	}
	return nil
}

// LeadReport lê os leads via database/sql para o relatório de linha de comando.
type LeadReport struct {
	DB *sql.DB
}

// Recent devolve os leads mais novos primeiro.
func (r *LeadReport) Recent(ctx context.Context, limit int) ([]model.Lead, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, location, hours, start_time, service_type, language, outcome, estimate, created_at
		FROM quote_leads
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var list []model.Lead
	for rows.Next() {
		var (
			l                              model.Lead
			serviceType, language, outcome string
			estimate                       sql.NullFloat64
		)
		if err := rows.Scan(&l.ID, &l.Location, &l.Hours, &l.StartTime, &serviceType, &language, &outcome, &estimate, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		l.ServiceType = model.ServiceType(serviceType)
		l.Language = model.Language(language)
		l.Outcome = model.Outcome(outcome)
		if estimate.Valid {
			v := estimate.Float64
			l.Estimate = &v
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
