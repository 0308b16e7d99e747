// Package orderquery serves list screens straight from the orders table with
// hand-built SQL, bypassing aggregate loading.
package orderquery

import (
	"context"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect opens an sqlx pool over lib/pq and checks it is reachable.
func Connect(dsn string, maxOpenConns int) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	return db, nil
}

type summaryRow struct {
	ID           string    `db:"id"`
	Number       string    `db:"number"`
	CustomerID   string    `db:"customer_id"`
	Address      string    `db:"address"`
	Status       int       `db:"status"`
	WorkDate     time.Time `db:"work_date"`
	IsBirzhaOpen bool      `db:"is_birzha_open"`
	IsFrozen     bool      `db:"is_frozen"`
	PlannedTrips int       `db:"planned_trips"`
	ActualTrips  int       `db:"actual_trips"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// SummaryReader implements ports.OrderSummaryReader.
type SummaryReader struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewSummaryReader(db *sqlx.DB) *SummaryReader {
	return &SummaryReader{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *SummaryReader) ListSummaries(ctx context.Context, filter ports.OrderFilter) ([]ports.OrderSummary, error) {
	query, args, err := r.buildQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []summaryRow
	if err = r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}

	summaries := make([]ports.OrderSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, ports.OrderSummary{
			ID:           row.ID,
			Number:       row.Number,
			CustomerID:   row.CustomerID,
			Address:      row.Address,
			Status:       order.Status(row.Status).String(),
			WorkDate:     row.WorkDate,
			IsBirzhaOpen: row.IsBirzhaOpen,
			IsFrozen:     row.IsFrozen,
			PlannedTrips: row.PlannedTrips,
			ActualTrips:  row.ActualTrips,
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
		})
	}
	return summaries, nil
}

func (r *SummaryReader) buildQuery(filter ports.OrderFilter) sq.SelectBuilder {
	q := r.qb.Select(
		"id::text AS id", "number", "customer_id", "address", "status", "work_date",
		"is_birzha_open", "is_frozen", "planned_trips", "actual_trips", "created_at", "updated_at",
	).
		From("orders").
		OrderBy("work_date DESC", "number")

	if len(filter.Statuses) > 0 {
		statuses := make([]int, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, int(s))
		}
		q = q.Where(sq.Eq{"status": statuses})
	}
	if filter.ExcludeTerminal {
		q = q.Where(sq.NotEq{"status": []int{int(order.Completed), int(order.Cancelled)}})
	}
	if filter.CustomerID != "" {
		q = q.Where(sq.Eq{"customer_id": filter.CustomerID})
	}
	if filter.ContractorID != "" || filter.DriverName != "" {
		sub := sq.Select("1").From("driver_assignments").Where("driver_assignments.order_id = orders.id")
		if filter.ContractorID != "" {
			sub = sub.Where(sq.Eq{"driver_assignments.contractor_id": filter.ContractorID})
		}
		if filter.DriverName != "" {
			sub = sub.Where(sq.Eq{"driver_assignments.driver_name": filter.DriverName})
		}
		q = q.Where(sq.Expr("EXISTS (?)", sub))
	}
	if filter.WorkDateFrom != nil {
		q = q.Where(sq.GtOrEq{"work_date": *filter.WorkDateFrom})
	}
	if filter.WorkDateTo != nil {
		q = q.Where(sq.LtOrEq{"work_date": *filter.WorkDateTo})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	return q
}
