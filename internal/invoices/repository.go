package invoices

import (
	"context"
	"strconv"

	"github.com/odyssey-erp/rentaldesk/internal/platform/db"
)

type Repository interface {
	Sources(ctx context.Context, owner string, filters Filters) ([]Source, error)
}

type repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

func (r *repository) Sources(ctx context.Context, owner string, filters Filters) ([]Source, error) {
	query := `SELECT rc.id, rc.number, c.first_name || ' ' || c.last_name, v.make || ' ' || v.model, v.plate,
rc.start_date, rc.end_date, rc.daily_rate, rc.discount_kind, rc.discount_value, rc.deposit, rc.status
FROM rental_contracts rc
JOIN clients c ON c.id = rc.client_id
JOIN vehicles v ON v.id = rc.vehicle_id
WHERE rc.owner_id = $1`
	args := []any{owner}
	if filters.From != nil {
		args = append(args, *filters.From)
		query += ` AND rc.start_date >= $` + strconv.Itoa(len(args))
	}
	if filters.To != nil {
		args = append(args, *filters.To)
		query += ` AND rc.start_date <= $` + strconv.Itoa(len(args))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		query += ` AND rc.status = $` + strconv.Itoa(len(args))
	}
	if filters.ClientID > 0 {
		args = append(args, filters.ClientID)
		query += ` AND rc.client_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY rc.start_date, rc.id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Source
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ContractID, &s.ContractNumber, &s.ClientName, &s.VehicleLabel, &s.VehiclePlate,
			&s.StartDate, &s.EndDate, &s.DailyRate, &s.DiscountKind, &s.DiscountValue, &s.Deposit, &s.Status); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
