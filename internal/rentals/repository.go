package rentals

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	"github.com/odyssey-erp/rentaldesk/internal/platform/db"
)

// ListFilters narrows the contract listing.
type ListFilters struct {
	shared.ListFilters
	ClientID  int64
	VehicleID int64
	From      *time.Time
	To        *time.Time
}

type Repository interface {
	List(ctx context.Context, owner string, filters ListFilters) ([]Summary, int, error)
	Get(ctx context.Context, owner string, id int64) (Contract, error)
	Create(ctx context.Context, owner string, c Contract) (Contract, error)
	Update(ctx context.Context, owner string, id int64, c Contract) (Contract, error)
	Delete(ctx context.Context, owner string, id int64) error
}

type repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

const contractColumns = `rc.id, rc.number, rc.client_id, rc.vehicle_id, rc.driver_id, rc.start_date, rc.end_date,
rc.pickup_time, rc.return_time, rc.daily_rate, rc.discount_kind, rc.discount_value, rc.days, rc.subtotal,
rc.discount_amount, rc.total, rc.deposit, rc.status, rc.departure_condition, rc.return_condition, rc.notes,
rc.created_at, rc.updated_at`

func contractFields(c *Contract) []any {
	return []any{&c.ID, &c.Number, &c.ClientID, &c.VehicleID, &c.DriverID, &c.StartDate, &c.EndDate,
		&c.PickupTime, &c.ReturnTime, &c.DailyRate, &c.DiscountKind, &c.DiscountValue, &c.Days, &c.Subtotal,
		&c.DiscountAmount, &c.Total, &c.Deposit, &c.Status, &c.DepartureCondition, &c.ReturnCondition, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt}
}

func scanContract(row pgx.Row) (Contract, error) {
	var c Contract
	err := row.Scan(contractFields(&c)...)
	return c, err
}

func (r *repository) List(ctx context.Context, owner string, filters ListFilters) ([]Summary, int, error) {
	where := ` WHERE rc.owner_id = $1`
	args := []any{owner}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (rc.number ILIKE $` + n + ` OR c.first_name ILIKE $` + n + ` OR c.last_name ILIKE $` + n + ` OR v.plate ILIKE $` + n + `)`
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		where += ` AND rc.status = $` + strconv.Itoa(len(args))
	}
	if filters.ClientID > 0 {
		args = append(args, filters.ClientID)
		where += ` AND rc.client_id = $` + strconv.Itoa(len(args))
	}
	if filters.VehicleID > 0 {
		args = append(args, filters.VehicleID)
		where += ` AND rc.vehicle_id = $` + strconv.Itoa(len(args))
	}
	if filters.From != nil {
		args = append(args, *filters.From)
		where += ` AND rc.end_date >= $` + strconv.Itoa(len(args))
	}
	if filters.To != nil {
		args = append(args, *filters.To)
		where += ` AND rc.start_date <= $` + strconv.Itoa(len(args))
	}

	from := ` FROM rental_contracts rc
JOIN clients c ON c.id = rc.client_id
JOIN vehicles v ON v.id = rc.vehicle_id`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+from+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + contractColumns + `, c.first_name || ' ' || c.last_name, v.make || ' ' || v.model, v.plate` +
		from + where + ` ORDER BY ` + sortOrder(filters.SortBy, filters.Direction()) +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filters.Limit, filters.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		dest := append(contractFields(&s.Contract), &s.ClientName, &s.VehicleLabel, &s.VehiclePlate)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, owner string, id int64) (Contract, error) {
	c, err := scanContract(r.db.QueryRow(ctx, `SELECT `+contractColumns+` FROM rental_contracts rc WHERE rc.owner_id = $1 AND rc.id = $2`, owner, id))
	return c, db.MapError(err)
}

func (r *repository) Create(ctx context.Context, owner string, c Contract) (Contract, error) {
	query := `INSERT INTO rental_contracts AS rc (owner_id, number, client_id, vehicle_id, driver_id, start_date, end_date,
pickup_time, return_time, daily_rate, discount_kind, discount_value, days, subtotal, discount_amount, total,
deposit, status, departure_condition, return_condition, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
RETURNING ` + contractColumns
	created, err := scanContract(r.db.QueryRow(ctx, query, owner, PendingNumber, c.ClientID, c.VehicleID, c.DriverID,
		c.StartDate, c.EndDate, c.PickupTime, c.ReturnTime, c.DailyRate, c.DiscountKind, c.DiscountValue, c.Days,
		c.Subtotal, c.DiscountAmount, c.Total, c.Deposit, c.Status, c.DepartureCondition, c.ReturnCondition, c.Notes))
	return created, db.MapError(err)
}

// Update replaces every mutable column. number and created_at never change.
func (r *repository) Update(ctx context.Context, owner string, id int64, c Contract) (Contract, error) {
	query := `UPDATE rental_contracts AS rc SET client_id = $3, vehicle_id = $4, driver_id = $5, start_date = $6,
end_date = $7, pickup_time = $8, return_time = $9, daily_rate = $10, discount_kind = $11, discount_value = $12,
days = $13, subtotal = $14, discount_amount = $15, total = $16, deposit = $17, status = $18,
departure_condition = $19, return_condition = $20, notes = $21, updated_at = NOW()
WHERE rc.owner_id = $1 AND rc.id = $2
RETURNING ` + contractColumns
	updated, err := scanContract(r.db.QueryRow(ctx, query, owner, id, c.ClientID, c.VehicleID, c.DriverID,
		c.StartDate, c.EndDate, c.PickupTime, c.ReturnTime, c.DailyRate, c.DiscountKind, c.DiscountValue, c.Days,
		c.Subtotal, c.DiscountAmount, c.Total, c.Deposit, c.Status, c.DepartureCondition, c.ReturnCondition, c.Notes))
	return updated, db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, owner string, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM rental_contracts WHERE owner_id = $1 AND id = $2`, owner, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func sortOrder(sortBy, dir string) string {
	switch sortBy {
	case "number":
		return "rc.number " + dir
	case "start_date":
		return "rc.start_date " + dir + ", rc.id"
	case "total":
		return "rc.total " + dir + ", rc.id"
	default:
		return "rc.created_at DESC, rc.id DESC"
	}
}
