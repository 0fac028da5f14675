package drivers

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	"github.com/odyssey-erp/rentaldesk/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context, owner string, filters shared.ListFilters) ([]Driver, int, error)
	Get(ctx context.Context, owner string, id int64) (Driver, error)
	Create(ctx context.Context, owner string, driver Driver) (Driver, error)
	Update(ctx context.Context, owner string, id int64, driver Driver) (Driver, error)
	Delete(ctx context.Context, owner string, id int64) error
}

type repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

const driverColumns = `id, first_name, last_name, phone, license_number, daily_rate, status, notes, created_at, updated_at`

func scanDriver(row pgx.Row) (Driver, error) {
	var d Driver
	err := row.Scan(&d.ID, &d.FirstName, &d.LastName, &d.Phone, &d.LicenseNumber, &d.DailyRate, &d.Status,
		&d.Notes, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (r *repository) List(ctx context.Context, owner string, filters shared.ListFilters) ([]Driver, int, error) {
	where := ` WHERE owner_id = $1`
	args := []any{owner}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (first_name ILIKE $` + n + ` OR last_name ILIKE $` + n + ` OR license_number ILIKE $` + n + `)`
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		where += ` AND status = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM drivers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + driverColumns + ` FROM drivers` + where +
		` ORDER BY last_name ` + filters.Direction() + `, first_name ` + filters.Direction() + `, id` +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filters.Limit, filters.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var drivers []Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, 0, err
		}
		drivers = append(drivers, d)
	}
	return drivers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, owner string, id int64) (Driver, error) {
	d, err := scanDriver(r.db.QueryRow(ctx, `SELECT `+driverColumns+` FROM drivers WHERE owner_id = $1 AND id = $2`, owner, id))
	return d, db.MapError(err)
}

func (r *repository) Create(ctx context.Context, owner string, d Driver) (Driver, error) {
	query := `INSERT INTO drivers (owner_id, first_name, last_name, phone, license_number, daily_rate, status, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + driverColumns
	created, err := scanDriver(r.db.QueryRow(ctx, query, owner, d.FirstName, d.LastName, d.Phone, d.LicenseNumber,
		d.DailyRate, d.Status, d.Notes))
	return created, db.MapError(err)
}

func (r *repository) Update(ctx context.Context, owner string, id int64, d Driver) (Driver, error) {
	query := `UPDATE drivers SET first_name = $3, last_name = $4, phone = $5, license_number = $6,
daily_rate = $7, status = $8, notes = $9, updated_at = NOW()
WHERE owner_id = $1 AND id = $2
RETURNING ` + driverColumns
	updated, err := scanDriver(r.db.QueryRow(ctx, query, owner, id, d.FirstName, d.LastName, d.Phone, d.LicenseNumber,
		d.DailyRate, d.Status, d.Notes))
	return updated, db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, owner string, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM drivers WHERE owner_id = $1 AND id = $2`, owner, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
