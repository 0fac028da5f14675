package vehicles

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	"github.com/odyssey-erp/rentaldesk/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context, owner string, filters shared.ListFilters) ([]Vehicle, int, error)
	Get(ctx context.Context, owner string, id int64) (Vehicle, error)
	Create(ctx context.Context, owner string, vehicle Vehicle) (Vehicle, error)
	Update(ctx context.Context, owner string, id int64, vehicle Vehicle) (Vehicle, error)
	Delete(ctx context.Context, owner string, id int64) error
}

type repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

const vehicleColumns = `id, make, model, plate, year, colour, fuel_type, vin, daily_rate, status, notes, created_at, updated_at`

func scanVehicle(row pgx.Row) (Vehicle, error) {
	var v Vehicle
	err := row.Scan(&v.ID, &v.Make, &v.Model, &v.Plate, &v.Year, &v.Colour, &v.FuelType, &v.VIN,
		&v.DailyRate, &v.Status, &v.Notes, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (r *repository) List(ctx context.Context, owner string, filters shared.ListFilters) ([]Vehicle, int, error) {
	where := ` WHERE owner_id = $1`
	args := []any{owner}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (make ILIKE $` + n + ` OR model ILIKE $` + n + ` OR plate ILIKE $` + n + `)`
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		where += ` AND status = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vehicles`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + vehicleColumns + ` FROM vehicles` + where +
		` ORDER BY ` + sortOrder(filters.SortBy, filters.Direction()) +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filters.Limit, filters.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, owner string, id int64) (Vehicle, error) {
	v, err := scanVehicle(r.db.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE owner_id = $1 AND id = $2`, owner, id))
	return v, db.MapError(err)
}

func (r *repository) Create(ctx context.Context, owner string, v Vehicle) (Vehicle, error) {
	query := `INSERT INTO vehicles (owner_id, make, model, plate, year, colour, fuel_type, vin, daily_rate, status, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + vehicleColumns
	created, err := scanVehicle(r.db.QueryRow(ctx, query, owner, v.Make, v.Model, v.Plate, v.Year, v.Colour,
		v.FuelType, v.VIN, v.DailyRate, v.Status, v.Notes))
	return created, db.MapError(err)
}

func (r *repository) Update(ctx context.Context, owner string, id int64, v Vehicle) (Vehicle, error) {
	query := `UPDATE vehicles SET make = $3, model = $4, plate = $5, year = $6, colour = $7, fuel_type = $8,
vin = $9, daily_rate = $10, status = $11, notes = $12, updated_at = NOW()
WHERE owner_id = $1 AND id = $2
RETURNING ` + vehicleColumns
	updated, err := scanVehicle(r.db.QueryRow(ctx, query, owner, id, v.Make, v.Model, v.Plate, v.Year, v.Colour,
		v.FuelType, v.VIN, v.DailyRate, v.Status, v.Notes))
	return updated, db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, owner string, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM vehicles WHERE owner_id = $1 AND id = $2`, owner, id)
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
	case "plate":
		return "plate " + dir
	case "daily_rate":
		return "daily_rate " + dir + ", id"
	case "created_at":
		return "created_at " + dir
	default:
		return "make " + dir + ", model " + dir + ", id"
	}
}
