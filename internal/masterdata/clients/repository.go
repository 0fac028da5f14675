package clients

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	"github.com/odyssey-erp/rentaldesk/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context, owner string, filters shared.ListFilters) ([]Client, int, error)
	Get(ctx context.Context, owner string, id int64) (Client, error)
	Create(ctx context.Context, owner string, client Client) (Client, error)
	Update(ctx context.Context, owner string, id int64, client Client) (Client, error)
	Delete(ctx context.Context, owner string, id int64) error
}

type repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

const clientColumns = `id, first_name, last_name, phone, email, address, license_number, license_expiry, id_number, notes, created_at, updated_at`

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Email, &c.Address, &c.LicenseNumber,
		&c.LicenseExpiry, &c.IDNumber, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *repository) List(ctx context.Context, owner string, filters shared.ListFilters) ([]Client, int, error) {
	where := ` WHERE owner_id = $1`
	args := []any{owner}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (first_name ILIKE $` + n + ` OR last_name ILIKE $` + n + ` OR phone ILIKE $` + n + ` OR email ILIKE $` + n + `)`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM clients`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + clientColumns + ` FROM clients` + where +
		` ORDER BY ` + sortOrder(filters.SortBy, filters.Direction()) +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filters.Limit, filters.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		clients = append(clients, c)
	}
	return clients, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, owner string, id int64) (Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE owner_id = $1 AND id = $2`, owner, id))
	return c, db.MapError(err)
}

func (r *repository) Create(ctx context.Context, owner string, c Client) (Client, error) {
	query := `INSERT INTO clients (owner_id, first_name, last_name, phone, email, address, license_number, license_expiry, id_number, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + clientColumns
	created, err := scanClient(r.db.QueryRow(ctx, query, owner, c.FirstName, c.LastName, c.Phone, c.Email, c.Address,
		c.LicenseNumber, c.LicenseExpiry, c.IDNumber, c.Notes))
	return created, db.MapError(err)
}

func (r *repository) Update(ctx context.Context, owner string, id int64, c Client) (Client, error) {
	query := `UPDATE clients SET first_name = $3, last_name = $4, phone = $5, email = $6, address = $7,
license_number = $8, license_expiry = $9, id_number = $10, notes = $11, updated_at = NOW()
WHERE owner_id = $1 AND id = $2
RETURNING ` + clientColumns
	updated, err := scanClient(r.db.QueryRow(ctx, query, owner, id, c.FirstName, c.LastName, c.Phone, c.Email, c.Address,
		c.LicenseNumber, c.LicenseExpiry, c.IDNumber, c.Notes))
	return updated, db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, owner string, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE owner_id = $1 AND id = $2`, owner, id)
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
	case "first_name":
		return "first_name " + dir + ", id"
	case "created_at":
		return "created_at " + dir
	default:
		return "last_name " + dir + ", first_name " + dir + ", id"
	}
}
