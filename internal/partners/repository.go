package partners

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	"github.com/odyssey-erp/rentaldesk/internal/platform/db"
)

// ListFilters narrows the partner contract listing.
type ListFilters struct {
	shared.ListFilters
	Type Type
}

type Repository interface {
	List(ctx context.Context, owner string, filters ListFilters) ([]Contract, int, error)
	Get(ctx context.Context, owner string, id int64) (Contract, error)
	Create(ctx context.Context, owner string, c Contract) (Contract, error)
	Update(ctx context.Context, owner string, id int64, c Contract) (Contract, error)
	Delete(ctx context.Context, owner string, id int64) error
	// ExpireOverdue runs across all owners.
	ExpireOverdue(ctx context.Context, today time.Time) (int64, error)
}

type repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

const contractColumns = `id, number, partner_name, contact_person, email, phone, address, partnership_type, object,
start_date, end_date, start_time, end_time, amount, status, special_conditions, created_at, updated_at`

func scanContract(row pgx.Row) (Contract, error) {
	var c Contract
	err := row.Scan(&c.ID, &c.Number, &c.PartnerName, &c.ContactPerson, &c.Email, &c.Phone, &c.Address,
		&c.PartnershipType, &c.Object, &c.StartDate, &c.EndDate, &c.StartTime, &c.EndTime, &c.Amount, &c.Status,
		&c.SpecialConditions, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *repository) List(ctx context.Context, owner string, filters ListFilters) ([]Contract, int, error) {
	where := ` WHERE owner_id = $1`
	args := []any{owner}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (number ILIKE $` + n + ` OR partner_name ILIKE $` + n + ` OR contact_person ILIKE $` + n + `)`
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		where += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filters.Type != "" {
		args = append(args, filters.Type)
		where += ` AND partnership_type = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM partner_contracts`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + contractColumns + ` FROM partner_contracts` + where +
		` ORDER BY ` + sortOrder(filters.SortBy, filters.Direction()) +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filters.Limit, filters.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, owner string, id int64) (Contract, error) {
	c, err := scanContract(r.db.QueryRow(ctx, `SELECT `+contractColumns+` FROM partner_contracts WHERE owner_id = $1 AND id = $2`, owner, id))
	return c, db.MapError(err)
}

func (r *repository) Create(ctx context.Context, owner string, c Contract) (Contract, error) {
	query := `INSERT INTO partner_contracts (owner_id, number, partner_name, contact_person, email, phone, address,
partnership_type, object, start_date, end_date, start_time, end_time, amount, status, special_conditions)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING ` + contractColumns
	created, err := scanContract(r.db.QueryRow(ctx, query, owner, PendingNumber, c.PartnerName, c.ContactPerson,
		c.Email, c.Phone, c.Address, c.PartnershipType, c.Object, c.StartDate, c.EndDate, c.StartTime, c.EndTime,
		c.Amount, c.Status, c.SpecialConditions))
	return created, db.MapError(err)
}

func (r *repository) Update(ctx context.Context, owner string, id int64, c Contract) (Contract, error) {
	query := `UPDATE partner_contracts SET partner_name = $3, contact_person = $4, email = $5, phone = $6,
address = $7, partnership_type = $8, object = $9, start_date = $10, end_date = $11, start_time = $12,
end_time = $13, amount = $14, status = $15, special_conditions = $16, updated_at = NOW()
WHERE owner_id = $1 AND id = $2
RETURNING ` + contractColumns
	updated, err := scanContract(r.db.QueryRow(ctx, query, owner, id, c.PartnerName, c.ContactPerson, c.Email,
		c.Phone, c.Address, c.PartnershipType, c.Object, c.StartDate, c.EndDate, c.StartTime, c.EndTime, c.Amount,
		c.Status, c.SpecialConditions))
	return updated, db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, owner string, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM partner_contracts WHERE owner_id = $1 AND id = $2`, owner, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) ExpireOverdue(ctx context.Context, today time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE partner_contracts SET status = $1, updated_at = NOW()
WHERE status = $2 AND end_date < $3`, StatusExpired, StatusActive, today)
	if err != nil {
		return 0, db.MapError(err)
	}
	return tag.RowsAffected(), nil
}

func sortOrder(sortBy, dir string) string {
	switch sortBy {
	case "number":
		return "number " + dir
	case "partner_name":
		return "partner_name " + dir + ", id"
	case "end_date":
		return "end_date " + dir + ", id"
	default:
		return "created_at DESC, id DESC"
	}
}
