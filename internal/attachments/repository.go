package attachments

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	"github.com/odyssey-erp/rentaldesk/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context, owner string, ownerType OwnerType, ownerRef int64) ([]Attachment, error)
	Get(ctx context.Context, owner string, id int64) (Attachment, error)
	Create(ctx context.Context, owner string, a Attachment) (Attachment, error)
	Delete(ctx context.Context, owner string, id int64) error
}

type repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

const attachmentColumns = `id, owner_type, owner_ref, file_name, content_type, size_bytes, object_key, created_at`

func scanAttachment(row pgx.Row) (Attachment, error) {
	var a Attachment
	err := row.Scan(&a.ID, &a.OwnerType, &a.OwnerRef, &a.FileName, &a.ContentType, &a.Size, &a.ObjectKey, &a.CreatedAt)
	return a, err
}

func (r *repository) List(ctx context.Context, owner string, ownerType OwnerType, ownerRef int64) ([]Attachment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+attachmentColumns+` FROM attachments
WHERE owner_id = $1 AND owner_type = $2 AND owner_ref = $3 ORDER BY created_at DESC, id DESC`, owner, ownerType, ownerRef)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, owner string, id int64) (Attachment, error) {
	a, err := scanAttachment(r.db.QueryRow(ctx, `SELECT `+attachmentColumns+` FROM attachments WHERE owner_id = $1 AND id = $2`, owner, id))
	return a, db.MapError(err)
}

func (r *repository) Create(ctx context.Context, owner string, a Attachment) (Attachment, error) {
	created, err := scanAttachment(r.db.QueryRow(ctx, `INSERT INTO attachments
(owner_id, owner_type, owner_ref, file_name, content_type, size_bytes, object_key)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+attachmentColumns, owner, a.OwnerType, a.OwnerRef, a.FileName, a.ContentType, a.Size, a.ObjectKey))
	return created, db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, owner string, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM attachments WHERE owner_id = $1 AND id = $2`, owner, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
