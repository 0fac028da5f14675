package attachments

import "time"

// OwnerType names the record an attachment belongs to.
type OwnerType string

const (
	OwnerRental  OwnerType = "rental"
	OwnerPartner OwnerType = "partner"
)

// Attachment is the metadata row of a stored scan. The bytes live in the
// blob store under ObjectKey.
type Attachment struct {
	ID          int64     `json:"id"`
	OwnerType   OwnerType `json:"owner_type"`
	OwnerRef    int64     `json:"owner_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	ObjectKey   string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
