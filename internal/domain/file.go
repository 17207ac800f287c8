package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResourceType tells which entity an uploaded file belongs to.
// It doubles as the storage subdirectory.
type ResourceType string

const (
	ResourceTypeAvatar            ResourceType = "avatars"
	ResourceTypeHourProof         ResourceType = "hour-proofs"
	ResourceTypeDesignDeliverable ResourceType = "designs"
	ResourceTypeGallery           ResourceType = "gallery"
)

var allowedMimePrefixes = map[ResourceType][]string{
	ResourceTypeAvatar:            {"image/"},
	ResourceTypeGallery:           {"image/"},
	ResourceTypeHourProof:         {"image/", "application/pdf"},
	ResourceTypeDesignDeliverable: {"image/", "application/pdf", "application/zip", "application/postscript"},
}

// MaxUploadSize caps every upload at 10 MiB.
const MaxUploadSize int64 = 10 << 20

// AcceptsMimeType reports whether files of the given MIME type may be stored under r.
func (r ResourceType) AcceptsMimeType(mimeType string) bool {
	for _, prefix := range allowedMimePrefixes[r] {
		if strings.HasPrefix(mimeType, prefix) {
			return true
		}
	}
	return false
}

// StoredFile describes a file saved by the storage boundary. Only URL is
// persisted on the owning entity.
type StoredFile struct {
	ID           int64        `db:"id" json:"id"`
	FileName     string       `db:"file_name" json:"fileName"`
	FileURL      string       `db:"file_url" json:"fileUrl"`
	FileSize     int64        `db:"file_size" json:"fileSize"`
	MimeType     string       `db:"mime_type" json:"mimeType"`
	ResourceType ResourceType `db:"resource_type" json:"resourceType"`
	UploadedBy   uuid.UUID    `db:"uploaded_by" json:"uploadedBy"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
}
