package types

import (
	"time"

	"github.com/google/uuid"
)

// Asset is an immutable upload record referenced by image placement objects.
// Uploads happen in an external flow; the core only validates references.
type Asset struct {
	ID           uuid.UUID `gorm:"type:uuid;column:id;primaryKey" json:"id"`
	DesignJobID  uuid.UUID `gorm:"type:uuid;column:design_job_id;not null;index" json:"designJobId"`
	Kind         string    `gorm:"column:kind;not null" json:"kind"`
	OriginalName *string   `gorm:"column:original_name" json:"originalName"`
	MimeType     string    `gorm:"column:mime_type;not null" json:"mimeType"`
	ByteSize     *int64    `gorm:"column:byte_size" json:"byteSize"`
	FilePath     string    `gorm:"column:file_path;not null" json:"filePath"`
	WidthPx      *int      `gorm:"column:width_px" json:"widthPx"`
	HeightPx     *int      `gorm:"column:height_px" json:"heightPx"`
	CreatedAt    time.Time `gorm:"column:created_at;not null" json:"createdAt"`
}

func (Asset) TableName() string { return "asset" }
