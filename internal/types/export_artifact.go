package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ExportArtifactKindManifest = "manifest"
	ExportArtifactKindSVG      = "svg"
)

// ExportArtifact is an append-only export output row. A successful export
// writes exactly two: one manifest and one svg. Rows are never mutated.
type ExportArtifact struct {
	ID              uuid.UUID      `gorm:"type:uuid;column:id;primaryKey" json:"id"`
	DesignJobID     uuid.UUID      `gorm:"type:uuid;column:design_job_id;not null;index" json:"designJobId"`
	Kind            string         `gorm:"column:kind;not null" json:"kind"`
	Version         string         `gorm:"column:version;not null" json:"version"`
	PreflightStatus string         `gorm:"column:preflight_status;not null" json:"preflightStatus"`
	PayloadJSON     datatypes.JSON `gorm:"column:payload_json;type:jsonb" json:"payloadJson"`
	TextContent     *string        `gorm:"column:text_content" json:"textContent"`
	CreatedAt       time.Time      `gorm:"column:created_at;not null" json:"createdAt"`
}

func (ExportArtifact) TableName() string { return "export_artifact" }
