package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	DesignJobStatusDraft    = "draft"
	DesignJobStatusApproved = "approved"
	DesignJobStatusExported = "exported"
	DesignJobStatusFailed   = "failed"
)

// DesignJob is the mutable aggregate root: one placement document targeting
// one product/machine pair. PlacementJSON is replaced wholesale on every
// placement update, never patched field by field.
type DesignJob struct {
	ID               uuid.UUID      `gorm:"type:uuid;column:id;primaryKey" json:"id"`
	OrderRef         *string        `gorm:"column:order_ref;index" json:"orderRef"`
	ProductProfileID string         `gorm:"column:product_profile_id;not null;index" json:"productProfileId"`
	MachineProfileID string         `gorm:"column:machine_profile_id;not null;index" json:"machineProfileId"`
	Status           string         `gorm:"column:status;not null;default:draft" json:"status"`
	PlacementJSON    datatypes.JSON `gorm:"column:placement_json;type:jsonb;not null" json:"placementJson"`
	PreviewImagePath *string        `gorm:"column:preview_image_path" json:"previewImagePath"`
	ProofImagePath   *string        `gorm:"column:proof_image_path" json:"proofImagePath"`
	PlacementHash    *string        `gorm:"column:placement_hash" json:"placementHash"`
	TemplateID       *string        `gorm:"column:template_id" json:"templateId"`
	BatchRunItemID   *string        `gorm:"column:batch_run_item_id" json:"batchRunItemId"`
	CreatedAt        time.Time      `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (DesignJob) TableName() string { return "design_job" }
