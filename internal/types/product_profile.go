package types

import (
	"time"

	"gorm.io/datatypes"
)

// ProductProfile is catalog reference data. It is created and updated by the
// catalog management flow; this service only ever reads it.
type ProductProfile struct {
	ID                     string         `gorm:"column:id;primaryKey" json:"id"`
	Name                   string         `gorm:"column:name;not null" json:"name"`
	SKU                    string         `gorm:"column:sku;not null;index" json:"sku"`
	DiameterMm             float64        `gorm:"column:diameter_mm;type:numeric(10,3)" json:"diameterMm"`
	HeightMm               float64        `gorm:"column:height_mm;type:numeric(10,3)" json:"heightMm"`
	EngraveZoneWidthMm     float64        `gorm:"column:engrave_zone_width_mm;type:numeric(10,3)" json:"engraveZoneWidthMm"`
	EngraveZoneHeightMm    float64        `gorm:"column:engrave_zone_height_mm;type:numeric(10,3)" json:"engraveZoneHeightMm"`
	SeamReference          string         `gorm:"column:seam_reference" json:"seamReference"`
	ToolOutlineSvgPath     string         `gorm:"column:tool_outline_svg_path" json:"toolOutlineSvgPath"`
	DefaultSettingsProfile datatypes.JSON `gorm:"column:default_settings_profile;type:jsonb" json:"defaultSettingsProfile"`
	CreatedAt              time.Time      `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt              time.Time      `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (ProductProfile) TableName() string { return "product_profile" }
