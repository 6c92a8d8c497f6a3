package types

import "time"

// MachineProfile is laser-machine reference data, read-only to this service.
type MachineProfile struct {
	ID                string    `gorm:"column:id;primaryKey" json:"id"`
	Name              string    `gorm:"column:name;not null" json:"name"`
	LaserType         string    `gorm:"column:laser_type" json:"laserType"`
	Lens              string    `gorm:"column:lens" json:"lens"`
	RotaryModeDefault string    `gorm:"column:rotary_mode_default" json:"rotaryModeDefault"`
	PowerDefault      float64   `gorm:"column:power_default;type:numeric(10,3)" json:"powerDefault"`
	SpeedDefault      float64   `gorm:"column:speed_default;type:numeric(10,3)" json:"speedDefault"`
	FrequencyDefault  float64   `gorm:"column:frequency_default;type:numeric(10,3)" json:"frequencyDefault"`
	CreatedAt         time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (MachineProfile) TableName() string { return "machine_profile" }
