package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminAudit records privileged actions (result declarations, rollbacks,
// balance adjustments) with a free-form JSON payload.
type AdminAudit struct {
	gorm.Model

	AdminCode string         `gorm:"size:32;index" json:"admin_code"`
	Action    string         `gorm:"size:32;index" json:"action"`
	RefType   string         `gorm:"size:16" json:"ref_type"`
	RefID     string         `gorm:"size:64;index" json:"ref_id"`
	Payload   datatypes.JSON `json:"payload"`
}
