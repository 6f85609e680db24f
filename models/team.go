// file: models/team.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Team is the superset of the iecom_team and nice_team rows. The family-owned
// document columns are only read and written by the family they belong to;
// inserts go through an explicit column list (see services.teamInsertColumns)
// so the shared struct never leaks columns into the wrong table.
type Team struct {
	TeamID   string   `gorm:"column:team_id;primaryKey;size:36" json:"team_id"`
	Name     string   `gorm:"column:name;size:100;not null" json:"name"`
	Code     string   `gorm:"column:code;size:5;uniqueIndex;not null" json:"code"`
	Status   int      `gorm:"column:status;default:0" json:"status"`
	Count    int      `gorm:"column:count;default:0" json:"count"`
	Messages []string `gorm:"column:messages;serializer:json" json:"messages"`
	Notes    []string `gorm:"column:notes;serializer:json" json:"notes"`

	// IECOM: payment proof.
	PPLink     string `gorm:"column:pp_link" json:"pp_link,omitempty"`
	PPVerified int    `gorm:"column:pp_verified;default:0" json:"pp_verified"`

	// NICE: business model canvas and proof of originality.
	BMCLink      string `gorm:"column:bmc_link" json:"bmc_link,omitempty"`
	BMCVerified  int    `gorm:"column:bmc_verified;default:0" json:"bmc_verified"`
	POOLink      string `gorm:"column:poo_link" json:"poo_link,omitempty"`
	POOVerified  int    `gorm:"column:poo_verified;default:0" json:"poo_verified"`
	DocSubmitted bool   `gorm:"column:doc_submitted;default:false" json:"doc_submitted"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.TeamID == "" {
		t.TeamID = uuid.NewString()
	}
	return nil
}
