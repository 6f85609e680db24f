// file: models/member.go
package models

import "time"

type MemberRole string

const (
	RoleLeader MemberRole = "LEADER"
	RoleMember MemberRole = "MEMBER"
)

// Member is one row per (team, account) pair. The iecom_member and nice_member
// tables share this exact shape.
type Member struct {
	AccountID   string     `gorm:"column:account_id;primaryKey;size:36" json:"account_id"`
	TeamID      string     `gorm:"column:team_id;size:36;not null" json:"team_id"`
	Email       string     `gorm:"column:email;size:100" json:"email"`
	Role        MemberRole `gorm:"column:role;size:10" json:"role"`
	Name        string     `gorm:"column:name;size:100" json:"name"`
	Institution string     `gorm:"column:institution;size:100" json:"institution"`
	PhoneNum    string     `gorm:"column:phone_num;size:30" json:"phone_num"`
	IDNo        string     `gorm:"column:id_no;size:50" json:"id_no"`

	// Document slots: student card, supporting document, formal photo.
	// Links are opaque storage keys, resolved to signed URLs on read.
	SCLink     string `gorm:"column:sc_link" json:"sc_link"`
	SCVerified int    `gorm:"column:sc_verified;default:0" json:"sc_verified"`
	SDLink     string `gorm:"column:sd_link" json:"sd_link"`
	SDVerified int    `gorm:"column:sd_verified;default:0" json:"sd_verified"`
	FPLink     string `gorm:"column:fp_link" json:"fp_link"`
	FPVerified int    `gorm:"column:fp_verified;default:0" json:"fp_verified"`

	Status   int       `gorm:"column:status;default:0" json:"status"`
	Notes    []string  `gorm:"column:notes;serializer:json" json:"notes"`
	JoinedAt time.Time `gorm:"column:joined_at" json:"joined_at"`
}
