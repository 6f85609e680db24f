// file: models/competition.go
package models

import "fmt"

// Family identifies one of the two parallel competition tracks. All team
// registry behavior that differs between the tracks hangs off this type, so
// the registry itself stays a single implementation.
type Family string

const (
	FamilyIECOM Family = "IECOM"
	FamilyNICE  Family = "NICE"
)

func ParseFamily(s string) (Family, error) {
	switch s {
	case "iecom", "IECOM":
		return FamilyIECOM, nil
	case "nice", "NICE":
		return FamilyNICE, nil
	}
	return "", fmt.Errorf("unknown competition family %q", s)
}

// EventTag is the value stored in an account's joined-events list.
func (f Family) EventTag() string {
	return string(f)
}

func (f Family) TeamTable() string {
	if f == FamilyNICE {
		return "nice_team"
	}
	return "iecom_team"
}

func (f Family) MemberTable() string {
	if f == FamilyNICE {
		return "nice_member"
	}
	return "iecom_member"
}

// UniqueTeamName reports whether team names must be unique, case-insensitively,
// within the family. Only NICE enforces this; IECOM accepts duplicate names.
func (f Family) UniqueTeamName() bool {
	return f == FamilyNICE
}

// DashboardPath is where a member lands after team actions.
func (f Family) DashboardPath() string {
	if f == FamilyNICE {
		return "/dashboard/nice/team"
	}
	return "/dashboard/iecom/team"
}

// Team status ladder. Transitions are driven by the admin side, the portal
// only reads them and gates upload sections accordingly.
const (
	TeamStatusPendingVerification = 0
	TeamStatusAwaitingPayment     = 1
	TeamStatusAccepted            = 2
)

// Per-document verification states.
const (
	DocPending  = 0
	DocRejected = 1
	DocVerified = 2
)

func TeamStatusText(status int) string {
	switch status {
	case TeamStatusPendingVerification:
		return "Waiting for Team Member Verification"
	case TeamStatusAwaitingPayment:
		return "Waiting for Payment"
	case TeamStatusAccepted:
		return "Accepted"
	}
	return "Unknown Status"
}
