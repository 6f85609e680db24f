// file: services/registry_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/JuanSign/iecom-itb/models"
	"github.com/JuanSign/iecom-itb/utils"
)

// maxCodeAttempts bounds the join-code collision retry.
const maxCodeAttempts = 5

var (
	ErrAlreadyJoined   = errors.New("account already joined a competition")
	ErrNameTaken       = errors.New("team name already taken")
	ErrCodeExhausted   = errors.New("could not generate a unique team code")
	ErrNoDocuments     = errors.New("no documents provided")
	ErrTeamNotVerified = errors.New("team has not passed member verification")
)

// DocumentStorage is the upload gateway: files go in, opaque storage keys come
// out, and keys resolve to time-limited signed URLs on read.
type DocumentStorage interface {
	Upload(ctx context.Context, file *multipart.FileHeader, prefix, ownerID string) (string, error)
	SignedURL(ctx context.Context, key string) (string, error)
}

// Registry is the team registry for one competition family. Both families run
// this exact implementation; divergent behavior lives on models.Family.
type Registry struct {
	family  models.Family
	store   Store
	storage DocumentStorage
}

func NewRegistry(family models.Family, store Store, storage DocumentStorage) *Registry {
	return &Registry{family: family, store: store, storage: storage}
}

func (r *Registry) Family() models.Family {
	return r.family
}

// CreateTeam makes a new team with the caller as LEADER. The join code is
// random; a unique index on the code column catches collisions and the insert
// is retried with a fresh code, up to maxCodeAttempts times.
func (r *Registry) CreateTeam(ctx context.Context, accountID, email, name string) error {
	if err := r.requireNoEvent(ctx, accountID); err != nil {
		return err
	}

	if r.family.UniqueTeamName() {
		taken, err := r.store.TeamNameExists(ctx, r.family, name)
		if err != nil {
			return err
		}
		if taken {
			return ErrNameTaken
		}
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		team := &models.Team{
			Name:   name,
			Code:   utils.GenerateTeamCode(),
			Status: models.TeamStatusPendingVerification,
			Count:  1,
		}
		leader := &models.Member{
			AccountID: accountID,
			Email:     email,
			Role:      models.RoleLeader,
			JoinedAt:  time.Now(),
		}
		err := r.store.CreateTeamWithLeader(ctx, r.family, team, leader)
		if errors.Is(err, ErrDuplicateCode) {
			continue
		}
		return err
	}
	return ErrCodeExhausted
}

// JoinTeam enrolls the caller as MEMBER of the team behind the code. Capacity
// is enforced by the store's conditional increment, not a separate count read.
func (r *Registry) JoinTeam(ctx context.Context, accountID, email, code string) error {
	if err := r.requireNoEvent(ctx, accountID); err != nil {
		return err
	}

	team, err := r.store.TeamByCode(ctx, r.family, code)
	if err != nil {
		return err
	}

	member := &models.Member{
		AccountID: accountID,
		Email:     email,
		Role:      models.RoleMember,
		JoinedAt:  time.Now(),
	}
	return r.store.AddMember(ctx, r.family, team.TeamID, member)
}

// LeaveTeam removes the caller's member row and event tag. Failures are
// returned to the caller; whether to proceed anyway is the caller's call.
func (r *Registry) LeaveTeam(ctx context.Context, accountID string) error {
	return r.store.RemoveMember(ctx, r.family, accountID)
}

type TeamPageData struct {
	Team                 *models.Team    `json:"team"`
	StatusText           string          `json:"status_text"`
	Members              []models.Member `json:"members"`
	CurrentUserAccountID string          `json:"current_user_account_id"`
}

// TeamPage loads the caller's team and members with every document link
// resolved to a signed URL. ErrNotOnTeam when the caller has no team.
func (r *Registry) TeamPage(ctx context.Context, accountID string) (*TeamPageData, error) {
	team, err := r.store.TeamForAccount(ctx, r.family, accountID)
	if err != nil {
		return nil, err
	}
	members, err := r.store.TeamMembers(ctx, r.family, team.TeamID)
	if err != nil {
		return nil, err
	}

	for i := range members {
		if members[i].SCLink, err = r.storage.SignedURL(ctx, members[i].SCLink); err != nil {
			return nil, err
		}
		if members[i].SDLink, err = r.storage.SignedURL(ctx, members[i].SDLink); err != nil {
			return nil, err
		}
		if members[i].FPLink, err = r.storage.SignedURL(ctx, members[i].FPLink); err != nil {
			return nil, err
		}
	}

	switch r.family {
	case models.FamilyIECOM:
		if team.PPLink, err = r.storage.SignedURL(ctx, team.PPLink); err != nil {
			return nil, err
		}
	case models.FamilyNICE:
		if team.BMCLink, err = r.storage.SignedURL(ctx, team.BMCLink); err != nil {
			return nil, err
		}
		if team.POOLink, err = r.storage.SignedURL(ctx, team.POOLink); err != nil {
			return nil, err
		}
	}

	return &TeamPageData{
		Team:                 team,
		StatusText:           models.TeamStatusText(team.Status),
		Members:              members,
		CurrentUserAccountID: accountID,
	}, nil
}

type MemberProfile struct {
	Name        string
	Institution string
	PhoneNum    string
	IDNo        string
}

// MemberFiles carries the optional document uploads. A nil entry means the
// member kept the existing file for that slot.
type MemberFiles struct {
	StudentCard   *multipart.FileHeader
	SupportingDoc *multipart.FileHeader
	FormalPhoto   *multipart.FileHeader
}

// UpdateMemberDetails saves profile fields and uploads whichever document
// slots were provided. Each newly uploaded slot resets its verification state
// to pending; untouched slots keep their link and state.
func (r *Registry) UpdateMemberDetails(ctx context.Context, accountID string, profile MemberProfile, files MemberFiles) error {
	if _, err := r.store.TeamForAccount(ctx, r.family, accountID); err != nil {
		return err
	}

	updates := map[string]interface{}{
		"name":        profile.Name,
		"institution": profile.Institution,
		"phone_num":   profile.PhoneNum,
		"id_no":       profile.IDNo,
	}

	if files.StudentCard != nil {
		key, err := r.storage.Upload(ctx, files.StudentCard, "member-sc", accountID)
		if err != nil {
			return err
		}
		updates["sc_link"] = key
		updates["sc_verified"] = models.DocPending
	}
	if files.SupportingDoc != nil {
		key, err := r.storage.Upload(ctx, files.SupportingDoc, "member-sd", accountID)
		if err != nil {
			return err
		}
		updates["sd_link"] = key
		updates["sd_verified"] = models.DocPending
	}
	if files.FormalPhoto != nil {
		key, err := r.storage.Upload(ctx, files.FormalPhoto, "member-fp", accountID)
		if err != nil {
			return err
		}
		updates["fp_link"] = key
		updates["fp_verified"] = models.DocPending
	}

	return r.store.UpdateMemberDetails(ctx, r.family, accountID, updates)
}

// UpdateTeamDocuments uploads the NICE team documents (business model canvas,
// proof of originality). At least one file is required; uploaded slots reset
// to pending and the submission flag is raised.
func (r *Registry) UpdateTeamDocuments(ctx context.Context, accountID string, bmc, poo *multipart.FileHeader) error {
	if bmc == nil && poo == nil {
		return ErrNoDocuments
	}

	team, err := r.store.TeamForAccount(ctx, r.family, accountID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{"doc_submitted": true}

	if bmc != nil {
		key, err := r.storage.Upload(ctx, bmc, fmt.Sprintf("nice/%s/bmc", team.TeamID), accountID)
		if err != nil {
			return err
		}
		updates["bmc_link"] = key
		updates["bmc_verified"] = models.DocPending
	}
	if poo != nil {
		key, err := r.storage.Upload(ctx, poo, fmt.Sprintf("nice/%s/poo", team.TeamID), accountID)
		if err != nil {
			return err
		}
		updates["poo_link"] = key
		updates["poo_verified"] = models.DocPending
	}

	return r.store.UpdateTeamDocs(ctx, r.family, team.TeamID, updates)
}

// UpdateBilling uploads the IECOM payment proof. Payment is locked until the
// team has passed member verification, mirroring the dashboard lock.
func (r *Registry) UpdateBilling(ctx context.Context, accountID string, proof *multipart.FileHeader) error {
	if proof == nil {
		return ErrNoDocuments
	}

	team, err := r.store.TeamForAccount(ctx, r.family, accountID)
	if err != nil {
		return err
	}
	if team.Status == models.TeamStatusPendingVerification {
		return ErrTeamNotVerified
	}

	key, err := r.storage.Upload(ctx, proof, "team-pp", accountID)
	if err != nil {
		return err
	}

	return r.store.UpdateTeamDocs(ctx, r.family, team.TeamID, map[string]interface{}{
		"pp_link":     key,
		"pp_verified": models.DocPending,
	})
}

// requireNoEvent enforces the one-competition-per-account rule: an account
// carrying any event tag can neither create nor join another team.
func (r *Registry) requireNoEvent(ctx context.Context, accountID string) error {
	events, err := r.store.AccountEvents(ctx, accountID)
	if err != nil {
		return err
	}
	if len(events) > 0 {
		return ErrAlreadyJoined
	}
	return nil
}
