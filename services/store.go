// file: services/store.go
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JuanSign/iecom-itb/models"
)

// MaxTeamSize caps team membership across both families.
const MaxTeamSize = 3

var (
	ErrEmailTaken    = errors.New("email already in use")
	ErrDuplicateCode = errors.New("duplicate team code")
	ErrCodeNotFound  = errors.New("team code not found")
	ErrTeamFull      = errors.New("team is full")
	ErrNotOnTeam     = errors.New("account is not on a team")
)

// Store is the persistence surface the registry and controllers work against.
type Store interface {
	AccountByEmail(ctx context.Context, email string) (*models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	AccountEvents(ctx context.Context, accountID string) ([]string, error)

	TeamNameExists(ctx context.Context, family models.Family, name string) (bool, error)
	CreateTeamWithLeader(ctx context.Context, family models.Family, team *models.Team, leader *models.Member) error
	TeamByCode(ctx context.Context, family models.Family, code string) (*models.Team, error)
	AddMember(ctx context.Context, family models.Family, teamID string, member *models.Member) error
	RemoveMember(ctx context.Context, family models.Family, accountID string) error
	TeamForAccount(ctx context.Context, family models.Family, accountID string) (*models.Team, error)
	TeamMembers(ctx context.Context, family models.Family, teamID string) ([]models.Member, error)
	UpdateMemberDetails(ctx context.Context, family models.Family, accountID string, updates map[string]interface{}) error
	UpdateTeamDocs(ctx context.Context, family models.Family, teamID string, updates map[string]interface{}) error
}

// Columns written when inserting a team row. The shared Team struct carries
// both families' document columns, so inserts list the common columns
// explicitly instead of letting GORM write every field.
var teamInsertColumns = []string{"team_id", "name", "code", "status", "count", "messages", "notes", "created_at"}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) AccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *GormStore) CreateAccount(ctx context.Context, account *models.Account) error {
	err := s.db.WithContext(ctx).Create(account).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

func (s *GormStore) AccountEvents(ctx context.Context, accountID string) ([]string, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, "account_id = ?", accountID).Error; err != nil {
		return nil, err
	}
	return account.Events, nil
}

func (s *GormStore) TeamNameExists(ctx context.Context, family models.Family, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Table(family.TeamTable()).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateTeamWithLeader inserts the team row, the LEADER member row and the
// account's event tag in one transaction. A join-code collision comes back as
// ErrDuplicateCode so the caller can retry with a fresh code.
func (s *GormStore) CreateTeamWithLeader(ctx context.Context, family models.Family, team *models.Team, leader *models.Member) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(family.TeamTable()).Select(teamInsertColumns).Create(team).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateCode
			}
			return err
		}
		leader.TeamID = team.TeamID
		if err := tx.Table(family.MemberTable()).Create(leader).Error; err != nil {
			return err
		}
		return appendEvent(tx, leader.AccountID, family.EventTag())
	})
}

func (s *GormStore) TeamByCode(ctx context.Context, family models.Family, code string) (*models.Team, error) {
	var team models.Team
	err := s.db.WithContext(ctx).Table(family.TeamTable()).Where("code = ?", code).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// AddMember enrolls one MEMBER row. The conditional count increment and the
// insert run in the same transaction, so two concurrent joins cannot both
// pass a capacity check and push a team past MaxTeamSize.
func (s *GormStore) AddMember(ctx context.Context, family models.Family, teamID string, member *models.Member) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Table(family.TeamTable()).
			Where("team_id = ? AND count < ?", teamID, MaxTeamSize).
			Update("count", gorm.Expr("count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTeamFull
		}
		member.TeamID = teamID
		if err := tx.Table(family.MemberTable()).Create(member).Error; err != nil {
			return err
		}
		return appendEvent(tx, member.AccountID, family.EventTag())
	})
}

// RemoveMember deletes the member row, decrements the team count and removes
// the event tag in one transaction. Always decrements: the count column has a
// single authoritative code path.
func (s *GormStore) RemoveMember(ctx context.Context, family models.Family, accountID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member models.Member
		err := tx.Table(family.MemberTable()).Where("account_id = ?", accountID).First(&member).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotOnTeam
		}
		if err != nil {
			return err
		}
		if err := tx.Table(family.MemberTable()).Where("account_id = ?", accountID).Delete(&models.Member{}).Error; err != nil {
			return err
		}
		err = tx.Table(family.TeamTable()).
			Where("team_id = ? AND count > 0", member.TeamID).
			Update("count", gorm.Expr("count - 1")).Error
		if err != nil {
			return err
		}
		return removeEvent(tx, accountID, family.EventTag())
	})
}

func (s *GormStore) TeamForAccount(ctx context.Context, family models.Family, accountID string) (*models.Team, error) {
	var member models.Member
	err := s.db.WithContext(ctx).Table(family.MemberTable()).Where("account_id = ?", accountID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotOnTeam
	}
	if err != nil {
		return nil, err
	}

	var team models.Team
	if err := s.db.WithContext(ctx).Table(family.TeamTable()).Where("team_id = ?", member.TeamID).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *GormStore) TeamMembers(ctx context.Context, family models.Family, teamID string) ([]models.Member, error) {
	var members []models.Member
	err := s.db.WithContext(ctx).Table(family.MemberTable()).Where("team_id = ?", teamID).Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (s *GormStore) UpdateMemberDetails(ctx context.Context, family models.Family, accountID string, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).
		Table(family.MemberTable()).
		Where("account_id = ?", accountID).
		Updates(updates).Error
}

func (s *GormStore) UpdateTeamDocs(ctx context.Context, family models.Family, teamID string, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).
		Table(family.TeamTable()).
		Where("team_id = ?", teamID).
		Updates(updates).Error
}

// appendEvent adds a competition tag to the account's joined-events list.
// The row is locked for the duration of the enclosing transaction so two
// concurrent joins cannot clobber each other's read-modify-write. Hooks are
// skipped on the write: the events column update must not re-run the
// password hash hook.
func appendEvent(tx *gorm.DB, accountID, tag string) error {
	var account models.Account
	err := lockForUpdate(tx).First(&account, "account_id = ?", accountID).Error
	if err != nil {
		return err
	}
	if account.HasEvent(tag) {
		return nil
	}
	events := append(account.Events, tag)
	return tx.Session(&gorm.Session{SkipHooks: true}).Model(&models.Account{}).
		Where("account_id = ?", accountID).Update("events", events).Error
}

func removeEvent(tx *gorm.DB, accountID, tag string) error {
	var account models.Account
	err := lockForUpdate(tx).First(&account, "account_id = ?", accountID).Error
	if err != nil {
		return err
	}
	events := make([]string, 0, len(account.Events))
	for _, e := range account.Events {
		if e != tag {
			events = append(events, e)
		}
	}
	if len(events) == len(account.Events) {
		return nil
	}
	return tx.Session(&gorm.Session{SkipHooks: true}).Model(&models.Account{}).
		Where("account_id = ?", accountID).Update("events", events).Error
}

// lockForUpdate takes a FOR UPDATE row lock. sqlite has no SELECT ... FOR
// UPDATE and serializes writers on its own, so it skips the clause.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
