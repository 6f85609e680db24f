// file: controllers/testutil_test.go
package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/JuanSign/iecom-itb/controllers"
	"github.com/JuanSign/iecom-itb/models"
	"github.com/JuanSign/iecom-itb/routes"
	"github.com/JuanSign/iecom-itb/services"
	"github.com/JuanSign/iecom-itb/utils"
)

// memStore is an in-memory services.Store with the same observable behavior
// as the GORM store: duplicate detection, capacity, event-tag bookkeeping and
// the password hashing the model hook would normally perform.
type memStore struct {
	accountsByEmail map[string]*models.Account
	accountsByID    map[string]*models.Account

	teamsByCode map[models.Family]map[string]*models.Team
	teamsByID   map[models.Family]map[string]*models.Team
	members     map[models.Family]map[string]*models.Member

	teamByCodeLookups int

	memberUpdates map[string]map[string]interface{}
	teamUpdates   map[string]map[string]interface{}
}

func newMemStore() *memStore {
	s := &memStore{
		accountsByEmail: map[string]*models.Account{},
		accountsByID:    map[string]*models.Account{},
		teamsByCode:     map[models.Family]map[string]*models.Team{},
		teamsByID:       map[models.Family]map[string]*models.Team{},
		members:         map[models.Family]map[string]*models.Member{},
		memberUpdates:   map[string]map[string]interface{}{},
		teamUpdates:     map[string]map[string]interface{}{},
	}
	for _, f := range []models.Family{models.FamilyIECOM, models.FamilyNICE} {
		s.teamsByCode[f] = map[string]*models.Team{}
		s.teamsByID[f] = map[string]*models.Team{}
		s.members[f] = map[string]*models.Member{}
	}
	return s
}

func (s *memStore) AccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.accountsByEmail[email], nil
}

func (s *memStore) CreateAccount(ctx context.Context, account *models.Account) error {
	if _, exists := s.accountsByEmail[account.Email]; exists {
		return services.ErrEmailTaken
	}
	if account.AccountID == "" {
		account.AccountID = uuid.NewString()
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	account.Password = string(hashed)
	s.accountsByEmail[account.Email] = account
	s.accountsByID[account.AccountID] = account
	return nil
}

func (s *memStore) AccountEvents(ctx context.Context, accountID string) ([]string, error) {
	return s.accountsByID[accountID].Events, nil
}

func (s *memStore) TeamNameExists(ctx context.Context, family models.Family, name string) (bool, error) {
	for _, team := range s.teamsByCode[family] {
		if strings.EqualFold(team.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) CreateTeamWithLeader(ctx context.Context, family models.Family, team *models.Team, leader *models.Member) error {
	if _, exists := s.teamsByCode[family][team.Code]; exists {
		return services.ErrDuplicateCode
	}
	team.TeamID = uuid.NewString()
	leader.TeamID = team.TeamID
	s.teamsByCode[family][team.Code] = team
	s.teamsByID[family][team.TeamID] = team
	s.members[family][leader.AccountID] = leader
	s.addEvent(leader.AccountID, family.EventTag())
	return nil
}

func (s *memStore) TeamByCode(ctx context.Context, family models.Family, code string) (*models.Team, error) {
	s.teamByCodeLookups++
	team, ok := s.teamsByCode[family][code]
	if !ok {
		return nil, services.ErrCodeNotFound
	}
	return team, nil
}

func (s *memStore) AddMember(ctx context.Context, family models.Family, teamID string, member *models.Member) error {
	team := s.teamsByID[family][teamID]
	if team.Count >= services.MaxTeamSize {
		return services.ErrTeamFull
	}
	team.Count++
	member.TeamID = teamID
	s.members[family][member.AccountID] = member
	s.addEvent(member.AccountID, family.EventTag())
	return nil
}

func (s *memStore) RemoveMember(ctx context.Context, family models.Family, accountID string) error {
	member, ok := s.members[family][accountID]
	if !ok {
		return services.ErrNotOnTeam
	}
	delete(s.members[family], accountID)
	s.teamsByID[family][member.TeamID].Count--
	s.removeEvent(accountID, family.EventTag())
	return nil
}

func (s *memStore) TeamForAccount(ctx context.Context, family models.Family, accountID string) (*models.Team, error) {
	member, ok := s.members[family][accountID]
	if !ok {
		return nil, services.ErrNotOnTeam
	}
	return s.teamsByID[family][member.TeamID], nil
}

func (s *memStore) TeamMembers(ctx context.Context, family models.Family, teamID string) ([]models.Member, error) {
	var members []models.Member
	for _, m := range s.members[family] {
		if m.TeamID == teamID {
			members = append(members, *m)
		}
	}
	return members, nil
}

func (s *memStore) UpdateMemberDetails(ctx context.Context, family models.Family, accountID string, updates map[string]interface{}) error {
	s.memberUpdates[accountID] = updates
	return nil
}

func (s *memStore) UpdateTeamDocs(ctx context.Context, family models.Family, teamID string, updates map[string]interface{}) error {
	s.teamUpdates[teamID] = updates
	return nil
}

func (s *memStore) addEvent(accountID, tag string) {
	account := s.accountsByID[accountID]
	if account == nil {
		account = &models.Account{AccountID: accountID}
		s.accountsByID[accountID] = account
	}
	if !account.HasEvent(tag) {
		account.Events = append(account.Events, tag)
	}
}

func (s *memStore) removeEvent(accountID, tag string) {
	account := s.accountsByID[accountID]
	if account == nil {
		return
	}
	events := make([]string, 0, len(account.Events))
	for _, e := range account.Events {
		if e != tag {
			events = append(events, e)
		}
	}
	account.Events = events
}

type nullStorage struct{}

func (nullStorage) Upload(ctx context.Context, file *multipart.FileHeader, prefix, ownerID string) (string, error) {
	return prefix + "/" + ownerID, nil
}

func (nullStorage) SignedURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return "https://signed.example/" + key, nil
}

type portal struct {
	router   *gin.Engine
	store    *memStore
	sessions *services.SessionService
}

func newPortal(t *testing.T) *portal {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newMemStore()
	sessions := services.NewSessionService("fixture-secret", store, false)
	storage := nullStorage{}

	registries := map[models.Family]*services.Registry{
		models.FamilyIECOM: services.NewRegistry(models.FamilyIECOM, store, storage),
		models.FamilyNICE:  services.NewRegistry(models.FamilyNICE, store, storage),
	}

	router := routes.SetupRouter(
		controllers.NewAuthController(store, sessions),
		controllers.NewCompetitionController(registries, sessions),
		sessions,
	)
	return &portal{router: router, store: store, sessions: sessions}
}

func (p *portal) postJSON(t *testing.T, path string, body interface{}, cookie string) (*httptest.ResponseRecorder, utils.Response) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: services.SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	p.router.ServeHTTP(w, req)

	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func (p *portal) putMultipart(t *testing.T, path string, fields map[string]string, files map[string]string, cookie string) utils.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	for name, filename := range files {
		fw, err := mw.CreateFormFile(name, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("file-content"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: services.SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	p.router.ServeHTTP(w, req)

	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// signup registers and logs in one account, returning the session cookie.
func (p *portal) signup(t *testing.T, email, password string) string {
	t.Helper()
	_, resp := p.postJSON(t, "/api/v1/auth/register", gin.H{"email": email, "password": password}, "")
	require.Zero(t, resp.Code, "register failed: %s", resp.Error)

	w, resp := p.postJSON(t, "/api/v1/auth/login", gin.H{"email": email, "password": password}, "")
	require.Zero(t, resp.Code, "login failed: %s", resp.Error)

	return sessionCookie(t, w)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == services.SessionCookieName {
			return cookie.Value
		}
	}
	t.Fatal("no session cookie set")
	return ""
}
