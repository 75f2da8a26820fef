package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/access-request-service/internal/domain"
	"github.com/spec-kit/access-request-service/internal/events"
	"github.com/spec-kit/access-request-service/internal/repository"
	apperrors "github.com/spec-kit/access-request-service/pkg/util/errorutil"
)

type fakeTicketRepo struct {
	tickets       map[string]*domain.Ticket
	actionErr     error
	actionTxCalls int
	lastAction    domain.TicketAction
	lastComment   string
}

func newFakeTicketRepo(tickets ...*domain.Ticket) *fakeTicketRepo {
	repo := &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
	for _, t := range tickets {
		repo.tickets[t.ID] = t
	}
	return repo
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.ID == "" {
		ticket.ID = "ticket-" + ticket.SerialKey
	}
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	f.tickets[ticket.ID] = ticket
	return nil
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, t := range f.tickets {
		if filter.RequesterID != nil && t.RequesterID != *filter.RequesterID {
			continue
		}
		if filter.AssigneeID != nil && !t.IsAssignee(*filter.AssigneeID) {
			continue
		}
		result = append(result, *t)
	}
	return result, nil
}

func (f *fakeTicketRepo) UpdateMeta(ctx context.Context, ticketID string, meta domain.TicketMeta) error {
	ticket, ok := f.tickets[ticketID]
	if !ok || ticket.Status != domain.TicketStatusOpen {
		return pgx.ErrNoRows
	}
	ticket.Meta = meta
	return nil
}

func (f *fakeTicketRepo) Close(ctx context.Context, ticketID string) error {
	ticket, ok := f.tickets[ticketID]
	if !ok || ticket.Status != domain.TicketStatusOpen {
		return pgx.ErrNoRows
	}
	ticket.Status = domain.TicketStatusClosed
	now := time.Now()
	ticket.ClosedAt = &now
	return nil
}

func (f *fakeTicketRepo) PerformAction(ctx context.Context, ticketID string, action domain.TicketAction, actorID, comment string) error {
	if f.actionErr != nil {
		return f.actionErr
	}
	ticket, ok := f.tickets[ticketID]
	if !ok || ticket.Status != domain.TicketStatusOpen || ticket.Action == action {
		return repository.ErrStaleTicket
	}
	ticket.Action = action
	ticket.ActionByID = &actorID
	ticket.Comment = comment
	f.lastAction = action
	f.lastComment = comment
	return nil
}

// PerformActionTx records the staged write without mutating visible state;
// the fake transaction manager discards staged writes when the callback fails.
func (f *fakeTicketRepo) PerformActionTx(ctx context.Context, tx pgx.Tx, ticketID string, action domain.TicketAction, actorID, comment string) error {
	f.actionTxCalls++
	if f.actionErr != nil {
		return f.actionErr
	}
	ticket, ok := f.tickets[ticketID]
	if !ok || ticket.Status != domain.TicketStatusOpen || ticket.Action == action {
		return repository.ErrStaleTicket
	}
	f.lastAction = action
	f.lastComment = comment
	return nil
}

type fakeAssetRepo struct {
	live map[string]domain.Asset
}

func (f *fakeAssetRepo) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	asset, ok := f.live[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &asset, nil
}

func (f *fakeAssetRepo) ListLiveByIDs(ctx context.Context, ids []string) ([]domain.Asset, error) {
	var result []domain.Asset
	for _, id := range ids {
		if asset, ok := f.live[id]; ok && asset.IsActive {
			result = append(result, asset)
		}
	}
	return result, nil
}

func (f *fakeAssetRepo) List(ctx context.Context, orgID string, limit, offset int) ([]domain.Asset, error) {
	return nil, nil
}

type fakeAccountRepo struct {
	accounts map[string]domain.Account
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	account, ok := f.accounts[id]
	if !ok || !account.IsActive {
		return nil, nil
	}
	return &account, nil
}

func (f *fakeAccountRepo) List(ctx context.Context, orgID string, limit, offset int) ([]domain.Account, error) {
	return nil, nil
}

type fakePermRepo struct {
	createErr error
	created   []repository.PermissionCreate
}

func (f *fakePermRepo) CreateTx(ctx context.Context, tx pgx.Tx, input repository.PermissionCreate) (*domain.AssetPermission, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, input)
	perm := &domain.AssetPermission{
		ID:        "perm-1",
		TicketID:  input.TicketID,
		Name:      input.Name,
		Comment:   input.Comment,
		CreatedBy: input.CreatedBy,
		IsActive:  true,
		AssetIDs:  input.AssetIDs,
		AccountIDs: []string{
			input.AccountID,
		},
		UserIDs: []string{input.UserID},
	}
	if input.DateStart != nil {
		perm.DateStart = *input.DateStart
	}
	if input.DateExpired != nil {
		perm.DateExpired = *input.DateExpired
	}
	return perm, nil
}

func (f *fakePermRepo) GetByTicketID(ctx context.Context, ticketID string) (*domain.AssetPermission, error) {
	for _, input := range f.created {
		if input.TicketID == ticketID {
			return &domain.AssetPermission{ID: "perm-1", TicketID: ticketID}, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePermRepo) DeactivateExpired(ctx context.Context, asOf time.Time) (int64, error) {
	return 0, nil
}

type fakeUserRepo struct {
	users map[string]domain.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error { return nil }
func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error { return nil }

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	var result []domain.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			result = append(result, user)
		}
	}
	return result, nil
}

func (f *fakeUserRepo) FindAssignees(ctx context.Context, requesterID, orgID string) ([]domain.User, error) {
	var result []domain.User
	for _, user := range f.users {
		if user.Role == domain.UserRoleAdmin && user.Status == domain.UserStatusActive {
			result = append(result, user)
		}
	}
	return result, nil
}

type fakeOrgRepo struct {
	orgs map[string]domain.Organization
}

func (f *fakeOrgRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	org, ok := f.orgs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &org, nil
}

func (f *fakeOrgRepo) List(ctx context.Context, limit, offset int) ([]domain.Organization, error) {
	return nil, nil
}

// fakeTxManager applies the ticket repo's staged action only when the
// callback succeeds, mirroring commit/rollback.
type fakeTxManager struct {
	tickets    *fakeTicketRepo
	ticketID   string
	calls      int
	rolledBack bool
}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	f.calls++
	err := fn(ctx, nil)
	if err != nil {
		f.rolledBack = true
		return err
	}
	if ticket, ok := f.tickets.tickets[f.ticketID]; ok && f.tickets.lastAction != "" {
		ticket.Action = f.tickets.lastAction
		ticket.Comment = f.tickets.lastComment
	}
	return nil
}

type fixture struct {
	service  *TicketService
	tickets  *fakeTicketRepo
	assets   *fakeAssetRepo
	accounts *fakeAccountRepo
	perms    *fakePermRepo
	txm      *fakeTxManager
	events   *capturedEvents
}

type capturedEvents struct {
	published []events.Event
}

func (c *capturedEvents) Publish(ctx context.Context, event events.Event) error {
	c.published = append(c.published, event)
	return nil
}

func (c *capturedEvents) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func requester() *domain.User {
	return &domain.User{ID: "user-1", Name: "jin", Role: domain.UserRoleUser, Status: domain.UserStatusActive}
}

func reviewer() *domain.User {
	return &domain.User{ID: "admin-1", Name: "root", Role: domain.UserRoleAdmin, Status: domain.UserStatusActive}
}

func openTicket() *domain.Ticket {
	return &domain.Ticket{
		ID:               "t1",
		SerialKey:        "REQ-AB12CD34",
		Title:            "prod db access",
		OrgID:            domain.DefaultOrgID,
		RequesterID:      "user-1",
		UserDisplay:      "jin",
		AssigneeIDs:      []string{"admin-1"},
		AssigneesDisplay: "root",
		Status:           domain.TicketStatusOpen,
		Action:           domain.TicketActionNone,
		Meta: domain.TicketMeta{
			IPs:                 []string{"10.0.0.1", "10.0.0.2"},
			Hostname:            "db-*",
			SystemUser:          "postgres",
			ConfirmedAssets:     []string{"asset-1", "asset-2"},
			ConfirmedSystemUser: "acct-1",
		},
	}
}

func newFixture(t *testing.T, ticket *domain.Ticket) *fixture {
	t.Helper()
	tickets := newFakeTicketRepo(ticket)
	assets := &fakeAssetRepo{live: map[string]domain.Asset{
		"asset-1": {ID: "asset-1", Hostname: "db-1", IsActive: true},
		"asset-2": {ID: "asset-2", Hostname: "db-2", IsActive: true},
	}}
	accounts := &fakeAccountRepo{accounts: map[string]domain.Account{
		"acct-1": {ID: "acct-1", Name: "postgres", IsActive: true},
	}}
	perms := &fakePermRepo{}
	users := &fakeUserRepo{users: map[string]domain.User{
		"user-1":  *requester(),
		"admin-1": *reviewer(),
	}}
	orgs := &fakeOrgRepo{orgs: map[string]domain.Organization{
		"ops": {ID: "ops", Name: "Ops", IsActive: true},
	}}
	txm := &fakeTxManager{tickets: tickets, ticketID: ticket.ID}
	captured := &capturedEvents{}

	svc := NewTicketService(TicketDependencies{
		TicketRepo:     tickets,
		AssetRepo:      assets,
		AccountRepo:    accounts,
		PermissionRepo: perms,
		UserRepo:       users,
		OrgRepo:        orgs,
		TxManager:      txm,
		Dispatcher:     captured,
	})
	return &fixture{service: svc, tickets: tickets, assets: assets, accounts: accounts, perms: perms, txm: txm, events: captured}
}

func TestApproveCreatesGrantInOneTransaction(t *testing.T) {
	fx := newFixture(t, openTicket())

	perm, err := fx.service.Approve(context.Background(), reviewer(), "t1")
	require.NoError(t, err)
	require.NotNil(t, perm)

	assert.Equal(t, 1, fx.txm.calls)
	assert.False(t, fx.txm.rolledBack)
	assert.Equal(t, 1, fx.tickets.actionTxCalls)
	assert.Equal(t, domain.TicketActionApproved, fx.tickets.tickets["t1"].Action)

	require.Len(t, fx.perms.created, 1)
	created := fx.perms.created[0]
	assert.Equal(t, "t1", created.TicketID)
	assert.Equal(t, "From request ticket: jin REQ-AB12CD34", created.Name)
	assert.Equal(t, "jin request assets, approved by root", created.Comment)
	assert.Equal(t, "root", created.CreatedBy)
	assert.ElementsMatch(t, []string{"asset-1", "asset-2"}, created.AssetIDs)
	assert.Equal(t, "acct-1", created.AccountID)
	assert.Equal(t, "user-1", created.UserID)
	assert.Nil(t, created.DateStart)
	assert.Nil(t, created.DateExpired)

	require.Len(t, fx.events.published, 1)
	assert.Equal(t, events.EventTicketApproved, fx.events.published[0].Type)
}

func TestApproveCopiesDateBounds(t *testing.T) {
	ticket := openTicket()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	ticket.Meta.DateStart = &start
	ticket.Meta.DateExpired = &end
	fx := newFixture(t, ticket)

	_, err := fx.service.Approve(context.Background(), reviewer(), "t1")
	require.NoError(t, err)

	require.Len(t, fx.perms.created, 1)
	require.NotNil(t, fx.perms.created[0].DateStart)
	require.NotNil(t, fx.perms.created[0].DateExpired)
	assert.True(t, fx.perms.created[0].DateStart.Equal(start))
	assert.True(t, fx.perms.created[0].DateExpired.Equal(end))
}

func TestApproveRollsBackWhenGrantInsertFails(t *testing.T) {
	fx := newFixture(t, openTicket())
	fx.perms.createErr = errors.New("insert failed")

	_, err := fx.service.Approve(context.Background(), reviewer(), "t1")
	require.Error(t, err)

	assert.True(t, fx.txm.rolledBack)
	assert.Equal(t, domain.TicketActionNone, fx.tickets.tickets["t1"].Action)
	assert.Empty(t, fx.events.published)
}

func TestApproveConcurrentWriterLosesRace(t *testing.T) {
	fx := newFixture(t, openTicket())
	fx.tickets.actionErr = repository.ErrStaleTicket

	_, err := fx.service.Approve(context.Background(), reviewer(), "t1")
	require.Error(t, err)
	assert.Equal(t, CodeTicketActionAlreadySet, apperrors.CodeOf(err))
	assert.Empty(t, fx.perms.created)
}

func TestApproveClosedTicketTakesPriority(t *testing.T) {
	ticket := openTicket()
	ticket.Status = domain.TicketStatusClosed
	ticket.Action = domain.TicketActionApproved
	fx := newFixture(t, ticket)

	_, err := fx.service.Approve(context.Background(), reviewer(), "t1")
	require.Error(t, err)
	assert.Equal(t, CodeTicketClosed, apperrors.CodeOf(err))
}

func TestApproveRepeatActionRejected(t *testing.T) {
	ticket := openTicket()
	ticket.Action = domain.TicketActionApproved
	fx := newFixture(t, ticket)

	_, err := fx.service.Approve(context.Background(), reviewer(), "t1")
	require.Error(t, err)
	assert.Equal(t, CodeTicketActionAlreadySet, apperrors.CodeOf(err))
	assert.Equal(t, 0, fx.tickets.actionTxCalls)
}

func TestApproveAfterRejectIsAllowed(t *testing.T) {
	ticket := openTicket()
	ticket.Action = domain.TicketActionRejected
	fx := newFixture(t, ticket)

	perm, err := fx.service.Approve(context.Background(), reviewer(), "t1")
	require.NoError(t, err)
	assert.NotNil(t, perm)
	assert.Equal(t, domain.TicketActionApproved, fx.tickets.tickets["t1"].Action)
}

func TestApproveNoConfirmedAssets(t *testing.T) {
	ticket := openTicket()
	ticket.Meta.ConfirmedAssets = nil
	fx := newFixture(t, ticket)

	_, err := fx.service.Approve(context.Background(), reviewer(), "t1")
	require.Error(t, err)
	assert.Equal(t, CodeNoConfirmedAssets, apperrors.CodeOf(err))
}

func TestApproveAllConfirmedAssetsGone(t *testing.T) {
	fx := newFixture(t, openTicket())
	fx.assets.live = map[string]domain.Asset{}

	_, err := fx.service.Approve(context.Background(), reviewer(), "t1")
	require.Error(t, err)
	assert.Equal(t, CodeNoConfirmedAssets, apperrors.CodeOf(err))
}

func TestApproveConfirmedAssetsChanged(t *testing.T) {
	fx := newFixture(t, openTicket())
	delete(fx.assets.live, "asset-2")

	_, err := fx.service.Approve(context.Background(), reviewer(), "t1")
	require.Error(t, err)
	assert.Equal(t, CodeConfirmedAssetsChanged, apperrors.CodeOf(err))
	assert.Empty(t, fx.perms.created)
}

func TestApproveNoConfirmedAccount(t *testing.T) {
	ticket := openTicket()
	ticket.Meta.ConfirmedSystemUser = ""
	fx := newFixture(t, ticket)

	_, err := fx.service.Approve(context.Background(), reviewer(), "t1")
	require.Error(t, err)
	assert.Equal(t, CodeNoConfirmedAccount, apperrors.CodeOf(err))
}

func TestApproveConfirmedAccountChanged(t *testing.T) {
	fx := newFixture(t, openTicket())
	fx.accounts.accounts = map[string]domain.Account{}

	_, err := fx.service.Approve(context.Background(), reviewer(), "t1")
	require.Error(t, err)
	assert.Equal(t, CodeConfirmedAccountChanged, apperrors.CodeOf(err))
}

func TestApproveNonAssigneeForbidden(t *testing.T) {
	fx := newFixture(t, openTicket())
	outsider := &domain.User{ID: "user-9", Name: "mallory", Role: domain.UserRoleUser, Status: domain.UserStatusActive}

	_, err := fx.service.Approve(context.Background(), outsider, "t1")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.CodeOf(err))
}

func TestRejectRecordsActionWithoutGrant(t *testing.T) {
	fx := newFixture(t, openTicket())

	ticket, err := fx.service.Reject(context.Background(), reviewer(), "t1")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketActionRejected, ticket.Action)
	assert.Empty(t, fx.perms.created)
	assert.Equal(t, 0, fx.txm.calls)
	require.Len(t, fx.events.published, 1)
	assert.Equal(t, events.EventTicketRejected, fx.events.published[0].Type)
}

func TestRejectRepeatRejected(t *testing.T) {
	ticket := openTicket()
	ticket.Action = domain.TicketActionRejected
	fx := newFixture(t, ticket)

	_, err := fx.service.Reject(context.Background(), reviewer(), "t1")
	require.Error(t, err)
	assert.Equal(t, CodeTicketActionAlreadySet, apperrors.CodeOf(err))
}

func TestCloseTicket(t *testing.T) {
	fx := newFixture(t, openTicket())

	ticket, err := fx.service.CloseTicket(context.Background(), requester(), "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, ticket.Status)
	require.NotNil(t, ticket.ClosedAt)

	_, err = fx.service.CloseTicket(context.Background(), requester(), "t1")
	require.Error(t, err)
	assert.Equal(t, CodeTicketClosed, apperrors.CodeOf(err))
}

func TestBuildActionComment(t *testing.T) {
	fx := newFixture(t, openTicket())
	ticket := openTicket()

	comment := fx.service.BuildActionComment(ticket)
	expected := "IP group: 10.0.0.1, 10.0.0.2\n" +
		"Hostname: db-*\n" +
		"System user: postgres\n" +
		"Confirmed assets: asset-1, asset-2\n" +
		"Confirmed system user: acct-1"
	assert.Equal(t, expected, comment)
}

func TestCheckCanSetAction(t *testing.T) {
	fx := newFixture(t, openTicket())

	cases := []struct {
		name     string
		status   domain.TicketStatus
		current  domain.TicketAction
		next     domain.TicketAction
		wantCode string
	}{
		{"open none approve", domain.TicketStatusOpen, domain.TicketActionNone, domain.TicketActionApproved, ""},
		{"open rejected approve", domain.TicketStatusOpen, domain.TicketActionRejected, domain.TicketActionApproved, ""},
		{"open approved reject", domain.TicketStatusOpen, domain.TicketActionApproved, domain.TicketActionRejected, ""},
		{"open repeat approve", domain.TicketStatusOpen, domain.TicketActionApproved, domain.TicketActionApproved, CodeTicketActionAlreadySet},
		{"closed repeat approve", domain.TicketStatusClosed, domain.TicketActionApproved, domain.TicketActionApproved, CodeTicketClosed},
		{"closed none approve", domain.TicketStatusClosed, domain.TicketActionNone, domain.TicketActionApproved, CodeTicketClosed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ticket := openTicket()
			ticket.Status = tc.status
			ticket.Action = tc.current
			err := fx.service.CheckCanSetAction(ticket, tc.next)
			if tc.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.wantCode, apperrors.CodeOf(err))
		})
	}
}

func TestSubmitTicket(t *testing.T) {
	fx := newFixture(t, openTicket())

	ticket, err := fx.service.SubmitTicket(context.Background(), requester(), TicketSubmitInput{
		Title:       "need db access",
		AssigneeIDs: []string{"admin-1"},
		IPs:         []string{"10.0.0.1"},
		Hostname:    "db-1",
		SystemUser:  "postgres",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ticket.SerialKey, "REQ-"))
	assert.Len(t, ticket.SerialKey, len("REQ-")+8)
	assert.Equal(t, domain.DefaultOrgID, ticket.OrgID)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketActionNone, ticket.Action)
	assert.Equal(t, "jin", ticket.UserDisplay)
	assert.Equal(t, "root", ticket.AssigneesDisplay)

	require.Len(t, fx.events.published, 1)
	assert.Equal(t, events.EventTicketSubmitted, fx.events.published[0].Type)
}

func TestSubmitTicketUnknownAssignee(t *testing.T) {
	fx := newFixture(t, openTicket())

	_, err := fx.service.SubmitTicket(context.Background(), requester(), TicketSubmitInput{
		Title:       "need db access",
		AssigneeIDs: []string{"ghost"},
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.CodeOf(err))
}

func TestSubmitTicketInactiveOrg(t *testing.T) {
	tickets := newFakeTicketRepo()
	orgs := &fakeOrgRepo{orgs: map[string]domain.Organization{
		"dead": {ID: "dead", Name: "Dead", IsActive: false},
	}}
	users := &fakeUserRepo{users: map[string]domain.User{"admin-1": *reviewer()}}
	svc := NewTicketService(TicketDependencies{
		TicketRepo: tickets,
		UserRepo:   users,
		OrgRepo:    orgs,
	})

	_, err := svc.SubmitTicket(context.Background(), requester(), TicketSubmitInput{
		Title:       "x",
		OrgID:       "dead",
		AssigneeIDs: []string{"admin-1"},
	})
	require.Error(t, err)
	assert.Equal(t, "ORG_INACTIVE", apperrors.CodeOf(err))
}

func TestConfirmSelectionPinsMeta(t *testing.T) {
	fx := newFixture(t, openTicket())
	end := time.Now().AddDate(0, 0, 30)

	ticket, err := fx.service.ConfirmSelection(context.Background(), reviewer(), "t1", ConfirmSelectionInput{
		ConfirmedAssets:     []string{"asset-1"},
		ConfirmedSystemUser: "acct-1",
		DateExpired:         &end,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"asset-1"}, ticket.Meta.ConfirmedAssets)
	assert.Equal(t, "acct-1", ticket.Meta.ConfirmedSystemUser)
	require.NotNil(t, ticket.Meta.DateExpired)
	assert.Equal(t, []string{"asset-1"}, fx.tickets.tickets["t1"].Meta.ConfirmedAssets)
}

func TestConfirmSelectionClosedTicket(t *testing.T) {
	ticket := openTicket()
	ticket.Status = domain.TicketStatusClosed
	fx := newFixture(t, ticket)

	_, err := fx.service.ConfirmSelection(context.Background(), reviewer(), "t1", ConfirmSelectionInput{
		ConfirmedAssets:     []string{"asset-1"},
		ConfirmedSystemUser: "acct-1",
	})
	require.Error(t, err)
	assert.Equal(t, CodeTicketClosed, apperrors.CodeOf(err))
}

func TestListTicketsScoping(t *testing.T) {
	mine := openTicket()
	other := openTicket()
	other.ID = "t2"
	other.RequesterID = "user-2"
	other.AssigneeIDs = []string{"admin-1"}
	fx := newFixture(t, mine)
	require.NoError(t, fx.tickets.Create(context.Background(), other))

	asRequester, err := fx.service.ListTickets(context.Background(), requester(), TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, asRequester, 1)
	assert.Equal(t, "t1", asRequester[0].ID)

	asReviewer, err := fx.service.ListTickets(context.Background(), reviewer(), TicketListFilter{})
	require.NoError(t, err)
	assert.Len(t, asReviewer, 2)
}
