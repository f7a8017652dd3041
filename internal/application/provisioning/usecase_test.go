package provisioning_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Consola-api/internal/application/dto"
	"github.com/jhoicas/Consola-api/internal/application/notification"
	"github.com/jhoicas/Consola-api/internal/application/provisioning"
	"github.com/jhoicas/Consola-api/internal/domain"
	"github.com/jhoicas/Consola-api/internal/domain/entity"
	"github.com/jhoicas/Consola-api/internal/domain/repository"
	"github.com/jhoicas/Consola-api/pkg/logger"
)

// ── Fakes en memoria ──────────────────────────────────────────────────────────

type fakeTenantRepo struct {
	tenants map[string]*entity.Tenant
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: map[string]*entity.Tenant{}}
}

func (r *fakeTenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	r.tenants[t.ID] = t
	return nil
}

func (r *fakeTenantRepo) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	return r.tenants[id], nil
}

func (r *fakeTenantRepo) Update(_ context.Context, t *entity.Tenant) error {
	r.tenants[t.ID] = t
	return nil
}

func (r *fakeTenantRepo) List(_ context.Context, _, _ int) ([]*entity.Tenant, error) {
	return nil, nil
}

func (r *fakeTenantRepo) ListAll(_ context.Context) ([]*entity.Tenant, error) {
	return nil, nil
}

func (r *fakeTenantRepo) Delete(_ context.Context, id string) error {
	delete(r.tenants, id)
	return nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ListByTenant(_ context.Context, tenantID string, _, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CountByTenant(_ context.Context, tenantID string) (int, error) {
	n := 0
	for _, u := range r.users {
		if u.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) DeleteByTenant(_ context.Context, tenantID string) error {
	for id, u := range r.users {
		if u.TenantID == tenantID {
			delete(r.users, id)
		}
	}
	return nil
}

// fakeTxRunner ejecuta la cascada contra los mismos fakes, o falla si err != nil.
type fakeTxRunner struct {
	userRepo   *fakeUserRepo
	tenantRepo *fakeTenantRepo
	err        error
	calls      int
}

func (r *fakeTxRunner) RunCascadeDelete(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	tenantRepo repository.TenantRepository,
) error) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	return fn(r.userRepo, r.tenantRepo)
}

// fakeNotifier registra los despachos y devuelve un resultado configurable.
type fakeNotifier struct {
	result   dto.NotificationResult
	requests []notification.Request
}

func okNotifier() *fakeNotifier {
	return &fakeNotifier{result: dto.NotificationResult{
		Email:          dto.ChannelResult{OK: true},
		Webhook:        dto.ChannelResult{OK: true},
		OverallSuccess: true,
	}}
}

func failingNotifier() *fakeNotifier {
	return &fakeNotifier{result: dto.NotificationResult{
		Email:   dto.ChannelResult{OK: false, Reason: "email: smtp caído"},
		Webhook: dto.ChannelResult{OK: false, Reason: "webhook: HTTP 502"},
	}}
}

func (n *fakeNotifier) Dispatch(_ context.Context, req notification.Request) dto.NotificationResult {
	n.requests = append(n.requests, req)
	return n.result
}

type fixture struct {
	uc       *provisioning.UseCase
	tenants  *fakeTenantRepo
	users    *fakeUserRepo
	tx       *fakeTxRunner
	notifier *fakeNotifier
}

func newFixture(notifier *fakeNotifier) *fixture {
	tenants := newFakeTenantRepo()
	users := newFakeUserRepo()
	tx := &fakeTxRunner{userRepo: users, tenantRepo: tenants}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return &fixture{
		uc:       provisioning.NewUseCase(tenants, users, tx, notifier, log),
		tenants:  tenants,
		users:    users,
		tx:       tx,
		notifier: notifier,
	}
}

func (f *fixture) seedTenant(id, name string) {
	f.tenants.tenants[id] = &entity.Tenant{ID: id, CompanyName: name}
}

func (f *fixture) seedUser(u *entity.User) {
	f.users.users[u.ID] = u
}

func validAddRequest() dto.AddUserRequest {
	return dto.AddUserRequest{
		FirstName: "Ana",
		LastName:  "García",
		Email:     "ana@acme.com",
		Phone:     "+573001112233",
	}
}

// ── AddUser ───────────────────────────────────────────────────────────────────

func TestAddUser_CreaConRolPorDefectoYCredencialHasheada(t *testing.T) {
	f := newFixture(okNotifier())
	f.seedTenant("t1", "Acme SAS")

	resp, err := f.uc.AddUser(context.Background(), "t1", validAddRequest())
	require.NoError(t, err)

	assert.Equal(t, entity.RoleMember, resp.User.Role, "El rol por defecto es member")
	assert.False(t, resp.User.IsAdmin)
	assert.Equal(t, entity.StatusActive, resp.User.Status)
	assert.True(t, resp.Notification.OverallSuccess)

	stored := f.users.users[resp.User.ID]
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.PasswordHash)
	// El hash debe corresponder a la credencial enviada en las variables del template.
	require.Len(t, f.notifier.requests, 1)
	req := f.notifier.requests[0]
	assert.Equal(t, notification.TemplateWelcome, req.Template)
	require.Len(t, req.Vars, 3)
	credential := req.Vars[2]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(credential)),
		"La credencial del mensaje de bienvenida debe coincidir con el hash persistido")
}

func TestAddUser_OrgAdminDerivaIsAdmin(t *testing.T) {
	f := newFixture(okNotifier())
	f.seedTenant("t1", "Acme")

	in := validAddRequest()
	in.Role = entity.RoleOrgAdmin
	resp, err := f.uc.AddUser(context.Background(), "t1", in)
	require.NoError(t, err)
	assert.True(t, resp.User.IsAdmin, "is_admin se deriva del rol org_admin")
}

func TestAddUser_CamposRequeridos(t *testing.T) {
	f := newFixture(okNotifier())
	f.seedTenant("t1", "Acme")

	for _, mutate := range []func(*dto.AddUserRequest){
		func(r *dto.AddUserRequest) { r.FirstName = "" },
		func(r *dto.AddUserRequest) { r.LastName = "" },
		func(r *dto.AddUserRequest) { r.Email = "" },
		func(r *dto.AddUserRequest) { r.Phone = "" },
	} {
		in := validAddRequest()
		mutate(&in)
		_, err := f.uc.AddUser(context.Background(), "t1", in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.Empty(t, f.notifier.requests, "Una entrada inválida nunca despacha notificaciones")
}

func TestAddUser_RolInvalido(t *testing.T) {
	f := newFixture(okNotifier())
	f.seedTenant("t1", "Acme")

	in := validAddRequest()
	in.Role = "superuser"
	_, err := f.uc.AddUser(context.Background(), "t1", in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAddUser_TenantInexistente(t *testing.T) {
	f := newFixture(okNotifier())
	_, err := f.uc.AddUser(context.Background(), "fantasma", validAddRequest())
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}

func TestAddUser_EmailDuplicadoEnOtraOrganizacion(t *testing.T) {
	f := newFixture(okNotifier())
	f.seedTenant("t1", "Acme")
	f.seedTenant("t2", "Otra SA")
	f.seedUser(&entity.User{ID: "u1", TenantID: "t2", Email: "ana@acme.com"})

	_, err := f.uc.AddUser(context.Background(), "t1", validAddRequest())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists,
		"La unicidad del email es global, no por organización")
}

func TestAddUser_FalloDeNotificacionNoRevierte(t *testing.T) {
	f := newFixture(failingNotifier())
	f.seedTenant("t1", "Acme")

	resp, err := f.uc.AddUser(context.Background(), "t1", validAddRequest())
	require.NoError(t, err, "El fallo del despacho nunca revierte la creación")
	assert.False(t, resp.Notification.OverallSuccess)
	assert.NotNil(t, f.users.users[resp.User.ID], "El usuario queda persistido igualmente")
}

// ── DeleteUser ────────────────────────────────────────────────────────────────

func TestDeleteUser_Existente(t *testing.T) {
	f := newFixture(okNotifier())
	f.seedUser(&entity.User{ID: "u1", TenantID: "t1", Email: "a@a.com"})

	require.NoError(t, f.uc.DeleteUser(context.Background(), "t1", "u1"))
	assert.Nil(t, f.users.users["u1"])
}

func TestDeleteUser_DeOtraOrganizacion(t *testing.T) {
	f := newFixture(okNotifier())
	f.seedUser(&entity.User{ID: "u1", TenantID: "t2", Email: "a@a.com"})

	err := f.uc.DeleteUser(context.Background(), "t1", "u1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound,
		"Un usuario de otra organización se reporta como no encontrado")
	assert.NotNil(t, f.users.users["u1"], "El usuario ajeno no se toca")
}

func TestDeleteUser_Inexistente(t *testing.T) {
	f := newFixture(okNotifier())
	err := f.uc.DeleteUser(context.Background(), "t1", "nadie")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// ── DeleteTenant (cascada) ────────────────────────────────────────────────────

func TestDeleteTenant_CascadaYDespedidaAlAdmin(t *testing.T) {
	f := newFixture(okNotifier())
	f.seedTenant("t1", "Acme SAS")
	f.seedUser(&entity.User{ID: "u1", TenantID: "t1", Email: "admin@acme.com", Phone: "+57300", FirstName: "Ana", Role: entity.RoleOrgAdmin, IsAdmin: true})
	f.seedUser(&entity.User{ID: "u2", TenantID: "t1", Email: "b@acme.com", Role: entity.RoleMember})
	f.seedUser(&entity.User{ID: "u3", TenantID: "t2", Email: "c@otra.com"})

	resp, err := f.uc.DeleteTenant(context.Background(), "t1")
	require.NoError(t, err)

	assert.Equal(t, 2, resp.DeletedUsers)
	assert.Equal(t, 1, f.tx.calls, "La cascada corre dentro del runner transaccional")
	assert.Nil(t, f.tenants.tenants["t1"])
	assert.Nil(t, f.users.users["u1"])
	assert.Nil(t, f.users.users["u2"])
	assert.NotNil(t, f.users.users["u3"], "Usuarios de otras organizaciones no se tocan")

	require.NotNil(t, resp.Notification)
	require.Len(t, f.notifier.requests, 1)
	req := f.notifier.requests[0]
	assert.Equal(t, notification.TemplateGoodbye, req.Template)
	assert.Equal(t, "admin@acme.com", req.Email, "La despedida va al org_admin")
}

func TestDeleteTenant_SinAdminNoDespacha(t *testing.T) {
	f := newFixture(okNotifier())
	f.seedTenant("t1", "Sin Admin SA")
	f.seedUser(&entity.User{ID: "u1", TenantID: "t1", Email: "b@sa.com", Role: entity.RoleMember})

	resp, err := f.uc.DeleteTenant(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.DeletedUsers)
	assert.Nil(t, resp.Notification, "Sin admin no hay destinatario de despedida")
	assert.Empty(t, f.notifier.requests)
}

func TestDeleteTenant_FalloTransaccionalNoBorraNada(t *testing.T) {
	f := newFixture(okNotifier())
	f.seedTenant("t1", "Acme")
	f.seedUser(&entity.User{ID: "u1", TenantID: "t1", Email: "a@acme.com", Role: entity.RoleOrgAdmin, IsAdmin: true})
	f.tx.err = errors.New("deadlock detectado")

	_, err := f.uc.DeleteTenant(context.Background(), "t1")
	require.Error(t, err)
	assert.NotNil(t, f.tenants.tenants["t1"], "El tenant sobrevive si la transacción falla")
	assert.NotNil(t, f.users.users["u1"])
	assert.Empty(t, f.notifier.requests, "Sin commit no hay despedida")
}

func TestDeleteTenant_Inexistente(t *testing.T) {
	f := newFixture(okNotifier())
	_, err := f.uc.DeleteTenant(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
	assert.Zero(t, f.tx.calls)
}
