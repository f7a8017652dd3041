// Package provisioning contiene los casos de uso de alta/baja de usuarios y
// el borrado en cascada de organizaciones.
package provisioning

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Consola-api/internal/application/dto"
	"github.com/jhoicas/Consola-api/internal/application/notification"
	"github.com/jhoicas/Consola-api/internal/domain"
	"github.com/jhoicas/Consola-api/internal/domain/entity"
	"github.com/jhoicas/Consola-api/internal/domain/repository"
	"github.com/jhoicas/Consola-api/pkg/logger"
)

const defaultCredentialLen = 12

// TxRunner ejecuta el borrado en cascada dentro de una transacción: los
// usuarios y el tenant se eliminan juntos o no se elimina nada.
type TxRunner interface {
	RunCascadeDelete(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		tenantRepo repository.TenantRepository,
	) error) error
}

// Notifier subconjunto del Dispatcher que usa provisioning (para fakes en tests).
type Notifier interface {
	Dispatch(ctx context.Context, req notification.Request) dto.NotificationResult
}

// UseCase provisiona usuarios de una organización. Después de cada escritura
// primaria confirmada dispara la notificación dual-canal; el resultado del
// despacho se devuelve como información auxiliar y nunca revierte la escritura.
type UseCase struct {
	tenantRepo repository.TenantRepository
	userRepo   repository.UserRepository
	tx         TxRunner
	notifier   Notifier
	log        *logger.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso de provisioning.
func NewUseCase(
	tenantRepo repository.TenantRepository,
	userRepo repository.UserRepository,
	tx TxRunner,
	notifier Notifier,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		tx:         tx,
		notifier:   notifier,
		log:        log,
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// AddUser provisiona un usuario en la organización indicada.
//
// Reglas:
//   - first_name, last_name, email y phone son obligatorios (ErrValidation).
//   - El email debe ser único en TODAS las organizaciones (ErrEmailAlreadyExists).
//   - El rol por defecto es member; is_admin se deriva del rol.
//   - Se genera una credencial inicial aleatoria y se persiste su hash bcrypt.
//
// La escritura queda confirmada antes del despacho de bienvenida: aunque ambos
// canales fallen, el usuario se reporta como creado (éxito parcial).
func (uc *UseCase) AddUser(ctx context.Context, tenantID string, in dto.AddUserRequest) (*dto.AddUserResponse, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Phone == "" {
		return nil, fmt.Errorf("%w: first_name, last_name, email y phone son requeridos", domain.ErrValidation)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleMember
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: role %q no es válido", domain.ErrValidation, in.Role)
	}

	tenant, err := uc.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrTenantNotFound
	}

	// Unicidad global del email: se consulta en todas las organizaciones.
	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	credential, err := randomCredential(defaultCredentialLen)
	if err != nil {
		return nil, fmt.Errorf("generar credencial: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashear credencial: %w", err)
	}

	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         role,
		Status:       entity.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	user.DeriveIsAdmin()

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Escritura primaria confirmada; el despacho solo aporta el tri-estado.
	result := uc.notifier.Dispatch(ctx, notification.Request{
		Email:        user.Email,
		EmailSubject: fmt.Sprintf("Bienvenido a %s", tenant.CompanyName),
		EmailBody:    welcomeBody(user, tenant, credential),
		Target:       user.Phone,
		Locale:       "es",
		Template:     notification.TemplateWelcome,
		Vars:         []string{user.FirstName, tenant.CompanyName, credential},
	})

	return &dto.AddUserResponse{
		User:         *toUserResponse(user),
		Notification: result,
	}, nil
}

// ListUsers lista los usuarios de una organización con paginación.
func (uc *UseCase) ListUsers(ctx context.Context, tenantID string, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	list, err := uc.userRepo.ListByTenant(ctx, tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// DeleteUser elimina un usuario (borrado duro, sin cascadas adicionales).
// Devuelve ErrUserNotFound si no existe o pertenece a otra organización.
func (uc *UseCase) DeleteUser(ctx context.Context, tenantID, userID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || user.TenantID != tenantID {
		return domain.ErrUserNotFound
	}
	return uc.userRepo.Delete(ctx, userID)
}

// DeleteTenant elimina la organización en cascada: primero todos sus usuarios
// y después el registro del tenant, dentro de UNA transacción. Si cualquier
// paso falla se revierte completo; nunca queda un tenant huérfano sin usuarios
// a medio borrar.
//
// Tras el commit se despacha un evento de despedida al admin de la
// organización (si lo hay), con la misma semántica de éxito parcial.
func (uc *UseCase) DeleteTenant(ctx context.Context, tenantID string) (*dto.DeleteTenantResponse, error) {
	tenant, err := uc.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrTenantNotFound
	}

	// El destinatario de la despedida se resuelve antes de borrar.
	admin := uc.findAdmin(ctx, tenantID)
	deleted, err := uc.userRepo.CountByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	err = uc.tx.RunCascadeDelete(ctx, func(
		userRepo repository.UserRepository,
		tenantRepo repository.TenantRepository,
	) error {
		if err := userRepo.DeleteByTenant(ctx, tenantID); err != nil {
			return err
		}
		return tenantRepo.Delete(ctx, tenantID)
	})
	if err != nil {
		return nil, err
	}

	out := &dto.DeleteTenantResponse{DeletedUsers: deleted}
	if admin != nil {
		result := uc.notifier.Dispatch(ctx, notification.Request{
			Email:        admin.Email,
			EmailSubject: fmt.Sprintf("Cuenta de %s eliminada", tenant.CompanyName),
			EmailBody:    goodbyeBody(admin, tenant),
			Target:       admin.Phone,
			Locale:       "es",
			Template:     notification.TemplateGoodbye,
			Vars:         []string{admin.FirstName, tenant.CompanyName},
		})
		out.Notification = &result
	}
	return out, nil
}

// findAdmin devuelve el primer org_admin del tenant, o nil si no hay.
func (uc *UseCase) findAdmin(ctx context.Context, tenantID string) *entity.User {
	users, err := uc.userRepo.ListByTenant(ctx, tenantID, 100, 0)
	if err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("no se pudo resolver el admin para la despedida")
		return nil
	}
	for _, u := range users {
		if u.IsAdmin {
			return u
		}
	}
	return nil
}

// randomCredential genera una credencial alfanumérica con crypto/rand.
func randomCredential(n int) (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}

func welcomeBody(u *entity.User, t *entity.Tenant, credential string) string {
	return fmt.Sprintf(
		"<p>Hola %s,</p><p>Tu cuenta en <b>%s</b> fue creada.</p><p>Credencial inicial: <code>%s</code></p>",
		u.FirstName, t.CompanyName, credential,
	)
}

func goodbyeBody(u *entity.User, t *entity.Tenant) string {
	return fmt.Sprintf(
		"<p>Hola %s,</p><p>La cuenta de <b>%s</b> y todos sus usuarios fueron eliminados.</p>",
		u.FirstName, t.CompanyName,
	)
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		TenantID:  u.TenantID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		IsAdmin:   u.IsAdmin,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
