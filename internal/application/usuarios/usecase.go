package usuarios

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/domain"
	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
	"github.com/casaempenos/prestamos-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de usuarios: registro, login, perfil y administración.
type UseCase struct {
	repo   repository.UsuarioRepository
	jwtCfg JWTConfig
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.UsuarioRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{repo: repo, jwtCfg: jwtCfg}
}

func rolValido(rol string) bool {
	switch rol {
	case jwt.RolCliente, jwt.RolEmpleado, jwt.RolAdmin:
		return true
	}
	return false
}

// Registrar crea un usuario: hashea password con bcrypt y persiste.
// Devuelve ErrDuplicate si cédula o username ya existen.
func (uc *UseCase) Registrar(in dto.RegistroUsuarioRequest) (*dto.UsuarioResponse, error) {
	if in.Cedula == "" || in.Nombres == "" || in.Apellidos == "" || in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	rol := in.Rol
	if rol == "" {
		rol = jwt.RolCliente
	}
	if !rolValido(rol) {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	u := &entity.Usuario{
		Cedula:       in.Cedula,
		Nombres:      in.Nombres,
		Apellidos:    in.Apellidos,
		Username:     in.Username,
		PasswordHash: string(hash),
		Telefono:     in.Telefono,
		Email:        in.Email,
		Direccion:    in.Direccion,
		Rol:          rol,
		Estado:       entity.UsuarioActivo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(u); err != nil {
		return nil, err
	}
	if u.Email != "" || len(in.Preferencias) > 0 {
		detalle := &entity.UsuarioDetalle{
			UsuarioID:    u.ID,
			Email:        u.Email,
			Preferencias: in.Preferencias,
			UpdatedAt:    now,
		}
		if err := uc.repo.UpsertDetalle(detalle); err != nil {
			return nil, err
		}
	}
	return toUsuarioResponse(u), nil
}

// Login verifica username/password, genera JWT y retorna token + usuario.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	u, err := uc.repo.GetByUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	// Una cuenta desactivada se trata igual que una credencial inválida:
	// no se revela al llamador que la cuenta existe.
	if u.Estado != entity.UsuarioActivo {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, perfilDe(u), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Usuario: *toUsuarioResponse(u)}, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UseCase) GetByID(id int64) (*dto.UsuarioResponse, error) {
	u, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return toUsuarioResponse(u), nil
}

// GetByCedula obtiene un usuario por cédula.
func (uc *UseCase) GetByCedula(cedula string) (*dto.UsuarioResponse, error) {
	u, err := uc.repo.GetByCedula(cedula)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return toUsuarioResponse(u), nil
}

// List lista usuarios con paginación.
func (uc *UseCase) List(limit, offset int) ([]dto.UsuarioResponse, error) {
	usuarios, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsuarioResponse, 0, len(usuarios))
	for _, u := range usuarios {
		out = append(out, *toUsuarioResponse(u))
	}
	return out, nil
}

// Actualizar aplica una actualización parcial. Rol y estado solo los puede
// fijar un admin; en cualquier otro caso su presencia devuelve ErrForbidden.
func (uc *UseCase) Actualizar(id int64, in dto.ActualizarUsuarioRequest, esAdmin bool) (*dto.UsuarioResponse, error) {
	u, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	if (in.Rol != nil || in.Estado != nil) && !esAdmin {
		return nil, domain.ErrForbidden
	}
	if in.Nombres != nil {
		u.Nombres = *in.Nombres
	}
	if in.Apellidos != nil {
		u.Apellidos = *in.Apellidos
	}
	if in.Telefono != nil {
		u.Telefono = *in.Telefono
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Direccion != nil {
		u.Direccion = *in.Direccion
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, domain.ErrInvalidInput
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if in.Rol != nil {
		if !rolValido(*in.Rol) {
			return nil, domain.ErrInvalidInput
		}
		u.Rol = *in.Rol
	}
	if in.Estado != nil {
		if *in.Estado != entity.UsuarioActivo && *in.Estado != entity.UsuarioInactivo {
			return nil, domain.ErrInvalidInput
		}
		u.Estado = *in.Estado
	}
	u.UpdatedAt = time.Now()
	if err := uc.repo.Update(u); err != nil {
		return nil, err
	}
	if in.Email != nil || in.Preferencias != nil {
		detalle := &entity.UsuarioDetalle{
			UsuarioID:    u.ID,
			Email:        u.Email,
			Preferencias: in.Preferencias,
			UpdatedAt:    u.UpdatedAt,
		}
		if err := uc.repo.UpsertDetalle(detalle); err != nil {
			return nil, err
		}
	}
	return toUsuarioResponse(u), nil
}

// Eliminar hace el borrado lógico del usuario. Devuelve false si no existe.
func (uc *UseCase) Eliminar(id int64) (bool, error) {
	return uc.repo.SoftDelete(id)
}

func perfilDe(u *entity.Usuario) jwt.Perfil {
	return jwt.Perfil{
		ID:        u.ID,
		Cedula:    u.Cedula,
		Nombres:   u.Nombres,
		Apellidos: u.Apellidos,
		Username:  u.Username,
		Rol:       u.Rol,
		Nivel:     jwt.NivelPorRol(u.Rol),
	}
}

func toUsuarioResponse(u *entity.Usuario) *dto.UsuarioResponse {
	if u == nil {
		return nil
	}
	return &dto.UsuarioResponse{
		ID:        u.ID,
		Cedula:    u.Cedula,
		Nombres:   u.Nombres,
		Apellidos: u.Apellidos,
		Username:  u.Username,
		Telefono:  u.Telefono,
		Email:     u.Email,
		Direccion: u.Direccion,
		Rol:       u.Rol,
		Nivel:     jwt.NivelPorRol(u.Rol),
		Estado:    u.Estado,
		CreatedAt: u.CreatedAt,
	}
}
