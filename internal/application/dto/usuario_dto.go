package dto

import "time"

// RegistroUsuarioRequest alta de un usuario (cliente por defecto; empleados vía ruta staff).
type RegistroUsuarioRequest struct {
	Cedula       string         `json:"cedula"`
	Nombres      string         `json:"nombres"`
	Apellidos    string         `json:"apellidos"`
	Username     string         `json:"username"`
	Password     string         `json:"password"`
	Telefono     string         `json:"telefono"`
	Email        string         `json:"email"`
	Direccion    string         `json:"direccion"`
	Rol          string         `json:"rol"`
	Preferencias map[string]any `json:"preferencias"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse token firmado con los claims de identidad.
type LoginResponse struct {
	Token   string          `json:"token"`
	Usuario UsuarioResponse `json:"usuario"`
}

// ActualizarUsuarioRequest actualización parcial tipada: solo los campos
// enumerados son mutables; claves desconocidas en el JSON se rechazan.
type ActualizarUsuarioRequest struct {
	Nombres   *string `json:"nombres"`
	Apellidos *string `json:"apellidos"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"`
	Direccion *string `json:"direccion"`
	Password  *string `json:"password"`
	// Rol y Estado solo los puede fijar un admin, nunca el propio usuario.
	Rol          *string        `json:"rol"`
	Estado       *string        `json:"estado"`
	Preferencias map[string]any `json:"preferencias"`
}

// UsuarioResponse representación pública del usuario (sin hash de contraseña).
type UsuarioResponse struct {
	ID        int64     `json:"usu_codigo"`
	Cedula    string    `json:"cedula"`
	Nombres   string    `json:"nombres"`
	Apellidos string    `json:"apellidos"`
	Username  string    `json:"username"`
	Telefono  string    `json:"telefono,omitempty"`
	Email     string    `json:"email,omitempty"`
	Direccion string    `json:"direccion,omitempty"`
	Rol       string    `json:"rol"`
	Nivel     int       `json:"nivel"`
	Estado    string    `json:"estado"`
	CreatedAt time.Time `json:"created_at"`
}
