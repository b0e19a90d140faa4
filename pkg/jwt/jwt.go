package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles reconocidos por los cinco servicios, con su nivel numérico.
const (
	RolCliente  = "cliente"
	RolEmpleado = "empleado"
	RolAdmin    = "admin"
)

// NivelPorRol mapea el rol textual a su nivel numérico (cliente=1, empleado=2, admin=3).
func NivelPorRol(rol string) int {
	switch rol {
	case RolAdmin:
		return 3
	case RolEmpleado:
		return 2
	default:
		return 1
	}
}

// Perfil son los datos de identidad que viajan dentro del token, de modo que
// los servicios hermanos puedan desnormalizar al cliente sin consultar Usuarios.
type Perfil struct {
	ID        int64  `json:"id"`
	Cedula    string `json:"cedula"`
	Nombres   string `json:"nombre"`
	Apellidos string `json:"apellidos"`
	Username  string `json:"username"`
	Rol       string `json:"rol"`
	Nivel     int    `json:"nivel"`
}

// Claims incluye los claims estándar JWT más el perfil del usuario.
type Claims struct {
	jwt.RegisteredClaims
	Perfil
}

// Generate genera un token JWT firmado con el perfil completo.
func Generate(secret string, perfil Perfil, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	if perfil.Nivel == 0 {
		perfil.Nivel = NivelPorRol(perfil.Rol)
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   fmt.Sprintf("%d", perfil.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Perfil: perfil,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve el perfil contenido.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Perfil, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	perfil := claims.Perfil
	if perfil.Nivel == 0 {
		perfil.Nivel = NivelPorRol(perfil.Rol)
	}
	return &perfil, nil
}
