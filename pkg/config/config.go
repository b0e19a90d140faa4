package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de un microservicio (lectura vía Viper desde env y opcionalmente archivo).
// Cada servicio (usuarios, productos, ordenes, solicitudes, contratos) carga su propia instancia
// y la recibe por inyección; no hay estado global mutable.
type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Services ServicesConfig
	Outbox   OutboxConfig
}

// AppConfig configuración general del servicio.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	userInfo := url.UserPassword(c.User, c.Password)

	u := &url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}

	return u.String()
}

// JWTConfig configuración de JWT. El secreto es compartido entre los cinco servicios:
// cualquiera puede verificar y re-firmar tokens para llamadas internas.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ServicesConfig URLs base de los servicios hermanos para llamadas HTTP internas.
type ServicesConfig struct {
	UsuariosURL    string
	ProductosURL   string
	SolicitudesURL string
	ContratosURL   string
}

// OutboxConfig parámetros del reintentador de acciones pendientes (solo Contratos).
type OutboxConfig struct {
	PollSeconds int    // intervalo de sondeo de acciones_pendientes
	MaxAttempts int    // intentos antes de dejar la acción para reconciliación manual
	LogPath     string // archivo donde además se registran los fallos
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde un archivo .env).
// Las env vars tienen prioridad. serviceName se usa como nombre por defecto de la app.
func Load(serviceName string) (*Config, error) {
	v := viper.New()

	// Opcional: archivo .env en el directorio de trabajo del servicio
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", serviceName),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "prestamos"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 120),
			Issuer:     getString(v, "JWT_ISSUER", "prestamos-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Services: ServicesConfig{
			UsuariosURL:    getString(v, "USUARIOS_URL", "http://localhost:3001"),
			ProductosURL:   getString(v, "PRODUCTOS_URL", "http://localhost:3002"),
			SolicitudesURL: getString(v, "SOLICITUDES_URL", "http://localhost:3004"),
			ContratosURL:   getString(v, "CONTRATOS_URL", "http://localhost:3005"),
		},
		Outbox: OutboxConfig{
			PollSeconds: getInt(v, "OUTBOX_POLL_SECONDS", 60),
			MaxAttempts: getInt(v, "OUTBOX_MAX_ATTEMPTS", 5),
			LogPath:     getString(v, "OUTBOX_LOG_PATH", "logs/failed_product_actions.log"),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
