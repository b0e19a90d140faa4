package entity

// ClienteSnapshot es la copia puntual de identidad del cliente que Ordenes,
// Solicitudes y Contratos guardan junto a sus filas. Es una copia deliberada:
// no se actualiza si el usuario cambia después.
type ClienteSnapshot struct {
	ID        int64  `json:"id"`
	Cedula    string `json:"cedula"`
	Nombres   string `json:"nombre"`
	Apellidos string `json:"apellidos"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Telefono  string `json:"telefono,omitempty"`
	Direccion string `json:"direccion,omitempty"`
}

// ProductoSnapshot es la copia puntual del artículo vinculado a un contrato.
type ProductoSnapshot struct {
	ID          int64    `json:"id"`
	Nombre      string   `json:"nombre"`
	Descripcion string   `json:"descripcion,omitempty"`
	Categoria   string   `json:"categoria,omitempty"`
	Imagenes    []string `json:"imagenes,omitempty"`
}
