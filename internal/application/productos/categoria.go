package productos

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
)

// Nombres canónicos de las categorías de inventario.
const (
	CategoriaJoyas     = "Joyas"
	CategoriaMercancia = "Mercancía"
	CategoriaVehiculos = "Vehículos"
)

var quitarAcentos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizar baja a minúsculas y elimina diacríticos, para que
// "Mercancía", "mercancia" y "MERCANCIA" resuelvan a la misma clase.
func normalizar(s string) string {
	out, _, err := transform.String(quitarAcentos, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// ClasePorCategoria mapea el texto libre de categoría a su clase numérica.
// Devuelve 0 si el texto no corresponde a ninguna categoría conocida.
func ClasePorCategoria(categoria string) int {
	switch normalizar(categoria) {
	case "joyas", "joya":
		return entity.ClaseJoyas
	case "mercancia", "mercancias":
		return entity.ClaseMercancia
	case "vehiculos", "vehiculo":
		return entity.ClaseVehiculos
	}
	return 0
}

// NombreCategoria devuelve el nombre canónico de una clase.
func NombreCategoria(clase int) string {
	switch clase {
	case entity.ClaseJoyas:
		return CategoriaJoyas
	case entity.ClaseMercancia:
		return CategoriaMercancia
	case entity.ClaseVehiculos:
		return CategoriaVehiculos
	}
	return ""
}
