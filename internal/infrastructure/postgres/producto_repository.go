package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
)

var _ repository.ProductoRepository = (*ProductoRepo)(nil)

// ProductoRepo implementación del puerto ProductoRepository sobre PostgreSQL (usable con pool o tx).
type ProductoRepo struct {
	q Querier
}

// NewProductoRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewProductoRepository(q Querier) *ProductoRepo {
	return &ProductoRepo{q: q}
}

const productoCols = `id, nombre, descripcion, categoria, clase, precio, cantidad, estado, imagenes, sucursal, metadata, created_at, updated_at`

func scanProducto(row pgx.Row) (*entity.Producto, error) {
	var p entity.Producto
	var descripcion, sucursal *string
	err := row.Scan(
		&p.ID, &p.Nombre, &descripcion, &p.Categoria, &p.Clase, &p.Precio, &p.Cantidad,
		&p.Estado, &p.Imagenes, &sucursal, &p.Metadata, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if descripcion != nil {
		p.Descripcion = *descripcion
	}
	if sucursal != nil {
		p.Sucursal = *sucursal
	}
	return &p, nil
}

// Create persiste un nuevo artículo y asigna su ID.
func (r *ProductoRepo) Create(p *entity.Producto) error {
	query := `
		INSERT INTO productos (nombre, descripcion, categoria, clase, precio, cantidad, estado, imagenes, sucursal, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		p.Nombre, nullIfEmpty(p.Descripcion), p.Categoria, p.Clase, p.Precio, p.Cantidad,
		p.Estado, p.Imagenes, nullIfEmpty(p.Sucursal), p.Metadata, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert producto: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ProductoRepo) GetByID(id int64) (*entity.Producto, error) {
	query := `SELECT ` + productoCols + ` FROM productos WHERE id = $1`
	p, err := scanProducto(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return p, nil
}

// List lista artículos aplicando los filtros recibidos.
func (r *ProductoRepo) List(f repository.ProductoFiltros) ([]*entity.Producto, error) {
	query := `SELECT ` + productoCols + ` FROM productos WHERE 1=1`
	var args []any
	idx := 1
	if f.Clase != nil {
		query += fmt.Sprintf(" AND clase = $%d", idx)
		args = append(args, *f.Clase)
		idx++
	}
	if f.Estado != "" {
		query += fmt.Sprintf(" AND estado = $%d", idx)
		args = append(args, f.Estado)
		idx++
	}
	if f.Sucursal != "" {
		query += fmt.Sprintf(" AND sucursal = $%d", idx)
		args = append(args, f.Sucursal)
		idx++
	}
	if f.PrecioMin != nil {
		query += fmt.Sprintf(" AND precio >= $%d", idx)
		args = append(args, *f.PrecioMin)
		idx++
	}
	if f.PrecioMax != nil {
		query += fmt.Sprintf(" AND precio <= $%d", idx)
		args = append(args, *f.PrecioMax)
		idx++
	}
	if f.SinPrecio {
		query += " AND (precio IS NULL OR precio = 0)"
	}
	if f.Texto != "" {
		// El término llega plegado (minúsculas, sin diacríticos); se pliegan
		// las columnas con translate para que los acentos no rompan el match.
		query += fmt.Sprintf(
			" AND (translate(lower(nombre), 'áéíóúüñ', 'aeiouun') LIKE $%d"+
				" OR translate(lower(descripcion), 'áéíóúüñ', 'aeiouun') LIKE $%d)", idx, idx)
		args = append(args, "%"+f.Texto+"%")
		idx++
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Producto
	for rows.Next() {
		p, err := scanProducto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza un artículo existente.
func (r *ProductoRepo) Update(p *entity.Producto) error {
	query := `
		UPDATE productos SET nombre = $2, descripcion = $3, categoria = $4, clase = $5, precio = $6,
			cantidad = $7, estado = $8, imagenes = $9, sucursal = $10, metadata = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Nombre, nullIfEmpty(p.Descripcion), p.Categoria, p.Clase, p.Precio,
		p.Cantidad, p.Estado, p.Imagenes, nullIfEmpty(p.Sucursal), p.Metadata, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update producto: %w", err)
	}
	return nil
}

// Delete elimina un artículo por ID (borrado físico).
func (r *ProductoRepo) Delete(id int64) (bool, error) {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM productos WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete producto: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ListCategorias agrega los artículos por clase con su conteo.
func (r *ProductoRepo) ListCategorias() ([]repository.CategoriaResumen, error) {
	query := `
		SELECT clase, MIN(categoria) AS nombre, COUNT(*) AS cantidad
		FROM productos GROUP BY clase ORDER BY clase`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list categorias: %w", err)
	}
	defer rows.Close()
	var list []repository.CategoriaResumen
	for rows.Next() {
		var c repository.CategoriaResumen
		if err := rows.Scan(&c.Clase, &c.Nombre, &c.Cantidad); err != nil {
			return nil, fmt.Errorf("scan categoria: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ListSucursales agrega los artículos por sucursal con su conteo.
func (r *ProductoRepo) ListSucursales() ([]repository.SucursalResumen, error) {
	query := `
		SELECT sucursal, COUNT(*) AS cantidad
		FROM productos WHERE sucursal IS NOT NULL GROUP BY sucursal ORDER BY sucursal`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list sucursales: %w", err)
	}
	defer rows.Close()
	var list []repository.SucursalResumen
	for rows.Next() {
		var s repository.SucursalResumen
		if err := rows.Scan(&s.Sucursal, &s.Cantidad); err != nil {
			return nil, fmt.Errorf("scan sucursal: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
