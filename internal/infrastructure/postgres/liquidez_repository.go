package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/casaempenos/prestamos-api/internal/domain"
	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
)

var _ repository.LiquidezRepository = (*LiquidezRepo)(nil)

// LiquidezRepo implementación del puerto LiquidezRepository sobre PostgreSQL (usable con pool o tx).
type LiquidezRepo struct {
	q Querier
}

// NewLiquidezRepository construye el adaptador de persistencia para liquidez de sucursales. Pasar pool o tx (Querier).
func NewLiquidezRepository(q Querier) *LiquidezRepo {
	return &LiquidezRepo{q: q}
}

const liquidezCols = `sucursal, liquidez_actual, liquidez_minima, liquidez_maxima, updated_at`

func scanLiquidez(row pgx.Row) (*entity.LiquidezSucursal, error) {
	var l entity.LiquidezSucursal
	err := row.Scan(&l.Sucursal, &l.LiquidezActual, &l.LiquidezMinima, &l.LiquidezMaxima, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListSucursales lista los saldos de todas las sucursales.
func (r *LiquidezRepo) ListSucursales() ([]*entity.LiquidezSucursal, error) {
	rows, err := r.q.Query(context.Background(), `SELECT `+liquidezCols+` FROM liquidez_sucursales ORDER BY sucursal`)
	if err != nil {
		return nil, fmt.Errorf("list liquidez: %w", err)
	}
	defer rows.Close()
	var list []*entity.LiquidezSucursal
	for rows.Next() {
		l, err := scanLiquidez(rows)
		if err != nil {
			return nil, fmt.Errorf("scan liquidez: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Get lee el saldo de una sucursal.
func (r *LiquidezRepo) Get(sucursal string) (*entity.LiquidezSucursal, error) {
	query := `SELECT ` + liquidezCols + ` FROM liquidez_sucursales WHERE sucursal = $1`
	l, err := scanLiquidez(r.q.QueryRow(context.Background(), query, sucursal))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get liquidez: %w", err)
	}
	return l, nil
}

// GetForUpdate lee el saldo bloqueando la fila. Solo tiene sentido dentro de una tx.
func (r *LiquidezRepo) GetForUpdate(sucursal string) (*entity.LiquidezSucursal, error) {
	query := `SELECT ` + liquidezCols + ` FROM liquidez_sucursales WHERE sucursal = $1 FOR UPDATE`
	l, err := scanLiquidez(r.q.QueryRow(context.Background(), query, sucursal))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get liquidez for update: %w", err)
	}
	return l, nil
}

// Upsert inserta o actualiza los niveles de una sucursal.
func (r *LiquidezRepo) Upsert(l *entity.LiquidezSucursal) error {
	query := `
		INSERT INTO liquidez_sucursales (sucursal, liquidez_actual, liquidez_minima, liquidez_maxima, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (sucursal) DO UPDATE SET liquidez_actual = EXCLUDED.liquidez_actual,
			liquidez_minima = EXCLUDED.liquidez_minima, liquidez_maxima = EXCLUDED.liquidez_maxima,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		l.Sucursal, l.LiquidezActual, l.LiquidezMinima, l.LiquidezMaxima, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert liquidez: %w", err)
	}
	return nil
}

// Debitar resta del saldo de la sucursal. No controla saldo negativo: la
// validación de fondos ocurre antes, sobre la fila bloqueada.
func (r *LiquidezRepo) Debitar(sucursal string, monto decimal.Decimal) error {
	query := `UPDATE liquidez_sucursales SET liquidez_actual = liquidez_actual - $2, updated_at = now() WHERE sucursal = $1`
	cmd, err := r.q.Exec(context.Background(), query, sucursal, monto)
	if err != nil {
		return fmt.Errorf("debitar liquidez: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Acreditar suma al saldo de la sucursal, creando la fila si no existe.
func (r *LiquidezRepo) Acreditar(sucursal string, monto decimal.Decimal) error {
	query := `
		INSERT INTO liquidez_sucursales (sucursal, liquidez_actual, liquidez_minima, liquidez_maxima, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (sucursal) DO UPDATE SET liquidez_actual = liquidez_sucursales.liquidez_actual + EXCLUDED.liquidez_actual,
			updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, sucursal, monto)
	if err != nil {
		return fmt.Errorf("acreditar liquidez: %w", err)
	}
	return nil
}

var _ repository.TransferenciaRepository = (*TransferenciaRepo)(nil)

// TransferenciaRepo implementación del puerto TransferenciaRepository sobre PostgreSQL (usable con pool o tx).
type TransferenciaRepo struct {
	q Querier
}

// NewTransferenciaRepository construye el adaptador de persistencia del historial de transferencias.
func NewTransferenciaRepository(q Querier) *TransferenciaRepo {
	return &TransferenciaRepo{q: q}
}

// Create persiste una transferencia y asigna su ID.
func (r *TransferenciaRepo) Create(t *entity.Transferencia) error {
	query := `
		INSERT INTO transferencias (origen, destino, monto, motivo, realizado_por, estado, fecha)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		t.Origen, t.Destino, t.Monto, nullIfEmpty(t.Motivo), t.RealizadoPor, t.Estado, t.Fecha,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert transferencia: %w", err)
	}
	return nil
}

// List lista transferencias aplicando los filtros recibidos, más recientes primero.
func (r *TransferenciaRepo) List(f repository.TransferenciaFiltros) ([]*entity.Transferencia, error) {
	query := `SELECT id, origen, destino, monto, motivo, realizado_por, estado, fecha FROM transferencias WHERE 1=1`
	var args []any
	idx := 1
	if f.Origen != "" {
		query += fmt.Sprintf(" AND origen = $%d", idx)
		args = append(args, f.Origen)
		idx++
	}
	if f.Destino != "" {
		query += fmt.Sprintf(" AND destino = $%d", idx)
		args = append(args, f.Destino)
		idx++
	}
	if f.DesdeFecha != nil {
		query += fmt.Sprintf(" AND fecha >= $%d", idx)
		args = append(args, *f.DesdeFecha)
		idx++
	}
	if f.HastaFecha != nil {
		query += fmt.Sprintf(" AND fecha <= $%d", idx)
		args = append(args, *f.HastaFecha)
		idx++
	}
	query += " ORDER BY fecha DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transferencias: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transferencia
	for rows.Next() {
		var t entity.Transferencia
		var motivo *string
		if err := rows.Scan(&t.ID, &t.Origen, &t.Destino, &t.Monto, &motivo, &t.RealizadoPor, &t.Estado, &t.Fecha); err != nil {
			return nil, fmt.Errorf("scan transferencia: %w", err)
		}
		if motivo != nil {
			t.Motivo = *motivo
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
