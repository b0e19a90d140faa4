package outbox_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaempenos/prestamos-api/internal/application/outbox"
	"github.com/casaempenos/prestamos-api/internal/domain/entity"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeAccionRepo struct {
	acciones map[string]*entity.AccionPendiente

	deletes []string
	marks   []string
}

func newFakeAccionRepo() *fakeAccionRepo {
	return &fakeAccionRepo{acciones: map[string]*entity.AccionPendiente{}}
}

func (f *fakeAccionRepo) Create(a *entity.AccionPendiente) error {
	copia := *a
	f.acciones[a.ID] = &copia
	return nil
}

func (f *fakeAccionRepo) ListDue(now time.Time, limit int) ([]*entity.AccionPendiente, error) {
	var out []*entity.AccionPendiente
	for _, a := range f.acciones {
		if !a.NextAttemptAt.After(now) {
			copia := *a
			out = append(out, &copia)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAccionRepo) MarkAttempt(id string, errMsg string, nextAttemptAt time.Time) error {
	f.marks = append(f.marks, id)
	a, ok := f.acciones[id]
	if !ok {
		return nil
	}
	a.Attempts++
	a.ErrorMessage = errMsg
	a.NextAttemptAt = nextAttemptAt
	return nil
}

func (f *fakeAccionRepo) Delete(id string) error {
	f.deletes = append(f.deletes, id)
	delete(f.acciones, id)
	return nil
}

type fakeProductos struct {
	estados    map[int64]string
	eliminados []int64
	fallo      error
}

func (f *fakeProductos) CambiarEstado(ctx context.Context, token string, id int64, estado string) error {
	if f.fallo != nil {
		return f.fallo
	}
	if f.estados == nil {
		f.estados = map[int64]string{}
	}
	f.estados[id] = estado
	return nil
}

func (f *fakeProductos) EliminarProducto(ctx context.Context, token string, id int64) error {
	if f.fallo != nil {
		return f.fallo
	}
	f.eliminados = append(f.eliminados, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error", Service: "outbox-test"})
}

func accionVencida(id string, accion string, productoID int64) *entity.AccionPendiente {
	now := time.Now()
	return &entity.AccionPendiente{
		ID:            id,
		ContratoID:    1,
		ProductoID:    productoID,
		Accion:        accion,
		NextAttemptAt: now.Add(-time.Minute),
		CreatedAt:     now.Add(-time.Hour),
		UpdatedAt:     now.Add(-time.Hour),
	}
}

func buildRetrier(repo *fakeAccionRepo, productos *fakeProductos, maxAttempts int) *outbox.Retrier {
	token := func() (string, error) { return "token-interno", nil }
	return outbox.NewRetrier(repo, productos, token, time.Minute, maxAttempts, testLogger())
}

// ──────────────────────────────────────────────────────────────────────────────
// Procesar
// ──────────────────────────────────────────────────────────────────────────────

func TestProcesar_EjecutaYEliminaAccionesVencidas(t *testing.T) {
	repo := newFakeAccionRepo()
	require.NoError(t, repo.Create(accionVencida("a-1", entity.AccionSetAVenta, 10)))
	require.NoError(t, repo.Create(accionVencida("a-2", entity.AccionBorrarProducto, 20)))
	productos := &fakeProductos{}

	buildRetrier(repo, productos, 5).Procesar(context.Background())

	assert.Equal(t, entity.ProductoAVenta, productos.estados[10])
	assert.Equal(t, []int64{20}, productos.eliminados)
	assert.ElementsMatch(t, []string{"a-1", "a-2"}, repo.deletes)
	assert.Empty(t, repo.acciones)
}

func TestProcesar_IgnoraAccionesNoVencidas(t *testing.T) {
	repo := newFakeAccionRepo()
	futura := accionVencida("a-1", entity.AccionSetAVenta, 10)
	futura.NextAttemptAt = time.Now().Add(time.Hour)
	require.NoError(t, repo.Create(futura))
	productos := &fakeProductos{}

	buildRetrier(repo, productos, 5).Procesar(context.Background())

	assert.Empty(t, productos.estados)
	assert.Empty(t, repo.deletes)
}

func TestProcesar_FalloAgendaReintentoConBackoff(t *testing.T) {
	repo := newFakeAccionRepo()
	require.NoError(t, repo.Create(accionVencida("a-1", entity.AccionSetAVenta, 10)))
	productos := &fakeProductos{fallo: errors.New("connection refused")}

	buildRetrier(repo, productos, 5).Procesar(context.Background())

	require.Equal(t, []string{"a-1"}, repo.marks)
	a := repo.acciones["a-1"]
	require.NotNil(t, a)
	assert.Equal(t, 1, a.Attempts)
	assert.Equal(t, "connection refused", a.ErrorMessage)
	assert.True(t, a.NextAttemptAt.After(time.Now().Add(time.Minute)))
	assert.Empty(t, repo.deletes)
}

func TestProcesar_AgotadosLosIntentosQuedaParaReconciliacion(t *testing.T) {
	repo := newFakeAccionRepo()
	a := accionVencida("a-1", entity.AccionSetAVenta, 10)
	a.Attempts = 4
	require.NoError(t, repo.Create(a))
	productos := &fakeProductos{fallo: errors.New("connection refused")}

	buildRetrier(repo, productos, 5).Procesar(context.Background())

	quedada := repo.acciones["a-1"]
	require.NotNil(t, quedada)
	assert.Equal(t, 5, quedada.Attempts)
	// El próximo intento queda tan lejos que solo la reconciliación manual lo toca.
	assert.True(t, quedada.NextAttemptAt.After(time.Now().AddDate(50, 0, 0)))
}

func TestProcesar_AccionDesconocidaSeElimina(t *testing.T) {
	repo := newFakeAccionRepo()
	require.NoError(t, repo.Create(accionVencida("a-1", "accion_rara", 10)))
	productos := &fakeProductos{}

	buildRetrier(repo, productos, 5).Procesar(context.Background())

	assert.Empty(t, productos.estados)
	assert.Empty(t, productos.eliminados)
	assert.Equal(t, []string{"a-1"}, repo.deletes)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recorder
// ──────────────────────────────────────────────────────────────────────────────

func TestRecorder_EncolaConBackoffInicial(t *testing.T) {
	repo := newFakeAccionRepo()
	rec := outbox.NewRecorder(repo, "", testLogger())

	rec.Registrar(7, 42, entity.AccionSetAVenta, "timeout")

	require.Len(t, repo.acciones, 1)
	for _, a := range repo.acciones {
		assert.NotEmpty(t, a.ID)
		assert.Equal(t, int64(7), a.ContratoID)
		assert.Equal(t, int64(42), a.ProductoID)
		assert.Equal(t, entity.AccionSetAVenta, a.Accion)
		assert.Equal(t, "timeout", a.ErrorMessage)
		assert.Equal(t, 0, a.Attempts)
		assert.True(t, a.NextAttemptAt.After(time.Now()))
	}
}
