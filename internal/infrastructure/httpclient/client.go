// Package httpclient contiene los clientes HTTP tipados para las llamadas
// entre servicios. Todos comparten timeout corto y el mismo manejo de errores:
// un fallo del hermano se transporta como *UpstreamError para que el handler
// decida si propaga el detalle o lo degrada a advertencia.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/casaempenos/prestamos-api/internal/application/dto"
	"github.com/casaempenos/prestamos-api/internal/domain"
)

const requestTimeout = 7 * time.Second

// UpstreamError es el fallo de una llamada a un servicio hermano.
// Envuelve domain.ErrUpstream para errors.Is y conserva status y cuerpo.
type UpstreamError struct {
	Servicio string
	Status   int
	Mensaje  string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s respondió %d: %s", e.Servicio, e.Status, e.Mensaje)
}

func (e *UpstreamError) Unwrap() error { return domain.ErrUpstream }

type baseClient struct {
	servicio string
	baseURL  string
	http     *http.Client
}

func newBaseClient(servicio, baseURL string) baseClient {
	return baseClient{
		servicio: servicio,
		baseURL:  baseURL,
		http:     &http.Client{Timeout: requestTimeout},
	}
}

// doJSON ejecuta la petición con el bearer token dado y decodifica la
// respuesta en out (si out no es nil). Los status >= 400 se convierten en
// *UpstreamError con el mensaje del ErrorResponse del hermano.
func (c baseClient) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &UpstreamError{Servicio: c.servicio, Status: 0, Mensaje: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &UpstreamError{Servicio: c.servicio, Status: resp.StatusCode, Mensaje: err.Error()}
	}

	if resp.StatusCode >= 400 {
		var apiErr dto.ErrorResponse
		msg := string(raw)
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return &UpstreamError{Servicio: c.servicio, Status: resp.StatusCode, Mensaje: msg}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode respuesta de %s: %w", c.servicio, err)
		}
	}
	return nil
}
