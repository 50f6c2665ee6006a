package reprint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Payload mirrors the wire contract of the store print API. The field names
// are the API's, not ours.
type Payload struct {
	NumeroImpresiones int             `json:"numeroImpresiones"`
	Tipo              string          `json:"tipo"`
	IDImpresora       string          `json:"idImpresora"`
	IDPlantilla       string          `json:"idPlantilla"`
	Data              json.RawMessage `json:"data"`
	Registros         json.RawMessage `json:"registros"`
}

// PrintAPI delivers a print job to the store print service. Only HTTP 200
// counts as success; everything else is reported as an error and treated as
// a soft failure by the orchestrator.
type PrintAPI interface {
	Print(ctx context.Context, body json.RawMessage) (printer string, err error)
}

type httpPrintAPI struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

func NewHTTPPrintAPI(url string, timeout time.Duration, logger *slog.Logger) PrintAPI {
	return &httpPrintAPI{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (p *httpPrintAPI) Print(ctx context.Context, body json.RawMessage) (string, error) {
	printer := "unknown"
	var payload Payload
	if err := json.Unmarshal(body, &payload); err == nil && payload.IDImpresora != "" {
		printer = payload.IDImpresora
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building print request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("print API unreachable", "url", p.url, "err", err)
		return "", fmt.Errorf("print API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Error("print API rejected job", "url", p.url, "status", resp.StatusCode)
		return "", fmt.Errorf("print API returned status %d", resp.StatusCode)
	}

	p.logger.Info("print job accepted", "printer", printer)
	return printer, nil
}
