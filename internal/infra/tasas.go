package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"almapos/internal/model"

	"github.com/shopspring/decimal"
)

// TasasResponse is the provider's payload: rates are units of each currency
// per one unit of the base currency.
type TasasResponse struct {
	Base  string             `json:"base"`
	Fecha string             `json:"date"`
	Tasas map[string]float64 `json:"rates"`
}

// TasasClient fetches exchange rates from an external provider. All calls
// go through the circuit breaker owned by the rates cron so a downed
// provider never stalls the rest of the backend.
type TasasClient struct {
	providerURL string
	httpClient  *http.Client
}

func NewTasasClient(providerURL string) *TasasClient {
	return &TasasClient{
		providerURL: providerURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Obtener fetches the current rates for the given base currency and returns
// them scaled to model.TasaEscala fixed-point (10000 = parity), rounded once.
func (c *TasasClient) Obtener(ctx context.Context, base string) (map[string]int64, error) {
	url := fmt.Sprintf("%s/latest?base=%s", c.providerURL, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("tasas: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tasas: provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tasas: provider returned %d", resp.StatusCode)
	}

	var payload TasasResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("tasas: decode response: %w", err)
	}

	escaladas := make(map[string]int64, len(payload.Tasas))
	for codigo, tasa := range payload.Tasas {
		escaladas[codigo] = decimal.NewFromFloat(tasa).
			Mul(decimal.NewFromInt(model.TasaEscala)).
			Round(0).
			IntPart()
	}
	return escaladas, nil
}
