package worker

// rates_cron.go
// Background goroutine that periodically refreshes exchange rates from the
// external provider. Uses the Circuit Breaker to avoid hammering a downed
// provider; a refresh that exhausts its retries lands in the DLQ.

import (
	"context"
	"time"

	"almapos/internal/infra"
	"almapos/internal/model"
	"almapos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const ratesRetryAttempts = 3

// RatesCronConfig holds all dependencies for the refresh goroutine.
type RatesCronConfig struct {
	MonedaRepo  repository.MonedaRepository
	TasasClient *infra.TasasClient
	CB          *infra.CircuitBreaker
	RDB         *redis.Client
	Interval    time.Duration
}

// StartRatesCron launches a background goroutine that ticks on the configured
// interval and refreshes the stored exchange rates through the CB. The first
// refresh runs immediately so a fresh deploy doesn't serve stale rates.
// It respects the context for graceful shutdown.
func StartRatesCron(ctx context.Context, cfg RatesCronConfig) {
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("rates_cron: started")
		refreshRates(ctx, cfg)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("rates_cron: shutting down")
				return
			case <-ticker.C:
				refreshRates(ctx, cfg)
			}
		}
	}()
}

func refreshRates(ctx context.Context, cfg RatesCronConfig) {
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("rates_cron: circuit breaker is open, skipping tick")
		return
	}

	base, err := cfg.MonedaRepo.FindPredeterminada(ctx)
	if err != nil {
		log.Error().Err(err).Msg("rates_cron: no default currency configured")
		return
	}

	var tasas map[string]int64
	cbErr := withRetry(ctx, ratesRetryAttempts, func(attempt int) error {
		return cfg.CB.Execute(func() error {
			resp, err := cfg.TasasClient.Obtener(ctx, base.Codigo)
			if err != nil {
				log.Warn().Err(err).Int("attempt", attempt+1).Msg("rates_cron: provider attempt failed, retrying")
				return err
			}
			tasas = resp
			return nil
		})
	})
	if cbErr != nil {
		log.Error().Err(cbErr).Msg("rates_cron: provider failed after all retries")
		SendToDLQ(ctx, cfg.RDB, "jobs:tasas", "tasas_refresh",
			[]byte(`{"base":"`+base.Codigo+`"}`), cbErr.Error(), ratesRetryAttempts)
		return
	}

	monedas, err := cfg.MonedaRepo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("rates_cron: failed to list currencies")
		return
	}

	updated := 0
	for _, m := range monedas {
		if m.EsPredeterminada {
			// The base currency keeps its identity rate.
			if m.TasaCambio != model.TasaEscala {
				if err := cfg.MonedaRepo.UpdateTasa(ctx, m.Codigo, model.TasaEscala); err == nil {
					updated++
				}
			}
			continue
		}
		tasa, ok := tasas[m.Codigo]
		if !ok || tasa <= 0 {
			log.Warn().Str("codigo", m.Codigo).Msg("rates_cron: provider did not return a rate")
			continue
		}
		if tasa == m.TasaCambio {
			continue
		}
		if err := cfg.MonedaRepo.UpdateTasa(ctx, m.Codigo, tasa); err != nil {
			log.Error().Err(err).Str("codigo", m.Codigo).Msg("rates_cron: failed to store rate")
			continue
		}
		updated++
	}
	log.Info().Int("updated", updated).Msg("rates_cron: refresh complete")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
