package utils

import (
	"context"
	"log/slog"

	"github.com/brandnamegen/brandcheck/internal/models"
)

// DomainStatusToSlog logs a registry answer at debug level.
func DomainStatusToSlog(status *models.DomainStatus) {
	if status == nil || !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{
		"domain", status.Domain,
		"source", string(status.Source),
		"authoritative", status.Authoritative,
	}

	attrs = addIf(attrs, "available", status.Available)
	attrs = addIf(attrs, "rdapStatus", status.StatusCode)
	if status.Note != "" {
		attrs = append(attrs, "note", status.Note)
	}

	slog.Debug("Domain status", attrs...)
}

// MatchStatsToSlog logs the band counts of one term source at debug level.
func MatchStatsToSlog(component models.ComponentName, locale string, stats models.MatchStats) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{
		"component", string(component),
		"locale", locale,
		"max", stats.MaxScore,
		"n95", stats.N95,
		"n90", stats.N90,
		"n80", stats.N80,
	}

	attrs = addIf(attrs, "topHitPos", stats.TopHitPos)

	slog.Debug("Match stats", attrs...)
}

func addIf[T any](attrs []any, name string, v *T) []any {
	if v != nil {
		attrs = append(attrs, name)
		attrs = append(attrs, *v)
	}

	return attrs
}
