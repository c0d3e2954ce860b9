package geocoding

import (
	"context"
	"errors"
	"testing"

	"pet-alert-network/internal/platform/logger"
	"pet-alert-network/internal/ports/geocoding"
)

type fakeProvider struct {
	name   string
	result geocoding.Result
	err    error
	calls  int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (geocoding.Result, error) {
	p.calls++
	if p.err != nil {
		return geocoding.Result{}, p.err
	}
	return p.result, nil
}

func quietLogger() logger.Logger {
	return logger.New(logger.Options{Level: logger.Error})
}

func TestChain_FirstProviderWins(t *testing.T) {
	primary := &fakeProvider{name: "primary", result: geocoding.Result{FormattedAddress: "Calle Falsa 123", Provider: "primary"}}
	fallback := &fakeProvider{name: "nominatim", result: geocoding.Result{FormattedAddress: "Otra", Provider: "nominatim"}}
	chain := NewChain(quietLogger(), primary, fallback)

	res, err := chain.ReverseGeocode(context.Background(), -31.82, -60.51)
	if err != nil {
		t.Fatalf("ReverseGeocode error: %v", err)
	}
	if res.Provider != "primary" || res.FormattedAddress != "Calle Falsa 123" {
		t.Fatalf("unexpected result: %#v", res)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback should not be consulted")
	}
}

func TestChain_FallsBackOnError(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("timeout")}
	fallback := &fakeProvider{name: "nominatim", result: geocoding.Result{FormattedAddress: "Plaza Sáenz Peña", Provider: "nominatim"}}
	chain := NewChain(quietLogger(), primary, fallback)

	res, err := chain.ReverseGeocode(context.Background(), -31.82, -60.51)
	if err != nil {
		t.Fatalf("ReverseGeocode error: %v", err)
	}
	if res.Provider != "nominatim" {
		t.Fatalf("expected fallback result, got %#v", res)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Fatalf("unexpected call counts: primary=%d fallback=%d", primary.calls, fallback.calls)
	}
}

func TestChain_DegradesToOffline(t *testing.T) {
	failing := &fakeProvider{name: "primary", err: errors.New("down")}
	chain := NewChain(quietLogger(), failing)

	res, err := chain.ReverseGeocode(context.Background(), -31.82, -60.51)
	if err != nil {
		t.Fatalf("ReverseGeocode error: %v", err)
	}
	if res.Provider != ProviderOffline {
		t.Fatalf("expected offline fallback, got %q", res.Provider)
	}
	if res.FormattedAddress != "Lat: -31.82, Lng: -60.51" {
		t.Fatalf("unexpected degraded address: %q", res.FormattedAddress)
	}
}

func TestChain_EmptyChainIsOffline(t *testing.T) {
	chain := NewChain(quietLogger())

	res, err := chain.ReverseGeocode(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("ReverseGeocode error: %v", err)
	}
	if res.Provider != ProviderOffline {
		t.Fatalf("expected offline result, got %q", res.Provider)
	}
}
