package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/photoapp/photoapp/internal/errvalues"
)

func TestHealthEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	resp := performRequest(t, env.app, http.MethodGet, "/health", nil, nil)
	body := decodeJSONMap(t, resp)

	assertStatus(t, resp, http.StatusOK)
	if body["status"] != "ok" {
		t.Fatalf("expected health status %q, got %v", "ok", body["status"])
	}
}

func TestVersionEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	resp := performRequest(t, env.app, http.MethodGet, "/api/version", nil, nil)
	body := decodeJSONMap(t, resp)

	assertStatus(t, resp, http.StatusOK)
	assertMessage(t, body, "success")
	if body["version"] != Version || body["api_version"] != "v1" {
		t.Fatalf("unexpected version body %v", body)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind errvalues.Kind
		want int
	}{
		{errvalues.KindBadRequest, fiber.StatusBadRequest},
		{errvalues.KindUnsupportedFormat, fiber.StatusBadRequest},
		{errvalues.KindUnauthorized, fiber.StatusUnauthorized},
		{errvalues.KindForbidden, fiber.StatusNotFound},
		{errvalues.KindAssetNotFound, fiber.StatusNotFound},
		{errvalues.KindUserNotFound, fiber.StatusNotFound},
		{errvalues.KindConflict, fiber.StatusConflict},
		{errvalues.KindStorageInconsistency, fiber.StatusInternalServerError},
		{errvalues.KindUpstreamFailure, fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := statusFor(tt.kind); got != tt.want {
				t.Fatalf("statusFor(%s) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

func TestWireMessage(t *testing.T) {
	forbidden := errvalues.New(errvalues.KindForbidden, "access denied")
	if got := wireMessage(errvalues.KindForbidden, forbidden); got != "no such asset..." {
		t.Fatalf("expected forbidden to look like a missing asset, got %q", got)
	}

	plain := errors.New("dial tcp: connection refused")
	if got := wireMessage(errvalues.KindOf(plain), plain); got != "internal error" {
		t.Fatalf("expected generic message for untyped error, got %q", got)
	}

	bad := errvalues.New(errvalues.KindBadRequest, "assetname is required")
	if got := wireMessage(errvalues.KindBadRequest, bad); got != "assetname is required" {
		t.Fatalf("expected message passthrough, got %q", got)
	}
}
