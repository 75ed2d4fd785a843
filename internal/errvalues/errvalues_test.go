package errvalues

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"direct", New(KindForbidden, "nope"), KindForbidden},
		{"wrapped by fmt", fmt.Errorf("download: %w", New(KindAssetNotFound, "no such asset...")), KindAssetNotFound},
		{"plain error", errors.New("boom"), KindUpstreamFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Fatalf("expected kind %q, got %q", tc.want, got)
			}
		})
	}
}

func TestErrorIsMatchesByKind(t *testing.T) {
	err := Wrap(KindStorageInconsistency, "blob missing", errors.New("NoSuchKey"))

	if !errors.Is(err, ErrStorageInconsistency) {
		t.Fatal("expected errors.Is to match the storage inconsistency sentinel")
	}
	if errors.Is(err, ErrAssetNotFound) {
		t.Fatal("storage inconsistency must never match asset not found")
	}
	if MessageOf(err) != "blob missing" {
		t.Fatalf("unexpected message %q", MessageOf(err))
	}
	if MessageOf(errors.New("raw")) != "internal error" {
		t.Fatal("expected generic message for non-kind errors")
	}
}
