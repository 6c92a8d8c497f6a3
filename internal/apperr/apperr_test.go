package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFrom(t *testing.T) {
	coded := New(http.StatusUnprocessableEntity, CodePreflightFailed, "Preflight failed")

	t.Run("passes coded errors through", func(t *testing.T) {
		if got := From(coded); got != coded {
			t.Errorf("From = %+v, want the original error", got)
		}
	})

	t.Run("unwraps wrapped coded errors", func(t *testing.T) {
		wrapped := fmt.Errorf("export: %w", coded)
		if got := From(wrapped); got != coded {
			t.Errorf("From = %+v, want the wrapped coded error", got)
		}
	})

	t.Run("maps plain errors to internal", func(t *testing.T) {
		got := From(errors.New("boom"))
		if got.Status != http.StatusInternalServerError || got.Code != CodeInternal {
			t.Errorf("From = (%d, %s), want (500, INTERNAL_ERROR)", got.Status, got.Code)
		}
		if got.Message == "boom" {
			t.Error("internal error message leaks the cause")
		}
	})
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NotFound("DesignJob"))
	if !IsCode(err, CodeNotFound) {
		t.Error("IsCode missed a wrapped NOT_FOUND")
	}
	if IsCode(err, CodePreflightFailed) {
		t.Error("IsCode matched the wrong code")
	}
	if IsCode(errors.New("plain"), CodeNotFound) {
		t.Error("IsCode matched a non-coded error")
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("ProductProfile")
	if err.Message != "ProductProfile not found" || err.Status != http.StatusNotFound {
		t.Errorf("NotFound = %+v", err)
	}
}
