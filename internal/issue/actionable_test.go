// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "install package"},
			expected: "failed to install package",
		},
		{
			name:     "operation and resource",
			err:      &ActionableError{Operation: "install package", Resource: "core/redis"},
			expected: "failed to install package: core/redis",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "build container image",
				Resource:  "acme/widget:1.2.0-20200101000000",
				Cause:     errors.New("exit status 1"),
			},
			expected: "failed to build container image: acme/widget:1.2.0-20200101000000: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorContext_Builder(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := NewErrorContext().
		WithOperation("install package").
		WithResource("core/openssl").
		WithSuggestion("Check network access to the package depot").
		Wrap(cause).
		BuildError()

	if err == nil {
		t.Fatal("BuildError() returned nil")
	}
	if !errors.Is(err, cause) {
		t.Error("built error does not wrap the cause")
	}

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("built error is not an ActionableError")
	}
	if !ae.HasSuggestions() {
		t.Error("HasSuggestions() = false, want true")
	}

	formatted := ae.Format(false)
	if !strings.Contains(formatted, "• Check network access") {
		t.Errorf("Format() missing suggestion bullet:\n%s", formatted)
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()

	if err := NewErrorContext().WithResource("core/redis").BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}
}

func TestActionableError_FormatVerbose(t *testing.T) {
	t.Parallel()

	inner := errors.New("dial tcp: connection refused")
	ae := WrapWithOperation(inner, "resolve package path")

	formatted := ae.Format(true)
	if !strings.Contains(formatted, "Error chain:") {
		t.Errorf("verbose Format() missing error chain:\n%s", formatted)
	}
}

func TestWrapWithOperation_NilError(t *testing.T) {
	t.Parallel()

	if got := WrapWithOperation(nil, "install package"); got != nil {
		t.Errorf("WrapWithOperation(nil) = %v, want nil", got)
	}
}
