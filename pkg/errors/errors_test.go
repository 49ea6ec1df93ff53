package errors

import (
	"errors"
	"testing"
)

func TestError(t *testing.T) {
	cause := errors.New("missing glyph")
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"new", New(ErrCodeInvalidInput, "bad step: %s", "pad"), "INVALID_INPUT: bad step: pad"},
		{"wrap", Wrap(ErrCodeRender, cause, "measure node %d", 3), "RENDER: measure node 3: missing glyph"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	w := Wrap(ErrCodeRender, cause, "measure")
	if errors.Unwrap(w) != cause || !errors.Is(w, cause) {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(w), cause)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching", New(ErrCodeEmptyTree, "no root"), ErrCodeEmptyTree, true},
		{"other code", New(ErrCodeEmptyTree, "no root"), ErrCodeRender, false},
		{"outermost wins", Wrap(ErrCodeRender, New(ErrCodeFont, "inner"), "outer"), ErrCodeRender, true},
		{"inner hidden", Wrap(ErrCodeRender, New(ErrCodeFont, "inner"), "outer"), ErrCodeFont, false},
		{"plain", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeFont, "x")); got != ErrCodeFont {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeFont)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"structured", New(ErrCodeEmptyTree, "tree must have a root"), "tree must have a root"},
		{"wrapped", Wrap(ErrCodeFont, errors.New("bad table"), "parse font"), "parse font: bad table"},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsStructural(t *testing.T) {
	if !IsStructural(Structural("leftover %d", 2)) {
		t.Error("IsStructural(Structural(...)) = false, want true")
	}
	if IsStructural(New(ErrCodeRender, "x")) {
		t.Error("IsStructural(render error) = true, want false")
	}
	if IsStructural("a string") {
		t.Error("IsStructural(string) = true, want false")
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput, ErrCodeEmptyTree, ErrCodeInvalidSource, ErrCodeInvalidFormat,
		ErrCodeInvalidConfig, ErrCodeInvalidPath, ErrCodeNotFound, ErrCodeFileNotFound,
		ErrCodeFontNotFound, ErrCodeRender, ErrCodeFont, ErrCodeStructure, ErrCodeInternal,
		ErrCodeUnsupported,
	}
	seen := make(map[Code]bool, len(codes))
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate error code %q", c)
		}
		seen[c] = true
	}
}
