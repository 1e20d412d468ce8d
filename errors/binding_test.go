package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestBindingErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		b    *Binding
		want string
	}{
		{
			name: "message only",
			b:    &Binding{Code: "bind-root-not-found", Message: "no Person element"},
			want: "[bind-root-not-found] no Person element",
		},
		{
			name: "with type",
			b:    &Binding{Code: "bind-no-metadata", Type: "Person", Message: "type is not registered"},
			want: "[bind-no-metadata] Person: type is not registered",
		},
		{
			name: "nil receiver",
			b:    nil,
			want: "binding <nil>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewBindingf(t *testing.T) {
	b := NewBindingf(ErrRootNotFound, "Person", "no root element %q in document", "Person")
	want := `[bind-root-not-found] Person: no root element "Person" in document`
	if got := b.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestAsBinding(t *testing.T) {
	base := NewBinding(ErrNoMetadata, "Order", "type is not registered")
	wrapped := fmt.Errorf("unmarshal: %w", base)

	got, ok := AsBinding(wrapped)
	if !ok {
		t.Fatal("AsBinding() = false, want true")
	}
	if got.Code != string(ErrNoMetadata) {
		t.Fatalf("Code = %q, want %q", got.Code, ErrNoMetadata)
	}

	if _, ok := AsBinding(errors.New("plain")); ok {
		t.Fatal("AsBinding(plain) = true, want false")
	}
	if _, ok := AsBinding(nil); ok {
		t.Fatal("AsBinding(nil) = true, want false")
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewBinding(ErrRootNotFound, "Person", "missing"))
	if !IsCode(err, ErrRootNotFound) {
		t.Fatal("IsCode(ErrRootNotFound) = false, want true")
	}
	if IsCode(err, ErrNoMetadata) {
		t.Fatal("IsCode(ErrNoMetadata) = true, want false")
	}
}
