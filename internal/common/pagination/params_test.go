package pagination_test

import (
	"errors"
	"testing"

	"csflix/internal/common/pagination"
)

func TestParsePageNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "zero", input: "0", want: 0},
		{name: "positive", input: "12", want: 12},
		{name: "last page sentinel", input: "-1", want: -1},
		{name: "surrounding spaces", input: " 3 ", want: 3},
		{name: "empty", input: "", wantErr: true},
		{name: "word", input: "abc", wantErr: true},
		{name: "float", input: "1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pagination.ParsePageNumber(tt.input)
			if tt.wantErr {
				if !errors.Is(err, pagination.ErrPageOutOfRange) {
					t.Fatalf("ParsePageNumber(%q) err = %v, want ErrPageOutOfRange", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePageNumber(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePageNumber(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestRequest_Filtered(t *testing.T) {
	t.Parallel()

	req := pagination.Request{Page: 2, Search: "alien", Tag: "Sci-Fi"}

	if !req.Filtered() {
		t.Error("Filtered() = false, want true")
	}
	plain := req.Unfiltered()
	if plain.Filtered() {
		t.Error("Unfiltered().Filtered() = true, want false")
	}
	if plain.Page != 2 {
		t.Errorf("Unfiltered().Page = %d, want 2", plain.Page)
	}
}
