package pagination_test

import (
	"errors"
	"testing"

	"csflix/internal/common/pagination"
)

func TestCalculateOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		page int
		size int
		want int
	}{
		{name: "first page", page: 0, size: 10, want: 0},
		{name: "second page", page: 1, size: 10, want: 10},
		{name: "third page", page: 2, size: 10, want: 20},
		{name: "page 9 with size 50", page: 9, size: 50, want: 450},
		{name: "size 1", page: 7, size: 1, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pagination.CalculateOffset(tt.page, tt.size)
			if got != tt.want {
				t.Errorf("CalculateOffset(%d, %d) = %d, want %d", tt.page, tt.size, got, tt.want)
			}
		})
	}
}

func TestCalculateTotalPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		total int64
		size  int
		want  int
	}{
		{name: "zero total", total: 0, size: 10, want: 0},
		{name: "total less than size", total: 3, size: 10, want: 1},
		{name: "total equals size", total: 10, size: 10, want: 1},
		{name: "total one more than size", total: 11, size: 10, want: 2},
		{name: "total 159 with size 20", total: 159, size: 20, want: 8},
		{name: "total 161 with size 20", total: 161, size: 20, want: 9},
		{name: "zero size", total: 10, size: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pagination.CalculateTotalPages(tt.total, tt.size)
			if got != tt.want {
				t.Errorf("CalculateTotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
			}
		})
	}
}

func TestResolvePage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page       int
		totalPages int
		want       int
		wantErr    bool
	}{
		{name: "first page", page: 0, totalPages: 3, want: 0},
		{name: "middle page", page: 1, totalPages: 3, want: 1},
		{name: "final page", page: 2, totalPages: 3, want: 2},
		{name: "last page sentinel", page: pagination.LastPage, totalPages: 3, want: 2},
		{name: "any negative page", page: -42, totalPages: 3, want: 2},
		{name: "one past the end", page: 3, totalPages: 3, wantErr: true},
		{name: "far past the end", page: 100000, totalPages: 3, wantErr: true},
		{name: "no pages", page: 0, totalPages: 0, wantErr: true},
		{name: "no pages with sentinel", page: -1, totalPages: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pagination.ResolvePage(tt.page, tt.totalPages)
			if tt.wantErr {
				if !errors.Is(err, pagination.ErrPageOutOfRange) {
					t.Fatalf("ResolvePage(%d, %d) err = %v, want ErrPageOutOfRange", tt.page, tt.totalPages, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolvePage(%d, %d) unexpected error: %v", tt.page, tt.totalPages, err)
			}
			if got != tt.want {
				t.Errorf("ResolvePage(%d, %d) = %d, want %d", tt.page, tt.totalPages, got, tt.want)
			}
		})
	}
}

func TestNewNavigation(t *testing.T) {
	t.Parallel()

	nav := pagination.NewNavigation(4)

	if nav.First != 0 || nav.Prev != 3 || nav.Next != 5 || nav.Last != pagination.LastPage {
		t.Errorf("NewNavigation(4) = %+v, want {0 3 5 -1}", nav)
	}
}
