package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderByClauses(t *testing.T) {
	tests := []struct {
		name string
		sort []string
		want []string
	}{
		{
			name: "ascending by default",
			sort: []string{"due_date"},
			want: []string{"due_date ASC"},
		},
		{
			name: "dash prefix flips direction",
			sort: []string{"-priority", "title"},
			want: []string{"priority DESC", "title ASC"},
		},
		{
			name: "unknown column dropped",
			sort: []string{"secret_column"},
			want: nil,
		},
		{
			name: "sql fragment dropped",
			sort: []string{"(SELECT pg_sleep(10))", "-created_at; DROP TABLE tasks"},
			want: nil,
		},
		{
			name: "valid fields survive next to junk",
			sort: []string{"status", "1=1--", "-start_date"},
			want: []string{"status ASC", "start_date DESC"},
		},
		{
			name: "empty input",
			sort: nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderByClauses(tt.sort))
		})
	}
}
