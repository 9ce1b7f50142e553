package pagination_test

import (
	"testing"

	"colisso/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults applied", 0, 0, 1, pagination.DefaultLimit, 0},
		{"negative values", -3, -10, 1, pagination.DefaultLimit, 0},
		{"limit capped", 1, 500, 1, pagination.MaxLimit, 0},
		{"offset computed", 3, 25, 3, 25, 50},
		{"valid passthrough", 2, 10, 2, 10, 10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := pagination.New(tt.page, tt.limit)

			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestGetMeta(t *testing.T) {
	t.Parallel()

	meta := pagination.GetMeta(pagination.New(2, 10), 35)

	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, int64(35), meta.Total)
	assert.Equal(t, 4, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestGetMetaEdges(t *testing.T) {
	t.Parallel()

	first := pagination.GetMeta(pagination.New(1, 10), 30)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrev)

	last := pagination.GetMeta(pagination.New(3, 10), 30)
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrev)

	empty := pagination.GetMeta(pagination.New(1, 10), 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestNewResponse(t *testing.T) {
	t.Parallel()

	data := []string{"a", "b"}
	resp := pagination.NewResponse(data, pagination.New(1, 20), 2)

	assert.Equal(t, data, resp.Data)
	assert.Equal(t, 1, resp.Meta.TotalPages)
}
