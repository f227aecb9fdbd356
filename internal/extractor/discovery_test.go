package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeywordDiscoverer_Discover(t *testing.T) {
	t.Parallel()

	d := NewKeywordDiscoverer()

	tests := []struct {
		name    string
		keyword string
		want    []string
	}{
		{"bare domain path", "ex.com/article", []string{"https://ex.com/article"}},
		{"full url", "https://ex.com/article", []string{"https://ex.com/article"}},
		{"plain word yields nothing", "kittens", nil},
		{"empty yields nothing", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Discover(context.Background(), tt.keyword)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
