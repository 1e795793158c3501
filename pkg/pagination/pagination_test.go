package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	require.Equal(t, DefaultLimit, NormalizeLimit(0))
	require.Equal(t, DefaultLimit, NormalizeLimit(-3))
	require.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+50))
	require.Equal(t, 10, NormalizeLimit(10))
}

func TestPageParams(t *testing.T) {
	p := PageParams{Page: 0, Limit: 0}.Normalize()
	require.Equal(t, 1, p.Page)
	require.Equal(t, DefaultLimit, p.Limit)

	require.Equal(t, 0, PageParams{Page: 1, Limit: 10}.Offset())
	require.Equal(t, 30, PageParams{Page: 4, Limit: 10}.Offset())
}
