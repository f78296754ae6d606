package idx_test

import (
	"sort"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(" " + id.String() + " ")
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "   ", "not-a-ulid", "01ARZ3NDEKTSV4RRFFQ69G5FA"} {
		_, err := idx.Parse(s)
		require.ErrorIs(t, err, idx.ErrInvalid, s)
	}
	require.Panics(t, func() { idx.MustParse("nope") })
}

func TestOrdering(t *testing.T) {
	ids := make([]string, 0, 100)
	for range 100 {
		ids = append(ids, idx.New().String())
	}
	require.True(t, sort.StringsAreSorted(ids), "ids minted in sequence must sort in sequence")
}

func TestTimeExtraction(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	id := idx.NewAt(at)
	require.True(t, id.Time().Equal(at))
	require.True(t, idx.Zero.Time().IsZero())
}
