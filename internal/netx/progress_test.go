package netx

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 10))
	assert.Equal(t, 50, Percent(5, 10))
	assert.Equal(t, 100, Percent(10, 10))
	assert.Equal(t, 100, Percent(20, 10))
	assert.Equal(t, 100, Percent(0, 0))
}

func TestProgressReader_MonotonicReports(t *testing.T) {
	var got []int
	pr := NewProgressReader(strings.NewReader(strings.Repeat("x", 1000)), 1000, func(p int) { got = append(got, p) })

	buf := make([]byte, 3)
	for {
		_, err := pr.Read(buf)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	require.NotEmpty(t, got)
	assert.Equal(t, 100, got[len(got)-1])
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1], "reports must strictly increase")
	}
}

func TestProgressReader_AdvanceWithoutReader(t *testing.T) {
	var got []int
	pr := NewProgressReader(nil, 4, func(p int) { got = append(got, p) })

	pr.Advance(1)
	pr.Advance(1)
	pr.Advance(2)

	assert.Equal(t, []int{25, 50, 100}, got)
}

func TestProgressReader_Sink(t *testing.T) {
	var got []int
	pr := NewProgressReader(nil, 10, func(p int) { got = append(got, p) })

	n, err := io.CopyN(io.Discard, pr, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	_, err = io.CopyN(io.Discard, pr, 5)
	require.NoError(t, err)

	require.NotEmpty(t, got)
	assert.Equal(t, 100, got[len(got)-1])
}
