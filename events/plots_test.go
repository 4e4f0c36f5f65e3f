package events

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plot(index, rookies int64) Plot {
	return Plot{Index: big.NewInt(index), Rookies: big.NewInt(rookies)}
}

func TestPlotLineSet(t *testing.T) {
	l := NewPlotLine(plot(30, 5), plot(10, 5), plot(20, 5))
	assert.Equal(t, []Plot{plot(10, 5), plot(20, 5), plot(30, 5)}, l.Plots())
	assert.Equal(t, big.NewInt(15), l.Total())

	l.Set(big.NewInt(20), big.NewInt(8))
	got, ok := l.Get(big.NewInt(20))
	require.True(t, ok)
	assert.Equal(t, big.NewInt(8), got)

	l.Set(big.NewInt(20), new(big.Int))
	_, ok = l.Get(big.NewInt(20))
	assert.False(t, ok)
	assert.Equal(t, 2, l.Len())
}

func TestPlotLineSend(t *testing.T) {
	tests := []struct {
		name    string
		index   int64
		rookies int64
		want    []Plot
		err     error
	}{
		{"whole plot", 10, 10, nil, nil},
		{"head of plot", 10, 4, []Plot{plot(14, 6)}, nil},
		{"tail of plot", 15, 5, []Plot{plot(10, 5)}, nil},
		{"middle of plot", 15, 3, []Plot{plot(10, 5), plot(18, 2)}, nil},
		{"last rookie", 19, 1, []Plot{plot(10, 9)}, nil},
		{"past plot end", 15, 6, []Plot{plot(10, 10)}, ErrPlotRange},
		{"more than head plot", 10, 11, []Plot{plot(10, 10)}, ErrPlotRange},
		{"outside any plot", 20, 1, []Plot{plot(10, 10)}, ErrUnknownPlot},
		{"before any plot", 5, 1, []Plot{plot(10, 10)}, ErrUnknownPlot},
		{"nothing sent", 12, 0, []Plot{plot(10, 10)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewPlotLine(plot(10, 10))
			err := l.Send(big.NewInt(tt.index), big.NewInt(tt.rookies))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, len(tt.want), l.Len())
			for i, p := range tt.want {
				assert.Equal(t, 0, p.Index.Cmp(l.Plots()[i].Index), "index %d", i)
				assert.Equal(t, 0, p.Rookies.Cmp(l.Plots()[i].Rookies), "rookies %d", i)
			}
		})
	}
}

func TestPlotLineDraft(t *testing.T) {
	t.Run("ascending with partial remainder", func(t *testing.T) {
		l := NewPlotLine(plot(0, 10), plot(10, 10))
		require.NoError(t, l.Draft([]*big.Int{big.NewInt(10), big.NewInt(0)}, big.NewInt(14)))
		assert.Equal(t, []Plot{plot(14, 6)}, l.Plots())
	})

	t.Run("unknown plot leaves the line unchanged", func(t *testing.T) {
		l := NewPlotLine(plot(0, 10))
		err := l.Draft([]*big.Int{big.NewInt(0), big.NewInt(50)}, big.NewInt(20))
		assert.ErrorIs(t, err, ErrUnknownPlot)
		assert.Equal(t, []Plot{plot(0, 10)}, l.Plots())
	})
}

func TestSplitDraftable(t *testing.T) {
	l := NewPlotLine(plot(0, 10), plot(20, 10), plot(40, 5))
	s := l.SplitDraftable(big.NewInt(25))

	assert.Equal(t, big.NewInt(15), s.DraftableRookies)
	assert.Equal(t, big.NewInt(10), s.Rookies)
	assert.Equal(t, []Plot{plot(0, 10), plot(20, 5)}, s.DraftablePlots.Plots())
	assert.Equal(t, []Plot{plot(25, 5), plot(40, 5)}, s.Plots.Plots())

	empty := (&PlotLine{}).SplitDraftable(big.NewInt(100))
	assert.Equal(t, 0, empty.Rookies.Sign())
	assert.Equal(t, 0, empty.Plots.Len())
}
