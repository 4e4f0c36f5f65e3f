package events

import (
	"fmt"
	"math/big"
	"sort"
)

// Plot is a contiguous range of rookies [Index, Index+Rookies) in the line.
type Plot struct {
	Index   *big.Int
	Rookies *big.Int
}

// End returns the first index after the plot.
func (p Plot) End() *big.Int {
	return new(big.Int).Add(p.Index, p.Rookies)
}

// PlotLine is a set of non-overlapping plots sorted by index. The zero
// value is an empty line.
type PlotLine struct {
	plots []Plot
}

// NewPlotLine builds a line from plots in any order.
func NewPlotLine(plots ...Plot) *PlotLine {
	l := &PlotLine{}
	for _, p := range plots {
		l.Set(p.Index, p.Rookies)
	}
	return l
}

// Len returns the number of plots.
func (l *PlotLine) Len() int {
	return len(l.plots)
}

// Plots returns the plots in index order.
func (l *PlotLine) Plots() []Plot {
	out := make([]Plot, len(l.plots))
	copy(out, l.plots)
	return out
}

// Get returns the rookies of the plot starting at index.
func (l *PlotLine) Get(index *big.Int) (*big.Int, bool) {
	i, ok := l.find(index)
	if !ok {
		return nil, false
	}
	return new(big.Int).Set(l.plots[i].Rookies), true
}

// Set stores a plot at index, replacing any plot starting there. A
// non-positive amount deletes it.
func (l *PlotLine) Set(index, rookies *big.Int) {
	if rookies.Sign() <= 0 {
		l.Delete(index)
		return
	}
	p := Plot{Index: new(big.Int).Set(index), Rookies: new(big.Int).Set(rookies)}
	i, ok := l.find(index)
	if ok {
		l.plots[i] = p
		return
	}
	l.plots = append(l.plots, Plot{})
	copy(l.plots[i+1:], l.plots[i:])
	l.plots[i] = p
}

// Delete removes the plot starting at index, if any.
func (l *PlotLine) Delete(index *big.Int) {
	if i, ok := l.find(index); ok {
		l.plots = append(l.plots[:i], l.plots[i+1:]...)
	}
}

// Total returns the sum of all rookies in the line.
func (l *PlotLine) Total() *big.Int {
	sum := new(big.Int)
	for _, p := range l.plots {
		sum.Add(sum, p.Rookies)
	}
	return sum
}

// Clone returns a deep copy.
func (l *PlotLine) Clone() *PlotLine {
	out := &PlotLine{plots: make([]Plot, len(l.plots))}
	for i, p := range l.plots {
		out.plots[i] = Plot{Index: new(big.Int).Set(p.Index), Rookies: new(big.Int).Set(p.Rookies)}
	}
	return out
}

// find returns the position of index, or where it would be inserted.
func (l *PlotLine) find(index *big.Int) (int, bool) {
	i := sort.Search(len(l.plots), func(i int) bool {
		return l.plots[i].Index.Cmp(index) >= 0
	})
	return i, i < len(l.plots) && l.plots[i].Index.Cmp(index) == 0
}

// containing returns the position of the plot holding index.
func (l *PlotLine) containing(index *big.Int) (int, bool) {
	i := sort.Search(len(l.plots), func(i int) bool {
		return l.plots[i].Index.Cmp(index) > 0
	}) - 1
	if i < 0 || l.plots[i].End().Cmp(index) <= 0 {
		return 0, false
	}
	return i, true
}

// Draft consumes hooligans worth of rookies from the given plots in
// ascending index order. A partially drafted plot keeps its remainder at
// index + drafted.
func (l *PlotLine) Draft(plots []*big.Int, hooligans *big.Int) error {
	sorted := make([]*big.Int, len(plots))
	copy(sorted, plots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Cmp(sorted[j]) < 0 })

	next := l.Clone()
	remaining := new(big.Int).Set(hooligans)
	for _, index := range sorted {
		rookies, ok := next.Get(index)
		if !ok {
			return fmt.Errorf("%w: draft at %s", ErrUnknownPlot, index)
		}
		next.Delete(index)
		if remaining.Cmp(rookies) < 0 {
			next.Set(new(big.Int).Add(index, remaining), new(big.Int).Sub(rookies, remaining))
			remaining.SetUint64(0)
			continue
		}
		remaining.Sub(remaining, rookies)
	}
	l.plots = next.plots
	return nil
}

// Receive adds a plot transferred to the owner of the line.
func (l *PlotLine) Receive(index, rookies *big.Int) {
	l.Set(index, rookies)
}

// Send removes rookies [index, index+rookies) from the line. The range is
// either the head of a plot or lies inside one; whatever is left of that
// plot on either side stays in the line.
func (l *PlotLine) Send(index, rookies *big.Int) error {
	if rookies.Sign() <= 0 {
		return nil
	}
	end := new(big.Int).Add(index, rookies)

	if have, ok := l.Get(index); ok {
		switch have.Cmp(rookies) {
		case -1:
			return fmt.Errorf("%w: send %s from plot %s of %s", ErrPlotRange, rookies, index, have)
		case 1:
			l.Set(end, new(big.Int).Sub(have, rookies))
		}
		l.Delete(index)
		return nil
	}

	i, ok := l.containing(index)
	if !ok {
		return fmt.Errorf("%w: send at %s", ErrUnknownPlot, index)
	}
	plot := l.plots[i]
	plotEnd := plot.End()
	if end.Cmp(plotEnd) > 0 {
		return fmt.Errorf("%w: send %s at %s past plot end %s", ErrPlotRange, rookies, index, plotEnd)
	}
	l.Set(plot.Index, new(big.Int).Sub(index, plot.Index))
	if end.Cmp(plotEnd) < 0 {
		l.Set(end, new(big.Int).Sub(plotEnd, end))
	}
	return nil
}

// FieldSummary splits a line at the draftable index.
type FieldSummary struct {
	Rookies          *big.Int
	DraftableRookies *big.Int
	Plots            *PlotLine
	DraftablePlots   *PlotLine
}

// SplitDraftable separates rookies at or below draftableIndex from those
// still waiting in line. A plot straddling the index is split in two.
func (l *PlotLine) SplitDraftable(draftableIndex *big.Int) FieldSummary {
	s := FieldSummary{
		Rookies:          new(big.Int),
		DraftableRookies: new(big.Int),
		Plots:            &PlotLine{},
		DraftablePlots:   &PlotLine{},
	}
	for _, p := range l.plots {
		switch {
		case p.End().Cmp(draftableIndex) <= 0:
			s.DraftableRookies.Add(s.DraftableRookies, p.Rookies)
			s.DraftablePlots.Set(p.Index, p.Rookies)
		case p.Index.Cmp(draftableIndex) < 0:
			ready := new(big.Int).Sub(draftableIndex, p.Index)
			waiting := new(big.Int).Sub(p.Rookies, ready)
			s.DraftableRookies.Add(s.DraftableRookies, ready)
			s.DraftablePlots.Set(p.Index, ready)
			s.Rookies.Add(s.Rookies, waiting)
			s.Plots.Set(draftableIndex, waiting)
		default:
			s.Rookies.Add(s.Rookies, p.Rookies)
			s.Plots.Set(p.Index, p.Rookies)
		}
	}
	return s
}
