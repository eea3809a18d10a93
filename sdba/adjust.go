package sdba

import (
	"fmt"

	"github.com/GlobalManagement/xclim/cal"
	"github.com/GlobalManagement/xclim/series"
	"github.com/GlobalManagement/xclim/units"
)

// Kind selects how adjustment factors combine with the data.
type Kind byte

const (
	Additive       Kind = '+'
	Multiplicative Kind = '*'
)

func (k Kind) factor(ref, hist float64) float64 {
	if k == Multiplicative {
		return ref / hist
	}
	return ref - hist
}

func (k Kind) apply(v, af float64) float64 {
	if k == Multiplicative {
		return v * af
	}
	return v + af
}

func (k Kind) invert(v, af float64) float64 {
	if k == Multiplicative {
		return v / af
	}
	return v - af
}

// checkTrainInputs validates the shared preconditions of every Train method
// and returns hist converted into ref's units.
func checkTrainInputs(kind Kind, ref, hist *series.DataArray) (*series.DataArray, error) {
	if err := ref.SameShape(hist); err != nil {
		return nil, err
	}
	if err := units.CheckCompatible(ref.Units, hist.Units); err != nil {
		return nil, err
	}
	h := hist.Copy()
	for i := range h.Data {
		if err := units.ConvertSlice(h.Data[i], hist.Units, ref.Units); err != nil {
			return nil, err
		}
	}
	if kind == Multiplicative {
		for _, da := range []*series.DataArray{ref, h} {
			for i := range da.Data {
				for _, v := range da.Data[i] {
					if v <= 0 {
						return nil, fmt.Errorf("sdba: multiplicative training requires strictly positive data (%s); jitter values under threshold first", da.Name)
					}
				}
			}
		}
	}
	return h, nil
}

// simInRefUnits converts sim into the trained reference units.
func simInRefUnits(sim *series.DataArray, refUnits string) (*series.DataArray, error) {
	if err := units.CheckCompatible(sim.Units, refUnits); err != nil {
		return nil, err
	}
	s := sim.Copy()
	for i := range s.Data {
		if err := units.ConvertSlice(s.Data[i], sim.Units, refUnits); err != nil {
			return nil, err
		}
	}
	s.Units = refUnits
	return s, nil
}

// EmpiricalQuantileMapping adjusts sim so that, within each group, the
// simulated quantiles of the training period match the reference quantiles:
// af(q) = ref_q (-|/) hist_q, looked up by the simulated value's position on
// the historical quantile curve.
type EmpiricalQuantileMapping struct {
	Kind       Kind
	NQuantiles int
	Group      Grouper

	RefUnits string
	Qs       []float64     // quantile nodes
	HistQ    [][][]float64 // [loc][group][node] historical quantiles
	AF       [][][]float64 // [loc][group][node] adjustment factors
}

// NewEQM builds an untrained estimator.
func NewEQM(nq int, kind Kind, g Grouper) *EmpiricalQuantileMapping {
	return &EmpiricalQuantileMapping{Kind: kind, NQuantiles: nq, Group: g}
}

// Train learns the per-group quantile curves from ref and hist.
func (m *EmpiricalQuantileMapping) Train(ref, hist *series.DataArray) error {
	h, err := checkTrainInputs(m.Kind, ref, hist)
	if err != nil {
		return err
	}
	m.RefUnits = ref.Units
	m.Qs = Nodes(m.NQuantiles)
	nloc := ref.Nloc()
	m.HistQ = make([][][]float64, nloc)
	m.AF = make([][][]float64, nloc)
	idx := m.Group.Indices(ref.Axis)
	series.Pmap(nloc, 0, func(i int) {
		hq := make([][]float64, len(idx))
		af := make([][]float64, len(idx))
		for g, ix := range idx {
			rp, hp := gather(ref.Data[i], ix), gather(h.Data[i], ix)
			rq := Empirical(rp, m.Qs)
			hq[g] = Empirical(hp, m.Qs)
			af[g] = make([]float64, len(m.Qs))
			for q := range m.Qs {
				af[g][q] = m.Kind.factor(rq[q], hq[g][q])
			}
		}
		m.HistQ[i] = hq
		m.AF[i] = af
	})
	return nil
}

// Adjust maps sim through the trained quantile curves. Factors beyond the
// training range extrapolate as constants.
func (m *EmpiricalQuantileMapping) Adjust(sim *series.DataArray) (*series.DataArray, error) {
	if m.AF == nil {
		return nil, fmt.Errorf("sdba: EQM not trained")
	}
	s, err := simInRefUnits(sim, m.RefUnits)
	if err != nil {
		return nil, err
	}
	if sim.Nloc() != len(m.AF) {
		return nil, fmt.Errorf("sdba: trained on %d locations, sim has %d", len(m.AF), sim.Nloc())
	}
	if err := checkAdjustGroups(m.Group, sim.Axis, len(m.AF[0])); err != nil {
		return nil, err
	}
	lab := m.Group.Labels(sim.Axis)
	out := series.New(sim.Name, m.RefUnits, sim.Axis, sim.Nloc())
	series.Pmap(sim.Nloc(), 0, func(i int) {
		for j, v := range s.Data[i] {
			g := lab[j]
			af := Interp(m.HistQ[i][g], m.AF[i][g], v)
			out.Data[i][j] = m.Kind.apply(v, af)
		}
	})
	return out, nil
}

// QuantileDeltaMapping is the rank-preserving variant: the simulated value's
// empirical rank within its own group selects the adjustment factor, so
// simulated trends in the quantiles survive adjustment.
type QuantileDeltaMapping struct {
	Kind       Kind
	NQuantiles int
	Group      Grouper

	RefUnits string
	Qs       []float64
	AF       [][][]float64 // [loc][group][node]
}

// NewQDM builds an untrained estimator.
func NewQDM(nq int, kind Kind, g Grouper) *QuantileDeltaMapping {
	return &QuantileDeltaMapping{Kind: kind, NQuantiles: nq, Group: g}
}

// Train learns per-group adjustment factors indexed by quantile.
func (m *QuantileDeltaMapping) Train(ref, hist *series.DataArray) error {
	h, err := checkTrainInputs(m.Kind, ref, hist)
	if err != nil {
		return err
	}
	m.RefUnits = ref.Units
	m.Qs = Nodes(m.NQuantiles)
	nloc := ref.Nloc()
	m.AF = make([][][]float64, nloc)
	idx := m.Group.Indices(ref.Axis)
	series.Pmap(nloc, 0, func(i int) {
		af := make([][]float64, len(idx))
		for g, ix := range idx {
			rq := Empirical(gather(ref.Data[i], ix), m.Qs)
			hq := Empirical(gather(h.Data[i], ix), m.Qs)
			af[g] = make([]float64, len(m.Qs))
			for q := range m.Qs {
				af[g][q] = m.Kind.factor(rq[q], hq[q])
			}
		}
		m.AF[i] = af
	})
	return nil
}

// Adjust ranks every simulated value within its group over the sim period,
// then applies the factor at that rank. The returned ranks (in (0,1)) are a
// diagnostic of where the simulation sat in its own distribution.
func (m *QuantileDeltaMapping) Adjust(sim *series.DataArray) (scen, ranks *series.DataArray, err error) {
	if m.AF == nil {
		return nil, nil, fmt.Errorf("sdba: QDM not trained")
	}
	s, err := simInRefUnits(sim, m.RefUnits)
	if err != nil {
		return nil, nil, err
	}
	if sim.Nloc() != len(m.AF) {
		return nil, nil, fmt.Errorf("sdba: trained on %d locations, sim has %d", len(m.AF), sim.Nloc())
	}
	if err := checkAdjustGroups(m.Group, sim.Axis, len(m.AF[0])); err != nil {
		return nil, nil, err
	}
	idx := m.Group.Indices(sim.Axis)
	lab := m.Group.Labels(sim.Axis)
	scen = series.New(sim.Name, m.RefUnits, sim.Axis, sim.Nloc())
	ranks = series.New("sim_q", "1", sim.Axis, sim.Nloc())
	series.Pmap(sim.Nloc(), 0, func(i int) {
		// rank within group pools
		rk := make([]float64, sim.NT())
		for g, ix := range idx {
			pr := Rank(gather(s.Data[i], ix))
			for k, j := range ix {
				if lab[j] == g { // window neighbours rank in their own group
					rk[j] = pr[k]
				}
			}
		}
		for j, v := range s.Data[i] {
			g := lab[j]
			af := Interp(m.Qs, m.AF[i][g], rk[j])
			scen.Data[i][j] = m.Kind.apply(v, af)
			ranks.Data[i][j] = rk[j]
		}
	})
	return scen, ranks, nil
}

// Scaling corrects with a single per-group factor between the reference and
// historical means.
type Scaling struct {
	Kind  Kind
	Group Grouper

	RefUnits string
	AF       [][]float64 // [loc][group]
}

// NewScaling builds an untrained estimator.
func NewScaling(kind Kind, g Grouper) *Scaling {
	return &Scaling{Kind: kind, Group: g}
}

// Train learns the per-group mean factors.
func (m *Scaling) Train(ref, hist *series.DataArray) error {
	h, err := checkTrainInputs(m.Kind, ref, hist)
	if err != nil {
		return err
	}
	m.RefUnits = ref.Units
	nloc := ref.Nloc()
	m.AF = make([][]float64, nloc)
	idx := m.Group.Indices(ref.Axis)
	series.Pmap(nloc, 0, func(i int) {
		af := make([]float64, len(idx))
		for g, ix := range idx {
			af[g] = m.Kind.factor(series.NanMean(gather(ref.Data[i], ix)), series.NanMean(gather(h.Data[i], ix)))
		}
		m.AF[i] = af
	})
	return nil
}

// Adjust applies the broadcast factors to sim.
func (m *Scaling) Adjust(sim *series.DataArray) (*series.DataArray, error) {
	if m.AF == nil {
		return nil, fmt.Errorf("sdba: Scaling not trained")
	}
	s, err := simInRefUnits(sim, m.RefUnits)
	if err != nil {
		return nil, err
	}
	if sim.Nloc() != len(m.AF) {
		return nil, fmt.Errorf("sdba: trained on %d locations, sim has %d", len(m.AF), sim.Nloc())
	}
	if err := checkAdjustGroups(m.Group, sim.Axis, len(m.AF[0])); err != nil {
		return nil, err
	}
	out := series.New(sim.Name, m.RefUnits, sim.Axis, sim.Nloc())
	series.Pmap(sim.Nloc(), 0, func(i int) {
		af := m.Group.Broadcast(sim.Axis, m.AF[i])
		for j, v := range s.Data[i] {
			out.Data[i][j] = m.Kind.apply(v, af[j])
		}
	})
	return out, nil
}

// DetrendedQuantileMapping scales sim to the reference mean, removes its
// long-term trend, quantile-maps the residual distribution and restores the
// trend, so that the simulated climate-change signal is not mistaken for
// bias.
type DetrendedQuantileMapping struct {
	Kind       Kind
	NQuantiles int
	Group      Grouper

	RefUnits string
	Qs       []float64
	MuRef    [][]float64   // [loc][group]
	MuHist   [][]float64   // [loc][group]
	HistQ    [][][]float64 // [loc][group][node] normalized historical quantiles
	AF       [][][]float64 // [loc][group][node]
}

// NewDQM builds an untrained estimator.
func NewDQM(nq int, kind Kind, g Grouper) *DetrendedQuantileMapping {
	return &DetrendedQuantileMapping{Kind: kind, NQuantiles: nq, Group: g}
}

// Train normalizes ref and hist by their group means and learns the quantile
// curves of the normalized data.
func (m *DetrendedQuantileMapping) Train(ref, hist *series.DataArray) error {
	h, err := checkTrainInputs(m.Kind, ref, hist)
	if err != nil {
		return err
	}
	m.RefUnits = ref.Units
	m.Qs = Nodes(m.NQuantiles)
	nloc := ref.Nloc()
	m.MuRef = make([][]float64, nloc)
	m.MuHist = make([][]float64, nloc)
	m.HistQ = make([][][]float64, nloc)
	m.AF = make([][][]float64, nloc)
	idx := m.Group.Indices(ref.Axis)
	series.Pmap(nloc, 0, func(i int) {
		ng := len(idx)
		mur, muh := make([]float64, ng), make([]float64, ng)
		hq, af := make([][]float64, ng), make([][]float64, ng)
		for g, ix := range idx {
			rp, hp := gather(ref.Data[i], ix), gather(h.Data[i], ix)
			mur[g], muh[g] = series.NanMean(rp), series.NanMean(hp)
			for k := range rp {
				rp[k] = m.Kind.invert(rp[k], mur[g])
			}
			for k := range hp {
				hp[k] = m.Kind.invert(hp[k], muh[g])
			}
			rq := Empirical(rp, m.Qs)
			hq[g] = Empirical(hp, m.Qs)
			af[g] = make([]float64, len(m.Qs))
			for q := range m.Qs {
				af[g][q] = m.Kind.factor(rq[q], hq[g][q])
			}
		}
		m.MuRef[i], m.MuHist[i] = mur, muh
		m.HistQ[i], m.AF[i] = hq, af
	})
	return nil
}

// Adjust scales sim by the trained group means, detrends it with dt
// (PolyDetrend of degree 4 when nil), quantile-maps the detrended values and
// restores the trend.
func (m *DetrendedQuantileMapping) Adjust(sim *series.DataArray, dt Detrender) (*series.DataArray, error) {
	if m.AF == nil {
		return nil, fmt.Errorf("sdba: DQM not trained")
	}
	s, err := simInRefUnits(sim, m.RefUnits)
	if err != nil {
		return nil, err
	}
	if sim.Nloc() != len(m.AF) {
		return nil, fmt.Errorf("sdba: trained on %d locations, sim has %d", len(m.AF), sim.Nloc())
	}
	if err := checkAdjustGroups(m.Group, sim.Axis, len(m.AF[0])); err != nil {
		return nil, err
	}
	if dt == nil {
		dt = PolyDetrend{Degree: 4, Kind: m.Kind}
	}
	lab := m.Group.Labels(sim.Axis)
	out := series.New(sim.Name, m.RefUnits, sim.Axis, sim.Nloc())
	err = series.PmapErr(sim.Nloc(), 0, func(i int) error {
		// scale to the reference climatology
		scaled := make([]float64, sim.NT())
		for j, v := range s.Data[i] {
			g := lab[j]
			scaled[j] = m.Kind.apply(v, m.Kind.factor(m.MuRef[i][g], m.MuHist[i][g]))
		}
		tr, err := dt.Fit(sim.Axis, scaled)
		if err != nil {
			return err
		}
		detr := tr.Detrend(scaled)
		for j, v := range detr {
			g := lab[j]
			af := Interp(m.HistQ[i][g], m.AF[i][g], v)
			detr[j] = m.Kind.apply(v, af)
		}
		copy(out.Data[i], tr.Retrend(detr))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// checkAdjustGroups rejects a sim whose calendar labels more groups than
// were trained (a 366-day sim against a noleap training period would index
// past the trained factors).
func checkAdjustGroups(g Grouper, ax *cal.Axis, trained int) error {
	if ng := g.NGroups(ax.Cal); ng > trained {
		return fmt.Errorf("sdba: trained on %d groups, sim calendar needs %d", trained, ng)
	}
	return nil
}

// gather copies vals at the given indices.
func gather(vals []float64, ix []int) []float64 {
	o := make([]float64, len(ix))
	for k, j := range ix {
		o[k] = vals[j]
	}
	return o
}
