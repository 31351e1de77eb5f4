// internal/report/charts.go
// Package: report
package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/mwiater/spmvsweep/internal/harness"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Chart file names inside the charts directory.
const (
	ScalabilityChart = "scalability.png"
	CSRvsDenseChart  = "csr_vs_dense.png"
	BreakdownChart   = "breakdown.png"
)

// ChartOptions selects the slice of the dataset some charts focus on.
type ChartOptions struct {
	// Sparsity used by the scalability and breakdown charts.
	Sparsity float64
}

// ChartResult lists written chart paths and the reasons charts were skipped.
type ChartResult struct {
	Written []string
	Skipped []string
}

const sparsityTolerance = 1e-9

func sameSparsity(a, b float64) bool {
	return math.Abs(a-b) < sparsityTolerance
}

// RenderCharts writes the three PNG charts into dir. A chart whose data
// subset is empty is skipped and reported in the result, not treated as an
// error.
func RenderCharts(dir string, ds *harness.Dataset, opts ChartOptions) (ChartResult, error) {
	var res ChartResult
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, fmt.Errorf("create charts directory %s: %w", dir, err)
	}

	charts := []struct {
		file  string
		build func(*harness.Dataset, ChartOptions) (*plot.Plot, vg.Length, string, error)
	}{
		{ScalabilityChart, scalabilityPlot},
		{CSRvsDenseChart, csrVsDensePlot},
		{BreakdownChart, breakdownPlot},
	}
	for _, c := range charts {
		p, width, skip, err := c.build(ds, opts)
		if err != nil {
			return res, fmt.Errorf("%s: %w", c.file, err)
		}
		if p == nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("%s: %s", c.file, skip))
			continue
		}
		path := filepath.Join(dir, c.file)
		if err := p.Save(width, 4*vg.Inch, path); err != nil {
			return res, fmt.Errorf("save %s: %w", path, err)
		}
		res.Written = append(res.Written, path)
	}
	return res, nil
}

// scalabilityPlot draws speedup against process count, one line per size,
// with the ideal linear speedup for reference.
func scalabilityPlot(ds *harness.Dataset, opts ChartOptions) (*plot.Plot, vg.Length, string, error) {
	bySize := map[int]plotter.XYs{}
	for _, r := range ds.Records {
		if !sameSparsity(r.Point.Sparsity, opts.Sparsity) {
			continue
		}
		var y float64
		switch r.Speedup.State {
		case harness.SpeedupBaseline:
			y = 1
		case harness.SpeedupAvailable:
			y = r.Speedup.Value
		default:
			continue
		}
		bySize[r.Point.Size] = append(bySize[r.Point.Size], plotter.XY{X: float64(r.Point.ProcessCount), Y: y})
	}
	if len(bySize) == 0 {
		return nil, 0, "no speedups at sparsity " + harness.FormatSparsity(opts.Sparsity), nil
	}

	p := plot.New()
	p.Title.Text = "Speedup vs processes (sparsity " + harness.FormatSparsity(opts.Sparsity) + ")"
	p.X.Label.Text = "Processes"
	p.Y.Label.Text = "Speedup (calc)"
	p.Add(plotter.NewGrid())

	sizes := sortedKeys(bySize)
	minP, maxP := math.Inf(1), math.Inf(-1)
	var lines []any
	for _, n := range sizes {
		pts := bySize[n]
		slices.SortFunc(pts, func(a, b plotter.XY) int { return cmpFloat(a.X, b.X) })
		for _, pt := range pts {
			minP = math.Min(minP, pt.X)
			maxP = math.Max(maxP, pt.X)
		}
		lines = append(lines, "N="+strconv.Itoa(n), pts)
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return nil, 0, "", err
	}

	ideal, err := plotter.NewLine(plotter.XYs{{X: minP, Y: minP}, {X: maxP, Y: maxP}})
	if err != nil {
		return nil, 0, "", err
	}
	ideal.Color = color.RGBA{128, 128, 128, 255}
	ideal.Width = vg.Points(1)
	ideal.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(ideal)
	p.Legend.Add("ideal", ideal)
	p.Legend.Top = true
	p.Legend.Left = true

	return p, 7 * vg.Inch, "", nil
}

// csrVsDensePlot compares total CSR and dense time across sparsities at the
// largest size and process count. The Y axis is logarithmic when every
// value is positive.
func csrVsDensePlot(ds *harness.Dataset, _ ChartOptions) (*plot.Plot, vg.Length, string, error) {
	if len(ds.Records) == 0 {
		return nil, 0, "no records", nil
	}
	maxN, maxP := 0, 0
	for _, r := range ds.Records {
		maxN = max(maxN, r.Point.Size)
		maxP = max(maxP, r.Point.ProcessCount)
	}

	var subset []harness.Record
	for _, r := range ds.Records {
		if r.Point.Size == maxN && r.Point.ProcessCount == maxP {
			subset = append(subset, r)
		}
	}
	if len(subset) == 0 {
		return nil, 0, fmt.Sprintf("no record at N=%d procs=%d", maxN, maxP), nil
	}
	slices.SortFunc(subset, func(a, b harness.Record) int { return cmpFloat(a.Point.Sparsity, b.Point.Sparsity) })

	csr := make(plotter.XYs, len(subset))
	dense := make(plotter.XYs, len(subset))
	names := make([]string, len(subset))
	allPositive := true
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, r := range subset {
		csr[i] = plotter.XY{X: float64(i), Y: r.Mean.TotalCSR}
		dense[i] = plotter.XY{X: float64(i), Y: r.Mean.TotalDense}
		names[i] = harness.FormatSparsity(r.Point.Sparsity)
		for _, v := range []float64{r.Mean.TotalCSR, r.Mean.TotalDense} {
			if v <= 0 {
				allPositive = false
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("CSR vs dense (N=%d, %d processes)", maxN, maxP)
	p.X.Label.Text = "Sparsity"
	p.Y.Label.Text = "Total time (s)"
	p.Add(plotter.NewGrid())
	if err := plotutil.AddLinePoints(p, "CSR", csr, "Dense", dense); err != nil {
		return nil, 0, "", err
	}
	p.NominalX(names...)
	p.X.Min = -0.5
	p.X.Max = float64(len(names)) - 0.5
	if allPositive {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
		p.Y.Min = lo / 2
		p.Y.Max = hi * 2
	}
	p.Legend.Top = true

	return p, 7 * vg.Inch, "", nil
}

// breakdownPlot stacks build, communication and calculation time per
// process count at the largest size.
func breakdownPlot(ds *harness.Dataset, opts ChartOptions) (*plot.Plot, vg.Length, string, error) {
	maxN := 0
	for _, r := range ds.Records {
		if sameSparsity(r.Point.Sparsity, opts.Sparsity) {
			maxN = max(maxN, r.Point.Size)
		}
	}
	var subset []harness.Record
	for _, r := range ds.Records {
		if r.Point.Size == maxN && sameSparsity(r.Point.Sparsity, opts.Sparsity) {
			subset = append(subset, r)
		}
	}
	if len(subset) == 0 {
		return nil, 0, "no records at sparsity " + harness.FormatSparsity(opts.Sparsity), nil
	}
	slices.SortFunc(subset, func(a, b harness.Record) int { return a.Point.ProcessCount - b.Point.ProcessCount })

	build := make(plotter.Values, len(subset))
	comm := make(plotter.Values, len(subset))
	calc := make(plotter.Values, len(subset))
	names := make([]string, len(subset))
	for i, r := range subset {
		build[i] = r.Mean.Build
		comm[i] = r.Mean.Comm
		calc[i] = r.Mean.Calc
		names[i] = strconv.Itoa(r.Point.ProcessCount)
	}

	width := vg.Points(30)
	buildBars, err := plotter.NewBarChart(build, width)
	if err != nil {
		return nil, 0, "", err
	}
	buildBars.Color = plotutil.Color(0)
	commBars, err := plotter.NewBarChart(comm, width)
	if err != nil {
		return nil, 0, "", err
	}
	commBars.Color = plotutil.Color(1)
	commBars.StackOn(buildBars)
	calcBars, err := plotter.NewBarChart(calc, width)
	if err != nil {
		return nil, 0, "", err
	}
	calcBars.Color = plotutil.Color(2)
	calcBars.StackOn(commBars)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Time breakdown (N=%d, sparsity %s)", maxN, harness.FormatSparsity(opts.Sparsity))
	p.X.Label.Text = "Processes"
	p.Y.Label.Text = "Time (s)"
	p.Add(buildBars, commBars, calcBars)
	p.Legend.Add("build", buildBars)
	p.Legend.Add("comm", commBars)
	p.Legend.Add("calc", calcBars)
	p.Legend.Top = true
	p.NominalX(names...)

	return p, 6 * vg.Inch, "", nil
}

func sortedKeys(m map[int]plotter.XYs) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
