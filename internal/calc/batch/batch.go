package batch

import (
	"context"
	"net/http"
	"sync"

	"XRay/internal/calc/analysis"
	"XRay/internal/calc/diffraction"
	"XRay/internal/repo"
	"XRay/internal/worker"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const MaxItems = 100

type Input struct {
	Items []analysis.Request `json:"items"`
}

// Item summarises one evaluated parameter set. Peaks is nil when Error is set.
type Item struct {
	Index         int                      `json:"index"`
	Params        *diffraction.Params      `json:"params,omitempty"`
	Peaks         []diffraction.Reflection `json:"peaks,omitempty"`
	Samples       int                      `json:"samples,omitempty"`
	MaxIntensity  float64                  `json:"maxIntensity,omitempty"`
	PeakAngle     float64                  `json:"peakAngle,omitempty"`
	MeanIntensity float64                  `json:"meanIntensity,omitempty"`
	StdIntensity  float64                  `json:"stdIntensity,omitempty"`
	Error         *analysis.ErrorBody      `json:"error,omitempty"`
}

type Result struct {
	Count  int    `json:"count"`
	Failed int    `json:"failed"`
	Items  []Item `json:"items"`
}

// Runner evaluates parameter sets concurrently on a worker pool.
type Runner struct {
	Limits diffraction.Limits
	Anodes repo.Repository
	Pool   *worker.Pool
	Logger *zap.Logger
}

func (r *Runner) limits() diffraction.Limits {
	if r.Limits.MaxSamples == 0 {
		return diffraction.DefaultLimits
	}
	return r.Limits
}

// Summarize reduces a computed result to its batch item.
func Summarize(index int, res diffraction.Result) Item {
	it := Item{
		Index:   index,
		Params:  &res.Params,
		Peaks:   res.Reflections,
		Samples: res.Pattern.Len(),
	}
	if n := res.Pattern.Len(); n > 0 {
		i := floats.MaxIdx(res.Pattern.Intensity)
		it.MaxIntensity = res.Pattern.Intensity[i]
		it.PeakAngle = res.Pattern.Theta[i]
		it.MeanIntensity, it.StdIntensity = stat.MeanStdDev(res.Pattern.Intensity, nil)
		if n == 1 {
			it.StdIntensity = 0
		}
	}
	return it
}

func (r *Runner) failed(index int, err error) Item {
	status, body := analysis.Classify(err)
	if status == http.StatusInternalServerError && r.Logger != nil {
		r.Logger.Error("batch item failed", zap.Int("index", index), zap.Error(err))
	}
	return Item{Index: index, Error: &body}
}

// Run evaluates every request. Per-item failures are reported in place and
// never abort the batch; only a cancelled ctx stops early.
func (r *Runner) Run(ctx context.Context, reqs []analysis.Request) (Result, error) {
	if len(reqs) == 0 {
		return Result{}, &diffraction.ValidationError{Field: "items", Msg: "must not be empty"}
	}
	if len(reqs) > MaxItems {
		return Result{}, &diffraction.ValidationError{Field: "items", Msg: "must not exceed 100 entries"}
	}

	items := make([]Item, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in, err := analysis.Resolve(ctx, r.Anodes, req)
			if err != nil {
				items[i] = r.failed(i, err)
				return
			}
			var res diffraction.Result
			err = r.Pool.Do(ctx, func() error {
				var err error
				res, err = r.limits().Calculate(in)
				return err
			})
			if err != nil {
				items[i] = r.failed(i, err)
				return
			}
			items[i] = Summarize(i, res)
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	out := Result{Count: len(items), Items: items}
	for _, it := range items {
		if it.Error != nil {
			out.Failed++
		}
	}
	return out, nil
}
