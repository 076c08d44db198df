package strategy

import (
	"fmt"
	"strings"

	"SetupScanner/internal/calculator"
	"SetupScanner/internal/model"
)

// evaluator is one setup detector. It returns nil when its pattern is absent.
type evaluator struct {
	setup model.SetupID
	run   func(e *evaluation) (*model.SetupResult, error)
}

// evaluators in priority order; the first match wins.
var evaluators = []evaluator{
	{model.Setup91, setup91},
	{model.Setup92, setup92},
	{model.Setup93, setup93},
	{model.Setup94, setup94},
	{model.SetupPC, setupPC},
}

// Evaluate classifies one instrument's series. Indicators are derived once from the
// closed bars and shared by every detector.
func Evaluate(series *model.CandleSeries, p Params) model.Outcome {
	return evaluateWith(series, p, evaluators)
}

func evaluateWith(series *model.CandleSeries, p Params, evals []evaluator) model.Outcome {
	if err := series.Validate(); err != nil {
		return model.Outcome{Kind: model.DataError, Err: err}
	}
	out := model.Outcome{Kind: model.NoSignal, LastClosed: series.LastClosed().Time}
	if series.Len() < p.MinCandles {
		out.Kind = model.InsufficientData
		out.Err = fmt.Errorf("%w: %d bars, need %d", model.ErrInsufficientData, series.Len(), p.MinCandles)
		return out
	}

	e := newEvaluation(series, p)
	for _, ev := range evals {
		res, err := runEvaluator(ev, e)
		if err != nil {
			out.Diagnostics = append(out.Diagnostics, fmt.Sprintf("setup %s: %v", ev.setup, err))
			continue
		}
		if res == nil {
			continue
		}
		promote(res, e.forming)
		out.Kind = model.Signal
		out.Result = res
		break
	}
	return out
}

func newEvaluation(series *model.CandleSeries, p Params) *evaluation {
	closed := series.Closed()
	return &evaluation{
		closed:  closed,
		forming: series.Forming(),
		ind:     calculator.Derive(closed, p.FastSpan, p.SlowWindow),
		params:  p,
	}
}

// runEvaluator isolates a detector so a fault in one falls through to the next.
func runEvaluator(ev evaluator, e *evaluation) (res *model.SetupResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return ev.run(e)
}

// promote is where the state is finalised: an armed trigger already broken by the
// forming bar under the result's own breakout rule becomes fired.
func promote(r *model.SetupResult, forming model.OHLCV) {
	if r.State != model.Armed || !r.Crossed(forming) {
		return
	}
	r.State = model.Fired
	r.Origin = strings.Replace(r.Origin, "-ARM", "-FIRE", 1)
	r.Trail = append(r.Trail, "promoted by forming bar")
}
