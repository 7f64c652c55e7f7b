// Package farecast trains a nightly price regression model for short-term
// rental listings. It composes column transforms and a regression forest
// into a single fit/predict unit and drives the train, evaluate, validate,
// and export steps of one reproducible run.
package farecast

import (
	"log"
	"os"
	"time"

	"github.com/go-errors/errors"
	"github.com/google/uuid"
	"github.com/hscells/farecast/eval"
	"github.com/hscells/farecast/frame"
	"github.com/hscells/farecast/model"
	"github.com/hscells/farecast/output"
	"github.com/hscells/farecast/transform"
	"gonum.org/v1/gonum/floats"
)

// TargetColumn is the regression target, separated from the feature table
// before any transform runs.
const TargetColumn = "price"

// Pipeline executes training runs. Construct with NewPipeline; the
// configuration is fixed for the pipeline's lifetime.
type Pipeline struct {
	config     Config
	evaluators []eval.Evaluator
	logger     *log.Logger
}

// Evaluators overrides the measures scored on the validation partition.
func Evaluators(evaluators ...eval.Evaluator) func() interface{} {
	return func() interface{} {
		return evaluators
	}
}

// Logger overrides the pipeline's logger.
func Logger(logger *log.Logger) func() interface{} {
	return func() interface{} {
		return logger
	}
}

// NewPipeline creates a pipeline from a validated configuration. Additional
// components are provided via the optional functional arguments.
func NewPipeline(config Config, components ...func() interface{}) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		config:     config,
		evaluators: []eval.Evaluator{eval.RSquared{}, eval.MeanAbsoluteError{}},
		logger:     log.New(os.Stderr, "farecast ", log.LstdFlags),
	}
	for _, component := range components {
		switch v := component().(type) {
		case []eval.Evaluator:
			p.evaluators = v
		case *log.Logger:
			p.logger = v
		}
	}
	return p, nil
}

// Execute runs one training run over a loaded feature/target table: pop the
// target, split, fit, score, type-validate, export. Any failure aborts the
// run; a run that fails type validation computes metrics but writes no
// artifact.
func (p *Pipeline) Execute(f *frame.Frame) (*Run, error) {
	run := &Run{
		ID:      uuid.New(),
		Config:  p.config,
		State:   Loaded,
		Metrics: map[string]float64{},
		Started: time.Now(),
	}
	p.logger.Printf("[%s] starting run on %s", run.ID, f)

	y, err := f.Pop(TargetColumn)
	if err != nil {
		return run, errors.WrapPrefix(err, "loading target", 0)
	}
	p.logger.Printf("minimum price: %.2f, maximum price: %.2f", floats.Min(y), floats.Max(y))

	trainX, valX, trainY, valY, err := frame.Split(f, y, p.config.ValSize, p.config.StratifyBy, p.config.Seed)
	if err != nil {
		return run, errors.WrapPrefix(err, "splitting", 0)
	}
	run.State = Split
	p.logger.Printf("split %d rows into %d train and %d validation", f.Len(), trainX.Len(), valX.Len())

	m := model.New(
		transform.NewListingComposer(p.config.MaxTFIDFFeatures),
		p.config.Forest.forestConfig(p.config.Seed, p.config.Progress),
	)
	p.logger.Println("fitting")
	if err := m.Fit(trainX, trainY); err != nil {
		return run, errors.WrapPrefix(err, "fitting", 0)
	}
	run.Model = m
	run.State = Fitted

	p.logger.Println("scoring")
	predicted, err := m.Predict(valX)
	if err != nil {
		return run, errors.WrapPrefix(err, "scoring", 0)
	}
	run.Metrics = eval.Evaluate(p.evaluators, predicted, valY)
	run.State = Scored
	for name, score := range run.Metrics {
		p.logger.Printf("%s: %f", name, score)
	}

	p.logger.Println("validating column types")
	if err := frame.ValidateTypes(valX); err != nil {
		return run, errors.WrapPrefix(err, "validating types", 0)
	}
	run.State = Validated

	p.logger.Printf("exporting model to %s", p.config.OutputDir)
	meta := Metadata{RunID: run.ID.String(), Config: p.config, Started: run.Started}
	if err := output.Export(p.config.OutputDir, m, valX, trainX.Head(5), meta); err != nil {
		return run, errors.WrapPrefix(err, "exporting", 0)
	}
	names, weights, err := m.Importances()
	if err != nil {
		return run, errors.WrapPrefix(err, "collapsing importances", 0)
	}
	if err := output.PlotImportance(names, weights, p.config.PlotPath); err != nil {
		return run, errors.WrapPrefix(err, "plotting importances", 0)
	}
	run.State = Exported
	p.logger.Printf("[%s] run complete", run.ID)
	return run, nil
}
