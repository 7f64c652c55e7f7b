package farecast

import (
	"encoding/json"
	"io"

	"github.com/go-errors/errors"
	"github.com/hscells/farecast/forest"
)

// ForestParams are the estimator hyperparameters accepted from the JSON
// configuration surface. Unknown keys are rejected at decode time. The
// random state is always overwritten with the run's seed before the forest
// is constructed, so both the split and the bootstrap sampling reproduce
// from one value.
type ForestParams struct {
	// NEstimators is the ensemble size. Default 100.
	NEstimators int `json:"n_estimators"`
	// MaxDepth limits tree depth; 0 grows trees until pure. Default 0.
	MaxDepth int `json:"max_depth"`
	// MinSamplesSplit is the minimum node size to split. Default 2.
	MinSamplesSplit int `json:"min_samples_split"`
	// MinSamplesLeaf is the minimum rows per child. Default 1.
	MinSamplesLeaf int `json:"min_samples_leaf"`
	// MaxFeatures is the fraction of features per split; 0 uses all.
	MaxFeatures float64 `json:"max_features"`
	// RandomState is accepted for compatibility and always overwritten by
	// the run seed.
	RandomState int64 `json:"random_state"`
}

// DefaultForestParams returns the documented hyperparameter defaults.
func DefaultForestParams() ForestParams {
	return ForestParams{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
}

// ParseForestParams decodes hyperparameters from JSON over the defaults,
// rejecting unknown keys.
func ParseForestParams(r io.Reader) (ForestParams, error) {
	p := DefaultForestParams()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return ForestParams{}, errors.WrapPrefix(err, "forest configuration", 0)
	}
	return p, nil
}

func (p ForestParams) forestConfig(seed int64, progress bool) forest.Config {
	return forest.Config{
		Trees:           p.NEstimators,
		MaxDepth:        p.MaxDepth,
		MinSamplesSplit: p.MinSamplesSplit,
		MinSamplesLeaf:  p.MinSamplesLeaf,
		MaxFeatures:     p.MaxFeatures,
		Seed:            seed,
		Progress:        progress,
	}
}

// Config is the immutable configuration of one training run.
type Config struct {
	// ValSize is the fraction of rows held out for validation.
	ValSize float64 `json:"val_size"`
	// StratifyBy names a column to stratify the split on, or "none".
	StratifyBy string `json:"stratify_by"`
	// Seed drives the split and every source of estimator randomness.
	Seed int64 `json:"seed"`
	// MaxTFIDFFeatures bounds the text vocabulary size.
	MaxTFIDFFeatures int `json:"max_tfidf_features"`
	// Forest holds the estimator hyperparameters.
	Forest ForestParams `json:"forest"`
	// OutputDir is where the artifact directory is written.
	OutputDir string `json:"output_dir"`
	// PlotPath is where the feature importance chart is written.
	PlotPath string `json:"plot_path"`
	// Progress draws a progress bar during the fit.
	Progress bool `json:"-"`
}

// DefaultConfig returns the documented run defaults.
func DefaultConfig() Config {
	return Config{
		ValSize:          0.2,
		StratifyBy:       "none",
		Seed:             42,
		MaxTFIDFFeatures: 10,
		Forest:           DefaultForestParams(),
		OutputDir:        "random_forest_dir",
		PlotPath:         "feature_importance.png",
	}
}

// Validate rejects configurations that cannot produce a run.
func (c Config) Validate() error {
	if c.ValSize <= 0 || c.ValSize >= 1 {
		return errors.Errorf("val_size %f must be in (0, 1)", c.ValSize)
	}
	if c.MaxTFIDFFeatures < 1 {
		return errors.Errorf("max_tfidf_features %d must be at least 1", c.MaxTFIDFFeatures)
	}
	if c.Forest.NEstimators < 1 {
		return errors.Errorf("n_estimators %d must be at least 1", c.Forest.NEstimators)
	}
	if c.Forest.MaxFeatures < 0 || c.Forest.MaxFeatures > 1 {
		return errors.Errorf("max_features %f must be in [0, 1]", c.Forest.MaxFeatures)
	}
	if c.OutputDir == "" {
		return errors.New("output directory is required")
	}
	return nil
}
