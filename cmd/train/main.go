package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/hscells/farecast"
	"github.com/hscells/farecast/frame"
)

var (
	name    = "train"
	version = "31.Aug.2026"
	author  = "Harry Scells"
)

type args struct {
	Data             string  `arg:"required,positional" help:"cleaned listings csv to train on"`
	Output           string  `arg:"-o,--output,required" help:"directory the model artifact is exported to"`
	ValSize          float64 `arg:"--val-size" default:"0.2" help:"fraction of rows held out for validation"`
	StratifyBy       string  `arg:"--stratify-by" default:"none" help:"column to stratify the split by, or none"`
	Seed             int64   `arg:"--random-seed" default:"42" help:"seed for every source of randomness"`
	ForestConfig     string  `arg:"--rf-config" help:"json file of forest hyperparameters"`
	MaxTFIDFFeatures int     `arg:"--max-tfidf-features" default:"10" help:"maximum text vocabulary size"`
	Plot             string  `arg:"--plot" default:"feature_importance.png" help:"path the importance chart is written to"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return fmt.Sprintf(`%s
@ %s
# %s`, name, author, version)
}

func main() {
	var args args
	arg.MustParse(&args)

	config := farecast.DefaultConfig()
	config.ValSize = args.ValSize
	config.StratifyBy = args.StratifyBy
	config.Seed = args.Seed
	config.MaxTFIDFFeatures = args.MaxTFIDFFeatures
	config.OutputDir = args.Output
	config.PlotPath = args.Plot
	config.Progress = true

	if args.ForestConfig != "" {
		f, err := os.Open(args.ForestConfig)
		if err != nil {
			log.Fatalln(err)
		}
		config.Forest, err = farecast.ParseForestParams(f)
		f.Close()
		if err != nil {
			log.Fatalln(err)
		}
	}

	f, err := os.Open(args.Data)
	if err != nil {
		log.Fatalln(err)
	}
	data, err := frame.ReadCSV(f)
	f.Close()
	if err != nil {
		log.Fatalln(err)
	}

	pipeline, err := farecast.NewPipeline(config)
	if err != nil {
		log.Fatalln(err)
	}
	run, err := pipeline.Execute(data)
	if err != nil {
		log.Fatalln(err)
	}
	for metric, score := range run.Metrics {
		fmt.Printf("%s\t%f\n", metric, score)
	}
}
