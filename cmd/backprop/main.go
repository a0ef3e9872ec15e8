package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime/pprof"

	"github.com/pkg/errors"

	"github.com/joelsearcy/backprop-go/pkg/autograd"
	"github.com/joelsearcy/backprop-go/pkg/config"
	"github.com/joelsearcy/backprop-go/pkg/data"
	"github.com/joelsearcy/backprop-go/pkg/gradcheck"
	"github.com/joelsearcy/backprop-go/pkg/model"
	"github.com/joelsearcy/backprop-go/pkg/optim"
	"github.com/joelsearcy/backprop-go/pkg/viz"
)

const (
	Beta1   = 0.85
	Beta2   = 0.99
	EpsAdam = 1e-8

	logEvery = 10
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	var (
		layers     = flag.String("layers", "", "comma separated widths, input first (e.g. 3,4,5,1)")
		inputs     = flag.String("inputs", "", "comma separated input values")
		steps      = flag.Int("steps", cfg.Steps, "training steps (0 runs a single forward pass)")
		lr         = flag.Float64("lr", cfg.LR, "learning rate")
		opt        = flag.String("optimizer", cfg.Optimizer, "sgd or adam")
		seed       = flag.Uint64("seed", cfg.Seed, "initialization seed")
		dataPath   = flag.String("data", cfg.DataPath, "CSV training data, last column is the target")
		dataURL    = flag.String("data-url", cfg.DataURL, "download the training data from this URL if -data is missing")
		dotPath    = flag.String("dot", cfg.DotPath, "write the final graph as GraphViz DOT")
		check      = flag.Bool("check", false, "verify parameter gradients against finite differences")
		cpuProfile = flag.String("cpuprofile", "", "write a CPU profile to this file")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if *layers != "" {
		if cfg.Layers, err = config.ParseInts(*layers); err != nil {
			logger.Error("invalid -layers", "err", err)
			os.Exit(2)
		}
	}
	if *inputs != "" {
		if cfg.Inputs, err = config.ParseFloats(*inputs); err != nil {
			logger.Error("invalid -inputs", "err", err)
			os.Exit(2)
		}
	}
	cfg.Steps, cfg.LR, cfg.Optimizer, cfg.Seed = *steps, *lr, *opt, *seed
	cfg.DataPath, cfg.DataURL, cfg.DotPath = *dataPath, *dataURL, *dotPath
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(2)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			logger.Error("creating CPU profile", "err", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Error("starting CPU profile", "err", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if err := run(cfg, *check, logger); err != nil {
		logger.Error("run failed", "err", err)
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

// run builds the network and either evaluates it once or trains it.
func run(cfg *config.Config, check bool, logger *slog.Logger) error {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	net, err := model.NewMLP(cfg.Layers[0], cfg.Layers[1:], model.NewUniformInit(rng))
	if err != nil {
		return err
	}
	params := net.Parameters()
	logger.Info("network ready", "layers", cfg.Layers, "params", len(params))

	var root *autograd.Value

	if cfg.Steps > 0 {
		samples, err := loadSamples(cfg)
		if err != nil {
			return err
		}
		data.Shuffle(samples, cfg.Seed)
		logger.Info("dataset loaded", "samples", len(samples))

		if root, err = train(net, samples, cfg, logger); err != nil {
			return err
		}
		if check {
			if err := checkGradients(net, trainingLoss(net, samples), logger); err != nil {
				return err
			}
		}
	} else {
		if check {
			if err := checkGradients(net, outputSum(net, cfg.Inputs), logger); err != nil {
				return err
			}
			net.ZeroGrad()
		}

		out, err := net.ForwardValues(cfg.Inputs)
		if err != nil {
			return err
		}
		fmt.Println(model.Data(out))
		root = autograd.Sum(out)
		root.Backward()
	}

	if cfg.DotPath != "" {
		if err := viz.WriteDOTFile(cfg.DotPath, root); err != nil {
			return err
		}
		logger.Info("graph written", "path", cfg.DotPath, "nodes", len(autograd.TopologicalOrder(root)))
	}
	return nil
}

func loadSamples(cfg *config.Config) ([]data.Sample, error) {
	if cfg.DataPath == "" {
		return nil, errors.New("training requires a dataset (-data or BACKPROP_DATA)")
	}
	if cfg.DataURL != "" {
		if err := data.DownloadIfNotExists(cfg.DataURL, cfg.DataPath); err != nil {
			return nil, err
		}
	}
	samples, err := data.LoadSamples(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, errors.Errorf("%s: no samples", cfg.DataPath)
	}
	return samples, nil
}

// batchLoss builds the summed squared error of net over samples.
func batchLoss(net *model.Network, samples []data.Sample) (*autograd.Value, error) {
	preds := make([]*autograd.Value, 0, len(samples))
	targets := make([]*autograd.Value, 0, len(samples))
	for i, s := range samples {
		out, err := net.ForwardValues(s.Inputs)
		if err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
		if len(out) != 1 {
			return nil, errors.Errorf("training expects a single output, network has %d", len(out))
		}
		preds = append(preds, out[0])
		targets = append(targets, autograd.NewValue(s.Target))
	}
	return model.MSE(preds, targets)
}

// train runs full-batch gradient steps and returns the last loss node.
func train(net *model.Network, samples []data.Sample, cfg *config.Config, logger *slog.Logger) (*autograd.Value, error) {
	params := net.Parameters()

	var optimizer optim.Optimizer
	switch cfg.Optimizer {
	case "adam":
		optimizer = optim.NewAdam(len(params), cfg.LR, Beta1, Beta2, EpsAdam)
	default:
		optimizer = optim.NewSGD(cfg.LR)
	}

	var loss *autograd.Value
	for step := 0; step < cfg.Steps; step++ {
		var err error
		loss, err = batchLoss(net, samples)
		if err != nil {
			return nil, err
		}

		net.ZeroGrad()
		loss.Backward()

		// Linear learning rate decay
		lrDecay := 1.0 - float64(step)/float64(cfg.Steps)
		optimizer.Step(params, lrDecay)

		if step%logEvery == 0 || step == cfg.Steps-1 {
			logger.Info("training", "step", step+1, "steps", cfg.Steps, "loss", loss.Data())
		}
	}
	return loss, nil
}

// lossFunc rebuilds a scalar graph from the network's current parameters.
type lossFunc func() (*autograd.Value, error)

func trainingLoss(net *model.Network, samples []data.Sample) lossFunc {
	return func() (*autograd.Value, error) {
		return batchLoss(net, samples)
	}
}

// outputSum differentiates the sum of the network outputs for one input.
func outputSum(net *model.Network, inputs []float64) lossFunc {
	return func() (*autograd.Value, error) {
		out, err := net.ForwardValues(inputs)
		if err != nil {
			return nil, err
		}
		return autograd.Sum(out), nil
	}
}

func checkGradients(net *model.Network, loss lossFunc, logger *slog.Logger) error {
	var lossErr error
	res, err := gradcheck.CheckParams(net.Parameters(), func() *autograd.Value {
		l, err := loss()
		if err != nil {
			lossErr = err
			return autograd.NewValue(0)
		}
		return l
	}, 1e-4)
	if lossErr != nil {
		return lossErr
	}
	if err != nil {
		return err
	}
	logger.Info("gradient check passed", "max_abs_diff", res.MaxAbsDiff)
	return nil
}
