package cmd

import (
	"context"
	"flag"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/config"
	"github.com/etnz/fintrack/docs"
	"github.com/etnz/fintrack/storage"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors overrides the prediction of flags by name.
var flagPredictors = map[string]complete.Predictor{
	"p":           predict.Set{"month", "30d", "all"},
	"format":      predict.Set{"md", "html"},
	"type":        predict.Set{string(fintrack.Credit), string(fintrack.Debit)},
	"o":           predict.Files("*"),
	"config":      predict.Files("*.yaml"),
	"frontmatter": predict.Files("*"),
}

// argPredictors predicts the positional arguments of a command.
var argPredictors = map[string]complete.Predictor{
	"delete":  complete.PredictFunc(predictLedgers),
	"show":    complete.PredictFunc(predictLedgers),
	"credit":  complete.PredictFunc(predictLedgers),
	"debit":   complete.PredictFunc(predictLedgers),
	"edit":    complete.PredictFunc(predictLedgers),
	"rm":      complete.PredictFunc(predictLedgers),
	"report":  complete.PredictFunc(predictLedgers),
	"publish": complete.PredictFunc(predictLedgers),
	"import":  predict.Files("*.json"),
	"topic":   predict.Set(append(docs.List(), "readme")),
}

// Completion returns the completion tree of the application.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagsOf(flag.CommandLine),
	}
	for _, c := range Commands {
		f := flag.NewFlagSet(c.Command.Name(), flag.ContinueOnError)
		c.Command.SetFlags(f)
		root.Sub[c.Command.Name()] = &complete.Command{
			Flags: flagsOf(f),
			Args:  argPredictors[c.Command.Name()],
		}
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{Args: predict.Set(commandNames())}
	}
	return root
}

// Complete answers the shell completion request, if any, and exits.
// It returns immediately otherwise.
func Complete() { Completion().Complete("fintrack") }

func flagsOf(f *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		if p, ok := flagPredictors[fl.Name]; ok {
			flags[fl.Name] = p
			return
		}
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[fl.Name] = predict.Nothing
			return
		}
		flags[fl.Name] = predict.Something
	})
	return flags
}

func commandNames() []string {
	names := make([]string, len(Commands))
	for i, c := range Commands {
		names[i] = c.Command.Name()
	}
	return names
}

// predictLedgers predicts ledger names, reading the configured storage.
func predictLedgers(prefix string) []string {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil
	}
	backend, err := storage.Open(cfg.Storage.Kind, cfg.Storage.Location)
	if err != nil {
		return nil
	}
	defer backend.Close()
	ledgers, err := fintrack.NewStorage(backend).Load(context.Background())
	if err != nil {
		return nil
	}
	var names []string
	for _, l := range ledgers {
		names = append(names, l.Name())
	}
	return names
}
