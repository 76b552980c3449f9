// Package main provides the cbgm command-line tool: a pipeline of
// subcommands implementing the Coherence-Based Genealogical Method
// over a declarative witness/reading dataset.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: building logger: %v\n", err)
		return 1
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	root := newRootCmd(sugar)
	if err := root.Execute(); err != nil {
		return exitCodeFor(err)
	}
	return 0
}

// newLogger builds the zap logger used throughout the CLI. Verbosity
// is controlled by CBGM_DEBUG=1 in the environment rather than a flag,
// since the logger must exist before cobra has parsed any flags.
func newLogger() (*zap.Logger, error) {
	if os.Getenv("CBGM_DEBUG") != "" {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = ""
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func newRootCmd(log *zap.SugaredLogger) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "cbgm",
		Short: "Coherence-Based Genealogical Method engine",
		Long: `cbgm loads a witness/reading dataset, computes pre-genealogical and
genealogical coherence, searches for explaining parent combinations,
and assembles textual-flow diagrams and combinations-of-ancestors
rankings from it.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cobra.OnInitialize(func() {
		initConfig(cfgFile)
	})
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.cbgm.yaml)")

	root.AddCommand(newLoadCmd(log))
	root.AddCommand(newPregenCmd(log))
	root.AddCommand(newGencohCmd(log))
	root.AddCommand(newResolveCmd(log))
	root.AddCommand(newParentsCmd(log))
	root.AddCommand(newFlowCmd(log))
	root.AddCommand(newCombancCmd(log))
	root.AddCommand(newConfigCmd())
	root.AddCommand(newCompareCmd(log))
	root.AddCommand(newStemmaCmd(log))

	return root
}

func initConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".cbgm")
	}

	viper.SetDefault("worker.count", 4)
	viper.SetDefault("worker.timeout", "4h")
	viper.SetDefault("worker.max_retries", 2)
	viper.SetDefault("connectivity.default", "499")
	viper.SetDefault("cache.dir", ".cbgm-cache")
	viper.SetDefault("flow.thresholds.strong", 3)
	viper.SetDefault("flow.thresholds.weak", 1)
	viper.SetDefault("combanc.max_comb_len", -1)

	viper.AutomaticEnv()
	_ = viper.ReadInConfig() // absence of a config file is not an error
}
