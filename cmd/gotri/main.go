package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// SubCommand pairs a cobra command with the viper instance its flags are bound to.
type SubCommand struct {
	Cmd       *cobra.Command
	Conf      *viper.Viper
	EnvPrefix string
}

var RootCmd = &cobra.Command{
	Use:   "gotri",
	Short: "gotri: triangulations, iso-sigs, and normal surfaces",
	Long: `
gotri reads triangulations given as gluing expressions, e.g.
    "(0, 0, 1, [1,3,0,2]), (0, 1, 1, [2,0,3,1]), ..."
or as isomorphism signatures, and reports their signatures, skeletal
properties, homology, normal surface solution spaces, and census entries.
`,
	SilenceUsage: true,
}

var rootConf = viper.New()

func main() {
	fset := goflag.NewFlagSet("", goflag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})
	klogFlags := pflag.NewFlagSet("klog", pflag.ContinueOnError)
	klogFlags.AddGoFlagSet(fset)
	RootCmd.PersistentFlags().AddFlagSet(klogFlags)
	setupCommands()

	err := RootCmd.Execute()
	klog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupCommands() {
	RootCmd.PersistentFlags().String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden to values set with environment variables and flags.")
	RootCmd.PersistentFlags().Int("dim", 3, "Dimension of the triangulations read.")
	rootConf.BindPFlags(RootCmd.PersistentFlags())

	var subcommands = []*SubCommand{
		&Sig, &Info, &Canon, &Surfaces, &Census,
	}
	for _, sc := range subcommands {
		RootCmd.AddCommand(sc.Cmd)
		sc.Conf = viper.New()
		sc.Conf.BindPFlags(sc.Cmd.Flags())
		sc.Conf.BindPFlags(sc.Cmd.PersistentFlags())
		sc.Conf.BindPFlags(RootCmd.PersistentFlags())
		sc.Conf.AutomaticEnv()
		sc.Conf.SetEnvPrefix(sc.EnvPrefix)
	}
	for _, sc := range censusSubcommands {
		Census.Cmd.AddCommand(sc.Cmd)
		sc.Conf = viper.New()
		sc.Conf.BindPFlags(sc.Cmd.Flags())
		sc.Conf.BindPFlags(Census.Cmd.PersistentFlags())
		sc.Conf.BindPFlags(RootCmd.PersistentFlags())
		sc.Conf.AutomaticEnv()
		sc.Conf.SetEnvPrefix(sc.EnvPrefix)
	}

	cobra.OnInitialize(func() {
		cfg := rootConf.GetString("config")
		if cfg == "" {
			return
		}
		for _, sc := range append(subcommands, censusSubcommands...) {
			sc.Conf.SetConfigFile(cfg)
			if err := sc.Conf.ReadInConfig(); err != nil {
				klog.Fatalf("reading config %q: %v", cfg, err)
			}
		}
	})
}
