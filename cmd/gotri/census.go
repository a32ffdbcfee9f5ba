package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri/catalog"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Census, CensusAdd, CensusLookup, CensusList SubCommand

var censusSubcommands = []*SubCommand{
	&CensusAdd, &CensusLookup, &CensusList,
}

func init() {
	Census.EnvPrefix = "GOTRI"
	Census.Cmd = &cobra.Command{
		Use:   "census",
		Short: "Maintain a census catalog of triangulations",
	}
	Census.Cmd.PersistentFlags().String("db", "", "Path of the census catalog (omit for in-memory).")

	CensusAdd.EnvPrefix = "GOTRI"
	CensusAdd.Cmd = &cobra.Command{
		Use:   "add",
		Short: "Add triangulations read from stdin, one gluing expression or iso-sig per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCensusAdd(CensusAdd.Conf)
		},
	}
	CensusAdd.Cmd.Flags().String("name_prefix", "", "Name entries by this prefix and their input position.")
	CensusAdd.Cmd.Flags().Bool("print", false, "Print each newly added entry.")

	CensusLookup.EnvPrefix = "GOTRI"
	CensusLookup.Cmd = &cobra.Command{
		Use:   "lookup <gluings-or-sig>",
		Short: "Find the census entry isomorphic to the given triangulation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCensusLookup(CensusLookup.Conf, args[0])
		},
	}

	CensusList.EnvPrefix = "GOTRI"
	CensusList.Cmd = &cobra.Command{
		Use:   "list",
		Short: "List census entries matching the given filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCensusList(CensusList.Conf)
		},
	}
	flags := CensusList.Cmd.Flags()
	flags.Int("min_size", 0, "Minimum simplex count.")
	flags.Int("max_size", 0, "Maximum simplex count (0 for no limit).")
	flags.String("orientable", "either", "Orientability filter: yes, no, or either.")
	flags.String("closed", "either", "No boundary facets: yes, no, or either.")
	flags.String("valid", "either", "Validity filter: yes, no, or either.")
	flags.String("connected", "either", "Connectedness filter: yes, no, or either.")
	flags.Bool("gluings", false, "Print gluing expressions.")
}

func openCensus(conf *viper.Viper, readOnly bool) (gotri.CatalogContext, catalog.Catalog, error) {
	ctx := gotri.NewCatalogContext()
	cat, err := catalog.Open(ctx, gotri.CatalogOpts{
		DbPathName: conf.GetString("db"),
		ReadOnly:   readOnly && conf.GetString("db") != "",
	})
	if err != nil {
		ctx.Close()
		return nil, nil, err
	}
	return ctx, cat, nil
}

func closeCensus(ctx gotri.CatalogContext) {
	ctx.Close()
	<-ctx.Done()
}

func runCensusAdd(conf *viper.Viper) error {
	ctx, cat, err := openCensus(conf, false)
	if err != nil {
		return err
	}
	defer closeCensus(ctx)

	dim := conf.GetInt("dim")
	badLines := 0
	stream := catalog.ScanLines(dim, os.Stdin, func(lineNum int, err error) {
		badLines++
		klog.Warningf("line %d: %v", lineNum, err)
	})
	stream = stream.AddTo(cat, catalog.AddOpts{
		NamePrefix: conf.GetString("name_prefix"),
	})
	if conf.GetBool("print") {
		stream = stream.Print(stdout, gotri.DefaultPrintOpts)
	}
	added := stream.PullAll()

	fmt.Printf("added %d, skipped %d unreadable, census holds %d in dimension %d\n", added, badLines, cat.NumEntries(dim), dim)
	return nil
}

func runCensusLookup(conf *viper.Viper, arg string) error {
	tri, err := readTriangulation(conf, arg)
	if err != nil {
		return err
	}
	ctx, cat, err := openCensus(conf, true)
	if err != nil {
		return err
	}
	defer closeCensus(ctx)

	entry, err := cat.Lookup(tri)
	if err != nil {
		return err
	}
	fmt.Printf("%q %s\n", entry.Name, entry.Sig)
	return nil
}

func runCensusList(conf *viper.Viper) error {
	sel := gotri.Selector{
		Dim:     conf.GetInt("dim"),
		MinSize: conf.GetInt("min_size"),
		MaxSize: conf.GetInt("max_size"),
	}
	for _, filter := range []struct {
		name string
		dst  *gotri.Tristate
	}{
		{"orientable", &sel.Orientable},
		{"closed", &sel.Closed},
		{"valid", &sel.Valid},
		{"connected", &sel.Connected},
	} {
		ts, err := parseTristate(conf.GetString(filter.name))
		if err != nil {
			return errors.Wrapf(err, "--%s", filter.name)
		}
		*filter.dst = ts
	}

	ctx, cat, err := openCensus(conf, true)
	if err != nil {
		return err
	}
	defer closeCensus(ctx)

	opts := gotri.DefaultPrintOpts
	opts.FVector = true
	opts.Gluings = conf.GetBool("gluings")
	n := catalog.SelectFromCatalog(cat, sel).Print(stdout, opts).PullAll()
	klog.V(2).Infof("listed %d entries", n)
	return nil
}

func parseTristate(s string) (gotri.Tristate, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "either", "any":
		return gotri.Either, nil
	case "yes", "y", "true":
		return gotri.Yes, nil
	case "no", "n", "false":
		return gotri.No, nil
	}
	return gotri.Either, errors.Wrapf(gotri.ErrInvalidArgument, "%q is not yes, no, or either", s)
}
