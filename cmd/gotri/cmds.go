package main

import (
	"fmt"
	"io"
	"os"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri"
	"github.com/2x3systems/gotri/libtri/catalog"
	"github.com/2x3systems/gotri/libtri/surfaces"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Sig, Info, Canon, Surfaces SubCommand

func init() {
	Sig.EnvPrefix = "GOTRI"
	Sig.Cmd = &cobra.Command{
		Use:   "sig <gluings-or-sig>",
		Short: "Print the isomorphism signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tri, err := readTriangulation(Sig.Conf, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tri.IsoSig())
			return nil
		},
	}

	Info.EnvPrefix = "GOTRI"
	Info.Cmd = &cobra.Command{
		Use:   "info <gluings-or-sig>",
		Short: "Print skeletal properties and first homology",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tri, err := readTriangulation(Info.Conf, args[0])
			if err != nil {
				return err
			}
			return writeInfo(cmd.OutOrStdout(), tri)
		},
	}

	Canon.EnvPrefix = "GOTRI"
	Canon.Cmd = &cobra.Command{
		Use:   "canon <gluings-or-sig>",
		Short: "Print the gluings of the canonical labelling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tri, err := readTriangulation(Canon.Conf, args[0])
			if err != nil {
				return err
			}
			tri.MakeCanonical()
			fmt.Fprintln(cmd.OutOrStdout(), tri.GluingsString())
			return nil
		},
	}

	Surfaces.EnvPrefix = "GOTRI"
	Surfaces.Cmd = &cobra.Command{
		Use:   "surfaces <gluings-or-sig>",
		Short: "Print the normal surface matching equations and a basis of their solutions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tri, err := readTriangulation(Surfaces.Conf, args[0])
			if err != nil {
				return err
			}
			coords, err := surfaces.ParseCoords(Surfaces.Conf.GetString("coords"))
			if err != nil {
				return err
			}
			return writeSurfaces(cmd.OutOrStdout(), tri, coords)
		},
	}
	Surfaces.Cmd.Flags().String("coords", surfaces.Standard.String(),
		"Coordinate system: standard, almost-normal, quad, quad-oct, oriented-standard, oriented-quad.")
}

func readTriangulation(conf *viper.Viper, arg string) (*libtri.Triangulation, error) {
	return catalog.ParseLine(conf.GetInt("dim"), arg)
}

func writeInfo(out io.Writer, tri *libtri.Triangulation) error {
	tri.WriteAsString(out, gotri.PrintOpts{
		Sig:     true,
		FVector: true,
		Props:   true,
	})
	fmt.Fprintf(out, "gluings: %s\n", tri.GluingsString())
	fmt.Fprintf(out, "components: %v\n", tri.ComponentSizes())
	fmt.Fprintf(out, "boundary: %d facets, %d components\n", tri.CountBoundaryFacets(), tri.CountBoundaryComponents())

	if tri.Dimension() == 3 {
		for _, v := range tri.Faces(0) {
			fmt.Fprintf(out, "vertex %d: degree %d, link %v (euler %d)\n", v.Index(), v.Degree(), v.LinkType(), v.LinkEulerChar())
		}
	}
	for k := 0; k < tri.Dimension(); k++ {
		for _, face := range tri.Faces(k) {
			if !face.IsValid() {
				fmt.Fprintf(out, "invalid %d-face %d\n", k, face.Index())
			}
		}
	}

	if tri.IsValid() {
		h1, err := tri.HomologyH1()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "H1: %v\n", h1)
	}
	return nil
}

func writeSurfaces(out io.Writer, tri *libtri.Triangulation, coords surfaces.Coords) error {
	eqns, err := surfaces.MatchingEquations(tri, coords)
	if err != nil {
		return err
	}
	basis, err := surfaces.SolutionBasis(tri, coords)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%v: %d equations in %d unknowns, solution rank %d\n", coords, eqns.Rows(), eqns.Cols(), len(basis))

	for i, vec := range basis {
		fmt.Fprintf(out, "%4d: %v", i, vec)

		// Only non-negative solutions are surfaces
		if s, err := surfaces.NewSurface(tri, coords, vec); err == nil {
			fmt.Fprintf(out, "  euler %v", s.EulerChar())
			if s.IsVertexLinking() {
				io.WriteString(out, ", vertex linking")
			}
		}
		io.WriteString(out, "\n")
	}

	if coords == surfaces.Standard {
		for v := 0; v < tri.CountFaces(0); v++ {
			link, err := surfaces.VertexLink(tri, v)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "link of vertex %d: %v\n", v, link)
		}
	}
	return nil
}

type stdoutCloser struct {
	io.Writer
}

func (stdoutCloser) Close() error { return nil }

var stdout io.WriteCloser = stdoutCloser{os.Stdout}
