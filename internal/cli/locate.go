package cli

import (
	"errors"
	"fmt"

	"geobuild-atlas/internal/geo"
	"geobuild-atlas/internal/pkg/validation"

	"github.com/spf13/cobra"
)

func newLocateCmd(opts *options) *cobra.Command {
	var lon, lat, radius float64
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Project a longitude/latitude onto the globe",
		Long: `Locate prints the 3D scene position for a coordinate. Out-of-range
coordinates are clamped to [-180,180] x [-90,90].

Example:
  atlasctl locate --lon -74.006 --lat 40.7128 --radius 2.1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validation.IsValidRadius(radius) {
				return errors.New("radius must be a positive number")
			}
			c := geo.Coordinate{Longitude: lon, Latitude: lat}
			pt := geo.Project(c, radius)
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"coordinate": c.Clamp(),
					"clamped":    !c.InRange(),
					"position":   pt.Array(),
				})
			}
			if !c.InRange() {
				fmt.Fprintf(cmd.ErrOrStderr(), "clamped to %.4f, %.4f\n", c.Clamp().Longitude, c.Clamp().Latitude)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.6f %.6f %.6f\n", pt.X, pt.Y, pt.Z)
			return nil
		},
	}
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&radius, "radius", geo.GlobeRadius, "sphere radius")
	return cmd
}
