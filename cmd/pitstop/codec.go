package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kass/pitstop/pkg/geo"
	"github.com/kass/pitstop/pkg/models"
	"github.com/kass/pitstop/pkg/polyline"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <polyline>",
	Short: "Decode an encoded polyline",
	Long:  `Print the coordinates of an encoded polyline, one "lat,lon" pair per line.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

var encodeCmd = &cobra.Command{
	Use:   "encode <lat,lon>...",
	Short: "Encode coordinates as a polyline",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEncode,
}

var precision float64

func init() {
	decodeCmd.Flags().Float64Var(&precision, "precision", polyline.DefaultPrecision, "Coordinate scale factor (1e5 or 1e6)")
	encodeCmd.Flags().Float64Var(&precision, "precision", polyline.DefaultPrecision, "Coordinate scale factor (1e5 or 1e6)")

	rootCmd.AddCommand(decodeCmd, encodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	points, err := polyline.DecodeWithPrecision(args[0], precision)
	if err != nil {
		return err
	}
	for _, p := range points {
		fmt.Printf("%s,%s\n", strconv.FormatFloat(p.Lat, 'f', -1, 64), strconv.FormatFloat(p.Lon, 'f', -1, 64))
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d points, %.0f m\n", len(points), geo.PathLength(points))
	return nil
}

func runEncode(cmd *cobra.Command, args []string) error {
	if err := polyline.ValidatePrecision(precision); err != nil {
		return err
	}
	points := make([]models.LatLng, 0, len(args))
	for _, arg := range args {
		p, err := parseLatLng(arg)
		if err != nil {
			return err
		}
		points = append(points, p)
	}
	fmt.Println(polyline.EncodeWithPrecision(points, precision))
	return nil
}
