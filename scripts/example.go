package main

import (
	"fmt"
	"log"

	"github.com/kass/pitstop/internal/mockapi"
	"github.com/kass/pitstop/pkg/geo"
	"github.com/kass/pitstop/pkg/mapview"
	"github.com/kass/pitstop/pkg/models"
	"github.com/kass/pitstop/pkg/polyline"
	"github.com/kass/pitstop/pkg/render"
	"github.com/kass/pitstop/pkg/store"
)

func main() {
	// Decode a route geometry
	path, err := polyline.Decode("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("=== Decoded Polyline ===")
	for i, p := range path {
		fmt.Printf("  %d. (%.5f, %.5f)\n", i+1, p.Lat, p.Lon)
	}
	fmt.Printf("Path length: %.1f km\n\n", geo.PathLength(path)/1000)

	// Plan between two landmarks using the fixture generator
	start := models.LatLng{Lat: 1.29773431957503, Lon: 103.901376105637}
	end := models.LatLng{Lat: 1.28376015867, Lon: 103.85975547}
	routes := mockapi.GenerateRoutes(start, end, 10, mockapi.DefaultPlaces())

	state := store.New()
	state.SetRoutes(routes)
	state.Select(0)

	out := render.New(false)
	fmt.Println("=== Routes ===")
	fmt.Print(out.RoutesPanel(state.Routes(), render.PanelOptions{Selected: 0, Cursor: 0}))

	// Index every parking spot and look around the destination
	index := geo.NewParkingIndex()
	if err := index.IndexRoutes(routes); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nIndexed %d parking spots\n", index.Count())

	fmt.Println("\n=== 3 Nearest Spots to Marina Bay Sands ===")
	fmt.Print(out.Matches(index.Nearest(end, 3)))

	fmt.Println("\n=== Spots within 1 km of the start ===")
	nearby, err := index.WithinRadius(start, 1000)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(out.Matches(nearby))

	// Export the selected route as GeoJSON
	route, _, _ := state.Current()
	fc, err := mapview.FeatureCollection(&route, &start)
	if err != nil {
		log.Fatal(err)
	}
	if b, ok := mapview.Bound(fc); ok {
		fmt.Printf("\nMap bounds: (%.5f, %.5f) - (%.5f, %.5f)\n", b.Min.Lat(), b.Min.Lon(), b.Max.Lat(), b.Max.Lon())
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("GeoJSON: %d features, %d bytes\n", len(fc.Features), len(data))
}
