package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"skysdk/cfg"
	"skysdk/internal/travel"
	"skysdk/pkg/logger"
	"skysdk/pkg/skyclient"
)

// Example CLI: resolve the endpoints, search flights, print the results and
// persist them to a JSON file.
func main() {
	origin := flag.String("origin", "SDF", "origin airport code or free text")
	destination := flag.String("destination", "LAS", "destination airport code or free text")
	date := flag.String("date", time.Now().AddDate(0, 0, 1).Format("2006-01-02"), "departure date YYYY-MM-DD")
	cabinClass := flag.String("cabin", "economy", "cabin class")
	withDetails := flag.Bool("details", false, "fetch per-itinerary details")
	output := flag.String("out", "structured_flights.json", "output file for serialized flights")
	flag.Parse()

	apiCfg, err := cfg.LoadAPI()
	if err != nil {
		log.Fatal(err)
	}

	zlogger := logger.NewZeroLog("development")

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}
	client := skyclient.NewClient(skyclient.Config{
		APIKey:  apiCfg.Key,
		APIHost: apiCfg.Host,
	}, httpClient, zlogger)

	normalizer := travel.NewNormalizer(zlogger)
	service := travel.NewService(client, normalizer, zlogger)

	ctx := context.Background()

	locations, err := service.SearchLocations(ctx, *origin, true)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(locations.Render())

	response, err := service.SearchFlights(ctx, travel.SearchRequest{
		Origin:      *origin,
		Destination: *destination,
		Date:        *date,
		CabinClass:  *cabinClass,
		WithDetails: *withDetails,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(response.Render())

	if err := response.SaveJSON(*output); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Saved %d flights to %s\n", response.TotalResults, *output)
}
