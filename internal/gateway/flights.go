package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const maxFlightRows = 50

// BoundingBox limits a flight query to a geographic region.
type BoundingBox struct {
	LatMin float64 `json:"lamin"`
	LonMin float64 `json:"lomin"`
	LatMax float64 `json:"lamax"`
	LonMax float64 `json:"lomax"`
}

// EuropeBox is the region queried when no bounding box is supplied.
var EuropeBox = BoundingBox{LatMin: 35, LonMin: -10, LatMax: 55, LonMax: 25}

// Region pairs a display name with its bounding box.
type Region struct {
	Name string      `json:"name"`
	Box  BoundingBox `json:"box"`
}

// Regions lists the selectable flight-tracker regions.
var Regions = []Region{
	{Name: "Europe", Box: EuropeBox},
	{Name: "North America", Box: BoundingBox{LatMin: 25, LonMin: -130, LatMax: 50, LonMax: -60}},
	{Name: "South America", Box: BoundingBox{LatMin: -60, LonMin: -90, LatMax: 15, LonMax: -30}},
	{Name: "Africa", Box: BoundingBox{LatMin: -35, LonMin: -20, LatMax: 38, LonMax: 55}},
	{Name: "Asia", Box: BoundingBox{LatMin: 10, LonMin: 60, LatMax: 50, LonMax: 150}},
	{Name: "Middle East", Box: BoundingBox{LatMin: 12, LonMin: 30, LatMax: 42, LonMax: 65}},
}

// RegionByName returns the named region, falling back to Europe.
func RegionByName(name string) Region {
	for _, r := range Regions {
		if strings.EqualFold(r.Name, name) {
			return r
		}
	}
	return Regions[0]
}

// RegionSelector holds the active flight-tracker region. The poll loop
// reads it on every fetch, so a selection takes effect from the next
// refresh onward.
type RegionSelector struct {
	mu     sync.Mutex
	region Region
}

// NewRegionSelector starts on the default region, Europe.
func NewRegionSelector() *RegionSelector {
	return &RegionSelector{region: Regions[0]}
}

// Current returns the active region.
func (s *RegionSelector) Current() Region {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.region
}

// Select activates the named region and returns it. Unknown names fall
// back to Europe, matching RegionByName.
func (s *RegionSelector) Select(name string) Region {
	region := RegionByName(name)
	s.mu.Lock()
	s.region = region
	s.mu.Unlock()
	return region
}

// Flight is one decoded aircraft state vector. Optional upstream fields
// stay nil rather than being zero-filled.
type Flight struct {
	ICAO24         string   `json:"icao24"`
	Callsign       string   `json:"callsign"`
	OriginCountry  string   `json:"originCountry"`
	Longitude      *float64 `json:"longitude,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	AltitudeMeters *int     `json:"altitudeMeters,omitempty"`
	VelocityKmh    *int     `json:"velocityKmh,omitempty"`
	HeadingDegrees *int     `json:"headingDegrees,omitempty"`
	OnGround       bool     `json:"onGround"`
}

// FlightClient fetches state vectors from the OpenSky network.
type FlightClient struct {
	opts   Options
	logger zerolog.Logger
	client *http.Client
}

// NewFlightClient constructs a flight fetcher.
func NewFlightClient(opts Options, logger zerolog.Logger) *FlightClient {
	opts = opts.normalized("https://opensky-network.org/api")
	return &FlightClient{
		opts:   opts,
		logger: logger.With().Str("component", "flight_gateway").Logger(),
		client: &http.Client{Timeout: opts.Timeout},
	}
}

// Flights retrieves up to 50 state vectors inside the bounding box.
// A nil box defaults to Europe. A null "states" field is an empty
// result, not an error.
func (f *FlightClient) Flights(ctx context.Context, box *BoundingBox) ([]Flight, error) {
	if box == nil {
		b := EuropeBox
		box = &b
	}

	values := url.Values{}
	values.Set("lamin", formatCoord(box.LatMin))
	values.Set("lomin", formatCoord(box.LonMin))
	values.Set("lamax", formatCoord(box.LatMax))
	values.Set("lomax", formatCoord(box.LonMax))

	endpoint := fmt.Sprintf("%s/states/all?%s", f.opts.BaseURL, values.Encode())
	req, err := newRequest(ctx, endpoint, f.opts.UserAgent)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch flights: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp.StatusCode) {
		return nil, statusError("opensky", resp.StatusCode)
	}

	var payload struct {
		Time   int64           `json:"time"`
		States [][]interface{} `json:"states"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode flights payload: %w", err)
	}

	if payload.States == nil {
		return []Flight{}, nil
	}

	rows := payload.States
	if len(rows) > maxFlightRows {
		rows = rows[:maxFlightRows]
	}

	flights := make([]Flight, 0, len(rows))
	for _, row := range rows {
		flights = append(flights, decodeStateRow(row))
	}

	f.logger.Debug().Int("count", len(flights)).Msg("decoded flight states")
	return flights, nil
}

// decodeStateRow converts one positional state array into a Flight.
// Upstream positions: 0 icao24, 1 callsign, 2 origin_country,
// 5 longitude, 6 latitude, 7 baro_altitude, 8 on_ground, 9 velocity,
// 10 true_track. Anything beyond is ignored.
func decodeStateRow(row []interface{}) Flight {
	flight := Flight{
		ICAO24:        stringAt(row, 0),
		Callsign:      strings.TrimSpace(stringAt(row, 1)),
		OriginCountry: stringAt(row, 2),
		OnGround:      boolAt(row, 8),
	}
	if flight.Callsign == "" {
		flight.Callsign = "N/A"
	}

	flight.Longitude = floatAt(row, 5)
	flight.Latitude = floatAt(row, 6)

	if alt := floatAt(row, 7); alt != nil {
		flight.AltitudeMeters = roundedInt(*alt)
	}
	if velocity := floatAt(row, 9); velocity != nil {
		flight.VelocityKmh = roundedInt(*velocity * 3.6)
	}
	if heading := floatAt(row, 10); heading != nil {
		flight.HeadingDegrees = roundedInt(*heading)
	}

	return flight
}

func stringAt(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return s
}

func floatAt(row []interface{}, i int) *float64 {
	if i >= len(row) {
		return nil
	}
	f, okAssert := row[i].(float64)
	if !okAssert {
		return nil
	}
	return &f
}

func boolAt(row []interface{}, i int) bool {
	if i >= len(row) {
		return false
	}
	b, _ := row[i].(bool)
	return b
}

func roundedInt(v float64) *int {
	n := int(math.Round(v))
	return &n
}

func formatCoord(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
}

var _ FlightSource = (*FlightClient)(nil)
