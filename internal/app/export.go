package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"skydeck/internal/gateway"
)

// Export fetches the current market table and renders it as CSV and/or
// a 7-day sparkline PNG for one coin.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	gw := a.newGateways()
	assets, err := gw.crypto.Crypto(ctx)
	if err != nil {
		return err
	}
	if len(assets) == 0 {
		a.Logger.Info().Msg("no market data to export")
		return nil
	}

	if opts.CSVPath != "" {
		if err := writeMarketsCSV(opts.CSVPath, assets); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.CSVPath).Int("assets", len(assets)).Msg("market table exported")
	}

	if opts.PNGPath != "" {
		coin := strings.ToLower(opts.Coin)
		if coin == "" {
			coin = assets[0].ID
		}
		asset, found := findAsset(assets, coin)
		if !found {
			return fmt.Errorf("coin %q not in the tracked market table", opts.Coin)
		}
		if err := writeSparklinePNG(opts.PNGPath, asset, opts.MaxPoints); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.PNGPath).Str("coin", asset.ID).Msg("sparkline exported")
	}

	return nil
}

func findAsset(assets []gateway.CryptoAsset, id string) (gateway.CryptoAsset, bool) {
	for _, asset := range assets {
		if asset.ID == id || asset.Symbol == id {
			return asset, true
		}
	}
	return gateway.CryptoAsset{}, false
}

func writeMarketsCSV(path string, assets []gateway.CryptoAsset) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"id", "symbol", "name", "price_usd", "change_24h_pct", "market_cap_usd", "volume_usd"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, asset := range assets {
		record := []string{
			asset.ID,
			asset.Symbol,
			asset.Name,
			strconv.FormatFloat(asset.CurrentPrice, 'f', -1, 64),
			strconv.FormatFloat(asset.PriceChangePct24h, 'f', 2, 64),
			strconv.FormatFloat(asset.MarketCap, 'f', 0, 64),
			strconv.FormatFloat(asset.TotalVolume, 'f', 0, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

// writeSparklinePNG charts the coin's 7-day price series. Points are
// hourly samples ending now.
func writeSparklinePNG(path string, asset gateway.CryptoAsset, maxPoints int) error {
	if len(asset.Sparkline7d) < 2 {
		return fmt.Errorf("coin %q has no sparkline data", asset.ID)
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	prices := downsample(asset.Sparkline7d, maxPoints)

	end := time.Now().UTC()
	span := 7 * 24 * time.Hour
	step := span / time.Duration(len(prices)-1)

	x := make([]time.Time, len(prices))
	for i := range prices {
		x[i] = end.Add(-span + time.Duration(i)*step)
	}

	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: fmt.Sprintf("%s (USD)", strings.ToUpper(asset.Symbol)),
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.2f")
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    asset.Name,
				XValues: x,
				YValues: prices,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func downsample(points []float64, max int) []float64 {
	if max <= 0 || len(points) <= max {
		return points
	}

	result := make([]float64, 0, max)
	step := float64(len(points)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(points) {
			idx = len(points) - 1
		}
		result = append(result, points[idx])
	}
	return result
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
