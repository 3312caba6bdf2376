package chart

import (
	"bytes"
	"fmt"
	"time"

	"stockbot/internal/domain"

	"github.com/wcharczuk/go-chart/v2"
)

// Renderer produces PNG price charts from daily close history
type Renderer struct {
	smaPeriod int
}

// NewRenderer creates a renderer. smaPeriod <= 0 disables the overlay.
func NewRenderer(smaPeriod int) *Renderer {
	return &Renderer{smaPeriod: smaPeriod}
}

// Render draws the close-price series for a symbol, with an SMA overlay when
// enough points exist. Returns domain.ErrNoData for fewer than 2 points.
func (r *Renderer) Render(symbol, currency string, months int, hist domain.History) ([]byte, error) {
	if len(hist) < 2 {
		return nil, domain.ErrNoData
	}

	xs := make([]time.Time, len(hist))
	ys := make([]float64, len(hist))
	for i, c := range hist {
		xs[i] = c.Time
		ys[i] = c.Close.InexactFloat64()
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name:    symbol,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				StrokeWidth: 2.0,
			},
		},
	}

	if r.smaPeriod > 1 && len(ys) >= r.smaPeriod {
		series = append(series, chart.TimeSeries{
			Name:    fmt.Sprintf("SMA(%d)", r.smaPeriod),
			XValues: xs[r.smaPeriod-1:],
			YValues: sma(ys, r.smaPeriod),
			Style: chart.Style{
				StrokeColor:     chart.ColorOrange,
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{4.0, 2.0},
			},
		})
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Price Over %d Months", symbol, months),
		Width:  1000,
		Height: 500,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: fmt.Sprintf("Price (%s)", currency),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return buf.Bytes(), nil
}

// sma computes a simple moving average over values using a running sum.
// The result has len(values)-period+1 points aligned to the window end.
func sma(values []float64, period int) []float64 {
	out := make([]float64, 0, len(values)-period+1)

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}
	return out
}
