// Package chart derives validated, render-ready chart configurations from
// sanitized report series. The widget layer consumes Config verbatim; a
// false ok from Build means "render the empty-state placeholder instead of
// an empty chart shell".
package chart

import (
	"fmt"
	"strings"

	"github.com/posadmin/reports-gateway/pkg/format"
)

// Kind selects the chart family.
type Kind string

const (
	Bar   Kind = "bar"
	Line  Kind = "line"
	Area  Kind = "area"
	Pie   Kind = "pie"
	Donut Kind = "donut"
)

// Circular reports whether the kind belongs to the pie/donut family, where
// values sum to a whole instead of mapping to a category axis.
func (k Kind) Circular() bool { return k == Pie || k == Donut }

// BrandPalette is the fixed 6-color palette, cycled by series index.
var BrandPalette = []string{
	"#002B50", "#1f781a", "#335573", "#4c9348", "#668096", "#79ae76",
}

// NamedSeries is one cartesian series with an already-numeric data row.
type NamedSeries struct {
	Name  string
	Data  []float64
	Color string
}

// SeriesInput is the tagged union resolved once at the boundary: the shape
// of the incoming series is decided before Build runs, so the builder never
// sniffs types at runtime.
type SeriesInput interface {
	seriesInput()
}

// NamedSeriesList is a set of named series for cartesian charts.
type NamedSeriesList []NamedSeries

// FlatNumericList is a plain value sequence: the only accepted circular
// input, promoted to a single series named "Data" for cartesian kinds.
type FlatNumericList []float64

// EmptyInput carries no data at all.
type EmptyInput struct{}

func (NamedSeriesList) seriesInput() {}
func (FlatNumericList) seriesInput() {}
func (EmptyInput) seriesInput()      {}

// Flat coerces arbitrary backend values into a FlatNumericList; invalid
// entries become 0.
func Flat(values []any) FlatNumericList {
	out := make(FlatNumericList, len(values))
	for i, v := range values {
		out[i] = format.Sanitize(v)
	}
	return out
}

// Series is a display-ready series: sanitized data, assigned color, and the
// volume flag driving the bare-vs-currency tooltip prefix.
type Series struct {
	Name   string    `json:"name"`
	Data   []float64 `json:"data"`
	Color  string    `json:"color"`
	Volume bool      `json:"volume"`
}

// SliceTooltip is one precomputed tooltip row for circular charts.
type SliceTooltip struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Percent string `json:"percent"`
	Color   string `json:"color"`
}

// Config is the immutable chart configuration handed to the widget layer.
type Config struct {
	Kind       Kind     `json:"kind"`
	Series     []Series `json:"series"`
	Categories []string `json:"categories"`

	// Circular charts ship their tooltip rows precomputed; cartesian
	// widgets compose tooltips per hovered category from Series.
	SliceTooltips []SliceTooltip `json:"slice_tooltips,omitempty"`
	Total         float64        `json:"total,omitempty"`

	// AxisVolume selects the bare compact axis formatter over the
	// currency one, keyed off the first series' name.
	AxisVolume bool `json:"axis_volume"`
	ShowGrid   bool `json:"show_grid"`

	// RenderKey changes whenever the chart is materially different
	// (kind, series identity, category identity); the widget layer
	// remounts instead of patching when it changes.
	RenderKey string `json:"render_key"`
}

// Options carries the explicit display constants; zero value gets the brand
// palette.
type Options struct {
	Palette []string
}

// Build derives a Config from a resolved series input. ok is false when the
// input holds no positive value, which callers render as a no-data state.
func Build(kind Kind, input SeriesInput, categories []string, opts Options) (*Config, bool) {
	palette := opts.Palette
	if len(palette) == 0 {
		palette = BrandPalette
	}
	cats := cleanCategories(categories)

	if kind.Circular() {
		return buildCircular(kind, input, cats, palette)
	}
	return buildCartesian(kind, input, cats, palette)
}

func buildCircular(kind Kind, input SeriesInput, categories []string, palette []string) (*Config, bool) {
	flat, ok := input.(FlatNumericList)
	if !ok {
		// Circular charts only accept a flat numeric sequence.
		return nil, false
	}

	var total float64
	hasData := false
	for _, v := range flat {
		if v > 0 {
			hasData = true
		}
		total += v
	}
	if !hasData {
		return nil, false
	}

	tooltips := make([]SliceTooltip, len(flat))
	series := make([]Series, len(flat))
	for i, v := range flat {
		label := ""
		if i < len(categories) {
			label = categories[i]
		}
		percent := 0.0
		if total > 0 {
			percent = v / total * 100
		}
		color := palette[i%len(palette)]
		tooltips[i] = SliceTooltip{
			Label:   label,
			Value:   format.Count(v),
			Percent: format.Percent(percent, 1),
			Color:   color,
		}
		series[i] = Series{Name: label, Data: []float64{v}, Color: color, Volume: true}
	}

	return &Config{
		Kind:          kind,
		Series:        series,
		Categories:    categories,
		SliceTooltips: tooltips,
		Total:         total,
		AxisVolume:    true,
		ShowGrid:      false,
		RenderKey:     renderKey(kind, series, categories),
	}, true
}

func buildCartesian(kind Kind, input SeriesInput, categories []string, palette []string) (*Config, bool) {
	var named []NamedSeries
	switch in := input.(type) {
	case NamedSeriesList:
		named = in
	case FlatNumericList:
		// Simple value array promoted to a single series.
		named = []NamedSeries{{Name: "Data", Data: in}}
	default:
		// Malformed shape: keep the chart shell alive with one empty
		// series rather than failing the render.
		named = []NamedSeries{{Name: "Series"}}
	}

	hasData := false
	series := make([]Series, len(named))
	for i, s := range named {
		data := make([]float64, len(s.Data))
		for j, v := range s.Data {
			data[j] = format.Sanitize(v)
			if data[j] > 0 {
				hasData = true
			}
		}
		color := s.Color
		if color == "" {
			color = palette[i%len(palette)]
		}
		series[i] = Series{
			Name:   s.Name,
			Data:   data,
			Color:  color,
			Volume: format.IsVolumeSeries(s.Name),
		}
	}
	if !hasData {
		return nil, false
	}

	axisVolume := len(series) > 0 && series[0].Volume

	return &Config{
		Kind:       kind,
		Series:     series,
		Categories: categories,
		AxisVolume: axisVolume,
		ShowGrid:   true,
		RenderKey:  renderKey(kind, series, categories),
	}, true
}

// AxisLabel formats one y-axis tick according to the config's volume mode.
func (c *Config) AxisLabel(v float64) string {
	return format.CompactCurrency(v, c.AxisVolume)
}

// TooltipValue formats a hovered cartesian value for the given series,
// applying the per-series currency/bare rule.
func (c *Config) TooltipValue(seriesIdx int, v float64) string {
	if seriesIdx < len(c.Series) && c.Series[seriesIdx].Volume {
		return format.Count(v)
	}
	return format.Currency(v)
}

func cleanCategories(categories []string) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		if c == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func renderKey(kind Kind, series []Series, categories []string) string {
	names := make([]string, len(series))
	for i, s := range series {
		names[i] = fmt.Sprintf("%s:%d", s.Name, len(s.Data))
	}
	return fmt.Sprintf("%s|%s|%s", kind, strings.Join(names, ","), strings.Join(categories, ","))
}
