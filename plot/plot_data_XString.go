package plot

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var defaultBarColor = drawing.ColorFromHex("3b82f6")

type dataXStringsForGraph struct {
	xValues   []string
	yValues   []float64
	colors    []drawing.Color
	nameYAxis string
	nameGraph string
}

func NewDataXStringsForGraph(xValues []string, y []float64, nameYAxis, nameGraph string) dataXStringsForGraph {
	return dataXStringsForGraph{
		xValues:   xValues,
		yValues:   y,
		nameYAxis: nameYAxis,
		nameGraph: nameGraph,
	}
}

// withColors returns a copy where bar i is drawn in colors[i].
func (d dataXStringsForGraph) withColors(colors []drawing.Color) dataXStringsForGraph {
	d.colors = colors
	return d
}

func (d dataXStringsForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d dataXStringsForGraph) getNameYAxis() string {
	return d.nameYAxis
}
func (d dataXStringsForGraph) getYValues() []float64 {
	return d.yValues
}
func (d dataXStringsForGraph) getXValues() []string {
	return d.xValues
}

func (d dataXStringsForGraph) lenXValues() int {
	return len(d.xValues)
}

func (d dataXStringsForGraph) calculateChartDimensions(minBarWidth float64) (width, height int) {
	// Проверка входных параметров
	if len(d.yValues) == 0 || d.lenXValues() <= 0 || minBarWidth <= 0 {
		return 0, 0
	}
	x := 1.1
	if d.lenXValues() < 2 {
		x = 10.0
	} else if d.lenXValues() < 10 {
		x = 3.0
	}

	// Константы для отступов и пропорций
	const (
		paddingY     = 100        // отступ для оси Y и подписей
		spacingRatio = 0.2        // соотношение отступа между столбцами к ширине столбца
		aspectRatio  = 9.0 / 16.0 // соотношение сторон по умолчанию
	)

	barSpacing := minBarWidth * spacingRatio
	totalWidth := (minBarWidth+barSpacing)*float64(d.lenXValues()) + paddingY
	width = int(totalWidth*x) + paddingY
	height = int(float64(width) * aspectRatio)
	return width, height
}

func (d dataXStringsForGraph) generateBarValues() []chart.Value {
	bars := make([]chart.Value, 0, len(d.xValues))
	for i, label := range d.xValues {
		color := defaultBarColor
		if i < len(d.colors) {
			color = d.colors[i]
		}
		bars = append(bars, chart.Value{
			Value: d.yValues[i],
			Label: label,
			Style: chart.Style{
				FillColor:   color.WithAlpha(200),
				StrokeColor: color,
				StrokeWidth: 1,
			},
		})
	}
	return bars
}

func (d dataXStringsForGraph) generateGrid() []chart.Tick {
	var ticks []chart.Tick
	max := findMaxValue(d.yValues)
	gridStep := calculateGridStep(max)
	if gridStep <= 0 {
		return nil
	}
	format := "%.0f"
	if gridStep < 1 {
		format = "%.1f"
	}
	maxY := math.Ceil(max/gridStep) * gridStep
	for i := 0; float64(i)*gridStep <= maxY+gridStep/1e6; i++ {
		v := float64(i) * gridStep
		ticks = append(ticks, chart.Tick{
			Value: v,
			Label: fmt.Sprintf(format, v),
		})
	}
	return ticks
}
