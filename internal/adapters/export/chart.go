package export

import (
	"fmt"
	"io"

	"github.com/okian/trackmeet/internal/domain/model"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartHeight     = 400
	chartMinWidth   = 600
	chartBarWidth   = 40
	chartBarSpacing = 30
	noScoresMessage = "No scores recorded yet"
)

var (
	barColor  = drawing.ColorFromHex("1f6feb")
	textColor = drawing.ColorFromHex("24292f")
)

// RenderScoreboardChart writes a PNG bar chart of team totals in board
// order. An empty board renders a placeholder image.
func RenderScoreboardChart(w io.Writer, scores []model.TeamScore) error {
	if len(scores) == 0 {
		return renderPlaceholder(w)
	}

	top := 1
	bars := make([]chart.Value, len(scores))
	for i, s := range scores {
		bars[i] = chart.Value{
			Label: s.Name,
			Value: float64(s.TotalScore),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
		top = max(top, s.TotalScore)
	}

	graph := chart.BarChart{
		Title:      "Team Scores",
		Width:      max(chartMinWidth, len(bars)*(chartBarWidth+chartBarSpacing)+200),
		Height:     chartHeight,
		BarWidth:   chartBarWidth,
		BarSpacing: chartBarSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: textColor},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(top)},
		},
		XAxis: chart.Style{FontColor: textColor},
		Bars:  bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render scoreboard chart: %w", err)
	}
	return nil
}

func renderPlaceholder(w io.Writer) error {
	const width, height = 400, 200

	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("render scoreboard chart: %w", err)
	}
	r, err := chart.PNG(width, height)
	if err != nil {
		return fmt.Errorf("render scoreboard chart: %w", err)
	}

	r.SetFillColor(drawing.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(textColor)
	r.SetFontSize(12)
	tb := r.MeasureText(noScoresMessage)
	r.Text(noScoresMessage, (width-tb.Width())/2, (height+tb.Height())/2)

	if err := r.Save(w); err != nil {
		return fmt.Errorf("render scoreboard chart: %w", err)
	}
	return nil
}
