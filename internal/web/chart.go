package web

import "github.com/Veraticus/defect-triage/internal/model"

// chartPalette cycles for categories beyond its length.
var chartPalette = []string{
	"#6a11cb", "#2575fc", "#28a745", "#dc3545", "#ffc107",
	"#17a2b8", "#6610f2", "#fd7e14", "#20c997", "#e83e8c",
}

// ChartData feeds the Chart.js category chart.
type ChartData struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
	Colors []string `json:"colors"`
}

func newChartData(s model.Summary) ChartData {
	c := ChartData{
		Labels: make([]string, 0, len(s.Counts)),
		Data:   make([]int, 0, len(s.Counts)),
		Colors: make([]string, 0, len(s.Counts)),
	}
	for i, cc := range s.Counts {
		c.Labels = append(c.Labels, cc.Category)
		c.Data = append(c.Data, cc.Count)
		c.Colors = append(c.Colors, chartPalette[i%len(chartPalette)])
	}
	return c
}
