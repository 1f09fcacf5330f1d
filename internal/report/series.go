package report

// Dataset is one named series aligned positionally with ChartSeries.Labels.
type Dataset struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Values []int  `json:"values"`
}

// ChartSeries is chart-ready data: ordered labels plus aligned datasets.
type ChartSeries struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type seriesDef struct {
	key   string
	label string
}

var roleSeries = []seriesDef{
	{key: string(RoleStudent), label: "Students"},
	{key: string(RoleLecturer), label: "Lecturers"},
}

var actorSeries = []seriesDef{
	{key: ActivitySubKey, label: "Announcements"},
}

// BuildChartSeries converts buckets into chart series. Month buckets are ordered
// chronologically, actor buckets keep first-seen order. Missing counts are 0.
func BuildChartSeries(buckets *Buckets) ChartSeries {
	if buckets == nil {
		return ChartSeries{Labels: []string{}, Datasets: []Dataset{}}
	}

	labels := buckets.Keys()
	defs := actorSeries
	if buckets.Strategy() == ByMonthAndRole {
		labels = sortedMonthKeys(labels)
		defs = roleSeries
	}
	if labels == nil {
		labels = []string{}
	}

	datasets := make([]Dataset, 0, len(defs))
	for _, def := range defs {
		values := make([]int, len(labels))
		for i, label := range labels {
			values[i] = buckets.Count(label, def.key)
		}
		datasets = append(datasets, Dataset{Key: def.key, Label: def.label, Values: values})
	}

	return ChartSeries{Labels: labels, Datasets: datasets}
}

// Dataset returns the dataset with the given key.
func (s ChartSeries) Dataset(key string) (Dataset, bool) {
	for _, dataset := range s.Datasets {
		if dataset.Key == key {
			return dataset, true
		}
	}
	return Dataset{}, false
}

var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// PaletteColor returns a stable color for an index, cycling through a fixed palette.
func PaletteColor(index int) string {
	if index < 0 {
		index = -index
	}
	return palette[index%len(palette)]
}
