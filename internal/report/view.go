package report

// View is the assembled output of one report computation.
type View struct {
	Kind    Kind
	Chart   ChartKind
	Series  ChartSeries
	Buckets *Buckets
	Rows    []TableRow
	Window  DateWindow
}

// Assemble filters records by window, buckets them and builds chart and table views.
// Every call recomputes from the inputs.
func Assemble(records Records, window DateWindow, dateLayout string) View {
	filtered := records.Filter(window)
	buckets := filtered.Aggregate()
	return View{
		Kind:    records.Kind,
		Chart:   records.Kind.Chart(),
		Series:  BuildChartSeries(buckets),
		Buckets: buckets,
		Rows:    filtered.Rows(dateLayout),
		Window:  window,
	}
}
