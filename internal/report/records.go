package report

// Records is a fetched record set for one report kind.
type Records struct {
	Kind          Kind                 `json:"kind"`
	Registrations []RegistrationRecord `json:"registrations,omitempty"`
	Activities    []ActivityRecord     `json:"activities,omitempty"`
}

// Len returns the number of records for the kind.
func (r Records) Len() int {
	if r.Kind == KindAnnouncements {
		return len(r.Activities)
	}
	return len(r.Registrations)
}

// Filter narrows the records to the window.
func (r Records) Filter(window DateWindow) Records {
	return Records{
		Kind:          r.Kind,
		Registrations: Filter(r.Registrations, window),
		Activities:    Filter(r.Activities, window),
	}
}

// Aggregate buckets the records using the kind's strategy.
func (r Records) Aggregate() *Buckets {
	if r.Kind.Strategy() == ByActor {
		return AggregateActivities(r.Activities)
	}
	return AggregateRegistrations(r.Registrations)
}

// Rows returns the records as table rows.
func (r Records) Rows(layout string) []TableRow {
	if r.Kind == KindAnnouncements {
		source := BuildActivityRows(r.Activities, layout)
		rows := make([]TableRow, len(source))
		for i, row := range source {
			rows[i] = row
		}
		return rows
	}
	source := BuildRegistrationRows(r.Registrations, layout)
	rows := make([]TableRow, len(source))
	for i, row := range source {
		rows[i] = row
	}
	return rows
}
