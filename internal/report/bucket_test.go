package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMonthKeyIsNotZeroPadded(t *testing.T) {
	require.Equal(t, "2024-1", MonthKey(day("2024-01-15")))
	require.Equal(t, "2024-10", MonthKey(day("2024-10-02")))
}

func TestAggregateRegistrationsCountsPerMonthAndRole(t *testing.T) {
	buckets := AggregateRegistrations(scenarioRegistrations())

	require.Equal(t, []string{"2024-1", "2024-2"}, buckets.Keys())
	require.Equal(t, map[string]map[string]int{
		"2024-1": {"student": 1, "lecturer": 1},
		"2024-2": {"student": 1},
	}, buckets.Map())
	require.Equal(t, 3, buckets.Total())
}

func TestAggregateRegistrationsDropsUnrecognizedRoles(t *testing.T) {
	records := append(scenarioRegistrations(),
		RegistrationRecord{ID: 4, Name: "Root", Role: "admin", CreatedAt: day("2024-03-05")},
		RegistrationRecord{ID: 5, Name: "Zed", Role: "admin", CreatedAt: day("2024-01-07")},
	)

	buckets := AggregateRegistrations(records)

	recognized := 0
	for _, record := range records {
		if recognizedRole(record.Role) {
			recognized++
		}
	}
	require.Equal(t, recognized, buckets.Total())
	require.Equal(t, 0, buckets.Count("2024-3", "admin"))
	require.Contains(t, buckets.Keys(), "2024-3")
}

func TestAggregateRegistrationsSkipsMalformedTimestamps(t *testing.T) {
	records := []RegistrationRecord{
		{ID: 1, Role: RoleStudent},
		{ID: 2, Role: RoleStudent, CreatedAt: day("2024-05-05")},
	}

	buckets := AggregateRegistrations(records)
	require.Equal(t, []string{"2024-5"}, buckets.Keys())
	require.Equal(t, 1, buckets.Total())
}

func TestAggregateActivitiesScenarioC(t *testing.T) {
	records := []ActivityRecord{
		{ID: 1, ActorName: "Alice", CreatedAt: day("2024-01-01")},
		{ID: 2, ActorName: "Bob", CreatedAt: day("2024-01-02")},
		{ID: 3, ActorName: "Alice", CreatedAt: day("2024-01-03")},
	}

	buckets := AggregateActivities(records)
	require.Equal(t, []string{"Alice", "Bob"}, buckets.Keys())
	require.Equal(t, 2, buckets.Count("Alice", ActivitySubKey))
	require.Equal(t, 1, buckets.Count("Bob", ActivitySubKey))
	require.Equal(t, len(records), buckets.Total())
}

func TestAggregateActivitiesUnknownActorScenarioD(t *testing.T) {
	records := []ActivityRecord{
		{ID: 1, Message: "hello"},
		{ID: 2, Message: "again", ActorName: "   "},
		{ID: 3, Message: "undated", ActorName: "Dana"},
	}

	buckets := AggregateActivities(records)
	require.Equal(t, []string{UnknownActor, "Dana"}, buckets.Keys())
	require.Equal(t, 2, buckets.Count(UnknownActor, ActivitySubKey))
	require.Equal(t, len(records), buckets.Total())
}

func TestSortedMonthKeysIsChronological(t *testing.T) {
	keys := []string{"2024-10", "2024-2", "2023-12", "2024-1", "bogus"}
	require.Equal(t, []string{"2023-12", "2024-1", "2024-2", "2024-10", "bogus"}, sortedMonthKeys(keys))
}

func TestMonthKeyRoundTrip(t *testing.T) {
	for month := time.January; month <= time.December; month++ {
		key := MonthKey(time.Date(2025, month, 3, 0, 0, 0, 0, time.UTC))
		year, parsedMonth, ok := parseMonthKey(key)
		require.True(t, ok)
		require.Equal(t, 2025, year)
		require.Equal(t, int(month), parsedMonth)
	}
}
