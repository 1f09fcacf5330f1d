package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Strategy selects how records are grouped.
type Strategy int

const (
	// ByMonthAndRole groups registrations by "YYYY-M" and counts per role.
	ByMonthAndRole Strategy = iota
	// ByActor groups announcements by sender name with a single count.
	ByActor
)

// ActivitySubKey is the only sub-key in ByActor buckets.
const ActivitySubKey = "announcements"

// RecognizedRoles lists the roles broken down in registration reports, in dataset order.
var RecognizedRoles = []Role{RoleStudent, RoleLecturer}

func recognizedRole(role Role) bool {
	for _, r := range RecognizedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// MonthKey derives the "YYYY-M" bucket key of t. Months are not zero padded.
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%d-%d", t.Year(), int(t.Month()))
}

// parseMonthKey splits a MonthKey back into year and month.
func parseMonthKey(key string) (int, int, bool) {
	year, month, found := strings.Cut(key, "-")
	if !found {
		return 0, 0, false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	return y, m, true
}

// Buckets maps bucket keys to per sub-key counts and remembers first-seen key order.
type Buckets struct {
	strategy Strategy
	keys     []string
	counts   map[string]map[string]int
}

func newBuckets(strategy Strategy) *Buckets {
	return &Buckets{strategy: strategy, counts: map[string]map[string]int{}}
}

func (b *Buckets) ensure(key string) map[string]int {
	sub, ok := b.counts[key]
	if !ok {
		sub = map[string]int{}
		b.counts[key] = sub
		b.keys = append(b.keys, key)
	}
	return sub
}

func (b *Buckets) add(key, subKey string) {
	b.ensure(key)[subKey]++
}

// Strategy returns the strategy the buckets were built with.
func (b *Buckets) Strategy() Strategy { return b.strategy }

// Keys returns bucket keys in first-seen order.
func (b *Buckets) Keys() []string {
	return append([]string(nil), b.keys...)
}

// Len returns the number of buckets.
func (b *Buckets) Len() int { return len(b.keys) }

// Count returns the count for (key, subKey), zero when absent.
func (b *Buckets) Count(key, subKey string) int {
	return b.counts[key][subKey]
}

// Counts returns a copy of the sub-key counts of a bucket.
func (b *Buckets) Counts(key string) map[string]int {
	sub := b.counts[key]
	out := make(map[string]int, len(sub))
	for k, v := range sub {
		out[k] = v
	}
	return out
}

// Total sums every count across all buckets and sub-keys.
func (b *Buckets) Total() int {
	total := 0
	for _, sub := range b.counts {
		for _, count := range sub {
			total += count
		}
	}
	return total
}

// Map returns the buckets as a plain nested map.
func (b *Buckets) Map() map[string]map[string]int {
	out := make(map[string]map[string]int, len(b.counts))
	for _, key := range b.keys {
		out[key] = b.Counts(key)
	}
	return out
}

// AggregateRegistrations counts registrations per month and recognized role.
// Records with a zero timestamp are skipped; records with an unrecognized role
// create no count but their month bucket is still emitted.
func AggregateRegistrations(records []RegistrationRecord) *Buckets {
	buckets := newBuckets(ByMonthAndRole)
	for _, record := range records {
		if record.CreatedAt.IsZero() {
			continue
		}
		key := MonthKey(record.CreatedAt)
		if !recognizedRole(record.Role) {
			buckets.ensure(key)
			continue
		}
		buckets.add(key, string(record.Role))
	}
	return buckets
}

// AggregateActivities counts announcements per sender name.
func AggregateActivities(records []ActivityRecord) *Buckets {
	buckets := newBuckets(ByActor)
	for _, record := range records {
		buckets.add(record.Actor(), ActivitySubKey)
	}
	return buckets
}

// sortedMonthKeys orders month keys chronologically by (year, month).
// Keys that do not parse sort after valid keys in string order.
func sortedMonthKeys(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.SliceStable(out, func(i, j int) bool {
		yi, mi, oki := parseMonthKey(out[i])
		yj, mj, okj := parseMonthKey(out[j])
		switch {
		case oki && okj:
			if yi != yj {
				return yi < yj
			}
			return mi < mj
		case oki != okj:
			return oki
		default:
			return out[i] < out[j]
		}
	})
	return out
}
