package roster

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/aanand-mishra/trainer-roster/internal/types"
)

// RecentCheckInDays is how far back a check-in still counts as recent.
const RecentCheckInDays = 7

const day = 24 * time.Hour

// Stats summarises the roster as of now. It has no side effects.
func (m *Manager) Stats(now time.Time) types.Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return ComputeStats(m.students, m.max, now)
}

// ComputeStats derives the dashboard figures from students.
//
// AvgAdherence is the mean adherence rounded to the nearest integer
// (0 for an empty roster). A check-in is recent when the number of
// whole days since it is at most RecentCheckInDays.
func ComputeStats(students []types.Student, capacity int, now time.Time) types.Stats {
	st := types.Stats{
		Total:          len(students),
		RemainingSlots: capacity - len(students),
	}

	sum := 0
	for _, s := range students {
		if s.Status == types.StatusActive {
			st.Active++
		}
		sum += s.AdherenceRate
		if d := daysSince(s.LastCheckIn, now); d != nil && *d <= RecentCheckInDays {
			st.RecentCheckIns++
		}
	}

	if len(students) > 0 {
		st.AvgAdherence = int(math.Round(float64(sum) / float64(len(students))))
	}

	return st
}

// Card builds the profile card for one student.
func (m *Manager) Card(id string, now time.Time) (types.Card, error) {
	s, err := m.Get(id)
	if err != nil {
		return types.Card{}, fmt.Errorf("roster.Card: %w", err)
	}
	return CardFor(s, now), nil
}

// CardFor derives the profile card fields for s.
func CardFor(s types.Student, now time.Time) types.Card {
	c := types.Card{
		Student:          s,
		Initials:         initials(s.Name),
		StatusLabel:      s.Status.Label(),
		DaysSinceCheckIn: daysSince(s.LastCheckIn, now),
	}
	if s.CurrentWeight != nil && s.TargetWeight != nil {
		delta := *s.TargetWeight - *s.CurrentWeight
		c.WeightToTarget = &delta
	}
	return c
}

// daysSince counts whole days elapsed between t and now, rounding down.
// A check-in in the future yields a negative count.
func daysSince(t *time.Time, now time.Time) *int {
	if t == nil {
		return nil
	}
	d := int(math.Floor(float64(now.Sub(*t)) / float64(day)))
	return &d
}

func initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
