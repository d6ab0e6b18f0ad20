package process

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/wak-lab-e-v/jw-db-manager/models"
)

// StatsSummary aggregates counts over the registrations table.
type StatsSummary struct {
	Total       int64
	WithNote    int64
	ByStatus    map[string]int64
	ByEventDate map[string]int64
}

func (s StatsSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "registrations: %d total, %d with notes\n", s.Total, s.WithNote)
	b.WriteString("by status:\n")
	for _, k := range sortedKeys(s.ByStatus) {
		fmt.Fprintf(&b, "  %s: %d\n", k, s.ByStatus[k])
	}
	b.WriteString("by event date:\n")
	for _, k := range sortedKeys(s.ByEventDate) {
		fmt.Fprintf(&b, "  %s: %d\n", k, s.ByEventDate[k])
	}
	return strings.TrimRight(b.String(), "\n")
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type groupCount struct {
	Key   string
	Count int64
}

// Stats aggregates registration counts: total, per status, per event date and
// how many carry a note.
func Stats(db *gorm.DB) (StatsSummary, error) {
	sum := StatsSummary{
		ByStatus:    map[string]int64{},
		ByEventDate: map[string]int64{},
	}

	if err := db.Model(&models.Registration{}).Count(&sum.Total).Error; err != nil {
		return sum, fmt.Errorf("count registrations: %w", err)
	}
	if err := db.Model(&models.Registration{}).Where("note <> ''").Count(&sum.WithNote).Error; err != nil {
		return sum, fmt.Errorf("count notes: %w", err)
	}

	var rows []groupCount
	if err := db.Model(&models.Registration{}).
		Select("status as key, count(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return sum, fmt.Errorf("group by status: %w", err)
	}
	for _, r := range rows {
		sum.ByStatus[r.Key] = r.Count
	}

	rows = nil
	if err := db.Model(&models.Registration{}).
		Select("event_date as key, count(*) as count").Group("event_date").Scan(&rows).Error; err != nil {
		return sum, fmt.Errorf("group by event date: %w", err)
	}
	for _, r := range rows {
		sum.ByEventDate[r.Key] = r.Count
	}

	return sum, nil
}
