package inventory

import (
	"time"

	"github.com/angelmondragon/bloodbank-backend/pkg/config"
	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
)

const (
	DefaultCriticalThreshold = 10
	DefaultExpiryHorizonDays = 7
)

// BloodTypeSummary is the per-type stock rollup shown on dashboards.
type BloodTypeSummary struct {
	BloodType     enums.BloodType `json:"bloodType"`
	Units         int             `json:"units"`
	Percentage    float64         `json:"percentage"`
	ExpiringUnits int             `json:"expiringUnits"`
	ExpiringDays  int             `json:"expiringDays"`
	IsCritical    bool            `json:"isCritical"`
}

// Summarizer rolls available units up per blood type. The zero value is not
// useful; build one with NewSummarizer or DefaultSummarizer.
type Summarizer struct {
	CriticalThreshold int
	ExpiryHorizonDays int
}

func DefaultSummarizer() Summarizer {
	return Summarizer{
		CriticalThreshold: DefaultCriticalThreshold,
		ExpiryHorizonDays: DefaultExpiryHorizonDays,
	}
}

// NewSummarizer reads the thresholds from config, keeping the defaults for
// values that are not positive.
func NewSummarizer(cfg config.InventoryConfig) Summarizer {
	s := DefaultSummarizer()
	if cfg.CriticalThreshold > 0 {
		s.CriticalThreshold = cfg.CriticalThreshold
	}
	if cfg.ExpiryHorizonDays > 0 {
		s.ExpiryHorizonDays = cfg.ExpiryHorizonDays
	}
	return s
}

// Summarize applies the default thresholds.
func Summarize(units []models.InventoryUnit, now time.Time) []BloodTypeSummary {
	return DefaultSummarizer().Summarize(units, now)
}

// Summarize returns one entry per blood type in canonical order. Only
// available units count; expiring units are those 0..ExpiryHorizonDays
// calendar days from now.
func (s Summarizer) Summarize(units []models.InventoryUnit, now time.Time) []BloodTypeSummary {
	types := enums.AllBloodTypes()
	index := make(map[enums.BloodType]int, len(types))
	out := make([]BloodTypeSummary, len(types))
	for i, bt := range types {
		index[bt] = i
		out[i] = BloodTypeSummary{BloodType: bt}
	}

	// minimum days to expiry per type; -1 until an expiring unit is seen
	soonest := make([]int, len(types))
	for i := range soonest {
		soonest[i] = -1
	}

	total := 0
	for _, unit := range units {
		if unit.Status != enums.InventoryStatusAvailable {
			continue
		}
		i, ok := index[unit.BloodType]
		if !ok {
			continue
		}
		out[i].Units += unit.Units
		total += unit.Units

		days := DaysBetween(now, unit.ExpiryDate)
		if days < 0 || days > s.ExpiryHorizonDays {
			continue
		}
		out[i].ExpiringUnits += unit.Units
		if soonest[i] < 0 || days < soonest[i] {
			soonest[i] = days
		}
	}

	for i := range out {
		if soonest[i] >= 0 {
			out[i].ExpiringDays = soonest[i]
		}
		if total > 0 {
			out[i].Percentage = float64(out[i].Units) / float64(total) * 100
		}
		out[i].IsCritical = out[i].Units < s.CriticalThreshold
	}
	return out
}

// DaysBetween counts calendar days from now to t, both read in now's
// location. A result of 0 means t falls on today; negative means the past.
func DaysBetween(now, t time.Time) int {
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.In(now.Location()).Date()
	from := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	to := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
