package results

import (
	"math"
	"sort"
	"time"
)

// Calendar interpretation for the results screen.
//
// Production shows every business day plus weekends that recorded hours.
// Accounting folds weekend real hours into the preceding Friday and never
// shows weekends as entries; weekend targets are never counted.
const (
	ModeProduction = "production"
	ModeAccounting = "accounting"
)

// MachineInfo is a machine joined with its sector, as the aggregator needs it.
type MachineInfo struct {
	ID          int64  `bun:"id"`
	SectorID    int64  `bun:"sector_id"`
	Code        string `bun:"code"`
	NameDisplay string `bun:"name_display"`
	IsActive    bool   `bun:"is_active"`
	SortOrder   int64  `bun:"sort_order"`

	SectorName      string `bun:"sector_name"`
	SectorSortOrder int64  `bun:"sector_sort_order"`
}

// TargetBook layers per-day overrides over monthly defaults.
type TargetBook struct {
	// Defaults maps machine id to the month's business-day target.
	Defaults map[int64]float64
	// Overrides maps machine id to day to the override value.
	Overrides map[int64]map[string]float64
}

// EffectiveTarget resolves the target for one (machine, day) pair: the
// override wins when present (even zero, even on a weekend), the monthly
// default applies on business days, everything else is zero. Each day is
// resolved independently; there is no carry-over between days.
func (tb TargetBook) EffectiveTarget(machineID int64, day string) float64 {
	if ov, ok := tb.Overrides[machineID][day]; ok {
		return ov
	}
	if IsBusinessDay(day) {
		return tb.Defaults[machineID]
	}
	return 0
}

// MonthTarget sums the effective target over every day of the list.
func (tb TargetBook) MonthTarget(machineID int64, days []string) float64 {
	total := 0.0
	for _, d := range days {
		total += tb.EffectiveTarget(machineID, d)
	}
	return total
}

// Input bundles the already-fetched data one results computation needs.
type Input struct {
	Machines []MachineInfo
	// RealByMachineDay holds consolidated hours per machine per day.
	RealByMachineDay map[int64]map[string]float64
	Targets          TargetBook
	MonthStart       string // first day of the month, YYYY-MM-01
	RefDate          string // reference day, normally the batch max day
	SelectedDay      string // optional day focus; empty means RefDate
	Mode             string // ModeProduction or ModeAccounting
}

// MachineMetrics is one machine's row on the summary table.
type MachineMetrics struct {
	Machine     MachineInfo
	MonthTarget float64
	DayTarget   float64
	DayReal     float64
	DayDelta    float64
	AccTarget   float64
	AccReal     float64
	AccDelta    float64
	PctDay      *float64
	PctMonth    *float64
}

// GroupMetrics is a sector subtotal (or the grand total) over machine rows.
type GroupMetrics struct {
	Key         int64
	Label       string
	SortOrder   int64
	Children    []MachineMetrics
	MonthTarget float64
	DayTarget   float64
	DayReal     float64
	DayDelta    float64
	AccTarget   float64
	AccReal     float64
	AccDelta    float64
	PctDay      *float64
	PctMonth    *float64
}

// DayEntry is one line of the daily track table.
type DayEntry struct {
	Day        string
	Target     float64
	Real       float64
	Delta      float64
	IsSaturday bool
	IsSunday   bool
}

// ComputeMachineMetrics produces per-machine day/accumulated/month metrics
// for the reference (or selected) day. Inactive machines are excluded. Sums
// run over raw values and are rounded once at the end, so per-row rounding
// error cannot compound.
func ComputeMachineMetrics(in Input) []MachineMetrics {
	if in.MonthStart == "" || in.RefDate == "" {
		return nil
	}
	days := MonthDays(in.MonthStart)

	activeDay := in.SelectedDay
	if activeDay == "" {
		activeDay = in.RefDate
	}

	// In accounting mode a Saturday reference collapses onto the preceding
	// Friday: Friday's target, Friday+Saturday real (Sunday has not happened
	// yet relative to that reference point).
	foldSaturday := in.Mode == ModeAccounting && IsSaturday(activeDay)
	dayISO := activeDay
	if foldSaturday {
		dayISO = PreviousFriday(activeDay)
	}

	rows := make([]MachineMetrics, 0, len(in.Machines))
	for _, m := range in.Machines {
		if !m.IsActive {
			continue
		}
		real := in.RealByMachineDay[m.ID]

		monthTarget := in.Targets.MonthTarget(m.ID, days)

		var dayTarget, dayReal float64
		if foldSaturday {
			dayTarget = in.Targets.EffectiveTarget(m.ID, dayISO)
			dayReal = real[dayISO] + real[activeDay]
		} else {
			dayTarget = in.Targets.EffectiveTarget(m.ID, dayISO)
			dayReal = real[dayISO]
		}

		var accTarget, accReal float64
		for _, d := range days {
			if d > activeDay {
				break
			}
			accTarget += in.Targets.EffectiveTarget(m.ID, d)
			accReal += real[d]
		}

		rows = append(rows, MachineMetrics{
			Machine:     m,
			MonthTarget: round2(monthTarget),
			DayTarget:   round2(dayTarget),
			DayReal:     round2(dayReal),
			DayDelta:    round2(dayReal - dayTarget),
			AccTarget:   round2(accTarget),
			AccReal:     round2(accReal),
			AccDelta:    round2(accReal - accTarget),
			PctDay:      pct(dayReal, dayTarget),
			PctMonth:    pct(accReal, accTarget),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Machine, rows[j].Machine
		if a.SectorSortOrder != b.SectorSortOrder {
			return a.SectorSortOrder < b.SectorSortOrder
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Code < b.Code
	})
	return rows
}

// GroupBySector folds machine rows into sector subtotals. Percentages are
// recomputed from the summed target/real, never averaged from children.
func GroupBySector(rows []MachineMetrics) []GroupMetrics {
	order := make([]int64, 0)
	bySector := make(map[int64]*GroupMetrics)
	for _, row := range rows {
		g, ok := bySector[row.Machine.SectorID]
		if !ok {
			g = &GroupMetrics{
				Key:       row.Machine.SectorID,
				Label:     row.Machine.SectorName,
				SortOrder: row.Machine.SectorSortOrder,
			}
			bySector[row.Machine.SectorID] = g
			order = append(order, row.Machine.SectorID)
		}
		g.Children = append(g.Children, row)
		g.MonthTarget += row.MonthTarget
		g.DayTarget += row.DayTarget
		g.DayReal += row.DayReal
		g.AccTarget += row.AccTarget
		g.AccReal += row.AccReal
	}

	groups := make([]GroupMetrics, 0, len(order))
	for _, id := range order {
		g := bySector[id]
		g.MonthTarget = round2(g.MonthTarget)
		g.DayTarget = round2(g.DayTarget)
		g.DayReal = round2(g.DayReal)
		g.DayDelta = round2(g.DayReal - g.DayTarget)
		g.AccTarget = round2(g.AccTarget)
		g.AccReal = round2(g.AccReal)
		g.AccDelta = round2(g.AccReal - g.AccTarget)
		g.PctDay = pct(g.DayReal, g.DayTarget)
		g.PctMonth = pct(g.AccReal, g.AccTarget)
		groups = append(groups, *g)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].SortOrder < groups[j].SortOrder
	})
	return groups
}

// GrandTotal sums every machine row into one line.
func GrandTotal(rows []MachineMetrics) GroupMetrics {
	total := GroupMetrics{Label: "Total"}
	for _, row := range rows {
		total.MonthTarget += row.MonthTarget
		total.DayTarget += row.DayTarget
		total.DayReal += row.DayReal
		total.AccTarget += row.AccTarget
		total.AccReal += row.AccReal
	}
	total.MonthTarget = round2(total.MonthTarget)
	total.DayTarget = round2(total.DayTarget)
	total.DayReal = round2(total.DayReal)
	total.DayDelta = round2(total.DayReal - total.DayTarget)
	total.AccTarget = round2(total.AccTarget)
	total.AccReal = round2(total.AccReal)
	total.AccDelta = round2(total.AccReal - total.AccTarget)
	total.PctDay = pct(total.DayReal, total.DayTarget)
	total.PctMonth = pct(total.AccReal, total.AccTarget)
	return total
}

// DailyTrack lists day totals across active machines up to the reference day.
func DailyTrack(in Input) []DayEntry {
	if in.MonthStart == "" || in.RefDate == "" {
		return nil
	}
	days := MonthDays(in.MonthStart)

	// Days with at least one positive real entry; weekends in production
	// mode appear only when this is true.
	hasProduction := make(map[string]bool)
	for _, m := range in.Machines {
		if !m.IsActive {
			continue
		}
		for d, h := range in.RealByMachineDay[m.ID] {
			if h > 0 {
				hasProduction[d] = true
			}
		}
	}

	entries := make([]DayEntry, 0, len(days))
	for _, d := range days {
		if d > in.RefDate {
			break
		}
		sat, sun := IsSaturday(d), IsSunday(d)

		if in.Mode == ModeAccounting {
			if sat || sun {
				continue
			}
		} else if (sat || sun) && !hasProduction[d] {
			continue
		}

		var target, real float64
		for _, m := range in.Machines {
			if !m.IsActive {
				continue
			}
			target += in.Targets.EffectiveTarget(m.ID, d)
			real += in.RealByMachineDay[m.ID][d]

			if in.Mode == ModeAccounting && IsFriday(d) {
				if saturday := nextDay(d, 1); saturday <= in.RefDate {
					real += in.RealByMachineDay[m.ID][saturday]
				}
				if sunday := nextDay(d, 2); sunday <= in.RefDate {
					real += in.RealByMachineDay[m.ID][sunday]
				}
			}
		}

		entries = append(entries, DayEntry{
			Day:        d,
			Target:     round2(target),
			Real:       round2(real),
			Delta:      round2(real - target),
			IsSaturday: sat && in.Mode != ModeAccounting,
			IsSunday:   sun && in.Mode != ModeAccounting,
		})
	}
	return entries
}

// MonthDays lists every ISO day of the calendar month containing monthStart.
func MonthDays(monthStart string) []string {
	start, err := time.Parse("2006-01-02", monthStart)
	if err != nil {
		return nil
	}
	start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	days := make([]string, 0, 31)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format("2006-01-02"))
	}
	return days
}

// IsBusinessDay reports whether the ISO day falls on Monday through Friday.
func IsBusinessDay(day string) bool {
	wd := weekdayOf(day)
	return wd >= time.Monday && wd <= time.Friday
}

func IsFriday(day string) bool   { return weekdayOf(day) == time.Friday }
func IsSaturday(day string) bool { return weekdayOf(day) == time.Saturday }
func IsSunday(day string) bool   { return weekdayOf(day) == time.Sunday }

// PreviousFriday returns the Friday on or before the given day.
func PreviousFriday(day string) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return day
	}
	switch t.Weekday() {
	case time.Friday:
		return day
	case time.Saturday:
		return t.AddDate(0, 0, -1).Format("2006-01-02")
	default:
		diff := (int(t.Weekday()) + 2) % 7
		return t.AddDate(0, 0, -diff).Format("2006-01-02")
	}
}

func weekdayOf(day string) time.Weekday {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return time.Sunday
	}
	return t.Weekday()
}

func nextDay(day string, n int) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, n).Format("2006-01-02")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func pct(real, target float64) *float64 {
	if target <= 0 {
		return nil
	}
	p := real / target
	return &p
}
