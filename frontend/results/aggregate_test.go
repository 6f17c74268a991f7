package results

import "testing"

// August 2025: the 1st is a Friday, 2nd a Saturday, 3rd a Sunday.
const monthStart = "2025-08-01"

func machine(id, sectorID int64, code string, active bool) MachineInfo {
	return MachineInfo{
		ID:         id,
		SectorID:   sectorID,
		Code:       code,
		IsActive:   active,
		SectorName: "Sector",
	}
}

func TestEffectiveTargetOverrideWins(t *testing.T) {
	tb := TargetBook{
		Defaults: map[int64]float64{1: 8},
		Overrides: map[int64]map[string]float64{
			1: {
				"2025-08-02": 0, // Saturday, explicit zero
				"2025-08-03": 5, // Sunday, explicit value
				"2025-08-04": 2, // Monday, below default
			},
		},
	}

	if got := tb.EffectiveTarget(1, "2025-08-02"); got != 0 {
		t.Errorf("Saturday zero override = %v, want 0", got)
	}
	if got := tb.EffectiveTarget(1, "2025-08-03"); got != 5 {
		t.Errorf("Sunday override = %v, want 5 (override beats non-business zero)", got)
	}
	if got := tb.EffectiveTarget(1, "2025-08-04"); got != 2 {
		t.Errorf("Monday override = %v, want 2", got)
	}
	if got := tb.EffectiveTarget(1, "2025-08-05"); got != 8 {
		t.Errorf("business day default = %v, want 8", got)
	}
	if got := tb.EffectiveTarget(1, "2025-08-09"); got != 0 {
		t.Errorf("plain Saturday = %v, want 0", got)
	}
	if got := tb.EffectiveTarget(99, "2025-08-05"); got != 0 {
		t.Errorf("machine without default = %v, want 0", got)
	}
}

func TestMonthDaysCoversCalendarMonth(t *testing.T) {
	days := MonthDays(monthStart)
	if len(days) != 31 {
		t.Fatalf("august has 31 days, got %d", len(days))
	}
	if days[0] != "2025-08-01" || days[30] != "2025-08-31" {
		t.Errorf("bounds = %s..%s", days[0], days[30])
	}
}

func TestPreviousFriday(t *testing.T) {
	cases := map[string]string{
		"2025-08-01": "2025-08-01", // Friday stays
		"2025-08-02": "2025-08-01", // Saturday
		"2025-08-03": "2025-08-01", // Sunday
		"2025-08-04": "2025-08-01", // Monday
		"2025-08-07": "2025-08-01", // Thursday
	}
	for day, want := range cases {
		if got := PreviousFriday(day); got != want {
			t.Errorf("PreviousFriday(%s) = %s, want %s", day, got, want)
		}
	}
}

func weekendInput(refDate, mode string) Input {
	return Input{
		Machines: []MachineInfo{machine(1, 1, "TCN-12", true)},
		RealByMachineDay: map[int64]map[string]float64{
			1: {
				"2025-08-01": 10, // Friday
				"2025-08-02": 3,  // Saturday
				"2025-08-03": 2,  // Sunday
			},
		},
		Targets:    TargetBook{Defaults: map[int64]float64{1: 8}},
		MonthStart: monthStart,
		RefDate:    refDate,
		Mode:       mode,
	}
}

func trackFor(t *testing.T, in Input, day string) DayEntry {
	t.Helper()
	for _, e := range DailyTrack(in) {
		if e.Day == day {
			return e
		}
	}
	t.Fatalf("day %s missing from track", day)
	return DayEntry{}
}

func TestAccountingRollUpBoundedByReference(t *testing.T) {
	// Reference Sunday: Friday absorbs Saturday and Sunday.
	fri := trackFor(t, weekendInput("2025-08-03", ModeAccounting), "2025-08-01")
	if fri.Real != 15 {
		t.Errorf("Friday real with Sunday reference = %v, want 15", fri.Real)
	}

	// Reference Saturday: only Saturday rolls in.
	fri = trackFor(t, weekendInput("2025-08-02", ModeAccounting), "2025-08-01")
	if fri.Real != 13 {
		t.Errorf("Friday real with Saturday reference = %v, want 13", fri.Real)
	}

	// Reference the following Monday: both roll in.
	fri = trackFor(t, weekendInput("2025-08-04", ModeAccounting), "2025-08-01")
	if fri.Real != 15 {
		t.Errorf("Friday real with Monday reference = %v, want 15", fri.Real)
	}
}

func TestAccountingTrackHidesWeekends(t *testing.T) {
	for _, e := range DailyTrack(weekendInput("2025-08-03", ModeAccounting)) {
		if e.Day == "2025-08-02" || e.Day == "2025-08-03" {
			t.Errorf("weekend day %s must not appear in accounting mode", e.Day)
		}
		if e.IsSaturday || e.IsSunday {
			t.Errorf("accounting entries must not be flagged as weekends: %+v", e)
		}
	}
}

func TestProductionTrackShowsWeekendsWithHours(t *testing.T) {
	in := weekendInput("2025-08-03", ModeProduction)
	if got := trackFor(t, in, "2025-08-01").Real; got != 10 {
		t.Errorf("Friday = %v, want 10 (no roll-up in production mode)", got)
	}
	if got := trackFor(t, in, "2025-08-02").Real; got != 3 {
		t.Errorf("Saturday = %v, want 3", got)
	}
	if got := trackFor(t, in, "2025-08-03").Real; got != 2 {
		t.Errorf("Sunday = %v, want 2", got)
	}

	// A weekend with no recorded hours stays hidden.
	in.RefDate = "2025-08-10"
	for _, e := range DailyTrack(in) {
		if e.Day == "2025-08-09" || e.Day == "2025-08-10" {
			t.Errorf("idle weekend day %s must not appear", e.Day)
		}
	}
}

func TestAccountingSaturdayReferenceFoldsToFriday(t *testing.T) {
	in := weekendInput("2025-08-02", ModeAccounting)
	rows := ComputeMachineMetrics(in)
	if len(rows) != 1 {
		t.Fatalf("want 1 machine row, got %d", len(rows))
	}
	row := rows[0]
	if row.DayTarget != 8 {
		t.Errorf("day target = %v, want Friday's default 8", row.DayTarget)
	}
	if row.DayReal != 13 {
		t.Errorf("day real = %v, want Friday 10 + Saturday 3", row.DayReal)
	}
	// Accumulation still runs through the Saturday itself.
	if row.AccReal != 13 {
		t.Errorf("acc real = %v, want 13", row.AccReal)
	}
	if row.AccTarget != 8 {
		t.Errorf("acc target = %v, want 8 (Saturday has no target)", row.AccTarget)
	}
}

func TestInactiveMachinesExcluded(t *testing.T) {
	in := weekendInput("2025-08-01", ModeProduction)
	in.Machines = append(in.Machines, machine(2, 1, "DEAD-1", false))
	in.RealByMachineDay[2] = map[string]float64{"2025-08-01": 99}

	rows := ComputeMachineMetrics(in)
	if len(rows) != 1 {
		t.Fatalf("inactive machine leaked into metrics: %d rows", len(rows))
	}
	if got := trackFor(t, in, "2025-08-01").Real; got != 10 {
		t.Errorf("daily track counted inactive machine: %v", got)
	}
}

func TestSectorPercentageIsRatioOfSums(t *testing.T) {
	m1 := machine(1, 1, "A-1", true)
	m2 := machine(2, 1, "A-2", true)
	in := Input{
		Machines: []MachineInfo{m1, m2},
		RealByMachineDay: map[int64]map[string]float64{
			1: {"2025-08-01": 20},
			2: {"2025-08-01": 50},
		},
		Targets:    TargetBook{Defaults: map[int64]float64{1: 10, 2: 100}},
		MonthStart: monthStart,
		RefDate:    "2025-08-01",
		Mode:       ModeProduction,
	}

	groups := GroupBySector(ComputeMachineMetrics(in))
	if len(groups) != 1 {
		t.Fatalf("want 1 sector group, got %d", len(groups))
	}
	g := groups[0]
	if g.PctMonth == nil {
		t.Fatal("sector pctMonth missing")
	}
	want := 70.0 / 110.0
	if diff := *g.PctMonth - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("sector pctMonth = %v, want ratio of sums %v (not the 1.25 average)", *g.PctMonth, want)
	}
}

func TestPctNilWhenTargetZero(t *testing.T) {
	in := weekendInput("2025-08-02", ModeProduction) // Saturday, no target
	rows := ComputeMachineMetrics(in)
	if rows[0].DayTarget != 0 {
		t.Fatalf("saturday day target = %v", rows[0].DayTarget)
	}
	if rows[0].PctDay != nil {
		t.Errorf("pctDay must be nil when target <= 0, got %v", *rows[0].PctDay)
	}
}

func TestSortBySectorThenMachine(t *testing.T) {
	mA := machine(1, 2, "B-1", true)
	mA.SectorSortOrder = 2
	mB := machine(2, 1, "Z-9", true)
	mB.SectorSortOrder = 1
	mC := machine(3, 1, "A-1", true)
	mC.SectorSortOrder = 1

	in := Input{
		Machines:         []MachineInfo{mA, mB, mC},
		RealByMachineDay: map[int64]map[string]float64{},
		Targets:          TargetBook{},
		MonthStart:       monthStart,
		RefDate:          "2025-08-01",
		Mode:             ModeProduction,
	}
	rows := ComputeMachineMetrics(in)
	got := []string{rows[0].Machine.Code, rows[1].Machine.Code, rows[2].Machine.Code}
	want := []string{"A-1", "Z-9", "B-1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestGrandTotalSums(t *testing.T) {
	in := Input{
		Machines: []MachineInfo{machine(1, 1, "A-1", true), machine(2, 2, "B-1", true)},
		RealByMachineDay: map[int64]map[string]float64{
			1: {"2025-08-01": 4},
			2: {"2025-08-01": 6},
		},
		Targets:    TargetBook{Defaults: map[int64]float64{1: 5, 2: 5}},
		MonthStart: monthStart,
		RefDate:    "2025-08-01",
		Mode:       ModeProduction,
	}
	total := GrandTotal(ComputeMachineMetrics(in))
	if total.DayReal != 10 || total.DayTarget != 10 {
		t.Errorf("total day = %v/%v, want 10/10", total.DayReal, total.DayTarget)
	}
	if total.DayDelta != 0 {
		t.Errorf("total delta = %v, want 0", total.DayDelta)
	}
	if total.PctDay == nil || *total.PctDay != 1 {
		t.Errorf("total pctDay = %v, want 1", total.PctDay)
	}
}

func TestSumThenRound(t *testing.T) {
	// Three thirds of an hour only make a clean hour when rounding happens
	// after summation.
	in := Input{
		Machines: []MachineInfo{machine(1, 1, "A-1", true)},
		RealByMachineDay: map[int64]map[string]float64{
			1: {"2025-08-01": 1.0 / 3, "2025-08-04": 1.0 / 3, "2025-08-05": 1.0 / 3},
		},
		Targets:    TargetBook{},
		MonthStart: monthStart,
		RefDate:    "2025-08-05",
		Mode:       ModeProduction,
	}
	rows := ComputeMachineMetrics(in)
	if rows[0].AccReal != 1.0 {
		t.Errorf("accReal = %v, want 1.00 from sum-then-round", rows[0].AccReal)
	}
}
