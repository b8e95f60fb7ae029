package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/studio-booking/internal/persistence"
	"github.com/example/studio-booking/internal/testfixtures"
)

func TestDurationRuleUniqueKey(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	rule := testfixtures.NewDurationRule(testfixtures.WithRuleKey("Matemática", "Gravação"))
	if err := harness.Rules.CreateDurationRule(ctx, rule); err != nil {
		t.Fatalf("create rule: %v", err)
	}

	clone := testfixtures.NewDurationRule(testfixtures.WithRuleKey("Matemática", "Gravação"))
	if err := harness.Rules.CreateDurationRule(ctx, clone); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}

	// Same subject under another proposal is a distinct rule.
	other := testfixtures.NewDurationRule(
		testfixtures.WithRuleKey("Matemática", "Transmissão"),
		testfixtures.WithRuleDuration("1:30"),
	)
	if err := harness.Rules.CreateDurationRule(ctx, other); err != nil {
		t.Fatalf("create second rule: %v", err)
	}

	rules, err := harness.Rules.ListDurationRules(ctx)
	if err != nil {
		t.Fatalf("list rules: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("listed %d rules, want 2", len(rules))
	}
}

func TestShiftFilterByStudioWeekdayAndActive(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	tuesdayMorning := testfixtures.NewShift(testfixtures.WithShiftTechnician("Ana"))
	tuesdayAfternoon := testfixtures.NewShift(
		testfixtures.WithShiftTechnician("Bruno"),
		testfixtures.WithShiftInterval(720, 960),
	)
	inactive := testfixtures.NewShift(
		testfixtures.WithShiftTechnician("Carla"),
		testfixtures.WithShiftInactive(),
	)
	otherDay := testfixtures.NewShift(testfixtures.WithShiftWeekday(time.Friday))
	otherStudio := testfixtures.NewShift(testfixtures.WithShiftStudio("Remoto"))

	for _, shift := range []persistence.TechnicianShift{tuesdayMorning, tuesdayAfternoon, inactive, otherDay, otherStudio} {
		if err := harness.Shifts.CreateShift(ctx, shift); err != nil {
			t.Fatalf("create shift: %v", err)
		}
	}

	weekday := time.Tuesday
	listed, err := harness.Shifts.ListShifts(ctx, persistence.ShiftFilter{
		Studio:     "Estudio 170",
		Weekday:    &weekday,
		ActiveOnly: true,
	})
	if err != nil {
		t.Fatalf("list shifts: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("listed %d shifts, want 2: %+v", len(listed), listed)
	}
	if listed[0].Technician != "Ana" || listed[1].Technician != "Bruno" {
		t.Fatalf("order = %s, %s, want start ascending", listed[0].Technician, listed[1].Technician)
	}

	everything, err := harness.Shifts.ListShifts(ctx, persistence.ShiftFilter{Studio: "Estudio 170", Weekday: &weekday})
	if err != nil {
		t.Fatalf("list shifts without active filter: %v", err)
	}
	if len(everything) != 3 {
		t.Fatalf("listed %d shifts, want 3 including inactive", len(everything))
	}
}

func TestShiftUpdateAndDelete(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	shift := testfixtures.NewShift()
	if err := harness.Shifts.CreateShift(ctx, shift); err != nil {
		t.Fatalf("create shift: %v", err)
	}

	shift.End = 780
	shift.Active = false
	if err := harness.Shifts.UpdateShift(ctx, shift); err != nil {
		t.Fatalf("update shift: %v", err)
	}
	stored, err := harness.Shifts.GetShift(ctx, shift.ID)
	if err != nil {
		t.Fatalf("get shift: %v", err)
	}
	if stored.End != 780 || stored.Active {
		t.Fatalf("stored shift = %+v", stored)
	}

	if err := harness.Shifts.DeleteShift(ctx, shift.ID); err != nil {
		t.Fatalf("delete shift: %v", err)
	}
	if _, err := harness.Shifts.GetShift(ctx, shift.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestBlackoutListByStudio(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	date := testfixtures.ReferenceDate()
	first := persistence.BlackoutPeriod{ID: "blk-1", Studio: "Estudio 170", Date: date, Start: 480, End: 540, Reason: "Limpeza", CreatedAt: testfixtures.ReferenceTime()}
	second := persistence.BlackoutPeriod{ID: "blk-2", Studio: "Remoto", Date: date, Start: 480, End: 540, CreatedAt: testfixtures.ReferenceTime()}
	for _, blackout := range []persistence.BlackoutPeriod{first, second} {
		if err := harness.Blackouts.CreateBlackout(ctx, blackout); err != nil {
			t.Fatalf("create blackout: %v", err)
		}
	}

	listed, err := harness.Blackouts.ListBlackouts(ctx, "Estudio 170")
	if err != nil {
		t.Fatalf("list blackouts: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "blk-1" || listed[0].Reason != "Limpeza" {
		t.Fatalf("listed = %+v", listed)
	}

	all, err := harness.Blackouts.ListBlackouts(ctx, "")
	if err != nil {
		t.Fatalf("list all blackouts: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("listed %d blackouts, want 2", len(all))
	}
}

func TestPermissionUpsert(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	grant := persistence.UserPermission{UserID: "user-1", DisplayName: "Ana", CanEdit: true, UpdatedAt: testfixtures.ReferenceTime()}
	if err := harness.Permissions.UpsertPermission(ctx, grant); err != nil {
		t.Fatalf("upsert permission: %v", err)
	}

	grant.CanEdit = false
	grant.CanCancel = true
	if err := harness.Permissions.UpsertPermission(ctx, grant); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	stored, err := harness.Permissions.GetPermission(ctx, "user-1")
	if err != nil {
		t.Fatalf("get permission: %v", err)
	}
	if stored.CanEdit || !stored.CanCancel {
		t.Fatalf("stored grant = %+v", stored)
	}
}

func TestAuditTrailOrder(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	base := testfixtures.ReferenceTime()
	entries := []persistence.AuditEntry{
		{ID: "audit-2", BookingID: "bk-1", Action: "update", ActorID: "user-1", ActorEmail: "ana@escola.br", Before: []byte(`{"start":480}`), After: []byte(`{"start":540}`), CreatedAt: base.Add(time.Minute)},
		{ID: "audit-1", BookingID: "bk-1", Action: "create", ActorID: "user-1", ActorEmail: "ana@escola.br", After: []byte(`{"start":480}`), CreatedAt: base},
		{ID: "audit-3", BookingID: "bk-2", Action: "create", ActorID: "user-2", ActorEmail: "rui@escola.br", After: []byte(`{}`), CreatedAt: base},
	}
	for _, entry := range entries {
		if err := harness.Audit.AppendAudit(ctx, entry); err != nil {
			t.Fatalf("append audit: %v", err)
		}
	}

	trail, err := harness.Audit.ListAuditForBooking(ctx, "bk-1")
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(trail) != 2 {
		t.Fatalf("trail has %d entries, want 2", len(trail))
	}
	if trail[0].ID != "audit-1" || trail[1].ID != "audit-2" {
		t.Fatalf("trail order = %s, %s", trail[0].ID, trail[1].ID)
	}
	if trail[0].Before != nil {
		t.Fatalf("create entry must have nil before snapshot: %s", trail[0].Before)
	}
	if string(trail[1].After) != `{"start":540}` {
		t.Fatalf("after snapshot = %s", trail[1].After)
	}
}

func TestFixedSlotRoundTrip(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	slot := persistence.FixedSlot{
		ID:          "slot-1",
		Subject:     "Matemática",
		Proposal:    "Gravação",
		Professor:   "Prof. Lima",
		Studio:      "Estudio 170",
		Technicians: []string{"Ana"},
		Weekday:     time.Tuesday,
		Start:       540,
		End:         600,
		Type:        "Gravação",
		CreatedAt:   testfixtures.ReferenceTime(),
	}
	if err := harness.FixedSlots.CreateFixedSlot(ctx, slot); err != nil {
		t.Fatalf("create fixed slot: %v", err)
	}

	listed, err := harness.FixedSlots.ListFixedSlots(ctx)
	if err != nil {
		t.Fatalf("list fixed slots: %v", err)
	}
	if len(listed) != 1 || listed[0].Weekday != time.Tuesday || listed[0].Start != 540 {
		t.Fatalf("listed = %+v", listed)
	}

	if err := harness.FixedSlots.DeleteFixedSlot(ctx, "slot-1"); err != nil {
		t.Fatalf("delete fixed slot: %v", err)
	}
	if err := harness.FixedSlots.DeleteFixedSlot(ctx, "slot-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
