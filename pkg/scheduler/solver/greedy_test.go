package solver

import (
	"context"
	"testing"

	"github.com/jukushift/jukushift/pkg/calendar"
	"github.com/jukushift/jukushift/pkg/model"
	"github.com/jukushift/jukushift/pkg/scheduler/constraint"
)

func solverCalendar(t *testing.T) *calendar.Calendar {
	t.Helper()
	cal, err := calendar.New(&model.AdminSettings{
		ShiftStartDate: "2025-08-01",
		ShiftEndDate:   "2025-08-02",
		DefaultShiftPeriodsByDay: map[model.Weekday][]model.PeriodID{
			"金": {2, 3, 4},
			"土": {2, 3},
		},
	})
	if err != nil {
		t.Fatalf("构建日历失败: %v", err)
	}
	return cal
}

func mathTeacher(id, name string) *model.Teacher {
	return &model.Teacher{
		ID:   id,
		Name: name,
		TeachableSubjects: map[model.Affiliation][]string{
			model.AffiliationMiddle: {"数学", "英語"},
		},
		Availability: map[string][]model.PeriodID{
			"2025-08-01": {2, 3, 4},
			"2025-08-02": {2, 3},
		},
	}
}

func mathStudent(id, name string, units int, avail map[string][]model.PeriodID) *model.Student {
	return &model.Student{
		ID:                   id,
		Name:                 name,
		Affiliation:          model.AffiliationMiddle,
		SchedulingPreference: model.PreferenceConcentrated,
		IdleTimePreference:   model.IdleGapAllow,
		DesiredCourses: []model.DesiredCourse{
			{Subject: "数学", Units: units},
		},
		Availability: avail,
	}
}

func TestGreedySolver_BasicAssignment(t *testing.T) {
	cal := solverCalendar(t)
	teacher := mathTeacher("t1", "高橋")
	student := mathStudent("s1", "佐藤", 2, map[string][]model.PeriodID{
		"2025-08-01": {2, 3},
		"2025-08-02": {2},
	})

	schedCtx := constraint.NewContext(cal, []*model.Teacher{teacher}, []*model.Student{student}, 2)
	s := NewGreedySolver(DefaultWeights())

	res, err := s.Solve(context.Background(), schedCtx)
	if err != nil {
		t.Fatalf("Solve 失败: %v", err)
	}

	if len(res.Assignments) != 2 {
		t.Fatalf("分配数 = %d, 期望 2", len(res.Assignments))
	}
	if len(res.Unmet) != 0 {
		t.Errorf("未满足需求 = %v, 期望空", res.Unmet)
	}
	for _, a := range res.Assignments {
		if a.TeacherID != "t1" || a.StudentID != "s1" || a.Subject != "数学" {
			t.Errorf("意外的分配: %+v", a)
		}
	}
	if res.Statistics.FillRate != 100 {
		t.Errorf("填充率 = %.1f, 期望 100", res.Statistics.FillRate)
	}
}

func TestGreedySolver_SharedSlot(t *testing.T) {
	// 两名学生共享同一讲师的同一槽位（容量 2）
	cal := solverCalendar(t)
	teacher := mathTeacher("t1", "高橋")
	onlySlot := map[string][]model.PeriodID{"2025-08-01": {2}}
	s1 := mathStudent("s1", "佐藤", 1, onlySlot)
	s2 := mathStudent("s2", "鈴木", 1, onlySlot)

	schedCtx := constraint.NewContext(cal, []*model.Teacher{teacher}, []*model.Student{s1, s2}, 2)
	res, err := NewGreedySolver(DefaultWeights()).Solve(context.Background(), schedCtx)
	if err != nil {
		t.Fatalf("Solve 失败: %v", err)
	}

	if len(res.Assignments) != 2 {
		t.Fatalf("分配数 = %d, 期望 2", len(res.Assignments))
	}
	for _, a := range res.Assignments {
		if a.Date != "2025-08-01" || a.Period != 2 {
			t.Errorf("分配落在意外槽位: %+v", a)
		}
	}
}

func TestGreedySolver_CapacityExhausted(t *testing.T) {
	// 三名学生争抢唯一槽位，第三名报告容量耗尽
	cal := solverCalendar(t)
	teacher := mathTeacher("t1", "高橋")
	onlySlot := map[string][]model.PeriodID{"2025-08-01": {2}}
	s1 := mathStudent("s1", "佐藤", 1, onlySlot)
	s2 := mathStudent("s2", "鈴木", 1, onlySlot)
	s3 := mathStudent("s3", "田中", 1, onlySlot)

	schedCtx := constraint.NewContext(cal, []*model.Teacher{teacher}, []*model.Student{s1, s2, s3}, 2)
	res, err := NewGreedySolver(DefaultWeights()).Solve(context.Background(), schedCtx)
	if err != nil {
		t.Fatalf("Solve 失败: %v", err)
	}

	if len(res.Assignments) != 2 {
		t.Fatalf("分配数 = %d, 期望 2", len(res.Assignments))
	}
	if len(res.Unmet) != 1 {
		t.Fatalf("未满足需求数 = %d, 期望 1", len(res.Unmet))
	}

	u := res.Unmet[0]
	if u.UnitsRequested != 1 || u.UnitsAssigned != 0 {
		t.Errorf("未满足需求 = %+v", u)
	}
	if u.Reason != "容量耗尽: 讲师槽位已满" {
		t.Errorf("未满足原因 = %q, 期望容量耗尽", u.Reason)
	}
	if len(res.Diagnostics) != 1 {
		t.Errorf("诊断数 = %d, 期望 1", len(res.Diagnostics))
	}
}

func TestGreedySolver_NoCandidateSlot(t *testing.T) {
	// 学生的听课希望完全落在排班期间外
	cal := solverCalendar(t)
	teacher := mathTeacher("t1", "高橋")
	student := mathStudent("s1", "佐藤", 1, map[string][]model.PeriodID{
		"2025-09-01": {2},
	})

	schedCtx := constraint.NewContext(cal, []*model.Teacher{teacher}, []*model.Student{student}, 2)
	res, err := NewGreedySolver(DefaultWeights()).Solve(context.Background(), schedCtx)
	if err != nil {
		t.Fatalf("Solve 失败: %v", err)
	}

	if len(res.Assignments) != 0 {
		t.Fatalf("分配数 = %d, 期望 0", len(res.Assignments))
	}
	if len(res.Unmet) != 1 {
		t.Fatalf("未满足需求数 = %d, 期望 1", len(res.Unmet))
	}
	if res.Unmet[0].Reason != "学生该时段无听课希望" {
		t.Errorf("未满足原因 = %q", res.Unmet[0].Reason)
	}
}

func TestGreedySolver_Deterministic(t *testing.T) {
	build := func() *constraint.Context {
		cal := solverCalendar(t)
		teachers := []*model.Teacher{
			mathTeacher("t2", "山本"),
			mathTeacher("t1", "高橋"),
		}
		students := []*model.Student{
			mathStudent("s2", "鈴木", 2, map[string][]model.PeriodID{
				"2025-08-01": {2, 3, 4},
				"2025-08-02": {2, 3},
			}),
			mathStudent("s1", "佐藤", 3, map[string][]model.PeriodID{
				"2025-08-01": {2, 3},
				"2025-08-02": {2, 3},
			}),
		}
		return constraint.NewContext(cal, teachers, students, 2)
	}

	res1, err := NewGreedySolver(DefaultWeights()).Solve(context.Background(), build())
	if err != nil {
		t.Fatalf("第一次 Solve 失败: %v", err)
	}
	res2, err := NewGreedySolver(DefaultWeights()).Solve(context.Background(), build())
	if err != nil {
		t.Fatalf("第二次 Solve 失败: %v", err)
	}

	if len(res1.Assignments) != len(res2.Assignments) {
		t.Fatalf("两次求解分配数不同: %d vs %d", len(res1.Assignments), len(res2.Assignments))
	}
	for i := range res1.Assignments {
		a, b := res1.Assignments[i], res2.Assignments[i]
		if a.SlotKey() != b.SlotKey() || a.StudentID != b.StudentID || a.Subject != b.Subject {
			t.Errorf("第 %d 个分配不一致: %+v vs %+v", i, a, b)
		}
	}
}

func TestGreedySolver_UnitConservation(t *testing.T) {
	// 每个 (学生, 科目) 的已分配数加未分配数等于希望数
	cal := solverCalendar(t)
	teacher := mathTeacher("t1", "高橋")
	students := []*model.Student{
		mathStudent("s1", "佐藤", 4, map[string][]model.PeriodID{
			"2025-08-01": {2, 3},
		}),
		mathStudent("s2", "鈴木", 2, map[string][]model.PeriodID{
			"2025-08-01": {2},
			"2025-08-02": {2, 3},
		}),
	}

	schedCtx := constraint.NewContext(cal, []*model.Teacher{teacher}, students, 2)
	res, err := NewGreedySolver(DefaultWeights()).Solve(context.Background(), schedCtx)
	if err != nil {
		t.Fatalf("Solve 失败: %v", err)
	}

	assigned := make(map[string]int)
	for _, a := range res.Assignments {
		assigned[a.StudentID+"#"+a.Subject]++
	}
	unassigned := make(map[string]int)
	for _, u := range res.Unmet {
		unassigned[u.StudentID+"#"+u.Subject] = u.UnitsRequested - u.UnitsAssigned
		if u.UnitsAssigned != assigned[u.StudentID+"#"+u.Subject] {
			t.Errorf("未满足记录的已分配数与实际不符: %+v", u)
		}
	}
	for _, s := range students {
		for _, c := range s.DesiredCourses {
			key := s.ID + "#" + c.Subject
			if got := assigned[key] + unassigned[key]; got != c.Units {
				t.Errorf("(%s, %s) 分配+未分配 = %d, 期望 %d", s.ID, c.Subject, got, c.Units)
			}
		}
	}
	if res.Statistics.AssignedUnits+res.Statistics.UnmetUnits != res.Statistics.TotalUnits {
		t.Errorf("统计不守恒: %+v", res.Statistics)
	}
}

func TestGreedySolver_DuplicateSubjectCourses(t *testing.T) {
	// 同科目拆成多条希望课程时未满足需求按 (学生, 科目) 聚合，
	// 已分配数加未分配数仍等于希望总数
	cal := solverCalendar(t)
	teacher := mathTeacher("t1", "高橋")
	student := mathStudent("s1", "佐藤", 1, map[string][]model.PeriodID{
		"2025-08-01": {2},
	})
	student.DesiredCourses = []model.DesiredCourse{
		{Subject: "数学", Units: 1},
		{Subject: "数学", Units: 1},
	}

	schedCtx := constraint.NewContext(cal, []*model.Teacher{teacher}, []*model.Student{student}, 2)
	res, err := NewGreedySolver(DefaultWeights()).Solve(context.Background(), schedCtx)
	if err != nil {
		t.Fatalf("Solve 失败: %v", err)
	}

	if len(res.Assignments) != 1 {
		t.Fatalf("分配数 = %d, 期望 1", len(res.Assignments))
	}
	if len(res.Unmet) != 1 {
		t.Fatalf("未满足记录数 = %d, 期望聚合为 1", len(res.Unmet))
	}

	u := res.Unmet[0]
	if u.UnitsRequested != 2 || u.UnitsAssigned != 1 {
		t.Errorf("未满足记录 = %+v, 期望希望 2 / 已分配 1", u)
	}
	if got := len(res.Assignments) + (u.UnitsRequested - u.UnitsAssigned); got != student.TotalDesiredUnits() {
		t.Errorf("分配+未分配 = %d, 期望 %d", got, student.TotalDesiredUnits())
	}
	if len(res.Diagnostics) != 1 {
		t.Errorf("诊断数 = %d, 期望 1", len(res.Diagnostics))
	}
}

func TestGreedySolver_RejectionCounts(t *testing.T) {
	// 容量耗尽场景下拒绝原因按类型累计
	cal := solverCalendar(t)
	teacher := mathTeacher("t1", "高橋")
	onlySlot := map[string][]model.PeriodID{"2025-08-01": {2}}
	s1 := mathStudent("s1", "佐藤", 1, onlySlot)
	s2 := mathStudent("s2", "鈴木", 1, onlySlot)
	s3 := mathStudent("s3", "田中", 1, onlySlot)

	schedCtx := constraint.NewContext(cal, []*model.Teacher{teacher}, []*model.Student{s1, s2, s3}, 2)
	res, err := NewGreedySolver(DefaultWeights()).Solve(context.Background(), schedCtx)
	if err != nil {
		t.Fatalf("Solve 失败: %v", err)
	}

	if res.RejectionCounts == nil {
		t.Fatal("期望非空的拒绝统计")
	}
	if res.RejectionCounts["teacher_slot_full"] == 0 {
		t.Errorf("拒绝统计 = %v, 期望包含讲师槽位已满", res.RejectionCounts)
	}
}

func TestGreedySolver_ScarcityFirst(t *testing.T) {
	// s2 只有一个可行槽位，应先于槽位充裕的 s1 获得该槽位
	cal := solverCalendar(t)
	teacher := mathTeacher("t1", "高橋")
	s1 := mathStudent("s1", "佐藤", 1, map[string][]model.PeriodID{
		"2025-08-01": {2, 3, 4},
		"2025-08-02": {2, 3},
	})
	s2 := mathStudent("s2", "鈴木", 1, map[string][]model.PeriodID{
		"2025-08-02": {3},
	})

	schedCtx := constraint.NewContext(cal, []*model.Teacher{teacher}, []*model.Student{s1, s2}, 2)
	res, err := NewGreedySolver(DefaultWeights()).Solve(context.Background(), schedCtx)
	if err != nil {
		t.Fatalf("Solve 失败: %v", err)
	}

	if len(res.Assignments) != 2 {
		t.Fatalf("分配数 = %d, 期望 2", len(res.Assignments))
	}
	if res.Assignments[0].StudentID != "s2" {
		t.Errorf("首个分配学生 = %s, 期望稀缺学生 s2", res.Assignments[0].StudentID)
	}
}

func TestGreedySolver_ContextCancelled(t *testing.T) {
	cal := solverCalendar(t)
	teacher := mathTeacher("t1", "高橋")
	student := mathStudent("s1", "佐藤", 2, map[string][]model.PeriodID{
		"2025-08-01": {2, 3},
	})

	schedCtx := constraint.NewContext(cal, []*model.Teacher{teacher}, []*model.Student{student}, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGreedySolver(DefaultWeights()).Solve(ctx, schedCtx)
	if err == nil {
		t.Fatal("已取消的上下文应返回错误")
	}
}
