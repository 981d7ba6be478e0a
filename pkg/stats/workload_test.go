package stats

import (
	"math"
	"testing"

	"github.com/jukushift/jukushift/pkg/model"
)

func TestWorkloadAnalyzer_Analyze(t *testing.T) {
	teachers := []*model.Teacher{
		{ID: "t1", Name: "高橋", MinDesiredPeriods: 3},
		{ID: "t2", Name: "山本"},
	}

	// t1: 2025-08-01 两个槽位，其中 2限 并行两名学生；t2 无分配
	assignments := []model.Assignment{
		{Date: "2025-08-01", Period: 2, TeacherID: "t1", StudentID: "s1", Subject: "数学"},
		{Date: "2025-08-01", Period: 2, TeacherID: "t1", StudentID: "s2", Subject: "英語"},
		{Date: "2025-08-01", Period: 3, TeacherID: "t1", StudentID: "s1", Subject: "数学"},
	}

	m := NewWorkloadAnalyzer().Analyze(teachers, assignments)

	if m.MaxSlots != 2 || m.MinSlots != 0 {
		t.Errorf("槽位极值 = (%d, %d), 期望 (2, 0)", m.MaxSlots, m.MinSlots)
	}
	if m.AvgSlots != 1 {
		t.Errorf("人均槽位数 = %.1f, 期望 1", m.AvgSlots)
	}
	if m.SlotVariance != 1 {
		t.Errorf("方差 = %.2f, 期望 1", m.SlotVariance)
	}
	// 两名讲师各占 (2, 0)：基尼系数 0.5
	if math.Abs(m.SlotGini-0.5) > 1e-9 {
		t.Errorf("基尼系数 = %.4f, 期望 0.5", m.SlotGini)
	}

	if len(m.TeacherStats) != 2 {
		t.Fatalf("讲师统计数 = %d, 期望 2", len(m.TeacherStats))
	}

	t1 := m.TeacherStats[0]
	if t1.TotalSlots != 2 || t1.TotalUnits != 3 || t1.DaysWorked != 1 || t1.MaxPerDay != 2 {
		t.Errorf("t1 统计 = %+v", t1)
	}
	// 当日 2 槽低于希望下限 3
	if t1.ShortfallDays != 1 {
		t.Errorf("t1 缺口天数 = %d, 期望 1", t1.ShortfallDays)
	}
	if t1.Deviation != 100 {
		t.Errorf("t1 偏差 = %.1f%%, 期望 100%%", t1.Deviation)
	}

	t2 := m.TeacherStats[1]
	if t2.TotalSlots != 0 || t2.DaysWorked != 0 || t2.ShortfallDays != 0 {
		t.Errorf("t2 统计 = %+v", t2)
	}
}

func TestWorkloadAnalyzer_Empty(t *testing.T) {
	m := NewWorkloadAnalyzer().Analyze(nil, nil)
	if len(m.TeacherStats) != 0 || m.SlotGini != 0 {
		t.Errorf("空输入指标 = %+v", m)
	}
}

func TestGini(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"完全平均", []float64{3, 3, 3}, 0},
		{"全部为零", []float64{0, 0}, 0},
		{"完全集中", []float64{0, 0, 0, 4}, 0.75},
		{"空输入", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gini(tt.values); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("gini(%v) = %.4f, 期望 %.4f", tt.values, got, tt.expected)
			}
		})
	}
}
