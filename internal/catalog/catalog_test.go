package catalog

import (
	"sort"
	"testing"

	"github.com/jukushift/jukushift/pkg/model"
)

func TestPeriodDefinitions(t *testing.T) {
	defs := PeriodDefinitions()
	if len(defs) != 6 {
		t.Fatalf("时限数 = %d, 期望 6", len(defs))
	}
	for id, def := range defs {
		if def.ID != id {
			t.Errorf("时限 %d 的 ID = %d", id, def.ID)
		}
		if def.Label == "" || def.Time == "" {
			t.Errorf("时限 %d 定义不完整: %+v", id, def)
		}
	}
	if defs[1].Time != "14:00-15:30" || defs[6].Time != "22:10-22:50" {
		t.Errorf("时限时间段不符: %+v", defs)
	}
}

func TestAllSubjectsMaster(t *testing.T) {
	subjects := AllSubjectsMaster()
	if !sort.StringsAreSorted(subjects) {
		t.Error("科目总表应按字典序排序")
	}

	seen := make(map[string]bool)
	for _, s := range subjects {
		if seen[s] {
			t.Errorf("科目重复: %s", s)
		}
		seen[s] = true
	}

	// 各类别的可选科目都必须在总表中
	for aff, settings := range DefaultSubjectSettings() {
		for _, s := range settings.AvailableSubjects {
			if !seen[s] {
				t.Errorf("%s 的科目 %s 不在总表中", aff, s)
			}
		}
	}
}

func TestDefaultShiftPeriodsByDay(t *testing.T) {
	periods := DefaultShiftPeriodsByDay()
	if len(periods) != 7 {
		t.Fatalf("星期数 = %d, 期望 7", len(periods))
	}
	if len(periods["日"]) != 0 {
		t.Errorf("周日默认不开放: %v", periods["日"])
	}
	if len(periods["土"]) != 4 || len(periods["月"]) != 5 {
		t.Errorf("默认开放时限不符: 土=%v 月=%v", periods["土"], periods["月"])
	}
}

func TestApplyDefaults(t *testing.T) {
	t.Run("填充缺失字段", func(t *testing.T) {
		settings := &model.AdminSettings{
			ShiftStartDate: "2025-08-01",
			ShiftEndDate:   "2025-08-31",
		}
		ApplyDefaults(settings)

		if len(settings.DefaultShiftPeriodsByDay["月"]) != 5 {
			t.Errorf("开放时限配置未填充默认值: %v", settings.DefaultShiftPeriodsByDay)
		}
		if len(settings.SubjectSettingsByAffiliation[model.AffiliationMiddle].AvailableSubjects) == 0 {
			t.Errorf("类别科目配置未填充默认值: %v", settings.SubjectSettingsByAffiliation)
		}
		if settings.ShiftStartDate != "2025-08-01" {
			t.Error("已有字段不应被覆盖")
		}
	})

	t.Run("保留已有配置", func(t *testing.T) {
		custom := map[model.Weekday][]model.PeriodID{"月": {1}}
		settings := &model.AdminSettings{DefaultShiftPeriodsByDay: custom}
		ApplyDefaults(settings)

		if len(settings.DefaultShiftPeriodsByDay["月"]) != 1 {
			t.Errorf("已有开放时限配置被覆盖: %v", settings.DefaultShiftPeriodsByDay)
		}
	})
}
