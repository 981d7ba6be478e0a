// Package catalog 提供内置的默认目录（时限定义、科目总表、类别配置）
package catalog

import (
	"sort"

	"github.com/jukushift/jukushift/pkg/model"
)

// PeriodDefinitions 默认时限定义（1限至6限）
func PeriodDefinitions() map[model.PeriodID]model.PeriodDefinition {
	return map[model.PeriodID]model.PeriodDefinition{
		1: {ID: 1, Label: "1限", Time: "14:00-15:30"},
		2: {ID: 2, Label: "2限", Time: "16:20-17:50"},
		3: {ID: 3, Label: "3限", Time: "18:00-19:30"},
		4: {ID: 4, Label: "4限", Time: "19:40-21:10"},
		5: {ID: 5, Label: "5限", Time: "21:20-22:00"},
		6: {ID: 6, Label: "6限", Time: "22:10-22:50"},
	}
}

// AllSubjectsMaster 科目总表（按字典序排序）
func AllSubjectsMaster() []string {
	subjects := []string{
		"算数", "国語", "理科", "社会", "生活", "英語", "道徳", "音楽", "図画工作", "体育", "家庭科",
		"数学", "物理", "化学", "生物", "地学",
		"現代文", "古文", "漢文", "日本史A", "日本史B", "世界史A", "世界史B", "地理A", "地理B", "現代社会", "倫理", "政治・経済",
		"数学I", "数学A", "数学II", "数学B", "数学III",
		"物理基礎", "化学基礎", "生物基礎", "地学基礎",
		"情報", "プログラミング", "書道",
	}
	sort.Strings(subjects)
	return subjects
}

// DefaultSubjectSettings 默认的类别 → 年级/科目配置
func DefaultSubjectSettings() map[model.Affiliation]model.SubjectSettings {
	return map[model.Affiliation]model.SubjectSettings{
		model.AffiliationElementary: {
			Grades:            []string{"1年", "2年", "3年", "4年", "5年", "6年"},
			AvailableSubjects: []string{"算数", "国語", "理科", "社会", "英語"},
		},
		model.AffiliationMiddle: {
			Grades:            []string{"1年", "2年", "3年"},
			AvailableSubjects: []string{"数学", "国語", "理科", "社会", "英語"},
		},
		model.AffiliationHigh: {
			Grades:            []string{"1年", "2年", "3年"},
			AvailableSubjects: []string{"数学I", "数学A", "数学II", "数学B", "英語", "現代文", "古文", "物理基礎", "化学基礎"},
		},
	}
}

// DefaultShiftPeriodsByDay 默认的星期 → 开放时限配置（周日不开放）
func DefaultShiftPeriodsByDay() map[model.Weekday][]model.PeriodID {
	return map[model.Weekday][]model.PeriodID{
		"月": {2, 3, 4, 5, 6},
		"火": {2, 3, 4, 5, 6},
		"水": {2, 3, 4, 5, 6},
		"木": {2, 3, 4, 5, 6},
		"金": {2, 3, 4, 5, 6},
		"土": {2, 3, 4, 5},
		"日": {},
	}
}

// MinDesiredPeriodsOptions 讲师可选的最低希望课时数
func MinDesiredPeriodsOptions() []int {
	return []int{1, 2, 3, 4}
}

// Affiliations 全部学生类别
func Affiliations() []model.Affiliation {
	return []model.Affiliation{
		model.AffiliationElementary,
		model.AffiliationMiddle,
		model.AffiliationHigh,
	}
}

// DefaultConstants 返回内置的全局常量
func DefaultConstants() model.Constants {
	return model.Constants{
		DaysOfWeek:        model.DaysOfWeek,
		PeriodDefinitions: PeriodDefinitions(),
		AllSubjectsMaster: AllSubjectsMaster(),
	}
}

// DefaultAdminSettings 返回内置的默认管理设置（日期区间留空，由调用方填写）
func DefaultAdminSettings() model.AdminSettings {
	return model.AdminSettings{
		Holidays:                     []string{},
		SuspensionDays:               []string{},
		DefaultShiftPeriodsByDay:     DefaultShiftPeriodsByDay(),
		SubjectSettingsByAffiliation: DefaultSubjectSettings(),
	}
}

// ApplyDefaults 为缺失的设置字段填入内置默认值
func ApplyDefaults(settings *model.AdminSettings) {
	defaults := DefaultAdminSettings()
	if settings.DefaultShiftPeriodsByDay == nil {
		settings.DefaultShiftPeriodsByDay = defaults.DefaultShiftPeriodsByDay
	}
	if settings.SubjectSettingsByAffiliation == nil {
		settings.SubjectSettingsByAffiliation = defaults.SubjectSettingsByAffiliation
	}
}
