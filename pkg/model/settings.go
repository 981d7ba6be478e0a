package model

// SubjectSettings 按学生类别的年级与可选科目配置
type SubjectSettings struct {
	Grades            []string `json:"grades"`
	AvailableSubjects []string `json:"availableSubjects"`
}

// AdminSettings 管理设置（每次排班运行传入的不可变快照）
type AdminSettings struct {
	ShiftStartDate string `json:"commonShiftStartDate"` // 排班期间开始日（含）
	ShiftEndDate   string `json:"commonShiftEndDate"`   // 排班期间结束日（含）

	Holidays       []string `json:"holidays"`       // 休校日：全面停业
	SuspensionDays []string `json:"suspensionDays"` // 停课日：固定课暂停，特别课可排

	// DefaultShiftPeriodsByDay 星期 → 默认开放时限列表
	DefaultShiftPeriodsByDay map[Weekday][]PeriodID `json:"defaultShiftPeriodsByDay"`

	// SubjectSettingsByAffiliation 学生类别 → 年级/科目目录
	SubjectSettingsByAffiliation map[Affiliation]SubjectSettings `json:"subjectSettingsByAffiliation"`
}

// SubjectCatalog 返回指定类别的科目目录（未配置时返回 nil）
func (s *AdminSettings) SubjectCatalog(aff Affiliation) []string {
	if s.SubjectSettingsByAffiliation == nil {
		return nil
	}
	return s.SubjectSettingsByAffiliation[aff].AvailableSubjects
}

// OpenPeriodsOn 返回指定星期的默认开放时限
func (s *AdminSettings) OpenPeriodsOn(day Weekday) []PeriodID {
	if s.DefaultShiftPeriodsByDay == nil {
		return nil
	}
	return s.DefaultShiftPeriodsByDay[day]
}

// Constants 前端传入的全局常量（星期顺序、时限定义、科目总表）
type Constants struct {
	DaysOfWeek        []Weekday                     `json:"daysOfWeek"`
	PeriodDefinitions map[PeriodID]PeriodDefinition `json:"periodDefinitions"`
	AllSubjectsMaster []string                      `json:"allSubjectsMaster"`
}
