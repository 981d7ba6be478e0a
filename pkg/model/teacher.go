package model

// RegularClass 固定循环课（每周固定的既有授课承诺，排班时作为硬约束）
type RegularClass struct {
	StudentName        string      `json:"studentName"`
	StudentAffiliation Affiliation `json:"studentAffiliation"`
	StudentGrade       string      `json:"studentGrade"`
	Subject            string      `json:"subject"`
	Day                Weekday     `json:"day"`
	Period             PeriodID    `json:"period"`
}

// Teacher 讲师
type Teacher struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// TeachableSubjects 按学生类别划分的可授科目
	TeachableSubjects map[Affiliation][]string `json:"teachableSubjectsByAffiliation"`

	// MinDesiredPeriods 出勤日希望的最少课时数
	MinDesiredPeriods int `json:"minDesiredPeriods"`

	// RegularClasses 固定循环课列表
	RegularClasses []RegularClass `json:"regularClasses"`

	// Availability 出勤希望：日期 → 可授课时限集合
	Availability map[string][]PeriodID `json:"selectedDateSlots"`
}

// CanTeach 判断讲师是否可为指定类别的学生教授某科目
func (t *Teacher) CanTeach(aff Affiliation, subject string) bool {
	if t.TeachableSubjects == nil {
		return false
	}
	return ContainsSubject(t.TeachableSubjects[aff], subject)
}

// IsAvailable 判断讲师在指定日期时限是否有出勤希望
func (t *Teacher) IsAvailable(date string, period PeriodID) bool {
	if t.Availability == nil {
		return false
	}
	return ContainsPeriod(t.Availability[date], period)
}

// AvailablePeriodCount 返回讲师在指定日期的出勤希望课时数
func (t *Teacher) AvailablePeriodCount(date string) int {
	if t.Availability == nil {
		return 0
	}
	return len(t.Availability[date])
}

// HasRegularClassAt 判断讲师在指定星期时限是否有固定循环课
func (t *Teacher) HasRegularClassAt(day Weekday, period PeriodID) bool {
	for _, rc := range t.RegularClasses {
		if rc.Day == day && rc.Period == period {
			return true
		}
	}
	return false
}

// RegularSubjectsFor 返回讲师与指定学生之间固定循环课的科目列表
// 学生身份按姓名、类别、年级匹配（固定课记录不携带学生ID）
func (t *Teacher) RegularSubjectsFor(s *Student) []string {
	var subjects []string
	for _, rc := range t.RegularClasses {
		if rc.StudentName == s.Name && rc.StudentAffiliation == s.Affiliation && rc.StudentGrade == s.Grade {
			subjects = append(subjects, rc.Subject)
		}
	}
	return subjects
}
