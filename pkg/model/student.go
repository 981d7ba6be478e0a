package model

// Student 学生
type Student struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Affiliation Affiliation `json:"affiliation"`
	Grade       string      `json:"grade"`

	// DesiredCourses 希望课程列表（顺序即录入顺序，影响平局裁决）
	DesiredCourses []DesiredCourse `json:"desiredCourses"`

	// SchedulingPreference 集中/分散偏好
	SchedulingPreference SchedulingPreference `json:"schedulingPreference"`

	// IdleTimePreference 空堂容忍度
	IdleTimePreference IdleGapTolerance `json:"idleTimePreference"`

	// Availability 听课希望：日期 → 可听课时限集合
	Availability map[string][]PeriodID `json:"availableLectureSlots"`
}

// IsAvailable 判断学生在指定日期时限是否可听课
func (s *Student) IsAvailable(date string, period PeriodID) bool {
	if s.Availability == nil {
		return false
	}
	return ContainsPeriod(s.Availability[date], period)
}

// TotalDesiredUnits 返回学生希望的总课时数
func (s *Student) TotalDesiredUnits() int {
	total := 0
	for _, c := range s.DesiredCourses {
		total += c.Units
	}
	return total
}

// DesiredUnits 返回学生对某科目的希望课时数
// 同科目出现多条希望课程时合并计数
func (s *Student) DesiredUnits(subject string) int {
	total := 0
	for _, c := range s.DesiredCourses {
		if c.Subject == subject {
			total += c.Units
		}
	}
	return total
}
