package model

import "fmt"

// Assignment 排班结果中的单次授课分配
// 以 (日期, 时限, 讲师, 学生, 科目) 唯一标识
type Assignment struct {
	Date        string   `json:"date"`
	Period      PeriodID `json:"period"`
	TeacherID   string   `json:"teacherId"`
	TeacherName string   `json:"teacherName"`
	StudentID   string   `json:"studentId"`
	StudentName string   `json:"studentName"`
	Subject     string   `json:"subject"`
}

// SlotKey 返回 (日期, 时限) 槽位键
func (a *Assignment) SlotKey() string {
	return fmt.Sprintf("%s#%d", a.Date, a.Period)
}

// TeacherSlotKey 返回 (讲师, 日期, 时限) 槽位键
func (a *Assignment) TeacherSlotKey() string {
	return fmt.Sprintf("%s#%s#%d", a.TeacherID, a.Date, a.Period)
}

// StudentSlotKey 返回 (学生, 日期, 时限) 槽位键
func (a *Assignment) StudentSlotKey() string {
	return fmt.Sprintf("%s#%s#%d", a.StudentID, a.Date, a.Period)
}

// UnmetDemand 未满足的希望课时
type UnmetDemand struct {
	StudentID      string `json:"studentId"`
	StudentName    string `json:"studentName"`
	Subject        string `json:"subject"`
	UnitsRequested int    `json:"unitsRequested"`
	UnitsAssigned  int    `json:"unitsAssigned"`
	Reason         string `json:"reason,omitempty"` // 主导的拒绝原因
}

// UnitsLeft 返回剩余未排的课时数
func (u *UnmetDemand) UnitsLeft() int {
	return u.UnitsRequested - u.UnitsAssigned
}

// ScheduleResult 单次排班运行的完整结果
type ScheduleResult struct {
	Assignments []Assignment  `json:"assignments"`
	UnmetDemand []UnmetDemand `json:"unmetDemand"`
	Diagnostics []string      `json:"diagnostics"`
}

// AssignedUnits 返回某学生某科目已排的课时数
func (r *ScheduleResult) AssignedUnits(studentID, subject string) int {
	count := 0
	for _, a := range r.Assignments {
		if a.StudentID == studentID && a.Subject == subject {
			count++
		}
	}
	return count
}
