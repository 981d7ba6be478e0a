// Package validator 提供排课结果验证功能
package validator

import (
	"fmt"
	"sort"

	"github.com/jukushift/jukushift/pkg/calendar"
	"github.com/jukushift/jukushift/pkg/model"
)

// ConflictType 冲突类型
type ConflictType string

const (
	ConflictStudentDouble  ConflictType = "student_double_booked" // 学生同一时限重复排课
	ConflictCapacity       ConflictType = "capacity_exceeded"     // 讲师同时限学生数超限
	ConflictTeacherAbsent  ConflictType = "teacher_unavailable"   // 讲师不可用
	ConflictStudentAbsent  ConflictType = "student_unavailable"   // 学生不可用
	ConflictClosedDay      ConflictType = "closed_day"            // 休校日或非开放时限
	ConflictSubject        ConflictType = "subject_mismatch"      // 科目不匹配
	ConflictRegularClass   ConflictType = "regular_class"         // 与固定循环课冲突
	ConflictUnknownTeacher ConflictType = "unknown_teacher"       // 讲师不存在
	ConflictUnknownStudent ConflictType = "unknown_student"       // 学生不存在
)

// Conflict 冲突信息
type Conflict struct {
	Type      ConflictType `json:"type"`
	Severity  string       `json:"severity"` // error / warning
	Date      string       `json:"date"`
	Period    model.PeriodID `json:"period"`
	TeacherID string       `json:"teacher_id,omitempty"`
	StudentID string       `json:"student_id,omitempty"`
	Message   string       `json:"message"`
}

// ConflictDetector 冲突检测器
type ConflictDetector struct {
	config *DetectorConfig
}

// DetectorConfig 检测器配置
type DetectorConfig struct {
	TeacherCapacity   int  // 讲师同一时限可带学生数上限
	CheckSubjects     bool // 是否检查科目能力
	CheckAvailability bool // 是否检查提交的可用时段
}

// DefaultDetectorConfig 返回默认配置
func DefaultDetectorConfig() *DetectorConfig {
	return &DetectorConfig{
		TeacherCapacity:   2,
		CheckSubjects:     true,
		CheckAvailability: true,
	}
}

// NewConflictDetector 创建冲突检测器
func NewConflictDetector(config *DetectorConfig) *ConflictDetector {
	if config == nil {
		config = DefaultDetectorConfig()
	}
	return &ConflictDetector{config: config}
}

// DetectAll 检测排课结果中的所有冲突
func (d *ConflictDetector) DetectAll(
	assignments []model.Assignment,
	teachers []*model.Teacher,
	students []*model.Student,
	cal *calendar.Calendar,
) []Conflict {
	var conflicts []Conflict

	teacherMap := make(map[string]*model.Teacher, len(teachers))
	for _, t := range teachers {
		teacherMap[t.ID] = t
	}
	studentMap := make(map[string]*model.Student, len(students))
	for _, s := range students {
		studentMap[s.ID] = s
	}

	conflicts = append(conflicts, d.detectStudentDoubleBooking(assignments, studentMap)...)
	conflicts = append(conflicts, d.detectCapacityViolations(assignments, teacherMap)...)

	for i := range assignments {
		a := &assignments[i]
		conflicts = append(conflicts, d.detectForAssignment(a, teacherMap, studentMap, cal)...)
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		if conflicts[i].Date != conflicts[j].Date {
			return conflicts[i].Date < conflicts[j].Date
		}
		return conflicts[i].Period < conflicts[j].Period
	})

	return conflicts
}

// detectForAssignment 检查单条排课的讲师、学生与日历约束
func (d *ConflictDetector) detectForAssignment(
	a *model.Assignment,
	teacherMap map[string]*model.Teacher,
	studentMap map[string]*model.Student,
	cal *calendar.Calendar,
) []Conflict {
	var conflicts []Conflict

	teacher, teacherOK := teacherMap[a.TeacherID]
	if !teacherOK {
		conflicts = append(conflicts, Conflict{
			Type:      ConflictUnknownTeacher,
			Severity:  "error",
			Date:      a.Date,
			Period:    a.Period,
			TeacherID: a.TeacherID,
			Message:   fmt.Sprintf("排课引用了不存在的讲师 %s", a.TeacherID),
		})
	}

	student, studentOK := studentMap[a.StudentID]
	if !studentOK {
		conflicts = append(conflicts, Conflict{
			Type:      ConflictUnknownStudent,
			Severity:  "error",
			Date:      a.Date,
			Period:    a.Period,
			StudentID: a.StudentID,
			Message:   fmt.Sprintf("排课引用了不存在的学生 %s", a.StudentID),
		})
	}

	// 日历检查
	if cal != nil {
		day, ok := cal.Get(a.Date)
		switch {
		case !ok:
			conflicts = append(conflicts, Conflict{
				Type:     ConflictClosedDay,
				Severity: "error",
				Date:     a.Date,
				Period:   a.Period,
				Message:  fmt.Sprintf("日期 %s 不在排课区间内", a.Date),
			})
		case day.IsHoliday:
			conflicts = append(conflicts, Conflict{
				Type:     ConflictClosedDay,
				Severity: "error",
				Date:     a.Date,
				Period:   a.Period,
				Message:  fmt.Sprintf("日期 %s 为休校日", a.Date),
			})
		case !model.ContainsPeriod(day.OpenPeriods, a.Period):
			conflicts = append(conflicts, Conflict{
				Type:     ConflictClosedDay,
				Severity: "error",
				Date:     a.Date,
				Period:   a.Period,
				Message:  fmt.Sprintf("日期 %s 第 %d 限不在开放时限内", a.Date, a.Period),
			})
		default:
			// 固定循环课在非停课日占用讲师时限
			if teacherOK && !day.IsSuspended && teacher.HasRegularClassAt(day.Weekday, a.Period) {
				conflicts = append(conflicts, Conflict{
					Type:      ConflictRegularClass,
					Severity:  "error",
					Date:      a.Date,
					Period:    a.Period,
					TeacherID: a.TeacherID,
					Message:   fmt.Sprintf("讲师 %s 在 %s 第 %d 限已有固定循环课", a.TeacherName, a.Date, a.Period),
				})
			}
		}
	}

	if teacherOK && studentOK && d.config.CheckSubjects {
		if !teacher.CanTeach(student.Affiliation, a.Subject) {
			conflicts = append(conflicts, Conflict{
				Type:      ConflictSubject,
				Severity:  "error",
				Date:      a.Date,
				Period:    a.Period,
				TeacherID: a.TeacherID,
				StudentID: a.StudentID,
				Message:   fmt.Sprintf("讲师 %s 不能为%s教授科目 '%s'", a.TeacherName, student.Affiliation, a.Subject),
			})
		}
	}

	if d.config.CheckAvailability {
		if teacherOK && !teacher.IsAvailable(a.Date, a.Period) {
			conflicts = append(conflicts, Conflict{
				Type:      ConflictTeacherAbsent,
				Severity:  "error",
				Date:      a.Date,
				Period:    a.Period,
				TeacherID: a.TeacherID,
				Message:   fmt.Sprintf("讲师 %s 在 %s 第 %d 限未提交可用时段", a.TeacherName, a.Date, a.Period),
			})
		}
		if studentOK && !student.IsAvailable(a.Date, a.Period) {
			conflicts = append(conflicts, Conflict{
				Type:      ConflictStudentAbsent,
				Severity:  "error",
				Date:      a.Date,
				Period:    a.Period,
				StudentID: a.StudentID,
				Message:   fmt.Sprintf("学生 %s 在 %s 第 %d 限未提交可上课时段", a.StudentName, a.Date, a.Period),
			})
		}
	}

	return conflicts
}

// detectStudentDoubleBooking 检测学生同一时限被重复排课
func (d *ConflictDetector) detectStudentDoubleBooking(assignments []model.Assignment, studentMap map[string]*model.Student) []Conflict {
	var conflicts []Conflict

	seen := make(map[string]*model.Assignment)
	for i := range assignments {
		a := &assignments[i]
		key := a.StudentSlotKey()
		if prev, ok := seen[key]; ok {
			conflicts = append(conflicts, Conflict{
				Type:      ConflictStudentDouble,
				Severity:  "error",
				Date:      a.Date,
				Period:    a.Period,
				StudentID: a.StudentID,
				Message:   fmt.Sprintf("学生 %s 在 %s 第 %d 限被排了多节课（讲师 %s 与 %s）", a.StudentName, a.Date, a.Period, prev.TeacherName, a.TeacherName),
			})
			continue
		}
		seen[key] = a
	}

	return conflicts
}

// detectCapacityViolations 检测讲师同一时限带课学生数超限
func (d *ConflictDetector) detectCapacityViolations(assignments []model.Assignment, teacherMap map[string]*model.Teacher) []Conflict {
	var conflicts []Conflict

	counts := make(map[string]int)
	sample := make(map[string]*model.Assignment)
	for i := range assignments {
		a := &assignments[i]
		key := a.TeacherSlotKey()
		counts[key]++
		sample[key] = a
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if counts[key] <= d.config.TeacherCapacity {
			continue
		}
		a := sample[key]
		conflicts = append(conflicts, Conflict{
			Type:      ConflictCapacity,
			Severity:  "error",
			Date:      a.Date,
			Period:    a.Period,
			TeacherID: a.TeacherID,
			Message:   fmt.Sprintf("讲师 %s 在 %s 第 %d 限带课 %d 名学生，超过上限 %d 名", a.TeacherName, a.Date, a.Period, counts[key], d.config.TeacherCapacity),
		})
	}

	return conflicts
}
