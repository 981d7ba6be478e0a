// Package constraint 定义候选分配的可行性判定
package constraint

import (
	"fmt"
	"sort"

	"github.com/jukushift/jukushift/pkg/calendar"
	"github.com/jukushift/jukushift/pkg/model"
)

// DefaultTeacherCapacity 默认的讲师单槽位最大并行学生数
const DefaultTeacherCapacity = 2

// Context 排班上下文
// 携带不可变输入（日历、讲师、学生）和随求解增长的分配集合，
// 分配集合通过索引缓存支持按槽位 O(1) 查询
type Context struct {
	Calendar *calendar.Calendar
	Teachers []*model.Teacher
	Students []*model.Student

	// Capacity 讲师单个 (日期, 时限) 槽位可并行授课的最大学生数
	Capacity int

	// 当前分配结果
	Assignments []*model.Assignment

	// 索引缓存
	teacherMap      map[string]*model.Teacher
	studentMap      map[string]*model.Student
	teacherSlot     map[string]int              // 讲师#日期#时限 → 学生数
	studentSlot     map[string]bool             // 学生#日期#时限 → 已占用
	teacherDayCount map[string]int              // 讲师#日期 → 已分配槽位数（同槽多学生计一次）
	studentPeriods  map[string][]model.PeriodID // 学生#日期 → 已分配时限（升序）
	remainingUnits  map[string]int              // 学生#科目 → 剩余希望课时
	assignedDates   map[string]map[string]bool  // 学生ID → 已分配日期集合
}

// NewContext 创建排班上下文
func NewContext(cal *calendar.Calendar, teachers []*model.Teacher, students []*model.Student, capacity int) *Context {
	if capacity <= 0 {
		capacity = DefaultTeacherCapacity
	}

	c := &Context{
		Calendar:        cal,
		Teachers:        teachers,
		Students:        students,
		Capacity:        capacity,
		Assignments:     make([]*model.Assignment, 0),
		teacherMap:      make(map[string]*model.Teacher, len(teachers)),
		studentMap:      make(map[string]*model.Student, len(students)),
		teacherSlot:     make(map[string]int),
		studentSlot:     make(map[string]bool),
		teacherDayCount: make(map[string]int),
		studentPeriods:  make(map[string][]model.PeriodID),
		remainingUnits:  make(map[string]int),
		assignedDates:   make(map[string]map[string]bool),
	}

	for _, t := range teachers {
		c.teacherMap[t.ID] = t
	}
	for _, s := range students {
		c.studentMap[s.ID] = s
		for _, course := range s.DesiredCourses {
			c.remainingUnits[unitKey(s.ID, course.Subject)] += course.Units
		}
	}

	return c
}

// AddAssignment 提交一次分配并更新索引
func (c *Context) AddAssignment(a *model.Assignment) {
	c.Assignments = append(c.Assignments, a)

	tsKey := a.TeacherSlotKey()
	if c.teacherSlot[tsKey] == 0 {
		c.teacherDayCount[dayKey(a.TeacherID, a.Date)]++
	}
	c.teacherSlot[tsKey]++
	c.studentSlot[a.StudentSlotKey()] = true

	spKey := dayKey(a.StudentID, a.Date)
	periods := append(c.studentPeriods[spKey], a.Period)
	sort.Slice(periods, func(i, j int) bool { return periods[i] < periods[j] })
	c.studentPeriods[spKey] = periods

	if c.assignedDates[a.StudentID] == nil {
		c.assignedDates[a.StudentID] = make(map[string]bool)
	}
	c.assignedDates[a.StudentID][a.Date] = true

	key := unitKey(a.StudentID, a.Subject)
	if c.remainingUnits[key] > 0 {
		c.remainingUnits[key]--
	}
}

// GetTeacher 获取讲师
func (c *Context) GetTeacher(id string) *model.Teacher {
	return c.teacherMap[id]
}

// GetStudent 获取学生
func (c *Context) GetStudent(id string) *model.Student {
	return c.studentMap[id]
}

// RemainingUnits 返回学生对某科目的剩余希望课时数
func (c *Context) RemainingUnits(studentID, subject string) int {
	return c.remainingUnits[unitKey(studentID, subject)]
}

// TeacherSlotCount 返回讲师某槽位当前的并行学生数
func (c *Context) TeacherSlotCount(teacherID, date string, period model.PeriodID) int {
	return c.teacherSlot[fmt.Sprintf("%s#%s#%d", teacherID, date, period)]
}

// StudentHasSlot 判断学生某槽位是否已被占用
func (c *Context) StudentHasSlot(studentID, date string, period model.PeriodID) bool {
	return c.studentSlot[fmt.Sprintf("%s#%s#%d", studentID, date, period)]
}

// TeacherDayCount 返回讲师某日已分配的槽位数
func (c *Context) TeacherDayCount(teacherID, date string) int {
	return c.teacherDayCount[dayKey(teacherID, date)]
}

// StudentPeriodsOn 返回学生某日已分配的时限（升序）
func (c *Context) StudentPeriodsOn(studentID, date string) []model.PeriodID {
	return c.studentPeriods[dayKey(studentID, date)]
}

// StudentDayCount 返回学生已分配课时的不同日期数
func (c *Context) StudentDayCount(studentID string) int {
	return len(c.assignedDates[studentID])
}

// StudentHasDate 判断学生某日是否已有分配
func (c *Context) StudentHasDate(studentID, date string) bool {
	return c.assignedDates[studentID][date]
}

func unitKey(studentID, subject string) string {
	return studentID + "#" + subject
}

func dayKey(id, date string) string {
	return id + "#" + date
}
