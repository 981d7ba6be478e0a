package stats

import (
	"sort"

	"github.com/jukushift/jukushift/pkg/model"
)

// CoverageMetrics 需求覆盖率指标
type CoverageMetrics struct {
	// 整体覆盖率
	TotalUnits    int     `json:"total_units"`    // 希望课时总数
	AssignedUnits int     `json:"assigned_units"` // 已排课时数
	FillRate      float64 `json:"fill_rate"`      // 覆盖率 (%)

	// 按学生统计
	StudentCoverage []StudentCoverage `json:"student_coverage"`

	// 按科目统计
	SubjectCoverage map[string]SubjectCoverage `json:"subject_coverage"`

	// 按日期统计
	DailyLoad []DayLoad `json:"daily_load"`
}

// StudentCoverage 学生覆盖情况
type StudentCoverage struct {
	StudentID     string  `json:"student_id"`
	StudentName   string  `json:"student_name"`
	DesiredUnits  int     `json:"desired_units"`
	AssignedUnits int     `json:"assigned_units"`
	FillRate      float64 `json:"fill_rate"`
}

// SubjectCoverage 科目覆盖情况
type SubjectCoverage struct {
	DesiredUnits  int     `json:"desired_units"`
	AssignedUnits int     `json:"assigned_units"`
	FillRate      float64 `json:"fill_rate"`
}

// DayLoad 单日负载
type DayLoad struct {
	Date     string `json:"date"`
	Units    int    `json:"units"`    // 当日课时数
	Students int    `json:"students"` // 当日上课学生数
	Teachers int    `json:"teachers"` // 当日授课讲师数
}

// CoverageAnalyzer 覆盖率分析器
type CoverageAnalyzer struct{}

// NewCoverageAnalyzer 创建覆盖率分析器
func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{}
}

// Analyze 分析需求覆盖情况
func (a *CoverageAnalyzer) Analyze(students []*model.Student, assignments []model.Assignment) *CoverageMetrics {
	metrics := &CoverageMetrics{
		StudentCoverage: make([]StudentCoverage, 0, len(students)),
		SubjectCoverage: make(map[string]SubjectCoverage),
		DailyLoad:       make([]DayLoad, 0),
	}

	// 按学生和科目统计已排课时
	assignedByStudent := make(map[string]int)
	assignedBySubject := make(map[string]int)
	for i := range assignments {
		assignedByStudent[assignments[i].StudentID]++
		assignedBySubject[assignments[i].Subject]++
	}

	for _, s := range students {
		desired := s.TotalDesiredUnits()
		assigned := assignedByStudent[s.ID]
		metrics.TotalUnits += desired
		metrics.AssignedUnits += assigned

		sc := StudentCoverage{
			StudentID:     s.ID,
			StudentName:   s.Name,
			DesiredUnits:  desired,
			AssignedUnits: assigned,
		}
		if desired > 0 {
			sc.FillRate = float64(assigned) / float64(desired) * 100
		}
		metrics.StudentCoverage = append(metrics.StudentCoverage, sc)

		for _, c := range s.DesiredCourses {
			entry := metrics.SubjectCoverage[c.Subject]
			entry.DesiredUnits += c.Units
			metrics.SubjectCoverage[c.Subject] = entry
		}
	}

	for subject, entry := range metrics.SubjectCoverage {
		entry.AssignedUnits = assignedBySubject[subject]
		if entry.DesiredUnits > 0 {
			entry.FillRate = float64(entry.AssignedUnits) / float64(entry.DesiredUnits) * 100
		}
		metrics.SubjectCoverage[subject] = entry
	}

	if metrics.TotalUnits > 0 {
		metrics.FillRate = float64(metrics.AssignedUnits) / float64(metrics.TotalUnits) * 100
	}

	// 按日期聚合
	type daySet struct {
		units    int
		students map[string]bool
		teachers map[string]bool
	}
	byDate := make(map[string]*daySet)
	for i := range assignments {
		a := &assignments[i]
		ds := byDate[a.Date]
		if ds == nil {
			ds = &daySet{students: make(map[string]bool), teachers: make(map[string]bool)}
			byDate[a.Date] = ds
		}
		ds.units++
		ds.students[a.StudentID] = true
		ds.teachers[a.TeacherID] = true
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, d := range dates {
		ds := byDate[d]
		metrics.DailyLoad = append(metrics.DailyLoad, DayLoad{
			Date:     d,
			Units:    ds.units,
			Students: len(ds.students),
			Teachers: len(ds.teachers),
		})
	}

	return metrics
}
