// Package normalizer 将原始讲师/学生记录归一化为求解器可用的规范形式
package normalizer

import (
	"fmt"

	"github.com/jukushift/jukushift/pkg/model"
)

// Result 归一化结果
// 原始输入不被修改，讲师/学生均为解析默认值后的副本；
// 引用目录外科目的记录被排除并记入 Diagnostics，而不是中止运行
type Result struct {
	Teachers    []*model.Teacher
	Students    []*model.Student
	Diagnostics []string
}

// Normalize 按管理设置归一化实体
// 处理内容：缺失字段补默认值、可授科目与类别目录求交集、
// 目录外的固定课与希望课程剔除
func Normalize(teachers []*model.Teacher, students []*model.Student, settings *model.AdminSettings) *Result {
	r := &Result{
		Teachers: make([]*model.Teacher, 0, len(teachers)),
		Students: make([]*model.Student, 0, len(students)),
	}

	for _, t := range teachers {
		r.Teachers = append(r.Teachers, r.normalizeTeacher(t, settings))
	}
	for _, s := range students {
		r.Students = append(r.Students, r.normalizeStudent(s, settings))
	}

	return r
}

// normalizeTeacher 归一化单个讲师
func (r *Result) normalizeTeacher(t *model.Teacher, settings *model.AdminSettings) *model.Teacher {
	nt := *t

	if nt.Availability == nil {
		nt.Availability = map[string][]model.PeriodID{}
	}
	if nt.MinDesiredPeriods <= 0 {
		nt.MinDesiredPeriods = 1
	}

	// 可授科目限制在类别目录范围内
	if nt.TeachableSubjects != nil {
		restricted := make(map[model.Affiliation][]string, len(nt.TeachableSubjects))
		for aff, subjects := range nt.TeachableSubjects {
			catalog := settings.SubjectCatalog(aff)
			var kept []string
			for _, subject := range subjects {
				if model.ContainsSubject(catalog, subject) {
					kept = append(kept, subject)
				} else {
					r.addDiagnostic("讲师 %s 的可授科目 '%s' 不在 %s 的科目目录中，已排除", nt.Name, subject, aff)
				}
			}
			restricted[aff] = kept
		}
		nt.TeachableSubjects = restricted
	}

	// 目录外科目的固定课剔除
	var regulars []model.RegularClass
	for _, rc := range nt.RegularClasses {
		catalog := settings.SubjectCatalog(rc.StudentAffiliation)
		if model.ContainsSubject(catalog, rc.Subject) {
			regulars = append(regulars, rc)
		} else {
			r.addDiagnostic("讲师 %s 的固定课（学生 %s，科目 '%s'）引用了目录外科目，已排除", nt.Name, rc.StudentName, rc.Subject)
		}
	}
	nt.RegularClasses = regulars

	return &nt
}

// normalizeStudent 归一化单个学生
func (r *Result) normalizeStudent(s *model.Student, settings *model.AdminSettings) *model.Student {
	ns := *s

	if ns.Availability == nil {
		ns.Availability = map[string][]model.PeriodID{}
	}
	if ns.SchedulingPreference == "" {
		ns.SchedulingPreference = model.PreferenceConcentrated
	}
	if ns.IdleTimePreference == "" {
		ns.IdleTimePreference = model.IdleGapAllow
	}

	// 目录外科目的希望课程剔除，课时数非正的同样剔除
	catalog := settings.SubjectCatalog(ns.Affiliation)
	var courses []model.DesiredCourse
	for _, c := range ns.DesiredCourses {
		switch {
		case c.Units <= 0:
			r.addDiagnostic("学生 %s 的希望课程 '%s' 课时数为 %d，已排除", ns.Name, c.Subject, c.Units)
		case !model.ContainsSubject(catalog, c.Subject):
			r.addDiagnostic("学生 %s 的希望科目 '%s' 不在 %s 的科目目录中，已排除", ns.Name, c.Subject, ns.Affiliation)
		default:
			courses = append(courses, c)
		}
	}
	ns.DesiredCourses = courses

	return &ns
}

// addDiagnostic 记录一条诊断信息
func (r *Result) addDiagnostic(format string, args ...interface{}) {
	r.Diagnostics = append(r.Diagnostics, fmt.Sprintf(format, args...))
}
