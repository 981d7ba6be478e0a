// Package report 将求解结果打包为对外响应契约
package report

import (
	"sort"

	"github.com/jukushift/jukushift/pkg/model"
	"github.com/jukushift/jukushift/pkg/scheduler/solver"
)

// Build 从求解结果构建 ScheduleResult
// 纯转换，无副作用：分配按 (日期, 时限, 讲师ID, 学生ID) 排序输出，
// 归一化阶段的诊断信息置于求解诊断之前
func Build(res *solver.Result, normDiagnostics []string) *model.ScheduleResult {
	assignments := make([]model.Assignment, 0, len(res.Assignments))
	for _, a := range res.Assignments {
		assignments = append(assignments, *a)
	}

	sort.Slice(assignments, func(i, j int) bool {
		ai, aj := assignments[i], assignments[j]
		if ai.Date != aj.Date {
			return ai.Date < aj.Date
		}
		if ai.Period != aj.Period {
			return ai.Period < aj.Period
		}
		if ai.TeacherID != aj.TeacherID {
			return ai.TeacherID < aj.TeacherID
		}
		return ai.StudentID < aj.StudentID
	})

	diagnostics := make([]string, 0, len(normDiagnostics)+len(res.Diagnostics))
	diagnostics = append(diagnostics, normDiagnostics...)
	diagnostics = append(diagnostics, res.Diagnostics...)

	unmet := make([]model.UnmetDemand, 0, len(res.Unmet))
	unmet = append(unmet, res.Unmet...)

	return &model.ScheduleResult{
		Assignments: assignments,
		UnmetDemand: unmet,
		Diagnostics: diagnostics,
	}
}
