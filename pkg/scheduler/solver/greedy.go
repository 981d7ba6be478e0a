package solver

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jukushift/jukushift/pkg/calendar"
	"github.com/jukushift/jukushift/pkg/logger"
	"github.com/jukushift/jukushift/pkg/model"
	"github.com/jukushift/jukushift/pkg/scheduler/constraint"
)

// Solver 求解器接口
type Solver interface {
	// Solve 生成排班方案
	Solve(ctx context.Context, schedCtx *constraint.Context) (*Result, error)

	// Name 返回求解器名称
	Name() string
}

// Result 求解结果
type Result struct {
	Assignments []*model.Assignment `json:"assignments"`
	Unmet       []model.UnmetDemand `json:"unmet_demand"`
	Diagnostics []string            `json:"diagnostics"`
	Statistics  *Statistics         `json:"statistics"`
	Duration    time.Duration       `json:"duration"`

	// RejectionCounts 候选枚举中各拒绝原因的累计次数
	RejectionCounts map[string]int `json:"rejection_counts,omitempty"`
}

// Statistics 排班统计
type Statistics struct {
	TotalUnits    int     `json:"total_units"`
	AssignedUnits int     `json:"assigned_units"`
	UnmetUnits    int     `json:"unmet_units"`
	FillRate      float64 `json:"fill_rate"`
	Teachers      int     `json:"teachers"`
	Students      int     `json:"students"`
	Days          int     `json:"days"`
}

// demandUnit 待排单元：学生某科目的一个课时
type demandUnit struct {
	student *model.Student
	subject string
	index   int // 同一课程内的课时序号，用于平局裁决
}

// GreedySolver 贪心求解器
// 不回溯的既定策略：以可预测性和有界运行时间换取最优性，
// 已提交的分配不再撤销
type GreedySolver struct {
	weights Weights
	logger  *logger.SchedulerLogger
}

// NewGreedySolver 创建贪心求解器
func NewGreedySolver(weights Weights) *GreedySolver {
	return &GreedySolver{
		weights: weights,
		logger:  logger.NewSchedulerLogger(),
	}
}

// Name 返回求解器名称
func (s *GreedySolver) Name() string {
	return "GreedySolver"
}

// Solve 使用贪心算法生成排班
// 待排单元按稀缺度升序处理（可行槽位少的学生先排），
// 候选按成本升序提交，平局按 (日期, 时限, 讲师ID) 裁决；
// 相同输入必然产生相同输出
func (s *GreedySolver) Solve(ctx context.Context, schedCtx *constraint.Context) (*Result, error) {
	startTime := time.Now()
	runID := fmt.Sprintf("run-%d", startTime.UnixNano())

	days := schedCtx.Calendar.Days()
	s.logger.StartSchedule(runID, len(schedCtx.Teachers), len(schedCtx.Students), len(days))

	result := &Result{
		Assignments:     make([]*model.Assignment, 0),
		Statistics:      &Statistics{},
		RejectionCounts: make(map[string]int),
	}

	// 讲师按ID排序，保证候选枚举顺序确定
	teachers := make([]*model.Teacher, len(schedCtx.Teachers))
	copy(teachers, schedCtx.Teachers)
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].ID < teachers[j].ID })

	units := buildDemandUnits(schedCtx.Students)
	result.Statistics.TotalUnits = len(units)
	result.Statistics.Teachers = len(schedCtx.Teachers)
	result.Statistics.Students = len(schedCtx.Students)
	result.Statistics.Days = len(days)

	// 稀缺度：对空白分配状态统计每个 (学生, 科目) 的可行候选槽位数
	scarcity := make(map[string]int)
	for _, u := range units {
		key := u.student.ID + "#" + u.subject
		if _, ok := scarcity[key]; ok {
			continue
		}
		scarcity[key] = countFeasibleSlots(schedCtx, teachers, days, u.student, u.subject)
	}

	// 可行槽位少的先排，避免难排学生被挤出；平局按 (学生ID, 科目, 序号)
	sort.SliceStable(units, func(i, j int) bool {
		si := scarcity[units[i].student.ID+"#"+units[i].subject]
		sj := scarcity[units[j].student.ID+"#"+units[j].subject]
		if si != sj {
			return si < sj
		}
		if units[i].student.ID != units[j].student.ID {
			return units[i].student.ID < units[j].student.ID
		}
		if units[i].subject != units[j].subject {
			return units[i].subject < units[j].subject
		}
		return units[i].index < units[j].index
	})

	// 每个 (学生, 科目) 累计的拒绝原因，用于未满足时的诊断
	rejections := make(map[string]map[constraint.Reason]int)

	for _, u := range units {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		best, reasons := s.findBestCandidate(schedCtx, teachers, days, u.student, u.subject)
		key := u.student.ID + "#" + u.subject

		for r, n := range reasons {
			result.RejectionCounts[string(r)] += n
		}

		if best == nil {
			if rejections[key] == nil {
				rejections[key] = make(map[constraint.Reason]int)
			}
			for r, n := range reasons {
				rejections[key][r] += n
			}
			s.logger.UnitUnmet(u.student.Name, u.subject, string(dominantReason(rejections[key])))
			continue
		}

		schedCtx.AddAssignment(best)
		result.Assignments = append(result.Assignments, best)
		s.logger.UnitAssigned(u.student.Name, u.subject, best.Date, int(best.Period), best.TeacherName)
	}

	// 汇总未满足需求：每个课时最终要么已分配要么在此列出
	result.Unmet, result.Diagnostics = collectUnmet(schedCtx, rejections)

	result.Statistics.AssignedUnits = len(result.Assignments)
	result.Statistics.UnmetUnits = result.Statistics.TotalUnits - result.Statistics.AssignedUnits
	if result.Statistics.TotalUnits > 0 {
		result.Statistics.FillRate = float64(result.Statistics.AssignedUnits) / float64(result.Statistics.TotalUnits) * 100
	}
	result.Duration = time.Since(startTime)

	s.logger.ScheduleComplete(runID, result.Duration, result.Statistics.AssignedUnits, result.Statistics.UnmetUnits)

	return result, nil
}

// findBestCandidate 枚举全部可行候选并返回成本最低者
// 返回 nil 时第二个返回值为各候选的拒绝原因统计
func (s *GreedySolver) findBestCandidate(
	schedCtx *constraint.Context,
	teachers []*model.Teacher,
	days []calendar.Day,
	student *model.Student,
	subject string,
) (*model.Assignment, map[constraint.Reason]int) {
	reasons := make(map[constraint.Reason]int)

	var best *model.Assignment
	bestCost := 0.0

	for _, day := range days {
		for _, period := range day.OpenPeriods {
			for _, teacher := range teachers {
				cand := constraint.Candidate{
					Teacher: teacher,
					Student: student,
					Day:     day,
					Period:  period,
					Subject: subject,
				}

				reason := constraint.Check(schedCtx, cand)
				if reason != constraint.Feasible {
					reasons[reason]++
					continue
				}

				cost := s.weights.Cost(schedCtx, cand)
				// 严格小于：枚举顺序即 (日期, 时限, 讲师ID) 平局裁决
				if best == nil || cost < bestCost {
					best = &model.Assignment{
						Date:        day.Date,
						Period:      period,
						TeacherID:   teacher.ID,
						TeacherName: teacher.Name,
						StudentID:   student.ID,
						StudentName: student.Name,
						Subject:     subject,
					}
					bestCost = cost
				}
			}
		}
	}

	return best, reasons
}

// buildDemandUnits 从希望课程展开待排单元
func buildDemandUnits(students []*model.Student) []demandUnit {
	var units []demandUnit
	for _, s := range students {
		for _, course := range s.DesiredCourses {
			for i := 0; i < course.Units; i++ {
				units = append(units, demandUnit{student: s, subject: course.Subject, index: i})
			}
		}
	}
	return units
}

// countFeasibleSlots 统计某 (学生, 科目) 在空白状态下的可行候选槽位数
func countFeasibleSlots(
	schedCtx *constraint.Context,
	teachers []*model.Teacher,
	days []calendar.Day,
	student *model.Student,
	subject string,
) int {
	count := 0
	for _, day := range days {
		for _, period := range day.OpenPeriods {
			for _, teacher := range teachers {
				cand := constraint.Candidate{
					Teacher: teacher,
					Student: student,
					Day:     day,
					Period:  period,
					Subject: subject,
				}
				if constraint.Check(schedCtx, cand) == constraint.Feasible {
					count++
				}
			}
		}
	}
	return count
}

// dominantReason 返回出现次数最多的拒绝原因
// 平局按检查顺序裁决，保证诊断信息确定
func dominantReason(counts map[constraint.Reason]int) constraint.Reason {
	order := []constraint.Reason{
		constraint.ReasonTeacherSlotFull,
		constraint.ReasonStudentDoubleBooked,
		constraint.ReasonRegularClassConflict,
		constraint.ReasonTeacherUnavailable,
		constraint.ReasonStudentUnavailable,
		constraint.ReasonSubjectMismatch,
	}

	best := constraint.Reason("")
	bestCount := 0
	for _, r := range order {
		if counts[r] > bestCount {
			best = r
			bestCount = counts[r]
		}
	}
	if best == "" {
		return constraint.ReasonSubjectMismatch
	}
	return best
}

// collectUnmet 汇总未满足需求并生成诊断信息
// 剩余课时按 (学生, 科目) 聚合，同科目多条希望课程只产生一条记录；
// 主导原因为讲师槽位已满时，报告为容量耗尽
func collectUnmet(schedCtx *constraint.Context, rejections map[string]map[constraint.Reason]int) ([]model.UnmetDemand, []string) {
	var unmet []model.UnmetDemand
	var diagnostics []string

	for _, student := range schedCtx.Students {
		seen := make(map[string]bool)
		for _, course := range student.DesiredCourses {
			if seen[course.Subject] {
				continue
			}
			seen[course.Subject] = true

			left := schedCtx.RemainingUnits(student.ID, course.Subject)
			if left <= 0 {
				continue
			}

			key := student.ID + "#" + course.Subject
			reasonLabel := "无候选槽位"
			if len(rejections[key]) > 0 {
				reason := dominantReason(rejections[key])
				reasonLabel = reason.Message()
				if reason == constraint.ReasonTeacherSlotFull {
					reasonLabel = "容量耗尽: " + reasonLabel
				}
			}

			requested := student.DesiredUnits(course.Subject)
			unmet = append(unmet, model.UnmetDemand{
				StudentID:      student.ID,
				StudentName:    student.Name,
				Subject:        course.Subject,
				UnitsRequested: requested,
				UnitsAssigned:  requested - left,
				Reason:         reasonLabel,
			})
			diagnostics = append(diagnostics, fmt.Sprintf(
				"学生 %s 的科目 '%s' 有 %d 课时无法分配（主要原因: %s）",
				student.Name, course.Subject, left, reasonLabel,
			))
		}
	}

	return unmet, diagnostics
}
