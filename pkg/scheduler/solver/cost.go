// Package solver 提供排班求解器
package solver

import (
	"github.com/jukushift/jukushift/pkg/model"
	"github.com/jukushift/jukushift/pkg/scheduler/constraint"
)

// Weights 成本函数权重
// 集中/分散与空堂的具体权重属于待校准的策略约定，
// 全部暴露为配置而非硬编码；成本越低的候选越优先
type Weights struct {
	// 集中希望：同日已有课时的候选给予奖励
	ConcentratedSameDayBonus float64 `json:"concentrated_same_day_bonus"`
	// 分散希望：同日已有课时的候选给予惩罚
	SpreadSameDayPenalty float64 `json:"spread_same_day_penalty"`

	// 空堂惩罚：按插入后当日最大空堂数分档
	IdleGapAvoidPenalty float64 `json:"idle_gap_avoid_penalty"` // 空堂回避偏好下出现任意空堂
	IdleGapOnePenalty   float64 `json:"idle_gap_one_penalty"`   // 容许偏好下 1 堂空隙
	IdleGapTwoPenalty   float64 `json:"idle_gap_two_penalty"`   // 容许偏好下 2 堂空隙
	IdleGapWidePenalty  float64 `json:"idle_gap_wide_penalty"`  // 3 堂以上空隙

	// 讲师负载均衡：按当日已分配槽位数线性惩罚
	TeacherDayLoadPenalty float64 `json:"teacher_day_load_penalty"`

	// 讲师当日课时数低于希望下限且再无其他可排余地时的惩罚
	MinDesiredShortfallPenalty float64 `json:"min_desired_shortfall_penalty"`

	// 固定课师生配对奖励：优先安排学生熟悉的固定课讲师
	RegularPairBonus float64 `json:"regular_pair_bonus"`
}

// DefaultWeights 返回默认权重
func DefaultWeights() Weights {
	return Weights{
		ConcentratedSameDayBonus:   20,
		SpreadSameDayPenalty:       30,
		IdleGapAvoidPenalty:        200,
		IdleGapOnePenalty:          10,
		IdleGapTwoPenalty:          50,
		IdleGapWidePenalty:         1000,
		TeacherDayLoadPenalty:      5,
		MinDesiredShortfallPenalty: 500,
		RegularPairBonus:           50,
	}
}

// Cost 计算候选分配的成本，越低越优
func (w Weights) Cost(ctx *constraint.Context, cand constraint.Candidate) float64 {
	cost := 0.0
	date := cand.Day.Date

	// 讲师当日负载：已分配槽位越多成本越高，推动负载均衡
	cost += float64(ctx.TeacherDayCount(cand.Teacher.ID, date)) * w.TeacherDayLoadPenalty

	// 固定课配对：该讲师本就负责此学生此科目的固定课时优先
	if model.ContainsSubject(cand.Teacher.RegularSubjectsFor(cand.Student), cand.Subject) {
		cost -= w.RegularPairBonus
	}

	// 集中/分散偏好
	sameDay := len(ctx.StudentPeriodsOn(cand.Student.ID, date))
	switch cand.Student.SchedulingPreference {
	case model.PreferenceConcentrated:
		if sameDay > 0 {
			cost -= w.ConcentratedSameDayBonus
		}
	case model.PreferenceSpread:
		if sameDay > 0 {
			cost += w.SpreadSameDayPenalty
		}
	}

	// 空堂评估：插入候选时限后当日的最大空隙
	if sameDay > 0 {
		maxGap := maxIdleAfterInsert(ctx.StudentPeriodsOn(cand.Student.ID, date), cand.Period)
		switch cand.Student.IdleTimePreference {
		case model.IdleGapAvoid:
			if maxGap > 0 {
				cost += w.IdleGapAvoidPenalty
			}
		case model.IdleGapAllow:
			switch {
			case maxGap == 1:
				cost += w.IdleGapOnePenalty
			case maxGap == 2:
				cost += w.IdleGapTwoPenalty
			case maxGap > 2:
				cost += w.IdleGapWidePenalty
			}
		}
	}

	// 讲师当日课时希望下限：此分配后仍达不到下限、
	// 且该日出勤希望已无剩余槽位时施加惩罚
	if cand.Teacher.MinDesiredPeriods > 1 {
		current := ctx.TeacherDayCount(cand.Teacher.ID, date)
		avail := cand.Teacher.AvailablePeriodCount(date)
		if current+1 < cand.Teacher.MinDesiredPeriods && avail == current+1 {
			cost += w.MinDesiredShortfallPenalty
		}
	}

	return cost
}

// maxIdleAfterInsert 计算把时限 p 并入已排时限后，相邻课时间的最大空堂数
func maxIdleAfterInsert(periods []model.PeriodID, p model.PeriodID) int {
	merged := make([]model.PeriodID, 0, len(periods)+1)
	inserted := false
	for _, v := range periods {
		if !inserted && p < v {
			merged = append(merged, p)
			inserted = true
		}
		merged = append(merged, v)
	}
	if !inserted {
		merged = append(merged, p)
	}

	maxGap := 0
	for i := 0; i+1 < len(merged); i++ {
		gap := int(merged[i+1]) - int(merged[i]) - 1
		if gap > maxGap {
			maxGap = gap
		}
	}
	return maxGap
}
