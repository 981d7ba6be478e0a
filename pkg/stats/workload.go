// Package stats 提供排班统计分析功能
package stats

import (
	"math"
	"sort"

	"github.com/jukushift/jukushift/pkg/model"
)

// WorkloadMetrics 讲师工作量指标
type WorkloadMetrics struct {
	// 课时公平性
	SlotGini     float64 `json:"slot_gini"`     // 课时分配基尼系数 (0=完全公平, 1=完全不公平)
	SlotVariance float64 `json:"slot_variance"` // 课时方差
	SlotStdDev   float64 `json:"slot_std_dev"`  // 课时标准差
	AvgSlots     float64 `json:"avg_slots"`     // 人均课时数
	MaxSlots     int     `json:"max_slots"`     // 最大课时数
	MinSlots     int     `json:"min_slots"`     // 最小课时数

	// 讲师级别统计
	TeacherStats []TeacherStat `json:"teacher_stats"`
}

// TeacherStat 讲师统计
type TeacherStat struct {
	TeacherID    string  `json:"teacher_id"`
	TeacherName  string  `json:"teacher_name"`
	TotalSlots   int     `json:"total_slots"`   // 授课槽位数（同槽并行学生计一次）
	TotalUnits   int     `json:"total_units"`   // 授课课时数（按学生计）
	DaysWorked   int     `json:"days_worked"`   // 出勤天数
	MaxPerDay    int     `json:"max_per_day"`   // 单日最大槽位数
	Deviation    float64 `json:"deviation"`     // 与人均槽位数的偏差百分比
	ShortfallDays int    `json:"shortfall_days"` // 低于当日希望课时下限的天数
}

// WorkloadAnalyzer 工作量分析器
type WorkloadAnalyzer struct{}

// NewWorkloadAnalyzer 创建工作量分析器
func NewWorkloadAnalyzer() *WorkloadAnalyzer {
	return &WorkloadAnalyzer{}
}

// Analyze 分析讲师工作量分布
func (a *WorkloadAnalyzer) Analyze(teachers []*model.Teacher, assignments []model.Assignment) *WorkloadMetrics {
	metrics := &WorkloadMetrics{
		TeacherStats: make([]TeacherStat, 0, len(teachers)),
	}
	if len(teachers) == 0 {
		return metrics
	}

	// 每讲师：槽位集合、按日槽位数、课时数
	slotSet := make(map[string]map[string]bool)   // teacherID → slotKey 集合
	slotsByDay := make(map[string]map[string]int) // teacherID → 日期 → 槽位数
	unitCount := make(map[string]int)
	for _, t := range teachers {
		slotSet[t.ID] = make(map[string]bool)
		slotsByDay[t.ID] = make(map[string]int)
	}

	for i := range assignments {
		a := &assignments[i]
		if slotSet[a.TeacherID] == nil {
			continue
		}
		unitCount[a.TeacherID]++
		key := a.SlotKey()
		if !slotSet[a.TeacherID][key] {
			slotSet[a.TeacherID][key] = true
			slotsByDay[a.TeacherID][a.Date]++
		}
	}

	slotCounts := make([]float64, 0, len(teachers))
	total := 0
	minSlots, maxSlots := math.MaxInt, 0

	for _, t := range teachers {
		slots := len(slotSet[t.ID])
		total += slots
		slotCounts = append(slotCounts, float64(slots))
		if slots > maxSlots {
			maxSlots = slots
		}
		if slots < minSlots {
			minSlots = slots
		}

		maxPerDay := 0
		shortfallDays := 0
		for _, n := range slotsByDay[t.ID] {
			if n > maxPerDay {
				maxPerDay = n
			}
			if n > 0 && n < t.MinDesiredPeriods {
				shortfallDays++
			}
		}

		metrics.TeacherStats = append(metrics.TeacherStats, TeacherStat{
			TeacherID:     t.ID,
			TeacherName:   t.Name,
			TotalSlots:    slots,
			TotalUnits:    unitCount[t.ID],
			DaysWorked:    len(slotsByDay[t.ID]),
			MaxPerDay:     maxPerDay,
			ShortfallDays: shortfallDays,
		})
	}

	avg := float64(total) / float64(len(teachers))
	metrics.AvgSlots = avg
	metrics.MaxSlots = maxSlots
	metrics.MinSlots = minSlots

	// 偏差百分比
	for i := range metrics.TeacherStats {
		if avg > 0 {
			metrics.TeacherStats[i].Deviation = (float64(metrics.TeacherStats[i].TotalSlots) - avg) / avg * 100
		}
	}

	// 方差与标准差
	variance := 0.0
	for _, v := range slotCounts {
		variance += (v - avg) * (v - avg)
	}
	variance /= float64(len(slotCounts))
	metrics.SlotVariance = variance
	metrics.SlotStdDev = math.Sqrt(variance)

	metrics.SlotGini = gini(slotCounts)

	return metrics
}

// gini 计算基尼系数
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	weighted := 0.0
	for i, v := range sorted {
		sum += v
		weighted += float64(i+1) * v
	}
	if sum == 0 {
		return 0
	}

	return (2*weighted)/(float64(n)*sum) - float64(n+1)/float64(n)
}
