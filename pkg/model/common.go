// Package model 定义排班引擎的核心数据模型
package model

import (
	"time"
)

// Affiliation 学生所属类别（小学生/中学生/高校生）
type Affiliation string

const (
	AffiliationElementary Affiliation = "小学生"
	AffiliationMiddle     Affiliation = "中学生"
	AffiliationHigh       Affiliation = "高校生"
)

// Weekday 星期符号（日文缩写，与前端常量保持一致）
type Weekday string

// DaysOfWeek 一周七天，索引与 time.Weekday 对齐（周日为 0）
var DaysOfWeek = []Weekday{"日", "月", "火", "水", "木", "金", "土"}

// WeekdayOf 返回日期对应的星期符号
func WeekdayOf(t time.Time) Weekday {
	return DaysOfWeek[int(t.Weekday())]
}

// PeriodID 时限编号（全校统一的课时编号，默认 1..6）
type PeriodID int

// PeriodDefinition 时限定义
type PeriodDefinition struct {
	ID    PeriodID `json:"id"`
	Label string   `json:"label"` // 显示名称，如 "1限"
	Time  string   `json:"time"`  // 起止时间，如 "14:00-15:30"
}

// SchedulingPreference 学生的排课集中/分散偏好
type SchedulingPreference string

const (
	PreferenceConcentrated SchedulingPreference = "集中希望" // 尽量集中在同一天
	PreferenceSpread       SchedulingPreference = "分散希望" // 尽量分散到不同日期
)

// IdleGapTolerance 学生对空堂（空きコマ）的容忍度
type IdleGapTolerance string

const (
	IdleGapAvoid IdleGapTolerance = "空きコマなし希望" // 课时必须连续
	IdleGapAllow IdleGapTolerance = "空きコマ許容"   // 允许少量空堂
)

// DateFormat 全系统统一的日期格式
const DateFormat = "2006-01-02"

// ParseDate 解析 YYYY-MM-DD 日期
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// DesiredCourse 学生的希望课程（科目 + 课时数）
type DesiredCourse struct {
	Subject string `json:"subject"`
	Units   int    `json:"units"` // 希望的课时数，每课时对应一个待排单元
}

// ContainsPeriod 判断时限列表是否包含指定时限
func ContainsPeriod(periods []PeriodID, p PeriodID) bool {
	for _, v := range periods {
		if v == p {
			return true
		}
	}
	return false
}

// ContainsSubject 判断科目列表是否包含指定科目
func ContainsSubject(subjects []string, subject string) bool {
	for _, s := range subjects {
		if s == subject {
			return true
		}
	}
	return false
}
