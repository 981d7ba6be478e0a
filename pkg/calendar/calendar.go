// Package calendar 将排班期间展开为带休校/停课标注的日历序列
package calendar

import (
	"iter"
	"time"

	"github.com/jukushift/jukushift/pkg/errors"
	"github.com/jukushift/jukushift/pkg/model"
)

// Day 日历中的一天
type Day struct {
	Date        string           `json:"date"`
	Weekday     model.Weekday    `json:"weekday"`
	IsHoliday   bool             `json:"isHoliday"`   // 休校日：全面停业，无开放时限
	IsSuspended bool             `json:"isSuspended"` // 停课日：固定课暂停，特别课仍可排
	OpenPeriods []model.PeriodID `json:"openPeriods"`
}

// Calendar 排班期间的日历模型
// 由管理设置派生，生成后不可变；同一日期同时出现在休校日和
// 停课日集合时按休校日处理（设置端应当阻止，此处防御性兜底）
type Calendar struct {
	start          time.Time
	end            time.Time
	holidays       map[string]bool
	suspensionDays map[string]bool
	periodsByDay   map[model.Weekday][]model.PeriodID
}

// New 根据管理设置构建日历
// 期间边界缺失、无法解析或 start > end 时返回 INVALID_RANGE 错误
func New(settings *model.AdminSettings) (*Calendar, error) {
	if settings.ShiftStartDate == "" || settings.ShiftEndDate == "" {
		return nil, errors.InvalidRange("排班期间的开始日和结束日不能为空")
	}

	start, err := model.ParseDate(settings.ShiftStartDate)
	if err != nil {
		return nil, errors.InvalidRange("开始日格式无效: " + settings.ShiftStartDate).WithCause(err)
	}
	end, err := model.ParseDate(settings.ShiftEndDate)
	if err != nil {
		return nil, errors.InvalidRange("结束日格式无效: " + settings.ShiftEndDate).WithCause(err)
	}
	if start.After(end) {
		return nil, errors.InvalidRange("开始日晚于结束日: " + settings.ShiftStartDate + " > " + settings.ShiftEndDate)
	}

	c := &Calendar{
		start:          start,
		end:            end,
		holidays:       make(map[string]bool, len(settings.Holidays)),
		suspensionDays: make(map[string]bool, len(settings.SuspensionDays)),
		periodsByDay:   make(map[model.Weekday][]model.PeriodID, len(settings.DefaultShiftPeriodsByDay)),
	}
	for _, d := range settings.Holidays {
		c.holidays[d] = true
	}
	for _, d := range settings.SuspensionDays {
		c.suspensionDays[d] = true
	}
	for day, periods := range settings.DefaultShiftPeriodsByDay {
		c.periodsByDay[day] = append([]model.PeriodID(nil), periods...)
	}

	return c, nil
}

// dayAt 计算某一天的日历属性
func (c *Calendar) dayAt(t time.Time) Day {
	date := t.Format(model.DateFormat)
	weekday := model.WeekdayOf(t)
	isHoliday := c.holidays[date]
	// 休校日优先于停课日
	isSuspended := c.suspensionDays[date] && !isHoliday

	var open []model.PeriodID
	if !isHoliday {
		open = c.periodsByDay[weekday]
	}

	return Day{
		Date:        date,
		Weekday:     weekday,
		IsHoliday:   isHoliday,
		IsSuspended: isSuspended,
		OpenPeriods: open,
	}
}

// All 按时间顺序惰性遍历期间内的每一天，可重复遍历
func (c *Calendar) All() iter.Seq[Day] {
	return func(yield func(Day) bool) {
		for t := c.start; !t.After(c.end); t = t.AddDate(0, 0, 1) {
			if !yield(c.dayAt(t)) {
				return
			}
		}
	}
}

// Days 返回期间内全部日历天的切片
func (c *Calendar) Days() []Day {
	var days []Day
	for d := range c.All() {
		days = append(days, d)
	}
	return days
}

// Get 返回指定日期的日历天；日期不在期间内时第二个返回值为 false
func (c *Calendar) Get(date string) (Day, bool) {
	t, err := model.ParseDate(date)
	if err != nil || t.Before(c.start) || t.After(c.end) {
		return Day{}, false
	}
	return c.dayAt(t), true
}

// Len 返回期间内的天数
func (c *Calendar) Len() int {
	return int(c.end.Sub(c.start).Hours()/24) + 1
}
