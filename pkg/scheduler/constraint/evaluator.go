package constraint

import (
	"github.com/jukushift/jukushift/pkg/calendar"
	"github.com/jukushift/jukushift/pkg/model"
)

// Reason 可行性判定结果
type Reason string

const (
	Feasible Reason = "feasible"

	// 拒绝原因，按检查顺序排列，命中第一个即返回
	ReasonSubjectMismatch      Reason = "subject_mismatch"       // 科目不匹配或该科目已无剩余希望课时
	ReasonTeacherUnavailable   Reason = "teacher_unavailable"    // 讲师无出勤希望或时限不开放
	ReasonStudentUnavailable   Reason = "student_unavailable"    // 学生无听课希望
	ReasonRegularClassConflict Reason = "regular_class_conflict" // 与固定循环课冲突（停课日豁免）
	ReasonTeacherSlotFull      Reason = "teacher_slot_full"      // 讲师槽位已达并行上限
	ReasonStudentDoubleBooked  Reason = "student_double_booked"  // 学生该槽位已有课
)

// Message 返回拒绝原因的可读说明
func (r Reason) Message() string {
	switch r {
	case Feasible:
		return "可行"
	case ReasonSubjectMismatch:
		return "科目不匹配"
	case ReasonTeacherUnavailable:
		return "讲师该时段无出勤希望"
	case ReasonStudentUnavailable:
		return "学生该时段无听课希望"
	case ReasonRegularClassConflict:
		return "与固定循环课冲突"
	case ReasonTeacherSlotFull:
		return "讲师槽位已满"
	case ReasonStudentDoubleBooked:
		return "学生该时段已有课"
	default:
		return string(r)
	}
}

// Candidate 候选分配元组
type Candidate struct {
	Teacher *model.Teacher
	Student *model.Student
	Day     calendar.Day
	Period  model.PeriodID
	Subject string
}

// Check 判定候选分配的可行性
// 检查按固定顺序短路执行，返回第一个失败原因；全部通过返回 Feasible
func Check(ctx *Context, cand Candidate) Reason {
	day := cand.Day
	date := day.Date

	// 1. 科目匹配：讲师可授且学生该科目尚有剩余希望课时
	if !cand.Teacher.CanTeach(cand.Student.Affiliation, cand.Subject) {
		return ReasonSubjectMismatch
	}
	if ctx.RemainingUnits(cand.Student.ID, cand.Subject) <= 0 {
		return ReasonSubjectMismatch
	}

	// 2. 讲师可用性：休校日、时限未开放或无出勤希望均不可行
	if day.IsHoliday || !model.ContainsPeriod(day.OpenPeriods, cand.Period) {
		return ReasonTeacherUnavailable
	}
	if !cand.Teacher.IsAvailable(date, cand.Period) {
		return ReasonTeacherUnavailable
	}

	// 3. 学生可用性
	if !cand.Student.IsAvailable(date, cand.Period) {
		return ReasonStudentUnavailable
	}

	// 4. 固定循环课冲突：停课日固定课暂停，冲突豁免
	if !day.IsSuspended && cand.Teacher.HasRegularClassAt(day.Weekday, cand.Period) {
		return ReasonRegularClassConflict
	}

	// 5. 讲师槽位容量
	if ctx.TeacherSlotCount(cand.Teacher.ID, date, cand.Period) >= ctx.Capacity {
		return ReasonTeacherSlotFull
	}

	// 6. 学生重复占用
	if ctx.StudentHasSlot(cand.Student.ID, date, cand.Period) {
		return ReasonStudentDoubleBooked
	}

	return Feasible
}
