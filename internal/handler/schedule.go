// Package handler 提供HTTP请求处理器
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jukushift/jukushift/internal/catalog"
	"github.com/jukushift/jukushift/internal/config"
	"github.com/jukushift/jukushift/internal/metrics"
	"github.com/jukushift/jukushift/internal/repository"
	"github.com/jukushift/jukushift/pkg/calendar"
	"github.com/jukushift/jukushift/pkg/errors"
	"github.com/jukushift/jukushift/pkg/logger"
	"github.com/jukushift/jukushift/pkg/model"
	"github.com/jukushift/jukushift/pkg/normalizer"
	"github.com/jukushift/jukushift/pkg/scheduler/constraint"
	"github.com/jukushift/jukushift/pkg/scheduler/report"
	"github.com/jukushift/jukushift/pkg/scheduler/solver"
	"github.com/jukushift/jukushift/pkg/validator"
)

// ScheduleHandler 排课处理器
type ScheduleHandler struct {
	cfg  *config.SchedulerConfig
	runs repository.RunRepositoryInterface // 未启用数据库时为 nil
}

// NewScheduleHandler 创建排课处理器
func NewScheduleHandler(cfg *config.SchedulerConfig, runs repository.RunRepositoryInterface) *ScheduleHandler {
	return &ScheduleHandler{cfg: cfg, runs: runs}
}

// GenerateRequest 排课生成请求
type GenerateRequest struct {
	Teachers      []*model.Teacher    `json:"teachers"`
	Students      []*model.Student    `json:"students"`
	AdminSettings model.AdminSettings `json:"adminSettings"`
	// Constants 为兼容前端载荷而接受，不参与计算：
	// 时限定义与星期顺序始终取内置目录
	Constants *model.Constants `json:"constants,omitempty"`
	Options   *GenerateOptions `json:"options,omitempty"`
}

// GenerateOptions 生成选项
type GenerateOptions struct {
	Timeout         int             `json:"timeout_seconds,omitempty"`
	TeacherCapacity int             `json:"teacher_capacity,omitempty"`
	Weights         *solver.Weights `json:"weights,omitempty"` // 覆盖默认成本权重
}

// GenerateResponse 排课生成响应
type GenerateResponse struct {
	Success     bool                `json:"success"`
	Partial     bool                `json:"partial,omitempty"` // 是否为部分解
	Message     string              `json:"message,omitempty"`
	ScheduleID  string              `json:"schedule_id,omitempty"`
	Assignments []model.Assignment  `json:"assignments"`
	UnmetDemand []model.UnmetDemand `json:"unmetDemand,omitempty"`
	Diagnostics []string            `json:"diagnostics,omitempty"`
	Statistics  *solver.Statistics  `json:"statistics"`
	Duration    string              `json:"duration"`
}

// Generate 生成排课
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	if err := validateGenerateRequest(&req); err != nil {
		respondError(w, err)
		return
	}

	// 缺失的目录配置补内置默认值
	catalog.ApplyDefaults(&req.AdminSettings)

	// 展开排课日历；区间无效为致命错误，运行中止
	cal, err := calendar.New(&req.AdminSettings)
	if err != nil {
		metrics.RecordScheduleGeneration(false, 0)
		respondAnyError(w, err)
		return
	}

	// 归一化：补默认值、剔除目录外引用，问题记入诊断继续运行
	norm := normalizer.Normalize(req.Teachers, req.Students, &req.AdminSettings)

	capacity := h.cfg.TeacherCapacity
	weights := h.weights()
	timeout := h.cfg.DefaultTimeout
	if req.Options != nil {
		if req.Options.TeacherCapacity > 0 {
			capacity = req.Options.TeacherCapacity
		}
		if req.Options.Weights != nil {
			weights = *req.Options.Weights
		}
		if req.Options.Timeout > 0 {
			timeout = time.Duration(req.Options.Timeout) * time.Second
		}
	}

	schedCtx := constraint.NewContext(cal, norm.Teachers, norm.Students, capacity)

	s := solver.NewGreedySolver(weights)

	solveCtx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	result, err := s.Solve(solveCtx, schedCtx)
	if err != nil {
		metrics.RecordScheduleGeneration(false, 0)
		if err == context.DeadlineExceeded {
			respondError(w, errors.New(errors.CodeTimeout, "排课计算超时，请缩短排课区间或减少需求课时"))
			return
		}
		if err == context.Canceled {
			respondError(w, errors.New(errors.CodeInternal, "排课请求已取消"))
			return
		}
		respondError(w, errors.Wrap(err, errors.CodeInternal, "排课失败"))
		return
	}

	schedule := report.Build(result, norm.Diagnostics)

	metrics.RecordScheduleGeneration(true, result.Duration)
	metrics.SetFillRate(result.Statistics.FillRate)
	metrics.SetUnmetUnits(result.Statistics.UnmetUnits)
	for reason, count := range result.RejectionCounts {
		metrics.RecordConstraintRejections(reason, count)
	}

	scheduleID := uuid.New()

	resp := GenerateResponse{
		Success:     true,
		Partial:     len(schedule.UnmetDemand) > 0,
		ScheduleID:  scheduleID.String(),
		Assignments: schedule.Assignments,
		UnmetDemand: schedule.UnmetDemand,
		Diagnostics: schedule.Diagnostics,
		Statistics:  result.Statistics,
		Duration:    result.Duration.String(),
	}
	if resp.Partial {
		resp.Message = fmt.Sprintf("生成了部分排课方案，%d 课时未能分配", result.Statistics.UnmetUnits)
	}

	// 可选地保存运行记录
	if h.runs != nil {
		run := &repository.ScheduleRun{
			ID:            scheduleID,
			StartDate:     req.AdminSettings.ShiftStartDate,
			EndDate:       req.AdminSettings.ShiftEndDate,
			Teachers:      result.Statistics.Teachers,
			Students:      result.Statistics.Students,
			TotalUnits:    result.Statistics.TotalUnits,
			AssignedUnits: result.Statistics.AssignedUnits,
			UnmetUnits:    result.Statistics.UnmetUnits,
			FillRate:      result.Statistics.FillRate,
			DurationMs:    result.Duration.Milliseconds(),
			Result:        schedule,
		}
		if err := h.runs.Create(r.Context(), run); err != nil {
			logger.Error().Err(err).Str("schedule_id", scheduleID.String()).Msg("保存排课运行记录失败")
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// weights 从配置构建成本权重
func (h *ScheduleHandler) weights() solver.Weights {
	return solver.Weights{
		ConcentratedSameDayBonus:   h.cfg.ConcentratedSameDayBonus,
		SpreadSameDayPenalty:       h.cfg.SpreadSameDayPenalty,
		IdleGapAvoidPenalty:        h.cfg.IdleGapAvoidPenalty,
		IdleGapOnePenalty:          h.cfg.IdleGapOnePenalty,
		IdleGapTwoPenalty:          h.cfg.IdleGapTwoPenalty,
		IdleGapWidePenalty:         h.cfg.IdleGapWidePenalty,
		TeacherDayLoadPenalty:      h.cfg.TeacherDayLoadPenalty,
		MinDesiredShortfallPenalty: h.cfg.MinDesiredShortfallPenalty,
		RegularPairBonus:           h.cfg.RegularPairBonus,
	}
}

// validateGenerateRequest 验证请求
func validateGenerateRequest(req *GenerateRequest) *errors.AppError {
	ve := &errors.ValidationErrors{}

	if req.AdminSettings.ShiftStartDate == "" {
		ve.Add("adminSettings.commonShiftStartDate", "排课开始日不能为空")
	}
	if req.AdminSettings.ShiftEndDate == "" {
		ve.Add("adminSettings.commonShiftEndDate", "排课结束日不能为空")
	}
	if len(req.Teachers) == 0 {
		ve.Add("teachers", "讲师列表不能为空")
	}
	if len(req.Students) == 0 {
		ve.Add("students", "学生列表不能为空")
	}

	for i, t := range req.Teachers {
		if t.ID == "" {
			ve.Add(fmt.Sprintf("teachers[%d].id", i), "讲师ID不能为空")
		}
	}
	for i, s := range req.Students {
		if s.ID == "" {
			ve.Add(fmt.Sprintf("students[%d].id", i), "学生ID不能为空")
		}
	}

	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return nil
}

// ValidateRequest 排课验证请求
type ValidateRequest struct {
	Teachers      []*model.Teacher    `json:"teachers"`
	Students      []*model.Student    `json:"students"`
	AdminSettings model.AdminSettings `json:"adminSettings"`
	Assignments   []model.Assignment  `json:"assignments"`
	Options       *GenerateOptions    `json:"options,omitempty"`
}

// ValidateResponse 验证响应
type ValidateResponse struct {
	IsValid   bool                 `json:"is_valid"`
	Conflicts []validator.Conflict `json:"conflicts"`
}

// Validate 验证已有排课结果
func (h *ScheduleHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	catalog.ApplyDefaults(&req.AdminSettings)

	// 日期区间给定时结合日历检查，否则只做实体级检查
	var cal *calendar.Calendar
	if req.AdminSettings.ShiftStartDate != "" && req.AdminSettings.ShiftEndDate != "" {
		c, err := calendar.New(&req.AdminSettings)
		if err != nil {
			respondAnyError(w, err)
			return
		}
		cal = c
	}

	detectorCfg := validator.DefaultDetectorConfig()
	detectorCfg.TeacherCapacity = h.cfg.TeacherCapacity
	if req.Options != nil && req.Options.TeacherCapacity > 0 {
		detectorCfg.TeacherCapacity = req.Options.TeacherCapacity
	}

	detector := validator.NewConflictDetector(detectorCfg)
	conflicts := detector.DetectAll(req.Assignments, req.Teachers, req.Students, cal)

	resp := ValidateResponse{
		IsValid:   len(conflicts) == 0,
		Conflicts: conflicts,
	}
	if resp.Conflicts == nil {
		resp.Conflicts = []validator.Conflict{}
	}

	respondJSON(w, http.StatusOK, resp)
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
	})
}

// respondAnyError 将任意错误映射为错误响应
func respondAnyError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		respondError(w, appErr)
		return
	}
	respondError(w, errors.Wrap(err, errors.CodeInternal, "内部错误"))
}
