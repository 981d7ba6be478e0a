package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jukushift/jukushift/internal/repository"
	"github.com/jukushift/jukushift/pkg/errors"
)

// RunHandler 排课运行历史处理器
type RunHandler struct {
	runs repository.RunRepositoryInterface
}

// NewRunHandler 创建运行历史处理器
func NewRunHandler(runs repository.RunRepositoryInterface) *RunHandler {
	return &RunHandler{runs: runs}
}

// ListResponse 运行历史列表响应
type ListResponse struct {
	Success bool                      `json:"success"`
	Total   int                       `json:"total"`
	Runs    []*repository.ScheduleRun `json:"runs"`
}

// Handle 按路径分发 GET /api/v1/schedule/runs 和 /api/v1/schedule/runs/{id}
func (h *RunHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondError(w, errors.New(errors.CodeDatabaseError, "运行历史未启用，请配置数据库"))
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/schedule/runs")
	rest = strings.Trim(rest, "/")

	switch {
	case rest == "" && r.Method == http.MethodGet:
		h.list(w, r)
	case rest != "" && r.Method == http.MethodGet:
		h.get(w, r, rest)
	case rest != "" && r.Method == http.MethodDelete:
		h.delete(w, r, rest)
	default:
		respondError(w, errors.New(errors.CodeInvalidInput, "不支持的方法"))
	}
}

// list 列出历史运行
func (h *RunHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := repository.DefaultListFilter()

	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 && limit <= 100 {
			filter = filter.WithLimit(limit)
		}
	}
	if v := q.Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset >= 0 {
			filter = filter.WithOffset(offset)
		}
	}
	if q.Get("start_date") != "" || q.Get("end_date") != "" {
		filter = filter.WithDateRange(q.Get("start_date"), q.Get("end_date"))
	}

	runs, total, err := h.runs.List(r.Context(), filter)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询运行历史失败"))
		return
	}
	if runs == nil {
		runs = []*repository.ScheduleRun{}
	}

	respondJSON(w, http.StatusOK, ListResponse{Success: true, Total: total, Runs: runs})
}

// get 获取单次运行的完整结果
func (h *RunHandler) get(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "无效的运行ID格式"))
		return
	}

	run, err := h.runs.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询运行记录失败"))
		return
	}
	if run == nil {
		respondError(w, errors.NotFound("排课运行", idStr))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"run":     run,
	})
}

// delete 删除运行记录
func (h *RunHandler) delete(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "无效的运行ID格式"))
		return
	}

	if err := h.runs.Delete(r.Context(), id); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "删除运行记录失败"))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
