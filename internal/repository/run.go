// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jukushift/jukushift/pkg/model"
)

// ScheduleRun 一次排课运行的记录
type ScheduleRun struct {
	ID            uuid.UUID             `json:"id"`
	StartDate     string                `json:"start_date"`
	EndDate       string                `json:"end_date"`
	Teachers      int                   `json:"teachers"`
	Students      int                   `json:"students"`
	TotalUnits    int                   `json:"total_units"`
	AssignedUnits int                   `json:"assigned_units"`
	UnmetUnits    int                   `json:"unmet_units"`
	FillRate      float64               `json:"fill_rate"`
	DurationMs    int64                 `json:"duration_ms"`
	Result        *model.ScheduleResult `json:"result,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

// RunRepositoryInterface 排课运行仓储接口
type RunRepositoryInterface interface {
	Create(ctx context.Context, run *ScheduleRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*ScheduleRun, error)
	List(ctx context.Context, filter ListFilter) ([]*ScheduleRun, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RunRepository 排课运行仓储实现
type RunRepository struct {
	db DB
}

// NewRunRepository 创建排课运行仓储
func NewRunRepository(db DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create 保存一次排课运行
func (r *RunRepository) Create(ctx context.Context, run *ScheduleRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	resultJSON, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("序列化排课结果失败: %w", err)
	}

	query := `
		INSERT INTO schedule_runs (
			id, start_date, end_date, teachers, students,
			total_units, assigned_units, unmet_units, fill_rate,
			duration_ms, result, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.db.ExecContext(ctx, query,
		run.ID, run.StartDate, run.EndDate, run.Teachers, run.Students,
		run.TotalUnits, run.AssignedUnits, run.UnmetUnits, run.FillRate,
		run.DurationMs, resultJSON, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建排课运行记录失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取排课运行（含完整结果）
func (r *RunRepository) GetByID(ctx context.Context, id uuid.UUID) (*ScheduleRun, error) {
	query := `
		SELECT id, start_date, end_date, teachers, students,
			total_units, assigned_units, unmet_units, fill_rate,
			duration_ms, result, created_at
		FROM schedule_runs
		WHERE id = $1
	`

	run := &ScheduleRun{}
	var resultJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.StartDate, &run.EndDate, &run.Teachers, &run.Students,
		&run.TotalUnits, &run.AssignedUnits, &run.UnmetUnits, &run.FillRate,
		&run.DurationMs, &resultJSON, &run.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("扫描排课运行记录失败: %w", err)
	}

	if len(resultJSON) > 0 {
		run.Result = &model.ScheduleResult{}
		if err := json.Unmarshal(resultJSON, run.Result); err != nil {
			return nil, fmt.Errorf("解析排课结果失败: %w", err)
		}
	}

	return run, nil
}

// List 列出排课运行（不含完整结果，按创建时间排序）
func (r *RunRepository) List(ctx context.Context, filter ListFilter) ([]*ScheduleRun, int, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("start_date >= $%d", argNum))
		args = append(args, filter.StartDate)
		argNum++
	}

	if filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("end_date <= $%d", argNum))
		args = append(args, filter.EndDate)
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// 计数
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM schedule_runs %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("统计排课运行数量失败: %w", err)
	}

	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT id, start_date, end_date, teachers, students,
			total_units, assigned_units, unmet_units, fill_rate,
			duration_ms, created_at
		FROM schedule_runs %s
		ORDER BY created_at %s
		LIMIT $%d OFFSET $%d
	`, whereClause, orderDir, argNum, argNum+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询排课运行列表失败: %w", err)
	}
	defer rows.Close()

	var runs []*ScheduleRun
	for rows.Next() {
		run := &ScheduleRun{}
		if err := rows.Scan(
			&run.ID, &run.StartDate, &run.EndDate, &run.Teachers, &run.Students,
			&run.TotalUnits, &run.AssignedUnits, &run.UnmetUnits, &run.FillRate,
			&run.DurationMs, &run.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("扫描排课运行记录失败: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, total, nil
}

// Delete 删除排课运行记录
func (r *RunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM schedule_runs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("删除排课运行记录失败: %w", err)
	}
	return nil
}
