package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jukushift/jukushift/internal/config"
	"github.com/jukushift/jukushift/pkg/model"
)

func testSchedulerConfig() *config.SchedulerConfig {
	return &config.SchedulerConfig{
		DefaultTimeout:  10 * time.Second,
		TeacherCapacity: 2,

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

func generateFixture() GenerateRequest {
	return GenerateRequest{
		Teachers: []*model.Teacher{
			{
				ID:   "t1",
				Name: "高橋",
				TeachableSubjects: map[model.Affiliation][]string{
					model.AffiliationMiddle: {"数学", "英語"},
				},
				Availability: map[string][]model.PeriodID{
					"2025-08-01": {2, 3},
				},
			},
		},
		Students: []*model.Student{
			{
				ID: "s1", Name: "佐藤", Affiliation: model.AffiliationMiddle, Grade: "2年",
				DesiredCourses: []model.DesiredCourse{{Subject: "数学", Units: 2}},
				Availability: map[string][]model.PeriodID{
					"2025-08-01": {2, 3},
				},
			},
		},
		AdminSettings: model.AdminSettings{
			ShiftStartDate: "2025-08-01",
			ShiftEndDate:   "2025-08-01",
		},
	}
}

func postJSON(t *testing.T, handlerFunc http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("序列化请求失败: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handlerFunc(rr, req)
	return rr
}

func TestScheduleHandler_Generate(t *testing.T) {
	h := NewScheduleHandler(testSchedulerConfig(), nil)

	rr := postJSON(t, h.Generate, "/api/v1/schedule/generate", generateFixture())
	if rr.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, 期望 200, 响应: %s", rr.Code, rr.Body.String())
	}

	var resp GenerateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}

	if !resp.Success {
		t.Error("期望 success = true")
	}
	if resp.Partial {
		t.Errorf("完整解不应标记为部分解: %+v", resp)
	}
	if len(resp.Assignments) != 2 {
		t.Fatalf("分配数 = %d, 期望 2", len(resp.Assignments))
	}
	if resp.ScheduleID == "" {
		t.Error("期望非空 schedule_id")
	}
	if resp.Statistics == nil || resp.Statistics.FillRate != 100 {
		t.Errorf("统计 = %+v", resp.Statistics)
	}
}

func TestScheduleHandler_GeneratePartial(t *testing.T) {
	h := NewScheduleHandler(testSchedulerConfig(), nil)

	// 需求 4 课时但只有 2 个可行槽位
	req := generateFixture()
	req.Students[0].DesiredCourses = []model.DesiredCourse{{Subject: "数学", Units: 4}}

	rr := postJSON(t, h.Generate, "/api/v1/schedule/generate", req)
	if rr.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, 期望 200", rr.Code)
	}

	var resp GenerateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}

	if !resp.Partial {
		t.Error("期望部分解标记")
	}
	if len(resp.Assignments) != 2 || len(resp.UnmetDemand) != 1 {
		t.Errorf("分配 %d / 未满足 %d, 期望 2 / 1", len(resp.Assignments), len(resp.UnmetDemand))
	}
	if resp.Message == "" {
		t.Error("部分解应附带说明")
	}
}

func TestScheduleHandler_GenerateValidation(t *testing.T) {
	h := NewScheduleHandler(testSchedulerConfig(), nil)

	tests := []struct {
		name   string
		mutate func(*GenerateRequest)
	}{
		{"缺少开始日", func(r *GenerateRequest) { r.AdminSettings.ShiftStartDate = "" }},
		{"缺少结束日", func(r *GenerateRequest) { r.AdminSettings.ShiftEndDate = "" }},
		{"讲师列表为空", func(r *GenerateRequest) { r.Teachers = nil }},
		{"学生列表为空", func(r *GenerateRequest) { r.Students = nil }},
		{"讲师ID为空", func(r *GenerateRequest) { r.Teachers[0].ID = "" }},
		{"学生ID为空", func(r *GenerateRequest) { r.Students[0].ID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := generateFixture()
			tt.mutate(&req)

			rr := postJSON(t, h.Generate, "/api/v1/schedule/generate", req)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("状态码 = %d, 期望 400, 响应: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestScheduleHandler_GenerateInvalidRange(t *testing.T) {
	h := NewScheduleHandler(testSchedulerConfig(), nil)

	req := generateFixture()
	req.AdminSettings.ShiftStartDate = "2025-08-10"
	req.AdminSettings.ShiftEndDate = "2025-08-01"

	rr := postJSON(t, h.Generate, "/api/v1/schedule/generate", req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("状态码 = %d, 期望 400, 响应: %s", rr.Code, rr.Body.String())
	}
}

func TestScheduleHandler_GenerateMethodNotAllowed(t *testing.T) {
	h := NewScheduleHandler(testSchedulerConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule/generate", nil)
	rr := httptest.NewRecorder()
	h.Generate(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("状态码 = %d, 期望 400", rr.Code)
	}
}

func TestScheduleHandler_Validate(t *testing.T) {
	h := NewScheduleHandler(testSchedulerConfig(), nil)

	base := generateFixture()

	t.Run("无冲突", func(t *testing.T) {
		req := ValidateRequest{
			Teachers:      base.Teachers,
			Students:      base.Students,
			AdminSettings: base.AdminSettings,
			Assignments: []model.Assignment{
				{Date: "2025-08-01", Period: 2, TeacherID: "t1", StudentID: "s1", Subject: "数学"},
			},
		}

		rr := postJSON(t, h.Validate, "/api/v1/schedule/validate", req)
		if rr.Code != http.StatusOK {
			t.Fatalf("状态码 = %d, 期望 200", rr.Code)
		}

		var resp ValidateResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("解析响应失败: %v", err)
		}
		if !resp.IsValid || len(resp.Conflicts) != 0 {
			t.Errorf("期望通过验证: %+v", resp)
		}
	})

	t.Run("学生重复排课", func(t *testing.T) {
		req := ValidateRequest{
			Teachers:      base.Teachers,
			Students:      base.Students,
			AdminSettings: base.AdminSettings,
			Assignments: []model.Assignment{
				{Date: "2025-08-01", Period: 2, TeacherID: "t1", StudentID: "s1", Subject: "数学"},
				{Date: "2025-08-01", Period: 2, TeacherID: "t1", StudentID: "s1", Subject: "数学"},
			},
		}

		rr := postJSON(t, h.Validate, "/api/v1/schedule/validate", req)
		if rr.Code != http.StatusOK {
			t.Fatalf("状态码 = %d, 期望 200", rr.Code)
		}

		var resp ValidateResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("解析响应失败: %v", err)
		}
		if resp.IsValid || len(resp.Conflicts) == 0 {
			t.Errorf("期望检出冲突: %+v", resp)
		}
	})

	t.Run("选项放宽容量", func(t *testing.T) {
		students := append([]*model.Student{}, base.Students...)
		students = append(students,
			&model.Student{
				ID: "s2", Name: "鈴木", Affiliation: model.AffiliationMiddle,
				DesiredCourses: []model.DesiredCourse{{Subject: "英語", Units: 1}},
				Availability:   map[string][]model.PeriodID{"2025-08-01": {2}},
			},
			&model.Student{
				ID: "s3", Name: "田中", Affiliation: model.AffiliationMiddle,
				DesiredCourses: []model.DesiredCourse{{Subject: "数学", Units: 1}},
				Availability:   map[string][]model.PeriodID{"2025-08-01": {2}},
			},
		)
		req := ValidateRequest{
			Teachers:      base.Teachers,
			Students:      students,
			AdminSettings: base.AdminSettings,
			Assignments: []model.Assignment{
				{Date: "2025-08-01", Period: 2, TeacherID: "t1", StudentID: "s1", Subject: "数学"},
				{Date: "2025-08-01", Period: 2, TeacherID: "t1", StudentID: "s2", Subject: "英語"},
				{Date: "2025-08-01", Period: 2, TeacherID: "t1", StudentID: "s3", Subject: "数学"},
			},
			Options: &GenerateOptions{TeacherCapacity: 3},
		}

		rr := postJSON(t, h.Validate, "/api/v1/schedule/validate", req)
		if rr.Code != http.StatusOK {
			t.Fatalf("状态码 = %d, 期望 200", rr.Code)
		}

		var resp ValidateResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("解析响应失败: %v", err)
		}
		if !resp.IsValid {
			t.Errorf("容量 3 下应通过验证: %+v", resp.Conflicts)
		}
	})
}
