package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     Code
		expected int
	}{
		{"输入无效", CodeInvalidInput, http.StatusBadRequest},
		{"验证失败", CodeValidationFail, http.StatusBadRequest},
		{"区间无效", CodeInvalidRange, http.StatusBadRequest},
		{"资源不存在", CodeNotFound, http.StatusNotFound},
		{"排班冲突", CodeScheduleConflict, http.StatusConflict},
		{"限流", CodeRateLimited, http.StatusTooManyRequests},
		{"超时", CodeTimeout, http.StatusGatewayTimeout},
		{"无可行槽位", CodeNoFeasibleSlot, http.StatusUnprocessableEntity},
		{"容量耗尽", CodeCapacityExhausted, http.StatusUnprocessableEntity},
		{"内部错误", CodeInternal, http.StatusInternalServerError},
		{"未知错误", CodeUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.code, "测试").HTTPStatus; got != tt.expected {
				t.Errorf("HTTPStatus = %d, 期望 %d", got, tt.expected)
			}
		})
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("连接被拒绝")
	err := Wrap(cause, CodeDatabaseError, "查询失败")

	if err.Unwrap() != cause {
		t.Error("Unwrap 应返回底层错误")
	}
	if !Is(err, CodeDatabaseError) {
		t.Error("Is 应命中包装后的错误码")
	}
	if Is(cause, CodeDatabaseError) {
		t.Error("Is 不应命中普通错误")
	}
	if GetCode(cause) != CodeUnknown {
		t.Errorf("普通错误的 GetCode = %s, 期望 %s", GetCode(cause), CodeUnknown)
	}
	if GetHTTPStatus(cause) != http.StatusInternalServerError {
		t.Errorf("普通错误的 GetHTTPStatus = %d", GetHTTPStatus(cause))
	}
}

func TestInvalidRange(t *testing.T) {
	err := InvalidRange("开始日晚于结束日")
	if err.Code != CodeInvalidRange || err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("InvalidRange = %+v", err)
	}
}

func TestValidationErrors(t *testing.T) {
	ve := &ValidationErrors{}
	if ve.HasErrors() {
		t.Error("空集合不应报告错误")
	}

	ve.Add("teachers", "讲师列表不能为空")
	ve.Add("students", "学生列表不能为空")
	if !ve.HasErrors() {
		t.Error("HasErrors 应为 true")
	}

	appErr := ve.ToAppError()
	if appErr.Code != CodeValidationFail {
		t.Errorf("错误码 = %s, 期望 %s", appErr.Code, CodeValidationFail)
	}
	if len(appErr.Fields) != 2 {
		t.Errorf("字段数 = %d, 期望 2", len(appErr.Fields))
	}
	if appErr.Fields["teachers"] != "讲师列表不能为空" {
		t.Errorf("字段内容 = %v", appErr.Fields["teachers"])
	}
}
