package handler

import (
	"net/http"

	"github.com/jukushift/jukushift/internal/catalog"
	"github.com/jukushift/jukushift/pkg/errors"
)

// DefaultsResponse 内置默认配置响应
type DefaultsResponse struct {
	Constants         interface{} `json:"constants"`
	SubjectSettings   interface{} `json:"subjectSettingsByAffiliation"`
	ShiftPeriodsByDay interface{} `json:"defaultShiftPeriodsByDay"`
	MinDesiredPeriods []int       `json:"minDesiredPeriodsOptions"`
	Affiliations      interface{} `json:"affiliations"`
}

// GetDefaultsHandler 返回内置的默认目录配置
func GetDefaultsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}

	respondJSON(w, http.StatusOK, DefaultsResponse{
		Constants:         catalog.DefaultConstants(),
		SubjectSettings:   catalog.DefaultSubjectSettings(),
		ShiftPeriodsByDay: catalog.DefaultShiftPeriodsByDay(),
		MinDesiredPeriods: catalog.MinDesiredPeriodsOptions(),
		Affiliations:      catalog.Affiliations(),
	})
}
