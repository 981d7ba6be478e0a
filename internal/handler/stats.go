// Package handler 提供API处理器
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jukushift/jukushift/internal/metrics"
	"github.com/jukushift/jukushift/pkg/logger"
	"github.com/jukushift/jukushift/pkg/model"
	"github.com/jukushift/jukushift/pkg/stats"
)

// StatsRequest 统计请求
type StatsRequest struct {
	Teachers    []*model.Teacher   `json:"teachers"`
	Students    []*model.Student   `json:"students"`
	Assignments []model.Assignment `json:"assignments"`
}

// WorkloadResponse 讲师负载响应
type WorkloadResponse struct {
	Success bool                   `json:"success"`
	Data    *stats.WorkloadMetrics `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// CoverageResponse 覆盖率响应
type CoverageResponse struct {
	Success bool                   `json:"success"`
	Data    *stats.CoverageMetrics `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// GetWorkloadHandler 讲师负载分析API
func GetWorkloadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req StatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info().
		Int("teachers", len(req.Teachers)).
		Int("assignments", len(req.Assignments)).
		Msg("接收讲师负载分析请求")

	analyzer := stats.NewWorkloadAnalyzer()
	data := analyzer.Analyze(req.Teachers, req.Assignments)

	metrics.SetWorkloadGini(data.SlotGini)

	respondJSON(w, http.StatusOK, WorkloadResponse{Success: true, Data: data})
}

// GetCoverageHandler 需求覆盖率分析API
func GetCoverageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req StatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info().
		Int("students", len(req.Students)).
		Int("assignments", len(req.Assignments)).
		Msg("接收覆盖率分析请求")

	analyzer := stats.NewCoverageAnalyzer()
	data := analyzer.Analyze(req.Students, req.Assignments)

	respondJSON(w, http.StatusOK, CoverageResponse{Success: true, Data: data})
}

// sendJSONError 返回简单JSON错误
func sendJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
