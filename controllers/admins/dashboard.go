package admins

import (
	"net/http"

	"github.com/SunshineAppV2/baseteen-sub001/database"
	"github.com/SunshineAppV2/baseteen-sub001/models"
	"github.com/SunshineAppV2/baseteen-sub001/utils"
)

// GET /api/admin/dashboard
func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := currentCoordinator(w, r)
	if !ok {
		return
	}
	db := database.DB

	var memberCount int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleMember).
		Scopes(scope.Filter()).Count(&memberCount).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao carregar o painel"})
		return
	}

	var baseCount int64
	db.Model(&models.Base{}).Scopes(scope.FilterBases()).Count(&baseCount)

	var pendingSubs int64
	db.Model(&models.Submission{}).Where("status = ?", models.StatusPending).
		Scopes(scope.Filter()).Count(&pendingSubs)

	var pendingBaseSubs int64
	db.Model(&models.BaseSubmission{}).Where("status = ?", models.StatusPending).
		Scopes(scope.Filter()).Count(&pendingBaseSubs)

	var activeTasks int64
	db.Model(&models.Task{}).Where("active = ?", true).Count(&activeTasks)

	var topBases []models.Base
	db.Scopes(scope.FilterBases()).Order("total_xp DESC").Limit(5).Find(&topBases)

	var recent []models.Submission
	db.Scopes(scope.Filter()).Order("submitted_at DESC").Limit(10).Find(&recent)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"members":                  memberCount,
			"bases":                    baseCount,
			"pending_submissions":      pendingSubs,
			"pending_base_submissions": pendingBaseSubs,
			"active_tasks":             activeTasks,
			"top_bases":                topBases,
			"recent_submissions":       recent,
		},
	})
}
