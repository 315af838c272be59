package users

import (
	"net/http"
	"strconv"

	"github.com/SunshineAppV2/baseteen-sub001/database"
	"github.com/SunshineAppV2/baseteen-sub001/models"
	"github.com/SunshineAppV2/baseteen-sub001/utils"
)

// GET /api/me
func ProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var base *models.Base
	if user.BaseID != nil {
		var b models.Base
		if err := database.DB.First(&b, *user.BaseID).Error; err == nil {
			base = &b
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"user": user,
			"base": base,
		},
	})
}

// GET /api/me/history
// The member's ledger, newest first. Revocations appear as negative entries
// next to the original credit; nothing is ever rewritten.
func MyHistoryHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 500 {
		limit = 100
	}

	q := database.DB.Where("user_id = ?", user.ID)
	if category := r.URL.Query().Get("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var history []models.XPHistory
	if err := q.Order("created_at DESC").Limit(limit).Find(&history).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao carregar histórico"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"current_xp": user.CurrentXP,
			"level":      user.Level,
			"history":    history,
		},
	})
}
