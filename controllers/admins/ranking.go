package admins

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SunshineAppV2/baseteen-sub001/authz"
	"github.com/SunshineAppV2/baseteen-sub001/database"
	"github.com/SunshineAppV2/baseteen-sub001/models"
	"github.com/SunshineAppV2/baseteen-sub001/utils"
)

const rankingCacheTTL = 60 * time.Second

type rankingPayload struct {
	Bases   []models.Base `json:"bases"`
	Members []models.User `json:"members"`
}

func rankingCacheKey(s authz.Scope) string {
	return fmt.Sprintf("ranking:%s:%d:%d:%d:%d:%d",
		s.Role, utils.UintValue(s.UnionID), utils.UintValue(s.AssociationID),
		utils.UintValue(s.RegionID), utils.UintValue(s.DistrictID), utils.UintValue(s.BaseID))
}

// GET /api/admin/ranking
// Leaderboards are read far more often than balances change, so the scoped
// result sits in Redis for a minute. Without Redis every request hits MySQL.
func RankingHandler(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	key := rankingCacheKey(scope)
	if utils.RedisClient != nil {
		if raw, err := utils.RedisClient.Get(r.Context(), key).Result(); err == nil {
			var cached rankingPayload
			if json.Unmarshal([]byte(raw), &cached) == nil {
				utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
					Success: true,
					Message: "Successfully",
					Data:    cached,
				})
				return
			}
		}
	}

	var payload rankingPayload
	if err := database.DB.Scopes(scope.FilterBases()).
		Order("total_xp DESC").Limit(50).Find(&payload.Bases).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao carregar ranking"})
		return
	}
	if err := database.DB.Where("role = ?", models.RoleMember).Scopes(scope.Filter()).
		Order("current_xp DESC").Limit(50).Find(&payload.Members).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao carregar ranking"})
		return
	}

	if utils.RedisClient != nil {
		if raw, err := json.Marshal(payload); err == nil {
			// cache write failures are invisible to the caller
			_ = utils.RedisClient.Set(context.Background(), key, raw, rankingCacheTTL).Err()
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    payload,
	})
}
