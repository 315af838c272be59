package admins

import (
	"net/http"

	"github.com/SunshineAppV2/baseteen-sub001/authz"
	"github.com/SunshineAppV2/baseteen-sub001/database"
	"github.com/SunshineAppV2/baseteen-sub001/models"
	"github.com/SunshineAppV2/baseteen-sub001/utils"
)

// currentCoordinator loads the authenticated coordinator and their scope.
// Writes the error response itself when the context is unusable.
func currentCoordinator(w http.ResponseWriter, r *http.Request) (*models.User, authz.Scope, bool) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
			Success: false,
			Message: "Unauthorized",
		})
		return nil, authz.Scope{}, false
	}
	var user models.User
	if err := database.DB.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
			Success: false,
			Message: "Unauthorized",
		})
		return nil, authz.Scope{}, false
	}
	return &user, authz.ScopeFor(&user), true
}
