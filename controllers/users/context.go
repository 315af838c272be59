package users

import (
	"net/http"

	"github.com/SunshineAppV2/baseteen-sub001/database"
	"github.com/SunshineAppV2/baseteen-sub001/models"
	"github.com/SunshineAppV2/baseteen-sub001/utils"
)

// currentUser loads the authenticated user's row. Writes the error response
// itself when the token context is unusable.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return nil, false
	}
	var user models.User
	if err := database.DB.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return nil, false
	}
	if user.Status != "Active" {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Conta inativa"})
		return nil, false
	}
	return &user, true
}
