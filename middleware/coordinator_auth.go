package middleware

import (
	"context"
	"net/http"

	"github.com/SunshineAppV2/baseteen-sub001/database"
	"github.com/SunshineAppV2/baseteen-sub001/models"
	"github.com/SunshineAppV2/baseteen-sub001/utils"
)

// CoordinatorAuthMiddleware verifies that the request comes from an active
// user holding a coordinator role. The user row is loaded so downstream
// handlers can build their authorization scope from fresh org refs rather
// than stale token claims.
func CoordinatorAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, err := utils.ExtractBearer(r)
		if err != nil {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Unauthorized: No token provided",
			})
			return
		}

		_, claims, err := utils.ValidateAccessToken(tokenStr)
		if err != nil {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Unauthorized: Invalid token",
			})
			return
		}

		userID, ok := utils.UserIDFromClaims(claims)
		if !ok || userID == 0 {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Unauthorized: Invalid token",
			})
			return
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Unauthorized: User not found",
			})
			return
		}
		if user.Status != "Active" || !user.IsCoordinator() {
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{
				Success: false,
				Message: "Forbidden: Coordinator access required",
			})
			return
		}

		ctx := context.WithValue(r.Context(), utils.UserIDKey, user.ID)
		ctx = context.WithValue(ctx, utils.UserRoleKey, user.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
