package middleware

import (
	"context"
	"net/http"

	"github.com/SunshineAppV2/baseteen-sub001/utils"
)

// AuthMiddleware validates the bearer token and injects the caller's id and
// role into the request context. Any authenticated user passes; handlers
// that need coordinator authority use CoordinatorAuthMiddleware instead.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, err := utils.ExtractBearer(r)
		if err != nil {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Unauthorized",
			})
			return
		}

		_, claims, err := utils.ValidateAccessToken(tokenStr)
		if err != nil {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Sessão expirada, faça login novamente.",
			})
			return
		}

		userID, ok := utils.UserIDFromClaims(claims)
		if !ok || userID == 0 {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Invalid token",
			})
			return
		}
		role, _ := claims["role"].(string)

		ctx := context.WithValue(r.Context(), utils.UserIDKey, userID)
		ctx = context.WithValue(ctx, utils.UserRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
