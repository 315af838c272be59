package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/SunshineAppV2/baseteen-sub001/controllers/users"
	"github.com/SunshineAppV2/baseteen-sub001/middleware"
)

func SetUserRoutes(api *mux.Router) {
	// Rate limiter for app login: 10 attempts per IP per minute
	loginLimiter := middleware.NewIPRateLimiter(10, time.Minute)
	api.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(users.Login))).Methods(http.MethodPost)

	userRouter := api.PathPrefix("").Subrouter()
	userRouter.Use(middleware.AuthMiddleware)

	userRouter.Handle("/me", http.HandlerFunc(users.ProfileHandler)).Methods(http.MethodGet)
	userRouter.Handle("/me/history", http.HandlerFunc(users.MyHistoryHandler)).Methods(http.MethodGet)
	userRouter.Handle("/me/fcm-token", http.HandlerFunc(users.SaveFCMTokenHandler)).Methods(http.MethodPost)

	userRouter.Handle("/tasks", http.HandlerFunc(users.ListTasksHandler)).Methods(http.MethodGet)
	userRouter.Handle("/tasks/{id:[0-9]+}/submit", http.HandlerFunc(users.SubmitTaskHandler)).Methods(http.MethodPost)
	userRouter.Handle("/submissions", http.HandlerFunc(users.ListMySubmissionsHandler)).Methods(http.MethodGet)

	userRouter.Handle("/quizzes", http.HandlerFunc(users.ListQuizzesHandler)).Methods(http.MethodGet)
	userRouter.Handle("/quizzes/{id:[0-9]+}/submit", http.HandlerFunc(users.SubmitQuizHandler)).Methods(http.MethodPost)

	userRouter.Handle("/notifications", http.HandlerFunc(users.ListNotificationsHandler)).Methods(http.MethodGet)
	userRouter.Handle("/notifications/{id:[0-9]+}/read", http.HandlerFunc(users.MarkNotificationReadHandler)).Methods(http.MethodPost)
	userRouter.Handle("/notifications/read-all", http.HandlerFunc(users.MarkAllNotificationsReadHandler)).Methods(http.MethodPost)
}
