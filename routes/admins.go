package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/SunshineAppV2/baseteen-sub001/controllers/admins"
	"github.com/SunshineAppV2/baseteen-sub001/middleware"
)

func SetAdminRoutes(api *mux.Router) {
	// Rate limiter for admin login: 5 attempts per IP per minute
	adminLoginLimiter := middleware.NewIPRateLimiter(5, time.Minute)

	// Public admin routes
	api.Handle("/admin/login", adminLoginLimiter.Middleware(http.HandlerFunc(admins.Login))).Methods(http.MethodPost)
	api.Handle("/admin/refresh", http.HandlerFunc(admins.Refresh)).Methods(http.MethodPost)

	// Protected admin routes
	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.AuthMiddleware)
	adminRouter.Use(middleware.CoordinatorAuthMiddleware)

	adminRouter.Handle("/logout", http.HandlerFunc(admins.Logout)).Methods(http.MethodPost)

	// Dashboard
	adminRouter.Handle("/dashboard", http.HandlerFunc(admins.DashboardHandler)).Methods(http.MethodGet)

	// Task management
	adminRouter.Handle("/tasks", http.HandlerFunc(admins.ListTasksHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/tasks", http.HandlerFunc(admins.CreateTaskHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/tasks/{id:[0-9]+}", http.HandlerFunc(admins.UpdateTaskHandler)).Methods(http.MethodPut)
	adminRouter.Handle("/tasks/{id:[0-9]+}", http.HandlerFunc(admins.DeleteTaskHandler)).Methods(http.MethodDelete)
	adminRouter.Handle("/tasks/{id:[0-9]+}/stats", http.HandlerFunc(admins.TaskStatsHandler)).Methods(http.MethodGet)

	// Quiz management
	adminRouter.Handle("/quizzes", http.HandlerFunc(admins.ListQuizzesHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/quizzes", http.HandlerFunc(admins.CreateQuizHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/quizzes/{id:[0-9]+}", http.HandlerFunc(admins.UpdateQuizHandler)).Methods(http.MethodPut)
	adminRouter.Handle("/quizzes/{id:[0-9]+}", http.HandlerFunc(admins.DeleteQuizHandler)).Methods(http.MethodDelete)
	adminRouter.Handle("/quizzes/{id:[0-9]+}/attempts", http.HandlerFunc(admins.ListQuizAttemptsHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/quizzes/{id:[0-9]+}/attempts/{userId:[0-9]+}", http.HandlerFunc(admins.ResetQuizAttemptHandler)).Methods(http.MethodDelete)

	// Submission review (member submissions)
	adminRouter.Handle("/submissions", http.HandlerFunc(admins.ListSubmissionsHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/submissions/{id}/approve", http.HandlerFunc(admins.ApproveSubmissionHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/submissions/{id}/reject", http.HandlerFunc(admins.RejectSubmissionHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/submissions/{id}/revoke", http.HandlerFunc(admins.RevokeSubmissionHandler)).Methods(http.MethodPost)

	// Submission review (collective/base submissions)
	adminRouter.Handle("/base-submissions", http.HandlerFunc(admins.ListBaseSubmissionsHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/base-submissions/{id}/approve", http.HandlerFunc(admins.ApproveBaseSubmissionHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/base-submissions/{id}/reject", http.HandlerFunc(admins.RejectBaseSubmissionHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/base-submissions/{id}/revoke", http.HandlerFunc(admins.RevokeBaseSubmissionHandler)).Methods(http.MethodPost)

	// Member management
	adminRouter.Handle("/members", http.HandlerFunc(admins.ListMembersHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/members", http.HandlerFunc(admins.CreateMemberHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/members/{id:[0-9]+}", http.HandlerFunc(admins.GetMemberHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/members/{id:[0-9]+}", http.HandlerFunc(admins.UpdateMemberHandler)).Methods(http.MethodPut)
	adminRouter.Handle("/members/{id:[0-9]+}/adjust-xp", http.HandlerFunc(admins.AdjustMemberXPHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/members/{id:[0-9]+}/history", http.HandlerFunc(admins.MemberHistoryHandler)).Methods(http.MethodGet)

	// Org structure
	adminRouter.Handle("/structure", http.HandlerFunc(admins.StructureHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/unions", http.HandlerFunc(admins.CreateUnionHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/associations", http.HandlerFunc(admins.CreateAssociationHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/regions", http.HandlerFunc(admins.CreateRegionHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/districts", http.HandlerFunc(admins.CreateDistrictHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/bases", http.HandlerFunc(admins.CreateBaseHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/bases/{id:[0-9]+}", http.HandlerFunc(admins.GetBaseHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/bases/{id:[0-9]+}", http.HandlerFunc(admins.UpdateBaseHandler)).Methods(http.MethodPut)

	// Quarters and attendance
	adminRouter.Handle("/quarters", http.HandlerFunc(admins.ListQuartersHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/quarters", http.HandlerFunc(admins.CreateQuarterHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/quarters/{id:[0-9]+}", http.HandlerFunc(admins.UpdateQuarterHandler)).Methods(http.MethodPut)
	adminRouter.Handle("/quarters/{id:[0-9]+}", http.HandlerFunc(admins.DeleteQuarterHandler)).Methods(http.MethodDelete)
	adminRouter.Handle("/bases/{baseId:[0-9]+}/attendance", http.HandlerFunc(admins.GetAttendanceHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/bases/{baseId:[0-9]+}/attendance", http.HandlerFunc(admins.SaveAttendanceHandler)).Methods(http.MethodPut)
	adminRouter.Handle("/bases/{baseId:[0-9]+}/attendance/unlock", http.HandlerFunc(admins.UnlockAttendanceHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/bases/{baseId:[0-9]+}/attendance/criteria", http.HandlerFunc(admins.GetAttendanceCriteriaHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/bases/{baseId:[0-9]+}/attendance/criteria", http.HandlerFunc(admins.SaveAttendanceCriteriaHandler)).Methods(http.MethodPut)

	// Ranking and reports
	adminRouter.Handle("/ranking", http.HandlerFunc(admins.RankingHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/reports/members.xlsx", http.HandlerFunc(admins.ExportMembersXLSXHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/reports/members.pdf", http.HandlerFunc(admins.ExportMembersPDFHandler)).Methods(http.MethodGet)

	// Notices and events
	adminRouter.Handle("/notices", http.HandlerFunc(admins.ListNoticesHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/notices", http.HandlerFunc(admins.CreateNoticeHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/notices/{id:[0-9]+}", http.HandlerFunc(admins.UpdateNoticeHandler)).Methods(http.MethodPut)
	adminRouter.Handle("/notices/{id:[0-9]+}", http.HandlerFunc(admins.DeleteNoticeHandler)).Methods(http.MethodDelete)
	adminRouter.Handle("/events", http.HandlerFunc(admins.ListEventsHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/events", http.HandlerFunc(admins.CreateEventHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/events/{id:[0-9]+}", http.HandlerFunc(admins.UpdateEventHandler)).Methods(http.MethodPut)
	adminRouter.Handle("/events/{id:[0-9]+}/registrations", http.HandlerFunc(admins.ListEventRegistrationsHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/events/{id:[0-9]+}/checkin", http.HandlerFunc(admins.EventCheckinHandler)).Methods(http.MethodPost)

	// Danger zone
	adminRouter.Handle("/danger/reset", http.HandlerFunc(admins.DangerResetHandler)).Methods(http.MethodPost)

	// Communications fan-out (coordinator-only, lives outside /admin in the
	// console's API surface)
	commRouter := api.PathPrefix("/communications").Subrouter()
	commRouter.Use(middleware.AuthMiddleware)
	commRouter.Use(middleware.CoordinatorAuthMiddleware)
	commRouter.Handle("/send", http.HandlerFunc(admins.SendCommunicationHandler)).Methods(http.MethodPost)
}
