package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Auth     *AuthHandler
	Students *StudentHandler
	Ledger   *LedgerHandler
	Subjects *SubjectHandler
	Results  *ResultHandler
	Settings *SettingsHandler
	Metrics  *MetricsHandler
}

// Register mounts the API routes on group. requireAuth guards everything except login and the session probe,
// which run behind optionalAuth.
func Register(group *gin.RouterGroup, h Handlers, requireAuth, optionalAuth gin.HandlerFunc) {
	auth := group.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.GET("/session", optionalAuth, h.Auth.Session)
	auth.POST("/logout", requireAuth, h.Auth.Logout)

	secured := group.Group("")
	secured.Use(requireAuth)

	students := secured.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", h.Students.Create)
	students.GET("/:id", h.Students.Get)
	students.PUT("/:id", h.Students.Update)
	students.DELETE("/:id", h.Students.Delete)
	students.POST("/:id/photo", h.Students.UploadPhoto)
	students.GET("/:id/admission.pdf", h.Students.AdmissionForm)

	ledgerGroup := secured.Group("/ledger")
	ledgerGroup.GET("", h.Ledger.Grid)
	ledgerGroup.PUT("/cells", h.Ledger.CommitCell)
	ledgerGroup.GET("/print.pdf", h.Ledger.Print)
	ledgerGroup.GET("/export.csv", h.Ledger.Export)

	subjects := secured.Group("/subjects")
	subjects.GET("", h.Subjects.List)
	subjects.POST("", h.Subjects.Create)
	subjects.PUT("/:id", h.Subjects.Update)
	subjects.DELETE("/:id", h.Subjects.Delete)

	results := secured.Group("/results")
	results.GET("/:studentId", h.Results.Sheet)
	results.PUT("/:studentId", h.Results.Save)
	results.POST("/:studentId/preview", h.Results.Preview)
	results.GET("/:studentId/card.pdf", h.Results.CardPDF)

	settings := secured.Group("/settings")
	settings.GET("", h.Settings.Get)
	settings.POST("/logo", h.Settings.UploadLogo)

	secured.GET("/metrics/snapshot", h.Metrics.Snapshot)
}
