package v1

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medremind/medremind/internal/config"
	"github.com/medremind/medremind/internal/domain"
	"github.com/medremind/medremind/internal/service"
	"github.com/medremind/medremind/pkg/auth"
	"github.com/medremind/medremind/pkg/metrics"
)

// NewRouter wires the full v1 surface. Route groups are gated by role so
// ownership checks in the services are the second line of defense, not the
// first.
func NewRouter(cfg *config.Config, facade *service.Facade, jwtManager *auth.JWTManager, collector *metrics.Collector, log *zap.Logger) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logging(log.Named("http")))
	r.Use(Metrics(collector))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.App.Version})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	identity := NewIdentityHandler(facade.Identity, log)
	profiles := NewProfileHandler(facade.Profiles, log)
	medicines := NewMedicineHandler(facade.Medicines, log)
	schedules := NewScheduleHandler(facade.Schedules, log)
	documents := NewDocumentHandler(facade.Documents, log)
	clinicalH := NewClinicalHandler(facade.Clinical, log)
	accessH := NewAccessHandler(facade.Access, log)

	api := r.Group("/api/v1")

	// Public surface.
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", identity.Signup)
		authGroup.POST("/login", identity.Login)
		authGroup.POST("/refresh", identity.Refresh)
	}

	// Authenticated surface.
	protected := api.Group("")
	protected.Use(Auth(jwtManager))
	{
		protected.GET("/me", identity.Me)
		protected.POST("/me/deactivate", identity.Deactivate)
		protected.DELETE("/me", identity.DeleteAccount)
		protected.POST("/users/lookup", identity.Lookup)

		protected.GET("/profile", profiles.Me)
		protected.PUT("/profile", profiles.Upsert)
		protected.GET("/doctors/:doctor_key/profile", profiles.GetDoctor)
	}

	patient := protected.Group("")
	patient.Use(RequireRole(string(domain.RolePatient)))
	{
		patient.POST("/medicines", medicines.Add)
		patient.GET("/medicines", medicines.List)
		patient.GET("/medicines/:medicine_key", medicines.Get)
		patient.DELETE("/medicines/:medicine_key", medicines.Delete)
		patient.POST("/medicines/:medicine_key/decrement", medicines.Decrement)

		patient.POST("/schedules", schedules.Create)
		patient.GET("/schedules", schedules.List)
		patient.POST("/schedules/:schedule_key/taken", schedules.MarkTaken)
		patient.POST("/schedules/:schedule_key/missed", schedules.RegisterMissed)
		patient.PUT("/schedules/:schedule_key/status", schedules.SetStatus)
		patient.DELETE("/schedules/:schedule_key", schedules.Delete)

		patient.POST("/prescriptions", documents.AddPrescription)
		patient.DELETE("/prescriptions/:prescription_key", documents.DeletePrescription)
		patient.POST("/medical-tests", documents.AddMedicalTest)
		patient.DELETE("/medical-tests/:test_key", documents.DeleteMedicalTest)

		patient.POST("/queries", clinicalH.SubmitQuery)
		patient.POST("/queries/:query_key/resolve", clinicalH.ResolveQuery)
		patient.POST("/queries/:query_key/cancel", clinicalH.CancelQuery)

		patient.POST("/appointments", clinicalH.RequestAppointment)
		patient.POST("/appointments/:appointment_key/cancel", clinicalH.CancelAppointment)

		patient.POST("/doctor-requests", accessH.RequestDoctor)
		patient.POST("/guardian-requests/:request_key/resolve", accessH.ResolveGuardianRequest)
	}

	doctor := protected.Group("")
	doctor.Use(RequireRole(string(domain.RoleDoctor)))
	{
		doctor.POST("/queries/:query_key/respond", clinicalH.RespondToQuery)

		doctor.POST("/appointments/:appointment_key/approve", clinicalH.ApproveAppointment)
		doctor.POST("/appointments/:appointment_key/decline", clinicalH.DeclineAppointment)
		doctor.POST("/appointments/:appointment_key/complete", clinicalH.CompleteAppointment)
		doctor.POST("/appointments/:appointment_key/reschedule", clinicalH.RescheduleAppointment)

		doctor.POST("/doctor-requests/:request_key/resolve", accessH.ResolvePatientDoctorRequest)
	}

	guardian := protected.Group("")
	guardian.Use(RequireRole(string(domain.RoleGuardian)))
	{
		guardian.POST("/guardian-requests", accessH.BindGuardian)
		guardian.GET("/patients/:patient_key/medicines", accessH.GuardianPatientMedicines)
		guardian.GET("/patients/:patient_key/schedules", accessH.GuardianPatientSchedules)
	}

	// Shared listings dispatch on the caller's role internally.
	{
		protected.GET("/prescriptions", documents.ListPrescriptions)
		protected.GET("/medical-tests", documents.ListMedicalTests)
		protected.GET("/queries", clinicalH.ListQueries)
		protected.GET("/appointments", clinicalH.ListAppointments)
		protected.GET("/guardian-requests", accessH.ListGuardianRequests)
		protected.GET("/doctor-requests", accessH.ListPatientDoctorRequests)
		protected.DELETE("/guardian-requests/:request_key", accessH.DeleteGuardianRequest)
		protected.DELETE("/doctor-requests/:request_key", accessH.DeletePatientDoctorRequest)
	}

	return r
}
