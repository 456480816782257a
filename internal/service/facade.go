package service

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/medremind/medremind/internal/repository"
	"github.com/medremind/medremind/pkg/auth"
	"github.com/medremind/medremind/pkg/metrics"
)

// Facade is the single entry point into the core. Handlers hold one of these
// instead of nine repositories.
type Facade struct {
	Identity  *IdentityService
	Profiles  *ProfileService
	Medicines *MedicineService
	Schedules *ScheduleService
	Documents *DocumentService
	Clinical  *ClinicalService
	Access    *AccessService
	Audit     *AuditService
}

func NewFacade(db *gorm.DB, jwtManager *auth.JWTManager, collector *metrics.Collector, log *zap.Logger) *Facade {
	users := repository.NewUserRepository(db)
	profiles := repository.NewProfileRepository(db)
	medicines := repository.NewMedicineRepository(db)
	schedules := repository.NewScheduleRepository(db)
	documents := repository.NewDocumentRepository(db)
	queries := repository.NewQueryRepository(db)
	appointments := repository.NewAppointmentRepository(db)
	relations := repository.NewAccessRepository(db)
	audits := repository.NewAuditRepository(db)

	auditSvc := NewAuditService(audits, collector, log.Named("audit"))

	return &Facade{
		Identity:  NewIdentityService(users, jwtManager, auditSvc, collector, log.Named("identity")),
		Profiles:  NewProfileService(profiles, users, auditSvc, log.Named("profile")),
		Medicines: NewMedicineService(medicines, users, auditSvc, log.Named("medicine")),
		Schedules: NewScheduleService(schedules, medicines, auditSvc, collector, log.Named("schedule")),
		Documents: NewDocumentService(documents, users, auditSvc, log.Named("document")),
		Clinical:  NewClinicalService(queries, appointments, relations, auditSvc, collector, log.Named("clinical")),
		Access:    NewAccessService(relations, users, medicines, schedules, auditSvc, collector, log.Named("access")),
		Audit:     auditSvc,
	}
}

// Shutdown drains background workers. Call it after the HTTP server stops.
func (f *Facade) Shutdown() {
	f.Audit.Shutdown()
}
