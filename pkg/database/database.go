package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/medremind/medremind/internal/config"
	"github.com/medremind/medremind/internal/domain"
	"github.com/medremind/medremind/internal/domain/access"
	"github.com/medremind/medremind/internal/domain/clinical"
	"github.com/medremind/medremind/internal/domain/document"
	"github.com/medremind/medremind/internal/domain/medicine"
	"github.com/medremind/medremind/internal/domain/profile"
	"github.com/medremind/medremind/internal/domain/schedule"
	"github.com/medremind/medremind/internal/domain/user"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:                              true,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: false,
		DisableAutomaticPing:                     false,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	models := []any{
		&user.User{},
		&profile.Profile{},
		&medicine.Medicine{},
		&schedule.Schedule{},
		&document.Prescription{},
		&document.MedicalTest{},
		&clinical.DoctorQuery{},
		&clinical.Appointment{},
		&access.GuardianAccessRequest{},
		&access.PatientDoctorRequest{},
		&domain.AuditLog{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createConstraints(db); err != nil {
		return fmt.Errorf("creating constraints: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

// createConstraints installs the delete behavior: owned rows cascade with
// their owner, doctor references on patient-owned rows null out so patient
// history survives a doctor leaving.
func createConstraints(db *gorm.DB) error {
	constraints := []struct {
		name  string
		query string
	}{
		{
			name:  "fk_profiles_user",
			query: `ALTER TABLE profiles ADD CONSTRAINT fk_profiles_user FOREIGN KEY (user_key) REFERENCES users (user_key) ON DELETE CASCADE`,
		},
		{
			name:  "fk_medicines_patient",
			query: `ALTER TABLE medicines ADD CONSTRAINT fk_medicines_patient FOREIGN KEY (patient_key) REFERENCES users (user_key) ON DELETE CASCADE`,
		},
		{
			name:  "fk_schedules_patient",
			query: `ALTER TABLE schedules ADD CONSTRAINT fk_schedules_patient FOREIGN KEY (patient_key) REFERENCES users (user_key) ON DELETE CASCADE`,
		},
		{
			name:  "fk_schedules_medicine",
			query: `ALTER TABLE schedules ADD CONSTRAINT fk_schedules_medicine FOREIGN KEY (medicine_key) REFERENCES medicines (medicine_key) ON DELETE CASCADE`,
		},
		{
			name:  "fk_prescriptions_patient",
			query: `ALTER TABLE prescriptions ADD CONSTRAINT fk_prescriptions_patient FOREIGN KEY (patient_key) REFERENCES users (user_key) ON DELETE CASCADE`,
		},
		{
			name:  "fk_prescriptions_doctor",
			query: `ALTER TABLE prescriptions ADD CONSTRAINT fk_prescriptions_doctor FOREIGN KEY (doctor_key) REFERENCES users (user_key) ON DELETE SET NULL`,
		},
		{
			name:  "fk_medical_tests_patient",
			query: `ALTER TABLE medical_tests ADD CONSTRAINT fk_medical_tests_patient FOREIGN KEY (patient_key) REFERENCES users (user_key) ON DELETE CASCADE`,
		},
		{
			name:  "fk_medical_tests_doctor",
			query: `ALTER TABLE medical_tests ADD CONSTRAINT fk_medical_tests_doctor FOREIGN KEY (doctor_key) REFERENCES users (user_key) ON DELETE SET NULL`,
		},
		{
			name:  "fk_doctor_queries_patient",
			query: `ALTER TABLE doctor_queries ADD CONSTRAINT fk_doctor_queries_patient FOREIGN KEY (patient_key) REFERENCES users (user_key) ON DELETE CASCADE`,
		},
		{
			name:  "fk_doctor_queries_doctor",
			query: `ALTER TABLE doctor_queries ADD CONSTRAINT fk_doctor_queries_doctor FOREIGN KEY (doctor_key) REFERENCES users (user_key) ON DELETE SET NULL`,
		},
		{
			name:  "fk_appointments_patient",
			query: `ALTER TABLE appointments ADD CONSTRAINT fk_appointments_patient FOREIGN KEY (patient_key) REFERENCES users (user_key) ON DELETE CASCADE`,
		},
		{
			name:  "fk_appointments_doctor",
			query: `ALTER TABLE appointments ADD CONSTRAINT fk_appointments_doctor FOREIGN KEY (doctor_key) REFERENCES users (user_key) ON DELETE CASCADE`,
		},
		{
			name:  "fk_guardian_requests_patient",
			query: `ALTER TABLE guardian_access_requests ADD CONSTRAINT fk_guardian_requests_patient FOREIGN KEY (patient_key) REFERENCES users (user_key) ON DELETE CASCADE`,
		},
		{
			name:  "fk_guardian_requests_guardian",
			query: `ALTER TABLE guardian_access_requests ADD CONSTRAINT fk_guardian_requests_guardian FOREIGN KEY (guardian_key) REFERENCES users (user_key) ON DELETE CASCADE`,
		},
		{
			name:  "fk_pd_requests_patient",
			query: `ALTER TABLE patient_doctor_requests ADD CONSTRAINT fk_pd_requests_patient FOREIGN KEY (patient_key) REFERENCES users (user_key) ON DELETE CASCADE`,
		},
		{
			name:  "fk_pd_requests_doctor",
			query: `ALTER TABLE patient_doctor_requests ADD CONSTRAINT fk_pd_requests_doctor FOREIGN KEY (doctor_key) REFERENCES users (user_key) ON DELETE CASCADE`,
		},
	}

	for _, c := range constraints {
		var exists bool
		db.Raw(
			"SELECT EXISTS (SELECT 1 FROM information_schema.table_constraints WHERE constraint_name = ?)",
			c.name,
		).Scan(&exists)
		if exists {
			continue
		}
		if err := db.Exec(c.query).Error; err != nil {
			return fmt.Errorf("adding constraint %s: %w", c.name, err)
		}
	}

	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		{
			name:  "idx_medicines_patient_expiry",
			query: `CREATE INDEX IF NOT EXISTS idx_medicines_patient_expiry ON medicines (patient_key, expiry_date)`,
		},
		{
			name:  "idx_schedules_patient_status",
			query: `CREATE INDEX IF NOT EXISTS idx_schedules_patient_status ON schedules (patient_key, status)`,
		},
		{
			name:  "idx_appointments_doctor_state",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_doctor_state ON appointments (doctor_key, state, appointment_date)`,
		},
		{
			name:  "idx_doctor_queries_doctor_state",
			query: `CREATE INDEX IF NOT EXISTS idx_doctor_queries_doctor_state ON doctor_queries (doctor_key, state)`,
		},
		{
			name:  "idx_guardian_requests_pair_state",
			query: `CREATE INDEX IF NOT EXISTS idx_guardian_requests_pair_state ON guardian_access_requests (guardian_key, patient_key, state)`,
		},
		{
			name:  "idx_pd_requests_pair_state",
			query: `CREATE INDEX IF NOT EXISTS idx_pd_requests_pair_state ON patient_doctor_requests (patient_key, doctor_key, state)`,
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return nil
}
