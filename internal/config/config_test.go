package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadPathFor(t *testing.T) {
	u := UploadConfig{Root: "uploads"}

	got := u.PathFor("PAT12345", "report.pdf")
	assert.Equal(t, filepath.Join("uploads", "PAT12345", "report.pdf"), got)
}

func TestUploadPathFor_StripsDirectoryComponents(t *testing.T) {
	u := UploadConfig{Root: "uploads"}

	got := u.PathFor("PAT12345", "../../etc/passwd")
	assert.Equal(t, filepath.Join("uploads", "PAT12345", "passwd"), got)
}

func TestProfilePhotoPath(t *testing.T) {
	u := UploadConfig{Root: "uploads"}

	got := u.ProfilePhotoPath("me.png")
	assert.Equal(t, filepath.Join("uploads", "profiles", "me.png"), got)
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		Name:     "medremind",
		User:     "svc",
		Password: "secret",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "dbname=medremind")
	assert.Contains(t, dsn, "sslmode=require")
	assert.Contains(t, dsn, "TimeZone=UTC")
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, "medremind", cfg.Database.Name)
	assert.Equal(t, "uploads", cfg.Upload.Root)
}
