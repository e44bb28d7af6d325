package utils

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9090\nDB_NAME=tickets\nBOOKING_MAX_SEATS=4\n"), 0600))
	t.Setenv("DB_NAME", "tickets_test")

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "tickets_test", cfg.Database.Name)
	assert.Equal(t, 4, cfg.Booking.MaxSeats)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, 24, cfg.Session.ExpiryHours)
	assert.Empty(t, cfg.App.CORSOrigins)
}

func TestLoadConfigFrom_CORSOrigins(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CORS_ORIGINS=https://counter.example/,,https://admin.example\n"), 0600))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://counter.example", "https://admin.example"}, cfg.App.CORSOrigins)
}

func TestLoadConfigFrom_MissingFile(t *testing.T) {
	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "Bus Ticketing", cfg.Booking.TicketCompany)
}

type sample struct {
	Code  string `json:"counterCode" validate:"required"`
	Role  string `json:"role" validate:"omitempty,oneof=counter admin"`
	Seats []int  `json:"seats" validate:"min=1"`
}

func TestValidateStruct(t *testing.T) {
	assert.Nil(t, ValidateStruct(sample{Code: "CTR-01", Seats: []int{1}}))

	errs := ValidateStruct(sample{Role: "root"})
	assert.Equal(t, map[string]string{
		"counterCode": "This field is required",
		"role":        "Must be one of: counter, admin",
		"seats":       "Minimum length is 1",
	}, errs)
	assert.Equal(t,
		"counterCode: This field is required; role: Must be one of: counter, admin; seats: Minimum length is 1",
		FormatValidationErrors(errs))
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 0, CalculateTotalPages(0, 10))
	assert.Equal(t, 3, CalculateTotalPages(21, 10))
	assert.Equal(t, 0, CalculateOffset(0, 10))
	assert.Equal(t, 20, CalculateOffset(3, 10))

	page, perPage := PageParams(httptest.NewRequest("GET", "/api/bus?page=2&per_page=500", nil))
	assert.Equal(t, 2, page)
	assert.Equal(t, MaxPerPage, perPage)

	page, perPage = PageParams(httptest.NewRequest("GET", "/api/bus?page=-1", nil))
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPerPage, perPage)
}

func TestGenerateOrderID(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^BUS-\d{8}-\d{6}-\d{4}$`), GenerateOrderID())
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("secret1", hash))
	assert.False(t, CheckPasswordHash("secret2", hash))
}
