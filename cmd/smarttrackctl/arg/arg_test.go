package arg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/smarttrack/smarttrack-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordCmd(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"hash-password", "password123"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("password123")))
}

func TestHashPasswordCmd_RequiresArgument(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"hash-password"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	assert.Error(t, rootCmd.Execute())
}

func TestWriteRoster(t *testing.T) {
	empID := "EMP-001"
	hq := "HQ"
	roster := attendance.RosterResponse{
		Date: "2024-03-15",
		Report: []attendance.RosterRow{
			{Name: "anita", Email: "anita@example.com", OverallStatus: attendance.OverallAbsent, DayStatus: attendance.DayStatusAbsent},
			{
				EmployeeID: &empID, Name: "Ravi", Email: "ravi@example.com", TotalHoursToday: 8.5,
				OverallStatus: attendance.OverallCheckedOut, DayStatus: attendance.DayStatusFullDay,
				CheckinOffice: &hq, CheckoutOffice: &hq,
			},
		},
	}

	var out bytes.Buffer
	require.NoError(t, writeRoster(&out, roster))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Roster for 2024-03-15", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "EMPLOYEE ID"))
	assert.Contains(t, lines[3], "anita")
	assert.Contains(t, lines[3], "0.00")
	assert.Contains(t, lines[4], "EMP-001")
	assert.Contains(t, lines[4], "8.50")
	assert.Contains(t, lines[4], "Full Day")

	// columns line up
	assert.Equal(t, strings.Index(lines[2], "HOURS"), strings.Index(lines[3], "0.00"))
}
