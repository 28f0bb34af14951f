package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/database"
	"github.com/smarttrack/smarttrack-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testDB *database.DB

// testDatabase connects once and migrates. Tests skip when TEST_DATABASE_URL
// is unset.
func testDatabase(t *testing.T) *database.DB {
	t.Helper()
	if testDB != nil {
		return testDB
	}

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")

	_, err = db.Migrate(context.Background())
	require.NoError(t, err, "failed to migrate test database")

	testDB = db
	return testDB
}

func truncateTables(t *testing.T, ctx context.Context) {
	db := testDatabase(t)
	for _, table := range []string{"attendance", "offices", "users"} {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}

type fixture struct {
	EmployeeID string
	HRID       string
	HQID       string
	AnnexID    string
}

// seedFixture inserts two users and two offices in one transaction.
func seedFixture(t *testing.T, ctx context.Context) fixture {
	db := testDatabase(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	var f fixture
	err = postgresql.WithTransaction(ctx, db, func(ctx context.Context) error {
		q := postgresql.GetQuerier(ctx, db)
		if err := q.QueryRow(ctx, `
			INSERT INTO users (employee_id, name, email, password_hash, role)
			VALUES ('EMP-001', 'zara', 'zara@example.com', $1, 'employee') RETURNING id
		`, string(hash)).Scan(&f.EmployeeID); err != nil {
			return err
		}
		if err := q.QueryRow(ctx, `
			INSERT INTO users (employee_id, name, email, password_hash, role)
			VALUES ('HR-001', 'Asha', 'asha@example.com', $1, 'hr') RETURNING id
		`, string(hash)).Scan(&f.HRID); err != nil {
			return err
		}
		if err := q.QueryRow(ctx, `
			INSERT INTO offices (name, latitude, longitude, radius, created_at)
			VALUES ('HQ', 12.9716, 77.5946, 150, NOW() - INTERVAL '1 minute') RETURNING id
		`).Scan(&f.HQID); err != nil {
			return err
		}
		return q.QueryRow(ctx, `
			INSERT INTO offices (name, latitude, longitude, radius, created_at)
			VALUES ('Annex', 12.9800, 77.6000, 200, NOW()) RETURNING id
		`).Scan(&f.AnnexID)
	})
	require.NoError(t, err)
	return f
}
