package arg

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/smarttrack/smarttrack-backend-go/internal/domain/attendance"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/civil"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/lock"
	"github.com/smarttrack/smarttrack-backend-go/internal/repository/postgresql"
	attendanceService "github.com/smarttrack/smarttrack-backend-go/internal/service/attendance"
	"github.com/spf13/cobra"
)

var rosterDate string

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Print every employee's attendance for one day",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		loc, err := civil.ParseOffset(cfg.Attendance.UTCOffset)
		if err != nil {
			return err
		}

		officeRepo := postgresql.NewOfficeRepository(db)
		svc := attendanceService.NewAttendanceService(
			postgresql.NewAttendanceRepository(db),
			officeRepo,
			postgresql.NewUserRepository(db),
			lock.NewKeyedMutex(),
			loc,
		)

		roster, err := svc.Roster(cmd.Context(), rosterDate)
		if err != nil {
			return err
		}
		return writeRoster(cmd.OutOrStdout(), roster)
	},
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func writeRoster(out io.Writer, roster attendance.RosterResponse) error {
	fmt.Fprintf(out, "Roster for %s\n\n", roster.Date)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EMPLOYEE ID\tNAME\tEMAIL\tHOURS\tSTATUS\tDAY\tCHECK-IN OFFICE\tCHECK-OUT OFFICE")
	for _, row := range roster.Report {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\t%s\t%s\n",
			orDash(row.EmployeeID),
			row.Name,
			row.Email,
			row.TotalHoursToday,
			row.OverallStatus,
			row.DayStatus,
			orDash(row.CheckinOffice),
			orDash(row.CheckoutOffice),
		)
	}
	return w.Flush()
}

func init() {
	rosterCmd.Flags().StringVar(&rosterDate, "date", "", "day to report as YYYY-MM-DD (defaults to today)")
	rootCmd.AddCommand(rosterCmd)
}
