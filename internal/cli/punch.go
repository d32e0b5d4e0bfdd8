package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/lichiahui/lifelog/internal/attendance"
	"github.com/lichiahui/lifelog/internal/constants"
	"github.com/lichiahui/lifelog/internal/models"
)

type PunchCmd struct {
	In      PunchInCmd      `cmd:"" help:"Clock in for work."`
	Out     PunchOutCmd     `cmd:"" help:"Clock out and record the work time."`
	Break   PunchBreakCmd   `cmd:"" help:"Start a break."`
	Back    PunchBackCmd    `cmd:"" help:"End the break."`
	Status  PunchStatusCmd  `cmd:"" help:"Show the current punch status."`
	Records PunchRecordsCmd `cmd:"" help:"List recent punch records."`
	Hours   PunchHoursCmd   `cmd:"" help:"Sum recorded work time per week or month."`
}

// restoredMachine builds the punch-clock machine with the persisted status
// loaded, so a punch sees the state left by the previous invocation.
func restoredMachine(ctx *Context) (*attendance.Machine, error) {
	machine := attendance.New(ctx.Store)
	if err := machine.Restore(); err != nil {
		return nil, err
	}
	return machine, nil
}

func punch(ctx *Context, punchType models.PunchType) (*attendance.Machine, error) {
	machine, err := restoredMachine(ctx)
	if err != nil {
		return nil, err
	}
	if err := machine.Punch(punchType); err != nil {
		return nil, err
	}
	return machine, nil
}

type PunchInCmd struct{}

func (c *PunchInCmd) Run(ctx *Context) error {
	machine, err := punch(ctx, models.PunchWorkIn)
	if err != nil {
		return err
	}
	if machine.Status() == attendance.StatusWorking {
		fmt.Println("Clocked in. Have a good day!")
	} else {
		fmt.Printf("Punch recorded, but status stays %q.\n", machine.Status())
	}
	return nil
}

type PunchOutCmd struct{}

func (c *PunchOutCmd) Run(ctx *Context) error {
	machine, err := restoredMachine(ctx)
	if err != nil {
		return err
	}
	elapsed := machine.WorkElapsed()
	if err := machine.Punch(models.PunchWorkOut); err != nil {
		return err
	}
	if machine.Status() == attendance.StatusIdle && elapsed > 0 {
		fmt.Printf("Clocked out after %s. Well done!\n", attendance.FormatDuration(elapsed))
	} else {
		fmt.Printf("Punch recorded, but status stays %q.\n", machine.Status())
	}
	return nil
}

type PunchBreakCmd struct{}

func (c *PunchBreakCmd) Run(ctx *Context) error {
	machine, err := punch(ctx, models.PunchBreakStart)
	if err != nil {
		return err
	}
	if machine.Status() == attendance.StatusBreak {
		fmt.Println("Break started. Step away from the desk.")
	} else {
		fmt.Printf("Punch recorded, but status stays %q.\n", machine.Status())
	}
	return nil
}

type PunchBackCmd struct{}

func (c *PunchBackCmd) Run(ctx *Context) error {
	machine, err := punch(ctx, models.PunchBreakEnd)
	if err != nil {
		return err
	}
	if machine.Status() == attendance.StatusWorking {
		fmt.Println("Welcome back.")
	} else {
		fmt.Printf("Punch recorded, but status stays %q.\n", machine.Status())
	}
	return nil
}

type PunchStatusCmd struct {
	Watch bool `help:"Keep printing the status every minute."`
}

func (c *PunchStatusCmd) Run(ctx *Context) error {
	machine, err := restoredMachine(ctx)
	if err != nil {
		return err
	}

	printStatus(machine)
	if !c.Watch {
		return nil
	}

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		printStatus(machine)
	}
	return nil
}

func printStatus(machine *attendance.Machine) {
	switch machine.Status() {
	case attendance.StatusWorking:
		fmt.Printf("Working for %s.\n", attendance.FormatDuration(machine.WorkElapsed()))
	case attendance.StatusBreak:
		fmt.Printf("On a break for %s.\n", attendance.FormatDuration(machine.BreakElapsed()))
	default:
		fmt.Println("Not clocked in.")
	}
}

type PunchRecordsCmd struct {
	All   bool `help:"Show every record instead of the most recent ones."`
	Clear bool `help:"Delete all punch records."`
}

func (c *PunchRecordsCmd) Run(ctx *Context) error {
	if c.Clear {
		ctx.PerformAutomaticSnapshot()
		if err := ctx.Store.ClearPunches(); err != nil {
			return err
		}
		fmt.Println("Punch records cleared.")
		return nil
	}

	records, err := ctx.Store.GetAllPunches()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No punch records yet.")
		return nil
	}

	shown := records
	if !c.All && len(shown) > constants.RecentPunchesShown {
		shown = shown[len(shown)-constants.RecentPunchesShown:]
	}

	for _, record := range shown {
		fmt.Printf("%s  %s\n", record.DateTime, record.Type)
	}
	if len(shown) < len(records) {
		fmt.Printf("\n(%d older records hidden, use --all to show them)\n", len(records)-len(shown))
	}
	return nil
}

type PunchHoursCmd struct {
	Month bool `help:"Sum this calendar month instead of the last 7 days."`
}

func (c *PunchHoursCmd) Run(ctx *Context) error {
	records, err := ctx.Store.GetAllWorkTime()
	if err != nil {
		return err
	}

	today := Today()
	var from string
	if c.Month {
		from, _, err = MonthRange(today)
		if err != nil {
			return err
		}
	} else {
		start, _ := time.Parse(constants.DateFormat, today)
		from = start.AddDate(0, 0, -6).Format(constants.DateFormat)
	}

	perDay := map[string]int64{}
	var total int64
	for _, record := range records {
		if record.Date < from || record.Date > today {
			continue
		}
		perDay[record.Date] += record.DurationMs
		total += record.DurationMs
	}

	if total == 0 {
		fmt.Printf("No work time recorded since %s.\n", from)
		return nil
	}

	days := make([]string, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		fmt.Printf("%s  %s\n", day, attendance.FormatDuration(time.Duration(perDay[day])*time.Millisecond))
	}
	fmt.Printf("\nTotal: %s\n", attendance.FormatDuration(time.Duration(total)*time.Millisecond))
	return nil
}
