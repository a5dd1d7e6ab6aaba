package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/noah-isme/school-ledger-api/internal/ledger"
	"github.com/noah-isme/school-ledger-api/internal/models"
	"github.com/noah-isme/school-ledger-api/internal/service"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type userCreator interface {
	CreateUser(ctx context.Context, req service.CreateUserRequest) (*models.User, error)
}

type commandLine struct {
	out      io.Writer
	users    userCreator
	migrate  func(ctx context.Context) ([]string, error)
	store    ledger.Store
	cardSize int
	logger   *zap.Logger
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate                                      - apply pending schema migrations")
	fmt.Fprintln(cli.out, "  adduser -email EMAIL -name NAME              - create a staff account, the password is prompted next")
	fmt.Fprintln(cli.out, "  ledger report -class C [-section S] -year Y  - print the fee ledger of a cohort")
	fmt.Fprintln(cli.out, "  ledger set -class C [-section S] -year Y -student ID MONTH:FIELD=VALUE...")
	fmt.Fprintln(cli.out, "                                               - enter payments, one cell per argument")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		return cli.runMigrate(ctx)
	case "adduser":
		return cli.runAddUser(ctx, args[2:])
	case "ledger":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		switch args[2] {
		case "report":
			return cli.runLedgerReport(ctx, args[3:])
		case "set":
			return cli.runLedgerSet(ctx, args[3:])
		}
	}
	cli.printUsage()
	return errHelp
}

func (cli *commandLine) runMigrate(ctx context.Context) error {
	applied, err := cli.migrate(ctx)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(cli.out, "schema is up to date")
		return nil
	}
	for _, v := range applied {
		fmt.Fprintf(cli.out, "applied %s\n", v)
	}
	return nil
}

func (cli *commandLine) runAddUser(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	email := cmd.String("email", "", "Login email of the new account.")
	name := cmd.String("name", "", "Full name shown on the session.")
	if err := cmd.Parse(args); err != nil {
		return errHelp
	}
	if *email == "" || *name == "" {
		cmd.Usage()
		return errHelp
	}

	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return err
	}
	if len(pwd) == 0 {
		cmd.Usage()
		return errHelp
	}

	user, err := cli.users.CreateUser(ctx, service.CreateUserRequest{Email: *email, FullName: *name, Password: string(pwd)})
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cli.out, "created user %s (%s)\n", user.Email, user.ID)
	return nil
}

func ledgerFlags(name string, out io.Writer) (*flag.FlagSet, *ledger.Filter) {
	cmd := flag.NewFlagSet(name, flag.ContinueOnError)
	cmd.SetOutput(out)
	f := &ledger.Filter{}
	cmd.StringVar(&f.Class, "class", "", "Class label, e.g. Five.")
	cmd.StringVar(&f.Section, "section", "", "Section, empty for every section.")
	cmd.StringVar(&f.Year, "year", "", "Ledger year.")
	return cmd, f
}

func (cli *commandLine) runLedgerReport(ctx context.Context, args []string) error {
	cmd, filter := ledgerFlags("ledger report", cli.out)
	if err := cmd.Parse(args); err != nil {
		return errHelp
	}
	if filter.Class == "" || filter.Year == "" {
		cmd.Usage()
		return errHelp
	}

	ctrl := ledger.NewController(cli.store, *filter, cli.logger)
	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	grid := ledger.BuildGrid(*filter, ctrl.Students(), ctrl.Summary(), cli.cardSize)
	cli.renderGrid(grid)
	return nil
}

func (cli *commandLine) runLedgerSet(ctx context.Context, args []string) error {
	cmd, filter := ledgerFlags("ledger set", cli.out)
	studentID := cmd.String("student", "", "Student ID.")
	if err := cmd.Parse(args); err != nil {
		return errHelp
	}
	if filter.Class == "" || filter.Year == "" || *studentID == "" || cmd.NArg() == 0 {
		cmd.Usage()
		return errHelp
	}

	edits := make([]cellInput, 0, cmd.NArg())
	for _, arg := range cmd.Args() {
		in, err := parseCellInput(arg)
		if err != nil {
			return err
		}
		edits = append(edits, in)
	}

	ctrl := ledger.NewController(cli.store, *filter, cli.logger)
	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	if !inCohort(ctrl.Students(), *studentID) {
		return fmt.Errorf("student %s is not in %s", *studentID, describeFilter(*filter))
	}

	// selecting the next cell commits the previous one
	for _, in := range edits {
		cell := ledger.Cell{StudentID: *studentID, Month: in.month, Field: in.field}
		if err := ctrl.Select(ctx, cell); err != nil {
			return err
		}
		if err := ctrl.Input(in.value); err != nil {
			return err
		}
	}
	if err := ctrl.Commit(ctx); err != nil {
		return err
	}

	totals := ctrl.Summary().Students[*studentID]
	color.New(color.FgGreen).Fprintf(cli.out, "saved %d cell(s), year total %s\n", len(edits), totals.GrandTotal.StringFixed(0))
	return nil
}

type cellInput struct {
	month string
	field models.PaymentField
	value string
}

func parseCellInput(arg string) (cellInput, error) {
	target, value, ok := strings.Cut(arg, "=")
	if !ok {
		return cellInput{}, fmt.Errorf("invalid cell %q, want MONTH:FIELD=VALUE", arg)
	}
	month, field, ok := strings.Cut(target, ":")
	if !ok {
		return cellInput{}, fmt.Errorf("invalid cell %q, want MONTH:FIELD=VALUE", arg)
	}
	in := cellInput{month: normaliseMonth(month), field: models.PaymentField(strings.ToLower(field)), value: value}
	if models.MonthIndex(in.month) < 0 {
		return cellInput{}, fmt.Errorf("unknown month %q", month)
	}
	if !in.field.Valid() {
		return cellInput{}, fmt.Errorf("unknown field %q", field)
	}
	return in, nil
}

func normaliseMonth(m string) string {
	m = strings.TrimSpace(m)
	for _, name := range models.Months {
		if strings.EqualFold(name, m) || (len(m) >= 3 && strings.HasPrefix(strings.ToLower(name), strings.ToLower(m))) {
			return name
		}
	}
	return m
}

func inCohort(students []models.Student, id string) bool {
	for _, st := range students {
		if st.ID == id {
			return true
		}
	}
	return false
}

func describeFilter(f ledger.Filter) string {
	if f.Section == "" {
		return fmt.Sprintf("class %s (%s)", f.Class, f.Year)
	}
	return fmt.Sprintf("class %s-%s (%s)", f.Class, f.Section, f.Year)
}

func (cli *commandLine) renderGrid(grid ledger.Grid) {
	color.New(color.FgCyan).Fprintf(cli.out, "\n=== Fee ledger, %s ===\n", describeFilter(grid.Filter))
	if len(grid.Cards) == 0 || len(grid.Cards[0].Rows) == 0 {
		fmt.Fprintln(cli.out, "no students")
		return
	}

	header := append([]string{"SL", "Name"}, shortMonths()...)
	header = append(header, "Total")
	for _, card := range grid.Cards {
		color.New(color.FgYellow).Fprintf(cli.out, "\nCard %d\n", card.Number)
		table := tablewriter.NewWriter(cli.out)
		table.SetHeader(header)
		for _, row := range card.Rows {
			line := []string{fmt.Sprintf("%d", row.Serial), displayName(row.Student)}
			for _, m := range models.Months {
				line = append(line, amountCell(row.Totals.Months[m].Total()))
			}
			line = append(line, row.Totals.GrandTotal.StringFixed(0))
			table.Append(line)
		}
		table.Render()
	}

	color.New(color.FgYellow).Fprintln(cli.out, "\nTotals")
	table := tablewriter.NewWriter(cli.out)
	table.SetHeader(append([]string{"Category"}, append(shortMonths(), "Total")...))
	for _, field := range models.PaymentFields {
		line := []string{string(field)}
		for _, m := range models.Months {
			line = append(line, amountCell(grid.Months[m].Categories.Get(field)))
		}
		line = append(line, grid.Categories.Get(field).StringFixed(0))
		table.Append(line)
	}
	footer := []string{"all"}
	for _, m := range models.Months {
		footer = append(footer, grid.Months[m].Total.StringFixed(0))
	}
	footer = append(footer, grid.GrandTotal.StringFixed(0))
	table.SetFooter(footer)
	table.Render()
}

func amountCell(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(0)
}

func shortMonths() []string {
	out := make([]string, len(models.Months))
	for i, m := range models.Months {
		out[i] = m[:3]
	}
	return out
}

func displayName(st models.Student) string {
	if st.NameEnglish != "" {
		return st.NameEnglish
	}
	return st.NameBengali
}
