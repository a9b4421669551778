package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ronaldsalkes/cvmaster/internal/draft"
	"github.com/ronaldsalkes/cvmaster/internal/preview"
	"github.com/ronaldsalkes/cvmaster/internal/store"
	"github.com/ronaldsalkes/cvmaster/internal/wizard"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Run the interactive résumé wizard",
	Long: `Run the interactive résumé wizard. The draft autosaves while you type
and is restored on the next run. Type :help at any prompt for commands.`,
	RunE: runWizard,
}

func init() {
	rootCmd.AddCommand(wizardCmd)
}

// stepField is one prompt within a data step.
type stepField struct {
	label string
	get   func(d draft.Draft) string
	set   func(p *draft.Patch, v string)
}

// stepFields lists the prompts per data step, in display order.
var stepFields = map[int][]stepField{
	draft.StepPersonal: {
		{"Full name", func(d draft.Draft) string { return d.Name }, func(p *draft.Patch, v string) { p.Name = &v }},
		{"Professional title", func(d draft.Draft) string { return d.Title }, func(p *draft.Patch, v string) { p.Title = &v }},
	},
	draft.StepContact: {
		{"Phone", func(d draft.Draft) string { return d.Phone }, func(p *draft.Patch, v string) { p.Phone = &v }},
		{"Email", func(d draft.Draft) string { return d.Email }, func(p *draft.Patch, v string) { p.Email = &v }},
		{"City", func(d draft.Draft) string { return d.City }, func(p *draft.Patch, v string) { p.City = &v }},
		{"LinkedIn (optional)", func(d draft.Draft) string { return d.LinkedIn }, func(p *draft.Patch, v string) { p.LinkedIn = &v }},
	},
	draft.StepTargetJob: {
		{"Target job description (optional, used by optimization)", func(d draft.Draft) string { return d.TargetJob }, func(p *draft.Patch, v string) { p.TargetJob = &v }},
	},
	draft.StepSummary: {
		{"Professional summary (min. 50 characters)", func(d draft.Draft) string { return d.Summary }, func(p *draft.Patch, v string) { p.Summary = &v }},
	},
	draft.StepExperience: {
		{"Work experience", func(d draft.Draft) string { return d.Experience }, func(p *draft.Patch, v string) { p.Experience = &v }},
	},
	draft.StepEducation: {
		{"Education", func(d draft.Draft) string { return d.Education }, func(p *draft.Patch, v string) { p.Education = &v }},
	},
	draft.StepSkills: {
		{"Skills (comma separated)", func(d draft.Draft) string { return d.Skills }, func(p *draft.Patch, v string) { p.Skills = &v }},
	},
	draft.StepCourses: {
		{"Courses & certifications (optional)", func(d draft.Draft) string { return d.Courses }, func(p *draft.Patch, v string) { p.Courses = &v }},
	},
	draft.StepLanguages: {
		{"Languages (optional)", func(d draft.Draft) string { return d.Languages }, func(p *draft.Patch, v string) { p.Languages = &v }},
		{"Driver's license", func(d draft.Draft) string { return d.DriversLicense }, func(p *draft.Patch, v string) { p.DriversLicense = &v }},
	},
	draft.StepAvailability: {
		{"Availability (optional)", func(d draft.Draft) string { return d.Availability }, func(p *draft.Patch, v string) { p.Availability = &v }},
	},
}

// session holds the interactive loop state.
type session struct {
	ctrl   *wizard.Controller
	reader *bufio.Reader
}

func runWizard(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	st, err := store.NewFileStore(cfg.StoragePath, log)
	if err != nil {
		return fmt.Errorf("failed to open draft slot: %w", err)
	}
	collab, err := newCollaborator(cfg)
	if err != nil {
		return fmt.Errorf("failed to configure collaborator: %w", err)
	}

	ctx := context.Background()
	ctrl := wizard.New(ctx, wizard.Config{
		Store:          st,
		Collaborator:   collab,
		AutosaveWindow: autosaveWindow(cfg),
		Logger:         log,
	})
	defer ctrl.Close()

	s := &session{ctrl: ctrl, reader: bufio.NewReader(os.Stdin)}
	return s.run(ctx)
}

func (s *session) run(ctx context.Context) error {
	for {
		var err error
		switch flow := s.ctrl.Flow(); {
		case flow == wizard.FlowDashboard:
			err = s.dashboard(ctx)
		case flow == wizard.FlowFinalPreview:
			err = s.finalPreview(ctx)
		case flow == wizard.FlowPayment:
			err = s.payment(ctx)
		case flow.IsDataStep():
			err = s.dataStep(ctx)
		default:
			return fmt.Errorf("unknown wizard state %d", flow)
		}
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

var errQuit = errors.New("quit")

func (s *session) dashboard(ctx context.Context) error {
	d := s.ctrl.Draft()

	fmt.Printf("\nHello, %s!\n", displayName())
	if d.HasData() {
		fmt.Printf("You have a saved draft for %s.\n", strings.TrimSpace(d.Name))
		fmt.Println("Commands: continue, new, preview, reset, quit")
	} else {
		fmt.Println("No saved draft yet.")
		fmt.Println("Commands: new, quit")
	}

	switch cmd := s.prompt("dashboard> "); cmd {
	case "new":
		s.ctrl.StartNew(ctx)
	case "continue":
		s.ctrl.OpenFinalPreview(ctx)
	case "preview":
		preview.NewPrinter(os.Stdout).Print(preview.Render(s.ctrl.Draft()))
	case "reset":
		s.ctrl.Reset(ctx)
		fmt.Println("Draft cleared.")
	case "quit", "q":
		return errQuit
	default:
		fmt.Println("Unknown command.")
	}
	return nil
}

func (s *session) dataStep(ctx context.Context) error {
	flow := s.ctrl.Flow()
	step := int(flow)

	if flow == wizard.FlowWelcome {
		fmt.Println("\nWelcome to CV Master. The wizard will walk you through ten short steps;")
		fmt.Println("your draft is saved automatically as you type.")
		fmt.Println("Press Enter to begin, or type :dashboard / :quit.")
		switch s.prompt("> ") {
		case ":dashboard":
			s.ctrl.OpenDashboard(ctx)
			return nil
		case ":quit", ":q":
			return errQuit
		}
		s.ctrl.Advance(ctx)
		return nil
	}

	fmt.Printf("\nStep %d/%d - %s\n", step, draft.LastDataStep, draft.StepLabels[step])

	for _, field := range stepFields[step] {
		current := field.get(s.ctrl.Draft())
		if current != "" {
			fmt.Printf("%s [%s]: ", field.label, current)
		} else {
			fmt.Printf("%s: ", field.label)
		}

		line := s.readLine()
		switch line {
		case ":back", ":b":
			s.ctrl.Back()
			return nil
		case ":dashboard", ":d":
			s.ctrl.OpenDashboard(ctx)
			return nil
		case ":quit", ":q":
			return errQuit
		case ":help", ":h":
			fmt.Println("Commands: :back, :dashboard, :quit. Enter keeps the current value.")
			return nil
		}
		if line == "" {
			continue
		}

		var p draft.Patch
		field.set(&p, line)
		s.ctrl.Update(ctx, p)
	}

	result := s.ctrl.Advance(ctx)
	if !result.Valid {
		fmt.Printf("  ✗ %s\n", result.Message)
		for field, msg := range result.Fields {
			fmt.Printf("    - %s: %s\n", field, msg)
		}
	}
	return nil
}

func (s *session) finalPreview(ctx context.Context) error {
	d := s.ctrl.Draft()
	preview.NewPrinter(os.Stdout).Print(preview.Render(d))

	fmt.Println("\nCommands: optimize, pdf, pay, dashboard, quit")
	switch cmd := s.prompt("preview> "); cmd {
	case "optimize":
		return s.optimize(ctx)
	case "pdf":
		fmt.Printf("Export file name: %s\n", draft.PDFFileName(d.Name, time.Now()))
		fmt.Println("PDF export requires the premium plan; type pay to unlock it.")
	case "pay":
		s.ctrl.OpenPayment(ctx)
	case "dashboard", "d":
		s.ctrl.OpenDashboard(ctx)
	case "quit", "q":
		return errQuit
	default:
		fmt.Println("Unknown command.")
	}
	return nil
}

func (s *session) optimize(ctx context.Context) error {
	fmt.Println("Optimizing the draft against the target posting...")

	err := s.ctrl.Optimize(ctx)
	switch {
	case errors.Is(err, wizard.ErrTargetJobRequired):
		fmt.Println("✗", err)
	case errors.Is(err, wizard.ErrStaleResult):
		fmt.Println("The draft changed while optimizing; result discarded.")
	case err != nil:
		fmt.Println("✗ Optimization failed; the draft is unchanged. You can try again.")
	default:
		fmt.Println("✓ Draft optimized.")
	}
	return nil
}

func (s *session) payment(ctx context.Context) error {
	fmt.Println("\nPremium checkout: https://pay.cvmaster.example/checkout")
	fmt.Println("Complete the payment in your browser, then return here.")
	fmt.Println("Commands: preview, dashboard, quit")

	switch s.prompt("payment> ") {
	case "preview":
		s.ctrl.OpenFinalPreview(ctx)
	case "dashboard", "d":
		s.ctrl.OpenDashboard(ctx)
	case "quit", "q":
		return errQuit
	default:
		fmt.Println("Unknown command.")
	}
	return nil
}

func (s *session) prompt(label string) string {
	fmt.Print(label)
	return s.readLine()
}

func (s *session) readLine() string {
	line, err := s.reader.ReadString('\n')
	if err != nil {
		return ":quit"
	}
	return strings.TrimSpace(line)
}

// displayName resolves a name for the dashboard greeting from the OS user.
func displayName() string {
	if u, err := user.Current(); err == nil {
		if u.Name != "" {
			return u.Name
		}
		if u.Username != "" {
			return u.Username
		}
	}
	return "Professional"
}
