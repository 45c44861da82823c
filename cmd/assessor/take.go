package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-assessor/internal/observability"
	"github.com/jonathan/career-assessor/internal/orchestrator"
	"github.com/jonathan/career-assessor/internal/types"
)

var takeCmd = &cobra.Command{
	Use:   "take",
	Short: "Take the assessment interactively",
	Long: `Collect a profile, walk through the generated questions and print the scores and career report.
The previous report is offered first unless --fresh is given.`,
	RunE: runTake,
}

var takeFresh bool

func init() {
	takeCmd.Flags().BoolVar(&takeFresh, "fresh", false, "Ignore the saved report and start a new attempt")
	rootCmd.AddCommand(takeCmd)
}

// errQuit is returned by the prompter when the user types q.
var errQuit = errors.New("quit")

func runTake(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)

	var onTransition orchestrator.TransitionCallback
	if verbose {
		onTransition = printer.PrintTransition
	}

	a, err := newApp(ctx, cfg, onTransition)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	s := &takeSession{
		orch:    a.orch,
		printer: printer,
		in:      bufio.NewReader(cmd.InOrStdin()),
		out:     out,
	}
	return s.run(ctx, takeFresh)
}

// takeSession drives one orchestrator from a line-oriented terminal.
type takeSession struct {
	orch    *orchestrator.Orchestrator
	printer *observability.Printer
	in      *bufio.Reader
	out     io.Writer
}

func (s *takeSession) run(ctx context.Context, fresh bool) error {
	started, err := s.begin(ctx, fresh)
	if err != nil || !started {
		return err
	}

	if err := s.collectProfile(ctx); err != nil {
		return s.stop(err)
	}
	if err := s.answerQuestions(); err != nil {
		return s.stop(err)
	}

	_, _ = fmt.Fprintln(s.out, "\nScoring your answers and preparing the report...")
	if err := s.orch.Complete(ctx); err != nil {
		s.printer.PrintError(err.Error())
		return err
	}
	return s.showResults()
}

// begin offers the saved report and moves to profile collection. It
// returns false when the user only wanted to see the saved report.
func (s *takeSession) begin(ctx context.Context, fresh bool) (bool, error) {
	if fresh {
		return true, s.orch.Start()
	}

	found, err := s.orch.Rehydrate(ctx)
	if err != nil {
		return false, err
	}
	if !found {
		return true, s.orch.Start()
	}

	_, _ = fmt.Fprintln(s.out, "Your previous results:")
	if err := s.showResults(); err != nil {
		return false, err
	}
	retake, err := s.confirm("Retake the assessment?")
	if err != nil || !retake {
		return false, ignoreQuit(err)
	}
	return true, s.orch.Retake()
}

// collectProfile prompts for every profile field until the profile is
// accepted and the questions are generated.
func (s *takeSession) collectProfile(ctx context.Context) error {
	_, _ = fmt.Fprintln(s.out, "Tell us about yourself (q to quit).")
	for {
		profile, err := s.promptProfile()
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(s.out, "\nPreparing your questions...")
		err = s.orch.SubmitProfile(ctx, profile)
		if err == nil {
			return nil
		}

		var validationErr *orchestrator.ValidationError
		if !errors.As(err, &validationErr) {
			s.printer.PrintError(err.Error())
			return err
		}
		var profileErr *types.ProfileError
		if errors.As(err, &profileErr) {
			for _, f := range profileErr.Fields {
				s.printer.PrintError(fmt.Sprintf("%s %s", f.Field, f.Message))
			}
		} else {
			s.printer.PrintError(err.Error())
		}
		_, _ = fmt.Fprintln(s.out, "Please try again.")
	}
}

func (s *takeSession) promptProfile() (types.UserProfile, error) {
	var p types.UserProfile
	var err error

	fields := []struct {
		label string
		dst   *string
	}{
		{"Name", &p.Name},
		{"Email", &p.Email},
		{"Phone (optional)", &p.Phone},
		{"Education level", &p.EducationLevel},
		{"Field of study (optional)", &p.FieldOfStudy},
	}
	for _, f := range fields {
		if *f.dst, err = s.prompt(f.label); err != nil {
			return p, err
		}
	}

	age, err := s.prompt("Age (optional)")
	if err != nil {
		return p, err
	}
	if age != "" {
		if p.Age, err = strconv.Atoi(age); err != nil {
			s.printer.PrintError("age must be a number, leaving it blank")
			p.Age = 0
		}
	}

	skills, err := s.prompt("Skills (comma separated)")
	if err != nil {
		return p, err
	}
	p.Skills = splitList(skills)

	interests, err := s.prompt("Interests (comma separated)")
	if err != nil {
		return p, err
	}
	p.Interests = splitList(interests)
	return p, nil
}

// answerQuestions runs the question loop until every question is answered.
func (s *takeSession) answerQuestions() error {
	for {
		view, err := s.orch.CurrentQuestion()
		if err != nil {
			return err
		}
		if view.Answered == view.Total {
			return nil
		}

		_, _ = fmt.Fprintln(s.out)
		s.printer.PrintQuestion(view)
		input, err := s.prompt(fmt.Sprintf("Choose 1-%d, b=back, n=next, q=quit", len(view.Question.Options)))
		if err != nil {
			return err
		}

		switch strings.ToLower(input) {
		case "b":
			if err := s.orch.Previous(); err != nil {
				s.printer.PrintError("already at the first question")
			}
			continue
		case "n":
			if err := s.orch.Next(); err != nil {
				s.printer.PrintError("already at the last question")
			}
			continue
		}

		choice, err := strconv.Atoi(input)
		if err != nil || choice < 1 || choice > len(view.Question.Options) {
			s.printer.PrintError(fmt.Sprintf("enter a number between 1 and %d", len(view.Question.Options)))
			continue
		}
		if err := s.orch.Answer(view.Question.ID, view.Question.Options[choice-1].Value); err != nil {
			s.printer.PrintError(err.Error())
			continue
		}
		s.advance(view)
	}
}

// advance moves to the next question, or back to the first unanswered one
// after the last question.
func (s *takeSession) advance(view orchestrator.QuestionView) {
	if view.Index < view.Total-1 {
		_ = s.orch.Next()
		return
	}
	for i := 0; i < view.Total; i++ {
		if err := s.orch.GoTo(i); err != nil {
			return
		}
		q, err := s.orch.CurrentQuestion()
		if err != nil || q.Answer == nil {
			return
		}
	}
}

func (s *takeSession) showResults() error {
	scores, err := s.orch.Scores()
	if err != nil {
		return err
	}
	report, err := s.orch.Report()
	if err != nil {
		return err
	}
	s.printer.PrintScores(scores)
	s.printer.PrintReport(report)
	if verbose {
		s.printer.PrintAnalyses(report)
	}
	return nil
}

// stop abandons the attempt. Quitting is not an error.
func (s *takeSession) stop(err error) error {
	s.orch.Abandon()
	if errors.Is(err, errQuit) {
		_, _ = fmt.Fprintln(s.out, "Assessment abandoned.")
		return nil
	}
	return err
}

// prompt reads one trimmed line. A lone q quits, EOF is an error.
func (s *takeSession) prompt(label string) (string, error) {
	_, _ = fmt.Fprintf(s.out, "%s: ", label)
	line, err := s.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("input closed")
		}
		return "", err
	}
	line = strings.TrimSpace(line)
	if strings.EqualFold(line, "q") {
		return "", errQuit
	}
	return line, nil
}

func (s *takeSession) confirm(question string) (bool, error) {
	answer, err := s.prompt(question + " [y/N]")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes"), nil
}

func ignoreQuit(err error) error {
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
