package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-assessor/internal/generation"
	"github.com/jonathan/career-assessor/internal/metrics"
	"github.com/jonathan/career-assessor/internal/scoring"
	"github.com/jonathan/career-assessor/internal/session"
	"github.com/jonathan/career-assessor/internal/types"
)

// Service names used in metrics and logs
const (
	serviceQuestions = "questions"
	serviceReport    = "report"
)

// Failure kinds
const (
	failureQuestions = "question_generation"
	failureEmpty     = "empty_questions"
	failureReport    = "report_generation"
	failurePersist   = "persistence"
)

// MsgNoQuestions is the failure reason when the generator returns nothing.
const MsgNoQuestions = "generation produced no questions"

// SessionStore persists the last completed session
type SessionStore interface {
	SaveCheckpoint(ctx context.Context, profile types.UserProfile, raw types.RawScores) error
	SaveReport(ctx context.Context, report *types.ReportData) error
	Load(ctx context.Context) (*session.Snapshot, error)
	Clear(ctx context.Context) error
}

// Options configures an Orchestrator
type Options struct {
	Questions    generation.QuestionGenerator
	Reports      generation.ReportGenerator
	Store        SessionStore
	Policy       types.ProfilePolicy
	Limits       scoring.Limits
	Logger       *zap.Logger
	Metrics      *metrics.Recorder
	OnTransition TransitionCallback
	// Clock stamps transition events. Defaults to time.Now.
	Clock func() time.Time
}

// Orchestrator is the assessment state machine. All methods are safe for
// concurrent use. The lock is released only while a generation service call
// is pending; during that time every action except Abandon is refused.
type Orchestrator struct {
	mu sync.Mutex

	questionGen generation.QuestionGenerator
	reportGen   generation.ReportGenerator
	store       SessionStore
	policy      types.ProfilePolicy
	limits      scoring.Limits
	logger      *zap.Logger
	metrics     *metrics.Recorder
	onEvent     TransitionCallback
	clock       func() time.Time

	state      State
	generation uint64
	attemptID  string
	lastError  string

	profile   *types.UserProfile
	questions []types.Question
	answers   map[int]int
	current   int
	raw       types.RawScores
	report    *types.ReportData

	pending []Transition
}

// New creates an orchestrator in the Idle state.
func New(opts Options) (*Orchestrator, error) {
	if opts.Questions == nil {
		return nil, fmt.Errorf("question generator is required")
	}
	if opts.Reports == nil {
		return nil, fmt.Errorf("report generator is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if opts.Limits == nil {
		opts.Limits = scoring.DefaultLimits()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Orchestrator{
		questionGen: opts.Questions,
		reportGen:   opts.Reports,
		store:       opts.Store,
		policy:      opts.Policy,
		limits:      opts.Limits,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		onEvent:     opts.OnTransition,
		clock:       opts.Clock,
		state:       Idle,
	}, nil
}

// Rehydrate restores the last completed session. It returns true when the
// machine entered ReportReady. Missing or corrupt records leave it at Idle
// without error; only storage I/O failures are returned.
func (o *Orchestrator) Rehydrate(ctx context.Context) (bool, error) {
	o.lock()
	defer o.unlock()

	if o.state != Idle {
		return false, o.refuse("rehydrate")
	}

	snap, err := o.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load previous session: %w", err)
	}
	if snap == nil {
		return false, nil
	}

	o.reset()
	profile := snap.Profile.Clone()
	o.profile = &profile
	o.raw = snap.Raw.Clone()
	o.report = snap.Report.Clone()
	o.transition(ReportReady, "rehydrated")
	return true, nil
}

// Start begins a fresh attempt.
func (o *Orchestrator) Start() error {
	o.lock()
	defer o.unlock()

	if o.state != Idle {
		return o.refuse("start")
	}
	o.reset()
	o.transition(CollectingProfile, "started")
	return nil
}

// Retake discards the finished attempt and starts over at profile entry.
func (o *Orchestrator) Retake() error {
	o.lock()
	defer o.unlock()

	if o.state != ReportReady {
		return o.refuse("retake")
	}
	o.reset()
	o.transition(CollectingProfile, "retake")
	return nil
}

// Abandon returns to Idle from any state. A pending service result is
// discarded when it arrives.
func (o *Orchestrator) Abandon() {
	o.lock()
	defer o.unlock()

	if o.state == Idle {
		return
	}
	o.reset()
	o.transition(Idle, "abandoned")
}

// SubmitProfile validates the profile and generates the question set. A
// *ValidationError leaves the machine in CollectingProfile; a
// *GenerationError means it is back at Idle with the profile discarded.
func (o *Orchestrator) SubmitProfile(ctx context.Context, profile types.UserProfile) error {
	o.lock()
	if o.state != CollectingProfile {
		defer o.unlock()
		return o.refuse("submit profile")
	}

	profile = profile.Clone()
	profile.Normalize()
	if err := profile.Validate(o.policy); err != nil {
		defer o.unlock()
		return &ValidationError{Field: "profile", Message: err.Error(), Cause: err}
	}

	o.profile = &profile
	o.transition(GeneratingQuestions, "profile accepted")
	gen := o.generation
	request := profile.Clone()
	o.unlock()

	start := time.Now()
	questions, err := o.questionGen.Generate(ctx, request)
	elapsed := time.Since(start)

	o.lock()
	defer o.unlock()

	if o.generation != gen {
		return o.stale(serviceQuestions, elapsed)
	}
	if err != nil {
		o.metrics.ServiceCall(serviceQuestions, metrics.OutcomeFailure, elapsed)
		return o.fail(failureQuestions, fmt.Sprintf("question generation failed: %v", err), err)
	}
	if len(questions) == 0 {
		o.metrics.ServiceCall(serviceQuestions, metrics.OutcomeFailure, elapsed)
		return o.fail(failureEmpty, MsgNoQuestions, nil)
	}
	if errs := types.ValidateAnswerable(questions); len(errs) > 0 {
		o.metrics.ServiceCall(serviceQuestions, metrics.OutcomeFailure, elapsed)
		joined := errors.Join(errs...)
		return o.fail(failureQuestions, fmt.Sprintf("generation produced unanswerable questions: %v", errs[0]), joined)
	}
	o.metrics.ServiceCall(serviceQuestions, metrics.OutcomeSuccess, elapsed)
	if drift := types.ValidateQuestionSet(questions); len(drift) > 0 {
		o.logger.Warn("questions drift from the taxonomy, their answers will not be scored",
			zap.Int("count", len(drift)),
			zap.Error(errors.Join(drift...)))
	}

	o.questions = cloneQuestions(questions)
	o.answers = make(map[int]int, len(questions))
	o.current = 0
	o.transition(Testing, fmt.Sprintf("%d questions ready", len(questions)))
	return nil
}

// QuestionView is the question at the cursor plus navigation context
type QuestionView struct {
	Index    int            `json:"index"`
	Total    int            `json:"total"`
	Answered int            `json:"answered"`
	Question types.Question `json:"question"`
	// Answer is the previously selected value, nil when unanswered.
	Answer *int `json:"answer,omitempty"`
}

// CurrentQuestion returns the question at the cursor.
func (o *Orchestrator) CurrentQuestion() (QuestionView, error) {
	o.lock()
	defer o.unlock()

	if o.state != Testing {
		return QuestionView{}, o.refuse("show question")
	}
	return o.questionView(), nil
}

// Answer records value for a question, replacing any earlier answer.
func (o *Orchestrator) Answer(questionID, value int) error {
	o.lock()
	defer o.unlock()

	if o.state != Testing {
		return o.refuse("answer")
	}
	q, ok := o.findQuestion(questionID)
	if !ok {
		return &ValidationError{Field: "question_id", Message: fmt.Sprintf("unknown question %d", questionID)}
	}
	if !q.HasOptionValue(value) {
		return &ValidationError{Field: "value", Message: fmt.Sprintf("%d is not an option of question %d", value, questionID)}
	}
	o.answers[questionID] = value
	return nil
}

// Next moves the cursor forward.
func (o *Orchestrator) Next() error {
	return o.move("next", func(i int) int { return i + 1 })
}

// Previous moves the cursor back.
func (o *Orchestrator) Previous() error {
	return o.move("go back", func(i int) int { return i - 1 })
}

// GoTo moves the cursor to a zero-based index.
func (o *Orchestrator) GoTo(index int) error {
	return o.move("navigate", func(int) int { return index })
}

func (o *Orchestrator) move(action string, step func(int) int) error {
	o.lock()
	defer o.unlock()

	if o.state != Testing {
		return o.refuse(action)
	}
	next := step(o.current)
	if next < 0 || next >= len(o.questions) {
		return &ValidationError{
			Field:   "index",
			Message: fmt.Sprintf("question %d is outside 1-%d", next+1, len(o.questions)),
		}
	}
	o.current = next
	return nil
}

// Complete scores the answers, checkpoints them and generates the report.
// Every question must be answered first. When report generation fails the
// checkpoint stays in the cache and the machine returns to Idle.
func (o *Orchestrator) Complete(ctx context.Context) error {
	o.lock()
	if o.state != Testing {
		defer o.unlock()
		return o.refuse("complete")
	}
	if len(o.answers) != len(o.questions) {
		defer o.unlock()
		return &ValidationError{
			Field:   "answers",
			Message: fmt.Sprintf("%d of %d questions answered", len(o.answers), len(o.questions)),
		}
	}

	o.transition(Scoring, "all questions answered")
	answers := make([]types.Answer, 0, len(o.questions))
	for _, q := range o.questions {
		answers = append(answers, types.Answer{QuestionID: q.ID, Value: o.answers[q.ID]})
	}
	o.raw = scoring.Aggregate(answers, o.questions)

	if err := o.store.SaveCheckpoint(ctx, *o.profile, o.raw); err != nil {
		defer o.unlock()
		return o.fail(failurePersist, fmt.Sprintf("failed to save results: %v", err), err)
	}

	o.transition(GeneratingReport, "scores checkpointed")
	gen := o.generation
	raw := o.raw.Clone()
	profile := o.profile.Clone()
	o.unlock()

	start := time.Now()
	report, err := o.reportGen.Generate(ctx, raw, profile)
	elapsed := time.Since(start)

	o.lock()
	defer o.unlock()

	if o.generation != gen {
		return o.stale(serviceReport, elapsed)
	}
	if err == nil && report == nil {
		err = errors.New("empty report")
	}
	if err == nil {
		err = checkReport(report, raw)
	}
	if err != nil {
		o.metrics.ServiceCall(serviceReport, metrics.OutcomeFailure, elapsed)
		return o.fail(failureReport, fmt.Sprintf("report generation failed: %v", err), err)
	}
	o.metrics.ServiceCall(serviceReport, metrics.OutcomeSuccess, elapsed)

	if err := o.store.SaveReport(ctx, report); err != nil {
		return o.fail(failurePersist, fmt.Sprintf("failed to save report: %v", err), err)
	}

	o.report = report.Clone()
	o.transition(ReportReady, "report ready")
	return nil
}

func checkReport(report *types.ReportData, raw types.RawScores) error {
	if err := report.Validate(); err != nil {
		return err
	}
	return report.ValidateAlignment(raw)
}

// Scores returns the normalized scores of the finished attempt.
func (o *Orchestrator) Scores() (types.Scores, error) {
	o.lock()
	defer o.unlock()

	if o.state != ReportReady {
		return nil, o.refuse("show scores")
	}
	return scoring.Normalize(o.raw, o.limits), nil
}

// Report returns a copy of the finished attempt's report.
func (o *Orchestrator) Report() (*types.ReportData, error) {
	o.lock()
	defer o.unlock()

	if o.state != ReportReady {
		return nil, o.refuse("show report")
	}
	return o.report.Clone(), nil
}

// View is a read-only copy of the orchestrator's state
type View struct {
	State      State              `json:"state"`
	AttemptID  string             `json:"attempt_id,omitempty"`
	Generation uint64             `json:"generation"`
	Error      string             `json:"error,omitempty"`
	Profile    *types.UserProfile `json:"profile,omitempty"`
	Questions  int                `json:"questions"`
	Answered   int                `json:"answered"`
	Current    int                `json:"current"`
	RawScores  types.RawScores    `json:"raw_scores,omitempty"`
	Scores     types.Scores       `json:"scores,omitempty"`
	Report     *types.ReportData  `json:"report,omitempty"`
}

// Snapshot returns the current view. Error holds the message of the most
// recent failure until the next attempt starts.
func (o *Orchestrator) Snapshot() View {
	o.lock()
	defer o.unlock()

	v := View{
		State:      o.state,
		AttemptID:  o.attemptID,
		Generation: o.generation,
		Error:      o.lastError,
		Questions:  len(o.questions),
		Answered:   len(o.answers),
		Current:    o.current,
	}
	if o.profile != nil {
		p := o.profile.Clone()
		v.Profile = &p
	}
	if o.state == ReportReady {
		v.RawScores = o.raw.Clone()
		v.Scores = scoring.Normalize(o.raw, o.limits)
		v.Report = o.report.Clone()
	}
	return v
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.lock()
	defer o.unlock()
	return o.state
}

func (o *Orchestrator) lock() {
	o.mu.Lock()
}

// unlock releases the mutex and then delivers queued transition events.
func (o *Orchestrator) unlock() {
	events := o.pending
	o.pending = nil
	o.mu.Unlock()

	if o.onEvent == nil {
		return
	}
	for _, ev := range events {
		o.onEvent(ev)
	}
}

// reset drops every trace of the current attempt and opens a new generation.
func (o *Orchestrator) reset() {
	o.generation++
	o.attemptID = uuid.NewString()
	o.lastError = ""
	o.profile = nil
	o.questions = nil
	o.answers = nil
	o.current = 0
	o.raw = nil
	o.report = nil
}

func (o *Orchestrator) transition(to State, reason string) {
	ev := Transition{
		From:       o.state,
		To:         to,
		Reason:     reason,
		AttemptID:  o.attemptID,
		Generation: o.generation,
		At:         o.clock(),
	}
	o.state = to
	o.pending = append(o.pending, ev)
	o.metrics.Transition(ev.From.String(), ev.To.String())
	o.logger.Info("assessment transition",
		zap.Stringer("from", ev.From),
		zap.Stringer("to", ev.To),
		zap.String("reason", reason),
		zap.String("attempt_id", ev.AttemptID),
		zap.Uint64("generation", ev.Generation),
	)
}

// fail passes through Failed back to Idle and returns the user-facing error.
func (o *Orchestrator) fail(kind, message string, cause error) error {
	o.metrics.Failure(kind)
	o.logger.Warn("assessment failed",
		zap.String("kind", kind),
		zap.String("attempt_id", o.attemptID),
		zap.Error(cause),
	)
	o.transition(Failed, message)
	o.reset()
	o.lastError = message
	o.transition(Idle, message)
	return &GenerationError{Message: message, Cause: cause}
}

func (o *Orchestrator) stale(service string, elapsed time.Duration) error {
	o.metrics.ServiceCall(service, metrics.OutcomeStale, elapsed)
	o.metrics.StaleResponse()
	o.logger.Debug("discarding stale response", zap.String("service", service))
	return ErrStaleResponse
}

func (o *Orchestrator) refuse(action string) error {
	return &TransitionError{State: o.state, Action: action}
}

func (o *Orchestrator) findQuestion(id int) (*types.Question, bool) {
	for i := range o.questions {
		if o.questions[i].ID == id {
			return &o.questions[i], true
		}
	}
	return nil, false
}

func (o *Orchestrator) questionView() QuestionView {
	q := o.questions[o.current]
	view := QuestionView{
		Index:    o.current,
		Total:    len(o.questions),
		Answered: len(o.answers),
		Question: cloneQuestions([]types.Question{q})[0],
	}
	if v, ok := o.answers[q.ID]; ok {
		view.Answer = &v
	}
	return view
}

func cloneQuestions(in []types.Question) []types.Question {
	out := make([]types.Question, len(in))
	for i, q := range in {
		q.Options = append([]types.Option(nil), q.Options...)
		out[i] = q
	}
	return out
}
