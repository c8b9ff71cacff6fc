// cmd/tools/lead-score/main.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"taxrefund-workers/internal/questionnaire"
)

var stepNames = []string{
	"marital status",
	"employment status",
	"income",
	"job history",
	"additional criteria",
	"contact details",
}

type options struct {
	jsonOut     bool
	gate        string
	noSeverance bool
	summary     bool
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:   "lead-score <answers.yaml|answers.json>",
		Short: "Score a tax-refund questionnaire answer file",
		Long: `lead-score reads an answer set and prints the score breakdown, the lead tier,
both eligibility gates and the completeness of every questionnaire step.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := loadAnswers(args[0])
			if err != nil {
				return err
			}
			policy, err := opts.policy()
			if err != nil {
				return err
			}
			return report(out, answers, policy, opts)
		},
	}
	root.Flags().BoolVar(&opts.jsonOut, "json", false, "output JSON")
	root.Flags().StringVar(&opts.gate, "employment-gate", string(questionnaire.EmploymentGateStrict), "employment gate (strict, lenient)")
	root.Flags().BoolVar(&opts.noSeverance, "no-severance", false, "do not require the severance pay answer")
	root.Flags().BoolVar(&opts.summary, "summary", false, "also print the lead message")

	root.AddCommand(newCriteriaCmd(out))
	return root
}

func newCriteriaCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "criteria",
		Short: "List the additional criteria codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := table.NewWriter()
			tw.SetOutputMirror(out)
			tw.AppendHeader(table.Row{"Code", "Label", "Qualifies Below 7000"})
			for _, c := range questionnaire.CriteriaVocabulary {
				tw.AppendRow(table.Row{c, c.Label(), questionnaire.IsQualifyingLowIncomeCriterion(c)})
			}
			tw.Render()
			return nil
		},
	}
}

func (o options) policy() (questionnaire.Policy, error) {
	gate := questionnaire.EmploymentGate(strings.ToLower(o.gate))
	if gate != questionnaire.EmploymentGateStrict && gate != questionnaire.EmploymentGateLenient {
		return questionnaire.Policy{}, fmt.Errorf("unknown employment gate %q", o.gate)
	}
	return questionnaire.Policy{EmploymentGate: gate, AskSeverancePay: !o.noSeverance}, nil
}

// loadAnswers decodes JSON by extension and YAML otherwise.
func loadAnswers(path string) (questionnaire.AnswerSet, error) {
	var answers questionnaire.AnswerSet

	data, err := os.ReadFile(path)
	if err != nil {
		return answers, fmt.Errorf("read answers: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &answers)
	} else {
		err = yaml.Unmarshal(data, &answers)
	}
	if err != nil {
		return answers, fmt.Errorf("decode %s: %w", path, err)
	}
	return answers, nil
}

type stepReport struct {
	Step     int                        `json:"step"`
	Name     string                     `json:"name"`
	Complete bool                       `json:"complete"`
	Errors   []questionnaire.FieldError `json:"errors,omitempty"`
}

type gateReport struct {
	Gate    string                    `json:"gate"`
	Blocked bool                      `json:"blocked"`
	Reason  questionnaire.BlockReason `json:"reason"`
}

type fullReport struct {
	Policy  questionnaire.Policy      `json:"policy"`
	Score   questionnaire.ScoreResult `json:"score"`
	Gates   []gateReport              `json:"gates"`
	Steps   []stepReport              `json:"steps"`
	Summary *questionnaire.Summary    `json:"summary,omitempty"`
}

func buildReport(answers questionnaire.AnswerSet, policy questionnaire.Policy, withSummary bool) fullReport {
	score := policy.Score(answers)

	employment := policy.EmploymentBlocksProgress(answers.EmploymentStatus)
	eligibility := gateReport{Gate: "eligibility", Reason: questionnaire.BlockNone}
	if !questionnaire.IsEligible(answers) {
		eligibility.Blocked = true
		eligibility.Reason = questionnaire.BlockNotEligible
	}

	r := fullReport{
		Policy: policy,
		Score:  score,
		Gates: []gateReport{
			{Gate: "employment", Blocked: employment.Blocked, Reason: employment.Reason},
			eligibility,
		},
	}
	for step := questionnaire.StepMaritalStatus; step < questionnaire.StepCount; step++ {
		errs := policy.StepErrors(step, answers)
		r.Steps = append(r.Steps, stepReport{Step: step, Name: stepNames[step], Complete: len(errs) == 0, Errors: errs})
	}
	if withSummary {
		s := questionnaire.FormatSummary(answers, score)
		r.Summary = &s
	}
	return r
}

func report(out io.Writer, answers questionnaire.AnswerSet, policy questionnaire.Policy, opts options) error {
	r := buildReport(answers, policy, opts.summary)

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetTitle("Score")
	tw.AppendHeader(table.Row{"Field", "Value", "Label", "Points"})
	for _, c := range r.Score.Breakdown {
		tw.AppendRow(table.Row{c.Field, c.Value, c.Label, c.Points})
	}
	tw.AppendFooter(table.Row{"", "", string(r.Score.Tier), r.Score.TotalScore})
	tw.Render()

	gw := table.NewWriter()
	gw.SetOutputMirror(out)
	gw.SetTitle("Gates (" + string(policy.EmploymentGate) + ")")
	gw.AppendHeader(table.Row{"Gate", "Blocked", "Reason"})
	for _, g := range r.Gates {
		gw.AppendRow(table.Row{g.Gate, g.Blocked, g.Reason})
	}
	gw.Render()

	sw := table.NewWriter()
	sw.SetOutputMirror(out)
	sw.SetTitle("Steps")
	sw.AppendHeader(table.Row{"#", "Step", "Complete", "Errors"})
	for _, s := range r.Steps {
		msgs := make([]string, 0, len(s.Errors))
		for _, fe := range s.Errors {
			msgs = append(msgs, fe.Field+" "+fe.Code)
		}
		sw.AppendRow(table.Row{s.Step, s.Name, s.Complete, strings.Join(msgs, "\n")})
	}
	sw.Render()

	if r.Summary != nil {
		fmt.Fprintf(out, "\n%s\n\n%s", r.Summary.Subject, r.Summary.Body)
	}
	return nil
}
