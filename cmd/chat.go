package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kfreiman/interviewprep/internal/coach"
	"github.com/kfreiman/interviewprep/internal/gateway"
	"github.com/kfreiman/interviewprep/internal/interpret"
	"github.com/kfreiman/interviewprep/internal/safety"
	"github.com/kfreiman/interviewprep/internal/session"
	"github.com/kfreiman/interviewprep/internal/storage"
)

// Flags shared by chat and prompt
var (
	profilePath string
	flagProfile session.Profile
)

func addConfigFlags(flags *pflag.FlagSet) {
	flags.StringVar(&profilePath, "profile", "", "YAML interview profile (flags override its values)")
	flags.StringVar(&flagProfile.Role, "role", "", "Target role, e.g. 'Backend Developer' or backend-developer")
	flags.StringVar(&flagProfile.Level, "level", "", "Seniority: junior, mid, senior")
	flags.StringVar(&flagProfile.Domain, "domain", "", "Industry focus, e.g. finance or tech-startup")
	flags.StringVar(&flagProfile.Tone, "tone", "", "Interviewer tone: friendly, professional, strict")
	flags.StringVar(&flagProfile.Technique, "technique", "", "Prompt technique, e.g. chain-of-thought or structured-json")
	flags.StringVar(&flagProfile.Model, "model", "", "Model id, e.g. gpt-4o-mini")
	flags.Float64("temperature", 0, "Sampling temperature [0,2]")
	flags.Int("max-tokens", 0, "Maximum reply tokens [200,2000]")
	flags.Float64("top-p", 0, "Nucleus sampling [0,1]")
	flags.Float64("frequency-penalty", 0, "Frequency penalty [-2,2]")
	flags.Float64("presence-penalty", 0, "Presence penalty [-2,2]")
}

// interviewConfig merges defaults, the optional profile file and explicitly set flags
func interviewConfig(flags *pflag.FlagSet, defaults session.Config) (session.Config, error) {
	base := defaults
	if profilePath != "" {
		cfg, err := session.LoadProfile(profilePath)
		if err != nil {
			return session.Config{}, err
		}
		base = cfg
	}

	p := flagProfile
	if v, err := flags.GetFloat64("temperature"); err == nil && flags.Changed("temperature") {
		p.Sampling.Temperature = &v
	}
	if v, err := flags.GetInt("max-tokens"); err == nil && flags.Changed("max-tokens") {
		p.Sampling.MaxTokens = &v
	}
	if v, err := flags.GetFloat64("top-p"); err == nil && flags.Changed("top-p") {
		p.Sampling.TopP = &v
	}
	if v, err := flags.GetFloat64("frequency-penalty"); err == nil && flags.Changed("frequency-penalty") {
		p.Sampling.FrequencyPenalty = &v
	}
	if v, err := flags.GetFloat64("presence-penalty"); err == nil && flags.Changed("presence-penalty") {
		p.Sampling.PresencePenalty = &v
	}
	return p.Apply(base)
}

// chatSession is a single terminal interview
type chatSession struct {
	coach    *coach.Coach
	exporter *storage.Exporter
	state    session.State
	timeout  time.Duration
	out      io.Writer
}

const chatHelp = `Commands:
  /stats              show running statistics
  /export             write the session as JSON
  /reset              start over with the same configuration
  /config             show the current configuration
  /set <field> <val>  change role, level, domain, tone, technique or model
  /help               show this help
  /quit               end the interview`

// handle processes one line of input and reports whether the interview should end
func (c *chatSession) handle(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "/") {
		return c.command(ctx, trimmed)
	}

	turnCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		turnCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	next, outcome, err := c.coach.Submit(turnCtx, c.state, line)
	if err != nil {
		c.printError(err)
		return false
	}
	c.state = next

	fmt.Fprintf(c.out, "\nInterviewer:\n%s\n", outcome.Reply)
	if outcome.ClassifierErr != nil {
		fmt.Fprintln(c.out, "(content moderation was unavailable for this answer)")
	}
	if c.state.Scored() {
		fmt.Fprintf(c.out, "\n[average %.1f/10 over %d scored answers]\n", c.state.AverageScore(), len(c.state.ResponseScores))
	}
	return false
}

func (c *chatSession) command(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		c.printStats()
		return true
	case "/stats":
		c.printStats()
	case "/export":
		path, err := c.exporter.Save(ctx, c.state.Export(c.coach.Now()))
		if err != nil {
			c.printError(err)
			return false
		}
		fmt.Fprintf(c.out, "Session exported to %s\n", path)
	case "/reset":
		c.state = c.coach.Start(c.state.Config)
		fmt.Fprintf(c.out, "\nInterview reset.\n\n%s\n", c.state.Turns[0].Text)
	case "/config":
		cfg := c.state.Config
		fmt.Fprintf(c.out, "Role: %s %s | Domain: %s | Tone: %s | Technique: %s | Model: %s\n",
			cfg.Level, cfg.Role, cfg.Domain, cfg.Tone, cfg.Technique, cfg.ModelID)
	case "/set":
		if len(fields) < 3 {
			fmt.Fprintln(c.out, "usage: /set <field> <value>")
			return false
		}
		c.set(fields[1], strings.Join(fields[2:], " "))
	case "/help":
		fmt.Fprintln(c.out, chatHelp)
	default:
		fmt.Fprintf(c.out, "Unknown command %s\n%s\n", fields[0], chatHelp)
	}
	return false
}

func (c *chatSession) set(field, value string) {
	var p session.Profile
	switch field {
	case "role":
		p.Role = value
	case "level":
		p.Level = value
	case "domain":
		p.Domain = value
	case "tone":
		p.Tone = value
	case "technique":
		p.Technique = value
	case "model":
		p.Model = value
	default:
		fmt.Fprintf(c.out, "Unknown field %q\n", field)
		return
	}

	cfg, err := p.Apply(c.state.Config)
	if err != nil {
		c.printError(err)
		return
	}
	c.state.Config = cfg
	fmt.Fprintf(c.out, "%s set to %s. It applies from your next answer.\n", field, value)
}

func (c *chatSession) printStats() {
	s := c.state.Summarize(c.coach.Now())
	fmt.Fprintf(c.out, "\nQuestions: %d | Scored: %d | Average: %s/10 | Duration: %s | Tokens: ~%d | Cost: ~$%.4f\n",
		s.QuestionCount, s.ScoredAnswers, interpret.FormatScore(s.AverageScore), s.Duration,
		s.TotalEstimatedTokens, s.TotalEstimatedCost)
}

func (c *chatSession) printError(err error) {
	var (
		rejected *safety.RejectedInputError
		gwErr    *gateway.GatewayError
		invalid  *session.ValidationError
	)
	switch {
	case errors.As(err, &rejected):
		fmt.Fprintln(c.out, rejected.UserMessage())
	case errors.As(err, &gwErr):
		fmt.Fprintf(c.out, "The interviewer is unavailable (%v). Your answer was not recorded; try again.\n", gwErr)
	case errors.As(err, &invalid):
		fmt.Fprintln(c.out, invalid.Error())
	default:
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
}

// run reads answers until EOF or /quit
func (c *chatSession) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(c.out, "%s\n\n(type /help for commands)\n", c.state.Turns[0].Text)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(c.out, "\nYou: ")
		if !scanner.Scan() {
			c.printStats()
			return scanner.Err()
		}
		if c.handle(ctx, scanner.Text()) {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run an interactive mock interview in the terminal",
	Long: `Run an interactive mock interview in the terminal.

Examples:
  interviewprep chat --role data-scientist --level senior --technique chain-of-thought
  interviewprep chat --profile profiles/backend.yaml --tone strict`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		cfg, logger, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		interview, err := interviewConfig(cmd.Flags(), defaultInterview(cfg))
		if err != nil {
			return err
		}

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(context.Background()); err != nil {
				logger.WarnContext(ctx, "shutdown incomplete", "error", err)
			}
		}()

		chat := &chatSession{
			coach:    a.coach,
			exporter: a.exporter,
			state:    a.coach.Start(interview),
			timeout:  cfg.RequestTimeout,
			out:      cmd.OutOrStdout(),
		}
		return chat.run(ctx, cmd.InOrStdin())
	},
}

func init() {
	addConfigFlags(chatCmd.Flags())
	rootCmd.AddCommand(chatCmd)
}
