package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cwsops/liveperson-cli/internal/api"
	"github.com/cwsops/liveperson-cli/internal/dryrun"
	"github.com/cwsops/liveperson-cli/internal/iocontext"
	"github.com/cwsops/liveperson-cli/internal/outfmt"
	"github.com/cwsops/liveperson-cli/internal/timeexpr"
	"github.com/cwsops/liveperson-cli/internal/validation"
)

// getClient creates an API client for the selected profile.
func getClient() (*api.Client, error) {
	return newClientFactory().client()
}

func newTabWriter(cmd *cobra.Command) *tabwriter.Writer {
	return tabwriter.NewWriter(iocontext.GetIO(cmd.Context()).Out, 0, 4, 2, ' ', 0)
}

// isJSON checks if the command context wants JSON output
func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context())
}

// printJSON outputs data as JSON with optional query/template filtering.
func printJSON(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut).Output(v)
}

// printResult writes a call result. A failed Result becomes the command
// error. JSON modes print the raw body; text mode uses render, or indented
// JSON when render is nil.
func printResult(cmd *cobra.Command, res api.Result, render func(api.Result) error) error {
	if !res.OK() {
		return res.Err
	}
	if isJSON(cmd) {
		return printJSON(cmd, res.Body)
	}
	if render != nil {
		return render(res)
	}
	if len(res.Body) == 0 {
		_, _ = fmt.Fprintln(iocontext.GetIO(cmd.Context()).ErrOut, "No data returned.")
		return nil
	}
	return outfmt.WriteJSON(iocontext.GetIO(cmd.Context()).Out, res.Body)
}

// maybeDryRun prints preview and reports true when --dry-run is set.
func maybeDryRun(cmd *cobra.Command, preview *dryrun.Preview) (bool, error) {
	if !dryrun.IsEnabled(cmd.Context()) {
		return false, nil
	}
	if isJSON(cmd) {
		return true, printJSON(cmd, preview.Payload())
	}
	preview.Write(iocontext.GetIO(cmd.Context()).Out)
	return true, nil
}

// errAlreadyHandled is a sentinel error indicating the error was already printed to stderr.
// Commands using RunE return this to signal Cobra that an error occurred (for exit code)
// without Cobra printing it again (since SilenceErrors is true on root command).
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() error {
	return errAlreadyHandled
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		errOut := iocontext.GetIO(cmd.Context()).ErrOut
		if isJSON(cmd) {
			_ = outfmt.WriteJSON(errOut, structuredError(err))
		} else {
			_, _ = fmt.Fprint(errOut, HandleError(err))
		}
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}

// aliasBridgeValue marks the canonical flag as changed when its alias is set.
type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// aliasBridgeSliceValue also forwards pflag.SliceValue for slice flags.
type aliasBridgeSliceValue struct {
	aliasBridgeValue
	slice pflag.SliceValue
}

func (v *aliasBridgeSliceValue) Append(s string) error     { return v.slice.Append(s) }
func (v *aliasBridgeSliceValue) Replace(ss []string) error { return v.slice.Replace(ss) }
func (v *aliasBridgeSliceValue) GetSlice() []string        { return v.slice.GetSlice() }

// flagAlias registers a hidden alias sharing the named flag's value.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	bridge := &aliasBridgeValue{Value: f.Value, canonical: f}
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		a.Value = &aliasBridgeSliceValue{aliasBridgeValue: *bridge, slice: sv}
	} else {
		a.Value = bridge
	}
	// The alias is never independently required.
	newAnn := map[string][]string{"alias-of": {name}}
	for k, v := range f.Annotations {
		if k == cobra.BashCompOneRequiredFlag {
			continue
		}
		newAnn[k] = v
	}
	a.Annotations = newAnn
	fs.AddFlag(&a)
}

// flagOrAliasChanged returns true if the named flag or any of its
// hidden aliases was explicitly set by the user.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) || cmd.InheritedFlags().Changed(name) {
		return true
	}

	aliasChanged := func(fs *pflag.FlagSet) bool {
		found := false
		fs.VisitAll(func(f *pflag.Flag) {
			if found {
				return
			}
			if ann, ok := f.Annotations["alias-of"]; ok && len(ann) > 0 && ann[0] == name && fs.Changed(f.Name) {
				found = true
			}
		})
		return found
	}

	return aliasChanged(cmd.Flags()) || aliasChanged(cmd.InheritedFlags())
}

// parseIDsFlag parses a comma separated id list flag.
func parseIDsFlag(value, field string) ([]string, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	return validation.ParseIDList(value, field)
}

// parseTimeFlag accepts RFC 3339 timestamps, YYYY-MM-DD dates, unix
// milliseconds, a duration meaning "that long ago" (e.g. 24h), or a
// relative expression such as "yesterday" or "3d ago".
func parseTimeFlag(value, field string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return t, nil
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms), nil
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return now.Add(-d), nil
	}
	if t, err := timeexpr.ParsePast(value, now); err == nil {
		return t, nil
	}
	return time.Time{}, &validation.ArgumentError{
		Field:  field,
		Value:  value,
		Reason: "must be RFC 3339, YYYY-MM-DD, unix milliseconds, a duration like 24h, or e.g. \"yesterday\", \"3d ago\"",
	}
}

// intervalFlag returns a pointer to the interval when the flag was set.
func intervalFlag(cmd *cobra.Command, value int) *int {
	if !cmd.Flags().Changed("interval") {
		return nil
	}
	return &value
}

// metricsFlags are shared by the real-time metrics commands.
type metricsFlags struct {
	timeframe int
	interval  int
	agents    string
	skills    string
}

func (m *metricsFlags) register(cmd *cobra.Command, withAgents bool) {
	cmd.Flags().IntVar(&m.timeframe, "timeframe", api.DefaultTimeframe, "Window in minutes (0-1440)")
	cmd.Flags().IntVar(&m.interval, "interval", 0, "Breakdown interval in minutes; must divide the timeframe")
	cmd.Flags().StringVar(&m.skills, "skills", "", "Comma separated skill ids (default: all)")
	flagAlias(cmd.Flags(), "timeframe", "tf")
	if withAgents {
		cmd.Flags().StringVar(&m.agents, "agents", "", "Comma separated agent ids (default: all)")
	}
}

func (m *metricsFlags) query(cmd *cobra.Command) (api.MetricsQuery, error) {
	q := api.MetricsQuery{
		Timeframe: m.timeframe,
		Interval:  intervalFlag(cmd, m.interval),
	}
	var err error
	if q.SkillIDs, err = parseIDsFlag(m.skills, "skills"); err != nil {
		return q, err
	}
	if q.AgentIDs, err = parseIDsFlag(m.agents, "agents"); err != nil {
		return q, err
	}
	return q, nil
}

// decodeObject is a render helper for text output of JSON objects.
func decodeObject(res api.Result) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(res.Body, &m); err != nil {
		return nil, fmt.Errorf("unexpected response shape: %w", err)
	}
	return m, nil
}
