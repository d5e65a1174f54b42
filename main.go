// shuttle moves help-center content between Desk and Transifex.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/decred/slog"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/minios-linux/shuttle/config"
	"github.com/minios-linux/shuttle/desk"
	"github.com/minios-linux/shuttle/i18n"
	"github.com/minios-linux/shuttle/rest"
	"github.com/minios-linux/shuttle/settings"
	"github.com/minios-linux/shuttle/syncer"
	"github.com/minios-linux/shuttle/transifex"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	blue   = color.New(color.FgBlue)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow, color.Bold)
	red    = color.New(color.FgRed)
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", blue.Sprint("[INFO]"), fmt.Sprintf(format, args...))
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", green.Sprint("[OK]"), fmt.Sprintf(format, args...))
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", yellow.Sprint("[WARN]"), fmt.Sprintf(format, args...))
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", red.Sprint("[ERROR]"), fmt.Sprintf(format, args...))
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	configPath string
	logLevel   string
)

// setupLogging hands every package a subsystem logger on one stderr backend.
func setupLogging(w io.Writer, level string) error {
	lvl, ok := slog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("unknown log level %q (want trace, debug, info, warn, error, critical or off)", level)
	}
	backend := slog.NewBackend(w)
	subsystems := []struct {
		tag     string
		use     func(slog.Logger)
		disable func()
	}{
		{"SYNC", syncer.UseLogger, syncer.DisableLog},
		{"TXFX", transifex.UseLogger, transifex.DisableLog},
		{"DESK", desk.UseLogger, desk.DisableLog},
		{"HTTP", rest.UseLogger, rest.DisableLog},
	}
	for _, s := range subsystems {
		if lvl == slog.LevelOff {
			s.disable()
			continue
		}
		logger := backend.Logger(s.tag)
		logger.SetLevel(lvl)
		s.use(logger)
	}
	return nil
}

// ---------------------------------------------------------------------------
// --types flag
// ---------------------------------------------------------------------------

// kindsFlag collects --types values. It accepts repeated flags and comma
// lists; "all" expands to every kind in run order.
type kindsFlag struct {
	kinds []syncer.Kind
}

var _ pflag.Value = (*kindsFlag)(nil)

func (f *kindsFlag) String() string {
	s := make([]string, len(f.kinds))
	for i, k := range f.kinds {
		s[i] = string(k)
	}
	return strings.Join(s, ",")
}

func (f *kindsFlag) Set(value string) error {
	for _, v := range config.SplitList(value) {
		k, err := syncer.ParseKind(v)
		if err != nil {
			return err
		}
		for _, e := range k.Expand() {
			if !f.has(e) {
				f.kinds = append(f.kinds, e)
			}
		}
	}
	return nil
}

func (f *kindsFlag) Type() string {
	return "types"
}

func (f *kindsFlag) has(k syncer.Kind) bool {
	for _, have := range f.kinds {
		if have == k {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Root command (sync)
// ---------------------------------------------------------------------------

type syncArgs struct {
	types     kindsFlag
	push      bool
	pull      bool
	locales   string
	resources string
	force     bool
}

func newRootCmd() *cobra.Command {
	var a syncArgs

	root := &cobra.Command{
		Use:   "shuttle",
		Short: "Move help-center content between Desk and Transifex",
		Long: `shuttle: move help-center content between Desk and Transifex.

Push sends topic names and tutorial articles from Desk to Transifex. Pull
writes fully translated content back to Desk as locale translations.

Types:
  topics             Topic names, one catalog resource for all topics
  tutorials          Articles, one resource per article in per-locale projects
  english_topics     Copy topic source fields into English translations (pull only)
  english_tutorials  Copy article source fields into English translations (pull only)
  all                Every type above, in that order

Examples:
  shuttle --types topics --push
  shuttle -t tutorials --pull --locales es,fr_CA
  shuttle -t tutorials --push --resources 1234,5678 --force
  shuttle -t all --push --pull`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(os.Stderr, logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), a)
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.FileName, "Path to the config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: trace, debug, info, warn, error")

	f := root.Flags()
	f.VarP(&a.types, "types", "t", "Types of content to sync: topics, tutorials, english_topics, english_tutorials, all")
	f.BoolVar(&a.push, "push", false, "Push content from Desk to Transifex")
	f.BoolVar(&a.pull, "pull", false, "Pull content from Transifex to Desk")
	f.StringVarP(&a.locales, "locales", "l", "", "Comma delimited list of locales to process (overrides the config file)")
	f.StringVarP(&a.resources, "resources", "r", "", "Comma delimited list of Desk article ids to sync (tutorials only)")
	f.BoolVar(&a.force, "force", false, "Always push tutorials to Transifex even if not out of date")
	_ = root.RegisterFlagCompletionFunc("types", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		out := []string{string(syncer.All)}
		for _, k := range syncer.AllKinds {
			out = append(out, string(k))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(
		newStatusCmd(),
		newInitCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logError("%v", err)
		stop()
		os.Exit(1)
	}
}

// needsFor reports which config sections the selected kinds depend on.
func needsFor(kinds []syncer.Kind) config.Needs {
	needs := config.Needs{Desk: true}
	for _, k := range kinds {
		switch k {
		case syncer.Topics:
			needs.Topics = true
		case syncer.Tutorials:
			needs.Tutorials = true
		}
	}
	return needs
}

// loadConfig reads the config file and layers --locales, the environment
// and the credential store on top of it.
func loadConfig(needs config.Needs, locales string) (*config.File, error) {
	f, found, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if !found {
		logWarning(i18n.T("Config file %s not found, using environment and stored credentials"), configPath)
	}
	f.ApplyEnv(os.Getenv)
	f.ApplyCredentials(settings.Load())

	if override := config.SplitList(locales); len(override) > 0 {
		f.Locales = override
	}
	for _, w := range f.LocaleWarnings() {
		logWarning("%s", w)
	}
	if err := f.Validate(needs); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}
	return f, nil
}

// buildEnv connects the HTTP clients described by f.
func buildEnv(f *config.File, opts syncer.Options) syncer.Env {
	return syncer.Env{
		Desk: desk.NewClient(desk.Config{
			Sitename:   f.Desk.Sitename,
			User:       f.Desk.User,
			Password:   f.Desk.Password,
			BaseURL:    f.Desk.BaseURL,
			Proxy:      f.Proxy,
			Timeout:    f.Timeout,
			MaxRetries: f.MaxRetries,
		}),
		Transifex: transifex.NewHTTPClient(transifex.Config{
			Host:       f.Transifex.Host,
			Username:   f.Transifex.Username,
			Password:   f.Transifex.Password,
			Proxy:      f.Proxy,
			Timeout:    f.Timeout,
			MaxRetries: f.MaxRetries,
		}),
		Locales:              f.Locales,
		VendorMap:            f.VendorLocaleMap,
		TopicsProjectSlug:    f.TopicsProjectSlug,
		TutorialsProjectSlug: f.TutorialsProjectSlug,
		SourceLanguage:       f.SourceLanguage,
		Options:              opts,
	}
}

func runSync(ctx context.Context, a syncArgs) error {
	if len(a.types.kinds) == 0 {
		return errors.New(i18n.T("no content types selected, pass --types"))
	}
	if !a.push && !a.pull {
		logWarning("%s", i18n.T("Nothing to do: pass --push and/or --pull"))
		return nil
	}
	if a.resources != "" && !a.types.has(syncer.Tutorials) && !a.types.has(syncer.EnglishTutorials) {
		logWarning("--resources only applies to tutorials and english_tutorials")
	}

	f, err := loadConfig(needsFor(a.types.kinds), a.locales)
	if err != nil {
		return err
	}
	env := buildEnv(f, syncer.Options{
		Force:     a.force,
		Resources: config.SplitList(a.resources),
	})

	logInfo(i18n.T("Syncing %s for locales %s"), a.types.String(), strings.Join(f.Locales, ", "))
	res, err := syncer.Run(ctx, env, syncer.RunOptions{
		Kinds: a.types.kinds,
		Push:  a.push,
		Pull:  a.pull,
	})
	for _, d := range res.Done {
		logSuccess("%s", d)
	}
	if err != nil {
		return err
	}
	logSuccess(i18n.T("Run %s finished in %v"), res.ID, res.Finished.Sub(res.Started).Round(time.Millisecond))
	return nil
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("shuttle version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// init (write an example config)
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write an example config file",
		Long: `Write a commented example .shuttle.yaml to the --config path.

An existing file is never overwritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteExample(configPath); err != nil {
				return err
			}
			logSuccess(i18n.T("Wrote %s"), configPath)
			logInfo("Store passwords with 'shuttle auth set desk' and 'shuttle auth set transifex'")
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// status (read-only translation progress)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	var locales, resources string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show translation progress on Transifex",
		Long: `Show completion of the topics catalog and of the tutorial resources for
every enabled locale. Nothing is written to Desk or Transifex.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadConfig(config.Needs{}, locales)
			if err != nil {
				return err
			}
			env := buildEnv(f, syncer.Options{Resources: config.SplitList(resources)})
			rep, err := syncer.Status(cmd.Context(), env)
			if err != nil {
				return err
			}
			printReport(os.Stderr, rep)
			return nil
		},
	}

	cmd.Flags().StringVarP(&locales, "locales", "l", "", "Comma delimited list of locales to report (overrides the config file)")
	cmd.Flags().StringVarP(&resources, "resources", "r", "", "Comma delimited list of article ids to count")

	return cmd
}

// progressBar renders percent as a colored bar of width cells.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	c := red
	switch {
	case percent >= 100:
		c = green
	case percent >= 50:
		c = yellow
	}
	return c.Sprint(bar) + fmt.Sprintf(" %3d%%", percent)
}

// localeLabel appends the native language name, so "es" reads
// "es (español)". Unparsable locales are returned as given.
func localeLabel(l string) string {
	tag, err := language.Parse(strings.ReplaceAll(l, "_", "-"))
	if err != nil {
		return l
	}
	name := display.Self.Name(tag)
	if name == "" {
		return l
	}
	return fmt.Sprintf("%s (%s)", l, name)
}

func printReport(w io.Writer, rep *syncer.Report) {
	if rep.TopicsProject != "" {
		fmt.Fprintf(w, "\n%s\n", blue.Sprintf("Topics (%s)", rep.TopicsProject))
		fmt.Fprintln(w, strings.Repeat("─", 60))
		if !rep.TopicsPushed {
			fmt.Fprintf(w, "  %s\n", i18n.T("not pushed yet"))
		}
		for _, s := range rep.Topics {
			if !s.Present {
				fmt.Fprintf(w, "  %-28s %s\n", localeLabel(s.Locale), "-")
				continue
			}
			fmt.Fprintf(w, "  %-28s %s\n", localeLabel(s.Locale), progressBar(s.Percent, 20))
		}
	}

	if len(rep.Tutorials) > 0 {
		fmt.Fprintf(w, "\n%s\n", blue.Sprint("Tutorials"))
		fmt.Fprintln(w, strings.Repeat("─", 60))
		for _, s := range rep.Tutorials {
			if !s.HasProject {
				fmt.Fprintf(w, "  %-28s %s\n", localeLabel(s.Locale), i18n.T("no project"))
				continue
			}
			percent := 0
			if s.Total > 0 {
				percent = s.Complete * 100 / s.Total
			}
			fmt.Fprintf(w, "  %-28s %s  %s\n", localeLabel(s.Locale), progressBar(percent, 20),
				fmt.Sprintf(i18n.N("%d of %d resource complete", "%d of %d resources complete", s.Total), s.Complete, s.Total))
		}
	}
	fmt.Fprintln(w)
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage Desk and Transifex credentials",
		Long: `Manage the credentials shuttle uses for Desk and Transifex.

Credentials are stored in ` + "$XDG_DATA_HOME/shuttle/auth.json" + ` with 0600
permissions. Values in .shuttle.yaml and SHUTTLE_* environment variables
take precedence over stored ones.

Examples:
  shuttle auth set desk                Prompt for Desk credentials
  shuttle auth set transifex --user me --password secret
  shuttle auth remove desk             Remove Desk credentials
  shuttle auth remove                  Remove all credentials
  shuttle auth list                    Show stored credentials`,
	}

	cmd.AddCommand(
		newAuthSetCmd(),
		newAuthRemoveCmd(),
		newAuthListCmd(),
	)

	return cmd
}

func validService(name string) error {
	for _, s := range settings.Services {
		if s == name {
			return nil
		}
	}
	return fmt.Errorf("unknown service %q (want %s)", name, strings.Join(settings.Services, " or "))
}

func completeServices(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return settings.Services, cobra.ShellCompDirectiveNoFileComp
}

// prompt asks for a value on stderr, keeping current when the answer is
// empty.
func prompt(in *bufio.Scanner, label, current string, secret bool) string {
	switch {
	case current != "" && secret:
		fmt.Fprintf(os.Stderr, "  %s [%s]: ", label, yellow.Sprint(settings.MaskKey(current)))
	case current != "":
		fmt.Fprintf(os.Stderr, "  %s [%s]: ", label, current)
	default:
		fmt.Fprintf(os.Stderr, "  %s: ", label)
	}
	if !in.Scan() {
		return current
	}
	if v := strings.TrimSpace(in.Text()); v != "" {
		return v
	}
	return current
}

func newAuthSetCmd() *cobra.Command {
	var user, password, site string

	cmd := &cobra.Command{
		Use:               "set <desk|transifex>",
		Short:             "Store credentials for a service",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeServices,
		RunE: func(cmd *cobra.Command, args []string) error {
			service := args[0]
			if err := validService(service); err != nil {
				return err
			}

			cur := settings.Get(service)
			if cur == nil {
				cur = &settings.Info{}
			}
			if user == "" || password == "" {
				siteLabel := "Sitename"
				if service == settings.ServiceTransifex {
					siteLabel = "Host (empty for " + transifex.DefaultHost + ")"
				}
				fmt.Fprintf(os.Stderr, "\n%s\n", blue.Sprintf("%s credentials", service))
				fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
				in := bufio.NewScanner(cmd.InOrStdin())
				if user == "" {
					user = prompt(in, "Username", cur.Username, false)
				}
				if password == "" {
					password = prompt(in, "Password", cur.Password, true)
				}
				if site == "" {
					site = prompt(in, siteLabel, cur.Site, false)
				}
			}
			if user == "" || password == "" {
				return errors.New("username and password are required")
			}

			if err := settings.SetBasic(service, user, password, site); err != nil {
				return fmt.Errorf("saving credentials: %w", err)
			}
			logSuccess(i18n.T("%s credentials saved"), service)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password or API token")
	cmd.Flags().StringVar(&site, "site", "", "Desk sitename or Transifex host")

	return cmd
}

func newAuthRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "remove [desk|transifex]",
		Aliases:           []string{"logout"},
		Short:             "Remove stored credentials (all when no service is given)",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeServices,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				stored := settings.Load().Services()
				if err := settings.RemoveAll(); err != nil {
					return err
				}
				if len(stored) > 0 {
					logInfo("Removed: %s", strings.Join(stored, ", "))
				}
				logSuccess("%s", i18n.T("All stored credentials removed"))
				return nil
			}
			if err := validService(args[0]); err != nil {
				return err
			}
			if err := settings.Remove(args[0]); err != nil {
				return fmt.Errorf("removing %s credentials: %w", args[0], err)
			}
			logSuccess(i18n.T("%s credentials removed"), args[0])
			return nil
		},
	}
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show stored credentials and environment overrides",
		Run: func(cmd *cobra.Command, args []string) {
			printCredentials(os.Stderr, settings.Load(), os.Getenv)
		},
	}
}

func printCredentials(w io.Writer, store settings.Store, getenv func(string) string) {
	fmt.Fprintf(w, "\n%s\n", blue.Sprint("Stored Credentials"))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	for _, s := range settings.Services {
		info := store[s]
		if info == nil || !info.IsBasic() || info.Password == "" {
			fmt.Fprintf(w, "  %-10s %s\n", s, red.Sprint("not configured"))
			continue
		}
		status := fmt.Sprintf("%s (user: %s, password: %s)", green.Sprint("configured"), info.Username, settings.MaskKey(info.Password))
		if info.Site != "" {
			status += fmt.Sprintf("\n  %10s site: %s", "", info.Site)
		}
		fmt.Fprintf(w, "  %-10s %s\n", s, status)
	}

	fmt.Fprintf(w, "\n  %s\n", yellow.Sprint("Environment Variables"))
	for _, name := range []string{
		config.EnvDeskSitename, config.EnvDeskUser, config.EnvDeskPassword,
		config.EnvTransifexUsername, config.EnvTransifexPassword,
	} {
		v := getenv(name)
		switch {
		case v == "":
			fmt.Fprintf(w, "  %-28s %s\n", name, red.Sprint("not set"))
		case strings.HasSuffix(name, "PASSWORD"):
			fmt.Fprintf(w, "  %-28s %s\n", name, green.Sprint(settings.MaskKey(v)))
		default:
			fmt.Fprintf(w, "  %-28s %s\n", name, green.Sprint(v))
		}
	}
	fmt.Fprintf(w, "\n  File: %s\n\n", settings.FilePath())
}
