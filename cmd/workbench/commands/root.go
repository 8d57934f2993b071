// Package commands wires the workbench CLI: every subcommand builds on
// the shared runtime assembled here.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scopeline/workbench/internal/api"
	"scopeline/workbench/internal/config"
	"scopeline/workbench/internal/history"
	"scopeline/workbench/internal/logging"
	"scopeline/workbench/internal/printer"
	"scopeline/workbench/internal/search"
	"scopeline/workbench/internal/session"
	"scopeline/workbench/internal/workspace"
)

var (
	version string
	commit  string
	date    string

	// Global flags
	projectID string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "workbench",
	Short: "Scopeline - consultant workbench for BRD workspaces",
	Long: `Workbench is the Scopeline consultant CLI. It loads a project's
business requirements workspace, applies changes optimistically and
reconciles them with the backend: any failed save reloads the whole
workspace from the server, which stays the source of truth.

Select a project with --project or the SCOPELINE_PROJECT variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. Errors are printed by the printer
// package, so Cobra's own error output is silenced.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectID, "project", "p", "", "project id (or SCOPELINE_PROJECT)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// runtime bundles the services a command needs for one invocation.
type runtime struct {
	cfg    config.Config
	log    *zap.Logger
	sess   session.Context
	client *api.Client
	ws     *workspace.Service
	search *search.Service
	hist   *history.Service
	meili  *search.Meili
}

func newRuntime() (*runtime, error) {
	cfg := config.Load()
	if projectID == "" {
		projectID = getenvProject()
	}
	if projectID == "" {
		return nil, printer.Error("no project selected: pass --project or set SCOPELINE_PROJECT")
	}

	log, err := logging.New(verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	sess := buildSession(cfg)
	client := api.NewClient(cfg.APIBaseURL, sess, cfg.APITimeout, log)
	hist := history.New(cfg.SnapshotsDir, sess.DisplayName())
	ws := workspace.New(client, sess, projectID, log).WithRecorder(hist)

	var meili *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meili = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey, log)
	}
	searchSvc := search.NewService(meili, log)

	return &runtime{
		cfg:    cfg,
		log:    log,
		sess:   sess,
		client: client,
		ws:     ws,
		search: searchSvc,
		hist:   hist,
		meili:  meili,
	}, nil
}

func (r *runtime) Close() {
	if r.meili != nil {
		r.meili.Close()
	}
	_ = r.log.Sync()
}

// load fetches the workspace and feeds the search index.
func (r *runtime) load(cmd *cobra.Command) error {
	if err := r.ws.Load(cmd.Context()); err != nil {
		return printer.Error("workspace load failed: %v", err)
	}
	r.search.IndexSnapshot(r.ws.Snapshot())
	return nil
}

func getenvProject() string {
	return os.Getenv("SCOPELINE_PROJECT")
}

func buildSession(cfg config.Config) session.Context {
	role := session.Role(cfg.DevRole)
	if cfg.APIToken != "" {
		return session.Authenticated(cfg.APIToken, "", cfg.DevUser, role)
	}
	sess := session.DevFallback(cfg.DevUser)
	sess.Role = role
	return sess
}
