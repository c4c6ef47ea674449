package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgfleet/internal/config"
	"github.com/vvka-141/pgfleet/internal/defines"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	verbose      bool
	manifestURL  string
	manifestName string
	defines      []string
	definesFiles []string
	options      string
	logFormat    string
	timeout      time.Duration
}

func (f *globalFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Enable verbose output")
	pf.StringVar(&f.manifestURL, "manifest-url", pgfleet.DefaultManifestURL, "Base location of the manifests (env: PGFLEET_MANIFEST_URL)")
	pf.StringVar(&f.manifestName, "manifest-name", pgfleet.DefaultManifestName, "Manifest to load, without the .manifest suffix (env: PGFLEET_MANIFEST_NAME)")
	pf.StringArrayVarP(&f.defines, "define", "D", nil, "Override a manifest key (key=value, repeatable)")
	pf.StringArrayVar(&f.definesFiles, "defines-file", nil, "Read manifest overrides from a key=value file (repeatable, later files win)")
	pf.StringVar(&f.options, "options", "", "Comma-separated engine options: dry_run, verbose")
	pf.StringVar(&f.logFormat, "log-format", "text", "Log format: text or json")
	pf.DurationVar(&f.timeout, "timeout", pgfleet.DefaultTimeout, "Maximum duration of the whole invocation")
}

// settings resolves pgfleet.yaml, .env and the environment in the working
// directory, then applies the flags the user set.
func (f *globalFlags) settings(cmd *cobra.Command) (config.Settings, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Settings{}, err
	}
	s, err := config.Resolve(wd)
	if err != nil {
		return config.Settings{}, err
	}
	f.apply(cmd, &s)
	return s, nil
}

// apply overlays explicitly set flags on s.
func (f *globalFlags) apply(cmd *cobra.Command, s *config.Settings) {
	changed := cmd.Flags().Changed
	if changed("manifest-url") {
		s.ManifestURL = f.manifestURL
	}
	if changed("manifest-name") {
		s.ManifestName = f.manifestName
	}
	if changed("options") {
		s.Options = f.options
	}
	if changed("log-format") {
		s.LogFormat = f.logFormat
	}
	if changed("timeout") {
		s.Timeout = f.timeout
	}
	if f.verbose {
		s.Verbose = true
	}
}

// overrides merges the define sources into the system layer values.
func (f *globalFlags) overrides(s config.Settings) (map[string]string, error) {
	return defines.Merge(s.Defines, f.definesFiles, f.defines)
}
