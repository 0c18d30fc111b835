package args

import (
	"bytes"
	"errors"
	"flag"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/auth"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/client"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"strings"
	"time"
)

const (
	DefaultTemplate    = "bm432_google_form.json"
	DefaultOutput      = "bm432_form_2023.json"
	DefaultCredentials = "credentials.json"
	DefaultToken       = "token.json"
)

type Arguments struct {
	ConfigFile    string
	ConfigPath    string
	Version       bool
	Verbose       bool
	Template      string
	Output        string
	Credentials   string
	Token         string
	Scopes        StringSliceArgs
	Url           string
	Timeout       time.Duration
	AuthTimeout   time.Duration
	RetryAttempts uint
	// Strict makes a failed remote call exit with a non-zero code. By default the error is logged
	// and the process exits normally.
	Strict  bool
	DryRun  bool
	Console bool
}

type StringSliceArgs []string

func (i *StringSliceArgs) String() string {
	return "A collection of strings passed as arguments"
}

func (i *StringSliceArgs) Set(value string) error {
	trimmed := strings.TrimSpace(value)

	if len(trimmed) == 0 {
		return nil
	}

	*i = append(*i, trimmed)
	return nil
}

func ParseArgs(args []string) (Arguments, string, error) {
	flags := flag.NewFlagSet("formreplicator", flag.ContinueOnError)
	var buf bytes.Buffer
	flags.SetOutput(&buf)

	arguments := Arguments{}

	flags.StringVar(&arguments.ConfigFile, "configFile", "formreplicator", "The name of the configuration file to use. Do not include the extension. Defaults to formreplicator")
	flags.StringVar(&arguments.ConfigPath, "configPath", ".", "The path of the configuration file to use. Defaults to the current directory")
	flags.BoolVar(&arguments.Version, "version", false, "Print the version")
	flags.BoolVar(&arguments.Verbose, "verbose", false, "Enable debug logging")
	flags.StringVar(&arguments.Template, "template", DefaultTemplate, "The JSON or YAML template describing the form to create")
	flags.StringVar(&arguments.Output, "output", DefaultOutput, "The file the JSON description of the new form is written to. Any existing file is replaced")
	flags.StringVar(&arguments.Credentials, "credentials", DefaultCredentials, "The OAuth client secret file downloaded from the Google Cloud console. Only read when the cached token can not be used")
	flags.StringVar(&arguments.Token, "token", DefaultToken, "The file used to cache the OAuth token between runs. Delete this file after changing the scopes")
	flags.Var(&arguments.Scopes, "scope", "An OAuth scope to request. May be repeated. Defaults to "+auth.FormsBodyScope)
	flags.StringVar(&arguments.Url, "url", client.DefaultUrl, "The Google Forms API base URL")
	flags.DurationVar(&arguments.Timeout, "timeout", time.Minute, "The timeout applied to each API request")
	flags.DurationVar(&arguments.AuthTimeout, "authTimeout", 5*time.Minute, "How long to wait for the browser authorization to complete")
	flags.UintVar(&arguments.RetryAttempts, "retryAttempts", 1, "The number of attempts made to read the finished form. Form and item creation are never retried")
	flags.BoolVar(&arguments.Strict, "strict", false, "Exit with a non-zero code when an API call fails")
	flags.BoolVar(&arguments.DryRun, "dryRun", false, "Print the items that would be created without calling the API")
	flags.BoolVar(&arguments.Console, "console", false, "Also print the JSON description of the new form to the console")

	err := flags.Parse(args)

	if err != nil {
		return Arguments{}, buf.String(), err
	}

	err = overrideArgs(flags, arguments.ConfigPath, arguments.ConfigFile)

	if err != nil {
		return Arguments{}, buf.String(), err
	}

	if len(arguments.Scopes) == 0 {
		arguments.Scopes = StringSliceArgs{auth.FormsBodyScope}
	}

	arguments.Scopes = lo.Uniq(arguments.Scopes)

	if strings.TrimSpace(arguments.Template) == "" {
		return Arguments{}, buf.String(), errors.New("the template argument can not be empty")
	}

	return arguments, buf.String(), nil
}

// Inspired by https://github.com/carolynvs/stingoftheviper
// Viper needs manual handling to implement reading settings from env vars, config files, and from the command line
func overrideArgs(flags *flag.FlagSet, configPath string, configFile string) error {
	v := viper.New()

	// Set the base name of the config file, without the file extension.
	v.SetConfigName(configFile)

	// Set as many paths as you like where viper should look for the
	// config file.
	v.AddConfigPath(configPath)

	// Attempt to read the config file, gracefully ignoring errors
	// caused by a config file not being found. Return an error
	// if we cannot parse the config file.
	if err := v.ReadInConfig(); err != nil {
		// It's okay if there isn't a config file
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	// Environment variables are prefixed, e.g. the -output flag binds to FORMREPLICATOR_OUTPUT.
	v.SetEnvPrefix("formreplicator")

	// Environment variables can't have dashes in them, so bind them to their equivalent
	// keys with underscores
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.AutomaticEnv()

	// Bind the current command's flags to viper
	return bindFlags(flags, v)
}

// Bind each flag that was not set on the command line to its associated viper configuration (config file and environment variable)
func bindFlags(flags *flag.FlagSet, v *viper.Viper) error {
	var funcError error = nil

	defined := map[string]bool{}
	flags.Visit(func(definedFlag *flag.Flag) {
		defined[definedFlag.Name] = true
	})

	flags.VisitAll(func(allFlags *flag.Flag) {
		if defined[allFlags.Name] || allFlags.Name == "configFile" || allFlags.Name == "configPath" {
			return
		}

		if !v.IsSet(allFlags.Name) {
			return
		}

		if _, isSlice := allFlags.Value.(*StringSliceArgs); isSlice {
			for _, value := range v.GetStringSlice(allFlags.Name) {
				funcError = errors.Join(funcError, flags.Set(allFlags.Name, value))
			}
			return
		}

		funcError = errors.Join(funcError, flags.Set(allFlags.Name, v.GetString(allFlags.Name)))
	})

	return funcError
}
