// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubmed-search CLI.
//
// The root command harvests one page of PubMed Central OAI-PMH ListRecords
// results and writes the articles to the console or a TSV file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/pubmed-search/internal/archive"
	"github.com/pdiddy/pubmed-search/internal/harvest"
	"github.com/pdiddy/pubmed-search/internal/httputil"
	"github.com/pdiddy/pubmed-search/internal/logger"
	"github.com/pdiddy/pubmed-search/internal/output"
	"github.com/pdiddy/pubmed-search/internal/secrets"
	"github.com/pdiddy/pubmed-search/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultTimeout = 10 * time.Second

// Viper keys. Flag names double as keys so PUBMED_SEARCH_FROM_DT and a
// from_dt entry in pubmed-search.yaml both reach the same setting.
const (
	keyOutCSV         = "out_csv"
	keyMetadataPrefix = "metadata_prefix"
	keyFromDt         = "from_dt"
	keyUntilDt        = "until_dt"
	keySetStr         = "set_str"
	keyInXML          = "in_xml"
	keyFormat         = "format"
	keyArchive        = "archive"
	keyArchiveType    = "archive-type"
	keyTimeout        = "timeout"
	keyLogLevel       = "log-level"
	keyLogJSON        = "log-json"
)

var (
	// log is built in PersistentPreRunE once the level is known.
	log *zap.SugaredLogger

	// loadedSecrets holds values loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	// configErr is set by initConfig and reported before any command runs.
	configErr error
)

var rootCmd = &cobra.Command{
	Use:   "pubmed-search",
	Short: "Harvest article metadata from the PubMed Central OAI-PMH service",
	Long: `pubmed-search issues a single ListRecords request to the PubMed Central
OAI-PMH endpoint and extracts title, PMID, PubMed URL and abstract from every
article in the response.

Without --out_csv the records are printed to the console, abstracts included.
With --out_csv they are written as a tab-separated file with the columns
title, pmid and url. Only the first page of results is harvested.`,
	Example: `  pubmed-search -m pmc -f 2021-01-01 -u 2021-02-01 -s bmj
  pubmed-search -m pmc -s bmj -o results.tsv
  pubmed-search -i saved-response.xml --format json -o results.json`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		if viper.GetBool(keyLogJSON) {
			log = logger.NewJSON(viper.GetString(keyLogLevel), os.Stderr)
		} else {
			log = logger.New(viper.GetString(keyLogLevel), os.Stderr)
		}
		if f := viper.ConfigFileUsed(); f != "" {
			log.Infow("using config file", "path", f)
		}

		s, err := secrets.Load(".secrets/", log)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.Debugw("loaded secrets", "keys", keys)
		}
		return nil
	},
	RunE: runHarvest,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./pubmed-search.yaml or ~/.config/pubmed-search/pubmed-search.yaml)")
	pf.String(keyLogLevel, "warn", "log level: debug, info, warn, error")
	pf.Bool(keyLogJSON, false, "emit logs as JSON")
	pf.String(keyArchive, "", "append each harvest to this local archive (disabled when empty)")
	pf.String(keyArchiveType, string(types.ArchiveSQLite), "archive backend: sqlite or bbolt")
	pf.StringP(keyMetadataPrefix, "m", "", "OAI metadataPrefix (e.g. pmc, oai_dc)")
	pf.StringP(keyFromDt, "f", "", "start of the datestamp range (YYYY-MM-DD)")
	pf.StringP(keyUntilDt, "u", "", "end of the datestamp range (YYYY-MM-DD)")
	pf.StringP(keySetStr, "s", "", "OAI set to harvest (e.g. bmj)")

	f := rootCmd.Flags()
	f.StringP(keyOutCSV, "o", "", "write records to this file instead of the console")
	f.StringP(keyInXML, "i", "", "read a saved OAI response from this file instead of fetching")
	f.String(keyFormat, string(types.FormatTSV), "file format for --out_csv: tsv, json or yaml")
	f.Duration(keyTimeout, defaultTimeout, "HTTP request timeout")

	for _, key := range []string{keyLogLevel, keyLogJSON, keyArchive, keyArchiveType, keyMetadataPrefix, keyFromDt, keyUntilDt, keySetStr} {
		_ = viper.BindPFlag(key, pf.Lookup(key))
	}
	for _, key := range []string{keyOutCSV, keyInXML, keyFormat, keyTimeout} {
		_ = viper.BindPFlag(key, f.Lookup(key))
	}

	rootCmd.AddCommand(urlCmd, historyCmd, versionCmd)
}

func initConfig() {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	configErr = readConfig(viper.GetViper(), cfgFile)
}

// readConfig points v at cfgFile, or at pubmed-search.yaml in . and
// ~/.config/pubmed-search, and reads it. Only a default config file may
// be absent; an explicit one that is missing or unparsable is an error.
func readConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("pubmed-search")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "pubmed-search"))
		}
	}

	v.SetEnvPrefix("PUBMED_SEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// configFrom builds the run configuration from v. The User-Agent is left
// to the caller.
func configFrom(v *viper.Viper) (types.Config, error) {
	format, err := output.ParseFormat(v.GetString(keyFormat))
	if err != nil {
		return types.Config{}, err
	}

	timeout := v.GetDuration(keyTimeout)
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return types.Config{
		Query: types.QueryParameters{
			MetadataPrefix: v.GetString(keyMetadataPrefix),
			From:           v.GetString(keyFromDt),
			Until:          v.GetString(keyUntilDt),
			Set:            v.GetString(keySetStr),
		},
		Output: types.OutputConfig{
			Path:   v.GetString(keyOutCSV),
			Format: format,
		},
		InputPath: v.GetString(keyInXML),
		HTTP:      types.HTTPConfig{Timeout: timeout},
		Archive:   archiveConfig(v),
		LogLevel:  v.GetString(keyLogLevel),
	}, nil
}

func archiveConfig(v *viper.Viper) types.ArchiveConfig {
	return types.ArchiveConfig{
		Type: types.ArchiveType(v.GetString(keyArchiveType)),
		Path: v.GetString(keyArchive),
	}
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg, err := configFrom(viper.GetViper())
	if err != nil {
		return err
	}
	cfg.HTTP.UserAgent = secrets.UserAgent("pubmed-search/"+version, loadedSecrets)

	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &harvest.Runner{
		Client:  httputil.NewRestyClient(cfg.HTTP.Timeout),
		Store:   store,
		Console: cmd.OutOrStdout(),
		Log:     log,
	}
	summary, err := runner.Run(ctx, cfg)
	if err != nil {
		return err
	}
	log.Infow("harvest complete", "source", summary.Source, "records", summary.Records)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if log != nil {
			log.Errorw("pubmed-search failed", "error", err)
			_ = log.Sync()
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
