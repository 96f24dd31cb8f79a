// Package config assembles the settings of a matching run from flags,
// GOVDOCS_* environment variables, .env files, an optional .govdocs.yaml
// config file and a reference manifest.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/happyhackingspace/govdocs"
	"github.com/happyhackingspace/govdocs/internal/csvio"
	"github.com/happyhackingspace/govdocs/match"
)

// Keys shared by flags, environment variables and the config file.
const (
	KeyConfig        = "config"
	KeyWeedingSet    = "weeding"
	KeyNumberColumn  = "number-column"
	KeyReferences    = "fdlp"
	KeyManifest      = "manifest"
	KeyOutputDir     = "out"
	KeyEncoding      = "encoding"
	KeyMaxRows       = "max-rows"
	KeyChunkPrefix   = "chunk-prefix"
	KeyChunkStart    = "chunk-start"
	KeyMatchedFile   = "matched-file"
	KeyNotMatchedDir = "not-matched-dir"
	KeySkipRows      = "skip-rows"
	KeySudocColumn   = "sudoc-column"
	KeyType          = "type"
	KeyTypeColumn    = "type-column"
	KeyHeaderRow     = "header-row"
)

// EnvPrefix is prepended to every environment variable key.
const EnvPrefix = "GOVDOCS"

// New returns a viper instance with defaults, environment binding, .env files
// and the optional config file loaded. configFile may be empty.
// Relative input paths in the config file are resolved against its directory.
func New(configFile string) (*viper.Viper, error) {
	loadEnvFiles()

	v := viper.New()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".govdocs")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := resolveConfigPaths(v); err != nil {
		return nil, err
	}

	// Bound after the config file so resolveConfigPaths sees file values only.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	return v, nil
}

// resolveConfigPaths rewrites the weeding, fdlp and manifest entries of the
// loaded config file relative to the file's directory. Flags and environment
// values still take precedence and are used as given.
func resolveConfigPaths(v *viper.Viper) error {
	base := filepath.Dir(v.ConfigFileUsed())
	resolved := make(map[string]any)

	for _, key := range []string{KeyWeedingSet, KeyManifest} {
		if v.InConfig(key) {
			resolved[key] = resolve(base, v.GetString(key))
		}
	}
	if v.InConfig(KeyReferences) {
		paths := v.GetStringSlice(KeyReferences)
		for i, path := range paths {
			paths[i] = resolve(base, path)
		}
		resolved[KeyReferences] = paths
	}

	if len(resolved) == 0 {
		return nil
	}
	if err := v.MergeConfigMap(resolved); err != nil {
		return fmt.Errorf("resolve config paths: %w", err)
	}
	return nil
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	layout := govdocs.DefaultLayout()
	v.SetDefault(KeyNumberColumn, govdocs.DefaultNumberColumn)
	v.SetDefault(KeyOutputDir, "output")
	v.SetDefault(KeyEncoding, csvio.DefaultEncoding)
	v.SetDefault(KeyMaxRows, layout.MaxRows)
	v.SetDefault(KeyChunkPrefix, layout.ChunkPrefix)
	v.SetDefault(KeyChunkStart, layout.ChunkStart)
	v.SetDefault(KeyMatchedFile, layout.MatchedFile)
	v.SetDefault(KeyNotMatchedDir, layout.NotMatchedDir)
	v.SetDefault(KeySkipRows, match.DefaultSkipRows)
	v.SetDefault(KeySudocColumn, match.DefaultSudocColumn)
	v.SetDefault(KeyType, match.DefaultClassificationType)
	v.SetDefault(KeyTypeColumn, match.DefaultTypeColumn)
	v.SetDefault(KeyHeaderRow, match.DefaultHeaderRow)
}

// Load builds a Config from v. Reference documents named by the fdlp key
// share the layout given by the skip-rows, sudoc-column, type, type-column
// and header-row keys; documents from the manifest carry their own.
func Load(v *viper.Viper) (*govdocs.Config, error) {
	cfg := &govdocs.Config{
		WeedingSet:   v.GetString(KeyWeedingSet),
		NumberColumn: v.GetString(KeyNumberColumn),
		OutputDir:    v.GetString(KeyOutputDir),
		Encoding:     v.GetString(KeyEncoding),
		Layout: govdocs.Layout{
			MatchedFile:   v.GetString(KeyMatchedFile),
			NotMatchedDir: v.GetString(KeyNotMatchedDir),
			ChunkPrefix:   v.GetString(KeyChunkPrefix),
			ChunkStart:    v.GetInt(KeyChunkStart),
			MaxRows:       v.GetInt(KeyMaxRows),
		},
	}

	for _, path := range v.GetStringSlice(KeyReferences) {
		cfg.Documents = append(cfg.Documents, match.ReferenceDoc{
			Path:               path,
			SkipRows:           v.GetInt(KeySkipRows),
			SudocColumn:        v.GetInt(KeySudocColumn),
			ClassificationType: v.GetString(KeyType),
			TypeColumn:         v.GetInt(KeyTypeColumn),
			HeaderRow:          v.GetInt(KeyHeaderRow),
		})
	}

	if manifest := v.GetString(KeyManifest); manifest != "" {
		docs, err := LoadManifest(manifest)
		if err != nil {
			return nil, err
		}
		cfg.Documents = append(cfg.Documents, docs...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// loadEnvFiles loads .env then .env.local; neither is required.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
