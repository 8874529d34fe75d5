package cmd

import (
	"github.com/sarchlab/pagesim/config"
	"github.com/sarchlab/pagesim/paging"
	"github.com/sarchlab/pagesim/refstring"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// autoName asks for a generated file name.
const autoName = "auto"

type stringFlag struct {
	name string
	dst  func(c *config.Config) *string
}

type intFlag struct {
	name string
	dst  func(c *config.Config) *int
}

type boolFlag struct {
	name string
	dst  func(c *config.Config) *bool
}

var stringFlags = []stringFlag{
	{"algorithm", func(c *config.Config) *string { return &c.Algorithm }},
	{"refs", func(c *config.Config) *string { return &c.References }},
	{"record", func(c *config.Config) *string { return &c.RecordPath }},
	{"format", func(c *config.Config) *string { return &c.ExportFormat }},
	{"compression", func(c *config.Config) *string { return &c.Compression }},
}

var intFlags = []intFlag{
	{"frames", func(c *config.Config) *int { return &c.Frames }},
	{"speed", func(c *config.Config) *int { return &c.SpeedMs }},
	{"port", func(c *config.Config) *int { return &c.Port }},
}

var boolFlags = []boolFlag{
	{"open", func(c *config.Config) *bool { return &c.OpenBrowser }},
	{"verbose", func(c *config.Config) *bool { return &c.Verbose }},
}

// applyFlags copies the flags set on the command line into the
// configuration. Flags left unset keep the configured values.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	for _, f := range stringFlags {
		if !flags.Changed(f.name) {
			continue
		}

		v, err := flags.GetString(f.name)
		if err != nil {
			return err
		}

		*f.dst(cfg) = v
	}

	for _, f := range intFlags {
		if !flags.Changed(f.name) {
			continue
		}

		v, err := flags.GetInt(f.name)
		if err != nil {
			return err
		}

		*f.dst(cfg) = v
	}

	for _, f := range boolFlags {
		if !flags.Changed(f.name) {
			continue
		}

		v, err := flags.GetBool(f.name)
		if err != nil {
			return err
		}

		*f.dst(cfg) = v
	}

	return nil
}

func addInputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntP("frames", "f", 0, "number of frames (default from config, 3)")
	flags.StringP("refs", "r", "",
		"comma-separated reference string (default from config)")
	flags.String("refs-file", "",
		"file holding the reference string, overrides --refs")
}

func addExportFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("export", "",
		"export the trace to a file with this base name, "+autoName+
			" for a generated name")
	flags.String("format", "", "export format: csv or json")
	flags.String("compression", "", "export compression: none, snappy, or lz4")
}

// references returns the reference sequence of the invocation.
func (a *app) references(cmd *cobra.Command) ([]paging.Page, error) {
	path, _ := cmd.Flags().GetString("refs-file")
	if path != "" {
		return refstring.LoadFile(path)
	}

	return refstring.Parse(a.cfg.References)
}

// fileBase turns the value of a file flag into a base name. An empty base
// asks for a generated name.
func fileBase(value string) string {
	if value == autoName {
		return ""
	}

	return value
}
