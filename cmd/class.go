package cmd

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/don7panic/classgen/classmodel"
	"github.com/don7panic/classgen/config"
	"github.com/don7panic/classgen/descriptors"
	"github.com/don7panic/classgen/diagram"
	"github.com/don7panic/classgen/errors"
	"github.com/don7panic/classgen/logger"
	"github.com/don7panic/classgen/models"
)

func newClassCmd() *cobra.Command {
	classCmd := &cobra.Command{
		Use:   "class INPUT",
		Short: "Render a class diagram",
		Long: `Render a Mermaid class diagram.

INPUT is a .yaml/.yml/.json class descriptor file, a Go package directory,
a .go file (its package is analyzed) or a package pattern such as ./...

Go structs and interfaces are classes; embedded types are parents; a NewT
function is the constructor of T (see --init).`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInputs,
		RunE:              runClass,
	}

	flags := classCmd.Flags()
	flags.BoolP("no-parents", "p", false, "Don't show the parent classes")
	flags.BoolP("uses", "u", false, "Show the used classes")
	flags.BoolP("text", "t", false, "Show text on the paths")
	flags.BoolP("no-props", "P", false, "Don't show the properties")
	flags.BoolP("init", "i", false, "Show constructor parameters as instance properties")
	flags.BoolP("no-methods", "m", false, "Don't show the methods")
	flags.BoolP("no-extra", "e", false, "Don't show parents recursively")
	flags.Bool("unexported", false, "Include unexported Go types, fields and methods")
	flags.StringSlice("class", nil, "Only render these classes (and, unless --no-extra, their ancestors)")
	flags.Bool("json", false, "Write the class models as JSON instead of a diagram")
	return classCmd
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"direction":  "diagram.direction",
	"output":     "output.path",
	"uses":       "diagram.uses",
	"text":       "diagram.edge_labels",
	"init":       "diagram.read_init",
	"unexported": "input.unexported",
	"class":      "input.classes",
	"json":       "output.json",
}

// invertedFlagKeys maps "hide" flags to the config key they switch off.
var invertedFlagKeys = map[string]string{
	"no-md":      "diagram.markdown",
	"no-parents": "diagram.parents",
	"no-props":   "diagram.properties",
	"no-methods": "diagram.methods",
	"no-extra":   "diagram.recursive",
}

func runClass(cmd *cobra.Command, args []string) error {
	cfg, dcfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.Named("class")
	log.Debugw("configuration loaded", "diagram", dcfg, "output", cfg.Output.Path)

	descs, err := descriptors.ForInput(args[0], cfg.Input.Unexported).Load(cmd.Context())
	if err != nil {
		return err
	}
	if len(descs) == 0 {
		log.Warnw("input contains no classes", "input", args[0])
	}

	all := classmodel.NewBuilder(dcfg.ReadConstructor).Build(descs)
	registry := classmodel.NewRegistry(all)
	log.Debugw("class registry built", "classes", len(all), "distinct", registry.Len())
	discovered := classmodel.Select(all, cfg.Input.Classes)
	if len(cfg.Input.Classes) > 0 && len(discovered) == 0 {
		return errors.WithHintf(
			errors.Wrapf(errors.ErrNoClasses, "none of %v in %s", cfg.Input.Classes, args[0]),
			"available classes: %v", registry.Names(),
		)
	}

	var write func(io.Writer) error
	if cfg.Output.JSON {
		rendered := discovered
		if dcfg.RecursiveAncestors {
			rendered = classmodel.ExpandAncestors(discovered, registry)
		}
		write = func(w io.Writer) error { return writeJSON(w, rendered) }
	} else {
		doc, err := diagram.Render(discovered, registry, dcfg)
		if err != nil {
			return err
		}
		write = func(w io.Writer) error {
			_, err := doc.WriteTo(w)
			return err
		}
	}

	return withOutput(cmd, cfg.Output.Path, write)
}

// loadConfig merges defaults, config file, environment and flags, and
// validates the diagram settings before any input is read.
func loadConfig(cmd *cobra.Command) (*config.Config, diagram.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	v, err := config.New(configPath)
	if err != nil {
		return nil, diagram.Config{}, err
	}
	if err := config.BindFlags(v, cmd.Flags(), flagKeys); err != nil {
		return nil, diagram.Config{}, err
	}
	if err := config.BindInvertedFlags(v, cmd.Flags(), invertedFlagKeys); err != nil {
		return nil, diagram.Config{}, err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, diagram.Config{}, err
	}
	dcfg, err := cfg.DiagramConfig()
	if err != nil {
		return nil, diagram.Config{}, err
	}
	return cfg, dcfg, nil
}

// withOutput runs write against stdout, or against path opened for
// appending. The file is created if needed and closed afterwards.
func withOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "failed to open output file %s", path)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "failed to close output file %s", path)
	}
	logger.Infow("diagram written", "path", path)
	return nil
}

func writeJSON(w io.Writer, classes []models.ClassModel) error {
	if classes == nil {
		classes = []models.ClassModel{}
	}
	output, err := json.MarshalIndent(classes, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal class models")
	}
	output = append(output, '\n')
	if _, err := w.Write(output); err != nil {
		return errors.Wrap(err, "failed to write class models")
	}
	return nil
}
