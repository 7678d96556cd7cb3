// Package missions builds the mission engine command tree.
package missions

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	entrypoint "github.com/louisbranch/missionkit/internal/platform/cmd"
	apperrors "github.com/louisbranch/missionkit/internal/platform/errors"
	"github.com/louisbranch/missionkit/internal/platform/errors/i18n"
	"github.com/louisbranch/missionkit/internal/random"
	"github.com/louisbranch/missionkit/internal/services/missions/app"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/engine"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/missiontype"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/record"
)

// Options are the flags shared by every command.
type Options struct {
	Dir    string
	Locale string
}

// NewRootCommand builds the command tree. Environment configuration is read
// when a command runs; --dir overrides MISSIONKIT_DEFINITIONS_DIR.
func NewRootCommand() *cobra.Command {
	opts := &Options{}
	root := &cobra.Command{
		Use:           "missions",
		Short:         "Inspect mission definitions and mission data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.Dir, "dir", "", "definitions directory (overrides MISSIONKIT_DEFINITIONS_DIR)")
	root.PersistentFlags().StringVar(&opts.Locale, "locale", i18n.BaseLocale, "locale for error messages")

	root.AddCommand(
		newTypesCommand(),
		newValidateCommand(opts),
		newListCommand(opts),
		newRandomCommand(opts),
		newGrantCommand(opts),
		newDecodeCommand(opts),
	)
	return root
}

// Execute runs the command tree with telemetry and renders failures for
// the configured locale.
func Execute(ctx context.Context, root *cobra.Command, args []string) error {
	root.SetArgs(args)
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMissions, func(ctx context.Context) error {
		return root.ExecuteContext(ctx)
	})
}

// Describe renders err for a person in locale.
func Describe(err error, locale string) string {
	return apperrors.Localize(err, locale)
}

func newTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered mission types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			types, err := missiontype.DefaultRegistry(missiontype.DefaultVocabulary())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range types.All() {
				if t.Kind() == missiontype.KindComposite {
					fmt.Fprintf(out, "%s\t%s/%d\n", t.ID(), t.Kind(), t.Arity())
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", t.ID(), t.Kind())
			}
			return nil
		},
	}
}

func newValidateCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the definitions directory and report problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openService(cmd, opts)
			if err != nil {
				return err
			}
			defs := svc.Definitions()
			fmt.Fprintf(cmd.OutOrStdout(), "%d missions in %d categories\n", defs.Len(), len(defs.Categories()))
			return nil
		},
	}
}

func newListCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list [category]",
		Short: "List mission keys, optionally within a category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openService(cmd, opts)
			if err != nil {
				return err
			}
			defs := svc.Definitions().All()
			if len(args) == 1 {
				defs = svc.Definitions().InCategory(args[0])
			}
			out := cmd.OutOrStdout()
			for _, def := range defs {
				fmt.Fprintf(out, "%s\t%s\t%s\t%d-%d\n", def.Key, def.Category, def.Type.ID(), def.RequirementMin, def.RequirementMax)
			}
			return nil
		},
	}
}

func newRandomCommand(opts *Options) *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "random [category]",
		Short: "Draw a mission, by category weight or from one category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra []app.Option
			if cmd.Flags().Changed("seed") {
				extra = append(extra, app.WithEngineOptions(engine.WithRand(random.NewRand(seed))))
			}
			svc, err := openService(cmd, opts, extra...)
			if err != nil {
				return err
			}
			category := ""
			if len(args) == 1 {
				category = args[0]
			}
			def, _, err := svc.GrantRandom(cmd.Context(), &blobCarrier{}, category)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), def.Key)
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for a reproducible draw")
	return cmd
}

func newGrantCommand(opts *Options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "grant <key>",
		Short: "Create mission data for a definition",
		Long:  "Create mission data for a definition. The data is printed as base64, or written raw with --out.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openService(cmd, opts)
			if err != nil {
				return err
			}
			carrier := &blobCarrier{}
			rec, err := svc.Grant(cmd.Context(), carrier, args[0])
			if err != nil {
				return err
			}
			if output != "" {
				if err := os.WriteFile(output, carrier.data, 0o600); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", rec.DisplayID(), output)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(carrier.data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "out", "o", "", "write raw mission data to this file")
	return cmd
}

func newDecodeCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file|->",
		Short: "Decode mission data and print its tags",
		Long:  "Decode raw or base64 mission data from a file, or from stdin with -, and print its presentation tags.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readBlob(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			svc, err := openService(cmd, opts)
			if err != nil {
				return err
			}
			_, tags, err := svc.Inspect(cmd.Context(), &blobCarrier{data: data, has: true})
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(tags))
			for key := range tags {
				keys = append(keys, key)
			}
			slices.Sort(keys)
			out := cmd.OutOrStdout()
			for _, key := range keys {
				fmt.Fprintf(out, "%s: %s\n", key, tags[key])
			}
			return nil
		},
	}
}

func openService(cmd *cobra.Command, opts *Options, extra ...app.Option) (*app.Service, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}
	if opts.Dir != "" {
		cfg.DefinitionsDir = opts.Dir
	}
	return app.Open(cmd.Context(), cfg, extra...)
}

// readBlob reads mission data from path, accepting raw bytes or base64.
func readBlob(stdin io.Reader, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read mission data: %w", err)
	}
	if _, err := record.Decode(data); err == nil {
		return data, nil
	}
	if decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data))); err == nil {
		return decoded, nil
	}
	return data, nil
}

// blobCarrier holds mission data outside any host item.
type blobCarrier struct {
	data   []byte
	has    bool
	broken bool
}

func (c *blobCarrier) MissionData() ([]byte, bool) { return c.data, c.has }
func (c *blobCarrier) SetMissionData(data []byte)  { c.data = append([]byte(nil), data...); c.has = true }
func (c *blobCarrier) Broken() bool                { return c.broken }
func (c *blobCarrier) MarkBroken()                 { c.broken = true }
func (c *blobCarrier) ClearBroken()                { c.broken = false }
