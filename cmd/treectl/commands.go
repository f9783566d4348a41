package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"treeforge/application/queries/models"
	domainconfig "treeforge/domain/config"
	"treeforge/domain/core/aggregates"
	"treeforge/domain/core/valueobjects"
	"treeforge/domain/services"
	"treeforge/infrastructure/config"
	pkgerrors "treeforge/pkg/errors"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// options holds the persistent flags shared by every command
type options struct {
	engineFile string
	sizeCap    int
	depthCap   int
	output     string
	verbose    bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "treectl",
		Short:         "Analyze colored rooted trees",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != outputText && opts.output != outputJSON {
				return fmt.Errorf("unknown output format %q", opts.output)
			}
			if opts.verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				opts.logger = logger
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.engineFile, "engine-config", "", "YAML file with engine bounds")
	flags.IntVar(&opts.sizeCap, "size-cap", 0, "largest pattern subtree checked for embedding (default 12)")
	flags.IntVar(&opts.depthCap, "depth-cap", 0, "levels below the host searched for candidates (default 8)")
	flags.StringVarP(&opts.output, "output", "o", outputText, "output format: text or json")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newEmbedCmd(opts),
		newCommitCmd(opts),
	)
	return root
}

// engineConfig resolves the bounds: defaults, then --engine-config, then the cap flags
func (o *options) engineConfig() (*domainconfig.EngineConfig, error) {
	cfg := domainconfig.DefaultEngineConfig()
	if o.engineFile != "" {
		var err error
		if cfg, err = config.LoadEngineFile(o.engineFile, cfg); err != nil {
			return nil, err
		}
	}
	if o.sizeCap != 0 {
		cfg.SizeCap = o.sizeCap
	}
	if o.depthCap != 0 {
		cfg.DepthCap = o.depthCap
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *options) load(path string) (*aggregates.Snapshot, error) {
	snap, err := loadTree(path)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("Tree loaded",
		zap.String("file", path),
		zap.Int("nodes", snap.Len()),
		zap.Int("roots", len(snap.Roots())),
	)
	return snap, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze FILE",
		Short: "Print signatures, duplicate subtrees and embeddable pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.engineConfig()
			if err != nil {
				return err
			}
			snap, err := opts.load(args[0])
			if err != nil {
				return err
			}

			analysis := services.Recompute(snap, cfg)
			opts.logger.Debug("Tree analyzed",
				zap.Duration("duration", analysis.Duration),
				zap.Int("embeddablePairs", len(analysis.EmbeddablePairs)),
			)

			out := cmd.OutOrStdout()
			if opts.output == outputJSON {
				return writeJSON(out, analysis)
			}
			return printAnalysis(out, snap, analysis)
		},
	}
}

func printAnalysis(out io.Writer, snap *aggregates.Snapshot, analysis *services.Analysis) error {
	if analysis.RootSignature.IsZero() {
		fmt.Fprintf(out, "roots: %d (not a single tree)\n", len(snap.Roots()))
	} else {
		fmt.Fprintf(out, "signature: %s\n", analysis.RootSignature)
	}

	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tCOLOR\tSIZE\tSIGNATURE")
	for _, id := range snap.Nodes() {
		color, _ := snap.Color(id)
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", id, color, analysis.Aggregates[id].Size, analysis.Signatures[id])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nduplicates:")
	if len(analysis.DuplicateGroups) == 0 {
		fmt.Fprintln(out, "  none")
	}
	for _, g := range analysis.DuplicateGroups {
		fmt.Fprintf(out, "  %s at %s\n", g.Signature, joinIDs(g.NodeIDs))
	}

	fmt.Fprintln(out, "\nembeddable pairs:")
	if len(analysis.EmbeddablePairs) == 0 {
		fmt.Fprintln(out, "  none")
	}
	for _, p := range analysis.EmbeddablePairs {
		fmt.Fprintf(out, "  %d -> %d\n", p.Pattern, p.Host)
	}
	return nil
}

func joinIDs(ids []valueobjects.NodeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

func newEmbedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "embed FILE U V",
		Short: "Report whether the subtree at U embeds into the subtree at V",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.engineConfig()
			if err != nil {
				return err
			}
			u, err := valueobjects.ParseNodeID(args[1])
			if err != nil {
				return err
			}
			v, err := valueobjects.ParseNodeID(args[2])
			if err != nil {
				return err
			}
			snap, err := opts.load(args[0])
			if err != nil {
				return err
			}

			checker := services.NewEmbeddingChecker(snap, services.ComputeAggregates(snap), cfg)
			ok, err := checker.CanEmbed(u, v)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.output == outputJSON {
				return writeJSON(out, models.EmbeddingResult{Pattern: u, Host: v, Embeddable: ok})
			}
			fmt.Fprintln(out, strconv.FormatBool(ok))
			return nil
		},
	}
}

// commitResult reports what happened to one file fed through commit
type commitResult struct {
	File      string                 `json:"file"`
	Result    string                 `json:"result"`
	Signature valueobjects.Signature `json:"signature,omitempty"`
	Index     int                    `json:"index"`
	Error     string                 `json:"error,omitempty"`
}

func newCommitCmd(opts *options) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "commit FILE...",
		Short: "Commit trees in order into one history, rejecting repeated shapes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			history := aggregates.NewHistory()
			results := make([]commitResult, 0, len(args))
			rejected := 0

			for _, path := range args {
				res := commitFile(opts, history, path)
				if res.Result != "accepted" {
					rejected++
				}
				results = append(results, res)
			}

			out := cmd.OutOrStdout()
			if opts.output == outputJSON {
				if err := writeJSON(out, results); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					switch r.Result {
					case "accepted":
						fmt.Fprintf(out, "%s: accepted as #%d %s\n", r.File, r.Index, r.Signature)
					case "duplicate":
						fmt.Fprintf(out, "%s: duplicate of #%d %s\n", r.File, r.Index, r.Signature)
					default:
						fmt.Fprintf(out, "%s: %s\n", r.File, r.Error)
					}
				}
			}

			if strict && rejected > 0 {
				return fmt.Errorf("%d of %d trees rejected", rejected, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any tree is rejected")
	return cmd
}

func commitFile(opts *options, history *aggregates.History, path string) commitResult {
	res := commitResult{File: path, Index: -1}

	snap, err := opts.load(path)
	if err != nil {
		res.Result, res.Error = "invalid", err.Error()
		return res
	}
	sig, err := services.NewCanonicalLabeler(snap).RootSignature()
	if err != nil {
		res.Result, res.Error = "invalid", err.Error()
		return res
	}
	res.Signature = sig

	entry, err := history.Append(sig, snap.Len())
	switch {
	case err == nil:
		res.Result, res.Index = "accepted", entry.Index
	case pkgerrors.IsDuplicateRejected(err):
		res.Result = "duplicate"
		for _, e := range history.Entries() {
			if e.Signature == sig {
				res.Index = e.Index
			}
		}
	default:
		res.Result, res.Error = "invalid", err.Error()
	}
	opts.logger.Debug("Commit attempted", zap.String("file", path), zap.String("result", res.Result))
	return res
}
