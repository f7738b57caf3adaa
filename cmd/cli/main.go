package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pathcore/adapters/excel"
	"pathcore/adapters/permutation"
	"pathcore/adapters/rng"
	"pathcore/adapters/tsv"
	"pathcore/app"
	"pathcore/domain/core"
	"pathcore/internal"
	"pathcore/internal/config"
	"pathcore/internal/testkit"
	"pathcore/ports"
)

var logger = internal.NewDefaultLogger()

func main() {
	// optional .env for PATHCORE_* defaults
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "pathcore",
		Short: "Pathway co-occurrence network analysis over feature-extraction models",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newBuildNetworkCmd(),
		newSynthesizeCmd(),
		newInitProfileCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var profilePath string
	var trimSuffix string
	flags := config.DefaultRunProfile()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full analysis: signatures, overrepresentation, network, permutation filter",
		Long: `Run the complete pipeline over a directory of weight-matrix models.

Settings come from a YAML run profile (--profile), PATHCORE_* environment
variables, and flags; flags set on the command line win.

Example: pathcore run --models-dir ./models --pathways pathways.tsv --out ./results`,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := resolveProfile(cmd, profilePath, &flags)
			if err != nil {
				return err
			}

			svc := newPipeline(profile)
			if trimSuffix != "" {
				svc.SetPathwayNamer(func(id core.PathwayID) string {
					return strings.TrimSpace(strings.TrimSuffix(id.String(), trimSuffix))
				})
			}

			summary, err := svc.Run(cmd.Context(), profile)
			if err != nil {
				return err
			}
			logger.Info("run %s: %d models analyzed", summary.RunID, len(summary.Models))
			logger.Info("aggregate network: %d edges, %d significant after permutation test",
				summary.AggregateEdges, summary.FilteredEdges)
			logger.Info("artifacts written to %s", summary.OutputDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "YAML run profile")
	cmd.Flags().StringVar(&flags.ModelsDir, "models-dir", "", "directory of model weight matrices (.tsv or .xlsx)")
	cmd.Flags().StringVar(&flags.OutputDir, "out", "", "output directory")
	cmd.Flags().StringVar(&flags.PathwayDefinitions, "pathways", "", "pathway definitions file")
	cmd.Flags().StringVar(&flags.GenesList, "genes", "", "gene universe file (defaults to the models' gene column)")
	cmd.Flags().IntVar(&flags.NFeatures, "n-features", flags.NFeatures, "expected features per model (0 disables the check)")
	cmd.Flags().StringVar(&flags.Signature, "signature", flags.Signature, "signature definition: eADAGE or NMF")
	cmd.Flags().Float64Var(&flags.SignatureCutoff, "cutoff", flags.SignatureCutoff, "signature cutoff in standard deviations")
	cmd.Flags().Float64Var(&flags.Alpha, "alpha", flags.Alpha, "significance level")
	cmd.Flags().IntVar(&flags.NCores, "n-cores", flags.NCores, "worker parallelism")
	cmd.Flags().BoolVar(&flags.OverlapCorrection, "overlap-correction", flags.OverlapCorrection, "apply pathway crosstalk correction")
	cmd.Flags().BoolVar(&flags.AllGenes, "all-genes", flags.AllGenes, "test against the full compendium background")
	cmd.Flags().BoolVar(&flags.Metadata, "metadata", flags.Metadata, "write per-feature signature metadata files")
	cmd.Flags().IntVar(&flags.NPermutations, "n-permutations", flags.NPermutations, "permutation trials for edge filtering")
	cmd.Flags().Int64Var(&flags.Seed, "seed", flags.Seed, "base random seed")
	cmd.Flags().StringVar(&trimSuffix, "trim-pathway-suffix", "", "suffix stripped from pathway names in network outputs")
	return cmd
}

// resolveProfile layers the three configuration sources: the YAML
// profile file, then PATHCORE_* environment defaults, then any flag
// explicitly set on the command line.
func resolveProfile(cmd *cobra.Command, profilePath string, flags *config.RunProfile) (*config.RunProfile, error) {
	var profile *config.RunProfile
	if profilePath != "" {
		loaded, err := config.LoadRunProfile(profilePath)
		if err != nil {
			return nil, err
		}
		profile = loaded
	} else {
		base := config.DefaultRunProfile()
		if env, err := config.Load(); err == nil {
			base.NCores = env.Analysis.NCores
			base.NPermutations = env.Analysis.NPermutations
			base.Seed = env.Analysis.Seed
			if env.Paths.OutputDir != "" {
				base.OutputDir = env.Paths.OutputDir
			}
		}
		profile = &base
	}

	overrides := map[string]func(){
		"models-dir":         func() { profile.ModelsDir = flags.ModelsDir },
		"out":                func() { profile.OutputDir = flags.OutputDir },
		"pathways":           func() { profile.PathwayDefinitions = flags.PathwayDefinitions },
		"genes":              func() { profile.GenesList = flags.GenesList },
		"n-features":         func() { profile.NFeatures = flags.NFeatures },
		"signature":          func() { profile.Signature = flags.Signature },
		"cutoff":             func() { profile.SignatureCutoff = flags.SignatureCutoff },
		"alpha":              func() { profile.Alpha = flags.Alpha },
		"n-cores":            func() { profile.NCores = flags.NCores },
		"overlap-correction": func() { profile.OverlapCorrection = flags.OverlapCorrection },
		"all-genes":          func() { profile.AllGenes = flags.AllGenes },
		"metadata":           func() { profile.Metadata = flags.Metadata },
		"n-permutations":     func() { profile.NPermutations = flags.NPermutations },
		"seed":               func() { profile.Seed = flags.Seed },
	}
	for name, apply := range overrides {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

func newPipeline(profile *config.RunProfile) *app.PipelineService {
	tester := permutation.NewTester(rng.NewAdapter())
	tester.SetNumTrials(profile.NPermutations)
	tester.SetNumWorkers(profile.NCores)

	reader := tsv.NewReader()
	svc := app.NewPipelineService(reader, reader, reader, tsv.NewWriter(), tester)
	svc.RegisterMatrixReader(".xlsx", excel.NewWeightMatrixReader())
	return svc
}

// interface check: the TSV reader backs all three input ports
var (
	_ ports.PathwayReader      = (*tsv.Reader)(nil)
	_ ports.GeneListReader     = (*tsv.Reader)(nil)
	_ ports.WeightMatrixReader = (*tsv.Reader)(nil)
)

func newBuildNetworkCmd() *cobra.Command {
	var profilePath string
	flags := config.DefaultRunProfile()

	cmd := &cobra.Command{
		Use:   "build-network",
		Short: "Run the analysis and build networks without permutation filtering",
		Long: `Identical to run with zero permutation trials: per-model and aggregate
networks are written, and the filtered network stays empty. Useful when
the permutation test will be run later over a larger trial count.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := resolveProfile(cmd, profilePath, &flags)
			if err != nil {
				return err
			}
			profile.NPermutations = 0

			summary, err := newPipeline(profile).Run(cmd.Context(), profile)
			if err != nil {
				return err
			}
			logger.Info("run %s: %d models analyzed, aggregate network has %d edges",
				summary.RunID, len(summary.Models), summary.AggregateEdges)
			logger.Info("artifacts written to %s", summary.OutputDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "YAML run profile")
	cmd.Flags().StringVar(&flags.ModelsDir, "models-dir", "", "directory of model weight matrices (.tsv or .xlsx)")
	cmd.Flags().StringVar(&flags.OutputDir, "out", "", "output directory")
	cmd.Flags().StringVar(&flags.PathwayDefinitions, "pathways", "", "pathway definitions file")
	cmd.Flags().StringVar(&flags.GenesList, "genes", "", "gene universe file")
	cmd.Flags().IntVar(&flags.NFeatures, "n-features", flags.NFeatures, "expected features per model (0 disables the check)")
	cmd.Flags().StringVar(&flags.Signature, "signature", flags.Signature, "signature definition: eADAGE or NMF")
	cmd.Flags().Float64Var(&flags.SignatureCutoff, "cutoff", flags.SignatureCutoff, "signature cutoff in standard deviations")
	cmd.Flags().Float64Var(&flags.Alpha, "alpha", flags.Alpha, "significance level")
	cmd.Flags().IntVar(&flags.NCores, "n-cores", flags.NCores, "worker parallelism")
	cmd.Flags().BoolVar(&flags.OverlapCorrection, "overlap-correction", flags.OverlapCorrection, "apply pathway crosstalk correction")
	cmd.Flags().BoolVar(&flags.AllGenes, "all-genes", flags.AllGenes, "test against the full compendium background")
	cmd.Flags().BoolVar(&flags.Metadata, "metadata", flags.Metadata, "write per-feature signature metadata files")
	return cmd
}

func newSynthesizeCmd() *cobra.Command {
	var outDir string
	var nModels, nGenes, nFeatures, pathwaySize, planted int
	var seed int64

	cmd := &cobra.Command{
		Use:   "synthesize",
		Short: "Generate a deterministic synthetic dataset for experimentation",
		Long: `Write a synthetic compendium: planted weight matrices, a disjoint
pathway grid and a gene list, in the formats the run command consumes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kit := testkit.NewKit(seed)
			ds, err := kit.WriteDataset(outDir, nModels, nGenes, nFeatures, pathwaySize, planted)
			if err != nil {
				return err
			}
			logger.Info("synthetic dataset written: models=%s pathways=%s genes=%s",
				ds.ModelsDir, ds.DefinitionsPath, ds.GenesPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "synthetic", "output directory")
	cmd.Flags().IntVar(&nModels, "models", 3, "number of models")
	cmd.Flags().IntVar(&nGenes, "genes", 500, "gene universe size")
	cmd.Flags().IntVar(&nFeatures, "features", 10, "features per model")
	cmd.Flags().IntVar(&pathwaySize, "pathway-size", 20, "genes per pathway")
	cmd.Flags().IntVar(&planted, "planted", 20, "planted signature genes per feature")
	cmd.Flags().Int64Var(&seed, "seed", 42, "generator seed")
	return cmd
}

func newInitProfileCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "init-profile",
		Short: "Write a run profile YAML with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			profile := config.DefaultRunProfile()
			profile.ModelsDir = "models"
			profile.OutputDir = "results"
			profile.PathwayDefinitions = "pathways.tsv"
			data, err := yaml.Marshal(&profile)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			logger.Info("profile template written to %s", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "out", "pathcore.yaml", "profile file to create")
	return cmd
}
