package ports

import (
	"pathcore/domain/core"
	"pathcore/domain/enrichment"
	"pathcore/domain/network"
)

// PathwayNamer maps a pathway ID to the label written into output
// files. Used to shorten long curated pathway names for visualization.
type PathwayNamer func(id core.PathwayID) string

// ArtifactWriter persists the analysis outputs consumed by downstream
// tooling. All artifacts are tab-separated files.
type ArtifactWriter interface {
	// WriteSignificantPathways writes one model's per-feature
	// overrepresentation results
	WriteSignificantPathways(path string, reports []*enrichment.FeatureReport) error

	// WriteNetwork writes an edge list (pathway A, pathway B, weight)
	WriteNetwork(path string, net *network.CoNetwork, namer PathwayNamer) error

	// WriteFeatureSignatures writes per-feature positive/negative gene
	// signatures (metadata)
	WriteFeatureSignatures(path string, reports []*enrichment.FeatureReport) error

	// WriteFeaturePathways writes per-feature post-correction pathway
	// annotations within the signature (metadata)
	WriteFeaturePathways(path string, reports []*enrichment.FeatureReport) error
}
