package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathcore/adapters/tsv"
	"pathcore/domain/signature"
)

func TestPathwayGrid_DisjointTiles(t *testing.T) {
	kit := NewKit(1)
	genes := kit.Genes(10)

	defs, err := kit.PathwayGrid(genes, 4)
	require.NoError(t, err)

	// 10 genes tile into two pathways of 4; the last 2 stay unannotated
	assert.Equal(t, 2, defs.Len())
	assert.Equal(t, 8, defs.Universe().Len())

	p1, ok := defs.Get("P0001")
	require.True(t, ok)
	p2, ok := defs.Get("P0002")
	require.True(t, ok)
	assert.Equal(t, 0, p1.Genes.IntersectCount(p2.Genes))
}

func TestPlantedMatrix_SignatureRecoversPlantedBlock(t *testing.T) {
	kit := NewKit(7)
	genes := kit.Genes(400)

	m, err := kit.PlantedMatrix("m1", genes, 3, 8)
	require.NoError(t, err)

	for f := 0; f < m.NumFeatures(); f++ {
		weights, err := m.FeatureVector(f)
		require.NoError(t, err)
		sig, err := signature.Extract(m.Genes, weights, 2.5, signature.ModeDualSided)
		require.NoError(t, err)

		planted := 0
		for g, w := range weights {
			if w == 10 {
				planted++
				assert.True(t, sig.Positive.Contains(m.Genes[g]),
					"planted gene %s missing from feature %d signature", m.Genes[g], f)
			}
		}
		assert.Equal(t, 8, planted)
	}
}

func TestKit_Deterministic(t *testing.T) {
	genes := NewKit(3).Genes(50)

	a, err := NewKit(3).PlantedMatrix("m", genes, 2, 5)
	require.NoError(t, err)
	b, err := NewKit(3).PlantedMatrix("m", genes, 2, 5)
	require.NoError(t, err)

	assert.Equal(t, a.Features, b.Features)
}

func TestWriteDataset_RoundTripsThroughReader(t *testing.T) {
	dir := t.TempDir()
	ds, err := NewKit(11).WriteDataset(dir, 2, 40, 3, 4, 6)
	require.NoError(t, err)

	reader := tsv.NewReader()

	defs, err := reader.ReadDefinitions(ds.DefinitionsPath)
	require.NoError(t, err)
	assert.Equal(t, 10, defs.Len())

	genes, err := reader.ReadGeneList(ds.GenesPath)
	require.NoError(t, err)
	assert.Len(t, genes, 40)

	m, err := reader.ReadWeightMatrix(ds.ModelsDir+"/model_01.tsv", nil)
	require.NoError(t, err)
	assert.Equal(t, 40, m.NumGenes())
	assert.Equal(t, 3, m.NumFeatures())
}
