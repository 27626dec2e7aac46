package content

import (
	"context"
	"testing"

	"github.com/mathnotes-io/mathnotes/internal/tier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadEmbedded(t *testing.T) *Store {
	t.Helper()
	s, err := Load(context.Background(), Embedded())
	require.NoError(t, err)
	return s
}

func noteIDs(notes []Note) []string {
	ids := make([]string, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.ID)
	}
	return ids
}

func videoIDs(videos []Video) []string {
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	return ids
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New(nil, []Note{{ID: "a"}, {ID: "a"}}, nil)
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = New([]Category{{ID: "c"}, {ID: "c"}}, nil, nil)
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = New(nil, nil, []Video{{ID: "v"}, {ID: "v"}})
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = New(nil, []Note{{ID: "a", Tier: tier.Tier(9)}}, nil)
	assert.ErrorIs(t, err, tier.ErrUnknownTier)
}

func TestNewClearsPreviewLimitOnFreeNotes(t *testing.T) {
	s, err := New(nil, []Note{
		{ID: "free", Tier: tier.Free, PreviewParagraphLimit: 4},
		{ID: "neg", Tier: tier.Premium, PreviewParagraphLimit: -2},
		{ID: "paid", Tier: tier.Supporter, PreviewParagraphLimit: 3},
	}, nil)
	require.NoError(t, err)

	n, _ := s.GetByID("free")
	assert.Zero(t, n.PreviewParagraphLimit)
	n, _ = s.GetByID("neg")
	assert.Zero(t, n.PreviewParagraphLimit)
	n, _ = s.GetByID("paid")
	assert.Equal(t, 3, n.PreviewParagraphLimit)
}

func TestGetByID(t *testing.T) {
	s := loadEmbedded(t)

	n, ok := s.GetByID("group-homomorphisms")
	require.True(t, ok)
	assert.Equal(t, "Group Homomorphisms", n.Title)
	assert.Equal(t, tier.Premium, n.Tier)
	assert.Equal(t, 2, n.PreviewParagraphLimit)

	_, ok = s.GetByID("does-not-exist")
	assert.False(t, ok)
}

func TestListByCategory(t *testing.T) {
	s := loadEmbedded(t)

	assert.Equal(t, []string{"fundamental-theorem-calculus"}, noteIDs(s.ListByCategory("calculus")))
	assert.Equal(t, []string{"uniform-convergence"}, noteIDs(s.ListByCategory("real-analysis")))

	unknown := s.ListByCategory("topology")
	assert.NotNil(t, unknown)
	assert.Empty(t, unknown)
}

func TestSearch(t *testing.T) {
	s := loadEmbedded(t)

	assert.Equal(t, []string{"fundamental-theorem-calculus"}, noteIDs(s.Search("calculus")))
	assert.Equal(t, []string{"fundamental-theorem-calculus", "central-limit-theorem"}, noteIDs(s.Search("THEOREM")))
	// tag-only match
	assert.Equal(t, []string{"central-limit-theorem"}, noteIDs(s.Search("clt")))
	assert.Empty(t, s.Search("zzz"))
}

func TestSearchEmptyQueryReturnsCatalog(t *testing.T) {
	s := loadEmbedded(t)
	assert.Equal(t, noteIDs(s.Notes()), noteIDs(s.Search("")))
	assert.Len(t, s.Search(""), 6)
}

func TestFilterNotes(t *testing.T) {
	s := loadEmbedded(t)

	assert.Len(t, s.FilterNotes("", ""), 6)
	assert.Equal(t, []string{"central-limit-theorem"}, noteIDs(s.FilterNotes("probability-statistics", "theorem")))
	assert.Empty(t, s.FilterNotes("linear-algebra", "theorem"))
}

func TestRecent(t *testing.T) {
	s := loadEmbedded(t)

	assert.Equal(t, []string{"fundamental-theorem-calculus", "eigenvalues-eigenvectors"}, noteIDs(s.Recent(2)))
	assert.Len(t, s.Recent(100), 6)
	assert.Empty(t, s.Recent(0))
}

func TestResultsAreCopies(t *testing.T) {
	s := loadEmbedded(t)

	n, _ := s.GetByID("central-limit-theorem")
	n.Tags[0] = "mutated"
	n.Title = "mutated"

	again, _ := s.GetByID("central-limit-theorem")
	assert.Equal(t, "statistics", again.Tags[0])
	assert.Equal(t, "The Central Limit Theorem", again.Title)

	list := s.Notes()
	list[0].Tags[0] = "mutated"
	assert.NotEqual(t, "mutated", s.Notes()[0].Tags[0])
}

func TestCategories(t *testing.T) {
	s := loadEmbedded(t)

	cats := s.Categories()
	require.Len(t, cats, 6)
	assert.Equal(t, "calculus", cats[0].ID)
	assert.Equal(t, "∫", cats[0].Icon)

	assert.Equal(t, "Probability & Statistics", s.CategoryName("probability-statistics"))
	assert.Equal(t, "topology", s.CategoryName("topology"))
	assert.Equal(t, 1, s.NoteCount("abstract-algebra"))
	assert.Zero(t, s.NoteCount("topology"))
}

func TestVideos(t *testing.T) {
	s := loadEmbedded(t)

	require.Len(t, s.Videos(), 5)

	v, ok := s.VideoByID("fourier-series")
	require.True(t, ok)
	assert.Equal(t, "example3", v.ExternalReference)
	assert.Equal(t, "22:15", v.DurationLabel)

	assert.Equal(t, []string{"eulers-identity", "complex-analysis-intro"}, videoIDs(s.VideosByCategory("calculus")))
	assert.Equal(t, []string{"fourier-series"}, videoIDs(s.SearchVideos("periodic")))
	assert.Equal(t, []string{"eulers-identity"}, videoIDs(s.FilterVideos("calculus", "euler")))
}

func TestRelatedVideos(t *testing.T) {
	s := loadEmbedded(t)

	assert.Equal(t, []string{"complex-analysis-intro"}, videoIDs(s.RelatedVideos("eulers-identity", 4)))
	assert.Empty(t, s.RelatedVideos("fourier-series", 4))
	assert.Empty(t, s.RelatedVideos("missing", 4))
	assert.Empty(t, s.RelatedVideos("eulers-identity", 0))
}
