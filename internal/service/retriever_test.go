package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledgeintel/ragserver/internal/domain"
	"github.com/knowledgeintel/ragserver/internal/port"
)

func TestAdaptiveThreshold(t *testing.T) {
	tests := []struct {
		query string
		base  float64
		want  float64
	}{
		{"leave policy", 0.7, 0.55},                                    // 2 words
		{"a b c d e", 0.7, 0.65},                                      // 5 words
		{"what is the process for requesting annual leave", 0.7, 0.7}, // 8 words
		{"hi", 0.5, 0.4},        // clamped at the short-query floor
		{"a b c d", 0.5, 0.5},   // clamped at the medium-query floor
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, adaptiveThreshold(tt.query, tt.base), 1e-9, "query %q", tt.query)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	r := NewRetriever(newFakeEmbedder(4), &fakeVectorStore{})

	_, err := r.Search(context.Background(), "   ", "Employee", 0, 0)
	assert.ErrorIs(t, err, port.ErrInvalidArgument)
}

func TestSearch_UnknownRoleCoercesToEmployee(t *testing.T) {
	store := &fakeVectorStore{}
	r := NewRetriever(newFakeEmbedder(4), store)

	_, err := r.Search(context.Background(), "what is the leave policy", "root", 0, 0)
	require.NoError(t, err)
	asEmployee := store.lastRole

	_, err = r.Search(context.Background(), "what is the leave policy", "Employee", 0, 0)
	require.NoError(t, err)

	assert.Equal(t, domain.RoleEmployee, asEmployee)
	assert.Equal(t, store.lastRole, asEmployee)
}

func TestSearch_DefaultsAndAdaptedThresholdReachStore(t *testing.T) {
	store := &fakeVectorStore{}
	r := NewRetriever(newFakeEmbedder(4), store)

	_, err := r.Search(context.Background(), "leave policy", "HR", 0, 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultTopK, store.lastCount)
	assert.InDelta(t, 0.55, store.lastThreshold, 1e-9) // 0.7 adapted for a 2-word query
	assert.Equal(t, domain.RoleHR, store.lastRole)
}

func TestSearch_EmptyResultIsNotAnError(t *testing.T) {
	r := NewRetriever(newFakeEmbedder(4), &fakeVectorStore{})

	result, err := r.Search(context.Background(), "question with no matches at all", "Admin", 5, 0.7)
	require.NoError(t, err)
	assert.Equal(t, "", result.Context)
	assert.Empty(t, result.Sources)
	assert.Zero(t, result.Count)
}

func TestSearch_BuildsContextAndSources(t *testing.T) {
	store := &fakeVectorStore{rows: []domain.MatchedDocument{
		{Content: "  Annual leave is 25 days.  ", Filename: "handbook.pdf", PageNumber: 3, DocType: domain.DocTypePublic, Similarity: 0.87654},
		{Content: "Carry-over needs approval.", Filename: "policies.pdf", PageNumber: 12, DocType: domain.DocTypeHR, Similarity: 0.7012},
	}}
	r := NewRetriever(newFakeEmbedder(4), store)

	result, err := r.Search(context.Background(), "how many days of annual leave do I get", "HR", 5, 0.7)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	assert.Equal(t,
		"[Source 1: handbook.pdf | Page 3]\nAnnual leave is 25 days.\n\n"+
			"[Source 2: policies.pdf | Page 12]\nCarry-over needs approval.",
		result.Context)

	require.Len(t, result.Sources, 2)
	assert.Equal(t, domain.Source{Filename: "handbook.pdf", Page: 3, Similarity: 0.877, DocType: domain.DocTypePublic}, result.Sources[0])
	assert.Equal(t, domain.Source{Filename: "policies.pdf", Page: 12, Similarity: 0.701, DocType: domain.DocTypeHR}, result.Sources[1])
}

func TestSearch_CollaboratorFailuresWrap(t *testing.T) {
	embedder := newFakeEmbedder(4)
	embedder.embedErr = errors.New("connection refused")
	r := NewRetriever(embedder, &fakeVectorStore{})

	_, err := r.Search(context.Background(), "leave policy details", "Employee", 0, 0)
	assert.ErrorIs(t, err, port.ErrRetrievalFailed)

	store := &fakeVectorStore{searchErr: errors.New("db down")}
	r = NewRetriever(newFakeEmbedder(4), store)

	_, err = r.Search(context.Background(), "leave policy details", "Employee", 0, 0)
	assert.ErrorIs(t, err, port.ErrRetrievalFailed)
}

func TestSearch_QueryDimensionValidated(t *testing.T) {
	embedder := newFakeEmbedder(4)
	embedder.vectorLen = 3 // provider misbehaves
	r := NewRetriever(embedder, &fakeVectorStore{})

	_, err := r.Search(context.Background(), "leave policy details", "Employee", 0, 0)
	assert.ErrorIs(t, err, port.ErrDimensionMismatch)
}
