package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
)

func TestServer_handlePropose(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the proposed name", func(t *testing.T) {
		naming := &mockNamingService{result: domain.FileResult{
			Kind:     domain.ResultWouldRename,
			Delta:    &domain.FilenameDelta{OldPath: "/docs/scan.pdf", NewBasename: "2020-01-01 Report.pdf"},
			Rule:     "PDF with title",
			Score:    0.8,
			Coverage: 1,
		}}
		server, err := NewServer(&Ports{Naming: naming})
		require.NoError(t, err)

		_, output, err := server.handlePropose(ctx, nil, ProposeInput{Path: "/docs/scan.pdf"})

		require.NoError(t, err)
		assert.Equal(t, []string{"/docs/scan.pdf"}, naming.proposed)
		assert.Equal(t, "would_rename", output.Result)
		assert.Equal(t, "2020-01-01 Report.pdf", output.NewBasename)
		assert.Equal(t, "/docs/2020-01-01 Report.pdf", output.NewPath)
		assert.Equal(t, "PDF with title", output.Rule)
		assert.Equal(t, 0.8, output.Score)
	})

	t.Run("failure reason comes from the error", func(t *testing.T) {
		naming := &mockNamingService{result: domain.FileResult{
			Kind: domain.ResultFailed,
			Err:  errors.New("permission denied"),
		}}
		server, err := NewServer(&Ports{Naming: naming})
		require.NoError(t, err)

		_, output, err := server.handlePropose(ctx, nil, ProposeInput{Path: "/x"})

		require.NoError(t, err)
		assert.Equal(t, "failed", output.Result)
		assert.Equal(t, "permission denied", output.Reason)
		assert.Empty(t, output.NewBasename)
	})

	t.Run("path is required", func(t *testing.T) {
		server, err := NewServer(&Ports{Naming: &mockNamingService{}})
		require.NoError(t, err)

		_, _, err = server.handlePropose(ctx, nil, ProposeInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleInspect(t *testing.T) {
	ctx := context.Background()

	t.Run("returns sorted data", func(t *testing.T) {
		naming := &mockNamingService{bundles: []domain.DataBundle{
			{
				URI: domain.MustParseURI("extractor.filesystem.xplat.size"), Value: int64(42),
				Coercer: domain.IntegerCoercer, Source: "filesystem",
			},
			{
				URI: domain.MustParseURI("extractor.filesystem.xplat.basename_prefix"), Value: "report",
				Coercer: domain.StringCoercer, Source: "filesystem",
				MappedFields: []domain.WeightedFieldMapping{{Field: domain.FieldTitle, Weight: 0.25}},
			},
		}}
		server, err := NewServer(&Ports{Naming: naming})
		require.NoError(t, err)

		_, output, err := server.handleInspect(ctx, nil, InspectInput{Path: "/docs/report.pdf"})

		require.NoError(t, err)
		require.Equal(t, 2, output.Count)
		assert.Equal(t, "extractor.filesystem.xplat.basename_prefix", output.Data[0].URI)
		assert.Equal(t, "report", output.Data[0].Value)
		assert.Equal(t, "string", output.Data[0].Type)
		assert.Equal(t, map[string]float64{"title": 0.25}, output.Data[0].Fields)
		assert.Equal(t, "42", output.Data[1].Value)
		assert.Nil(t, output.Data[1].Fields)
	})

	t.Run("propagates errors", func(t *testing.T) {
		naming := &mockNamingService{err: domain.ErrNotFound}
		server, err := NewServer(&Ports{Naming: naming})
		require.NoError(t, err)

		_, _, err = server.handleInspect(ctx, nil, InspectInput{Path: "/missing"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("path is required", func(t *testing.T) {
		server, err := NewServer(&Ports{Naming: &mockNamingService{}})
		require.NoError(t, err)

		_, _, err = server.handleInspect(ctx, nil, InspectInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
