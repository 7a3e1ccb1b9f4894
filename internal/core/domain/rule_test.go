package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRule(t *testing.T) *Rule {
	t.Helper()
	tmpl, err := ParseNameTemplate("pdf", "{datetime} {producer}.{extension}")
	require.NoError(t, err)
	return &Rule{
		Description:  "PDF documents",
		RankingBias:  DefaultRankingBias,
		TemplateName: "pdf",
		Template:     tmpl,
		Conditions: []RuleCondition{
			{URI: MustParseURI("extractor.filesystem.xplat.mime_type"), Expression: "application/pdf"},
		},
		DataSources: []DataSource{
			{Field: FieldProducer, URIs: []DataURI{MustParseURI("extractor.metadata.exiftool.PDF:Producer")}},
			{Field: FieldTitle},
		},
	}
}

func TestRule_Validate(t *testing.T) {
	r := testRule(t)
	assert.NoError(t, r.Validate())

	r.RankingBias = 1.5
	assert.ErrorIs(t, r.Validate(), ErrInvalidInput)

	r = testRule(t)
	r.Template = NameTemplate{}
	assert.ErrorIs(t, r.Validate(), ErrInvalidInput)

	r = testRule(t)
	r.Conditions = append(r.Conditions, RuleCondition{})
	assert.ErrorIs(t, r.Validate(), ErrBadURI)
}

func TestRule_DataSources(t *testing.T) {
	r := testRule(t)

	assert.Equal(t, 1, r.NumDataSources())
	assert.Len(t, r.SourcesFor(FieldProducer), 1)
	assert.Nil(t, r.SourcesFor(FieldAuthor))
	assert.Equal(t, "PDF documents", r.String())
}

func TestRuleCondition_String(t *testing.T) {
	c := RuleCondition{URI: MustParseURI("generic.metadata.title"), Expression: "*"}
	assert.Equal(t, "generic.metadata.title: *", c.String())
}
