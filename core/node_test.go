package core

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNodes(t *testing.T) {
	dump := `[
	  {"divider": true, "label": "January 2024"},
	  {"event": true, "title": "Coffee", "subtitle": "3/1", "amount": "-5,00 €", "canceled": true},
	  {}
	]`

	nodes, err := DecodeNodes(strings.NewReader(dump))
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	assert.True(t, nodes[0].IsDivider())
	assert.Equal(t, "January 2024", nodes[0].DividerLabel())

	assert.True(t, nodes[1].IsEvent())
	assert.Equal(t, "Coffee", nodes[1].Title())
	assert.Equal(t, "3/1", nodes[1].Subtitle())
	assert.Equal(t, "-5,00 €", nodes[1].Amount())
	assert.True(t, nodes[1].Canceled())

	assert.False(t, nodes[2].IsDivider())
	assert.False(t, nodes[2].IsEvent())
}

func TestDecodeNodes_Invalid(t *testing.T) {
	_, err := DecodeNodes(strings.NewReader(`{"divider": true}`))
	assert.Error(t, err)
}

func TestEncodeNodes_RoundTrip(t *testing.T) {
	in := []TimelineNode{
		DividerNode("This month"),
		EventNode("Savings Plan", "15/12 - Saving executed", "50,00 €"),
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeNodes(&buf, in))

	out, err := DecodeNodes(&buf)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, in[0], out[0])
	assert.Equal(t, in[1], out[1])
}

func TestRecord_Fields(t *testing.T) {
	r := Record{Date: "2024-01-03", Title: "Coffee", Amount: "-5", Saving: true}
	assert.Equal(t, []string{"2024-01-03", "Coffee", "-5", "no", "yes"}, r.Fields())
	assert.False(t, r.IsDegenerate())
	assert.True(t, Record{Canceled: true}.IsDegenerate())
}
