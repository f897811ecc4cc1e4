package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!doctype html>
<html><head><title> Cell biology </title></head>
<body data-sid="s1">
<form class="duration-form"><input type="range" name="minutes" value="45"></form>
<section class="block" id="b1" data-minutes="20">
  <h2>Membranes</h2>
  <ul><li>Lipid   bilayer</li><li></li><li>Channels</li></ul>
</section>
<section class="block" data-minutes="5"><h2>No id</h2></section>
<section class="block covered" id="b2" data-minutes="10"><h3>Organelles</h3></section>
<section class="other" id="x"><h2>Not a block</h2></section>
<section class="block" id="b3"></section>
</body></html>`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(samplePage))
	require.NoError(t, err)

	assert.Equal(t, "s1", doc.SessionID)
	assert.Equal(t, "Cell biology", doc.Name)
	assert.Equal(t, 45, doc.DurationMinutes)
	require.Len(t, doc.Blocks, 3)

	assert.Equal(t, Block{ID: "b1", Title: "Membranes", Minutes: 20, Notes: []string{"Lipid bilayer", "Channels"}}, doc.Blocks[0])
	assert.Equal(t, "b2", doc.Blocks[1].ID)
	assert.True(t, doc.Blocks[1].Covered)
	assert.Equal(t, "Organelles", doc.Blocks[1].Title)
	assert.Equal(t, "b3", doc.Blocks[2].Title)
}

func TestParseDocumentDurationFallbacks(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(`<body>
<section class="block" id="a" data-minutes="7"></section>
<section class="block" id="b" data-minutes="8"></section></body>`))
	require.NoError(t, err)
	assert.Equal(t, 15, doc.DurationMinutes)

	doc, err = ParseDocument(strings.NewReader(`<body><p>nothing here</p></body>`))
	require.NoError(t, err)
	assert.Empty(t, doc.Blocks)
	assert.Equal(t, 30, doc.DurationMinutes)
}

func TestParseDocumentIgnoresRangeOutsideDurationForm(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(`<body>
<input type="range" value="99">
<section class="block" id="a" data-minutes="12"></section></body>`))
	require.NoError(t, err)
	assert.Equal(t, 12, doc.DurationMinutes)
}

func TestOptionLetter(t *testing.T) {
	assert.Equal(t, "A", OptionLetter(0))
	assert.Equal(t, "Z", OptionLetter(25))
	assert.Equal(t, "AA", OptionLetter(26))
	assert.Equal(t, "AB", OptionLetter(27))
	assert.Equal(t, "BA", OptionLetter(52))
}

func TestParseDocumentPins(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(`<body data-sid="s1">
<aside class="pins"><p class="pin">Newest  pin</p><p class="pin"> </p><p class="pin">Older pin</p></aside>
<section class="block" id="a"><h2>A</h2><ul><li>note</li></ul></section></body>`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Newest pin", "Older pin"}, doc.Pins)
	assert.Equal(t, []string{"note"}, doc.Blocks[0].Notes)
}
