package restrict

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRestrict_KeepsAllowlistedMarkup(t *testing.T) {
	in := `<p class="note">a <b>b</b> <em>c</em> <u>d</u></p><ul><li>x</li></ul><div><span>y</span><br/></div>`
	assert.Equal(t, in, Restrict(in))
}

func TestRestrict_DropsScriptTags(t *testing.T) {
	got := Restrict(`<p>safe</p><script>alert("x")</script>`)
	assert.Equal(t, "<p>safe</p>", got)
}

func TestRestrict_DropsEventHandlerAttributes(t *testing.T) {
	got := Restrict(`<p onclick="evil()" class="ok">hi</p>`)
	assert.Equal(t, `<p class="ok">hi</p>`, got)
}

func TestRestrict_DropsScriptSchemeLinks(t *testing.T) {
	// Anchors are not allowlisted at all; only their text survives.
	got := Restrict(`<p><a href="javascript:evil()">click</a></p>`)
	assert.Equal(t, "<p>click</p>", got)
}

func TestRestrict_StripsUnknownTagsKeepsText(t *testing.T) {
	got := Restrict(`<article><p>body <marquee>moving</marquee></p></article>`)
	assert.Equal(t, "<p>body moving</p>", got)
}

func TestRestrict_DropsNonClassAttributes(t *testing.T) {
	got := Restrict(`<div id="a" style="color:red" class="keep">x</div>`)
	assert.Equal(t, `<div class="keep">x</div>`, got)
}
