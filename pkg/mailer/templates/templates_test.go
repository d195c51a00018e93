package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Welcome(t *testing.T) {
	b := Branding{CompanyName: "Dorpsplein", UnsubscribeURL: "https://dorpsplein.test/afmelden"}
	subject, text, html, err := Render("welcome", b, map[string]any{
		"Name":       "Janneke",
		"WelcomeURL": "https://dorpsplein.test/welkom",
	})
	require.NoError(t, err)
	assert.Equal(t, "Welkom bij Dorpsplein", subject)
	assert.Contains(t, text, "Janneke")
	assert.Contains(t, html, "Janneke")
	assert.Contains(t, html, "https://dorpsplein.test/welkom")
	assert.Contains(t, html, "Afmelden voor e-mails")
}

func TestRender_EscapesUserContent(t *testing.T) {
	_, _, html, err := Render("new_message", Branding{CompanyName: "Dorpsplein"}, map[string]any{
		"Name": "Piet",
		"From": "<script>alert(1)</script>",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")

	// Listing titles are seller input and must be escaped too.
	_, _, html, err = Render("new_order", Branding{CompanyName: "Dorpsplein"}, map[string]any{
		"Name":         "Janneke",
		"ListingTitle": `<img src=x onerror=alert(1)>`,
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<img src=x")
	assert.Contains(t, html, "&lt;img")
}

func TestRender_UnknownEventFallsBack(t *testing.T) {
	subject, text, html, err := Render("something_else", Branding{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Notificatie", subject)
	assert.NotEmpty(t, text)
	assert.NotEmpty(t, html)
}

func TestSubjectPerEvent(t *testing.T) {
	assert.Equal(t, "Je hebt een nieuw bericht", Subject("new_message", nil))
	assert.Equal(t, "Nieuwe bestelling ontvangen", Subject("new_order", nil))
	assert.Equal(t, "Update over je bestelling", Subject("order_update", nil))
	assert.Equal(t, "Je hebt een nieuwe volger", Subject("new_follower", nil))
}
