package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssSample = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Acme Jobs</title>
    <item>
      <guid>job-1</guid>
      <title>Platform Engineer</title>
      <link>https://acme.example/jobs/1</link>
      <description>&lt;p&gt;Kubernetes   and &lt;b&gt;Terraform&lt;/b&gt;&lt;/p&gt;</description>
    </item>
    <item>
      <title> SRE </title>
      <link>https://acme.example/jobs/2</link>
      <description>plain text</description>
    </item>
  </channel>
</rss>`

const atomSample = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Example Board</title>
  <entry>
    <id>tag:example,2026:entry-1</id>
    <title>Backend Developer</title>
    <link rel="alternate" href="https://board.example/jobs/9"/>
    <summary>Go and Postgres</summary>
  </entry>
</feed>`

func TestParseRSS(t *testing.T) {
	f, err := Parse([]byte(rssSample))
	require.NoError(t, err)

	assert.Equal(t, "Acme Jobs", f.Title)
	require.Len(t, f.Items, 2)
	assert.Equal(t, "job-1", f.Items[0].GUID)
	assert.Equal(t, "Platform Engineer", f.Items[0].Title)
	assert.Equal(t, "https://acme.example/jobs/1", f.Items[0].Link)
	assert.Equal(t, "Kubernetes and Terraform", f.Items[0].Description)
	assert.Equal(t, "SRE", f.Items[1].Title)
}

func TestParseAtom(t *testing.T) {
	f, err := Parse([]byte(atomSample))
	require.NoError(t, err)

	assert.Equal(t, "Example Board", f.Title)
	require.Len(t, f.Items, 1)
	assert.Equal(t, "Backend Developer", f.Items[0].Title)
	assert.Equal(t, "https://board.example/jobs/9", f.Items[0].Link)
	assert.Equal(t, "Go and Postgres", f.Items[0].Description)
}

func TestParseUnsupportedRoot(t *testing.T) {
	_, err := Parse([]byte(`<?xml version="1.0"?><html></html>`))
	assert.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	_, err := Parse([]byte("not xml at all"))
	assert.Error(t, err)
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "plain", StripHTML("  plain "))
	assert.Equal(t, "a b", StripHTML("<div><p>a</p><p>b</p></div>"))
}
