package api

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBase(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := ParseBaseURL(raw)
	require.NoError(t, err)
	return u
}

func TestBuildURL_DropsUndefinedValues(t *testing.T) {
	base := mustBase(t, "https://api.example.com")

	var categoryID *int
	got := BuildURL(base, "/articles", Params{"limit": 6, "category_id": categoryID})
	assert.Equal(t, "https://api.example.com/articles?limit=6", got)
}

func TestBuildURL_FiltersNilAndEmpty(t *testing.T) {
	base := mustBase(t, "https://api.example.com/v1")

	got := BuildURL(base, "forums", Params{
		"a": nil,
		"b": "",
		"c": "x y",
		"d": true,
		"e": 2.5,
		"f": uint(7),
	})
	parsed, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/v1/forums", parsed.Path)

	q := parsed.Query()
	assert.NotContains(t, q, "a")
	assert.NotContains(t, q, "b")
	assert.Equal(t, "x y", q.Get("c"))
	assert.Equal(t, "true", q.Get("d"))
	assert.Equal(t, "2.5", q.Get("e"))
	assert.Equal(t, "7", q.Get("f"))
}

func TestBuildURL_NoQueryWhenEverythingFiltered(t *testing.T) {
	base := mustBase(t, "https://api.example.com")
	empty := ""

	got := BuildURL(base, "/songs", Params{"q": &empty, "genre": nil})
	assert.Equal(t, "https://api.example.com/songs", got)

	assert.Equal(t, "https://api.example.com/songs", BuildURL(base, "/songs", nil))
}

func TestBuildURL_DereferencesPointersAndTimes(t *testing.T) {
	base := mustBase(t, "https://api.example.com")
	page := 3
	since := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	got := BuildURL(base, "/mood", Params{"page": &page, "since": since, "until": time.Time{}})
	assert.Equal(t, "https://api.example.com/mood?page=3&since=2026-01-02T03%3A04%3A05Z", got)
}

func TestBuildURL_IsDeterministic(t *testing.T) {
	base := mustBase(t, "https://api.example.com")
	params := Params{"z": 1, "a": "b", "m": false}

	first := BuildURL(base, "/x", params)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, BuildURL(base, "/x", params))
	}
	assert.Equal(t, "https://api.example.com/x?a=b&m=false&z=1", first)
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := ParseBaseURL("")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "127.0.0.1:8080", u.Host)
	assert.Equal(t, "/api", u.Path)

	u, err = ParseBaseURL("https://example.com:1234/api/v2/?x=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com:1234/api/v2", u.String())

	u, err = ParseBaseURL("10.0.0.5:9000")
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9000", u.String())

	_, err = ParseBaseURL("http://")
	assert.Error(t, err)
}
