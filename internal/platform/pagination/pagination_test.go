package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Page
	}{
		{name: "defaults", query: "", want: Page{Limit: DefaultLimit}},
		{name: "explicit", query: "limit=5&offset=20", want: Page{Limit: 5, Offset: 20}},
		{name: "clamped", query: "limit=1000&offset=-3", want: Page{Limit: MaxLimit}},
		{name: "garbage", query: "limit=abc&offset=x", want: Page{Limit: DefaultLimit}},
		{name: "huge offset", query: "limit=100&offset=9223372036854775807", want: Page{Limit: MaxLimit, Offset: MaxOffset}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FromQuery(q))
		})
	}
}

func TestNewEnvelopeLinks(t *testing.T) {
	base, err := url.Parse("http://api.test/api/v1/titles/?genre=drama")
	require.NoError(t, err)

	env := NewEnvelope(base, Page{Limit: 2, Offset: 2}, 5, []int{3, 4})
	require.NotNil(t, env.Next)
	require.NotNil(t, env.Previous)
	assert.Equal(t, "http://api.test/api/v1/titles/?genre=drama&limit=2&offset=4", *env.Next)
	assert.Equal(t, "http://api.test/api/v1/titles/?genre=drama&limit=2", *env.Previous)
	assert.Equal(t, int64(5), env.Count)

	last := NewEnvelope(base, Page{Limit: 2, Offset: 4}, 5, []int{5})
	assert.Nil(t, last.Next)

	empty := NewEnvelope[int](nil, Page{}, 0, nil)
	assert.NotNil(t, empty.Results)
	assert.Nil(t, empty.Next)
	assert.Nil(t, empty.Previous)
}

func TestEnvelopeHugeOffset(t *testing.T) {
	base, err := url.Parse("http://example.com/api/v1/titles/")
	require.NoError(t, err)

	env := NewEnvelope(base, Page{Limit: MaxLimit, Offset: int(^uint(0) >> 1)}, 5, []int{})
	assert.Nil(t, env.Next)
	require.NotNil(t, env.Previous)
	assert.Contains(t, *env.Previous, "offset=2147483547")
}
