package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToTextPlain(t *testing.T) {
	assert.Equal(t, "just words", ToText("just words", 80))
	assert.Equal(t, "", ToText("", 80))
}

func TestToTextWraps(t *testing.T) {
	out := ToText("one two three four five", 9)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), 9)
	}
	assert.Equal(t, "one two three four five", strings.ReplaceAll(out, "\n", " "))
}

func TestToTextStripsMarkup(t *testing.T) {
	out := ToText("<p>hello <i>there</i></p>", 80)
	assert.Equal(t, "hello *there*", out)
}

func TestToTextAnchorURL(t *testing.T) {
	out := ToText(`see <a href="https://example.com">this</a>`, 200)
	assert.Contains(t, out, "this")
	assert.Contains(t, out, "https://example.com")
}

func TestToTextEntities(t *testing.T) {
	assert.Equal(t, "it’s \"fine\"", ToText("it&rsquo;s &quot;fine&quot;", 80))
}

func TestTimeAgo(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "30s", TimeAgo(now.Add(-30*time.Second)))
	assert.Equal(t, "5m", TimeAgo(now.Add(-5*time.Minute)))
	assert.Equal(t, "3h", TimeAgo(now.Add(-3*time.Hour)))
	assert.Equal(t, "2d", TimeAgo(now.Add(-48*time.Hour)))
	assert.Equal(t, "", TimeAgo(time.Time{}))

	old := time.Date(2020, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mar 14, 2020", TimeAgo(old))
}
