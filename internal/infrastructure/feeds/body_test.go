package feeds

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gittles17/newshooks/internal/domain"
)

const articlePage = `<html><body>
<article>
<p>The first paragraph carries enough text to be worth keeping around.</p>
<p>ok</p>
<p>The second paragraph also clears the minimum length threshold easily.</p>
</article>
<p>Footer boilerplate outside the article that should not be extracted here.</p>
</body></html>`

func TestEnrich(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			http.Error(w, "gone", http.StatusGone)
			return
		}
		io.WriteString(w, articlePage)
	}))
	defer srv.Close()

	candidates := []domain.CandidateArticle{
		{URL: srv.URL + "/story", Title: "good"},
		{URL: srv.URL + "/down", Title: "bad"},
	}

	NewEnricher(srv.Client(), testLogger()).Enrich(context.Background(), candidates)

	body := candidates[0].Body
	if !strings.Contains(body, "first paragraph") || !strings.Contains(body, "second paragraph") {
		t.Fatalf("expected article paragraphs in body, got %q", body)
	}
	if strings.Contains(body, "ok") {
		t.Fatalf("short paragraph should be filtered, got %q", body)
	}
	if strings.Contains(body, "Footer boilerplate") {
		t.Fatalf("only the first matching selector should contribute, got %q", body)
	}

	if candidates[1].Body != "" {
		t.Fatalf("failed fetch should leave body empty, got %q", candidates[1].Body)
	}
}
