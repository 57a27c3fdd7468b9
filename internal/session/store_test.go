package session

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/storefront-catalog/internal/catalog"
	"github.com/Lixing-Zhang/storefront-catalog/internal/page"
	"github.com/Lixing-Zhang/storefront-catalog/web"
)

func newTestStore(t testing.TB, debounce time.Duration) *Store {
	t.Helper()

	opts := catalog.DefaultOptions()
	opts.SearchDebounce = debounce
	return NewStore(web.CatalogPage, page.DefaultSelectors(), opts, 30*time.Minute,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func visibleCount(t testing.TB, s *Session) int {
	t.Helper()

	out, err := s.HTML()
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	return doc.Find(".product-item").Not(".hidden").Length()
}

func TestStore_CreateAndGet(t *testing.T) {
	st := newTestStore(t, time.Millisecond)

	s, err := st.Create(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 1, st.Len())

	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	state := s.Filter().State()
	assert.Equal(t, catalog.DefaultInitialCategory, state.ActiveCategory)
	assert.Equal(t, 3, visibleCount(t, s))

	_, err = st.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_CreateHonoursContext(t *testing.T) {
	st := newTestStore(t, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.Create(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, st.Len())
}

func TestStore_CreateIgnoresPrefilledSearch(t *testing.T) {
	prefilled := strings.Replace(string(web.CatalogPage),
		`name="q" type="search" placeholder="Leita að vörum..." value=""`,
		`name="q" type="search" placeholder="Leita að vörum..." value="pensl"`, 1)
	require.NotEqual(t, string(web.CatalogPage), prefilled)

	st := NewStore([]byte(prefilled), page.DefaultSelectors(), catalog.DefaultOptions(), 30*time.Minute,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	s, err := st.Create(context.Background())
	require.NoError(t, err)

	assert.Empty(t, s.Filter().State().SearchTerm)
	assert.Equal(t, 3, visibleCount(t, s))

	out, err := s.HTML()
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	value, _ := doc.Find("#product-search").Attr("value")
	assert.Empty(t, value)
}

func TestStore_SessionsAreIndependent(t *testing.T) {
	st := newTestStore(t, time.Millisecond)

	a, err := st.Create(context.Background())
	require.NoError(t, err)
	b, err := st.Create(context.Background())
	require.NoError(t, err)

	a.Filter().SetCategory("penslar")
	b.Filter().SetCategory("all")

	assert.Equal(t, 2, visibleCount(t, a))
	assert.Equal(t, 10, visibleCount(t, b))
}

func TestSession_SetSearch(t *testing.T) {
	st := newTestStore(t, 10*time.Millisecond)

	s, err := st.Create(context.Background())
	require.NoError(t, err)
	s.Filter().SetCategory("all")

	s.SetSearch("Olíu")
	require.Eventually(t, func() bool {
		return s.Filter().State().SearchTerm == "olíu"
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, visibleCount(t, s))

	out, err := s.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, `value="Olíu"`)
}

func TestSession_ConcurrentUse(t *testing.T) {
	st := newTestStore(t, time.Millisecond)

	s, err := st.Create(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, c := range []string{"penslar", "málning", "all"} {
				s.Filter().SetCategory(c)
				s.SetSearch("l")
				_, _ = s.HTML()
				_, _ = s.Grid()
			}
		}()
	}
	wg.Wait()

	s.Filter().Flush()
	assert.Equal(t, "l", s.Filter().State().SearchTerm)
}

func TestStore_Delete(t *testing.T) {
	st := newTestStore(t, time.Hour)

	s, err := st.Create(context.Background())
	require.NoError(t, err)
	s.SetSearch("pensl")

	require.NoError(t, st.Delete(s.ID))
	assert.False(t, s.Filter().Flush(), "pending search is cancelled")
	assert.ErrorIs(t, st.Delete(s.ID), ErrSessionNotFound)
	assert.Equal(t, 0, st.Len())
}

func TestStore_Sweep(t *testing.T) {
	st := newTestStore(t, time.Millisecond)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	stale, err := st.Create(context.Background())
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	fresh, err := st.Create(context.Background())
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, st.Sweep())

	_, err = st.Get(stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = st.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestStore_Run(t *testing.T) {
	st := newTestStore(t, time.Millisecond)
	st.ttl = time.Nanosecond

	_, err := st.Create(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		st.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return st.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
