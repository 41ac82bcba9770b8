package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VyankateshKedar/sparkAppBackend/internal/model"
	"github.com/VyankateshKedar/sparkAppBackend/internal/repository"
)

type fakeLinkStore struct {
	links        map[int64]*model.Link
	nextID       int64
	nextPosition int
	collideFirst int // that many ShortCodeExists calls report a collision
	codeChecks   int
	reordered    []model.LinkOrder
}

func newFakeLinkStore() *fakeLinkStore {
	return &fakeLinkStore{links: map[int64]*model.Link{}, nextID: 1}
}

func (f *fakeLinkStore) CreateLink(_ context.Context, link *model.Link) error {
	link.ID = f.nextID
	f.nextID++
	cp := *link
	f.links[link.ID] = &cp
	return nil
}

func (f *fakeLinkStore) GetLinkByID(_ context.Context, id int64) (*model.Link, error) {
	link, ok := f.links[id]
	if !ok {
		return nil, repository.ErrLinkNotFound
	}
	cp := *link
	return &cp, nil
}

func (f *fakeLinkStore) GetLinkByShortCode(_ context.Context, code string) (*model.Link, error) {
	for _, link := range f.links {
		if link.ShortCode == code {
			cp := *link
			return &cp, nil
		}
	}
	return nil, repository.ErrLinkNotFound
}

func (f *fakeLinkStore) GetLinkForUser(_ context.Context, id, userID int64) (*model.Link, error) {
	link, ok := f.links[id]
	if !ok || link.UserID != userID {
		return nil, repository.ErrLinkNotFound
	}
	cp := *link
	return &cp, nil
}

func (f *fakeLinkStore) ListLinksByUser(_ context.Context, userID int64, activeOnly bool) ([]model.Link, error) {
	var out []model.Link
	for _, link := range f.links {
		if link.UserID != userID {
			continue
		}
		if activeOnly && !link.IsActive {
			continue
		}
		out = append(out, *link)
	}
	return out, nil
}

func (f *fakeLinkStore) UpdateLink(_ context.Context, link *model.Link) error {
	if _, ok := f.links[link.ID]; !ok {
		return repository.ErrLinkNotFound
	}
	cp := *link
	f.links[link.ID] = &cp
	return nil
}

func (f *fakeLinkStore) DeleteLink(_ context.Context, id, userID int64) error {
	link, ok := f.links[id]
	if !ok || link.UserID != userID {
		return repository.ErrLinkNotFound
	}
	delete(f.links, id)
	return nil
}

func (f *fakeLinkStore) ShortCodeExists(context.Context, string) (bool, error) {
	f.codeChecks++
	return f.codeChecks <= f.collideFirst, nil
}

func (f *fakeLinkStore) NextLinkPosition(context.Context, int64) (int, error) {
	return f.nextPosition, nil
}

func (f *fakeLinkStore) ReorderLinks(_ context.Context, userID int64, orders []model.LinkOrder) error {
	for _, o := range orders {
		link, ok := f.links[o.ID]
		if !ok || link.UserID != userID {
			return repository.ErrLinkNotFound
		}
	}
	for _, o := range orders {
		f.links[o.ID].Position = o.Position
	}
	f.reordered = orders
	return nil
}

type fakeLinkCache struct {
	byCode map[string]*model.Link
	getErr error
	sets   int
	evicts []string
}

func newFakeLinkCache() *fakeLinkCache {
	return &fakeLinkCache{byCode: map[string]*model.Link{}}
}

func (f *fakeLinkCache) GetLink(_ context.Context, code string) (*model.Link, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.byCode[code], nil
}

func (f *fakeLinkCache) SetLink(_ context.Context, link *model.Link) error {
	f.sets++
	f.byCode[link.ShortCode] = link
	return nil
}

func (f *fakeLinkCache) DeleteLink(_ context.Context, code string) error {
	f.evicts = append(f.evicts, code)
	delete(f.byCode, code)
	return nil
}

func TestLinkCreateAssignsCodeAndPosition(t *testing.T) {
	store := newFakeLinkStore()
	store.nextPosition = 3
	svc := NewLinkService(store, newFakeLinkCache(), 7)

	link, err := svc.Create(context.Background(), 7, &model.CreateLinkRequest{
		Title: "Blog",
		URL:   "https://blog.example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), link.UserID)
	assert.Equal(t, 3, link.Position)
	assert.True(t, link.IsActive)
	assert.Len(t, link.ShortCode, 7)
}

func TestLinkCreateHonorsExplicitPosition(t *testing.T) {
	store := newFakeLinkStore()
	store.nextPosition = 9
	svc := NewLinkService(store, newFakeLinkCache(), 7)

	pos := 1
	link, err := svc.Create(context.Background(), 7, &model.CreateLinkRequest{
		Title:    "Blog",
		URL:      "https://blog.example.com",
		Position: &pos,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, link.Position)
}

func TestLinkCreateRetriesOnCodeCollision(t *testing.T) {
	store := newFakeLinkStore()
	store.collideFirst = 2
	svc := NewLinkService(store, newFakeLinkCache(), 7)

	link, err := svc.Create(context.Background(), 7, &model.CreateLinkRequest{
		Title: "Blog",
		URL:   "https://blog.example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, link.ShortCode)
	assert.Equal(t, 3, store.codeChecks)
}

func TestLinkCreateGivesUpAfterMaxAttempts(t *testing.T) {
	store := newFakeLinkStore()
	store.collideFirst = maxCodeAttempts
	svc := NewLinkService(store, newFakeLinkCache(), 7)

	_, err := svc.Create(context.Background(), 7, &model.CreateLinkRequest{
		Title: "Blog",
		URL:   "https://blog.example.com",
	})
	assert.Error(t, err)
}

func TestLinkUpdateAppliesPartialChanges(t *testing.T) {
	store := newFakeLinkStore()
	cache := newFakeLinkCache()
	svc := NewLinkService(store, cache, 7)

	link, err := svc.Create(context.Background(), 7, &model.CreateLinkRequest{
		Title: "Blog",
		URL:   "https://blog.example.com",
	})
	require.NoError(t, err)

	title := "My Blog"
	inactive := false
	updated, err := svc.Update(context.Background(), 7, link.ID, &model.UpdateLinkRequest{
		Title:    &title,
		IsActive: &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "My Blog", updated.Title)
	assert.Equal(t, "https://blog.example.com", updated.URL)
	assert.False(t, updated.IsActive)
	assert.Equal(t, []string{link.ShortCode}, cache.evicts)
}

func TestLinkUpdateRejectsForeignLink(t *testing.T) {
	store := newFakeLinkStore()
	svc := NewLinkService(store, newFakeLinkCache(), 7)

	link, err := svc.Create(context.Background(), 7, &model.CreateLinkRequest{
		Title: "Blog",
		URL:   "https://blog.example.com",
	})
	require.NoError(t, err)

	title := "stolen"
	_, err = svc.Update(context.Background(), 8, link.ID, &model.UpdateLinkRequest{Title: &title})
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
}

func TestLinkDeleteEvictsCache(t *testing.T) {
	store := newFakeLinkStore()
	cache := newFakeLinkCache()
	svc := NewLinkService(store, cache, 7)

	link, err := svc.Create(context.Background(), 7, &model.CreateLinkRequest{
		Title: "Blog",
		URL:   "https://blog.example.com",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 7, link.ID))
	assert.Equal(t, []string{link.ShortCode}, cache.evicts)

	_, err = svc.ResolveByID(context.Background(), link.ID)
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
}

func TestLinkReorder(t *testing.T) {
	store := newFakeLinkStore()
	svc := NewLinkService(store, newFakeLinkCache(), 7)

	a, err := svc.Create(context.Background(), 7, &model.CreateLinkRequest{Title: "A", URL: "https://a.example.com"})
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), 7, &model.CreateLinkRequest{Title: "B", URL: "https://b.example.com"})
	require.NoError(t, err)

	links, err := svc.Reorder(context.Background(), 7, []model.LinkOrder{
		{ID: a.ID, Position: 1},
		{ID: b.ID, Position: 0},
	})
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, 1, store.links[a.ID].Position)
	assert.Equal(t, 0, store.links[b.ID].Position)
}

func TestLinkReorderIsAllOrNothing(t *testing.T) {
	store := newFakeLinkStore()
	svc := NewLinkService(store, newFakeLinkCache(), 7)

	a, err := svc.Create(context.Background(), 7, &model.CreateLinkRequest{Title: "A", URL: "https://a.example.com"})
	require.NoError(t, err)

	_, err = svc.Reorder(context.Background(), 7, []model.LinkOrder{
		{ID: a.ID, Position: 5},
		{ID: 999, Position: 0},
	})
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
	assert.Equal(t, 0, store.links[a.ID].Position)
}

func TestResolveByShortCodeFillsCache(t *testing.T) {
	store := newFakeLinkStore()
	cache := newFakeLinkCache()
	svc := NewLinkService(store, cache, 7)

	link, err := svc.Create(context.Background(), 7, &model.CreateLinkRequest{
		Title: "Blog",
		URL:   "https://blog.example.com",
	})
	require.NoError(t, err)

	got, err := svc.ResolveByShortCode(context.Background(), link.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, link.ID, got.ID)
	assert.Equal(t, 1, cache.sets)

	// Second resolve is served from the cache.
	got, err = svc.ResolveByShortCode(context.Background(), link.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, link.ID, got.ID)
	assert.Equal(t, 1, cache.sets)
}

func TestResolveByShortCodeInactiveIsNotFound(t *testing.T) {
	store := newFakeLinkStore()
	svc := NewLinkService(store, newFakeLinkCache(), 7)

	link, err := svc.Create(context.Background(), 7, &model.CreateLinkRequest{
		Title: "Blog",
		URL:   "https://blog.example.com",
	})
	require.NoError(t, err)

	inactive := false
	_, err = svc.Update(context.Background(), 7, link.ID, &model.UpdateLinkRequest{IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.ResolveByShortCode(context.Background(), link.ShortCode)
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
}

func TestResolveByShortCodeSurvivesCacheFailure(t *testing.T) {
	store := newFakeLinkStore()
	cache := newFakeLinkCache()
	cache.getErr = assert.AnError
	svc := NewLinkService(store, cache, 7)

	link, err := svc.Create(context.Background(), 7, &model.CreateLinkRequest{
		Title: "Blog",
		URL:   "https://blog.example.com",
	})
	require.NoError(t, err)

	got, err := svc.ResolveByShortCode(context.Background(), link.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, link.ID, got.ID)
}
