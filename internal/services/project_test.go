package services

import (
	"context"
	"strings"
	"testing"

	"portfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProjectFixture() (*ProjectService, *fakeProjectStore, *fakeMedia) {
	store := newFakeProjectStore()
	media := newFakeMedia()
	return NewProjectService(store, media), store, media
}

func projectInput() models.ProjectInput {
	return models.ProjectInput{
		Title:       "Portfolio",
		Description: "My site",
		Link:        "https://example.com",
		Tags:        ParseTags("go, react"),
		Featured:    true,
	}
}

func pngUpload(name string) *models.Upload {
	return &models.Upload{
		Filename:    name,
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("\x89PNG"),
	}
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"go", "api", "web"}, ParseTags(" go, api,, web ,"))
	assert.Equal(t, []string{}, ParseTags(""))
}

func TestCheckImage(t *testing.T) {
	ok := pngUpload("shot.PNG")
	require.NoError(t, checkImage(ok))

	bad := pngUpload("shot.exe")
	err := checkImage(bad)
	kindOf(t, err, ErrInvalidInput)
	assert.Equal(t, "Images only! (jpeg, jpg, png, gif, webp)", err.Error())

	wrongType := pngUpload("shot.png")
	wrongType.ContentType = "application/octet-stream"
	kindOf(t, checkImage(wrongType), ErrInvalidInput)

	big := pngUpload("shot.png")
	big.Size = MaxImageSize + 1
	kindOf(t, checkImage(big), ErrInvalidInput)
}

func TestProjectCreate_WithImage(t *testing.T) {
	svc, _, media := newProjectFixture()

	p, err := svc.Create(context.Background(), projectInput(), pngUpload("shot.png"))
	require.NoError(t, err)
	require.NotNil(t, p.Image)
	assert.True(t, media.has(p.Image.PublicID))
	assert.Equal(t, []string{"go", "react"}, p.Tags)
	assert.True(t, p.Featured)

	got, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Image, got.Image)
}

func TestProjectCreate_MissingFields(t *testing.T) {
	svc, _, media := newProjectFixture()
	in := projectInput()
	in.Link = " "

	_, err := svc.Create(context.Background(), in, pngUpload("shot.png"))
	kindOf(t, err, ErrMissingField)
	assert.Equal(t, "Please provide title, description, and link", err.Error())
	assert.Zero(t, media.count())
}

func TestProjectCreate_UploadFailure(t *testing.T) {
	svc, store, media := newProjectFixture()
	media.failUpload = true

	_, err := svc.Create(context.Background(), projectInput(), pngUpload("shot.png"))
	kindOf(t, err, ErrUpload)
	assert.Equal(t, "Failed to upload image", err.Error())
	list, _ := store.List(context.Background())
	assert.Empty(t, list)
}

func TestProjectCreate_CleansUpImageWhenStoreFails(t *testing.T) {
	svc, store, media := newProjectFixture()
	store.failSave = true

	_, err := svc.Create(context.Background(), projectInput(), pngUpload("shot.png"))
	kindOf(t, err, ErrStore)
	assert.Zero(t, media.count())
}

func TestProjectUpdate_ReplacesImage(t *testing.T) {
	svc, _, media := newProjectFixture()
	p, err := svc.Create(context.Background(), projectInput(), pngUpload("old.png"))
	require.NoError(t, err)
	oldID := p.Image.PublicID

	in := projectInput()
	in.Title = "Portfolio v2"
	in.Tags = nil
	in.Featured = false
	up, err := svc.Update(context.Background(), p.ID, in, pngUpload("new.png"))
	require.NoError(t, err)

	assert.Equal(t, "Portfolio v2", up.Title)
	assert.Equal(t, []string{"go", "react"}, up.Tags, "теги не передавали, они сохраняются")
	assert.False(t, up.Featured)
	assert.NotEqual(t, oldID, up.Image.PublicID)
	assert.False(t, media.has(oldID))
	assert.True(t, media.has(up.Image.PublicID))
}

func TestProjectUpdate_StoreFailureKeepsOldImage(t *testing.T) {
	svc, store, media := newProjectFixture()
	p, err := svc.Create(context.Background(), projectInput(), pngUpload("old.png"))
	require.NoError(t, err)

	store.failSave = true
	_, err = svc.Update(context.Background(), p.ID, projectInput(), pngUpload("new.png"))
	kindOf(t, err, ErrStore)

	assert.True(t, media.has(p.Image.PublicID))
	assert.Equal(t, 1, media.count())
}

func TestProjectUpdate_NotFound(t *testing.T) {
	svc, _, _ := newProjectFixture()

	_, err := svc.Update(context.Background(), "missing", projectInput(), nil)
	kindOf(t, err, ErrNotFound)
	assert.Equal(t, "Project not found", err.Error())
}

func TestProjectDelete_ContinuesWhenImageDeleteFails(t *testing.T) {
	svc, _, media := newProjectFixture()
	p, err := svc.Create(context.Background(), projectInput(), pngUpload("shot.png"))
	require.NoError(t, err)

	media.failDelete = true
	require.NoError(t, svc.Delete(context.Background(), p.ID))

	_, err = svc.Get(context.Background(), p.ID)
	kindOf(t, err, ErrNotFound)
}

func TestProjectDelete_StoreFailureKeepsImage(t *testing.T) {
	svc, store, media := newProjectFixture()
	p, err := svc.Create(context.Background(), projectInput(), pngUpload("shot.png"))
	require.NoError(t, err)

	store.failDelete = true
	err = svc.Delete(context.Background(), p.ID)
	kindOf(t, err, ErrStore)

	got, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, media.has(got.Image.PublicID), "проект остался, картинка тоже")
}

func TestProjectDelete_RemovesImage(t *testing.T) {
	svc, _, media := newProjectFixture()
	p, err := svc.Create(context.Background(), projectInput(), pngUpload("shot.png"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), p.ID))
	assert.False(t, media.has(p.Image.PublicID))
}
