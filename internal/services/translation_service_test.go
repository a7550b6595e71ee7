package services

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/scriptura/internal/database/metadata"
	"github.com/mrlokans/scriptura/internal/database/verses"
	"github.com/mrlokans/scriptura/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	dbPath := "./test_services_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Metadata{},
		&entities.BookName{},
		&entities.TranslationInfo{},
		&entities.StrongNumberIndex{},
		&entities.StrongNumberReverseIndex{},
		&entities.StrongNumberWord{},
	)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

type fakeRemote struct {
	catalog    []entities.TranslationInfo
	catalogErr error
	payloads   map[string]*TranslationPayload
	fetchErr   error

	fetchCatalogCalls int
	removedCaches     []string
}

func (f *fakeRemote) FetchTranslations(ctx context.Context) ([]entities.TranslationInfo, error) {
	f.fetchCatalogCalls++
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.catalog, nil
}

func (f *fakeRemote) FetchTranslation(ctx context.Context, progress chan<- int, info entities.TranslationInfo) (*TranslationPayload, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	reportProgress(progress, 50)
	payload, ok := f.payloads[info.ShortName]
	if !ok {
		return nil, fmt.Errorf("no payload for %s", info.ShortName)
	}
	return payload, nil
}

func (f *fakeRemote) RemoveTranslationCache(info entities.TranslationInfo) error {
	f.removedCaches = append(f.removedCaches, info.ShortName)
	return nil
}

func testPayload() *TranslationPayload {
	return &TranslationPayload{
		BookNames:      []string{"Genesis"},
		BookShortNames: []string{"Gen"},
		Verses: map[verses.ChapterKey][]string{
			{BookIndex: 0, ChapterIndex: 0}: {"In the beginning God created the heaven and the earth."},
		},
	}
}

func shortNames(list []entities.TranslationInfo) []string {
	names := make([]string, 0, len(list))
	for _, info := range list {
		names = append(names, info.ShortName)
	}
	return names
}

func TestTranslationService_UpdateTranslationsPartitionsAndSorts(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	service := NewTranslationService(db, &fakeRemote{}, 0)
	service.UpdateTranslations([]entities.TranslationInfo{
		{ShortName: "WEB", Name: "World English Bible"},
		{ShortName: "KJV", Name: "King James Version", Downloaded: true},
		{ShortName: "ASV", Name: "American Standard Version"},
	})

	assert.Equal(t, []string{"ASV", "WEB"}, shortNames(service.Available()))
	assert.Equal(t, []string{"KJV"}, shortNames(service.Downloaded()))
}

func TestTranslationService_UpdateTranslationsDedupesKeepingLast(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	service := NewTranslationService(db, &fakeRemote{}, 0)
	service.UpdateTranslations([]entities.TranslationInfo{
		{ShortName: "KJV", Name: "King James Version"},
		{ShortName: "KJV", Name: "King James Version", Downloaded: true},
	})

	assert.Empty(t, service.Available())
	require.Len(t, service.Downloaded(), 1)
	assert.True(t, service.Downloaded()[0].Downloaded)
}

func TestTranslationService_ReloadMergesCatalog(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	remote := &fakeRemote{
		catalog: []entities.TranslationInfo{
			{ShortName: "KJV", Name: "King James Version"},
			{ShortName: "ASV", Name: "American Standard Version"},
		},
	}
	service := NewTranslationService(db, remote, 0)
	// Local state before the fetch: KJV downloaded, WEB known but not
	// downloaded and no longer in the catalog
	service.UpdateTranslations([]entities.TranslationInfo{
		{ShortName: "KJV", Name: "King James Version", Downloaded: true, Size: 4500000},
		{ShortName: "WEB", Name: "World English Bible"},
	})

	require.NoError(t, service.Reload(context.Background(), true))

	// The local downloaded copy wins over the catalog entry
	downloaded := service.Downloaded()
	require.Len(t, downloaded, 1)
	assert.Equal(t, "KJV", downloaded[0].ShortName)
	assert.Equal(t, int64(4500000), downloaded[0].Size)

	// The new catalog entry is adopted; the stale non-downloaded one is gone
	assert.Equal(t, []string{"ASV"}, shortNames(service.Available()))
}

func TestTranslationService_ReloadRetainsDownloadedAbsentFromCatalog(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	remote := &fakeRemote{
		catalog: []entities.TranslationInfo{{ShortName: "ASV", Name: "American Standard Version"}},
	}
	service := NewTranslationService(db, remote, 0)
	service.UpdateTranslations([]entities.TranslationInfo{
		{ShortName: "KJV", Name: "King James Version", Downloaded: true},
	})

	require.NoError(t, service.Reload(context.Background(), true))

	assert.Equal(t, []string{"KJV"}, shortNames(service.Downloaded()))
	assert.Equal(t, []string{"ASV"}, shortNames(service.Available()))
}

func TestTranslationService_ReloadSkipsWhenCatalogFresh(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	meta := metadata.NewRepository(db)
	require.NoError(t, meta.SaveInt64(metadata.KeyTranslationListRefreshTimestamp, time.Now().UnixMilli()))

	remote := &fakeRemote{catalog: []entities.TranslationInfo{{ShortName: "KJV"}}}
	service := NewTranslationService(db, remote, time.Hour)

	require.NoError(t, service.Reload(context.Background(), false))
	assert.Equal(t, 0, remote.fetchCatalogCalls)

	// Forcing bypasses the staleness gate
	require.NoError(t, service.Reload(context.Background(), true))
	assert.Equal(t, 1, remote.fetchCatalogCalls)
}

func TestTranslationService_ReloadRefreshesWhenStale(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	meta := metadata.NewRepository(db)
	stale := time.Now().Add(-2 * time.Hour).UnixMilli()
	require.NoError(t, meta.SaveInt64(metadata.KeyTranslationListRefreshTimestamp, stale))

	remote := &fakeRemote{catalog: []entities.TranslationInfo{{ShortName: "KJV", Name: "King James Version"}}}
	service := NewTranslationService(db, remote, time.Hour)

	require.NoError(t, service.Reload(context.Background(), false))
	assert.Equal(t, 1, remote.fetchCatalogCalls)
	assert.Equal(t, []string{"KJV"}, shortNames(service.Available()))

	// The refresh timestamp advanced, so the next reload is a no-op
	require.NoError(t, service.Reload(context.Background(), false))
	assert.Equal(t, 1, remote.fetchCatalogCalls)
}

func TestTranslationService_ReloadSwallowsFetchFailure(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	remote := &fakeRemote{catalogErr: fmt.Errorf("network down")}
	service := NewTranslationService(db, remote, 0)
	service.UpdateTranslations([]entities.TranslationInfo{{ShortName: "KJV", Name: "King James Version"}})

	require.NoError(t, service.Reload(context.Background(), true))

	// The previous list stays in effect
	assert.Equal(t, []string{"KJV"}, shortNames(service.Available()))
}

func TestTranslationService_DownloadInstalls(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	info := entities.TranslationInfo{ShortName: "KJV", Name: "King James Version"}
	remote := &fakeRemote{payloads: map[string]*TranslationPayload{"KJV": testPayload()}}
	service := NewTranslationService(db, remote, 0)
	service.UpdateTranslations([]entities.TranslationInfo{info})

	progress := make(chan int, 16)
	err := service.Download(context.Background(), progress, info)
	require.NoError(t, err)

	// The channel is closed by the service; drain to the close
	values := []int{}
	for value := range progress {
		values = append(values, value)
	}
	assert.Contains(t, values, 100)

	// The translation moved from available to downloaded
	assert.Empty(t, service.Available())
	assert.Equal(t, []string{"KJV"}, shortNames(service.Downloaded()))

	// Content is installed and readable
	stored, err := verses.NewRepository(db).Read("KJV", 0, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Contains(t, stored[0].Text.Text, "In the beginning")

	// The download cache was cleaned up after the install
	assert.Equal(t, []string{"KJV"}, remote.removedCaches)
}

func TestTranslationService_DownloadFailureClosesProgress(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	remote := &fakeRemote{fetchErr: fmt.Errorf("network down")}
	service := NewTranslationService(db, remote, 0)

	progress := make(chan int, 16)
	err := service.Download(context.Background(), progress, entities.TranslationInfo{ShortName: "KJV"})
	assert.Error(t, err)

	// Even on failure the channel closes, so a consumer loop terminates
	for range progress {
	}

	assert.Empty(t, service.Downloaded())
}

func TestTranslationService_InstallRejectsEmptyPayload(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	service := NewTranslationService(db, &fakeRemote{}, 0)
	info := entities.TranslationInfo{ShortName: "KJV"}

	assert.Error(t, service.InstallLocal(info, nil))
	assert.Error(t, service.InstallLocal(info, &TranslationPayload{}))
	assert.Error(t, service.InstallLocal(info, &TranslationPayload{
		BookNames:      []string{"Genesis"},
		BookShortNames: []string{"Gen", "Exo"},
		Verses:         testPayload().Verses,
	}))
	assert.Empty(t, service.Downloaded())
}

func TestTranslationService_RemovePurelyLocalDeletesEntry(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	service := NewTranslationService(db, &fakeRemote{}, 0)
	info := entities.TranslationInfo{ShortName: "SIDE", Name: "Side-loaded"}

	require.NoError(t, service.InstallLocal(info, testPayload()))
	assert.Equal(t, []string{"SIDE"}, shortNames(service.Downloaded()))

	require.NoError(t, service.Remove(info))

	// A never-cataloged entry disappears entirely
	assert.Empty(t, service.Downloaded())
	assert.Empty(t, service.Available())
	assert.False(t, verses.NewRepository(db).HasTable("SIDE"))
}

func TestTranslationService_RemoveCatalogKnownStaysAvailable(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	info := entities.TranslationInfo{ShortName: "KJV", Name: "King James Version"}
	remote := &fakeRemote{
		catalog:  []entities.TranslationInfo{info},
		payloads: map[string]*TranslationPayload{"KJV": testPayload()},
	}
	service := NewTranslationService(db, remote, 0)

	require.NoError(t, service.Reload(context.Background(), true))
	require.NoError(t, service.Download(context.Background(), nil, info))
	require.Equal(t, []string{"KJV"}, shortNames(service.Downloaded()))

	require.NoError(t, service.Remove(info))

	// The catalog still knows the translation, so it reappears as available
	assert.Empty(t, service.Downloaded())
	assert.Equal(t, []string{"KJV"}, shortNames(service.Available()))
	assert.False(t, verses.NewRepository(db).HasTable("KJV"))
}

func TestTranslationService_SideLoadAdoptedByCatalog(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	info := entities.TranslationInfo{ShortName: "KJV", Name: "King James Version"}
	remote := &fakeRemote{catalog: []entities.TranslationInfo{info}}
	service := NewTranslationService(db, remote, 0)

	require.NoError(t, service.InstallLocal(info, testPayload()))
	require.NoError(t, service.Reload(context.Background(), true))

	// Once the catalog mentions the short name, removal keeps the entry
	require.NoError(t, service.Remove(info))
	assert.Equal(t, []string{"KJV"}, shortNames(service.Available()))
}

func TestTranslationService_StateSurvivesRestart(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	service := NewTranslationService(db, &fakeRemote{}, 0)
	require.NoError(t, service.InstallLocal(entities.TranslationInfo{ShortName: "KJV", Name: "King James Version"}, testPayload()))

	// A new service instance over the same database sees the install
	restarted := NewTranslationService(db, &fakeRemote{}, 0)
	assert.Equal(t, []string{"KJV"}, shortNames(restarted.Downloaded()))
}

func TestTranslationService_Find(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	service := NewTranslationService(db, &fakeRemote{}, 0)
	service.UpdateTranslations([]entities.TranslationInfo{
		{ShortName: "KJV", Name: "King James Version", Downloaded: true},
		{ShortName: "WEB", Name: "World English Bible"},
	})

	info, ok := service.Find("WEB")
	assert.True(t, ok)
	assert.Equal(t, "World English Bible", info.Name)

	_, ok = service.Find("NOPE")
	assert.False(t, ok)
}
