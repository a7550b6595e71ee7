package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/scriptura/internal/database/booknames"
	"github.com/mrlokans/scriptura/internal/database/metadata"
	"github.com/mrlokans/scriptura/internal/database/translations"
	"github.com/mrlokans/scriptura/internal/database/verses"
	"github.com/mrlokans/scriptura/internal/entities"
)

// DefaultRefreshInterval is the staleness window after which the cached
// translation catalog is refreshed from the remote service.
const DefaultRefreshInterval = 7 * 24 * time.Hour

// TranslationService owns the translation lifecycle: the merged catalog of
// available and downloaded translations, the staleness-gated refresh, and the
// download/remove flows. The in-memory partitions are the source of truth for
// callers; storage reads at construction time degrade to empty lists.
type TranslationService struct {
	db              *gorm.DB
	remote          RemoteTranslationService
	refreshInterval time.Duration

	translationsRepo *translations.Repository
	metadataRepo     *metadata.Repository

	mu         sync.RWMutex
	available  []entities.TranslationInfo
	downloaded []entities.TranslationInfo
	catalog    map[string]bool // short names seen in the last successful catalog fetch
	sideLoaded map[string]bool // installed locally, never seen in any catalog
}

// NewTranslationService creates the service and seeds its partitions from the
// persisted translation list. A storage failure here logs and leaves both
// partitions empty rather than failing construction.
func NewTranslationService(db *gorm.DB, remote RemoteTranslationService, refreshInterval time.Duration) *TranslationService {
	if refreshInterval <= 0 {
		refreshInterval = DefaultRefreshInterval
	}
	s := &TranslationService{
		db:               db,
		remote:           remote,
		refreshInterval:  refreshInterval,
		translationsRepo: translations.NewRepository(db),
		metadataRepo:     metadata.NewRepository(db),
		catalog:          make(map[string]bool),
		sideLoaded:       make(map[string]bool),
	}

	persisted, err := s.translationsRepo.ReadAll()
	if err != nil {
		log.Printf("Translation service: failed to load persisted translations, starting empty: %v", err)
		persisted = nil
	}
	s.UpdateTranslations(persisted)

	return s
}

// Available returns the translations known from the catalog but not
// downloaded, sorted by name.
func (s *TranslationService) Available() []entities.TranslationInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.TranslationInfo, len(s.available))
	copy(out, s.available)
	return out
}

// Downloaded returns the installed translations, sorted by name.
func (s *TranslationService) Downloaded() []entities.TranslationInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.TranslationInfo, len(s.downloaded))
	copy(out, s.downloaded)
	return out
}

// Find looks a translation up by short name across both partitions.
func (s *TranslationService) Find(shortName string) (entities.TranslationInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, info := range s.downloaded {
		if info.ShortName == shortName {
			return info, true
		}
	}
	for _, info := range s.available {
		if info.ShortName == shortName {
			return info, true
		}
	}
	return entities.TranslationInfo{}, false
}

// UpdateTranslations replaces both partitions from a raw list. Duplicate
// short names are de-duplicated keeping the last occurrence, then the list is
// partitioned by the downloaded flag and each partition sorted by name.
func (s *TranslationService) UpdateTranslations(list []entities.TranslationInfo) {
	seen := make(map[string]int, len(list))
	deduped := make([]entities.TranslationInfo, 0, len(list))
	for _, info := range list {
		if i, ok := seen[info.ShortName]; ok {
			deduped[i] = info
			continue
		}
		seen[info.ShortName] = len(deduped)
		deduped = append(deduped, info)
	}

	var available, downloaded []entities.TranslationInfo
	for _, info := range deduped {
		if info.Downloaded {
			downloaded = append(downloaded, info)
		} else {
			available = append(available, info)
		}
	}
	sort.Slice(available, func(i, j int) bool { return available[i].Name < available[j].Name })
	sort.Slice(downloaded, func(i, j int) bool { return downloaded[i].Name < downloaded[j].Name })

	s.mu.Lock()
	s.available = available
	s.downloaded = downloaded
	s.mu.Unlock()
}

func (s *TranslationService) fullList() []entities.TranslationInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.TranslationInfo, 0, len(s.available)+len(s.downloaded))
	out = append(out, s.available...)
	out = append(out, s.downloaded...)
	return out
}

func (s *TranslationService) catalogStale() bool {
	lastRefresh, err := s.metadataRepo.ReadInt64(metadata.KeyTranslationListRefreshTimestamp, 0)
	if err != nil {
		log.Printf("Translation service: failed to read refresh timestamp, refreshing: %v", err)
		return true
	}
	return time.Now().UnixMilli()-lastRefresh > s.refreshInterval.Milliseconds()
}

// Reload refreshes the catalog from the remote service when forced or when
// the last refresh is older than the staleness window. A fetch failure is
// swallowed and the last persisted list stays in effect.
func (s *TranslationService) Reload(ctx context.Context, forceRefresh bool) error {
	if !forceRefresh && !s.catalogStale() {
		return nil
	}

	remoteList, err := s.remote.FetchTranslations(ctx)
	if err != nil {
		log.Printf("Translation service: catalog fetch failed, keeping persisted list: %v", err)
		return nil
	}

	merged, catalog := s.merge(remoteList)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := translations.NewRepository(tx).Replace(merged); err != nil {
			return err
		}
		return metadata.NewRepository(tx).SaveInt64(metadata.KeyTranslationListRefreshTimestamp, time.Now().UnixMilli())
	})
	if err != nil {
		return fmt.Errorf("failed to persist merged translation list: %w", err)
	}

	s.mu.Lock()
	s.catalog = catalog
	for shortName := range catalog {
		delete(s.sideLoaded, shortName)
	}
	s.mu.Unlock()

	s.UpdateTranslations(merged)
	return nil
}

// merge combines the remote catalog with the current partitions: a local
// downloaded copy wins over its remote entry, other remote entries are
// adopted as-is, non-downloaded locals absent from the remote list are
// dropped, and downloaded locals absent from the remote list are retained.
func (s *TranslationService) merge(remoteList []entities.TranslationInfo) ([]entities.TranslationInfo, map[string]bool) {
	downloaded := s.Downloaded()
	downloadedByName := make(map[string]entities.TranslationInfo, len(downloaded))
	for _, info := range downloaded {
		downloadedByName[info.ShortName] = info
	}

	catalog := make(map[string]bool, len(remoteList))
	merged := make([]entities.TranslationInfo, 0, len(remoteList)+len(downloaded))
	for _, remote := range remoteList {
		catalog[remote.ShortName] = true
		if local, ok := downloadedByName[remote.ShortName]; ok {
			merged = append(merged, local)
		} else {
			remote.Downloaded = false
			merged = append(merged, remote)
		}
	}
	for _, local := range downloaded {
		if !catalog[local.ShortName] {
			merged = append(merged, local)
		}
	}
	return merged, catalog
}

// Download fetches a translation's content and installs it. The progress
// channel, when given, receives 0-100 and is closed when the operation ends,
// success or failure. The in-memory partitions change only after the install
// transaction commits.
func (s *TranslationService) Download(ctx context.Context, progress chan<- int, info entities.TranslationInfo) error {
	if progress != nil {
		defer close(progress)
	}

	payload, err := s.remote.FetchTranslation(ctx, progress, info)
	if err != nil {
		return fmt.Errorf("failed to fetch translation %s: %w", info.ShortName, err)
	}

	if err := s.install(info, payload); err != nil {
		return err
	}

	if err := s.remote.RemoveTranslationCache(info); err != nil {
		log.Printf("Translation service: failed to remove download cache for %s: %v", info.ShortName, err)
	}

	reportProgress(progress, 100)
	return nil
}

// InstallLocal installs a side-loaded translation payload. The entry is
// treated as purely local until a catalog merge mentions its short name.
func (s *TranslationService) InstallLocal(info entities.TranslationInfo, payload *TranslationPayload) error {
	if err := s.install(info, payload); err != nil {
		return err
	}
	s.mu.Lock()
	if !s.catalog[info.ShortName] {
		s.sideLoaded[info.ShortName] = true
	}
	s.mu.Unlock()
	return nil
}

// install writes book names, the translation row, and all verses in one
// transaction, then updates the partitions. A translation is never marked
// downloaded without non-empty backing content.
func (s *TranslationService) install(info entities.TranslationInfo, payload *TranslationPayload) error {
	if payload == nil || len(payload.BookNames) == 0 || len(payload.Verses) == 0 {
		return fmt.Errorf("translation %s payload has no content", info.ShortName)
	}
	if len(payload.BookNames) != len(payload.BookShortNames) {
		return fmt.Errorf("translation %s payload book name count mismatch", info.ShortName)
	}

	info.Downloaded = true
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := booknames.NewRepository(tx).Save(info.ShortName, payload.BookNames, payload.BookShortNames); err != nil {
			return err
		}
		if err := translations.NewRepository(tx).Save(info); err != nil {
			return err
		}
		versesRepo := verses.NewRepository(tx)
		if err := versesRepo.CreateTable(info.ShortName); err != nil {
			return err
		}
		return versesRepo.Save(info.ShortName, payload.Verses)
	})
	if err != nil {
		return fmt.Errorf("failed to install translation %s: %w", info.ShortName, err)
	}

	list := make([]entities.TranslationInfo, 0, len(s.fullList())+1)
	list = append(list, s.fullList()...)
	list = append(list, info) // de-duplication keeps this last occurrence
	s.UpdateTranslations(list)

	log.Printf("Translation service: installed %s (%d books)", info.ShortName, len(payload.BookNames))
	return nil
}

// Remove uninstalls a translation: book names and the verse table go away in
// one transaction. The translation row is deleted only when the entry was
// purely local and never in the remote catalog; otherwise it is flipped to
// downloaded=false so it reappears under available.
func (s *TranslationService) Remove(info entities.TranslationInfo) error {
	s.mu.RLock()
	pureLocal := s.sideLoaded[info.ShortName] && !s.catalog[info.ShortName]
	s.mu.RUnlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := booknames.NewRepository(tx).Remove(info.ShortName); err != nil {
			return err
		}
		if err := verses.NewRepository(tx).RemoveTable(info.ShortName); err != nil {
			return err
		}
		translationsRepo := translations.NewRepository(tx)
		if pureLocal {
			return translationsRepo.Delete(info.ShortName)
		}
		info.Downloaded = false
		return translationsRepo.Save(info)
	})
	if err != nil {
		return fmt.Errorf("failed to remove translation %s: %w", info.ShortName, err)
	}

	list := make([]entities.TranslationInfo, 0, len(s.fullList()))
	for _, entry := range s.fullList() {
		if entry.ShortName != info.ShortName {
			list = append(list, entry)
		}
	}
	if !pureLocal {
		info.Downloaded = false
		list = append(list, info)
	}
	s.UpdateTranslations(list)

	s.mu.Lock()
	delete(s.sideLoaded, info.ShortName)
	s.mu.Unlock()

	log.Printf("Translation service: removed %s", info.ShortName)
	return nil
}
