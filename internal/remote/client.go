// Package remote implements the remote collaborator interfaces over plain
// HTTP + JSON: the translation catalog, per-translation content payloads, and
// the Strong's-number index and word dictionary.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mrlokans/scriptura/internal/database/verses"
	"github.com/mrlokans/scriptura/internal/entities"
	"github.com/mrlokans/scriptura/internal/services"
)

// Client talks to the static content host. Downloaded translation payloads
// are cached on disk until the install commits, so an interrupted install can
// be retried without refetching.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cacheDir   string
}

// NewClient creates a content client. cacheDir may be empty to disable the
// download cache.
func NewClient(baseURL, cacheDir string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		baseURL:  baseURL,
		cacheDir: cacheDir,
	}
}

var _ services.RemoteTranslationService = (*Client)(nil)
var _ services.RemoteStrongNumberService = (*Client)(nil)

type translationListJSON struct {
	Translations []translationJSON `json:"translations"`
}

type translationJSON struct {
	ShortName string `json:"shortName"`
	Name      string `json:"name"`
	Language  string `json:"language"`
	Size      int64  `json:"size"`
}

type translationPayloadJSON struct {
	BookNames      []string      `json:"bookNames"`
	BookShortNames []string      `json:"bookShortNames"`
	Verses         []chapterJSON `json:"verses"`
}

type chapterJSON struct {
	BookIndex    int      `json:"bookIndex"`
	ChapterIndex int      `json:"chapterIndex"`
	Verses       []string `json:"verses"`
}

type strongIndexesJSON struct {
	Indexes []strongIndexJSON `json:"indexes"`
}

type strongIndexJSON struct {
	BookIndex    int      `json:"bookIndex"`
	ChapterIndex int      `json:"chapterIndex"`
	VerseIndex   int      `json:"verseIndex"`
	Codes        []string `json:"codes"`
}

type strongWordsJSON struct {
	Words map[string]string `json:"words"`
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Scriptura/1.0 (https://github.com/mrlokans/scriptura)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}
	return resp, nil
}

// FetchTranslations downloads the translation catalog.
func (c *Client) FetchTranslations(ctx context.Context) ([]entities.TranslationInfo, error) {
	resp, err := c.get(ctx, "/list.json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var list translationListJSON
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode translation list: %w", err)
	}

	translations := make([]entities.TranslationInfo, 0, len(list.Translations))
	for _, t := range list.Translations {
		translations = append(translations, entities.TranslationInfo{
			ShortName: t.ShortName,
			Name:      t.Name,
			Language:  t.Language,
			Size:      t.Size,
		})
	}
	return translations, nil
}

// progressReader reports download progress as a 0-99 percentage of the
// expected size. The final 100 belongs to the caller, sent after the payload
// is fully processed.
type progressReader struct {
	reader   io.Reader
	total    int64
	read     int64
	progress chan<- int
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.reader.Read(buf)
	p.read += int64(n)
	if p.total > 0 && p.progress != nil {
		percent := int(p.read * 100 / p.total)
		if percent > 99 {
			percent = 99
		}
		select {
		case p.progress <- percent:
		default:
		}
	}
	return n, err
}

func (c *Client) cachePath(info entities.TranslationInfo) string {
	if c.cacheDir == "" {
		return ""
	}
	return filepath.Join(c.cacheDir, info.ShortName+".json")
}

// FetchTranslation downloads one translation's full payload, reporting
// progress while the body streams. The raw payload is kept in the cache
// directory until RemoveTranslationCache is called.
func (c *Client) FetchTranslation(ctx context.Context, progress chan<- int, info entities.TranslationInfo) (*services.TranslationPayload, error) {
	raw, err := c.readCached(info)
	if err != nil {
		resp, err := c.get(ctx, "/"+info.ShortName+".json")
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		total := resp.ContentLength
		if total <= 0 {
			total = info.Size
		}
		raw, err = io.ReadAll(&progressReader{reader: resp.Body, total: total, progress: progress})
		if err != nil {
			return nil, fmt.Errorf("download translation %s: %w", info.ShortName, err)
		}
		c.writeCache(info, raw)
	}

	var payload translationPayloadJSON
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode translation %s: %w", info.ShortName, err)
	}

	versesByChapter := make(map[verses.ChapterKey][]string, len(payload.Verses))
	for _, chapter := range payload.Verses {
		key := verses.ChapterKey{BookIndex: chapter.BookIndex, ChapterIndex: chapter.ChapterIndex}
		versesByChapter[key] = chapter.Verses
	}

	return &services.TranslationPayload{
		BookNames:      payload.BookNames,
		BookShortNames: payload.BookShortNames,
		Verses:         versesByChapter,
	}, nil
}

func (c *Client) readCached(info entities.TranslationInfo) ([]byte, error) {
	path := c.cachePath(info)
	if path == "" {
		return nil, os.ErrNotExist
	}
	return os.ReadFile(path)
}

func (c *Client) writeCache(info entities.TranslationInfo, raw []byte) {
	path := c.cachePath(info)
	if path == "" {
		return
	}
	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		return
	}
	// Best effort; a failed cache write only costs a refetch on retry.
	_ = os.WriteFile(path, raw, 0o644)
}

// RemoveTranslationCache deletes the cached payload of a translation. No-op
// when nothing is cached.
func (c *Client) RemoveTranslationCache(info entities.TranslationInfo) error {
	path := c.cachePath(info)
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// FetchIndexes downloads the Strong's-number verse index. The wire format
// carries the forward index only; the reverse index is derived here so the
// two can never disagree.
func (c *Client) FetchIndexes(ctx context.Context, progress chan<- int) (*services.StrongNumberIndexes, error) {
	resp, err := c.get(ctx, "/strongs/indexes.json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(&progressReader{reader: resp.Body, total: resp.ContentLength, progress: progress})
	if err != nil {
		return nil, fmt.Errorf("download Strong's indexes: %w", err)
	}

	var decoded strongIndexesJSON
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode Strong's indexes: %w", err)
	}

	forward := make(map[entities.VerseIndex][]string, len(decoded.Indexes))
	reverse := make(map[string][]entities.VerseIndex)
	for _, index := range decoded.Indexes {
		verseIndex := entities.VerseIndex{
			BookIndex:    index.BookIndex,
			ChapterIndex: index.ChapterIndex,
			VerseIndex:   index.VerseIndex,
		}
		forward[verseIndex] = index.Codes
		for _, code := range index.Codes {
			reverse[code] = append(reverse[code], verseIndex)
		}
	}

	return &services.StrongNumberIndexes{Forward: forward, Reverse: reverse}, nil
}

// FetchWords downloads the Strong's-number word dictionary.
func (c *Client) FetchWords(ctx context.Context, progress chan<- int) (map[string]string, error) {
	resp, err := c.get(ctx, "/strongs/words.json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(&progressReader{reader: resp.Body, total: resp.ContentLength, progress: progress})
	if err != nil {
		return nil, fmt.Errorf("download Strong's words: %w", err)
	}

	var decoded strongWordsJSON
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode Strong's words: %w", err)
	}
	return decoded.Words, nil
}
