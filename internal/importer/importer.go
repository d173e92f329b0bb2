package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/deckard-app/deckard-api/internal/domain"
	"github.com/deckard-app/deckard-api/internal/platform/logger"
	"github.com/deckard-app/deckard-api/internal/store"
)

// ErrDeckNotOwned indicates the target deck belongs to another user.
var ErrDeckNotOwned = errors.New("unauthorized access: deck not owned by user")

// Result summarizes one import run. Errors holds per-file and per-card
// failures; a partial import is still a result, not an error.
type Result struct {
	Source       string   `json:"source"`
	FilesScanned int      `json:"files_scanned"`
	CardsParsed  int      `json:"cards_parsed"`
	CardsCreated int      `json:"cards_created"`
	Errors       []string `json:"errors,omitempty"`
}

// Importer scans markdown card sources and creates the parsed cards in a deck.
type Importer struct {
	deckStore store.DeckStore
	cardStore store.CardStore
	cacheDir  string
	logger    *slog.Logger
}

// NewImporter creates an Importer. cacheDir is where git sources are cloned;
// it is created on first use.
func NewImporter(
	deckStore store.DeckStore,
	cardStore store.CardStore,
	cacheDir string,
	log *slog.Logger,
) *Importer {
	if deckStore == nil {
		panic("deckStore cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	if cacheDir == "" {
		cacheDir = "repos"
	}

	return &Importer{
		deckStore: deckStore,
		cardStore: cardStore,
		cacheDir:  cacheDir,
		logger:    log.With(slog.String("component", "importer")),
	}
}

// ImportInto parses every markdown file under the source and creates the
// extracted cards in the given deck. The source may be a local directory,
// a single markdown file, or a git URL.
func (i *Importer) ImportInto(
	ctx context.Context,
	userID, deckID int64,
	source string,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, i.logger)

	deck, err := i.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.UserID != userID {
		return nil, ErrDeckNotOwned
	}

	scanPath := source
	if isGitSource(source) {
		if err := os.MkdirAll(i.cacheDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache dir %s: %w", i.cacheDir, err)
		}
		localPath, err := gitURLToLocalPath(i.cacheDir, source)
		if err != nil {
			return nil, err
		}
		if err := syncGitSource(ctx, source, localPath); err != nil {
			return nil, err
		}
		scanPath = localPath
	}

	result := &Result{Source: source}

	walkErr := filepath.WalkDir(scanPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		result.FilesScanned++
		parsed, parseErr := ParseFile(path)
		if parseErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("parsing %s: %v", path, parseErr))
			return nil
		}
		result.CardsParsed += len(parsed)

		for _, pc := range parsed {
			card, err := domain.NewCard(deckID, pc.Front, pc.Back)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("card in %s: %v", path, err))
				continue
			}
			if err := i.cardStore.Create(ctx, card); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("saving card from %s: %v", path, err))
				continue
			}
			result.CardsCreated++
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to scan source %s: %w", scanPath, walkErr)
	}

	log.Info("deck import complete",
		slog.Int64("deck_id", deckID),
		slog.String("source", source),
		slog.Int("files_scanned", result.FilesScanned),
		slog.Int("cards_created", result.CardsCreated),
		slog.Int("errors", len(result.Errors)))

	return result, nil
}
