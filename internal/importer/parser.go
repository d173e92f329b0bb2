// Package importer fills a deck with cards parsed from markdown sources.
// Sources are either server-local directories or git repositories cloned
// into a local cache. Card files use "Q:"/"A:" prefixed blocks separated by
// "---" lines.
package importer

import (
	"bufio"
	"io"
	"os"
	"strings"
)

const (
	frontPrefix = "Q:"
	backPrefix  = "A:"
)

// ParsedCard is the front/back pair extracted from one markdown block.
type ParsedCard struct {
	Front string
	Back  string
}

type parseState int

const (
	seeking parseState = iota
	readingFront
	readingBack
)

// ParseFile reads a file from the given path and extracts all cards.
func ParseFile(path string) ([]ParsedCard, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all cards. A card needs a
// non-empty front; a "Q:" line starts a new card, "---" ends the current one,
// and unprefixed lines continue the block they follow.
func Parse(r io.Reader) ([]ParsedCard, error) {
	scanner := bufio.NewScanner(r)
	var cards []ParsedCard
	var current ParsedCard
	var block []string
	state := seeking

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.Join(block, "\n")
		switch state {
		case readingFront:
			current.Front = content
		case readingBack:
			current.Back = content
		}
		block = nil
	}

	finishCard := func() {
		flushBlock()
		if current.Front != "" {
			cards = append(cards, current)
		}
		current = ParsedCard{}
		state = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		if line == "---" {
			finishCard()
			continue
		}

		switch {
		case strings.HasPrefix(line, frontPrefix):
			flushBlock()
			if state != seeking { // A new front always starts a new card
				finishCard()
			}
			state = readingFront
			block = append(block, trimPrefix(line, frontPrefix))
		case strings.HasPrefix(line, backPrefix):
			flushBlock()
			state = readingBack
			block = append(block, trimPrefix(line, backPrefix))
		default:
			if state != seeking {
				block = append(block, line)
			}
		}
	}

	finishCard() // Finish the very last card in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}

func trimPrefix(line, prefix string) string {
	content := line[len(prefix):]
	return strings.TrimPrefix(content, " ")
}
