package tokenize

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"unicode"

	"github.com/gomlx/go-textalign/api"
	"github.com/gomlx/go-textalign/operators"
	"github.com/pkg/errors"
)

// DictOptions configures the dictionary tokenizer.
type DictOptions struct {
	// Words of the dictionary.
	Words []string `json:"words,omitempty" yaml:"words,omitempty"`

	// Path to a file with one word per line, added to Words. Empty lines and lines starting with "#" are
	// skipped.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Shortest selects the shortest dictionary match at each position, instead of the longest.
	Shortest bool `json:"shortest,omitempty" yaml:"shortest,omitempty"`
}

// trie of code points.
type trie struct {
	children map[rune]*trie
	word     bool
}

func (t *trie) insert(word string) {
	node := t
	for _, r := range word {
		if node.children == nil {
			node.children = make(map[rune]*trie)
		}
		child, found := node.children[r]
		if !found {
			child = &trie{}
			node.children[r] = child
		}
		node = child
	}
	node.word = true
}

// match returns the length, in code points, of the dictionary word starting at rs[0] (the longest or the
// shortest one), or 0 if there is none.
func (t *trie) match(rs []rune, shortest bool) int {
	node, length := t, 0
	for ii, r := range rs {
		node = node.children[r]
		if node == nil {
			break
		}
		if node.word {
			length = ii + 1
			if shortest {
				break
			}
		}
	}
	return length
}

// dictSegmenter does a greedy left-to-right dictionary match: each position takes the longest (or shortest)
// word starting there. Runs of characters not covered by any word are kept together as one token, and
// whitespace separates tokens.
type dictSegmenter struct {
	root     *trie
	shortest bool
}

func (d *dictSegmenter) Segment(text string) []string {
	var tokens []string
	var pending []rune
	flush := func() {
		if len(pending) > 0 {
			tokens = append(tokens, string(pending))
			pending = pending[:0]
		}
	}

	rs := []rune(text)
	for ii := 0; ii < len(rs); {
		if unicode.IsSpace(rs[ii]) {
			flush()
			ii++
			continue
		}
		n := d.root.match(rs[ii:], d.shortest)
		if n == 0 {
			pending = append(pending, rs[ii])
			ii++
			continue
		}
		flush()
		tokens = append(tokens, string(rs[ii:ii+n]))
		ii += n
	}
	flush()
	return tokens
}

// NewDictTokenizer returns a dictionary tokenizer. It fails if the word file can't be read or the
// dictionary ends up empty.
func NewDictTokenizer(options DictOptions) (*Tokenizer, error) {
	root := &trie{}
	count := 0
	add := func(word string) {
		word = strings.TrimSpace(word)
		if word != "" {
			root.insert(word)
			count++
		}
	}
	for _, word := range options.Words {
		add(word)
	}
	if options.Path != "" {
		if err := readWords(options.Path, add); err != nil {
			return nil, err
		}
	}
	if count == 0 {
		return nil, errors.Errorf("%s: empty dictionary", DictTokenizerName)
	}
	return New(DictTokenizerName, &dictSegmenter{root: root, shortest: options.Shortest}, options), nil
}

// NewDictTokenizerFromOptions implements the registry factory.
func NewDictTokenizerFromOptions(raw json.RawMessage) (api.Operator, error) {
	var options DictOptions
	if err := operators.DecodeOptions(raw, &options); err != nil {
		return nil, err
	}
	return NewDictTokenizer(options)
}

func readWords(path string, add func(string)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open dictionary %q", path)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		add(line)
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "failed to read dictionary %q", path)
	}
	return nil
}
