package embedding

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const maxWordRunes = 100

// WordPieceTokenizer implements uncased BERT tokenization against a vocab.txt,
// the scheme all-MiniLM-L6-v2 was trained with.
type WordPieceTokenizer struct {
	vocab map[string]int64
	unkID int64
	clsID int64
	sepID int64
}

// LoadWordPieceTokenizer reads a vocab.txt (one token per line, line number = id).
func LoadWordPieceTokenizer(path string) (*WordPieceTokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vocab := make(map[string]int64)
	scanner := bufio.NewScanner(f)
	var id int64
	for scanner.Scan() {
		vocab[strings.TrimRight(scanner.Text(), "\r")] = id
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocab: %w", err)
	}
	return NewWordPieceTokenizer(vocab)
}

// NewWordPieceTokenizer builds a tokenizer from an in-memory vocabulary.
func NewWordPieceTokenizer(vocab map[string]int64) (*WordPieceTokenizer, error) {
	t := &WordPieceTokenizer{vocab: vocab}
	for name, dst := range map[string]*int64{"[UNK]": &t.unkID, "[CLS]": &t.clsID, "[SEP]": &t.sepID} {
		id, ok := vocab[name]
		if !ok {
			return nil, fmt.Errorf("vocab is missing %s", name)
		}
		*dst = id
	}
	return t, nil
}

// Tokenize produces [CLS] pieces... [SEP], truncated and zero-padded to maxTokens.
func (t *WordPieceTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	if maxTokens < 2 {
		maxTokens = 256
	}
	inputIDs = make([]int64, maxTokens)
	attentionMask = make([]int64, maxTokens)
	tokenTypeIDs = make([]int64, maxTokens)

	inputIDs[0] = t.clsID
	attentionMask[0] = 1
	pos := 1
	for _, word := range basicTokens(text) {
		for _, id := range t.pieces(word) {
			if pos >= maxTokens-1 {
				break
			}
			inputIDs[pos] = id
			attentionMask[pos] = 1
			pos++
		}
	}
	inputIDs[pos] = t.sepID
	attentionMask[pos] = 1
	return inputIDs, attentionMask, tokenTypeIDs
}

// pieces applies greedy longest-match-first WordPiece to one word.
func (t *WordPieceTokenizer) pieces(word string) []int64 {
	runes := []rune(word)
	if len(runes) > maxWordRunes {
		return []int64{t.unkID}
	}
	var ids []int64
	for start := 0; start < len(runes); {
		end := len(runes)
		found := int64(-1)
		for ; end > start; end-- {
			piece := string(runes[start:end])
			if start > 0 {
				piece = "##" + piece
			}
			if id, ok := t.vocab[piece]; ok {
				found = id
				break
			}
		}
		if found < 0 {
			return []int64{t.unkID}
		}
		ids = append(ids, found)
		start = end
	}
	return ids
}

// basicTokens lowercases, strips accents, and splits on whitespace and punctuation,
// keeping each punctuation rune as its own token.
func basicTokens(text string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range norm.NFD.String(strings.ToLower(text)) {
		switch {
		case unicode.Is(unicode.Mn, r), r == 0, r == unicode.ReplacementChar, unicode.IsControl(r) && !unicode.IsSpace(r):
			continue
		case unicode.IsSpace(r):
			flush()
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			flush()
			tokens = append(tokens, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}
