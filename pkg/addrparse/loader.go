package addrparse

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/addrstat/addrstat/pkg/binreader"
	"github.com/addrstat/addrstat/pkg/crf"
	"github.com/addrstat/addrstat/pkg/graph"
	"github.com/addrstat/addrstat/pkg/trie"
	"github.com/charmbracelet/log"
)

// File names inside a model directory.
const (
	crfFileName         = "address_parser_crf.dat"
	vocabularyFileName  = "address_parser_vocab.trie"
	phrasesFileName     = "address_parser_phrases.dat"
	postalCodesFileName = "address_parser_postal_codes.dat"
)

// ErrDirectoryNotFound is returned when the model directory itself does
// not exist.
var ErrDirectoryNotFound = errors.New("addrparse: model directory not found")

// ErrMissingRequiredFile is returned when the directory exists but lacks
// the CRF model.
var ErrMissingRequiredFile = errors.New("addrparse: missing required CRF model file")

// LoadError wraps a load-time failure with the file it occurred in.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("addrparse: %s: %v", e.File, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// LoadFromDirectory opens dir and loads the CRF model plus every optional
// lexical resource present. Missing optional files simply leave the
// corresponding Model field nil (feature disabled); a missing CRF file or
// missing directory is an error.
func LoadFromDirectory(dir string) (*Model, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		log.Errorf("addrparse: model directory not found: %s", dir)
		return nil, ErrDirectoryNotFound
	}

	crfPath := filepath.Join(dir, crfFileName)
	crfModel, err := loadCRF(crfPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Errorf("addrparse: missing required CRF model file: %s", crfPath)
			return nil, ErrMissingRequiredFile
		}
		return nil, &LoadError{File: crfFileName, Err: err}
	}

	m := &Model{CRF: crfModel}

	vocab, err := loadOptionalTrie(filepath.Join(dir, vocabularyFileName))
	if err != nil {
		return nil, &LoadError{File: vocabularyFileName, Err: err}
	}
	if vocab == nil {
		log.Warnf("addrparse: no vocabulary file found, venue-detection features disabled")
	}
	m.Vocabulary = vocab

	if err := loadPhrases(dir, m); err != nil {
		return nil, err
	}
	if m.Phrases == nil {
		log.Warnf("addrparse: no phrases file found, dictionary-phrase features disabled")
	}
	if err := loadPostalAndComponents(dir, m); err != nil {
		return nil, err
	}
	if m.PostalCodes == nil {
		log.Warnf("addrparse: no postal-codes file found, postal-code context features disabled")
	}

	log.Debugf("addrparse: model loaded from %s", dir)
	return m, nil
}

func loadCRF(path string) (*crf.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return crf.Load(binreader.New(f))
}

// loadOptionalTrie returns (nil, nil) when path does not exist.
func loadOptionalTrie(path string) (trie.LookupTrie, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return trie.Load(f)
}

// readLengthPrefixedTrie reads a u32 byte length followed by that many
// bytes, which must be a complete trie.Load-compatible blob. Composite
// resource files (phrases, postal codes) length-prefix their embedded
// tries this way so the trie's own shape-sniffing never runs off the end
// of the file into unrelated trailing data.
func readLengthPrefixedTrie(r *binreader.Reader) (trie.LookupTrie, error) {
	n, err := r.U32()
	if err != nil {
		return nil, err
	}
	if remaining, ok := r.Remaining(); ok && uint64(n) > uint64(remaining) {
		return nil, fmt.Errorf("trie blob of %d bytes exceeds remaining %d bytes", n, remaining)
	}
	body, err := r.Bytes(int(n))
	if err != nil {
		return nil, err
	}
	return trie.Load(bytes.NewReader(body))
}

func loadPhrases(dir string, m *Model) error {
	path := filepath.Join(dir, phrasesFileName)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &LoadError{File: phrasesFileName, Err: err}
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return &LoadError{File: phrasesFileName, Err: err}
	}
	r := binreader.New(bytes.NewReader(body))

	phrases, err := readLengthPrefixedTrie(r)
	if err != nil {
		return &LoadError{File: phrasesFileName, Err: err}
	}
	count, err := r.U32()
	if err != nil {
		return &LoadError{File: phrasesFileName, Err: err}
	}
	types := make([]DictPhraseType, count)
	for i := range types {
		v, err := r.U16()
		if err != nil {
			return &LoadError{File: phrasesFileName, Err: err}
		}
		types[i] = DictPhraseType{Components: DictComponent(v)}
	}

	m.Phrases = phrases
	m.PhraseTypes = types
	return nil
}

func loadPostalAndComponents(dir string, m *Model) error {
	path := filepath.Join(dir, postalCodesFileName)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &LoadError{File: postalCodesFileName, Err: err}
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return &LoadError{File: postalCodesFileName, Err: err}
	}
	r := binreader.New(bytes.NewReader(body))

	postal, err := readLengthPrefixedTrie(r)
	if err != nil {
		return &LoadError{File: postalCodesFileName, Err: err}
	}
	g, err := graph.Read(r)
	if err != nil {
		return &LoadError{File: postalCodesFileName, Err: err}
	}
	components, err := readLengthPrefixedTrie(r)
	if err != nil {
		return &LoadError{File: postalCodesFileName, Err: err}
	}
	count, err := r.U32()
	if err != nil {
		return &LoadError{File: postalCodesFileName, Err: err}
	}
	types := make([]ComponentPhraseType, count)
	for i := range types {
		mask, err := r.U16()
		if err != nil {
			return &LoadError{File: postalCodesFileName, Err: err}
		}
		mostCommon, err := r.U16()
		if err != nil {
			return &LoadError{File: postalCodesFileName, Err: err}
		}
		types[i] = ComponentPhraseType{ComponentsMask: Boundary(mask), MostCommon: mostCommon}
	}

	m.PostalCodes = postal
	m.PostalCodeGraph = g
	m.ComponentPhrases = components
	m.ComponentPhraseTypes = types
	return nil
}
