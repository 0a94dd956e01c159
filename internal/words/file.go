package words

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fileDocument is the YAML schema of the word-list config file:
//
//	default_language: en
//	languages:
//	  en:
//	    ignored: [uh, umm, hmm]
//	    commands: [wait, stop]
//
// Missing fields are treated as empty; unknown fields are rejected so typos
// surface as reload warnings instead of silently dropped word lists.
type fileDocument struct {
	DefaultLanguage string                 `yaml:"default_language"`
	Languages       map[string]languageDoc `yaml:"languages"`
}

type languageDoc struct {
	Ignored  []string `yaml:"ignored"`
	Commands []string `yaml:"commands"`
}

// Load reads the YAML word-list file at path and returns a [Snapshot].
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: open %q: %w", path, err)
	}
	defer f.Close()

	snap, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("words: parse %q: %w", path, err)
	}
	return snap, nil
}

// LoadFromReader decodes a YAML word-list document from r. Useful in tests
// where documents are constructed from string literals.
func LoadFromReader(r io.Reader) (*Snapshot, error) {
	doc := fileDocument{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("words: decode yaml: %w", err)
	}

	snap := NewSnapshot(Normalize(doc.DefaultLanguage))
	for tag, lists := range doc.Languages {
		lang := Normalize(tag)
		if lang == "" {
			continue
		}
		if len(lists.Ignored) > 0 {
			snap.IgnoredByLang[lang] = NewWordSet(lists.Ignored)
		}
		if len(lists.Commands) > 0 {
			snap.CommandsByLang[lang] = NewWordSet(lists.Commands)
		}
	}
	return snap, nil
}
