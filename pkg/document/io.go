package document

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cypherview/pkg/errors"
)

// Read decodes a document from r. Besides the plain document shape it
// accepts a Neo4j HTTP transaction response, taking the graph of the first
// row of the first result.
//
// Read does not close r.
func Read(r io.Reader) (*Document, error) {
	var raw struct {
		Document
		Results []struct {
			Data []struct {
				Graph *Document `json:"graph"`
			} `json:"data"`
		} `json:"results"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode document")
	}
	if len(raw.Results) > 0 {
		res := raw.Results[0]
		if len(res.Data) == 0 || res.Data[0].Graph == nil {
			return &Document{}, nil
		}
		return res.Data[0].Graph, nil
	}
	return &raw.Document, nil
}

// Write encodes d as indented JSON to w.
func Write(w io.Writer, d *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Import reads a document from the file at path, or from stdin when path
// is "-".
func Import(path string) (*Document, error) {
	if path == "-" {
		return Read(os.Stdin)
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Export writes d to the file at path, or to stdout when path is "-".
func Export(d *Document, path string) error {
	if path == "-" {
		return Write(os.Stdout, d)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, d)
}
