// Package md converts documents written in the extended Markdown dialect
// (tabs, admonitions, conditional language blocks, heading anchors) into
// Mintlify markdown.
//
// The conversion is a three stage pipeline: Tokenize classifies source lines,
// Parse builds a Document tree and Print renders it. ToMint runs all three.
package md

import "errors"

// ToMint converts one document. filePath is only used to annotate errors and
// may be empty. Empty input yields empty output.
func ToMint(source, filePath string) (string, error) {
	if source == "" {
		return "", nil
	}

	doc, err := Parse(source)
	if err == nil {
		var out string
		out, err = Print(doc)
		if err == nil {
			return out, nil
		}
	}

	var perr *ParseError
	if errors.As(err, &perr) {
		return "", perr.WithFile(filePath)
	}
	return "", err
}
