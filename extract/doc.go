// Package extract detects construction-terminology candidates in
// unstructured Japanese text.
//
// The Extractor applies lexical rules in a fixed priority order over
// each line of a text block and returns deduplicated core.Candidate
// values. Segmentation is pluggable through the Segmenter interface:
// LexiconSegmenter matches known vocabulary longest-first, while
// PatternSegmenter falls back to maximal script-class runs. Extraction
// is purely lexical and never consults an embedding model, so repeated
// runs over the same input are byte-for-byte identical.
package extract
