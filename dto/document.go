package dto

// DocumentContent is what the raw-document-extraction collaborator
// returns for one file: the page text concatenated in order, plus any
// tables detected on the pages (each table is rows of cells, header
// row first).
type DocumentContent struct {
	Text   string
	Tables [][][]string
}
