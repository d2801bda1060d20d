// Package pdf merender struk dan invoice sederhana dengan fpdf.
package pdf

import (
	"bytes"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

// Field adalah pasangan label-nilai, dipakai untuk identitas dokumen dan baris total.
type Field struct {
	Label string
	Value string
}

// Table adalah tabel rincian; Widths dalam milimeter dan Align per kolom ("L", "C", "R").
type Table struct {
	Headers []string
	Widths  []float64
	Align   []string
	Rows    [][]string
}

type Document struct {
	Title    string
	Subtitle string
	Fields   []Field
	Table    Table
	Totals   []Field
	Footer   string
	// Receipt memakai kertas thermal 80mm, selain itu A4.
	Receipt bool
}

const lineHeight = 6

// Render menghasilkan isi berkas PDF.
func Render(doc Document) ([]byte, error) {
	var p *fpdf.Fpdf
	margin := 15.0
	if doc.Receipt {
		height := 90.0 + float64(len(doc.Table.Rows)+len(doc.Fields)+len(doc.Totals))*lineHeight
		p = fpdf.NewCustom(&fpdf.InitType{
			UnitStr: "mm",
			Size:    fpdf.SizeType{Wd: 80, Ht: height},
		})
		margin = 4
	} else {
		p = fpdf.New("P", "mm", "A4", "")
	}
	p.SetMargins(margin, margin, margin)
	p.SetAutoPageBreak(true, margin)
	p.AddPage()
	pageW, _ := p.GetPageSize()
	contentW := pageW - 2*margin

	titleSize, bodySize := 16.0, 10.0
	if doc.Receipt {
		titleSize, bodySize = 11, 7
	}

	p.SetFont("Helvetica", "B", titleSize)
	p.CellFormat(contentW, lineHeight+2, doc.Title, "", 1, "C", false, 0, "")
	if doc.Subtitle != "" {
		p.SetFont("Helvetica", "", bodySize)
		p.CellFormat(contentW, lineHeight, doc.Subtitle, "", 1, "C", false, 0, "")
	}
	p.Ln(2)

	p.SetFont("Helvetica", "", bodySize)
	labelW := contentW * 0.35
	for _, f := range doc.Fields {
		p.CellFormat(labelW, lineHeight, f.Label, "", 0, "L", false, 0, "")
		p.CellFormat(contentW-labelW, lineHeight, ": "+f.Value, "", 1, "L", false, 0, "")
	}
	p.Ln(2)

	if len(doc.Table.Headers) > 0 {
		widths := scaleWidths(doc.Table.Widths, len(doc.Table.Headers), contentW)
		p.SetFont("Helvetica", "B", bodySize)
		p.SetFillColor(230, 240, 255)
		for i, h := range doc.Table.Headers {
			p.CellFormat(widths[i], lineHeight, h, "1", 0, "C", true, 0, "")
		}
		p.Ln(-1)

		p.SetFont("Helvetica", "", bodySize)
		for _, row := range doc.Table.Rows {
			for i := range doc.Table.Headers {
				cell := ""
				if i < len(row) {
					cell = row[i]
				}
				p.CellFormat(widths[i], lineHeight, cell, "1", 0, alignAt(doc.Table.Align, i), false, 0, "")
			}
			p.Ln(-1)
		}
		p.Ln(2)
	}

	p.SetFont("Helvetica", "B", bodySize)
	for _, f := range doc.Totals {
		p.CellFormat(contentW*0.6, lineHeight, f.Label, "", 0, "R", false, 0, "")
		p.CellFormat(contentW*0.4, lineHeight, f.Value, "", 1, "R", false, 0, "")
	}

	if doc.Footer != "" {
		p.Ln(4)
		p.SetFont("Helvetica", "I", bodySize)
		p.MultiCell(contentW, lineHeight, doc.Footer, "", "C", false)
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "gagal membuat PDF")
	}
	return buf.Bytes(), nil
}

// scaleWidths menyesuaikan lebar kolom dengan lebar halaman; tanpa Widths kolom dibagi rata.
func scaleWidths(widths []float64, n int, total float64) []float64 {
	out := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		w := 1.0
		if i < len(widths) && widths[i] > 0 {
			w = widths[i]
		}
		out[i] = w
		sum += w
	}
	for i := range out {
		out[i] = out[i] / sum * total
	}
	return out
}

func alignAt(align []string, i int) string {
	if i < len(align) && align[i] != "" {
		return align[i]
	}
	return "L"
}
