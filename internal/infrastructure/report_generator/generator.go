package report_generator

import (
	"fmt"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/kurochkinivan/cdr_converter/internal/domain"
)

const (
	titleHeight   = 14
	sectionHeight = 10
	lineHeight    = 6
)

var (
	titleProps   = props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center}
	sectionProps = props.Text{Size: 12, Style: fontstyle.Bold, Top: 3}
	headerProps  = props.Text{Size: 9, Style: fontstyle.Bold}
	cellProps    = props.Text{Size: 9}
)

type Generator struct{}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) GenerateReport(outputPath, timestamp string, result *domain.ProcessingResult) error {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	m.AddRows(text.NewRow(titleHeight, "Record conversion report", titleProps))
	m.AddRows(summaryRows(timestamp, result)...)

	m.AddRows(text.NewRow(sectionHeight, "Processed files", sectionProps))
	m.AddRows(fileRows(result.Files)...)

	for _, recordType := range result.RecordTypes() {
		title := fmt.Sprintf("Schema of record type %s (%s)", recordType.Key(), recordType)
		m.AddRows(text.NewRow(sectionHeight, title, sectionProps))
		m.AddRows(schemaRows(result.Schemas[recordType])...)
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate pdf: %w", err)
	}

	if err := doc.Save(outputPath); err != nil {
		return fmt.Errorf("failed to save pdf to %q: %w", outputPath, err)
	}

	return nil
}

func summaryRows(timestamp string, result *domain.ProcessingResult) []core.Row {
	pairs := [][2]string{
		{"Directory", result.Directory},
		{"Timestamp", timestamp},
		{"Trimmed", strconv.FormatBool(result.Trimmed)},
		{"Files", strconv.Itoa(len(result.Files))},
		{"Schemas", strconv.Itoa(len(result.Schemas))},
		{"Records", strconv.Itoa(len(result.Records))},
	}

	rows := make([]core.Row, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, keyValueRow(p[0], p[1]))
	}

	return rows
}

func fileRows(files []string) []core.Row {
	rows := make([]core.Row, 0, len(files)+1)
	rows = append(rows, row.New(lineHeight).Add(
		text.NewCol(1, "#", headerProps),
		text.NewCol(8, "File", headerProps),
		text.NewCol(3, "Record type", headerProps),
	))

	for i, name := range files {
		rows = append(rows, row.New(lineHeight).Add(
			text.NewCol(1, strconv.Itoa(i+1), cellProps),
			text.NewCol(8, name, cellProps),
			text.NewCol(3, domain.ClassifyRecordType(name).String(), cellProps),
		))
	}

	return rows
}

func schemaRows(schema *domain.Schema) []core.Row {
	fields := schema.Fields()

	rows := make([]core.Row, 0, len(fields)+1)
	rows = append(rows, row.New(lineHeight).Add(
		text.NewCol(6, "Field", headerProps),
		text.NewCol(6, "Type", headerProps),
	))

	for _, f := range fields {
		rows = append(rows, row.New(lineHeight).Add(
			text.NewCol(6, f.Name, cellProps),
			text.NewCol(6, f.Type, cellProps),
		))
	}

	return rows
}

func keyValueRow(key, value string) core.Row {
	return row.New(lineHeight).Add(
		col.New(3).Add(text.New(key, headerProps)),
		col.New(9).Add(text.New(value, cellProps)),
	)
}
